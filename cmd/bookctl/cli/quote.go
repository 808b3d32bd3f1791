package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bookdesk/bookdesk/internal/currency"
	"github.com/bookdesk/bookdesk/internal/pricing"
)

// QuoteCLI renders saved booking snapshots offline, the same way the amount
// section shows them read-only.
type QuoteCLI struct {
	policy currency.Policy
}

// NewQuoteCLI constructs a helper using the conversion policy.
func NewQuoteCLI(policy currency.Policy) *QuoteCLI {
	return &QuoteCLI{policy: policy}
}

// QuoteOptions defines available flags for the quote command.
type QuoteOptions struct {
	// Path of the snapshot JSON; "-" or empty reads Stdin.
	Path       string
	Business   string
	Advanced   bool
	JSONOutput bool
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
}

// QuoteCommand renders the snapshot and prints the rows and net. It exits 10
// when the booking runs at a loss.
func (c *QuoteCLI) QuoteCommand(ctx context.Context, opts QuoteOptions) int {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	business := currency.ResolveBusinessCurrency(currency.UserContext{BusinessCurrency: currency.Normalize(opts.Business)})

	snap, err := readSnapshot(opts)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "quote: %v\n", err)
		return 1
	}
	if err := ctx.Err(); err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "quote: %v\n", err)
		return 1
	}

	rendering := pricing.RenderSnapshot(snap, business, c.policy, opts.Advanced)
	if opts.JSONOutput {
		if err := json.NewEncoder(opts.Stdout).Encode(rendering); err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "quote: encode json: %v\n", err)
			return 1
		}
	} else {
		renderQuoteHuman(opts.Stdout, rendering)
	}
	if isLoss(rendering.Net) {
		return 10
	}
	return 0
}

func readSnapshot(opts QuoteOptions) (pricing.Snapshot, error) {
	var src io.Reader = opts.Stdin
	if opts.Path != "" && opts.Path != "-" {
		f, err := os.Open(opts.Path)
		if err != nil {
			return pricing.Snapshot{}, fmt.Errorf("open snapshot: %w", err)
		}
		defer f.Close()
		src = f
	}
	var snap pricing.Snapshot
	if err := json.NewDecoder(src).Decode(&snap); err != nil {
		return pricing.Snapshot{}, err
	}
	return snap, nil
}

func isLoss(net string) bool {
	if i := strings.IndexByte(net, ' '); i >= 0 {
		net = net[i+1:]
	}
	return strings.HasPrefix(net, "-")
}

func renderQuoteHuman(out io.Writer, r pricing.Rendering) {
	_, _ = fmt.Fprintf(out, "Booking amounts in %s (%s pricing)\n", r.BusinessCurrency, r.Mode.Pricing)
	for _, row := range r.Rows {
		line := fmt.Sprintf(" - %-22s %s %s", row.Field, row.Currency, row.Amount)
		if row.ShowConversion {
			line += fmt.Sprintf(" @ %s = %s", row.ROE, row.HomeAmount)
		}
		if row.NoteVisible && row.Note != "" {
			line += fmt.Sprintf(" (%s)", row.Note)
		}
		_, _ = fmt.Fprintln(out, line)
	}
	if r.CostPrice != "" {
		_, _ = fmt.Fprintf(out, "Cost price: %s\n", r.CostPrice)
	}
	_, _ = fmt.Fprintf(out, "Net: %s (%s)\n", r.Net, r.Percent)
	if s := r.Summary; s != nil {
		_, _ = fmt.Fprintf(out, "Before cancellation: cost %s, selling %s, net %s, margin %s\n", s.OldCost, s.OldSelling, s.OldNet, s.OldMargin)
		_, _ = fmt.Fprintf(out, "After cancellation: cost %s, selling %s, net %s, margin %s\n", s.NewCost, s.NewSelling, s.NewNet, s.NewMargin)
	}
}
