package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bookdesk/bookdesk/internal/currency"
	"github.com/bookdesk/bookdesk/internal/pricing"
)

const profitableSnapshot = `{
	"costprice": "1000",
	"costCurrency": "INR",
	"sellingprice": 1200,
	"sellingCurrency": "INR",
	"summary": {"oldCost": "1000", "oldSelling": "1200", "oldNet": "INR 200", "oldMargin": "20.00%",
		"newCost": "1000", "newSelling": "1200", "newNet": "INR 200", "newMargin": "20.00%"}
}`

const lossSnapshot = `{"costprice": "1500", "costCurrency": "INR", "sellingprice": "1000", "sellingCurrency": "INR"}`

func TestQuoteCommandJSONFromStdin(t *testing.T) {
	cli := NewQuoteCLI(currency.DefaultPolicy())
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)

	exitCode := cli.QuoteCommand(context.Background(), QuoteOptions{
		Business:   "inr",
		JSONOutput: true,
		Stdin:      strings.NewReader(profitableSnapshot),
		Stdout:     stdout,
		Stderr:     stderr,
	})
	require.Zero(t, exitCode)
	require.Empty(t, stderr.String())

	var rendering pricing.Rendering
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &rendering))
	require.Equal(t, "INR 200", rendering.Net)
	require.Equal(t, "20.00%", rendering.Percent)
	require.Equal(t, pricing.AccessSnapshot, rendering.Mode.Access)
	require.NotNil(t, rendering.Summary)
}

func TestQuoteCommandHumanLossFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "booking.json")
	require.NoError(t, os.WriteFile(path, []byte(lossSnapshot), 0o600))

	cli := NewQuoteCLI(currency.DefaultPolicy())
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)

	exitCode := cli.QuoteCommand(context.Background(), QuoteOptions{
		Path:     path,
		Business: "INR",
		Stdout:   stdout,
		Stderr:   stderr,
	})
	require.Equal(t, 10, exitCode)
	require.Contains(t, stdout.String(), "Net: INR -500")
}

func TestQuoteCommandInvalidSnapshot(t *testing.T) {
	cli := NewQuoteCLI(currency.DefaultPolicy())
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)

	exitCode := cli.QuoteCommand(context.Background(), QuoteOptions{
		Stdin:  strings.NewReader("{not json"),
		Stdout: stdout,
		Stderr: stderr,
	})
	require.Equal(t, 1, exitCode)
	require.Contains(t, stderr.String(), "quote:")
	require.Empty(t, stdout.String())
}

func TestQuoteCommandMissingFile(t *testing.T) {
	cli := NewQuoteCLI(currency.DefaultPolicy())
	stderr := new(bytes.Buffer)

	exitCode := cli.QuoteCommand(context.Background(), QuoteOptions{
		Path:   filepath.Join(t.TempDir(), "missing.json"),
		Stdout: new(bytes.Buffer),
		Stderr: stderr,
	})
	require.Equal(t, 1, exitCode)
	require.Contains(t, stderr.String(), "open snapshot")
}

func TestIsLoss(t *testing.T) {
	require.True(t, isLoss("INR -5"))
	require.True(t, isLoss("-1,200.00"))
	require.False(t, isLoss("INR 0"))
	require.False(t, isLoss("1,200.00"))
}
