package pricing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/bookdesk/bookdesk/internal/currency"
	"github.com/bookdesk/bookdesk/internal/lineitem"
)

// Summary is the before/after comparison saved with a cancellation. Values are
// displayed exactly as stored.
type Summary struct {
	OldCost    string `json:"oldCost"`
	OldSelling string `json:"oldSelling"`
	OldNet     string `json:"oldNet"`
	OldMargin  string `json:"oldMargin"`
	NewCost    string `json:"newCost"`
	NewSelling string `json:"newSelling"`
	NewNet     string `json:"newNet"`
	NewMargin  string `json:"newMargin"`
}

// Snapshot is the flat saved form of a booking's amounts, keyed as
// costprice, costCurrency, costRoe, costInr, costNotes and so on per field.
type Snapshot struct {
	Values  map[string]string
	Summary *Summary
}

// UnmarshalJSON accepts string, number, boolean and null values; numbers keep
// their literal spelling.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("pricing: decode snapshot: %w", err)
	}
	s.Values = make(map[string]string, len(raw))
	s.Summary = nil
	for key, value := range raw {
		if key == "summary" {
			if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
				continue
			}
			var summary rawSummary
			if err := json.Unmarshal(value, &summary); err != nil {
				return fmt.Errorf("pricing: decode snapshot summary: %w", err)
			}
			s.Summary = summary.summary()
			continue
		}
		s.Values[key] = scalar(value)
	}
	return nil
}

// MarshalJSON writes the flat form back out.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Values)+1)
	for k, v := range s.Values {
		out[k] = v
	}
	if s.Summary != nil {
		out["summary"] = s.Summary
	}
	return json.Marshal(out)
}

type rawSummary map[string]json.RawMessage

func (r rawSummary) summary() *Summary {
	return &Summary{
		OldCost:    scalar(r["oldCost"]),
		OldSelling: scalar(r["oldSelling"]),
		OldNet:     scalar(r["oldNet"]),
		OldMargin:  scalar(r["oldMargin"]),
		NewCost:    scalar(r["newCost"]),
		NewSelling: scalar(r["newSelling"]),
		NewNet:     scalar(r["newNet"]),
		NewMargin:  scalar(r["newMargin"]),
	}
}

func scalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		return num.String()
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b)
	}
	return ""
}

// Items rebuilds the saved line items without recomputing anything.
func (s Snapshot) Items(business currency.Code, policy currency.Policy) *lineitem.Set {
	set := lineitem.NewSet(business, policy)
	for _, f := range lineitem.Fields {
		amount, hasAmount := s.Values[f.AmountKey()]
		code, hasCurrency := s.Values[f.CurrencyKey()]
		if !hasAmount && !hasCurrency {
			continue
		}
		it := &lineitem.Item{
			Currency:   currency.Normalize(code),
			Amount:     amount,
			ROE:        s.Values[f.ROEKey()],
			HomeAmount: s.Values[f.HomeKey()],
			Note:       s.Values[f.NotesKey()],
		}
		if it.Currency.IsZero() {
			it.Currency = business
		}
		it.NoteVisible = it.Note != ""
		set.Restore(f, it)
	}
	return set
}

// RenderSnapshot renders a cancelled booking read-only. Conversion columns are
// decided per field from the stored currency.
func RenderSnapshot(s Snapshot, business currency.Code, policy currency.Policy, advanced bool) Rendering {
	mode := Mode{Pricing: PricingSimple, Access: AccessSnapshot}
	if advanced {
		mode.Pricing = PricingAdvanced
	}
	return render(mode, s.Items(business, policy), s.Summary)
}

// Snapshot flattens the section into its saved form.
func (s *Section) Snapshot() Snapshot {
	out := Snapshot{Values: make(map[string]string)}
	for _, f := range s.items.Present() {
		it, _ := s.items.Lookup(f)
		out.Values[f.AmountKey()] = it.Amount
		out.Values[f.CurrencyKey()] = string(it.Currency)
		if it.RequiresConversion() {
			out.Values[f.ROEKey()] = it.ROE
			out.Values[f.HomeKey()] = it.HomeAmount
		}
		if it.Note != "" {
			out.Values[f.NotesKey()] = it.Note
		}
	}
	return out
}
