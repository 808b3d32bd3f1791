package pricing

import (
	"encoding/json"
	"testing"

	"github.com/bookdesk/bookdesk/internal/currency"
	"github.com/bookdesk/bookdesk/internal/lineitem"
)

const cancelledBooking = `{
	"costprice": 1000,
	"costCurrency": "INR",
	"sellingprice": "1200",
	"sellingCurrency": "USD",
	"sellingRoe": "83",
	"sellingInr": "99,600",
	"sellingNotes": "group fare",
	"vendorBaseAmount": "1000",
	"vendorBaseCurrency": "INR",
	"vendorIncentiveAmount": "100",
	"commissionAmount": "50",
	"sellingRefundAmount": "400",
	"sellingRefundCurrency": "INR",
	"sellingRefundRoe": "99",
	"chargebackAmount": null,
	"summary": {
		"oldCost": "1000", "oldSelling": "1200", "oldNet": "INR 200", "oldMargin": "20.00%",
		"newCost": 600, "newSelling": "800", "newNet": "INR 200", "newMargin": "33.33%"
	}
}`

func decodeSnapshot(t *testing.T) Snapshot {
	t.Helper()
	var snap Snapshot
	if err := json.Unmarshal([]byte(cancelledBooking), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return snap
}

func TestSnapshotDecode(t *testing.T) {
	snap := decodeSnapshot(t)
	if snap.Values["costprice"] != "1000" {
		t.Fatalf("numbers must keep their literal text, got %q", snap.Values["costprice"])
	}
	if snap.Values["chargebackAmount"] != "" {
		t.Fatalf("null must decode as empty")
	}
	if snap.Summary == nil || snap.Summary.OldNet != "INR 200" || snap.Summary.NewCost != "600" {
		t.Fatalf("unexpected summary %+v", snap.Summary)
	}
}

func TestRenderSnapshotSimple(t *testing.T) {
	snap := decodeSnapshot(t)
	r := RenderSnapshot(snap, currency.INR, currency.DefaultPolicy(), false)

	if r.Mode != (Mode{Pricing: PricingSimple, Access: AccessSnapshot}) {
		t.Fatalf("unexpected mode %+v", r.Mode)
	}
	if r.Summary == nil || r.Summary.OldNet != "INR 200" {
		t.Fatalf("summary must be rendered verbatim: %+v", r.Summary)
	}
	byField := map[lineitem.Field]Row{}
	for _, row := range r.Rows {
		byField[row.Field] = row
	}
	selling := byField[lineitem.FieldSelling]
	if !selling.ShowConversion || selling.HomeAmount != "99,600" || selling.ROE != "83" {
		t.Fatalf("stored conversion must render as saved: %+v", selling)
	}
	if !selling.NoteVisible || selling.Note != "group fare" {
		t.Fatalf("stored note missing: %+v", selling)
	}
	cost := byField[lineitem.FieldCost]
	if cost.ShowConversion {
		t.Fatalf("INR cost must not show conversion columns")
	}
	refund, ok := byField[lineitem.FieldSellingRefund]
	if !ok {
		t.Fatalf("refund rows must be rendered in snapshot mode")
	}
	if refund.ShowConversion || refund.ROE != "" {
		t.Fatalf("INR refund must hide its stray rate: %+v", refund)
	}
	if r.Net != "INR 200" || r.Percent != "20.00%" {
		t.Fatalf("unexpected net %q %q", r.Net, r.Percent)
	}
}

func TestRenderSnapshotAdvanced(t *testing.T) {
	snap := decodeSnapshot(t)
	r := RenderSnapshot(snap, currency.INR, currency.DefaultPolicy(), true)
	if r.CostPrice != "950.00" {
		t.Fatalf("unexpected cost price %q", r.CostPrice)
	}
	// selling is USD with a stored home amount of 99,600
	if r.Net != "98,650.00" {
		t.Fatalf("unexpected net %q", r.Net)
	}
}

func TestSectionSnapshotRoundTrip(t *testing.T) {
	s := NewSection(currency.INR, currency.DefaultPolicy())
	s.Apply(lineitem.Event{Field: lineitem.FieldSelling, Kind: lineitem.EventCurrency, Value: "USD"})
	s.Apply(amount(lineitem.FieldSelling, "15"))
	s.Apply(lineitem.Event{Field: lineitem.FieldSelling, Kind: lineitem.EventROE, Value: "80"})
	s.Apply(amount(lineitem.FieldCost, "1000"))

	snap := s.Snapshot()
	if snap.Values["sellingInr"] != "1,200" || snap.Values["costprice"] != "1000" {
		t.Fatalf("unexpected snapshot %+v", snap.Values)
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Snapshot
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	r := RenderSnapshot(back, currency.INR, currency.DefaultPolicy(), false)
	if r.Net != "INR -985" {
		t.Fatalf("unexpected net %q", r.Net)
	}
}
