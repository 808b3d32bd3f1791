package lineitem

import (
	"encoding/json"
	"testing"

	"github.com/bookdesk/bookdesk/internal/currency"
)

func TestSetApplyIsolatesFields(t *testing.T) {
	set := NewSet(currency.INR, currency.DefaultPolicy())
	set.Apply(Event{Field: FieldCost, Kind: EventAmount, Value: "1000"})
	set.Apply(Event{Field: FieldSelling, Kind: EventAmount, Value: "1200"})
	set.Apply(Event{Field: FieldCost, Kind: EventCurrency, Value: "USD"})
	set.Apply(Event{Field: FieldCost, Kind: EventROE, Value: "2"})

	if got := set.Get(FieldCost).HomeAmount; got != "2,000" {
		t.Fatalf("unexpected cost home amount %q", got)
	}
	if got := set.Get(FieldSelling); got.HomeAmount != "" || got.Amount != "1200" {
		t.Fatalf("selling must be untouched, got %+v", got)
	}
}

func TestSetApplyIgnoresUnknown(t *testing.T) {
	set := NewSet(currency.INR, currency.DefaultPolicy())
	if set.Apply(Event{Field: "bogus", Kind: EventAmount, Value: "1"}) {
		t.Fatalf("unknown field must be ignored")
	}
	if set.Apply(Event{Field: FieldCost, Kind: "explode"}) {
		t.Fatalf("unknown kind must be ignored")
	}
	if len(set.Present()) != 1 {
		t.Fatalf("expected only cost to be materialised, got %v", set.Present())
	}
}

func TestSetJSONRoundTripKeepsInvariant(t *testing.T) {
	set := NewSet(currency.INR, currency.DefaultPolicy())
	set.Apply(Event{Field: FieldVendorBase, Kind: EventCurrency, Value: "USD"})
	set.Apply(Event{Field: FieldVendorBase, Kind: EventAmount, Value: "10"})
	set.Apply(Event{Field: FieldVendorBase, Kind: EventROE, Value: "83.5"})
	raw, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[Field]*Item
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	restored := Decode(decoded, currency.INR, currency.DefaultPolicy())
	if got := restored.Get(FieldVendorBase).HomeAmount; got != "835" {
		t.Fatalf("unexpected restored home amount %q", got)
	}
}

func TestFieldKeys(t *testing.T) {
	if FieldCost.AmountKey() != "costprice" || FieldSelling.AmountKey() != "sellingprice" {
		t.Fatalf("legacy amount keys changed")
	}
	if FieldVendorBase.AmountKey() != "vendorBaseAmount" {
		t.Fatalf("unexpected key %s", FieldVendorBase.AmountKey())
	}
	if FieldCost.HomeKey() != "costInr" || FieldCommissionRefund.NotesKey() != "commissionRefundNotes" {
		t.Fatalf("unexpected derived keys")
	}
}
