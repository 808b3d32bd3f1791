package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/bookdesk/bookdesk/internal/currency"
	"github.com/bookdesk/bookdesk/internal/lineitem"
	"github.com/bookdesk/bookdesk/internal/money"
)

// Section is the editable amount section of one booking form.
type Section struct {
	items    *lineitem.Set
	advanced bool
}

// NewSection returns an empty simple-pricing section.
func NewSection(business currency.Code, policy currency.Policy) *Section {
	return &Section{items: lineitem.NewSet(business, policy)}
}

// Items exposes the line items.
func (s *Section) Items() *lineitem.Set {
	return s.items
}

// Business is the home currency of the section.
func (s *Section) Business() currency.Code {
	return s.items.Business()
}

// AdvancedPricing reports whether the advanced view drives the net.
func (s *Section) AdvancedPricing() bool {
	return s.advanced
}

// ToggleAdvancedPricing swaps the view. Neither set of items is discarded.
func (s *Section) ToggleAdvancedPricing() {
	s.advanced = !s.advanced
}

// SetAdvancedPricing forces the view.
func (s *Section) SetAdvancedPricing(on bool) {
	s.advanced = on
}

// Apply forwards a field edit.
func (s *Section) Apply(e lineitem.Event) bool {
	return s.items.Apply(e)
}

// Mode returns the current editable mode.
func (s *Section) Mode() Mode {
	if s.advanced {
		return Mode{Pricing: PricingAdvanced, Access: AccessEditable}
	}
	return Mode{Pricing: PricingSimple, Access: AccessEditable}
}

// CostPrice derives the advanced cost price from the vendor components.
func (s *Section) CostPrice() decimal.Decimal {
	return costPrice(s.items)
}

// ComputeDisplayedNet returns the net shown under the section. Simple pricing
// subtracts the raw typed amounts with no conversion; advanced pricing uses the
// derived cost price.
func (s *Section) ComputeDisplayedNet() money.Net {
	return displayedNet(s.items, s.advanced)
}

// Render produces the editable view.
func (s *Section) Render() Rendering {
	return render(s.Mode(), s.items, nil)
}

func costPrice(items *lineitem.Set) decimal.Decimal {
	return money.AggregateCostPrice(items.Policy(), items.Business(),
		items.Peek(lineitem.FieldVendorBase).Component(),
		items.Peek(lineitem.FieldVendorIncentive).Component(),
		items.Peek(lineitem.FieldCommission).Component(),
	)
}

func displayedNet(items *lineitem.Set, advanced bool) money.Net {
	if advanced {
		return money.ComputeNet(items.Peek(lineitem.FieldSelling).Effective(), costPrice(items))
	}
	return money.ComputeNet(items.Peek(lineitem.FieldSelling).Raw(), items.Peek(lineitem.FieldCost).Raw())
}

// render handles every Mode combination explicitly.
func render(mode Mode, items *lineitem.Set, summary *Summary) Rendering {
	out := Rendering{Mode: mode, BusinessCurrency: items.Business()}
	switch {
	case mode.Pricing == PricingSimple && mode.Access == AccessEditable:
		out.Rows = rows(items, lineitem.SimpleFields)
		out.Net, out.Percent = simpleNetText(items)
	case mode.Pricing == PricingAdvanced && mode.Access == AccessEditable:
		out.Rows = rows(items, lineitem.AdvancedFields)
		out.CostPrice = money.FormatFixed(costPrice(items))
		out.Net, out.Percent = advancedNetText(items)
	case mode.Pricing == PricingSimple && mode.Access == AccessSnapshot:
		out.Rows = rows(items, snapshotFields(items, lineitem.SimpleFields))
		out.Net, out.Percent = simpleNetText(items)
		out.Summary = summary
	case mode.Pricing == PricingAdvanced && mode.Access == AccessSnapshot:
		out.Rows = rows(items, snapshotFields(items, lineitem.AdvancedFields))
		out.CostPrice = money.FormatFixed(costPrice(items))
		out.Net, out.Percent = advancedNetText(items)
		out.Summary = summary
	default:
		return render(Mode{Pricing: PricingSimple, Access: AccessEditable}, items, nil)
	}
	return out
}

func simpleNetText(items *lineitem.Set) (string, string) {
	net := displayedNet(items, false)
	return string(items.Business()) + " " + money.FormatGrouped(net.Net), net.PercentText()
}

func advancedNetText(items *lineitem.Set) (string, string) {
	net := displayedNet(items, true)
	return money.FormatFixed(net.Net), net.PercentText()
}

// snapshotFields appends every refund or cancellation field the snapshot carries.
func snapshotFields(items *lineitem.Set, base []lineitem.Field) []lineitem.Field {
	out := append([]lineitem.Field(nil), base...)
	seen := make(map[lineitem.Field]bool, len(out))
	for _, f := range out {
		seen[f] = true
	}
	for _, f := range items.Present() {
		if !seen[f] {
			out = append(out, f)
			seen[f] = true
		}
	}
	return out
}

func rows(items *lineitem.Set, fields []lineitem.Field) []Row {
	out := make([]Row, 0, len(fields))
	for _, f := range fields {
		it := items.Peek(f)
		row := Row{
			Field:          f,
			Currency:       it.Currency,
			Amount:         it.Amount,
			ShowConversion: it.RequiresConversion(),
			Note:           it.Note,
			NoteVisible:    it.NoteVisible,
		}
		if row.ShowConversion {
			row.ROE = it.ROE
			row.HomeAmount = it.HomeAmount
		}
		out = append(out, row)
	}
	return out
}
