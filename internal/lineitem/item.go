// Package lineitem models one monetary field of a booking form: a currency
// selector, the typed amount, an optional rate of exchange with its computed
// home-currency amount, and a collapsible note.
package lineitem

import (
	"github.com/shopspring/decimal"

	"github.com/bookdesk/bookdesk/internal/currency"
	"github.com/bookdesk/bookdesk/internal/money"
)

// Item is the per-field state. Every mutator recomputes HomeAmount before it
// returns, so a reader never observes an amount without its matching home value.
type Item struct {
	Currency       currency.Code `json:"currency"`
	Amount         string        `json:"amount"`
	ROE            string        `json:"roe"`
	HomeAmount     string        `json:"homeAmount"`
	HomeOverridden bool          `json:"homeOverridden,omitempty"`
	Note           string        `json:"note"`
	NoteVisible    bool          `json:"noteVisible"`

	business currency.Code
	policy   currency.Policy
}

// New returns an empty item priced in the business currency.
func New(business currency.Code, policy currency.Policy) *Item {
	return &Item{Currency: business, business: business, policy: policy}
}

// Bind attaches the business currency and policy to an item decoded from JSON
// and restores the HomeAmount invariant.
func (it *Item) Bind(business currency.Code, policy currency.Policy) {
	it.business = business
	it.policy = policy
	it.Currency = currency.Normalize(string(it.Currency))
	if it.Currency.IsZero() {
		it.Currency = business
	}
	it.Amount = money.SanitizeAmountText(it.Amount)
	if !it.RequiresConversion() {
		it.ROE = ""
		it.HomeAmount = ""
		it.HomeOverridden = false
		return
	}
	if !it.HomeOverridden {
		it.recompute()
	}
}

// RequiresConversion reports whether this item carries a rate of exchange.
func (it *Item) RequiresConversion() bool {
	return it.policy.RequiresConversion(it.Currency, it.business)
}

// SetCurrency switches the currency. Leaving a converting currency clears the
// rate and home amount; entering one keeps whatever is there, which after a
// clear is nothing.
func (it *Item) SetCurrency(code currency.Code) {
	it.Currency = currency.Normalize(string(code))
	if !it.RequiresConversion() {
		it.ROE = ""
		it.HomeAmount = ""
		it.HomeOverridden = false
		return
	}
	it.recompute()
}

// SetAmount stores the sanitised amount text.
func (it *Item) SetAmount(text string) {
	it.Amount = money.SanitizeAmountText(text)
	it.recompute()
}

// SetROE stores the rate of exchange text as typed.
func (it *Item) SetROE(text string) {
	if !it.RequiresConversion() {
		return
	}
	it.ROE = text
	it.recompute()
}

// OverrideHomeAmount replaces the computed home amount until the next change
// to amount, rate or currency.
func (it *Item) OverrideHomeAmount(text string) {
	if !it.RequiresConversion() {
		return
	}
	it.HomeAmount = money.SanitizeAmountText(text)
	it.HomeOverridden = true
}

// SetNote replaces the note text.
func (it *Item) SetNote(text string) {
	it.Note = text
}

// ToggleNote flips note visibility. Hidden notes keep their text.
func (it *Item) ToggleNote() {
	it.NoteVisible = !it.NoteVisible
}

func (it *Item) recompute() {
	it.HomeOverridden = false
	if !it.RequiresConversion() {
		it.HomeAmount = ""
		return
	}
	it.HomeAmount = money.ComputeHomeAmount(it.Amount, it.ROE)
}

// Component exposes the item as a cost price term.
func (it *Item) Component() money.Component {
	return money.Component{Currency: it.Currency, Amount: it.Amount, HomeAmount: it.HomeAmount}
}

// Effective is the home amount when conversion applies and the raw amount otherwise.
func (it *Item) Effective() decimal.Decimal {
	return it.Component().Effective(it.policy, it.business)
}

// Raw is the typed amount ignoring any conversion.
func (it *Item) Raw() decimal.Decimal {
	return money.ParseDecimal(it.Amount)
}
