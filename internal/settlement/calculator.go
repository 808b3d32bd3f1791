// Package settlement computes how much of a recorded payment is allocated
// against a booking's outstanding advance balance.
package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/bookdesk/bookdesk/internal/money"
)

// Calculator is the settlement state of the record-payment form.
type Calculator struct {
	AmountToRecord string `json:"amountToRecord"`
	SettleAmount   string `json:"settleAmount"`
	// Dirty is set once the settle amount was typed by hand; until then it
	// mirrors the amount to record.
	Dirty bool `json:"dirty"`
	// Outstanding is the ledger balance; nil when the lookup failed or has not
	// resolved, in which case the amount to record stands in for it.
	Outstanding *decimal.Decimal `json:"outstanding,omitempty"`
}

// New returns a calculator for the resolved outstanding balance.
func New(outstanding *float64) *Calculator {
	c := &Calculator{}
	if outstanding != nil {
		d := decimal.NewFromFloat(*outstanding)
		c.Outstanding = &d
	}
	return c
}

// Bind restores the money-text invariants of a calculator decoded from a
// request: both amounts keep only digits and one decimal point.
func (c *Calculator) Bind() {
	c.AmountToRecord = money.SanitizeAmountText(c.AmountToRecord)
	c.SettleAmount = money.SanitizeAmountText(c.SettleAmount)
}

// OnAmountToRecordChange stores the sanitised amount and mirrors it into the
// settle amount while that has not been edited.
func (c *Calculator) OnAmountToRecordChange(text string) {
	c.AmountToRecord = money.SanitizeAmountText(text)
	if !c.Dirty {
		c.SettleAmount = c.AmountToRecord
	}
}

// OnSettleAmountChange stores the sanitised settle amount unclamped so the
// user can type freely.
func (c *Calculator) OnSettleAmountChange(text string) {
	c.SettleAmount = money.SanitizeAmountText(text)
	c.Dirty = true
}

// OnSettleAmountBlur clamps the settle amount into [0, pending].
func (c *Calculator) OnSettleAmountBlur() {
	c.SettleAmount = money.SanitizeAmountText(c.SettleAmount)
	if c.SettleAmount == "" {
		return
	}
	v := money.ParseDecimal(c.SettleAmount)
	pending := c.Pending()
	switch {
	case v.IsNegative():
		c.SettleAmount = decimal.Zero.String()
	case v.GreaterThan(pending):
		c.SettleAmount = pending.String()
	}
}

// Pending is the balance the payment can settle, never negative.
func (c *Calculator) Pending() decimal.Decimal {
	pending := money.ParseDecimal(c.AmountToRecord)
	if c.Outstanding != nil {
		pending = *c.Outstanding
	}
	if pending.IsNegative() {
		return decimal.Zero
	}
	return pending
}

// Settle is the numeric settle amount as currently typed.
func (c *Calculator) Settle() decimal.Decimal {
	return money.ParseDecimal(c.SettleAmount)
}

// Remaining is max(0, pending - settle).
func (c *Calculator) Remaining() decimal.Decimal {
	rest := c.Pending().Sub(c.Settle())
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}
