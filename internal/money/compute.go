package money

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/bookdesk/bookdesk/internal/currency"
)

// ComputeHomeAmount multiplies amount by the rate of exchange and renders the
// home-currency text. It returns "" while either operand is missing or zero so
// "not yet computable" stays distinct from a computed zero.
//
// The product is taken in float64 and the fraction digits are decided on that
// product: a whole product shows none, anything else shows exactly two.
func ComputeHomeAmount(amountText, roeText string) string {
	amount := Parse(amountText)
	roe := Parse(roeText)
	if amount == 0 || roe == 0 {
		return ""
	}
	product := amount * roe
	if math.IsNaN(product) || math.IsInf(product, 0) {
		return ""
	}
	d := decimal.NewFromFloat(product)
	if product == math.Trunc(product) {
		return group(d, 0)
	}
	return group(d, 2)
}

// Component is one term of the advanced cost price.
type Component struct {
	Currency   currency.Code
	Amount     string
	HomeAmount string
}

// Effective returns the home amount when the component needs conversion and
// the raw amount otherwise.
func (c Component) Effective(policy currency.Policy, business currency.Code) decimal.Decimal {
	if policy.RequiresConversion(c.Currency, business) {
		return ParseFormatted(c.HomeAmount)
	}
	return ParseDecimal(c.Amount)
}

// AggregateCostPrice returns base - incentive + commission, each term in the
// home currency when conversion applies.
func AggregateCostPrice(policy currency.Policy, business currency.Code, base, incentive, commission Component) decimal.Decimal {
	return base.Effective(policy, business).
		Sub(incentive.Effective(policy, business)).
		Add(commission.Effective(policy, business))
}

// Net is the margin of a selling price over a cost price.
type Net struct {
	Net decimal.Decimal
	// Percent is nil when the cost is not positive.
	Percent *decimal.Decimal
}

// ComputeNet returns selling - cost and the margin percentage over cost.
func ComputeNet(selling, cost decimal.Decimal) Net {
	net := selling.Sub(cost)
	out := Net{Net: net}
	if cost.IsPositive() {
		pct := net.Div(cost).Mul(hundred)
		out.Percent = &pct
	}
	return out
}

// PercentText renders the margin percentage.
func (n Net) PercentText() string {
	return FormatPercent(n.Percent)
}
