package settlement

import (
	"github.com/bookdesk/bookdesk/internal/money"
	"github.com/bookdesk/bookdesk/internal/payments"
)

// PaymentForm holds the non-amount inputs of the record-payment form.
type PaymentForm struct {
	PaymentType   string              `json:"paymentType"`
	BankID        string              `json:"bankId"`
	PaymentDate   string              `json:"paymentDate"`
	Status        string              `json:"status"`
	InternalNotes string              `json:"internalNotes"`
	Documents     []payments.Document `json:"documents"`
}

// BuildPayment assembles the payload submitted to the payments service. The
// allocation is included only when a positive amount settles a positive balance.
func (c *Calculator) BuildPayment(form PaymentForm) payments.Payload {
	p := payments.Payload{
		Amount:        money.ParseDecimal(c.AmountToRecord),
		PaymentType:   form.PaymentType,
		BankID:        form.BankID,
		PaymentDate:   form.PaymentDate,
		Status:        form.Status,
		InternalNotes: form.InternalNotes,
		Documents:     form.Documents,
	}
	settle := c.Settle()
	pending := c.Pending()
	if settle.IsPositive() && pending.IsPositive() {
		if settle.GreaterThan(pending) {
			settle = pending
		}
		p.AllocationAmount = &settle
	}
	return p
}
