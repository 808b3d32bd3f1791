// Package payments submits recorded payments to the external payments service.
package payments

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/bookdesk/bookdesk/internal/platform/httpx"
)

// Document is a supporting file attached to a payment.
type Document struct {
	Name string `json:"name" validate:"required,max=255"`
	URL  string `json:"url" validate:"required,url"`
}

// Payload is the body of a record-payment request.
type Payload struct {
	Amount           decimal.Decimal  `json:"amount" validate:"gt=0"`
	AllocationAmount *decimal.Decimal `json:"allocationAmount,omitempty"`
	PaymentType      string           `json:"paymentType" validate:"required,max=32"`
	BankID           string           `json:"bankId" validate:"required,max=64"`
	PaymentDate      string           `json:"paymentDate" validate:"required,datetime=2006-01-02"`
	Status           string           `json:"status" validate:"required,max=32"`
	InternalNotes    string           `json:"internalNotes,omitempty" validate:"max=2000"`
	Documents        []Document       `json:"documents,omitempty" validate:"dive"`
}

// Submission is a validated payload addressed to a quotation. The idempotency
// key survives worker retries.
type Submission struct {
	QuotationID    string  `json:"quotationId"`
	IdempotencyKey string  `json:"idempotencyKey"`
	Payload        Payload `json:"payload"`
}

// NewValidator returns a validator that understands decimal amounts.
func NewValidator() *validator.Validate {
	v := httpx.NewValidator()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// Validate checks p against its tags and the allocation bounds.
func Validate(v *validator.Validate, p Payload) error {
	errs := httpx.ValidationErrors{}
	if err := httpx.Validate(v, p); err != nil {
		if !errors.As(err, &errs) {
			return err
		}
	}
	if p.AllocationAmount != nil {
		switch {
		case !p.AllocationAmount.IsPositive():
			errs["allocationAmount"] = "gt"
		case p.AllocationAmount.GreaterThan(p.Amount):
			errs["allocationAmount"] = "lte_amount"
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
