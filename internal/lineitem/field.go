package lineitem

// Field names one monetary input of a booking form.
type Field string

const (
	FieldCost            Field = "cost"
	FieldSelling         Field = "selling"
	FieldVendorBase      Field = "vendorBase"
	FieldVendorIncentive Field = "vendorIncentive"
	FieldCommission      Field = "commission"

	FieldCostRefund            Field = "costRefund"
	FieldSellingRefund         Field = "sellingRefund"
	FieldVendorBaseRefund      Field = "vendorBaseRefund"
	FieldVendorIncentiveRefund Field = "vendorIncentiveRefund"
	FieldCommissionRefund      Field = "commissionRefund"
	FieldChargeback            Field = "chargeback"
	FieldCancellationCharge    Field = "cancellationCharge"
)

// Fields lists every known field in display order.
var Fields = []Field{
	FieldCost,
	FieldSelling,
	FieldVendorBase,
	FieldVendorIncentive,
	FieldCommission,
	FieldCostRefund,
	FieldSellingRefund,
	FieldVendorBaseRefund,
	FieldVendorIncentiveRefund,
	FieldCommissionRefund,
	FieldChargeback,
	FieldCancellationCharge,
}

// SimpleFields drive the simple pricing view.
var SimpleFields = []Field{FieldCost, FieldSelling}

// AdvancedFields drive the vendor payment and customer revenue summaries.
var AdvancedFields = []Field{FieldVendorBase, FieldVendorIncentive, FieldCommission, FieldSelling}

// Known reports whether f is one of the declared fields.
func (f Field) Known() bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}

// AmountKey is the snapshot key holding the amount of f. Cost and selling keep
// the historical "costprice"/"sellingprice" spelling.
func (f Field) AmountKey() string {
	switch f {
	case FieldCost, FieldSelling:
		return string(f) + "price"
	default:
		return string(f) + "Amount"
	}
}

// CurrencyKey is the snapshot key holding the currency of f.
func (f Field) CurrencyKey() string { return string(f) + "Currency" }

// ROEKey is the snapshot key holding the rate of exchange of f.
func (f Field) ROEKey() string { return string(f) + "Roe" }

// HomeKey is the snapshot key holding the home-currency amount of f.
func (f Field) HomeKey() string { return string(f) + "Inr" }

// NotesKey is the snapshot key holding the note of f.
func (f Field) NotesKey() string { return string(f) + "Notes" }
