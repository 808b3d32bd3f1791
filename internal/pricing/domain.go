// Package pricing drives the amount section of the booking forms: it owns the
// line items, switches between simple and advanced pricing, and renders the net
// margin either from live state or from a cancelled booking's saved snapshot.
package pricing

import (
	"github.com/bookdesk/bookdesk/internal/currency"
	"github.com/bookdesk/bookdesk/internal/lineitem"
)

// Pricing selects which line items drive the net calculation.
type Pricing string

const (
	PricingSimple   Pricing = "simple"
	PricingAdvanced Pricing = "advanced"
)

// Access selects whether the section accepts edits.
type Access string

const (
	AccessEditable Access = "editable"
	AccessSnapshot Access = "snapshot"
)

// Mode is one of the four render variants.
type Mode struct {
	Pricing Pricing `json:"pricing"`
	Access  Access  `json:"access"`
}

// Row is one rendered line item.
type Row struct {
	Field          lineitem.Field `json:"field"`
	Currency       currency.Code  `json:"currency"`
	Amount         string         `json:"amount"`
	ShowConversion bool           `json:"showConversion"`
	ROE            string         `json:"roe,omitempty"`
	HomeAmount     string         `json:"homeAmount,omitempty"`
	Note           string         `json:"note,omitempty"`
	NoteVisible    bool           `json:"noteVisible"`
}

// Rendering is what the amount section displays.
type Rendering struct {
	Mode             Mode          `json:"mode"`
	BusinessCurrency currency.Code `json:"businessCurrency"`
	Rows             []Row         `json:"rows"`
	// CostPrice is the derived vendor cost, present in advanced pricing only.
	CostPrice string   `json:"costPrice,omitempty"`
	Net       string   `json:"net"`
	Percent   string   `json:"percent"`
	Summary   *Summary `json:"summary,omitempty"`
}
