// Package ledger reads the outstanding advance balance of a quotation.
package ledger

import (
	"context"
	"errors"
	"log/slog"
)

// ErrNotFound is returned when a quotation has no ledger.
var ErrNotFound = errors.New("ledger: quotation not found")

// Ledger is the accounting position of one quotation.
type Ledger struct {
	QuotationID string `json:"quotationId"`
	// OutstandingAmount is nil until the accounting side has booked an advance.
	OutstandingAmount *float64 `json:"outstandingAmount"`
}

// Source fetches quotation ledgers.
type Source interface {
	QuotationLedger(ctx context.Context, quotationID string) (Ledger, error)
}

// Lookup returns the outstanding amount for quotationID, or nil when it is
// unknown. Failures are logged and never surface to the caller.
func Lookup(ctx context.Context, src Source, quotationID string, logger *slog.Logger) *float64 {
	if src == nil || quotationID == "" {
		return nil
	}
	l, err := src.QuotationLedger(ctx, quotationID)
	if err != nil {
		if logger != nil && !errors.Is(err, ErrNotFound) {
			logger.Warn("ledger lookup failed",
				slog.String("quotation_id", quotationID),
				slog.Any("error", err))
		}
		return nil
	}
	return l.OutstandingAmount
}
