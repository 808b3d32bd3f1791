// Package business resolves the reporting currency of the signed-in company.
package business

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bookdesk/bookdesk/internal/currency"
)

// ErrNotFound is returned for an unknown company.
var ErrNotFound = errors.New("business: company not found")

// Source reads a company's base currency.
type Source interface {
	BusinessCurrency(ctx context.Context, companyID int64) (currency.Code, error)
}

// Resolver picks the business currency for a request.
type Resolver struct {
	source   Source
	fallback currency.Code
	logger   *slog.Logger
}

// NewResolver constructs a resolver. An empty fallback means INR.
func NewResolver(source Source, fallback currency.Code, logger *slog.Logger) *Resolver {
	if fallback.IsZero() {
		fallback = currency.INR
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{source: source, fallback: fallback, logger: logger}
}

// Resolve returns the session-supplied currency when present, otherwise the
// company's configured one. Lookup failures degrade to the fallback.
func (r *Resolver) Resolve(ctx context.Context, uc currency.UserContext) currency.Code {
	if code := currency.Normalize(string(uc.BusinessCurrency)); !code.IsZero() {
		return code
	}
	if r.source != nil && uc.CompanyID > 0 {
		code, err := r.source.BusinessCurrency(ctx, uc.CompanyID)
		code = currency.Normalize(string(code))
		switch {
		case err == nil && !code.IsZero():
			return code
		case err != nil && !errors.Is(err, ErrNotFound):
			r.logger.Warn("business currency lookup failed",
				slog.Int64("company_id", uc.CompanyID),
				slog.Any("error", err))
		}
	}
	uc.BusinessCurrency = r.fallback
	return currency.ResolveBusinessCurrency(uc)
}
