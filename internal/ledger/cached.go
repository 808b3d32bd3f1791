package ledger

import (
	"context"

	"github.com/bookdesk/bookdesk/internal/platform/cache"
)

// CachedSource memoises ledgers in Redis and collapses concurrent lookups of
// the same quotation.
type CachedSource struct {
	next   Source
	cache  *cache.JSON
	flight cache.Flight
}

// NewCachedSource wraps next with c.
func NewCachedSource(next Source, c *cache.JSON) *CachedSource {
	return &CachedSource{next: next, cache: c}
}

// QuotationLedger implements Source.
func (s *CachedSource) QuotationLedger(ctx context.Context, quotationID string) (Ledger, error) {
	v, _, err := s.flight.Do(ctx, quotationID, func(ctx context.Context) (any, error) {
		key, err := s.cache.Key(ctx, "quotation", quotationID)
		if err != nil {
			return s.next.QuotationLedger(ctx, quotationID)
		}
		var l Ledger
		err = s.cache.Fetch(ctx, key, &l, func(ctx context.Context) (any, error) {
			return s.next.QuotationLedger(ctx, quotationID)
		})
		return l, err
	})
	if err != nil {
		return Ledger{}, err
	}
	return v.(Ledger), nil
}

// Invalidate drops every cached ledger, e.g. after a payment was recorded.
func (s *CachedSource) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}
