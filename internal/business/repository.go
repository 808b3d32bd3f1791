package business

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookdesk/bookdesk/internal/currency"
	"github.com/bookdesk/bookdesk/internal/platform/cache"
)

// Repository reads company profiles from PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// BusinessCurrency implements Source.
func (r *Repository) BusinessCurrency(ctx context.Context, companyID int64) (currency.Code, error) {
	var code string
	err := r.pool.QueryRow(ctx, `SELECT base_currency FROM company_profiles WHERE company_id = $1`, companyID).Scan(&code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("business: company %d: %w", companyID, err)
	}
	return currency.Normalize(code), nil
}

// CachedSource memoises base currencies per company in Redis.
type CachedSource struct {
	next  Source
	cache *cache.JSON
}

// NewCachedSource wraps next with c.
func NewCachedSource(next Source, c *cache.JSON) *CachedSource {
	return &CachedSource{next: next, cache: c}
}

// BusinessCurrency implements Source.
func (s *CachedSource) BusinessCurrency(ctx context.Context, companyID int64) (currency.Code, error) {
	key, err := s.cache.Key(ctx, "company", strconv.FormatInt(companyID, 10))
	if err != nil {
		return s.next.BusinessCurrency(ctx, companyID)
	}
	var code currency.Code
	err = s.cache.Fetch(ctx, key, &code, func(ctx context.Context) (any, error) {
		return s.next.BusinessCurrency(ctx, companyID)
	})
	return code, err
}
