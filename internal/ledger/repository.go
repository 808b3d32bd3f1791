package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads ledgers from PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// QuotationLedger implements Source.
func (r *Repository) QuotationLedger(ctx context.Context, quotationID string) (Ledger, error) {
	l := Ledger{QuotationID: quotationID}
	err := r.pool.QueryRow(ctx, `SELECT outstanding_amount::float8 FROM quotation_ledgers WHERE quotation_id = $1`, quotationID).
		Scan(&l.OutstandingAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Ledger{}, ErrNotFound
		}
		return Ledger{}, fmt.Errorf("ledger: query %s: %w", quotationID, err)
	}
	return l, nil
}
