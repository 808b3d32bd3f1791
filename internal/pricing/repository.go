package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookdesk/bookdesk/internal/platform/db"
)

// Repository provides PostgreSQL backed persistence for saved amount snapshots.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// BookingSnapshot returns the latest snapshot saved for a booking.
func (r *Repository) BookingSnapshot(ctx context.Context, bookingID int64) (Snapshot, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx, `SELECT payload FROM booking_amount_snapshots WHERE booking_id = $1 ORDER BY version DESC LIMIT 1`, bookingID).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot{}, ErrSnapshotNotFound
		}
		return Snapshot{}, fmt.Errorf("pricing: load snapshot %d: %w", bookingID, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// SaveSnapshot stores snap as the next version for a booking.
func (r *Repository) SaveSnapshot(ctx context.Context, bookingID int64, snap Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, bookingID); err != nil {
			return fmt.Errorf("pricing: lock booking %d: %w", bookingID, err)
		}
		_, err := tx.Exec(ctx, `INSERT INTO booking_amount_snapshots (booking_id, version, payload, created_at)
SELECT $1, COALESCE(MAX(version), 0) + 1, $2, NOW() FROM booking_amount_snapshots WHERE booking_id = $1`, bookingID, payload)
		if err != nil {
			return fmt.Errorf("pricing: save snapshot %d: %w", bookingID, err)
		}
		return nil
	})
}
