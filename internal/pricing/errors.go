package pricing

import (
	"fmt"

	"github.com/bookdesk/bookdesk/internal/platform/httpx"
)

var (
	// ErrSnapshotNotFound indicates the booking has no saved amounts.
	ErrSnapshotNotFound = fmt.Errorf("pricing: snapshot: %w", httpx.ErrNotFound)
	// ErrDraftNotFound indicates the draft expired or never existed.
	ErrDraftNotFound = fmt.Errorf("pricing: draft: %w", httpx.ErrNotFound)
)
