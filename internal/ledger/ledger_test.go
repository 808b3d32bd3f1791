package ledger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookdesk/bookdesk/internal/platform/cache"
)

type stubSource struct {
	ledgers map[string]Ledger
	err     error
	calls   int
}

func (s *stubSource) QuotationLedger(_ context.Context, id string) (Ledger, error) {
	s.calls++
	if s.err != nil {
		return Ledger{}, s.err
	}
	l, ok := s.ledgers[id]
	if !ok {
		return Ledger{}, ErrNotFound
	}
	return l, nil
}

func amount(v float64) *float64 { return &v }

func TestLookupDegradesToNil(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	src := &stubSource{ledgers: map[string]Ledger{"Q-1": {QuotationID: "Q-1", OutstandingAmount: amount(500)}}}
	got := Lookup(context.Background(), src, "Q-1", logger)
	require.NotNil(t, got)
	assert.Equal(t, 500.0, *got)

	assert.Nil(t, Lookup(context.Background(), src, "Q-404", logger))
	assert.Empty(t, buf.String())

	src.err = errors.New("connection refused")
	assert.Nil(t, Lookup(context.Background(), src, "Q-1", logger))
	assert.Contains(t, buf.String(), "ledger lookup failed")
	assert.Nil(t, Lookup(context.Background(), nil, "Q-1", logger))
}

func TestCachedSource(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	src := &stubSource{ledgers: map[string]Ledger{
		"Q-1": {QuotationID: "Q-1", OutstandingAmount: amount(1250.5)},
		"Q-2": {QuotationID: "Q-2"},
	}}
	cached := NewCachedSource(src, cache.NewJSON(client, "ledger", time.Minute))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		l, err := cached.QuotationLedger(ctx, "Q-1")
		require.NoError(t, err)
		require.NotNil(t, l.OutstandingAmount)
		assert.Equal(t, 1250.5, *l.OutstandingAmount)
	}
	assert.Equal(t, 1, src.calls)

	l, err := cached.QuotationLedger(ctx, "Q-2")
	require.NoError(t, err)
	assert.Nil(t, l.OutstandingAmount)

	_, err = cached.QuotationLedger(ctx, "Q-404")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, cached.Invalidate(ctx))
	src.ledgers["Q-1"] = Ledger{QuotationID: "Q-1", OutstandingAmount: amount(0)}
	l, err = cached.QuotationLedger(ctx, "Q-1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, *l.OutstandingAmount)
}
