package business

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookdesk/bookdesk/internal/currency"
	"github.com/bookdesk/bookdesk/internal/platform/cache"
)

type stubSource struct {
	codes map[int64]currency.Code
	err   error
	calls int
}

func (s *stubSource) BusinessCurrency(_ context.Context, id int64) (currency.Code, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	code, ok := s.codes[id]
	if !ok {
		return "", ErrNotFound
	}
	return code, nil
}

func TestResolverPrecedence(t *testing.T) {
	var buf bytes.Buffer
	src := &stubSource{codes: map[int64]currency.Code{7: "usd"}}
	r := NewResolver(src, "", slog.New(slog.NewTextHandler(&buf, nil)))
	ctx := context.Background()

	assert.Equal(t, currency.Code("EUR"), r.Resolve(ctx, currency.UserContext{CompanyID: 7, BusinessCurrency: "eur"}))
	assert.Equal(t, currency.USD, r.Resolve(ctx, currency.UserContext{CompanyID: 7}))
	assert.Equal(t, currency.INR, r.Resolve(ctx, currency.UserContext{CompanyID: 8}))
	assert.Equal(t, currency.INR, r.Resolve(ctx, currency.UserContext{}))
	assert.Empty(t, buf.String())

	src.err = errors.New("timeout")
	assert.Equal(t, currency.INR, r.Resolve(ctx, currency.UserContext{CompanyID: 7}))
	assert.Contains(t, buf.String(), "business currency lookup failed")
}

func TestResolverFallback(t *testing.T) {
	r := NewResolver(nil, currency.USD, nil)
	assert.Equal(t, currency.USD, r.Resolve(context.Background(), currency.UserContext{CompanyID: 3}))
}

func TestCachedSource(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	src := &stubSource{codes: map[int64]currency.Code{7: currency.USD}}
	cached := NewCachedSource(src, cache.NewJSON(client, "business", time.Minute))

	for i := 0; i < 2; i++ {
		code, err := cached.BusinessCurrency(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, currency.USD, code)
	}
	assert.Equal(t, 1, src.calls)

	_, err := cached.BusinessCurrency(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMiddlewareStoresCurrency(t *testing.T) {
	src := &stubSource{codes: map[int64]currency.Code{7: currency.USD}}
	r := NewResolver(src, "", nil)

	var got currency.Code
	h := r.Middleware(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		got = CurrencyFromContext(req.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderCompanyID, "7")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, currency.USD, got)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderCompanyID, "7")
	req.Header.Set(HeaderBusinessCurrency, " inr ")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, currency.INR, got)

	assert.Equal(t, currency.INR, CurrencyFromContext(context.Background()))
}

func TestUserContextFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUserID, " agent-42 ")
	req.Header.Set(HeaderCompanyID, "7")
	req.Header.Set(HeaderBusinessCurrency, "usd")

	uc := UserContextFromRequest(req)
	assert.Equal(t, "agent-42", uc.UserID)
	assert.Equal(t, int64(7), uc.CompanyID)
	assert.Equal(t, currency.USD, uc.BusinessCurrency)

	req.Header.Set(HeaderCompanyID, "abc")
	assert.Zero(t, UserContextFromRequest(req).CompanyID)
}
