package business

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/bookdesk/bookdesk/internal/currency"
)

// Request headers carrying the caller's session context.
const (
	HeaderCompanyID        = "X-Company-ID"
	HeaderBusinessCurrency = "X-Business-Currency"
	HeaderUserID           = "X-User-ID"
)

type currencyKey struct{}

// WithCurrency stores the resolved business currency on ctx.
func WithCurrency(ctx context.Context, code currency.Code) context.Context {
	return context.WithValue(ctx, currencyKey{}, code)
}

// CurrencyFromContext returns the business currency stored on ctx, INR when unset.
func CurrencyFromContext(ctx context.Context) currency.Code {
	code, _ := ctx.Value(currencyKey{}).(currency.Code)
	return currency.ResolveBusinessCurrency(currency.UserContext{BusinessCurrency: code})
}

// UserContextFromRequest reads the session headers. Malformed ids read as 0.
func UserContextFromRequest(r *http.Request) currency.UserContext {
	return currency.UserContext{
		UserID:           strings.TrimSpace(r.Header.Get(HeaderUserID)),
		CompanyID:        parseID(r.Header.Get(HeaderCompanyID)),
		BusinessCurrency: currency.Normalize(r.Header.Get(HeaderBusinessCurrency)),
	}
}

func parseID(raw string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// Middleware resolves the business currency once per request.
func (r *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		code := r.Resolve(req.Context(), UserContextFromRequest(req))
		next.ServeHTTP(w, req.WithContext(WithCurrency(req.Context(), code)))
	})
}
