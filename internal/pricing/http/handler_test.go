package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookdesk/bookdesk/internal/business"
	"github.com/bookdesk/bookdesk/internal/currency"
	"github.com/bookdesk/bookdesk/internal/platform/httpx"
	"github.com/bookdesk/bookdesk/internal/pricing"
)

type memorySnapshots map[int64]pricing.Snapshot

func (m memorySnapshots) BookingSnapshot(_ context.Context, id int64) (pricing.Snapshot, error) {
	snap, ok := m[id]
	if !ok {
		return pricing.Snapshot{}, pricing.ErrSnapshotNotFound
	}
	return snap, nil
}

func (m memorySnapshots) SaveSnapshot(_ context.Context, id int64, snap pricing.Snapshot) error {
	m[id] = snap
	return nil
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := pricing.NewService(memorySnapshots{}, pricing.NewDraftStore(client, time.Hour), currency.DefaultPolicy(), nil)
	r := chi.NewRouter()
	r.Use(business.NewResolver(nil, "", nil).Middleware)
	NewHandler(nil, svc, currency.DefaultTable()).MountRoutes(r)
	return r
}

func call(t *testing.T, h http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestApplyEventEndpoint(t *testing.T) {
	h := newRouter(t)
	body := map[string]any{
		"state": map[string]any{"items": map[string]any{"cost": map[string]any{"amount": "1000"}}},
		"event": map[string]any{"event": map[string]any{"field": "selling", "kind": "amount", "value": "1,200"}},
	}
	rec := call(t, h, http.MethodPost, "/api/pricing/events", body, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decode[stateResponse](t, rec)
	assert.Equal(t, "1200", out.State.Items["selling"].Amount)
	assert.Equal(t, "INR 200", out.Rendering.Net)
	assert.Equal(t, "20.00%", out.Rendering.Percent)
}

func TestApplyEventValidation(t *testing.T) {
	h := newRouter(t)

	rec := call(t, h, http.MethodPost, "/api/pricing/events", map[string]any{
		"event": map[string]any{"event": map[string]any{"field": "selling", "kind": "bogus"}},
	}, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	problem := decode[httpx.ProblemDetail](t, rec)
	assert.Equal(t, "oneof", problem.Errors["event.kind"])

	rec = call(t, h, http.MethodPost, "/api/pricing/events", map[string]any{"event": map[string]any{}}, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	problem = decode[httpx.ProblemDetail](t, rec)
	assert.Equal(t, "required_without", problem.Errors["event"])

	req := httptest.NewRequest(http.MethodPost, "/api/pricing/events", bytes.NewBufferString("{"))
	raw := httptest.NewRecorder()
	h.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestDraftEndpoints(t *testing.T) {
	h := newRouter(t)
	usd := map[string]string{business.HeaderBusinessCurrency: "USD"}

	rec := call(t, h, http.MethodPost, "/api/pricing/drafts", map[string]any{"state": map[string]any{}}, usd)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[draftResponse](t, rec)
	require.NotEmpty(t, created.Draft.ID)
	assert.Equal(t, currency.USD, created.Draft.Business)
	path := "/api/pricing/drafts/" + created.Draft.ID

	for _, ev := range []map[string]any{
		{"event": map[string]any{"field": "cost", "kind": "amount", "value": "500"}},
		{"event": map[string]any{"field": "selling", "kind": "amount", "value": "650"}},
	} {
		rec = call(t, h, http.MethodPost, path+"/events", ev, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	updated := decode[draftResponse](t, rec)
	assert.Equal(t, "USD 150", updated.Rendering.Net)

	rec = call(t, h, http.MethodGet, path, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "650", decode[draftResponse](t, rec).Draft.State.Items["selling"].Amount)

	rec = call(t, h, http.MethodDelete, path, nil, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = call(t, h, http.MethodGet, path, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCommitDraftAndReadBookingSnapshot(t *testing.T) {
	h := newRouter(t)

	rec := call(t, h, http.MethodPost, "/api/pricing/drafts", map[string]any{
		"state": map[string]any{"items": map[string]any{
			"cost":    map[string]any{"amount": "800"},
			"selling": map[string]any{"amount": "1000"},
		}},
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[draftResponse](t, rec).Draft.ID

	rec = call(t, h, http.MethodPost, "/api/pricing/drafts/"+id+"/commit", map[string]any{}, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = call(t, h, http.MethodPost, "/api/pricing/drafts/"+id+"/commit", map[string]any{
		"bookingId": 42,
		"summary":   map[string]any{"oldNet": "INR 200", "newNet": "INR 200"},
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = call(t, h, http.MethodGet, "/api/bookings/42/snapshot", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rendering := decode[pricing.Rendering](t, rec)
	assert.Equal(t, pricing.AccessSnapshot, rendering.Mode.Access)
	assert.Equal(t, "INR 200", rendering.Net)
	require.NotNil(t, rendering.Summary)
	assert.Equal(t, "INR 200", rendering.Summary.OldNet)

	rec = call(t, h, http.MethodGet, "/api/bookings/7/snapshot", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = call(t, h, http.MethodGet, "/api/bookings/abc/snapshot", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRenderPostedSnapshot(t *testing.T) {
	h := newRouter(t)
	rec := call(t, h, http.MethodPost, "/api/pricing/snapshot", map[string]any{
		"snapshot": map[string]any{
			"costprice":          1000,
			"sellingprice":       "1300",
			"vendorBaseAmount":   "900",
			"commissionAmount":   "50",
			"chargebackAmount":   "25",
			"chargebackCurrency": "INR",
		},
		"advancedPricing": true,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rendering := decode[pricing.Rendering](t, rec)
	assert.Equal(t, pricing.PricingAdvanced, rendering.Mode.Pricing)
	assert.Equal(t, "350.00", rendering.Net)

	fields := map[string]bool{}
	for _, row := range rendering.Rows {
		fields[string(row.Field)] = true
	}
	assert.True(t, fields["chargeback"])
}

func TestListCurrencies(t *testing.T) {
	h := newRouter(t)
	rec := call(t, h, http.MethodGet, "/api/currencies", nil, map[string]string{business.HeaderBusinessCurrency: "usd"})
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[struct {
		BusinessCurrency currency.Code    `json:"businessCurrency"`
		Currencies       []currency.Entry `json:"currencies"`
	}](t, rec)
	assert.Equal(t, currency.USD, out.BusinessCurrency)
	assert.Len(t, out.Currencies, 2)
}
