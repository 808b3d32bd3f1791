package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/bookdesk/bookdesk/internal/business"
	"github.com/bookdesk/bookdesk/internal/ledger"
	"github.com/bookdesk/bookdesk/internal/payments"
	"github.com/bookdesk/bookdesk/internal/platform/httpx"
	"github.com/bookdesk/bookdesk/internal/settlement"
)

// PaymentRecorder queues validated payments.
type PaymentRecorder interface {
	Record(ctx context.Context, quotationID string, p payments.Payload) (payments.Submission, error)
}

// Handler serves the record-payment form.
type Handler struct {
	logger    *slog.Logger
	ledgers   ledger.Source
	payments  PaymentRecorder
	statuses  payments.StatusReader
	validate  *validator.Validate
	rateLimit func(http.Handler) http.Handler
}

// NewHandler constructs the settlement handler. ledgers may be nil, in which
// case every settlement falls back to the amount being recorded.
func NewHandler(logger *slog.Logger, ledgers ledger.Source, recorder PaymentRecorder, statuses payments.StatusReader) *Handler {
	limiter := httprate.Limit(20, time.Minute, httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
		if company := r.Header.Get(business.HeaderCompanyID); company != "" {
			return "company:" + company, nil
		}
		return httprate.KeyByIP(r)
	}))
	return &Handler{
		logger:    logger,
		ledgers:   ledgers,
		payments:  recorder,
		statuses:  statuses,
		validate:  httpx.NewValidator(),
		rateLimit: limiter,
	}
}

// MountRoutes registers the settlement and payment endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/api/quotations/{id}/settlement", h.open)
	r.Post("/api/settlements/events", h.applyEvent)
	r.With(h.rateLimit).Post("/api/payments", h.recordPayment)
	r.Get("/api/payments/{key}", h.paymentStatus)
}

type settlementResponse struct {
	Settlement *settlement.Calculator `json:"settlement"`
	View       settlement.View        `json:"view"`
}

type eventRequest struct {
	Settlement settlement.Calculator `json:"settlement"`
	Event      settlement.Event      `json:"event"`
}

type paymentRequest struct {
	QuotationID string                 `json:"quotationId" validate:"required"`
	Settlement  settlement.Calculator  `json:"settlement"`
	Form        settlement.PaymentForm `json:"form"`
}

type paymentResponse struct {
	IdempotencyKey string           `json:"idempotencyKey"`
	Payload        payments.Payload `json:"payload"`
}

// open starts a settlement for a quotation from its ledger balance.
func (h *Handler) open(w http.ResponseWriter, r *http.Request) {
	calc := settlement.New(ledger.Lookup(r.Context(), h.ledgers, chi.URLParam(r, "id"), h.logger))
	httpx.JSON(w, http.StatusOK, settlementResponse{Settlement: calc, View: calc.View()})
}

func (h *Handler) applyEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := httpx.Validate(h.validate, req.Event); err != nil {
		httpx.RespondError(w, err)
		return
	}
	calc := req.Settlement
	calc.Bind()
	calc.Apply(req.Event)
	httpx.JSON(w, http.StatusOK, settlementResponse{Settlement: &calc, View: calc.View()})
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := httpx.Validate(h.validate, req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	calc := req.Settlement
	calc.Bind()
	calc.OnSettleAmountBlur()
	sub, err := h.payments.Record(r.Context(), req.QuotationID, calc.BuildPayment(req.Form))
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("record payment", slog.String("quotation_id", req.QuotationID), slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, paymentResponse{IdempotencyKey: sub.IdempotencyKey, Payload: sub.Payload})
}

// paymentStatus reports the outcome of a queued payment; a rejection carries
// the payments service message for the form's blocking alert.
func (h *Handler) paymentStatus(w http.ResponseWriter, r *http.Request) {
	if h.statuses == nil {
		httpx.RespondError(w, httpx.ErrUnavailable)
		return
	}
	status, err := h.statuses.PaymentStatus(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		if h.logger != nil && !errors.Is(err, httpx.ErrNotFound) {
			h.logger.Warn("payment status", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, status)
}
