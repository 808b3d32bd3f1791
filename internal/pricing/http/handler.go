package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bookdesk/bookdesk/internal/business"
	"github.com/bookdesk/bookdesk/internal/currency"
	"github.com/bookdesk/bookdesk/internal/platform/httpx"
	"github.com/bookdesk/bookdesk/internal/pricing"
)

// Handler exposes the amount section over JSON.
type Handler struct {
	logger   *slog.Logger
	service  *pricing.Service
	table    currency.Table
	validate *validator.Validate
}

// NewHandler constructs the pricing handler.
func NewHandler(logger *slog.Logger, service *pricing.Service, table currency.Table) *Handler {
	return &Handler{logger: logger, service: service, table: table, validate: httpx.NewValidator()}
}

// MountRoutes registers the pricing endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/api/currencies", h.listCurrencies)
	r.Route("/api/pricing", func(r chi.Router) {
		r.Post("/render", h.render)
		r.Post("/events", h.applyEvent)
		r.Post("/snapshot", h.renderSnapshot)
		r.Route("/drafts", func(r chi.Router) {
			r.Post("/", h.createDraft)
			r.Get("/{id}", h.loadDraft)
			r.Delete("/{id}", h.discardDraft)
			r.Post("/{id}/events", h.applyDraftEvent)
			r.Post("/{id}/commit", h.commitDraft)
		})
	})
	r.Route("/api/bookings/{id}/snapshot", func(r chi.Router) {
		r.Get("/", h.bookingSnapshot)
		r.Put("/", h.saveBookingSnapshot)
	})
}

type stateRequest struct {
	State pricing.State `json:"state"`
}

type eventRequest struct {
	State pricing.State        `json:"state"`
	Event pricing.SectionEvent `json:"event"`
}

type stateResponse struct {
	State     pricing.State     `json:"state"`
	Rendering pricing.Rendering `json:"rendering"`
}

type draftResponse struct {
	Draft     pricing.Draft     `json:"draft"`
	Rendering pricing.Rendering `json:"rendering"`
}

type snapshotRequest struct {
	Snapshot        pricing.Snapshot `json:"snapshot"`
	AdvancedPricing bool             `json:"advancedPricing"`
}

type commitRequest struct {
	BookingID int64            `json:"bookingId" validate:"required,gt=0"`
	Summary   *pricing.Summary `json:"summary,omitempty"`
}

func (h *Handler) listCurrencies(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"businessCurrency": business.CurrencyFromContext(r.Context()),
		"currencies":       h.table.Entries(),
	})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request) {
	var req stateRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, h.service.Render(business.CurrencyFromContext(r.Context()), req.State))
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
	st, rendering := h.service.Apply(business.CurrencyFromContext(r.Context()), req.State, req.Event)
	httpx.JSON(w, http.StatusOK, stateResponse{State: st, Rendering: rendering})
}

func (h *Handler) renderSnapshot(w http.ResponseWriter, r *http.Request) {
	var req snapshotRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, h.service.RenderSnapshot(business.CurrencyFromContext(r.Context()), req.Snapshot, req.AdvancedPricing))
}

func (h *Handler) createDraft(w http.ResponseWriter, r *http.Request) {
	var req stateRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	d, rendering, err := h.service.CreateDraft(r.Context(), business.CurrencyFromContext(r.Context()), req.State)
	if err != nil {
		h.fail(w, r, "create draft", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, draftResponse{Draft: d, Rendering: rendering})
}

func (h *Handler) loadDraft(w http.ResponseWriter, r *http.Request) {
	d, rendering, err := h.service.LoadDraft(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "load draft", err)
		return
	}
	httpx.JSON(w, http.StatusOK, draftResponse{Draft: d, Rendering: rendering})
}

func (h *Handler) discardDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DiscardDraft(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "discard draft", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) applyDraftEvent(w http.ResponseWriter, r *http.Request) {
	var ev pricing.SectionEvent
	if err := httpx.DecodeJSON(w, r, &ev); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := httpx.Validate(h.validate, ev); err != nil {
		httpx.RespondError(w, err)
		return
	}
	d, rendering, err := h.service.ApplyDraftEvent(r.Context(), chi.URLParam(r, "id"), ev)
	if err != nil {
		h.fail(w, r, "apply draft event", err)
		return
	}
	httpx.JSON(w, http.StatusOK, draftResponse{Draft: d, Rendering: rendering})
}

func (h *Handler) commitDraft(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := httpx.Validate(h.validate, req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	snap, err := h.service.CommitDraft(r.Context(), chi.URLParam(r, "id"), req.BookingID, req.Summary)
	if err != nil {
		h.fail(w, r, "commit draft", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, snap)
}

func (h *Handler) bookingSnapshot(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := bookingIDParam(w, r)
	if !ok {
		return
	}
	advanced, _ := strconv.ParseBool(r.URL.Query().Get("advanced"))
	rendering, err := h.service.BookingSnapshot(r.Context(), bookingID, business.CurrencyFromContext(r.Context()), advanced)
	if err != nil {
		h.fail(w, r, "booking snapshot", err)
		return
	}
	httpx.JSON(w, http.StatusOK, rendering)
}

func (h *Handler) saveBookingSnapshot(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := bookingIDParam(w, r)
	if !ok {
		return
	}
	var snap pricing.Snapshot
	if err := httpx.DecodeJSON(w, r, &snap); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.SaveBookingSnapshot(r.Context(), bookingID, snap); err != nil {
		h.fail(w, r, "save booking snapshot", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func bookingIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "booking id must be a positive integer")
		return 0, false
	}
	return id, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if h.logger != nil && !errors.Is(err, httpx.ErrNotFound) {
		h.logger.Error(op, slog.Any("error", err), slog.String("path", r.URL.Path))
	}
	httpx.RespondError(w, err)
}
