package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bookdesk/bookdesk/internal/currency"
	"github.com/bookdesk/bookdesk/internal/lineitem"
)

// SnapshotStore persists saved booking amounts.
type SnapshotStore interface {
	BookingSnapshot(ctx context.Context, bookingID int64) (Snapshot, error)
	SaveSnapshot(ctx context.Context, bookingID int64, snap Snapshot) error
}

// DraftRepository persists open-form drafts.
type DraftRepository interface {
	Save(ctx context.Context, d Draft) error
	Load(ctx context.Context, id string) (Draft, error)
	Delete(ctx context.Context, id string) error
}

// EventRecorder counts applied edits.
type EventRecorder interface {
	RecordPricingEvent(kind string, applied bool)
}

// SectionEvent is either a field edit or a pricing view toggle.
type SectionEvent struct {
	Event          *lineitem.Event `json:"event,omitempty" validate:"required_without=ToggleAdvanced"`
	ToggleAdvanced bool            `json:"toggleAdvanced,omitempty"`
}

// Service exposes the amount section operations to the HTTP layer.
type Service struct {
	snapshots SnapshotStore
	drafts    DraftRepository
	policy    currency.Policy
	recorder  EventRecorder
	now       func() time.Time
}

// NewService builds Service instance.
func NewService(snapshots SnapshotStore, drafts DraftRepository, policy currency.Policy, recorder EventRecorder) *Service {
	return &Service{snapshots: snapshots, drafts: drafts, policy: policy, recorder: recorder, now: time.Now}
}

// Render renders a posted state.
func (s *Service) Render(business currency.Code, st State) Rendering {
	return FromState(st, business, s.policy).Render()
}

// Apply applies one event to a posted state and returns the new state with its rendering.
func (s *Service) Apply(business currency.Code, st State, ev SectionEvent) (State, Rendering) {
	section := FromState(st, business, s.policy)
	s.apply(section, ev)
	return section.State(), section.Render()
}

func (s *Service) apply(section *Section, ev SectionEvent) {
	if ev.ToggleAdvanced {
		section.ToggleAdvancedPricing()
		s.record("toggleAdvanced", true)
	}
	if ev.Event != nil {
		applied := section.Apply(*ev.Event)
		s.record(string(ev.Event.Kind), applied)
	}
}

func (s *Service) record(kind string, applied bool) {
	if s.recorder != nil {
		s.recorder.RecordPricingEvent(kind, applied)
	}
}

// CreateDraft opens a draft for a newly mounted form.
func (s *Service) CreateDraft(ctx context.Context, business currency.Code, st State) (Draft, Rendering, error) {
	section := FromState(st, business, s.policy)
	d := Draft{
		ID:        uuid.NewString(),
		Business:  business,
		State:     section.State(),
		UpdatedAt: s.now(),
	}
	if err := s.drafts.Save(ctx, d); err != nil {
		return Draft{}, Rendering{}, err
	}
	return d, section.Render(), nil
}

// LoadDraft returns a draft with its rendering.
func (s *Service) LoadDraft(ctx context.Context, id string) (Draft, Rendering, error) {
	d, err := s.drafts.Load(ctx, id)
	if err != nil {
		return Draft{}, Rendering{}, err
	}
	return d, FromState(d.State, d.Business, s.policy).Render(), nil
}

// ApplyDraftEvent applies an event to a stored draft.
func (s *Service) ApplyDraftEvent(ctx context.Context, id string, ev SectionEvent) (Draft, Rendering, error) {
	d, err := s.drafts.Load(ctx, id)
	if err != nil {
		return Draft{}, Rendering{}, err
	}
	section := FromState(d.State, d.Business, s.policy)
	s.apply(section, ev)
	d.State = section.State()
	d.UpdatedAt = s.now()
	if err := s.drafts.Save(ctx, d); err != nil {
		return Draft{}, Rendering{}, err
	}
	return d, section.Render(), nil
}

// DiscardDraft drops a draft when its form closes.
func (s *Service) DiscardDraft(ctx context.Context, id string) error {
	return s.drafts.Delete(ctx, id)
}

// RenderSnapshot renders a posted snapshot read-only.
func (s *Service) RenderSnapshot(business currency.Code, snap Snapshot, advanced bool) Rendering {
	return RenderSnapshot(snap, business, s.policy, advanced)
}

// BookingSnapshot renders the stored snapshot of a cancelled booking.
func (s *Service) BookingSnapshot(ctx context.Context, bookingID int64, business currency.Code, advanced bool) (Rendering, error) {
	snap, err := s.snapshots.BookingSnapshot(ctx, bookingID)
	if err != nil {
		return Rendering{}, err
	}
	return RenderSnapshot(snap, business, s.policy, advanced), nil
}

// SaveBookingSnapshot stores the amounts of a booking, typically on cancellation.
func (s *Service) SaveBookingSnapshot(ctx context.Context, bookingID int64, snap Snapshot) error {
	return s.snapshots.SaveSnapshot(ctx, bookingID, snap)
}

// CommitDraft saves the draft as the booking's snapshot and discards it.
func (s *Service) CommitDraft(ctx context.Context, id string, bookingID int64, summary *Summary) (Snapshot, error) {
	d, err := s.drafts.Load(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	snap := FromState(d.State, d.Business, s.policy).Snapshot()
	snap.Summary = summary
	if err := s.snapshots.SaveSnapshot(ctx, bookingID, snap); err != nil {
		return Snapshot{}, err
	}
	if err := s.drafts.Delete(ctx, id); err != nil {
		return snap, err
	}
	return snap, nil
}
