package lineitem

import (
	"encoding/json"

	"github.com/bookdesk/bookdesk/internal/currency"
)

// EventKind enumerates the edits a form can make to a line item.
type EventKind string

const (
	EventCurrency   EventKind = "currency"
	EventAmount     EventKind = "amount"
	EventROE        EventKind = "roe"
	EventHome       EventKind = "home"
	EventNote       EventKind = "note"
	EventToggleNote EventKind = "toggleNote"
)

// Event is one user edit addressed to a field.
type Event struct {
	Field Field     `json:"field" validate:"required"`
	Kind  EventKind `json:"kind" validate:"required,oneof=currency amount roe home note toggleNote"`
	Value string    `json:"value"`
}

// Set maps field names to their line items.
type Set struct {
	items    map[Field]*Item
	business currency.Code
	policy   currency.Policy
}

// NewSet returns an empty set for the business currency.
func NewSet(business currency.Code, policy currency.Policy) *Set {
	return &Set{items: make(map[Field]*Item), business: business, policy: policy}
}

// Business is the home currency the set was built for.
func (s *Set) Business() currency.Code {
	return s.business
}

// Policy is the conversion policy the set was built with.
func (s *Set) Policy() currency.Policy {
	return s.policy
}

// Get returns the item for f, creating an empty one on first use.
func (s *Set) Get(f Field) *Item {
	it, ok := s.items[f]
	if !ok {
		it = New(s.business, s.policy)
		s.items[f] = it
	}
	return it
}

// Peek returns the item for f, or a detached empty item when f has none. The
// set is left unchanged.
func (s *Set) Peek(f Field) *Item {
	if it, ok := s.items[f]; ok {
		return it
	}
	return New(s.business, s.policy)
}

// Lookup returns the item for f without creating it.
func (s *Set) Lookup(f Field) (*Item, bool) {
	it, ok := s.items[f]
	return it, ok
}

// Put installs it under f, binding it to the set's business currency.
func (s *Set) Put(f Field, it *Item) {
	it.Bind(s.business, s.policy)
	s.items[f] = it
}

// Restore installs a previously saved item verbatim. Unlike Put it does not
// sanitise or recompute anything, so saved values render exactly as stored.
func (s *Set) Restore(f Field, it *Item) {
	it.business = s.business
	it.policy = s.policy
	s.items[f] = it
}

// Apply dispatches e to its field. Unknown fields and kinds are ignored and
// reported as false.
func (s *Set) Apply(e Event) bool {
	if !e.Field.Known() {
		return false
	}
	it := s.Get(e.Field)
	switch e.Kind {
	case EventCurrency:
		it.SetCurrency(currency.Code(e.Value))
	case EventAmount:
		it.SetAmount(e.Value)
	case EventROE:
		it.SetROE(e.Value)
	case EventHome:
		it.OverrideHomeAmount(e.Value)
	case EventNote:
		it.SetNote(e.Value)
	case EventToggleNote:
		it.ToggleNote()
	default:
		return false
	}
	return true
}

// Present lists the fields holding an item, in display order.
func (s *Set) Present() []Field {
	out := make([]Field, 0, len(s.items))
	for _, f := range Fields {
		if _, ok := s.items[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// MarshalJSON encodes the set as a field-keyed object.
func (s *Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.items)
}

// Decode rebuilds a set from its JSON form. Unknown field names are dropped.
func Decode(raw map[Field]*Item, business currency.Code, policy currency.Policy) *Set {
	s := NewSet(business, policy)
	for f, it := range raw {
		if it == nil || !f.Known() {
			continue
		}
		s.Put(f, it)
	}
	return s
}
