package pricing

import (
	"github.com/bookdesk/bookdesk/internal/currency"
	"github.com/bookdesk/bookdesk/internal/lineitem"
)

// State is the wire form of an editable section.
type State struct {
	AdvancedPricing bool                              `json:"advancedPricing"`
	Items           map[lineitem.Field]*lineitem.Item `json:"items"`
}

// State captures the section for transport or storage.
func (s *Section) State() State {
	out := State{AdvancedPricing: s.advanced, Items: make(map[lineitem.Field]*lineitem.Item)}
	for _, f := range s.items.Present() {
		it, _ := s.items.Lookup(f)
		copied := *it
		out.Items[f] = &copied
	}
	return out
}

// FromState rebuilds a section for the given business currency.
func FromState(st State, business currency.Code, policy currency.Policy) *Section {
	return &Section{
		items:    lineitem.Decode(st.Items, business, policy),
		advanced: st.AdvancedPricing,
	}
}
