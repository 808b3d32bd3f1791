package settlement

// EventKind enumerates the record-payment form inputs that touch settlement.
type EventKind string

const (
	EventAmount EventKind = "amount"
	EventSettle EventKind = "settle"
	EventBlur   EventKind = "blur"
)

// Event is one input on the record-payment form.
type Event struct {
	Kind  EventKind `json:"kind" validate:"required,oneof=amount settle blur"`
	Value string    `json:"value"`
}

// Apply dispatches e; unknown kinds are ignored.
func (c *Calculator) Apply(e Event) bool {
	switch e.Kind {
	case EventAmount:
		c.OnAmountToRecordChange(e.Value)
	case EventSettle:
		c.OnSettleAmountChange(e.Value)
	case EventBlur:
		c.OnSettleAmountBlur()
	default:
		return false
	}
	return true
}

// View is the rendered settlement block.
type View struct {
	Pending   string `json:"pending"`
	Settle    string `json:"settle"`
	Remaining string `json:"remaining"`
}

// View renders the calculator.
func (c *Calculator) View() View {
	return View{
		Pending:   c.Pending().String(),
		Settle:    c.SettleAmount,
		Remaining: c.Remaining().String(),
	}
}
