package payments

import (
	"context"
	"fmt"

	"github.com/bookdesk/bookdesk/internal/platform/httpx"
)

// State is where a queued submission stands.
type State string

const (
	StateQueued   State = "queued"
	StateRetrying State = "retrying"
	StateRecorded State = "recorded"
	StateRejected State = "rejected"
)

// DefaultRejectionMessage is shown when the payments service never answered
// with a message of its own.
const DefaultRejectionMessage = "Payment could not be recorded. Please try again."

// ErrSubmissionNotFound reports an unknown or expired idempotency key.
var ErrSubmissionNotFound = fmt.Errorf("payments: submission: %w", httpx.ErrNotFound)

// Status is what the form polls after a payment was accepted. Message carries
// the payments service's own error text once a submission is rejected.
type Status struct {
	IdempotencyKey string `json:"idempotencyKey"`
	State          State  `json:"state"`
	PaymentID      string `json:"paymentId,omitempty"`
	Message        string `json:"message,omitempty"`
}

// StatusReader looks up submissions by idempotency key.
type StatusReader interface {
	PaymentStatus(ctx context.Context, idempotencyKey string) (Status, error)
}
