package payments

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/bookdesk/bookdesk/internal/platform/httpx"
)

// Queue hands submissions to the background worker.
type Queue interface {
	EnqueuePaymentSubmit(ctx context.Context, sub Submission) error
}

// Submitter delivers a submission to the payments service.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) (Receipt, error)
}

// Recorder counts submissions by outcome.
type Recorder interface {
	RecordPayment(outcome string)
}

// Service validates payments and queues them for delivery.
type Service struct {
	queue    Queue
	validate *validator.Validate
	recorder Recorder
	logger   *slog.Logger
}

// NewService constructs a payment service.
func NewService(queue Queue, recorder Recorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{queue: queue, validate: NewValidator(), recorder: recorder, logger: logger}
}

// Record validates p and enqueues it for quotationID.
func (s *Service) Record(ctx context.Context, quotationID string, p Payload) (Submission, error) {
	quotationID = strings.TrimSpace(quotationID)
	if quotationID == "" {
		return Submission{}, httpx.ValidationErrors{"quotationId": "required"}
	}
	if err := Validate(s.validate, p); err != nil {
		s.record("invalid")
		return Submission{}, err
	}
	sub := Submission{QuotationID: quotationID, IdempotencyKey: uuid.NewString(), Payload: p}
	if err := s.queue.EnqueuePaymentSubmit(ctx, sub); err != nil {
		s.record("enqueue_failed")
		return Submission{}, fmt.Errorf("payments: enqueue: %w", err)
	}
	s.record("queued")
	s.logger.Info("payment queued",
		slog.String("quotation_id", quotationID),
		slog.String("idempotency_key", sub.IdempotencyKey))
	return sub, nil
}

func (s *Service) record(outcome string) {
	if s.recorder != nil {
		s.recorder.RecordPayment(outcome)
	}
}
