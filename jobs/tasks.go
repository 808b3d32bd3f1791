package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/bookdesk/bookdesk/internal/jobs"
	"github.com/bookdesk/bookdesk/internal/payments"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// QueueCritical carries money movements.
	QueueCritical = "critical"
	// TaskTypePaymentSubmit delivers a recorded payment to the payments service.
	TaskTypePaymentSubmit = "payment:submit"
)

const (
	paymentSubmitMaxRetry = 8
	// finished submissions stay inspectable so the form can read the outcome
	paymentSubmitRetention = 24 * time.Hour
)

// NewPaymentSubmitTask constructs an Asynq task. The idempotency key doubles as
// the task ID so a double submit from the form is queued once.
func NewPaymentSubmitTask(sub payments.Submission) (*asynq.Task, error) {
	data, err := json.Marshal(sub)
	if err != nil {
		return nil, err
	}
	opts := []asynq.Option{asynq.Queue(QueueCritical), asynq.MaxRetry(paymentSubmitMaxRetry), asynq.Retention(paymentSubmitRetention)}
	if sub.IdempotencyKey != "" {
		opts = append(opts, asynq.TaskID(sub.IdempotencyKey))
	}
	return asynq.NewTask(TaskTypePaymentSubmit, data, opts...), nil
}

// LedgerInvalidator drops cached ledger balances.
type LedgerInvalidator interface {
	Invalidate(ctx context.Context) error
}

// PaymentSubmitHandler processes TaskTypePaymentSubmit tasks.
type PaymentSubmitHandler struct {
	submitter payments.Submitter
	ledgers   LedgerInvalidator
	metrics   *jobmetrics.Metrics
	logger    *slog.Logger
}

// NewPaymentSubmitHandler wires the handler dependencies. ledgers and metrics may be nil.
func NewPaymentSubmitHandler(submitter payments.Submitter, ledgers LedgerInvalidator, metrics *jobmetrics.Metrics, logger *slog.Logger) *PaymentSubmitHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PaymentSubmitHandler{submitter: submitter, ledgers: ledgers, metrics: metrics, logger: logger}
}

// ProcessTask implements asynq.Handler.
func (h *PaymentSubmitHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var sub payments.Submission
	if err := json.Unmarshal(t.Payload(), &sub); err != nil {
		return fmt.Errorf("decode payment submission: %v: %w", err, asynq.SkipRetry)
	}
	tracker := h.metrics.Track(TaskTypePaymentSubmit)
	receipt, err := h.submitter.Submit(ctx, sub)
	if err != nil {
		var rejected *payments.RejectedError
		if errors.As(err, &rejected) && rejected.Permanent() {
			h.writeOutcome(t, payments.Status{State: payments.StateRejected, Message: rejected.Message})
			h.logger.Error("payment rejected",
				slog.String("quotation_id", sub.QuotationID),
				slog.String("idempotency_key", sub.IdempotencyKey),
				slog.Int("status", rejected.StatusCode),
				slog.String("message", rejected.Message))
			return tracker.End(fmt.Errorf("%w: %w", err, asynq.SkipRetry))
		}
		if rejected != nil {
			h.writeOutcome(t, payments.Status{State: payments.StateRetrying, Message: rejected.Message})
		}
		h.logger.Warn("payment submit failed",
			slog.String("quotation_id", sub.QuotationID),
			slog.Any("error", err))
		return tracker.End(err)
	}
	if h.ledgers != nil {
		if err := h.ledgers.Invalidate(ctx); err != nil {
			h.logger.Warn("ledger cache invalidate", slog.Any("error", err))
		}
	}
	h.writeOutcome(t, payments.Status{State: payments.StateRecorded, PaymentID: receipt.PaymentID})
	h.logger.Info("payment recorded",
		slog.String("quotation_id", sub.QuotationID),
		slog.String("payment_id", receipt.PaymentID),
		slog.String("status", receipt.Status))
	return tracker.End(nil)
}

// writeOutcome stores the attempt's result on the task for PaymentStatus.
func (h *PaymentSubmitHandler) writeOutcome(t *asynq.Task, st payments.Status) {
	w := t.ResultWriter()
	if w == nil {
		return
	}
	data, err := json.Marshal(st)
	if err != nil {
		return
	}
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("write payment outcome", slog.String("task_id", w.TaskID()), slog.Any("error", err))
	}
}

// PaymentStatusReader reads submission outcomes back from the critical queue.
type PaymentStatusReader struct {
	inspector *asynq.Inspector
}

// NewPaymentStatusReader wraps an inspector.
func NewPaymentStatusReader(inspector *asynq.Inspector) *PaymentStatusReader {
	return &PaymentStatusReader{inspector: inspector}
}

// PaymentStatus implements payments.StatusReader.
func (r *PaymentStatusReader) PaymentStatus(ctx context.Context, idempotencyKey string) (payments.Status, error) {
	info, err := r.inspector.GetTaskInfo(QueueCritical, idempotencyKey)
	if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
		return payments.Status{}, payments.ErrSubmissionNotFound
	}
	if err != nil {
		return payments.Status{}, fmt.Errorf("jobs: payment status %s: %w", idempotencyKey, err)
	}
	return paymentStatusFromInfo(info), nil
}

// paymentStatusFromInfo takes the state from the task and the payment id or
// service message from the last written outcome.
func paymentStatusFromInfo(info *asynq.TaskInfo) payments.Status {
	var st payments.Status
	if len(info.Result) > 0 {
		_ = json.Unmarshal(info.Result, &st)
	}
	st.IdempotencyKey = info.ID
	switch info.State {
	case asynq.TaskStateCompleted:
		st.State = payments.StateRecorded
		st.Message = ""
	case asynq.TaskStateArchived:
		st.State = payments.StateRejected
		st.PaymentID = ""
		if st.Message == "" {
			st.Message = payments.DefaultRejectionMessage
		}
	case asynq.TaskStateRetry:
		st.State = payments.StateRetrying
	default:
		st.State = payments.StateQueued
		st.Message = ""
	}
	return st
}
