package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hibiken/asynq"

	"github.com/bookdesk/bookdesk/jobs"
)

// JobsCLI wraps manual management helpers for the payment queue.
type JobsCLI struct {
	inspector *asynq.Inspector
}

// NewJobsCLI initialises the CLI helpers using the provided Redis address.
func NewJobsCLI(redisAddr string) *JobsCLI {
	return &JobsCLI{inspector: asynq.NewInspector(asynq.RedisClientOpt{Addr: redisAddr})}
}

// Close releases underlying resources.
func (c *JobsCLI) Close() error {
	if c == nil || c.inspector == nil {
		return nil
	}
	return c.inspector.Close()
}

// QueueStats summarises the current queue state.
type QueueStats struct {
	Queue     string
	Pending   int
	Active    int
	Scheduled int
	Retry     int
	Archived  int
}

// InspectQueue reports the metrics for a queue.
func (c *JobsCLI) InspectQueue(ctx context.Context, queue string) (QueueStats, error) {
	if c == nil || c.inspector == nil {
		return QueueStats{}, errors.New("jobs cli: inspector not configured")
	}
	info, err := c.inspector.GetQueueInfo(queue)
	if err != nil {
		return QueueStats{}, err
	}
	stats := QueueStats{Queue: queue}
	if info != nil {
		stats.Pending = int(info.Pending)
		stats.Active = int(info.Active)
		stats.Scheduled = int(info.Scheduled)
		stats.Retry = int(info.Retry)
		stats.Archived = int(info.Archived)
	}
	return stats, nil
}

// RetryArchivedPayments moves up to limit archived payment submissions back
// to pending and returns how many were requeued.
func (c *JobsCLI) RetryArchivedPayments(ctx context.Context, limit int) (int, error) {
	if c == nil || c.inspector == nil {
		return 0, errors.New("jobs cli: inspector not configured")
	}
	if limit <= 0 {
		limit = 10
	}
	tasks, err := c.inspector.ListArchivedTasks(jobs.QueueCritical, asynq.PageSize(limit), asynq.Page(1))
	if err != nil {
		return 0, err
	}
	requeued := 0
	for _, task := range tasks {
		if task.Type != jobs.TaskTypePaymentSubmit {
			continue
		}
		if err := c.inspector.RunTask(jobs.QueueCritical, task.ID); err != nil {
			return requeued, fmt.Errorf("jobs cli: run %s: %w", task.ID, err)
		}
		requeued++
	}
	return requeued, nil
}

// JobsOptions defines available flags for the jobs command.
type JobsOptions struct {
	Retry  bool
	Limit  int
	Stdout io.Writer
	Stderr io.Writer
}

// JobsCommand prints both queues and optionally requeues archived payments.
// It exits 10 when archived payments remain.
func (c *JobsCLI) JobsCommand(ctx context.Context, opts JobsOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Retry {
		n, err := c.RetryArchivedPayments(ctx, opts.Limit)
		if err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "jobs: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintf(opts.Stdout, "Requeued %d archived payment(s)\n", n)
	}
	archived := 0
	for _, queue := range []string{jobs.QueueCritical, jobs.QueueDefault} {
		stats, err := c.InspectQueue(ctx, queue)
		if err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "jobs: inspect %s: %v\n", queue, err)
			return 1
		}
		_, _ = fmt.Fprintf(opts.Stdout, "%-8s pending=%d active=%d scheduled=%d retry=%d archived=%d\n",
			stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry, stats.Archived)
		if queue == jobs.QueueCritical {
			archived = stats.Archived
		}
	}
	if archived > 0 {
		return 10
	}
	return 0
}
