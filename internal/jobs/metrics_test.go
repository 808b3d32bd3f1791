package jobmetrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestTrackerStatuses(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	_ = m.Track("payment:submit").End(nil)
	_ = m.Track("payment:submit").End(errors.New("timeout"))
	_ = m.Track("payment:submit").End(fmt.Errorf("rejected: %w", asynq.SkipRetry))

	for _, status := range []string{"success", "retry", "discarded"} {
		if got := testutil.ToFloat64(m.runs.WithLabelValues("payment:submit", status)); got != 1 {
			t.Fatalf("status %s: expected 1 run, got %v", status, got)
		}
	}
	if got := testutil.ToFloat64(m.failures.WithLabelValues("payment:submit")); got != 2 {
		t.Fatalf("expected 2 failures, got %v", got)
	}
}

func TestNilMetricsTracker(t *testing.T) {
	var m *Metrics
	err := errors.New("boom")
	if got := m.Track("x").End(err); got != err {
		t.Fatalf("expected error passthrough, got %v", got)
	}
}
