package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestWorkerMetricsTracksJobs(t *testing.T) {
	m := NewWorkerMetrics("worker")

	m.StartJob()
	if got := testutil.ToFloat64(m.jobInFlight); got != 1 {
		t.Fatalf("expected one in-flight job, got %f", got)
	}
	m.FinishJob("worker", time.Second, errors.New("boom"))
	m.ObserveQueueLag("worker", -time.Second)

	if got := testutil.ToFloat64(m.jobInFlight); got != 0 {
		t.Fatalf("expected no in-flight jobs, got %f", got)
	}
	if got := testutil.ToFloat64(m.jobTotal.WithLabelValues("worker", "error")); got != 1 {
		t.Fatalf("expected one failed job, got %f", got)
	}
	if got := testutil.CollectAndCount(m.queueLag); got != 0 {
		t.Fatalf("expected negative lag to be ignored, got %d series", got)
	}
}
