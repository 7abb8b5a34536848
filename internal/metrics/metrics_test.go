package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JaimeStill/shoreline/internal/metrics"
)

func TestRecordOperation(t *testing.T) {
	m, err := metrics.New(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	m.RecordOperation(metrics.OpSuggestion, "timeout")
	m.RecordOperation(metrics.OpSuggestion, "timeout")
	m.RecordOperation(metrics.OpSuggestion, "success")

	got := testutil.ToFloat64(m.Operations.WithLabelValues(metrics.OpSuggestion, "timeout"))
	if got != 2 {
		t.Errorf("timeout count = %v, want 2", got)
	}
}

func TestSetDrafts(t *testing.T) {
	m, err := metrics.New(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	m.SetDrafts(3)

	if got := testutil.ToFloat64(m.Drafts); got != 3 {
		t.Errorf("drafts = %v, want 3", got)
	}
}

func TestDoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := metrics.New(reg); err != nil {
		t.Fatalf("first New: %v", err)
	}
	if _, err := metrics.New(reg); err == nil {
		t.Error("expected error registering twice")
	}
}

func TestNopSatisfiesRecorder(t *testing.T) {
	var r metrics.Recorder = metrics.Nop{}
	r.RecordOperation("x", "y")
	r.RecordDuration("x", 1)
}
