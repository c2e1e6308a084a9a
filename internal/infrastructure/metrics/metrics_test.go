package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := New(registry)

	if m.AccountOperations == nil || m.HTTPRequests == nil || m.TransferDuration == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.AccountOperations.WithLabelValues("deposit").Inc()
	m.OutboxPublished.Inc()

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestCountersAccumulate(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.AccrualRuns.WithLabelValues("interest").Add(3)
	m.AccrualFailures.WithLabelValues("interest").Inc()

	if got := testutil.ToFloat64(m.AccrualRuns.WithLabelValues("interest")); got != 3 {
		t.Fatalf("expected 3 accrual accounts, got %v", got)
	}

	if got := testutil.ToFloat64(m.AccrualFailures.WithLabelValues("interest")); got != 1 {
		t.Fatalf("expected 1 accrual failure, got %v", got)
	}
}

func TestNewIsolatedRegistries(t *testing.T) {
	// Separate registries must not collide on metric names.
	_ = New(prometheus.NewRegistry())
	_ = New(prometheus.NewRegistry())
}
