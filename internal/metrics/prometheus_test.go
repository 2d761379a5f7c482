package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/spline-cc/spline/internal/spline"
)

func TestSplineMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSplineMetrics(reg)

	s := &spline.State{FairnessRat: 17_000_000, LossCnt: 3, StableFlag: 5, UnfairFlag: 1, LTUseBW: true}
	out := spline.HostWrites{SndCwnd: 42, PacingRate: 123456}

	m.Observe("conn-1", out, s)
	m.RecordTransition("conn-1", "PROBE_BW")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected at least one registered metric family after Observe")
	}
}

func TestHDRStateRecordsRTT(t *testing.T) {
	h := NewHDRState()
	h.RecordRTT(50000)
	h.RecordRTT(60000)

	stats := h.RTTStats()
	if stats.Count != 2 {
		t.Fatalf("RTT count = %d, want 2", stats.Count)
	}
	if stats.Max < stats.Min {
		t.Fatal("max must be >= min")
	}
}

func TestHDRStateCounters(t *testing.T) {
	h := NewHDRState()
	h.RecordBandwidth(1000)
	h.RecordLoss()
	h.RecordDrain()

	c := h.Counters()
	if c.Samples != 1 || c.LossEvents != 1 || c.DrainEvents != 1 {
		t.Fatalf("unexpected counters: %+v", c)
	}
}
