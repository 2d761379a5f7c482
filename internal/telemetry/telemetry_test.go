package telemetry

import (
	"context"
	"testing"

	"github.com/spline-cc/spline/internal/spline"
)

type fixedRNG struct{ v uint32 }

func (r fixedRNG) Next32(bound uint32) uint32 {
	if bound == 0 {
		return 0
	}
	return r.v % bound
}

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(context.Background(), Config{
		ServiceName:    "spline-test",
		ServiceVersion: "0.0.0-test",
		Environment:    "test",
		SampleRate:     1.0,
	})
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}
	t.Cleanup(func() { _ = m.Shutdown(context.Background()) })
	return m
}

func TestNewManagerLocalProviders(t *testing.T) {
	m := newManager(t)
	ctx, span := m.StartSpan(context.Background(), "test-span")
	if ctx == nil {
		t.Fatal("StartSpan returned nil context")
	}
	span.End()
}

func TestConnMetricsRecordStep(t *testing.T) {
	m := newManager(t)
	cm, err := NewConnMetrics(m)
	if err != nil {
		t.Fatalf("NewConnMetrics() error: %v", err)
	}

	s := &spline.State{CurrRTT: 50000, BW: 20000, FairnessRat: 17_000_000}
	out := spline.HostWrites{SndCwnd: 30, PacingRate: 1_000_000}

	cm.RecordStep(context.Background(), "conn-1", s, out)
	cm.RecordLoss(context.Background(), "conn-1")
	cm.RecordTransition(context.Background(), "conn-1", spline.ModeDrain)
}

func TestTracedControllerRunsUnderlyingController(t *testing.T) {
	m := newManager(t)
	cm, err := NewConnMetrics(m)
	if err != nil {
		t.Fatalf("NewConnMetrics() error: %v", err)
	}

	ctrl := spline.NewController(fixedRNG{v: 3}, spline.NopLogger{})
	s := &spline.State{}
	reads := spline.HostReads{MSS: 1448, SndCwndClamp: 1_000_000, SRTTUs: 400_000}
	ctrl.Init(s, reads)

	tc := NewTracedController(ctrl, m, cm, "conn-1")

	sample := spline.Sample{IntervalUs: 50000, RTTUs: 50000, PriorInFlight: 20000}
	out := tc.OnAck(context.Background(), s, sample, reads)
	if out.SndCwnd == 0 {
		t.Fatal("traced OnAck must still produce a non-zero cwnd")
	}
}
