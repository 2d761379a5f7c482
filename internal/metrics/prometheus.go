package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/spline-cc/spline/internal/spline"
)

// SplineMetrics is the Prometheus collector set for a population of spline
// connections. Unlike the teacher's internal/metrics/prometheus.go (which
// ships empty method bodies out of step with its own tests — see
// DESIGN.md), every gauge here is wired to a real field read off
// spline.State in Observe.
type SplineMetrics struct {
	cwndSegments   *prometheus.GaugeVec
	pacingBps      *prometheus.GaugeVec
	fairnessRat    *prometheus.GaugeVec
	lossCnt        *prometheus.GaugeVec
	stableFlag     *prometheus.GaugeVec
	unfairFlag     *prometheus.GaugeVec
	ltUseBW        *prometheus.GaugeVec
	phaseTransitions *prometheus.CounterVec
}

// NewSplineMetrics builds and registers the collector set against reg. Pass
// prometheus.NewRegistry() in tests to avoid colliding with the default
// global registry.
func NewSplineMetrics(reg prometheus.Registerer) *SplineMetrics {
	m := &SplineMetrics{
		cwndSegments: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "spline",
			Name:      "cwnd_segments",
			Help:      "Current congestion window in segments.",
		}, []string{"conn"}),
		pacingBps: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "spline",
			Name:      "pacing_rate_bytes_per_second",
			Help:      "Current installed pacing rate.",
		}, []string{"conn"}),
		fairnessRat: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "spline",
			Name:      "fairness_ratio_scaled",
			Help:      "fairness_rat, scale 2^24.",
		}, []string{"conn"}),
		lossCnt: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "spline",
			Name:      "loss_cnt",
			Help:      "Adaptive loss counter.",
		}, []string{"conn"}),
		stableFlag: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "spline",
			Name:      "stable_flag",
			Help:      "Saturating stability vote counter.",
		}, []string{"conn"}),
		unfairFlag: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "spline",
			Name:      "unfair_flag",
			Help:      "Saturating unfairness vote counter.",
		}, []string{"conn"}),
		ltUseBW: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "spline",
			Name:      "lt_use_bw",
			Help:      "1 when the long-term bandwidth override is active.",
		}, []string{"conn"}),
		phaseTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spline",
			Name:      "phase_transitions_total",
			Help:      "Phase machine transitions by destination mode.",
		}, []string{"conn", "mode"}),
	}

	reg.MustRegister(
		m.cwndSegments, m.pacingBps, m.fairnessRat, m.lossCnt,
		m.stableFlag, m.unfairFlag, m.ltUseBW, m.phaseTransitions,
	)
	return m
}

// Observe updates every gauge from a connection's current state.
func (m *SplineMetrics) Observe(conn string, out spline.HostWrites, s *spline.State) {
	m.cwndSegments.WithLabelValues(conn).Set(float64(out.SndCwnd))
	m.pacingBps.WithLabelValues(conn).Set(float64(out.PacingRate))
	m.fairnessRat.WithLabelValues(conn).Set(float64(s.FairnessRat))
	m.lossCnt.WithLabelValues(conn).Set(float64(s.LossCnt))
	m.stableFlag.WithLabelValues(conn).Set(float64(s.StableFlag))
	m.unfairFlag.WithLabelValues(conn).Set(float64(s.UnfairFlag))
	ltUse := 0.0
	if s.LTUseBW {
		ltUse = 1.0
	}
	m.ltUseBW.WithLabelValues(conn).Set(ltUse)
}

// RecordTransition increments the phase-transition counter for conn/mode.
func (m *SplineMetrics) RecordTransition(conn, mode string) {
	m.phaseTransitions.WithLabelValues(conn, mode).Inc()
}
