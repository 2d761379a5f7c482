package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/spline-cc/spline/internal/spline"
)

// ConnMetrics is the OpenTelemetry instrument set for a population of spline
// connections, mirroring the counter/histogram/gauge split the teacher's
// QUICMetrics uses.
type ConnMetrics struct {
	phaseTransitions metric.Int64Counter
	lossEvents       metric.Int64Counter
	drainEvents      metric.Int64Counter

	rttHistogram    metric.Float64Histogram
	bwHistogram     metric.Float64Histogram
	pacingHistogram metric.Float64Histogram

	cwndGauge    metric.Int64Gauge
	fairnessGauge metric.Float64Gauge
}

// NewConnMetrics creates the spline instrument set on m.meter.
func NewConnMetrics(m *Manager) (*ConnMetrics, error) {
	phaseTransitions, err := m.meter.Int64Counter("spline_phase_transitions_total",
		metric.WithDescription("Phase machine transitions, by destination mode"))
	if err != nil {
		return nil, fmt.Errorf("build phase transitions counter: %w", err)
	}
	lossEvents, err := m.meter.Int64Counter("spline_loss_events_total",
		metric.WithDescription("Acks carrying a loss signal"))
	if err != nil {
		return nil, fmt.Errorf("build loss events counter: %w", err)
	}
	drainEvents, err := m.meter.Int64Counter("spline_drain_events_total",
		metric.WithDescription("Transitions into the DRAIN phase"))
	if err != nil {
		return nil, fmt.Errorf("build drain events counter: %w", err)
	}
	rttHistogram, err := m.meter.Float64Histogram("spline_rtt_seconds",
		metric.WithDescription("Current RTT sample distribution"))
	if err != nil {
		return nil, fmt.Errorf("build rtt histogram: %w", err)
	}
	bwHistogram, err := m.meter.Float64Histogram("spline_bandwidth_bytes_per_second",
		metric.WithDescription("Filtered max-bandwidth sample distribution"))
	if err != nil {
		return nil, fmt.Errorf("build bandwidth histogram: %w", err)
	}
	pacingHistogram, err := m.meter.Float64Histogram("spline_pacing_rate_bytes_per_second",
		metric.WithDescription("Installed pacing rate distribution"))
	if err != nil {
		return nil, fmt.Errorf("build pacing histogram: %w", err)
	}
	cwndGauge, err := m.meter.Int64Gauge("spline_cwnd_segments",
		metric.WithDescription("Current congestion window in segments"))
	if err != nil {
		return nil, fmt.Errorf("build cwnd gauge: %w", err)
	}
	fairnessGauge, err := m.meter.Float64Gauge("spline_fairness_ratio",
		metric.WithDescription("fairness_rat divided by 2^24 (about 0.99 to 1.31)"))
	if err != nil {
		return nil, fmt.Errorf("build fairness gauge: %w", err)
	}

	return &ConnMetrics{
		phaseTransitions: phaseTransitions,
		lossEvents:       lossEvents,
		drainEvents:      drainEvents,
		rttHistogram:     rttHistogram,
		bwHistogram:      bwHistogram,
		pacingHistogram:  pacingHistogram,
		cwndGauge:        cwndGauge,
		fairnessGauge:    fairnessGauge,
	}, nil
}

// RecordStep records one OnAck step's outputs against conn's attributes.
func (c *ConnMetrics) RecordStep(ctx context.Context, conn string, s *spline.State, out spline.HostWrites) {
	attrs := attribute.NewSet(attribute.String("conn", conn))
	opt := metric.WithAttributeSet(attrs)

	c.cwndGauge.Record(ctx, int64(out.SndCwnd), opt)
	c.pacingHistogram.Record(ctx, float64(out.PacingRate), opt)
	c.fairnessGauge.Record(ctx, float64(s.FairnessRat)/float64(1<<24), opt)
	if s.CurrRTT > 0 {
		c.rttHistogram.Record(ctx, float64(s.CurrRTT)/1e6, opt)
	}
	if s.BW > 0 {
		c.bwHistogram.Record(ctx, float64(s.BW), opt)
	}
}

// RecordLoss tallies an ack carrying a loss signal for conn.
func (c *ConnMetrics) RecordLoss(ctx context.Context, conn string) {
	c.lossEvents.Add(ctx, 1, metric.WithAttributes(attribute.String("conn", conn)))
}

// RecordTransition tallies a phase-machine transition into mode for conn,
// and separately tallies DRAIN entries since those mark a backoff event an
// operator will want to alert on.
func (c *ConnMetrics) RecordTransition(ctx context.Context, conn string, mode spline.Mode) {
	attrs := []attribute.KeyValue{attribute.String("conn", conn), attribute.String("mode", mode.String())}
	c.phaseTransitions.Add(ctx, 1, metric.WithAttributes(attrs...))
	if mode == spline.ModeDrain {
		c.drainEvents.Add(ctx, 1, metric.WithAttributes(attribute.String("conn", conn)))
	}
}
