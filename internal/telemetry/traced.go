package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/spline-cc/spline/internal/spline"
)

// TracedController wraps a spline.Controller with one span per OnAck call
// and records the phase/metrics side effects that call produces. It never
// changes the control-loop outputs; it only observes them.
type TracedController struct {
	ctrl    *spline.Controller
	manager *Manager
	metrics *ConnMetrics
	conn    string

	lastMode spline.Mode
}

// NewTracedController wraps ctrl for connection id conn.
func NewTracedController(ctrl *spline.Controller, m *Manager, metrics *ConnMetrics, conn string) *TracedController {
	return &TracedController{ctrl: ctrl, manager: m, metrics: metrics, conn: conn}
}

// OnAck runs the wrapped Controller.OnAck inside a span tagged with the
// connection id and current phase, then records the step to ConnMetrics.
func (t *TracedController) OnAck(ctx context.Context, s *spline.State, sample spline.Sample, reads spline.HostReads) spline.HostWrites {
	ctx, span := t.manager.StartSpan(ctx, "spline.on_ack")
	defer span.End()
	span.SetAttributes(
		attribute.String("conn", t.conn),
		attribute.String("phase", s.CurrentMode.String()),
	)

	out := t.ctrl.OnAck(s, sample, reads)

	if sample.Losses {
		t.metrics.RecordLoss(ctx, t.conn)
	}
	if s.CurrentMode != t.lastMode {
		span.AddEvent("phase_transition", trace.WithAttributes(
			attribute.String("from", t.lastMode.String()),
			attribute.String("to", s.CurrentMode.String()),
		))
		t.metrics.RecordTransition(ctx, t.conn, s.CurrentMode)
		t.lastMode = s.CurrentMode
	}
	t.metrics.RecordStep(ctx, t.conn, s, out)

	if s.LossCnt == 0 {
		span.SetStatus(codes.Ok, "")
	}
	return out
}
