package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "babel-tmux"

// Metrics holds all OTEL metric instruments for babel-tmux.
// All counters are cumulative (monotonic) and safe for concurrent use.
type Metrics struct {
	// Side effects issued against the multiplexer
	SessionsCreated   metric.Int64Counter
	WindowsCreated    metric.Int64Counter
	TerminalsLaunched metric.Int64Counter

	// Body delivery
	LinesDelivered    metric.Int64Counter
	DeliveriesSkipped metric.Int64Counter

	// Listing queries (partitioned by kind: sessions, window)
	LivenessQueries metric.Int64Counter

	// Time spent waiting for a window to show up
	WindowReadyWait metric.Float64Histogram
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered (safe to call unconditionally).
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.SessionsCreated, err = meter.Int64Counter("sessions.created",
		metric.WithDescription("Number of sessions created because they did not exist"))
	if err != nil {
		return nil, err
	}

	m.WindowsCreated, err = meter.Int64Counter("windows.created",
		metric.WithDescription("Number of windows created because they did not exist"))
	if err != nil {
		return nil, err
	}

	m.TerminalsLaunched, err = meter.Int64Counter("terminals.launched",
		metric.WithDescription("Number of terminal emulators launched to attach to a new session"))
	if err != nil {
		return nil, err
	}

	m.LinesDelivered, err = meter.Int64Counter("lines.delivered",
		metric.WithDescription("Number of body lines sent with send-keys"),
		metric.WithUnit("{line}"))
	if err != nil {
		return nil, err
	}

	m.DeliveriesSkipped, err = meter.Int64Counter("deliveries.skipped",
		metric.WithDescription("Number of bodies dropped because the window was gone at delivery time"))
	if err != nil {
		return nil, err
	}

	m.LivenessQueries, err = meter.Int64Counter("liveness.queries",
		metric.WithDescription("Number of listing queries issued, partitioned by kind (sessions, window)"))
	if err != nil {
		return nil, err
	}

	m.WindowReadyWait, err = meter.Float64Histogram("window_ready.wait",
		metric.WithDescription("Time spent polling until the target window existed"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordCreated records a created session or window.
func (m *Metrics) RecordCreated(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	switch kind {
	case "session":
		m.SessionsCreated.Add(ctx, 1)
	case "window":
		m.WindowsCreated.Add(ctx, 1)
	}
}

// RecordTerminalLaunch records a launched terminal emulator.
func (m *Metrics) RecordTerminalLaunch(ctx context.Context, terminal string) {
	if m == nil {
		return
	}
	m.TerminalsLaunched.Add(ctx, 1, metric.WithAttributes(
		attribute.String("terminal", terminal),
	))
}

// RecordDelivery records the result of a body delivery.
func (m *Metrics) RecordDelivery(ctx context.Context, lines int, skipped bool) {
	if m == nil {
		return
	}
	if skipped {
		m.DeliveriesSkipped.Add(ctx, 1)
		return
	}
	m.LinesDelivered.Add(ctx, int64(lines))
}

// RecordQuery records a listing query of the given kind.
func (m *Metrics) RecordQuery(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.LivenessQueries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("query.kind", kind),
	))
}

// RecordReadyWait records how long the readiness poll took.
func (m *Metrics) RecordReadyWait(ctx context.Context, d time.Duration, ready bool) {
	if m == nil {
		return
	}
	m.WindowReadyWait.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.Bool("ready", ready),
	))
}
