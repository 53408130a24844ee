// Package orchestrator prepares a tmux window and types a body of shell
// text into it.
//
// One invocation checks what exists, creates the missing session and
// window, attaches a terminal to new sessions, waits until the window is
// visible to tmux, and then delivers the body line by line. Nothing is
// rolled back: running the same invocation again is safe because creation
// is guarded by the liveness checks.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/timvw/babel-tmux/internal/mux"
	telem "github.com/timvw/babel-tmux/internal/otel"
)

// ErrWindowNotReady is returned when the target window did not appear
// before the readiness deadline.
var ErrWindowNotReady = errors.New("window did not become ready")

var errWindowMissing = errors.New("window not found")

const (
	defaultReadyInterval = 20 * time.Millisecond
	maxReadyInterval     = 500 * time.Millisecond
)

// Options configures an Orchestrator. It is copied at construction and
// never modified afterwards.
type Options struct {
	// DefaultWindow names the first window of new sessions.
	DefaultWindow string
	// Home is the working directory of new sessions and windows.
	Home string
	// Terminal is the emulator launched for new sessions. Empty disables
	// the launch.
	Terminal string
	// ReadyTimeout bounds the readiness poll. Zero waits until ctx is done.
	ReadyTimeout time.Duration
	// ReadyInterval is the first poll interval; later ones back off.
	ReadyInterval time.Duration
}

// Result describes what one invocation did.
type Result struct {
	ID               string  `json:"id"`
	Target           string  `json:"target"`
	SessionCreated   bool    `json:"session_created"`
	WindowCreated    bool    `json:"window_created"`
	TerminalLaunched bool    `json:"terminal_launched"`
	Outcome          Outcome `json:"outcome"`
	Lines            int     `json:"lines"`
	WaitMs           int64   `json:"wait_ms"`
}

// Orchestrator drives one multiplexer.
type Orchestrator struct {
	mux      mux.Multiplexer
	liveness mux.Liveness
	opts     Options

	// Metrics may be nil.
	Metrics *telem.Metrics
	// Tracer defaults to the global babel-tmux tracer.
	Tracer trace.Tracer
	// Warnf reports best-effort failures. May be nil.
	Warnf func(format string, args ...any)
}

// New creates an Orchestrator.
func New(m mux.Multiplexer, l mux.Liveness, opts Options) *Orchestrator {
	if opts.DefaultWindow == "" {
		opts.DefaultWindow = "main"
	}
	if opts.ReadyInterval <= 0 {
		opts.ReadyInterval = defaultReadyInterval
	}
	return &Orchestrator{mux: m, liveness: l, opts: opts}
}

// Execute makes sure addr's session and window exist and types body into
// the window. terminal overrides Options.Terminal when non-empty.
func (o *Orchestrator) Execute(ctx context.Context, addr mux.Address, body, terminal string) (Result, error) {
	res := Result{ID: uuid.NewString(), Target: addr.Target()}

	tracer := o.Tracer
	if tracer == nil {
		tracer = telem.Tracer()
	}
	ctx, span := tracer.Start(ctx, "orchestrate", trace.WithAttributes(
		attribute.String("invocation.id", res.ID),
		attribute.String("mux.name", o.mux.Name()),
		attribute.String("tmux.session", addr.Session),
		attribute.String("tmux.window", addr.Window),
		attribute.String("tmux.target", res.Target),
		attribute.Bool("tmux.socket", addr.Socket != ""),
	))
	defer span.End()

	err := o.execute(ctx, addr, body, terminal, &res)
	span.SetAttributes(
		attribute.Bool("session.created", res.SessionCreated),
		attribute.Bool("window.created", res.WindowCreated),
		attribute.String("delivery.outcome", string(res.Outcome)),
		attribute.Int("delivery.lines", res.Lines),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return res, err
}

func (o *Orchestrator) execute(ctx context.Context, addr mux.Address, body, terminal string, res *Result) error {
	if terminal == "" {
		terminal = o.opts.Terminal
	}

	// Pre-state is captured once, before anything is created.
	sessionAlive := o.liveness.SessionAlive(ctx, addr)
	windowAlive := o.liveness.WindowAlive(ctx, addr)

	if !sessionAlive {
		if err := o.mux.NewSession(ctx, addr, o.opts.Home, o.opts.DefaultWindow); err != nil {
			o.warnf("%v", err)
		} else {
			res.SessionCreated = true
			o.Metrics.RecordCreated(ctx, "session")
		}
	}

	if !windowAlive {
		if err := o.mux.NewWindow(ctx, addr, o.opts.Home, o.windowName(addr)); err != nil {
			o.warnf("%v", err)
		} else {
			res.WindowCreated = true
			o.Metrics.RecordCreated(ctx, "window")
		}
	}

	// A session on an alternate socket is expected to have a viewer already.
	if !sessionAlive && addr.Socket == "" && terminal != "" {
		if err := o.mux.Attach(terminal, addr); err != nil {
			o.warnf("%v", err)
		} else {
			res.TerminalLaunched = true
			o.Metrics.RecordTerminalLaunch(ctx, terminal)
		}
	}

	start := time.Now()
	err := o.waitReady(ctx, addr)
	res.WaitMs = time.Since(start).Milliseconds()
	o.Metrics.RecordReadyWait(ctx, time.Since(start), err == nil)
	if err != nil {
		return err
	}

	for _, option := range []string{"automatic-rename", "allow-rename"} {
		if err := o.mux.SetWindowOption(ctx, addr, option, "off"); err != nil {
			o.warnf("%v", err)
		}
	}

	d := &Deliverer{Mux: o.mux, Liveness: o.liveness}
	outcome, n, err := d.Deliver(ctx, addr, SplitBody(body))
	res.Outcome = outcome
	res.Lines = n
	o.Metrics.RecordDelivery(ctx, n, outcome == OutcomeSkipped)
	if err != nil {
		return fmt.Errorf("deliver to %s: %w", addr.Target(), err)
	}
	if outcome == OutcomeSkipped {
		o.warnf("window %s disappeared, body dropped", addr.Target())
	}
	return nil
}

// waitReady polls WindowAlive with exponential backoff until it reports
// true, the readiness timeout elapses, or ctx is done. Every attempt
// queries tmux again.
func (o *Orchestrator) waitReady(ctx context.Context, addr mux.Address) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = o.opts.ReadyInterval
	b.MaxInterval = maxReadyInterval
	if b.MaxInterval < b.InitialInterval {
		b.MaxInterval = b.InitialInterval
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(b),
		// Zero disables the elapsed-time bound; ctx still applies.
		backoff.WithMaxElapsedTime(o.opts.ReadyTimeout),
	}

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		if o.liveness.WindowAlive(ctx, addr) {
			return struct{}{}, nil
		}
		return struct{}{}, errWindowMissing
	}, opts...)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWindowNotReady, addr.Target(), err)
	}
	return nil
}

// windowName is the name given to a created window: the requested one,
// or the default when none was requested.
func (o *Orchestrator) windowName(addr mux.Address) string {
	if addr.Window != "" {
		return addr.Window
	}
	return o.opts.DefaultWindow
}

func (o *Orchestrator) warnf(format string, args ...any) {
	if o.Warnf != nil {
		o.Warnf(format, args...)
	}
}
