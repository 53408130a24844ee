package orchestrator

import (
	"context"
	"fmt"

	"github.com/timvw/babel-tmux/internal/mux"
)

// fakeTmux keeps a session/window table in memory and records every
// command issued against it.
type fakeTmux struct {
	sessions map[string]bool
	windows  map[string]bool // "session:window"

	// pendingPolls makes WindowAlive report false this many more times
	// after a window has been created, simulating asynchronous creation.
	pendingPolls int
	// noWindow makes NewWindow succeed without the window ever appearing.
	noWindow bool

	errNewSession error
	errSend       error
	sendFailAt    int

	calls    []string
	sent     []string
	attached []string
	probes   int
}

func newFakeTmux(sessions ...string) *fakeTmux {
	f := &fakeTmux{sessions: map[string]bool{}, windows: map[string]bool{}}
	for _, s := range sessions {
		f.sessions[s] = true
	}
	return f
}

func (f *fakeTmux) Name() string { return "fake" }

func (f *fakeTmux) NewSession(_ context.Context, addr mux.Address, dir, window string) error {
	f.calls = append(f.calls, fmt.Sprintf("new-session %s %s %s", addr.Session, window, dir))
	if f.errNewSession != nil {
		return f.errNewSession
	}
	f.sessions[addr.Session] = true
	f.windows[addr.Session+":"+window] = true
	return nil
}

func (f *fakeTmux) NewWindow(_ context.Context, addr mux.Address, dir, window string) error {
	f.calls = append(f.calls, fmt.Sprintf("new-window %s %s %s", addr.Session, window, dir))
	if !f.noWindow {
		f.windows[addr.Session+":"+window] = true
	}
	return nil
}

func (f *fakeTmux) SetWindowOption(_ context.Context, addr mux.Address, option, value string) error {
	f.calls = append(f.calls, fmt.Sprintf("set-window-option %s %s %s", addr.Target(), option, value))
	return nil
}

func (f *fakeTmux) SendLiteral(_ context.Context, addr mux.Address, text string) error {
	if f.errSend != nil && len(f.sent) == f.sendFailAt {
		return f.errSend
	}
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeTmux) Attach(terminal string, addr mux.Address) error {
	f.attached = append(f.attached, terminal+" "+addr.Target())
	return nil
}

func (f *fakeTmux) SessionAlive(_ context.Context, addr mux.Address) bool {
	return f.sessions[addr.Session]
}

func (f *fakeTmux) WindowAlive(_ context.Context, addr mux.Address) bool {
	if addr.Window == "" {
		return true
	}
	f.probes++
	if !f.windows[addr.Session+":"+addr.Window] {
		return false
	}
	if f.pendingPolls > 0 {
		f.pendingPolls--
		return false
	}
	return true
}

// creates returns the recorded new-session and new-window calls.
func (f *fakeTmux) creates() []string {
	var out []string
	for _, c := range f.calls {
		if len(c) > 4 && c[:4] == "new-" {
			out = append(out, c)
		}
	}
	return out
}
