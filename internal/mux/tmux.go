package mux

import (
	"context"
	"fmt"
)

const (
	// paneMarker is printed once per pane by the window probe.
	paneMarker = "yes_exists"
	// DefaultProgram is the tmux executable looked up on PATH.
	DefaultProgram = "tmux"
)

// Tmux implements Multiplexer for tmux.
type Tmux struct {
	// Path is the tmux executable.
	Path string
	// Runner executes the commands. Defaults to ExecRunner.
	Runner Runner
	// Unset lists variables removed from the environment of every command.
	// TMUX is removed by default so that nested invocations address the
	// configured server instead of the enclosing one.
	Unset []string
	// OnQuery, if set, is called after every listing query.
	OnQuery func(ctx context.Context, kind string)
}

// NewTmux creates a tmux client for the given executable.
func NewTmux(path string, runner Runner) *Tmux {
	if path == "" {
		path = DefaultProgram
	}
	if runner == nil {
		runner = &ExecRunner{}
	}
	return &Tmux{Path: path, Runner: runner, Unset: []string{"TMUX"}}
}

// Name returns "tmux".
func (t *Tmux) Name() string {
	return "tmux"
}

// NewSession runs "tmux new-session -d -c dir -s session -n window".
func (t *Tmux) NewSession(ctx context.Context, addr Address, dir, window string) error {
	if err := t.run(ctx, addr, "new-session", "-d", "-c", dir, "-s", addr.Session, "-n", window); err != nil {
		return fmt.Errorf("tmux new-session -s %s: %w", addr.Session, err)
	}
	return nil
}

// NewWindow runs "tmux new-window -c dir -n window -t session:".
func (t *Tmux) NewWindow(ctx context.Context, addr Address, dir, window string) error {
	if err := t.run(ctx, addr, "new-window", "-c", dir, "-n", window, "-t", addr.Session+":"); err != nil {
		return fmt.Errorf("tmux new-window -n %s: %w", window, err)
	}
	return nil
}

// SetWindowOption runs "tmux set-window-option -t target option value".
func (t *Tmux) SetWindowOption(ctx context.Context, addr Address, option, value string) error {
	if err := t.run(ctx, addr, "set-window-option", "-t", addr.Target(), option, value); err != nil {
		return fmt.Errorf("tmux set-window-option %s: %w", option, err)
	}
	return nil
}

// SendLiteral runs "tmux send-keys -l -t target -- text \n". The "--"
// ends option parsing so text starting with "-" is typed, not parsed as
// flags. The trailing newline argument submits the line.
func (t *Tmux) SendLiteral(ctx context.Context, addr Address, text string) error {
	if err := t.run(ctx, addr, "send-keys", "-l", "-t", addr.Target(), "--", text, "\n"); err != nil {
		return fmt.Errorf("tmux send-keys -t %s: %w", addr.Target(), err)
	}
	return nil
}

// Attach launches terminal running "tmux attach-session" on the target.
func (t *Tmux) Attach(terminal string, addr Address) error {
	cmd := Command{
		Name:  terminal,
		Args:  TerminalArgs(terminal, t.Path, addr.Target()),
		Unset: t.Unset,
	}
	if err := t.Runner.Start(cmd); err != nil {
		return fmt.Errorf("launch terminal %s: %w", terminal, err)
	}
	return nil
}

// listSessions returns the raw output of "tmux ls -F #S".
func (t *Tmux) listSessions(ctx context.Context, addr Address) string {
	return t.query(ctx, "sessions", addr, "ls", "-F", "#S")
}

// probeWindow returns the raw output of the pane-existence probe.
func (t *Tmux) probeWindow(ctx context.Context, addr Address) string {
	return t.query(ctx, "window", addr, "list-panes", "-F", paneMarker, "-t", addr.Target())
}

// query runs a listing command. Errors are dropped: whatever stdout was
// produced is returned and parsed as-is.
func (t *Tmux) query(ctx context.Context, kind string, addr Address, args ...string) string {
	out, _ := t.Runner.Output(ctx, t.command(addr, args...))
	if t.OnQuery != nil {
		t.OnQuery(ctx, kind)
	}
	return out
}

func (t *Tmux) run(ctx context.Context, addr Address, args ...string) error {
	return t.Runner.Run(ctx, t.command(addr, args...))
}

// command builds a tmux invocation, selecting the alternate socket first
// when one is configured.
func (t *Tmux) command(addr Address, args ...string) Command {
	var argv []string
	if addr.Socket != "" {
		argv = append(argv, "-S", addr.Socket)
	}
	argv = append(argv, args...)
	return Command{Name: t.Path, Args: argv, Unset: t.Unset}
}
