package mux

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Command describes one subprocess invocation.
//
// Env overrides are part of the command rather than mutations of the
// current process environment, so launches stay independent of each other.
type Command struct {
	Name string
	Args []string
	Dir  string
	// Unset lists variables removed from the inherited environment.
	Unset []string
	// Env holds extra KEY=VALUE entries appended after Unset is applied.
	Env []string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner executes commands. Implementations must pass every argument as a
// separate argv element; no shell is involved.
type Runner interface {
	// Start launches the command without waiting for it. Output is discarded.
	Start(cmd Command) error
	// Run waits for the command to exit.
	Run(ctx context.Context, cmd Command) error
	// Output waits for the command and returns its stdout. On failure the
	// partial output is returned together with the error.
	Output(ctx context.Context, cmd Command) (string, error)
}

// ExecRunner implements Runner with os/exec.
type ExecRunner struct {
	// OnExit, if set, is called from a background goroutine when a command
	// launched with Start exits with an error.
	OnExit func(cmd Command, err error)
}

// Start launches cmd and reaps it in the background.
func (r *ExecRunner) Start(cmd Command) error {
	c := build(context.Background(), cmd)
	if err := c.Start(); err != nil {
		return fmt.Errorf("start %s: %w", cmd.Name, err)
	}
	go func() {
		if err := c.Wait(); err != nil && r.OnExit != nil {
			r.OnExit(cmd, err)
		}
	}()
	return nil
}

// Run executes cmd and waits for it. Stderr is folded into the error.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	c := build(ctx, cmd)
	if out, err := c.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w (output: %s)", cmd.Name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Output executes cmd and returns its stdout.
func (r *ExecRunner) Output(ctx context.Context, cmd Command) (string, error) {
	c := build(ctx, cmd)
	out, err := c.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), fmt.Errorf("%s: %w: %s", cmd.Name, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return string(out), err
	}
	return string(out), nil
}

func build(ctx context.Context, cmd Command) *exec.Cmd {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Unset) > 0 || len(cmd.Env) > 0 {
		c.Env = append(filterEnv(os.Environ(), cmd.Unset), cmd.Env...)
	}
	return c
}

// filterEnv returns environ without the variables named in unset.
func filterEnv(environ, unset []string) []string {
	if len(unset) == 0 {
		return environ
	}
	out := make([]string, 0, len(environ))
	for _, kv := range environ {
		key, _, _ := strings.Cut(kv, "=")
		drop := false
		for _, u := range unset {
			if key == u {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, kv)
		}
	}
	return out
}
