package mux

import (
	"fmt"
	"os/exec"
)

// Detect resolves the tmux executable. A bare name is looked up on PATH;
// a path is returned as long as it is executable.
func Detect(program string) (string, error) {
	if program == "" {
		program = DefaultProgram
	}
	path, err := exec.LookPath(program)
	if err != nil {
		return "", fmt.Errorf("tmux executable %q not found: %w", program, err)
	}
	return path, nil
}

// FromName creates a Multiplexer by name.
func FromName(name, path string, runner Runner) (*Tmux, error) {
	switch name {
	case "", "tmux":
		return NewTmux(path, runner), nil
	default:
		return nil, fmt.Errorf("unknown multiplexer: %q (supported: tmux)", name)
	}
}
