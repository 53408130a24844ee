// Package mux drives a terminal multiplexer through its command-line
// control interface.
//
// This package is pure transport plus the parsing of listing output. It
// never caches what it learns: the multiplexer server is the source of
// truth and is re-queried on every check.
package mux

import "context"

// Multiplexer abstracts the control commands used to prepare a window and
// type into it.
type Multiplexer interface {
	// Name returns the multiplexer name (e.g., "tmux").
	Name() string

	// NewSession creates a detached session whose first window is named
	// window, with dir as the working directory.
	NewSession(ctx context.Context, addr Address, dir, window string) error

	// NewWindow creates a window named window inside addr's session.
	NewWindow(ctx context.Context, addr Address, dir, window string) error

	// SetWindowOption sets a window option on addr's target.
	SetWindowOption(ctx context.Context, addr Address, option, value string) error

	// SendLiteral types text into addr's target without key-name lookup.
	SendLiteral(ctx context.Context, addr Address, text string) error

	// Attach launches terminal attached to addr's target and returns
	// without waiting for it.
	Attach(terminal string, addr Address) error
}

// Liveness answers existence questions about sessions and windows.
// Any failure to query is reported as "does not exist".
type Liveness interface {
	SessionAlive(ctx context.Context, addr Address) bool
	WindowAlive(ctx context.Context, addr Address) bool
}
