package mux

import (
	"context"
	"strings"
)

// SessionAlive reports whether addr's session appears as a full line in
// the session listing. Prefixes and substrings do not count.
func (t *Tmux) SessionAlive(ctx context.Context, addr Address) bool {
	return hasLine(t.listSessions(ctx, addr), addr.Session)
}

// WindowAlive reports whether addr's window exists. When no window is
// named it returns true without querying: session creation always yields
// a first window.
func (t *Tmux) WindowAlive(ctx context.Context, addr Address) bool {
	if addr.Window == "" {
		return true
	}
	return t.probeWindow(ctx, addr) == paneMarker+"\n"
}

func hasLine(out, want string) bool {
	if out == "" {
		return false
	}
	for _, line := range strings.Split(out, "\n") {
		if line == want {
			return true
		}
	}
	return false
}

// Sessions returns the session names known to addr's server. Only the
// socket of addr is used.
func (t *Tmux) Sessions(ctx context.Context, addr Address) []string {
	var names []string
	for _, line := range strings.Split(t.listSessions(ctx, addr), "\n") {
		if line != "" {
			names = append(names, line)
		}
	}
	return names
}

// FilterPrefix keeps the names starting with prefix.
func FilterPrefix(names []string, prefix string) []string {
	if prefix == "" {
		return names
	}
	var out []string
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			out = append(out, n)
		}
	}
	return out
}
