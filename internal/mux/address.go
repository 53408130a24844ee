package mux

import "strings"

// DefaultSessionName is used when the target names no session.
const DefaultSessionName = "default"

// Address identifies a tmux session, an optional window inside it, and an
// optional alternate server socket.
type Address struct {
	// Session is never empty.
	Session string `json:"session"`
	// Window is empty when no specific window was requested.
	Window string `json:"window,omitempty"`
	// Socket is the path passed to tmux -S. Empty selects the default server.
	Socket string `json:"socket,omitempty"`
}

// ParseAddress turns a "session:window" string into an Address.
// It never fails: missing or empty fields fall back to defaults.
func ParseAddress(raw, socket, prefix string) Address {
	fields := strings.Split(raw, ":")

	session := fields[0]
	if session == "" {
		session = DefaultSessionName
	}

	var window string
	if len(fields) > 1 {
		window = fields[1]
	}

	return Address{
		Session: prefix + session,
		Window:  window,
		Socket:  socket,
	}
}

// WithWindow returns a copy of a with the window replaced. An empty name
// keeps the current window.
func (a Address) WithWindow(name string) Address {
	if name != "" {
		a.Window = name
	}
	return a
}

// Target returns the tmux target for the address. A named window is
// matched exactly ("=name"); otherwise the first window ("^") is used.
func (a Address) Target() string {
	if a.Window != "" {
		return a.Session + ":=" + a.Window
	}
	return a.Session + ":^"
}
