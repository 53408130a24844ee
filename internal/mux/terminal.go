package mux

import "path/filepath"

// xtermFamily lists emulators that take "-T title -e program args...".
// Everything else is assumed to follow the "-- program args..." form used
// by gnome-terminal and most modern emulators.
var xtermFamily = map[string]bool{
	"xterm":     true,
	"uxterm":    true,
	"urxvt":     true,
	"rxvt":      true,
	"alacritty": true,
}

// TerminalArgs returns the arguments that make terminal run
// "tmuxPath attach-session -t target".
func TerminalArgs(terminal, tmuxPath, target string) []string {
	attach := []string{tmuxPath, "attach-session", "-t", target}
	if xtermFamily[filepath.Base(terminal)] {
		return append([]string{"-T", target, "-e"}, attach...)
	}
	return append([]string{"--"}, attach...)
}
