package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// stderr receives warnings and verbose output.
var stderr io.Writer = os.Stderr

var warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f5a742")).Bold(true)

// warnf prints a warning line to stderr.
func warnf(format string, args ...any) {
	fmt.Fprintf(stderr, "%s %s\n", warnStyle.Render("warning:"), fmt.Sprintf(format, args...))
}

// verbosef prints an informational line to stderr when --verbose is set.
func verbosef(format string, args ...any) {
	if !flagVerbose {
		return
	}
	fmt.Fprintf(stderr, format+"\n", args...)
}
