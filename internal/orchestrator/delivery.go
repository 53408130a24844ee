package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/timvw/babel-tmux/internal/mux"
)

// Outcome tells whether a body reached the window.
type Outcome string

const (
	// OutcomeDelivered means every line was handed to the multiplexer.
	OutcomeDelivered Outcome = "delivered"
	// OutcomeSkipped means the window was gone at delivery time and the
	// body was dropped.
	OutcomeSkipped Outcome = "skipped"
)

// Deliverer types lines into a window.
type Deliverer struct {
	Mux      mux.Multiplexer
	Liveness mux.Liveness
}

// Deliver sends lines to addr's window in order, one send-keys call per
// line. Each call returns before the next one is issued, so lines enter
// the window's input queue in body order.
//
// When the window does not exist at call time nothing is sent and
// OutcomeSkipped is returned with a nil error. It returns the number of
// lines sent.
func (d *Deliverer) Deliver(ctx context.Context, addr mux.Address, lines []string) (Outcome, int, error) {
	if !d.Liveness.WindowAlive(ctx, addr) {
		return OutcomeSkipped, 0, nil
	}
	for i, line := range lines {
		if err := d.Mux.SendLiteral(ctx, addr, EscapeLine(line)); err != nil {
			return OutcomeDelivered, i, fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return OutcomeDelivered, len(lines), nil
}

// EscapeLine escapes a trailing ";" so tmux does not read it as a command
// separator.
func EscapeLine(line string) string {
	if strings.HasSuffix(line, ";") {
		return line[:len(line)-1] + `\;`
	}
	return line
}

// SplitBody splits body on runs of CR/LF characters. Empty lines are
// dropped.
func SplitBody(body string) []string {
	return strings.FieldsFunc(body, func(r rune) bool {
		return r == '\n' || r == '\r'
	})
}
