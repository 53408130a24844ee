package orchestrator

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/timvw/babel-tmux/internal/mux"
)

func TestEscapeLine(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"echo hi;", `echo hi\;`},
		{"ls -la", "ls -la"},
		{";", `\;`},
		{"a; b", "a; b"},
		{"a;;", `a;\;`},
		{"", ""},
		{"-n foo;", `-n foo\;`},
		{"--foo bar;", `--foo bar\;`},
		{"-la", "-la"},
	}
	for _, tt := range tests {
		if got := EscapeLine(tt.in); got != tt.want {
			t.Errorf("EscapeLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{name: "unix newlines", body: "a\nb\n", want: []string{"a", "b"}},
		{name: "crlf", body: "a\r\nb\r\n", want: []string{"a", "b"}},
		{name: "blank runs collapse", body: "\n\na\n\n\nb", want: []string{"a", "b"}},
		{name: "single line", body: "echo hi", want: []string{"echo hi"}},
		{name: "empty", body: "", want: nil},
		{name: "only newlines", body: "\r\n\n", want: nil},
		{name: "indentation kept", body: "if true; then\n  echo x\nfi", want: []string{"if true; then", "  echo x", "fi"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitBody(tt.body)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitBody(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestDeliver_InOrderWithEscaping(t *testing.T) {
	f := newFakeTmux("s")
	f.windows["s:w"] = true
	d := &Deliverer{Mux: f, Liveness: f}

	outcome, n, err := d.Deliver(context.Background(), mux.Address{Session: "s", Window: "w"},
		[]string{"cd /tmp;", "ls", "echo done;"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeDelivered || n != 3 {
		t.Errorf("got outcome=%q n=%d, want delivered/3", outcome, n)
	}
	want := []string{`cd /tmp\;`, "ls", `echo done\;`}
	if !reflect.DeepEqual(f.sent, want) {
		t.Errorf("sent:\n got %q\nwant %q", f.sent, want)
	}
}

func TestDeliver_LinesStartingWithDash(t *testing.T) {
	f := newFakeTmux("s")
	f.windows["s:w"] = true
	d := &Deliverer{Mux: f, Liveness: f}

	lines := SplitBody("-la\n--foo bar;\n-n foo;\n--")
	outcome, n, err := d.Deliver(context.Background(), mux.Address{Session: "s", Window: "w"}, lines)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeDelivered || n != 4 {
		t.Errorf("got outcome=%q n=%d, want delivered/4", outcome, n)
	}
	want := []string{"-la", `--foo bar\;`, `-n foo\;`, "--"}
	if !reflect.DeepEqual(f.sent, want) {
		t.Errorf("sent:\n got %q\nwant %q", f.sent, want)
	}
}

func TestDeliver_SkippedWhenWindowGone(t *testing.T) {
	f := newFakeTmux("s")
	d := &Deliverer{Mux: f, Liveness: f}

	outcome, n, err := d.Deliver(context.Background(), mux.Address{Session: "s", Window: "gone"}, []string{"ls"})
	if err != nil {
		t.Fatalf("skip must not be an error, got %v", err)
	}
	if outcome != OutcomeSkipped || n != 0 {
		t.Errorf("got outcome=%q n=%d, want skipped/0", outcome, n)
	}
	if len(f.sent) != 0 {
		t.Errorf("nothing should be sent, got %q", f.sent)
	}
}

func TestDeliver_StopsAtFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	f := newFakeTmux("s")
	f.errSend = boom
	f.sendFailAt = 1
	d := &Deliverer{Mux: f, Liveness: f}

	_, n, err := d.Deliver(context.Background(), mux.Address{Session: "s"}, []string{"a", "b", "c"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if n != 1 {
		t.Errorf("lines sent: got %d, want 1", n)
	}
	if !reflect.DeepEqual(f.sent, []string{"a"}) {
		t.Errorf("sent: got %q", f.sent)
	}
}
