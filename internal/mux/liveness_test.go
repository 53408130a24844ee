package mux

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestSessionAlive(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		session string
		want    bool
	}{
		{name: "exact match", output: "other\nwork\n", session: "work", want: true},
		{name: "first line", output: "work\n", session: "work", want: true},
		{name: "no trailing newline", output: "work", session: "work", want: true},
		{name: "missing", output: "other\n", session: "work", want: false},
		{name: "empty output", output: "", session: "default", want: false},
		{name: "substring does not match", output: "default-extra\n", session: "default", want: false},
		{name: "prefix does not match", output: "def\n", session: "default", want: false},
		{name: "surrounding whitespace does not match", output: " work\n", session: "work", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRunner{outputs: map[string]string{"ls": tt.output}}
			tm := NewTmux("tmux", r)
			if got := tm.SessionAlive(context.Background(), Address{Session: tt.session}); got != tt.want {
				t.Errorf("SessionAlive = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSessionAlive_QueryFailureIsAbsent(t *testing.T) {
	r := &fakeRunner{errs: map[string]error{"ls": errors.New("no server running")}}
	tm := NewTmux("tmux", r)
	if tm.SessionAlive(context.Background(), Address{Session: "s"}) {
		t.Error("failed query must report the session as absent")
	}
}

func TestWindowAlive(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   bool
	}{
		{name: "marker", output: "yes_exists\n", want: true},
		{name: "empty", output: "", want: false},
		{name: "no trailing newline", output: "yes_exists", want: false},
		{name: "other text", output: "no\n", want: false},
		{name: "two panes", output: "yes_exists\nyes_exists\n", want: false},
		{name: "error text", output: "can't find window: edit\n", want: false},
		{name: "extra whitespace", output: "yes_exists \n", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRunner{outputs: map[string]string{"list-panes": tt.output}}
			tm := NewTmux("tmux", r)
			addr := Address{Session: "work", Window: "edit"}
			if got := tm.WindowAlive(context.Background(), addr); got != tt.want {
				t.Errorf("WindowAlive(%q) = %v, want %v", tt.output, got, tt.want)
			}
			want := []string{"list-panes", "-F", "yes_exists", "-t", "work:=edit"}
			if !reflect.DeepEqual(r.queries[0].Args, want) {
				t.Errorf("probe args:\n got %q\nwant %q", r.queries[0].Args, want)
			}
		})
	}
}

func TestWindowAlive_NoWindowSkipsQuery(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{"list-panes": ""}}
	tm := NewTmux("tmux", r)
	if !tm.WindowAlive(context.Background(), Address{Session: "s"}) {
		t.Error("WindowAlive without a window name must be true")
	}
	if len(r.queries) != 0 {
		t.Errorf("expected no query, got %d", len(r.queries))
	}
}

func TestOnQuery(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{"ls": "s\n", "list-panes": "yes_exists\n"}}
	tm := NewTmux("tmux", r)
	var kinds []string
	tm.OnQuery = func(_ context.Context, kind string) { kinds = append(kinds, kind) }

	addr := Address{Session: "s", Window: "w"}
	tm.SessionAlive(context.Background(), addr)
	tm.WindowAlive(context.Background(), addr)

	if !reflect.DeepEqual(kinds, []string{"sessions", "window"}) {
		t.Errorf("kinds: got %q", kinds)
	}
}

func TestSessions(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{"ls": "a\n\nb\n"}}
	tm := NewTmux("tmux", r)
	got := tm.Sessions(context.Background(), Address{})
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Sessions: got %q", got)
	}
}

func TestFilterPrefix(t *testing.T) {
	names := []string{"org-a", "b", "org-c"}
	if got := FilterPrefix(names, ""); !reflect.DeepEqual(got, names) {
		t.Errorf("empty prefix: got %q", got)
	}
	if got := FilterPrefix(names, "org-"); !reflect.DeepEqual(got, []string{"org-a", "org-c"}) {
		t.Errorf("org- prefix: got %q", got)
	}
}
