package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLevelFiltersScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)
	root := Begin(tr, ScopePass, "parse", 0)
	file := Begin(tr, ScopeFile, "file:a.twig", root.ID())
	file.WithExtra("tokens", "12").End("ok")
	Begin(tr, ScopeNode, "tag:if", file.ID()).End("")
	root.End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "→ parse") {
		t.Errorf("begin line = %q", lines[0])
	}
	if !strings.Contains(lines[2], "  ← file:a.twig (ok) {tokens=12}") {
		t.Errorf("end line = %q", lines[2])
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatNDJSON)
	Point(tr, ScopePass, "lex", "3 tokens", 0)

	var ev map[string]any
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("bad json %q: %v", buf.String(), err)
	}
	if ev["kind"] != "point" || ev["name"] != "lex" || ev["detail"] != "3 tokens" {
		t.Errorf("event = %v", ev)
	}
}

func TestRingTracerWraps(t *testing.T) {
	tr := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(tr, ScopeNode, name, "", 0)
	}
	snap := tr.Snapshot()
	if len(snap) != 3 || snap[0].Name != "c" || snap[2].Name != "e" {
		t.Fatalf("snapshot = %v", snap)
	}
	var buf bytes.Buffer
	if err := tr.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if tr.Dropped() != 2 {
		t.Errorf("dropped = %d", tr.Dropped())
	}
	if !strings.HasPrefix(buf.String(), "... 2 earlier events dropped\n") || strings.Count(buf.String(), "\n") != 4 {
		t.Errorf("dump = %q", buf.String())
	}
}

func TestMultiTracerFansOut(t *testing.T) {
	a := NewRingTracer(8, LevelPhase)
	b := NewRingTracer(8, LevelPhase)
	m := NewMultiTracer(LevelPhase, a, b)
	Begin(m, ScopeDriver, "check", 0).End("")
	if len(a.Snapshot()) != 2 || len(b.Snapshot()) != 2 {
		t.Errorf("events: %d, %d", len(a.Snapshot()), len(b.Snapshot()))
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Error("missing tracer should be Nop")
	}
	tr := NewRingTracer(4, LevelPhase)
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != tr {
		t.Error("tracer lost")
	}
	if ParentSpan(ctx) != 0 {
		t.Error("unexpected parent span")
	}
	span := Begin(tr, ScopeDriver, "check", 0)
	ctx = WithParentSpan(ctx, span)
	if ParentSpan(ctx) != span.ID() || span.ID() == 0 {
		t.Errorf("parent span = %d, want %d", ParentSpan(ctx), span.ID())
	}
}

func TestNewConfig(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("off tracer: %v %v", tr, err)
	}
	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Point(tr, ScopePass, "x", "", 0)
	if buf.Len() == 0 {
		t.Error("stream half of both mode wrote nothing")
	}
	if _, err := ParseMode("disk"); err == nil {
		t.Error("unknown mode accepted")
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("unknown level accepted")
	}
}

func TestHeartbeatReportsProgress(t *testing.T) {
	if StartHeartbeat(NewRingTracer(4, LevelPhase), 0, nil) != nil {
		t.Fatal("zero interval must not start a heartbeat")
	}
	tr := NewRingTracer(16, LevelPhase)
	hb := StartHeartbeat(tr, time.Millisecond, func() string { return "2/5 templates" })
	deadline := time.Now().Add(2 * time.Second)
	for len(tr.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	hb.Stop()
	hb.Stop()

	snap := tr.Snapshot()
	if len(snap) == 0 {
		t.Fatal("no heartbeat emitted")
	}
	if snap[0].Kind != KindHeartbeat || snap[0].Detail != "#1 2/5 templates" {
		t.Fatalf("first beat = %+v", snap[0])
	}
}
