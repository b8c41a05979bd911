package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerReportOrder(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("load")
	tm.End(idx, "1 file")
	tm.Record("parse", 2*time.Millisecond, "")

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(rep.Phases))
	}
	if rep.Phases[0].Name != "load" || rep.Phases[0].Note != "1 file" {
		t.Fatalf("unexpected first phase: %+v", rep.Phases[0])
	}
	if rep.Phases[1].DurationMS != 2 {
		t.Fatalf("parse = %v ms", rep.Phases[1].DurationMS)
	}
	if rep.TotalMS < 2 {
		t.Fatalf("total %v < 2", rep.TotalMS)
	}
}

func TestTimerSummary(t *testing.T) {
	tm := NewTimer()
	tm.Record("tokenize", time.Millisecond, "12 tokens")
	out := tm.Summary()
	if !strings.HasPrefix(out, "timings:\n") {
		t.Fatalf("summary header missing: %q", out)
	}
	if !strings.Contains(out, "tokenize") || !strings.Contains(out, "// 12 tokens") || !strings.Contains(out, "total") {
		t.Fatalf("summary incomplete: %q", out)
	}
}

func TestTimerNilAndBadIndex(t *testing.T) {
	var nilTimer *Timer
	nilTimer.End(nilTimer.Begin("x"), "")
	nilTimer.Record("x", time.Second, "")
	if len(nilTimer.Report().Phases) != 0 {
		t.Fatal("nil timer should report nothing")
	}
	tm := NewTimer()
	tm.End(5, "ignored")
	if len(tm.Report().Phases) != 0 {
		t.Fatal("bad index must not create phases")
	}
}
