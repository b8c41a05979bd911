package pipeline

import (
	"errors"
	"testing"
	"time"
)

func TestChannelSinkForwards(t *testing.T) {
	ch := make(chan Event, 4)
	EmitQueued(ChannelSink{Ch: ch}, []string{"a.sx", "b.sx"}, StageParse)
	close(ch)

	var got []Event
	for evt := range ch {
		got = append(got, evt)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].File != "a.sx" || got[0].Status != StatusQueued || got[0].Stage != StageParse {
		t.Fatalf("unexpected first event: %+v", got[0])
	}
}

func TestNilSinksAreSafe(t *testing.T) {
	EmitStage(nil, []string{"x"}, StageLoad, StatusDone, nil, 0)
	ChannelSink{}.OnEvent(Event{})
	NopSink{}.OnEvent(Event{})
	var f FuncSink
	f.OnEvent(Event{})
}

func TestFuncSinkReceivesError(t *testing.T) {
	boom := errors.New("boom")
	var seen Event
	EmitStage(FuncSink(func(e Event) { seen = e }), []string{"f.sx"}, StageParse, StatusError, boom, time.Millisecond)
	if !errors.Is(seen.Err, boom) || seen.Elapsed != time.Millisecond {
		t.Fatalf("unexpected event: %+v", seen)
	}
	if !seen.Status.Finished() || StatusWorking.Finished() {
		t.Fatal("Finished mismatch")
	}
}

func TestTimingsAccumulate(t *testing.T) {
	var tm Timings
	if tm.Duration(StageParse) != 0 {
		t.Fatal("zero Timings should report zero")
	}
	tm.Add(StageParse, 2*time.Millisecond)
	tm.Add(StageParse, 3*time.Millisecond)
	tm.Add(StageTokenize, time.Millisecond)
	if got := tm.Duration(StageParse); got != 5*time.Millisecond {
		t.Fatalf("parse = %v", got)
	}
	if got := tm.Sum(StageTokenize, StageParse, StageLoad); got != 6*time.Millisecond {
		t.Fatalf("sum = %v", got)
	}
	var nilTimings *Timings
	nilTimings.Add(StageLoad, time.Second)
}
