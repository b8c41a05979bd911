package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelFiltersScopes(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	outer := Begin(tr, ScopeDriver, "parse-dir", 0)
	file := Begin(tr, ScopeFile, "file", outer.ID())
	if file.ID() != 0 {
		t.Fatal("file span must be inert at phase level")
	}
	file.End("ignored")
	outer.WithExtra("files", "2").End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "\u2192 parse-dir") {
		t.Fatalf("unexpected begin line %q", lines[0])
	}
	if !strings.Contains(lines[1], "\u2190 parse-dir") || !strings.HasSuffix(lines[1], "{files=2}") {
		t.Fatalf("unexpected end line %q", lines[1])
	}
}

func TestNDJSONEvents(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)
	sp := Begin(tr, ScopeFile, "file", 7)
	sp.End("a.sx")
	Point(tr, ScopeFile, "cache-hit", "a.sx", sp.ID())

	dec := json.NewDecoder(&buf)
	var kinds []string
	for dec.More() {
		var ev map[string]any
		if err := dec.Decode(&ev); err != nil {
			t.Fatal(err)
		}
		kinds = append(kinds, ev["kind"].(string))
		if ev["parent_id"] == nil {
			t.Fatalf("parent_id missing: %v", ev)
		}
	}
	if strings.Join(kinds, ",") != "begin,end,point" {
		t.Fatalf("kinds = %v", kinds)
	}
}

func TestNewAndContext(t *testing.T) {
	off, err := New(Config{Level: LevelOff})
	if err != nil || Enabled(off) {
		t.Fatalf("off tracer: %v %v", off, err)
	}

	path := filepath.Join(t.TempDir(), "out.ndjson")
	tr, err := New(Config{Level: LevelPhase, OutputPath: path})
	if err != nil {
		t.Fatal(err)
	}
	Begin(tr, ScopePass, "load", 0).End("")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "{") {
		t.Fatalf("expected ndjson by extension, got %q", data)
	}

	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != tr {
		t.Fatal("tracer not propagated")
	}
	if FromContext(context.Background()) != Nop {
		t.Fatal("missing tracer must be Nop")
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error")
	}
	if f, err := ParseFormat("jsonl"); err != nil || f != FormatNDJSON {
		t.Fatalf("ParseFormat = %v, %v", f, err)
	}
}
