package diag

import (
	"testing"

	"github.com/tidwall/gjson"

	"github.com/strandscript/libscript/internal/source"
)

func spanAt(f *source.File, line, col int) source.Span {
	return source.Span{File: f, Start: source.Position{Line: line, Column: col}}
}

func TestMessageString(t *testing.T) {
	f := source.NewFromString("t.lsc", "int a = ;")
	m := New(Error).At(spanAt(f, 1, 9)).Write("unexpected token").Finish()
	if got, want := m.String(), "[error][1:9]: unexpected token"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	plain := New(Warning).Write("no location").Finish()
	if got, want := plain.String(), "[warning]: no location"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestBuilderConcatenatesFragments(t *testing.T) {
	m := New(Info).Write("part one").Write(", ").Writef("part %d", 2).Finish()
	if m.Text != "part one, part 2" {
		t.Errorf("Text = %q", m.Text)
	}
}

func TestSinkTracksErrors(t *testing.T) {
	var s Sink
	s.Add(New(Info).Write("fyi").Finish())
	if s.HasError() {
		t.Fatalf("info must not set the error flag")
	}
	s.Add(New(Error).Write("boom").Finish())
	if !s.HasError() {
		t.Fatalf("error must set the error flag")
	}
	if len(s.Messages()) != 2 {
		t.Fatalf("got %d messages, want 2", len(s.Messages()))
	}
}

func TestSinkTruncateRecomputesErrorFlag(t *testing.T) {
	var s Sink
	s.Add(New(Info).Write("keep").Finish())
	mark := s.Len()
	s.Add(New(Error).Write("speculative").Finish())
	if !s.HasError() {
		t.Fatalf("precondition: error recorded")
	}
	s.Truncate(mark)
	if s.HasError() {
		t.Errorf("truncate should clear the error flag when no error remains")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestToJSON(t *testing.T) {
	f := source.NewFromString("t.lsc", "bad")
	var s Sink
	s.Add(New(Error).At(spanAt(f, 2, 5)).Write("boom").Finish())
	s.Add(New(Warning).Write("meh").Finish())

	blob, err := ToJSON(&s)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	doc := gjson.ParseBytes(blob)
	if n := len(doc.Array()); n != 2 {
		t.Fatalf("got %d entries, want 2", n)
	}
	first := doc.Array()[0]
	if first.Get("severity").String() != "error" || first.Get("text").String() != "boom" {
		t.Errorf("first entry = %s", first.Raw)
	}
	if first.Get("line").Int() != 2 || first.Get("column").Int() != 5 {
		t.Errorf("first entry location = %s", first.Raw)
	}
	if first.Get("file").String() != "t.lsc" {
		t.Errorf("first entry file = %q", first.Get("file").String())
	}
	second := doc.Array()[1]
	if second.Get("line").Exists() {
		t.Errorf("location-free message must omit line: %s", second.Raw)
	}
}

func TestFormatWithContextPointsAtColumn(t *testing.T) {
	f := source.NewFromString("t.lsc", "int a = ;")
	m := New(Error).At(spanAt(f, 1, 9)).Write("unexpected token").Finish()
	out := m.FormatWithContext()
	if out == m.String() {
		t.Fatalf("expected source context, got bare message")
	}
}
