package history

import (
	"os"
	"path/filepath"
	"testing"
)

func TestJSONLSaveAndRecent(t *testing.T) {
	s, err := NewJSONLStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	for _, text := range []string{"first", "second", "third"} {
		if err := s.Save(NewEntry(text, text)); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.Recent(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].RawText != "third" || got[1].RawText != "second" {
		t.Errorf("wrong order: %q, %q", got[0].RawText, got[1].RawText)
	}
}

func TestJSONLSkipsCorruptLines(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONLStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.Save(NewEntry("good", "good")); err != nil {
		t.Fatal(err)
	}

	f, err := os.OpenFile(filepath.Join(dir, "history.jsonl"), os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("{not valid json\n")
	f.Close()

	if err := s.Save(NewEntry("after", "after")); err != nil {
		t.Fatal(err)
	}

	got, err := s.Recent(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2 (corrupt line skipped)", len(got))
	}
}

func TestJSONLSaveAfterClose(t *testing.T) {
	s, err := NewJSONLStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(NewEntry("x", "x")); err == nil {
		t.Error("save after close should fail")
	}
	if err := s.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}

func TestNewEntry(t *testing.T) {
	e := NewEntry("raw words here", "three words here")
	if e.ID == "" {
		t.Error("missing ID")
	}
	if e.CreatedAt.IsZero() {
		t.Error("missing timestamp")
	}
	if e.WordCount != 3 {
		t.Errorf("WordCount = %d, want 3", e.WordCount)
	}
}

func TestJSONLPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONLStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	s.Save(NewEntry("persisted", "persisted"))
	s.Close()

	s2, err := NewJSONLStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	got, err := s2.Recent(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].RawText != "persisted" {
		t.Errorf("got %+v", got)
	}
}
