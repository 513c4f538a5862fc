package repl

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHistory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "history")
	h := NewHistory(path)

	for _, e := range []HistoryEntry{
		{"var x = 1", modeEval},
		{"list", modeCtrl},
		{"list", modeCtrl},
		{"x + 1", modeEval},
		{"  ", modeEval},
		{"var x = 1", modeEval},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	want := []HistoryEntry{
		{"list", modeCtrl},
		{"x + 1", modeEval},
		{"var x = 1", modeEval},
	}

	check := func(h *History) {
		t.Helper()

		got := h.Entries()
		if len(got) != len(want) {
			t.Fatalf("entries = %+v, want %+v", got, want)
		}

		for i := range want {
			if got[i] != want[i] {
				t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
			}
		}
	}

	check(h)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "C:list\nE:x + 1\nE:var x = 1\n" {
		t.Errorf("history file = %q", data)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}

	check(reloaded)

	if _, err := reloaded.Entry(3); err != ErrOutOfBounds {
		t.Errorf("Entry(3) error = %v", err)
	}
}

func TestHistory_MemoryOnly(t *testing.T) {
	t.Parallel()

	h := NewHistory("")

	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	if err := h.Add("1", modeEval); err != nil {
		t.Fatal(err)
	}

	if h.Len() != 1 {
		t.Errorf("Len() = %d", h.Len())
	}
}
