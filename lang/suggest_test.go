package lang

import (
	"slices"
	"testing"
)

func TestSuggest(t *testing.T) {
	t.Parallel()

	candidates := []string{"count", "counter", "account", "cnt", "amount", "x"}

	got := Suggest("cnt", candidates)
	if len(got) == 0 || len(got) > 3 {
		t.Fatalf("Suggest = %v, want 1 to 3 candidates", got)
	}

	if slices.Contains(got, "cnt") {
		t.Errorf("Suggest = %v includes the name itself", got)
	}

	if !slices.Contains(got, "count") {
		t.Errorf("Suggest = %v, want count", got)
	}

	if got := Suggest("zzz", candidates); len(got) != 0 {
		t.Errorf("Suggest(zzz) = %v, want none", got)
	}

	if got := Suggest("a", []string{"ab", "ab", "ba"}); len(got) != 2 {
		t.Errorf("Suggest with duplicates = %v", got)
	}
}
