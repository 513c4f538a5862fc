package lang

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/iotest"
)

// Cache Tests
// ============================================================================

func TestParseString_Cached(t *testing.T) {
	t.Parallel()

	src := "CachedOne(a) { return a + 1; }"

	first, err := ParseString(t.Context(), src)
	if err != nil {
		t.Fatal(err)
	}

	second, err := ParseString(t.Context(), src)
	if err != nil {
		t.Fatal(err)
	}

	if first != second {
		t.Error("identical source parsed twice")
	}

	other, err := ParseString(t.Context(), src, WithMaxDepth(50))
	if err != nil {
		t.Fatal(err)
	}

	if other == first {
		t.Error("different parse options shared a cache entry")
	}
}

func TestParseString_CachedError(t *testing.T) {
	t.Parallel()

	src := "CachedBad() { var; }"

	_, err1 := ParseString(t.Context(), src)
	_, err2 := ParseString(t.Context(), src)

	if !errors.Is(err1, ErrSyntax) || err1 != err2 { //nolint:errorlint
		t.Errorf("errors = %v, %v; want the same ErrSyntax", err1, err2)
	}
}

func TestParseString_CancelNotCached(t *testing.T) {
	t.Parallel()

	src := "CachedCancel() { }"

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := ParseString(ctx, src); !errors.Is(err, ErrCanceled) {
		t.Fatalf("canceled parse error = %v", err)
	}

	if _, err := ParseString(t.Context(), src); err != nil {
		t.Errorf("parse after cancel error = %v", err)
	}
}

func TestParseString_KeyCollision(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cached string
		depth  int
	}{
		{name: "different source", cached: "Colliding() { }", depth: DefaultMaxDepth},
		{name: "different depth", depth: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := "CollisionTarget(a) { return a; } // " + tt.name
			if tt.cached == "" {
				tt.cached = src
			}

			prev, err := Parse(t.Context(), tt.cached)
			if err != nil {
				t.Fatal(err)
			}

			// Occupy the key of src with an entry made for other input.
			stale := &entry{source: tt.cached, depth: tt.depth, prog: prev}
			stale.once.Do(func() {})
			programCache.Store(cacheKey(src, makeOptions()), stale)

			prog, err := ParseString(t.Context(), src)
			if err != nil {
				t.Fatal(err)
			}

			if prog == prev {
				t.Fatal("collision returned the cached program of other input")
			}

			if _, ok := prog.Function("CollisionTarget"); !ok {
				t.Error("function CollisionTarget not found")
			}
		})
	}
}

// TestClearCache is not parallel: it empties the shared cache.
func TestClearCache(t *testing.T) {
	src := "CachedClear() { }"

	first, err := ParseString(t.Context(), src)
	if err != nil {
		t.Fatal(err)
	}

	ClearCache()

	second, err := ParseString(t.Context(), src)
	if err != nil {
		t.Fatal(err)
	}

	if first == second {
		t.Error("ClearCache kept the parsed program")
	}
}

func TestParseReader(t *testing.T) {
	t.Parallel()

	src := "Reader(x) { return x * x; }"

	prog, err := ParseReader(t.Context(), iotest.OneByteReader(strings.NewReader(src)))
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := prog.Function("Reader"); !ok {
		t.Error("function Reader not found")
	}

	again, err := ParseString(t.Context(), src)
	if err != nil || again != prog {
		t.Error("ParseReader result not shared with ParseString")
	}

	failing := iotest.ErrReader(errors.New("disk on fire"))
	if _, err := ParseReader(t.Context(), failing); !errors.Is(err, ErrReadInput) {
		t.Errorf("read failure error = %v, want ErrReadInput", err)
	}
}

func BenchmarkParseString_Cached(b *testing.B) {
	src := "Bench(n) { var s = 0; for (i, 0, n) { s = s + i; } return s; }"

	for b.Loop() {
		if _, err := ParseString(b.Context(), src); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse(b *testing.B) {
	src := "Bench(n) { var s = 0; for (i, 0, n) { s = s + i; } return s; }"

	for b.Loop() {
		if _, err := Parse(b.Context(), src); err != nil {
			b.Fatal(err)
		}
	}
}
