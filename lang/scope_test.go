package lang

import (
	"errors"
	"slices"
	"testing"
)

func TestFrame_Scopes(t *testing.T) {
	t.Parallel()

	f := new(frame)
	f.push()

	if err := f.declare(Token{Value: "x"}, IntValue(1)); err != nil {
		t.Fatal(err)
	}

	if err := f.declare(Token{Value: "x"}, IntValue(2)); !errors.Is(err, ErrRedeclaration) {
		t.Errorf("redeclare error = %v", err)
	}

	f.push()

	if err := f.declare(Token{Value: "x"}, IntValue(3)); err != nil {
		t.Errorf("shadow error = %v", err)
	}

	if s, ok := f.lookup("x"); !ok || f.slots[s].Int() != 3 {
		t.Errorf("inner lookup = %v", f.slots[s])
	}

	if got := f.names(); !slices.Equal(got, []string{"x", "x"}) {
		t.Errorf("names = %v", got)
	}

	f.pop()

	if s, ok := f.lookup("x"); !ok || f.slots[s].Int() != 1 {
		t.Errorf("outer lookup after pop = %v", f.slots[s])
	}

	if len(f.slots) != 1 {
		t.Errorf("slots after pop = %d, want 1", len(f.slots))
	}

	if _, ok := f.lookup("y"); ok {
		t.Error("lookup(y) found")
	}
}

func TestGlobals(t *testing.T) {
	t.Parallel()

	g := globals{index: make(map[string]int)}

	for _, name := range []string{"b", "a"} {
		if err := g.declare(Token{Value: name}, Null()); err != nil {
			t.Fatal(err)
		}
	}

	if err := g.declare(Token{Value: "a"}, Null()); !errors.Is(err, ErrRedeclaration) {
		t.Errorf("redeclare error = %v", err)
	}

	if got := g.names(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("names = %v", got)
	}
}
