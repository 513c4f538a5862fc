package lang

import (
	"log/slog"
	"slices"
)

// binding associates a name with a slot handle.
type binding struct {
	name string
	slot int
}

// scope is one block's bindings. Its slots occupy the frame arena from mark
// upward and are released when the scope is popped.
type scope struct {
	bindings []binding
	mark     int
}

// frame holds the scope stack and slot arena of one active function call.
type frame struct {
	fn     *Function
	slots  []Value
	scopes []scope
}

func (f *frame) push() {
	f.scopes = append(f.scopes, scope{mark: len(f.slots)})
}

func (f *frame) pop() {
	top := f.scopes[len(f.scopes)-1]
	clear(f.slots[top.mark:])
	f.slots = f.slots[:top.mark]
	f.scopes = f.scopes[:len(f.scopes)-1]
}

// declare binds name to a new slot holding v in the innermost scope.
func (f *frame) declare(name Token, v Value) error {
	top := &f.scopes[len(f.scopes)-1]

	for _, b := range top.bindings {
		if b.name == name.Value {
			return ErrRedeclaration.at(name).
				With(slog.String("name", name.Value))
		}
	}

	top.bindings = append(top.bindings, binding{name: name.Value, slot: len(f.slots)})
	f.slots = append(f.slots, v)

	return nil
}

// lookup returns the slot handle bound to name, innermost scope first.
func (f *frame) lookup(name string) (int, bool) {
	for i := len(f.scopes) - 1; i >= 0; i-- {
		bs := f.scopes[i].bindings
		for j := len(bs) - 1; j >= 0; j-- {
			if bs[j].name == name {
				return bs[j].slot, true
			}
		}
	}

	return 0, false
}

// names returns every name visible in the frame.
func (f *frame) names() []string {
	var names []string

	for _, s := range f.scopes {
		for _, b := range s.bindings {
			names = append(names, b.name)
		}
	}

	return names
}

// globals is the interpreter-wide binding table and its slot arena.
type globals struct {
	index map[string]int
	slots []Value
}

func (g *globals) declare(name Token, v Value) error {
	if _, ok := g.index[name.Value]; ok {
		return ErrRedeclaration.at(name).
			With(slog.String("global", name.Value))
	}

	g.index[name.Value] = len(g.slots)
	g.slots = append(g.slots, v)

	return nil
}

func (g *globals) names() []string {
	names := make([]string, 0, len(g.index))
	for name := range g.index {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
