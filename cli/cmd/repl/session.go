package repl

import (
	"context"
	"slices"
	"strings"

	"github.com/ardnew/treewalk/lang"
)

// Factory builds an interpreter for a program, binding the host and options
// the REPL was started with.
type Factory func(*lang.Program) (*lang.Interpreter, error)

// session is the interpreter state behind a REPL.
type session struct {
	in  *lang.Interpreter
	new Factory
}

func newSession(prog *lang.Program, factory Factory) (*session, error) {
	in, err := factory(prog)
	if err != nil {
		return nil, err
	}

	return &session{in: in, new: factory}, nil
}

// reload replaces the program, discarding globals and session variables.
func (s *session) reload(prog *lang.Program) error {
	in, err := s.new(prog)
	if err != nil {
		return err
	}

	s.in = in

	return nil
}

// names returns every top-level name a script statement may refer to.
func (s *session) names() []string {
	var names []string

	names = append(names, s.in.Functions(-1)...)
	names = append(names, s.in.Globals()...)
	names = append(names, s.in.Locals()...)
	names = append(names, s.in.Registry().Names()...)
	names = append(names, lang.ReservedWords()...)

	slices.Sort(names)

	return slices.Compact(names)
}

// describe returns the type that member access on path dispatches to, and
// whether path names the type itself rather than a value of it.
func (s *session) describe(ctx context.Context, path string) (*lang.TypeDesc, bool) {
	if !isPath(path) {
		return nil, false
	}

	reg := s.in.Registry()

	if v, err := s.in.Eval(ctx, path); err == nil {
		if d, ok := reg.TypeOf(v); ok {
			return d, false
		}
	}

	d, err := reg.Resolve(path, s.in.Program().Imports())
	if err != nil {
		return nil, false
	}

	return d, true
}

// members returns the member names reachable on d. Static access reaches
// only static members.
func members(d *lang.TypeDesc, static bool) []string {
	if !static {
		return d.Members()
	}

	var names []string

	for t := range d.Hierarchy() {
		for _, m := range t.Methods {
			if m.Static {
				names = append(names, m.Name)
			}
		}

		for _, p := range t.Properties {
			if p.Static {
				names = append(names, p.Name)
			}
		}
	}

	slices.Sort(names)

	return slices.Compact(names)
}

// isPath reports whether s is a dotted chain of identifiers, which is safe
// to evaluate for completion.
func isPath(s string) bool {
	if s == "" {
		return false
	}

	for part := range strings.SplitSeq(s, ".") {
		if part == "" || lang.IsReserved(part) {
			return false
		}

		for i, r := range part {
			if r != '_' && !isLetter(r) && (i == 0 || !isDigit(r)) {
				return false
			}
		}
	}

	return true
}

func isLetter(r rune) bool { return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
