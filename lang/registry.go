package lang

import (
	"context"
	"iter"
	"log/slog"
	"reflect"
	"slices"
	"strings"
	"sync"
)

// Type describes the accepted type of a parameter or property.
//
// The zero Type accepts any value.
type Type struct {
	// Go restricts object values to those assignable to this Go type.
	// It is only consulted when Kind is [KindObject].
	Go   reflect.Type
	Kind Kind
}

// Any reports whether t accepts every value.
func (t Type) Any() bool { return t.Kind == KindNull }

// String returns a string representation of the type.
func (t Type) String() string {
	switch {
	case t.Any():
		return "Any"
	case t.Kind == KindObject && t.Go != nil:
		return t.Go.String()
	default:
		return t.Kind.String()
	}
}

// Param describes one parameter of a host method or constructor.
type Param struct {
	Default *Value
	Name    string
	Type    Type
}

// Method is a host method callable from scripts through member access.
// For static methods, self is null.
type Method struct {
	Func   func(ctx context.Context, self Value, args []Value) (Value, error)
	Name   string
	Params []Param
	Static bool
}

// Property is a host property readable, and optionally writable, through
// member access. For static properties, self is null.
type Property struct {
	Get    func(ctx context.Context, self Value) (Value, error)
	Set    func(ctx context.Context, self Value, v Value) error
	Name   string
	Type   Type
	Static bool
}

// Constructor creates a host object for a "new" expression.
type Constructor struct {
	Func   func(ctx context.Context, args []Value) (Value, error)
	Params []Param
}

// TypeDesc describes a host type: its name, its position in the host's type
// hierarchy, and the members scripts may reach.
type TypeDesc struct {
	// Go is the dynamic Go type of this type's object values. Object values
	// of this exact type dispatch member access to this descriptor.
	Go reflect.Type

	Namespace    string
	Name         string
	Bases        []*TypeDesc
	Constructors []Constructor
	Methods      []Method
	Properties   []Property

	// Primitive, when not KindNull or KindObject, makes values of that kind
	// dispatch member access to this descriptor.
	Primitive Kind

	// Nested types cannot be named directly by scripts.
	Nested bool
}

// QualifiedName returns the namespace-qualified type name.
func (d *TypeDesc) QualifiedName() string {
	if d.Namespace == "" {
		return d.Name
	}

	return d.Namespace + "." + d.Name
}

// Hierarchy returns an iterator over d followed by its base types, depth
// first and in declaration order, visiting each type once.
func (d *TypeDesc) Hierarchy() iter.Seq[*TypeDesc] { return d.hierarchy() }

func (d *TypeDesc) hierarchy() iter.Seq[*TypeDesc] {
	return func(yield func(*TypeDesc) bool) {
		seen := make(map[*TypeDesc]bool)

		var walk func(*TypeDesc) bool

		walk = func(t *TypeDesc) bool {
			if seen[t] {
				return true
			}

			seen[t] = true

			if !yield(t) {
				return false
			}

			for _, b := range t.Bases {
				if !walk(b) {
					return false
				}
			}

			return true
		}

		walk(d)
	}
}

// Registry indexes host types for name resolution and member dispatch.
// It is safe for concurrent use.
type Registry struct {
	byName map[string][]*TypeDesc
	byGo   map[reflect.Type]*TypeDesc
	byKind map[Kind]*TypeDesc
	mutex  sync.RWMutex
}

// NewRegistry returns a registry containing the given types.
func NewRegistry(types ...*TypeDesc) (*Registry, error) {
	r := &Registry{
		byName: make(map[string][]*TypeDesc),
		byGo:   make(map[reflect.Type]*TypeDesc),
		byKind: make(map[Kind]*TypeDesc),
	}

	if err := r.Register(types...); err != nil {
		return nil, err
	}

	return r, nil
}

// Register adds types to the registry. Registering a second type with the
// same qualified name, Go type, or primitive kind is an error.
func (r *Registry) Register(types ...*TypeDesc) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, d := range types {
		if d == nil || d.Name == "" {
			return ErrHost.With(slog.String("reason", "type has no name"))
		}

		for _, other := range r.byName[d.Name] {
			if other.Namespace == d.Namespace {
				return ErrRedeclaration.With(
					slog.String("type", d.QualifiedName()))
			}
		}

		if d.Go != nil {
			if _, ok := r.byGo[d.Go]; ok {
				return ErrRedeclaration.With(
					slog.String("type", d.QualifiedName()),
					slog.String("go_type", d.Go.String()))
			}

			r.byGo[d.Go] = d
		}

		if d.Primitive != KindNull && d.Primitive != KindObject {
			if _, ok := r.byKind[d.Primitive]; ok {
				return ErrRedeclaration.With(
					slog.String("type", d.QualifiedName()),
					slog.String("kind", d.Primitive.String()))
			}

			r.byKind[d.Primitive] = d
		}

		r.byName[d.Name] = append(r.byName[d.Name], d)
	}

	return nil
}

// Resolve finds the type a script refers to by name.
//
// A qualified name ("Ns.Type") selects the non-nested type with exactly that
// namespace. A simple name selects among non-nested types whose namespace is
// empty or listed in usings; exactly one must remain. No candidate wraps
// [ErrMissingImport] and more than one wraps [ErrAmbiguousType].
func (r *Registry) Resolve(name string, usings []string) (*TypeDesc, error) {
	if r == nil {
		return nil, ErrMissingImport.With(slog.String("type", name))
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		ns, simple := name[:i], name[i+1:]

		for _, d := range r.byName[simple] {
			if !d.Nested && d.Namespace == ns {
				return d, nil
			}
		}

		return nil, ErrMissingImport.With(slog.String("type", name))
	}

	var found []*TypeDesc

	for _, d := range r.byName[name] {
		if d.Nested {
			continue
		}

		if d.Namespace == "" || slices.Contains(usings, d.Namespace) {
			found = append(found, d)
		}
	}

	switch len(found) {
	case 0:
		return nil, ErrMissingImport.With(slog.String("type", name))

	case 1:
		return found[0], nil

	default:
		candidates := make([]string, len(found))
		for i, d := range found {
			candidates[i] = d.QualifiedName()
		}

		return nil, ErrAmbiguousType.With(
			slog.String("type", name),
			slog.String("candidates", strings.Join(candidates, ", ")))
	}
}

// Known reports whether any type, imported or not, has the simple name.
func (r *Registry) Known(name string) bool {
	if r == nil {
		return false
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}

	return len(r.byName[name]) > 0
}

// TypeOf returns the type that member access on v dispatches to.
func (r *Registry) TypeOf(v Value) (*TypeDesc, bool) {
	if r == nil {
		return nil, false
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var d *TypeDesc

	if v.kind == KindObject {
		d = r.byGo[reflect.TypeOf(v.obj)]
	} else {
		d = r.byKind[v.kind]
	}

	return d, d != nil
}

// Types returns an iterator over all registered types ordered by qualified
// name.
func (r *Registry) Types() iter.Seq[*TypeDesc] {
	return func(yield func(*TypeDesc) bool) {
		if r == nil {
			return
		}

		r.mutex.RLock()

		var all []*TypeDesc
		for _, ds := range r.byName {
			all = append(all, ds...)
		}

		r.mutex.RUnlock()

		slices.SortFunc(all, func(a, b *TypeDesc) int {
			return strings.Compare(a.QualifiedName(), b.QualifiedName())
		})

		for _, d := range all {
			if !yield(d) {
				return
			}
		}
	}
}

// Names returns the simple names of all registered types, sorted.
func (r *Registry) Names() []string {
	var names []string
	for d := range r.Types() {
		names = append(names, d.Name)
	}

	slices.Sort(names)

	return slices.Compact(names)
}

// Assignable reports whether v may be passed where t is expected.
//
// Int converts to Float, Char converts to Int, and null is accepted for
// String and Object. An object is accepted when its Go type is assignable to
// t.Go or when the registered type of v, or one of its bases, has a Go type
// assignable to t.Go.
func (r *Registry) Assignable(v Value, t Type) bool {
	if t.Any() || v.kind == t.Kind {
		if v.kind != KindObject || t.Go == nil {
			return true
		}

		if reflect.TypeOf(v.obj).AssignableTo(t.Go) {
			return true
		}

		d, ok := r.TypeOf(v)
		if !ok {
			return false
		}

		for b := range d.hierarchy() {
			if b.Go != nil && b.Go.AssignableTo(t.Go) {
				return true
			}
		}

		return false
	}

	switch v.kind {
	case KindInt:
		return t.Kind == KindFloat
	case KindChar:
		return t.Kind == KindInt || t.Kind == KindFloat
	case KindNull:
		return t.Kind == KindString || t.Kind == KindObject
	default:
		return false
	}
}

// accepts reports whether args satisfy params: every supplied argument is
// assignable to its parameter and every unsupplied parameter has a default.
func (r *Registry) accepts(params []Param, args []Value) bool {
	if len(args) > len(params) {
		return false
	}

	for i, p := range params {
		if i >= len(args) {
			if p.Default == nil {
				return false
			}

			continue
		}

		if !r.Assignable(args[i], p.Type) {
			return false
		}
	}

	return true
}

// withDefaults extends args with the defaults of unsupplied parameters.
func withDefaults(params []Param, args []Value) []Value {
	if len(args) >= len(params) {
		return args
	}

	full := make([]Value, len(params))
	copy(full, args)

	for i := len(args); i < len(params); i++ {
		full[i] = *params[i].Default
	}

	return full
}

// findMethod selects the first method of d's hierarchy named name that
// accepts args. When static is true, only static methods are considered.
func (r *Registry) findMethod(
	d *TypeDesc,
	name string,
	args []Value,
	static bool,
) (*Method, bool) {
	for t := range d.hierarchy() {
		for i := range t.Methods {
			m := &t.Methods[i]
			if m.Name != name || (static && !m.Static) {
				continue
			}

			if r.accepts(m.Params, args) {
				return m, true
			}
		}
	}

	return nil, false
}

// findProperty returns the first property of d's hierarchy named name.
func findProperty(d *TypeDesc, name string, static bool) (*Property, bool) {
	for t := range d.hierarchy() {
		for i := range t.Properties {
			p := &t.Properties[i]
			if p.Name == name && (!static || p.Static) {
				return p, true
			}
		}
	}

	return nil, false
}

// findConstructor selects the first constructor of d that accepts args.
func (r *Registry) findConstructor(d *TypeDesc, args []Value) (*Constructor, bool) {
	for i := range d.Constructors {
		if c := &d.Constructors[i]; r.accepts(c.Params, args) {
			return c, true
		}
	}

	return nil, false
}

// Members returns the sorted names of all methods and properties in d and
// its bases.
func (d *TypeDesc) Members() []string { return memberNames(d) }

func memberNames(d *TypeDesc) []string {
	var names []string

	for t := range d.hierarchy() {
		for _, m := range t.Methods {
			names = append(names, m.Name)
		}

		for _, p := range t.Properties {
			names = append(names, p.Name)
		}
	}

	slices.Sort(names)

	return slices.Compact(names)
}
