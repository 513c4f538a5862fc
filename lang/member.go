package lang

import (
	"context"
	"log/slog"
	"reflect"
	"strings"
)

// Indexer is implemented by host objects that handle indexing themselves.
type Indexer interface {
	Index(ctx context.Context, key Value) (Value, error)
}

// receiver is the left operand of a member access: an instance value, or a
// type for static access.
type receiver struct {
	desc   *TypeDesc
	value  Value
	static bool
}

// receiver evaluates the left operand of a member access.
//
// An identifier, or a dotted chain of identifiers, whose root is not a bound
// variable names a type. Anything else is evaluated to an instance.
func (i *Interpreter) receiver(ctx context.Context, expr Expr) (receiver, error) {
	if name, ok := dottedName(expr); ok {
		root := firstToken(expr)

		if _, bound := i.slot(root.Value); !bound {
			desc, err := i.registry.Resolve(name, i.usings)
			if err == nil {
				return receiver{desc: desc, static: true}, nil
			}

			if !strings.Contains(name, ".") {
				if !i.registry.Known(name) {
					return receiver{}, nameError(root,
						append(i.visible(), i.registry.Names()...))
				}

				return receiver{}, err.(*Error).at(root)
			}
		}
	}

	v, err := i.eval(ctx, expr)
	if err != nil {
		return receiver{}, err
	}

	tok := firstToken(expr)

	if v.kind == KindNull {
		return receiver{}, ErrType.at(tok).
			With(slog.String("reason", "member access on null"))
	}

	desc, ok := i.registry.TypeOf(v)
	if !ok {
		return receiver{}, ErrMethodResolution.at(tok).
			With(slog.String("type", goTypeName(v)))
	}

	return receiver{desc: desc, value: v}, nil
}

// dottedName returns the name spelled by an identifier or a chain of
// identifiers joined by member access.
func dottedName(expr Expr) (string, bool) {
	switch e := expr.(type) {
	case *Literal:
		return e.Token.Value, e.Kind == LiteralIdent

	case *BinaryOp:
		right, ok := e.Right.(*Literal)
		if !isDot(e.Op) || !ok || right.Kind != LiteralIdent {
			return "", false
		}

		left, ok := dottedName(e.Left)

		return left + "." + right.Token.Value, ok

	default:
		return "", false
	}
}

func goTypeName(v Value) string {
	if v.kind == KindObject {
		return reflect.TypeOf(v.obj).String()
	}

	return v.kind.String()
}

// member evaluates a member access: a property read, a method call, or an
// indexed property read.
func (i *Interpreter) member(ctx context.Context, e *BinaryOp) (Value, error) {
	recv, err := i.receiver(ctx, e.Left)
	if err != nil {
		return Value{}, err
	}

	switch right := e.Right.(type) {
	case *Literal:
		return i.property(ctx, recv, right.Token)

	case *Call:
		args, err := i.evalArgs(ctx, right.Args)
		if err != nil {
			return Value{}, err
		}

		return i.method(ctx, recv, right.Name, args)

	case *Indexor:
		base, err := i.property(ctx, recv, right.Base)
		if err != nil {
			return Value{}, err
		}

		return i.index(ctx, base, right)

	default:
		return Value{}, ErrSyntax.at(e.Op).
			With(slog.String("reason", "expected member name"))
	}
}

func (i *Interpreter) property(ctx context.Context, recv receiver, name Token) (Value, error) {
	p, ok := findProperty(recv.desc, name.Value, recv.static)
	if !ok || p.Get == nil {
		return Value{}, memberError(recv, name)
	}

	v, err := p.Get(ctx, recv.value)
	if err != nil {
		return Value{}, hostError(err, name)
	}

	return v, nil
}

func (i *Interpreter) setProperty(ctx context.Context, recv receiver, name Token, v Value) error {
	p, ok := findProperty(recv.desc, name.Value, recv.static)
	if !ok {
		return memberError(recv, name)
	}

	if p.Set == nil {
		return ErrAssignment.at(name).With(
			slog.String("type", recv.desc.QualifiedName()),
			slog.String("reason", "read-only property"))
	}

	if !i.registry.Assignable(v, p.Type) {
		return ErrType.at(name).With(
			slog.String("expected", p.Type.String()),
			slog.String("actual", v.kind.String()))
	}

	if err := p.Set(ctx, recv.value, v); err != nil {
		return hostError(err, name)
	}

	return nil
}

func (i *Interpreter) method(
	ctx context.Context,
	recv receiver,
	name Token,
	args []Value,
) (Value, error) {
	m, ok := i.registry.findMethod(recv.desc, name.Value, args, recv.static)
	if !ok {
		return Value{}, memberError(recv, name).With(slog.Int("args", len(args)))
	}

	i.logger.TraceContext(ctx, "host call",
		slog.String("type", recv.desc.QualifiedName()),
		slog.String("method", m.Name),
		slog.Bool("static", recv.static))

	v, err := m.Func(ctx, recv.value, withDefaults(m.Params, args))
	if err != nil {
		return Value{}, hostError(err, name)
	}

	return v, nil
}

func (i *Interpreter) construct(ctx context.Context, e *NewExpr) (Value, error) {
	desc, err := i.registry.Resolve(e.Type.Value, i.usings)
	if err != nil {
		return Value{}, err.(*Error).at(e.Type)
	}

	args, err := i.evalArgs(ctx, e.Args)
	if err != nil {
		return Value{}, err
	}

	c, ok := i.registry.findConstructor(desc, args)
	if !ok {
		return Value{}, ErrMethodResolution.at(e.Type).With(
			slog.String("type", desc.QualifiedName()),
			slog.String("member", "constructor"),
			slog.Int("args", len(args)))
	}

	i.logger.TraceContext(ctx, "host construct",
		slog.String("type", desc.QualifiedName()),
		slog.Int("args", len(args)))

	v, err := c.Func(ctx, withDefaults(c.Params, args))
	if err != nil {
		return Value{}, hostError(err, e.Type)
	}

	return v, nil
}

func memberError(recv receiver, name Token) *Error {
	err := ErrMethodResolution.at(name).With(
		slog.String("type", recv.desc.QualifiedName()),
		slog.Bool("static", recv.static))

	if s := Suggest(name.Value, memberNames(recv.desc)); len(s) > 0 {
		err = err.With(slog.String("did_you_mean", strings.Join(s, ", ")))
	}

	return err
}

// hostError annotates an error returned by host code with the position of
// the member that produced it.
func hostError(err error, tok Token) error {
	if e, ok := err.(*Error); ok { //nolint:errorlint
		return e.at(tok)
	}

	return ErrHost.Wrap(err).at(tok)
}

// index evaluates base[index].
func (i *Interpreter) index(ctx context.Context, base Value, e *Indexor) (Value, error) {
	key, err := i.eval(ctx, e.Index)
	if err != nil {
		return Value{}, err
	}

	v, err := indexValue(ctx, base, key)
	if err != nil {
		return Value{}, hostError(err, e.Base)
	}

	return v, nil
}

// indexValue indexes a string by character position, delegates to an
// [Indexer], or indexes a Go slice, array, string, or map.
func indexValue(ctx context.Context, base, key Value) (Value, error) {
	switch base.kind {
	case KindString:
		runes := []rune(base.str)

		k, err := position(key, len(runes))
		if err != nil {
			return Value{}, err
		}

		return CharValue(runes[k]), nil

	case KindObject:
		if ix, ok := base.obj.(Indexer); ok {
			return ix.Index(ctx, key)
		}

		rv := reflect.ValueOf(base.obj)
		if rv.Kind() == reflect.Pointer && rv.Elem().Kind() == reflect.Array {
			rv = rv.Elem()
		}

		switch rv.Kind() {
		case reflect.Slice, reflect.Array, reflect.String:
			k, err := position(key, rv.Len())
			if err != nil {
				return Value{}, err
			}

			return fromReflect(rv.Index(k)), nil

		case reflect.Map:
			kv, err := convert(key, rv.Type().Key())
			if err != nil {
				return Value{}, err
			}

			ev := rv.MapIndex(kv)
			if !ev.IsValid() {
				return Value{}, ErrIndex.With(
					slog.String("reason", "key not found"),
					slog.String("key", key.String()))
			}

			return fromReflect(ev), nil
		}
	}

	return Value{}, ErrType.With(
		slog.String("reason", "value is not indexable"),
		slog.String("type", goTypeName(base)))
}

// position validates an integral index against a length.
func position(key Value, n int) (int, error) {
	if !key.integral() {
		return 0, ErrType.With(
			slog.String("reason", "index is not an Int"),
			slog.String("index", key.kind.String()))
	}

	if k := int(key.num); k >= 0 && k < n {
		return k, nil
	}

	return 0, ErrIndex.With(
		slog.Int("index", int(key.num)),
		slog.Int("length", n))
}
