package lang

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
)

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
	valueType   = reflect.TypeFor[Value]()
)

// Reflect builds a [TypeDesc] for the Go type typ.
//
// Every exported, non-variadic method of typ becomes a method. A method may
// take a leading [context.Context], which is supplied by the interpreter and
// not counted as a parameter, and may return nothing, one value, an error, or
// a value and an error. Every exported field of the struct typ refers to
// (directly or through a pointer) becomes a property; fields are writable
// only when typ is a pointer type.
//
// Each ctor must be a function following the same parameter and result rules
// as a method and returning a value of type typ; each becomes a constructor.
func Reflect(
	namespace, name string,
	typ reflect.Type,
	ctors ...any,
) (*TypeDesc, error) {
	d := &TypeDesc{Namespace: namespace, Name: name, Go: typ}

	for i := range methodCount(typ) {
		m := typ.Method(i)
		if !m.IsExported() || m.Type.IsVariadic() {
			continue
		}

		call, ok := reflectCall(m.Func, 1)
		if !ok {
			continue
		}

		d.Methods = append(d.Methods, Method{
			Name:   m.Name,
			Params: call.params(),
			Func: func(ctx context.Context, self Value, args []Value) (Value, error) {
				recv := reflect.ValueOf(self.obj)
				if self.kind != KindObject || recv.Type() != typ {
					return Value{}, ErrType.With(
						slog.String("method", m.Name),
						slog.String("receiver", self.kind.String()))
				}

				return call.invoke(ctx, recv, args)
			},
		})
	}

	d.Properties = reflectFields(typ)

	for _, ctor := range ctors {
		fn := reflect.ValueOf(ctor)
		if fn.Kind() != reflect.Func || fn.Type().IsVariadic() {
			return nil, ErrHost.With(
				slog.String("type", d.QualifiedName()),
				slog.String("reason", "constructor is not a function"))
		}

		call, ok := reflectCall(fn, 0)
		if !ok || call.out == nil || !call.out.AssignableTo(typ) {
			return nil, ErrHost.With(
				slog.String("type", d.QualifiedName()),
				slog.String("reason", "constructor does not return "+typ.String()))
		}

		d.Constructors = append(d.Constructors, Constructor{
			Params: call.params(),
			Func: func(ctx context.Context, args []Value) (Value, error) {
				return call.invoke(ctx, reflect.Value{}, args)
			},
		})
	}

	return d, nil
}

// methodCount returns the number of methods with callable implementations.
// Interface types have none.
func methodCount(typ reflect.Type) int {
	if typ.Kind() == reflect.Interface {
		return 0
	}

	return typ.NumMethod()
}

// MustReflect is like [Reflect] but panics on error.
func MustReflect(
	namespace, name string,
	typ reflect.Type,
	ctors ...any,
) *TypeDesc {
	d, err := Reflect(namespace, name, typ, ctors...)
	if err != nil {
		panic(err)
	}

	return d
}

// reflectedCall adapts a Go function to script arguments.
type reflectedCall struct {
	fn       reflect.Value
	in       []reflect.Type // script-visible parameters
	out      reflect.Type   // nil when the function returns no value
	skip     int            // leading receiver parameters
	ctx      bool           // first non-receiver parameter is a context
	hasError bool           // last result is an error
}

func reflectCall(fn reflect.Value, skip int) (reflectedCall, bool) {
	ft := fn.Type()
	c := reflectedCall{fn: fn, skip: skip}

	first := skip
	if ft.NumIn() > first && ft.In(first) == contextType {
		c.ctx = true
		first++
	}

	for i := first; i < ft.NumIn(); i++ {
		c.in = append(c.in, ft.In(i))
	}

	switch ft.NumOut() {
	case 0:

	case 1:
		if ft.Out(0) == errorType {
			c.hasError = true
		} else {
			c.out = ft.Out(0)
		}

	case 2:
		if ft.Out(1) != errorType {
			return c, false
		}

		c.out, c.hasError = ft.Out(0), true

	default:
		return c, false
	}

	return c, true
}

func (c reflectedCall) params() []Param {
	params := make([]Param, len(c.in))
	for i, t := range c.in {
		params[i] = Param{Name: "arg" + strconv.Itoa(i), Type: typeOfGo(t)}
	}

	return params
}

func (c reflectedCall) invoke(
	ctx context.Context,
	recv reflect.Value,
	args []Value,
) (result Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrHost.With(slog.String("panic", fmt.Sprint(r)))
		}
	}()

	in := make([]reflect.Value, 0, c.skip+1+len(args))
	if c.skip > 0 {
		in = append(in, recv)
	}

	if c.ctx {
		in = append(in, reflect.ValueOf(ctx))
	}

	if len(args) != len(c.in) {
		return Value{}, ErrArity.With(
			slog.Int("expected", len(c.in)),
			slog.Int("actual", len(args)))
	}

	for i, a := range args {
		rv, err := convert(a, c.in[i])
		if err != nil {
			return Value{}, err
		}

		in = append(in, rv)
	}

	out := c.fn.Call(in)

	if c.hasError {
		if e, _ := out[len(out)-1].Interface().(error); e != nil {
			return Value{}, ErrHost.Wrap(e)
		}
	}

	if c.out == nil {
		return Value{}, nil
	}

	return fromReflect(out[0]), nil
}

// reflectFields returns the exported fields of the struct that typ refers to
// as properties.
func reflectFields(typ reflect.Type) []Property {
	st, ptr := typ, false
	if st.Kind() == reflect.Pointer {
		st, ptr = st.Elem(), true
	}

	if st.Kind() != reflect.Struct {
		return nil
	}

	var props []Property

	for i := range st.NumField() {
		f := st.Field(i)
		if !f.IsExported() || f.Anonymous {
			continue
		}

		field := func(self Value) (reflect.Value, error) {
			rv := reflect.ValueOf(self.obj)
			if self.kind != KindObject || rv.Type() != typ {
				return reflect.Value{}, ErrType.With(
					slog.String("property", f.Name),
					slog.String("receiver", self.kind.String()))
			}

			return reflect.Indirect(rv).FieldByIndex(f.Index), nil
		}

		prop := Property{
			Name: f.Name,
			Type: typeOfGo(f.Type),
			Get: func(_ context.Context, self Value) (Value, error) {
				fv, err := field(self)
				if err != nil {
					return Value{}, err
				}

				return fromReflect(fv), nil
			},
		}

		if ptr {
			prop.Set = func(_ context.Context, self, v Value) error {
				fv, err := field(self)
				if err != nil {
					return err
				}

				rv, err := convert(v, f.Type)
				if err != nil {
					return err
				}

				fv.Set(rv)

				return nil
			}
		}

		props = append(props, prop)
	}

	return props
}

// typeOfGo maps a Go type to the script type it accepts.
func typeOfGo(t reflect.Type) Type {
	if t == valueType {
		return Type{}
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64:
		return Type{Kind: KindInt}

	case reflect.Float32, reflect.Float64:
		return Type{Kind: KindFloat}

	case reflect.String:
		return Type{Kind: KindString}

	case reflect.Bool:
		return Type{Kind: KindBool}

	case reflect.Interface:
		if t.NumMethod() == 0 {
			return Type{}
		}

		return Type{Kind: KindObject, Go: t}

	default:
		return Type{Kind: KindObject, Go: t}
	}
}

// convert produces a Go value of type t from v.
func convert(v Value, t reflect.Type) (reflect.Value, error) {
	if t == valueType {
		return reflect.ValueOf(v), nil
	}

	mismatch := func() (reflect.Value, error) {
		return reflect.Value{}, ErrType.With(
			slog.String("expected", t.String()),
			slog.String("actual", v.kind.String()))
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64:
		if !v.integral() {
			return mismatch()
		}

		return reflect.ValueOf(int64(v.num)).Convert(t), nil

	case reflect.Float32, reflect.Float64:
		if !v.numeric() {
			return mismatch()
		}

		return reflect.ValueOf(v.float()).Convert(t), nil

	case reflect.String:
		switch v.kind {
		case KindString:
			return reflect.ValueOf(v.str).Convert(t), nil
		case KindNull:
			return reflect.Zero(t), nil
		}

		return mismatch()

	case reflect.Bool:
		if v.kind != KindBool {
			return mismatch()
		}

		return reflect.ValueOf(v.num != 0).Convert(t), nil
	}

	x := v.Any()
	if x == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice,
			reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		}

		return mismatch()
	}

	rv := reflect.ValueOf(x)
	if !rv.Type().AssignableTo(t) {
		return mismatch()
	}

	return rv, nil
}

// fromReflect converts a Go value to a [Value].
func fromReflect(rv reflect.Value) Value {
	if rv.IsValid() && rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}

	if !rv.IsValid() {
		return Value{}
	}

	if rv.Type() == valueType {
		v, _ := rv.Interface().(Value)

		return v
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return IntValue(int32(rv.Int())) //nolint:gosec

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64:
		return IntValue(int32(rv.Uint())) //nolint:gosec

	case reflect.Float32, reflect.Float64:
		return FloatValue(float32(rv.Float()))

	case reflect.String:
		return StringValue(rv.String())

	case reflect.Bool:
		return BoolValue(rv.Bool())

	default:
		if !rv.CanInterface() {
			return Value{}
		}

		return ObjectValue(rv.Interface())
	}
}
