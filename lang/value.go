package lang

import (
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
)

// Kind identifies the dynamic type of a [Value].
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindString
	KindChar
	KindBool
	KindObject
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"

	case KindInt:
		return "Int"

	case KindFloat:
		return "Float"

	case KindString:
		return "String"

	case KindChar:
		return "Char"

	case KindBool:
		return "Bool"

	case KindObject:
		return "Object"

	default:
		return "Unknown"
	}
}

// Value is a dynamically typed runtime value.
//
// The zero Value is null. Object values hold a borrowed reference to a host
// object; the interpreter never owns or releases it.
type Value struct {
	obj  any
	str  string
	num  int32 // Int, Char, and Bool (0 or 1)
	flt  float32
	kind Kind
}

// Null returns the null value.
func Null() Value { return Value{} }

// IntValue returns an Int value.
func IntValue(i int32) Value { return Value{kind: KindInt, num: i} }

// FloatValue returns a Float value.
func FloatValue(f float32) Value { return Value{kind: KindFloat, flt: f} }

// StringValue returns a String value.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// CharValue returns a Char value.
func CharValue(r rune) Value { return Value{kind: KindChar, num: r} }

// BoolValue returns a Bool value.
func BoolValue(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.num = 1
	}

	return v
}

// ObjectValue returns an Object value referencing obj, or null if obj is nil.
func ObjectValue(obj any) Value {
	if isNil(obj) {
		return Value{}
	}

	return Value{kind: KindObject, obj: obj}
}

// ValueOf converts a Go value into a [Value].
//
// Signed and unsigned integers become Int (truncated to 32 bits), floats
// become Float, strings become String, bools become Bool, and a [Value] is
// returned unchanged. Nil becomes null and anything else becomes an Object.
func ValueOf(x any) Value {
	switch x := x.(type) {
	case nil:
		return Value{}
	case Value:
		return x
	case int:
		return IntValue(int32(x)) //nolint:gosec
	case int8:
		return IntValue(int32(x))
	case int16:
		return IntValue(int32(x))
	case int32:
		return IntValue(x)
	case int64:
		return IntValue(int32(x)) //nolint:gosec
	case uint:
		return IntValue(int32(x)) //nolint:gosec
	case uint8:
		return IntValue(int32(x))
	case uint16:
		return IntValue(int32(x))
	case uint32:
		return IntValue(int32(x)) //nolint:gosec
	case uint64:
		return IntValue(int32(x)) //nolint:gosec
	case float32:
		return FloatValue(x)
	case float64:
		return FloatValue(float32(x))
	case string:
		return StringValue(x)
	case bool:
		return BoolValue(x)
	default:
		return ObjectValue(x)
	}
}

// Kind returns the dynamic type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Int returns v's integer value. It panics if v is not an Int.
func (v Value) Int() int32 {
	v.must(KindInt)

	return v.num
}

// Float returns v's float value. It panics if v is not a Float.
func (v Value) Float() float32 {
	v.must(KindFloat)

	return v.flt
}

// Char returns v's character value. It panics if v is not a Char.
func (v Value) Char() rune {
	v.must(KindChar)

	return v.num
}

// Bool returns v's boolean value. It panics if v is not a Bool.
func (v Value) Bool() bool {
	v.must(KindBool)

	return v.num != 0
}

// Object returns v's host object. It panics if v is not an Object.
func (v Value) Object() any {
	v.must(KindObject)

	return v.obj
}

// Any returns v as a Go value: nil, int32, float32, string, rune (int32),
// bool, or the host object.
func (v Value) Any() any {
	switch v.kind {
	case KindInt, KindChar:
		return v.num
	case KindFloat:
		return v.flt
	case KindString:
		return v.str
	case KindBool:
		return v.num != 0
	case KindObject:
		return v.obj
	default:
		return nil
	}
}

// String returns the display form of v. For strings this is the string
// itself, so it is also the operand form used by string concatenation.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(int64(v.num), 10)
	case KindFloat:
		return strconv.FormatFloat(float64(v.flt), 'g', -1, 32)
	case KindString:
		return v.str
	case KindChar:
		return string(v.num)
	case KindBool:
		return strconv.FormatBool(v.num != 0)
	case KindObject:
		if s, ok := v.obj.(fmt.Stringer); ok {
			return s.String()
		}

		return fmt.Sprint(v.obj)
	default:
		return "null"
	}
}

// LogValue implements slog.LogValuer.
func (v Value) LogValue() slog.Value {
	switch v.kind {
	case KindInt, KindChar:
		return slog.Int64Value(int64(v.num))
	case KindFloat:
		return slog.Float64Value(float64(v.flt))
	case KindString:
		return slog.StringValue(v.str)
	case KindBool:
		return slog.BoolValue(v.num != 0)
	case KindObject:
		return slog.AnyValue(v.obj)
	default:
		return slog.StringValue("null")
	}
}

func (v Value) must(k Kind) {
	if v.kind != k {
		panic("lang: Value is " + v.kind.String() + ", not " + k.String())
	}
}

// numeric reports whether v participates in arithmetic.
func (v Value) numeric() bool {
	return v.kind == KindInt || v.kind == KindFloat || v.kind == KindChar
}

// integral reports whether v is an Int or a Char.
func (v Value) integral() bool {
	return v.kind == KindInt || v.kind == KindChar
}

func (v Value) float() float32 {
	if v.kind == KindFloat {
		return v.flt
	}

	return float32(v.num)
}

// isNil reports whether x is nil or a typed nil reference.
func isNil(x any) bool {
	if x == nil {
		return true
	}

	switch rv := reflect.ValueOf(x); rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice,
		reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// parseIntLiteral parses the text of an int literal as a 32-bit integer.
func parseIntLiteral(tok Token) (Value, error) {
	i, err := strconv.ParseInt(tok.Value, 10, 32)
	if err != nil {
		return Value{}, ErrInvalidNumber.Wrap(err).at(tok)
	}

	return IntValue(int32(i)), nil
}

// parseFloatLiteral parses the text of a float literal as a 32-bit float.
func parseFloatLiteral(tok Token) (Value, error) {
	f, err := strconv.ParseFloat(tok.Value, 32)
	if err != nil {
		return Value{}, ErrInvalidNumber.Wrap(err).at(tok)
	}

	return FloatValue(float32(f)), nil
}
