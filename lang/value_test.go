package lang

import (
	"errors"
	"log/slog"
	"math"
	"testing"
)

// Value Tests
// ============================================================================

func TestValueOf(t *testing.T) {
	t.Parallel()

	obj := &struct{ n int }{n: 1}

	var nilPtr *struct{}

	tests := []struct {
		name string
		in   any
		kind Kind
		str  string
	}{
		{name: "nil", in: nil, kind: KindNull, str: "null"},
		{name: "typed nil", in: nilPtr, kind: KindNull, str: "null"},
		{name: "int", in: 42, kind: KindInt, str: "42"},
		{name: "int64 truncates", in: int64(1) << 32, kind: KindInt, str: "0"},
		{name: "uint8", in: uint8(200), kind: KindInt, str: "200"},
		{name: "float64", in: 0.25, kind: KindFloat, str: "0.25"},
		{name: "string", in: "hi", kind: KindString, str: "hi"},
		{name: "bool", in: true, kind: KindBool, str: "true"},
		{name: "value", in: CharValue('x'), kind: KindChar, str: "x"},
		{name: "object", in: obj, kind: KindObject},
	}

	for _, tt := range tests {
		v := ValueOf(tt.in)

		if v.Kind() != tt.kind {
			t.Errorf("%s: Kind() = %v, want %v", tt.name, v.Kind(), tt.kind)
		}

		if tt.str != "" && v.String() != tt.str {
			t.Errorf("%s: String() = %q, want %q", tt.name, v.String(), tt.str)
		}
	}

	if got := ValueOf(obj).Object(); got != obj {
		t.Errorf("Object() = %v, want %v", got, obj)
	}
}

func TestValue_Accessors(t *testing.T) {
	t.Parallel()

	if IntValue(3).Int() != 3 || FloatValue(1.5).Float() != 1.5 ||
		CharValue('q').Char() != 'q' || !BoolValue(true).Bool() {
		t.Error("accessor round trip failed")
	}

	if !Null().IsNull() || IntValue(0).IsNull() {
		t.Error("IsNull mismatch")
	}

	if got := CharValue('a').Any(); got != int32('a') {
		t.Errorf("Any() = %v (%T)", got, got)
	}

	if got := StringValue("s").LogValue(); got.Kind() != slog.KindString {
		t.Errorf("LogValue kind = %v", got.Kind())
	}

	defer func() {
		if recover() == nil {
			t.Error("Int() on a String did not panic")
		}
	}()

	_ = StringValue("1").Int()
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	want := []string{"Null", "Int", "Float", "String", "Char", "Bool", "Object"}
	for k, s := range want {
		if got := Kind(k).String(); got != s {
			t.Errorf("Kind(%d) = %q, want %q", k, got, s)
		}
	}

	if Kind(99).String() != "Unknown" {
		t.Error("out-of-range kind")
	}
}

// Operator Tests
// ============================================================================

func TestBinaryOp(t *testing.T) {
	t.Parallel()

	nan := FloatValue(float32(math.NaN()))

	tests := []struct {
		op   string
		l, r Value
		want Value
		err  error
	}{
		{op: "+", l: IntValue(2), r: IntValue(3), want: IntValue(5)},
		{op: "-", l: IntValue(2), r: IntValue(3), want: IntValue(-1)},
		{op: "*", l: IntValue(-4), r: IntValue(3), want: IntValue(-12)},
		{op: "/", l: IntValue(-7), r: IntValue(2), want: IntValue(-3)},
		{op: "/", l: IntValue(1), r: IntValue(0), err: ErrDivideByZero},
		{op: "/", l: FloatValue(1), r: IntValue(0), want: FloatValue(float32(math.Inf(1)))},
		{op: "*", l: IntValue(math.MaxInt32), r: IntValue(2), want: IntValue(-2)},
		{op: "+", l: CharValue('A'), r: CharValue(1), want: IntValue('B')},
		{op: "+", l: FloatValue(0.5), r: CharValue(1), want: FloatValue(1.5)},
		{op: "+", l: StringValue("a"), r: BoolValue(true), want: StringValue("atrue")},
		{op: "+", l: Null(), r: StringValue("x"), want: StringValue("nullx")},
		{op: "+", l: BoolValue(true), r: IntValue(1), err: ErrType},
		{op: "-", l: StringValue("a"), r: IntValue(1), err: ErrType},
		{op: "<", l: IntValue(1), r: IntValue(2), want: BoolValue(true)},
		{op: ">", l: FloatValue(2.5), r: IntValue(2), want: BoolValue(true)},
		{op: "<=", l: CharValue('a'), r: IntValue(97), want: BoolValue(true)},
		{op: ">=", l: IntValue(1), r: IntValue(2), want: BoolValue(false)},
		{op: ">", l: nan, r: IntValue(0), want: BoolValue(false)},
		{op: "<", l: nan, r: IntValue(0), want: BoolValue(false)},
		{op: "<", l: StringValue("a"), r: StringValue("b"), err: ErrType},
		{op: "==", l: IntValue(2), r: FloatValue(2), want: BoolValue(true)},
		{op: "==", l: CharValue('a'), r: IntValue(97), want: BoolValue(true)},
		{op: "==", l: StringValue("a"), r: StringValue("a"), want: BoolValue(true)},
		{op: "!=", l: BoolValue(true), r: BoolValue(false), want: BoolValue(true)},
		{op: "==", l: Null(), r: Null(), want: BoolValue(true)},
		{op: "==", l: nan, r: nan, want: BoolValue(false)},
		{op: "==", l: StringValue("1"), r: IntValue(1), err: ErrType},
		{op: "==", l: Null(), r: IntValue(0), err: ErrType},
		{op: "==", l: ObjectValue([]int{1}), r: ObjectValue([]int{1}), want: BoolValue(false)},
		{op: "%", l: IntValue(1), r: IntValue(1), err: ErrInternal},
	}

	for _, tt := range tests {
		got, err := binaryOp(tt.op, tt.l, tt.r)

		if tt.err != nil {
			if !errors.Is(err, tt.err) {
				t.Errorf("%v %s %v: error = %v, want %v", tt.l, tt.op, tt.r, err, tt.err)
			}

			continue
		}

		if err != nil {
			t.Errorf("%v %s %v: error: %v", tt.l, tt.op, tt.r, err)

			continue
		}

		if !sameValue(got, tt.want) {
			t.Errorf("%v %s %v = %s(%v), want %s(%v)", tt.l, tt.op, tt.r,
				got.Kind(), got, tt.want.Kind(), tt.want)
		}
	}
}

func TestUnaryOp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		op   string
		v    Value
		want Value
		err  error
	}{
		{op: "-", v: IntValue(5), want: IntValue(-5)},
		{op: "-", v: IntValue(math.MinInt32), want: IntValue(math.MinInt32)},
		{op: "-", v: FloatValue(1.5), want: FloatValue(-1.5)},
		{op: "-", v: CharValue('a'), want: IntValue(-97)},
		{op: "!", v: BoolValue(false), want: BoolValue(true)},
		{op: "-", v: StringValue("x"), err: ErrType},
		{op: "!", v: IntValue(0), err: ErrType},
		{op: "~", v: IntValue(0), err: ErrInternal},
	}

	for _, tt := range tests {
		got, err := unaryOp(tt.op, tt.v)

		if tt.err != nil {
			if !errors.Is(err, tt.err) {
				t.Errorf("%s%v: error = %v, want %v", tt.op, tt.v, err, tt.err)
			}

			continue
		}

		if err != nil || !sameValue(got, tt.want) {
			t.Errorf("%s%v = %v, %v; want %v", tt.op, tt.v, got, err, tt.want)
		}
	}
}

func TestTruth(t *testing.T) {
	t.Parallel()

	if ok, err := truth(BoolValue(true)); !ok || err != nil {
		t.Errorf("truth(true) = %v, %v", ok, err)
	}

	for _, v := range []Value{IntValue(1), StringValue("true"), Null()} {
		if _, err := truth(v); !errors.Is(err, ErrType) {
			t.Errorf("truth(%v) error = %v, want ErrType", v, err)
		}
	}
}

func TestParseNumberLiterals(t *testing.T) {
	t.Parallel()

	if v, err := parseIntLiteral(Token{Value: "2147483647"}); err != nil || v.Int() != math.MaxInt32 {
		t.Errorf("max int = %v, %v", v, err)
	}

	if _, err := parseIntLiteral(Token{Value: "2147483648"}); !errors.Is(err, ErrInvalidNumber) {
		t.Errorf("overflow error = %v", err)
	}

	if v, err := parseFloatLiteral(Token{Value: "0.1"}); err != nil || v.Float() != float32(0.1) {
		t.Errorf("float = %v, %v", v, err)
	}

	if _, err := parseFloatLiteral(Token{Value: "1e99"}); !errors.Is(err, ErrInvalidNumber) {
		t.Errorf("float overflow error = %v", err)
	}
}
