package lang

import (
	"log/slog"
	"reflect"
)

// binaryOp applies an arithmetic, comparison, or equality operator.
// Short-circuit operators, assignment, and member access are handled by the
// evaluator.
func binaryOp(op string, l, r Value) (Value, error) {
	switch op {
	case "+":
		if l.kind == KindString || r.kind == KindString {
			return StringValue(l.String() + r.String()), nil
		}

		return arith(op, l, r)

	case "-", "*", "/":
		return arith(op, l, r)

	case "<", ">", "<=", ">=":
		return compare(op, l, r)

	case "==", "!=":
		eq, err := equal(l, r)
		if err != nil {
			return Value{}, err
		}

		return BoolValue(eq == (op == "==")), nil

	default:
		return Value{}, ErrInternal.With(slog.String("operator", op))
	}
}

func typeError(op string, operands ...Value) *Error {
	attrs := []slog.Attr{slog.String("operator", op)}
	for _, v := range operands {
		attrs = append(attrs, slog.String("operand", v.kind.String()))
	}

	return ErrType.With(attrs...)
}

// arith applies + - * / to numeric operands. Two integral operands (Int or
// Char) produce a wrapping Int; any Float operand produces a Float.
func arith(op string, l, r Value) (Value, error) {
	if !l.numeric() || !r.numeric() {
		return Value{}, typeError(op, l, r)
	}

	if l.integral() && r.integral() {
		a, b := l.num, r.num

		switch op {
		case "+":
			return IntValue(a + b), nil
		case "-":
			return IntValue(a - b), nil
		case "*":
			return IntValue(a * b), nil
		default:
			if b == 0 {
				return Value{}, ErrDivideByZero
			}

			return IntValue(a / b), nil
		}
	}

	a, b := l.float(), r.float()

	switch op {
	case "+":
		return FloatValue(a + b), nil
	case "-":
		return FloatValue(a - b), nil
	case "*":
		return FloatValue(a * b), nil
	default:
		return FloatValue(a / b), nil
	}
}

func compare(op string, l, r Value) (Value, error) {
	if !l.numeric() || !r.numeric() {
		return Value{}, typeError(op, l, r)
	}

	if l.integral() && r.integral() {
		return BoolValue(relate(op, l.num, r.num)), nil
	}

	return BoolValue(relate(op, l.float(), r.float())), nil
}

// relate evaluates an ordering relation. Every relation involving NaN is
// false.
func relate[T int32 | float32](op string, a, b T) bool {
	switch op {
	case "<":
		return a < b
	case ">":
		return a > b
	case "<=":
		return a <= b
	default:
		return a >= b
	}
}

// equal compares two values of the same kind, or any two numeric values.
func equal(l, r Value) (bool, error) {
	if l.numeric() && r.numeric() {
		if l.integral() && r.integral() {
			return l.num == r.num, nil
		}

		return l.float() == r.float(), nil
	}

	if l.kind != r.kind {
		return false, typeError("==", l, r)
	}

	switch l.kind {
	case KindNull:
		return true, nil

	case KindString:
		return l.str == r.str, nil

	case KindBool:
		return l.num == r.num, nil

	default:
		// Objects compare by identity when their dynamic types allow it.
		lt, rt := reflect.TypeOf(l.obj), reflect.TypeOf(r.obj)
		if lt != rt || !lt.Comparable() {
			return false, nil
		}

		return l.obj == r.obj, nil
	}
}

// unaryOp applies a prefix operator.
func unaryOp(op string, v Value) (Value, error) {
	switch op {
	case "-":
		switch v.kind {
		case KindInt, KindChar:
			return IntValue(-v.num), nil
		case KindFloat:
			return FloatValue(-v.flt), nil
		}

	case "!":
		if v.kind == KindBool {
			return BoolValue(v.num == 0), nil
		}

	default:
		return Value{}, ErrInternal.With(slog.String("operator", op))
	}

	return Value{}, typeError(op, v)
}

// truth returns the boolean value of a condition.
func truth(v Value) (bool, error) {
	if v.kind != KindBool {
		return false, ErrType.With(
			slog.String("reason", "condition is not a Bool"),
			slog.String("operand", v.kind.String()))
	}

	return v.num != 0, nil
}
