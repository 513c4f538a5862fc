package lang

import (
	"errors"
	"testing"
)

func TestEvalArg(t *testing.T) {
	t.Parallel()

	env := map[string]any{
		"width": 3,
		"fail":  func() (int, error) { return 0, errors.New("nope") },
	}

	tests := []struct {
		arg  string
		kind Kind
		str  string
	}{
		{arg: "42", kind: KindInt, str: "42"},
		{arg: "-7", kind: KindInt, str: "-7"},
		{arg: "1.5", kind: KindFloat, str: "1.5"},
		{arg: "true", kind: KindBool, str: "true"},
		{arg: `"quoted"`, kind: KindString, str: "quoted"},
		{arg: "2 * 21", kind: KindInt, str: "42"},
		{arg: "width * 2", kind: KindInt, str: "6"},
		{arg: "nil", kind: KindNull, str: "null"},
		{arg: "hello world", kind: KindString, str: "hello world"},
		{arg: "", kind: KindString, str: ""},
		{arg: "[1, 2]", kind: KindObject},
	}

	for _, tt := range tests {
		v, err := EvalArg(tt.arg, env)
		if err != nil {
			t.Errorf("EvalArg(%q) error: %v", tt.arg, err)

			continue
		}

		if v.Kind() != tt.kind {
			t.Errorf("EvalArg(%q) kind = %v, want %v", tt.arg, v.Kind(), tt.kind)
		}

		if tt.kind != KindObject && v.String() != tt.str {
			t.Errorf("EvalArg(%q) = %q, want %q", tt.arg, v.String(), tt.str)
		}
	}

	if _, err := EvalArg("fail()", env); !errors.Is(err, ErrArgument) {
		t.Errorf("runtime failure error = %v, want ErrArgument", err)
	}
}

func TestEvalArgs(t *testing.T) {
	t.Parallel()

	vals, err := EvalArgs([]string{"1", "x y", "2.0 / 4"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(vals) != 3 || vals[0].Int() != 1 || vals[1].String() != "x y" || vals[2].Float() != 0.5 {
		t.Errorf("EvalArgs = %v", vals)
	}
}
