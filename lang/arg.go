package lang

import (
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// EvalArg converts a host-supplied argument string into a [Value] by
// evaluating it as an expr-lang expression, so "42", "1.5", "true",
// `"quoted"`, "2 * 21", and "[1, 2, 3]" all produce typed values. Names in
// env are visible to the expression. Text that does not compile as an
// expression is passed through verbatim as a String.
func EvalArg(arg string, env map[string]any) (Value, error) {
	if env == nil {
		env = map[string]any{}
	}

	program, err := expr.Compile(arg, expr.Env(env))
	if err != nil {
		return StringValue(arg), nil //nolint:nilerr
	}

	result, err := vm.Run(program, env)
	if err != nil {
		return Value{}, ErrArgument.Wrap(err).
			With(slog.String("source", arg))
	}

	return ValueOf(result), nil
}

// EvalArgs applies [EvalArg] to each argument.
func EvalArgs(args []string, env map[string]any) ([]Value, error) {
	vals := make([]Value, len(args))

	for i, a := range args {
		v, err := EvalArg(a, env)
		if err != nil {
			return nil, err
		}

		vals[i] = v
	}

	return vals, nil
}
