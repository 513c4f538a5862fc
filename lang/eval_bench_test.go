package lang

import "testing"

func BenchmarkInvoke_Fib(b *testing.B) {
	prog, err := Parse(b.Context(),
		"Fib(n) { if (n < 2) { return n; } return Fib(n - 1) + Fib(n - 2); }")
	if err != nil {
		b.Fatal(err)
	}

	in, err := New(prog, nil)
	if err != nil {
		b.Fatal(err)
	}

	arg := IntValue(15)

	for b.Loop() {
		if _, err := in.Invoke(b.Context(), "Fib", arg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkInvoke_Loop(b *testing.B) {
	prog, err := Parse(b.Context(),
		"Sum(n) { var s = 0; for (i, 0, n) { s = s + i; } return s; }")
	if err != nil {
		b.Fatal(err)
	}

	in, err := New(prog, nil)
	if err != nil {
		b.Fatal(err)
	}

	arg := IntValue(1000)

	for b.Loop() {
		if _, err := in.Invoke(b.Context(), "Sum", arg); err != nil {
			b.Fatal(err)
		}
	}
}
