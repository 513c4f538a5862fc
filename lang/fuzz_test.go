package lang

import (
	"testing"
	"unicode/utf8"
)

// FuzzParse checks that the tokenizer and parser reject bad input with an
// error rather than a panic.
func FuzzParse(f *testing.F) {
	f.Add("Main() { return 1 + 2 * 3; }")
	f.Add("using A.B; f(x) { if (x) { } else if (!x) { } else { } }")
	f.Add(`f() { var s = "a{b"; var c = '}'; s[0]; }`)
	f.Add("f() { for (i, 0, 10) { while (true) { break; } continue; } }")
	f.Add("f() { a.b.c(new X.Y(1, -2), d[3]) = 4; }")
	f.Add("f() { // comment }\n }")
	f.Add("((((")
	f.Add("f() { - - - ; }")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		prog, err := Parse(t.Context(), input, WithMaxDepth(32))
		if err != nil {
			if _, ok := err.(*Error); !ok { //nolint:errorlint
				t.Errorf("Parse(%q) error %T is not *Error", input, err)
			}

			return
		}

		for _, fn := range prog.Functions {
			if fn.Body == nil {
				t.Errorf("function %s has no body", fn.Name.Value)
			}
		}
	})
}
