package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/treewalk/lang"
)

const fmtScript = "using Scene; f(x){while(x<3){x=x+1;} return x;}"

func TestFmt(t *testing.T) {
	t.Parallel()

	file := writeScript(t, fmtScript)

	tests := []struct {
		name  string
		run   func(context.Context, FormatInput) error
		check func(t *testing.T, out string)
	}{
		{
			name: "native",
			run: func(ctx context.Context, in FormatInput) error {
				return (&Native{in}).Run(ctx)
			},
			check: func(t *testing.T, out string) {
				t.Helper()

				want := "using Scene;\n\nf(x) {\n  while (x < 3) {\n    x = x + 1;\n  }\n  return x;\n}\n"
				if out != want {
					t.Errorf("output =\n%q\nwant\n%q", out, want)
				}
			},
		},
		{
			name: "json",
			run: func(ctx context.Context, in FormatInput) error {
				return (&JSON{in}).Run(ctx)
			},
			check: func(t *testing.T, out string) {
				t.Helper()

				if !json.Valid([]byte(out)) {
					t.Errorf("output is not JSON:\n%s", out)
				}
			},
		},
		{
			name: "yaml",
			run: func(ctx context.Context, in FormatInput) error {
				return (&YAML{in}).Run(ctx)
			},
			check: func(t *testing.T, out string) {
				t.Helper()

				var doc map[string]any
				if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
					t.Errorf("output is not YAML: %v\n%s", err, out)
				}
			},
		},
		{
			name: "ast",
			run: func(ctx context.Context, in FormatInput) error {
				return (&AST{in}).Run(ctx)
			},
			check: func(t *testing.T, out string) {
				t.Helper()

				if !strings.HasPrefix(out, "Program\n  Using Scene\n  Function f(x)\n") {
					t.Errorf("output =\n%s", out)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer

			ctx := WithStreams(t.Context(), Streams{Out: &out})

			if err := tt.run(ctx, FormatInput{Indent: 2, Source: file}); err != nil {
				t.Fatalf("Run error: %v", err)
			}

			tt.check(t, out.String())
		})
	}
}

func TestFmt_Stdin(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	ctx := WithStreams(t.Context(), Streams{
		In:  strings.NewReader("g(){return 1+2;}"),
		Out: &out,
	})

	cmd := Native{FormatInput{Indent: 0, Source: "-"}}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if want := "g() { return 1 + 2; }\n"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

// TestFmt_FixedPoint checks that formatting the native output again yields
// the same text.
func TestFmt_FixedPoint(t *testing.T) {
	t.Parallel()

	format := func(in io.Reader) string {
		var out bytes.Buffer

		ctx := WithStreams(t.Context(), Streams{In: in, Out: &out})
		if err := (&Native{FormatInput{Indent: 4}}).Run(ctx); err != nil {
			t.Fatalf("Run error: %v", err)
		}

		return out.String()
	}

	once := format(strings.NewReader(testScript))
	if twice := format(strings.NewReader(once)); twice != once {
		t.Errorf("not a fixed point\nfirst:\n%s\nsecond:\n%s", once, twice)
	}
}

func TestFmt_SyntaxError(t *testing.T) {
	t.Parallel()

	ctx := WithStreams(t.Context(), Streams{
		In:  strings.NewReader("f( {"),
		Out: io.Discard,
	})

	err := (&AST{FormatInput{Source: "-"}}).Run(ctx)
	if !errors.Is(err, lang.ErrSyntax) {
		t.Errorf("Run error = %v, want syntax error", err)
	}
}
