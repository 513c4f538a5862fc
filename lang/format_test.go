package lang

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

// Format Tests
// ============================================================================

const formatSource = `using Scene;
using Scene.Shapes;

Main(count) {
  var scene = host.Scene;
  global total = 0;
  for (i, 0, count) {
    if (i == 3) { continue; } else if (i > 7) { break; } else { total = total + 1; }
    scene.AddBox(new Vector(i * 2.0, -i, 0), 1.5);
  }
  while (!(total < 1 || total > 9)) { total = total - 1; }
  return total;
}

Empty() { }

Nested(a, b) { return (a - (b - 1)) * -(a + b) / f(a.x.y, s[a + 1], 'c', "str"); }
`

func format(t *testing.T, prog *Program, indent int) string {
	t.Helper()

	var buf bytes.Buffer
	if err := prog.Format(t.Context(), &buf, indent); err != nil {
		t.Fatalf("Format error: %v", err)
	}

	return buf.String()
}

// TestFormat_RoundTrip checks that formatting is a fixed point: parsing the
// formatted text and formatting again yields the same text.
func TestFormat_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, indent := range []int{0, 2, 4} {
		prog, err := Parse(t.Context(), formatSource)
		if err != nil {
			t.Fatal(err)
		}

		once := format(t, prog, indent)

		reparsed, err := Parse(t.Context(), once)
		if err != nil {
			t.Fatalf("indent %d: reparse error: %v\n%s", indent, err, once)
		}

		if twice := format(t, reparsed, indent); twice != once {
			t.Errorf("indent %d: not a fixed point\nfirst:\n%s\nsecond:\n%s", indent, once, twice)
		}
	}
}

func TestFormat_Compact(t *testing.T) {
	t.Parallel()

	prog, err := Parse(t.Context(), "f(){return 2+3*4;}   g(a,b){ if(a){return;}else{b=1;} }")
	if err != nil {
		t.Fatal(err)
	}

	want := "f() { return 2 + 3 * 4; }\n" +
		"g(a, b) { if (a) { return; } else { b = 1; } }\n"

	if got := format(t, prog, 0); got != want {
		t.Errorf("Format =\n%s\nwant\n%s", got, want)
	}
}

func TestFormat_Indented(t *testing.T) {
	t.Parallel()

	prog, err := Parse(t.Context(), "using A; f(x){while(x<3){x=x+1;}}")
	if err != nil {
		t.Fatal(err)
	}

	want := "using A;\n\nf(x) {\n  while (x < 3) {\n    x = x + 1;\n  }\n}\n"

	if got := format(t, prog, 2); got != want {
		t.Errorf("Format =\n%q\nwant\n%q", got, want)
	}
}

func TestFormatExpr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "1+2*3", want: "1 + 2 * 3"},
		{input: "(1+2)*3", want: "(1 + 2) * 3"},
		{input: "1-(2-3)", want: "1 - (2 - 3)"},
		{input: "(1-2)-3", want: "1 - 2 - 3"},
		{input: "-(a+b)", want: "-(a + b)"},
		{input: "-a.b", want: "-a.b"},
		{input: "(-a).b", want: "(-a).b"},
		{input: "a.b.c(1)", want: "a.b.c(1)"},
		{input: "!(a&&b)||c", want: "!(a && b) || c"},
		{input: "a=(b=1)", want: "a = (b = 1)"},
		{input: "new Ns.T(1,x[2])", want: "new Ns.T(1, x[2])"},
		{input: "x - -1", want: "x - -1"},
	}

	for _, tt := range tests {
		if got := FormatExpr(parseExprStmt(t, tt.input)); got != tt.want {
			t.Errorf("FormatExpr(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatJSON(t *testing.T) {
	t.Parallel()

	prog, err := Parse(t.Context(), formatSource)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := prog.FormatJSON(t.Context(), &buf, 2); err != nil {
		t.Fatal(err)
	}

	var doc struct {
		Usings    []string `json:"usings"`
		Functions []struct {
			Name   string   `json:"name"`
			Params []string `json:"params"`
			Body   []any    `json:"body"`
		} `json:"functions"`
	}

	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}

	if strings.Join(doc.Usings, ",") != "Scene,Scene.Shapes" {
		t.Errorf("usings = %v", doc.Usings)
	}

	if len(doc.Functions) != 3 || doc.Functions[0].Name != "Main" ||
		len(doc.Functions[0].Body) != 5 || len(doc.Functions[2].Params) != 2 {
		t.Errorf("functions = %+v", doc.Functions)
	}

	buf.Reset()

	if err := prog.FormatJSON(t.Context(), &buf, 0); err != nil {
		t.Fatal(err)
	}

	if strings.Count(strings.TrimSpace(buf.String()), "\n") != 0 {
		t.Error("compact JSON spans lines")
	}
}

func TestFormatYAML(t *testing.T) {
	t.Parallel()

	prog, err := Parse(t.Context(), "using A; f(x) { return x + 1; }")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := prog.FormatYAML(t.Context(), &buf, 2); err != nil {
		t.Fatal(err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, buf.String())
	}

	fns, ok := doc["functions"].([]any)
	if !ok || len(fns) != 1 {
		t.Fatalf("functions = %v", doc["functions"])
	}

	if fn, _ := fns[0].(map[string]any); fn["name"] != "f" {
		t.Errorf("function = %v", fns[0])
	}
}

func TestFormatTree(t *testing.T) {
	t.Parallel()

	prog, err := Parse(t.Context(), "using A; f(x) { if (x) { return -x; } else { g(1); } }")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := prog.FormatTree(t.Context(), &buf, 2); err != nil {
		t.Fatal(err)
	}

	want := `Program
  Using A
  Function f(x)
    If
      cond: Literal Identifier x
      Return
        UnaryOp -
          Literal Identifier x
    Else
      Expr
        Call g
          Literal Int 1
`

	if got := buf.String(); got != want {
		t.Errorf("FormatTree =\n%s\nwant\n%s", got, want)
	}
}
