package repl

import (
	"strings"
	"testing"
)

func TestDetectFunctionCall(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  functionCall
	}{
		{"no_call", "a + b", functionCall{}},
		{"closed_call", "f(1)", functionCall{}},
		{"first_arg", "Area(", functionCall{name: "Area", inCall: true}},
		{"second_arg", "Area(1, ", functionCall{name: "Area", argIndex: 1, inCall: true}},
		{"member", "host.Scene.AddBox(v, ", functionCall{name: "host.Scene.AddBox", argIndex: 1, inCall: true}},
		{"nested", "f(1, g(2, ", functionCall{name: "g", argIndex: 1, inCall: true}},
		{"after_nested", "f(1, g(2, 3), ", functionCall{name: "f", argIndex: 2, inCall: true}},
		{"quoted_comma", `f("a, (b", `, functionCall{name: "f", argIndex: 1, inCall: true}},
		{"escaped_quote", `f("\", ", `, functionCall{name: "f", argIndex: 1, inCall: true}},
		{"grouping", "(1 + ", functionCall{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := detectFunctionCall(tt.input, len(tt.input)); got != tt.want {
				t.Errorf("detectFunctionCall(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSession_Signature(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, testProgram)
	ctx := t.Context()

	sig, ok := m.session.signature(ctx, "Area", 1)
	if !ok || sig.name != "Area" || strings.Join(sig.params, ",") != "w,h" {
		t.Errorf("Area signature = %+v, %v", sig, ok)
	}

	sig, ok = m.session.signature(ctx, "Math.Clamp", 1)
	if !ok || len(sig.params) != 3 || !strings.HasPrefix(sig.params[0], "x ") {
		t.Errorf("Math.Clamp signature = %+v, %v", sig, ok)
	}

	if _, ok := m.session.signature(ctx, "Missing", 0); ok {
		t.Error("signature found for undefined function")
	}

	if _, ok := m.session.signature(ctx, "host.Nope", 0); ok {
		t.Error("signature found for undefined method")
	}

	if r := sig.render(1); !strings.Contains(r, "Clamp") || !strings.Contains(r, "lo") {
		t.Errorf("render = %q", r)
	}
}
