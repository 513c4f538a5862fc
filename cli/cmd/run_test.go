package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/treewalk/lang"
)

func TestRun(t *testing.T) {
	t.Parallel()

	file := writeScript(t, testScript)
	url := serveScript(t, testScript, 0)

	tests := []struct {
		name string
		cmd  Run
		want string
	}{
		{
			name: "default entry",
			cmd:  Run{Input: Input{Source: file}, Entry: "Main"},
			want: "hi\n3\n",
		},
		{
			name: "url source",
			cmd:  Run{Input: Input{Source: url}, Entry: "Main"},
			want: "hi\n3\n",
		},
		{
			name: "args",
			cmd:  Run{Input: Input{Source: file}, Entry: "Add", Args: []string{"2", "20 + 1"}},
			want: "23\n",
		},
		{
			name: "string args",
			cmd:  Run{Input: Input{Source: file}, Entry: "Add", Args: []string{`"a"`, "b c"}},
			want: "ab c\n",
		},
		{
			name: "staged env",
			cmd:  Run{Input: Input{Source: file}, Entry: "Stage", Env: true},
			want: "0\nTREEWALK_TEST=1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer

			ctx := WithStreams(t.Context(), Streams{Out: &out})

			if err := tt.cmd.Run(ctx); err != nil {
				t.Fatalf("Run error: %v", err)
			}

			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestRun_Scene(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	cmd := Run{Input: Input{Source: writeScript(t, testScript)}, Entry: "Boxes", Scene: true}

	if err := cmd.Run(WithStreams(t.Context(), Streams{Out: &out})); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	got := out.String()

	if !strings.HasPrefix(got, "1\nnodes:\n") || !strings.Contains(got, "kind: box") {
		t.Errorf("output =\n%s", got)
	}
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	file := writeScript(t, testScript)

	tests := []struct {
		name string
		cmd  Run
		err  error
	}{
		{name: "unknown entry", cmd: Run{Input: Input{Source: file}, Entry: "Nope"}, err: lang.ErrName},
		{name: "arity", cmd: Run{Input: Input{Source: file}, Entry: "Add"}, err: lang.ErrArity},
		{name: "bad arg", cmd: Run{Input: Input{Source: file}, Entry: "Add", Args: []string{`int(getenv("TREEWALK_UNSET"))`, "2"}}, err: lang.ErrArgument},
		{name: "missing source", cmd: Run{Input: Input{Source: file + ".missing"}, Entry: "Main"}, err: ErrOpenSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cmd.Run(WithStreams(t.Context(), Streams{Out: &bytes.Buffer{}}))
			if !errors.Is(err, tt.err) {
				t.Errorf("Run error = %v, want %v", err, tt.err)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	cmd := Check{Input: Input{Source: writeScript(t, testScript)}}

	if err := cmd.Run(WithStreams(t.Context(), Streams{Out: &out})); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if want := "Main/0\nAdd/2\nBoxes/0\nStage/0\n"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}
