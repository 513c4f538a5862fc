package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ardnew/treewalk/host"
	"github.com/ardnew/treewalk/lang"
	"github.com/ardnew/treewalk/log"
	"github.com/ardnew/treewalk/pkg"
)

// Run invokes a function of a script against the scene host.
type Run struct {
	Input

	Entry string   `arg:"" default:"Main" help:"Function to invoke."                                   name:"entry"`
	Args  []string `arg:""                help:"Arguments, each evaluated as an expression (getenv(name) reads the environment)." name:"args" optional:""`

	Scene        bool `help:"Write the recorded scene as YAML after the result."`
	Env          bool `help:"Write staged environment changes after the result."`
	MaxCallDepth int  `default:"1000" help:"Maximum number of nested calls (0 disables the limit)."`
}

// argEnv is visible to entry-point argument expressions.
var argEnv = map[string]any{"getenv": os.Getenv}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := r.load(ctx)
	if err != nil {
		return err
	}

	args, err := lang.EvalArgs(r.Args, argEnv)
	if err != nil {
		return lang.WrapError(err).With(slog.String("command", "run"))
	}

	s := streamsFrom(ctx)
	logger := log.Default()

	app := host.NewApp(pkg.Name, host.WithOutput(s.Out), host.WithLogger(logger))

	reg, err := host.Registry()
	if err != nil {
		return err
	}

	in, err := lang.New(prog, app,
		lang.WithRegistry(reg),
		lang.WithLogger(logger),
		lang.WithMaxCallDepth(r.MaxCallDepth),
	)
	if err != nil {
		return err
	}

	result, err := in.Invoke(ctx, r.Entry, args...)
	if err != nil {
		return lang.WrapError(err).With(
			slog.String("command", "run"),
			slog.String("entry", r.Entry))
	}

	fmt.Fprintln(s.Out, result.String())

	if r.Env {
		for _, kv := range app.Env.Changes() {
			fmt.Fprintln(s.Out, kv)
		}
	}

	if r.Scene {
		if err := app.Scene.WriteYAML(s.Out); err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}
	}

	return nil
}
