package cmd

import (
	"context"
	"time"

	"github.com/ardnew/treewalk/cli/cmd/repl"
	"github.com/ardnew/treewalk/host"
	"github.com/ardnew/treewalk/lang"
	"github.com/ardnew/treewalk/log"
	"github.com/ardnew/treewalk/pkg"
)

// Repl starts an interactive session.
type Repl struct {
	Source  string        `help:"Script file or http(s) URL to load."                      short:"f"`
	Timeout time.Duration `default:"10s"        help:"Timeout for fetching a URL source."`
	History string        `default:"${history}" help:"History file (empty keeps history in memory only)." type:"path"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	prog, err := r.program(ctx)
	if err != nil {
		return err
	}

	reg, err := host.Registry()
	if err != nil {
		return err
	}

	logger := log.Default()
	out := streamsFrom(ctx).Out

	factory := func(p *lang.Program) (*lang.Interpreter, error) {
		app := host.NewApp(pkg.Name, host.WithOutput(out), host.WithLogger(logger))

		return lang.New(p, app, lang.WithRegistry(reg), lang.WithLogger(logger))
	}

	return repl.Run(ctx, prog, factory, r.History, logger)
}

// program loads the source, or returns an empty program when there is none.
func (r *Repl) program(ctx context.Context) (*lang.Program, error) {
	if r.Source == "" {
		return lang.Parse(ctx, "")
	}

	return load(ctx, r.Source, r.Timeout)
}
