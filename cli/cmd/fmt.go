package cmd

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/ardnew/treewalk/lang"
)

// Fmt parses a script and writes it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical source (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as an indented syntax tree."`
}

// FormatInput selects the script a fmt subcommand reads.
type FormatInput struct {
	Indent  int           `default:"2"   help:"Indent width."                         short:"i"`
	Timeout time.Duration `default:"10s" help:"Timeout for fetching a URL source."`

	Source string `arg:"" default:"-" help:"Script file, http(s) URL, or '-' for stdin." name:"source"`
}

func (f FormatInput) format(
	ctx context.Context,
	name string,
	write func(*lang.Program, context.Context, io.Writer, int) error,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := load(ctx, f.Source, f.Timeout)
	if err != nil {
		return lang.WrapError(err).With(slog.String("format", name))
	}

	return write(prog, ctx, streamsFrom(ctx).Out, f.Indent)
}

// Native formats a script as canonical source.
type Native struct{ FormatInput }

// Run executes the fmt native command.
func (f *Native) Run(ctx context.Context) error {
	return f.format(ctx, "native", (*lang.Program).Format)
}

// JSON formats a script's syntax tree as JSON.
type JSON struct{ FormatInput }

// Run executes the fmt json command.
func (f *JSON) Run(ctx context.Context) error {
	return f.format(ctx, "json", (*lang.Program).FormatJSON)
}

// YAML formats a script's syntax tree as YAML.
type YAML struct{ FormatInput }

// Run executes the fmt yaml command.
func (f *YAML) Run(ctx context.Context) error {
	return f.format(ctx, "yaml", (*lang.Program).FormatYAML)
}

// AST formats a script's syntax tree as an indented outline.
type AST struct{ FormatInput }

// Run executes the fmt ast command.
func (f *AST) Run(ctx context.Context) error {
	return f.format(ctx, "ast", (*lang.Program).FormatTree)
}
