package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/treewalk/cli/cmd"
	"github.com/ardnew/treewalk/log"
	"github.com/ardnew/treewalk/pkg"
)

// CLI is the top-level command-line interface for treewalk.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Run   cmd.Run   `cmd:"" default:"withargs" help:"Invoke a function of a script."`
	Check cmd.Check `cmd:""                    help:"Parse a script and list its functions."`
	Fmt   cmd.Fmt   `cmd:""                    help:"Format a script."`
	Repl  cmd.Repl  `cmd:""                    help:"Start an interactive session."`
	Init  cmd.Init  `cmd:""                    help:"Write the configuration file."`
}

// files are the paths a command line run reads and writes.
type files struct {
	config  string
	history string
	cache   string
}

// Run executes the treewalk CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	if err := pkg.MkdirAll(); err != nil {
		return err
	}

	return execute(ctx, cmd.Streams{}, files{
		config:  pkg.ConfigFile(),
		history: pkg.HistoryFile(),
		cache:   pkg.CacheDir(),
	}, exit, args)
}

// description is the help summary followed by the author list.
func description() string {
	var b strings.Builder

	b.WriteString(pkg.Description)

	for _, a := range pkg.Author {
		b.WriteString("\n\n" + a.Name + " <" + a.Email + ">")
	}

	return b.String()
}

func execute(
	ctx context.Context,
	streams cmd.Streams,
	paths files,
	exit func(code int),
	args []string,
) error {
	var cli CLI

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ctx = cmd.WithStreams(ctx, streams)

	if streams.Err != nil {
		log.Config(log.WithOutput(streams.Err))
	}

	vars := kong.Vars{
		"version":             pkg.Version,
		cmd.ConfigIdentifier:  paths.config,
		cmd.HistoryIdentifier: paths.history,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars(paths.cache))

	// Logger flags apply before parsing, wherever they appear.
	cli.Log.scan(args)

	opts := []kong.Option{
		kong.Name(pkg.Name),
		kong.Description(description()),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.DefaultEnvars(strings.ToUpper(pkg.Prefix())),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON,
			strings.TrimSuffix(paths.config, filepath.Ext(paths.config))+".json"),
		kong.Configuration(loadConfig, paths.config),
		vars,
	}

	if streams.Out != nil && streams.Err != nil {
		opts = append(opts, kong.Writers(streams.Out, streams.Err))
	}

	parser, err := kong.New(&cli, opts...)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	// Finalize logger configuration with values that have no early path,
	// including those read from the configuration file.
	cli.Log.start(ctx)

	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
