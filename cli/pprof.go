package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/treewalk/log"
	"github.com/ardnew/treewalk/profile"
)

// pprofConfig selects a profile to record while a command runs. Without the
// pprof build tag the only accepted mode is the empty one.
type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Record a profile (${pprofModeHelp})." placeholder:"MODE" short:"p"`
	Dir  string `default:"${pprofDir}" help:"Profile output directory."                                   type:"path"`
}

func (pprofConfig) vars(cacheDir string) kong.Vars {
	help := "requires -tags " + profile.Tag
	if profile.Enabled() {
		help = strings.Join(profile.Modes(), ", ")
	}

	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofModeHelp": help,
		"pprofDir":      filepath.Join(cacheDir, profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	return kong.Group{Key: "pprof", Title: "Profiling options"}
}

// start starts profiling if a mode was given. The returned function stops
// it.
func (f pprofConfig) start(ctx context.Context) (stop func()) {
	p := profile.Make(
		profile.WithMode(f.Mode),
		profile.WithDir(f.Dir),
		profile.WithQuiet(true),
	)

	s, err := p.Start()
	if err != nil {
		log.ErrorContext(ctx, "pprof start", slog.Any("error", err))

		return func() {}
	}

	if p.Mode == "" {
		return s.Stop
	}

	log.DebugContext(ctx, "pprof start",
		slog.String("mode", p.Mode),
		slog.String("dir", p.Dir),
	)

	return func() {
		log.DebugContext(ctx, "pprof stop",
			slog.String("mode", p.Mode),
			slog.String("dir", p.Dir),
		)
		s.Stop()
	}
}
