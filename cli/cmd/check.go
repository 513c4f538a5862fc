package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ardnew/treewalk/host"
	"github.com/ardnew/treewalk/log"
)

// Check parses a script and reports its functions without running it.
type Check struct {
	Input
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) error {
	prog, err := c.load(ctx)
	if err != nil {
		return err
	}

	var known []string
	for _, t := range host.Types() {
		known = append(known, t.Namespace)
	}

	for _, ns := range prog.Imports() {
		if !slices.Contains(known, ns) {
			log.WarnContext(ctx, "unknown namespace",
				slog.String("source", c.Source),
				slog.String("namespace", ns))
		}
	}

	out := streamsFrom(ctx).Out

	for _, name := range prog.Names() {
		fn, _ := prog.Function(name)
		fmt.Fprintf(out, "%s/%d\n", name, len(fn.Params))
	}

	return nil
}
