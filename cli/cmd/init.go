package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/treewalk/log"
	"github.com/ardnew/treewalk/profile"
)

// configIndent is the indent width of the generated configuration file.
const configIndent = 2

// Init writes a configuration file holding the current flag values.
type Init struct {
	Force bool `help:"Overwrite an existing configuration file." short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ErrNoContext
	}

	confPath := ktx.Model.Vars()[ConfigIdentifier]
	if confPath == "" {
		return ErrWriteConfig.With(slog.String("reason", "no configuration path"))
	}

	if _, err := os.Stat(confPath); err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(ErrFileExists)
	}

	doc, err := yaml.MarshalWithOptions(configDocument(ktx), yaml.Indent(configIndent))
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	if err := os.WriteFile(confPath, doc, 0o600); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath))

	return nil
}

// configDocument maps the application flags to their current values. Flags
// belonging to a group ("log-level" in group "log") are nested under the
// group key.
func configDocument(ktx *kong.Context) yaml.MapSlice {
	ignore := []string{"help", "version", profile.Tag}

	var (
		doc    yaml.MapSlice
		groups = map[string]int{}
	)

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val, ok := configValue(ktx.FlagValue(flag))
		if !ok {
			continue
		}

		if flag.Group != nil {
			if key, ok := strings.CutPrefix(flag.Name, flag.Group.Key+"-"); ok {
				idx, seen := groups[flag.Group.Key]
				if !seen {
					idx = len(doc)
					groups[flag.Group.Key] = idx
					doc = append(doc, yaml.MapItem{Key: flag.Group.Key, Value: yaml.MapSlice{}})
				}

				sub, _ := doc[idx].Value.(yaml.MapSlice)
				doc[idx].Value = append(sub, yaml.MapItem{Key: key, Value: val})

				continue
			}
		}

		doc = append(doc, yaml.MapItem{Key: flag.Name, Value: val})
	}

	return doc
}

// configValue converts a flag value to a YAML value, reporting false for
// values that should be left out of the document.
func configValue(v any) (any, bool) {
	switch v := v.(type) {
	case nil:
		return nil, false

	case string:
		return v, v != ""

	case []string:
		return v, len(v) > 0

	case time.Duration:
		return v.String(), true

	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return v, true

	case fmt.Stringer:
		return v.String(), true

	default:
		return fmt.Sprint(v), true
	}
}
