// Package cmd implements the treewalk subcommands: run, check, fmt, init,
// and repl.
//
// Commands read script source through [Input], which accepts a file path,
// "-" for standard input, or an http(s) URL. Output goes to the [Streams]
// stored in the command context by [WithStreams].
package cmd

// Kong variable identifiers shared with package cli.
const (
	// ConfigIdentifier holds the path of the YAML configuration file.
	ConfigIdentifier = "config"
	// HistoryIdentifier holds the path of the REPL history file.
	HistoryIdentifier = "history"
)
