// Package cli contains the command line interface for treewalk.
//
// # Usage
//
//	treewalk run -f scene.tw Main 3 '"label"'
//	treewalk check -f scene.tw
//	treewalk fmt yaml scene.tw
//	treewalk repl -f scene.tw
//
// The run command is the default, so "treewalk -f scene.tw" invokes Main.
// Sources may be files, http(s) URLs, or "-" for standard input.
//
// # Configuration
//
// Flag values are read, in increasing precedence, from the configuration
// file, environment variables named after the flags (TREEWALK_LOG_LEVEL),
// and the command line. "treewalk init" writes the configuration file with
// the current values:
//
//	log:
//	  level: debug
//	  format: text
//	max-call-depth: 200
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: output format (text, json)
//   - --log-time-layout: timestamp layout (RFC3339, kitchen, none, ...)
//   - --log-caller: include caller information
//   - --log-pretty: colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o treewalk .
//
//   - --pprof-mode: record a profile (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: profile output directory
package cli
