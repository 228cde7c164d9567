// Package cli contains the command line interface for jamal.
//
// # Usage
//
//	jamal [flags] FILE                  run FILE (the default command)
//	jamal run FILE [--dump FORMAT] [--expect EXPR]...
//	jamal eval SOURCE...
//	jamal fmt [native|json|yaml|ast] [FILE|-]
//	jamal init [--force]
//	jamal repl [FILE]
//
// Source files named by relative path are searched for in the working
// directory, then in each --path directory, then in $JAMAL_PATH, and then in
// the "lib" subdirectory of the configuration directory. The ".jml"
// extension may be omitted.
//
// # Configuration
//
// Flag defaults are read from two files in the user configuration directory
// (for example ~/.config/jamal):
//
//   - config.json, a JSON object keyed by flag name
//   - config, a JAMAL program whose root bindings set the flag of the same
//     name, with underscores standing for hyphens
//
// For example:
//
//	let log_level = "debug";
//	let log_format = "json";
//	var log_pretty = false;
//
// Flags given on the command line override both files. "jamal init" writes
// the JAMAL config file from the current flag values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o jamal .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/jamal/pprof)
//
// # Examples
//
//	# Run a script and assert on its result
//	jamal run build.jml --expect 'version != ""'
//
//	# Print the final bindings as YAML
//	jamal --log-level=debug run build.jml --dump yaml
//
//	# Evaluate an expression
//	jamal eval 'let n = 6; n * 7'
package cli
