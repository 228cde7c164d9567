// Package cmd implements the jamal subcommands: run, eval, fmt and init.
//
// Commands read the global [Options] and the parsed [kong.Context] from the
// [context.Context] they are run with.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
