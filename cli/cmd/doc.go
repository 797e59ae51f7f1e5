// Package cmd implements the rollseg subcommands.
//
// Commands read their shared settings (segmentation options, input format,
// search path, and table cache) from the context with which kong runs them.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"
)
