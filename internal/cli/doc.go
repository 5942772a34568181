// Package cli wires together the Cobra command tree for the prismfold binary.
//
// It defines the root command and all subcommands (format, extract, watch,
// config, cache, version), binds flags, reads configuration, runs the comment
// formatter over HTML pages, and returns deterministic exit codes.
package cli
