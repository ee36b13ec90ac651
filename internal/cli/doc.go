// Package cli wires together the Cobra command tree for the vynix binary.
//
// It defines the root command and all subcommands (chat, serve, cache,
// config, models, usage, version), binds flags, reads configuration, and
// returns deterministic exit codes.
package cli
