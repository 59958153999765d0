// Package cli defines the cobra command tree for quoted.
//
// The root command starts the TUI. Subcommands open the same application
// (store, session, remote client) for a single operation and close it before
// returning, so they can be scripted alongside a running TUI session that
// shares the database.
package cli
