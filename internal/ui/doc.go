// Package ui implements quoted's terminal interface with Bubble Tea.
//
// # Layout
//
//	┌ header: logo · quote count · active filter · sync status ┐
//	  banner (transient notification)
//	╭ quote card ╮
//	  category ring: All Categories · Humor · Life · ...
//	  log pane (optional, L)
//	└ footer: short key help ┘
//
// # Data Flow
//
// The model drives a Service (implemented by the app package) for every
// action: showing a new quote, cycling the category filter, adding a quote
// and requesting a sync. Sync runs as a tea.Cmd so the UI loop never blocks
// on the network.
//
// Notifications arrive from the notify.Bus through a buffered channel that a
// tea.Cmd drains; a full channel drops the message rather than stall the
// publisher. Each banner schedules its own expiry tick, and a newer banner
// replaces the current one.
//
// A one-second tick refreshes the sync status snapshot, the quote count and
// categories (which change under background merges) and, when the log pane is
// open, the log tail.
//
// # Preferences
//
// The theme (T) and the log pane toggle (L) are saved to prefs.toml when they
// change.
package ui
