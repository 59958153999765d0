// Package logtail reads the end of quoted's log file for the TUI log pane.
//
// # Reading Log Files
//
// Read extracts the last maxLines lines with a ring buffer, so only that many
// lines are held in memory regardless of file size. A missing file yields no
// lines and no error, which is the normal state before the first log write.
//
// # Parsing
//
// The logger writes JSON lines. Parse turns one into an Entry (time, level,
// message and the remaining fields sorted by key) and Entry.String renders it
// compactly:
//
//	21:01:05 WARN sync fetch failed; will retry next interval kind=transport
//
// Lines that are not JSON pass through unchanged, so the pane also works on
// plain-text logs.
package logtail
