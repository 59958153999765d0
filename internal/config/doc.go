// Package config loads quoted's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/quoted/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// Malformed TOML, unparseable durations and unknown identity keys are errors.
//
// # TOML Format
//
//	remote_url = "https://jsonplaceholder.typicode.com/posts"
//	sync_interval = "30s"
//	batch_size = 5
//	server_category = "Server"
//	identity_key = "text"          # or "text+category"
//	push = true
//	db_path = "~/.local/share/quoted/quoted.db"
//	log_path = "~/.local/share/quoted/quoted.log"
//	session_dir = ""               # default: <os temp>/quoted-sessions
//	banner_timeout = "4s"
//
// # Path Expansion
//
// Paths starting with ~ are expanded to the user's home directory and made
// absolute. ExpandPath applies the same rules to command-line flags.
package config
