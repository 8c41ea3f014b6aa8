// Package config loads tower's TOML configuration.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/tower/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or blank, use defaults
//
// A file that exists but cannot be parsed is an error; tower refuses to
// start rather than guess.
//
// # Default Values
//
//   - transmission_url: http://localhost:9091/transmission/rpc
//   - poll_frequency_ms: 2000 (non-positive values also mean 2000)
//   - log_file: ~/.local/state/tower/tower.log
//   - log_level: info
//   - metrics_addr: empty, no metrics endpoint
//
// # TOML Format
//
//	transmission_url = "http://nas.local:9091/transmission/rpc"
//	poll_frequency_ms = 1000
//	username = "admin"
//	password = "secret"
//	log_level = "debug"
//	metrics_addr = "127.0.0.1:9310"
//
// Paths beginning with ~ are expanded to the user's home directory.
package config
