// Package app is the composition root for tower.
//
// # Overview
//
// Run wires configuration, logging, the daemon client, the shared
// state.Store, the pollers and the TUI together:
//
//	Run()
//	 ├─> Configure()           config.toml plus CLI overrides
//	 ├─> logging.OpenFile()    JSON log file in cfg.LogDir() (the TUI owns the terminal)
//	 ├─> NewClient()           transmission RPC client
//	 ├─> metrics.Serve()       only when metrics_addr is set
//	 ├─> fetchVersion()        best-effort session-get
//	 ├─> StartPollers()        torrents + session-stats loops
//	 └─> ui.Run()              blocks until quit
//
// # Polling Behavior
//
// There is one poller per resource. Each poller fetches, publishes the
// result to the store, then sleeps; it never has two requests in flight.
// A failed fetch is logged at warn level, counted in
// tower_poll_failures_total, and recorded in the store so the UI can show
// it. Consecutive failures double the sleep, up to 30 seconds. The first
// success restores the configured interval.
//
// # Error Handling
//
// Fatal (returned from Run): unreadable or invalid config, an invalid
// transmission_url, an unknown log level, or a log file that cannot be
// opened. Everything that happens while polling is recoverable.
package app
