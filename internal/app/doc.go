// Package app is the composition root for quoted.
//
// # Overview
//
// New loads the configuration and wires the durable store, the quote
// collection, the category index, the session cache, the remote client and the
// sync engine. The resulting App is shared by the TUI and every CLI command;
// it also implements ui.Service.
//
// # Components
//
//   - app.go: Options, New, Close and accessors
//   - quotes.go: quote operations (pick, add, import, export, sync now)
//   - dispatch.go: fire-and-forget background work such as pushing new quotes
//   - run.go: Run/RunTUI and the optional metrics listener
//
// # Data Flow
//
//	┌──────────────┐
//	│   New()      │
//	└──────┬───────┘
//	       ├─────> config.Load()        ~/.config/quoted/config.toml
//	       ├─────> store.OpenSQLite()   durable key/value store
//	       ├─────> collection.Load()    quotes, or the seed set
//	       ├─────> session.Open()       last shown quote
//	       ├─────> remote.NewClient()   fetch and push
//	       └─────> syncer.New()         periodic merge
//
//	RunTUI:
//	  engine.Start ──> sync cycles ──> collection.MergeNew ──> bus.Publish
//	  ui.Run (blocks) <── bus banners, status snapshots
//
// # Error Handling
//
// Startup failures (bad config, unopenable store or session) are returned
// from New. After startup nothing is fatal: persistence failures keep the
// in-memory change and are logged, sync failures are recorded in the status
// store and retried on the next tick, push failures are logged and counted.
package app
