// Package store provides SQLite-backed storage for recorded animation runs.
//
// A run is one headless playback of a scene. The store keeps:
//   - Runs: scene name, frame rate, duration, scene content hash
//   - Samples: every formatted value written to the document
//   - Events: scheduler lifecycle events (add, remove, loop, finish)
//
// # Ordering
//
// Samples and events of a run share one logical clock (seq). Queries order
// by seq ASC, id ASC so reads are identical across repeated runs, and never
// by wall time.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
