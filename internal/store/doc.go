// Package store provides SQLite-backed persistence for property runs and
// their minimized counterexamples.
//
// Stored counterexamples form a regression corpus: the harness checks them
// before any random trial, so a failure found once keeps failing fast until
// the engine is fixed.
//
// # Identity and Ordering
//
//   - Runs are identified by UUIDv7 (time sortable).
//   - Counterexamples are content addressed: SHA-256 over the canonical JSON
//     of (property, code, input), see canon.CounterexampleID. Writing the
//     same counterexample twice increments its hit count.
//   - Every table carries a logical seq; all queries ORDER BY seq ASC, id ASC
//     COLLATE BINARY so results are identical across runs.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
