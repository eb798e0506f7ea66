// Package store provides the SQLite-backed run ledger for logex.
//
// Each extraction run can be recorded with its inputs, counters, and the
// sorted result set it produced:
//   - runs: one row per run, keyed by a UUIDv7 run id
//   - run_results: the run's output lines, in output order
//
// Ordering uses the seq column (a logical counter assigned on write), never
// wall-clock time, so listings are stable.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: run_results rows die with their run
package store
