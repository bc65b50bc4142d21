// Package tasks runs multi-request jobs against the Genius client with real-time progress reporting.
//
// # Batch Song Fetch
//
// [BatchEngine.FetchSongs] fans a list of song ids out to a small worker pool. A shared [rate.Limiter] spaces the
// requests so the pool as a whole stays under the configured rate; the client itself never retries or backs off.
//
// Each id yields one [SongFetchResult]. A failed id does not stop the batch: its error is recorded and the other ids
// keep going. When an output directory is given every song is written in the chosen format and a manifest
// (batch_manifest.json) summarizes the run.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks
