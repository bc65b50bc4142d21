// Package repositories implements SQLite persistence for projected tables.
//
// [RecordRepository] stores a [models.StoredTable] header in record_tables and one JSON object per row in
// record_rows. Saved tables are an export target only; nothing reads them back to avoid an API request.
//
// Tables support soft deletes via deleted_at timestamps and deleted tables are excluded from queries by default.
//
// Sequence numbers provide stable, human-readable references (e.g. table #15) independent of UUIDs and creation
// timestamps. The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence
// tables.
package repositories
