// Package writer persists flattened snapshots.
//
// Writers:
//   - CSV writer: one {YYYY-MM-DD}.csv per snapshot date (primary output)
//   - Postgres writer: one JSONB row per record in listing_snapshots (optional)
//
// Rewriting a date replaces what was there before.
package writer
