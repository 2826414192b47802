// Package database provides the PostgreSQL connection pool for the optional
// snapshot sink.
//
// The CSV files are the primary output. When database.enabled is set every
// flattened record is also stored as JSONB in listing_snapshots, keyed by
// snapshot date and rank position.
package database
