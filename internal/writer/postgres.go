package writer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// snapshotRow represents a row for the listing_snapshots table.
type snapshotRow struct {
	SnapshotDate time.Time
	Position     int // index within the snapshot, 0-based
	RunID        string
	Record       []byte // JSONB object in flattened key order
}

// PostgresWriter stores each flattened record as a JSONB row.
type PostgresWriter struct {
	db      *pgxpool.Pool
	logger  *slog.Logger
	metrics metrics
}

// NewPostgresWriter creates a PostgresWriter.
func NewPostgresWriter(db *pgxpool.Pool, logger *slog.Logger) *PostgresWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresWriter{db: db, logger: logger}
}

// WriteSnapshot upserts every record of s.
func (w *PostgresWriter) WriteSnapshot(ctx context.Context, s Snapshot) error {
	rows, err := w.transform(s)
	if err == nil {
		err = w.batchInsert(ctx, rows)
	}
	w.metrics.record(len(s.Records), err)
	if err != nil {
		return fmt.Errorf("store snapshot %s: %w", s.Date.Format("2006-01-02"), err)
	}
	return nil
}

// Stats returns current metrics.
func (w *PostgresWriter) Stats() WriterMetrics {
	return w.metrics.snapshot()
}

// transform converts a Snapshot into table rows.
func (w *PostgresWriter) transform(s Snapshot) ([]snapshotRow, error) {
	rows := make([]snapshotRow, len(s.Records))
	for i, rec := range s.Records {
		data, err := rec.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("encode record %d: %w", i, err)
		}
		rows[i] = snapshotRow{
			SnapshotDate: s.Date,
			Position:     i,
			RunID:        s.RunID.String(),
			Record:       data,
		}
	}
	return rows, nil
}

// batchInsert upserts rows using pgx.Batch. Rewriting a date overwrites it.
func (w *PostgresWriter) batchInsert(ctx context.Context, rows []snapshotRow) error {
	start := time.Now()

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO listing_snapshots (snapshot_date, position, run_id, record)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (snapshot_date, position) DO UPDATE
			SET run_id = EXCLUDED.run_id, record = EXCLUDED.record, written_at = now()
		`, r.SnapshotDate, r.Position, r.RunID, r.Record)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}

	w.logger.Debug("stored snapshot rows",
		"count", len(rows),
		"duration", time.Since(start),
	)
	return nil
}
