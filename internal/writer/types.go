package writer

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ekorchmar/HistoricalCoinData/internal/model"
)

// Snapshot is the flattened listing for one date.
type Snapshot struct {
	RunID   uuid.UUID
	Date    time.Time
	Records []model.FlatRecord
}

// SnapshotWriter persists snapshots.
type SnapshotWriter interface {
	WriteSnapshot(ctx context.Context, s Snapshot) error
}

// SnapshotWriterFunc is a function adapter for SnapshotWriter.
type SnapshotWriterFunc func(context.Context, Snapshot) error

func (f SnapshotWriterFunc) WriteSnapshot(ctx context.Context, s Snapshot) error {
	return f(ctx, s)
}

// WriterMetrics holds metrics for a writer.
type WriterMetrics struct {
	Snapshots int64
	Rows      int64
	Errors    int64
}

// metrics is a mutex-guarded WriterMetrics.
type metrics struct {
	mu sync.Mutex
	m  WriterMetrics
}

func (m *metrics) record(rows int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.m.Errors++
		return
	}
	m.m.Snapshots++
	m.m.Rows += int64(rows)
}

func (m *metrics) snapshot() WriterMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.m
}
