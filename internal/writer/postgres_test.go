package writer

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestPostgresWriter_Transform(t *testing.T) {
	w := NewPostgresWriter(nil, nil)

	runID := uuid.MustParse("6f1c2a9e-3b7d-4c1e-9f5a-2d8b7e6c4a10")
	date := time.Date(2015, 1, 8, 0, 0, 0, 0, time.UTC)
	s := Snapshot{
		RunID:   runID,
		Date:    date,
		Records: rows(t, `{"id": 2, "quote": {"USD": {"price": 3.5}}}`, `{"id": 52, "tags": ["a"]}`),
	}

	got, err := w.transform(s)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	if !got[0].SnapshotDate.Equal(date) {
		t.Errorf("SnapshotDate = %v, want %v", got[0].SnapshotDate, date)
	}
	if got[1].Position != 1 {
		t.Errorf("Position = %d, want 1", got[1].Position)
	}
	if got[0].RunID != runID.String() {
		t.Errorf("RunID = %s, want %s", got[0].RunID, runID)
	}
	if string(got[0].Record) != `{"id":2,"USD_price":3.5}` {
		t.Errorf("Record = %s, want flattened JSON", got[0].Record)
	}
	if string(got[1].Record) != `{"id":52,"tags":"a"}` {
		t.Errorf("Record = %s, want flattened JSON", got[1].Record)
	}
}
