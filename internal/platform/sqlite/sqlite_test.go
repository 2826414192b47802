package sqlite

import (
	"path/filepath"
	"testing"
)

func TestOpen_Memory(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM responses`).Scan(&n); err != nil {
		t.Fatalf("query responses table: %v", err)
	}
	if n != 0 {
		t.Errorf("fresh cache has %d rows, want 0", n)
	}
}

func TestOpen_FileIsReopenable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.sqlite")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO responses (cache_key, status_code, headers, body) VALUES ('k', 200, '{}', x'00')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM responses`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("rows after reopen = %d, want 1", n)
	}
}
