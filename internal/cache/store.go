package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Entry is a stored response.
type Entry struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Store persists entries in the responses table.
type Store struct {
	db *sql.DB
}

// NewStore wraps an opened cache database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get returns the entry for key. The bool is false on a miss.
func (s *Store) Get(ctx context.Context, key string) (Entry, bool, error) {
	const query = `SELECT status_code, headers, body FROM responses WHERE cache_key = ?`

	var (
		e       Entry
		headers string
	)
	err := s.db.QueryRowContext(ctx, query, key).Scan(&e.StatusCode, &headers, &e.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("get cached response: %w", err)
	}

	if err := json.Unmarshal([]byte(headers), &e.Header); err != nil {
		return Entry{}, false, fmt.Errorf("decode cached headers: %w", err)
	}
	return e, true, nil
}

// Put stores e under key, replacing any previous entry.
func (s *Store) Put(ctx context.Context, key string, e Entry) error {
	const query = `INSERT INTO responses (cache_key, status_code, headers, body)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (cache_key) DO UPDATE SET
			status_code = excluded.status_code,
			headers = excluded.headers,
			body = excluded.body,
			created_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')`

	headers, err := json.Marshal(e.Header)
	if err != nil {
		return fmt.Errorf("encode headers: %w", err)
	}
	body := e.Body
	if body == nil {
		body = []byte{}
	}

	if _, err := s.db.ExecContext(ctx, query, key, e.StatusCode, string(headers), body); err != nil {
		return fmt.Errorf("put cached response: %w", err)
	}
	return nil
}

// Len returns the number of stored entries.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM responses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cached responses: %w", err)
	}
	return n, nil
}
