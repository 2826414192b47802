package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ekorchmar/HistoricalCoinData/internal/model"
)

// ListingsHistoricalPath is the historical listings endpoint.
const ListingsHistoricalPath = "/v1/cryptocurrency/listings/historical"

// ListingsQuery configures a GetHistoricalListings request.
type ListingsQuery struct {
	Date  time.Time // snapshot date, sent as YYYY-MM-DD
	Limit int       // page size
	Start int       // 1-based rank offset
}

func (q ListingsQuery) values() url.Values {
	query := url.Values{}
	query.Set("date", q.Date.Format("2006-01-02"))
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Start > 0 {
		query.Set("start", strconv.Itoa(q.Start))
	}
	return query
}

// GetHistoricalListings fetches the ranked listing snapshot for one date.
// It returns a *ValidationError if the status is not 200 or data is empty.
func (c *Client) GetHistoricalListings(ctx context.Context, q ListingsQuery) ([]model.RawRecord, error) {
	start := time.Now()

	resp, err := c.doRequest(ctx, http.MethodGet, ListingsHistoricalPath, q.values())
	if err != nil {
		return nil, fmt.Errorf("get historical listings %s: %w", q.Date.Format("2006-01-02"), err)
	}

	c.logger.Debug("listings response",
		"url", resp.URL,
		"status", resp.StatusCode,
		"bytes", len(resp.Body),
		"from_cache", resp.FromCache,
		"duration", time.Since(start),
	)

	var envelope ListingsResponse
	decodeErr := json.Unmarshal(resp.Body, &envelope)

	if resp.StatusCode != http.StatusOK {
		reason := http.StatusText(resp.StatusCode)
		if decodeErr == nil {
			if msg := envelope.errorMessage(); msg != "" {
				reason = msg
			}
		}
		return nil, &ValidationError{StatusCode: resp.StatusCode, URL: resp.URL, Reason: reason}
	}
	if decodeErr != nil {
		return nil, &ValidationError{StatusCode: resp.StatusCode, URL: resp.URL, Reason: "decode envelope: " + decodeErr.Error()}
	}
	if isEmpty(envelope.Data) {
		return nil, &ValidationError{StatusCode: resp.StatusCode, URL: resp.URL, Reason: "empty data"}
	}

	records, err := model.ParseRecords(envelope.Data)
	if err != nil {
		return nil, fmt.Errorf("parse listings %s: %w", resp.URL, err)
	}

	return records, nil
}

// isEmpty reports whether data is absent, null or an empty array/object.
func isEmpty(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	switch string(trimmed) {
	case "", "null", "[]", "{}":
		return true
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err == nil {
		return len(items) == 0
	}
	return false
}
