package api

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ekorchmar/HistoricalCoinData/internal/auth"
)

// TestNewClient tests client construction with various options.
func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewClient("https://api.example.com", auth.New("test-key"))

		if c.baseURL != "https://api.example.com" {
			t.Errorf("baseURL = %q, want %q", c.baseURL, "https://api.example.com")
		}
		if c.creds.Key() != "test-key" {
			t.Errorf("creds.Key() = %q, want %q", c.creds.Key(), "test-key")
		}
		if c.httpClient.Timeout != 30*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 30*time.Second)
		}
		if c.logger == nil {
			t.Error("logger should not be nil")
		}
	})

	t.Run("with timeout option", func(t *testing.T) {
		c := NewClient("https://api.example.com", nil, WithTimeout(5*time.Second))
		if c.httpClient.Timeout != 5*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 5*time.Second)
		}
	})

	t.Run("with logger option", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		c := NewClient("https://api.example.com", nil, WithLogger(logger))
		if c.logger != logger {
			t.Error("logger not set correctly")
		}
	})

	t.Run("with custom HTTP client", func(t *testing.T) {
		customClient := &http.Client{Timeout: 10 * time.Second}
		c := NewClient("https://api.example.com", nil, WithHTTPClient(customClient))
		if c.httpClient != customClient {
			t.Error("custom HTTP client not set")
		}
	})

	t.Run("with transport", func(t *testing.T) {
		rt := http.DefaultTransport
		c := NewClient("https://api.example.com", nil, WithTransport(rt))
		if c.httpClient.Transport != rt {
			t.Error("transport not set")
		}
	})
}

// TestValidationError tests the ValidationError type.
func TestValidationError(t *testing.T) {
	err := &ValidationError{
		StatusCode: 429,
		URL:        "https://pro-api.coinmarketcap.com/v1/cryptocurrency/listings/historical?date=2015-01-01",
		Reason:     "Too Many Requests",
	}
	want := "bad response: code 429; url https://pro-api.coinmarketcap.com/v1/cryptocurrency/listings/historical?date=2015-01-01: Too Many Requests"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

// TestDoRequest tests the low-level request function.
func TestDoRequest(t *testing.T) {
	t.Run("sends credential and accept headers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-CMC_PRO_API_KEY") != "test-key" {
				t.Errorf("X-CMC_PRO_API_KEY header = %q, want %q", r.Header.Get("X-CMC_PRO_API_KEY"), "test-key")
			}
			if r.Header.Get("Accept") != "application/json" {
				t.Errorf("Accept header = %q, want %q", r.Header.Get("Accept"), "application/json")
			}
			if r.Header.Get("Accept-Encoding") != "deflate, gzip" {
				t.Errorf("Accept-Encoding header = %q, want %q", r.Header.Get("Accept-Encoding"), "deflate, gzip")
			}
			w.Write([]byte(`{"status": "ok"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, auth.New("test-key"))
		resp, err := c.doRequest(context.Background(), http.MethodGet, "/test", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(resp.Body) != `{"status": "ok"}` {
			t.Errorf("body = %q, want %q", string(resp.Body), `{"status": "ok"}`)
		}
		if resp.URL != server.URL+"/test" {
			t.Errorf("URL = %q, want %q", resp.URL, server.URL+"/test")
		}
	})

	t.Run("request without credentials", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-CMC_PRO_API_KEY") != "" {
				t.Errorf("key header should be empty, got %q", r.Header.Get("X-CMC_PRO_API_KEY"))
			}
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, nil)
		if _, err := c.doRequest(context.Background(), http.MethodGet, "/test", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("non-2xx is returned, not an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`internal error`))
		}))
		defer server.Close()

		c := NewClient(server.URL, nil)
		resp, err := c.doRequest(context.Background(), http.MethodGet, "/test", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != 500 {
			t.Errorf("StatusCode = %d, want 500", resp.StatusCode)
		}
	})

	t.Run("gzip body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var buf bytes.Buffer
			gz := gzip.NewWriter(&buf)
			gz.Write([]byte(`{"compressed": true}`))
			gz.Close()
			w.Header().Set("Content-Encoding", "gzip")
			w.Write(buf.Bytes())
		}))
		defer server.Close()

		c := NewClient(server.URL, nil)
		resp, err := c.doRequest(context.Background(), http.MethodGet, "/test", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(resp.Body) != `{"compressed": true}` {
			t.Errorf("body = %q, want decompressed JSON", string(resp.Body))
		}
	})

	t.Run("deflate body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var buf bytes.Buffer
			zw := zlib.NewWriter(&buf)
			zw.Write([]byte(`{"deflated": true}`))
			zw.Close()
			w.Header().Set("Content-Encoding", "deflate")
			w.Write(buf.Bytes())
		}))
		defer server.Close()

		c := NewClient(server.URL, nil)
		resp, err := c.doRequest(context.Background(), http.MethodGet, "/test", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(resp.Body) != `{"deflated": true}` {
			t.Errorf("body = %q, want inflated JSON", string(resp.Body))
		}
	})

	t.Run("unknown encoding", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Encoding", "br")
			w.Write([]byte("xx"))
		}))
		defer server.Close()

		c := NewClient(server.URL, nil)
		if _, err := c.doRequest(context.Background(), http.MethodGet, "/test", nil); err == nil {
			t.Fatal("expected error for unsupported encoding")
		}
	})

	t.Run("context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		c := NewClient(server.URL, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel() // Cancel immediately

		_, err := c.doRequest(ctx, http.MethodGet, "/test", nil)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error should wrap context.Canceled, got %v", err)
		}
	})
}

// TestGetHistoricalListings tests the listings endpoint.
func TestGetHistoricalListings(t *testing.T) {
	date := time.Date(2015, 1, 8, 0, 0, 0, 0, time.UTC)
	query := ListingsQuery{Date: date, Limit: 5000, Start: 2}

	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != ListingsHistoricalPath {
				t.Errorf("path = %q, want %q", r.URL.Path, ListingsHistoricalPath)
			}
			q := r.URL.Query()
			if q.Get("date") != "2015-01-08" {
				t.Errorf("date = %q, want %q", q.Get("date"), "2015-01-08")
			}
			if q.Get("limit") != "5000" {
				t.Errorf("limit = %q, want %q", q.Get("limit"), "5000")
			}
			if q.Get("start") != "2" {
				t.Errorf("start = %q, want %q", q.Get("start"), "2")
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"data": [
					{"id": 52, "symbol": "XRP", "cmc_rank": 2, "quote": {"USD": {"price": 0.024}}},
					{"id": 2, "symbol": "LTC", "cmc_rank": 3, "tags": ["mineable"]}
				],
				"status": {"error_code": 0, "credit_count": 1}
			}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, auth.New("k"))
		recs, err := c.GetHistoricalListings(context.Background(), query)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(recs) != 2 {
			t.Fatalf("len(recs) = %d, want 2", len(recs))
		}
		if recs[0].Fields[1].Scalar.Text != "XRP" {
			t.Errorf("recs[0].symbol = %q, want XRP", recs[0].Fields[1].Scalar.Text)
		}
	})

	failures := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantReason string
	}{
		{
			name:       "rate limited",
			status:     http.StatusTooManyRequests,
			body:       `{"status": {"error_code": 1008, "error_message": "You've exceeded your API Key's HTTP request rate limit."}}`,
			wantStatus: 429,
			wantReason: "rate limit",
		},
		{
			name:       "non-json error body",
			status:     http.StatusBadGateway,
			body:       `<html>bad gateway</html>`,
			wantStatus: 502,
			wantReason: "Bad Gateway",
		},
		{
			name:       "empty data array",
			status:     http.StatusOK,
			body:       `{"data": [], "status": {"error_code": 0}}`,
			wantStatus: 200,
			wantReason: "empty data",
		},
		{
			name:       "null data",
			status:     http.StatusOK,
			body:       `{"data": null}`,
			wantStatus: 200,
			wantReason: "empty data",
		},
		{
			name:       "absent data",
			status:     http.StatusOK,
			body:       `{"status": {"error_code": 0}}`,
			wantStatus: 200,
			wantReason: "empty data",
		},
		{
			name:       "undecodable 200",
			status:     http.StatusOK,
			body:       `not json`,
			wantStatus: 200,
			wantReason: "decode envelope",
		},
	}

	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := NewClient(server.URL, auth.New("k"))
			_, err := c.GetHistoricalListings(context.Background(), query)

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if vErr.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", vErr.StatusCode, tt.wantStatus)
			}
			if !strings.Contains(vErr.Reason, tt.wantReason) {
				t.Errorf("Reason = %q, want it to contain %q", vErr.Reason, tt.wantReason)
			}

			wantURL := server.URL + ListingsHistoricalPath + "?date=2015-01-08&limit=5000&start=2"
			if vErr.URL != wantURL {
				t.Errorf("URL = %q, want %q", vErr.URL, wantURL)
			}
			msg := err.Error()
			if !strings.Contains(msg, strconv.Itoa(tt.wantStatus)) || !strings.Contains(msg, wantURL) {
				t.Errorf("error message %q should contain status %d and URL %q", msg, tt.wantStatus, wantURL)
			}
			if strings.Contains(msg, "X-CMC_PRO_API_KEY") {
				t.Errorf("error message %q leaks credentials", msg)
			}
		})
	}

	t.Run("malformed record", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data": [{"quote": 5}]}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, nil)
		_, err := c.GetHistoricalListings(context.Background(), query)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			t.Errorf("parse failures should not be ValidationErrors: %v", err)
		}
	})

	t.Run("transport failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		c := NewClient(server.URL, nil)
		_, err := c.GetHistoricalListings(context.Background(), query)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "2015-01-08") {
			t.Errorf("error %q should name the date", err.Error())
		}
	})
}

func TestListingsQueryValues(t *testing.T) {
	q := ListingsQuery{Date: time.Date(2021, 12, 30, 0, 0, 0, 0, time.UTC)}
	v := q.values()
	if v.Get("date") != "2021-12-30" {
		t.Errorf("date = %q, want 2021-12-30", v.Get("date"))
	}
	if v.Has("limit") || v.Has("start") {
		t.Errorf("zero limit/start should be omitted, got %v", v)
	}
}

func TestGetHistoricalListings_StatusBlockIsOpaque(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"data": [{"id": 1, "symbol": "BTC"}],
			"status": {"error_code": "0", "elapsed": "12ms", "credit_count": null, "notice": {"text": "x"}}
		}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, auth.New("k"))
	recs, err := c.GetHistoricalListings(context.Background(), ListingsQuery{
		Date:  time.Date(2015, 1, 8, 0, 0, 0, 0, time.UTC),
		Limit: 5000,
		Start: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("len(recs) = %d, want 1", len(recs))
	}
}

func TestListingsResponse_ErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   string
	}{
		{"message", `{"error_code": 1008, "error_message": "rate limit"}`, "rate limit"},
		{"null message", `{"error_message": null}`, ""},
		{"non-string message", `{"error_message": 42}`, ""},
		{"status not an object", `"broken"`, ""},
		{"absent", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ListingsResponse{Status: json.RawMessage(tt.status)}
			if got := r.errorMessage(); got != tt.want {
				t.Errorf("errorMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
