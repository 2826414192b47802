package cache

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// HeaderFromCache is set on responses served from the store.
const HeaderFromCache = "X-From-Cache"

// DefaultIgnoredParams never take part in a cache key.
var DefaultIgnoredParams = []string{"api_key"}

// Transport is an http.RoundTripper that serves GET requests from a Store.
type Transport struct {
	store   *Store
	base    http.RoundTripper
	ignored map[string]struct{}
	logger  *slog.Logger
}

// TransportOption configures a Transport.
type TransportOption func(*Transport)

// WithBase sets the round tripper used on a miss.
func WithBase(rt http.RoundTripper) TransportOption {
	return func(t *Transport) {
		t.base = rt
	}
}

// WithIgnoredParams replaces the query parameters left out of keys.
func WithIgnoredParams(params ...string) TransportOption {
	return func(t *Transport) {
		t.ignored = toSet(params)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) TransportOption {
	return func(t *Transport) {
		t.logger = logger
	}
}

// NewTransport creates a caching Transport over store.
func NewTransport(store *Store, opts ...TransportOption) *Transport {
	t := &Transport{
		store:   store,
		base:    http.DefaultTransport,
		ignored: toSet(DefaultIgnoredParams),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return t.base.RoundTrip(req)
	}

	key := Key(req.Method, req.URL, t.ignored)

	entry, ok, err := t.store.Get(req.Context(), key)
	if err != nil {
		return nil, err
	}
	if ok {
		t.logger.Debug("cache hit", "key", key)
		return entry.response(req), nil
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read response for cache: %w", err)
	}

	if err := t.store.Put(req.Context(), key, Entry{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
	}); err != nil {
		return nil, err
	}
	t.logger.Debug("cache store", "key", key, "bytes", len(body))

	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}

func (e Entry) response(req *http.Request) *http.Response {
	header := e.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	header.Set(HeaderFromCache, "1")
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode)),
		StatusCode:    e.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
	}
}

// Key builds the cache key for a request: method, scheme, host, path and the
// sorted query without ignored parameters.
func Key(method string, u *url.URL, ignored map[string]struct{}) string {
	query := u.Query()
	for name := range ignored {
		query.Del(name)
	}

	var b strings.Builder
	b.WriteString(strings.ToUpper(method))
	b.WriteByte(' ')
	b.WriteString(strings.ToLower(u.Scheme))
	b.WriteString("://")
	b.WriteString(strings.ToLower(u.Host))
	b.WriteString(u.EscapedPath())
	if len(query) > 0 {
		b.WriteByte('?')
		b.WriteString(query.Encode()) // Encode sorts by key
	}
	return b.String()
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, s := range items {
		set[s] = struct{}{}
	}
	return set
}
