package api

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ValidationError reports a response that is not usable: a non-200 status or
// an empty data payload.
type ValidationError struct {
	StatusCode int
	URL        string
	Reason     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("bad response: code %d; url %s: %s", e.StatusCode, e.URL, e.Reason)
}

// response is a fully read HTTP response.
type response struct {
	StatusCode int
	URL        string // resolved request URL
	Body       []byte // decompressed
	FromCache  bool
}

// doRequest performs an HTTP request with the given method and path.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values) (*response, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if c.creds != nil {
		for k, v := range c.creds.Headers() {
			req.Header.Set(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "deflate, gzip")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	resolved := fullURL
	if resp.Request != nil && resp.Request.URL != nil {
		resolved = resp.Request.URL.String()
	}

	return &response{
		StatusCode: resp.StatusCode,
		URL:        resolved,
		Body:       body,
		FromCache:  resp.Header.Get("X-From-Cache") != "",
	}, nil
}

// readBody reads the body, undoing the content encoding. Setting
// Accept-Encoding by hand turns off net/http's transparent gzip handling.
func readBody(resp *http.Response) ([]byte, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var r io.Reader
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "", "identity":
		return raw, nil
	case "gzip":
		gz, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		r = gz
	case "deflate":
		zr, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("deflate: %w", err)
		}
		defer zr.Close()
		r = zr
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", resp.Header.Get("Content-Encoding"))
	}

	return io.ReadAll(r)
}
