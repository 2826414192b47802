// Package auth loads CoinMarketCap API credentials from a local key file.
//
// The key file is a JSON object whose entries are sent verbatim as request
// headers, for example:
//
//	{"X-CMC_PRO_API_KEY": "b54bcf4d-1bca-4e8e-9a24-22ff2c3d462c"}
package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// KeyHeader is the header CoinMarketCap reads the API key from.
const KeyHeader = "X-CMC_PRO_API_KEY"

// maskedPrefix is how many key characters Masked reveals.
const maskedPrefix = 5

// Credentials holds the headers loaded from a key file.
type Credentials struct {
	headers map[string]string
}

// New builds Credentials from an API key.
func New(apiKey string) *Credentials {
	return &Credentials{headers: map[string]string{KeyHeader: apiKey}}
}

// LoadKeyFile reads credentials from a JSON key file.
func LoadKeyFile(path string) (*Credentials, error) {
	if path == "" {
		return nil, fmt.Errorf("key file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	var headers map[string]string
	if err := json.Unmarshal(data, &headers); err != nil {
		return nil, fmt.Errorf("parse key file %s: %w", path, err)
	}

	if headers[KeyHeader] == "" {
		return nil, fmt.Errorf("key file %s: %s is missing or empty", path, KeyHeader)
	}

	return &Credentials{headers: headers}, nil
}

// Key returns the API key.
func (c *Credentials) Key() string {
	return c.headers[KeyHeader]
}

// Masked returns the first few characters of the key followed by "***".
func (c *Credentials) Masked() string {
	key := c.Key()
	if len(key) > maskedPrefix {
		key = key[:maskedPrefix]
	}
	return key + "***"
}

// Headers returns a copy of every credential header.
func (c *Credentials) Headers() map[string]string {
	out := make(map[string]string, len(c.headers))
	for k, v := range c.headers {
		out[k] = v
	}
	return out
}

// HeaderNames returns the credential header names in sorted order.
func (c *Credentials) HeaderNames() []string {
	names := make([]string, 0, len(c.headers))
	for k := range c.headers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
