package config

import (
	"fmt"
	"time"
)

// DateLayout is the ISO-8601 calendar date layout used for run bounds and output names.
const DateLayout = "2006-01-02"

// Config is the root configuration for a collector run.
type Config struct {
	Run      RunConfig      `yaml:"run"`
	API      APIConfig      `yaml:"api"`
	Cache    CacheConfig    `yaml:"cache"`
	Output   OutputConfig   `yaml:"output"`
	Database DatabaseConfig `yaml:"database"`
}

// RunConfig bounds the date range walked by the collector.
type RunConfig struct {
	Start         string `yaml:"start"`          // inclusive, YYYY-MM-DD
	End           string `yaml:"end"`            // exclusive, YYYY-MM-DD
	StepDays      int    `yaml:"step_days"`
	ProgressEvery int    `yaml:"progress_every"` // log every Nth step (plus the first)
}

// StartDate parses Start as a UTC calendar date.
func (r RunConfig) StartDate() (time.Time, error) {
	return parseDate("run.start", r.Start)
}

// EndDate parses End as a UTC calendar date.
func (r RunConfig) EndDate() (time.Time, error) {
	return parseDate("run.end", r.End)
}

// Step returns the cursor increment.
func (r RunConfig) Step() time.Duration {
	return time.Duration(r.StepDays) * 24 * time.Hour
}

// APIConfig holds CoinMarketCap API settings.
type APIConfig struct {
	BaseURL           string        `yaml:"base_url"`
	KeyFile           string        `yaml:"key_file"` // JSON object of credential headers
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	PageLimit         int           `yaml:"page_limit"`
	StartRank         int           `yaml:"start_rank"`
	Timeout           time.Duration `yaml:"timeout"`
}

// CacheConfig holds the on-disk response cache settings. The cache is on unless disabled.
type CacheConfig struct {
	Disabled bool   `yaml:"disabled"`
	Path     string `yaml:"path"`
}

// OutputConfig holds CSV output settings.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// DatabaseConfig holds the optional PostgreSQL sink.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be a YYYY-MM-DD date, got %q", field, s)
	}
	return t, nil
}
