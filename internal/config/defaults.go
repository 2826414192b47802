package config

import "time"

// Default values for the collector. These are the job's fixed constants; a
// config file may override them.
const (
	DefaultStart             = "2015-01-01"
	DefaultEnd               = "2022-01-01"
	DefaultStepDays          = 7
	DefaultProgressEvery     = 25
	DefaultBaseURL           = "https://pro-api.coinmarketcap.com"
	DefaultKeyFile           = "keys.json"
	DefaultRequestsPerMinute = 60
	DefaultPageLimit         = 5000
	DefaultStartRank         = 2
	DefaultAPITimeout        = 60 * time.Second
	DefaultCachePath         = "coinmarketcap_cache.sqlite"
	DefaultOutputDir         = "historical_CSV"
	DefaultDBPort            = 5432
	DefaultDBSSLMode         = "prefer"
	DefaultMaxConns          = 4
	DefaultMinConns          = 1
)

// Default returns a config made entirely of default values.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	// Run defaults
	if c.Run.Start == "" {
		c.Run.Start = DefaultStart
	}
	if c.Run.End == "" {
		c.Run.End = DefaultEnd
	}
	if c.Run.StepDays == 0 {
		c.Run.StepDays = DefaultStepDays
	}
	if c.Run.ProgressEvery == 0 {
		c.Run.ProgressEvery = DefaultProgressEvery
	}

	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.KeyFile == "" {
		c.API.KeyFile = DefaultKeyFile
	}
	if c.API.RequestsPerMinute == 0 {
		c.API.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if c.API.PageLimit == 0 {
		c.API.PageLimit = DefaultPageLimit
	}
	if c.API.StartRank == 0 {
		c.API.StartRank = DefaultStartRank
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}

	// Cache and output defaults
	if c.Cache.Path == "" {
		c.Cache.Path = DefaultCachePath
	}
	if c.Output.Dir == "" {
		c.Output.Dir = DefaultOutputDir
	}

	// Database defaults
	applyDBDefaults(&c.Database)
}

func applyDBDefaults(db *DatabaseConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
