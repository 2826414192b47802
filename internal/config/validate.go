package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	start, err := c.Run.StartDate()
	if err != nil {
		return err
	}
	end, err := c.Run.EndDate()
	if err != nil {
		return err
	}
	if !end.After(start) {
		return fmt.Errorf("run.end (%s) must be after run.start (%s)", c.Run.End, c.Run.Start)
	}
	if c.Run.StepDays < 1 {
		return errors.New("run.step_days must be >= 1")
	}
	if c.Run.ProgressEvery < 1 {
		return errors.New("run.progress_every must be >= 1")
	}

	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if c.API.KeyFile == "" {
		return errors.New("api.key_file is required")
	}
	if c.API.RequestsPerMinute < 1 {
		return errors.New("api.requests_per_minute must be >= 1")
	}
	if c.API.PageLimit < 1 {
		return errors.New("api.page_limit must be >= 1")
	}
	if c.API.StartRank < 1 {
		return errors.New("api.start_rank must be >= 1")
	}

	if !c.Cache.Disabled && c.Cache.Path == "" {
		return errors.New("cache.path is required unless cache.disabled is set")
	}
	if c.Output.Dir == "" {
		return errors.New("output.dir is required")
	}

	if c.Database.Enabled {
		if err := c.Database.validate("database"); err != nil {
			return err
		}
	}

	return nil
}

func (db *DatabaseConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
