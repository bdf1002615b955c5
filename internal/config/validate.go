// internal/config/validate.go
package config

import (
	"fmt"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Telegram.Token == "" {
		errs = append(errs, "telegram.token: required")
	}

	if c.TMDB.APIKey == "" {
		errs = append(errs, "tmdb.api_key: required")
	}
	if c.TMDB.MaxPages < 1 {
		errs = append(errs, fmt.Sprintf("tmdb.max_pages: must be at least 1, got %d", c.TMDB.MaxPages))
	}

	if c.Cache.Threshold < 1 {
		errs = append(errs, fmt.Sprintf("cache.threshold: must be at least 1, got %d", c.Cache.Threshold))
	}

	// Telegram polls carry between 2 and 10 options.
	if c.Poll.Size < 2 || c.Poll.Size > 10 {
		errs = append(errs, fmt.Sprintf("poll.size: must be between 2 and 10, got %d", c.Poll.Size))
	}
	if c.Poll.SessionTTL <= 0 {
		errs = append(errs, "poll.session_ttl: must be positive")
	}
	if c.Poll.KeepFor <= 0 {
		errs = append(errs, "poll.keep_for: must be positive")
	}

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	return errs
}
