// internal/config/validate_test.go
package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	cfg := &Config{
		Telegram: TelegramConfig{Token: "123456:test-token"},
		TMDB:     TMDBConfig{APIKey: "tmdb-key"},
	}
	cfg.applyDefaults()
	return cfg
}

func TestValidate_MinimalValid(t *testing.T) {
	errs := validConfig().Validate()
	assert.Empty(t, errs, "expected no errors for minimal valid config")
}

func TestValidate_NoToken(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Token = ""
	errs := cfg.Validate()
	assert.True(t, containsError(errs, "telegram.token"), "expected token error, got %v", errs)
}

func TestValidate_NoAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.TMDB.APIKey = ""
	errs := cfg.Validate()
	assert.True(t, containsError(errs, "tmdb.api_key"), "expected api_key error, got %v", errs)
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Level = "verbose"
	errs := cfg.Validate()
	assert.True(t, containsError(errs, "log.level"), "expected log.level error, got %v", errs)
}

func TestValidate_PollSizeBounds(t *testing.T) {
	for _, size := range []int{1, 11, -3} {
		cfg := validConfig()
		cfg.Poll.Size = size
		errs := cfg.Validate()
		assert.True(t, containsError(errs, "poll.size"), "size %d: expected poll.size error, got %v", size, errs)
	}

	cfg := validConfig()
	cfg.Poll.Size = 10
	assert.Empty(t, cfg.Validate(), "size 10 should be accepted")
}

func TestValidate_NegativeTTL(t *testing.T) {
	cfg := validConfig()
	cfg.Poll.SessionTTL = Duration(-time.Minute)
	errs := cfg.Validate()
	assert.True(t, containsError(errs, "poll.session_ttl"), "expected session_ttl error, got %v", errs)
}

func TestValidate_ZeroMaxPages(t *testing.T) {
	cfg := validConfig()
	cfg.TMDB.MaxPages = -1
	errs := cfg.Validate()
	assert.True(t, containsError(errs, "tmdb.max_pages"), "expected max_pages error, got %v", errs)
}

// Helper function to check for errors containing specific strings
func containsError(errs []string, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}
