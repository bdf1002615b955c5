// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Telegram TelegramConfig `toml:"telegram"`
	TMDB     TMDBConfig     `toml:"tmdb"`
	Cache    CacheConfig    `toml:"cache"`
	Poll     PollConfig     `toml:"poll"`
	Log      LogConfig      `toml:"log"`
}

type TelegramConfig struct {
	Token string `toml:"token"`
}

type TMDBConfig struct {
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	MaxPages int    `toml:"max_pages"`
}

type CacheConfig struct {
	Path      string `toml:"path"`
	Threshold int    `toml:"threshold"`
}

type PollConfig struct {
	Database   string   `toml:"database"`
	Size       int      `toml:"size"`
	Question   string   `toml:"question"`
	SessionTTL Duration `toml:"session_ttl"`
	KeepFor    Duration `toml:"keep_for"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Duration accepts TOML strings like "30m" or "24h".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Load reads the configuration file, substitutes environment variables,
// applies defaults and validates the result. Unresolved variables and
// validation failures are aggregated into a *ConfigError.
func Load(path string) (*Config, error) {
	cfg, missing, err := parse(path)
	if err != nil {
		return nil, err
	}

	cerr := &ConfigError{
		Path:    path,
		Missing: missing,
		Errors:  cfg.Validate(),
	}
	if cerr.HasErrors() {
		return nil, cerr
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file, applying
// defaults but skipping validation. Intended for tooling that inspects or
// rewrites configs without requiring a runnable setup.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := parse(path)
	return cfg, err
}

func parse(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, missing, nil
}

func (c *Config) applyDefaults() {
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = "https://api.themoviedb.org/3"
	}
	if c.TMDB.MaxPages == 0 {
		c.TMDB.MaxPages = 2
	}
	if c.Cache.Path == "" {
		c.Cache.Path = "./data/movies.csv"
	}
	if c.Cache.Threshold == 0 {
		c.Cache.Threshold = 4
	}
	if c.Poll.Database == "" {
		c.Poll.Database = "./data/cinepoll.db"
	}
	if c.Poll.Size == 0 {
		c.Poll.Size = 4
	}
	if c.Poll.Question == "" {
		c.Poll.Question = "Which movie to watch in theaters?"
	}
	if c.Poll.SessionTTL == 0 {
		c.Poll.SessionTTL = Duration(30 * time.Minute)
	}
	if c.Poll.KeepFor == 0 {
		c.Poll.KeepFor = Duration(30 * 24 * time.Hour)
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// substituteEnvVars replaces ${VAR} references with environment values.
// ${VAR:-default} falls back to the default when VAR is unset or empty;
// ${VAR:?message} records the message as a missing-variable error.
// Plain unresolved references are left in place and reported.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)((?::-|:\?)[^}]*)?\}`)

func substituteEnvVars(content string) (string, []string) {
	var missing []string

	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		name, mod := groups[1], groups[2]
		value, ok := os.LookupEnv(name)

		switch {
		case strings.HasPrefix(mod, ":-"):
			if ok && value != "" {
				return value
			}
			return mod[2:]
		case strings.HasPrefix(mod, ":?"):
			if ok && value != "" {
				return value
			}
			if msg := strings.TrimSpace(mod[2:]); msg != "" {
				missing = append(missing, name+": "+msg)
			} else {
				missing = append(missing, name)
			}
			return match
		default:
			if ok {
				return value
			}
			missing = append(missing, name)
			return match
		}
	})

	return result, missing
}
