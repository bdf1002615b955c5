// internal/config/write.go
package config

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed default_config.toml
var starterConfig string

// WriteDefault writes the commented starter config to path, creating
// parent directories as needed. Credentials are left as ${VAR}
// placeholders so the file can be committed without secrets.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(starterConfig), 0644)
}

// Write serializes the config to TOML at path. Unlike WriteDefault the
// output carries resolved values, including any substituted secrets.
func (c *Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}
