// Package config loads the runtime configuration for the forms server and
// CLI. Sources are layered with koanf, lowest precedence first: struct
// defaults, an optional config file, .env files, the process environment and
// command line flags.
package config

import (
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/sirupsen/logrus"
)

// Config is the full runtime configuration.
type Config struct {
	Server ServerConfig `koanf:"server"`
	Forms  FormsConfig  `koanf:"forms"`
	Render RenderConfig `koanf:"render"`
	Log    LogConfig    `koanf:"log"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr string `koanf:"addr"`
}

// FormsConfig points at the form definitions.
type FormsConfig struct {
	Dir     string `koanf:"dir"`
	Theme   string `koanf:"theme"`
	Variant string `koanf:"variant"`
}

// RenderConfig tunes the HTML layout renderer.
type RenderConfig struct {
	TemplatesDir string `koanf:"templates_dir"`
}

// LogConfig sets the logger up.
type LogConfig struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

// Defaults returns the configuration used when no source overrides a key.
func Defaults() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Forms:  FormsConfig{Dir: "forms"},
		Log:    LogConfig{Level: "info"},
	}
}

// Validate checks the loaded values.
func (c Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Server.Addr) == "" {
		problems = append(problems, "server.addr is required")
	}
	if strings.TrimSpace(c.Forms.Dir) == "" {
		problems = append(problems, "forms.dir is required")
	}
	if c.Log.Level != "" {
		if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
			problems = append(problems, "log.level "+c.Log.Level+" is not a valid level")
		}
	}
	if c.Forms.Variant != "" && c.Forms.Theme == "" {
		problems = append(problems, "forms.variant requires forms.theme")
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid configuration", errors.CategoryValidation).
		WithTextCode("CONFIG_INVALID").
		WithMetadata(map[string]any{"problems": problems})
}
