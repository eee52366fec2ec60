// Package config resolves settings from defaults, an optional YAML file,
// F1GRID_* environment variables and command-line flags.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// EnvPrefix prefixes every environment variable, e.g. F1GRID_SESSION_KEY.
const EnvPrefix = "F1GRID"

// Config holds the resolved settings.
type Config struct {
	APIURL     string        `mapstructure:"api-url"`
	SessionKey int           `mapstructure:"session-key"`
	FlagURL    string        `mapstructure:"flag-url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Locale     string        `mapstructure:"locale"`
	LogLevel   string        `mapstructure:"log-level"`
	LogFormat  string        `mapstructure:"log-format"`
	LogFile    string        `mapstructure:"log-file"`
	Addr       string        `mapstructure:"addr"`
}

// Defaults are the values used when neither a flag, an environment variable
// nor the config file sets a key.
var Defaults = Config{
	APIURL:     "https://api.openf1.org/v1",
	SessionKey: 9472,
	FlagURL:    "https://flagcdn.com/48x36/%s.png",
	Timeout:    30 * time.Second,
	Locale:     "en",
	LogLevel:   "info",
	LogFormat:  "text",
	Addr:       "localhost:8080",
}

// SetDefaults registers Defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api-url", Defaults.APIURL)
	v.SetDefault("session-key", Defaults.SessionKey)
	v.SetDefault("flag-url", Defaults.FlagURL)
	v.SetDefault("timeout", Defaults.Timeout)
	v.SetDefault("locale", Defaults.Locale)
	v.SetDefault("log-level", Defaults.LogLevel)
	v.SetDefault("log-format", Defaults.LogFormat)
	v.SetDefault("log-file", Defaults.LogFile)
	v.SetDefault("addr", Defaults.Addr)
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the loader cannot work with.
func (c Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api-url must not be empty")
	}
	if c.SessionKey <= 0 {
		return fmt.Errorf("session-key must be positive, got %d", c.SessionKey)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	return nil
}

// Language returns the collation locale, falling back to English.
func (c Config) Language() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}
