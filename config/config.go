// Package config loads digitpad settings from defaults, an optional TOML
// file and DIGITPAD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ModeLive     = "live"
	ModeOnDemand = "on-demand"
)

// Config holds application configuration.
type Config struct {
	Mode       string
	History    HistoryConfig
	Classifier ClassifierConfig
	Window     WindowConfig
	Headless   HeadlessConfig
}

// HistoryConfig bounds the undo stack.
type HistoryConfig struct {
	Depth int
}

// ClassifierConfig points at the model server. An empty URL disables inference.
type ClassifierConfig struct {
	URL     string
	Model   string
	Version string
	Timeout time.Duration
}

// WindowConfig holds presentation settings.
type WindowConfig struct {
	Title string
	Scale int
}

// HeadlessConfig holds settings for the no-window runner.
type HeadlessConfig struct {
	Hz int
}

// Load reads configuration from file and env. Env var overrides use prefix DIGITPAD_.
// path, when non-empty, names the config file and must exist.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("mode", ModeLive)
	v.SetDefault("history.depth", 32)
	v.SetDefault("classifier.url", "")
	v.SetDefault("classifier.model", "mnist")
	v.SetDefault("classifier.version", "")
	v.SetDefault("classifier.timeout", "2s")
	v.SetDefault("window.title", "Neural Network - Drawing Board")
	v.SetDefault("window.scale", 1)
	v.SetDefault("headless.hz", 60)

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("DIGITPAD_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "digitpad"))
		}
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("DIGITPAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks value ranges after all layers are merged.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeLive, ModeOnDemand:
	default:
		return fmt.Errorf("config: mode %q: want %q or %q", c.Mode, ModeLive, ModeOnDemand)
	}
	if c.History.Depth < 0 {
		return fmt.Errorf("config: history.depth must be >= 0, got %d", c.History.Depth)
	}
	if c.Classifier.Timeout < 0 {
		return fmt.Errorf("config: classifier.timeout must be >= 0, got %s", c.Classifier.Timeout)
	}
	if c.Classifier.URL != "" && c.Classifier.Model == "" {
		return fmt.Errorf("config: classifier.model is required with classifier.url")
	}
	if c.Window.Scale < 1 {
		return fmt.Errorf("config: window.scale must be >= 1, got %d", c.Window.Scale)
	}
	return nil
}
