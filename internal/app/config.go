package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const EnvPrefix = "TVENGLISH_"

// Config controls runtime behavior for the tracker.
type Config struct {
	DataDir     string `env:"DATA_DIR"`
	LogPath     string `env:"LOG"`
	LogLevel    string `env:"LOG_LEVEL"`
	CatalogPath string `env:"CATALOG"`
	Ephemeral   bool   `env:"EPHEMERAL"`
	ASCIIOnly   bool   `env:"ASCII"`
	UI          UIConfig
}

type UIConfig struct {
	StyleVariant string `env:"STYLE"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		UI: UIConfig{
			StyleVariant: "classroom",
		},
	}
}

// LoadEnv applies TVENGLISH_* variables on top of cfg. When dotenv names a
// file it is loaded first; a missing file is not an error. Variables already
// set in the process environment win over the file.
func LoadEnv(cfg *Config, dotenv string) error {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", dotenv, err)
		}
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	switch c.UI.StyleVariant {
	case "", "classroom", "night_study", "plain":
	default:
		return fmt.Errorf("invalid ui style variant %q", c.UI.StyleVariant)
	}
	if c.UI.StyleVariant == "" {
		c.UI.StyleVariant = "classroom"
	}
	if c.ASCIIOnly {
		c.UI.StyleVariant = "plain"
	}

	if c.DataDir == "" && !c.Ephemeral {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.New("cannot resolve user home directory")
		}
		c.DataDir = filepath.Join(home, ".local", "share", "tvenglish")
	}
	return nil
}
