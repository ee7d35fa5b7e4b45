package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	CatalogSource    string `envconfig:"CATALOG_SOURCE" default:"data/products.csv"`
	CatalogDelimiter string `envconfig:"CATALOG_DELIMITER"`
	CatalogTable     string `envconfig:"CATALOG_TABLE"`
	CatalogSheet     string `envconfig:"CATALOG_SHEET"`
	FieldsFile       string `envconfig:"CATALOG_FIELDS_FILE"`
	Watch            bool   `envconfig:"CATALOG_WATCH" default:"false"`

	AppAddr           string        `envconfig:"APP_ADDR" default:":8501"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`
	AppRateLimit      int           `envconfig:"APP_RATE_LIMIT" default:"120"` // requests per minute per IP, 0 disables

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"`

	RedisAddr string        `envconfig:"REDIS_ADDR"` // empty disables the shared cache
	RedisTTL  time.Duration `envconfig:"REDIS_TTL" default:"10m"`

	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	MaxRetries  int           `envconfig:"MAX_RETRIES" default:"3"`

	ChromeBin    string `envconfig:"CHROME_BIN"`
	SnapshotPath string `envconfig:"SNAPSHOT_PATH" default:"./output/catalog.png"`
}

// Load reads the .env file (if present), then the environment, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.CatalogSource) == "" {
		return errors.New("config: CATALOG_SOURCE must not be empty")
	}
	if _, err := c.Delimiter(); err != nil {
		return err
	}
	if c.AppRateLimit < 0 {
		return fmt.Errorf("config: APP_RATE_LIMIT must be >= 0, got %d", c.AppRateLimit)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("config: MAX_RETRIES must be >= 1, got %d", c.MaxRetries)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("config: LOG_FORMAT must be console or json, got %q", c.LogFormat)
	}
	return nil
}

// Delimiter returns the configured field separator, or 0 to pick one from the file extension.
// "tab" and `\t` both mean a tab.
func (c *Config) Delimiter() (rune, error) {
	switch d := c.CatalogDelimiter; d {
	case "":
		return 0, nil
	case "tab", `\t`, "\t":
		return '\t', nil
	default:
		r, size := utf8.DecodeRuneInString(d)
		if size != len(d) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
			return 0, fmt.Errorf("config: CATALOG_DELIMITER must be a single character, got %q", d)
		}
		return r, nil
	}
}
