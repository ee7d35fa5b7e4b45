package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-browser/models"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/products.csv", cfg.CatalogSource)
	assert.Equal(t, ":8501", cfg.AppAddr)
	assert.Equal(t, 30*time.Second, cfg.AppRequestTimeout)
	assert.Equal(t, 120, cfg.AppRateLimit)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.False(t, cfg.Watch)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CATALOG_SOURCE", "sqlite:///data/shop.db?table=items")
	t.Setenv("CATALOG_WATCH", "true")
	t.Setenv("APP_RATE_LIMIT", "0")
	t.Setenv("REDIS_TTL", "90s")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite:///data/shop.db?table=items", cfg.CatalogSource)
	assert.True(t, cfg.Watch)
	assert.Equal(t, 0, cfg.AppRateLimit)
	assert.Equal(t, 90*time.Second, cfg.RedisTTL)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"APP_RATE_LIMIT", "-1"},
		{"APP_RATE_LIMIT", "lots"},
		{"MAX_RETRIES", "0"},
		{"LOG_FORMAT", "xml"},
		{"CATALOG_DELIMITER", ";;"},
		{"CATALOG_SOURCE", "  "},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDelimiter(t *testing.T) {
	tests := []struct {
		in   string
		want rune
	}{
		{"", 0},
		{"tab", '\t'},
		{`\t`, '\t'},
		{";", ';'},
		{"|", '|'},
	}
	for _, tt := range tests {
		got, err := (&Config{CatalogDelimiter: tt.in}).Delimiter()
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestLoadFieldTerms(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.yaml")
	require.NoError(t, os.WriteFile(path, []byte("availability: Availability\nselling_price: Price (USD)\n"), 0o644))

	terms, err := LoadFieldTerms(path)
	require.NoError(t, err)
	assert.Equal(t, map[models.Field]string{
		models.FieldAvailability: "Availability",
		models.FieldSellingPrice: "Price (USD)",
	}, terms)
}

func TestLoadFieldTermsErrors(t *testing.T) {
	dir := t.TempDir()

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("colour: Color\n"), 0o644))
	_, err := LoadFieldTerms(unknown)
	assert.ErrorContains(t, err, "colour")

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("availability: [unclosed\n"), 0o644))
	_, err = LoadFieldTerms(broken)
	assert.Error(t, err)

	_, err = LoadFieldTerms(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	terms, err := LoadFieldTerms("")
	assert.NoError(t, err)
	assert.Nil(t, terms)
}
