package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8090", cfg.App.HTTPAddr)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "", cfg.Catalog.Path)
	assert.Equal(t, 65.0, cfg.Quote.DefaultLabourRate)
	assert.Equal(t, 750*time.Millisecond, cfg.Persist.Debounce)
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BOILERQUOTE_CATALOG_PATH", "/tmp/prices.json")
	t.Setenv("BOILERQUOTE_DEFAULT_LABOUR_RATE", "72.5")
	t.Setenv("BOILERQUOTE_PERSIST_DEBOUNCE", "2s")
	t.Setenv("BOILERQUOTE_LOG_FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/prices.json", cfg.Catalog.Path)
	assert.Equal(t, 72.5, cfg.Quote.DefaultLabourRate)
	assert.Equal(t, 2*time.Second, cfg.Persist.Debounce)
	assert.Equal(t, "console", cfg.App.LogFormat)
}

func TestLoadRejectsNegativeLabourRate(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BOILERQUOTE_DEFAULT_LABOUR_RATE", "-1")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BOILERQUOTE_PERSIST_DEBOUNCE", "soon")

	_, err := Load()
	require.Error(t, err)
}
