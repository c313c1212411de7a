package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SanderBuruma/solana-research/config"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://api-v2.solscan.io/v2", cfg.API.BaseURL)
	assert.Equal(t, "dex_activity", cfg.Cache.Dir)
	assert.Equal(t, "reports", cfg.Reports.Dir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.InDelta(t, 0.022912, cfg.Fees.BuyPercent, 1e-9)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
api:
  base_url: https://indexer.example.com/v2
fees:
  sell_percent: 0.05
cache:
  dir: /tmp/trades
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://indexer.example.com/v2", cfg.API.BaseURL)
	assert.InDelta(t, 0.05, cfg.Fees.SellPercent, 1e-9)
	assert.Equal(t, "/tmp/trades", cfg.Cache.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Lo no especificado conserva el default
	assert.InDelta(t, 0.002, cfg.Fees.BuyFixed, 1e-9)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o644))

	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("BUY_FIXED_FEE", "0.005")
	t.Setenv("PROXY_ENABLED", "true")
	t.Setenv("PROXY_URL", "http://127.0.0.1:8080")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level)
	assert.InDelta(t, 0.005, cfg.Fees.BuyFixed, 1e-9)
	assert.True(t, cfg.API.ProxyEnabled)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.API.ProxyURL)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [not a map"), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}
