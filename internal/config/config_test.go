package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "stocks.csv", cfg.Data.Path)
	assert.Equal(t, 20, cfg.Dashboard.MAWindow)
	assert.Equal(t, 50, cfg.Dashboard.HistogramBins)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "2y", cfg.Refresh.Range)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data:
  path: data/prices.xlsx
  sheet: Prices
dashboard:
  ma_window: 30
log:
  format: json
refresh:
  cron: "0 30 22 * * 1-5"
  symbols: [AAPL, MSFT]
`), 0644))

	t.Setenv("DASHBOARD_MA_WINDOW", "10")
	t.Setenv("REFRESH_SYMBOLS", "SPY, QQQ ,")
	t.Setenv("DASHBOARD_ADDR", "127.0.0.1:9000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "data/prices.xlsx", cfg.Data.Path)
	assert.Equal(t, "Prices", cfg.Data.Sheet)
	assert.Equal(t, 10, cfg.Dashboard.MAWindow)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, []string{"SPY", "QQQ"}, cfg.Refresh.Symbols)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data: [unclosed"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	cfg.Dashboard.MAWindow = -1
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Log.Format = "xml"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Refresh.Cron = "0 0 22 * * *"
	assert.Error(t, cfg.Validate())
	cfg.Refresh.Symbols = []string{"AAPL"}
	assert.NoError(t, cfg.Validate())
}
