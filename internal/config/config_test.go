package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadYAMLAndEnv(t *testing.T) {
	path := writeConfig(t, `
symbols: [XRPUSDT, DOGEUSDT]
timeframes: [15m]
check_interval_minutes: 5
symbol_configs:
  XRPUSDT:
    rsi_oversold: 20
`)
	t.Setenv("SYMBOLS", "")
	t.Setenv("TIMEFRAMES", "")
	t.Setenv("CHECK_INTERVAL_MINUTES", "")
	t.Setenv("CANDLE_LIMIT", "250")
	t.Setenv("DATABASE_DRIVER", "sqlite")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"XRPUSDT", "DOGEUSDT"}, cfg.Symbols)
	assert.Equal(t, []string{"15m"}, cfg.Timeframes)
	assert.Equal(t, 5, cfg.CheckIntervalMinutes)
	assert.Equal(t, 250, cfg.CandleLimit)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)

	xrp := cfg.ForSymbol("XRPUSDT")
	assert.Equal(t, 20.0, xrp.RSIOversold)
	assert.Equal(t, 70.0, xrp.RSIOverbought, "missing fields come from DEFAULT")
	assert.Equal(t, 14, xrp.RSIPeriod)

	assert.Equal(t, cfg.SymbolConfigs[DefaultSymbolKey], cfg.ForSymbol("DOGEUSDT"))
	require.NoError(t, cfg.Validate())
}

func TestLoadEnvList(t *testing.T) {
	t.Setenv("SYMBOLS", " BTCUSDT, ,ETHUSDT ")
	t.Setenv("TIMEFRAMES", ",")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, cfg.Symbols)
	assert.Equal(t, Defaults().Timeframes, cfg.Timeframes)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("SYMBOLS", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults().Symbols, cfg.Symbols)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "symbols: [unterminated"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"no symbols", func(c *Config) { c.Symbols = nil }},
		{"no timeframes", func(c *Config) { c.Timeframes = nil }},
		{"zero interval", func(c *Config) { c.CheckIntervalMinutes = 0 }},
		{"zero candle limit", func(c *Config) { c.CandleLimit = 0 }},
		{"inverted rsi", func(c *Config) {
			sc := c.SymbolConfigs["BTCUSDT"]
			sc.RSIOversold = 80
			c.SymbolConfigs["BTCUSDT"] = sc
		}},
		{"inverted ema", func(c *Config) {
			sc := c.SymbolConfigs[DefaultSymbolKey]
			sc.EMAFast = 50
			c.SymbolConfigs[DefaultSymbolKey] = sc
		}},
		{"unknown driver", func(c *Config) { c.DatabaseDriver = "mysql" }},
		{"unknown source", func(c *Config) { c.DataSource = "kraken" }},
		{"twelvedata without key", func(c *Config) { c.DataSource = "twelvedata" }},
	}

	require.NoError(t, Defaults().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestPerSymbolDefaults(t *testing.T) {
	cfg := Defaults()

	eth := cfg.ForSymbol("ETHUSDT")
	assert.Equal(t, 25.0, eth.RSIOversold)
	assert.Equal(t, 75.0, eth.RSIOverbought)
	assert.Equal(t, 10, eth.MACDFast)
	assert.Equal(t, 25, eth.MACDSlow)
	assert.Equal(t, 8, eth.MACDSignal)

	assert.Equal(t, cfg.SymbolConfigs[DefaultSymbolKey], cfg.ForSymbol("PEPEUSDT"))
}
