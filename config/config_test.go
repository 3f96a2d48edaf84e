package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tradekit/volgate/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
- pair: BTC_USDT
  candles_file: data/btc.csv
`)

	configs, err := Load(path)
	require.NoError(t, err)
	require.Len(t, configs, 1)

	cfg := configs[0]
	require.Equal(t, domain.Pair{From: "BTC", To: "USDT"}, cfg.Pair)
	require.Equal(t, "data/btc.csv", cfg.CandlesFile)
	require.Equal(t, "1h", cfg.Timeframe)
	require.Equal(t, 50, cfg.Backtest.Warmup)
	require.Equal(t, 20, cfg.Backtest.Analyzer.SMAPeriods)
	require.Equal(t, 2.5, cfg.Backtest.Analyzer.AnomalyZScore)
	require.Equal(t, 0.5, cfg.Backtest.Filter.MinVolumeRatio)
	require.Equal(t, 3.0, cfg.Backtest.Filter.MaxVolumeRatio)
	require.Equal(t, BackendWAL, cfg.Storage.Backend)
	require.Equal(t, 0.02, cfg.Sizing.DefaultRiskPct)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
- pair: ETH_USDT
  timeframe: 4h
  candles_file: data/eth.csv
  warmup: 0
  analyzer:
    sma_periods: 10
  filter:
    min_volume_ratio: 0.8
    require_increasing_volume: true
    vwap_distance_pct: 0
  storage:
    backend: postgres
    postgres:
      dsn: postgres://localhost/volgate
`)

	configs, err := Load(path)
	require.NoError(t, err)
	cfg := configs[0]

	require.Equal(t, "4h", cfg.Timeframe)
	require.Equal(t, 0, cfg.Backtest.Warmup, "explicit zero warmup survives")
	require.Equal(t, 10, cfg.Backtest.Analyzer.SMAPeriods)
	require.Equal(t, 0.8, cfg.Backtest.Filter.MinVolumeRatio)
	require.True(t, cfg.Backtest.Filter.RequireIncreasingVolume)
	require.Equal(t, 0.0, cfg.Backtest.Filter.VWAPDistancePct, "explicit zero threshold survives")
	require.Equal(t, BackendPostgres, cfg.Storage.Backend)
	require.Equal(t, "postgres://localhost/volgate", cfg.Storage.Postgres.DSN)
}

func TestLoadMultiplePairs(t *testing.T) {
	path := writeConfig(t, `
- pair: BTC_USDT
  candles_file: data/btc.csv
- pair: ETH_USDT
  candles_file: data/eth.csv
`)

	configs, err := Load(path)
	require.NoError(t, err)
	require.Len(t, configs, 2)
	require.Equal(t, "BTC", configs[0].Pair.From)
	require.Equal(t, "ETH", configs[1].Pair.From)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty list", ""},
		{"bad pair", "- pair: BTCUSDT\n  candles_file: a.csv\n"},
		{"negative warmup", "- pair: BTC_USDT\n  candles_file: a.csv\n  warmup: -1\n"},
		{"min above max ratio", "- pair: BTC_USDT\n  candles_file: a.csv\n  filter:\n    min_volume_ratio: 5\n"},
		{"inverted zscores", "- pair: BTC_USDT\n  candles_file: a.csv\n  filter:\n    low_volume_zscore: 3\n"},
		{"unknown backend", "- pair: BTC_USDT\n  candles_file: a.csv\n  storage:\n    backend: redis\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
