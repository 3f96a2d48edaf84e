// Package config loads per-pair run configuration from YAML.
package config

import (
	"fmt"
	"os"

	"github.com/tradekit/volgate/internal/domain"
	"github.com/tradekit/volgate/internal/services/analyzer"
	"github.com/tradekit/volgate/internal/services/backtest"
	"github.com/tradekit/volgate/internal/services/filter"
	"github.com/tradekit/volgate/internal/services/sizing"
	"github.com/tradekit/volgate/internal/storage/postgres"
	"gopkg.in/yaml.v3"
)

// Backend names for the decision store.
const (
	BackendWAL      = "wal"
	BackendPostgres = "postgres"
	BackendNone     = "none"
)

// StorageConfig selects and configures the decision store backend.
type StorageConfig struct {
	Backend  string          `yaml:"backend"`
	Dir      string          `yaml:"dir"`
	Postgres postgres.Config `yaml:"postgres"`
}

// Config is one pair's complete run configuration.
type Config struct {
	Pair        domain.Pair
	Timeframe   string
	CandlesFile string
	Backtest    backtest.Config
	Sizing      sizing.Config
	Storage     StorageConfig
}

// FileConfig mirrors Config for YAML decoding, and is what the setup wizard
// writes. Optional numeric fields are pointers so absent values can fall back
// to defaults (zero is meaningful for several thresholds).
type FileConfig struct {
	Pair        string `yaml:"pair"`
	Timeframe   string `yaml:"timeframe"`
	CandlesFile string `yaml:"candles_file"`
	Warmup      *int   `yaml:"warmup"`

	Analyzer struct {
		SMAPeriods    *int     `yaml:"sma_periods"`
		EMAPeriods    *int     `yaml:"ema_periods"`
		AnomalyZScore *float64 `yaml:"anomaly_zscore"`
	} `yaml:"analyzer"`

	Filter struct {
		MinVolumeRatio          *float64 `yaml:"min_volume_ratio"`
		MaxVolumeRatio          *float64 `yaml:"max_volume_ratio"`
		HighVolumeZScore        *float64 `yaml:"high_volume_zscore"`
		LowVolumeZScore         *float64 `yaml:"low_volume_zscore"`
		RequireIncreasingVolume bool     `yaml:"require_increasing_volume"`
		VWAPDistancePct         *float64 `yaml:"vwap_distance_pct"`
	} `yaml:"filter"`

	Sizing struct {
		DefaultRiskPct *float64 `yaml:"default_risk_pct"`
		MinRiskPct     *float64 `yaml:"min_risk_pct"`
		MaxRiskPct     *float64 `yaml:"max_risk_pct"`
		ATRPeriod      *int     `yaml:"atr_period"`
	} `yaml:"sizing"`

	Storage StorageConfig `yaml:"storage"`
}

// Default returns the standard configuration for a pair.
func Default(pair domain.Pair) Config {
	return Config{
		Pair:      pair,
		Timeframe: "1h",
		Backtest: backtest.Config{
			Warmup:   backtest.DefaultWarmup,
			Analyzer: analyzer.DefaultConfig(),
			Filter:   filter.DefaultConfig(),
		},
		Sizing: sizing.DefaultConfig(),
		Storage: StorageConfig{
			Backend:  BackendWAL,
			Postgres: postgres.DefaultConfig(),
		},
	}
}

// Load reads a YAML file holding a list of per-pair configurations.
func Load(path string) ([]Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw []FileConfig
	if err := yaml.Unmarshal(f, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("config %s holds no pairs", path)
	}

	configs := make([]Config, 0, len(raw))
	for i, c := range raw {
		cfg, err := c.materialize()
		if err != nil {
			return nil, fmt.Errorf("config entry %d: %w", i, err)
		}
		configs = append(configs, cfg)
	}

	return configs, nil
}

func (c FileConfig) materialize() (Config, error) {
	pair, err := domain.PairFromString(c.Pair)
	if err != nil {
		return Config{}, fmt.Errorf("incorrect 'pair' param: %w", err)
	}

	cfg := Default(pair)
	cfg.CandlesFile = c.CandlesFile
	if c.Timeframe != "" {
		cfg.Timeframe = c.Timeframe
	}
	if c.Warmup != nil {
		cfg.Backtest.Warmup = *c.Warmup
	}

	if c.Analyzer.SMAPeriods != nil {
		cfg.Backtest.Analyzer.SMAPeriods = *c.Analyzer.SMAPeriods
	}
	if c.Analyzer.EMAPeriods != nil {
		cfg.Backtest.Analyzer.EMAPeriods = *c.Analyzer.EMAPeriods
	}
	if c.Analyzer.AnomalyZScore != nil {
		cfg.Backtest.Analyzer.AnomalyZScore = *c.Analyzer.AnomalyZScore
	}

	if c.Filter.MinVolumeRatio != nil {
		cfg.Backtest.Filter.MinVolumeRatio = *c.Filter.MinVolumeRatio
	}
	if c.Filter.MaxVolumeRatio != nil {
		cfg.Backtest.Filter.MaxVolumeRatio = *c.Filter.MaxVolumeRatio
	}
	if c.Filter.HighVolumeZScore != nil {
		cfg.Backtest.Filter.HighVolumeZScore = *c.Filter.HighVolumeZScore
	}
	if c.Filter.LowVolumeZScore != nil {
		cfg.Backtest.Filter.LowVolumeZScore = *c.Filter.LowVolumeZScore
	}
	cfg.Backtest.Filter.RequireIncreasingVolume = c.Filter.RequireIncreasingVolume
	if c.Filter.VWAPDistancePct != nil {
		cfg.Backtest.Filter.VWAPDistancePct = *c.Filter.VWAPDistancePct
	}

	if c.Sizing.DefaultRiskPct != nil {
		cfg.Sizing.DefaultRiskPct = *c.Sizing.DefaultRiskPct
	}
	if c.Sizing.MinRiskPct != nil {
		cfg.Sizing.MinRiskPct = *c.Sizing.MinRiskPct
	}
	if c.Sizing.MaxRiskPct != nil {
		cfg.Sizing.MaxRiskPct = *c.Sizing.MaxRiskPct
	}
	if c.Sizing.ATRPeriod != nil {
		cfg.Sizing.ATRPeriod = *c.Sizing.ATRPeriod
	}

	if c.Storage.Backend != "" {
		cfg.Storage.Backend = c.Storage.Backend
	}
	if c.Storage.Dir != "" {
		cfg.Storage.Dir = c.Storage.Dir
	}
	if c.Storage.Postgres.DSN != "" {
		cfg.Storage.Postgres.DSN = c.Storage.Postgres.DSN
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks structural consistency; numeric thresholds themselves stay
// caller-tunable without range checks.
func (c Config) Validate() error {
	if c.Backtest.Warmup < 0 {
		return fmt.Errorf("warmup must not be negative, got %d", c.Backtest.Warmup)
	}
	if c.Backtest.Filter.MinVolumeRatio > c.Backtest.Filter.MaxVolumeRatio {
		return fmt.Errorf("min_volume_ratio %g exceeds max_volume_ratio %g",
			c.Backtest.Filter.MinVolumeRatio, c.Backtest.Filter.MaxVolumeRatio)
	}
	if c.Backtest.Filter.LowVolumeZScore > c.Backtest.Filter.HighVolumeZScore {
		return fmt.Errorf("low_volume_zscore %g exceeds high_volume_zscore %g",
			c.Backtest.Filter.LowVolumeZScore, c.Backtest.Filter.HighVolumeZScore)
	}
	switch c.Storage.Backend {
	case BackendWAL, BackendPostgres, BackendNone:
	default:
		return fmt.Errorf("unknown storage backend: %s", c.Storage.Backend)
	}
	return nil
}
