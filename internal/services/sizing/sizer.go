// Package sizing implements ATR-based volatility-adjusted position sizing.
package sizing

import (
	"math"

	"github.com/tradekit/volgate/internal/domain"
	"github.com/tradekit/volgate/pkg/indicators"
	"go.uber.org/zap"
)

// VolatilityLevel is a coarse label for the current ATR regime.
type VolatilityLevel string

const (
	VolatilityLow    VolatilityLevel = "LOW"
	VolatilityMedium VolatilityLevel = "MEDIUM"
	VolatilityHigh   VolatilityLevel = "HIGH"
)

// Config bounds the risk a single position may take.
type Config struct {
	// DefaultRiskPct is the account fraction risked when none is given.
	DefaultRiskPct float64 `yaml:"default_risk_pct"`
	// MinRiskPct floors the position size fraction.
	MinRiskPct float64 `yaml:"min_risk_pct"`
	// MaxRiskPct caps the position size fraction.
	MaxRiskPct float64 `yaml:"max_risk_pct"`
	// ATRPeriod is the lookback for the volatility estimate.
	ATRPeriod int `yaml:"atr_period"`
}

// DefaultConfig returns 2% default risk bounded to [1%, 10%] on a 14-period ATR.
func DefaultConfig() Config {
	return Config{
		DefaultRiskPct: 0.02,
		MinRiskPct:     0.01,
		MaxRiskPct:     0.10,
		ATRPeriod:      14,
	}
}

// Result is a sizing recommendation for one entry.
type Result struct {
	PositionSizeUSD float64
	PositionSizePct float64
	RiskAmount      float64
	ATR             float64
	Level           VolatilityLevel
}

// Sizer scales position size inversely to volatility so that risk per trade
// stays near the configured percentage.
type Sizer struct {
	cfg    Config
	logger *zap.Logger
}

// New creates a Sizer.
func New(cfg Config, logger *zap.Logger) *Sizer {
	if cfg.ATRPeriod <= 0 {
		cfg.ATRPeriod = DefaultConfig().ATRPeriod
	}
	return &Sizer{cfg: cfg, logger: logger}
}

// TrueRange returns the greatest of high-low, |high-prevClose| and
// |low-prevClose|.
func TrueRange(high, low, prevClose float64) float64 {
	tr := high - low
	if v := math.Abs(high - prevClose); v > tr {
		tr = v
	}
	if v := math.Abs(low - prevClose); v > tr {
		tr = v
	}
	return tr
}

// ATR estimates current volatility from the candle history.
func (s *Sizer) ATR(candles []domain.Candle) (float64, error) {
	return indicators.LastATR(candles, s.cfg.ATRPeriod)
}

// CalculatePositionSize converts account value, volatility and price into a
// bounded position size. A zero ATR falls back to 2% of price; a non-positive
// riskPct falls back to the configured default.
func (s *Sizer) CalculatePositionSize(accountValue, atr, price, riskPct float64) Result {
	if atr == 0 {
		atr = price * 0.02
	}
	if riskPct <= 0 {
		riskPct = s.cfg.DefaultRiskPct
	}

	atrPct := atr / price * 100

	factor := 1.0
	switch {
	case atrPct < 1.0:
		factor = 1.5
	case atrPct < 2.0:
		factor = 1.25
	case atrPct > 5.0:
		factor = 0.75
	}

	positionPct := riskPct * factor
	if positionPct < s.cfg.MinRiskPct {
		positionPct = s.cfg.MinRiskPct
	}
	if positionPct > s.cfg.MaxRiskPct {
		positionPct = s.cfg.MaxRiskPct
	}

	positionUSD := accountValue * positionPct

	level := VolatilityMedium
	switch {
	case atrPct < 1.5:
		level = VolatilityLow
	case atrPct > 5.0:
		level = VolatilityHigh
	}

	return Result{
		PositionSizeUSD: positionUSD,
		PositionSizePct: positionPct * 100,
		RiskAmount:      positionUSD * riskPct,
		ATR:             atr,
		Level:           level,
	}
}

// Recommend computes the complete sizing recommendation from history.
func (s *Sizer) Recommend(pair domain.Pair, candles []domain.Candle, accountValue, price, riskPct float64) Result {
	atr, err := s.ATR(candles)
	if err != nil {
		s.logger.Warn("ATR unavailable, falling back to price-relative estimate",
			zap.String("pair", pair.String()), zap.Error(err))
		atr = 0
	}
	return s.CalculatePositionSize(accountValue, atr, price, riskPct)
}
