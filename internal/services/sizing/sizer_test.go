package sizing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tradekit/volgate/internal/domain"
	"go.uber.org/zap"
)

func TestTrueRange(t *testing.T) {
	tests := []struct {
		name                 string
		high, low, prevClose float64
		want                 float64
	}{
		{"plain range", 110, 100, 105, 10},
		{"gap up", 130, 125, 100, 30},
		{"gap down", 100, 95, 120, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, TrueRange(tt.high, tt.low, tt.prevClose))
		})
	}
}

func TestCalculatePositionSizeVolatilityTiers(t *testing.T) {
	s := New(DefaultConfig(), zap.NewNop())

	tests := []struct {
		name    string
		atr     float64
		wantPct float64
		level   VolatilityLevel
	}{
		{"very low volatility scales up", 0.5, 3.0, VolatilityLow},
		{"low volatility scales up a little", 1.5, 2.5, VolatilityMedium},
		{"normal volatility unchanged", 3.0, 2.0, VolatilityMedium},
		{"high volatility scales down", 6.0, 1.5, VolatilityHigh},
	}

	// price 100 so atr equals atrPct directly
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := s.CalculatePositionSize(10000, tt.atr, 100, 0.02)
			require.InDelta(t, tt.wantPct, r.PositionSizePct, 1e-9)
			require.InDelta(t, 10000*tt.wantPct/100, r.PositionSizeUSD, 1e-9)
			require.Equal(t, tt.level, r.Level)
		})
	}
}

func TestCalculatePositionSizeClampsRisk(t *testing.T) {
	s := New(DefaultConfig(), zap.NewNop())

	// 9% risk scaled by the 1.5 low-volatility factor exceeds the 10% cap.
	r := s.CalculatePositionSize(10000, 0.5, 100, 0.09)
	require.InDelta(t, 10.0, r.PositionSizePct, 1e-9)

	// 1% risk scaled by the 0.75 high-volatility factor falls below the floor.
	r = s.CalculatePositionSize(10000, 6.0, 100, 0.01)
	require.InDelta(t, 1.0, r.PositionSizePct, 1e-9)
}

func TestCalculatePositionSizeFallbacks(t *testing.T) {
	s := New(DefaultConfig(), zap.NewNop())

	// Zero ATR estimates volatility at 2% of price.
	r := s.CalculatePositionSize(10000, 0, 100, 0.02)
	require.Equal(t, 2.0, r.ATR)
	require.InDelta(t, 2.0, r.PositionSizePct, 1e-9)

	// Non-positive risk falls back to the configured default.
	r = s.CalculatePositionSize(10000, 3.0, 100, 0)
	require.InDelta(t, DefaultConfig().DefaultRiskPct*100, r.PositionSizePct, 1e-9)
}

func TestCalculatePositionSizeRiskAmount(t *testing.T) {
	s := New(DefaultConfig(), zap.NewNop())

	r := s.CalculatePositionSize(10000, 3.0, 100, 0.02)
	require.InDelta(t, r.PositionSizeUSD*0.02, r.RiskAmount, 1e-9)
}

func TestRecommendFallsBackWithoutHistory(t *testing.T) {
	s := New(DefaultConfig(), zap.NewNop())

	r := s.Recommend(domain.Pair{From: "BTC", To: "USDT"}, nil, 10000, 100, 0.02)
	require.Equal(t, 2.0, r.ATR, "no history estimates ATR from price")
	require.Greater(t, r.PositionSizeUSD, 0.0)
}

func TestRecommendUsesATRFromHistory(t *testing.T) {
	s := New(Config{
		DefaultRiskPct: 0.02,
		MinRiskPct:     0.01,
		MaxRiskPct:     0.10,
		ATRPeriod:      3,
	}, zap.NewNop())

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]domain.Candle, 10)
	for i := range candles {
		candles[i] = domain.Candle{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      decimal.NewFromInt(100),
			High:      decimal.NewFromInt(104),
			Low:       decimal.NewFromInt(96),
			Close:     decimal.NewFromInt(100),
			Volume:    decimal.NewFromInt(1000),
		}
	}

	r := s.Recommend(domain.Pair{From: "BTC", To: "USDT"}, candles, 10000, 100, 0.02)
	require.InDelta(t, 8.0, r.ATR, 1e-6, "constant 8-point range yields ATR 8")
	require.Equal(t, VolatilityHigh, r.Level)
}
