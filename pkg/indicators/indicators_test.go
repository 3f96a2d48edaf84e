package indicators

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tradekit/volgate/internal/domain"
)

func rangeCandles(n int, high, low, close float64) []domain.Candle {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]domain.Candle, n)
	for i := range out {
		out[i] = domain.Candle{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      decimal.NewFromFloat(close),
			High:      decimal.NewFromFloat(high),
			Low:       decimal.NewFromFloat(low),
			Close:     decimal.NewFromFloat(close),
			Volume:    decimal.NewFromInt(1000),
		}
	}
	return out
}

func TestATRNotEnoughData(t *testing.T) {
	_, err := ATR(rangeCandles(5, 104, 96, 100), 14)
	require.Error(t, err)

	_, err = LastATR(nil, 14)
	require.Error(t, err)
}

func TestLastATRConstantRange(t *testing.T) {
	atr, err := LastATR(rangeCandles(30, 104, 96, 100), 14)
	require.NoError(t, err)
	require.InDelta(t, 8.0, atr, 1e-6)
}
