package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tradekit/volgate/internal/domain"
)

func candlesWithVolumes(volumes ...float64) []domain.Candle {
	out := make([]domain.Candle, len(volumes))
	for i, v := range volumes {
		out[i] = testCandle(i, 100, v)
	}
	return out
}

func TestCalculateProfileEmpty(t *testing.T) {
	p := CalculateProfile(nil)

	require.Equal(t, domain.VolumeProfile{Period: "unknown"}, p)
	require.Equal(t, 0, p.CandleCount)
}

func TestCalculateProfileSingleCandle(t *testing.T) {
	p := CalculateProfile(candlesWithVolumes(250))

	require.Equal(t, 1, p.CandleCount)
	require.Equal(t, 250.0, p.Avg)
	require.Equal(t, 250.0, p.Median)
	require.Equal(t, 250.0, p.P25)
	require.Equal(t, 250.0, p.P50)
	require.Equal(t, 250.0, p.P75)
	require.Equal(t, 250.0, p.P90)
	require.Equal(t, 0.0, p.Std)
	require.Equal(t, 250.0, p.Total)
}

func TestCalculateProfileSmallSampleFallbacks(t *testing.T) {
	// Below four samples p25 pins to the minimum and p75/p90 to the maximum.
	p := CalculateProfile(candlesWithVolumes(30, 10, 20))

	require.Equal(t, 10.0, p.P25)
	require.Equal(t, 20.0, p.P50)
	require.Equal(t, 30.0, p.P75)
	require.Equal(t, 30.0, p.P90)
}

func TestCalculateProfileStatistics(t *testing.T) {
	volumes := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	p := CalculateProfile(candlesWithVolumes(volumes...))

	require.Equal(t, 10, p.CandleCount)
	require.Equal(t, 55.0, p.Avg)
	require.Equal(t, 550.0, p.Total)
	require.Equal(t, 60.0, p.Median)
	require.Equal(t, 30.0, p.P25)
	require.Equal(t, 60.0, p.P50)
	require.Equal(t, 80.0, p.P75)
	require.Equal(t, 100.0, p.P90)
	require.InDelta(t, 28.7228, p.Std, 1e-4)
}

func TestCalculateProfilePercentilesOrdered(t *testing.T) {
	volumes := []float64{120, 45, 300, 87, 150, 92, 61, 210, 133, 98, 77, 184}
	p := CalculateProfile(candlesWithVolumes(volumes...))

	require.LessOrEqual(t, p.P25, p.P50)
	require.LessOrEqual(t, p.P50, p.P75)
	require.LessOrEqual(t, p.P75, p.P90)
}

func TestCalculateProfilePeriodLabel(t *testing.T) {
	p := CalculateProfile(candlesWithVolumes(make([]float64, 48)...))

	require.Equal(t, "2024-01-01 to 2024-01-02", p.Period)
}
