package backtest

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tradekit/volgate/internal/domain"
	"go.uber.org/zap"
)

func testCandles(price float64, volumes ...float64) []domain.Candle {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]domain.Candle, len(volumes))
	for i, v := range volumes {
		p := decimal.NewFromFloat(price)
		out[i] = domain.Candle{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      p,
			High:      p,
			Low:       p,
			Close:     p,
			Volume:    decimal.NewFromFloat(v),
		}
	}
	return out
}

func testConfig(warmup int) Config {
	cfg := Config{Warmup: warmup}
	cfg.Analyzer.SMAPeriods = 20
	cfg.Analyzer.EMAPeriods = 20
	cfg.Filter.MinVolumeRatio = 0.5
	cfg.Filter.MaxVolumeRatio = 3.0
	cfg.Filter.HighVolumeZScore = 2.0
	cfg.Filter.LowVolumeZScore = -2.0
	cfg.Filter.VWAPDistancePct = 0.5
	return cfg
}

func TestRunEmptyInput(t *testing.T) {
	h := New(testConfig(0), zap.NewNop())

	r := h.Run(domain.Pair{From: "BTC", To: "USDT"}, nil)

	require.NotEmpty(t, r.RunID)
	require.Equal(t, 0, r.TotalEntries)
	require.Equal(t, 0.0, r.AllowedPct())
	require.Equal(t, 0.0, r.RejectedPct())
	require.Empty(t, r.Decisions)
}

func TestRunWarmupConsumesEverything(t *testing.T) {
	h := New(testConfig(50), zap.NewNop())

	candles := testCandles(100, make([]float64, 30)...)
	r := h.Run(domain.Pair{From: "BTC", To: "USDT"}, candles)

	require.Equal(t, 0, r.TotalEntries)
	require.Empty(t, r.Decisions)
}

func TestRunWarmupCandlesNeverAnalyzed(t *testing.T) {
	// A huge spike inside the warmup slice must not influence the statistics
	// of the evaluated candles: warmup candles are dropped, not pre-fed.
	volumes := make([]float64, 25)
	for i := range volumes {
		volumes[i] = 100
	}
	volumes[3] = 1e9

	h := New(testConfig(20), zap.NewNop())
	r := h.Run(domain.Pair{From: "BTC", To: "USDT"}, testCandles(100, volumes...))

	require.Equal(t, 5, r.TotalEntries)
	for _, d := range r.Decisions {
		require.Equal(t, 100.0, d.Metrics.SMA)
		require.Equal(t, 1.0, d.Metrics.Ratio)
	}
}

func TestRunFlagsVolumeSpike(t *testing.T) {
	volumes := make([]float64, 21)
	for i := range volumes {
		volumes[i] = 100
	}
	volumes[20] = 500

	h := New(testConfig(0), zap.NewNop())
	r := h.Run(domain.Pair{From: "BTC", To: "USDT"}, testCandles(100, volumes...))

	require.Equal(t, 21, r.TotalEntries)

	last := r.Decisions[20]
	// SMA = (19*100 + 500)/20 = 120, ratio ≈ 4.17 above the 3.0 cap.
	require.InDelta(t, 500.0/120.0, last.Metrics.Ratio, 1e-9)
	require.Equal(t, domain.VerdictRejectHighVolume, last.Verdict)
	require.Equal(t, domain.RuleMaxVolumeRatio, last.Rule)
	require.Equal(t, r.RejectionBreakdown[domain.VerdictRejectHighVolume], 1)
}

func TestRunSteadyVolumeAllows(t *testing.T) {
	h := New(testConfig(0), zap.NewNop())

	r := h.Run(domain.Pair{From: "BTC", To: "USDT"}, testCandles(100, repeat(100, 30)...))

	require.Equal(t, 30, r.TotalEntries)
	require.Equal(t, 30, r.AllowedEntries)
	require.Equal(t, 100.0, r.AllowedPct())
	require.Equal(t, 0, r.RejectedEntries)
}

func TestRunCountsAddUp(t *testing.T) {
	volumes := []float64{100, 40, 110, 90, 500, 100, 95, 105, 30, 100, 120, 80, 100, 400, 100}

	h := New(testConfig(0), zap.NewNop())
	r := h.Run(domain.Pair{From: "ETH", To: "USDT"}, testCandles(100, volumes...))

	require.Equal(t, len(volumes), r.TotalEntries)
	require.Equal(t, r.TotalEntries, r.AllowedEntries+r.RejectedEntries)

	var breakdownTotal int
	for _, n := range r.RejectionBreakdown {
		breakdownTotal += n
	}
	require.Equal(t, r.RejectedEntries, breakdownTotal)
	require.Len(t, r.Decisions, r.TotalEntries)
}

func TestRunsAreIndependent(t *testing.T) {
	h := New(testConfig(0), zap.NewNop())
	candles := testCandles(100, repeat(100, 25)...)
	pair := domain.Pair{From: "BTC", To: "USDT"}

	first := h.Run(pair, candles)
	second := h.Run(pair, candles)

	require.NotEqual(t, first.RunID, second.RunID)
	require.Equal(t, first.AllowedEntries, second.AllowedEntries)
	require.Equal(t, first.RejectionBreakdown, second.RejectionBreakdown)
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
