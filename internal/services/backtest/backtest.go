// Package backtest evaluates the volume entry gate over historical candles.
package backtest

import (
	"github.com/google/uuid"
	"github.com/tradekit/volgate/internal/domain"
	"github.com/tradekit/volgate/internal/services/analyzer"
	"github.com/tradekit/volgate/internal/services/filter"
	"go.uber.org/zap"
)

// DefaultWarmup is how many leading candles a run skips by default.
const DefaultWarmup = 50

// Config ties together the analyzer and gate settings for one run.
type Config struct {
	// Warmup leading candles are skipped entirely; they are never fed to the
	// analyzer.
	Warmup   int             `yaml:"warmup"`
	Analyzer analyzer.Config `yaml:"analyzer"`
	Filter   filter.Config   `yaml:"filter"`
}

// Report aggregates the outcome of one backtest run.
type Report struct {
	RunID              string
	Pair               domain.Pair
	TotalEntries       int
	AllowedEntries     int
	RejectedEntries    int
	RejectionBreakdown map[domain.Verdict]int
	Decisions          []domain.VolumeDecision
}

// AllowedPct returns the allowed share in percent, 0 for an empty run.
func (r Report) AllowedPct() float64 {
	return pct(r.AllowedEntries, r.TotalEntries)
}

// RejectedPct returns the rejected share in percent, 0 for an empty run.
func (r Report) RejectedPct() float64 {
	return pct(r.RejectedEntries, r.TotalEntries)
}

// BreakdownPct returns a verdict's share of all rejections, 0 when none.
func (r Report) BreakdownPct(v domain.Verdict) float64 {
	return pct(r.RejectionBreakdown[v], r.RejectedEntries)
}

func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// Harness drives a candle sequence through a fresh analyzer and the entry
// gate, sequentially and fully synchronously. Runs over distinct pairs are
// independent and may execute in parallel with one harness each.
type Harness struct {
	cfg    Config
	logger *zap.Logger
}

// New creates a Harness for the given run configuration.
func New(cfg Config, logger *zap.Logger) *Harness {
	return &Harness{cfg: cfg, logger: logger}
}

// Run evaluates every candle after the warmup slice and aggregates the
// verdicts. Empty input, or a warmup consuming the whole sequence, yields a
// zero report; Run never fails.
func (h *Harness) Run(pair domain.Pair, candles []domain.Candle) Report {
	report := Report{
		RunID:              uuid.NewString(),
		Pair:               pair,
		RejectionBreakdown: make(map[domain.Verdict]int),
	}

	rest := candles
	if h.cfg.Warmup > 0 {
		if h.cfg.Warmup >= len(candles) {
			rest = nil
		} else {
			rest = candles[h.cfg.Warmup:]
		}
	}

	an := analyzer.New(h.cfg.Analyzer, h.logger)
	gate := filter.New(h.cfg.Filter)

	for _, candle := range rest {
		metrics := an.Analyze(candle)
		decision := gate.MakeDecision(candle, metrics, pair)
		report.Decisions = append(report.Decisions, decision)

		report.TotalEntries++
		if decision.Verdict == domain.VerdictAllow {
			report.AllowedEntries++
		} else {
			report.RejectedEntries++
			report.RejectionBreakdown[decision.Verdict]++
		}
	}

	h.logger.Info("backtest finished",
		zap.String("run_id", report.RunID),
		zap.String("pair", pair.String()),
		zap.Int("total", report.TotalEntries),
		zap.Int("allowed", report.AllowedEntries),
		zap.Int("rejected", report.RejectedEntries))

	return report
}
