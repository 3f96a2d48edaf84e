// Package filter gates trade entries on volume confirmation.
package filter

import (
	"fmt"
	"math"

	"github.com/tradekit/volgate/internal/domain"
)

// Config holds the entry gate thresholds.
type Config struct {
	// MinVolumeRatio rejects candles whose volume is below this multiple of
	// the volume SMA.
	MinVolumeRatio float64 `yaml:"min_volume_ratio"`
	// MaxVolumeRatio rejects volume spikes above this multiple of the SMA.
	MaxVolumeRatio float64 `yaml:"max_volume_ratio"`
	// HighVolumeZScore rejects z-scores above this value.
	HighVolumeZScore float64 `yaml:"high_volume_zscore"`
	// LowVolumeZScore rejects z-scores below this value.
	LowVolumeZScore float64 `yaml:"low_volume_zscore"`
	// RequireIncreasingVolume rejects candles whose volume trend is not
	// increasing.
	RequireIncreasingVolume bool `yaml:"require_increasing_volume"`
	// VWAPDistancePct rejects prices further than this percentage from VWAP.
	VWAPDistancePct float64 `yaml:"vwap_distance_pct"`
}

// DefaultConfig returns the standard gate thresholds.
func DefaultConfig() Config {
	return Config{
		MinVolumeRatio:   0.5,
		MaxVolumeRatio:   3.0,
		HighVolumeZScore: 2.0,
		LowVolumeZScore:  -2.0,
		VWAPDistancePct:  0.5,
	}
}

// Result is the outcome of evaluating the gate rules against one snapshot.
type Result struct {
	Allowed    bool
	Rule       domain.RejectRule
	Reason     string
	Confidence float64
}

// Filter decides whether volume confirms a trade entry. It holds no mutable
// state: Evaluate is a deterministic function of (metrics, price, config).
type Filter struct {
	cfg Config
}

// New creates a Filter with the given thresholds.
func New(cfg Config) *Filter {
	return &Filter{cfg: cfg}
}

// Evaluate walks the gate rules in order. The first failing rule
// short-circuits and determines the reason and confidence; only the VWAP
// proximity bonus applies on the allow path.
func (f *Filter) Evaluate(metrics domain.VolumeMetrics, price float64) Result {
	confidence := 1.0

	if metrics.Ratio < f.cfg.MinVolumeRatio {
		return Result{
			Rule:       domain.RuleMinVolumeRatio,
			Reason:     fmt.Sprintf("volume too low: %.2fx average (min: %gx)", metrics.Ratio, f.cfg.MinVolumeRatio),
			Confidence: confidence * 0.3,
		}
	}

	if metrics.Ratio > f.cfg.MaxVolumeRatio {
		return Result{
			Rule:       domain.RuleMaxVolumeRatio,
			Reason:     fmt.Sprintf("volume spike anomaly: %.2fx average (max: %gx)", metrics.Ratio, f.cfg.MaxVolumeRatio),
			Confidence: confidence * 0.2,
		}
	}

	if metrics.ZScore > f.cfg.HighVolumeZScore {
		return Result{
			Rule:       domain.RuleHighVolumeZScore,
			Reason:     fmt.Sprintf("high volume anomaly: z-score %.2f (threshold: %g)", metrics.ZScore, f.cfg.HighVolumeZScore),
			Confidence: confidence * 0.4,
		}
	}

	if metrics.ZScore < f.cfg.LowVolumeZScore {
		return Result{
			Rule:       domain.RuleLowVolumeZScore,
			Reason:     fmt.Sprintf("low volume anomaly: z-score %.2f (threshold: %g)", metrics.ZScore, f.cfg.LowVolumeZScore),
			Confidence: confidence * 0.3,
		}
	}

	if f.cfg.RequireIncreasingVolume && metrics.Trend != domain.TrendIncreasing {
		return Result{
			Rule:       domain.RuleVolumeTrend,
			Reason:     fmt.Sprintf("volume trend not increasing: %s", metrics.Trend),
			Confidence: confidence * 0.6,
		}
	}

	if metrics.VWAP > 0 {
		distancePct := math.Abs(price-metrics.VWAP) / metrics.VWAP * 100
		if distancePct > f.cfg.VWAPDistancePct {
			return Result{
				Rule:       domain.RuleVWAPDistance,
				Reason:     fmt.Sprintf("price too far from VWAP: %.2f%% (max: %g%%)", distancePct, f.cfg.VWAPDistancePct),
				Confidence: confidence * 0.7,
			}
		}
		// price close to VWAP is a positive signal
		confidence *= 1.2
	}

	if confidence > 1.0 {
		confidence = 1.0
	}

	return Result{
		Allowed:    true,
		Rule:       domain.RuleNone,
		Reason:     fmt.Sprintf("volume confirms entry: %.2fx average, trend: %s", metrics.Ratio, metrics.Trend),
		Confidence: confidence,
	}
}

// MakeDecision wraps Evaluate into a persistable decision for the candle.
func (f *Filter) MakeDecision(candle domain.Candle, metrics domain.VolumeMetrics, pair domain.Pair) domain.VolumeDecision {
	price, _ := candle.Close.Float64()
	volume, _ := candle.Volume.Float64()

	result := f.Evaluate(metrics, price)

	return domain.VolumeDecision{
		Timestamp:  candle.Timestamp,
		Pair:       pair,
		Price:      price,
		Volume:     volume,
		Metrics:    metrics,
		Verdict:    domain.VerdictForRule(result.Rule),
		Rule:       result.Rule,
		Reason:     result.Reason,
		Confidence: result.Confidence,
	}
}
