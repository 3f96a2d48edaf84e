// Package analyzer computes rolling volume statistics over a candle stream.
package analyzer

import (
	"math"
	"sync"

	"github.com/tradekit/volgate/internal/domain"
	"go.uber.org/zap"
)

const (
	DefaultSMAPeriods    = 20
	DefaultEMAPeriods    = 20
	DefaultAnomalyZScore = 2.5

	// vwapWindow bounds how many trailing (price, volume) pairs VWAP reads.
	vwapWindow = 50
	// trendPeriods is how many recent samples the trend split compares.
	trendPeriods = 5
	// trendChangePct is the half-to-half mean change that flips the trend.
	trendChangePct = 10.0
	// zScoreMinSamples is the window size below which the z-score stays 0.
	zScoreMinSamples = 10
)

// Config tunes the rolling windows and the anomaly threshold. The anomaly
// threshold is independent from the entry gate's z-score thresholds: the
// analyzer flags only extreme samples while the gate stays separately tunable.
type Config struct {
	SMAPeriods    int     `yaml:"sma_periods"`
	EMAPeriods    int     `yaml:"ema_periods"`
	AnomalyZScore float64 `yaml:"anomaly_zscore"`
}

// DefaultConfig returns the standard 20-period configuration.
func DefaultConfig() Config {
	return Config{
		SMAPeriods:    DefaultSMAPeriods,
		EMAPeriods:    DefaultEMAPeriods,
		AnomalyZScore: DefaultAnomalyZScore,
	}
}

func (c Config) withDefaults() Config {
	if c.SMAPeriods <= 0 {
		c.SMAPeriods = DefaultSMAPeriods
	}
	if c.EMAPeriods <= 0 {
		c.EMAPeriods = DefaultEMAPeriods
	}
	if c.AnomalyZScore <= 0 {
		c.AnomalyZScore = DefaultAnomalyZScore
	}
	return c
}

type priceVolume struct {
	price  float64
	volume float64
}

// Analyzer derives per-candle volume metrics for a single pair.
//
// An Analyzer holds mutable rolling state scoped to one chronological candle
// stream. It has no internal clock and trusts caller ordering. It is not safe
// for concurrent use; run one instance per pair and partition pairs across
// instances instead of sharing one.
type Analyzer struct {
	cfg    Config
	logger *zap.Logger

	// window keeps the most recent 2*max(sma, ema) volumes.
	window    []float64
	windowCap int
	// pv is append-only; only the trailing vwapWindow entries are read.
	pv []priceVolume

	prevEMA float64
	hasEMA  bool
}

// New creates an Analyzer for one candle stream.
func New(cfg Config, logger *zap.Logger) *Analyzer {
	cfg = cfg.withDefaults()
	periods := cfg.SMAPeriods
	if cfg.EMAPeriods > periods {
		periods = cfg.EMAPeriods
	}
	return &Analyzer{
		cfg:       cfg,
		logger:    logger,
		windowCap: periods * 2,
	}
}

// Analyze ingests the next candle and returns its metrics snapshot.
// This is the analyzer's single mutation point.
func (a *Analyzer) Analyze(candle domain.Candle) domain.VolumeMetrics {
	volume, _ := candle.Volume.Float64()
	closePrice, _ := candle.Close.Float64()

	a.push(volume)
	a.pv = append(a.pv, priceVolume{price: closePrice, volume: volume})

	sma := a.sma()
	ema := a.nextEMA(volume)
	vwap := a.vwap()

	ratio := 1.0
	if sma > 0 {
		ratio = volume / sma
	}

	z := a.zScore(volume)
	anomaly, anomalyType := classifyAnomaly(z, a.cfg.AnomalyZScore)

	return domain.VolumeMetrics{
		Timestamp:   candle.Timestamp,
		Volume:      volume,
		SMA:         sma,
		EMA:         ema,
		VWAP:        vwap,
		Ratio:       ratio,
		ZScore:      z,
		Trend:       detectTrend(a.window),
		Anomaly:     anomaly,
		AnomalyType: anomalyType,
	}
}

// SampleCount returns how many volume samples the rolling window holds.
func (a *Analyzer) SampleCount() int {
	return len(a.window)
}

func (a *Analyzer) push(volume float64) {
	a.window = append(a.window, volume)
	if len(a.window) > a.windowCap {
		a.window = a.window[1:]
	}
}

// sma averages the last SMAPeriods volumes, degrading to the mean of whatever
// is available below the period count.
func (a *Analyzer) sma() float64 {
	if len(a.window) == 0 {
		return 0
	}
	n := a.cfg.SMAPeriods
	if len(a.window) < n {
		n = len(a.window)
	}
	var sum float64
	for _, v := range a.window[len(a.window)-n:] {
		sum += v
	}
	return sum / float64(n)
}

// nextEMA advances the EMA recurrence, seeding to the current volume on the
// first sample. The analyzer owns the previous value; callers never thread it.
func (a *Analyzer) nextEMA(current float64) float64 {
	if !a.hasEMA {
		a.prevEMA = current
		a.hasEMA = true
		return current
	}
	multiplier := 2 / (float64(a.cfg.EMAPeriods) + 1)
	a.prevEMA = current*multiplier + a.prevEMA*(1-multiplier)
	return a.prevEMA
}

// vwap computes Σ(price·volume)/Σ(volume) over the trailing window,
// 0 when the total volume is 0.
func (a *Analyzer) vwap() float64 {
	start := 0
	if len(a.pv) > vwapWindow {
		start = len(a.pv) - vwapWindow
	}

	var totalPV, totalVolume float64
	for _, e := range a.pv[start:] {
		totalPV += e.price * e.volume
		totalVolume += e.volume
	}

	if totalVolume <= 0 {
		return 0
	}
	return totalPV / totalVolume
}

// zScore standardizes the current volume against the whole retained window
// using the population stddev. Below zScoreMinSamples it stays 0.
func (a *Analyzer) zScore(volume float64) float64 {
	if len(a.window) < zScoreMinSamples {
		return 0
	}

	var sum float64
	for _, v := range a.window {
		sum += v
	}
	mean := sum / float64(len(a.window))

	var sq float64
	for _, v := range a.window {
		sq += (v - mean) * (v - mean)
	}
	std := math.Sqrt(sq / float64(len(a.window)))
	if std == 0 {
		return 0
	}

	return (volume - mean) / std
}

// detectTrend splits the most recent trendPeriods samples into two halves and
// compares their means. Fewer samples than that resolve to stable.
func detectTrend(volumes []float64) domain.VolumeTrend {
	if len(volumes) < trendPeriods {
		return domain.TrendStable
	}

	recent := volumes[len(volumes)-trendPeriods:]
	half := trendPeriods / 2

	var firstSum, secondSum float64
	for _, v := range recent[:half] {
		firstSum += v
	}
	for _, v := range recent[half:] {
		secondSum += v
	}
	avgFirst := firstSum / float64(half)
	avgSecond := secondSum / float64(trendPeriods-half)

	if avgFirst <= 0 {
		return domain.TrendStable
	}

	changePct := (avgSecond - avgFirst) / avgFirst * 100
	switch {
	case changePct > trendChangePct:
		return domain.TrendIncreasing
	case changePct < -trendChangePct:
		return domain.TrendDecreasing
	default:
		return domain.TrendStable
	}
}

func classifyAnomaly(z, threshold float64) (bool, domain.AnomalyType) {
	switch {
	case z > threshold:
		return true, domain.AnomalyHighVolume
	case z < -threshold:
		return true, domain.AnomalyLowVolume
	default:
		return false, domain.AnomalyNone
	}
}

// Registry hands out one Analyzer per pair so multi-pair callers never share
// rolling state between streams. Only the registry itself is synchronized.
type Registry struct {
	cfg    Config
	logger *zap.Logger

	mu        sync.Mutex
	analyzers map[string]*Analyzer
}

// NewRegistry creates a registry producing analyzers with the given config.
func NewRegistry(cfg Config, logger *zap.Logger) *Registry {
	return &Registry{
		cfg:       cfg,
		logger:    logger,
		analyzers: make(map[string]*Analyzer),
	}
}

// For returns the analyzer owning the given pair's stream, creating it on
// first use.
func (r *Registry) For(pair domain.Pair) *Analyzer {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pair.String()
	a, ok := r.analyzers[key]
	if !ok {
		a = New(r.cfg, r.logger)
		r.analyzers[key] = a
	}
	return a
}
