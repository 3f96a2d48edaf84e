package domain

import "time"

// VolumeTrend qualitative direction of recent volume.
type VolumeTrend string

const (
	TrendIncreasing VolumeTrend = "increasing"
	TrendDecreasing VolumeTrend = "decreasing"
	TrendStable     VolumeTrend = "stable"
)

// AnomalyType classifies a volume anomaly by its direction.
type AnomalyType string

const (
	AnomalyNone       AnomalyType = ""
	AnomalyHighVolume AnomalyType = "high_volume"
	AnomalyLowVolume  AnomalyType = "low_volume"
)

// VolumeMetrics is the per-candle snapshot of derived volume statistics.
// It is a pure function of analyzer state at the moment of computation plus
// the candle itself, and is never mutated once produced.
//
// Values are float64: the statistics math (stddev, percentiles, EMA recurrence)
// is floating-point math, so candle decimals are converted on the way in.
type VolumeMetrics struct {
	Timestamp   time.Time   `json:"timestamp"`
	Volume      float64     `json:"volume"`
	SMA         float64     `json:"volume_sma"`
	EMA         float64     `json:"volume_ema"`
	VWAP        float64     `json:"vwap"`
	Ratio       float64     `json:"volume_ratio"`
	ZScore      float64     `json:"z_score"`
	Trend       VolumeTrend `json:"trend"`
	Anomaly     bool        `json:"anomaly"`
	AnomalyType AnomalyType `json:"anomaly_type,omitempty"`
}
