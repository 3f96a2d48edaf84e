package domain

// VolumeProfile aggregates distribution statistics over a candle set.
// It is recomputable from any candle list and carries no analyzer state.
type VolumeProfile struct {
	Period      string  `json:"period"`
	Avg         float64 `json:"avg_volume"`
	Median      float64 `json:"median_volume"`
	P25         float64 `json:"p25_volume"`
	P50         float64 `json:"p50_volume"`
	P75         float64 `json:"p75_volume"`
	P90         float64 `json:"p90_volume"`
	Std         float64 `json:"std_volume"`
	Total       float64 `json:"total_volume"`
	CandleCount int     `json:"candle_count"`
}
