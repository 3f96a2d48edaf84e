package analyzer

import (
	"fmt"
	"math"
	"sort"

	"github.com/tradekit/volgate/internal/domain"
)

// CalculateProfile computes distribution statistics over an arbitrary candle
// set. It is pure: it reads no analyzer state and accepts any list, including
// an empty one, for which it returns a zero profile labeled "unknown".
//
// Percentiles use nearest-rank indexing without interpolation and fall back to
// boundary values when the sample is too small for a stable index.
func CalculateProfile(candles []domain.Candle) domain.VolumeProfile {
	if len(candles) == 0 {
		return domain.VolumeProfile{Period: "unknown"}
	}

	volumes := make([]float64, len(candles))
	var total float64
	for i, c := range candles {
		volumes[i], _ = c.Volume.Float64()
		total += volumes[i]
	}

	count := len(volumes)
	avg := total / float64(count)

	var sq float64
	for _, v := range volumes {
		sq += (v - avg) * (v - avg)
	}
	std := math.Sqrt(sq / float64(count))

	sorted := append([]float64(nil), volumes...)
	sort.Float64s(sorted)

	p25 := sorted[0]
	if count >= 4 {
		p25 = sorted[int(float64(count)*0.25)]
	}
	p50 := sorted[0]
	if count >= 2 {
		p50 = sorted[int(float64(count)*0.50)]
	}
	p75 := sorted[count-1]
	if count >= 4 {
		p75 = sorted[int(float64(count)*0.75)]
	}
	p90 := sorted[count-1]
	if count >= 10 {
		p90 = sorted[int(float64(count)*0.90)]
	}

	return domain.VolumeProfile{
		Period:      fmt.Sprintf("%s to %s", candles[0].Date(), candles[len(candles)-1].Date()),
		Avg:         avg,
		Median:      sorted[count/2],
		P25:         p25,
		P50:         p50,
		P75:         p75,
		P90:         p90,
		Std:         std,
		Total:       total,
		CandleCount: count,
	}
}
