// Package indicators wraps technical indicator computations over candles.
package indicators

import (
	"fmt"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/volatility"
	"github.com/tradekit/volgate/internal/domain"
)

// ATR calculates the Average True Range for the given period.
func ATR(candles []domain.Candle, period int) ([]float64, error) {
	if len(candles) < period+1 {
		return nil, fmt.Errorf("not enough data points for ATR: need %d, got %d", period+1, len(candles))
	}

	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	closes := make([]float64, len(candles))

	for i, c := range candles {
		highs[i], _ = c.High.Float64()
		lows[i], _ = c.Low.Float64()
		closes[i], _ = c.Close.Float64()
	}

	atr := volatility.NewAtrWithPeriod[float64](period)
	highChan := helper.SliceToChan(highs)
	lowChan := helper.SliceToChan(lows)
	closeChan := helper.SliceToChan(closes)
	outputChan := atr.Compute(highChan, lowChan, closeChan)

	return helper.ChanToSlice(outputChan), nil
}

// LastATR returns the most recent ATR value for the given period.
func LastATR(candles []domain.Candle, period int) (float64, error) {
	values, err := ATR(candles, period)
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, fmt.Errorf("ATR produced no values for period %d", period)
	}
	return values[len(values)-1], nil
}
