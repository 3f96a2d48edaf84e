package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Candle single OHLCV candlestick. Candles arrive from a candle source in
// ascending timestamp order and are never mutated afterwards.
type Candle struct {
	Timestamp time.Time
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
}

// Date returns the candle date as YYYY-MM-DD.
func (c Candle) Date() string {
	return c.Timestamp.Format("2006-01-02")
}
