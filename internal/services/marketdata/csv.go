// Package marketdata supplies candle series to the volume core.
package marketdata

import (
	"encoding/csv"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/tradekit/volgate/internal/domain"
)

// LoadCSV reads candles from a CSV file with rows of
// timestamp,open,high,low,close,volume where timestamp is epoch seconds.
// Candles are returned sorted by ascending timestamp, the order the analyzer
// requires.
func LoadCSV(path string) ([]domain.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open candle file")
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "parse candle file")
	}

	candles := make([]domain.Candle, 0, len(records))
	for i, record := range records {
		candle, err := parseRecord(record)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i+1)
		}
		candles = append(candles, candle)
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Timestamp.Before(candles[j].Timestamp)
	})

	return candles, nil
}

// WriteCSV writes candles in the format LoadCSV reads, appending to the file.
func WriteCSV(path string, candles []domain.Candle) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "open candle file")
	}
	defer f.Close()

	data := make([][]string, 0, len(candles))
	for _, c := range candles {
		data = append(data, []string{
			strconv.FormatInt(c.Timestamp.Unix(), 10),
			c.Open.String(),
			c.High.String(),
			c.Low.String(),
			c.Close.String(),
			c.Volume.String(),
		})
	}

	w := csv.NewWriter(f)
	return w.WriteAll(data)
}

func parseRecord(record []string) (domain.Candle, error) {
	if len(record) != 6 {
		return domain.Candle{}, errors.Errorf("expected 6 fields, got %d", len(record))
	}

	ts, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return domain.Candle{}, errors.Wrap(err, "parse timestamp")
	}

	values := make([]decimal.Decimal, 5)
	names := []string{"open", "high", "low", "close", "volume"}
	for i := 0; i < 5; i++ {
		values[i], err = decimal.NewFromString(record[i+1])
		if err != nil {
			return domain.Candle{}, errors.Wrapf(err, "parse %s", names[i])
		}
	}

	return domain.Candle{
		Timestamp: time.Unix(ts, 0).UTC(),
		Open:      values[0],
		High:      values[1],
		Low:       values[2],
		Close:     values[3],
		Volume:    values[4],
	}, nil
}
