package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tradekit/volgate/internal/domain"
	"github.com/tradekit/volgate/internal/report"
	"github.com/tradekit/volgate/internal/services/marketdata"
	"github.com/tradekit/volgate/internal/services/sizing"
)

var sizeFlags struct {
	pair         string
	candles      string
	accountValue float64
	price        float64
	riskPct      float64
	atrPeriod    int
}

var sizeCmd = &cobra.Command{
	Use:   "size",
	Short: "Recommend a volatility-adjusted position size",
	RunE: func(cmd *cobra.Command, args []string) error {
		pair, err := domain.PairFromString(sizeFlags.pair)
		if err != nil {
			return errors.Wrap(err, "incorrect 'pair' flag")
		}
		if sizeFlags.accountValue <= 0 {
			return errors.New("--account must be positive")
		}

		candles, err := marketdata.LoadCSV(sizeFlags.candles)
		if err != nil {
			return errors.Wrap(err, "load candles")
		}
		if len(candles) == 0 {
			return errors.New("candle file is empty")
		}

		price := sizeFlags.price
		if price <= 0 {
			price, _ = candles[len(candles)-1].Close.Float64()
		}
		if price <= 0 {
			return errors.New("cannot determine entry price, pass --price")
		}

		cfg := sizing.DefaultConfig()
		if sizeFlags.atrPeriod > 0 {
			cfg.ATRPeriod = sizeFlags.atrPeriod
		}
		sizer := sizing.New(cfg, logger)
		result := sizer.Recommend(pair, candles, sizeFlags.accountValue, price, sizeFlags.riskPct)

		report.Sizing(os.Stdout, pair, price, result)
		return nil
	},
}

func init() {
	f := sizeCmd.Flags()
	f.StringVar(&sizeFlags.pair, "pair", "BTC_USDT", "trading pair, e.g. BTC_USDT")
	f.StringVar(&sizeFlags.candles, "candles", "", "CSV file with historical candles")
	f.Float64Var(&sizeFlags.accountValue, "account", 0, "account value in quote currency")
	f.Float64Var(&sizeFlags.price, "price", 0, "entry price, defaults to the last close")
	f.Float64Var(&sizeFlags.riskPct, "risk", 0, fmt.Sprintf("risk per trade as a fraction, default %.2f", sizing.DefaultConfig().DefaultRiskPct))
	f.IntVar(&sizeFlags.atrPeriod, "atr-period", 0, "ATR lookback, default 14")
	sizeCmd.MarkFlagRequired("candles")
	sizeCmd.MarkFlagRequired("account")
	rootCmd.AddCommand(sizeCmd)
}
