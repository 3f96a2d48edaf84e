package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tradekit/volgate/internal/domain"
	"github.com/tradekit/volgate/internal/report"
	"github.com/tradekit/volgate/internal/services/analyzer"
	"github.com/tradekit/volgate/internal/services/marketdata"
)

// recentMetricsCount bounds how many trailing snapshots the analyze command
// prints.
const recentMetricsCount = 10

var analyzeFlags struct {
	pair    string
	candles string
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute rolling volume metrics over a candle file",
	RunE: func(cmd *cobra.Command, args []string) error {
		pair, err := domain.PairFromString(analyzeFlags.pair)
		if err != nil {
			return errors.Wrap(err, "incorrect 'pair' flag")
		}

		candles, err := marketdata.LoadCSV(analyzeFlags.candles)
		if err != nil {
			return errors.Wrap(err, "load candles")
		}

		registry := analyzer.NewRegistry(analyzer.DefaultConfig(), logger)
		an := registry.For(pair)
		metrics := make([]domain.VolumeMetrics, 0, len(candles))
		for _, candle := range candles {
			metrics = append(metrics, an.Analyze(candle))
		}

		recent := metrics
		if len(recent) > recentMetricsCount {
			recent = recent[len(recent)-recentMetricsCount:]
		}

		report.Metrics(os.Stdout, pair, analyzer.CalculateProfile(candles), recent)
		return nil
	},
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeFlags.pair, "pair", "BTC_USDT", "trading pair, e.g. BTC_USDT")
	f.StringVar(&analyzeFlags.candles, "candles", "", "CSV file with historical candles")
	analyzeCmd.MarkFlagRequired("candles")
	rootCmd.AddCommand(analyzeCmd)
}
