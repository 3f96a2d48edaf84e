package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tradekit/volgate/config"
	"github.com/tradekit/volgate/internal/domain"
	"github.com/tradekit/volgate/internal/report"
	"github.com/tradekit/volgate/internal/services/backtest"
	"github.com/tradekit/volgate/internal/services/marketdata"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var backtestFlags struct {
	configFile string
	pair       string
	candles    string
	timeframe  string
	warmup     int

	smaPeriods int
	emaPeriods int

	minVolumeRatio   float64
	maxVolumeRatio   float64
	highZScore       float64
	lowZScore        float64
	requireIncrease  bool
	vwapDistancePct  float64

	storageBackend string
	storageDir     string
}

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay the entry gate over historical candles",
	RunE: func(cmd *cobra.Command, args []string) error {
		configs, err := backtestConfigs()
		if err != nil {
			return err
		}

		var g errgroup.Group
		reports := make([]backtest.Report, len(configs))
		for i, cfg := range configs {
			g.Go(func() error {
				candles, err := marketdata.LoadCSV(cfg.CandlesFile)
				if err != nil {
					return errors.Wrapf(err, "load candles for %s", cfg.Pair)
				}

				harness := backtest.New(cfg.Backtest, logger.With(zap.String("pair", cfg.Pair.String())))
				reports[i] = harness.Run(cfg.Pair, candles)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for i, cfg := range configs {
			report.Backtest(os.Stdout, cfg.Backtest, reports[i])
			if err := persistDecisions(cfg, reports[i]); err != nil {
				return err
			}
		}

		return nil
	},
}

// backtestConfigs builds run configurations from either a YAML file or the
// single-pair command line flags. The YAML path wins when both are given.
func backtestConfigs() ([]config.Config, error) {
	if backtestFlags.configFile != "" {
		return config.Load(backtestFlags.configFile)
	}

	pair, err := domain.PairFromString(backtestFlags.pair)
	if err != nil {
		return nil, errors.Wrap(err, "incorrect 'pair' flag")
	}
	if backtestFlags.candles == "" {
		return nil, errors.New("either --config or --candles is required")
	}

	cfg := config.Default(pair)
	cfg.CandlesFile = backtestFlags.candles
	cfg.Timeframe = backtestFlags.timeframe
	cfg.Backtest.Warmup = backtestFlags.warmup
	cfg.Backtest.Analyzer.SMAPeriods = backtestFlags.smaPeriods
	cfg.Backtest.Analyzer.EMAPeriods = backtestFlags.emaPeriods
	cfg.Backtest.Filter.MinVolumeRatio = backtestFlags.minVolumeRatio
	cfg.Backtest.Filter.MaxVolumeRatio = backtestFlags.maxVolumeRatio
	cfg.Backtest.Filter.HighVolumeZScore = backtestFlags.highZScore
	cfg.Backtest.Filter.LowVolumeZScore = backtestFlags.lowZScore
	cfg.Backtest.Filter.RequireIncreasingVolume = backtestFlags.requireIncrease
	cfg.Backtest.Filter.VWAPDistancePct = backtestFlags.vwapDistancePct
	cfg.Storage.Backend = backtestFlags.storageBackend
	cfg.Storage.Dir = backtestFlags.storageDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return []config.Config{cfg}, nil
}

func persistDecisions(cfg config.Config, r backtest.Report) error {
	store, err := openStore(cfg.Storage)
	if err != nil {
		return err
	}
	if store == nil {
		return nil
	}
	defer store.Close()

	for _, decision := range r.Decisions {
		if _, err := store.SaveDecision(decision); err != nil {
			return errors.Wrapf(err, "persist decision for %s", cfg.Pair)
		}
	}

	logger.Info("decisions persisted",
		zap.String("pair", cfg.Pair.String()),
		zap.String("backend", cfg.Storage.Backend),
		zap.Int("count", len(r.Decisions)))

	return nil
}

func init() {
	f := backtestCmd.Flags()
	f.StringVar(&backtestFlags.configFile, "config", "", "YAML file with per-pair run configurations")
	f.StringVar(&backtestFlags.pair, "pair", "BTC_USDT", "trading pair, e.g. BTC_USDT")
	f.StringVar(&backtestFlags.candles, "candles", "", "CSV file with historical candles")
	f.StringVar(&backtestFlags.timeframe, "timeframe", "1h", "candle timeframe label")
	f.IntVar(&backtestFlags.warmup, "warmup", backtest.DefaultWarmup, "leading candles skipped before gating starts")
	f.IntVar(&backtestFlags.smaPeriods, "sma", 20, "volume SMA lookback")
	f.IntVar(&backtestFlags.emaPeriods, "ema", 20, "volume EMA lookback")
	f.Float64Var(&backtestFlags.minVolumeRatio, "min-volume-ratio", 0.5, "reject below this volume/SMA ratio")
	f.Float64Var(&backtestFlags.maxVolumeRatio, "max-volume-ratio", 3.0, "reject above this volume/SMA ratio")
	f.Float64Var(&backtestFlags.highZScore, "high-zscore", 2.0, "reject z-scores above this value")
	f.Float64Var(&backtestFlags.lowZScore, "low-zscore", -2.0, "reject z-scores below this value")
	f.BoolVar(&backtestFlags.requireIncrease, "require-increasing", false, "reject when volume trend is not increasing")
	f.Float64Var(&backtestFlags.vwapDistancePct, "vwap-distance", 0.5, "reject prices further than this percent from VWAP")
	f.StringVar(&backtestFlags.storageBackend, "storage", config.BackendNone, "decision store backend: wal, postgres or none")
	f.StringVar(&backtestFlags.storageDir, "storage-dir", "", "WAL directory when --storage=wal")
	rootCmd.AddCommand(backtestCmd)
}
