package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tradekit/volgate/config"
	"github.com/tradekit/volgate/internal/domain"
	"github.com/tradekit/volgate/internal/report"
	"github.com/tradekit/volgate/internal/services/analyzer"
	"github.com/tradekit/volgate/internal/services/marketdata"
	"go.uber.org/zap"
)

var profileFlags struct {
	pair           string
	candles        string
	timeframe      string
	storageBackend string
	storageDir     string
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Summarize the volume distribution of a candle file",
	RunE: func(cmd *cobra.Command, args []string) error {
		pair, err := domain.PairFromString(profileFlags.pair)
		if err != nil {
			return errors.Wrap(err, "incorrect 'pair' flag")
		}

		candles, err := marketdata.LoadCSV(profileFlags.candles)
		if err != nil {
			return errors.Wrap(err, "load candles")
		}

		profile := analyzer.CalculateProfile(candles)
		report.Profile(os.Stdout, pair, profileFlags.timeframe, profile)

		store, err := openStore(config.StorageConfig{
			Backend:  profileFlags.storageBackend,
			Dir:      profileFlags.storageDir,
			Postgres: postgresDefaults(),
		})
		if err != nil {
			return err
		}
		if store == nil {
			return nil
		}
		defer store.Close()

		if err := store.SaveProfile(pair, profileFlags.timeframe, profile); err != nil {
			return errors.Wrap(err, "persist profile")
		}
		logger.Info("profile persisted",
			zap.String("pair", pair.String()),
			zap.String("backend", profileFlags.storageBackend))

		return nil
	},
}

func init() {
	f := profileCmd.Flags()
	f.StringVar(&profileFlags.pair, "pair", "BTC_USDT", "trading pair, e.g. BTC_USDT")
	f.StringVar(&profileFlags.candles, "candles", "", "CSV file with historical candles")
	f.StringVar(&profileFlags.timeframe, "timeframe", "1h", "candle timeframe label")
	f.StringVar(&profileFlags.storageBackend, "storage", config.BackendNone, "decision store backend: wal, postgres or none")
	f.StringVar(&profileFlags.storageDir, "storage-dir", "", "WAL directory when --storage=wal")
	profileCmd.MarkFlagRequired("candles")
	rootCmd.AddCommand(profileCmd)
}
