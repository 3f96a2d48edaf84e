package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tradekit/volgate/config"
	"github.com/tradekit/volgate/internal/domain"
	"github.com/tradekit/volgate/internal/report"
)

var decisionsFlags struct {
	pair           string
	limit          int
	storageBackend string
	storageDir     string
}

var decisionsCmd = &cobra.Command{
	Use:   "decisions",
	Short: "List stored gate decisions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		var pairFilter *domain.Pair
		if decisionsFlags.pair != "" {
			pair, err := domain.PairFromString(decisionsFlags.pair)
			if err != nil {
				return errors.Wrap(err, "incorrect 'pair' flag")
			}
			pairFilter = &pair
		}

		store, err := openStore(config.StorageConfig{
			Backend:  decisionsFlags.storageBackend,
			Dir:      decisionsFlags.storageDir,
			Postgres: postgresDefaults(),
		})
		if err != nil {
			return err
		}
		if store == nil {
			return errors.New("decisions requires a storage backend, pass --storage wal or --storage postgres")
		}
		defer store.Close()

		list, err := store.Decisions(pairFilter, decisionsFlags.limit)
		if err != nil {
			return errors.Wrap(err, "read decisions")
		}

		report.Decisions(os.Stdout, list)
		return nil
	},
}

func init() {
	f := decisionsCmd.Flags()
	f.StringVar(&decisionsFlags.pair, "pair", "", "filter by trading pair, e.g. BTC_USDT")
	f.IntVar(&decisionsFlags.limit, "limit", 50, "maximum records to show")
	f.StringVar(&decisionsFlags.storageBackend, "storage", config.BackendWAL, "decision store backend: wal or postgres")
	f.StringVar(&decisionsFlags.storageDir, "storage-dir", "", "WAL directory when --storage=wal")
	rootCmd.AddCommand(decisionsCmd)
}
