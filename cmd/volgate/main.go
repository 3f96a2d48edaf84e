package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tradekit/volgate/config"
	"github.com/tradekit/volgate/internal/storage"
	"github.com/tradekit/volgate/internal/storage/decisions"
	"github.com/tradekit/volgate/internal/storage/postgres"
	"go.uber.org/zap"
)

var logger *zap.Logger

var rootCmd = &cobra.Command{
	Use:   "volgate",
	Short: "Volume-based trade entry confirmation",
	Long: `volgate decides whether candle volume confirms a trade entry.

It keeps rolling volume statistics (SMA, EMA, VWAP, z-score, trend) per pair,
gates entries through configurable thresholds, and replays the gate over
historical candles to report how it would have behaved.`,
	SilenceUsage: true,
}

func main() {
	var err error
	logger, err = zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openStore builds the decision store named by the configuration. A "none"
// backend yields a nil store; callers skip persistence in that case.
func openStore(cfg config.StorageConfig) (storage.DecisionStore, error) {
	switch cfg.Backend {
	case config.BackendNone, "":
		return nil, nil
	case config.BackendWAL:
		dir := cfg.Dir
		if dir == "" {
			dir = decisions.DefaultDir
		}
		return decisions.NewWALStore(dir)
	case config.BackendPostgres:
		pg := cfg.Postgres
		if pg.DSN == "" {
			pg.DSN = os.Getenv("VOLGATE_POSTGRES_DSN")
		}
		return postgres.Connect(pg)
	default:
		return nil, errors.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// postgresDefaults returns pool defaults for commands that take the backend
// from a flag rather than a config file. The DSN comes from the environment.
func postgresDefaults() postgres.Config {
	cfg := postgres.DefaultConfig()
	cfg.DSN = os.Getenv("VOLGATE_POSTGRES_DSN")
	return cfg
}
