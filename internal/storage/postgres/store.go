// Package postgres implements the decision store on PostgreSQL.
package postgres

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/pkg/errors"
	"github.com/tradekit/volgate/internal/domain"
)

// Config holds connection settings.
type Config struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"`
	QueryTimeout    time.Duration `yaml:"query_timeout"`
}

// DefaultConfig returns reasonable pool defaults.
func DefaultConfig() Config {
	return Config{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnectTimeout:  30 * time.Second,
		QueryTimeout:    30 * time.Second,
	}
}

// Store persists volume decisions and profiles in PostgreSQL. Both tables are
// append-only; nothing updates or deletes rows.
type Store struct {
	db      *sqlx.DB
	timeout time.Duration
}

// Connect opens the pool, waits for the database with exponential backoff and
// bootstraps the schema.
func Connect(cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres DSN is required")
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = DefaultConfig().QueryTimeout
	}

	db, err := sqlx.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ping := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.QueryTimeout)
		defer cancel()
		return db.PingContext(ctx)
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.MaxElapsedTime = cfg.ConnectTimeout
	if err := backoff.Retry(ping, strategy); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}

	store := &Store{db: db, timeout: cfg.QueryTimeout}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// NewWithDB wraps an existing connection; the schema is assumed present.
func NewWithDB(db *sqlx.DB, timeout time.Duration) *Store {
	return &Store{db: db, timeout: timeout}
}

func (s *Store) initSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS volume_decisions (
			id BIGSERIAL PRIMARY KEY,
			ts TIMESTAMPTZ NOT NULL,
			pair TEXT NOT NULL,
			price DOUBLE PRECISION NOT NULL,
			volume DOUBLE PRECISION NOT NULL,
			volume_sma DOUBLE PRECISION,
			volume_ema DOUBLE PRECISION,
			vwap DOUBLE PRECISION,
			volume_ratio DOUBLE PRECISION,
			z_score DOUBLE PRECISION,
			trend TEXT,
			anomaly BOOLEAN,
			anomaly_type TEXT,
			decision TEXT NOT NULL,
			rule TEXT,
			reason TEXT,
			confidence DOUBLE PRECISION,
			created_at TIMESTAMPTZ DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS volume_profiles (
			id BIGSERIAL PRIMARY KEY,
			ts TIMESTAMPTZ NOT NULL,
			pair TEXT NOT NULL,
			timeframe TEXT NOT NULL,
			period TEXT,
			avg_volume DOUBLE PRECISION,
			median_volume DOUBLE PRECISION,
			p25_volume DOUBLE PRECISION,
			p50_volume DOUBLE PRECISION,
			p75_volume DOUBLE PRECISION,
			p90_volume DOUBLE PRECISION,
			std_volume DOUBLE PRECISION,
			total_volume DOUBLE PRECISION,
			candle_count INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_volume_decisions_pair ON volume_decisions(pair)`,
		`CREATE INDEX IF NOT EXISTS idx_volume_decisions_ts ON volume_decisions(ts)`,
		`CREATE INDEX IF NOT EXISTS idx_volume_profiles_pair ON volume_profiles(pair)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "init schema")
		}
	}
	return nil
}

// SaveDecision appends a decision row and returns its id.
func (s *Store) SaveDecision(decision domain.VolumeDecision) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	query := `
		INSERT INTO volume_decisions (
			ts, pair, price, volume, volume_sma, volume_ema, vwap,
			volume_ratio, z_score, trend, anomaly, anomaly_type,
			decision, rule, reason, confidence
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id`

	var id int64
	err := s.db.QueryRowxContext(ctx, query,
		decision.Timestamp, decision.Pair.String(), decision.Price, decision.Volume,
		decision.Metrics.SMA, decision.Metrics.EMA, decision.Metrics.VWAP,
		decision.Metrics.Ratio, decision.Metrics.ZScore, string(decision.Metrics.Trend),
		decision.Metrics.Anomaly, string(decision.Metrics.AnomalyType),
		string(decision.Verdict), string(decision.Rule), decision.Reason, decision.Confidence).
		Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "insert volume decision")
	}

	return id, nil
}

// SaveProfile appends a profile row.
func (s *Store) SaveProfile(pair domain.Pair, timeframe string, profile domain.VolumeProfile) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	query := `
		INSERT INTO volume_profiles (
			ts, pair, timeframe, period, avg_volume, median_volume,
			p25_volume, p50_volume, p75_volume, p90_volume,
			std_volume, total_volume, candle_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := s.db.ExecContext(ctx, query,
		time.Now().UTC(), pair.String(), timeframe, profile.Period,
		profile.Avg, profile.Median, profile.P25, profile.P50, profile.P75,
		profile.P90, profile.Std, profile.Total, profile.CandleCount)
	if err != nil {
		return errors.Wrap(err, "insert volume profile")
	}

	return nil
}

type decisionRow struct {
	Timestamp   time.Time `db:"ts"`
	Pair        string    `db:"pair"`
	Price       float64   `db:"price"`
	Volume      float64   `db:"volume"`
	SMA         float64   `db:"volume_sma"`
	EMA         float64   `db:"volume_ema"`
	VWAP        float64   `db:"vwap"`
	Ratio       float64   `db:"volume_ratio"`
	ZScore      float64   `db:"z_score"`
	Trend       string    `db:"trend"`
	Anomaly     bool      `db:"anomaly"`
	AnomalyType string    `db:"anomaly_type"`
	Decision    string    `db:"decision"`
	Rule        string    `db:"rule"`
	Reason      string    `db:"reason"`
	Confidence  float64   `db:"confidence"`
}

// Decisions returns stored decisions newest first, optionally filtered by
// pair, limited to at most limit rows.
func (s *Store) Decisions(pair *domain.Pair, limit int) ([]domain.VolumeDecision, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT ts, pair, price, volume, volume_sma, volume_ema, vwap,
		       volume_ratio, z_score, trend, anomaly, anomaly_type,
		       decision, rule, reason, confidence
		FROM volume_decisions`
	args := []interface{}{}

	if pair != nil {
		query += ` WHERE pair = $1 ORDER BY ts DESC LIMIT $2`
		args = append(args, pair.String(), limit)
	} else {
		query += ` ORDER BY ts DESC LIMIT $1`
		args = append(args, limit)
	}

	var rows []decisionRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "select volume decisions")
	}

	result := make([]domain.VolumeDecision, 0, len(rows))
	for _, row := range rows {
		p, err := domain.PairFromString(row.Pair)
		if err != nil {
			return nil, errors.Wrap(err, "decode stored pair")
		}

		result = append(result, domain.VolumeDecision{
			Timestamp: row.Timestamp,
			Pair:      p,
			Price:     row.Price,
			Volume:    row.Volume,
			Metrics: domain.VolumeMetrics{
				Timestamp:   row.Timestamp,
				Volume:      row.Volume,
				SMA:         row.SMA,
				EMA:         row.EMA,
				VWAP:        row.VWAP,
				Ratio:       row.Ratio,
				ZScore:      row.ZScore,
				Trend:       domain.VolumeTrend(row.Trend),
				Anomaly:     row.Anomaly,
				AnomalyType: domain.AnomalyType(row.AnomalyType),
			},
			Verdict:    domain.Verdict(row.Decision),
			Rule:       domain.RejectRule(row.Rule),
			Reason:     row.Reason,
			Confidence: row.Confidence,
		})
	}

	return result, nil
}

// Close closes the pool.
func (s *Store) Close() error {
	return s.db.Close()
}
