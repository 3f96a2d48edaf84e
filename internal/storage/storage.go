// Package storage defines the decision store contract shared by backends.
package storage

import "github.com/tradekit/volgate/internal/domain"

// DecisionStore persists volume decisions and profiles. Stores are
// append-only: records are never updated or deleted, and every decision
// retains its full metrics snapshot for later audit and replay.
type DecisionStore interface {
	// SaveDecision appends a decision and returns its record id.
	SaveDecision(decision domain.VolumeDecision) (int64, error)
	// SaveProfile appends a profile computed for the pair and timeframe.
	SaveProfile(pair domain.Pair, timeframe string, profile domain.VolumeProfile) error
	// Decisions returns stored decisions newest first, optionally filtered by
	// pair, limited to at most limit records.
	Decisions(pair *domain.Pair, limit int) ([]domain.VolumeDecision, error)
	Close() error
}
