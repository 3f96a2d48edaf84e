// Package decisions persists volume decisions and profiles in a WAL.
package decisions

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/tradekit/volgate/internal/domain"
	"github.com/vadiminshakov/gowal"
)

const (
	DefaultDir   = "./wal/volumedecisions"
	segmentLimit = 100
	maxSegments  = 10

	decisionKeyPrefix = "volume_decision_"
	profileKeyPrefix  = "volume_profile_"
)

// profileRecord is the persisted form of a profile computation.
type profileRecord struct {
	Pair      string               `json:"pair"`
	Timeframe string               `json:"timeframe"`
	CreatedAt time.Time            `json:"created_at"`
	Profile   domain.VolumeProfile `json:"profile"`
}

// WALStore is an append-only decision store backed by a WAL.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore initializes a WAL-backed decision store.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = DefaultDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "decision_",
		SegmentThreshold: segmentLimit,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init decision WAL")
	}

	return &WALStore{wal: wal}, nil
}

// SaveDecision appends the decision and returns its WAL index as the id.
func (s *WALStore) SaveDecision(decision domain.VolumeDecision) (int64, error) {
	if s == nil || s.wal == nil {
		return 0, errors.New("decision store is not initialized")
	}
	if decision.Pair.IsZero() {
		return 0, fmt.Errorf("decision pair is required")
	}

	payload, err := json.Marshal(decision)
	if err != nil {
		return 0, errors.Wrap(err, "marshal volume decision")
	}

	key := fmt.Sprintf("%s%s", decisionKeyPrefix, decision.Pair.String())

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	if err := s.wal.Write(nextIndex, key, payload); err != nil {
		return 0, errors.Wrap(err, "write volume decision")
	}
	return int64(nextIndex), nil
}

// SaveProfile appends a profile record for the pair and timeframe.
func (s *WALStore) SaveProfile(pair domain.Pair, timeframe string, profile domain.VolumeProfile) error {
	if s == nil || s.wal == nil {
		return errors.New("decision store is not initialized")
	}
	if pair.IsZero() {
		return fmt.Errorf("profile pair is required")
	}

	record := profileRecord{
		Pair:      pair.String(),
		Timeframe: timeframe,
		CreatedAt: time.Now().UTC(),
		Profile:   profile,
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "marshal volume profile")
	}

	key := fmt.Sprintf("%s%s", profileKeyPrefix, pair.String())

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// Decisions returns stored decisions newest first, optionally filtered by
// pair. WAL order is append order, so reversing it yields time-descending.
func (s *WALStore) Decisions(pair *domain.Pair, limit int) ([]domain.VolumeDecision, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("decision store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []domain.VolumeDecision
	for msg := range s.wal.Iterator() {
		if !strings.HasPrefix(msg.Key, decisionKeyPrefix) {
			continue
		}
		if pair != nil && msg.Key != decisionKeyPrefix+pair.String() {
			continue
		}

		var decision domain.VolumeDecision
		if err := json.Unmarshal(msg.Value, &decision); err != nil {
			return nil, errors.Wrap(err, "decode volume decision")
		}
		all = append(all, decision)
	}

	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}

	return all, nil
}

// Profiles returns stored profile records for the pair, newest first.
func (s *WALStore) Profiles(pair domain.Pair) ([]domain.VolumeProfile, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("decision store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []domain.VolumeProfile
	for msg := range s.wal.Iterator() {
		if msg.Key != profileKeyPrefix+pair.String() {
			continue
		}

		var record profileRecord
		if err := json.Unmarshal(msg.Value, &record); err != nil {
			return nil, errors.Wrap(err, "decode volume profile")
		}
		all = append(all, record.Profile)
	}

	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}

	return all, nil
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("decision store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
