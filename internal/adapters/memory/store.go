// Package memory provides an in-memory implementation of the ledger store.
// Each transaction works on a deep copy of the state which replaces the
// committed state only when the transaction function succeeds.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/ports/secondary"
)

type state struct {
	governance map[identity.Identity]secondary.GovernanceRecord
	epochs     map[identity.Identity]secondary.EpochRecord
	claims     map[identity.Identity]secondary.ClaimRecord
	assets     map[string]secondary.AssetRecord
	accounts   map[identity.Identity]secondary.AssetAccountRecord
	outbox     []secondary.OutboxMessage
}

func newState() *state {
	return &state{
		governance: map[identity.Identity]secondary.GovernanceRecord{},
		epochs:     map[identity.Identity]secondary.EpochRecord{},
		claims:     map[identity.Identity]secondary.ClaimRecord{},
		assets:     map[string]secondary.AssetRecord{},
		accounts:   map[identity.Identity]secondary.AssetAccountRecord{},
	}
}

// clone copies every map and the outbox. Records are plain values, so a
// shallow copy of each map is a deep copy of the state.
func (s *state) clone() *state {
	return &state{
		governance: maps.Clone(s.governance),
		epochs:     maps.Clone(s.epochs),
		claims:     maps.Clone(s.claims),
		assets:     maps.Clone(s.assets),
		accounts:   maps.Clone(s.accounts),
		outbox:     slices.Clone(s.outbox),
	}
}

// Store is a mutex-serialized, snapshot-isolated ledger store.
type Store struct {
	mu      sync.Mutex
	current *state
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{current: newState()}
}

// WithinTx runs fn on a private snapshot and commits it only if fn succeeds.
func (s *Store) WithinTx(ctx context.Context, fn func(tx secondary.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := s.current.clone()
	if err := fn(&tx{state: snapshot}); err != nil {
		return err
	}
	s.current = snapshot
	return nil
}

// View runs fn on a private snapshot that is always discarded.
func (s *Store) View(ctx context.Context, fn func(tx secondary.Tx) error) error {
	s.mu.Lock()
	snapshot := s.current.clone()
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(&tx{state: snapshot})
}

type tx struct {
	state *state
}

func (t *tx) Governance() secondary.GovernanceRepository { return governanceRepo{t.state} }
func (t *tx) Epochs() secondary.EpochRepository         { return epochRepo{t.state} }
func (t *tx) Claims() secondary.ClaimRepository         { return claimRepo{t.state} }
func (t *tx) Assets() secondary.AssetLedger             { return assetLedger{t.state} }
func (t *tx) Outbox() secondary.OutboxWriter            { return outboxWriter{t.state} }

var (
	_ secondary.Store            = (*Store)(nil)
	_ secondary.OutboxRepository = (*Store)(nil)
)
