// Package store implements the persistence tiers and the multi-tier
// fan-out/fallback composition over them.
//
// Every tier is a named blob store keyed by logical key. Saves fan out to all
// tiers so the data survives any single backend being cleared or unavailable;
// loads fall back through the tiers in configured order. There is no
// cross-tier transaction: after a partial save the tiers may disagree and the
// first healthy one wins on the next load.
package store

import (
	"context"

	"scanledger/internal/logging"
)

// Logical blob keys shared by all tiers.
const (
	KeyScanned = "scannedBarcodes"
	KeyDeleted = "deletedBarcodes"
)

// Tier is a single storage backend. Get returns (nil, nil) when the key has
// no data; that is not an error.
type Tier interface {
	Name() string
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, blob []byte) error
}

// MultiTierStore composes an ordered list of tiers. It never returns an
// error to callers: tier failures are logged and counted, and a failed load
// simply falls through to the next tier.
//
// Like the ledger, a MultiTierStore is owned by a single session and is not
// safe for concurrent use.
type MultiTierStore struct {
	tiers    []Tier
	log      logging.Logger
	errCount int
}

func NewMultiTierStore(log logging.Logger, tiers ...Tier) *MultiTierStore {
	return &MultiTierStore{tiers: tiers, log: log}
}

// Load returns the blob for key from the first tier that has data. Tier
// errors and empty tiers both fall through; when every tier comes up empty
// the result is nil, which callers treat as "no data yet".
func (s *MultiTierStore) Load(ctx context.Context, key string) []byte {
	for _, t := range s.tiers {
		data, err := t.Get(ctx, key)
		if err != nil {
			s.errCount++
			s.log.Warn(ctx, "tier read failed", "tier", t.Name(), "key", key, "error", err)
			continue
		}
		if len(data) == 0 {
			continue
		}
		return data
	}
	return nil
}

// Save writes the blob to every tier. A failing tier is logged and counted
// but never stops the remaining writes and never fails the caller.
func (s *MultiTierStore) Save(ctx context.Context, key string, blob []byte) {
	for _, t := range s.tiers {
		if err := t.Set(ctx, key, blob); err != nil {
			s.errCount++
			s.log.Warn(ctx, "tier write failed", "tier", t.Name(), "key", key, "error", err)
		}
	}
}

// ErrCount reports how many tier operations have failed since creation.
// Diagnostics only.
func (s *MultiTierStore) ErrCount() int { return s.errCount }
