package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jonathan/smartmatch/internal/logger"
	"github.com/jonathan/smartmatch/internal/matching"
	"go.uber.org/zap"
)

// SnapshotStore holds one serialized catalog snapshot.
type SnapshotStore interface {
	// Load returns the snapshot and whether one was present.
	Load(ctx context.Context) ([]byte, bool, error)
	Save(ctx context.Context, data []byte, ttl time.Duration) error
	Delete(ctx context.Context) error
}

// Cached serves catalog snapshots from a SnapshotStore and refills it from
// the wrapped provider. Store failures are logged and bypassed.
type Cached struct {
	next   Provider
	store  SnapshotStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewCached wraps next with a snapshot cache kept for ttl.
func NewCached(next Provider, store SnapshotStore, ttl time.Duration, log *zap.Logger) *Cached {
	return &Cached{next: next, store: store, ttl: ttl, logger: logger.OrNop(log)}
}

// ActiveOpportunities returns the cached snapshot, or loads and caches a
// fresh one.
func (c *Cached) ActiveOpportunities(ctx context.Context) ([]matching.Opportunity, error) {
	data, ok, err := c.store.Load(ctx)
	switch {
	case err != nil:
		c.logger.Warn("catalog cache read failed", zap.Error(err))
	case ok:
		var opps []matching.Opportunity
		decodeErr := json.Unmarshal(data, &opps)
		if decodeErr == nil {
			c.logger.Debug("catalog cache hit", zap.Int("internships", len(opps)))
			return opps, nil
		}
		c.logger.Warn("catalog cache holds an unreadable snapshot", zap.Error(decodeErr))
	}

	opps, err := c.next.ActiveOpportunities(ctx)
	if err != nil {
		return nil, err
	}

	data, err = json.Marshal(opps)
	if err != nil {
		c.logger.Warn("failed to encode catalog snapshot", zap.Error(err))
		return opps, nil
	}
	if err := c.store.Save(ctx, data, c.ttl); err != nil {
		c.logger.Warn("catalog cache write failed", zap.Error(err))
	}
	return opps, nil
}

// Invalidate drops the cached snapshot.
func (c *Cached) Invalidate(ctx context.Context) error {
	return c.store.Delete(ctx)
}
