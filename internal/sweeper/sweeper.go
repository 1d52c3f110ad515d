// Package sweeper brings stored post statuses in line with the lifecycle rules
// in bulk: lost/found posts past their deadline become expired, and expired
// posts past the retention window are deleted together with their images.
package sweeper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"lostfound/internal/clock"
	"lostfound/internal/lifecycle"
)

// Store performs the two set-based statements of a sweep cycle.
type Store interface {
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type Result struct {
	Expired int64 `json:"expired"`
	Purged  int64 `json:"purged"`
}

type Sweeper struct {
	store  Store
	clock  clock.Clock
	logger *log.Logger

	// serializes the scheduled and manually triggered cycles
	mu sync.Mutex
}

func New(store Store, clk clock.Clock, logger *log.Logger) *Sweeper {
	return &Sweeper{
		store:  store,
		clock:  clk,
		logger: logger,
	}
}

// Run executes one sweep cycle. Both steps use the same instant. If marking
// fails the purge step is skipped; read paths stay correct either way.
func (s *Sweeper) Run(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()

	expired, err := s.store.MarkExpired(ctx, now)
	if err != nil {
		return Result{}, fmt.Errorf("mark expired: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return Result{Expired: expired}, fmt.Errorf("purge skipped: %w", err)
	}

	purged, err := s.store.PurgeExpired(ctx, lifecycle.PurgeCutoff(now))
	if err != nil {
		return Result{Expired: expired}, fmt.Errorf("purge expired: %w", err)
	}

	res := Result{Expired: expired, Purged: purged}
	if res.Expired > 0 || res.Purged > 0 {
		s.logger.Info("sweep finished", "expired", res.Expired, "purged", res.Purged, "at", now)
	} else {
		s.logger.Debug("sweep finished, nothing to update", "at", now)
	}

	return res, nil
}
