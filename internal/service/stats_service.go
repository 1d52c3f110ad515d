package service

import (
	"context"

	"lostfound/internal/clock"
	"lostfound/internal/lifecycle"
	"lostfound/internal/repository"
)

type StatsService interface {
	PostCounts(ctx context.Context) (map[lifecycle.Status]int, error)
}

type statsService struct {
	statsRepo repository.StatsRepository
	clock     clock.Clock
}

func NewStatsService(statsRepo repository.StatsRepository, clk clock.Clock) StatsService {
	return &statsService{statsRepo: statsRepo, clock: clk}
}

// PostCounts counts posts by effective status, so overdue posts the sweeper
// has not reached yet are already counted as expired.
func (s *statsService) PostCounts(ctx context.Context) (map[lifecycle.Status]int, error) {
	return s.statsRepo.CountByEffectiveStatus(ctx, s.clock.Now())
}
