package service

import (
	"codetrack/internal/domain/model"
	"codetrack/internal/domain/repository"
	"context"
	"sort"
	"time"
)

// StatsService computes per-user rollups over the submission store. Every call
// recomputes from the store; there is no cached state to go stale.
type StatsService struct {
	submissionRepo repository.SubmissionRepository
	now            func() time.Time
}

func NewStatsService(subRepo repository.SubmissionRepository) *StatsService {
	return &StatsService{submissionRepo: subRepo, now: time.Now}
}

func (s *StatsService) Overview(ctx context.Context, userID string) (*model.OverviewStats, error) {
	since := s.now().UTC().Add(-7 * 24 * time.Hour)
	return s.submissionRepo.OverviewCounts(ctx, userID, since)
}

func (s *StatsService) ByTopic(ctx context.Context, userID string) ([]model.TopicStats, error) {
	stats, err := s.submissionRepo.TopicRollup(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].TotalSubmissions != stats[j].TotalSubmissions {
			return stats[i].TotalSubmissions > stats[j].TotalSubmissions
		}
		return stats[i].Topic < stats[j].Topic
	})
	return stats, nil
}

func (s *StatsService) ByDifficulty(ctx context.Context, userID string) ([]model.DifficultyStats, error) {
	stats, err := s.submissionRepo.DifficultyRollup(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Difficulty.Rank() < stats[j].Difficulty.Rank()
	})
	return stats, nil
}
