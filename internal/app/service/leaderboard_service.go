package service

import (
	"codetrack/internal/domain/model"
	"codetrack/internal/domain/repository"
	"codetrack/internal/platform/leaderboard"
	"context"

	"go.uber.org/zap"
)

type LeaderboardService struct {
	submissionRepo repository.SubmissionRepository
	userRepo       repository.UserRepository
	board          *leaderboard.Board
	logger         *zap.Logger
}

func NewLeaderboardService(
	subRepo repository.SubmissionRepository,
	userRepo repository.UserRepository,
	board *leaderboard.Board,
	logger *zap.Logger,
) *LeaderboardService {
	return &LeaderboardService{
		submissionRepo: subRepo,
		userRepo:       userRepo,
		board:          board,
		logger:         logger,
	}
}

// Top serves the leaderboard from the Redis sorted set and falls back to the
// submission store when the cache is cold or unreachable. A successful store
// read warms the cache for the next request.
func (s *LeaderboardService) Top(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	cached, err := s.board.Top(ctx, limit)
	if err != nil {
		s.logger.Warn("leaderboard cache read failed, falling back to store", zap.Error(err))
	}
	if err == nil && len(cached) > 0 {
		entries := make([]model.LeaderboardEntry, 0, len(cached))
		for _, c := range cached {
			entries = append(entries, model.LeaderboardEntry{UserID: c.UserID, Solved: c.Solved})
		}
		return s.withUsernames(ctx, entries)
	}

	entries, err := s.submissionRepo.GetLeaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}
	if err := s.board.Rebuild(ctx, entries); err != nil {
		s.logger.Warn("leaderboard cache rebuild failed", zap.Error(err))
	}
	return s.withUsernames(ctx, entries)
}

func (s *LeaderboardService) withUsernames(ctx context.Context, entries []model.LeaderboardEntry) ([]model.LeaderboardEntry, error) {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.UserID)
	}
	names, err := s.userRepo.UsernamesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Username = names[entries[i].UserID]
	}
	return entries, nil
}
