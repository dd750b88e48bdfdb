package service

import (
	"codetrack/internal/domain/model"
	"codetrack/internal/domain/repository"
	"context"
	"math"
	"time"
)

// defaultPracticeMinutes is substituted per submission that lacks a recorded
// duration when summing today's practice time.
const defaultPracticeMinutes = 5

const recentSubmissionCount = 20

// DashboardService assembles the single dashboard payload. If any
// sub-computation fails the whole request fails; a partially populated
// dashboard is not a supported degraded mode.
type DashboardService struct {
	submissionRepo repository.SubmissionRepository
	streaks        *StreakService
	now            func() time.Time
}

func NewDashboardService(subRepo repository.SubmissionRepository, streaks *StreakService) *DashboardService {
	return &DashboardService{submissionRepo: subRepo, streaks: streaks, now: time.Now}
}

func (s *DashboardService) Overview(ctx context.Context, userID string) (*model.DashboardOverview, error) {
	now := s.now().UTC()

	counts, err := s.submissionRepo.OverviewCounts(ctx, userID, now.Add(-7*24*time.Hour))
	if err != nil {
		return nil, err
	}

	streak, err := s.streaks.Streak(ctx, userID)
	if err != nil {
		return nil, err
	}

	todays, err := s.submissionRepo.ListSince(ctx, userID, truncateToDay(now))
	if err != nil {
		return nil, err
	}

	solvedCounts, err := s.submissionRepo.SolvedCountsByQuestion(ctx, userID)
	if err != nil {
		return nil, err
	}

	fastest, err := s.submissionRepo.FastestSolveMinutes(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.submissionRepo.ListRecent(ctx, userID, recentSubmissionCount)
	if err != nil {
		return nil, err
	}

	return &model.DashboardOverview{
		TotalSolved:          counts.TotalSolved,
		CurrentStreakDays:    streak.CurrentStreak,
		PracticeMinutesToday: practiceMinutes(todays),
		Efficiency: model.Efficiency{
			AvgAttemptsPerSolved: avgAttemptsPerSolved(solvedCounts),
			FastestSolveMins:     fastest,
		},
		RecentSubmissions: toRecent(recent),
	}, nil
}

// practiceMinutes sums recorded durations over today's submissions,
// substituting the default per record that lacks one.
func practiceMinutes(subs []model.Submission) float64 {
	var total float64
	for _, sub := range subs {
		if sub.TimeTakenInMinutes != nil {
			total += *sub.TimeTakenInMinutes
		} else {
			total += defaultPracticeMinutes
		}
	}
	return total
}

// avgAttemptsPerSolved averages per-question PASSED counts across distinct
// solved questions, rounded to 2 decimal places. Zero when nothing is solved.
func avgAttemptsPerSolved(solvedCounts map[string]int) float64 {
	if len(solvedCounts) == 0 {
		return 0
	}
	var total int
	for _, n := range solvedCounts {
		total += n
	}
	avg := float64(total) / float64(len(solvedCounts))
	return math.Round(avg*100) / 100
}

func toRecent(subs []model.Submission) []model.RecentSubmission {
	recent := make([]model.RecentSubmission, 0, len(subs))
	for i := range subs {
		sub := &subs[i]
		recent = append(recent, model.RecentSubmission{
			ID:            sub.ID,
			QuestionID:    sub.QuestionID,
			QuestionTitle: sub.QuestionTitle,
			Language:      sub.Language,
			Status:        sub.DisplayStatus(),
			CreatedAt:     sub.CreatedAt,
		})
	}
	return recent
}
