package service

import (
	"codetrack/internal/domain/model"
	"codetrack/internal/domain/repository"
	"context"
	"sort"
	"time"
)

const dayLayout = "2006-01-02"

type StreakService struct {
	submissionRepo repository.SubmissionRepository
	now            func() time.Time
}

func NewStreakService(subRepo repository.SubmissionRepository) *StreakService {
	return &StreakService{submissionRepo: subRepo, now: time.Now}
}

// Streak derives current and longest consecutive-day solve streaks from the
// user's distinct UTC solve dates.
func (s *StreakService) Streak(ctx context.Context, userID string) (*model.StreakStats, error) {
	dates, err := s.submissionRepo.DistinctSolveDates(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := truncateToDay(s.now().UTC())
	current, longest, last := computeStreaks(dates, today)

	stats := &model.StreakStats{CurrentStreak: current, LongestStreak: longest}
	if last != nil {
		formatted := last.Format(dayLayout)
		stats.LastSolvedDate = &formatted
	}
	return stats, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// computeStreaks implements the streak boundary policy: a current streak is
// anchored at today or yesterday and walks backward over consecutive solve
// days; an anchor older than yesterday zeroes the current streak no matter how
// long the historical run was. The longest streak scans the full sorted
// history and is independent of whether the current streak is active.
func computeStreaks(dates []time.Time, today time.Time) (current, longest int, mostRecent *time.Time) {
	if len(dates) == 0 {
		return 0, 0, nil
	}

	seen := make(map[string]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := truncateToDay(d.UTC())
		key := day.Format(dayLayout)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	latest := days[len(days)-1]
	mostRecent = &latest

	if today.Sub(latest) <= 24*time.Hour {
		for d := latest; ; d = d.AddDate(0, 0, -1) {
			if _, ok := seen[d.Format(dayLayout)]; !ok {
				break
			}
			current++
		}
	}

	run := 1
	longest = 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return current, longest, mostRecent
}
