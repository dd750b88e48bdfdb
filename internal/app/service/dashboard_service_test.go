package service

import (
	"codetrack/internal/domain/model"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func newDashboard(repo *fakeSubmissionRepo, now time.Time) *DashboardService {
	streaks := NewStreakService(repo)
	streaks.now = func() time.Time { return now }
	svc := NewDashboardService(repo, streaks)
	svc.now = func() time.Time { return now }
	return svc
}

// Three attempts against one question on the same day, FAILED FAILED PASSED:
// one distinct solved question with one PASSED submission against it.
func TestDashboardOverviewSingleSolvedQuestion(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	repo := &fakeSubmissionRepo{}
	verdicts := []model.Verdict{model.VerdictFailed, model.VerdictFailed, model.VerdictPassed}
	for i, v := range verdicts {
		repo.subs = append(repo.subs, model.Submission{
			ID: string(rune('a' + i)), UserID: "u1", QuestionID: "Q1",
			Verdict:   v,
			CreatedAt: now.Add(time.Duration(i-3) * time.Hour),
		})
	}

	overview, err := newDashboard(repo, now).Overview(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 1, overview.TotalSolved)
	assert.Equal(t, 1, overview.CurrentStreakDays)
	assert.InDelta(t, 1.0, overview.Efficiency.AvgAttemptsPerSolved, 0.001)
	assert.Nil(t, overview.Efficiency.FastestSolveMins)
	require.Len(t, overview.RecentSubmissions, 3)
}

func TestDashboardPracticeMinutesDefault(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	repo := &fakeSubmissionRepo{subs: []model.Submission{
		{ID: "a", UserID: "u1", QuestionID: "q1", Verdict: model.VerdictFailed,
			TimeTakenInMinutes: floatPtr(12.5), CreatedAt: now.Add(-time.Hour)},
		{ID: "b", UserID: "u1", QuestionID: "q2", Verdict: model.VerdictFailed,
			CreatedAt: now.Add(-2 * time.Hour)}, // no duration: default 5
		{ID: "c", UserID: "u1", QuestionID: "q3", Verdict: model.VerdictFailed,
			CreatedAt: now.Add(-3 * time.Hour)}, // no duration: default 5
		// Yesterday's submission must not count toward today.
		{ID: "d", UserID: "u1", QuestionID: "q4", Verdict: model.VerdictFailed,
			TimeTakenInMinutes: floatPtr(60), CreatedAt: now.Add(-24 * time.Hour)},
	}}

	overview, err := newDashboard(repo, now).Overview(context.Background(), "u1")
	require.NoError(t, err)
	assert.InDelta(t, 22.5, overview.PracticeMinutesToday, 0.001)
}

func TestDashboardFastestSolve(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	repo := &fakeSubmissionRepo{subs: []model.Submission{
		{ID: "a", UserID: "u1", QuestionID: "q1", Verdict: model.VerdictPassed,
			TimeTakenInMinutes: floatPtr(30), CreatedAt: now.Add(-time.Hour)},
		{ID: "b", UserID: "u1", QuestionID: "q2", Verdict: model.VerdictPassed,
			TimeTakenInMinutes: floatPtr(8), CreatedAt: now.Add(-2 * time.Hour)},
		// FAILED with a faster time must not win.
		{ID: "c", UserID: "u1", QuestionID: "q3", Verdict: model.VerdictFailed,
			TimeTakenInMinutes: floatPtr(2), CreatedAt: now.Add(-3 * time.Hour)},
	}}

	overview, err := newDashboard(repo, now).Overview(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, overview.Efficiency.FastestSolveMins)
	assert.InDelta(t, 8.0, *overview.Efficiency.FastestSolveMins, 0.001)
}

func TestDashboardRecentSubmissionsDisplayStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	repo := &fakeSubmissionRepo{subs: []model.Submission{
		{ID: "a", UserID: "u1", QuestionID: "q1", Verdict: model.VerdictPassed, CreatedAt: now.Add(-time.Minute)},
		{ID: "b", UserID: "u1", QuestionID: "q2", Verdict: model.VerdictRuntimeError, CreatedAt: now.Add(-2 * time.Minute)},
	}}

	overview, err := newDashboard(repo, now).Overview(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, overview.RecentSubmissions, 2)
	assert.Equal(t, "AC", overview.RecentSubmissions[0].Status)
	assert.Equal(t, "RUNTIME_ERROR", overview.RecentSubmissions[1].Status)
}

func TestDashboardFailsWholeOnSubError(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	storeDown := errors.New("store down")
	repo := &fakeSubmissionRepo{err: storeDown}

	overview, err := newDashboard(repo, now).Overview(context.Background(), "u1")
	assert.Nil(t, overview)
	assert.ErrorIs(t, err, storeDown)
}

func TestAvgAttemptsPerSolved(t *testing.T) {
	assert.Equal(t, 0.0, avgAttemptsPerSolved(nil))
	assert.Equal(t, 1.0, avgAttemptsPerSolved(map[string]int{"q1": 1}))
	// (1 + 2) / 2 = 1.5
	assert.Equal(t, 1.5, avgAttemptsPerSolved(map[string]int{"q1": 1, "q2": 2}))
	// (1 + 1 + 2) / 3 = 1.333... rounds to 1.33
	assert.Equal(t, 1.33, avgAttemptsPerSolved(map[string]int{"q1": 1, "q2": 1, "q3": 2}))
}
