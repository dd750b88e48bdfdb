package service

import (
	"codetrack/internal/domain/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStatsRepo(now time.Time) *fakeSubmissionRepo {
	repo := &fakeSubmissionRepo{}
	add := func(id, questionID string, verdict model.Verdict, topics []string, difficulty model.Difficulty, age time.Duration) {
		repo.subs = append(repo.subs, model.Submission{
			ID: id, UserID: "u1", QuestionID: questionID,
			Verdict: verdict, Topics: topics, Difficulty: difficulty,
			CreatedAt: now.Add(-age),
		})
	}
	add("s1", "q1", model.VerdictFailed, []string{"arrays"}, model.DifficultyEasy, 48*time.Hour)
	add("s2", "q1", model.VerdictPassed, []string{"arrays"}, model.DifficultyEasy, 24*time.Hour)
	add("s3", "q2", model.VerdictPassed, []string{"arrays", "dp"}, model.DifficultyHard, 2*time.Hour)
	add("s4", "q3", model.VerdictPending, []string{"graphs"}, model.DifficultyMedium, time.Hour)
	add("s5", "q4", model.VerdictPassed, []string{"dp"}, model.DifficultyMedium, 10*24*time.Hour)
	return repo
}

func TestStatsOverview(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := NewStatsService(seedStatsRepo(now))
	svc.now = func() time.Time { return now }

	stats, err := svc.Overview(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalSubmissions)
	assert.Equal(t, 3, stats.TotalSolved)
	assert.Equal(t, 1, stats.AttemptedButUnsolved) // PENDING excluded
	assert.Equal(t, 2, stats.SolvedLast7Days)      // s5 is 10 days old
}

func TestStatsByTopicOrdering(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := NewStatsService(seedStatsRepo(now))
	svc.now = func() time.Time { return now }

	stats, err := svc.ByTopic(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, stats, 3)

	// arrays: 3 submissions / 2 solved; dp: 2/2; graphs: 1/0. Descending by
	// total submissions with topic name breaking ties.
	assert.Equal(t, model.TopicStats{Topic: "arrays", TotalSubmissions: 3, TotalSolved: 2}, stats[0])
	assert.Equal(t, model.TopicStats{Topic: "dp", TotalSubmissions: 2, TotalSolved: 2}, stats[1])
	assert.Equal(t, model.TopicStats{Topic: "graphs", TotalSubmissions: 1, TotalSolved: 0}, stats[2])
}

func TestStatsByDifficultyOrdering(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := NewStatsService(seedStatsRepo(now))
	svc.now = func() time.Time { return now }

	stats, err := svc.ByDifficulty(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, stats, 3)
	assert.Equal(t, model.DifficultyEasy, stats[0].Difficulty)
	assert.Equal(t, model.DifficultyMedium, stats[1].Difficulty)
	assert.Equal(t, model.DifficultyHard, stats[2].Difficulty)
	assert.Equal(t, 2, stats[1].TotalSubmissions)
	assert.Equal(t, 1, stats[1].TotalSolved)
}

func TestStatsReadsAreIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := seedStatsRepo(now)
	stats := NewStatsService(repo)
	stats.now = func() time.Time { return now }
	streaks := NewStreakService(repo)
	streaks.now = func() time.Time { return now }

	ctx := context.Background()

	o1, err := stats.Overview(ctx, "u1")
	require.NoError(t, err)
	o2, err := stats.Overview(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, o1, o2)

	t1, err := stats.ByTopic(ctx, "u1")
	require.NoError(t, err)
	t2, err := stats.ByTopic(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, t1, t2)

	d1, err := stats.ByDifficulty(ctx, "u1")
	require.NoError(t, err)
	d2, err := stats.ByDifficulty(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, d1, d2)

	s1, err := streaks.Streak(ctx, "u1")
	require.NoError(t, err)
	s2, err := streaks.Streak(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
}

func TestStatsOverviewEmptyUser(t *testing.T) {
	svc := NewStatsService(&fakeSubmissionRepo{})
	stats, err := svc.Overview(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, &model.OverviewStats{}, stats)
}
