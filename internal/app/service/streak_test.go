package service

import (
	"codetrack/internal/domain/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestComputeStreaks(t *testing.T) {
	today := day("2026-03-10")

	tests := []struct {
		name        string
		dates       []string
		wantCurrent int
		wantLongest int
	}{
		{"empty history", nil, 0, 0},
		{"single solve today", []string{"2026-03-10"}, 1, 1},
		{"single solve yesterday", []string{"2026-03-09"}, 1, 1},
		{"run ending today", []string{"2026-03-08", "2026-03-09", "2026-03-10"}, 3, 3},
		{"run ending yesterday", []string{"2026-03-07", "2026-03-08", "2026-03-09"}, 3, 3},
		{
			// Most recent solve two days ago: current streak is broken no
			// matter how long the historical run was.
			"gap breaks current streak",
			[]string{"2026-03-05", "2026-03-06", "2026-03-07", "2026-03-08"},
			0, 4,
		},
		{
			// Two separate 5-day runs; longest is 5 regardless of the current
			// streak being dead.
			"longest independent of current",
			[]string{
				"2026-02-01", "2026-02-02", "2026-02-03", "2026-02-04", "2026-02-05",
				"2026-02-10", "2026-02-11", "2026-02-12", "2026-02-13", "2026-02-14",
			},
			0, 5,
		},
		{
			// Today, yesterday, and an isolated solve 3 days ago: the current
			// run is 2 and no run of 3 exists.
			"isolated older date",
			[]string{"2026-03-07", "2026-03-09", "2026-03-10"},
			2, 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dates []time.Time
			for _, d := range tt.dates {
				dates = append(dates, day(d))
			}
			current, longest, _ := computeStreaks(dates, today)
			assert.Equal(t, tt.wantCurrent, current, "current streak")
			assert.Equal(t, tt.wantLongest, longest, "longest streak")
		})
	}
}

func TestComputeStreaksDeduplicatesDates(t *testing.T) {
	today := day("2026-03-10")
	dates := []time.Time{
		day("2026-03-10"), day("2026-03-10"),
		day("2026-03-09").Add(5 * time.Hour), day("2026-03-09").Add(20 * time.Hour),
	}
	current, longest, mostRecent := computeStreaks(dates, today)
	assert.Equal(t, 2, current)
	assert.Equal(t, 2, longest)
	require.NotNil(t, mostRecent)
	assert.Equal(t, day("2026-03-10"), *mostRecent)
}

func TestStreakService(t *testing.T) {
	now := day("2026-03-10").Add(15 * time.Hour)

	repo := &fakeSubmissionRepo{}
	for i, d := range []string{"2026-03-09", "2026-03-10"} {
		repo.subs = append(repo.subs, model.Submission{
			ID:         string(rune('a' + i)),
			UserID:     "u1",
			QuestionID: "q1",
			Verdict:    model.VerdictPassed,
			CreatedAt:  day(d).Add(12 * time.Hour),
		})
	}
	// Failed submission on an older day must not extend the streak.
	repo.subs = append(repo.subs, model.Submission{
		ID: "x", UserID: "u1", QuestionID: "q2",
		Verdict:   model.VerdictFailed,
		CreatedAt: day("2026-03-08").Add(12 * time.Hour),
	})

	svc := NewStreakService(repo)
	svc.now = func() time.Time { return now }

	streak, err := svc.Streak(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, streak.CurrentStreak)
	assert.Equal(t, 2, streak.LongestStreak)
	require.NotNil(t, streak.LastSolvedDate)
	assert.Equal(t, "2026-03-10", *streak.LastSolvedDate)
}

func TestStreakServiceNoSolves(t *testing.T) {
	svc := NewStreakService(&fakeSubmissionRepo{})
	svc.now = func() time.Time { return day("2026-03-10") }

	streak, err := svc.Streak(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, streak.CurrentStreak)
	assert.Equal(t, 0, streak.LongestStreak)
	assert.Nil(t, streak.LastSolvedDate)
}
