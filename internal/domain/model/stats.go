package model

import "time"

// OverviewStats is the per-user submission rollup. Every count applies the
// solved invariant: solved means verdict == PASSED, nothing else.
type OverviewStats struct {
	TotalSubmissions     int `json:"totalSubmissions"`
	TotalSolved          int `json:"totalSolved"`
	AttemptedButUnsolved int `json:"attemptedButUnsolved"`
	SolvedLast7Days      int `json:"solvedLast7Days"`
}

type TopicStats struct {
	Topic            string `json:"topic"`
	TotalSubmissions int    `json:"totalSubmissions"`
	TotalSolved      int    `json:"totalSolved"`
}

type DifficultyStats struct {
	Difficulty       Difficulty `json:"difficulty"`
	TotalSubmissions int        `json:"totalSubmissions"`
	TotalSolved      int        `json:"totalSolved"`
}

// StreakStats counts consecutive calendar days (UTC) with at least one solved
// submission. LastSolvedDate is a plain YYYY-MM-DD date, null when the user has
// never solved anything.
type StreakStats struct {
	CurrentStreak  int     `json:"currentStreak"`
	LongestStreak  int     `json:"longestStreak"`
	LastSolvedDate *string `json:"lastSolvedDate"`
}

type Efficiency struct {
	AvgAttemptsPerSolved float64  `json:"avgAttemptsPerSolved"`
	FastestSolveMins     *float64 `json:"fastestSolveMins"`
}

type RecentSubmission struct {
	ID            string    `json:"id"`
	QuestionID    string    `json:"questionId"`
	QuestionTitle string    `json:"questionTitle,omitempty"`
	Language      string    `json:"language"`
	Status        string    `json:"status"` // normalized display status, PASSED renders as "AC"
	CreatedAt     time.Time `json:"createdAt"`
}

type DashboardOverview struct {
	TotalSolved          int                `json:"totalSolved"`
	CurrentStreakDays    int                `json:"currentStreakDays"`
	PracticeMinutesToday float64            `json:"practiceMinutesToday"`
	Efficiency           Efficiency         `json:"efficiency"`
	RecentSubmissions    []RecentSubmission `json:"recentSubmissions"`
}
