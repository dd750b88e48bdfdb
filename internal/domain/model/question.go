package model

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Rank gives the deterministic Easy < Medium < Hard display order. Unknown
// difficulties sort last.
func (d Difficulty) Rank() int {
	switch d {
	case DifficultyEasy:
		return 0
	case DifficultyMedium:
		return 1
	case DifficultyHard:
		return 2
	}
	return 3
}

type Question struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty"`
	Topics      []string   `json:"topics"`
	CreatedByID *string    `json:"createdById,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	TestCases   []TestCase `json:"testCases,omitempty"` // hidden from non-admin views
}

type TestCase struct {
	ID             string `json:"id"`
	QuestionID     string `json:"questionId"`
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
	IsHidden       bool   `json:"isHidden"`
	SortOrder      int    `json:"sortOrder"`
}
