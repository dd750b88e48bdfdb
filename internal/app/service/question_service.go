package service

import (
	"codetrack/internal/common"
	"codetrack/internal/domain/model"
	"codetrack/internal/domain/repository"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type QuestionService struct {
	questionRepo repository.QuestionRepository
	db           *sql.DB // for transactions
}

func NewQuestionService(questionRepo repository.QuestionRepository, db *sql.DB) *QuestionService {
	return &QuestionService{questionRepo: questionRepo, db: db}
}

type CreateQuestionRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Difficulty  string           `json:"difficulty"`
	Topics      []string         `json:"topics"`
	TestCases   []model.TestCase `json:"testCases"`
}

func (s *QuestionService) Create(ctx context.Context, userID string, req CreateQuestionRequest) (*model.Question, error) {
	if req.Title == "" || req.Description == "" {
		return nil, common.Errorf("title and description are required: %w", common.ErrValidation)
	}
	difficulty := model.Difficulty(req.Difficulty)
	if !difficulty.Valid() {
		return nil, common.Errorf("difficulty must be one of Easy, Medium, Hard: %w", common.ErrValidation)
	}

	question := &model.Question{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Slug:        slug.Make(req.Title),
		Description: req.Description,
		Difficulty:  difficulty,
		Topics:      req.Topics,
		CreatedByID: &userID,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.questionRepo.Create(ctx, tx, question); err != nil {
		return nil, err
	}

	for i := range req.TestCases {
		if req.TestCases[i].ID == "" {
			req.TestCases[i].ID = uuid.NewString()
		}
	}
	if err := s.questionRepo.AddTestCases(ctx, tx, question.ID, req.TestCases); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	question.TestCases = req.TestCases
	return question, nil
}

// Get resolves a question by ID first, falling back to slug lookup so both
// /questions/{uuid} and /questions/{slug} work.
func (s *QuestionService) Get(ctx context.Context, idOrSlug string, includeHidden bool) (*model.Question, error) {
	question, err := s.questionRepo.FindByID(ctx, idOrSlug)
	if errors.Is(err, common.ErrNotFound) {
		question, err = s.questionRepo.FindBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return nil, err
	}

	testCases, err := s.questionRepo.TestCasesByQuestionID(ctx, question.ID)
	if err != nil {
		return nil, err
	}
	question.TestCases = nil
	if includeHidden {
		question.TestCases = testCases
	} else {
		for _, tc := range testCases {
			if !tc.IsHidden {
				question.TestCases = append(question.TestCases, tc)
			}
		}
	}
	return question, nil
}

func (s *QuestionService) List(ctx context.Context, f repository.QuestionFilter, page, limit int) ([]model.Question, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if f.Difficulty != "" && !f.Difficulty.Valid() {
		return nil, 0, common.Errorf("unknown difficulty %q: %w", f.Difficulty, common.ErrValidation)
	}
	return s.questionRepo.List(ctx, f, limit, (page-1)*limit)
}
