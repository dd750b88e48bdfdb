package repository

import (
	"codetrack/internal/common"
	"codetrack/internal/domain/model"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

type QuestionFilter struct {
	Difficulty model.Difficulty
	Topic      string
	SearchTerm string
}

type QuestionRepository interface {
	Create(ctx context.Context, tx *sql.Tx, q *model.Question) error
	FindByID(ctx context.Context, id string) (*model.Question, error)
	FindBySlug(ctx context.Context, slug string) (*model.Question, error)
	List(ctx context.Context, f QuestionFilter, limit, offset int) ([]model.Question, int, error)
	AddTestCases(ctx context.Context, tx *sql.Tx, questionID string, testCases []model.TestCase) error
	TestCasesByQuestionID(ctx context.Context, questionID string) ([]model.TestCase, error)
}

type pgQuestionRepository struct {
	db *sql.DB
}

func NewPgQuestionRepository(db *sql.DB) QuestionRepository {
	return &pgQuestionRepository{db: db}
}

func (r *pgQuestionRepository) Create(ctx context.Context, tx *sql.Tx, q *model.Question) error {
	topics, err := json.Marshal(q.Topics)
	if err != nil {
		return fmt.Errorf("pgQuestionRepository.Create marshal topics: %w", err)
	}
	if q.Topics == nil {
		topics = []byte("[]")
	}

	query := `INSERT INTO questions (id, title, slug, description, difficulty, topics, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, q.ID, q.Title, q.Slug, q.Description, q.Difficulty, topics, q.CreatedByID)
	} else {
		_, err = r.db.ExecContext(ctx, query, q.ID, q.Title, q.Slug, q.Description, q.Difficulty, topics, q.CreatedByID)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique constraint for slug
			return fmt.Errorf("question with this slug already exists: %w", common.ErrConflict)
		}
		return storeErr("pgQuestionRepository.Create", err)
	}
	return nil
}

func (r *pgQuestionRepository) FindByID(ctx context.Context, id string) (*model.Question, error) {
	return r.findBy(ctx, "id", id)
}

func (r *pgQuestionRepository) FindBySlug(ctx context.Context, slug string) (*model.Question, error) {
	return r.findBy(ctx, "slug", slug)
}

func (r *pgQuestionRepository) findBy(ctx context.Context, column, value string) (*model.Question, error) {
	query := fmt.Sprintf(`SELECT id, title, slug, description, difficulty, topics, created_by, created_at, updated_at
	          FROM questions WHERE %s = $1`, column)

	q := &model.Question{}
	var topics []byte
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&q.ID, &q.Title, &q.Slug, &q.Description, &q.Difficulty, &topics,
		&q.CreatedByID, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, storeErr("pgQuestionRepository.findBy "+column, err)
	}
	if len(topics) > 0 {
		if err := json.Unmarshal(topics, &q.Topics); err != nil {
			return nil, fmt.Errorf("pgQuestionRepository.findBy unmarshal topics: %w", err)
		}
	}
	return q, nil
}

func (r *pgQuestionRepository) List(ctx context.Context, f QuestionFilter, limit, offset int) ([]model.Question, int, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argID := 1

	if f.Difficulty != "" {
		conditions = append(conditions, fmt.Sprintf("difficulty = $%d", argID))
		args = append(args, f.Difficulty)
		argID++
	}
	if f.Topic != "" {
		topicJSON, err := json.Marshal([]string{f.Topic})
		if err != nil {
			return nil, 0, fmt.Errorf("pgQuestionRepository.List marshal topic: %w", err)
		}
		conditions = append(conditions, fmt.Sprintf("topics @> $%d::jsonb", argID))
		args = append(args, string(topicJSON))
		argID++
	}
	if f.SearchTerm != "" {
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", argID, argID+1))
		likeTerm := "%" + f.SearchTerm + "%"
		args = append(args, likeTerm, likeTerm)
		argID += 2
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM questions"+where, args...).Scan(&total); err != nil {
		return nil, 0, storeErr("pgQuestionRepository.List count", err)
	}

	query := `SELECT id, title, slug, description, difficulty, topics, created_by, created_at, updated_at
	          FROM questions` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argID, argID+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, storeErr("pgQuestionRepository.List query", err)
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		var q model.Question
		var topics []byte
		if err := rows.Scan(&q.ID, &q.Title, &q.Slug, &q.Description, &q.Difficulty, &topics,
			&q.CreatedByID, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, 0, storeErr("pgQuestionRepository.List scan", err)
		}
		if len(topics) > 0 {
			if err := json.Unmarshal(topics, &q.Topics); err != nil {
				return nil, 0, fmt.Errorf("pgQuestionRepository.List unmarshal topics: %w", err)
			}
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storeErr("pgQuestionRepository.List rows", err)
	}
	return questions, total, nil
}

func (r *pgQuestionRepository) AddTestCases(ctx context.Context, tx *sql.Tx, questionID string, testCases []model.TestCase) error {
	if len(testCases) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO question_test_cases (id, question_id, input, expected_output, is_hidden, sort_order)
	          VALUES ($1, $2, $3, $4, $5, $6)`)
	if err != nil {
		return storeErr("pgQuestionRepository.AddTestCases prepare", err)
	}
	defer stmt.Close()

	for i, tc := range testCases {
		tc.SortOrder = i + 1
		if _, err := stmt.ExecContext(ctx, tc.ID, questionID, tc.Input, tc.ExpectedOutput, tc.IsHidden, tc.SortOrder); err != nil {
			return storeErr("pgQuestionRepository.AddTestCases exec", err)
		}
	}
	return nil
}

func (r *pgQuestionRepository) TestCasesByQuestionID(ctx context.Context, questionID string) ([]model.TestCase, error) {
	query := `SELECT id, question_id, input, expected_output, is_hidden, sort_order
	          FROM question_test_cases WHERE question_id = $1 ORDER BY sort_order ASC`
	rows, err := r.db.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, storeErr("pgQuestionRepository.TestCasesByQuestionID", err)
	}
	defer rows.Close()

	var testCases []model.TestCase
	for rows.Next() {
		var tc model.TestCase
		if err := rows.Scan(&tc.ID, &tc.QuestionID, &tc.Input, &tc.ExpectedOutput, &tc.IsHidden, &tc.SortOrder); err != nil {
			return nil, storeErr("pgQuestionRepository.TestCasesByQuestionID scan", err)
		}
		testCases = append(testCases, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("pgQuestionRepository.TestCasesByQuestionID rows", err)
	}
	return testCases, nil
}
