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
	"time"
)

// SubmissionFilter narrows ListByUser. Verdict is already canonical here;
// legacy status values are normalized before a filter is built.
type SubmissionFilter struct {
	Topic      string
	Difficulty model.Difficulty
	Language   string
	Verdict    model.Verdict
	From       *time.Time
	To         *time.Time
}

// SubmissionRepository is the append-only submission store. Submissions are
// immutable history: there is no update or delete.
type SubmissionRepository interface {
	Create(ctx context.Context, sub *model.Submission) error
	ListByUser(ctx context.Context, userID string, f SubmissionFilter, limit, offset int) ([]model.Submission, int, error)
	FindLatest(ctx context.Context, userID, questionID, language string) (*model.Submission, error)

	// Aggregation reads. Each one scopes to a single user and applies the
	// solved invariant (verdict == PASSED) as its only notion of "solved".
	OverviewCounts(ctx context.Context, userID string, solvedSince time.Time) (*model.OverviewStats, error)
	TopicRollup(ctx context.Context, userID string) ([]model.TopicStats, error)
	DifficultyRollup(ctx context.Context, userID string) ([]model.DifficultyStats, error)
	DistinctSolveDates(ctx context.Context, userID string) ([]time.Time, error)
	SolvedCountsByQuestion(ctx context.Context, userID string) (map[string]int, error)
	HasSolved(ctx context.Context, userID, questionID string) (bool, error)
	FastestSolveMinutes(ctx context.Context, userID string) (*float64, error)
	ListSince(ctx context.Context, userID string, since time.Time) ([]model.Submission, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]model.Submission, error)

	GetLeaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

func storeErr(op string, err error) error {
	return common.Errorf("%s: %v: %w", op, err, common.ErrStoreUnavailable)
}

const submissionColumns = `id, user_id, question_id, question_title, topics, difficulty,
	language, code, stdout, stderr, verdict, passed_tests, total_tests,
	time_taken_minutes, source, created_at`

func (r *pgSubmissionRepository) Create(ctx context.Context, sub *model.Submission) error {
	topics, err := json.Marshal(sub.Topics)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.Create marshal topics: %w", err)
	}
	if sub.Topics == nil {
		topics = []byte("[]")
	}

	query := `INSERT INTO submissions (` + submissionColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err = r.db.ExecContext(ctx, query,
		sub.ID, sub.UserID, sub.QuestionID, sub.QuestionTitle, topics, sub.Difficulty,
		sub.Language, sub.Code, sub.Stdout, sub.Stderr, sub.Verdict, sub.PassedTests,
		sub.TotalTests, sub.TimeTakenInMinutes, sub.Source, sub.CreatedAt,
	)
	if err != nil {
		return storeErr("pgSubmissionRepository.Create", err)
	}
	return nil
}

func (r *pgSubmissionRepository) ListByUser(ctx context.Context, userID string, f SubmissionFilter, limit, offset int) ([]model.Submission, int, error) {
	conditions := []string{"user_id = $1"}
	args := []interface{}{userID}
	argID := 2

	if f.Topic != "" {
		topicJSON, err := json.Marshal([]string{f.Topic})
		if err != nil {
			return nil, 0, fmt.Errorf("pgSubmissionRepository.ListByUser marshal topic: %w", err)
		}
		conditions = append(conditions, fmt.Sprintf("topics @> $%d::jsonb", argID))
		args = append(args, string(topicJSON))
		argID++
	}
	if f.Difficulty != "" {
		conditions = append(conditions, fmt.Sprintf("difficulty = $%d", argID))
		args = append(args, f.Difficulty)
		argID++
	}
	if f.Language != "" {
		conditions = append(conditions, fmt.Sprintf("language = $%d", argID))
		args = append(args, f.Language)
		argID++
	}
	if f.Verdict != "" {
		conditions = append(conditions, fmt.Sprintf("verdict = $%d", argID))
		args = append(args, f.Verdict)
		argID++
	}
	if f.From != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argID))
		args = append(args, *f.From)
		argID++
	}
	if f.To != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argID))
		args = append(args, *f.To)
		argID++
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM submissions"+where, args...).Scan(&total); err != nil {
		return nil, 0, storeErr("pgSubmissionRepository.ListByUser count", err)
	}

	query := "SELECT " + submissionColumns + " FROM submissions" + where +
		fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", argID, argID+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, storeErr("pgSubmissionRepository.ListByUser query", err)
	}
	defer rows.Close()

	subs, err := scanSubmissions(rows)
	if err != nil {
		return nil, 0, storeErr("pgSubmissionRepository.ListByUser scan", err)
	}
	return subs, total, nil
}

func (r *pgSubmissionRepository) FindLatest(ctx context.Context, userID, questionID, language string) (*model.Submission, error) {
	query := "SELECT " + submissionColumns + ` FROM submissions
	          WHERE user_id = $1 AND question_id = $2 AND language = $3
	          ORDER BY created_at DESC, id DESC LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, userID, questionID, language)
	sub, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, storeErr("pgSubmissionRepository.FindLatest", err)
	}
	return sub, nil
}

func (r *pgSubmissionRepository) OverviewCounts(ctx context.Context, userID string, solvedSince time.Time) (*model.OverviewStats, error) {
	query := `SELECT COUNT(*),
	                 COUNT(*) FILTER (WHERE verdict = $2),
	                 COUNT(*) FILTER (WHERE verdict <> $2 AND verdict <> $3),
	                 COUNT(*) FILTER (WHERE verdict = $2 AND created_at >= $4)
	          FROM submissions WHERE user_id = $1`
	stats := &model.OverviewStats{}
	err := r.db.QueryRowContext(ctx, query, userID, model.VerdictPassed, model.VerdictPending, solvedSince).Scan(
		&stats.TotalSubmissions, &stats.TotalSolved, &stats.AttemptedButUnsolved, &stats.SolvedLast7Days,
	)
	if err != nil {
		return nil, storeErr("pgSubmissionRepository.OverviewCounts", err)
	}
	return stats, nil
}

func (r *pgSubmissionRepository) TopicRollup(ctx context.Context, userID string) ([]model.TopicStats, error) {
	// A submission contributes once to every topic it carries.
	query := `SELECT t.topic,
	                 COUNT(*) AS total,
	                 COUNT(*) FILTER (WHERE s.verdict = $2) AS solved
	          FROM submissions s
	          CROSS JOIN LATERAL jsonb_array_elements_text(s.topics) AS t(topic)
	          WHERE s.user_id = $1
	          GROUP BY t.topic
	          ORDER BY total DESC, t.topic ASC`
	rows, err := r.db.QueryContext(ctx, query, userID, model.VerdictPassed)
	if err != nil {
		return nil, storeErr("pgSubmissionRepository.TopicRollup", err)
	}
	defer rows.Close()

	var stats []model.TopicStats
	for rows.Next() {
		var ts model.TopicStats
		if err := rows.Scan(&ts.Topic, &ts.TotalSubmissions, &ts.TotalSolved); err != nil {
			return nil, storeErr("pgSubmissionRepository.TopicRollup scan", err)
		}
		stats = append(stats, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("pgSubmissionRepository.TopicRollup rows", err)
	}
	return stats, nil
}

func (r *pgSubmissionRepository) DifficultyRollup(ctx context.Context, userID string) ([]model.DifficultyStats, error) {
	query := `SELECT difficulty,
	                 COUNT(*),
	                 COUNT(*) FILTER (WHERE verdict = $2)
	          FROM submissions
	          WHERE user_id = $1 AND difficulty <> ''
	          GROUP BY difficulty`
	rows, err := r.db.QueryContext(ctx, query, userID, model.VerdictPassed)
	if err != nil {
		return nil, storeErr("pgSubmissionRepository.DifficultyRollup", err)
	}
	defer rows.Close()

	var stats []model.DifficultyStats
	for rows.Next() {
		var ds model.DifficultyStats
		if err := rows.Scan(&ds.Difficulty, &ds.TotalSubmissions, &ds.TotalSolved); err != nil {
			return nil, storeErr("pgSubmissionRepository.DifficultyRollup scan", err)
		}
		stats = append(stats, ds)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("pgSubmissionRepository.DifficultyRollup rows", err)
	}
	return stats, nil
}

// DistinctSolveDates returns the UTC calendar dates with at least one PASSED
// submission, ascending. This derived set is the sole input to streak
// computation.
func (r *pgSubmissionRepository) DistinctSolveDates(ctx context.Context, userID string) ([]time.Time, error) {
	query := `SELECT DISTINCT (created_at AT TIME ZONE 'UTC')::date AS day
	          FROM submissions
	          WHERE user_id = $1 AND verdict = $2
	          ORDER BY day ASC`
	rows, err := r.db.QueryContext(ctx, query, userID, model.VerdictPassed)
	if err != nil {
		return nil, storeErr("pgSubmissionRepository.DistinctSolveDates", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, storeErr("pgSubmissionRepository.DistinctSolveDates scan", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("pgSubmissionRepository.DistinctSolveDates rows", err)
	}
	return dates, nil
}

func (r *pgSubmissionRepository) SolvedCountsByQuestion(ctx context.Context, userID string) (map[string]int, error) {
	query := `SELECT question_id, COUNT(*)
	          FROM submissions
	          WHERE user_id = $1 AND verdict = $2
	          GROUP BY question_id`
	rows, err := r.db.QueryContext(ctx, query, userID, model.VerdictPassed)
	if err != nil {
		return nil, storeErr("pgSubmissionRepository.SolvedCountsByQuestion", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var questionID string
		var n int
		if err := rows.Scan(&questionID, &n); err != nil {
			return nil, storeErr("pgSubmissionRepository.SolvedCountsByQuestion scan", err)
		}
		counts[questionID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("pgSubmissionRepository.SolvedCountsByQuestion rows", err)
	}
	return counts, nil
}

func (r *pgSubmissionRepository) HasSolved(ctx context.Context, userID, questionID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM submissions
	          WHERE user_id = $1 AND question_id = $2 AND verdict = $3)`
	var solved bool
	if err := r.db.QueryRowContext(ctx, query, userID, questionID, model.VerdictPassed).Scan(&solved); err != nil {
		return false, storeErr("pgSubmissionRepository.HasSolved", err)
	}
	return solved, nil
}

func (r *pgSubmissionRepository) FastestSolveMinutes(ctx context.Context, userID string) (*float64, error) {
	query := `SELECT MIN(time_taken_minutes)
	          FROM submissions
	          WHERE user_id = $1 AND verdict = $2 AND time_taken_minutes IS NOT NULL`
	var fastest sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, query, userID, model.VerdictPassed).Scan(&fastest); err != nil {
		return nil, storeErr("pgSubmissionRepository.FastestSolveMinutes", err)
	}
	if !fastest.Valid {
		return nil, nil
	}
	return &fastest.Float64, nil
}

func (r *pgSubmissionRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]model.Submission, error) {
	query := "SELECT " + submissionColumns + ` FROM submissions
	          WHERE user_id = $1 AND created_at >= $2
	          ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, storeErr("pgSubmissionRepository.ListSince", err)
	}
	defer rows.Close()

	subs, err := scanSubmissions(rows)
	if err != nil {
		return nil, storeErr("pgSubmissionRepository.ListSince scan", err)
	}
	return subs, nil
}

func (r *pgSubmissionRepository) ListRecent(ctx context.Context, userID string, limit int) ([]model.Submission, error) {
	query := "SELECT " + submissionColumns + ` FROM submissions
	          WHERE user_id = $1
	          ORDER BY created_at DESC, id DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, storeErr("pgSubmissionRepository.ListRecent", err)
	}
	defer rows.Close()

	subs, err := scanSubmissions(rows)
	if err != nil {
		return nil, storeErr("pgSubmissionRepository.ListRecent scan", err)
	}
	return subs, nil
}

func (r *pgSubmissionRepository) GetLeaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	query := `SELECT s.user_id, u.username, COUNT(DISTINCT s.question_id) AS solved
	          FROM submissions s
	          JOIN users u ON u.id = s.user_id
	          WHERE s.verdict = $1
	          GROUP BY s.user_id, u.username
	          ORDER BY solved DESC, u.username ASC
	          LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, model.VerdictPassed, limit)
	if err != nil {
		return nil, storeErr("pgSubmissionRepository.GetLeaderboard", err)
	}
	defer rows.Close()

	var entries []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.Solved); err != nil {
			return nil, storeErr("pgSubmissionRepository.GetLeaderboard scan", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("pgSubmissionRepository.GetLeaderboard rows", err)
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSubmission(row rowScanner) (*model.Submission, error) {
	sub := &model.Submission{}
	var topics []byte
	var rawVerdict string
	var timeTaken sql.NullFloat64

	err := row.Scan(
		&sub.ID, &sub.UserID, &sub.QuestionID, &sub.QuestionTitle, &topics, &sub.Difficulty,
		&sub.Language, &sub.Code, &sub.Stdout, &sub.Stderr, &rawVerdict, &sub.PassedTests,
		&sub.TotalTests, &timeTaken, &sub.Source, &sub.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(topics) > 0 {
		if err := json.Unmarshal(topics, &sub.Topics); err != nil {
			return nil, fmt.Errorf("unmarshal topics: %w", err)
		}
	}
	if timeTaken.Valid {
		sub.TimeTakenInMinutes = &timeTaken.Float64
	}

	// Legacy records carry coarse status values; the canonical verdict is the
	// only representation that leaves this layer.
	if v, ok := model.NormalizeVerdict(rawVerdict); ok {
		sub.Verdict = v
	} else {
		sub.Verdict = model.VerdictPending
	}
	return sub, nil
}

func scanSubmissions(rows *sql.Rows) ([]model.Submission, error) {
	subs := []model.Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return subs, nil
}
