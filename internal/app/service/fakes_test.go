package service

import (
	"codetrack/internal/common"
	"codetrack/internal/domain/model"
	"codetrack/internal/domain/repository"
	"codetrack/internal/platform/executor"
	"codetrack/internal/platform/notify"
	"context"
	"database/sql"
	"sort"
	"time"
)

// fakeSubmissionRepo is an in-memory SubmissionRepository that mirrors the
// aggregation semantics of the SQL implementation. Setting err makes every
// method fail with it.
type fakeSubmissionRepo struct {
	subs []model.Submission
	err  error
}

func (f *fakeSubmissionRepo) Create(ctx context.Context, sub *model.Submission) error {
	if f.err != nil {
		return f.err
	}
	f.subs = append(f.subs, *sub)
	return nil
}

func (f *fakeSubmissionRepo) forUser(userID string) []model.Submission {
	var out []model.Submission
	for _, s := range f.subs {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakeSubmissionRepo) ListByUser(ctx context.Context, userID string, filter repository.SubmissionFilter, limit, offset int) ([]model.Submission, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	var matched []model.Submission
	for _, s := range f.forUser(userID) {
		if filter.Topic != "" && !containsTopic(s.Topics, filter.Topic) {
			continue
		}
		if filter.Difficulty != "" && s.Difficulty != filter.Difficulty {
			continue
		}
		if filter.Language != "" && s.Language != filter.Language {
			continue
		}
		if filter.Verdict != "" && s.Verdict != filter.Verdict {
			continue
		}
		if filter.From != nil && s.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && s.CreatedAt.After(*filter.To) {
			continue
		}
		matched = append(matched, s)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	total := len(matched)
	if offset >= len(matched) {
		return []model.Submission{}, total, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (f *fakeSubmissionRepo) FindLatest(ctx context.Context, userID, questionID, language string) (*model.Submission, error) {
	if f.err != nil {
		return nil, f.err
	}
	var latest *model.Submission
	for i := range f.subs {
		s := &f.subs[i]
		if s.UserID != userID || s.QuestionID != questionID || s.Language != language {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, common.ErrNotFound
	}
	out := *latest
	return &out, nil
}

func (f *fakeSubmissionRepo) OverviewCounts(ctx context.Context, userID string, solvedSince time.Time) (*model.OverviewStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	stats := &model.OverviewStats{}
	for _, s := range f.forUser(userID) {
		stats.TotalSubmissions++
		if s.Verdict == model.VerdictPassed {
			stats.TotalSolved++
			if !s.CreatedAt.Before(solvedSince) {
				stats.SolvedLast7Days++
			}
		} else if s.Verdict != model.VerdictPending {
			stats.AttemptedButUnsolved++
		}
	}
	return stats, nil
}

func (f *fakeSubmissionRepo) TopicRollup(ctx context.Context, userID string) ([]model.TopicStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	byTopic := map[string]*model.TopicStats{}
	for _, s := range f.forUser(userID) {
		for _, topic := range s.Topics {
			ts, ok := byTopic[topic]
			if !ok {
				ts = &model.TopicStats{Topic: topic}
				byTopic[topic] = ts
			}
			ts.TotalSubmissions++
			if s.Verdict == model.VerdictPassed {
				ts.TotalSolved++
			}
		}
	}
	var out []model.TopicStats
	for _, ts := range byTopic {
		out = append(out, *ts)
	}
	return out, nil
}

func (f *fakeSubmissionRepo) DifficultyRollup(ctx context.Context, userID string) ([]model.DifficultyStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	byDifficulty := map[model.Difficulty]*model.DifficultyStats{}
	for _, s := range f.forUser(userID) {
		if s.Difficulty == "" {
			continue
		}
		ds, ok := byDifficulty[s.Difficulty]
		if !ok {
			ds = &model.DifficultyStats{Difficulty: s.Difficulty}
			byDifficulty[s.Difficulty] = ds
		}
		ds.TotalSubmissions++
		if s.Verdict == model.VerdictPassed {
			ds.TotalSolved++
		}
	}
	var out []model.DifficultyStats
	for _, ds := range byDifficulty {
		out = append(out, *ds)
	}
	return out, nil
}

func (f *fakeSubmissionRepo) DistinctSolveDates(ctx context.Context, userID string) ([]time.Time, error) {
	if f.err != nil {
		return nil, f.err
	}
	seen := map[string]time.Time{}
	for _, s := range f.forUser(userID) {
		if s.Verdict != model.VerdictPassed {
			continue
		}
		day := s.CreatedAt.UTC().Truncate(24 * time.Hour)
		seen[day.Format("2006-01-02")] = day
	}
	var dates []time.Time
	for _, d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

func (f *fakeSubmissionRepo) SolvedCountsByQuestion(ctx context.Context, userID string) (map[string]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	counts := map[string]int{}
	for _, s := range f.forUser(userID) {
		if s.Verdict == model.VerdictPassed {
			counts[s.QuestionID]++
		}
	}
	return counts, nil
}

func (f *fakeSubmissionRepo) HasSolved(ctx context.Context, userID, questionID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, s := range f.forUser(userID) {
		if s.QuestionID == questionID && s.Verdict == model.VerdictPassed {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSubmissionRepo) FastestSolveMinutes(ctx context.Context, userID string) (*float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	var fastest *float64
	for _, s := range f.forUser(userID) {
		if s.Verdict != model.VerdictPassed || s.TimeTakenInMinutes == nil {
			continue
		}
		if fastest == nil || *s.TimeTakenInMinutes < *fastest {
			v := *s.TimeTakenInMinutes
			fastest = &v
		}
	}
	return fastest, nil
}

func (f *fakeSubmissionRepo) ListSince(ctx context.Context, userID string, since time.Time) ([]model.Submission, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Submission
	for _, s := range f.forUser(userID) {
		if !s.CreatedAt.Before(since) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeSubmissionRepo) ListRecent(ctx context.Context, userID string, limit int) ([]model.Submission, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := f.forUser(userID)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSubmissionRepo) GetLeaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	solved := map[string]map[string]struct{}{}
	for _, s := range f.subs {
		if s.Verdict != model.VerdictPassed {
			continue
		}
		if solved[s.UserID] == nil {
			solved[s.UserID] = map[string]struct{}{}
		}
		solved[s.UserID][s.QuestionID] = struct{}{}
	}
	var entries []model.LeaderboardEntry
	for userID, qs := range solved {
		entries = append(entries, model.LeaderboardEntry{UserID: userID, Solved: len(qs)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Solved > entries[j].Solved })
	if limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

func containsTopic(topics []string, topic string) bool {
	for _, t := range topics {
		if t == topic {
			return true
		}
	}
	return false
}

// fakeQuestionRepo serves a fixed catalog keyed by question ID.
type fakeQuestionRepo struct {
	questions map[string]*model.Question
	testCases map[string][]model.TestCase
	err       error
}

func (f *fakeQuestionRepo) Create(ctx context.Context, tx *sql.Tx, q *model.Question) error {
	if f.err != nil {
		return f.err
	}
	if f.questions == nil {
		f.questions = map[string]*model.Question{}
	}
	f.questions[q.ID] = q
	return nil
}

func (f *fakeQuestionRepo) FindByID(ctx context.Context, id string) (*model.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	q, ok := f.questions[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return q, nil
}

func (f *fakeQuestionRepo) FindBySlug(ctx context.Context, slug string) (*model.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, q := range f.questions {
		if q.Slug == slug {
			return q, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeQuestionRepo) List(ctx context.Context, filter repository.QuestionFilter, limit, offset int) ([]model.Question, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	var out []model.Question
	for _, q := range f.questions {
		out = append(out, *q)
	}
	return out, len(out), nil
}

func (f *fakeQuestionRepo) AddTestCases(ctx context.Context, tx *sql.Tx, questionID string, testCases []model.TestCase) error {
	if f.err != nil {
		return f.err
	}
	if f.testCases == nil {
		f.testCases = map[string][]model.TestCase{}
	}
	f.testCases[questionID] = append(f.testCases[questionID], testCases...)
	return nil
}

func (f *fakeQuestionRepo) TestCasesByQuestionID(ctx context.Context, questionID string) ([]model.TestCase, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.testCases[questionID], nil
}

// fakeExecutor returns a canned result or error.
type fakeExecutor struct {
	result *executor.Result
	err    error
	calls  int
}

func (f *fakeExecutor) Execute(ctx context.Context, req executor.Request) (*executor.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// capturingNotifier records published events.
type capturingNotifier struct {
	events []notify.SubmissionEvent
}

func (c *capturingNotifier) PublishSubmission(ev notify.SubmissionEvent) {
	c.events = append(c.events, ev)
}

// capturingBoard records leaderboard increments.
type capturingBoard struct {
	solves []string
}

func (c *capturingBoard) RecordSolve(ctx context.Context, userID string) {
	c.solves = append(c.solves, userID)
}
