package service

import (
	"codetrack/internal/common"
	"codetrack/internal/domain/model"
	"codetrack/internal/domain/repository"
	"codetrack/internal/platform/executor"
	"codetrack/internal/platform/notify"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SolveRecorder receives best-effort leaderboard updates for solved
// submissions.
type SolveRecorder interface {
	RecordSolve(ctx context.Context, userID string)
}

// SubmissionNotifier pushes best-effort events to the real-time delivery
// collaborator.
type SubmissionNotifier interface {
	PublishSubmission(ev notify.SubmissionEvent)
}

type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	questionRepo   repository.QuestionRepository
	exec           executor.Executor
	notifier       SubmissionNotifier
	board          SolveRecorder
	logger         *zap.Logger
	now            func() time.Time
}

func NewSubmissionService(
	subRepo repository.SubmissionRepository,
	questionRepo repository.QuestionRepository,
	exec executor.Executor,
	notifier SubmissionNotifier,
	board SolveRecorder,
	logger *zap.Logger,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: subRepo,
		questionRepo:   questionRepo,
		exec:           exec,
		notifier:       notifier,
		board:          board,
		logger:         logger,
		now:            time.Now,
	}
}

// SubmitRequest is the single declarative input contract for a submission.
// When Verdict is empty the grading adapter runs the code against the
// question's test cases; otherwise the client-supplied grading result is
// normalized and recorded as-is.
type SubmitRequest struct {
	QuestionID         string   `json:"questionId"`
	QuestionTitle      string   `json:"questionTitle"`
	Topics             []string `json:"topics"`
	Difficulty         string   `json:"difficulty"`
	Language           string   `json:"language"`
	Code               string   `json:"code"`
	Source             string   `json:"source"`
	Verdict            string   `json:"verdict"`
	PassedTests        int      `json:"passedTests"`
	TotalTests         int      `json:"totalTests"`
	Stdout             string   `json:"stdout"`
	Stderr             string   `json:"stderr"`
	TimeTakenInMinutes *float64 `json:"timeTakenInMinutes"`
}

func (s *SubmissionService) Submit(ctx context.Context, userID string, req SubmitRequest) (*model.Submission, error) {
	if req.Source == "" {
		req.Source = model.SourceQuickPractice
	}
	req.Language = model.NormalizeLanguage(req.Language)

	// Backfill the question snapshot from the catalog when the question is
	// known locally; quick-practice submissions may reference questions that
	// are not, in which case the client-supplied snapshot must stand on its
	// own.
	question, err := s.lookupQuestion(ctx, req.QuestionID)
	if err != nil {
		return nil, err
	}
	if question != nil {
		if req.QuestionTitle == "" {
			req.QuestionTitle = question.Title
		}
		if len(req.Topics) == 0 {
			req.Topics = question.Topics
		}
		if req.Difficulty == "" {
			req.Difficulty = string(question.Difficulty)
		}
	}

	if err := validateSubmitRequest(req); err != nil {
		return nil, err
	}

	sub := &model.Submission{
		ID:                 uuid.NewString(),
		UserID:             userID,
		QuestionID:         req.QuestionID,
		QuestionTitle:      req.QuestionTitle,
		Topics:             req.Topics,
		Difficulty:         model.Difficulty(req.Difficulty),
		Language:           req.Language,
		Code:               req.Code,
		Stdout:             req.Stdout,
		Stderr:             req.Stderr,
		PassedTests:        clampNonNegative(req.PassedTests),
		TotalTests:         clampNonNegative(req.TotalTests),
		TimeTakenInMinutes: req.TimeTakenInMinutes,
		Source:             req.Source,
		CreatedAt:          s.now().UTC(),
	}

	if req.Verdict != "" {
		// Client-graded: normalize; unrecognized verdict values fall back to
		// PENDING rather than being rejected.
		if v, ok := model.NormalizeVerdict(req.Verdict); ok {
			sub.Verdict = v
		} else {
			sub.Verdict = model.VerdictPending
		}
	} else {
		res, err := s.grade(ctx, question, req)
		if err != nil {
			return nil, err
		}
		sub.Verdict = ClassifyVerdict(res.Status, res.PassedTests, res.TotalTests)
		sub.PassedTests = clampNonNegative(res.PassedTests)
		sub.TotalTests = clampNonNegative(res.TotalTests)
		sub.Stdout = res.Stdout
		sub.Stderr = res.Stderr
		if sub.Stderr == "" {
			sub.Stderr = res.CompileOutput
		}
	}

	// The leaderboard counts distinct solved questions, so a repeat solve of
	// the same question must not increment it. Checked before the write so the
	// current record does not shadow the answer.
	firstSolve := false
	if sub.Solved() {
		alreadySolved, err := s.submissionRepo.HasSolved(ctx, userID, sub.QuestionID)
		if err != nil {
			s.logger.Warn("first-solve check failed, skipping leaderboard increment",
				zap.String("question_id", sub.QuestionID), zap.Error(err))
		} else {
			firstSolve = !alreadySolved
		}
	}

	if err := s.submissionRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.afterPersist(ctx, sub, firstSolve)
	return sub, nil
}

// lookupQuestion treats an absent catalog entry as nil, not an error; a store
// failure still propagates.
func (s *SubmissionService) lookupQuestion(ctx context.Context, questionID string) (*model.Question, error) {
	if questionID == "" {
		return nil, nil
	}
	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return question, nil
}

// grade runs the code through the execution adapter. An unreachable grader
// surfaces as a grading failure; it is never silently recorded as FAILED.
func (s *SubmissionService) grade(ctx context.Context, question *model.Question, req SubmitRequest) (*executor.Result, error) {
	if question == nil {
		return nil, common.Errorf("question %s not found for grading: %w", req.QuestionID, common.ErrNotFound)
	}
	testCases, err := s.questionRepo.TestCasesByQuestionID(ctx, question.ID)
	if err != nil {
		return nil, err
	}
	if len(testCases) == 0 {
		return nil, common.Errorf("question %s has no test cases: %w", question.ID, common.ErrGradingUnavailable)
	}

	execReq := executor.Request{Language: req.Language, Code: req.Code}
	for _, tc := range testCases {
		execReq.TestCases = append(execReq.TestCases, executor.TestCase{
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
		})
	}
	return s.exec.Execute(ctx, execReq)
}

// afterPersist fans out the best-effort side effects. Failures here are logged
// and swallowed; the submission write has already succeeded.
func (s *SubmissionService) afterPersist(ctx context.Context, sub *model.Submission, firstSolve bool) {
	if firstSolve && s.board != nil {
		s.board.RecordSolve(ctx, sub.UserID)
	}
	if s.notifier != nil {
		topic := ""
		if len(sub.Topics) > 0 {
			topic = sub.Topics[0]
		}
		s.notifier.PublishSubmission(notify.SubmissionEvent{
			UserID:        sub.UserID,
			SubmissionID:  sub.ID,
			DisplayStatus: sub.DisplayStatus(),
			Topic:         topic,
			Timestamp:     sub.CreatedAt,
		})
	}
	s.logger.Info("submission recorded",
		zap.String("submission_id", sub.ID),
		zap.String("user_id", sub.UserID),
		zap.String("verdict", string(sub.Verdict)))
}

func validateSubmitRequest(req SubmitRequest) error {
	if req.QuestionID == "" {
		return common.Errorf("questionId is required: %w", common.ErrValidation)
	}
	if req.Language == "" {
		return common.Errorf("language is required: %w", common.ErrValidation)
	}
	if req.Code == "" {
		return common.Errorf("code is required: %w", common.ErrValidation)
	}
	if req.TimeTakenInMinutes != nil && *req.TimeTakenInMinutes < 0 {
		return common.Errorf("timeTakenInMinutes must be non-negative: %w", common.ErrValidation)
	}
	if req.Source == model.SourceQuickPractice {
		if req.QuestionTitle == "" {
			return common.Errorf("questionTitle is required for quick-practice submissions: %w", common.ErrValidation)
		}
		if len(req.Topics) == 0 {
			return common.Errorf("topics must be non-empty for quick-practice submissions: %w", common.ErrValidation)
		}
		if !model.Difficulty(req.Difficulty).Valid() {
			return common.Errorf("difficulty must be one of Easy, Medium, Hard for quick-practice submissions: %w", common.ErrValidation)
		}
	}
	return nil
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// ListSubmissionsRequest carries the list filters as received at the boundary.
// Status accepts both canonical verdicts and legacy coarse status values.
type ListSubmissionsRequest struct {
	Topic      string
	Difficulty string
	Language   string
	Status     string
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}

type ListSubmissionsResult struct {
	Data  []model.Submission `json:"data"`
	Total int                `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

func (s *SubmissionService) List(ctx context.Context, userID string, req ListSubmissionsRequest) (*ListSubmissionsResult, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	filter := repository.SubmissionFilter{
		Topic:    req.Topic,
		Language: model.NormalizeLanguage(req.Language),
		From:     req.From,
		To:       req.To,
	}
	if req.Difficulty != "" {
		d := model.Difficulty(req.Difficulty)
		if !d.Valid() {
			return nil, common.Errorf("unknown difficulty %q: %w", req.Difficulty, common.ErrValidation)
		}
		filter.Difficulty = d
	}
	if req.Status != "" {
		v, ok := model.NormalizeVerdict(req.Status)
		if !ok {
			return nil, common.Errorf("unknown status %q: %w", req.Status, common.ErrValidation)
		}
		filter.Verdict = v
	}

	offset := (req.Page - 1) * req.Limit
	subs, total, err := s.submissionRepo.ListByUser(ctx, userID, filter, req.Limit, offset)
	if err != nil {
		return nil, err
	}
	return &ListSubmissionsResult{Data: subs, Total: total, Page: req.Page, Limit: req.Limit}, nil
}

func (s *SubmissionService) Latest(ctx context.Context, userID, questionID, language string) (*model.Submission, error) {
	if questionID == "" {
		return nil, common.Errorf("questionId is required: %w", common.ErrValidation)
	}
	if language == "" {
		return nil, common.Errorf("language is required: %w", common.ErrValidation)
	}
	return s.submissionRepo.FindLatest(ctx, userID, questionID, model.NormalizeLanguage(language))
}
