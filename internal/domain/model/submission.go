package model

import (
	"strings"
	"time"
)

// Verdict is the canonical classification of a single grading attempt.
type Verdict string

const (
	VerdictPending      Verdict = "PENDING"
	VerdictPassed       Verdict = "PASSED"
	VerdictFailed       Verdict = "FAILED"
	VerdictCompileError Verdict = "COMPILE_ERROR"
	VerdictRuntimeError Verdict = "RUNTIME_ERROR"
)

// SourceQuickPractice is the default submission origin. Quick-practice
// submissions must carry a denormalized question snapshot (title, topics,
// difficulty) because the question may never enter the local catalog.
const SourceQuickPractice = "quick-practice"

// Submission is immutable once created. A resubmission is a new record; no
// aggregation path ever mutates one.
type Submission struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"userId"`
	QuestionID         string     `json:"questionId"`
	QuestionTitle      string     `json:"questionTitle,omitempty"`
	Topics             []string   `json:"topics,omitempty"`
	Difficulty         Difficulty `json:"difficulty,omitempty"`
	Language           string     `json:"language"`
	Code               string     `json:"code"`
	Stdout             string     `json:"stdout,omitempty"`
	Stderr             string     `json:"stderr,omitempty"`
	Verdict            Verdict    `json:"verdict"`
	PassedTests        int        `json:"passedTests"`
	TotalTests         int        `json:"totalTests"`
	TimeTakenInMinutes *float64   `json:"timeTakenInMinutes,omitempty"`
	Source             string     `json:"source"`
	CreatedAt          time.Time  `json:"createdAt"`
}

// Solved is the single definition of "solved" used by every aggregation.
func (s *Submission) Solved() bool {
	return s.Verdict == VerdictPassed
}

// DisplayStatus renders PASSED as the conventional "AC" short form; every other
// verdict renders as its own name.
func (s *Submission) DisplayStatus() string {
	if s.Verdict == VerdictPassed {
		return "AC"
	}
	return string(s.Verdict)
}

// legacyVerdicts maps the coarse status values older records and clients used
// onto the canonical verdict set. Normalization happens once at the store
// boundary; everything above it only ever sees Verdict.
var legacyVerdicts = map[string]Verdict{
	"pending":           VerdictPending,
	"inqueue":           VerdictPending,
	"processing":        VerdictPending,
	"passed":            VerdictPassed,
	"accepted":          VerdictPassed,
	"ac":                VerdictPassed,
	"failed":            VerdictFailed,
	"wrong answer":      VerdictFailed,
	"wronganswer":       VerdictFailed,
	"wa":                VerdictFailed,
	"rejected":          VerdictFailed,
	"compile_error":     VerdictCompileError,
	"compilation error": VerdictCompileError,
	"compilationerror":  VerdictCompileError,
	"ce":                VerdictCompileError,
	"runtime_error":     VerdictRuntimeError,
	"runtime error":     VerdictRuntimeError,
	"runtimeerror":      VerdictRuntimeError,
	"re":                VerdictRuntimeError,
}

// NormalizeVerdict maps a raw or legacy status value onto the canonical verdict
// set. ok is false for values that have no canonical counterpart.
func NormalizeVerdict(raw string) (Verdict, bool) {
	v, ok := legacyVerdicts[strings.ToLower(strings.TrimSpace(raw))]
	return v, ok
}
