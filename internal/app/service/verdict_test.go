package service

import (
	"codetrack/internal/domain/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyVerdict(t *testing.T) {
	tests := []struct {
		name        string
		status      string
		passedTests int
		totalTests  int
		want        model.Verdict
	}{
		{"all tests pass", "Finished", 5, 5, model.VerdictPassed},
		{"partial pass", "Finished", 3, 5, model.VerdictFailed},
		{"zero passed", "Finished", 0, 5, model.VerdictFailed},
		{"compilation error", "Compilation Error", 0, 5, model.VerdictCompileError},
		{"compile error short form", "compile error", 0, 0, model.VerdictCompileError},
		{"segfault", "Segmentation fault (SIGSEGV)", 2, 5, model.VerdictRuntimeError},
		{"nzec", "NZEC", 0, 3, model.VerdictRuntimeError},
		{"generic runtime error", "Runtime Error", 0, 3, model.VerdictRuntimeError},
		{"time limit", "Time Limit Exceeded", 4, 5, model.VerdictRuntimeError},
		{"killed", "killed", 0, 1, model.VerdictRuntimeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyVerdict(tt.status, tt.passedTests, tt.totalTests))
		})
	}
}

func TestClassifyVerdictNoVacuousPass(t *testing.T) {
	// Zero total tests can never classify as PASSED, even with a clean status.
	assert.Equal(t, model.VerdictFailed, ClassifyVerdict("Finished", 0, 0))
}

func TestClassifyVerdictPriority(t *testing.T) {
	// Compile beats runtime beats counts: a compile error with all tests
	// nominally passing is still COMPILE_ERROR, and a runtime marker beats a
	// full pass count.
	assert.Equal(t, model.VerdictCompileError, ClassifyVerdict("compilation failed at runtime", 5, 5))
	assert.Equal(t, model.VerdictRuntimeError, ClassifyVerdict("runtime error", 5, 5))
}

func TestClassifyVerdictNeverPending(t *testing.T) {
	// Once a grading result exists the submission is never left PENDING.
	for _, status := range []string{"", "Finished", "weird status", "ok"} {
		v := ClassifyVerdict(status, 1, 2)
		assert.NotEqual(t, model.VerdictPending, v, "status %q", status)
	}
}
