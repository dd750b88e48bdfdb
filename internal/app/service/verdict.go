package service

import (
	"codetrack/internal/domain/model"
	"strings"
)

// runtimeMarkers are the status fragments graders emit for runtime failures:
// signals, aborts, non-zero exits and the generic runtime error category.
var runtimeMarkers = []string{
	"segmentation",
	"sigsegv",
	"floating point",
	"sigfpe",
	"abort",
	"non-zero exit",
	"nzec",
	"runtime",
	"killed",
	"time limit",
}

// ClassifyVerdict maps a raw grading status plus test counts onto one
// canonical verdict. First match wins: compile failure beats runtime failure
// beats test-count comparison. Once a grading result exists the outcome is
// never left PENDING, and zero total tests can never classify as PASSED.
func ClassifyVerdict(status string, passedTests, totalTests int) model.Verdict {
	s := strings.ToLower(status)

	if strings.Contains(s, "compil") {
		return model.VerdictCompileError
	}
	for _, marker := range runtimeMarkers {
		if strings.Contains(s, marker) {
			return model.VerdictRuntimeError
		}
	}
	if totalTests > 0 && passedTests == totalTests {
		return model.VerdictPassed
	}
	return model.VerdictFailed
}
