// Package executor adapts external code-execution backends behind one
// interface: a sandboxed judge service reached over HTTP (with polling), and a
// local process runner used as a fallback for interpreted languages.
package executor

import "context"

type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
}

type Request struct {
	Language  string     `json:"language"`
	Code      string     `json:"code"`
	TestCases []TestCase `json:"test_cases"`
}

// Result is the raw grading outcome. Status is a free-form category string
// from the backend ("OK", "Compilation Error", "Runtime Error (SIGSEGV)", ...);
// verdict classification happens above this layer.
type Result struct {
	Status        string `json:"status"`
	PassedTests   int    `json:"passed_tests"`
	TotalTests    int    `json:"total_tests"`
	Stdout        string `json:"stdout,omitempty"`
	Stderr        string `json:"stderr,omitempty"`
	CompileOutput string `json:"compile_output,omitempty"`
}

type Executor interface {
	Execute(ctx context.Context, req Request) (*Result, error)
}
