package executor

import (
	"bytes"
	"codetrack/internal/common"
	"codetrack/internal/domain/model"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// localExecutor runs interpreted-language submissions directly on the host.
// It exists as a degraded fallback when the judge service is down and supports
// only languages that need no compile step.
type localExecutor struct {
	perTestTimeout time.Duration
	logger         *zap.Logger
}

func NewLocalExecutor(perTestTimeout time.Duration, logger *zap.Logger) Executor {
	return &localExecutor{perTestTimeout: perTestTimeout, logger: logger}
}

var localRunners = map[string]struct {
	cmd []string
	ext string
}{
	model.LangPython:     {cmd: []string{"python3"}, ext: ".py"},
	model.LangJavaScript: {cmd: []string{"node"}, ext: ".js"},
	model.LangRuby:       {cmd: []string{"ruby"}, ext: ".rb"},
}

func (e *localExecutor) Execute(ctx context.Context, req Request) (*Result, error) {
	runner, ok := localRunners[req.Language]
	if !ok {
		return nil, common.Errorf("language %q not supported by local executor: %w", req.Language, common.ErrGradingUnavailable)
	}

	dir, err := os.MkdirTemp("", "codetrack-exec-*")
	if err != nil {
		return nil, common.Errorf("create exec dir: %v: %w", err, common.ErrGradingUnavailable)
	}
	defer os.RemoveAll(dir)

	srcPath := filepath.Join(dir, "main"+runner.ext)
	if err := os.WriteFile(srcPath, []byte(req.Code), 0o600); err != nil {
		return nil, common.Errorf("write source file: %v: %w", err, common.ErrGradingUnavailable)
	}

	res := &Result{Status: "OK", TotalTests: len(req.TestCases)}
	var lastStdout, lastStderr string

	for i, tc := range req.TestCases {
		stdout, stderr, runErr := e.runOnce(ctx, runner.cmd, srcPath, tc.Input)
		lastStdout, lastStderr = stdout, stderr

		if runErr != nil {
			var exitErr *exec.ExitError
			switch {
			case errors.Is(runErr, context.DeadlineExceeded):
				res.Status = "Time Limit Exceeded"
			case errors.As(runErr, &exitErr):
				res.Status = "Runtime Error (non-zero exit)"
			default:
				// The interpreter itself is missing or broken; the host cannot
				// grade anything, so surface unavailability.
				return nil, common.Errorf("local run failed: %v: %w", runErr, common.ErrGradingUnavailable)
			}
			e.logger.Debug("local test failed to run",
				zap.Int("test", i), zap.String("status", res.Status))
			continue
		}

		if strings.TrimSpace(stdout) == strings.TrimSpace(tc.ExpectedOutput) {
			res.PassedTests++
		}
	}

	res.Stdout = lastStdout
	res.Stderr = lastStderr
	return res, nil
}

func (e *localExecutor) runOnce(ctx context.Context, cmdBase []string, srcPath, input string) (string, string, error) {
	runCtx, cancel := context.WithTimeout(ctx, e.perTestTimeout)
	defer cancel()

	args := append(append([]string{}, cmdBase[1:]...), srcPath)
	cmd := exec.CommandContext(runCtx, cmdBase[0], args...)
	cmd.Stdin = strings.NewReader(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if runCtx.Err() != nil {
		err = runCtx.Err()
	}
	return stdout.String(), stderr.String(), err
}
