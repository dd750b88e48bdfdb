package executor

import (
	"codetrack/internal/common"
	"context"
	"errors"

	"go.uber.org/zap"
)

// fallbackExecutor tries the primary backend and, only when grading is
// unavailable there, retries on the fallback. Any other failure propagates
// untouched.
type fallbackExecutor struct {
	primary  Executor
	fallback Executor
	logger   *zap.Logger
}

func NewFallback(primary, fallback Executor, logger *zap.Logger) Executor {
	return &fallbackExecutor{primary: primary, fallback: fallback, logger: logger}
}

func (e *fallbackExecutor) Execute(ctx context.Context, req Request) (*Result, error) {
	res, err := e.primary.Execute(ctx, req)
	if err == nil {
		return res, nil
	}
	if e.fallback == nil || !errors.Is(err, common.ErrGradingUnavailable) {
		return nil, err
	}

	e.logger.Warn("primary executor unavailable, falling back to local execution",
		zap.String("language", req.Language), zap.Error(err))
	return e.fallback.Execute(ctx, req)
}
