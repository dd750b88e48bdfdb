package executor

import (
	"bytes"
	"codetrack/internal/common"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// judgeClient submits code to the sandboxed judge service and polls for the
// result until the execution reaches a terminal state or ctx expires.
type judgeClient struct {
	baseURL      string
	client       *http.Client
	pollInterval time.Duration
	timeout      time.Duration
	logger       *zap.Logger
}

func NewJudgeClient(baseURL string, pollInterval, timeout time.Duration, logger *zap.Logger) Executor {
	return &judgeClient{
		baseURL:      baseURL,
		client:       &http.Client{Timeout: 10 * time.Second},
		pollInterval: pollInterval,
		timeout:      timeout,
		logger:       logger,
	}
}

type judgeSubmitResponse struct {
	Token string `json:"token"`
}

type judgeStatusResponse struct {
	Finished bool   `json:"finished"`
	Status   string `json:"status"`
	Passed   int    `json:"passed_tests"`
	Total    int    `json:"total_tests"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	Compile  string `json:"compile_output"`
}

func (c *judgeClient) Execute(ctx context.Context, req Request) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	token, err := c.submit(ctx, req)
	if err != nil {
		return nil, err
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, common.Errorf("judge did not finish in time: %v: %w", ctx.Err(), common.ErrGradingUnavailable)
		case <-ticker.C:
			status, err := c.poll(ctx, token)
			if err != nil {
				return nil, err
			}
			if !status.Finished {
				continue
			}
			return &Result{
				Status:        status.Status,
				PassedTests:   status.Passed,
				TotalTests:    status.Total,
				Stdout:        status.Stdout,
				Stderr:        status.Stderr,
				CompileOutput: status.Compile,
			}, nil
		}
	}
}

func (c *judgeClient) submit(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal judge request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/executions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build judge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", common.Errorf("judge unreachable: %v: %w", err, common.ErrGradingUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", common.Errorf("judge submit returned status %d: %w", resp.StatusCode, common.ErrGradingUnavailable)
	}

	var out judgeSubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", common.Errorf("decode judge submit response: %v: %w", err, common.ErrGradingUnavailable)
	}
	if out.Token == "" {
		return "", common.Errorf("judge returned empty token: %w", common.ErrGradingUnavailable)
	}
	c.logger.Debug("judge execution submitted", zap.String("token", out.Token))
	return out.Token, nil
}

func (c *judgeClient) poll(ctx context.Context, token string) (*judgeStatusResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/executions/"+token, nil)
	if err != nil {
		return nil, fmt.Errorf("build judge poll request: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, common.Errorf("judge unreachable while polling: %v: %w", err, common.ErrGradingUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, common.Errorf("judge poll returned status %d: %w", resp.StatusCode, common.ErrGradingUnavailable)
	}

	var out judgeStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, common.Errorf("decode judge poll response: %v: %w", err, common.ErrGradingUnavailable)
	}
	return &out, nil
}
