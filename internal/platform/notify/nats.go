// Package notify pushes best-effort submission events to the real-time
// delivery collaborator over NATS. Publishing is fire-and-forget: a delivery
// failure never fails the submission write.
package notify

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

type Publisher struct {
	conn    *nats.Conn
	subject string
	logger  *zap.Logger
}

func NewPublisher(natsURL, subject string, logger *zap.Logger) (*Publisher, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: nc, subject: subject, logger: logger}, nil
}

func (p *Publisher) Close() {
	if p != nil && p.conn != nil {
		p.conn.Close()
	}
}

type SubmissionEvent struct {
	UserID        string    `json:"userId"`
	SubmissionID  string    `json:"submissionId"`
	DisplayStatus string    `json:"displayStatus"`
	Topic         string    `json:"topic,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// PublishSubmission is nil-safe so callers can hold a disabled publisher.
func (p *Publisher) PublishSubmission(ev SubmissionEvent) {
	if p == nil || p.conn == nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		p.logger.Warn("marshal submission event failed", zap.Error(err))
		return
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		p.logger.Warn("publish submission event failed",
			zap.String("submission_id", ev.SubmissionID), zap.Error(err))
	}
}
