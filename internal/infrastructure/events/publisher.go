package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
)

// Lifecycle event names
const (
	MeetingScheduled    = "meeting.scheduled"
	MeetingReminderSent = "meeting.reminder_sent"
	MeetingCompleted    = "meeting.completed"
	MeetingFailed       = "meeting.failed"
	MeetingRejected     = "meeting.rejected"
)

// LifecycleEvent is the JSON body of every published event
type LifecycleEvent struct {
	MeetingID      int64     `json:"meeting_id,omitempty"`
	OutlookEventID string    `json:"outlook_event_id,omitempty"`
	Status         string    `json:"status"`
	Reason         string    `json:"reason,omitempty"`
	At             time.Time `json:"at"`
}

// Publisher announces meeting lifecycle changes. Publishing never fails the caller.
type Publisher interface {
	Publish(ctx context.Context, event string, payload LifecycleEvent)
}

// EventForStatus maps a meeting status to its event name
func EventForStatus(status entities.MeetingStatus) string {
	return "meeting." + string(status)
}

// INatsConn is the subset of *nats.Conn the publisher needs
type INatsConn interface {
	IsConnected() bool
	Publish(subj string, data []byte) error
}

var (
	_ Publisher = (*NATSPublisher)(nil)
	_ Publisher = NoopPublisher{}
	_ INatsConn = (*nats.Conn)(nil)
)

// NATSPublisher publishes lifecycle events to `{prefix}.{event}`
type NATSPublisher struct {
	conn   INatsConn
	prefix string
	logger *zap.Logger
}

// Connect dials NATS and returns a publisher on top of the connection
func Connect(url, prefix string, logger *zap.Logger) (*NATSPublisher, *nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("coachlink"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if logger != nil && err != nil {
				logger.Warn("⚠️ NATS disconnected", zap.Error(err))
			}
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return NewNATSPublisher(nc, prefix, logger), nc, nil
}

// NewNATSPublisher wraps an existing connection
func NewNATSPublisher(conn INatsConn, prefix string, logger *zap.Logger) *NATSPublisher {
	return &NATSPublisher{conn: conn, prefix: prefix, logger: logger}
}

// Publish implements Publisher
func (p *NATSPublisher) Publish(_ context.Context, event string, payload LifecycleEvent) {
	if payload.At.IsZero() {
		payload.At = time.Now().UTC()
	}
	subject := p.prefix + "." + event
	if p.prefix == "" {
		subject = event
	}

	if !p.conn.IsConnected() {
		p.warn("NATS not connected, dropping event", subject, nil)
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		p.warn("failed to marshal lifecycle event", subject, err)
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		p.warn("failed to publish lifecycle event", subject, err)
		return
	}
	if p.logger != nil {
		p.logger.Debug("published lifecycle event",
			zap.String("subject", subject),
			zap.Int64("meeting_id", payload.MeetingID))
	}
}

func (p *NATSPublisher) warn(msg, subject string, err error) {
	if p.logger == nil {
		return
	}
	fields := []zap.Field{zap.String("subject", subject)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	p.logger.Warn(msg, fields...)
}

// NoopPublisher discards events
type NoopPublisher struct{}

// Publish implements Publisher
func (NoopPublisher) Publish(context.Context, string, LifecycleEvent) {}
