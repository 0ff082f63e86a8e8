package meeting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
	"github.com/johnquangdev/coachlink/internal/domain/repositories"
	"github.com/johnquangdev/coachlink/internal/infrastructure/external/twilio"
)

// Notification is one outgoing message. Meeting may be nil for messages
// not tied to a meeting (welcome, raw coaching).
type Notification struct {
	Meeting *entities.Meeting
	To      string
	Kind    NotificationKind
	Message Message

	// OnceSince suppresses the send when an identical outgoing body was
	// logged for the meeting at or after this instant
	OnceSince *time.Time
}

// Dispatcher sends notifications and appends them to the message log
type Dispatcher struct {
	sender   twilio.Sender
	messages repositories.MessageRepository
	now      func() time.Time
	logger   *zap.Logger
}

// NewDispatcher creates a dispatcher
func NewDispatcher(sender twilio.Sender, messages repositories.MessageRepository, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		sender:   sender,
		messages: messages,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger,
	}
}

// Dispatch delivers n. sent is false without error when there is no
// recipient or the OnceSince check found an earlier identical send.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notification) (string, bool, error) {
	to := n.To
	if to == "" && n.Meeting != nil {
		to = n.Meeting.SalespersonPhone
	}
	if to == "" {
		d.debug("no recipient, notification skipped", n)
		return "", false, nil
	}

	if n.OnceSince != nil && n.Meeting != nil {
		seen, err := d.messages.ExistsOutgoing(ctx, n.Meeting.ID, n.Message.Body, *n.OnceSince)
		if err != nil {
			return "", false, fmt.Errorf("failed to check message log: %w", err)
		}
		if seen {
			d.debug("identical message already sent", n)
			return "", false, nil
		}
	}

	sid, err := d.sender.Send(ctx, to, twilio.Message{Body: n.Message.Body, TemplateVars: n.Message.TemplateVars})
	if err != nil {
		return "", false, fmt.Errorf("failed to send %s message: %w", n.Kind, err)
	}

	entry := &entities.Message{
		Direction: entities.MessageOutgoing,
		Message:   n.Message.Body,
		Timestamp: d.now(),
	}
	if n.Meeting != nil {
		id := n.Meeting.ID
		entry.MeetingID = &id
		entry.ClientID = n.Meeting.ClientID
	}
	if err := d.messages.Create(ctx, entry); err != nil && d.logger != nil {
		d.logger.Warn("failed to log outgoing message", zap.String("kind", string(n.Kind)), zap.Error(err))
	}

	if d.logger != nil {
		d.logger.Info("📤 Message sent", zap.String("kind", string(n.Kind)), zap.String("sid", sid))
	}
	return sid, true, nil
}

func (d *Dispatcher) debug(msg string, n Notification) {
	if d.logger == nil {
		return
	}
	fields := []zap.Field{zap.String("kind", string(n.Kind))}
	if n.Meeting != nil {
		fields = append(fields, zap.Int64("meeting_id", n.Meeting.ID))
	}
	d.logger.Debug(msg, fields...)
}
