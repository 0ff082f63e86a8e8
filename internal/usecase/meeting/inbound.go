package meeting

import (
	"context"
	"errors"
	"strings"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
	"github.com/johnquangdev/coachlink/internal/infrastructure/events"
	"github.com/johnquangdev/coachlink/internal/infrastructure/external/hubspot"
	"github.com/johnquangdev/coachlink/internal/usecase/ai"
	"github.com/johnquangdev/coachlink/pkg/phone"
)

// HandleInbound processes a chat message from a salesperson and returns
// the reply text. "done" or "completed" closes the meeting; anything else
// goes to the assistant with the meeting as context.
func (s *meetingService) HandleInbound(ctx context.Context, from, body string) string {
	sender := phone.Normalize(from)
	if sender == "" {
		return NoPendingMeeting
	}

	m, err := s.Meetings.FindLatestPendingFeedback(ctx, sender)
	if err != nil {
		if !errors.Is(err, entities.ErrMeetingNotFound) {
			s.logWarn("pending meeting lookup failed", nil, err)
			return ai.ChatErrorReply
		}
		return NoPendingMeeting
	}

	now := s.now()
	s.logMessage(ctx, m, entities.MessageIncoming, body)
	if err := s.Meetings.UpdateFields(ctx, m.ID, map[string]interface{}{"last_client_reply": now}); err != nil {
		s.logWarn("failed to stamp last reply", m, err)
	}

	var reply string
	if isDoneReply(body) {
		reply = s.markFeedback(ctx, m, body)
	} else {
		reply = s.chatReply(ctx, m, sender, body)
	}
	s.logMessage(ctx, m, entities.MessageOutgoing, reply)
	return reply
}

func isDoneReply(body string) bool {
	b := strings.ToLower(body)
	return strings.Contains(b, "done") || strings.Contains(b, "completed")
}

func (s *meetingService) markFeedback(ctx context.Context, m *entities.Meeting, body string) string {
	moved, err := s.Meetings.TransitionStatus(ctx, m.ID, entities.PredecessorsOf(entities.MeetingStatusCompleted), entities.MeetingStatusCompleted)
	if err != nil {
		s.logWarn("failed to complete meeting", m, err)
	}
	if moved {
		m.Status = entities.MeetingStatusCompleted
		s.publish(ctx, events.MeetingCompleted, m, "feedback")
	}
	if err := s.Meetings.UpdateFields(ctx, m.ID, map[string]interface{}{"feedback_received_at": s.now()}); err != nil {
		s.logWarn("failed to stamp feedback", m, err)
	}

	if m.Client != nil {
		contactID, err := s.resolver.contactFor(ctx, m.Client, false)
		switch {
		case err != nil:
			if !errors.Is(err, hubspot.ErrDisabled) {
				s.logWarn("crm contact search failed", m, err)
			}
		case contactID != "":
			subject := "Meeting Feedback: " + m.ClientName("Client")
			if _, err := s.CRM.CreateTicket(ctx, contactID, subject, "Feedback: "+body, hubspot.PriorityLow); err != nil {
				s.logWarn("crm feedback ticket failed", m, err)
			}
		}
	}
	s.logInfo("✅ Feedback received", m)
	return FeedbackConfirmation
}

func (s *meetingService) chatReply(ctx context.Context, m *entities.Meeting, sender, body string) string {
	lines, err := s.Transcripts.ListByMeeting(ctx, m.ID, chatTranscriptLines)
	if err != nil {
		s.logWarn("failed to load transcript for chat", m, err)
	}
	loc := s.opts.Location
	if user, err := s.Users.FindByPhone(ctx, sender); err == nil {
		loc = user.Location()
	}
	return s.Coach.ChatReply(ctx, ChatContext(m, loc, lines), body)
}

func (s *meetingService) logMessage(ctx context.Context, m *entities.Meeting, dir entities.MessageDirection, body string) {
	id := m.ID
	if err := s.Messages.Create(ctx, &entities.Message{
		ClientID:  m.ClientID,
		MeetingID: &id,
		Direction: dir,
		Message:   body,
		Timestamp: s.now(),
	}); err != nil {
		s.logWarn("failed to log message", m, err)
	}
}
