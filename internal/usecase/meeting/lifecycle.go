package meeting

import (
	"context"
	"time"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
	"github.com/johnquangdev/coachlink/internal/infrastructure/events"
	"github.com/johnquangdev/coachlink/internal/infrastructure/external/survey"
)

const (
	surveyBatch = 100
	nudgeBatch  = 100
)

// DueReminders lists every active meeting
func (s *meetingService) DueReminders(ctx context.Context) ([]entities.Meeting, error) {
	return s.Meetings.ListByStatuses(ctx, entities.ActiveMeetingStatuses, 0)
}

// SendReminder moves an ended meeting to reminder_sent and messages the
// salesperson. The transition is the claim, so the reminder goes out at
// most once; without a known phone the transition is silent.
func (s *meetingService) SendReminder(ctx context.Context, m *entities.Meeting, now time.Time) error {
	if m.Status != entities.MeetingStatusScheduled {
		return nil
	}
	end, ok := m.EffectiveEnd(s.opts.DefaultLength)
	if !ok || now.Before(end.Add(s.opts.Grace)) {
		return nil
	}

	moved, err := s.Meetings.TransitionStatus(ctx, m.ID,
		[]entities.MeetingStatus{entities.MeetingStatusScheduled}, entities.MeetingStatusReminderSent)
	if err != nil || !moved {
		return err
	}
	m.Status = entities.MeetingStatusReminderSent
	s.publish(ctx, events.MeetingReminderSent, m, "")

	if m.SalespersonPhone == "" {
		s.logInfo("reminder skipped, no phone", m)
		return nil
	}
	_, _, err = s.dispatcher.Dispatch(ctx, Notification{
		Meeting: m,
		Kind:    KindReminder,
		Message: Message{Body: ReminderMessage(m)},
	})
	if err == nil {
		s.logInfo("🔔 Reminder sent", m)
	}
	return err
}

// DueSurveys lists meetings past their reminder whose survey still needs a
// trigger and which ended within the survey window
func (s *meetingService) DueSurveys(ctx context.Context, now time.Time) ([]entities.Meeting, error) {
	return s.Meetings.ListSurveyDue(ctx, now.Add(-s.opts.SurveyWindow), s.opts.DefaultLength, surveyBatch)
}

// TriggerSurvey calls the survey service and records the outcome in
// survey_status, independently of the meeting status
func (s *meetingService) TriggerSurvey(ctx context.Context, m *entities.Meeting) error {
	if s.Survey == nil {
		return nil
	}
	if err := s.Survey.Trigger(ctx, s.surveyPayload(m)); err != nil {
		failedFrom := entities.SurveyPredecessorsOf(entities.SurveyStatusFailed)
		if _, terr := s.Meetings.TransitionSurveyStatus(ctx, m.ID, failedFrom, entities.SurveyStatusFailed); terr != nil {
			s.logWarn("failed to record survey failure", m, terr)
		}
		m.SurveyStatus = entities.SurveyStatusFailed
		return err
	}

	if _, err := s.Meetings.TransitionSurveyStatus(ctx, m.ID, entities.SurveyPredecessorsOf(entities.SurveyStatusSent), entities.SurveyStatusSent); err != nil {
		return err
	}
	m.SurveyStatus = entities.SurveyStatusSent
	s.logInfo("📊 Survey triggered", m)
	return nil
}

func (s *meetingService) surveyPayload(m *entities.Meeting) survey.TriggerPayload {
	p := survey.TriggerPayload{
		MeetingID:        m.ID,
		Title:            m.Title,
		OrganizerEmail:   m.OrganizerEmail,
		SalespersonPhone: m.SalespersonPhone,
	}
	if m.StartTime != nil {
		p.StartTime = m.StartTime.UTC().Format(time.RFC3339)
	}
	if end, ok := m.EffectiveEnd(s.opts.DefaultLength); ok {
		p.EndTime = end.UTC().Format(time.RFC3339)
	}
	if m.Client != nil {
		p.ClientEmail = m.Client.Email
		p.ClientName = m.Client.DisplayName("")
	}
	return p
}

// AwaitingTranscript lists the newest active meetings with a bot token
func (s *meetingService) AwaitingTranscript(ctx context.Context) ([]entities.Meeting, error) {
	return s.Meetings.ListAwaitingTranscript(ctx, s.opts.BotPollBatch)
}

// PollBot checks one bot. Meetings too far ahead are skipped and meetings
// stale past the cutoff are failed without polling.
func (s *meetingService) PollBot(ctx context.Context, m *entities.Meeting, now time.Time) error {
	if s.Bot == nil || m.StartTime == nil || !m.HasBotToken() || m.Status.IsTerminal() {
		return nil
	}
	if m.StartTime.After(now.Add(s.opts.BotLookahead)) {
		return nil
	}
	if m.StartTime.Before(now.Add(-s.opts.BotStale)) {
		moved, err := s.Meetings.TransitionStatus(ctx, m.ID, entities.PredecessorsOf(entities.MeetingStatusFailed), entities.MeetingStatusFailed)
		if err != nil || !moved {
			return err
		}
		m.Status = entities.MeetingStatusFailed
		s.logInfo("⌛ Meeting failed, bot never delivered", m)
		s.publish(ctx, events.MeetingFailed, m, "bot transcript stale")
		return nil
	}

	status, err := s.Bot.GetStatus(ctx, *m.AuxMeetingToken)
	if err != nil {
		return err
	}
	if !status.IsDone() {
		return nil
	}
	_, err = s.CompleteWithTranscript(ctx, m, Completion{
		Content: status.Transcript,
		Title:   status.Title,
		Source:  entities.TranscriptSourceAuxAPI,
	})
	return err
}

// AwaitingFeedback lists meetings transcribed more than NudgeAfter ago
// without salesperson feedback
func (s *meetingService) AwaitingFeedback(ctx context.Context, now time.Time) ([]entities.Meeting, error) {
	return s.Meetings.ListAwaitingFeedback(ctx, now.Add(-s.opts.NudgeAfter), nudgeBatch)
}

// Nudge reminds the salesperson to reply once per transcript, unless they
// already wrote back
func (s *meetingService) Nudge(ctx context.Context, m *entities.Meeting) error {
	if m.TranscriptAt == nil {
		return nil
	}
	replied, err := s.Messages.ExistsIncomingSince(ctx, m.ID, *m.TranscriptAt)
	if err != nil || replied {
		return err
	}
	since := *m.TranscriptAt
	_, _, err = s.dispatcher.Dispatch(ctx, Notification{
		Meeting:   m,
		Kind:      KindNudge,
		Message:   Message{Body: NudgeMessage},
		OnceSince: &since,
	})
	return err
}
