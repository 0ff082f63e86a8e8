package meeting

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
	"github.com/johnquangdev/coachlink/internal/infrastructure/events"
	"github.com/johnquangdev/coachlink/internal/usecase/ai"
	"github.com/johnquangdev/coachlink/internal/usecase/normalize"
	"github.com/johnquangdev/coachlink/pkg/timeutil"
)

// IngestStatus is the acknowledgement class of a calendar webhook
type IngestStatus string

const (
	StatusIgnored IngestStatus = "ignored"
	StatusSuccess IngestStatus = "success"
	StatusPartial IngestStatus = "partial"
)

// AlreadyProcessed acknowledges a redelivery of a fully handled event
const AlreadyProcessed = "Meeting already processed"

// IngestResult is returned to the calendar webhook caller
type IngestResult struct {
	Status    IngestStatus
	Message   string
	MeetingID int64
	Outcome   string
}

// HandleCalendarEvent runs one calendar notification through
// normalize, resolve, dedup, store, coaching and bot scheduling.
// It never returns an error: every outcome is an acknowledgement.
func (s *meetingService) HandleCalendarEvent(ctx context.Context, payload map[string]any) IngestResult {
	res := s.normalizer.Normalize(payload)
	if !res.OK() {
		return s.reject(ctx, res.Rejection, "")
	}
	ev := res.Event

	resolution, rejection, err := s.resolver.Resolve(ctx, ev)
	if err != nil {
		s.logWarn("failed to resolve meeting participants", nil, err)
		return IngestResult{Status: StatusPartial, Message: "Failed to resolve meeting participants"}
	}
	if rejection != nil {
		return s.reject(ctx, rejection, ev.MeetingID)
	}

	decision, err := s.guard.Check(ctx, ev.MeetingID)
	if err != nil {
		s.logWarn("failed to check for existing meeting", nil, err)
		return IngestResult{Status: StatusPartial, Message: "Failed to check existing meeting"}
	}
	if decision.Outcome == OutcomeDuplicateComplete {
		return IngestResult{Status: StatusSuccess, Message: AlreadyProcessed, MeetingID: decision.Meeting.ID}
	}

	summary := ev.BodyText + s.resolver.Enrich(ctx, resolution.Client)

	m, decision, err := s.store(ctx, ev, resolution, summary, decision)
	if err != nil {
		s.logWarn("failed to store meeting", nil, err)
		return IngestResult{Status: StatusPartial, Message: "Failed to store meeting"}
	}
	if decision.Outcome == OutcomeDuplicateComplete {
		return IngestResult{Status: StatusSuccess, Message: AlreadyProcessed, MeetingID: m.ID}
	}

	if decision.Outcome == OutcomeNew {
		s.logInfo("✅ Meeting scheduled", m, zap.String("outlook_event_id", m.OutlookEventID))
		s.publish(ctx, events.MeetingScheduled, m, "")
	} else {
		s.logInfo("🔁 Meeting repaired", m, zap.String("outlook_event_id", m.OutlookEventID))
	}

	s.sendCoaching(ctx, m, ev, resolution.User)
	s.scheduleBot(ctx, m)

	return IngestResult{Status: StatusSuccess, MeetingID: m.ID, Outcome: decision.Outcome.String()}
}

func (s *meetingService) reject(ctx context.Context, r *normalize.Rejection, outlookEventID string) IngestResult {
	if s.logger != nil {
		s.logger.Info("calendar event ignored",
			zap.String("kind", string(r.Kind)),
			zap.String("reason", r.Reason),
			zap.String("outlook_event_id", outlookEventID))
	}
	s.Publisher.Publish(ctx, events.MeetingRejected, events.LifecycleEvent{
		OutlookEventID: outlookEventID,
		Status:         string(r.Kind),
		Reason:         r.Reason,
		At:             s.now(),
	})
	return IngestResult{Status: StatusIgnored, Message: r.Reason}
}

// store inserts a new row or refreshes an unfinished one. A duplicate-key
// insert means a concurrent delivery won; the decision is re-evaluated.
func (s *meetingService) store(ctx context.Context, ev *normalize.Event, r Resolution, summary string, d Decision) (*entities.Meeting, Decision, error) {
	if d.Outcome == OutcomeNew {
		m := newMeeting(ev, r, summary)
		err := s.Meetings.Create(ctx, m)
		if err == nil {
			m.Client = r.Client
			return m, d, nil
		}
		if !errors.Is(err, entities.ErrMeetingAlreadyExists) {
			return nil, d, err
		}
		if d, err = s.guard.Check(ctx, ev.MeetingID); err != nil {
			return nil, d, err
		}
		switch d.Outcome {
		case OutcomeDuplicateComplete:
			return d.Meeting, d, nil
		case OutcomeNew:
			return nil, d, fmt.Errorf("meeting %s missing after duplicate insert", ev.MeetingID)
		}
	}

	if err := s.Meetings.UpdateFields(ctx, d.Meeting.ID, repairUpdates(ev, r, summary, d.Meeting)); err != nil {
		return nil, d, err
	}
	m, err := s.Meetings.FindByID(ctx, d.Meeting.ID)
	if err != nil {
		return nil, d, err
	}
	return m, d, nil
}

func newMeeting(ev *normalize.Event, r Resolution, summary string) *entities.Meeting {
	start, end := ev.StartTime, ev.EndTime
	m := &entities.Meeting{
		OutlookEventID:   ev.MeetingID,
		Title:            ev.Title,
		StartTime:        &start,
		EndTime:          &end,
		OrganizerEmail:   r.User.Email,
		SalespersonPhone: r.User.Phone,
		Status:           entities.MeetingStatusScheduled,
		SurveyStatus:     entities.SurveyStatusPending,
		Location:         ev.Location,
		OnlineMeetingURL: ev.MeetingLink(),
		Attendees:        datatypes.JSONSlice[string](ev.Attendees),
		Summary:          summary,
	}
	if r.Client != nil {
		id := r.Client.ID
		m.ClientID = &id
	}
	return m
}

// repairUpdates refreshes timing, place and link of an unfinished row.
// Summary and salesperson phone are only filled when still empty, since
// later webhooks append to the summary. A delivery without a start keeps the
// stored timing.
func repairUpdates(ev *normalize.Event, r Resolution, summary string, existing *entities.Meeting) map[string]interface{} {
	updates := map[string]interface{}{
		"title":    ev.Title,
		"location": ev.Location,
	}
	if ev.StartKnown {
		updates["start_time"] = ev.StartTime
		updates["end_time"] = ev.EndTime
	}
	if existing.Summary == "" && summary != "" {
		updates["summary"] = summary
	}
	if existing.SalespersonPhone == "" && r.User != nil && r.User.Phone != "" {
		updates["salesperson_phone"] = r.User.Phone
	}
	if link := ev.MeetingLink(); link != "" {
		updates["online_meeting_url"] = link
	}
	if len(ev.Attendees) > 0 {
		updates["attendees"] = datatypes.JSONSlice[string](ev.Attendees)
	}
	if r.Client != nil {
		updates["client_id"] = r.Client.ID
	}
	return updates
}

// sendCoaching claims the coaching marker, sends, and releases the claim
// when the send fails so a later delivery can retry.
func (s *meetingService) sendCoaching(ctx context.Context, m *entities.Meeting, ev *normalize.Event, user *entities.User) {
	if m.CoachingSentAt != nil || m.SalespersonPhone == "" {
		return
	}
	claimed, err := s.Meetings.ClaimCoaching(ctx, m.ID, s.now())
	if err != nil {
		s.logWarn("failed to claim coaching", m, err)
		return
	}
	if !claimed {
		return
	}

	start := s.now()
	if m.StartTime != nil {
		start = *m.StartTime
	}
	plan := s.Coach.CoachingPlan(ctx, ai.CoachingInput{
		Title:         m.Title,
		ClientName:    ev.ClientName,
		ClientCompany: ev.Company,
		DisplayTime:   timeutil.FormatDisplay(start, user.Location()),
		Body:          m.Summary,
		Location:      m.Location,
	})

	_, sent, err := s.dispatcher.Dispatch(ctx, Notification{
		Meeting: m,
		Kind:    KindCoaching,
		Message: CoachingMessage(m.Title, plan),
	})
	if err != nil || !sent {
		if err != nil {
			s.logWarn("coaching send failed", m, err)
		}
		if rerr := s.Meetings.ReleaseCoaching(ctx, m.ID); rerr != nil {
			s.logWarn("failed to release coaching claim", m, rerr)
		}
		return
	}
	now := s.now()
	m.CoachingSentAt = &now
}

// scheduleBot books the transcription bot once; the token is set-once
func (s *meetingService) scheduleBot(ctx context.Context, m *entities.Meeting) {
	if s.Bot == nil || m.OnlineMeetingURL == "" || m.HasBotToken() || m.StartTime == nil {
		return
	}
	bot, err := s.Bot.Schedule(ctx, m.OnlineMeetingURL, m.StartTime.UTC(), m.Title)
	if err != nil {
		s.logWarn("bot scheduling failed", m, err)
		return
	}
	set, err := s.Meetings.SetBotToken(ctx, m.ID, bot.ID, bot.Token)
	if err != nil {
		s.logWarn("failed to store bot token", m, err)
		return
	}
	if !set {
		s.logInfo("bot token already set", m)
		return
	}
	m.AuxMeetingID, m.AuxMeetingToken = &bot.ID, &bot.Token
	s.logInfo("🤖 Bot scheduled", m, zap.String("aux_meeting_id", bot.ID))
}
