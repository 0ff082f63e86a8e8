package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
)

// MeetingRepo is the in-memory MeetingRepository
type MeetingRepo struct{ s *Store }

// Create implements repositories.MeetingRepository
func (r *MeetingRepo) Create(_ context.Context, m *entities.Meeting) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailCreateMeeting != nil {
		return r.s.FailCreateMeeting
	}
	for _, existing := range r.s.meetings {
		if existing.OutlookEventID == m.OutlookEventID {
			return entities.ErrMeetingAlreadyExists
		}
	}
	m.ID = r.s.id()
	if m.Status == "" {
		m.Status = entities.MeetingStatusScheduled
	}
	if m.SurveyStatus == "" {
		m.SurveyStatus = entities.SurveyStatusPending
	}
	m.CreatedAt, m.UpdatedAt = now(), now()
	cp := *m
	cp.Client = nil
	r.s.meetings[m.ID] = &cp
	return nil
}

// FindByID implements repositories.MeetingRepository
func (r *MeetingRepo) FindByID(_ context.Context, id int64) (*entities.Meeting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.meetings[id]
	if !ok {
		return nil, entities.ErrMeetingNotFound
	}
	return r.s.meetingCopy(m), nil
}

// FindByOutlookEventID implements repositories.MeetingRepository
func (r *MeetingRepo) FindByOutlookEventID(_ context.Context, eventID string) (*entities.Meeting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.meetings {
		if m.OutlookEventID == eventID {
			return r.s.meetingCopy(m), nil
		}
	}
	return nil, entities.ErrMeetingNotFound
}

// UpdateFields implements repositories.MeetingRepository
func (r *MeetingRepo) UpdateFields(_ context.Context, id int64, updates map[string]interface{}) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, guarded := range []string{"status", "survey_status", "aux_meeting_token"} {
		if _, ok := updates[guarded]; ok {
			return fmt.Errorf("column %s is not updatable here", guarded)
		}
	}
	m, ok := r.s.meetings[id]
	if !ok {
		return nil
	}
	for k, v := range updates {
		switch k {
		case "title":
			m.Title = v.(string)
		case "start_time":
			m.StartTime = timePtr(v)
		case "end_time":
			m.EndTime = timePtr(v)
		case "client_id":
			m.ClientID = int64Ptr(v)
		case "organizer_email":
			m.OrganizerEmail = v.(string)
		case "salesperson_phone":
			m.SalespersonPhone = v.(string)
		case "location":
			m.Location = v.(string)
		case "online_meeting_url":
			m.OnlineMeetingURL = v.(string)
		case "summary":
			m.Summary = v.(string)
		case "read_ai_url":
			m.ReadAIURL = v.(string)
		case "analysis":
			switch a := v.(type) {
			case *entities.MeetingAnalysis:
				m.Analysis = a
			case entities.MeetingAnalysis:
				m.Analysis = &a
			case datatypes.JSON:
				var parsed entities.MeetingAnalysis
				if err := json.Unmarshal(a, &parsed); err != nil {
					return err
				}
				m.Analysis = &parsed
			}
		case "last_client_reply":
			m.LastClientReply = timePtr(v)
		case "feedback_received_at":
			m.FeedbackAt = timePtr(v)
		case "attendees":
			switch a := v.(type) {
			case []string:
				m.Attendees = a
			case datatypes.JSONSlice[string]:
				m.Attendees = a
			}
		}
	}
	m.UpdatedAt = now()
	return nil
}

func timePtr(v interface{}) *time.Time {
	switch t := v.(type) {
	case time.Time:
		return &t
	case *time.Time:
		return t
	}
	return nil
}

func int64Ptr(v interface{}) *int64 {
	switch t := v.(type) {
	case int64:
		return &t
	case *int64:
		return t
	}
	return nil
}

// TransitionStatus implements repositories.MeetingRepository
func (r *MeetingRepo) TransitionStatus(_ context.Context, id int64, from []entities.MeetingStatus, to entities.MeetingStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.meetings[id]
	if !ok {
		return false, nil
	}
	for _, f := range from {
		if m.Status == f && entities.TransitionMeeting(f, to) == nil {
			m.Status = to
			m.UpdatedAt = now()
			return true, nil
		}
	}
	return false, nil
}

// TransitionSurveyStatus implements repositories.MeetingRepository
func (r *MeetingRepo) TransitionSurveyStatus(_ context.Context, id int64, from []entities.SurveyStatus, to entities.SurveyStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.meetings[id]
	if !ok {
		return false, nil
	}
	for _, f := range from {
		if m.SurveyStatus == f && f.CanTransitionTo(to) {
			m.SurveyStatus = to
			m.UpdatedAt = now()
			return true, nil
		}
	}
	return false, nil
}

// SetBotToken implements repositories.MeetingRepository
func (r *MeetingRepo) SetBotToken(_ context.Context, id int64, auxMeetingID, token string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.meetings[id]
	if !ok || m.HasBotToken() {
		return false, nil
	}
	m.AuxMeetingID = &auxMeetingID
	m.AuxMeetingToken = &token
	return true, nil
}

// ClaimCoaching implements repositories.MeetingRepository
func (r *MeetingRepo) ClaimCoaching(_ context.Context, id int64, at time.Time) (bool, error) {
	return r.claim(id, at, func(m *entities.Meeting) **time.Time { return &m.CoachingSentAt })
}

// ReleaseCoaching implements repositories.MeetingRepository
func (r *MeetingRepo) ReleaseCoaching(_ context.Context, id int64) error {
	r.release(id, func(m *entities.Meeting) **time.Time { return &m.CoachingSentAt })
	return nil
}

// ClaimTranscript implements repositories.MeetingRepository
func (r *MeetingRepo) ClaimTranscript(_ context.Context, id int64, at time.Time) (bool, error) {
	return r.claim(id, at, func(m *entities.Meeting) **time.Time { return &m.TranscriptAt })
}

// ReleaseTranscript implements repositories.MeetingRepository
func (r *MeetingRepo) ReleaseTranscript(_ context.Context, id int64) error {
	r.release(id, func(m *entities.Meeting) **time.Time { return &m.TranscriptAt })
	return nil
}

func (r *MeetingRepo) claim(id int64, at time.Time, field func(*entities.Meeting) **time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.meetings[id]
	if !ok {
		return false, nil
	}
	f := field(m)
	if *f != nil {
		return false, nil
	}
	t := at
	*f = &t
	return true, nil
}

func (r *MeetingRepo) release(id int64, field func(*entities.Meeting) **time.Time) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m, ok := r.s.meetings[id]; ok {
		*field(m) = nil
	}
}

// ListByStatuses implements repositories.MeetingRepository
func (r *MeetingRepo) ListByStatuses(_ context.Context, statuses []entities.MeetingStatus, limit int) ([]entities.Meeting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.collect(limit, func(m *entities.Meeting) bool { return hasStatus(m.Status, statuses) }), nil
}

// ListAwaitingTranscript implements repositories.MeetingRepository
func (r *MeetingRepo) ListAwaitingTranscript(_ context.Context, limit int) ([]entities.Meeting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.collect(limit, func(m *entities.Meeting) bool {
		return m.HasBotToken() && m.TranscriptAt == nil && hasStatus(m.Status, entities.ActiveMeetingStatuses)
	}), nil
}

// ListSurveyDue implements repositories.MeetingRepository
func (r *MeetingRepo) ListSurveyDue(_ context.Context, endedAfter time.Time, defaultLength time.Duration, limit int) ([]entities.Meeting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.collect(limit, func(m *entities.Meeting) bool {
		if !hasStatus(m.Status, []entities.MeetingStatus{entities.MeetingStatusReminderSent, entities.MeetingStatusCompleted}) {
			return false
		}
		if !m.SurveyStatus.NeedsTrigger() {
			return false
		}
		end, ok := m.EffectiveEnd(defaultLength)
		return ok && !end.Before(endedAfter)
	}), nil
}

// ListRecentWithStart implements repositories.MeetingRepository
func (r *MeetingRepo) ListRecentWithStart(_ context.Context, limit int) ([]entities.Meeting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.collect(limit, func(m *entities.Meeting) bool { return m.StartTime != nil }), nil
}

// ListAwaitingFeedback implements repositories.MeetingRepository
func (r *MeetingRepo) ListAwaitingFeedback(_ context.Context, transcribedBefore time.Time, limit int) ([]entities.Meeting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.collect(limit, func(m *entities.Meeting) bool {
		return m.TranscriptAt != nil && m.TranscriptAt.Before(transcribedBefore) &&
			m.FeedbackAt == nil && m.Status != entities.MeetingStatusFailed && m.SalespersonPhone != ""
	}), nil
}

// FindLatestPendingFeedback implements repositories.MeetingRepository
func (r *MeetingRepo) FindLatestPendingFeedback(_ context.Context, phone string) (*entities.Meeting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	found := r.s.collect(1, func(m *entities.Meeting) bool {
		return m.SalespersonPhone == phone && m.FeedbackAt == nil && m.Status != entities.MeetingStatusFailed
	})
	if len(found) == 0 {
		return nil, entities.ErrMeetingNotFound
	}
	return &found[0], nil
}

// List implements repositories.MeetingRepository
func (r *MeetingRepo) List(_ context.Context, limit, offset int) ([]entities.Meeting, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := r.s.collect(0, func(*entities.Meeting) bool { return true })
	total := int64(len(all))
	if offset >= len(all) {
		return []entities.Meeting{}, total, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

// ListMissingBot implements repositories.MeetingRepository
func (r *MeetingRepo) ListMissingBot(_ context.Context, limit int) ([]entities.Meeting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.collect(limit, func(m *entities.Meeting) bool {
		return m.OnlineMeetingURL != "" && !m.HasBotToken()
	}), nil
}

func hasStatus(s entities.MeetingStatus, in []entities.MeetingStatus) bool {
	for _, v := range in {
		if v == s {
			return true
		}
	}
	return false
}
