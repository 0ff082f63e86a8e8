package entities

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// SyntheticIDPrefix marks calendar ids minted for events that arrived without one.
const SyntheticIDPrefix = "synthetic-"

// Meeting is the canonical record of one calendar event.
type Meeting struct {
	ID               int64                       `json:"id" gorm:"primaryKey;autoIncrement"`
	OutlookEventID   string                      `json:"outlook_event_id" gorm:"type:varchar(512);uniqueIndex;not null"`
	Title            string                      `json:"title" gorm:"type:varchar(500)"`
	StartTime        *time.Time                  `json:"start_time,omitempty" gorm:"type:timestamptz;index"`
	EndTime          *time.Time                  `json:"end_time,omitempty" gorm:"type:timestamptz"`
	ClientID         *int64                      `json:"client_id,omitempty" gorm:"index"`
	OrganizerEmail   string                      `json:"organizer_email" gorm:"type:varchar(255);index"`
	SalespersonPhone string                      `json:"salesperson_phone" gorm:"type:varchar(50);index"`
	Status           MeetingStatus               `json:"status" gorm:"type:varchar(32);not null;default:'scheduled';index"`
	SurveyStatus     SurveyStatus                `json:"survey_status" gorm:"type:varchar(32);not null;default:'pending'"`
	Location         string                      `json:"location" gorm:"type:text"`
	OnlineMeetingURL string                      `json:"online_meeting_url,omitempty" gorm:"type:text"`
	Attendees        datatypes.JSONSlice[string] `json:"attendees,omitempty" gorm:"type:jsonb"`
	Summary          string                      `json:"summary,omitempty" gorm:"type:text"`
	ReadAIURL        string                      `json:"read_ai_url,omitempty" gorm:"column:read_ai_url;type:text"`
	Analysis         *MeetingAnalysis            `json:"analysis,omitempty" gorm:"type:jsonb;serializer:json"`
	AuxMeetingID     *string                     `json:"aux_meeting_id,omitempty" gorm:"type:varchar(255)"`
	AuxMeetingToken  *string                     `json:"-" gorm:"type:varchar(255)"`
	CoachingSentAt   *time.Time                  `json:"coaching_sent_at,omitempty" gorm:"type:timestamptz"`
	LastClientReply  *time.Time                  `json:"last_client_reply,omitempty" gorm:"type:timestamptz"`
	TranscriptAt     *time.Time                  `json:"transcript_at,omitempty" gorm:"column:transcript_received_at;type:timestamptz"`
	FeedbackAt       *time.Time                  `json:"feedback_at,omitempty" gorm:"column:feedback_received_at;type:timestamptz"`
	CreatedAt        time.Time                   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time                   `json:"updated_at" gorm:"autoUpdateTime"`

	Client *Client `json:"client,omitempty" gorm:"foreignKey:ClientID"`
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "meetings"
}

// HasBotToken reports whether bot scheduling already succeeded.
func (m *Meeting) HasBotToken() bool {
	return m.AuxMeetingToken != nil && *m.AuxMeetingToken != ""
}

// IsSynthetic reports whether the calendar id was minted locally.
func (m *Meeting) IsSynthetic() bool {
	return strings.HasPrefix(m.OutlookEventID, SyntheticIDPrefix)
}

// EffectiveEnd returns the end time, or start + defaultLength when the end is unknown.
func (m *Meeting) EffectiveEnd(defaultLength time.Duration) (time.Time, bool) {
	if m.EndTime != nil {
		return *m.EndTime, true
	}
	if m.StartTime != nil {
		return m.StartTime.Add(defaultLength), true
	}
	return time.Time{}, false
}

// ClientName returns the joined client name or fallback.
func (m *Meeting) ClientName(fallback string) string {
	return m.Client.DisplayName(fallback)
}

// AttendeeList renders attendees for prompts.
func (m *Meeting) AttendeeList() string {
	if len(m.Attendees) == 0 {
		return "Not specified"
	}
	return strings.Join(m.Attendees, ", ")
}
