package admin

import (
	"time"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
)

// ClientResponse is the client embedded in a meeting
type ClientResponse struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Company string `json:"company"`
}

// MeetingResponse represents a meeting in admin responses
type MeetingResponse struct {
	ID               int64                     `json:"id"`
	OutlookEventID   string                    `json:"outlook_event_id"`
	SyntheticID      bool                      `json:"synthetic_id"`
	Title            string                    `json:"title"`
	Status           string                    `json:"status"`
	SurveyStatus     string                    `json:"survey_status"`
	StartTime        *time.Time                `json:"start_time,omitempty"`
	EndTime          *time.Time                `json:"end_time,omitempty"`
	OrganizerEmail   string                    `json:"organizer_email"`
	SalespersonPhone string                    `json:"salesperson_phone"`
	Location         string                    `json:"location"`
	OnlineMeetingURL string                    `json:"online_meeting_url,omitempty"`
	Attendees        []string                  `json:"attendees,omitempty"`
	Summary          string                    `json:"summary,omitempty"`
	ReportURL        string                    `json:"report_url,omitempty"`
	Analysis         *entities.MeetingAnalysis `json:"analysis,omitempty"`
	BotScheduled     bool                      `json:"bot_scheduled"`
	CoachingSentAt   *time.Time                `json:"coaching_sent_at,omitempty"`
	TranscriptAt     *time.Time                `json:"transcript_received_at,omitempty"`
	FeedbackAt       *time.Time                `json:"feedback_received_at,omitempty"`
	Client           *ClientResponse           `json:"client,omitempty"`
	CreatedAt        time.Time                 `json:"created_at"`
	UpdatedAt        time.Time                 `json:"updated_at"`
}

// TranscriptLineResponse is one stored speaker turn
type TranscriptLineResponse struct {
	Speaker   string `json:"speaker"`
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
	Source    string `json:"source"`
}

// MeetingDetailResponse is a meeting with its transcript
type MeetingDetailResponse struct {
	MeetingResponse
	Transcript []TranscriptLineResponse `json:"transcript"`
}

// MeetingListResponse represents a paginated list of meetings
type MeetingListResponse struct {
	Meetings   []*MeetingResponse `json:"meetings"`
	Total    int64              `json:"total"`
	Limit    int                `json:"limit"`
	Offset   int                `json:"offset"`
}

// HealthResponse reports liveness of the service and its database
type HealthResponse struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	Environment string `json:"environment,omitempty"`
	Time        string `json:"time"`
}
