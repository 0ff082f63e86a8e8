package repositories

import (
	"context"
	"time"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
)

// MeetingRepository defines the interface for meeting data access.
//
// Methods returning (bool, error) are conditional single-row updates: false
// means another writer already moved the row, which is not an error.
type MeetingRepository interface {
	// Create inserts a meeting; a duplicate calendar id yields ErrMeetingAlreadyExists
	Create(ctx context.Context, meeting *entities.Meeting) error

	FindByID(ctx context.Context, id int64) (*entities.Meeting, error)
	FindByOutlookEventID(ctx context.Context, eventID string) (*entities.Meeting, error)

	// UpdateFields applies column updates without touching status columns
	UpdateFields(ctx context.Context, id int64, updates map[string]interface{}) error

	// TransitionStatus moves status to `to` only if it is currently one of `from`
	TransitionStatus(ctx context.Context, id int64, from []entities.MeetingStatus, to entities.MeetingStatus) (bool, error)

	// TransitionSurveyStatus moves survey_status to `to` only if it is currently one of `from`
	TransitionSurveyStatus(ctx context.Context, id int64, from []entities.SurveyStatus, to entities.SurveyStatus) (bool, error)

	// SetBotToken stores the bot credentials only if no token is set yet
	SetBotToken(ctx context.Context, id int64, auxMeetingID, token string) (bool, error)

	// ClaimCoaching stamps coaching_sent_at only if it is still empty
	ClaimCoaching(ctx context.Context, id int64, at time.Time) (bool, error)

	// ReleaseCoaching clears coaching_sent_at after a failed send
	ReleaseCoaching(ctx context.Context, id int64) error

	// ClaimTranscript stamps transcript_received_at only if it is still empty
	ClaimTranscript(ctx context.Context, id int64, at time.Time) (bool, error)

	// ReleaseTranscript clears transcript_received_at after a failed ingestion
	ReleaseTranscript(ctx context.Context, id int64) error

	// ListByStatuses lists meetings in the given statuses, id DESC
	ListByStatuses(ctx context.Context, statuses []entities.MeetingStatus, limit int) ([]entities.Meeting, error)

	// ListAwaitingTranscript lists active meetings with a bot token and no transcript, id DESC
	ListAwaitingTranscript(ctx context.Context, limit int) ([]entities.Meeting, error)

	// ListSurveyDue lists meetings past their reminder whose survey still needs a trigger
	// and whose effective end is not before endedAfter, id DESC
	ListSurveyDue(ctx context.Context, endedAfter time.Time, defaultLength time.Duration, limit int) ([]entities.Meeting, error)

	// ListRecentWithStart lists the most recent meetings having a start time, id DESC
	ListRecentWithStart(ctx context.Context, limit int) ([]entities.Meeting, error)

	// ListAwaitingFeedback lists transcribed meetings without salesperson feedback
	ListAwaitingFeedback(ctx context.Context, transcribedBefore time.Time, limit int) ([]entities.Meeting, error)

	// FindLatestPendingFeedback returns the newest meeting for the phone that still expects feedback
	FindLatestPendingFeedback(ctx context.Context, phone string) (*entities.Meeting, error)

	// List returns a page of meetings, id DESC
	List(ctx context.Context, limit, offset int) ([]entities.Meeting, int64, error)

	// ListMissingBot lists meetings that have a meeting link but no bot token
	ListMissingBot(ctx context.Context, limit int) ([]entities.Meeting, error)
}

// TranscriptRepository defines the interface for transcript lines
type TranscriptRepository interface {
	CreateLines(ctx context.Context, lines []entities.TranscriptLine) error

	// ListByMeeting returns the last `limit` lines in speaking order
	ListByMeeting(ctx context.Context, meetingID int64, limit int) ([]entities.TranscriptLine, error)
}
