package repositories

import (
	"context"
	"time"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
)

// MessageRepository is the append-only message log
type MessageRepository interface {
	Create(ctx context.Context, msg *entities.Message) error

	// ExistsOutgoing reports whether an identical outgoing body was logged for the meeting after since
	ExistsOutgoing(ctx context.Context, meetingID int64, body string, since time.Time) (bool, error)

	// ExistsIncomingSince reports whether any incoming message was logged for the meeting after since
	ExistsIncomingSince(ctx context.Context, meetingID int64, since time.Time) (bool, error)
}

// SurveyLedgerRepository records survey responses already synced to the CRM
type SurveyLedgerRepository interface {
	Exists(ctx context.Context, surveyID string) (bool, error)
	Record(ctx context.Context, entry *entities.SyncedSurvey) error
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// CoachingRepository stores post-meeting coaching sessions
type CoachingRepository interface {
	// Upsert inserts or replaces the session keyed by session_id
	Upsert(ctx context.Context, session *entities.MeetingCoaching) error
	FindBySessionID(ctx context.Context, sessionID string) (*entities.MeetingCoaching, error)
	UpdateCoaching(ctx context.Context, sessionID string, coaching []byte) error
}
