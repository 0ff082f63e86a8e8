package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
	"github.com/johnquangdev/coachlink/internal/domain/repositories"
)

var (
	_ repositories.MessageRepository      = (*MessageRepository)(nil)
	_ repositories.SurveyLedgerRepository = (*SurveyLedgerRepository)(nil)
	_ repositories.TranscriptRepository   = (*TranscriptRepository)(nil)
	_ repositories.CoachingRepository     = (*CoachingRepository)(nil)
)

// MessageRepository handles the message log
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create appends a message
func (r *MessageRepository) Create(ctx context.Context, msg *entities.Message) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("failed to log message: %w", err)
	}
	return nil
}

// ExistsOutgoing checks the log for an identical outgoing body
func (r *MessageRepository) ExistsOutgoing(ctx context.Context, meetingID int64, body string, since time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Message{}).
		Where("meeting_id = ? AND direction = ? AND message = ? AND timestamp >= ?",
			meetingID, entities.MessageOutgoing, body, since).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check outgoing messages: %w", err)
	}
	return count > 0, nil
}

// ExistsIncomingSince checks the log for any reply after since
func (r *MessageRepository) ExistsIncomingSince(ctx context.Context, meetingID int64, since time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Message{}).
		Where("meeting_id = ? AND direction = ? AND timestamp > ?",
			meetingID, entities.MessageIncoming, since).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check incoming messages: %w", err)
	}
	return count > 0, nil
}

// SurveyLedgerRepository handles synced_surveys
type SurveyLedgerRepository struct {
	db *gorm.DB
}

// NewSurveyLedgerRepository creates a new ledger repository
func NewSurveyLedgerRepository(db *gorm.DB) *SurveyLedgerRepository {
	return &SurveyLedgerRepository{db: db}
}

// Exists reports whether the survey id was already synced
func (r *SurveyLedgerRepository) Exists(ctx context.Context, surveyID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.SyncedSurvey{}).
		Where("survey_id = ?", surveyID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check survey ledger: %w", err)
	}
	return count > 0, nil
}

// Record stores a synced survey id; recording twice is a no-op
func (r *SurveyLedgerRepository) Record(ctx context.Context, entry *entities.SyncedSurvey) error {
	if entry.SyncedAt.IsZero() {
		entry.SyncedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "survey_id"}}, DoNothing: true}).
		Create(entry).Error
}

// PurgeBefore deletes ledger rows synced before cutoff
func (r *SurveyLedgerRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("synced_at < ?", cutoff).Delete(&entities.SyncedSurvey{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge survey ledger: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// TranscriptRepository handles meeting_transcripts
type TranscriptRepository struct {
	db *gorm.DB
}

// NewTranscriptRepository creates a new transcript repository
func NewTranscriptRepository(db *gorm.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// CreateLines bulk inserts transcript lines
func (r *TranscriptRepository) CreateLines(ctx context.Context, lines []entities.TranscriptLine) error {
	if len(lines) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(lines, 200).Error; err != nil {
		return fmt.Errorf("failed to store transcript lines: %w", err)
	}
	return nil
}

// ListByMeeting returns the last `limit` lines in speaking order
func (r *TranscriptRepository) ListByMeeting(ctx context.Context, meetingID int64, limit int) ([]entities.TranscriptLine, error) {
	var lines []entities.TranscriptLine
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("id DESC").
		Limit(limit).
		Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to list transcript lines: %w", err)
	}
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines, nil
}

// CoachingRepository handles meeting_coaching
type CoachingRepository struct {
	db *gorm.DB
}

// NewCoachingRepository creates a new coaching repository
func NewCoachingRepository(db *gorm.DB) *CoachingRepository {
	return &CoachingRepository{db: db}
}

// Upsert inserts or replaces a coaching session
func (r *CoachingRepository) Upsert(ctx context.Context, session *entities.MeetingCoaching) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "transcript", "source", "summary", "updated_at"}),
	}).Create(session).Error
	if err != nil {
		return fmt.Errorf("failed to upsert coaching session: %w", err)
	}
	return nil
}

// FindBySessionID retrieves a coaching session
func (r *CoachingRepository) FindBySessionID(ctx context.Context, sessionID string) (*entities.MeetingCoaching, error) {
	var session entities.MeetingCoaching
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrCoachingSessionNotFound
		}
		return nil, fmt.Errorf("failed to find coaching session: %w", err)
	}
	return &session, nil
}

// UpdateCoaching stores the generated coaching document
func (r *CoachingRepository) UpdateCoaching(ctx context.Context, sessionID string, coaching []byte) error {
	return r.db.WithContext(ctx).
		Model(&entities.MeetingCoaching{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{
			"coaching":   datatypes.JSON(coaching),
			"updated_at": time.Now(),
		}).Error
}
