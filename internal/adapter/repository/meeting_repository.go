package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
	"github.com/johnquangdev/coachlink/internal/domain/repositories"
)

var _ repositories.MeetingRepository = (*MeetingRepository)(nil)

// MeetingRepository implements the meeting repository interface using GORM
type MeetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// Create inserts a new meeting
func (r *MeetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	if meeting == nil {
		return errors.New("meeting cannot be nil")
	}
	if err := r.db.WithContext(ctx).Omit("Client").Create(meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return entities.ErrMeetingAlreadyExists
		}
		return fmt.Errorf("failed to create meeting: %w", err)
	}
	return nil
}

// FindByID retrieves a meeting with its client
func (r *MeetingRepository) FindByID(ctx context.Context, id int64) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).Preload("Client").Where("id = ?", id).First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to find meeting by ID: %w", err)
	}
	return &meeting, nil
}

// FindByOutlookEventID retrieves a meeting by calendar id
func (r *MeetingRepository) FindByOutlookEventID(ctx context.Context, eventID string) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).Preload("Client").Where("outlook_event_id = ?", eventID).First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to find meeting by event ID: %w", err)
	}
	return &meeting, nil
}

// UpdateFields applies column updates
func (r *MeetingRepository) UpdateFields(ctx context.Context, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	for _, guarded := range []string{"status", "survey_status", "aux_meeting_token"} {
		if _, ok := updates[guarded]; ok {
			return fmt.Errorf("column %s is not updatable here", guarded)
		}
	}
	updates["updated_at"] = time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// TransitionStatus moves the status forward if the row is still in one of `from`
func (r *MeetingRepository) TransitionStatus(ctx context.Context, id int64, from []entities.MeetingStatus, to entities.MeetingStatus) (bool, error) {
	allowed := make([]entities.MeetingStatus, 0, len(from))
	var lastErr error
	for _, f := range from {
		if err := entities.TransitionMeeting(f, to); err != nil {
			lastErr = err
			continue
		}
		allowed = append(allowed, f)
	}
	if len(allowed) == 0 {
		if lastErr == nil {
			lastErr = fmt.Errorf("%w: no edge into %s", entities.ErrInvalidTransition, to)
		}
		return false, lastErr
	}

	result := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ? AND status IN ?", id, allowed).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to transition meeting: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// TransitionSurveyStatus moves the survey status if the row is still in one of `from`
func (r *MeetingRepository) TransitionSurveyStatus(ctx context.Context, id int64, from []entities.SurveyStatus, to entities.SurveyStatus) (bool, error) {
	allowed := make([]entities.SurveyStatus, 0, len(from))
	for _, f := range from {
		if f.CanTransitionTo(to) {
			allowed = append(allowed, f)
		}
	}
	if len(allowed) == 0 {
		return false, fmt.Errorf("%w: no survey edge into %s", entities.ErrInvalidTransition, to)
	}

	result := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ? AND survey_status IN ?", id, allowed).
		Updates(map[string]interface{}{
			"survey_status": to,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to transition survey: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// SetBotToken stores the bot credentials once
func (r *MeetingRepository) SetBotToken(ctx context.Context, id int64, auxMeetingID, token string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ? AND (aux_meeting_token IS NULL OR aux_meeting_token = '')", id).
		Updates(map[string]interface{}{
			"aux_meeting_id":    auxMeetingID,
			"aux_meeting_token": token,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to set bot token: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// ClaimCoaching stamps coaching_sent_at once
func (r *MeetingRepository) ClaimCoaching(ctx context.Context, id int64, at time.Time) (bool, error) {
	return r.claim(ctx, id, "coaching_sent_at", at)
}

// ReleaseCoaching clears the coaching claim
func (r *MeetingRepository) ReleaseCoaching(ctx context.Context, id int64) error {
	return r.release(ctx, id, "coaching_sent_at")
}

// ClaimTranscript stamps transcript_received_at once
func (r *MeetingRepository) ClaimTranscript(ctx context.Context, id int64, at time.Time) (bool, error) {
	return r.claim(ctx, id, "transcript_received_at", at)
}

// ReleaseTranscript clears the transcript claim
func (r *MeetingRepository) ReleaseTranscript(ctx context.Context, id int64) error {
	return r.release(ctx, id, "transcript_received_at")
}

func (r *MeetingRepository) claim(ctx context.Context, id int64, column string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Where(column + " IS NULL").
		Updates(map[string]interface{}{
			column:       at,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to claim %s: %w", column, result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *MeetingRepository) release(ctx context.Context, id int64, column string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			column:       gorm.Expr("NULL"),
			"updated_at": time.Now(),
		}).Error
}

// ListByStatuses lists meetings in the given statuses
func (r *MeetingRepository) ListByStatuses(ctx context.Context, statuses []entities.MeetingStatus, limit int) ([]entities.Meeting, error) {
	var meetings []entities.Meeting
	query := r.db.WithContext(ctx).
		Preload("Client").
		Where("status IN ?", statuses).
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&meetings).Error; err != nil {
		return nil, fmt.Errorf("failed to list meetings by status: %w", err)
	}
	return meetings, nil
}

// ListAwaitingTranscript lists meetings the bot may still deliver a transcript for
func (r *MeetingRepository) ListAwaitingTranscript(ctx context.Context, limit int) ([]entities.Meeting, error) {
	var meetings []entities.Meeting
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Where("aux_meeting_token IS NOT NULL AND aux_meeting_token <> ''").
		Where("transcript_received_at IS NULL").
		Where("status IN ?", entities.ActiveMeetingStatuses).
		Order("id DESC").
		Limit(limit).
		Find(&meetings).Error; err != nil {
		return nil, fmt.Errorf("failed to list meetings awaiting transcript: %w", err)
	}
	return meetings, nil
}

// ListSurveyDue lists meetings whose survey trigger is pending or failed
func (r *MeetingRepository) ListSurveyDue(ctx context.Context, endedAfter time.Time, defaultLength time.Duration, limit int) ([]entities.Meeting, error) {
	var meetings []entities.Meeting
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Where("status IN ?", []entities.MeetingStatus{entities.MeetingStatusReminderSent, entities.MeetingStatusCompleted}).
		Where("survey_status IN ?", []entities.SurveyStatus{entities.SurveyStatusPending, entities.SurveyStatusFailed}).
		Where("(end_time IS NOT NULL AND end_time >= ?) OR (end_time IS NULL AND start_time >= ?)",
			endedAfter, endedAfter.Add(-defaultLength)).
		Order("id DESC").
		Limit(limit).
		Find(&meetings).Error; err != nil {
		return nil, fmt.Errorf("failed to list survey-due meetings: %w", err)
	}
	return meetings, nil
}

// ListRecentWithStart lists the newest meetings that carry a start time
func (r *MeetingRepository) ListRecentWithStart(ctx context.Context, limit int) ([]entities.Meeting, error) {
	var meetings []entities.Meeting
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Where("start_time IS NOT NULL").
		Order("id DESC").
		Limit(limit).
		Find(&meetings).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent meetings: %w", err)
	}
	return meetings, nil
}

// ListAwaitingFeedback lists transcribed meetings still waiting for the salesperson
func (r *MeetingRepository) ListAwaitingFeedback(ctx context.Context, transcribedBefore time.Time, limit int) ([]entities.Meeting, error) {
	var meetings []entities.Meeting
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Where("transcript_received_at IS NOT NULL AND transcript_received_at < ?", transcribedBefore).
		Where("feedback_received_at IS NULL").
		Where("status <> ?", entities.MeetingStatusFailed).
		Where("salesperson_phone <> ''").
		Order("id DESC").
		Limit(limit).
		Find(&meetings).Error; err != nil {
		return nil, fmt.Errorf("failed to list meetings awaiting feedback: %w", err)
	}
	return meetings, nil
}

// FindLatestPendingFeedback returns the newest meeting for the phone still expecting feedback.
// Completed rows qualify until feedback_received_at is set: transcript
// completion usually lands before the salesperson replies.
func (r *MeetingRepository) FindLatestPendingFeedback(ctx context.Context, phone string) (*entities.Meeting, error) {
	var meeting entities.Meeting
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("salesperson_phone = ?", phone).
		Where("feedback_received_at IS NULL").
		Where("status IN ?", []entities.MeetingStatus{
			entities.MeetingStatusScheduled,
			entities.MeetingStatusReminderSent,
			entities.MeetingStatusCompleted,
		}).
		Order("id DESC").
		First(&meeting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to find pending meeting: %w", err)
	}
	return &meeting, nil
}

// List returns a page of meetings
func (r *MeetingRepository) List(ctx context.Context, limit, offset int) ([]entities.Meeting, int64, error) {
	var (
		meetings []entities.Meeting
		total    int64
	)
	if err := r.db.WithContext(ctx).Model(&entities.Meeting{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count meetings: %w", err)
	}
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&meetings).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, total, nil
}

// ListMissingBot lists meetings with a link whose bot was never scheduled
func (r *MeetingRepository) ListMissingBot(ctx context.Context, limit int) ([]entities.Meeting, error) {
	var meetings []entities.Meeting
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Where("online_meeting_url <> ''").
		Where("aux_meeting_token IS NULL OR aux_meeting_token = ''").
		Order("id DESC").
		Limit(limit).
		Find(&meetings).Error; err != nil {
		return nil, fmt.Errorf("failed to list meetings missing bot: %w", err)
	}
	return meetings, nil
}
