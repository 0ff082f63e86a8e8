// Package coaching stores post-meeting transcripts that arrive outside the
// calendar flow and coaches the salesperson on them.
package coaching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
	"github.com/johnquangdev/coachlink/internal/domain/repositories"
	"github.com/johnquangdev/coachlink/internal/usecase/ai"
	"github.com/johnquangdev/coachlink/internal/usecase/meeting"
)

// Session sources and defaults
const (
	SourceRawIngest = "raw_ingest"
	DefaultSource   = "read.ai"
	DefaultTitle    = "Untitled Session"
	maxHighlights   = 2
)

var (
	// ErrMissingRawText is returned for an empty raw ingest body
	ErrMissingRawText = errors.New("missing raw_text field")
	// ErrNoSessionID is returned when no session id could be derived
	ErrNoSessionID = errors.New("could not extract session_id")
	// ErrMissingSession is returned for a coaching request without id or transcript
	ErrMissingSession = errors.New("missing session_id or transcript")
)

// IngestResult describes a raw ingest
type IngestResult struct {
	SessionID        string
	Notified         bool
	SummaryLength    int
	TranscriptLength int
}

// Request is a post-meeting coaching request
type Request struct {
	SessionID  string
	Transcript string
	Title      string
	Source     string
}

// Service handles out-of-band coaching sessions
type Service interface {
	IngestRaw(ctx context.Context, raw string) (*IngestResult, error)
	Coach(ctx context.Context, req Request) (entities.SalesCoaching, error)
}

type coachingService struct {
	sessions   repositories.CoachingRepository
	users      repositories.UserRepository
	coach      ai.Coach
	dispatcher *meeting.Dispatcher
	now        func() time.Time
	logger     *zap.Logger
}

// NewCoachingService creates the coaching service
func NewCoachingService(
	sessions repositories.CoachingRepository,
	users repositories.UserRepository,
	coach ai.Coach,
	dispatcher *meeting.Dispatcher,
	logger *zap.Logger,
) Service {
	return &coachingService{
		sessions:   sessions,
		users:      users,
		coach:      coach,
		dispatcher: dispatcher,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     logger,
	}
}

// IngestRaw parses a raw dump, stores it, coaches on it and messages the
// owner, or the first registered user when the owner is unknown
func (s *coachingService) IngestRaw(ctx context.Context, raw string) (*IngestResult, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrMissingRawText
	}
	parsed := ParseRaw(raw, s.now())
	if parsed.SessionID == "" {
		return nil, ErrNoSessionID
	}

	session := &entities.MeetingCoaching{
		SessionID:  parsed.SessionID,
		Transcript: parsed.Transcript,
		Summary:    parsed.Summary,
		Source:     SourceRawIngest,
	}
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	report, err := s.generate(ctx, parsed.SessionID, parsed.Transcript)
	if err != nil {
		return nil, err
	}

	result := &IngestResult{
		SessionID:        parsed.SessionID,
		SummaryLength:    len([]rune(parsed.Summary)),
		TranscriptLength: len([]rune(parsed.Transcript)),
	}
	result.Notified = s.notify(ctx, parsed.OwnerEmail, parsed.SessionID, report)
	return result, nil
}

// Coach stores a transcript under its session and returns the coaching report
func (s *coachingService) Coach(ctx context.Context, req Request) (entities.SalesCoaching, error) {
	if strings.TrimSpace(req.SessionID) == "" || strings.TrimSpace(req.Transcript) == "" {
		return entities.SalesCoaching{}, ErrMissingSession
	}
	session := &entities.MeetingCoaching{
		SessionID:  strings.TrimSpace(req.SessionID),
		Title:      firstNonBlank(req.Title, DefaultTitle),
		Transcript: req.Transcript,
		Source:     firstNonBlank(req.Source, DefaultSource),
	}
	if err := s.save(ctx, session); err != nil {
		return entities.SalesCoaching{}, err
	}
	return s.generate(ctx, session.SessionID, req.Transcript)
}

// save upserts the session, keeping fields the request leaves blank
func (s *coachingService) save(ctx context.Context, session *entities.MeetingCoaching) error {
	existing, err := s.sessions.FindBySessionID(ctx, session.SessionID)
	switch {
	case err == nil:
		session.Title = firstNonBlank(session.Title, existing.Title)
		session.Summary = firstNonBlank(session.Summary, existing.Summary)
		session.Source = firstNonBlank(existing.Source, session.Source)
	case !errors.Is(err, entities.ErrCoachingSessionNotFound):
		return err
	}
	if session.Title == "" {
		session.Title = DefaultTitle
	}
	return s.sessions.Upsert(ctx, session)
}

func (s *coachingService) generate(ctx context.Context, sessionID, transcript string) (entities.SalesCoaching, error) {
	report := s.coach.SalesCoaching(ctx, transcript)
	raw, err := json.Marshal(report)
	if err != nil {
		return report, fmt.Errorf("failed to encode coaching: %w", err)
	}
	if err := s.sessions.UpdateCoaching(ctx, sessionID, raw); err != nil {
		return report, fmt.Errorf("failed to store coaching: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("🧠 Sales coaching generated", zap.String("session_id", sessionID))
	}
	return report, nil
}

func (s *coachingService) notify(ctx context.Context, ownerEmail, sessionID string, report entities.SalesCoaching) bool {
	target := s.recipient(ctx, ownerEmail)
	if target == "" {
		if s.logger != nil {
			s.logger.Warn("⚠️ No user found to notify for raw ingest", zap.String("session_id", sessionID))
		}
		return false
	}
	_, sent, err := s.dispatcher.Dispatch(ctx, meeting.Notification{
		To:      target,
		Kind:    meeting.KindRawCoaching,
		Message: meeting.Message{Body: RawCoachingMessage(sessionID, report)},
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Raw coaching notification failed", zap.String("session_id", sessionID), zap.Error(err))
		}
		return false
	}
	return sent
}

func (s *coachingService) recipient(ctx context.Context, ownerEmail string) string {
	if ownerEmail != "" {
		if u, err := s.users.FindByEmail(ctx, ownerEmail); err == nil && u.Phone != "" {
			return u.Phone
		}
	}
	if u, err := s.users.First(ctx); err == nil {
		return u.Phone
	}
	return ""
}

// RawCoachingMessage summarizes a coaching report for chat
func RawCoachingMessage(sessionID string, r entities.SalesCoaching) string {
	return fmt.Sprintf("🚀 *Post-Meeting Coaching (%s)*\n\n*Strengths*:\n%s\n\n*Improvements*:\n%s\n\n*Action Plan*:\n%s\n\nCheck dashboard for full details.",
		sessionID,
		bullets("✅", r.Strengths),
		bullets("⚠️", r.Weaknesses),
		bullets("💡", r.RecommendedActions),
	)
}

func bullets(mark string, items []string) string {
	if len(items) > maxHighlights {
		items = items[:maxHighlights]
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, mark+" "+it)
	}
	return strings.Join(out, "\n")
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
