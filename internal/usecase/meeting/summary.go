package meeting

import (
	"context"
	"errors"
	"strings"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
	"github.com/johnquangdev/coachlink/pkg/timeutil"
)

// ErrIncompleteSummary is returned for a summary without start time or text
var ErrIncompleteSummary = errors.New("summary payload missing start_time or summary")

// SummaryReady is the summary webhook body
type SummaryReady struct {
	StartTime string
	Summary   string
	ReportURL string
}

// HandleSummary attaches a meeting summary and notifies the salesperson.
// The webhook always acknowledges; the error is for logging.
func (s *meetingService) HandleSummary(ctx context.Context, in SummaryReady) error {
	if strings.TrimSpace(in.StartTime) == "" || strings.TrimSpace(in.Summary) == "" {
		return ErrIncompleteSummary
	}
	at, ok := timeutil.Parse(in.StartTime, s.opts.Location)
	if !ok {
		return ErrIncompleteSummary
	}

	m, err := s.matcher.Match(ctx, at, SummaryTolerance)
	if err != nil {
		return err
	}

	if err := s.Meetings.UpdateFields(ctx, m.ID, map[string]interface{}{
		"summary":     in.Summary,
		"read_ai_url": in.ReportURL,
	}); err != nil {
		return err
	}
	m.Summary, m.ReadAIURL = in.Summary, in.ReportURL
	s.logInfo("summary attached", m)

	if m.SalespersonPhone == "" {
		return nil
	}
	_, _, err = s.dispatcher.Dispatch(ctx, Notification{
		Meeting: m,
		Kind:    KindSummary,
		Message: Message{Body: SummaryMessage(m, in.Summary, in.ReportURL)},
	})
	return err
}

// ListMeetings returns a page of meetings, newest first
func (s *meetingService) ListMeetings(ctx context.Context, limit, offset int) ([]entities.Meeting, int64, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.Meetings.List(ctx, limit, offset)
}

// Detail is a meeting with its stored transcript
type Detail struct {
	Meeting    *entities.Meeting
	Transcript []entities.TranscriptLine
}

// GetMeeting returns one meeting with its transcript lines
func (s *meetingService) GetMeeting(ctx context.Context, id int64) (*Detail, error) {
	m, err := s.Meetings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lines, err := s.Transcripts.ListByMeeting(ctx, id, 1000)
	if err != nil {
		return nil, err
	}
	return &Detail{Meeting: m, Transcript: lines}, nil
}

// ListMissingBot lists meetings with a link whose bot was never scheduled
func (s *meetingService) ListMissingBot(ctx context.Context, limit int) ([]entities.Meeting, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.Meetings.ListMissingBot(ctx, limit)
}
