package meeting

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
	"github.com/johnquangdev/coachlink/internal/infrastructure/events"
	"github.com/johnquangdev/coachlink/internal/infrastructure/external/hubspot"
	"github.com/johnquangdev/coachlink/internal/usecase/transcript"
	"github.com/johnquangdev/coachlink/pkg/timeutil"
)

// Completion carries a delivered transcript
type Completion struct {
	Content string
	Title   string
	Source  string
	URL     string
}

// TranscriptReady is the transcript webhook body
type TranscriptReady struct {
	Title  string
	Time   string
	URL    string
	Source string
}

// TranscriptResult is returned to the transcript webhook caller
type TranscriptResult struct {
	Status    string
	Message   string
	MeetingID int64
}

// Transcript webhook statuses
const (
	TranscriptIgnored   = "ignored"
	TranscriptSkipped   = "skipped"
	TranscriptError     = "error"
	TranscriptProcessed = "processed"
)

// MissingTranscriptFields is the ignore message for incomplete notifications
const MissingTranscriptFields = "Missing title, time, or url"

// CompleteWithTranscript stores the transcript, completes the meeting and
// fires analysis side effects. The transcript claim makes it run at most
// once per meeting; false means another delivery already handled it.
func (s *meetingService) CompleteWithTranscript(ctx context.Context, m *entities.Meeting, in Completion) (bool, error) {
	claimed, err := s.Meetings.ClaimTranscript(ctx, m.ID, s.now())
	if err != nil {
		return false, err
	}
	if !claimed {
		s.logInfo("transcript already received", m)
		return false, nil
	}

	source := in.Source
	if source == "" {
		source = entities.TranscriptSourceReadAI
	}
	lines := transcript.Parse(in.Content)
	if err := s.Transcripts.CreateLines(ctx, transcript.ToEntities(m.ID, source, lines)); err != nil {
		if rerr := s.Meetings.ReleaseTranscript(ctx, m.ID); rerr != nil {
			s.logWarn("failed to release transcript claim", m, rerr)
		}
		return false, err
	}

	moved, err := s.Meetings.TransitionStatus(ctx, m.ID, entities.PredecessorsOf(entities.MeetingStatusCompleted), entities.MeetingStatusCompleted)
	if err != nil {
		s.logWarn("failed to complete meeting", m, err)
	}
	if moved {
		m.Status = entities.MeetingStatusCompleted
		s.publish(ctx, events.MeetingCompleted, m, source)
	}
	s.logInfo("📝 Transcript stored", m, zap.Int("lines", len(lines)), zap.String("source", source))

	if strings.TrimSpace(in.Content) == "" {
		return true, nil
	}

	if object, err := s.Archive.PutTranscript(ctx, m.ID, in.Content); err != nil {
		s.logWarn("transcript archive failed", m, err)
	} else if object != "" {
		s.logInfo("transcript archived", m, zap.String("object", object))
	}

	title := firstNonBlank(in.Title, m.Title, "Meeting")
	text := transcript.FullText(lines)
	if text == "" {
		text = in.Content
	}
	analysis := s.Coach.AnalyzeTranscript(ctx, text)

	updates := map[string]interface{}{}
	if raw, err := json.Marshal(analysis); err == nil {
		updates["analysis"] = datatypes.JSON(raw)
	}
	if in.URL != "" {
		updates["read_ai_url"] = in.URL
	}
	if err := s.Meetings.UpdateFields(ctx, m.ID, updates); err != nil {
		s.logWarn("failed to store analysis", m, err)
	}
	m.Analysis = &analysis

	if _, _, err := s.dispatcher.Dispatch(ctx, Notification{
		Meeting: m,
		Kind:    KindAnalysis,
		Message: AnalysisMessage(title, analysis),
	}); err != nil {
		s.logWarn("analysis notification failed", m, err)
	}

	s.syncAnalysis(ctx, m, title, in.URL, analysis)
	return true, nil
}

func (s *meetingService) syncAnalysis(ctx context.Context, m *entities.Meeting, title, url string, analysis entities.MeetingAnalysis) {
	if m.Client == nil {
		return
	}
	contactID, err := s.resolver.contactFor(ctx, m.Client, true)
	if err != nil || contactID == "" {
		if err != nil && !errors.Is(err, hubspot.ErrDisabled) {
			s.logWarn("crm contact lookup failed", m, err)
		}
		return
	}
	if _, err := s.CRM.CreateTicket(ctx, contactID, "Meeting Analysis: "+title, AnalysisTicket(title, url, analysis), hubspot.PriorityHigh); err != nil {
		s.logWarn("crm analysis ticket failed", m, err)
	}
}

// HandleTranscriptReady matches a transcript notification to a meeting by
// start time, downloads it and completes the meeting.
func (s *meetingService) HandleTranscriptReady(ctx context.Context, in TranscriptReady) TranscriptResult {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Time) == "" || strings.TrimSpace(in.URL) == "" {
		return TranscriptResult{Status: TranscriptIgnored, Message: MissingTranscriptFields}
	}
	at, ok := timeutil.Parse(in.Time, s.opts.Location)
	if !ok {
		return TranscriptResult{Status: TranscriptIgnored, Message: MissingTranscriptFields}
	}

	m, err := s.matcher.Match(ctx, at, TranscriptTolerance)
	if err != nil {
		if !errors.Is(err, entities.ErrMeetingNotFound) {
			s.logWarn("transcript match failed", nil, err)
		}
		return TranscriptResult{Status: TranscriptSkipped, Message: "No meeting found"}
	}

	content, err := s.Fetcher.Fetch(ctx, in.URL)
	if err != nil {
		s.logWarn("transcript fetch failed", m, err)
		return TranscriptResult{Status: TranscriptError, Message: "Fetch failed (silent)", MeetingID: m.ID}
	}

	if _, err := s.CompleteWithTranscript(ctx, m, Completion{
		Content: content,
		Title:   in.Title,
		Source:  in.Source,
		URL:     in.URL,
	}); err != nil {
		s.logWarn("transcript completion failed", m, err)
		return TranscriptResult{Status: TranscriptError, Message: "Failed to store transcript", MeetingID: m.ID}
	}
	return TranscriptResult{Status: TranscriptProcessed, MeetingID: m.ID}
}
