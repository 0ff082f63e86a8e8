// Package meeting reconciles calendar, transcript and chat inputs into one
// meeting record per calendar event and drives the meeting lifecycle.
package meeting

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
	"github.com/johnquangdev/coachlink/internal/domain/repositories"
	"github.com/johnquangdev/coachlink/internal/infrastructure/events"
	"github.com/johnquangdev/coachlink/internal/infrastructure/external/auxbot"
	"github.com/johnquangdev/coachlink/internal/infrastructure/external/hubspot"
	"github.com/johnquangdev/coachlink/internal/infrastructure/external/survey"
	"github.com/johnquangdev/coachlink/internal/infrastructure/external/transcript"
	"github.com/johnquangdev/coachlink/internal/infrastructure/external/twilio"
	"github.com/johnquangdev/coachlink/internal/infrastructure/storage"
	"github.com/johnquangdev/coachlink/internal/usecase/ai"
	"github.com/johnquangdev/coachlink/internal/usecase/normalize"
)

// Options tunes lifecycle timing
type Options struct {
	Grace         time.Duration
	DefaultLength time.Duration
	SurveyWindow  time.Duration
	NudgeAfter    time.Duration
	BotLookahead  time.Duration
	BotStale      time.Duration
	BotPollBatch  int
	Location      *time.Location
	Now           func() time.Time
}

// DefaultOptions returns the production timings
func DefaultOptions() Options {
	return Options{
		Grace:         time.Minute,
		DefaultLength: 30 * time.Minute,
		SurveyWindow:  24 * time.Hour,
		NudgeAfter:    10 * time.Minute,
		BotLookahead:  time.Hour,
		BotStale:      24 * time.Hour,
		BotPollBatch:  50,
		Location:      time.UTC,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Grace <= 0 {
		o.Grace = d.Grace
	}
	if o.DefaultLength <= 0 {
		o.DefaultLength = d.DefaultLength
	}
	if o.SurveyWindow <= 0 {
		o.SurveyWindow = d.SurveyWindow
	}
	if o.NudgeAfter <= 0 {
		o.NudgeAfter = d.NudgeAfter
	}
	if o.BotLookahead <= 0 {
		o.BotLookahead = d.BotLookahead
	}
	if o.BotStale <= 0 {
		o.BotStale = d.BotStale
	}
	if o.BotPollBatch <= 0 {
		o.BotPollBatch = d.BotPollBatch
	}
	if o.Location == nil {
		o.Location = d.Location
	}
	if o.Now == nil {
		o.Now = func() time.Time { return time.Now().UTC() }
	}
	return o
}

// Deps are the collaborators of the meeting service. CRM, Archive and
// Publisher may be nil.
type Deps struct {
	Meetings    repositories.MeetingRepository
	Transcripts repositories.TranscriptRepository
	Messages    repositories.MessageRepository
	Users       repositories.UserRepository
	Clients     repositories.ClientRepository

	Sender    twilio.Sender
	CRM       hubspot.CRM
	Bot       auxbot.Service
	Survey    survey.Service
	Fetcher   transcript.Fetcher
	Archive   storage.Archive
	Publisher events.Publisher
	Coach     ai.Coach
}

// Lifecycle is the per-meeting work the scheduler drives each cycle
type Lifecycle interface {
	// DueReminders lists active meetings; SendReminder decides per row
	DueReminders(ctx context.Context) ([]entities.Meeting, error)
	SendReminder(ctx context.Context, m *entities.Meeting, now time.Time) error

	DueSurveys(ctx context.Context, now time.Time) ([]entities.Meeting, error)
	TriggerSurvey(ctx context.Context, m *entities.Meeting) error

	AwaitingTranscript(ctx context.Context) ([]entities.Meeting, error)
	PollBot(ctx context.Context, m *entities.Meeting, now time.Time) error

	AwaitingFeedback(ctx context.Context, now time.Time) ([]entities.Meeting, error)
	Nudge(ctx context.Context, m *entities.Meeting) error
}

// Service is the meeting reconciliation engine
type Service interface {
	Lifecycle

	HandleCalendarEvent(ctx context.Context, payload map[string]any) IngestResult
	HandleTranscriptReady(ctx context.Context, in TranscriptReady) TranscriptResult
	HandleSummary(ctx context.Context, in SummaryReady) error
	HandleInbound(ctx context.Context, from, body string) string
	CompleteWithTranscript(ctx context.Context, m *entities.Meeting, in Completion) (bool, error)

	ListMeetings(ctx context.Context, limit, offset int) ([]entities.Meeting, int64, error)
	GetMeeting(ctx context.Context, id int64) (*Detail, error)
	ListMissingBot(ctx context.Context, limit int) ([]entities.Meeting, error)
}

type meetingService struct {
	Deps
	opts       Options
	normalizer *normalize.Normalizer
	resolver   *Resolver
	guard      *Guard
	matcher    *Matcher
	dispatcher *Dispatcher
	logger     *zap.Logger
}

var _ Service = (*meetingService)(nil)

// NewMeetingService wires the engine
func NewMeetingService(deps Deps, opts Options, logger *zap.Logger) Service {
	opts = opts.withDefaults()
	if deps.Publisher == nil {
		deps.Publisher = events.NoopPublisher{}
	}
	if deps.Archive == nil {
		deps.Archive = storage.NoopArchive{}
	}
	dispatcher := NewDispatcher(deps.Sender, deps.Messages, logger)
	dispatcher.now = opts.Now

	return &meetingService{
		Deps:       deps,
		opts:       opts,
		normalizer: normalize.NewNormalizer(opts.Location, opts.DefaultLength, logger).WithClock(opts.Now),
		resolver:   NewResolver(deps.Users, deps.Clients, deps.CRM, logger),
		guard:      NewGuard(deps.Meetings),
		matcher:    NewMatcher(deps.Meetings),
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (s *meetingService) now() time.Time {
	return s.opts.Now().UTC()
}

func (s *meetingService) publish(ctx context.Context, event string, m *entities.Meeting, reason string) {
	payload := events.LifecycleEvent{Reason: reason, At: s.now()}
	if m != nil {
		payload.MeetingID = m.ID
		payload.OutlookEventID = m.OutlookEventID
		payload.Status = string(m.Status)
	}
	s.Publisher.Publish(ctx, event, payload)
}

func (s *meetingService) logWarn(msg string, m *entities.Meeting, err error) {
	if s.logger == nil {
		return
	}
	fields := []zap.Field{zap.Error(err)}
	if m != nil {
		fields = append(fields, zap.Int64("meeting_id", m.ID))
	}
	s.logger.Warn(msg, fields...)
}

func (s *meetingService) logInfo(msg string, m *entities.Meeting, fields ...zap.Field) {
	if s.logger == nil {
		return
	}
	if m != nil {
		fields = append(fields, zap.Int64("meeting_id", m.ID))
	}
	s.logger.Info(msg, fields...)
}
