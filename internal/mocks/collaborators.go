// Package mocks holds recording fakes of the outbound collaborators.
package mocks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
	"github.com/johnquangdev/coachlink/internal/infrastructure/events"
	"github.com/johnquangdev/coachlink/internal/infrastructure/external/auxbot"
	"github.com/johnquangdev/coachlink/internal/infrastructure/external/hubspot"
	"github.com/johnquangdev/coachlink/internal/infrastructure/external/survey"
	"github.com/johnquangdev/coachlink/internal/infrastructure/external/transcript"
	"github.com/johnquangdev/coachlink/internal/infrastructure/external/twilio"
	"github.com/johnquangdev/coachlink/internal/infrastructure/storage"
	"github.com/johnquangdev/coachlink/internal/usecase/ai"
)

var (
	_ twilio.Sender      = (*Sender)(nil)
	_ hubspot.CRM        = (*CRM)(nil)
	_ auxbot.Service     = (*Bot)(nil)
	_ survey.Service     = (*Survey)(nil)
	_ transcript.Fetcher = (*Fetcher)(nil)
	_ events.Publisher   = (*Publisher)(nil)
	_ storage.Archive    = (*Archive)(nil)
	_ ai.Coach           = (*Coach)(nil)
)

// ErrUnavailable is a generic transport failure
var ErrUnavailable = errors.New("service unavailable")

// SentMessage is one recorded Send call
type SentMessage struct {
	To  string
	Msg twilio.Message
}

// Sender records messages; Err fails every send
type Sender struct {
	mu   sync.Mutex
	Sent []SentMessage
	Err  error
}

// Send implements twilio.Sender
func (s *Sender) Send(_ context.Context, to string, msg twilio.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	s.Sent = append(s.Sent, SentMessage{To: to, Msg: msg})
	return fmt.Sprintf("SM%d", len(s.Sent)), nil
}

// Count returns the number of delivered messages
func (s *Sender) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Sent)
}

// Messages returns a copy of the delivered messages
func (s *Sender) Messages() []SentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SentMessage(nil), s.Sent...)
}

// Ticket is one recorded CreateTicket call
type Ticket struct {
	ContactID string
	Subject   string
	Content   string
	Priority  hubspot.Priority
}

// CRM is an in-memory contact book
type CRM struct {
	mu       sync.Mutex
	Disabled bool
	Err      error
	Contacts map[string]string
	Details  map[string]map[string]string
	Tickets  []Ticket
}

// NewCRM creates an enabled CRM fake
func NewCRM() *CRM {
	return &CRM{Contacts: map[string]string{}, Details: map[string]map[string]string{}}
}

// Enabled implements hubspot.CRM
func (c *CRM) Enabled() bool { return !c.Disabled }

// SearchContactByEmail implements hubspot.CRM
func (c *CRM) SearchContactByEmail(_ context.Context, email string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return "", c.Err
	}
	return c.Contacts[email], nil
}

// FindOrCreateContact implements hubspot.CRM
func (c *CRM) FindOrCreateContact(_ context.Context, email, _, _ string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Disabled {
		return "", hubspot.ErrDisabled
	}
	if c.Err != nil {
		return "", c.Err
	}
	if id, ok := c.Contacts[email]; ok {
		return id, nil
	}
	id := fmt.Sprintf("c-%d", len(c.Contacts)+1)
	c.Contacts[email] = id
	return id, nil
}

// GetContactDetails implements hubspot.CRM
func (c *CRM) GetContactDetails(_ context.Context, contactID string) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Details[contactID], nil
}

// CreateTicket implements hubspot.CRM
func (c *CRM) CreateTicket(_ context.Context, contactID, subject, content string, priority hubspot.Priority) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Disabled {
		return "", hubspot.ErrDisabled
	}
	if c.Err != nil {
		return "", c.Err
	}
	c.Tickets = append(c.Tickets, Ticket{ContactID: contactID, Subject: subject, Content: content, Priority: priority})
	return fmt.Sprintf("t-%d", len(c.Tickets)), nil
}

// TicketList returns a copy of the created tickets
func (c *CRM) TicketList() []Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Ticket(nil), c.Tickets...)
}

// Bot fakes the transcription bot service
type Bot struct {
	mu          sync.Mutex
	ScheduleErr error
	StatusErr   error
	Statuses    map[string]*auxbot.BotStatus
	Scheduled   []string
	Polled      []string
}

// NewBot creates a bot fake
func NewBot() *Bot {
	return &Bot{Statuses: map[string]*auxbot.BotStatus{}}
}

// Schedule implements auxbot.Service
func (b *Bot) Schedule(_ context.Context, link string, _ time.Time, _ string) (*auxbot.BotMeeting, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ScheduleErr != nil {
		return nil, b.ScheduleErr
	}
	b.Scheduled = append(b.Scheduled, link)
	n := len(b.Scheduled)
	return &auxbot.BotMeeting{ID: fmt.Sprintf("aux-%d", n), Token: fmt.Sprintf("tok-%d", n)}, nil
}

// GetStatus implements auxbot.Service
func (b *Bot) GetStatus(_ context.Context, token string) (*auxbot.BotStatus, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Polled = append(b.Polled, token)
	if b.StatusErr != nil {
		return nil, b.StatusErr
	}
	if s, ok := b.Statuses[token]; ok {
		return s, nil
	}
	return &auxbot.BotStatus{Status: "scheduled"}, nil
}

// ScheduleCount returns the number of successful schedule calls
func (b *Bot) ScheduleCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.Scheduled)
}

// PollCount returns the number of status polls
func (b *Bot) PollCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.Polled)
}

// Survey fakes the survey service
type Survey struct {
	mu         sync.Mutex
	TriggerErr error
	ListErr    error
	Triggers   []survey.TriggerPayload
	Calls      int
	Responses  []survey.Response
}

// Trigger implements survey.Service
func (s *Survey) Trigger(_ context.Context, payload survey.TriggerPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.TriggerErr != nil {
		return s.TriggerErr
	}
	s.Triggers = append(s.Triggers, payload)
	return nil
}

// ListRecent implements survey.Service
func (s *Survey) ListRecent(_ context.Context, limit int) ([]survey.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	out := s.Responses
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return append([]survey.Response(nil), out...), nil
}

// CallCount returns the number of Trigger calls, failed ones included
func (s *Survey) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Calls
}

// Fetcher serves transcripts from a map
type Fetcher struct {
	Bodies map[string]string
	Err    error
}

// Fetch implements transcript.Fetcher
func (f *Fetcher) Fetch(_ context.Context, url string) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	body, ok := f.Bodies[url]
	if !ok {
		return "", ErrUnavailable
	}
	return body, nil
}

// PublishedEvent is one recorded Publish call
type PublishedEvent struct {
	Event   string
	Payload events.LifecycleEvent
}

// Publisher records lifecycle events
type Publisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// Publish implements events.Publisher
func (p *Publisher) Publish(_ context.Context, event string, payload events.LifecycleEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, PublishedEvent{Event: event, Payload: payload})
}

// Names returns the recorded event names in order
func (p *Publisher) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.Events))
	for _, e := range p.Events {
		out = append(out, e.Event)
	}
	return out
}

// Archive records archived transcripts
type Archive struct {
	mu      sync.Mutex
	Objects map[int64]string
	Err     error
}

// PutTranscript implements storage.Archive
func (a *Archive) PutTranscript(_ context.Context, meetingID int64, content string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return "", a.Err
	}
	if a.Objects == nil {
		a.Objects = map[int64]string{}
	}
	a.Objects[meetingID] = content
	return storage.TranscriptObjectName(meetingID), nil
}

// Coach returns canned content and records what it was asked
type Coach struct {
	mu        sync.Mutex
	Plan      *entities.CoachingPlan
	Analysis  *entities.MeetingAnalysis
	Coaching  *entities.SalesCoaching
	Reply     string
	Inputs    []ai.CoachingInput
	Histories []string
	Analyzed  []string
}

// CoachingPlan implements ai.Coach
func (c *Coach) CoachingPlan(_ context.Context, in ai.CoachingInput) entities.CoachingPlan {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Inputs = append(c.Inputs, in)
	if c.Plan != nil {
		return *c.Plan
	}
	return entities.DefaultCoachingPlan()
}

// ChatReply implements ai.Coach
func (c *Coach) ChatReply(_ context.Context, history, _ string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Histories = append(c.Histories, history)
	if c.Reply == "" {
		return ai.ChatUnavailableReply
	}
	return c.Reply
}

// AnalyzeTranscript implements ai.Coach
func (c *Coach) AnalyzeTranscript(_ context.Context, text string) entities.MeetingAnalysis {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Analyzed = append(c.Analyzed, text)
	if c.Analysis != nil {
		return *c.Analysis
	}
	return entities.EmptyAnalysis()
}

// SalesCoaching implements ai.Coach
func (c *Coach) SalesCoaching(_ context.Context, text string) entities.SalesCoaching {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Analyzed = append(c.Analyzed, text)
	if c.Coaching != nil {
		return *c.Coaching
	}
	return entities.EmptySalesCoaching()
}
