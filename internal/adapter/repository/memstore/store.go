// Package memstore is an in-memory implementation of the repository
// interfaces. It mirrors the conditional-update semantics of the gorm
// repositories and backs the use case tests.
package memstore

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
	"github.com/johnquangdev/coachlink/internal/domain/repositories"
)

var (
	_ repositories.MeetingRepository      = (*MeetingRepo)(nil)
	_ repositories.UserRepository         = (*UserRepo)(nil)
	_ repositories.ClientRepository       = (*ClientRepo)(nil)
	_ repositories.MessageRepository      = (*MessageRepo)(nil)
	_ repositories.TranscriptRepository   = (*TranscriptRepo)(nil)
	_ repositories.SurveyLedgerRepository = (*LedgerRepo)(nil)
	_ repositories.CoachingRepository     = (*CoachingRepo)(nil)
)

// Store holds every table behind one mutex
type Store struct {
	mu sync.Mutex

	meetings    map[int64]*entities.Meeting
	users       map[string]*entities.User
	clients     map[int64]*entities.Client
	messages    []entities.Message
	transcripts []entities.TranscriptLine
	ledger      map[string]*entities.SyncedSurvey
	coaching    map[string]*entities.MeetingCoaching

	nextID int64

	// Fail* make the matching write return the error once set
	FailCreateMeeting error
	FailCreateLines   error
}

// New creates an empty store
func New() *Store {
	return &Store{
		meetings: make(map[int64]*entities.Meeting),
		users:    make(map[string]*entities.User),
		clients:  make(map[int64]*entities.Client),
		ledger:   make(map[string]*entities.SyncedSurvey),
		coaching: make(map[string]*entities.MeetingCoaching),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// Meetings returns the meeting repository view
func (s *Store) Meetings() *MeetingRepo { return &MeetingRepo{s} }

// Users returns the user repository view
func (s *Store) Users() *UserRepo { return &UserRepo{s} }

// Clients returns the client repository view
func (s *Store) Clients() *ClientRepo { return &ClientRepo{s} }

// Messages returns the message log view
func (s *Store) Messages() *MessageRepo { return &MessageRepo{s} }

// Transcripts returns the transcript view
func (s *Store) Transcripts() *TranscriptRepo { return &TranscriptRepo{s} }

// Ledger returns the survey ledger view
func (s *Store) Ledger() *LedgerRepo { return &LedgerRepo{s} }

// Coaching returns the coaching session view
func (s *Store) Coaching() *CoachingRepo { return &CoachingRepo{s} }

// MeetingCount returns the number of meeting rows
func (s *Store) MeetingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.meetings)
}

// AllMessages returns a copy of the message log
func (s *Store) AllMessages() []entities.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.Message(nil), s.messages...)
}

// PutMeeting inserts or replaces a meeting row as-is
func (s *Store) PutMeeting(m *entities.Meeting) *entities.Meeting {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == 0 {
		m.ID = s.id()
	} else if m.ID > s.nextID {
		s.nextID = m.ID
	}
	cp := *m
	cp.Client = nil
	s.meetings[m.ID] = &cp
	return s.meetingCopy(&cp)
}

// meetingCopy returns a detached copy with the client attached; caller holds mu
func (s *Store) meetingCopy(m *entities.Meeting) *entities.Meeting {
	cp := *m
	cp.Attendees = append([]string(nil), m.Attendees...)
	if m.ClientID != nil {
		if c, ok := s.clients[*m.ClientID]; ok {
			cc := *c
			cp.Client = &cc
		}
	}
	return &cp
}

func (s *Store) sortedMeetings() []*entities.Meeting {
	out := make([]*entities.Meeting, 0, len(s.meetings))
	for _, m := range s.meetings {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *Store) collect(limit int, keep func(*entities.Meeting) bool) []entities.Meeting {
	var out []entities.Meeting
	for _, m := range s.sortedMeetings() {
		if !keep(m) {
			continue
		}
		out = append(out, *s.meetingCopy(m))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func lower(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func now() time.Time { return time.Now().UTC() }
