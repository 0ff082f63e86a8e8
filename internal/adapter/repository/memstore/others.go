package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
)

// UserRepo is the in-memory UserRepository
type UserRepo struct{ s *Store }

// FindByEmail implements repositories.UserRepository
func (r *UserRepo) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[lower(email)]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// FindByPhone implements repositories.UserRepository
func (r *UserRepo) FindByPhone(_ context.Context, phone string) (*entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

// First implements repositories.UserRepository
func (r *UserRepo) First(_ context.Context) (*entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var first *entities.User
	for _, u := range r.s.users {
		if first == nil || u.CreatedAt.Before(first.CreatedAt) {
			first = u
		}
	}
	if first == nil {
		return nil, entities.ErrUserNotFound
	}
	cp := *first
	return &cp, nil
}

// Upsert implements repositories.UserRepository
func (r *UserRepo) Upsert(_ context.Context, user *entities.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := lower(user.Email)
	if existing, ok := r.s.users[key]; ok {
		existing.Name, existing.Phone, existing.Timezone = user.Name, user.Phone, user.Timezone
		existing.UpdatedAt = now()
		return nil
	}
	cp := *user
	cp.Email = key
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = now()
	}
	r.s.users[key] = &cp
	return nil
}

// SetHubSpotContactID implements repositories.UserRepository
func (r *UserRepo) SetHubSpotContactID(_ context.Context, email, contactID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[lower(email)]; ok {
		u.HubSpotContactID = &contactID
	}
	return nil
}

// ClientRepo is the in-memory ClientRepository
type ClientRepo struct{ s *Store }

// FindByID implements repositories.ClientRepository
func (r *ClientRepo) FindByID(_ context.Context, id int64) (*entities.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, entities.ErrClientNotFound
	}
	cp := *c
	return &cp, nil
}

// FindByEmail implements repositories.ClientRepository
func (r *ClientRepo) FindByEmail(_ context.Context, email string) (*entities.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.clients {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, entities.ErrClientNotFound
}

// Create implements repositories.ClientRepository
func (r *ClientRepo) Create(_ context.Context, client *entities.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.clients {
		if c.Email == client.Email {
			return entities.ErrClientAlreadyExists
		}
	}
	client.ID = r.s.id()
	cp := *client
	r.s.clients[client.ID] = &cp
	return nil
}

// Update implements repositories.ClientRepository
func (r *ClientRepo) Update(_ context.Context, id int64, updates map[string]interface{}) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil
	}
	for k, v := range updates {
		switch k {
		case "name":
			c.Name = v.(string)
		case "company":
			c.Company = v.(string)
		case "phone":
			p := v.(string)
			c.Phone = &p
		case "hubspot_contact_id":
			id := v.(string)
			c.HubSpotContactID = &id
		}
	}
	return nil
}

// MessageRepo is the in-memory MessageRepository
type MessageRepo struct{ s *Store }

// Create implements repositories.MessageRepository
func (r *MessageRepo) Create(_ context.Context, msg *entities.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if msg.Timestamp.IsZero() {
		msg.Timestamp = now()
	}
	msg.ID = r.s.id()
	r.s.messages = append(r.s.messages, *msg)
	return nil
}

// ExistsOutgoing implements repositories.MessageRepository
func (r *MessageRepo) ExistsOutgoing(_ context.Context, meetingID int64, body string, since time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.messages {
		if m.MeetingID != nil && *m.MeetingID == meetingID && m.Direction == entities.MessageOutgoing &&
			m.Message == body && !m.Timestamp.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

// ExistsIncomingSince implements repositories.MessageRepository
func (r *MessageRepo) ExistsIncomingSince(_ context.Context, meetingID int64, since time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.messages {
		if m.MeetingID != nil && *m.MeetingID == meetingID && m.Direction == entities.MessageIncoming &&
			m.Timestamp.After(since) {
			return true, nil
		}
	}
	return false, nil
}

// TranscriptRepo is the in-memory TranscriptRepository
type TranscriptRepo struct{ s *Store }

// CreateLines implements repositories.TranscriptRepository
func (r *TranscriptRepo) CreateLines(_ context.Context, lines []entities.TranscriptLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailCreateLines != nil {
		return r.s.FailCreateLines
	}
	for _, l := range lines {
		l.ID = r.s.id()
		r.s.transcripts = append(r.s.transcripts, l)
	}
	return nil
}

// ListByMeeting implements repositories.TranscriptRepository
func (r *TranscriptRepo) ListByMeeting(_ context.Context, meetingID int64, limit int) ([]entities.TranscriptLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entities.TranscriptLine
	for _, l := range r.s.transcripts {
		if l.MeetingID == meetingID {
			out = append(out, l)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

// LedgerRepo is the in-memory SurveyLedgerRepository
type LedgerRepo struct{ s *Store }

// Exists implements repositories.SurveyLedgerRepository
func (r *LedgerRepo) Exists(_ context.Context, surveyID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.ledger[surveyID]
	return ok, nil
}

// Record implements repositories.SurveyLedgerRepository
func (r *LedgerRepo) Record(_ context.Context, entry *entities.SyncedSurvey) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.ledger[entry.SurveyID]; ok {
		return nil
	}
	if entry.SyncedAt.IsZero() {
		entry.SyncedAt = now()
	}
	cp := *entry
	r.s.ledger[entry.SurveyID] = &cp
	return nil
}

// PurgeBefore implements repositories.SurveyLedgerRepository
func (r *LedgerRepo) PurgeBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, e := range r.s.ledger {
		if e.SyncedAt.Before(cutoff) {
			delete(r.s.ledger, id)
			n++
		}
	}
	return n, nil
}

// IDs returns the recorded survey ids, sorted
func (r *LedgerRepo) IDs() []string {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]string, 0, len(r.s.ledger))
	for id := range r.s.ledger {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// CoachingRepo is the in-memory CoachingRepository
type CoachingRepo struct{ s *Store }

// Upsert implements repositories.CoachingRepository
func (r *CoachingRepo) Upsert(_ context.Context, session *entities.MeetingCoaching) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.s.coaching[session.SessionID]; ok {
		existing.Title, existing.Transcript = session.Title, session.Transcript
		existing.Source, existing.Summary = session.Source, session.Summary
		existing.UpdatedAt = now()
		session.ID = existing.ID
		return nil
	}
	session.ID = r.s.id()
	cp := *session
	r.s.coaching[session.SessionID] = &cp
	return nil
}

// FindBySessionID implements repositories.CoachingRepository
func (r *CoachingRepo) FindBySessionID(_ context.Context, sessionID string) (*entities.MeetingCoaching, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.coaching[sessionID]
	if !ok {
		return nil, entities.ErrCoachingSessionNotFound
	}
	cp := *c
	return &cp, nil
}

// UpdateCoaching implements repositories.CoachingRepository
func (r *CoachingRepo) UpdateCoaching(_ context.Context, sessionID string, coaching []byte) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.coaching[sessionID]; ok {
		c.Coaching = append([]byte(nil), coaching...)
	}
	return nil
}
