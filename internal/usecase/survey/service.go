// Package survey syncs completed client surveys into the CRM exactly once
// per survey id.
package survey

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
	"github.com/johnquangdev/coachlink/internal/infrastructure/external/hubspot"
	surveyapi "github.com/johnquangdev/coachlink/internal/infrastructure/external/survey"
)

const (
	// ListLimit is how many recent responses one reconciliation pulls
	ListLimit = 50
	// Retention is how long synced survey ids are remembered
	Retention = 30 * 24 * time.Hour
)

// ErrIncompleteResponse is returned for a response without id or email
var ErrIncompleteResponse = errors.New("survey response missing id or participant email")

// Service reconciles survey responses with the CRM
type Service interface {
	// Reconcile pulls recent responses and syncs the new ones
	Reconcile(ctx context.Context) (int, error)
	// Purge forgets ledger rows older than the retention horizon
	Purge(ctx context.Context, now time.Time) (int64, error)
	// Sync pushes one response; false means it was already synced
	Sync(ctx context.Context, r surveyapi.Response) (bool, error)
}

type surveyService struct {
	api    surveyapi.Service
	ledger repositories.SurveyLedgerRepository
	crm    hubspot.CRM
	now    func() time.Time
	logger *zap.Logger
}

// NewSurveyService creates the survey reconciler
func NewSurveyService(api surveyapi.Service, ledger repositories.SurveyLedgerRepository, crm hubspot.CRM, logger *zap.Logger) Service {
	return &surveyService{
		api:    api,
		ledger: ledger,
		crm:    crm,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

func (s *surveyService) Reconcile(ctx context.Context) (int, error) {
	if s.api == nil {
		return 0, nil
	}
	responses, err := s.api.ListRecent(ctx, ListLimit)
	if err != nil {
		return 0, err
	}

	synced, skipped := 0, 0
	for _, r := range responses {
		ok, err := s.Sync(ctx, r)
		switch {
		case errors.Is(err, ErrIncompleteResponse):
			s.warn("skipping survey with missing id or email", r, nil)
		case err != nil:
			s.warn("failed to sync survey", r, err)
		case ok:
			synced++
		default:
			skipped++
		}
	}

	if s.logger != nil {
		s.logger.Info("📊 Survey sync complete", zap.Int("synced", synced), zap.Int("already_processed", skipped))
	}
	return synced, nil
}

func (s *surveyService) Sync(ctx context.Context, r surveyapi.Response) (bool, error) {
	id := strings.TrimSpace(string(r.ID))
	email := strings.ToLower(strings.TrimSpace(r.ParticipantEmail))
	if id == "" || email == "" {
		return false, ErrIncompleteResponse
	}

	seen, err := s.ledger.Exists(ctx, id)
	if err != nil {
		return false, err
	}
	if seen {
		return false, nil
	}

	contactID, err := s.contact(ctx, email, r.ParticipantName)
	if err != nil {
		return false, err
	}
	subject := "Survey Response: " + firstNonBlank(r.MeetingTitle, "Meeting")
	if _, err := s.crm.CreateTicket(ctx, contactID, subject, s.ticket(r), hubspot.PriorityMedium); err != nil {
		return false, fmt.Errorf("failed to create survey ticket: %w", err)
	}

	if err := s.ledger.Record(ctx, &entities.SyncedSurvey{
		SurveyID:         id,
		ParticipantEmail: email,
		SyncedAt:         s.now(),
	}); err != nil {
		return false, err
	}
	if s.logger != nil {
		s.logger.Info("✅ Synced survey", zap.String("survey_id", id), zap.String("email", email))
	}
	return true, nil
}

func (s *surveyService) Purge(ctx context.Context, now time.Time) (int64, error) {
	return s.ledger.PurgeBefore(ctx, now.Add(-Retention))
}

func (s *surveyService) contact(ctx context.Context, email, name string) (string, error) {
	if s.crm == nil || !s.crm.Enabled() {
		return "", hubspot.ErrDisabled
	}
	id, err := s.crm.SearchContactByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	id, err = s.crm.FindOrCreateContact(ctx, email, name, "")
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("no crm contact for %s", email)
	}
	return id, nil
}

// ticket renders the CRM ticket body with star ratings
func (s *surveyService) ticket(r surveyapi.Response) string {
	var b strings.Builder
	b.WriteString("📊 **Meeting Survey Response**\n")
	if id := strings.TrimSpace(string(r.MeetingID)); id != "" {
		fmt.Fprintf(&b, "**Session ID:** %s\n", id)
	}
	submitted := r.SubmittedAt
	if submitted == "" {
		submitted = s.now().Format("2006-01-02 15:04:05 UTC")
	}
	fmt.Fprintf(&b, "**Submitted:** %s\n\n", submitted)

	b.WriteString("**RATINGS (1-5):**\n")
	fmt.Fprintf(&b, "⏰ Punctuality: %s\n", stars(r.Punctuality))
	fmt.Fprintf(&b, "👂 Listening & Understanding: %s\n", stars(r.ListeningUnderstanding))
	fmt.Fprintf(&b, "🎓 Knowledge & Expertise: %s\n", stars(r.KnowledgeExpertise))
	fmt.Fprintf(&b, "💬 Clarity of Answers: %s\n", stars(r.ClarityAnswers))
	fmt.Fprintf(&b, "✨ Overall Value: %s\n\n", stars(r.OverallValue))

	if r.MostValuable != "" || r.Improvements != "" {
		b.WriteString("**FEEDBACK:**\n")
		if r.MostValuable != "" {
			fmt.Fprintf(&b, "**Most Valuable:** %s\n", r.MostValuable)
		}
		if r.Improvements != "" {
			fmt.Fprintf(&b, "**Improvements:** %s\n", r.Improvements)
		}
	}
	return b.String()
}

func stars(r surveyapi.Rating) string {
	n := int(r)
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("⭐", n) + fmt.Sprintf(" (%d/5)", n)
}

// DecodeWebhook reads a survey callback body. The response may be the
// body itself or nested under "survey_response".
func DecodeWebhook(body []byte) (surveyapi.Response, error) {
	var envelope struct {
		SurveyResponse json.RawMessage `json:"survey_response"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return surveyapi.Response{}, fmt.Errorf("invalid survey payload: %w", err)
	}
	raw := body
	if len(envelope.SurveyResponse) > 0 && string(envelope.SurveyResponse) != "null" {
		raw = envelope.SurveyResponse
	}
	var r surveyapi.Response
	if err := json.Unmarshal(raw, &r); err != nil {
		return surveyapi.Response{}, fmt.Errorf("invalid survey response: %w", err)
	}
	return r, nil
}

func (s *surveyService) warn(msg string, r surveyapi.Response, err error) {
	if s.logger == nil {
		return
	}
	fields := []zap.Field{zap.String("survey_id", string(r.ID)), zap.String("email", r.ParticipantEmail)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	s.logger.Warn("⚠️ "+msg, fields...)
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
