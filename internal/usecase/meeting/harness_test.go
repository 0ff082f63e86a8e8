package meeting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/coachlink/internal/adapter/repository/memstore"
	"github.com/johnquangdev/coachlink/internal/domain/entities"
	"github.com/johnquangdev/coachlink/internal/mocks"
)

const (
	salesEmail = "sp@x.com"
	salesPhone = "whatsapp:+15550001111"
)

type harness struct {
	store     *memstore.Store
	sender    *mocks.Sender
	crm       *mocks.CRM
	bot       *mocks.Bot
	survey    *mocks.Survey
	fetcher   *mocks.Fetcher
	publisher *mocks.Publisher
	archive   *mocks.Archive
	coach     *mocks.Coach
	now       time.Time
	svc       Service
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		store:     memstore.New(),
		sender:    &mocks.Sender{},
		crm:       mocks.NewCRM(),
		bot:       mocks.NewBot(),
		survey:    &mocks.Survey{},
		fetcher:   &mocks.Fetcher{Bodies: map[string]string{}},
		publisher: &mocks.Publisher{},
		archive:   &mocks.Archive{},
		coach:     &mocks.Coach{},
		now:       time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	}
	opts := DefaultOptions()
	opts.Now = func() time.Time { return h.now }

	h.svc = NewMeetingService(Deps{
		Meetings:    h.store.Meetings(),
		Transcripts: h.store.Transcripts(),
		Messages:    h.store.Messages(),
		Users:       h.store.Users(),
		Clients:     h.store.Clients(),
		Sender:      h.sender,
		CRM:         h.crm,
		Bot:         h.bot,
		Survey:      h.survey,
		Fetcher:     h.fetcher,
		Archive:     h.archive,
		Publisher:   h.publisher,
		Coach:       h.coach,
	}, opts, nil)

	require.NoError(t, h.store.Users().Upsert(context.Background(), &entities.User{
		Email:    salesEmail,
		Name:     "Sam",
		Phone:    salesPhone,
		Timezone: "UTC",
	}))
	return h
}

func (h *harness) meeting(t *testing.T, id int64) *entities.Meeting {
	t.Helper()
	m, err := h.store.Meetings().FindByID(context.Background(), id)
	require.NoError(t, err)
	return m
}

func scenarioPayload() map[string]any {
	return map[string]any{
		"meeting": map[string]any{
			"meeting_id": "m1",
			"organizer":  map[string]any{"email": salesEmail},
			"start_time": "2026-01-01T10:00:00Z",
			"end_time":   "2026-01-01T10:30:00Z",
		},
		"client": map[string]any{"email": "c@y.com", "name": "Jane"},
	}
}

func onlinePayload(id string) map[string]any {
	p := scenarioPayload()
	meeting := p["meeting"].(map[string]any)
	meeting["meeting_id"] = id
	meeting["online_meeting_url"] = "https://zoom.us/j/123"
	return p
}

func ptrTime(t time.Time) *time.Time { return &t }

func ptrString(s string) *string { return &s }
