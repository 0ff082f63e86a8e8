package meeting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
	"github.com/johnquangdev/coachlink/internal/infrastructure/events"
	"github.com/johnquangdev/coachlink/internal/mocks"
)

func TestHandleCalendarEvent_Scenario(t *testing.T) {
	h := newHarness(t)

	res := h.svc.HandleCalendarEvent(context.Background(), scenarioPayload())

	require.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "new", res.Outcome)
	assert.Equal(t, 1, h.store.MeetingCount())

	m := h.meeting(t, res.MeetingID)
	assert.Equal(t, "m1", m.OutlookEventID)
	assert.Equal(t, entities.MeetingStatusScheduled, m.Status)
	assert.Equal(t, entities.SurveyStatusPending, m.SurveyStatus)
	assert.NotNil(t, m.CoachingSentAt)
	require.NotNil(t, m.Client)
	assert.Equal(t, "Jane", m.Client.Name)

	sent := h.sender.Messages()
	require.Len(t, sent, 1)
	assert.Equal(t, salesPhone, sent[0].To)
	assert.Equal(t, "🚀 *New Meeting: Meeting*", sent[0].Msg.TemplateVars["1"])
	assert.Equal(t, []string{events.MeetingScheduled}, h.publisher.Names())
}

func TestHandleCalendarEvent_Idempotent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first := h.svc.HandleCalendarEvent(ctx, scenarioPayload())
	second := h.svc.HandleCalendarEvent(ctx, scenarioPayload())

	assert.Equal(t, StatusSuccess, first.Status)
	assert.Equal(t, StatusSuccess, second.Status)
	assert.Equal(t, first.MeetingID, second.MeetingID)
	assert.Equal(t, 1, h.store.MeetingCount())
	assert.Equal(t, 1, h.sender.Count())
}

func TestHandleCalendarEvent_RepairSchedulesBotWithoutResendingCoaching(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.bot.ScheduleErr = mocks.ErrUnavailable
	first := h.svc.HandleCalendarEvent(ctx, onlinePayload("m2"))
	require.Equal(t, "new", first.Outcome)
	assert.False(t, h.meeting(t, first.MeetingID).HasBotToken())

	h.bot.ScheduleErr = nil
	second := h.svc.HandleCalendarEvent(ctx, onlinePayload("m2"))
	assert.Equal(t, StatusSuccess, second.Status)
	assert.Equal(t, "repaired", second.Outcome)

	m := h.meeting(t, first.MeetingID)
	assert.True(t, m.HasBotToken())
	assert.Equal(t, "tok-1", *m.AuxMeetingToken)
	assert.Equal(t, 1, h.sender.Count())
	assert.Equal(t, 1, h.bot.ScheduleCount())

	third := h.svc.HandleCalendarEvent(ctx, onlinePayload("m2"))
	assert.Equal(t, AlreadyProcessed, third.Message)
	assert.Equal(t, 1, h.bot.ScheduleCount())
	assert.Equal(t, 1, h.store.MeetingCount())
}

func TestHandleCalendarEvent_RepairKeepsAccumulatedSummary(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first := h.svc.HandleCalendarEvent(ctx, scenarioPayload())
	require.Equal(t, "new", first.Outcome)

	require.NoError(t, h.svc.HandleSummary(ctx, SummaryReady{
		StartTime: "2026-01-01T10:00:00Z",
		Summary:   "Client agreed to pilot",
	}))
	require.Equal(t, "Client agreed to pilot", h.meeting(t, first.MeetingID).Summary)

	p := scenarioPayload()
	p["meeting"].(map[string]any)["location"] = "Room 7"
	second := h.svc.HandleCalendarEvent(ctx, p)
	assert.Equal(t, "repaired", second.Outcome)

	m := h.meeting(t, first.MeetingID)
	assert.Equal(t, "Client agreed to pilot", m.Summary)
	assert.Equal(t, "Room 7", m.Location)
	assert.Equal(t, salesPhone, m.SalespersonPhone)
}

func TestHandleCalendarEvent_RepairWithoutStartKeepsTiming(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first := h.svc.HandleCalendarEvent(ctx, scenarioPayload())
	require.Equal(t, "new", first.Outcome)

	p := scenarioPayload()
	meeting := p["meeting"].(map[string]any)
	delete(meeting, "start_time")
	delete(meeting, "end_time")
	meeting["location"] = "Lobby"
	second := h.svc.HandleCalendarEvent(ctx, p)
	assert.Equal(t, "repaired", second.Outcome)

	m := h.meeting(t, first.MeetingID)
	require.NotNil(t, m.StartTime)
	require.NotNil(t, m.EndTime)
	assert.True(t, m.StartTime.Equal(time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)))
	assert.True(t, m.EndTime.Equal(time.Date(2026, 1, 1, 10, 30, 0, 0, time.UTC)))
	assert.Equal(t, "Lobby", m.Location)
}

func TestHandleCalendarEvent_TerminalMeetingIsNotRepaired(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.bot.ScheduleErr = mocks.ErrUnavailable
	first := h.svc.HandleCalendarEvent(ctx, onlinePayload("m3"))
	require.Equal(t, "new", first.Outcome)

	assert.Equal(t, FeedbackConfirmation, h.svc.HandleInbound(ctx, salesPhone, "done"))
	require.Equal(t, entities.MeetingStatusCompleted, h.meeting(t, first.MeetingID).Status)

	h.bot.ScheduleErr = nil
	second := h.svc.HandleCalendarEvent(ctx, onlinePayload("m3"))
	assert.Equal(t, StatusSuccess, second.Status)
	assert.Equal(t, AlreadyProcessed, second.Message)
	assert.Equal(t, 0, h.bot.ScheduleCount())
	assert.False(t, h.meeting(t, first.MeetingID).HasBotToken())
}

func TestHandleCalendarEvent_CoachingRetriedAfterSendFailure(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.sender.Err = mocks.ErrUnavailable
	first := h.svc.HandleCalendarEvent(ctx, scenarioPayload())
	require.Equal(t, StatusSuccess, first.Status)
	assert.Nil(t, h.meeting(t, first.MeetingID).CoachingSentAt)

	h.sender.Err = nil
	h.svc.HandleCalendarEvent(ctx, scenarioPayload())
	assert.Equal(t, 1, h.sender.Count())
	assert.NotNil(t, h.meeting(t, first.MeetingID).CoachingSentAt)
}

func TestHandleCalendarEvent_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		message string
	}{
		{
			name:    "no meeting object",
			payload: map[string]any{"client": map[string]any{"email": "c@y.com"}},
			message: "Missing meeting data",
		},
		{
			name: "no organizer",
			payload: map[string]any{"meeting": map[string]any{
				"meeting_id": "m9",
				"title":      "Intro",
			}},
			message: "No organizer email",
		},
		{
			name: "unregistered organizer",
			payload: map[string]any{"meeting": map[string]any{
				"meeting_id": "m9",
				"organizer":  map[string]any{"email": "stranger@x.com"},
			}},
			message: "Organizer not registered",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			res := h.svc.HandleCalendarEvent(context.Background(), tt.payload)
			assert.Equal(t, StatusIgnored, res.Status)
			assert.Equal(t, tt.message, res.Message)
			assert.Equal(t, 0, h.store.MeetingCount())
			assert.Equal(t, []string{events.MeetingRejected}, h.publisher.Names())
		})
	}
}

func TestHandleCalendarEvent_StorageFailureIsPartial(t *testing.T) {
	h := newHarness(t)
	h.store.FailCreateMeeting = mocks.ErrUnavailable

	res := h.svc.HandleCalendarEvent(context.Background(), scenarioPayload())

	assert.Equal(t, StatusPartial, res.Status)
	assert.Equal(t, 0, h.sender.Count())
}

func TestHandleCalendarEvent_EnrichesBodyFromCRM(t *testing.T) {
	h := newHarness(t)
	h.crm.Contacts["c@y.com"] = "c-42"
	h.crm.Details["c-42"] = map[string]string{"jobtitle": "CTO", "industry": "Fintech"}

	p := scenarioPayload()
	p["meeting"].(map[string]any)["body"] = map[string]any{"content": "<p>Agenda: pricing</p>"}
	res := h.svc.HandleCalendarEvent(context.Background(), p)

	m := h.meeting(t, res.MeetingID)
	assert.Equal(t, "Agenda: pricing\n\n[HubSpot context]\nJobtitle: CTO\nIndustry: Fintech", m.Summary)
	require.NotNil(t, m.Client.HubSpotContactID)
	assert.Equal(t, "c-42", *m.Client.HubSpotContactID)
}

func TestResolver_KeepsKnownClientValues(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.store.Clients().Create(ctx, &entities.Client{Email: "c@y.com", Name: "Jane Doe", Company: "Acme"}))

	p := scenarioPayload()
	p["client"] = map[string]any{"email": "c@y.com"}
	res := h.svc.HandleCalendarEvent(ctx, p)

	m := h.meeting(t, res.MeetingID)
	assert.Equal(t, "Jane Doe", m.Client.Name)
	assert.Equal(t, "Acme", m.Client.Company)
}
