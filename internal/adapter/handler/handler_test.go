package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/johnquangdev/coachlink/errors"
	"github.com/johnquangdev/coachlink/internal/domain/entities"
	surveyapi "github.com/johnquangdev/coachlink/internal/infrastructure/external/survey"
	"github.com/johnquangdev/coachlink/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/coachlink/internal/usecase/coaching"
	"github.com/johnquangdev/coachlink/internal/usecase/meeting"
	"github.com/johnquangdev/coachlink/internal/usecase/survey"
	"github.com/johnquangdev/coachlink/internal/usecase/user"
	"github.com/johnquangdev/coachlink/pkg/ai"
	"github.com/johnquangdev/coachlink/pkg/config"
	"github.com/johnquangdev/coachlink/pkg/jwt"
	pkgvalidator "github.com/johnquangdev/coachlink/pkg/validator"
)

type stubMeetings struct {
	meeting.Service

	calendarCalls  []map[string]any
	calendarResult meeting.IngestResult

	transcriptCalls  []meeting.TranscriptReady
	transcriptResult meeting.TranscriptResult

	summaryCalls []meeting.SummaryReady
	summaryErr   error

	inboundFrom, inboundBody string
	inboundReply             string

	listed  []entities.Meeting
	detail  *meeting.Detail
	listErr error
}

func (s *stubMeetings) HandleCalendarEvent(_ context.Context, payload map[string]any) meeting.IngestResult {
	s.calendarCalls = append(s.calendarCalls, payload)
	return s.calendarResult
}

func (s *stubMeetings) HandleTranscriptReady(_ context.Context, in meeting.TranscriptReady) meeting.TranscriptResult {
	s.transcriptCalls = append(s.transcriptCalls, in)
	return s.transcriptResult
}

func (s *stubMeetings) HandleSummary(_ context.Context, in meeting.SummaryReady) error {
	s.summaryCalls = append(s.summaryCalls, in)
	return s.summaryErr
}

func (s *stubMeetings) HandleInbound(_ context.Context, from, body string) string {
	s.inboundFrom, s.inboundBody = from, body
	return s.inboundReply
}

func (s *stubMeetings) ListMeetings(_ context.Context, limit, offset int) ([]entities.Meeting, int64, error) {
	return s.listed, int64(len(s.listed)), s.listErr
}

func (s *stubMeetings) GetMeeting(_ context.Context, id int64) (*meeting.Detail, error) {
	if s.detail == nil || s.detail.Meeting.ID != id {
		return nil, entities.ErrMeetingNotFound
	}
	return s.detail, nil
}

func (s *stubMeetings) ListMissingBot(_ context.Context, limit int) ([]entities.Meeting, error) {
	return s.listed, s.listErr
}

type stubSurveys struct {
	survey.Service
	synced []surveyapi.Response
	seen   map[string]bool
	err    error
}

func (s *stubSurveys) Sync(_ context.Context, r surveyapi.Response) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if r.ID == "" || r.ParticipantEmail == "" {
		return false, survey.ErrIncompleteResponse
	}
	if s.seen[string(r.ID)] {
		return false, nil
	}
	s.synced = append(s.synced, r)
	return true, nil
}

type stubCoaching struct {
	ingestRes *coaching.IngestResult
	ingestErr error
	report    entities.SalesCoaching
	coachErr  error
	requests  []coaching.Request
}

func (s *stubCoaching) IngestRaw(_ context.Context, raw string) (*coaching.IngestResult, error) {
	return s.ingestRes, s.ingestErr
}

func (s *stubCoaching) Coach(_ context.Context, req coaching.Request) (entities.SalesCoaching, error) {
	s.requests = append(s.requests, req)
	if strings.TrimSpace(req.SessionID) == "" || strings.TrimSpace(req.Transcript) == "" {
		return entities.SalesCoaching{}, coaching.ErrMissingSession
	}
	return s.report, s.coachErr
}

type stubUsers struct {
	inputs []user.RegisterInput
	err    error
}

func (s *stubUsers) Register(_ context.Context, in user.RegisterInput) (*entities.User, error) {
	s.inputs = append(s.inputs, in)
	if s.err != nil {
		return nil, s.err
	}
	return &entities.User{Name: in.Name, Email: in.Email, Phone: in.Phone, Timezone: "UTC"}, nil
}

type testServer struct {
	e        *echo.Echo
	meetings *stubMeetings
	surveys  *stubSurveys
	coach    *stubCoaching
	users    *stubUsers
	tokens   *jwt.Manager
	pingErr  error
}

const testAuthToken = "twilio-secret"

func newTestServer(t *testing.T, signature InboundSignature) *testServer {
	t.Helper()
	ts := &testServer{
		e:        echo.New(),
		meetings: &stubMeetings{},
		surveys:  &stubSurveys{seen: map[string]bool{}},
		coach:    &stubCoaching{},
		users:    &stubUsers{},
		tokens:   jwt.NewManager("admin-secret", time.Hour),
	}
	ts.e.Validator = pkgvalidator.New()

	cfg := &config.Config{Server: config.ServerConfig{Environment: "test"}}
	router := NewRouter(
		cfg,
		NewWebhookHandler(ts.meetings, ts.surveys, signature, nil),
		NewCoachingHandler(ts.coach, nil),
		NewRegistrationHandler(ts.users, "America/New_York", nil),
		NewAdminHandler(ts.meetings, nil),
		middleware.EchoAdminAuth(ts.tokens, jwt.ScopeMeetingsRead),
		func(context.Context) error { return ts.pingErr },
	)
	router.Setup(ts.e)
	return ts
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCalendarWebhook(t *testing.T) {
	t.Run("unparseable body", func(t *testing.T) {
		ts := newTestServer(t, InboundSignature{})
		for _, body := range []string{"", "not json", "[]", "{}"} {
			rec := ts.do(jsonRequest(http.MethodPost, "/outlook-webhook", body))
			assert.Equal(t, http.StatusBadRequest, rec.Code, body)
			assert.Equal(t, "No data", decode(t, rec)["error"])
		}
		assert.Empty(t, ts.meetings.calendarCalls)
	})

	t.Run("processed event", func(t *testing.T) {
		ts := newTestServer(t, InboundSignature{})
		ts.meetings.calendarResult = meeting.IngestResult{Status: meeting.StatusSuccess, MeetingID: 12, Outcome: "new"}

		rec := ts.do(jsonRequest(http.MethodPost, "/outlook-webhook", `{"id":"evt-1","subject":"Demo"}`))

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "success", body["status"])
		assert.Equal(t, float64(12), body["meeting_id"])
		assert.Equal(t, "new", body["outcome"])
		require.Len(t, ts.meetings.calendarCalls, 1)
		assert.Equal(t, "evt-1", ts.meetings.calendarCalls[0]["id"])
	})

	t.Run("string encoded payload", func(t *testing.T) {
		ts := newTestServer(t, InboundSignature{})
		ts.meetings.calendarResult = meeting.IngestResult{Status: meeting.StatusIgnored, Message: "Missing organizer email"}

		rec := ts.do(jsonRequest(http.MethodPost, "/outlook-webhook", `"{\"id\":\"evt-2\"}"`))

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "ignored", body["status"])
		assert.Equal(t, "Missing organizer email", body["message"])
		assert.NotContains(t, body, "meeting_id")
	})
}

func TestTranscriptWebhook(t *testing.T) {
	t.Run("missing fields are ignored", func(t *testing.T) {
		ts := newTestServer(t, InboundSignature{})
		rec := ts.do(jsonRequest(http.MethodPost, "/readai-webhook", `{"meeting_title":"Demo"}`))

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "ignored", body["status"])
		assert.Equal(t, meeting.MissingTranscriptFields, body["message"])
		assert.Empty(t, ts.meetings.transcriptCalls)
	})

	t.Run("skipped carries reason", func(t *testing.T) {
		ts := newTestServer(t, InboundSignature{})
		ts.meetings.transcriptResult = meeting.TranscriptResult{Status: meeting.TranscriptSkipped, Message: "No meeting found"}

		rec := ts.do(jsonRequest(http.MethodPost, "/readai-webhook",
			`{"meeting_title":"Demo","meeting_time":"2026-01-01T10:00:00Z","transcript_url":"https://t/1"}`))

		body := decode(t, rec)
		assert.Equal(t, "skipped", body["status"])
		assert.Equal(t, "No meeting found", body["reason"])
		assert.NotContains(t, body, "message")
		require.Len(t, ts.meetings.transcriptCalls, 1)
		assert.Equal(t, entities.TranscriptSourceReadAI, ts.meetings.transcriptCalls[0].Source)
	})

	t.Run("processed", func(t *testing.T) {
		ts := newTestServer(t, InboundSignature{})
		ts.meetings.transcriptResult = meeting.TranscriptResult{Status: meeting.TranscriptProcessed, MeetingID: 4}

		rec := ts.do(jsonRequest(http.MethodPost, "/readai-webhook",
			`{"meeting_title":"Demo","meeting_time":"2026-01-01T10:00:00Z","transcript_url":"https://t/1","source":"zoom"}`))

		body := decode(t, rec)
		assert.Equal(t, "processed", body["status"])
		assert.Equal(t, float64(4), body["meeting_id"])
		assert.Equal(t, meeting.TranscriptReady{
			Title: "Demo", Time: "2026-01-01T10:00:00Z", URL: "https://t/1", Source: "zoom",
		}, ts.meetings.transcriptCalls[0])
	})
}

func TestSummaryWebhook(t *testing.T) {
	ts := newTestServer(t, InboundSignature{})
	ts.meetings.summaryErr = errors.New("no meeting")

	for _, body := range []string{
		`{"meeting":{"start_time":"2026-01-01T10:00:00Z"},"summary":"Great call","report_url":"https://r/1"}`,
		`{"meeting":{"start_time":"2026-01-01T10:00:00Z"},"summary":{"text":"Great call"},"report_url":"https://r/1"}`,
	} {
		rec := ts.do(jsonRequest(http.MethodPost, "/read-ai-webhook", body))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "received", decode(t, rec)["status"])
	}

	require.Len(t, ts.meetings.summaryCalls, 2)
	for _, call := range ts.meetings.summaryCalls {
		assert.Equal(t, meeting.SummaryReady{
			StartTime: "2026-01-01T10:00:00Z", Summary: "Great call", ReportURL: "https://r/1",
		}, call)
	}

	rec := ts.do(jsonRequest(http.MethodPost, "/read-ai-webhook", `{"summary":42}`))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "received", decode(t, rec)["status"])
}

func TestInboundWebhook(t *testing.T) {
	form := url.Values{"From": {"whatsapp:+15550001111"}, "Body": {"done"}}

	t.Run("replies with escaped TwiML", func(t *testing.T) {
		ts := newTestServer(t, InboundSignature{})
		ts.meetings.inboundReply = "Thanks & noted <3"

		rec := ts.do(formRequest("/whatsapp-webhook", form))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "xml")
		assert.Contains(t, rec.Body.String(), "<Response><Message>Thanks &amp; noted &lt;3</Message></Response>")
		assert.Equal(t, "whatsapp:+15550001111", ts.meetings.inboundFrom)
		assert.Equal(t, "done", ts.meetings.inboundBody)
	})

	t.Run("rejects a bad signature", func(t *testing.T) {
		ts := newTestServer(t, InboundSignature{Enabled: true, AuthToken: testAuthToken, WebhookURL: "https://hooks.example.com/whatsapp-webhook"})

		req := formRequest("/whatsapp-webhook", form)
		req.Header.Set("X-Twilio-Signature", "bogus")
		rec := ts.do(req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, ts.meetings.inboundFrom)
	})

	t.Run("accepts a valid signature", func(t *testing.T) {
		hook := "https://hooks.example.com/whatsapp-webhook"
		ts := newTestServer(t, InboundSignature{Enabled: true, AuthToken: testAuthToken, WebhookURL: hook})
		ts.meetings.inboundReply = "ok"

		req := formRequest("/whatsapp-webhook", form)
		req.Header.Set("X-Twilio-Signature", ai.TwilioSignature(testAuthToken, hook, form))
		rec := ts.do(req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "<Message>ok</Message>")
	})
}

func TestSurveyWebhook(t *testing.T) {
	ts := newTestServer(t, InboundSignature{})
	ts.surveys.seen["s-dup"] = true

	cases := []struct {
		name, body, status string
	}{
		{"nested response", `{"survey_response":{"id":"s-1","participant_email":"a@b.com","meeting_title":"Demo"}}`, "synced"},
		{"flat response", `{"id":42,"participant_email":"c@d.com"}`, "synced"},
		{"already synced", `{"id":"s-dup","participant_email":"a@b.com"}`, "duplicate"},
		{"missing email", `{"id":"s-2"}`, "ignored"},
		{"garbage", `nope`, "ignored"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := ts.do(jsonRequest(http.MethodPost, "/survey-webhook", tc.body))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.status, decode(t, rec)["status"])
		})
	}

	require.Len(t, ts.surveys.synced, 2)
	assert.Equal(t, "Demo", ts.surveys.synced[0].MeetingTitle)
	assert.Equal(t, surveyapi.FlexString("42"), ts.surveys.synced[1].ID)

	ts.surveys.err = errors.New("crm down")
	rec := ts.do(jsonRequest(http.MethodPost, "/survey-webhook", `{"id":"s-3","participant_email":"a@b.com"}`))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "error", decode(t, rec)["status"])
}

func TestIngestRawMeeting(t *testing.T) {
	t.Run("missing raw text", func(t *testing.T) {
		ts := newTestServer(t, InboundSignature{})
		rec := ts.do(jsonRequest(http.MethodPost, "/api/ingest-raw-meeting", `{"raw_text":"  "}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Missing raw_text field", decode(t, rec)["error"])
	})

	t.Run("no session id", func(t *testing.T) {
		ts := newTestServer(t, InboundSignature{})
		ts.coach.ingestErr = coaching.ErrNoSessionID
		rec := ts.do(jsonRequest(http.MethodPost, "/api/ingest-raw-meeting", `{"raw_text":"hello"}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Could not extract session_id", decode(t, rec)["error"])
	})

	t.Run("success", func(t *testing.T) {
		ts := newTestServer(t, InboundSignature{})
		ts.coach.ingestRes = &coaching.IngestResult{SessionID: "sess-1", Notified: true, SummaryLength: 10, TranscriptLength: 120}

		rec := ts.do(jsonRequest(http.MethodPost, "/api/ingest-raw-meeting", `{"raw_text":"session_id: sess-1"}`))

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "success", body["status"])
		assert.Equal(t, "sess-1", body["session_id"])
		assert.Equal(t, true, body["notified"])
		assert.Equal(t, map[string]any{"summary_length": float64(10), "transcript_length": float64(120)}, body["extracted_data"])
	})

	t.Run("coaching failure", func(t *testing.T) {
		ts := newTestServer(t, InboundSignature{})
		ts.coach.ingestErr = errors.New("db down")
		rec := ts.do(jsonRequest(http.MethodPost, "/api/ingest-raw-meeting", `{"raw_text":"x"}`))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, float64(apperrors.ErrorCode_PROCESSING_FAILED), body["code"])
		assert.Equal(t, "db down", body["info"])
	})
}

func TestPostMeetingCoaching(t *testing.T) {
	ts := newTestServer(t, InboundSignature{})
	ts.coach.report = entities.SalesCoaching{Strengths: []string{"Clear agenda"}}

	rec := ts.do(jsonRequest(http.MethodPost, "/api/post-meeting-coaching", `not json`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No data", decode(t, rec)["error"])

	rec = ts.do(jsonRequest(http.MethodPost, "/api/post-meeting-coaching", `{"session_id":"s-1"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing session_id or transcript", decode(t, rec)["error"])

	rec = ts.do(jsonRequest(http.MethodPost, "/api/post-meeting-coaching",
		`{"session_id":"s-1","transcript":"A: hi","title":"Intro"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "s-1", body["session_id"])
	assert.Contains(t, rec.Body.String(), "Clear agenda")
	assert.Equal(t, "Intro", ts.coach.requests[len(ts.coach.requests)-1].Title)

	ts.coach.coachErr = errors.New("ai unavailable")
	rec = ts.do(jsonRequest(http.MethodPost, "/api/post-meeting-coaching",
		`{"session_id":"s-2","transcript":"A: hi"}`))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, float64(apperrors.ErrorCode_PROCESSING_FAILED), body["code"])
	assert.Equal(t, map[string]any{"session_id": "s-2"}, body["details"])
}

func TestRegistration(t *testing.T) {
	ts := newTestServer(t, InboundSignature{})

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/setup", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<form action="/register" method="post"`)
	assert.Contains(t, rec.Body.String(), "America/New_York")

	rec = ts.do(formRequest("/register", url.Values{
		"name": {"Jane"}, "email": {"jane@acme.com"}, "phone": {"+1 555 000 1111"}, "timezone": {"Europe/Paris"},
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Success!</h1><p>Jane is registered. Check WhatsApp for confirmation.</p>")
	assert.Equal(t, user.RegisterInput{Name: "Jane", Email: "jane@acme.com", Phone: "+1 555 000 1111", Timezone: "Europe/Paris"}, ts.users.inputs[0])

	ts.users.err = entities.ErrInvalidPhone
	rec = ts.do(formRequest("/register", url.Values{"name": {"Jane"}, "email": {"jane@acme.com"}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid phone")

	ts.users.err = errors.New("db down")
	rec = ts.do(formRequest("/register", url.Values{"name": {"Jane"}}))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAdminMeetings(t *testing.T) {
	ts := newTestServer(t, InboundSignature{})
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	token := "tok"
	ts.meetings.listed = []entities.Meeting{
		{ID: 1, Title: "Demo", Status: entities.MeetingStatusScheduled, StartTime: &start, OnlineMeetingURL: "https://zoom/1"},
		{ID: 2, Title: "Review", Status: entities.MeetingStatusCompleted, AuxMeetingToken: &token, OutlookEventID: entities.SyntheticIDPrefix + "abc"},
	}
	ts.meetings.detail = &meeting.Detail{
		Meeting:    &ts.meetings.listed[0],
		Transcript: []entities.TranscriptLine{{Speaker: "Jane", Text: "Hello"}},
	}

	authed := func(target string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		bearer, err := ts.tokens.GenerateToken("ops", jwt.ScopeMeetingsRead)
		require.NoError(t, err)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
		return req
	}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/v1/admin/meetings", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, float64(apperrors.ErrorCode_UNAUTHENTICATED), decode(t, rec)["code"])

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/meetings", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-jwt")
	rec = ts.do(req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, float64(apperrors.ErrorCode_AUTH_INVALID_TOKEN), decode(t, rec)["code"])

	unscoped, err := ts.tokens.GenerateToken("ops")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/v1/admin/meetings", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+unscoped)
	rec = ts.do(req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, float64(apperrors.ErrorCode_AUTH_PERMISSION_DENIED), decode(t, rec)["code"])

	rec = ts.do(authed("/v1/admin/meetings?limit=10"))
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, float64(2), data["total"])
	assert.Equal(t, float64(10), data["limit"])
	meetings := data["meetings"].([]any)
	require.Len(t, meetings, 2)
	assert.Equal(t, false, meetings[0].(map[string]any)["bot_scheduled"])
	assert.Equal(t, true, meetings[1].(map[string]any)["bot_scheduled"])
	assert.Equal(t, false, meetings[0].(map[string]any)["synthetic_id"])
	assert.Equal(t, true, meetings[1].(map[string]any)["synthetic_id"])

	rec = ts.do(authed("/v1/admin/meetings?limit=500"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(authed("/v1/admin/meetings/1"))
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "Demo", detail["title"])
	assert.Len(t, detail["transcript"], 1)

	rec = ts.do(authed("/v1/admin/meetings/99"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(authed("/v1/admin/meetings/abc"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(authed("/v1/admin/meetings/missing-bot"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["data"], 2)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, InboundSignature{})

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["environment"])

	ts.pingErr = errors.New("connection refused")
	rec = ts.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, float64(apperrors.ErrorCode_DB_CONNECTION_FAILED), body["code"])
	assert.Equal(t, "connection refused", body["info"])
	assert.Equal(t, map[string]any{"database": "down", "environment": "test"}, body["details"])
}
