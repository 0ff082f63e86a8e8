package handler

import (
	"encoding/json"
	stdErrors "errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/coachlink/errors"
	webhookDTO "github.com/johnquangdev/coachlink/internal/adapter/dto/webhook"
	"github.com/johnquangdev/coachlink/internal/domain/entities"
	"github.com/johnquangdev/coachlink/internal/usecase/meeting"
	"github.com/johnquangdev/coachlink/internal/usecase/survey"
	"github.com/johnquangdev/coachlink/pkg/ai"
)

// maxWebhookBody bounds webhook payloads read into memory
const maxWebhookBody = 5 << 20

// InboundSignature configures Twilio signature checks on inbound chat
type InboundSignature struct {
	Enabled    bool
	AuthToken  string
	WebhookURL string
}

// Webhook handles the calendar, transcript, summary, chat and survey callbacks
type Webhook struct {
	meetings  meeting.Service
	surveys   survey.Service
	signature InboundSignature
	logger    *zap.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(meetings meeting.Service, surveys survey.Service, signature InboundSignature, logger *zap.Logger) *Webhook {
	return &Webhook{
		meetings:  meetings,
		surveys:   surveys,
		signature: signature,
		logger:    logger,
	}
}

// CalendarEvent godoc
// @Summary      Calendar webhook
// @Description  Ingests one calendar notification and reconciles it into a meeting
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Param        payload  body      object  true  "Calendar event"
// @Success      200      {object}  webhookDTO.CalendarResponse
// @Failure      400      {object}  common.ErrorResponse
// @Router       /outlook-webhook [post]
func (h *Webhook) CalendarEvent(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return respondBadRequest(c, "No data")
	}
	payload, ok := decodeObject(body)
	if !ok {
		return respondBadRequest(c, "No data")
	}

	res := h.meetings.HandleCalendarEvent(c.Request().Context(), payload)
	if h.logger != nil {
		h.logger.Info("📅 Calendar webhook handled",
			zap.String("status", string(res.Status)),
			zap.Int64("meeting_id", res.MeetingID),
			zap.String("outcome", res.Outcome),
		)
	}

	return c.JSON(http.StatusOK, webhookDTO.CalendarResponse{
		Status:    string(res.Status),
		Message:   res.Message,
		MeetingID: res.MeetingID,
		Outcome:   res.Outcome,
	})
}

// decodeObject accepts a JSON object or a JSON string holding one
func decodeObject(body []byte) (map[string]any, bool) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, false
	}
	if s, ok := v.(string); ok {
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			return nil, false
		}
	}
	obj, ok := v.(map[string]any)
	if !ok || len(obj) == 0 {
		return nil, false
	}
	return obj, true
}

// TranscriptReady godoc
// @Summary      Transcript-ready webhook
// @Description  Matches a finished transcript to a meeting and completes it
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Param        request  body      webhookDTO.TranscriptReadyRequest  true  "Transcript notification"
// @Success      200      {object}  webhookDTO.TranscriptResponse
// @Router       /readai-webhook [post]
func (h *Webhook) TranscriptReady(c echo.Context) error {
	var req webhookDTO.TranscriptReadyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, webhookDTO.TranscriptResponse{
			Status:  meeting.TranscriptIgnored,
			Message: meeting.MissingTranscriptFields,
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusOK, webhookDTO.TranscriptResponse{
			Status:  meeting.TranscriptIgnored,
			Message: meeting.MissingTranscriptFields,
		})
	}
	if req.Source == "" {
		req.Source = entities.TranscriptSourceReadAI
	}

	res := h.meetings.HandleTranscriptReady(c.Request().Context(), meeting.TranscriptReady{
		Title:  req.MeetingTitle,
		Time:   req.MeetingTime,
		URL:    req.TranscriptURL,
		Source: req.Source,
	})

	resp := webhookDTO.TranscriptResponse{Status: res.Status, MeetingID: res.MeetingID}
	if res.Status == meeting.TranscriptSkipped {
		resp.Reason = res.Message
	} else {
		resp.Message = res.Message
	}
	return c.JSON(http.StatusOK, resp)
}

// SummaryReady godoc
// @Summary      Summary webhook
// @Description  Attaches a meeting summary and notifies the salesperson
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Param        request  body      webhookDTO.SummaryRequest  true  "Summary notification"
// @Success      200      {object}  webhookDTO.AckResponse
// @Router       /read-ai-webhook [post]
func (h *Webhook) SummaryReady(c echo.Context) error {
	ack := webhookDTO.AckResponse{Status: "received"}

	var req webhookDTO.SummaryRequest
	if err := c.Bind(&req); err != nil {
		h.warn("summary webhook body rejected", err)
		return c.JSON(http.StatusOK, ack)
	}

	if err := h.meetings.HandleSummary(c.Request().Context(), meeting.SummaryReady{
		StartTime: req.Meeting.StartTime,
		Summary:   string(req.Summary),
		ReportURL: req.ReportURL,
	}); err != nil {
		h.warn("summary not attached", err)
	}
	return c.JSON(http.StatusOK, ack)
}

// InboundMessage godoc
// @Summary      Inbound WhatsApp webhook
// @Description  Handles a salesperson reply and answers with TwiML
// @Tags         Webhooks
// @Accept       x-www-form-urlencoded
// @Produce      xml
// @Param        From  formData  string  true  "Sender"
// @Param        Body  formData  string  false "Message text"
// @Success      200   {object}  webhookDTO.TwiMLResponse
// @Failure      403   {object}  map[string]interface{}
// @Router       /whatsapp-webhook [post]
func (h *Webhook) InboundMessage(c echo.Context) error {
	params, err := c.FormParams()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	if h.signature.Enabled {
		sig := c.Request().Header.Get("X-Twilio-Signature")
		if !ai.VerifyTwilioSignature(h.signature.AuthToken, h.inboundURL(c), params, sig) {
			return HandleError(h.logger, c, errors.ErrInvalidSignature())
		}
	}

	form := webhookDTO.InboundMessageForm{
		From: params.Get("From"),
		Body: params.Get("Body"),
	}
	reply := h.meetings.HandleInbound(c.Request().Context(), form.From, form.Body)
	return c.XML(http.StatusOK, webhookDTO.TwiMLResponse{Message: reply})
}

// inboundURL is the URL Twilio signed for this request
func (h *Webhook) inboundURL(c echo.Context) string {
	if h.signature.WebhookURL != "" {
		return h.signature.WebhookURL
	}
	return c.Scheme() + "://" + c.Request().Host + c.Request().URL.RequestURI()
}

// SurveyResponse godoc
// @Summary      Survey webhook
// @Description  Syncs one completed survey response into the CRM
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Success      200  {object}  webhookDTO.AckResponse
// @Router       /survey-webhook [post]
func (h *Webhook) SurveyResponse(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil || len(strings.TrimSpace(string(body))) == 0 {
		return c.JSON(http.StatusOK, webhookDTO.AckResponse{Status: "ignored"})
	}

	resp, err := survey.DecodeWebhook(body)
	if err != nil {
		h.warn("survey webhook body rejected", err)
		return c.JSON(http.StatusOK, webhookDTO.AckResponse{Status: "ignored"})
	}

	synced, err := h.surveys.Sync(c.Request().Context(), resp)
	switch {
	case stdErrors.Is(err, survey.ErrIncompleteResponse):
		return c.JSON(http.StatusOK, webhookDTO.AckResponse{Status: "ignored"})
	case err != nil:
		h.warn("survey sync failed", err)
		return c.JSON(http.StatusOK, webhookDTO.AckResponse{Status: "error"})
	case !synced:
		return c.JSON(http.StatusOK, webhookDTO.AckResponse{Status: "duplicate"})
	}
	return c.JSON(http.StatusOK, webhookDTO.AckResponse{Status: "synced"})
}

func (h *Webhook) warn(msg string, err error) {
	if h.logger != nil {
		h.logger.Warn(msg, zap.Error(err))
	}
}
