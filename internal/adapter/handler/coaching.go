package handler

import (
	stdErrors "errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/coachlink/errors"
	coachingDTO "github.com/johnquangdev/coachlink/internal/adapter/dto/coaching"
	"github.com/johnquangdev/coachlink/internal/usecase/coaching"
)

// Coaching handles raw meeting ingestion and post-meeting coaching
type Coaching struct {
	coaching coaching.Service
	logger   *zap.Logger
}

// NewCoachingHandler creates a new coaching handler
func NewCoachingHandler(svc coaching.Service, logger *zap.Logger) *Coaching {
	return &Coaching{coaching: svc, logger: logger}
}

// IngestRaw godoc
// @Summary      Ingest a raw meeting dump
// @Description  Extracts session, summary and transcript from unstructured text, coaches on it and notifies the owner
// @Tags         Coaching
// @Accept       json
// @Produce      json
// @Param        request  body      coachingDTO.RawIngestRequest  true  "Raw meeting text"
// @Success      200      {object}  coachingDTO.RawIngestResponse
// @Failure      400      {object}  common.ErrorResponse
// @Failure      500      {object}  map[string]interface{}
// @Router       /api/ingest-raw-meeting [post]
func (h *Coaching) IngestRaw(c echo.Context) error {
	var req coachingDTO.RawIngestRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RawText) == "" {
		return respondBadRequest(c, "Missing raw_text field")
	}

	res, err := h.coaching.IngestRaw(c.Request().Context(), req.RawText)
	switch {
	case stdErrors.Is(err, coaching.ErrMissingRawText):
		return respondBadRequest(c, "Missing raw_text field")
	case stdErrors.Is(err, coaching.ErrNoSessionID):
		return respondBadRequest(c, "Could not extract session_id")
	case err != nil:
		return HandleError(h.logger, c, errors.ErrProcessingFailed(err).WithDetail("stage", "raw_ingest"))
	}

	return c.JSON(http.StatusOK, coachingDTO.RawIngestResponse{
		Status:    "success",
		SessionID: res.SessionID,
		Notified:  res.Notified,
		ExtractedData: coachingDTO.ExtractedData{
			SummaryLength:    res.SummaryLength,
			TranscriptLength: res.TranscriptLength,
		},
	})
}

// PostMeetingCoaching godoc
// @Summary      Post-meeting coaching
// @Description  Stores a session transcript and returns a sales coaching report
// @Tags         Coaching
// @Accept       json
// @Produce      json
// @Param        request  body      coachingDTO.CoachingRequest  true  "Session transcript"
// @Success      200      {object}  coachingDTO.CoachingResponse
// @Failure      400      {object}  common.ErrorResponse
// @Failure      500      {object}  map[string]interface{}
// @Router       /api/post-meeting-coaching [post]
func (h *Coaching) PostMeetingCoaching(c echo.Context) error {
	var req coachingDTO.CoachingRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "No data")
	}

	report, err := h.coaching.Coach(c.Request().Context(), coaching.Request{
		SessionID:  req.SessionID,
		Transcript: req.Transcript,
		Title:      req.Title,
		Source:     req.Source,
	})
	switch {
	case stdErrors.Is(err, coaching.ErrMissingSession):
		return respondBadRequest(c, "Missing session_id or transcript")
	case err != nil:
		return HandleError(h.logger, c, errors.ErrProcessingFailed(err).WithDetail("session_id", req.SessionID))
	}

	return c.JSON(http.StatusOK, coachingDTO.CoachingResponse{
		Success:   true,
		SessionID: strings.TrimSpace(req.SessionID),
		Coaching:  report,
	})
}
