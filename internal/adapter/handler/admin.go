package handler

import (
	stdErrors "errors"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/coachlink/errors"
	"github.com/johnquangdev/coachlink/internal/adapter/dto/admin"
	"github.com/johnquangdev/coachlink/internal/adapter/presenter"
	"github.com/johnquangdev/coachlink/internal/domain/entities"
	"github.com/johnquangdev/coachlink/internal/usecase/meeting"
)

// Admin exposes read-only meeting inspection for operators
type Admin struct {
	meetings meeting.Service
	logger   *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(meetings meeting.Service, logger *zap.Logger) *Admin {
	return &Admin{meetings: meetings, logger: logger}
}

// ListMeetings godoc
// @Summary      List meetings
// @Description  Lists meetings, most recent start first
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size"  default(50)
// @Param        offset  query     int  false  "Offset"     default(0)
// @Success      200     {object}  admin.MeetingListResponse
// @Failure      400     {object}  map[string]interface{}
// @Failure      401     {object}  map[string]interface{}
// @Router       /v1/admin/meetings [get]
func (h *Admin) ListMeetings(c echo.Context) error {
	req := admin.ListMeetingsRequest{
		Limit:  GetQueryInt(c, "limit", 50),
		Offset: GetQueryInt(c, "offset", 0),
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	items, total, err := h.meetings.ListMeetings(c.Request().Context(), req.Limit, req.Offset)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	return HandleSuccess(h.logger, c, presenter.ToMeetingListResponse(items, total, req.Limit, req.Offset))
}

// GetMeeting godoc
// @Summary      Get a meeting
// @Description  Returns one meeting with its transcript lines
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Meeting ID"
// @Success      200  {object}  admin.MeetingDetailResponse
// @Failure      404  {object}  map[string]interface{}
// @Router       /v1/admin/meetings/{id} [get]
func (h *Admin) GetMeeting(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting id"))
	}

	detail, err := h.meetings.GetMeeting(c.Request().Context(), id)
	if err != nil {
		if stdErrors.Is(err, entities.ErrMeetingNotFound) {
			return HandleError(h.logger, c, errors.ErrMeetingNotFound(id))
		}
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	return HandleSuccess(h.logger, c, presenter.ToMeetingDetailResponse(detail))
}

// ListMissingBot godoc
// @Summary      Meetings without a bot
// @Description  Lists meetings that have a meeting link but no scheduled bot
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Max rows"  default(50)
// @Success      200    {array}   admin.MeetingResponse
// @Router       /v1/admin/meetings/missing-bot [get]
func (h *Admin) ListMissingBot(c echo.Context) error {
	req := admin.ListMissingBotRequest{Limit: GetQueryInt(c, "limit", 50)}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	items, err := h.meetings.ListMissingBot(c.Request().Context(), req.Limit)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	return HandleSuccess(h.logger, c, presenter.ToMeetingResponses(items))
}
