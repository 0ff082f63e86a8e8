package handler

import (
	stdErrors "errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/coachlink/errors"
	"github.com/johnquangdev/coachlink/internal/adapter/dto/common"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

// GetQueryParam returns a query parameter or the default value
func GetQueryParam(c echo.Context, key, defaultValue string) string {
	value := c.QueryParam(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetQueryInt returns an integer query parameter or the default value
func GetQueryInt(c echo.Context, key string, defaultValue int) int {
	n, err := strconv.Atoi(c.QueryParam(key))
	if err != nil {
		return defaultValue
	}
	return n
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(http.StatusOK, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		if logger != nil {
			logger.Error("http.response.error",
				zap.String("request_id", reqID),
				zap.String("path", c.Path()),
				zap.Any("app_code", appErr.Code),
				zap.Error(err),
			)
		}

		info := ""
		if appErr.Raw != nil {
			info = appErr.Raw.Error()
		}

		body := errs{
			Code:    appErr.Code,
			Message: appErr.Message,
			Info:    info,
			Details: appErr.Details,
		}

		return c.JSON(appErr.HTTPCode, body)
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	body := errs{
		Code:    errors.ErrorCode_INTERNAL,
		Message: "Internal server error",
		Info:    err.Error(),
	}

	return c.JSON(http.StatusInternalServerError, body)
}

// ErrorHandler renders AppErrors returned by middleware the same way
// HandleError does and passes anything else to fallback
func ErrorHandler(logger *zap.Logger, fallback echo.HTTPErrorHandler) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var appErr errors.AppError
		if c.Response().Committed || !stdErrors.As(err, &appErr) {
			fallback(err, c)
			return
		}
		if werr := HandleError(logger, c, appErr); werr != nil {
			c.Logger().Error(werr)
		}
	}
}

// respondBadRequest writes the plain {"error": msg} body webhook callers expect
func respondBadRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, common.ErrorResponse{Error: msg})
}
