package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/johnquangdev/coachlink/errors"
	"github.com/johnquangdev/coachlink/internal/adapter/dto/admin"
	"github.com/johnquangdev/coachlink/pkg/config"
)

// Pinger reports whether the database answers
type Pinger func(ctx context.Context) error

// Router holds all handlers
type Router struct {
	cfg          *config.Config
	webhook      *Webhook
	coaching     *Coaching
	registration *Registration
	admin        *Admin
	adminAuth    echo.MiddlewareFunc
	ping         Pinger
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	webhook *Webhook,
	coaching *Coaching,
	registration *Registration,
	adminHandler *Admin,
	adminAuth echo.MiddlewareFunc,
	ping Pinger,
) *Router {
	return &Router{
		cfg:          cfg,
		webhook:      webhook,
		coaching:     coaching,
		registration: registration,
		admin:        adminHandler,
		adminAuth:    adminAuth,
		ping:         ping,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.HTTPErrorHandler = ErrorHandler(nil, e.HTTPErrorHandler)

	e.GET("/health", rt.healthCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	rt.setupWebhookRoutes(e)
	rt.setupCoachingRoutes(e)
	rt.setupRegistrationRoutes(e)

	v1 := e.Group("/v1")
	rt.setupAdminRoutes(v1)
}

// setupWebhookRoutes configures the inbound integration callbacks
func (rt *Router) setupWebhookRoutes(e *echo.Echo) {
	if rt.webhook == nil {
		return
	}
	e.POST("/outlook-webhook", rt.webhook.CalendarEvent)
	e.POST("/readai-webhook", rt.webhook.TranscriptReady)
	e.POST("/read-ai-webhook", rt.webhook.SummaryReady)
	e.POST("/whatsapp-webhook", rt.webhook.InboundMessage)
	e.POST("/survey-webhook", rt.webhook.SurveyResponse)
}

// setupCoachingRoutes configures raw ingestion and coaching
func (rt *Router) setupCoachingRoutes(e *echo.Echo) {
	if rt.coaching == nil {
		return
	}
	api := e.Group("/api")
	api.POST("/ingest-raw-meeting", rt.coaching.IngestRaw)
	api.POST("/post-meeting-coaching", rt.coaching.PostMeetingCoaching)
}

// setupRegistrationRoutes configures the salesperson setup form
func (rt *Router) setupRegistrationRoutes(e *echo.Echo) {
	if rt.registration == nil {
		return
	}
	e.GET("/setup", rt.registration.SetupPage)
	e.POST("/register", rt.registration.Register)
}

// setupAdminRoutes configures operator routes
func (rt *Router) setupAdminRoutes(g *echo.Group) {
	if rt.admin == nil {
		return
	}
	var mw []echo.MiddlewareFunc
	if rt.adminAuth != nil {
		mw = append(mw, rt.adminAuth)
	}
	adminGroup := g.Group("/admin", mw...)
	adminGroup.GET("/meetings", rt.admin.ListMeetings)
	adminGroup.GET("/meetings/missing-bot", rt.admin.ListMissingBot)
	adminGroup.GET("/meetings/:id", rt.admin.GetMeeting)
}

// healthCheck godoc
// @Summary      Health check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  admin.HealthResponse
// @Failure      503  {object}  map[string]interface{}
// @Router       /health [get]
func (rt *Router) healthCheck(c echo.Context) error {
	resp := admin.HealthResponse{
		Status:   "ok",
		Database: "up",
		Time:     time.Now().UTC().Format(time.RFC3339),
	}
	if rt.cfg != nil {
		resp.Environment = rt.cfg.Server.Environment
	}
	if rt.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
		defer cancel()
		if err := rt.ping(ctx); err != nil {
			return HandleError(nil, c, errors.ErrDBConnectionFailed(err).
				WithDetail("database", "down").
				WithDetail("environment", resp.Environment))
		}
	}
	return c.JSON(http.StatusOK, resp)
}
