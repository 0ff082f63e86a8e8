package handler

import (
	"bytes"
	"embed"
	stdErrors "errors"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	coachingDTO "github.com/johnquangdev/coachlink/internal/adapter/dto/coaching"
	"github.com/johnquangdev/coachlink/internal/domain/entities"
	"github.com/johnquangdev/coachlink/internal/usecase/user"
)

//go:embed templates/*
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Registration serves the salesperson setup page and form
type Registration struct {
	users           user.Service
	defaultTimezone string
	logger          *zap.Logger
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(users user.Service, defaultTimezone string, logger *zap.Logger) *Registration {
	if defaultTimezone == "" {
		defaultTimezone = "UTC"
	}
	return &Registration{users: users, defaultTimezone: defaultTimezone, logger: logger}
}

// SetupPage godoc
// @Summary      Registration page
// @Tags         Registration
// @Produce      html
// @Success      200  {string}  string  "HTML form"
// @Router       /setup [get]
func (h *Registration) SetupPage(c echo.Context) error {
	return h.render(c, http.StatusOK, "setup.html", map[string]string{
		"DefaultTimezone": h.defaultTimezone,
	})
}

// Register godoc
// @Summary      Register a salesperson
// @Description  Upserts the salesperson and sends a WhatsApp welcome
// @Tags         Registration
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Param        name      formData  string  true   "Full name"
// @Param        email     formData  string  true   "Calendar email"
// @Param        phone     formData  string  true   "WhatsApp number"
// @Param        timezone  formData  string  false  "IANA timezone"
// @Success      200  {string}  string  "Confirmation"
// @Failure      400  {string}  string  "Error"
// @Router       /register [post]
func (h *Registration) Register(c echo.Context) error {
	var form coachingDTO.RegisterForm
	if err := c.Bind(&form); err != nil {
		return c.String(http.StatusBadRequest, "Error: invalid form")
	}

	u, err := h.users.Register(c.Request().Context(), user.RegisterInput{
		Name:     form.Name,
		Email:    form.Email,
		Phone:    form.Phone,
		Timezone: form.Timezone,
	})
	if err != nil {
		if h.logger != nil {
			h.logger.Error("❌ Registration failed", zap.String("email", form.Email), zap.Error(err))
		}
		if isInvalidRegistration(err) {
			return c.String(http.StatusBadRequest, "Error: "+err.Error())
		}
		return c.String(http.StatusInternalServerError, "Error: registration failed")
	}

	return h.render(c, http.StatusOK, "registered.html", map[string]string{"Name": u.Name})
}

func isInvalidRegistration(err error) bool {
	return stdErrors.Is(err, entities.ErrInvalidName) ||
		stdErrors.Is(err, entities.ErrInvalidEmail) ||
		stdErrors.Is(err, entities.ErrInvalidPhone)
}

func (h *Registration) render(c echo.Context, code int, name string, data any) error {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return HandleError(h.logger, c, err)
	}
	return c.HTML(code, buf.String())
}
