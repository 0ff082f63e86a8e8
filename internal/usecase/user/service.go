// Package user registers salespeople.
package user

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
	"github.com/johnquangdev/coachlink/internal/domain/repositories"
	"github.com/johnquangdev/coachlink/internal/usecase/meeting"
	"github.com/johnquangdev/coachlink/pkg/phone"
)

// RegisterInput is the registration form
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Timezone string
}

// Service manages salesperson accounts
type Service interface {
	// Register creates or refreshes the user and sends the welcome message.
	// A failed welcome does not fail the registration.
	Register(ctx context.Context, in RegisterInput) (*entities.User, error)
}

type userService struct {
	users      repositories.UserRepository
	dispatcher *meeting.Dispatcher
	botEmail   string
	logger     *zap.Logger
}

// NewUserService creates the registration service
func NewUserService(users repositories.UserRepository, dispatcher *meeting.Dispatcher, botEmail string, logger *zap.Logger) Service {
	return &userService{users: users, dispatcher: dispatcher, botEmail: botEmail, logger: logger}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*entities.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, entities.ErrInvalidName
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(in.Email))
	if err != nil {
		return nil, entities.ErrInvalidEmail
	}
	p := phone.Normalize(in.Phone)
	if p == "" {
		return nil, entities.ErrInvalidPhone
	}
	tz := strings.TrimSpace(in.Timezone)
	if _, err := time.LoadLocation(tz); err != nil || tz == "" {
		tz = "UTC"
	}

	u := &entities.User{
		Email:    strings.ToLower(addr.Address),
		Name:     name,
		Phone:    p,
		Timezone: tz,
	}
	if err := s.users.Upsert(ctx, u); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Info("👤 User registered", zap.String("email", u.Email))
	}

	if s.dispatcher != nil {
		if _, _, err := s.dispatcher.Dispatch(ctx, meeting.Notification{
			To:      u.Phone,
			Kind:    meeting.KindWelcome,
			Message: meeting.Message{Body: meeting.WelcomeMessage(u.Name, s.botEmail)},
		}); err != nil && s.logger != nil {
			s.logger.Warn("⚠️ Welcome message failed", zap.String("email", u.Email), zap.Error(err))
		}
	}
	return u, nil
}
