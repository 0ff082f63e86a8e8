package entities

import "errors"

// Domain errors
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidEmail = errors.New("invalid email")
	ErrInvalidName  = errors.New("invalid name")
	ErrInvalidPhone = errors.New("invalid phone")

	// Client errors
	ErrClientNotFound      = errors.New("client not found")
	ErrClientAlreadyExists = errors.New("client already exists")

	// Meeting errors
	ErrMeetingNotFound      = errors.New("meeting not found")
	ErrMeetingAlreadyExists = errors.New("meeting already exists")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrBotTokenAlreadySet   = errors.New("bot token already set")

	// Coaching session errors
	ErrCoachingSessionNotFound = errors.New("coaching session not found")

	// Generic errors
	ErrInvalidRequest = errors.New("invalid request")
)
