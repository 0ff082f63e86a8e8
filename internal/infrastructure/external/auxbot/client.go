// Package auxbot talks to the transcription bot service that joins online
// meetings and reports their transcript.
package auxbot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/johnquangdev/coachlink/internal/infrastructure/external/httpclient"
	"github.com/johnquangdev/coachlink/pkg/timeutil"
)

const (
	scheduleTimeout = 15 * time.Second
	statusTimeout   = 10 * time.Second

	// DefaultTitle is used when the bot service reports no title
	DefaultTitle = "Aux Meeting"
)

// ErrRejected is returned when the service answers success=false
var ErrRejected = errors.New("bot service rejected the request")

// doneStatuses are the status strings that mean the transcript is final
var doneStatuses = map[string]struct{}{
	"completed":   {},
	"done":        {},
	"finished":    {},
	"ended":       {},
	"transcribed": {},
	"processed":   {},
}

// BotMeeting is the correlation returned by a successful schedule call
type BotMeeting struct {
	ID    string
	Token string
}

// BotStatus is the polled state of a scheduled bot
type BotStatus struct {
	Status     string
	Title      string
	Transcript string
}

// IsDone reports whether the bot reached a terminal transcript state.
// A non-empty transcript counts as done even when the status string lags.
func (s *BotStatus) IsDone() bool {
	if s == nil {
		return false
	}
	if _, ok := doneStatuses[strings.ToLower(strings.TrimSpace(s.Status))]; ok {
		return true
	}
	return strings.TrimSpace(s.Transcript) != ""
}

// Service schedules bots and polls their status
type Service interface {
	Schedule(ctx context.Context, meetingLink string, startUTC time.Time, title string) (*BotMeeting, error)
	GetStatus(ctx context.Context, token string) (*BotStatus, error)
}

var _ Service = (*Client)(nil)

// Client is the HTTP implementation of Service
type Client struct {
	baseURL string
	http    *http.Client
	retry   httpclient.RetryConfig
}

// NewClient creates a bot service client
func NewClient(baseURL string, httpClient *http.Client, retry httpclient.RetryConfig) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		retry:   retry,
	}
}

type scheduleRequest struct {
	MeetingLink   string `json:"meetingLink"`
	ScheduledTime string `json:"scheduled_time"`
	Title         string `json:"title"`
}

type scheduleResponse struct {
	Success      bool            `json:"success"`
	MeetingID    json.RawMessage `json:"meetingId"`
	MeetingToken string          `json:"meetingToken"`
}

// Schedule asks the bot to join meetingLink at startUTC
func (c *Client) Schedule(ctx context.Context, meetingLink string, startUTC time.Time, title string) (*BotMeeting, error) {
	var resp scheduleResponse
	err := httpclient.Do(ctx, c.http, httpclient.Request{
		Method: http.MethodPost,
		URL:    c.baseURL + "/meetings/schedule",
		Body: scheduleRequest{
			MeetingLink:   meetingLink,
			ScheduledTime: timeutil.FormatBot(startUTC),
			Title:         title,
		},
		Timeout: scheduleTimeout,
		Retry:   c.retry,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule bot: %w", err)
	}
	if !resp.Success || resp.MeetingToken == "" {
		return nil, ErrRejected
	}
	id := strings.Trim(string(resp.MeetingID), `"`)
	if id == "null" {
		id = ""
	}
	return &BotMeeting{ID: id, Token: resp.MeetingToken}, nil
}

type statusResponse struct {
	Success bool `json:"success"`
	Meeting *struct {
		Status     string `json:"status"`
		Title      string `json:"title"`
		Transcript *struct {
			Content string `json:"content"`
		} `json:"transcript"`
	} `json:"meeting"`
}

// GetStatus polls the bot by its token
func (c *Client) GetStatus(ctx context.Context, token string) (*BotStatus, error) {
	var resp statusResponse
	err := httpclient.Do(ctx, c.http, httpclient.Request{
		Method:  http.MethodGet,
		URL:     c.baseURL + "/meetings/schedule/" + url.PathEscape(token),
		Timeout: statusTimeout,
		Retry:   httpclient.NoRetry(),
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to get bot status: %w", err)
	}
	if !resp.Success || resp.Meeting == nil {
		return nil, ErrRejected
	}

	status := &BotStatus{
		Status: resp.Meeting.Status,
		Title:  resp.Meeting.Title,
	}
	if status.Title == "" {
		status.Title = DefaultTitle
	}
	if resp.Meeting.Transcript != nil {
		status.Transcript = resp.Meeting.Transcript.Content
	}
	return status, nil
}
