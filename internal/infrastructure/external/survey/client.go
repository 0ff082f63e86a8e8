// Package survey talks to the client survey service.
package survey

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/johnquangdev/coachlink/internal/infrastructure/external/httpclient"
)

const requestTimeout = 10 * time.Second

// TriggerPayload asks the survey service to send the survey link
type TriggerPayload struct {
	MeetingID        int64  `json:"meeting_id"`
	Title            string `json:"title"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	ClientEmail      string `json:"client_email"`
	ClientName       string `json:"client_name"`
	OrganizerEmail   string `json:"organizer_email"`
	SalespersonPhone string `json:"salesperson_phone"`
}

// Response is one completed survey
type Response struct {
	ID                     FlexString `json:"id"`
	ParticipantEmail       string     `json:"participant_email"`
	ParticipantName        string     `json:"participant_name"`
	MeetingTitle           string     `json:"meeting_title"`
	MeetingID              FlexString `json:"meeting_id"`
	SubmittedAt            string     `json:"submitted_at"`
	Punctuality            Rating     `json:"punctuality"`
	ListeningUnderstanding Rating     `json:"listening_understanding"`
	KnowledgeExpertise     Rating     `json:"knowledge_expertise"`
	ClarityAnswers         Rating     `json:"clarity_answers"`
	OverallValue           Rating     `json:"overall_value"`
	MostValuable           string     `json:"most_valuable"`
	Improvements           string     `json:"improvements"`
}

type listResponse struct {
	Results []Response `json:"results"`
}

// Service triggers surveys and lists completed responses
type Service interface {
	Trigger(ctx context.Context, payload TriggerPayload) error
	ListRecent(ctx context.Context, limit int) ([]Response, error)
}

var _ Service = (*Client)(nil)

// Client is the HTTP implementation of Service
type Client struct {
	url   string
	http  *http.Client
	retry httpclient.RetryConfig
}

// NewClient creates a survey client for the given endpoint
func NewClient(endpoint string, httpClient *http.Client, retry httpclient.RetryConfig) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{url: endpoint, http: httpClient, retry: retry}
}

// Trigger posts the meeting data to the survey service
func (c *Client) Trigger(ctx context.Context, payload TriggerPayload) error {
	err := httpclient.Do(ctx, c.http, httpclient.Request{
		Method:  http.MethodPost,
		URL:     c.url,
		Body:    payload,
		Timeout: requestTimeout,
		Retry:   c.retry,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to trigger survey: %w", err)
	}
	return nil
}

// ListRecent fetches the latest survey responses
func (c *Client) ListRecent(ctx context.Context, limit int) ([]Response, error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return nil, fmt.Errorf("invalid survey url: %w", err)
	}
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	var resp listResponse
	err = httpclient.Do(ctx, c.http, httpclient.Request{
		Method:  http.MethodGet,
		URL:     u.String(),
		Timeout: requestTimeout,
		Retry:   c.retry,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to list surveys: %w", err)
	}
	return resp.Results, nil
}

// FlexString accepts a JSON string or number
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = ""
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	*f = FlexString(strings.TrimSpace(s))
	return nil
}

// Rating is a 0..5 score sent as a number, a numeric string or null
type Rating int

// UnmarshalJSON implements json.Unmarshaler
func (r *Rating) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	if s == "" || s == "null" {
		*r = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*r = 0
		return nil
	}
	*r = Rating(int(f))
	return nil
}
