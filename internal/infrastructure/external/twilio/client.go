// Package twilio sends WhatsApp messages through the Twilio REST API.
package twilio

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/johnquangdev/coachlink/internal/infrastructure/external/httpclient"
	"github.com/johnquangdev/coachlink/pkg/config"
	"github.com/johnquangdev/coachlink/pkg/phone"
)

const requestTimeout = 15 * time.Second

var (
	// ErrNotConfigured is returned when credentials or the sender are missing
	ErrNotConfigured = errors.New("twilio credentials missing")
	// ErrNoTemplate is returned for a template send without TWILIO_TEMPLATE_SID
	ErrNoTemplate = errors.New("twilio template sid not set")
	// ErrEmptyMessage is returned when neither body nor template vars are given
	ErrEmptyMessage = errors.New("message has no body or template variables")
	// ErrNoRecipient is returned for an empty destination
	ErrNoRecipient = errors.New("message has no recipient")
)

// Message is either a freeform body or a content template with variables.
// Template sends never fall back to the body.
type Message struct {
	Body         string
	TemplateVars map[string]string
}

// IsTemplate reports whether the message goes out as a content template
func (m Message) IsTemplate() bool {
	return len(m.TemplateVars) > 0
}

// Sender delivers chat messages
type Sender interface {
	Send(ctx context.Context, to string, msg Message) (string, error)
}

var _ Sender = (*Client)(nil)

// Client implements Sender
type Client struct {
	accountSID  string
	authToken   string
	from        string
	templateSID string
	baseURL     string
	http        *http.Client
	retry       httpclient.RetryConfig
}

// NewClient creates a Twilio client
func NewClient(cfg config.TwilioConfig, httpClient *http.Client, retry httpclient.RetryConfig) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	base := cfg.APIURL
	if base == "" {
		base = "https://api.twilio.com"
	}
	return &Client{
		accountSID:  cfg.AccountSID,
		authToken:   cfg.AuthToken,
		from:        cfg.WhatsAppFrom,
		templateSID: cfg.TemplateSID,
		baseURL:     strings.TrimRight(base, "/"),
		http:        httpClient,
		retry:       retry,
	}
}

type messageResponse struct {
	SID string `json:"sid"`
}

// Send posts the message and returns the Twilio message sid
func (c *Client) Send(ctx context.Context, to string, msg Message) (string, error) {
	if c.accountSID == "" || c.authToken == "" || c.from == "" {
		return "", ErrNotConfigured
	}
	if strings.TrimSpace(to) == "" {
		return "", ErrNoRecipient
	}

	form := map[string]string{
		"From": withPrefix(c.from),
		"To":   withPrefix(to),
	}
	switch {
	case msg.IsTemplate():
		if c.templateSID == "" {
			return "", ErrNoTemplate
		}
		vars, err := json.Marshal(msg.TemplateVars)
		if err != nil {
			return "", fmt.Errorf("failed to encode template variables: %w", err)
		}
		form["ContentSid"] = c.templateSID
		form["ContentVariables"] = string(vars)
	case msg.Body != "":
		form["Body"] = msg.Body
	default:
		return "", ErrEmptyMessage
	}

	var resp messageResponse
	err := httpclient.Do(ctx, c.http, httpclient.Request{
		Method:  http.MethodPost,
		URL:     fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, url.PathEscape(c.accountSID)),
		Form:    form,
		Header:  http.Header{"Authorization": []string{"Basic " + basicAuth(c.accountSID, c.authToken)}},
		Timeout: requestTimeout,
		Retry:   c.retry,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("failed to send whatsapp message: %w", err)
	}
	return resp.SID, nil
}

func withPrefix(number string) string {
	if strings.HasPrefix(number, phone.WhatsAppPrefix) {
		return number
	}
	return phone.WhatsAppPrefix + number
}

func basicAuth(user, pass string) string {
	return base64.StdEncoding.EncodeToString([]byte(user + ":" + pass))
}
