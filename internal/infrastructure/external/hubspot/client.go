// Package hubspot is a small CRM client covering contacts and tickets.
package hubspot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/johnquangdev/coachlink/internal/infrastructure/external/httpclient"
)

const (
	requestTimeout = 15 * time.Second

	// ticketToContactAssociation is the HUBSPOT_DEFINED ticket -> contact type
	ticketToContactAssociation = 16
)

// ErrDisabled is returned when no access token is configured
var ErrDisabled = errors.New("hubspot not configured")

// Priority is a ticket priority
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// ContactDetailProperties are fetched for AI context
var ContactDetailProperties = []string{
	"jobtitle",
	"mobilephone",
	"lifecyclestage",
	"notes_last_updated",
	"industry",
	"company",
	"total_revenue",
}

// CRM is the contract the reconciliation engine uses
type CRM interface {
	Enabled() bool
	SearchContactByEmail(ctx context.Context, email string) (string, error)
	FindOrCreateContact(ctx context.Context, email, name, phone string) (string, error)
	GetContactDetails(ctx context.Context, contactID string) (map[string]string, error)
	CreateTicket(ctx context.Context, contactID, subject, content string, priority Priority) (string, error)
}

var _ CRM = (*Client)(nil)

// Client implements CRM over the HubSpot REST API
type Client struct {
	baseURL string
	http    *http.Client
	enabled bool
	retry   httpclient.RetryConfig
}

// NewClient creates a client authenticated with a private-app access token
func NewClient(baseURL, accessToken string, retry httpclient.RetryConfig) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	hc := oauth2.NewClient(context.Background(), ts)
	hc.Timeout = requestTimeout
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		enabled: accessToken != "",
		retry:   retry,
	}
}

// Enabled reports whether an access token is configured
func (c *Client) Enabled() bool {
	return c != nil && c.enabled
}

type searchFilter struct {
	PropertyName string `json:"propertyName"`
	Operator     string `json:"operator"`
	Value        string `json:"value"`
}

type searchRequest struct {
	FilterGroups []struct {
		Filters []searchFilter `json:"filters"`
	} `json:"filterGroups"`
	Limit int `json:"limit"`
}

type object struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

type searchResponse struct {
	Results []object `json:"results"`
}

// SearchContactByEmail returns the contact id for email, or "" when none exists
func (c *Client) SearchContactByEmail(ctx context.Context, email string) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}
	if email == "" {
		return "", nil
	}

	req := searchRequest{Limit: 1}
	req.FilterGroups = append(req.FilterGroups, struct {
		Filters []searchFilter `json:"filters"`
	}{Filters: []searchFilter{{PropertyName: "email", Operator: "EQ", Value: email}}})

	var resp searchResponse
	err := httpclient.Do(ctx, c.http, httpclient.Request{
		Method:     http.MethodPost,
		URL:        c.baseURL + "/crm/v3/objects/contacts/search",
		Body:       req,
		Retry:      c.retry,
		Idempotent: true,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("failed to search contact: %w", err)
	}
	if len(resp.Results) == 0 {
		return "", nil
	}
	return resp.Results[0].ID, nil
}

// FindOrCreateContact returns the existing contact id or creates the contact
func (c *Client) FindOrCreateContact(ctx context.Context, email, name, phone string) (string, error) {
	id, err := c.SearchContactByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}

	first, last := SplitName(name)
	body := map[string]interface{}{
		"properties": map[string]string{
			"email":     email,
			"firstname": first,
			"lastname":  last,
			"phone":     phone,
		},
	}
	var created object
	if err := c.do(ctx, http.MethodPost, "/crm/v3/objects/contacts", body, &created); err != nil {
		return "", fmt.Errorf("failed to create contact: %w", err)
	}
	return created.ID, nil
}

// GetContactDetails fetches the properties used as meeting context
func (c *Client) GetContactDetails(ctx context.Context, contactID string) (map[string]string, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	q := url.Values{}
	q.Set("properties", strings.Join(ContactDetailProperties, ","))

	var obj object
	path := "/crm/v3/objects/contacts/" + url.PathEscape(contactID) + "?" + q.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &obj); err != nil {
		return nil, fmt.Errorf("failed to get contact details: %w", err)
	}
	return obj.Properties, nil
}

// CreateTicket creates a ticket associated with the contact
func (c *Client) CreateTicket(ctx context.Context, contactID, subject, content string, priority Priority) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}
	if contactID == "" {
		return "", errors.New("contact id is required")
	}
	if priority == "" {
		priority = PriorityLow
	}

	body := map[string]interface{}{
		"properties": map[string]string{
			"subject":            subject,
			"content":            content,
			"hs_pipeline":        "0",
			"hs_pipeline_stage":  "1",
			"hs_ticket_priority": string(priority),
		},
		"associations": []map[string]interface{}{
			{
				"to": map[string]string{"id": contactID},
				"types": []map[string]interface{}{
					{"associationCategory": "HUBSPOT_DEFINED", "associationTypeId": ticketToContactAssociation},
				},
			},
		},
	}
	var created object
	if err := c.do(ctx, http.MethodPost, "/crm/v3/objects/tickets", body, &created); err != nil {
		return "", fmt.Errorf("failed to create ticket: %w", err)
	}
	return created.ID, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	return httpclient.Do(ctx, c.http, httpclient.Request{
		Method: method,
		URL:    c.baseURL + path,
		Body:   body,
		Retry:  c.retry,
	}, out)
}

// SplitName splits "First Rest Of Name" into first and last name
func SplitName(name string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(name), " ", 2)
	if len(parts) == 0 || parts[0] == "" {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}
