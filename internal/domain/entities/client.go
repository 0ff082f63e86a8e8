package entities

import (
	"strings"
	"time"
)

// Placeholder values produced by the normalizer when a payload omits a field.
// A stored value is never replaced by one of these.
const (
	PlaceholderClientName = "Valued Client"
	PlaceholderCompany    = "Their Company"
	PlaceholderLocation   = "Unknown"
)

// Client is the external participant of a meeting, keyed by email.
type Client struct {
	ID               int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Email            string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name             string    `json:"name" gorm:"type:varchar(255)"`
	Company          string    `json:"company" gorm:"type:varchar(255)"`
	Phone            *string   `json:"phone,omitempty" gorm:"type:varchar(50);uniqueIndex"`
	HubSpotContactID *string   `json:"hubspot_contact_id,omitempty" gorm:"column:hubspot_contact_id;type:varchar(64)"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// DisplayName returns the client name or the given fallback.
func (c *Client) DisplayName(fallback string) string {
	if c == nil || IsPlaceholder(c.Name) {
		return fallback
	}
	return c.Name
}

// IsPlaceholder reports whether v carries no real information.
func IsPlaceholder(v string) bool {
	switch strings.TrimSpace(v) {
	case "", PlaceholderClientName, PlaceholderCompany, PlaceholderLocation, "Client":
		return true
	}
	return false
}

// MergeClientField keeps current unless incoming carries real information.
func MergeClientField(current, incoming string) string {
	if IsPlaceholder(incoming) {
		return current
	}
	return strings.TrimSpace(incoming)
}
