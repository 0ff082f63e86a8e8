package entities

import (
	"strings"
	"time"
)

// User is a registered salesperson. Rows are created by self-registration
// and are read-only to the reconciliation engine.
type User struct {
	Email            string    `json:"email" gorm:"type:varchar(255);primaryKey"`
	Name             string    `json:"name" gorm:"type:varchar(255);not null;default:''"`
	Phone            string    `json:"phone" gorm:"type:varchar(50)"`
	HubSpotContactID *string   `json:"hubspot_contact_id,omitempty" gorm:"column:hubspot_contact_id;type:varchar(64)"`
	Timezone         string    `json:"timezone" gorm:"type:varchar(64);default:'UTC';not null"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a user with default values
func NewUser(email, name, phone, timezone string) *User {
	if timezone == "" {
		timezone = "UTC"
	}
	now := time.Now()
	return &User{
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Name:      strings.TrimSpace(name),
		Phone:     phone,
		Timezone:  timezone,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate validates user data
func (u *User) Validate() error {
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	if u.Name == "" {
		return ErrInvalidName
	}
	return nil
}

// Location returns the user's zone, falling back to UTC.
func (u *User) Location() *time.Location {
	if u == nil || u.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
