package repositories

import (
	"context"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
)

// UserRepository defines the interface for salesperson data access
type UserRepository interface {
	// FindByEmail finds a user by lower-cased email
	FindByEmail(ctx context.Context, email string) (*entities.User, error)

	// FindByPhone finds a user by normalized phone
	FindByPhone(ctx context.Context, phone string) (*entities.User, error)

	// First returns the earliest registered user
	First(ctx context.Context) (*entities.User, error)

	// Upsert creates the user or updates name, phone and timezone
	Upsert(ctx context.Context, user *entities.User) error

	// SetHubSpotContactID stores the CRM contact id
	SetHubSpotContactID(ctx context.Context, email, contactID string) error
}

// ClientRepository defines the interface for client data access
type ClientRepository interface {
	FindByID(ctx context.Context, id int64) (*entities.Client, error)
	FindByEmail(ctx context.Context, email string) (*entities.Client, error)
	Create(ctx context.Context, client *entities.Client) error

	// Update applies the given column updates
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
}
