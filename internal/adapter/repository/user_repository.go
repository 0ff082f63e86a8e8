package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
	"github.com/johnquangdev/coachlink/internal/domain/repositories"
)

var (
	_ repositories.UserRepository   = (*UserRepository)(nil)
	_ repositories.ClientRepository = (*ClientRepository)(nil)
)

// UserRepository implements the user repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// FindByEmail finds a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &user, nil
}

// FindByPhone finds a user by phone
func (r *UserRepository) FindByPhone(ctx context.Context, phone string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by phone: %w", err)
	}
	return &user, nil
}

// First returns the earliest registered user
func (r *UserRepository) First(ctx context.Context) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Order("created_at ASC").First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find first user: %w", err)
	}
	return &user, nil
}

// Upsert creates the user or refreshes its profile
func (r *UserRepository) Upsert(ctx context.Context, user *entities.User) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "phone", "timezone", "updated_at"}),
	}).Create(user).Error
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// SetHubSpotContactID stores the CRM contact id
func (r *UserRepository) SetHubSpotContactID(ctx context.Context, email, contactID string) error {
	return r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"hubspot_contact_id": contactID,
			"updated_at":         time.Now(),
		}).Error
}

// ClientRepository implements the client repository interface using GORM
type ClientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// FindByID finds a client by id
func (r *ClientRepository) FindByID(ctx context.Context, id int64) (*entities.Client, error) {
	var client entities.Client
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to find client by ID: %w", err)
	}
	return &client, nil
}

// FindByEmail finds a client by email
func (r *ClientRepository) FindByEmail(ctx context.Context, email string) (*entities.Client, error) {
	var client entities.Client
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to find client by email: %w", err)
	}
	return &client, nil
}

// Create creates a new client
func (r *ClientRepository) Create(ctx context.Context, client *entities.Client) error {
	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return entities.ErrClientAlreadyExists
		}
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// Update applies column updates to a client
func (r *ClientRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.Client{}).
		Where("id = ?", id).
		Updates(updates).Error
}
