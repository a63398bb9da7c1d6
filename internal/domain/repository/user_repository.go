// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"starmobiles/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrProfileNotFound is returned when a user has no profile row.
var ErrProfileNotFound = errors.New("profile not found")

// UserRepository defines the standard operations for user and profile persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID, with the profile preloaded when present.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByPhone retrieves a single user by their normalized phone number.
	FindByPhone(ctx context.Context, phone string) (*entity.User, error)

	// Create persists a new user entity to the storage.
	Create(ctx context.Context, user *entity.User) error

	// Update modifies an existing user entity in the storage.
	Update(ctx context.Context, user *entity.User) error

	// FindProfile retrieves the profile owned by a user.
	FindProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)

	// CreateProfileIfAbsent inserts the profile unless a row already exists. The first write wins.
	CreateProfileIfAbsent(ctx context.Context, profile *entity.Profile) error

	// UpdateProfile writes every mutable profile column.
	UpdateProfile(ctx context.Context, profile *entity.Profile) error

	// AcquireSessionMutex locks the user row until the surrounding transaction ends.
	// It serializes the session count check with the refresh token insert.
	AcquireSessionMutex(ctx context.Context, userID uuid.UUID) error
}
