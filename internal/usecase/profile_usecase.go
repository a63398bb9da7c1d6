// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"starmobiles/internal/domain/entity"

	"github.com/google/uuid"
)

// ProfileUsecase defines the interface for profile-related business operations.
type ProfileUsecase interface {
	// GetProfile returns the stored profile, creating it from the user's
	// sign-up data when the row is missing.
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)

	// UpdateProfile applies a partial update and returns the merged profile.
	UpdateProfile(ctx context.Context, userID uuid.UUID, patch entity.ProfilePatch) (*entity.Profile, error)
}
