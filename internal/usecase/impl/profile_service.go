// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "starmobiles/internal/delivery/context"
	"starmobiles/internal/domain/entity"
	domainerrors "starmobiles/internal/domain/errors"
	"starmobiles/internal/domain/repository"
	"starmobiles/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// profileService implements the ProfileUsecase interface.
type profileService struct {
	txManager repository.TransactionManager
	now       func() time.Time
	logger    *slog.Logger
}

// ProfileServiceParams holds dependencies for ProfileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Logger    *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		txManager: params.TxManager,
		now:       time.Now,
		logger:    params.Logger,
	}
}

func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetProfile retrieves the profile row, creating it from the sign-up data when missing.
func (srv *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	srv.log(ctx).Debug("Getting user profile", slog.Any("userID", userID))

	var profile *entity.Profile

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		profile, err = loadOrCreateProfile(ctx, repoFactory.UserRepo(), userID)

		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user profile")
	}

	return profile, nil
}

// UpdateProfile merges the patch into the stored profile.
func (srv *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, patch entity.ProfilePatch) (*entity.Profile, error) {
	srv.log(ctx).Info("Updating user profile", slog.Any("userID", userID))

	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			return nil, errors.Wrap(domainerrors.ErrValidationFailed, "name must not be empty")
		}
		patch.Name = &trimmed
	}

	var profile *entity.Profile

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		var err error
		profile, err = loadOrCreateProfile(ctx, userRepo, userID)
		if err != nil {
			return err
		}

		patch.Apply(profile)
		profile.UpdatedAt = srv.now()

		if err := userRepo.UpdateProfile(ctx, profile); err != nil {
			return errors.Wrap(err, "failed to update profile")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to update user profile", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update user profile")
	}

	return profile, nil
}

func loadOrCreateProfile(ctx context.Context, userRepo repository.UserRepository, userID uuid.UUID) (*entity.Profile, error) {
	profile, err := userRepo.FindProfile(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, errors.Wrap(err, "failed to find profile")
	}

	user, err := userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "user not found")
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	if err := userRepo.CreateProfileIfAbsent(ctx, entity.FallbackProfile(user)); err != nil {
		return nil, errors.Wrap(err, "failed to create profile")
	}

	profile, err = userRepo.FindProfile(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read profile")
	}

	return profile, nil
}
