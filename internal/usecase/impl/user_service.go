// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"starmobiles/config"
	deliverycontext "starmobiles/internal/delivery/context"
	"starmobiles/internal/domain/entity"
	domainerrors "starmobiles/internal/domain/errors"
	"starmobiles/internal/domain/repository"
	"starmobiles/internal/domain/service"
	"starmobiles/internal/usecase"
	"starmobiles/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	tokenTypeBearer     = "bearer"
	defaultOTPTTL       = 5 * time.Minute
	defaultRecoveryTTL  = time.Hour
	recoveryTokenParam  = "token"
	recoveryTypeParam   = "type"
	recoveryTypeRecover = "recovery"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager         repository.TransactionManager
	userRepo          repository.UserRepository
	refreshTokenRepo  repository.RefreshTokenRepository
	hasher            service.PasswordHasher
	tokenService      service.TokenService
	otpStore          service.OTPStore
	recoveryStore     service.RecoveryStore
	sendLimiter       service.SendLimiter
	maxActiveSessions int
	otpTTL            time.Duration
	recoveryTTL       time.Duration
	recoveryURL       string
	now               func() time.Time
	logger            *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	OTPStore         service.OTPStore
	RecoveryStore    service.RecoveryStore
	SendLimiter      service.SendLimiter
	Config           *config.Config
	Logger           *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	srv := &userService{
		txManager:        params.TxManager,
		userRepo:         params.UserRepo,
		refreshTokenRepo: params.RefreshTokenRepo,
		hasher:           params.Hasher,
		tokenService:     params.TokenService,
		otpStore:         params.OTPStore,
		recoveryStore:    params.RecoveryStore,
		sendLimiter:      params.SendLimiter,
		otpTTL:           defaultOTPTTL,
		recoveryTTL:      defaultRecoveryTTL,
		now:              time.Now,
		logger:           params.Logger,
	}

	if cfg := params.Config; cfg != nil {
		if cfg.Auth != nil {
			srv.maxActiveSessions = cfg.Auth.MaxActiveSessions
			srv.recoveryURL = cfg.Auth.RecoveryRedirectURL
			if cfg.Auth.RecoveryTTL > 0 {
				srv.recoveryTTL = cfg.Auth.RecoveryTTL
			}
		}
		if cfg.OTP != nil && cfg.OTP.TTL > 0 {
			srv.otpTTL = cfg.OTP.TTL
		}
	}

	return srv
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// credential is one login identifier of an account.
type credential struct {
	provider entity.ProviderType
	id       string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers an account with an email and/or a phone sharing one password,
// creates the profile row and signs the user in.
func (srv *userService) Signup(ctx context.Context, input *usecase.SignupInput) (*usecase.AuthOutput, error) {
	email := normalizeEmail(input.Email)
	phone := util.NormalizePhone(input.Phone)

	var creds []credential
	if email != "" {
		creds = append(creds, credential{provider: entity.ProviderEmail, id: email})
	}
	if phone != "" {
		creds = append(creds, credential{provider: entity.ProviderPhone, id: phone})
	}
	if len(creds) == 0 {
		return nil, errors.Wrap(domainerrors.ErrEmailOrPhoneRequired, "signup")
	}

	srv.log(ctx).Info("Starting signup", slog.String("email", email), slog.String("phone", phone))

	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		srv.log(ctx).Warn("Password validation failed during signup", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "password does not meet security requirements")
	}

	// Hash outside the transaction, bcrypt is CPU-bound.
	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during signup", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	var (
		newUser *entity.User
		profile *entity.Profile
	)
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		authRepo := repoFactory.AuthRepo()

		for _, cred := range creds {
			_, findErr := authRepo.FindAuthentication(ctx, cred.provider, cred.id)
			if findErr == nil {
				return errors.Wrapf(domainerrors.ErrUserAlreadyExists, "%s already registered", cred.provider)
			}
			if !errors.Is(findErr, repository.ErrAuthNotFound) {
				return errors.Wrap(findErr, "failed to find authentication")
			}
		}

		newUser = &entity.User{
			Email:    email,
			Phone:    phone,
			Metadata: entity.UserMetadata{Name: strings.TrimSpace(input.Name), Phone: phone},
		}
		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user during signup")
		}

		for _, cred := range creds {
			if err := authRepo.CreateAuthentication(ctx, &entity.Authentication{
				UserID:         newUser.ID,
				Provider:       cred.provider,
				ProviderUserID: cred.id,
				PasswordHash:   hashedPassword,
			}); err != nil {
				if errors.Is(err, repository.ErrAuthAlreadyExists) {
					return errors.Wrapf(domainerrors.ErrUserAlreadyExists, "%s already registered", cred.provider)
				}

				return errors.Wrap(err, "failed to create authentication during signup")
			}
		}

		var profileErr error
		profile, profileErr = srv.ensureProfile(ctx, userRepo, newUser)

		return profileErr
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute signup transaction", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute signup transaction")
	}

	session, err := srv.issueSession(ctx, newUser, profile)
	if err != nil {
		return nil, err
	}
	srv.log(ctx).Info("Signup completed", slog.Any("userID", newUser.ID))

	return &usecase.AuthOutput{Session: session, Profile: profile}, nil
}

// Login orchestrates the password login process. Email wins over phone.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	cred := credential{provider: entity.ProviderEmail, id: normalizeEmail(input.Email)}
	if cred.id == "" {
		cred = credential{provider: entity.ProviderPhone, id: util.NormalizePhone(input.Phone)}
	}
	if cred.id == "" {
		return nil, errors.Wrap(domainerrors.ErrEmailOrPhoneRequired, "login")
	}

	srv.log(ctx).Debug("Starting user login", slog.Any("provider", cred.provider), slog.String("identifier", cred.id))

	authRecord, err := srv.loadLoginAuth(ctx, cred)
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("identifier", cred.id), slog.Any("error", err))

		return nil, errors.Wrap(err, "login failed")
	}

	// Check password outside transaction (bcrypt is CPU-bound).
	// OTP-only accounts have no hash and cannot sign in with a password.
	if authRecord.PasswordHash == "" || !srv.hasher.Check(input.Password, authRecord.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("identifier", cred.id), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	loggedInUser, profile, err := srv.loadUserWithProfile(ctx, authRecord.UserID)
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("identifier", cred.id), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to load login user")
	}

	session, err := srv.issueSession(ctx, loggedInUser, profile)
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("identifier", cred.id), slog.Any("error", err))

		return nil, err
	}
	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", loggedInUser.ID))

	return &usecase.AuthOutput{Session: session, Profile: profile}, nil
}

func (srv *userService) loadLoginAuth(ctx context.Context, cred credential) (*entity.Authentication, error) {
	var authRecord *entity.Authentication

	// Load authentication from primary in a short transaction to avoid stale reads on replicas.
	if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var findAuthErr error
		authRecord, findAuthErr = repoFactory.AuthRepo().FindAuthentication(ctx, cred.provider, cred.id)
		if findAuthErr != nil {
			if errors.Is(findAuthErr, repository.ErrAuthNotFound) {
				return errors.Wrap(domainerrors.ErrInvalidCredentials, "unknown identifier")
			}

			return errors.Wrap(findAuthErr, "failed to find authentication")
		}

		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "failed to execute login auth transaction")
	}

	return authRecord, nil
}

// loadUserWithProfile reads the user from primary and makes sure a profile row exists.
func (srv *userService) loadUserWithProfile(ctx context.Context, userID uuid.UUID) (*entity.User, *entity.Profile, error) {
	var (
		user    *entity.User
		profile *entity.Profile
	)

	if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		var err error
		user, err = userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "user not found")
			}

			return errors.Wrap(err, "failed to find user by id")
		}

		profile, err = srv.ensureProfile(ctx, userRepo, user)

		return err
	}); err != nil {
		return nil, nil, errors.Wrap(err, "failed to execute load user transaction")
	}

	return user, profile, nil
}

// ensureProfile returns the user's profile, inserting the synthesized one when the row is missing.
// A concurrent writer may win the insert, so the stored row is re-read.
func (srv *userService) ensureProfile(ctx context.Context, userRepo repository.UserRepository, user *entity.User) (*entity.Profile, error) {
	if user.Profile != nil {
		return user.Profile, nil
	}

	if err := userRepo.CreateProfileIfAbsent(ctx, entity.FallbackProfile(user)); err != nil {
		return nil, errors.Wrap(err, "failed to create profile")
	}

	profile, err := userRepo.FindProfile(ctx, user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read profile")
	}
	user.Profile = profile

	return profile, nil
}

// issueSession signs an access token and persists a fresh refresh token.
func (srv *userService) issueSession(ctx context.Context, user *entity.User, profile *entity.Profile) (*entity.Session, error) {
	accessToken, expiresAt, err := srv.tokenService.GenerateAccessToken(user.ID, entity.RolesFor(profile.Role).ToStrings())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	refreshTokenString, err := srv.tokenService.GenerateRefreshToken()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate refresh token")
	}

	if err := srv.persistRefreshToken(ctx, user.ID, refreshTokenString); err != nil {
		return nil, errors.Wrap(err, "failed to create refresh token")
	}

	return srv.buildSession(user, accessToken, refreshTokenString, expiresAt), nil
}

func (srv *userService) buildSession(user *entity.User, accessToken, refreshToken string, expiresAt time.Time) *entity.Session {
	return &entity.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    tokenTypeBearer,
		ExpiresIn:    int64(srv.tokenService.GetAccessTokenDuration() / time.Second),
		ExpiresAt:    expiresAt.Unix(),
		User:         user,
	}
}

func (srv *userService) persistRefreshToken(ctx context.Context, userID uuid.UUID, refreshTokenString string) error {
	if srv.maxActiveSessions > 0 {
		// When session limit is enabled, keep lock/count/insert in one short transaction.
		if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
			return srv.storeRefreshToken(ctx, repoFactory, userID, refreshTokenString)
		}); err != nil {
			return errors.Wrap(err, "failed to execute session transaction")
		}

		return nil
	}

	// No session limit: direct insert avoids unnecessary transaction overhead.
	return srv.storeRefreshTokenWithRepo(ctx, srv.refreshTokenRepo, userID, refreshTokenString)
}

// storeRefreshToken enforces the session limit and stores the refresh token.
func (srv *userService) storeRefreshToken(ctx context.Context, repoFactory repository.RepositoryFactory, userID uuid.UUID, refreshTokenString string) error {
	refreshRepo := repoFactory.RefreshTokenRepo()

	if srv.maxActiveSessions > 0 {
		if err := repoFactory.UserRepo().AcquireSessionMutex(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to lock user row for session limit check")
		}

		activeSessions, err := refreshRepo.CountActiveSessionsByUserID(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to count active sessions")
		}
		if activeSessions >= srv.maxActiveSessions {
			return errors.Wrap(domainerrors.ErrSessionLimitExceeded, "active session limit exceeded")
		}
	}

	return srv.storeRefreshTokenWithRepo(ctx, refreshRepo, userID, refreshTokenString)
}

func (srv *userService) storeRefreshTokenWithRepo(ctx context.Context, refreshRepo repository.RefreshTokenRepository, userID uuid.UUID, refreshTokenString string) error {
	newRefreshToken := &entity.RefreshToken{
		UserID:    userID,
		TokenHash: srv.tokenService.HashRefreshToken(refreshTokenString),
		ExpiresAt: srv.now().Add(srv.tokenService.GetRefreshTokenDuration()),
	}

	if err := refreshRepo.CreateRefreshToken(ctx, newRefreshToken); err != nil {
		return errors.Wrap(err, "failed to store refresh token")
	}

	return nil
}

// RefreshToken exchanges a refresh token for a new session. The old refresh
// token is revoked and replaced in the same transaction.
func (srv *userService) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Debug("Attempting to refresh session")

	if input.RefreshToken == "" {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "missing refresh token")
	}

	oldHash := srv.tokenService.HashRefreshToken(input.RefreshToken)

	newRefreshToken, err := srv.tokenService.GenerateRefreshToken()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate refresh token")
	}

	var (
		user        *entity.User
		profile     *entity.Profile
		accessToken string
		expiresAt   time.Time
	)
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		refreshRepo := repoFactory.RefreshTokenRepo()

		stored, err := refreshRepo.FindRefreshTokenByHash(ctx, oldHash)
		if err != nil {
			if errors.Is(err, repository.ErrRefreshTokenNotFound) {
				return errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh token not found")
			}

			return errors.Wrap(err, "failed to find refresh token")
		}
		if stored.IsExpired(srv.now()) {
			return errors.Wrap(domainerrors.ErrRefreshTokenExpired, "refresh token expired")
		}

		user, err = userRepo.FindByID(ctx, stored.UserID)
		if err != nil {
			return errors.Wrap(err, "failed to find user")
		}
		profile, err = srv.ensureProfile(ctx, userRepo, user)
		if err != nil {
			return err
		}

		accessToken, expiresAt, err = srv.tokenService.GenerateAccessToken(user.ID, entity.RolesFor(profile.Role).ToStrings())
		if err != nil {
			return errors.Wrap(err, "failed to generate new access token")
		}

		if err := refreshRepo.DeleteRefreshTokenByHash(ctx, oldHash); err != nil {
			return errors.Wrap(err, "failed to revoke refresh token")
		}

		return srv.storeRefreshTokenWithRepo(ctx, refreshRepo, user.ID, newRefreshToken)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to refresh session", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute refresh token transaction")
	}

	return &usecase.AuthOutput{
		Session: srv.buildSession(user, accessToken, newRefreshToken, expiresAt),
		Profile: profile,
	}, nil
}

// Logout revokes the presented refresh token, or every token of the user for the global scope.
func (srv *userService) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	srv.log(ctx).Info("Attempting to log out", slog.Any("userID", input.UserID), slog.String("scope", input.Scope))

	if input.Scope == usecase.LogoutScopeGlobal {
		if err := srv.refreshTokenRepo.DeleteRefreshTokensByUserID(ctx, input.UserID); err != nil {
			srv.log(ctx).Error("Failed to delete all refresh tokens", slog.Any("error", err), slog.Any("userID", input.UserID))

			return errors.Wrap(err, "failed to delete all refresh tokens")
		}

		return nil
	}

	if input.RefreshToken == "" {
		return nil
	}

	tokenHash := srv.tokenService.HashRefreshToken(input.RefreshToken)
	if err := srv.refreshTokenRepo.DeleteRefreshTokenByHash(ctx, tokenHash); err != nil && !errors.Is(err, repository.ErrRefreshTokenNotFound) {
		srv.log(ctx).Error("Failed to delete refresh token", slog.Any("error", err))

		return errors.Wrap(err, "failed to delete refresh token")
	}
	srv.log(ctx).Info("Successfully logged out", slog.Any("userID", input.UserID))

	return nil
}

// SendOTP issues a one-time code for the phone.
func (srv *userService) SendOTP(ctx context.Context, phone string) error {
	phone = util.NormalizePhone(phone)
	if phone == "" {
		return errors.Wrap(domainerrors.ErrEmailOrPhoneRequired, "send otp")
	}

	if !srv.sendLimiter.Allow(phone) {
		srv.log(ctx).Warn("OTP send throttled", slog.String("phone", phone))

		return errors.Wrap(domainerrors.ErrOTPRateLimited, phone)
	}

	code, err := srv.otpStore.Issue(ctx, phone, srv.otpTTL)
	if err != nil {
		srv.log(ctx).Error("Failed to issue OTP", slog.String("phone", phone), slog.Any("error", err))

		return errors.Wrap(err, "failed to issue otp")
	}

	// SMS delivery is external; the code only reaches debug logs.
	srv.log(ctx).Debug("OTP issued", slog.String("phone", phone), slog.String("code", code))

	return nil
}

// VerifyOTP consumes the code and signs the phone in, creating the account on first use.
func (srv *userService) VerifyOTP(ctx context.Context, input *usecase.VerifyOTPInput) (*usecase.AuthOutput, error) {
	phone := util.NormalizePhone(input.Phone)
	if phone == "" || input.Code == "" {
		return nil, errors.Wrap(domainerrors.ErrOTPInvalid, "phone and code are required")
	}

	ok, err := srv.otpStore.Verify(ctx, phone, input.Code)
	if err != nil {
		return nil, errors.Wrap(err, "failed to verify otp")
	}
	if !ok {
		srv.log(ctx).Warn("OTP verification failed", slog.String("phone", phone))

		return nil, errors.Wrap(domainerrors.ErrOTPInvalid, phone)
	}

	var (
		user    *entity.User
		profile *entity.Profile
	)
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		authRepo := repoFactory.AuthRepo()

		authRecord, err := authRepo.FindAuthentication(ctx, entity.ProviderPhone, phone)
		switch {
		case err == nil:
			user, err = userRepo.FindByID(ctx, authRecord.UserID)
			if err != nil {
				return errors.Wrap(err, "failed to find user")
			}
		case errors.Is(err, repository.ErrAuthNotFound):
			srv.log(ctx).Info("Creating account on first OTP sign-in", slog.String("phone", phone))

			user = &entity.User{Phone: phone, Metadata: entity.UserMetadata{Phone: phone}}
			if err := userRepo.Create(ctx, user); err != nil {
				return errors.Wrap(err, "failed to create user")
			}
			if err := authRepo.CreateAuthentication(ctx, &entity.Authentication{
				UserID:         user.ID,
				Provider:       entity.ProviderPhone,
				ProviderUserID: phone,
			}); err != nil {
				return errors.Wrap(err, "failed to create phone authentication")
			}
		default:
			return errors.Wrap(err, "failed to find authentication")
		}

		profile, err = srv.ensureProfile(ctx, userRepo, user)

		return err
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute otp sign-in transaction", slog.String("phone", phone), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute otp sign-in transaction")
	}

	session, err := srv.issueSession(ctx, user, profile)
	if err != nil {
		return nil, err
	}

	return &usecase.AuthOutput{Session: session, Profile: profile}, nil
}

// RequestRecovery issues a recovery token. The link is logged instead of mailed.
func (srv *userService) RequestRecovery(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return errors.Wrap(domainerrors.ErrEmailOrPhoneRequired, "recover")
	}

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Do not reveal whether the address is registered.
			srv.log(ctx).Info("Recovery requested for unknown email", slog.String("email", email))

			return nil
		}

		return errors.Wrap(err, "failed to find user by email")
	}

	token, err := srv.recoveryStore.Issue(ctx, user.ID, srv.recoveryTTL)
	if err != nil {
		return errors.Wrap(err, "failed to issue recovery token")
	}

	srv.log(ctx).Debug("Recovery link issued", slog.Any("userID", user.ID), slog.String("link", srv.recoveryLink(token)))

	return nil
}

func (srv *userService) recoveryLink(token string) string {
	query := url.Values{}
	query.Set(recoveryTokenParam, token)
	query.Set(recoveryTypeParam, recoveryTypeRecover)

	if srv.recoveryURL == "" {
		return "?" + query.Encode()
	}

	return srv.recoveryURL + "?" + query.Encode()
}

// ResetPassword consumes the recovery token, replaces the password and ends every session.
func (srv *userService) ResetPassword(ctx context.Context, input *usecase.ResetPasswordInput) error {
	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		return errors.Wrap(err, "password does not meet security requirements")
	}

	userID, ok, err := srv.recoveryStore.Consume(ctx, input.Token)
	if err != nil {
		return errors.Wrap(err, "failed to consume recovery token")
	}
	if !ok {
		return errors.Wrap(domainerrors.ErrRecoveryTokenInvalid, "recovery token rejected")
	}

	if err := srv.replacePassword(ctx, userID, input.Password, true); err != nil {
		srv.log(ctx).Error("Failed to reset password", slog.Any("userID", userID), slog.Any("error", err))

		return err
	}
	srv.log(ctx).Info("Password reset", slog.Any("userID", userID))

	return nil
}

// ChangePassword sets a new password for a signed-in user. The current
// password is verified when supplied.
func (srv *userService) ChangePassword(ctx context.Context, input *usecase.ChangePasswordInput) error {
	if err := srv.hasher.ValidatePasswordStrength(input.NewPassword); err != nil {
		return errors.Wrap(err, "password does not meet security requirements")
	}

	if input.CurrentPassword != "" {
		var auths []*entity.Authentication
		if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
			var err error
			auths, err = repoFactory.AuthRepo().FindAuthenticationsByUserID(ctx, input.UserID)

			return err
		}); err != nil {
			return errors.Wrap(err, "failed to load credentials")
		}

		if !srv.matchesAny(input.CurrentPassword, auths) {
			srv.log(ctx).Warn("Current password mismatch", slog.Any("userID", input.UserID))

			return errors.Wrap(domainerrors.ErrInvalidCredentials, "current password mismatch")
		}
	}

	if err := srv.replacePassword(ctx, input.UserID, input.NewPassword, false); err != nil {
		srv.log(ctx).Error("Failed to change password", slog.Any("userID", input.UserID), slog.Any("error", err))

		return err
	}
	srv.log(ctx).Info("Password changed", slog.Any("userID", input.UserID))

	return nil
}

func (srv *userService) matchesAny(password string, auths []*entity.Authentication) bool {
	for _, auth := range auths {
		if auth.PasswordHash != "" && srv.hasher.Check(password, auth.PasswordHash) {
			return true
		}
	}

	return false
}

func (srv *userService) replacePassword(ctx context.Context, userID uuid.UUID, password string, revokeSessions bool) error {
	hashedPassword, err := srv.hasher.Hash(password)
	if err != nil {
		return errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.AuthRepo().UpdatePasswordHash(ctx, userID, hashedPassword); err != nil {
			if errors.Is(err, repository.ErrAuthNotFound) {
				return errors.Wrap(domainerrors.ErrAuthNotFound, "user has no credentials")
			}

			return errors.Wrap(err, "failed to update password")
		}

		if !revokeSessions {
			return nil
		}

		if err := repoFactory.RefreshTokenRepo().DeleteRefreshTokensByUserID(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to revoke sessions")
		}

		return nil
	})
}

// GetUser resolves a user by id with the profile attached when present.
func (srv *userService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "user not found")
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return user, nil
}

// CleanupExpiredSessions removes expired refresh tokens.
func (srv *userService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	removed, err := srv.refreshTokenRepo.DeleteExpiredRefreshTokens(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to clean up expired sessions", slog.Any("error", err))

		return 0, errors.Wrap(err, "failed to delete expired refresh tokens")
	}
	if removed > 0 {
		srv.log(ctx).Info("Expired sessions removed", slog.Int64("count", removed))
	}

	return removed, nil
}
