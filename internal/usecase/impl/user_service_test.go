package impl

import (
	"context"
	"testing"
	"time"

	"starmobiles/internal/domain/entity"
	domainerrors "starmobiles/internal/domain/errors"
	"starmobiles/internal/domain/repository"
	mockRepo "starmobiles/internal/mocks/repository"
	mockSvc "starmobiles/internal/mocks/service"
	"starmobiles/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// userServiceFixtures holds all test dependencies for user service tests.
type userServiceFixtures struct {
	service       usecase.UserUsecase
	txManager     *mockRepo.FakeTransactionManager
	repos         *mockRepo.RepositoryFactory
	hasher        *mockSvc.MockPasswordHasher
	tokenService  *mockSvc.MockTokenService
	otpStore      *mockSvc.MockOTPStore
	recoveryStore *mockSvc.MockRecoveryStore
	limiter       *mockSvc.MockSendLimiter
	now           time.Time
}

func createTestUserService(t *testing.T) userServiceFixtures {
	txManager, repos := newMockFactory(t)
	f := userServiceFixtures{
		txManager:     txManager,
		repos:         repos,
		hasher:        mockSvc.NewMockPasswordHasher(t),
		tokenService:  mockSvc.NewMockTokenService(t),
		otpStore:      mockSvc.NewMockOTPStore(t),
		recoveryStore: mockSvc.NewMockRecoveryStore(t),
		limiter:       mockSvc.NewMockSendLimiter(t),
		now:           time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	svc := NewUserService(UserServiceParams{
		TxManager:        txManager,
		UserRepo:         repos.User,
		RefreshTokenRepo: repos.RefreshToken,
		Hasher:           f.hasher,
		TokenService:     f.tokenService,
		OTPStore:         f.otpStore,
		RecoveryStore:    f.recoveryStore,
		SendLimiter:      f.limiter,
		Config:           newTestConfig(0),
		Logger:           newDiscardLogger(),
	})
	svc.(*userService).now = func() time.Time { return f.now }
	f.service = svc

	return f
}

// expectSession sets up the token calls of one issued session.
func (f userServiceFixtures) expectSession(roles []string) {
	f.tokenService.On("GenerateAccessToken", mock.Anything, roles).
		Return("access-token", f.now.Add(time.Hour), nil).Once()
	f.tokenService.On("GenerateRefreshToken").Return("refresh-token", nil).Once()
	f.tokenService.On("HashRefreshToken", "refresh-token").Return("refresh-hash").Once()
	f.tokenService.On("GetRefreshTokenDuration").Return(24 * time.Hour).Maybe()
	f.tokenService.On("GetAccessTokenDuration").Return(time.Hour).Maybe()
	f.repos.RefreshToken.On("CreateRefreshToken", mock.Anything, mock.MatchedBy(func(token *entity.RefreshToken) bool {
		return token.TokenHash == "refresh-hash" && token.ExpiresAt.Equal(f.now.Add(24*time.Hour))
	})).Return(nil).Once()
}

func TestUserService_Signup_EmailAndPhone(t *testing.T) {
	f := createTestUserService(t)
	ctx := context.Background()
	userID := uuid.New()

	f.hasher.On("ValidatePasswordStrength", "secret1").Return(nil)
	f.hasher.On("Hash", "secret1").Return("hashed", nil)
	f.repos.Auth.On("FindAuthentication", mock.Anything, entity.ProviderEmail, "asha@example.com").Return(nil, repository.ErrAuthNotFound)
	f.repos.Auth.On("FindAuthentication", mock.Anything, entity.ProviderPhone, "+919800000000").Return(nil, repository.ErrAuthNotFound)
	f.repos.User.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			user := args.Get(1).(*entity.User)
			assert.Equal(t, "Asha", user.Metadata.Name)
			user.ID = userID
		}).
		Return(nil)
	f.repos.Auth.On("CreateAuthentication", mock.Anything, mock.MatchedBy(func(a *entity.Authentication) bool {
		return a.UserID == userID && a.PasswordHash == "hashed"
	})).Return(nil).Twice()
	f.repos.User.On("CreateProfileIfAbsent", mock.Anything, mock.MatchedBy(func(p *entity.Profile) bool {
		return p.ID == userID && p.Name == "Asha" && p.Role == entity.RoleUser
	})).Return(nil)
	f.repos.User.On("FindProfile", mock.Anything, userID).
		Return(&entity.Profile{ID: userID, Name: "Asha", Role: entity.RoleUser}, nil)
	f.expectSession([]string{"user"})

	out, err := f.service.Signup(ctx, &usecase.SignupInput{
		Name:     "Asha",
		Email:    "  Asha@Example.com ",
		Phone:    "9800000000",
		Password: "secret1",
	})

	require.NoError(t, err)
	assert.Equal(t, "access-token", out.Session.AccessToken)
	assert.Equal(t, "refresh-token", out.Session.RefreshToken)
	assert.Equal(t, "bearer", out.Session.TokenType)
	assert.Equal(t, int64(3600), out.Session.ExpiresIn)
	assert.Equal(t, f.now.Add(time.Hour).Unix(), out.Session.ExpiresAt)
	assert.Equal(t, "asha@example.com", out.Session.User.Email)
	assert.Equal(t, "+919800000000", out.Session.User.Phone)
	assert.Equal(t, "Asha", out.Profile.Name)
}

func TestUserService_Signup_RequiresEmailOrPhone(t *testing.T) {
	f := createTestUserService(t)

	_, err := f.service.Signup(context.Background(), &usecase.SignupInput{Name: "Nobody", Password: "secret1"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrEmailOrPhoneRequired))
	assert.Zero(t, f.txManager.Calls)
}

func TestUserService_Signup_WeakPassword(t *testing.T) {
	f := createTestUserService(t)
	f.hasher.On("ValidatePasswordStrength", "123").Return(domainerrors.ErrPasswordStrength.WithDetails("too short"))

	_, err := f.service.Signup(context.Background(), &usecase.SignupInput{Email: "a@b.c", Password: "123"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordStrength))
	assert.Zero(t, f.txManager.Calls)
}

func TestUserService_Signup_Duplicate(t *testing.T) {
	f := createTestUserService(t)
	f.hasher.On("ValidatePasswordStrength", "secret1").Return(nil)
	f.hasher.On("Hash", "secret1").Return("hashed", nil)
	f.repos.Auth.On("FindAuthentication", mock.Anything, entity.ProviderEmail, "taken@example.com").
		Return(&entity.Authentication{UserID: uuid.New()}, nil)

	_, err := f.service.Signup(context.Background(), &usecase.SignupInput{Email: "taken@example.com", Password: "secret1"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
	f.repos.User.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_Login_PhoneIsNormalized(t *testing.T) {
	f := createTestUserService(t)
	userID := uuid.New()
	user := &entity.User{
		ID:      userID,
		Phone:   "+919811111111",
		Profile: &entity.Profile{ID: userID, Name: "Ravi", Role: entity.RoleAdmin},
	}

	f.repos.Auth.On("FindAuthentication", mock.Anything, entity.ProviderPhone, "+919811111111").
		Return(&entity.Authentication{UserID: userID, PasswordHash: "hashed"}, nil)
	f.hasher.On("Check", "secret1", "hashed").Return(true)
	f.repos.User.On("FindByID", mock.Anything, userID).Return(user, nil)
	f.expectSession([]string{"user", "admin"})

	out, err := f.service.Login(context.Background(), &usecase.LoginInput{Phone: "9811111111", Password: "secret1"})

	require.NoError(t, err)
	assert.Same(t, user.Profile, out.Profile)
	assert.Equal(t, userID, out.Session.User.ID)
}

func TestUserService_Login_InvalidCredentials(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f userServiceFixtures)
	}{
		{
			name: "unknown email",
			setup: func(f userServiceFixtures) {
				f.repos.Auth.On("FindAuthentication", mock.Anything, entity.ProviderEmail, "who@example.com").
					Return(nil, repository.ErrAuthNotFound)
			},
		},
		{
			name: "wrong password",
			setup: func(f userServiceFixtures) {
				f.repos.Auth.On("FindAuthentication", mock.Anything, entity.ProviderEmail, "who@example.com").
					Return(&entity.Authentication{UserID: uuid.New(), PasswordHash: "hashed"}, nil)
				f.hasher.On("Check", "secret1", "hashed").Return(false)
			},
		},
		{
			name: "otp-only account",
			setup: func(f userServiceFixtures) {
				f.repos.Auth.On("FindAuthentication", mock.Anything, entity.ProviderEmail, "who@example.com").
					Return(&entity.Authentication{UserID: uuid.New()}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := createTestUserService(t)
			tt.setup(f)

			out, err := f.service.Login(context.Background(), &usecase.LoginInput{Email: "who@example.com", Password: "secret1"})

			require.Error(t, err)
			assert.Nil(t, out)
			assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
		})
	}
}

func TestUserService_RefreshToken_Rotates(t *testing.T) {
	f := createTestUserService(t)
	userID := uuid.New()
	user := &entity.User{ID: userID, Profile: &entity.Profile{ID: userID, Role: entity.RoleUser}}

	f.tokenService.On("HashRefreshToken", "old-token").Return("old-hash")
	f.tokenService.On("GenerateRefreshToken").Return("new-token", nil)
	f.tokenService.On("HashRefreshToken", "new-token").Return("new-hash")
	f.tokenService.On("GenerateAccessToken", userID, []string{"user"}).Return("access-2", f.now.Add(time.Hour), nil)
	f.tokenService.On("GetRefreshTokenDuration").Return(24 * time.Hour)
	f.tokenService.On("GetAccessTokenDuration").Return(time.Hour)
	f.repos.RefreshToken.On("FindRefreshTokenByHash", mock.Anything, "old-hash").
		Return(&entity.RefreshToken{UserID: userID, ExpiresAt: f.now.Add(time.Minute)}, nil)
	f.repos.User.On("FindByID", mock.Anything, userID).Return(user, nil)
	f.repos.RefreshToken.On("DeleteRefreshTokenByHash", mock.Anything, "old-hash").Return(nil)
	f.repos.RefreshToken.On("CreateRefreshToken", mock.Anything, mock.MatchedBy(func(token *entity.RefreshToken) bool {
		return token.TokenHash == "new-hash"
	})).Return(nil)

	out, err := f.service.RefreshToken(context.Background(), &usecase.RefreshTokenInput{RefreshToken: "old-token"})

	require.NoError(t, err)
	assert.Equal(t, "access-2", out.Session.AccessToken)
	assert.Equal(t, "new-token", out.Session.RefreshToken)
	assert.Equal(t, 1, f.txManager.Calls)
}

func TestUserService_RefreshToken_Expired(t *testing.T) {
	f := createTestUserService(t)

	f.tokenService.On("HashRefreshToken", "old-token").Return("old-hash")
	f.tokenService.On("GenerateRefreshToken").Return("new-token", nil)
	f.repos.RefreshToken.On("FindRefreshTokenByHash", mock.Anything, "old-hash").
		Return(&entity.RefreshToken{UserID: uuid.New(), ExpiresAt: f.now}, nil)

	_, err := f.service.RefreshToken(context.Background(), &usecase.RefreshTokenInput{RefreshToken: "old-token"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenExpired))
}

func TestUserService_RefreshToken_Unknown(t *testing.T) {
	f := createTestUserService(t)

	f.tokenService.On("HashRefreshToken", "stale").Return("stale-hash")
	f.tokenService.On("GenerateRefreshToken").Return("new-token", nil)
	f.repos.RefreshToken.On("FindRefreshTokenByHash", mock.Anything, "stale-hash").Return(nil, repository.ErrRefreshTokenNotFound)

	_, err := f.service.RefreshToken(context.Background(), &usecase.RefreshTokenInput{RefreshToken: "stale"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestUserService_Logout(t *testing.T) {
	userID := uuid.New()

	t.Run("global revokes every session", func(t *testing.T) {
		f := createTestUserService(t)
		f.repos.RefreshToken.On("DeleteRefreshTokensByUserID", mock.Anything, userID).Return(nil)

		err := f.service.Logout(context.Background(), &usecase.LogoutInput{UserID: userID, Scope: usecase.LogoutScopeGlobal})

		require.NoError(t, err)
	})

	t.Run("local revokes the presented token", func(t *testing.T) {
		f := createTestUserService(t)
		f.tokenService.On("HashRefreshToken", "rt").Return("rt-hash")
		f.repos.RefreshToken.On("DeleteRefreshTokenByHash", mock.Anything, "rt-hash").Return(repository.ErrRefreshTokenNotFound)

		err := f.service.Logout(context.Background(), &usecase.LogoutInput{UserID: userID, RefreshToken: "rt", Scope: usecase.LogoutScopeLocal})

		require.NoError(t, err)
	})

	t.Run("local without token is a no-op", func(t *testing.T) {
		f := createTestUserService(t)

		require.NoError(t, f.service.Logout(context.Background(), &usecase.LogoutInput{UserID: userID}))
	})
}

func TestUserService_SendOTP(t *testing.T) {
	t.Run("issues a code", func(t *testing.T) {
		f := createTestUserService(t)
		f.limiter.On("Allow", "+919800000000").Return(true)
		f.otpStore.On("Issue", mock.Anything, "+919800000000", 2*time.Minute).Return("123456", nil)

		require.NoError(t, f.service.SendOTP(context.Background(), "9800000000"))
	})

	t.Run("rate limited", func(t *testing.T) {
		f := createTestUserService(t)
		f.limiter.On("Allow", "+919800000000").Return(false)

		err := f.service.SendOTP(context.Background(), "+919800000000")

		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrOTPRateLimited))
	})
}

func TestUserService_VerifyOTP_CreatesAccountOnFirstUse(t *testing.T) {
	f := createTestUserService(t)
	userID := uuid.New()

	f.otpStore.On("Verify", mock.Anything, "+919800000000", "123456").Return(true, nil)
	f.repos.Auth.On("FindAuthentication", mock.Anything, entity.ProviderPhone, "+919800000000").Return(nil, repository.ErrAuthNotFound)
	f.repos.User.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) { args.Get(1).(*entity.User).ID = userID }).
		Return(nil)
	f.repos.Auth.On("CreateAuthentication", mock.Anything, mock.MatchedBy(func(a *entity.Authentication) bool {
		return a.Provider == entity.ProviderPhone && a.PasswordHash == ""
	})).Return(nil)
	f.repos.User.On("CreateProfileIfAbsent", mock.Anything, mock.AnythingOfType("*entity.Profile")).Return(nil)
	f.repos.User.On("FindProfile", mock.Anything, userID).
		Return(&entity.Profile{ID: userID, Name: entity.DefaultProfileName, Phone: "+919800000000", Role: entity.RoleUser}, nil)
	f.expectSession([]string{"user"})

	out, err := f.service.VerifyOTP(context.Background(), &usecase.VerifyOTPInput{Phone: "9800000000", Code: "123456"})

	require.NoError(t, err)
	assert.Equal(t, "+919800000000", out.Profile.Phone)
}

func TestUserService_VerifyOTP_WrongCode(t *testing.T) {
	f := createTestUserService(t)
	f.otpStore.On("Verify", mock.Anything, "+919800000000", "000000").Return(false, nil)

	_, err := f.service.VerifyOTP(context.Background(), &usecase.VerifyOTPInput{Phone: "9800000000", Code: "000000"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrOTPInvalid))
	assert.Zero(t, f.txManager.Calls)
}

func TestUserService_RequestRecovery(t *testing.T) {
	t.Run("unknown email succeeds silently", func(t *testing.T) {
		f := createTestUserService(t)
		f.repos.User.On("FindByEmail", mock.Anything, "who@example.com").Return(nil, repository.ErrUserNotFound)

		require.NoError(t, f.service.RequestRecovery(context.Background(), "Who@Example.com"))
	})

	t.Run("issues a token", func(t *testing.T) {
		f := createTestUserService(t)
		userID := uuid.New()
		f.repos.User.On("FindByEmail", mock.Anything, "asha@example.com").Return(&entity.User{ID: userID}, nil)
		f.recoveryStore.On("Issue", mock.Anything, userID, 30*time.Minute).Return("tok", nil)

		require.NoError(t, f.service.RequestRecovery(context.Background(), "asha@example.com"))
	})
}

func TestUserService_RecoveryLink(t *testing.T) {
	f := createTestUserService(t)

	link := f.service.(*userService).recoveryLink("a b")

	assert.Equal(t, "https://starmobiles.test/reset-password?token=a+b&type=recovery", link)
}

func TestUserService_ResetPassword(t *testing.T) {
	userID := uuid.New()

	t.Run("revokes every session", func(t *testing.T) {
		f := createTestUserService(t)
		f.hasher.On("ValidatePasswordStrength", "newpass").Return(nil)
		f.recoveryStore.On("Consume", mock.Anything, "tok").Return(userID, true, nil)
		f.hasher.On("Hash", "newpass").Return("new-hash", nil)
		f.repos.Auth.On("UpdatePasswordHash", mock.Anything, userID, "new-hash").Return(nil)
		f.repos.RefreshToken.On("DeleteRefreshTokensByUserID", mock.Anything, userID).Return(nil)

		require.NoError(t, f.service.ResetPassword(context.Background(), &usecase.ResetPasswordInput{Token: "tok", Password: "newpass"}))
	})

	t.Run("rejects a used token", func(t *testing.T) {
		f := createTestUserService(t)
		f.hasher.On("ValidatePasswordStrength", "newpass").Return(nil)
		f.recoveryStore.On("Consume", mock.Anything, "tok").Return(uuid.Nil, false, nil)

		err := f.service.ResetPassword(context.Background(), &usecase.ResetPasswordInput{Token: "tok", Password: "newpass"})

		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrRecoveryTokenInvalid))
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	userID := uuid.New()

	t.Run("current password mismatch", func(t *testing.T) {
		f := createTestUserService(t)
		f.hasher.On("ValidatePasswordStrength", "newpass").Return(nil)
		f.repos.Auth.On("FindAuthenticationsByUserID", mock.Anything, userID).
			Return([]*entity.Authentication{{PasswordHash: "h1"}, {PasswordHash: ""}}, nil)
		f.hasher.On("Check", "oldpass", "h1").Return(false)

		err := f.service.ChangePassword(context.Background(), &usecase.ChangePasswordInput{
			UserID: userID, CurrentPassword: "oldpass", NewPassword: "newpass",
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	})

	t.Run("without current password keeps sessions", func(t *testing.T) {
		f := createTestUserService(t)
		f.hasher.On("ValidatePasswordStrength", "newpass").Return(nil)
		f.hasher.On("Hash", "newpass").Return("new-hash", nil)
		f.repos.Auth.On("UpdatePasswordHash", mock.Anything, userID, "new-hash").Return(nil)

		err := f.service.ChangePassword(context.Background(), &usecase.ChangePasswordInput{UserID: userID, NewPassword: "newpass"})

		require.NoError(t, err)
		f.repos.RefreshToken.AssertNotCalled(t, "DeleteRefreshTokensByUserID", mock.Anything, mock.Anything)
	})
}

func TestUserService_CleanupExpiredSessions(t *testing.T) {
	f := createTestUserService(t)
	f.repos.RefreshToken.On("DeleteExpiredRefreshTokens", mock.Anything).Return(int64(4), nil)

	removed, err := f.service.CleanupExpiredSessions(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(4), removed)
}

func TestUserService_GetUser_NotFound(t *testing.T) {
	f := createTestUserService(t)
	f.repos.User.On("FindByID", mock.Anything, mock.Anything).Return(nil, repository.ErrUserNotFound)

	_, err := f.service.GetUser(context.Background(), uuid.New())

	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}
