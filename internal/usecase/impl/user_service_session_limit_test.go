package impl

import (
	"context"
	"sync"
	"sync/atomic"
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

// rowLockTxManager runs one transaction at a time, which is what
// AcquireSessionMutex (SELECT ... FOR UPDATE on the user row) gives a
// single shopper's logins.
type rowLockTxManager struct {
	mu      sync.Mutex
	factory repository.RepositoryFactory
}

func (tm *rowLockTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	return fn(tm.factory)
}

// countingRefreshRepo keeps a live count so the limit check sees earlier inserts.
type countingRefreshRepo struct {
	*mockRepo.MockRefreshTokenRepository

	mu     sync.Mutex
	active map[uuid.UUID]int
}

func (r *countingRefreshRepo) CreateRefreshToken(_ context.Context, token *entity.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active[token.UserID]++

	return nil
}

func (r *countingRefreshRepo) CountActiveSessionsByUserID(_ context.Context, userID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.active[userID], nil
}

type sessionLimitFixture struct {
	service usecase.UserUsecase
	user    *entity.User
	users   *mockRepo.MockUserRepository
	refresh *countingRefreshRepo
}

func newSessionLimitFixture(t *testing.T, maxActiveSessions int) *sessionLimitFixture {
	t.Helper()

	userID := uuid.New()
	user := &entity.User{
		ID:       userID,
		Email:    "asha@example.com",
		Metadata: entity.UserMetadata{Name: "Asha"},
		Profile:  &entity.Profile{ID: userID, Name: "Asha", Email: "asha@example.com", Role: entity.RoleUser},
	}

	users := mockRepo.NewMockUserRepository(t)
	users.On("FindByID", mock.Anything, userID).Return(user, nil)
	users.On("AcquireSessionMutex", mock.Anything, userID).Return(nil)

	auths := mockRepo.NewMockAuthRepository(t)
	auths.On("FindAuthentication", mock.Anything, entity.ProviderEmail, "asha@example.com").Return(&entity.Authentication{
		UserID:         userID,
		Provider:       entity.ProviderEmail,
		ProviderUserID: "asha@example.com",
		PasswordHash:   "hashed-secret1",
	}, nil)

	refresh := &countingRefreshRepo{
		MockRefreshTokenRepository: mockRepo.NewMockRefreshTokenRepository(t),
		active:                     make(map[uuid.UUID]int),
	}

	hasher := mockSvc.NewMockPasswordHasher(t)
	hasher.On("Check", "secret1", "hashed-secret1").Return(true)

	tokens := mockSvc.NewMockTokenService(t)
	tokens.On("GenerateAccessToken", userID, mock.Anything).Return("access", time.Now().Add(time.Hour), nil).Maybe()
	tokens.On("GenerateRefreshToken").Return("refresh", nil).Maybe()
	tokens.On("HashRefreshToken", mock.Anything).Return("hash").Maybe()
	tokens.On("GetAccessTokenDuration").Return(time.Hour).Maybe()
	tokens.On("GetRefreshTokenDuration").Return(24 * time.Hour).Maybe()

	txManager := &rowLockTxManager{factory: &sessionLimitFactory{users: users, auths: auths, refresh: refresh}}
	svc := NewUserService(UserServiceParams{
		TxManager:        txManager,
		UserRepo:         users,
		RefreshTokenRepo: refresh,
		Hasher:           hasher,
		TokenService:     tokens,
		Config:           newTestConfig(maxActiveSessions),
		Logger:           newDiscardLogger(),
	})

	return &sessionLimitFixture{service: svc, user: user, users: users, refresh: refresh}
}

type sessionLimitFactory struct {
	users   repository.UserRepository
	auths   repository.AuthRepository
	refresh repository.RefreshTokenRepository
}

func (f *sessionLimitFactory) UserRepo() repository.UserRepository                 { return f.users }
func (f *sessionLimitFactory) AuthRepo() repository.AuthRepository                 { return f.auths }
func (f *sessionLimitFactory) RefreshTokenRepo() repository.RefreshTokenRepository { return f.refresh }
func (f *sessionLimitFactory) CartRepo() repository.CartRepository                 { return nil }
func (f *sessionLimitFactory) OrderRepo() repository.OrderRepository               { return nil }

func TestUserService_Login_EnforcesSessionLimit(t *testing.T) {
	f := newSessionLimitFixture(t, 1)
	ctx := context.Background()
	input := &usecase.LoginInput{Email: "Asha@Example.com", Password: "secret1"}

	first, err := f.service.Login(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, first.Session.User.ID)

	second, err := f.service.Login(ctx, input)
	assert.Nil(t, second)
	assert.True(t, errors.Is(err, domainerrors.ErrSessionLimitExceeded))

	n, _ := f.refresh.CountActiveSessionsByUserID(ctx, f.user.ID)
	assert.Equal(t, 1, n)
	f.users.AssertNumberOfCalls(t, "AcquireSessionMutex", 2)
}

func TestUserService_Login_EnforcesSessionLimit_Concurrent(t *testing.T) {
	const (
		maxActiveSessions = 3
		logins            = 12
	)
	f := newSessionLimitFixture(t, maxActiveSessions)
	input := &usecase.LoginInput{Email: "asha@example.com", Password: "secret1"}

	var (
		wg                  sync.WaitGroup
		ok, limited, failed atomic.Int64
	)
	for range logins {
		wg.Add(1)
		go func() {
			defer wg.Done()

			out, err := f.service.Login(context.Background(), input)
			switch {
			case err == nil && out != nil:
				ok.Add(1)
			case errors.Is(err, domainerrors.ErrSessionLimitExceeded):
				limited.Add(1)
			default:
				failed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(maxActiveSessions), ok.Load())
	assert.Equal(t, int64(logins-maxActiveSessions), limited.Load())
	assert.Zero(t, failed.Load())

	n, _ := f.refresh.CountActiveSessionsByUserID(context.Background(), f.user.ID)
	assert.Equal(t, maxActiveSessions, n)
}
