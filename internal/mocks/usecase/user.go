package usecase

import (
	"context"

	"starmobiles/internal/domain/entity"
	"starmobiles/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUserUsecase struct {
	mock.Mock
}

func NewMockUserUsecase(t testingT) *MockUserUsecase {
	m := &MockUserUsecase{}
	register(&m.Mock, t)

	return m
}

func (m *MockUserUsecase) authOutput(args mock.Arguments) (*usecase.AuthOutput, error) {
	out, _ := args.Get(0).(*usecase.AuthOutput)

	return out, args.Error(1)
}

func (m *MockUserUsecase) Signup(ctx context.Context, input *usecase.SignupInput) (*usecase.AuthOutput, error) {
	return m.authOutput(m.Called(ctx, input))
}

func (m *MockUserUsecase) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	return m.authOutput(m.Called(ctx, input))
}

func (m *MockUserUsecase) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.AuthOutput, error) {
	return m.authOutput(m.Called(ctx, input))
}

func (m *MockUserUsecase) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *MockUserUsecase) SendOTP(ctx context.Context, phone string) error {
	return m.Called(ctx, phone).Error(0)
}

func (m *MockUserUsecase) VerifyOTP(ctx context.Context, input *usecase.VerifyOTPInput) (*usecase.AuthOutput, error) {
	return m.authOutput(m.Called(ctx, input))
}

func (m *MockUserUsecase) RequestRecovery(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockUserUsecase) ResetPassword(ctx context.Context, input *usecase.ResetPasswordInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *MockUserUsecase) ChangePassword(ctx context.Context, input *usecase.ChangePasswordInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *MockUserUsecase) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserUsecase) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	n, _ := args.Get(0).(int64)

	return n, args.Error(1)
}

type MockProfileUsecase struct {
	mock.Mock
}

func NewMockProfileUsecase(t testingT) *MockProfileUsecase {
	m := &MockProfileUsecase{}
	register(&m.Mock, t)

	return m
}

func (m *MockProfileUsecase) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	args := m.Called(ctx, userID)
	profile, _ := args.Get(0).(*entity.Profile)

	return profile, args.Error(1)
}

func (m *MockProfileUsecase) UpdateProfile(ctx context.Context, userID uuid.UUID, patch entity.ProfilePatch) (*entity.Profile, error) {
	args := m.Called(ctx, userID, patch)
	profile, _ := args.Get(0).(*entity.Profile)

	return profile, args.Error(1)
}
