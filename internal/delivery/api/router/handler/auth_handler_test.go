package handler

import (
	"net/http"
	"testing"
	"time"

	"starmobiles/internal/delivery/api/dto"
	"starmobiles/internal/domain/entity"
	domainerrors "starmobiles/internal/domain/errors"
	mockUC "starmobiles/internal/mocks/usecase"
	"starmobiles/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authTestServer struct {
	*testServer
	userUC    *mockUC.MockUserUsecase
	profileUC *mockUC.MockProfileUsecase
}

func newAuthTestServer(t *testing.T) *authTestServer {
	s := &authTestServer{
		testServer: newTestServer(t),
		userUC:     mockUC.NewMockUserUsecase(t),
		profileUC:  mockUC.NewMockProfileUsecase(t),
	}
	h := NewAuthHandler(AuthHandlerParams{UserUC: s.userUC, ProfileUC: s.profileUC, Logger: newDiscardLogger()})

	g := s.e.Group("/api/auth")
	g.POST("/login", h.Login)
	g.POST("/signup", h.Signup)
	g.POST("/logout", h.Logout, s.auth.Authenticate)
	g.PUT("/user", h.UpdateUser, s.auth.Authenticate)
	g.GET("/profile", h.GetProfile, s.auth.Authenticate)
	g.PUT("/profile", h.UpdateProfile, s.auth.Authenticate)

	return s
}

func testAuthOutput() *usecase.AuthOutput {
	user := &entity.User{
		ID:        customerID,
		Email:     "asha@example.com",
		Metadata:  entity.UserMetadata{Name: "Asha"},
		CreatedAt: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
	}

	return &usecase.AuthOutput{
		Session: &entity.Session{
			AccessToken:  "access",
			RefreshToken: "refresh",
			TokenType:    "bearer",
			ExpiresIn:    3600,
			ExpiresAt:    1775037600,
			User:         user,
		},
		Profile: &entity.Profile{ID: customerID, Name: "Asha", Email: "asha@example.com", Role: entity.RoleUser},
	}
}

func TestAuthHandler_Login(t *testing.T) {
	s := newAuthTestServer(t)
	s.userUC.On("Login", mock.Anything, &usecase.LoginInput{Email: "asha@example.com", Password: "secret1"}).
		Return(testAuthOutput(), nil).Once()

	rec := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "asha@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out dto.AuthResponse
	resp := envelope(t, rec, &out)
	assert.Equal(t, "Login successful", resp.Message)
	require.NotNil(t, out.Session)
	assert.Equal(t, "refresh", out.Session.RefreshToken)
	assert.Equal(t, customerID, out.User.ID)
	assert.Equal(t, "Asha", out.User.UserMetadata.Name)
	assert.Equal(t, "user", out.Profile.Role)
}

func TestAuthHandler_Login_Failures(t *testing.T) {
	t.Run("invalid credentials", func(t *testing.T) {
		s := newAuthTestServer(t)
		s.userUC.On("Login", mock.Anything, mock.Anything).Return(nil, domainerrors.ErrInvalidCredentials).Once()

		rec := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "asha@example.com", "password": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		resp := envelope(t, rec, nil)
		assert.False(t, resp.Success)
		assert.Equal(t, "Invalid credentials", resp.Message)
	})

	t.Run("neither email nor phone", func(t *testing.T) {
		s := newAuthTestServer(t)

		rec := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"password": "secret1"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_FAILED", envelope(t, rec, nil).Error.Code)
	})
}

func TestAuthHandler_Signup(t *testing.T) {
	s := newAuthTestServer(t)

	rec := s.do(http.MethodPost, "/api/auth/signup", "", map[string]string{"name": "Asha", "email": "asha@example.com", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s.userUC.On("Signup", mock.Anything, &usecase.SignupInput{Name: "Asha", Phone: "9876543210", Password: "secret1"}).
		Return(testAuthOutput(), nil).Once()

	rec = s.do(http.MethodPost, "/api/auth/signup", "", map[string]string{"name": "Asha", "phone": "9876543210", "password": "secret1"})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestAuthHandler_Logout_DefaultsToLocalScope(t *testing.T) {
	s := newAuthTestServer(t)
	s.userUC.On("Logout", mock.Anything, &usecase.LogoutInput{
		UserID:       customerID,
		RefreshToken: "refresh",
		Scope:        usecase.LogoutScopeLocal,
	}).Return(nil).Once()

	rec := s.do(http.MethodPost, "/api/auth/logout", customerToken, map[string]string{"refresh_token": "refresh"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_UpdateUser(t *testing.T) {
	s := newAuthTestServer(t)
	s.userUC.On("ChangePassword", mock.Anything, &usecase.ChangePasswordInput{
		UserID:          customerID,
		CurrentPassword: "secret1",
		NewPassword:     "secret2",
	}).Return(nil).Once()

	rec := s.do(http.MethodPut, "/api/auth/user", customerToken, map[string]string{"current_password": "secret1", "password": "secret2"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestAuthHandler_Profile(t *testing.T) {
	s := newAuthTestServer(t)
	address := "12 MG Road, Bengaluru"

	s.profileUC.On("GetProfile", mock.Anything, customerID).Return(nil, domainerrors.ErrProfileNotFound).Once()
	rec := s.do(http.MethodGet, "/api/auth/profile", customerToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	s.profileUC.On("UpdateProfile", mock.Anything, customerID, entity.ProfilePatch{Address: &address}).
		Return(&entity.Profile{ID: customerID, Name: "Asha", Role: entity.RoleUser, Address: address}, nil).Once()
	rec = s.do(http.MethodPut, "/api/auth/profile", customerToken, map[string]string{"address": address})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var profile dto.Profile
	envelope(t, rec, &profile)
	assert.Equal(t, address, profile.Address)

	rec = s.do(http.MethodPut, "/api/auth/profile", customerToken, map[string]string{"phone": "12345"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
