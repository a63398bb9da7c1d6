package handler

import (
	"log/slog"
	"net/http"

	"starmobiles/internal/delivery/api/dto"
	"starmobiles/internal/delivery/api/middleware"
	"starmobiles/internal/delivery/api/response"
	"starmobiles/internal/domain/entity"
	"starmobiles/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	UserUC    usecase.UserUsecase
	ProfileUC usecase.ProfileUsecase
	Logger    *slog.Logger
}

// AuthHandler serves the auth provider and profile endpoints.
type AuthHandler struct {
	userUC    usecase.UserUsecase
	profileUC usecase.ProfileUsecase
	logger    *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler.
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		userUC:    params.UserUC,
		profileUC: params.ProfileUC,
		logger:    params.Logger,
	}
}

// Login handles password sign-in with an email or a phone.
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	output, err := h.userUC.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, dto.FromAuthOutput(output.Session, output.Profile), "Login successful")
}

// Signup handles account registration.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req dto.SignupRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	output, err := h.userUC.Signup(c.Request().Context(), &usecase.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, dto.FromAuthOutput(output.Session, output.Profile), "Account created successfully")
}

// Token handles the refresh token grant.
func (h *AuthHandler) Token(c echo.Context) error {
	var req dto.TokenRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid refresh token input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	output, err := h.userUC.RefreshToken(c.Request().Context(), &usecase.RefreshTokenInput{RefreshToken: req.RefreshToken})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, dto.FromAuthOutput(output.Session, output.Profile), "Token refreshed successfully")
}

// Logout revokes the caller's refresh tokens.
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	var req dto.LogoutRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid logout input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	scope := req.Scope
	if scope == "" {
		scope = usecase.LogoutScopeLocal
	}

	if err := h.userUC.Logout(c.Request().Context(), &usecase.LogoutInput{
		UserID:       userID,
		RefreshToken: req.RefreshToken,
		Scope:        scope,
	}); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Logout successful")
}

// SendOTP texts a one-time code.
func (h *AuthHandler) SendOTP(c echo.Context) error {
	var req dto.OTPRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid OTP input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := h.userUC.SendOTP(c.Request().Context(), req.Phone); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "OTP sent")
}

// VerifyOTP signs in with a one-time code.
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req dto.VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid OTP input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	output, err := h.userUC.VerifyOTP(c.Request().Context(), &usecase.VerifyOTPInput{Phone: req.Phone, Code: req.Token})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, dto.FromAuthOutput(output.Session, output.Profile), "Login successful")
}

// Recover starts a password recovery. The answer is the same whether or
// not the email is registered.
func (h *AuthHandler) Recover(c echo.Context) error {
	var req dto.RecoverRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid recovery input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := h.userUC.RequestRecovery(c.Request().Context(), req.Email); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Password reset email sent")
}

// RecoverConfirm sets a new password from a recovery token.
func (h *AuthHandler) RecoverConfirm(c echo.Context) error {
	var req dto.RecoverConfirmRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid recovery input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := h.userUC.ResetPassword(c.Request().Context(), &usecase.ResetPasswordInput{
		Token:    req.Token,
		Password: req.Password,
	}); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Password updated successfully")
}

// GetUser resolves the bearer token to its user.
func (h *AuthHandler) GetUser(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	user, err := h.userUC.GetUser(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, dto.FromUser(user))
}

// UpdateUser changes the caller's password.
func (h *AuthHandler) UpdateUser(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	var req dto.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid user input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := h.userUC.ChangePassword(c.Request().Context(), &usecase.ChangePasswordInput{
		UserID:          userID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.Password,
	}); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Password updated successfully")
}

// GetProfile returns the caller's authoritative profile.
func (h *AuthHandler) GetProfile(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	profile, err := h.profileUC.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, dto.FromProfile(profile))
}

// UpdateProfile applies a partial update to the caller's profile.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	var req dto.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid profile input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	profile, err := h.profileUC.UpdateProfile(c.Request().Context(), userID, entity.ProfilePatch{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, dto.FromProfile(profile), "Profile updated successfully")
}
