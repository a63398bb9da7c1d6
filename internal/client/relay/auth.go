package relay

import (
	"context"
	"net/http"

	"starmobiles/internal/delivery/api/dto"
)

func (c *Client) Login(ctx context.Context, req dto.LoginRequest) Result[*dto.AuthResponse] {
	return call[*dto.AuthResponse](ctx, c, request{method: http.MethodPost, path: "/auth/login", body: req})
}

func (c *Client) Signup(ctx context.Context, req dto.SignupRequest) Result[*dto.AuthResponse] {
	return call[*dto.AuthResponse](ctx, c, request{method: http.MethodPost, path: "/auth/signup", body: req})
}

// RefreshToken exchanges a refresh token for a new session. The old token
// is revoked by the relay.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) Result[*dto.AuthResponse] {
	return call[*dto.AuthResponse](ctx, c, request{
		method: http.MethodPost,
		path:   "/auth/token",
		body:   dto.TokenRequest{RefreshToken: refreshToken},
	})
}

func (c *Client) Logout(ctx context.Context, token string, req dto.LogoutRequest) Result[Empty] {
	return call[Empty](ctx, c, request{method: http.MethodPost, path: "/auth/logout", token: token, body: req})
}

func (c *Client) SendOTP(ctx context.Context, phone string) Result[Empty] {
	return call[Empty](ctx, c, request{method: http.MethodPost, path: "/auth/otp", body: dto.OTPRequest{Phone: phone}})
}

func (c *Client) VerifyOTP(ctx context.Context, req dto.VerifyOTPRequest) Result[*dto.AuthResponse] {
	return call[*dto.AuthResponse](ctx, c, request{method: http.MethodPost, path: "/auth/verify", body: req})
}

func (c *Client) Recover(ctx context.Context, email string) Result[Empty] {
	return call[Empty](ctx, c, request{method: http.MethodPost, path: "/auth/recover", body: dto.RecoverRequest{Email: email}})
}

func (c *Client) RecoverConfirm(ctx context.Context, req dto.RecoverConfirmRequest) Result[Empty] {
	return call[Empty](ctx, c, request{method: http.MethodPost, path: "/auth/recover/confirm", body: req})
}

func (c *Client) GetUser(ctx context.Context, token string) Result[*dto.User] {
	return call[*dto.User](ctx, c, request{method: http.MethodGet, path: "/auth/user", token: token})
}

func (c *Client) UpdateUser(ctx context.Context, token string, req dto.UpdateUserRequest) Result[Empty] {
	return call[Empty](ctx, c, request{method: http.MethodPut, path: "/auth/user", token: token, body: req})
}

func (c *Client) GetProfile(ctx context.Context, token string) Result[*dto.Profile] {
	return call[*dto.Profile](ctx, c, request{method: http.MethodGet, path: "/auth/profile", token: token})
}

func (c *Client) UpdateProfile(ctx context.Context, token string, req dto.UpdateProfileRequest) Result[*dto.Profile] {
	return call[*dto.Profile](ctx, c, request{method: http.MethodPut, path: "/auth/profile", token: token, body: req})
}
