package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"starmobiles/internal/delivery/api/middleware"
	"starmobiles/internal/delivery/api/response"
	"starmobiles/internal/delivery/api/validator"
	"starmobiles/internal/domain/entity"
	"starmobiles/internal/domain/service"
	mockSvc "starmobiles/internal/mocks/service"
	"starmobiles/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const (
	customerToken = "customer-token"
	adminToken    = "admin-token"
)

var (
	customerID = uuid.MustParse("0b6f3c1e-5d0a-4c3e-9b8e-2f1d7a6c5e41")
	adminID    = uuid.MustParse("6a1d2e3f-7b8c-4d9e-8f0a-1b2c3d4e5f60")
)

type testServer struct {
	e    *echo.Echo
	auth *middleware.AuthMiddleware
}

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer wires the relay's validator and error handler with an auth
// middleware that knows one customer and one admin token.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	tokenSvc := mockSvc.NewMockTokenService(t)
	tokenSvc.On("ValidateAccessToken", customerToken).Return(&service.Claims{UserID: customerID, Roles: []string{"user"}}, nil).Maybe()
	tokenSvc.On("ValidateAccessToken", adminToken).Return(&service.Claims{UserID: adminID, Roles: []string{"user", "admin"}}, nil).Maybe()

	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(newDiscardLogger()).HandleHTTPError

	return &testServer{e: e, auth: middleware.NewAuthMiddleware(tokenSvc)}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	return rec
}

// envelope decodes a response and re-decodes its data into out when non-nil.
func envelope(t *testing.T, rec *httptest.ResponseRecorder, out any) response.Response {
	t.Helper()

	var raw struct {
		response.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw), rec.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(raw.Data, out))
	}

	return raw.Response
}

func customerActor() usecase.Actor {
	return usecase.Actor{UserID: customerID, Roles: entity.Roles{entity.RoleUser}}
}

func adminActor() usecase.Actor {
	return usecase.Actor{UserID: adminID, Roles: entity.Roles{entity.RoleUser, entity.RoleAdmin}}
}
