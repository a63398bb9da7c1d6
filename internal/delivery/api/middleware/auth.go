package middleware

import (
	"log/slog"
	"strings"

	"starmobiles/internal/delivery/api/response"
	deliverycontext "starmobiles/internal/delivery/context"
	"starmobiles/internal/domain/entity"
	"starmobiles/internal/domain/service"
	"starmobiles/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	contextKeyUserID = "userID"
	contextKeyRoles  = "roles"
)

// AuthMiddleware validates bearer access tokens and enforces roles.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the access token and stores the caller on the context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return response.Unauthorized(c, "UNAUTHORIZED", "Authorization header is missing")
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenString == "" {
			return response.Unauthorized(c, "UNAUTHORIZED", "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.ValidateAccessToken(tokenString)
		if err != nil || claims.UserID == uuid.Nil {
			return response.Unauthorized(c, "UNAUTHORIZED", "Invalid or expired token")
		}

		roles := entity.RolesFromStrings(claims.Roles)
		c.Set(contextKeyUserID, claims.UserID)
		c.Set(contextKeyRoles, roles)

		ctx := deliverycontext.WithUser(c.Request().Context(), slog.Default(), claims.UserID, roles.Contains(entity.RoleAdmin))
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// RequireRole checks the caller's roles. It must run after Authenticate.
func (m *AuthMiddleware) RequireRole(requiredRole entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !GetRoles(c).Contains(requiredRole) {
				return response.Forbidden(c, "FORBIDDEN", "Permission denied: require '"+requiredRole.String()+"' role")
			}

			return next(c)
		}
	}
}

// GetUserID returns the authenticated user ID.
func GetUserID(c echo.Context) (uuid.UUID, bool) {
	userID, ok := c.Get(contextKeyUserID).(uuid.UUID)

	return userID, ok && userID != uuid.Nil
}

// GetRoles returns the authenticated caller's roles.
func GetRoles(c echo.Context) entity.Roles {
	roles, _ := c.Get(contextKeyRoles).(entity.Roles)

	return roles
}

// GetActor returns the authenticated caller as a usecase actor.
func GetActor(c echo.Context) (usecase.Actor, bool) {
	userID, ok := GetUserID(c)
	if !ok {
		return usecase.Actor{}, false
	}

	return usecase.Actor{UserID: userID, Roles: GetRoles(c)}, true
}
