package middleware

import (
	"crypto/subtle"

	"starmobiles/config"
	"starmobiles/internal/delivery/api/response"

	"github.com/labstack/echo/v4"
)

// HeaderAPIKey carries the anon or service key on every /api request.
const HeaderAPIKey = "apikey"

// APIKeyMiddleware rejects requests that do not carry one of the relay keys.
type APIKeyMiddleware struct {
	keys [][]byte
}

// NewAPIKeyMiddleware builds the middleware from the configured keys. With
// no key configured every request passes, which is the local development setup.
func NewAPIKeyMiddleware(cfg *config.Config) *APIKeyMiddleware {
	m := &APIKeyMiddleware{}
	for _, key := range []string{cfg.APIKeys.Anon, cfg.APIKeys.Service} {
		if key != "" {
			m.keys = append(m.keys, []byte(key))
		}
	}

	return m
}

// Check validates the apikey header.
func (m *APIKeyMiddleware) Check(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if len(m.keys) == 0 {
			return next(c)
		}

		got := []byte(c.Request().Header.Get(HeaderAPIKey))
		for _, key := range m.keys {
			if subtle.ConstantTimeCompare(got, key) == 1 {
				return next(c)
			}
		}

		return response.Unauthorized(c, "INVALID_API_KEY", "Invalid API key")
	}
}
