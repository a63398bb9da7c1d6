package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	deliverycontext "starmobiles/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		reused   bool
	}{
		{name: "reuses caller id", incoming: "checkout-42", reused: true},
		{name: "mints when absent"},
		{name: "mints when oversized", incoming: strings.Repeat("x", maxRequestIDLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			m := NewRequestIDMiddleware(slog.New(slog.NewTextHandler(&buf, nil)))

			req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			if tt.incoming != "" {
				req.Header.Set(echo.HeaderXRequestID, tt.incoming)
			}
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(req, rec)

			var seen string
			err := m.Process(func(c echo.Context) error {
				ctx := c.Request().Context()
				seen = deliverycontext.GetRequestIDFromContext(ctx)
				deliverycontext.GetLoggerOrDefault(ctx, nil).Info("handled")

				return nil
			})(c)
			require.NoError(t, err)

			assert.Equal(t, seen, rec.Header().Get(echo.HeaderXRequestID))
			assert.Contains(t, buf.String(), "request_id="+seen)
			if tt.reused {
				assert.Equal(t, tt.incoming, seen)
			} else {
				_, err := uuid.Parse(seen)
				assert.NoError(t, err)
			}
		})
	}
}

func TestWithUserTagsLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))
	userID := uuid.New()

	ctx := deliverycontext.WithLogger(t.Context(), base.With(slog.String("request_id", "r1")))
	ctx = deliverycontext.WithUser(ctx, base, userID, true)
	deliverycontext.GetLoggerOrDefault(ctx, base).Info("order placed")

	out := buf.String()
	assert.Contains(t, out, "request_id=r1")
	assert.Contains(t, out, "user_id="+userID.String())
	assert.Contains(t, out, "admin=true")
}
