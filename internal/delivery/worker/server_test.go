package worker

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"starmobiles/config"
	"starmobiles/internal/delivery/worker/handler"

	"github.com/stretchr/testify/assert"
)

func TestPushEcho(t *testing.T) {
	cfg := &config.Config{PubSub: &config.PubSubConfig{Provider: "kafka"}}
	e := newPushEcho(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), &handler.PushHandler{})

	t.Run("health names provider", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok","provider":"kafka"}`, rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	})

	t.Run("oversized push rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		body := bytes.Repeat([]byte("a"), 512*1024)
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/push", bytes.NewReader(body)))

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}
