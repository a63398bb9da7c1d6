package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "starmobiles/internal/domain/errors"
	"starmobiles/internal/domain/service"
	"starmobiles/internal/infra/pubsub"
	mockUC "starmobiles/internal/mocks/usecase"
	"starmobiles/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPushHandler(t *testing.T) (*PushHandler, *mockUC.MockNotificationUsecase) {
	notificationUC := mockUC.NewMockNotificationUsecase(t)
	events := NewEventHandler(EventHandlerParams{Logger: newDiscardLogger(), NotificationUC: notificationUC})

	return &PushHandler{logger: newDiscardLogger(), events: events}, notificationUC
}

func pushBody(t *testing.T, data string, attributes map[string]string) []byte {
	t.Helper()

	var msg pubsub.PushMessage
	msg.Message.Data = data
	msg.Message.Attributes = attributes
	msg.Message.MessageID = "1"
	msg.Subscription = "projects/star-mobiles/subscriptions/notifier"
	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	return raw
}

func encodeEvent(t *testing.T, event *service.StoreEvent) string {
	t.Helper()

	raw, err := json.Marshal(event)
	require.NoError(t, err)

	return base64.StdEncoding.EncodeToString(raw)
}

func servePush(h *PushHandler, body []byte) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/push", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	_ = h.HandlePush(e.NewContext(req, rec))

	return rec
}

func testOrderEvent() *service.StoreEvent {
	return &service.StoreEvent{
		Type:         service.EventOrderCreated,
		ResourceID:   "6c0f5d8e-1111-4c3e-9b8e-2f1d7a6c5e41",
		UserID:       "0b6f3c1e-5d0a-4c3e-9b8e-2f1d7a6c5e41",
		Status:       "pending",
		Title:        "Samsung Galaxy S24",
		CustomerName: "Asha",
		OccurredAt:   1775037600,
	}
}

func TestPushHandler_HandlePush(t *testing.T) {
	h, notificationUC := newTestPushHandler(t)
	event := testOrderEvent()

	notificationUC.On("HandleStoreEvent", mock.Anything, mock.MatchedBy(func(got *service.StoreEvent) bool {
		return got.Type == service.EventOrderCreated && got.ResourceID == event.ResourceID
	})).Return(&usecase.NotificationResult{Sent: 1, AdminNotified: true}, nil).Once()

	rec := servePush(h, pushBody(t, encodeEvent(t, event), map[string]string{"request_id": "req-1"}))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPushHandler_HandlePush_Failures(t *testing.T) {
	t.Run("transient failure asks for redelivery", func(t *testing.T) {
		h, notificationUC := newTestPushHandler(t)
		notificationUC.On("HandleStoreEvent", mock.Anything, mock.Anything).
			Return(nil, errors.New("fcm unavailable")).Once()

		rec := servePush(h, pushBody(t, encodeEvent(t, testOrderEvent()), nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("invalid event is acknowledged", func(t *testing.T) {
		h, notificationUC := newTestPushHandler(t)
		notificationUC.On("HandleStoreEvent", mock.Anything, mock.Anything).
			Return(nil, domainerrors.ErrValidationFailed).Once()

		rec := servePush(h, pushBody(t, encodeEvent(t, testOrderEvent()), nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("bad base64", func(t *testing.T) {
		h, _ := newTestPushHandler(t)

		rec := servePush(h, pushBody(t, "%%%", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("payload is not an event", func(t *testing.T) {
		h, _ := newTestPushHandler(t)

		rec := servePush(h, pushBody(t, base64.StdEncoding.EncodeToString([]byte("not json")), nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejected token", func(t *testing.T) {
		h, _ := newTestPushHandler(t)
		h.verify = func(*http.Request) error { return errors.New("missing authorization header") }

		rec := servePush(h, pushBody(t, encodeEvent(t, testOrderEvent()), nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestExtractRequestID(t *testing.T) {
	event := &service.StoreEvent{RequestID: "from-event"}

	assert.Equal(t, "from-attr", extractRequestID(t.Context(), map[string]string{"request_id": "from-attr"}, event))
	assert.Equal(t, "from-event", extractRequestID(t.Context(), nil, event))
	assert.Empty(t, extractRequestID(t.Context(), nil, &service.StoreEvent{}))
}

func TestEventHandler_Handle_ClassifiesErrors(t *testing.T) {
	notificationUC := mockUC.NewMockNotificationUsecase(t)
	h := NewEventHandler(EventHandlerParams{Logger: newDiscardLogger(), NotificationUC: notificationUC})

	notificationUC.On("HandleStoreEvent", mock.Anything, mock.Anything).Return(nil, domainerrors.ErrInternalError).Once()
	err := h.Handle(t.Context(), "", testOrderEvent())
	assert.True(t, IsRetryableError(err))

	notificationUC.On("HandleStoreEvent", mock.Anything, mock.Anything).Return(nil, domainerrors.ErrValidationFailed).Once()
	err = h.Handle(t.Context(), "req-2", testOrderEvent())
	require.Error(t, err)
	assert.False(t, IsRetryableError(err))
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}
