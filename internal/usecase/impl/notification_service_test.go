package impl

import (
	"context"
	"fmt"
	"testing"

	"starmobiles/config"
	"starmobiles/internal/domain/entity"
	domainerrors "starmobiles/internal/domain/errors"
	"starmobiles/internal/domain/service"
	mockRepo "starmobiles/internal/mocks/repository"
	mockSvc "starmobiles/internal/mocks/service"
	"starmobiles/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createTestNotificationService(t *testing.T) (
	usecase.NotificationUsecase,
	*mockRepo.MockDeviceRepository,
	*mockSvc.MockNotificationService,
) {
	deviceRepo := mockRepo.NewMockDeviceRepository(t)
	notificationSvc := mockSvc.NewMockNotificationService(t)

	cfg := newTestConfig(0)
	cfg.Firebase = &config.FirebaseConfig{AdminTopic: "shop-admins"}

	svc := NewNotificationService(NotificationServiceParams{
		DeviceRepo:      deviceRepo,
		NotificationSvc: notificationSvc,
		Config:          cfg,
		Logger:          newDiscardLogger(),
	})

	return svc, deviceRepo, notificationSvc
}

func TestNotificationService_OrderCreated_NotifiesAdminTopic(t *testing.T) {
	svc, _, notificationSvc := createTestNotificationService(t)
	ctx := context.Background()

	notificationSvc.On("SendTopicNotification", ctx, "shop-admins", "New order", "Ravi ordered Samsung Galaxy S24",
		mock.MatchedBy(func(data map[string]string) bool {
			return data["type"] == "order.created" && data["resource_id"] == "order-1"
		})).Return(nil).Once()

	result, err := svc.HandleStoreEvent(ctx, &service.StoreEvent{
		Type:         service.EventOrderCreated,
		ResourceID:   "order-1",
		UserID:       uuid.NewString(),
		Status:       string(entity.OrderPendingVerification),
		Title:        "Samsung Galaxy S24",
		CustomerName: "Ravi",
	})
	require.NoError(t, err)
	assert.True(t, result.AdminNotified)
}

func TestNotificationService_StatusChanged_NotifiesCustomerDevices(t *testing.T) {
	svc, deviceRepo, notificationSvc := createTestNotificationService(t)
	ctx := context.Background()
	userID := uuid.New()

	devices := []*entity.UserDevice{
		{ID: uuid.New(), UserID: userID, FCMToken: "token-a"},
		{ID: uuid.New(), UserID: userID, FCMToken: "token-b"},
	}
	deviceRepo.On("FindActiveDevicesByUser", ctx, userID).Return(devices, nil).Once()
	notificationSvc.On("SendBatchNotification", ctx, []string{"token-a", "token-b"},
		"Order update", "Your order for Redmi Note 13 is now advance paid", mock.Anything).
		Return(1, 1, []string{"token-b"}, nil).Once()
	deviceRepo.On("DeactivateTokens", ctx, []string{"token-b"}).Return(nil).Once()

	result, err := svc.HandleStoreEvent(ctx, &service.StoreEvent{
		Type:          service.EventOrderStatusChanged,
		ResourceID:    uuid.NewString(),
		UserID:        userID.String(),
		Status:        string(entity.OrderAdvancePaid),
		PaymentStatus: string(entity.PaymentAdvanceReceived),
		Title:         "Redmi Note 13",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.InvalidTokens)
}

func TestNotificationService_StatusChanged_BatchesTokens(t *testing.T) {
	svc, deviceRepo, notificationSvc := createTestNotificationService(t)
	ctx := context.Background()
	userID := uuid.New()

	devices := make([]*entity.UserDevice, firebaseBatchSize+3)
	for i := range devices {
		devices[i] = &entity.UserDevice{ID: uuid.New(), UserID: userID, FCMToken: fmt.Sprintf("token-%d", i)}
	}
	deviceRepo.On("FindActiveDevicesByUser", ctx, userID).Return(devices, nil).Once()
	notificationSvc.On("SendBatchNotification", ctx, mock.MatchedBy(func(tokens []string) bool {
		return len(tokens) == firebaseBatchSize
	}), "Repair update", "Your Apple iPhone 13 repair is now in progress", mock.Anything).
		Return(0, 0, nil, errors.New("quota exceeded")).Once()
	notificationSvc.On("SendBatchNotification", ctx, mock.MatchedBy(func(tokens []string) bool {
		return len(tokens) == 3
	}), mock.Anything, mock.Anything, mock.Anything).
		Return(3, 0, nil, nil).Once()

	result, err := svc.HandleStoreEvent(ctx, &service.StoreEvent{
		Type:   service.EventBookingStatusChanged,
		UserID: userID.String(),
		Status: string(entity.BookingInProgress),
		Title:  "Apple iPhone 13",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Sent)
	assert.Equal(t, firebaseBatchSize, result.Failed)
}

func TestNotificationService_StatusChanged_NoDevices(t *testing.T) {
	svc, deviceRepo, _ := createTestNotificationService(t)
	ctx := context.Background()
	userID := uuid.New()

	deviceRepo.On("FindActiveDevicesByUser", ctx, userID).Return([]*entity.UserDevice{}, nil).Once()

	result, err := svc.HandleStoreEvent(ctx, &service.StoreEvent{
		Type:   service.EventOrderStatusChanged,
		UserID: userID.String(),
		Status: string(entity.OrderCancelled),
	})
	require.NoError(t, err)
	assert.Zero(t, result.Sent)
}

func TestNotificationService_RejectsBadEvents(t *testing.T) {
	svc, _, _ := createTestNotificationService(t)
	ctx := context.Background()

	_, err := svc.HandleStoreEvent(ctx, &service.StoreEvent{Type: "order.deleted"})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = svc.HandleStoreEvent(ctx, &service.StoreEvent{Type: service.EventOrderStatusChanged, UserID: "nope"})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}
