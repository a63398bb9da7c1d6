package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"starmobiles/config"
	deliverycontext "starmobiles/internal/delivery/context"
	"starmobiles/internal/domain/entity"
	domainerrors "starmobiles/internal/domain/errors"
	"starmobiles/internal/domain/repository"
	"starmobiles/internal/domain/service"
	"starmobiles/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	// Firebase batch size limit
	firebaseBatchSize = 500

	defaultAdminTopic = "starmobiles-admin"
)

type notificationService struct {
	deviceRepo      repository.DeviceRepository
	notificationSvc service.NotificationService
	adminTopic      string
	logger          *slog.Logger
}

// NotificationServiceParams holds dependencies for NotificationService, injected by Fx.
type NotificationServiceParams struct {
	fx.In

	DeviceRepo      repository.DeviceRepository
	NotificationSvc service.NotificationService
	Config          *config.Config
	Logger          *slog.Logger
}

// NewNotificationService creates a new notification service instance
func NewNotificationService(params NotificationServiceParams) usecase.NotificationUsecase {
	adminTopic := defaultAdminTopic
	if params.Config != nil && params.Config.Firebase != nil && params.Config.Firebase.AdminTopic != "" {
		adminTopic = params.Config.Firebase.AdminTopic
	}

	return &notificationService{
		deviceRepo:      params.DeviceRepo,
		notificationSvc: params.NotificationSvc,
		adminTopic:      adminTopic,
		logger:          params.Logger,
	}
}

func (s *notificationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

func (s *notificationService) HandleStoreEvent(ctx context.Context, event *service.StoreEvent) (*usecase.NotificationResult, error) {
	switch event.Type {
	case service.EventOrderCreated, service.EventBookingCreated:
		return s.notifyAdmins(ctx, event)
	case service.EventOrderStatusChanged, service.EventBookingStatusChanged:
		return s.notifyCustomer(ctx, event)
	default:
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown event type " + string(event.Type))
	}
}

func (s *notificationService) notifyAdmins(ctx context.Context, event *service.StoreEvent) (*usecase.NotificationResult, error) {
	var title, body string
	if event.Type == service.EventOrderCreated {
		title = "New order"
		body = fmt.Sprintf("%s ordered %s", event.CustomerName, event.Title)
	} else {
		title = "New repair booking"
		body = fmt.Sprintf("%s booked a repair for %s", event.CustomerName, event.Title)
	}

	if err := s.notificationSvc.SendTopicNotification(ctx, s.adminTopic, title, body, eventData(event)); err != nil {
		return nil, errors.Wrap(err, "failed to notify admin topic")
	}
	s.log(ctx).Info("Admin notified", slog.String("type", string(event.Type)), slog.String("resourceID", event.ResourceID))

	return &usecase.NotificationResult{AdminNotified: true}, nil
}

func (s *notificationService) notifyCustomer(ctx context.Context, event *service.StoreEvent) (*usecase.NotificationResult, error) {
	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("event user id is not a uuid")
	}

	devices, err := s.deviceRepo.FindActiveDevicesByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch devices")
	}

	result := &usecase.NotificationResult{}
	if len(devices) == 0 {
		return result, nil
	}

	tokens := make([]string, 0, len(devices))
	for _, device := range devices {
		tokens = append(tokens, device.FCMToken)
	}

	title, body := customerMessage(event)
	data := eventData(event)

	var invalidTokens []string
	for i := 0; i < len(tokens); i += firebaseBatchSize {
		end := min(i+firebaseBatchSize, len(tokens))
		batch := tokens[i:end]

		sent, failed, batchInvalid, err := s.notificationSvc.SendBatchNotification(ctx, batch, title, body, data)
		if err != nil {
			// A failed batch does not stop the rest.
			s.log(ctx).Warn("Failed to send notification batch", slog.Int("size", len(batch)), slog.Any("error", err))
			result.Failed += len(batch)

			continue
		}

		result.Sent += sent
		result.Failed += failed
		invalidTokens = append(invalidTokens, batchInvalid...)
	}

	if len(invalidTokens) > 0 {
		result.InvalidTokens = len(invalidTokens)
		if err := s.deviceRepo.DeactivateTokens(ctx, invalidTokens); err != nil {
			s.log(ctx).Warn("Failed to deactivate invalid tokens", slog.Int("count", len(invalidTokens)), slog.Any("error", err))
		}
	}

	s.log(ctx).Info("Customer notified",
		slog.Any("userID", userID),
		slog.String("type", string(event.Type)),
		slog.Int("sent", result.Sent),
		slog.Int("failed", result.Failed))

	return result, nil
}

func customerMessage(event *service.StoreEvent) (title, body string) {
	status := humanizeStatus(event.Status)

	if event.Type == service.EventOrderStatusChanged {
		if event.Status == string(entity.OrderCancelled) {
			return "Order cancelled", fmt.Sprintf("Your order for %s was cancelled", event.Title)
		}

		return "Order update", fmt.Sprintf("Your order for %s is now %s", event.Title, status)
	}

	return "Repair update", fmt.Sprintf("Your %s repair is now %s", event.Title, status)
}

func humanizeStatus(status string) string {
	return strings.ReplaceAll(status, "_", " ")
}

func eventData(event *service.StoreEvent) map[string]string {
	data := map[string]string{
		"type":        string(event.Type),
		"resource_id": event.ResourceID,
		"status":      event.Status,
	}
	if event.PaymentStatus != "" {
		data["payment_status"] = event.PaymentStatus
	}

	return data
}
