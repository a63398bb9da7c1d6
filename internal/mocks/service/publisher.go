package service

import (
	"context"
	"io"

	"starmobiles/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

type MockEventPublisher struct {
	mock.Mock
}

func NewMockEventPublisher(t testingT) *MockEventPublisher {
	m := &MockEventPublisher{}
	register(&m.Mock, t)

	return m
}

func (m *MockEventPublisher) PublishStoreEvent(ctx context.Context, event *service.StoreEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockEventPublisher) Close() error {
	return m.Called().Error(0)
}

type MockQRCodeService struct {
	mock.Mock
}

func NewMockQRCodeService(t testingT) *MockQRCodeService {
	m := &MockQRCodeService{}
	register(&m.Mock, t)

	return m
}

func (m *MockQRCodeService) PaymentURI(payment service.UPIPayment) string {
	return m.Called(payment).String(0)
}

func (m *MockQRCodeService) GeneratePaymentQR(payment service.UPIPayment) ([]byte, error) {
	args := m.Called(payment)
	png, _ := args.Get(0).([]byte)

	return png, args.Error(1)
}

func (m *MockQRCodeService) ParsePaymentURI(uri string) (*service.UPIPayment, error) {
	args := m.Called(uri)
	payment, _ := args.Get(0).(*service.UPIPayment)

	return payment, args.Error(1)
}

type MockImageStorage struct {
	mock.Mock
}

func NewMockImageStorage(t testingT) *MockImageStorage {
	m := &MockImageStorage{}
	register(&m.Mock, t)

	return m
}

func (m *MockImageStorage) Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	args := m.Called(ctx, key, contentType, r)

	return args.String(0), args.Error(1)
}

func (m *MockImageStorage) Open(ctx context.Context, key string) (*service.StoredImage, error) {
	args := m.Called(ctx, key)
	img, _ := args.Get(0).(*service.StoredImage)

	return img, args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func NewMockNotificationService(t testingT) *MockNotificationService {
	m := &MockNotificationService{}
	register(&m.Mock, t)

	return m
}

func (m *MockNotificationService) SendBatchNotification(ctx context.Context, tokens []string, title, body string, data map[string]string) (int, int, []string, error) {
	args := m.Called(ctx, tokens, title, body, data)
	invalid, _ := args.Get(2).([]string)

	return args.Int(0), args.Int(1), invalid, args.Error(3)
}

func (m *MockNotificationService) SendTopicNotification(ctx context.Context, topic, title, body string, data map[string]string) error {
	return m.Called(ctx, topic, title, body, data).Error(0)
}
