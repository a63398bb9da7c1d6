package usecase

import (
	"context"

	"starmobiles/internal/domain/entity"
	"starmobiles/internal/domain/service"
	"starmobiles/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockProductUsecase struct {
	mock.Mock
}

func NewMockProductUsecase(t testingT) *MockProductUsecase {
	m := &MockProductUsecase{}
	register(&m.Mock, t)

	return m
}

func (m *MockProductUsecase) ListProducts(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error) {
	args := m.Called(ctx, filter)
	products, _ := args.Get(0).([]*entity.Product)

	return products, args.Error(1)
}

func (m *MockProductUsecase) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*entity.Product)

	return product, args.Error(1)
}

func (m *MockProductUsecase) CreateProduct(ctx context.Context, input *usecase.ProductInput) (*entity.Product, error) {
	args := m.Called(ctx, input)
	product, _ := args.Get(0).(*entity.Product)

	return product, args.Error(1)
}

func (m *MockProductUsecase) UpdateProduct(ctx context.Context, id uuid.UUID, input *usecase.ProductInput) (*entity.Product, error) {
	args := m.Called(ctx, id, input)
	product, _ := args.Get(0).(*entity.Product)

	return product, args.Error(1)
}

func (m *MockProductUsecase) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductUsecase) UploadImage(ctx context.Context, upload *usecase.ImageUpload) (string, error) {
	args := m.Called(ctx, upload)

	return args.String(0), args.Error(1)
}

func (m *MockProductUsecase) OpenImage(ctx context.Context, key string) (*service.StoredImage, error) {
	args := m.Called(ctx, key)
	img, _ := args.Get(0).(*service.StoredImage)

	return img, args.Error(1)
}

type MockCartUsecase struct {
	mock.Mock
}

func NewMockCartUsecase(t testingT) *MockCartUsecase {
	m := &MockCartUsecase{}
	register(&m.Mock, t)

	return m
}

func (m *MockCartUsecase) ListCart(ctx context.Context, userID uuid.UUID) ([]*entity.CartItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]*entity.CartItem)

	return items, args.Error(1)
}

func (m *MockCartUsecase) AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*entity.CartItem, error) {
	args := m.Called(ctx, userID, productID, quantity)
	item, _ := args.Get(0).(*entity.CartItem)

	return item, args.Error(1)
}

func (m *MockCartUsecase) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	return m.Called(ctx, userID, itemID, quantity).Error(0)
}

func (m *MockCartUsecase) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	return m.Called(ctx, userID, itemID).Error(0)
}

func (m *MockCartUsecase) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

type MockBookingUsecase struct {
	mock.Mock
}

func NewMockBookingUsecase(t testingT) *MockBookingUsecase {
	m := &MockBookingUsecase{}
	register(&m.Mock, t)

	return m
}

func (m *MockBookingUsecase) CreateBooking(ctx context.Context, actor usecase.Actor, input *usecase.BookingInput) (*entity.Booking, error) {
	args := m.Called(ctx, actor, input)
	booking, _ := args.Get(0).(*entity.Booking)

	return booking, args.Error(1)
}

func (m *MockBookingUsecase) ListBookings(ctx context.Context, actor usecase.Actor) ([]*entity.Booking, error) {
	args := m.Called(ctx, actor)
	bookings, _ := args.Get(0).([]*entity.Booking)

	return bookings, args.Error(1)
}

func (m *MockBookingUsecase) UpdateBooking(ctx context.Context, actor usecase.Actor, id uuid.UUID, update *usecase.BookingUpdate) (*entity.Booking, error) {
	args := m.Called(ctx, actor, id, update)
	booking, _ := args.Get(0).(*entity.Booking)

	return booking, args.Error(1)
}

func (m *MockBookingUsecase) DeleteBooking(ctx context.Context, actor usecase.Actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

type MockOrderUsecase struct {
	mock.Mock
}

func NewMockOrderUsecase(t testingT) *MockOrderUsecase {
	m := &MockOrderUsecase{}
	register(&m.Mock, t)

	return m
}

func (m *MockOrderUsecase) CreateOrder(ctx context.Context, actor usecase.Actor, input *usecase.OrderInput) (*entity.Order, error) {
	args := m.Called(ctx, actor, input)
	order, _ := args.Get(0).(*entity.Order)

	return order, args.Error(1)
}

func (m *MockOrderUsecase) ListOrders(ctx context.Context, actor usecase.Actor) ([]*entity.Order, error) {
	args := m.Called(ctx, actor)
	orders, _ := args.Get(0).([]*entity.Order)

	return orders, args.Error(1)
}

func (m *MockOrderUsecase) UpdateOrder(ctx context.Context, actor usecase.Actor, id uuid.UUID, update *entity.OrderUpdate) (*entity.Order, error) {
	args := m.Called(ctx, actor, id, update)
	order, _ := args.Get(0).(*entity.Order)

	return order, args.Error(1)
}

func (m *MockOrderUsecase) CancelOrder(ctx context.Context, actor usecase.Actor, id uuid.UUID) (*entity.Order, error) {
	args := m.Called(ctx, actor, id)
	order, _ := args.Get(0).(*entity.Order)

	return order, args.Error(1)
}

func (m *MockOrderUsecase) PaymentQR(ctx context.Context, actor usecase.Actor, id uuid.UUID) (*usecase.PaymentQR, error) {
	args := m.Called(ctx, actor, id)
	qr, _ := args.Get(0).(*usecase.PaymentQR)

	return qr, args.Error(1)
}

type MockStatsUsecase struct {
	mock.Mock
}

func NewMockStatsUsecase(t testingT) *MockStatsUsecase {
	m := &MockStatsUsecase{}
	register(&m.Mock, t)

	return m
}

func (m *MockStatsUsecase) GetStats(ctx context.Context) (*entity.AdminStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*entity.AdminStats)

	return stats, args.Error(1)
}

type MockNotificationUsecase struct {
	mock.Mock
}

func NewMockNotificationUsecase(t testingT) *MockNotificationUsecase {
	m := &MockNotificationUsecase{}
	register(&m.Mock, t)

	return m
}

func (m *MockNotificationUsecase) HandleStoreEvent(ctx context.Context, event *service.StoreEvent) (*usecase.NotificationResult, error) {
	args := m.Called(ctx, event)
	result, _ := args.Get(0).(*usecase.NotificationResult)

	return result, args.Error(1)
}
