package repository

import (
	"context"

	"starmobiles/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func NewMockBookingRepository(t testingT) *MockBookingRepository {
	m := &MockBookingRepository{}
	register(&m.Mock, t)

	return m
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	return m.Called(ctx, booking).Error(0)
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	args := m.Called(ctx, id)
	booking, _ := args.Get(0).(*entity.Booking)

	return booking, args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Booking, error) {
	args := m.Called(ctx, userID)
	bookings, _ := args.Get(0).([]*entity.Booking)

	return bookings, args.Error(1)
}

func (m *MockBookingRepository) ListAll(ctx context.Context) ([]*entity.Booking, error) {
	args := m.Called(ctx)
	bookings, _ := args.Get(0).([]*entity.Booking)

	return bookings, args.Error(1)
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	return m.Called(ctx, booking).Error(0)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBookingRepository) CountByStatus(ctx context.Context) (map[entity.BookingStatus]int64, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).(map[entity.BookingStatus]int64)

	return counts, args.Error(1)
}
