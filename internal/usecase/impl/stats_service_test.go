package impl

import (
	"context"
	"testing"

	"starmobiles/internal/domain/entity"
	"starmobiles/internal/domain/repository"
	mockRepo "starmobiles/internal/mocks/repository"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsService_GetStats(t *testing.T) {
	orderRepo := mockRepo.NewMockOrderRepository(t)
	bookingRepo := mockRepo.NewMockBookingRepository(t)
	productRepo := mockRepo.NewMockProductRepository(t)
	svc := NewStatsService(StatsServiceParams{
		OrderRepo:   orderRepo,
		BookingRepo: bookingRepo,
		ProductRepo: productRepo,
		Logger:      newDiscardLogger(),
	})
	ctx := context.Background()

	orderRepo.On("Totals", ctx).Return(&repository.OrderTotals{
		TotalOrders:       12,
		PendingOrders:     3,
		CompletedSales:    210000,
		AdvancesCollected: 42000,
	}, nil).Once()
	bookingRepo.On("CountByStatus", ctx).Return(map[entity.BookingStatus]int64{
		entity.BookingPending:   4,
		entity.BookingCompleted: 9,
	}, nil).Once()
	productRepo.On("Count", ctx).Return(int64(57), nil).Once()

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.TotalOrders)
	assert.Equal(t, int64(3), stats.PendingOrders)
	assert.Equal(t, int64(210000), stats.CompletedSales)
	assert.Equal(t, int64(42000), stats.AdvancesCollected)
	assert.Equal(t, int64(57), stats.TotalProducts)
	assert.Equal(t, map[entity.BookingStatus]int64{
		entity.BookingPending:    4,
		entity.BookingInProgress: 0,
		entity.BookingCompleted:  9,
		entity.BookingCancelled:  0,
	}, stats.BookingsByStatus)
}

func TestStatsService_GetStats_OrderTotalsFail(t *testing.T) {
	orderRepo := mockRepo.NewMockOrderRepository(t)
	svc := NewStatsService(StatsServiceParams{
		OrderRepo:   orderRepo,
		BookingRepo: mockRepo.NewMockBookingRepository(t),
		ProductRepo: mockRepo.NewMockProductRepository(t),
		Logger:      newDiscardLogger(),
	})
	ctx := context.Background()

	orderRepo.On("Totals", ctx).Return(nil, errors.New("connection reset")).Once()

	_, err := svc.GetStats(ctx)
	assert.ErrorContains(t, err, "connection reset")
}
