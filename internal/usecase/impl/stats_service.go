package impl

import (
	"context"
	"log/slog"

	"starmobiles/internal/domain/entity"
	"starmobiles/internal/domain/repository"
	"starmobiles/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type statsService struct {
	orderRepo   repository.OrderRepository
	bookingRepo repository.BookingRepository
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

// StatsServiceParams holds dependencies for StatsService, injected by Fx.
type StatsServiceParams struct {
	fx.In

	OrderRepo   repository.OrderRepository
	BookingRepo repository.BookingRepository
	ProductRepo repository.ProductRepository
	Logger      *slog.Logger
}

// NewStatsService creates the admin dashboard service.
func NewStatsService(params StatsServiceParams) usecase.StatsUsecase {
	return &statsService{
		orderRepo:   params.OrderRepo,
		bookingRepo: params.BookingRepo,
		productRepo: params.ProductRepo,
		logger:      params.Logger,
	}
}

func (srv *statsService) GetStats(ctx context.Context) (*entity.AdminStats, error) {
	totals, err := srv.orderRepo.Totals(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate orders")
	}

	bookings, err := srv.bookingRepo.CountByStatus(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count bookings")
	}

	products, err := srv.productRepo.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count products")
	}

	// Every status is reported, including those with no rows.
	byStatus := make(map[entity.BookingStatus]int64, len(entity.BookingStatuses))
	for _, status := range entity.BookingStatuses {
		byStatus[status] = bookings[status]
	}

	return &entity.AdminStats{
		TotalOrders:       totals.TotalOrders,
		PendingOrders:     totals.PendingOrders,
		CompletedSales:    totals.CompletedSales,
		AdvancesCollected: totals.AdvancesCollected,
		BookingsByStatus:  byStatus,
		TotalProducts:     products,
	}, nil
}
