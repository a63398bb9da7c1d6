package usecase

import (
	"context"

	"starmobiles/internal/domain/entity"
)

// StatsUsecase aggregates the admin dashboard figures.
type StatsUsecase interface {
	GetStats(ctx context.Context) (*entity.AdminStats, error)
}
