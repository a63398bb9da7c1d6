package handler

import (
	"starmobiles/internal/delivery/api/dto"
	"starmobiles/internal/delivery/api/response"
	"starmobiles/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AdminHandler serves the back-office dashboard.
type AdminHandler struct {
	statsUC usecase.StatsUsecase
}

// NewAdminHandler is the constructor for AdminHandler.
func NewAdminHandler(statsUC usecase.StatsUsecase) *AdminHandler {
	return &AdminHandler{statsUC: statsUC}
}

// GetStats returns the dashboard figures.
func (h *AdminHandler) GetStats(c echo.Context) error {
	stats, err := h.statsUC.GetStats(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, dto.FromAdminStats(stats))
}
