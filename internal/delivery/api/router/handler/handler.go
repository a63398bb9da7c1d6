// Package handler contains the HTTP handlers of the relay.
package handler

import (
	"net/http"
	"time"

	"starmobiles/internal/delivery/api/dto"
	"starmobiles/internal/delivery/api/response"
	"starmobiles/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HealthResponse is the liveness body.
type HealthResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthCheck reports that the relay is up.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "OK",
		Message:   "Star Mobiles API is running",
		Timestamp: time.Now().UTC(),
	})
}

// ServiceCatalog returns the repair offering.
func ServiceCatalog(c echo.Context) error {
	return response.OK(c, dto.ServiceCatalog{
		ProblemTypes:   entity.ProblemTypes,
		Brands:         entity.MobileBrands,
		RepairServices: entity.RepairServices,
	})
}

func parseID(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

func invalidID(c echo.Context) error {
	return response.BadRequest(c, "INVALID_ID", "Invalid id")
}
