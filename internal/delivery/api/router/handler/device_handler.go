package handler

import (
	"log/slog"
	"net/http"

	"starmobiles/internal/delivery/api/dto"
	"starmobiles/internal/delivery/api/middleware"
	"starmobiles/internal/delivery/api/response"
	"starmobiles/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type DeviceHandlerParams struct {
	fx.In

	DeviceUC usecase.DeviceUsecase
	Logger   *slog.Logger
}

// DeviceHandler registers the browsers and phones that receive order and
// booking status pushes.
type DeviceHandler struct {
	deviceUC usecase.DeviceUsecase
	logger   *slog.Logger
}

func NewDeviceHandler(params DeviceHandlerParams) *DeviceHandler {
	return &DeviceHandler{
		deviceUC: params.DeviceUC,
		logger:   params.Logger,
	}
}

// RegisterDevice upserts by (user, device id), so re-registering after an
// FCM token rotation replaces the token.
func (h *DeviceHandler) RegisterDevice(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	var req dto.RegisterDeviceRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid device input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	device, err := h.deviceUC.RegisterDevice(c.Request().Context(), userID, req.ToDeviceInfo())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, dto.FromDevice(device), "Device registered")
}

func (h *DeviceHandler) GetUserDevices(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	devices, err := h.deviceUC.GetUserDevices(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, dto.FromDevices(devices))
}

// DeactivateDevice stops pushes to one device; the row is kept.
func (h *DeviceHandler) DeactivateDevice(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}
	deviceID, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}

	if err := h.deviceUC.DeactivateDevice(c.Request().Context(), userID, deviceID); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Device deactivated")
}
