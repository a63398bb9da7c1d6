package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"starmobiles/internal/delivery/api/dto"
	"starmobiles/internal/delivery/api/middleware"
	"starmobiles/internal/delivery/api/response"
	"starmobiles/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// OrderHandlerParams holds dependencies for OrderHandler, injected by Fx.
type OrderHandlerParams struct {
	fx.In

	OrderUC usecase.OrderUsecase
	Logger  *slog.Logger
}

// OrderHandler serves the advance-payment orders.
type OrderHandler struct {
	orderUC usecase.OrderUsecase
	logger  *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler.
func NewOrderHandler(params OrderHandlerParams) *OrderHandler {
	return &OrderHandler{
		orderUC: params.OrderUC,
		logger:  params.Logger,
	}
}

// ListOrders returns the caller's orders, or all of them for an admin.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	orders, err := h.orderUC.ListOrders(c.Request().Context(), actor)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, dto.FromOrders(orders))
}

// CreateOrder books a product.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	var req dto.OrderRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid order input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	order, err := h.orderUC.CreateOrder(c.Request().Context(), actor, req.ToInput())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, dto.FromOrder(order), "Order placed successfully")
}

// UpdateOrder changes status, payment status or notes. Owners may only cancel.
func (h *OrderHandler) UpdateOrder(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}

	var req dto.UpdateOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid order input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	order, err := h.orderUC.UpdateOrder(c.Request().Context(), actor, id, req.ToUpdate())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, dto.FromOrder(order), "Order updated successfully")
}

// CancelOrder is a soft cancel; the record is kept.
func (h *OrderHandler) CancelOrder(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}

	order, err := h.orderUC.CancelOrder(c.Request().Context(), actor, id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, dto.FromOrder(order), "Order cancelled")
}

// PaymentQR renders the UPI QR code of the order's advance. Clients that
// accept image/png get the raw image; everyone else gets JSON.
func (h *OrderHandler) PaymentQR(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}

	qr, err := h.orderUC.PaymentQR(c.Request().Context(), actor, id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), "image/png") {
		c.Response().Header().Set("X-Payment-URI", qr.URI)

		return c.Blob(http.StatusOK, "image/png", qr.PNG)
	}

	return response.OK(c, dto.PaymentQR{
		OrderID:       id,
		AdvanceAmount: qr.Amount,
		URI:           qr.URI,
		PNG:           qr.PNG,
	})
}
