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

// CartHandlerParams holds dependencies for CartHandler, injected by Fx.
type CartHandlerParams struct {
	fx.In

	CartUC usecase.CartUsecase
	Logger *slog.Logger
}

// CartHandler serves the caller's cart.
type CartHandler struct {
	cartUC usecase.CartUsecase
	logger *slog.Logger
}

// NewCartHandler is the constructor for CartHandler.
func NewCartHandler(params CartHandlerParams) *CartHandler {
	return &CartHandler{
		cartUC: params.CartUC,
		logger: params.Logger,
	}
}

// ListCart returns the caller's cart rows with their products.
func (h *CartHandler) ListCart(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	items, err := h.cartUC.ListCart(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, dto.FromCartItems(items))
}

// AddToCart adds a product, incrementing an existing row.
func (h *CartHandler) AddToCart(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	var req dto.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid cart input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item, err := h.cartUC.AddToCart(c.Request().Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, dto.FromCartItem(item), "Added to cart")
}

// UpdateQuantity sets a row's quantity; zero or less removes it.
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	itemID, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}

	var req dto.UpdateCartRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid cart input")
	}

	if err := h.cartUC.UpdateQuantity(c.Request().Context(), userID, itemID, req.Quantity); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Cart updated")
}

// RemoveItem deletes one row.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	itemID, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}

	if err := h.cartUC.RemoveItem(c.Request().Context(), userID, itemID); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Removed from cart")
}

// ClearCart deletes every row of the caller.
func (h *CartHandler) ClearCart(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	if err := h.cartUC.ClearCart(c.Request().Context(), userID); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Cart cleared")
}
