package handler

import (
	"log/slog"
	"net/http"

	"starmobiles/internal/delivery/api/dto"
	"starmobiles/internal/delivery/api/middleware"
	"starmobiles/internal/delivery/api/response"
	"starmobiles/internal/domain/entity"
	"starmobiles/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// BookingHandlerParams holds dependencies for BookingHandler, injected by Fx.
type BookingHandlerParams struct {
	fx.In

	BookingUC usecase.BookingUsecase
	Logger    *slog.Logger
}

// BookingHandler serves repair tickets.
type BookingHandler struct {
	bookingUC usecase.BookingUsecase
	logger    *slog.Logger
}

// NewBookingHandler is the constructor for BookingHandler.
func NewBookingHandler(params BookingHandlerParams) *BookingHandler {
	return &BookingHandler{
		bookingUC: params.BookingUC,
		logger:    params.Logger,
	}
}

// ListBookings returns the caller's tickets, or all of them for an admin.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	bookings, err := h.bookingUC.ListBookings(c.Request().Context(), actor)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, dto.FromBookings(bookings))
}

// CreateBooking opens a repair ticket.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	var req dto.BookingRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid booking input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	booking, err := h.bookingUC.CreateBooking(c.Request().Context(), actor, req.ToInput())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, dto.FromBooking(booking), "Booking created successfully")
}

// UpdateBooking sets a ticket's status and notes.
func (h *BookingHandler) UpdateBooking(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}

	var req dto.UpdateBookingRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid booking input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	booking, err := h.bookingUC.UpdateBooking(c.Request().Context(), actor, id, &usecase.BookingUpdate{
		Status:     entity.BookingStatus(req.Status),
		AdminNotes: req.AdminNotes,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, dto.FromBooking(booking), "Booking updated successfully")
}

// DeleteBooking hard deletes a ticket.
func (h *BookingHandler) DeleteBooking(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Invalid user ID in token")
	}

	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}

	if err := h.bookingUC.DeleteBooking(c.Request().Context(), actor, id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Booking deleted successfully")
}
