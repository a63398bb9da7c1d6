package handler

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"starmobiles/internal/delivery/api/dto"
	"starmobiles/internal/domain/entity"
	domainerrors "starmobiles/internal/domain/errors"
	mockUC "starmobiles/internal/mocks/usecase"
	"starmobiles/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newOrderTestServer(t *testing.T) (*testServer, *mockUC.MockOrderUsecase) {
	s := newTestServer(t)
	orderUC := mockUC.NewMockOrderUsecase(t)
	h := NewOrderHandler(OrderHandlerParams{OrderUC: orderUC, Logger: newDiscardLogger()})

	g := s.e.Group("/api/orders", s.auth.Authenticate)
	g.GET("", h.ListOrders)
	g.POST("", h.CreateOrder)
	g.PUT("/:id", h.UpdateOrder)
	g.DELETE("/:id", h.CancelOrder)
	g.GET("/:id/payment-qr", h.PaymentQR)

	return s, orderUC
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	s, orderUC := newOrderTestServer(t)
	productID := uuid.New()
	created := &entity.Order{
		ID:            uuid.New(),
		UserID:        customerID,
		ProductID:     productID,
		ProductName:   "Samsung Galaxy S24",
		ProductPrice:  74999,
		Quantity:      1,
		TotalAmount:   74999,
		AdvanceAmount: 15000,
		Status:        entity.OrderPendingVerification,
		PaymentStatus: entity.PaymentUnpaid,
		CreatedAt:     time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC),
	}

	orderUC.On("CreateOrder", mock.Anything, customerActor(), &usecase.OrderInput{
		ProductID:    productID,
		Quantity:     1,
		CustomerName: "Ravi",
		Phone:        "9876543210",
		Address:      "12 MG Road, Bengaluru",
	}).Return(created, nil).Once()

	rec := s.do(http.MethodPost, "/api/orders", customerToken, map[string]any{
		"product_id":    productID,
		"quantity":      1,
		"customer_name": "Ravi",
		"phone":         "9876543210",
		"address":       "12 MG Road, Bengaluru",
		"product_price": 1, // ignored, the relay prices from the catalog
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var order dto.Order
	body := envelope(t, rec, &order)
	assert.True(t, body.Success)
	assert.Equal(t, int64(15000), order.AdvanceAmount)
	assert.Equal(t, "pending_verification", order.Status)
	assert.Equal(t, "unpaid", order.PaymentStatus)
}

func TestOrderHandler_CreateOrder_Rejections(t *testing.T) {
	s, _ := newOrderTestServer(t)

	rec := s.do(http.MethodPost, "/api/orders", "", map[string]any{"quantity": 1})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/api/orders", customerToken, map[string]any{
		"product_id":    uuid.New(),
		"quantity":      0,
		"customer_name": "Ravi",
		"phone":         "12345",
		"address":       "x",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := envelope(t, rec, nil)
	assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
	assert.Contains(t, body.Error.Details, "Phone")
}

func TestOrderHandler_UpdateOrder(t *testing.T) {
	s, orderUC := newOrderTestServer(t)
	id := uuid.New()
	paid := entity.PaymentAdvanceReceived
	notes := "UPI ref 4411"

	orderUC.On("UpdateOrder", mock.Anything, adminActor(), id, &entity.OrderUpdate{
		Status:        entity.OrderAdvancePaid,
		PaymentStatus: &paid,
		AdminNotes:    &notes,
	}).Return(&entity.Order{ID: id, Quantity: 1, Status: entity.OrderAdvancePaid, PaymentStatus: paid, AdminNotes: &notes}, nil).Once()

	rec := s.do(http.MethodPut, "/api/orders/"+id.String(), adminToken, map[string]any{
		"status":         "advance_paid",
		"payment_status": "advance_received",
		"admin_notes":    notes,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPut, "/api/orders/"+id.String(), adminToken, map[string]any{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderHandler_CancelOrder_NotCancellable(t *testing.T) {
	s, orderUC := newOrderTestServer(t)
	id := uuid.New()

	orderUC.On("CancelOrder", mock.Anything, customerActor(), id).
		Return(nil, errors.Wrap(domainerrors.ErrOrderNotCancellable, "completed")).Once()

	rec := s.do(http.MethodDelete, "/api/orders/"+id.String(), customerToken, nil)
	assert.Equal(t, domainerrors.ErrOrderNotCancellable.HTTPCode(), rec.Code)
	body := envelope(t, rec, nil)
	assert.False(t, body.Success)
	assert.Equal(t, domainerrors.ErrOrderNotCancellable.ErrorCode(), body.Error.Code)
}

func TestOrderHandler_PaymentQR(t *testing.T) {
	s, orderUC := newOrderTestServer(t)
	id := uuid.New()
	png := []byte("\x89PNG fake")
	uri := "upi://pay?pa=starmobiles%40okaxis&am=15000.00"

	orderUC.On("PaymentQR", mock.Anything, customerActor(), id).
		Return(&usecase.PaymentQR{PNG: png, URI: uri, Amount: 15000}, nil).Twice()

	t.Run("json", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/orders/"+id.String()+"/payment-qr", customerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var raw map[string]any
		envelope(t, rec, &raw)
		assert.Equal(t, uri, raw["uri"])
		assert.Equal(t, base64.StdEncoding.EncodeToString(png), raw["png"])
		assert.EqualValues(t, 15000, raw["advance_amount"])
	})

	t.Run("png", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/orders/"+id.String()+"/payment-qr", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+customerToken)
		req.Header.Set(echo.HeaderAccept, "image/png")
		rec := httptest.NewRecorder()
		s.e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
		assert.Equal(t, uri, rec.Header().Get("X-Payment-URI"))
		assert.Equal(t, png, rec.Body.Bytes())
	})

	t.Run("bad id", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/orders/not-a-uuid/payment-qr", customerToken, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
