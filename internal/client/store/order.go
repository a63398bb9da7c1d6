package store

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"starmobiles/internal/client/relay"
	"starmobiles/internal/delivery/api/dto"
	"starmobiles/internal/util"

	"github.com/google/uuid"
)

const (
	msgLoginToOrder = "Please login to place an order"
	statusCancelled = "cancelled"
)

// OrderInput is a purchase as entered by the shopper. The price is the
// catalog's; advance and total come back from the relay.
type OrderInput struct {
	ProductID    uuid.UUID
	Quantity     int
	CustomerName string
	Phone        string
	Address      string
}

// OrderResult reports CreateOrder. Order is the relay's record on success.
type OrderResult struct {
	Success bool
	Order   *dto.Order
	Message string
}

// OrderState is a snapshot of the order store.
type OrderState struct {
	Orders    []dto.Order
	IsLoading bool
	Error     string
}

// OrderStore mirrors the orders visible to the signed-in user.
type OrderStore struct {
	subscribers[OrderState]

	relay  *relay.Client
	tokens TokenSource
	logger *slog.Logger

	submitting atomic.Bool

	loads loadSeq
	mu    sync.Mutex
	state OrderState
}

func NewOrderStore(relayClient *relay.Client, tokens TokenSource, logger *slog.Logger) *OrderStore {
	return &OrderStore{relay: relayClient, tokens: tokens, logger: logger}
}

func (o *OrderStore) State() OrderState {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.state
}

func (o *OrderStore) Orders() []dto.Order { return o.State().Orders }

func (o *OrderStore) FetchOrders(ctx context.Context) {
	seq := o.loads.next()
	token, ok := bearer(ctx, o.tokens)
	if !ok {
		o.update(func(s *OrderState) { s.Orders = nil })

		return
	}

	o.update(func(s *OrderState) { s.IsLoading = o.loads.latest(seq) || s.IsLoading })

	res := o.relay.ListOrders(ctx, token)
	if !res.IsOk() {
		o.fail("fetch orders", res.Err())

		return
	}

	o.update(func(s *OrderState) {
		if !o.loads.latest(seq) {
			return
		}
		s.Orders = res.Value()
		s.IsLoading = false
		s.Error = ""
	})
}

// CreateOrder places an order and prepends the relay's record. A second
// call while one is in flight is refused.
func (o *OrderStore) CreateOrder(ctx context.Context, in OrderInput) OrderResult {
	token, ok := bearer(ctx, o.tokens)
	if !ok {
		return OrderResult{Message: msgLoginToOrder}
	}
	if !o.submitting.CompareAndSwap(false, true) {
		return OrderResult{Message: msgBusy}
	}
	defer o.submitting.Store(false)

	quantity := in.Quantity
	if quantity < 1 {
		quantity = 1
	}

	o.update(func(s *OrderState) { s.IsLoading = true })

	res := o.relay.CreateOrder(ctx, token, dto.OrderRequest{
		ProductID:    in.ProductID,
		Quantity:     quantity,
		CustomerName: in.CustomerName,
		Phone:        util.NormalizePhone(in.Phone),
		Address:      in.Address,
	})
	if !res.IsOk() {
		o.fail("create order", res.Err())

		return OrderResult{Message: res.Err().Message}
	}

	created := res.Value()
	o.loads.next()
	o.update(func(s *OrderState) {
		s.Orders = append([]dto.Order{*created}, s.Orders...)
		s.IsLoading = false
		s.Error = ""
	})

	return OrderResult{Success: true, Order: created, Message: "Order placed!"}
}

// UpdateOrderStatus moves an order. paymentStatus and adminNotes are left
// alone when nil.
func (o *OrderStore) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string, paymentStatus, adminNotes *string) bool {
	return o.put(ctx, "update order", id, dto.UpdateOrderRequest{
		Status:        status,
		PaymentStatus: paymentStatus,
		AdminNotes:    adminNotes,
	})
}

// CancelOrder marks the order cancelled. The record is kept.
func (o *OrderStore) CancelOrder(ctx context.Context, id uuid.UUID) bool {
	return o.put(ctx, "cancel order", id, dto.UpdateOrderRequest{Status: statusCancelled})
}

// PaymentQR fetches the UPI payment code for the order's advance.
func (o *OrderStore) PaymentQR(ctx context.Context, id uuid.UUID) (*dto.PaymentQR, string) {
	token, ok := bearer(ctx, o.tokens)
	if !ok {
		return nil, msgNotSignedIn
	}

	qr, err := o.relay.PaymentQR(ctx, token, id).Get()
	if err != nil {
		o.logger.Warn("Failed to fetch payment QR", slog.Any("error", err))

		return nil, err.Message
	}

	return qr, ""
}

func (o *OrderStore) Reset() {
	o.loads.next()
	o.update(func(s *OrderState) { *s = OrderState{} })
}

func (o *OrderStore) put(ctx context.Context, op string, id uuid.UUID, req dto.UpdateOrderRequest) bool {
	token, ok := bearer(ctx, o.tokens)
	if !ok {
		return false
	}

	res := o.relay.UpdateOrder(ctx, token, id, req)
	if !res.IsOk() {
		o.fail(op, res.Err())

		return false
	}

	updated := res.Value()
	o.loads.next()
	o.update(func(s *OrderState) {
		orders := make([]dto.Order, len(s.Orders))
		copy(orders, s.Orders)
		for i := range orders {
			if orders[i].ID == id {
				orders[i] = *updated
			}
		}
		s.Orders = orders
		s.Error = ""
	})

	return true
}

func (o *OrderStore) fail(op string, err *relay.Error) {
	o.logger.Warn("Order request failed", slog.String("op", op), slog.Any("error", err))
	o.update(func(s *OrderState) {
		s.IsLoading = false
		s.Error = err.Message
	})
}

func (o *OrderStore) update(fn func(*OrderState)) {
	o.mu.Lock()
	fn(&o.state)
	snapshot := o.state
	o.mu.Unlock()

	o.publish(snapshot)
}
