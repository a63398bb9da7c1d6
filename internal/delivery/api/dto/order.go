package dto

import (
	"time"

	"starmobiles/internal/domain/entity"
	"starmobiles/internal/usecase"

	"github.com/google/uuid"
)

// OrderRequest books a product with an advance payment. The price is read
// from the catalog on the relay.
type OrderRequest struct {
	ProductID    uuid.UUID `json:"product_id" validate:"required"`
	Quantity     int       `json:"quantity" validate:"min=1,max=10"`
	CustomerName string    `json:"customer_name" validate:"required,max=100"`
	Phone        string    `json:"phone" validate:"required,indian_phone"`
	Address      string    `json:"address" validate:"required,max=500"`
}

// ToInput maps the request to the usecase input.
func (r *OrderRequest) ToInput() *usecase.OrderInput {
	return &usecase.OrderInput{
		ProductID:    r.ProductID,
		Quantity:     r.Quantity,
		CustomerName: r.CustomerName,
		Phone:        r.Phone,
		Address:      r.Address,
	}
}

// UpdateOrderRequest changes an order's status, payment status or notes.
type UpdateOrderRequest struct {
	Status        string  `json:"status,omitempty" validate:"omitempty,oneof=pending_verification verified advance_paid processing completed cancelled"`
	PaymentStatus *string `json:"payment_status,omitempty" validate:"omitempty,oneof=unpaid advance_received fully_paid refunded"`
	AdminNotes    *string `json:"admin_notes,omitempty"`
}

// ToUpdate maps the request to the entity update.
func (r *UpdateOrderRequest) ToUpdate() *entity.OrderUpdate {
	update := &entity.OrderUpdate{
		Status:     entity.OrderStatus(r.Status),
		AdminNotes: r.AdminNotes,
	}
	if r.PaymentStatus != nil {
		ps := entity.PaymentStatus(*r.PaymentStatus)
		update.PaymentStatus = &ps
	}

	return update
}

// Order is a purchase record.
type Order struct {
	ID              uuid.UUID  `json:"id" validate:"required"`
	UserID          uuid.UUID  `json:"user_id"`
	ProductID       uuid.UUID  `json:"product_id"`
	ProductName     string     `json:"product_name"`
	ProductCategory string     `json:"product_category"`
	ProductPrice    int64      `json:"product_price" validate:"gte=0"`
	Quantity        int        `json:"quantity" validate:"min=1"`
	TotalAmount     int64      `json:"total_amount" validate:"gte=0"`
	AdvanceAmount   int64      `json:"advance_amount" validate:"gte=0"`
	CustomerName    string     `json:"customer_name"`
	Phone           string     `json:"phone"`
	Address         string     `json:"address"`
	Status          string     `json:"status" validate:"oneof=pending_verification verified advance_paid processing completed cancelled"`
	PaymentStatus   string     `json:"payment_status" validate:"oneof=unpaid advance_received fully_paid refunded"`
	AdminNotes      *string    `json:"admin_notes"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	VerifiedAt      *time.Time `json:"verified_at"`
	PaidAt          *time.Time `json:"paid_at"`
	CompletedAt     *time.Time `json:"completed_at"`
}

// FromOrder maps an order entity.
func FromOrder(o *entity.Order) *Order {
	return &Order{
		ID:              o.ID,
		UserID:          o.UserID,
		ProductID:       o.ProductID,
		ProductName:     o.ProductName,
		ProductCategory: string(o.ProductCategory),
		ProductPrice:    o.ProductPrice,
		Quantity:        o.Quantity,
		TotalAmount:     o.TotalAmount,
		AdvanceAmount:   o.AdvanceAmount,
		CustomerName:    o.CustomerName,
		Phone:           o.Phone,
		Address:         o.Address,
		Status:          string(o.Status),
		PaymentStatus:   string(o.PaymentStatus),
		AdminNotes:      o.AdminNotes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		VerifiedAt:      o.VerifiedAt,
		PaidAt:          o.PaidAt,
		CompletedAt:     o.CompletedAt,
	}
}

// FromOrders maps an order list.
func FromOrders(orders []*entity.Order) []*Order {
	out := make([]*Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromOrder(o))
	}

	return out
}

// PaymentQR is the JSON form of an order's advance payment QR code.
type PaymentQR struct {
	OrderID       uuid.UUID `json:"order_id"`
	AdvanceAmount int64     `json:"advance_amount"`
	URI           string    `json:"uri" validate:"required"`
	PNG           []byte    `json:"png" validate:"required"` // base64 in JSON
}
