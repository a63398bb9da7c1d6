package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of a product order.
type OrderStatus string

const (
	OrderPendingVerification OrderStatus = "pending_verification"
	OrderVerified            OrderStatus = "verified"
	OrderAdvancePaid         OrderStatus = "advance_paid"
	OrderProcessing          OrderStatus = "processing"
	OrderCompleted           OrderStatus = "completed"
	OrderCancelled           OrderStatus = "cancelled"
)

// IsValid checks if the status is known.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderPendingVerification, OrderVerified, OrderAdvancePaid,
		OrderProcessing, OrderCompleted, OrderCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is expected.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// PaymentStatus tracks money received for an order.
type PaymentStatus string

const (
	PaymentUnpaid          PaymentStatus = "unpaid"
	PaymentAdvanceReceived PaymentStatus = "advance_received"
	PaymentFullyPaid       PaymentStatus = "fully_paid"
	PaymentRefunded        PaymentStatus = "refunded"
)

// IsValid checks if the payment status is known.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentUnpaid, PaymentAdvanceReceived, PaymentFullyPaid, PaymentRefunded:
		return true
	default:
		return false
	}
}

// CountsAsAdvanceCollected reports whether the advance has been received.
func (s PaymentStatus) CountsAsAdvanceCollected() bool {
	return s == PaymentAdvanceReceived || s == PaymentFullyPaid
}

// DefaultAdvanceRate is the deposit fraction taken when an order is booked.
var DefaultAdvanceRate = decimal.NewFromFloat(0.2)

// AdvanceAmount returns price × rate rounded half away from zero to whole rupees.
func AdvanceAmount(price int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(price).Mul(rate).Round(0).IntPart()
}

// Order is a product purchase following the advance-payment workflow.
type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	ProductID       uuid.UUID
	ProductName     string
	ProductCategory ProductCategory
	ProductPrice    int64
	Quantity        int
	TotalAmount     int64
	AdvanceAmount   int64 // Fixed at creation, never recomputed.
	CustomerName    string
	Phone           string
	Address         string
	Status          OrderStatus
	PaymentStatus   PaymentStatus
	AdminNotes      *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	VerifiedAt      *time.Time
	PaidAt          *time.Time
	CompletedAt     *time.Time
}

// OrderUpdate is an admin status change. PaymentStatus and AdminNotes are optional.
type OrderUpdate struct {
	Status        OrderStatus
	PaymentStatus *PaymentStatus
	AdminNotes    *string
}

// Apply writes the update into the order and stamps milestone timestamps.
// Pairing between status and payment status is not enforced.
func (u OrderUpdate) Apply(o *Order, now time.Time) {
	if u.Status != "" && u.Status != o.Status {
		o.Status = u.Status
		switch u.Status {
		case OrderVerified:
			o.VerifiedAt = &now
		case OrderCompleted:
			o.CompletedAt = &now
		}
	}
	if u.PaymentStatus != nil && *u.PaymentStatus != o.PaymentStatus {
		o.PaymentStatus = *u.PaymentStatus
		if o.PaymentStatus.CountsAsAdvanceCollected() && o.PaidAt == nil {
			o.PaidAt = &now
		}
	}
	if u.AdminNotes != nil {
		o.AdminNotes = u.AdminNotes
	}
	o.UpdatedAt = now
}
