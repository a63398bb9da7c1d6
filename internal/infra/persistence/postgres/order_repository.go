package postgres

import (
	"context"

	"starmobiles/internal/domain/entity"
	domainerrors "starmobiles/internal/domain/errors"
	"starmobiles/internal/domain/repository"
	"starmobiles/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderRepository implements the repository.OrderRepository interface.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("quantity must be positive")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt

	return nil
}

// FindByID loads an order and locks the row when called inside a transaction.
func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.ProductOrderModel
	query := repo.db.WithContext(ctx)
	if _, inTx := query.Statement.ConnPool.(gorm.TxCommitter); inTx {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	if err := query.Where("id = ?", id).First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order")
	}

	return toOrderDomain(&orderM), nil
}

func (repo *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	return repo.list(repo.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (repo *orderRepository) ListAll(ctx context.Context) ([]*entity.Order, error) {
	return repo.list(repo.db.WithContext(ctx))
}

func (repo *orderRepository) list(query *gorm.DB) ([]*entity.Order, error) {
	var orderModels []*model.ProductOrderModel
	if err := query.Order("created_at DESC").Find(&orderModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	orders := make([]*entity.Order, 0, len(orderModels))
	for _, orderM := range orderModels {
		orders = append(orders, toOrderDomain(orderM))
	}

	return orders, nil
}

// Update writes the mutable lifecycle columns. Amounts are never rewritten.
func (repo *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProductOrderModel{ID: order.ID}).
		Updates(map[string]any{
			"status":         string(order.Status),
			"payment_status": string(order.PaymentStatus),
			"admin_notes":    order.AdminNotes,
			"updated_at":     order.UpdatedAt,
			"verified_at":    order.VerifiedAt,
			"paid_at":        order.PaidAt,
			"completed_at":   order.CompletedAt,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update order")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// Totals computes the dashboard aggregates in one query.
func (repo *orderRepository) Totals(ctx context.Context) (*repository.OrderTotals, error) {
	var totals repository.OrderTotals
	err := repo.db.WithContext(ctx).
		Model(&model.ProductOrderModel{}).
		Select(`COUNT(*) AS total_orders,
			COUNT(*) FILTER (WHERE status = ?) AS pending_orders,
			COALESCE(SUM(total_amount) FILTER (WHERE status = ?), 0) AS completed_sales,
			COALESCE(SUM(advance_amount) FILTER (WHERE payment_status IN ?), 0) AS advances_collected`,
			string(entity.OrderPendingVerification),
			string(entity.OrderCompleted),
			[]string{string(entity.PaymentAdvanceReceived), string(entity.PaymentFullyPaid)},
		).
		Scan(&totals).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate orders")
	}

	return &totals, nil
}

func toOrderDomain(data *model.ProductOrderModel) *entity.Order {
	return &entity.Order{
		ID:              data.ID,
		UserID:          data.UserID,
		ProductID:       data.ProductID,
		ProductName:     data.ProductName,
		ProductCategory: entity.ProductCategory(data.ProductCategory),
		ProductPrice:    data.ProductPrice,
		Quantity:        data.Quantity,
		TotalAmount:     data.TotalAmount,
		AdvanceAmount:   data.AdvanceAmount,
		CustomerName:    data.CustomerName,
		Phone:           data.Phone,
		Address:         data.Address,
		Status:          entity.OrderStatus(data.Status),
		PaymentStatus:   entity.PaymentStatus(data.PaymentStatus),
		AdminNotes:      data.AdminNotes,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
		VerifiedAt:      data.VerifiedAt,
		PaidAt:          data.PaidAt,
		CompletedAt:     data.CompletedAt,
	}
}

func fromOrderDomain(data *entity.Order) *model.ProductOrderModel {
	return &model.ProductOrderModel{
		ID:              data.ID,
		UserID:          data.UserID,
		ProductID:       data.ProductID,
		ProductName:     data.ProductName,
		ProductCategory: string(data.ProductCategory),
		ProductPrice:    data.ProductPrice,
		Quantity:        data.Quantity,
		TotalAmount:     data.TotalAmount,
		AdvanceAmount:   data.AdvanceAmount,
		CustomerName:    data.CustomerName,
		Phone:           data.Phone,
		Address:         data.Address,
		Status:          string(data.Status),
		PaymentStatus:   string(data.PaymentStatus),
		AdminNotes:      data.AdminNotes,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
		VerifiedAt:      data.VerifiedAt,
		PaidAt:          data.PaidAt,
		CompletedAt:     data.CompletedAt,
	}
}
