package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"starmobiles/config"
	deliverycontext "starmobiles/internal/delivery/context"
	"starmobiles/internal/domain/entity"
	domainerrors "starmobiles/internal/domain/errors"
	"starmobiles/internal/domain/repository"
	"starmobiles/internal/domain/service"
	"starmobiles/internal/usecase"
	"starmobiles/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// upiReferenceLength is how many characters of the order id go into the UPI reference.
const upiReferenceLength = 8

type orderService struct {
	txManager   repository.TransactionManager
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	publisher   service.EventPublisher
	qrService   service.QRCodeService
	advanceRate decimal.Decimal
	payeeID     string
	payeeName   string
	now         func() time.Time
	logger      *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	OrderRepo   repository.OrderRepository
	ProductRepo repository.ProductRepository
	Publisher   service.EventPublisher
	QRService   service.QRCodeService
	Config      *config.Config
	Logger      *slog.Logger
}

// NewOrderService creates the order service. The advance rate comes from the
// storefront config and must parse as a decimal fraction in (0, 1].
func NewOrderService(params OrderServiceParams) (usecase.OrderUsecase, error) {
	srv := &orderService{
		txManager:   params.TxManager,
		orderRepo:   params.OrderRepo,
		productRepo: params.ProductRepo,
		publisher:   params.Publisher,
		qrService:   params.QRService,
		advanceRate: entity.DefaultAdvanceRate,
		now:         time.Now,
		logger:      params.Logger,
	}

	if params.Config != nil {
		storefront := params.Config.Storefront
		if storefront.AdvanceRate != "" {
			rate, err := decimal.NewFromString(storefront.AdvanceRate)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid storefront.advanceRate %q", storefront.AdvanceRate)
			}
			if !rate.IsPositive() || rate.GreaterThan(decimal.NewFromInt(1)) {
				return nil, errors.Errorf("storefront.advanceRate %s must be in (0, 1]", rate)
			}
			srv.advanceRate = rate
		}
		srv.payeeID = storefront.UPIPayeeID
		srv.payeeName = storefront.UPIPayeeName
	}

	return srv, nil
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateOrder books a catalog product. Price, name and category are read
// from the catalog; the advance is fixed here and never recomputed.
func (srv *orderService) CreateOrder(ctx context.Context, actor usecase.Actor, input *usecase.OrderInput) (*entity.Order, error) {
	if err := validateOrderInput(input); err != nil {
		return nil, err
	}

	product, err := srv.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, input.ProductID.String())
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	order := &entity.Order{
		UserID:          actor.UserID,
		ProductID:       product.ID,
		ProductName:     product.DisplayName(),
		ProductCategory: product.Category,
		ProductPrice:    product.Price,
		Quantity:        input.Quantity,
		TotalAmount:     product.Price * int64(input.Quantity),
		AdvanceAmount:   entity.AdvanceAmount(product.Price, srv.advanceRate),
		CustomerName:    strings.TrimSpace(input.CustomerName),
		Phone:           util.NormalizePhone(input.Phone),
		Address:         strings.TrimSpace(input.Address),
		Status:          entity.OrderPendingVerification,
		PaymentStatus:   entity.PaymentUnpaid,
	}

	if err := srv.orderRepo.Create(ctx, order); err != nil {
		srv.log(ctx).Error("Failed to create order", slog.Any("userID", actor.UserID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create order")
	}
	srv.log(ctx).Info("Order created",
		slog.Any("orderID", order.ID),
		slog.String("total", util.FormatPrice(order.TotalAmount)),
		slog.String("advance", util.FormatPrice(order.AdvanceAmount)))

	publishStoreEvent(ctx, srv.publisher, srv.log(ctx), orderEvent(service.EventOrderCreated, order), srv.now())

	return order, nil
}

func validateOrderInput(input *usecase.OrderInput) error {
	var problems []string

	if input.ProductID == uuid.Nil {
		problems = append(problems, "product is required")
	}
	if input.Quantity < 1 {
		problems = append(problems, "quantity must be at least 1")
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		problems = append(problems, "customer name is required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		problems = append(problems, "phone is required")
	}
	if strings.TrimSpace(input.Address) == "" {
		problems = append(problems, "address is required")
	}

	if len(problems) == 0 {
		return nil
	}

	return domainerrors.ErrValidationFailed.WithDetails(strings.Join(problems, ", "))
}

func (srv *orderService) ListOrders(ctx context.Context, actor usecase.Actor) ([]*entity.Order, error) {
	var (
		orders []*entity.Order
		err    error
	)
	if actor.IsAdmin() {
		orders, err = srv.orderRepo.ListAll(ctx)
	} else {
		orders, err = srv.orderRepo.ListByUser(ctx, actor.UserID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}

// UpdateOrder applies the change under a row lock. Admins may set any
// status and payment status; owners may only cancel a non-terminal order.
func (srv *orderService) UpdateOrder(ctx context.Context, actor usecase.Actor, id uuid.UUID, update *entity.OrderUpdate) (*entity.Order, error) {
	if update.Status != "" && !update.Status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown order status " + string(update.Status))
	}
	if update.PaymentStatus != nil && !update.PaymentStatus.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown payment status " + string(*update.PaymentStatus))
	}

	var (
		order   *entity.Order
		changed bool
	)
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.OrderRepo()

		var err error
		order, err = orderRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return errors.Wrap(domainerrors.ErrOrderNotFound, id.String())
			}

			return errors.Wrap(err, "failed to find order")
		}

		if !actor.IsAdmin() {
			if err := checkOwnerUpdate(actor, order, update); err != nil {
				return err
			}
		}

		before := *order
		update.Apply(order, srv.now())
		changed = before.Status != order.Status || before.PaymentStatus != order.PaymentStatus

		if err := orderRepo.Update(ctx, order); err != nil {
			return errors.Wrap(err, "failed to update order")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to update order", slog.Any("orderID", id), slog.Any("actorID", actor.UserID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update order")
	}
	srv.log(ctx).Info("Order updated",
		slog.Any("orderID", id),
		slog.String("status", string(order.Status)),
		slog.String("paymentStatus", string(order.PaymentStatus)))

	if changed {
		publishStoreEvent(ctx, srv.publisher, srv.log(ctx), orderEvent(service.EventOrderStatusChanged, order), srv.now())
	}

	return order, nil
}

func checkOwnerUpdate(actor usecase.Actor, order *entity.Order, update *entity.OrderUpdate) error {
	if order.UserID != actor.UserID {
		// Other customers' orders do not exist as far as the caller can tell.
		return errors.Wrap(domainerrors.ErrOrderNotFound, order.ID.String())
	}
	if update.Status != entity.OrderCancelled || update.PaymentStatus != nil || update.AdminNotes != nil {
		return errors.Wrap(domainerrors.ErrForbidden, "customers may only cancel their orders")
	}
	if order.Status.IsTerminal() {
		return errors.Wrapf(domainerrors.ErrOrderNotCancellable, "order is %s", order.Status)
	}

	return nil
}

// CancelOrder is the soft cancel path shared by the owner and admins.
func (srv *orderService) CancelOrder(ctx context.Context, actor usecase.Actor, id uuid.UUID) (*entity.Order, error) {
	return srv.UpdateOrder(ctx, actor, id, &entity.OrderUpdate{Status: entity.OrderCancelled})
}

// PaymentQR renders the UPI request for the order's advance.
func (srv *orderService) PaymentQR(ctx context.Context, actor usecase.Actor, id uuid.UUID) (*usecase.PaymentQR, error) {
	if srv.payeeID == "" {
		return nil, errors.Wrap(domainerrors.ErrInternalError, "UPI payee is not configured")
	}

	order, err := srv.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, errors.Wrap(domainerrors.ErrOrderNotFound, id.String())
		}

		return nil, errors.Wrap(err, "failed to find order")
	}
	if !actor.CanAccess(order.UserID) {
		return nil, errors.Wrap(domainerrors.ErrOrderNotFound, id.String())
	}
	if order.Status == entity.OrderCancelled {
		return nil, errors.Wrap(domainerrors.ErrConflict, "order is cancelled")
	}

	payment := service.UPIPayment{
		PayeeID:   srv.payeeID,
		PayeeName: srv.payeeName,
		Amount:    order.AdvanceAmount,
		Note:      "Advance for " + order.ProductName,
		Reference: strings.ToUpper(strings.ReplaceAll(order.ID.String(), "-", "")[:upiReferenceLength]),
	}

	png, err := srv.qrService.GeneratePaymentQR(payment)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render payment QR")
	}

	return &usecase.PaymentQR{PNG: png, URI: srv.qrService.PaymentURI(payment), Amount: order.AdvanceAmount}, nil
}
