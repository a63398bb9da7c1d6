package impl

import (
	"context"
	"log/slog"

	deliverycontext "starmobiles/internal/delivery/context"
	"starmobiles/internal/domain/entity"
	domainerrors "starmobiles/internal/domain/errors"
	"starmobiles/internal/domain/repository"
	"starmobiles/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type cartService struct {
	txManager repository.TransactionManager
	cartRepo  repository.CartRepository
	logger    *slog.Logger
}

// CartServiceParams holds dependencies for CartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	CartRepo  repository.CartRepository
	Logger    *slog.Logger
}

// NewCartService creates the cart service.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	return &cartService{
		txManager: params.TxManager,
		cartRepo:  params.CartRepo,
		logger:    params.Logger,
	}
}

func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *cartService) ListCart(ctx context.Context, userID uuid.UUID) ([]*entity.CartItem, error) {
	items, err := srv.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list cart")
	}

	return items, nil
}

// AddToCart increments the existing (user, product) row or inserts a new one
// inside a single transaction.
func (srv *cartService) AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*entity.CartItem, error) {
	if quantity < 1 {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "quantity must be at least 1")
	}

	var item *entity.CartItem

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.CartRepo()

		existing, err := cartRepo.FindByUserAndProduct(ctx, userID, productID)
		switch {
		case err == nil:
			existing.Quantity += quantity
			if err := cartRepo.UpdateQuantity(ctx, userID, existing.ID, existing.Quantity); err != nil {
				return errors.Wrap(err, "failed to increment cart item")
			}
			item = existing

			return nil
		case !errors.Is(err, repository.ErrCartItemNotFound):
			return errors.Wrap(err, "failed to find cart item")
		}

		item = &entity.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
		if err := cartRepo.Create(ctx, item); err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return errors.Wrap(domainerrors.ErrProductNotFound, productID.String())
			}

			return errors.Wrap(err, "failed to create cart item")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to add to cart", slog.Any("userID", userID), slog.Any("productID", productID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to add to cart")
	}

	return item, nil
}

// UpdateQuantity sets the row quantity; zero or less removes it.
func (srv *cartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return srv.RemoveItem(ctx, userID, itemID)
	}

	if err := srv.cartRepo.UpdateQuantity(ctx, userID, itemID, quantity); err != nil {
		return cartItemError(err, itemID, "failed to update cart item")
	}

	return nil
}

func (srv *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	if err := srv.cartRepo.Delete(ctx, userID, itemID); err != nil {
		return cartItemError(err, itemID, "failed to remove cart item")
	}

	return nil
}

func (srv *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := srv.cartRepo.DeleteByUser(ctx, userID); err != nil {
		return errors.Wrap(err, "failed to clear cart")
	}
	srv.log(ctx).Debug("Cart cleared", slog.Any("userID", userID))

	return nil
}

func cartItemError(err error, itemID uuid.UUID, msg string) error {
	if errors.Is(err, repository.ErrCartItemNotFound) {
		return errors.Wrap(domainerrors.ErrCartItemNotFound, itemID.String())
	}

	return errors.Wrap(err, msg)
}
