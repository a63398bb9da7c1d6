package store

import (
	"context"
	"log/slog"
	"sync"

	"starmobiles/internal/client/relay"
	"starmobiles/internal/delivery/api/dto"

	"github.com/google/uuid"
)

// CartState is a snapshot of the cart store.
type CartState struct {
	Items     []dto.CartItem
	IsLoading bool
	// RequiresAuth is set when the last operation was refused for lack of
	// a session.
	RequiresAuth bool
	Error        string
}

// TotalItems sums the quantities.
func (s CartState) TotalItems() int {
	total := 0
	for _, item := range s.Items {
		total += item.Quantity
	}

	return total
}

// TotalPrice sums price times quantity, in rupees.
func (s CartState) TotalPrice() int64 {
	var total int64
	for _, item := range s.Items {
		total += item.Price * int64(item.Quantity)
	}

	return total
}

// CartStore mirrors the signed-in shopper's cart.
type CartStore struct {
	subscribers[CartState]

	relay  *relay.Client
	tokens TokenSource
	logger *slog.Logger

	loads loadSeq
	mu    sync.Mutex
	state CartState
}

func NewCartStore(relayClient *relay.Client, tokens TokenSource, logger *slog.Logger) *CartStore {
	return &CartStore{relay: relayClient, tokens: tokens, logger: logger}
}

func (c *CartStore) State() CartState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

func (c *CartStore) Items() []dto.CartItem { return c.State().Items }

func (c *CartStore) TotalItems() int { return c.State().TotalItems() }

func (c *CartStore) TotalPrice() int64 { return c.State().TotalPrice() }

func (c *CartStore) RequiresAuth() bool { return c.State().RequiresAuth }

func (c *CartStore) IsLoading() bool { return c.State().IsLoading }

// FetchCart reloads the cart. Without a session the cart is emptied.
func (c *CartStore) FetchCart(ctx context.Context) {
	seq := c.loads.next()
	token, ok := c.token(ctx)
	if !ok {
		c.update(func(s *CartState) { s.Items = nil })

		return
	}

	c.update(func(s *CartState) { s.IsLoading = c.loads.latest(seq) || s.IsLoading })
	c.load(ctx, seq, token)
}

// AddItem adds one unit of productID and reloads the cart. It reports false
// when there is no session or the relay refused.
func (c *CartStore) AddItem(ctx context.Context, productID uuid.UUID) bool {
	token, ok := c.token(ctx)
	if !ok {
		return false
	}

	c.update(func(s *CartState) { s.IsLoading = true })

	res := c.relay.AddToCart(ctx, token, dto.AddToCartRequest{ProductID: productID, Quantity: 1})
	if !res.IsOk() {
		c.fail("add to cart", res.Err())

		return false
	}
	c.load(ctx, c.loads.next(), token)

	return true
}

// UpdateQuantity sets an item's quantity; zero or less removes it.
func (c *CartStore) UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int) bool {
	if quantity <= 0 {
		return c.RemoveItem(ctx, itemID)
	}

	token, ok := c.token(ctx)
	if !ok {
		return false
	}

	res := c.relay.UpdateCartItem(ctx, token, itemID, quantity)
	if !res.IsOk() {
		c.fail("update cart item", res.Err())

		return false
	}

	c.loads.next()
	c.update(func(s *CartState) {
		items := make([]dto.CartItem, len(s.Items))
		copy(items, s.Items)
		for i := range items {
			if items[i].ID == itemID {
				items[i].Quantity = quantity
			}
		}
		s.Items = items
		s.Error = ""
	})

	return true
}

func (c *CartStore) RemoveItem(ctx context.Context, itemID uuid.UUID) bool {
	token, ok := c.token(ctx)
	if !ok {
		return false
	}

	res := c.relay.RemoveCartItem(ctx, token, itemID)
	if !res.IsOk() {
		c.fail("remove cart item", res.Err())

		return false
	}

	c.loads.next()
	c.update(func(s *CartState) {
		items := make([]dto.CartItem, 0, len(s.Items))
		for _, item := range s.Items {
			if item.ID != itemID {
				items = append(items, item)
			}
		}
		s.Items = items
		s.Error = ""
	})

	return true
}

func (c *CartStore) ClearCart(ctx context.Context) bool {
	token, ok := c.token(ctx)
	if !ok {
		return false
	}

	res := c.relay.ClearCart(ctx, token)
	if !res.IsOk() {
		c.fail("clear cart", res.Err())

		return false
	}

	c.loads.next()
	c.update(func(s *CartState) {
		s.Items = nil
		s.Error = ""
	})

	return true
}

// Reset drops everything held for the previous shopper.
func (c *CartStore) Reset() {
	c.loads.next()
	c.update(func(s *CartState) { *s = CartState{} })
}

func (c *CartStore) load(ctx context.Context, seq uint64, token string) {
	res := c.relay.ListCart(ctx, token)
	if !res.IsOk() {
		c.fail("fetch cart", res.Err())

		return
	}

	c.update(func(s *CartState) {
		if !c.loads.latest(seq) {
			return
		}
		s.Items = res.Value()
		s.IsLoading = false
		s.Error = ""
	})
}

// token checks for a session before any network call.
func (c *CartStore) token(ctx context.Context) (string, bool) {
	token, ok := bearer(ctx, c.tokens)
	c.update(func(s *CartState) { s.RequiresAuth = !ok })

	return token, ok
}

func (c *CartStore) fail(op string, err *relay.Error) {
	c.logger.Warn("Cart request failed", slog.String("op", op), slog.Any("error", err))
	c.update(func(s *CartState) {
		s.IsLoading = false
		s.Error = err.Message
	})
}

func (c *CartStore) update(fn func(*CartState)) {
	c.mu.Lock()
	fn(&c.state)
	snapshot := c.state
	c.mu.Unlock()

	c.publish(snapshot)
}
