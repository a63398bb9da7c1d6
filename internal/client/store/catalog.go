package store

import (
	"context"
	"log/slog"
	"sync"

	"starmobiles/internal/client/relay"
	"starmobiles/internal/delivery/api/dto"

	"github.com/google/uuid"
)

// ProductFilters narrows a product fetch. Unset fields do not filter.
type ProductFilters struct {
	Category string
	Brand    string
	MinPrice *int64
	MaxPrice *int64
	Featured bool
}

// CatalogState is a snapshot of the catalog store.
type CatalogState struct {
	Products  []dto.Product
	IsLoading bool
	Error     string
}

// CatalogStore holds the last fetched product list.
type CatalogStore struct {
	subscribers[CatalogState]

	relay  *relay.Client
	logger *slog.Logger

	mu    sync.Mutex
	state CatalogState
}

func NewCatalogStore(relayClient *relay.Client, logger *slog.Logger) *CatalogStore {
	return &CatalogStore{relay: relayClient, logger: logger}
}

func (c *CatalogStore) State() CatalogState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

func (c *CatalogStore) Products() []dto.Product { return c.State().Products }

func (c *CatalogStore) IsLoading() bool { return c.State().IsLoading }

func (c *CatalogStore) Error() string { return c.State().Error }

// FetchProducts replaces the list with the relay's answer for filters. On
// failure the previous list stays and Error is set.
func (c *CatalogStore) FetchProducts(ctx context.Context, filters *ProductFilters) {
	var q relay.ProductQuery
	if filters != nil {
		q = relay.ProductQuery{
			Category: filters.Category,
			Brand:    filters.Brand,
			MinPrice: filters.MinPrice,
			MaxPrice: filters.MaxPrice,
			Featured: filters.Featured,
		}
	}

	c.update(func(s *CatalogState) { s.IsLoading = true })

	res := c.relay.ListProducts(ctx, q)
	if !res.IsOk() {
		c.logger.Warn("Failed to fetch products", slog.Any("error", res.Err()))
		c.update(func(s *CatalogState) {
			s.IsLoading = false
			s.Error = res.Err().Message
		})

		return
	}

	c.update(func(s *CatalogState) {
		s.Products = res.Value()
		s.IsLoading = false
		s.Error = ""
	})
}

// ProductByID looks id up in the fetched list only.
func (c *CatalogStore) ProductByID(id uuid.UUID) (dto.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.state.Products {
		if p.ID == id {
			return p, true
		}
	}

	return dto.Product{}, false
}

func (c *CatalogStore) update(fn func(*CatalogState)) {
	c.mu.Lock()
	fn(&c.state)
	snapshot := c.state
	c.mu.Unlock()

	c.publish(snapshot)
}
