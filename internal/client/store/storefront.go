package store

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"starmobiles/config"
	"starmobiles/internal/client/localstore"
	"starmobiles/internal/client/provider"
	"starmobiles/internal/client/relay"

	"github.com/pkg/errors"
)

// Storefront wires every store to one relay, provider and local store.
// Per-user stores are loaded when a session starts and reset when it ends.
type Storefront struct {
	Session  *SessionStore
	Catalog  *CatalogStore
	Cart     *CartStore
	Bookings *BookingStore
	Orders   *OrderStore

	Relay *relay.Client

	provider    *provider.Client
	local       localstore.Store
	unsubscribe func()

	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	closed  bool
	loading sync.WaitGroup
}

// Open builds a storefront from client config. The local store is a bbolt
// file when a path is configured, otherwise in memory.
func Open(cfg *config.ClientConfig, logger *slog.Logger) (*Storefront, error) {
	var local localstore.Store = localstore.NewMemoryStore()
	if cfg.LocalStore.Path != "" {
		bolt, err := localstore.OpenBoltStore(cfg.LocalStore.Path, logger)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open local store")
		}
		local = bolt
	}

	relayClient := relay.New(relay.Config{
		BaseURL: cfg.Relay.BaseURL,
		AnonKey: cfg.Relay.AnonKey,
		Timeout: cfg.Relay.Timeout,
	}, nil, logger)

	return New(relayClient, local, cfg.ProfileFetchTimeout, logger), nil
}

// New wires the stores around existing clients.
func New(relayClient *relay.Client, local localstore.Store, profileTimeout time.Duration, logger *slog.Logger) *Storefront {
	authProvider := provider.New(relayClient, local, logger)
	session := NewSessionStore(SessionStoreParams{
		Provider:       authProvider,
		Relay:          relayClient,
		Local:          local,
		Logger:         logger,
		ProfileTimeout: profileTimeout,
	})

	sf := &Storefront{
		Session:  session,
		Catalog:  NewCatalogStore(relayClient, logger),
		Cart:     NewCartStore(relayClient, session, logger),
		Bookings: NewBookingStore(relayClient, session, logger),
		Orders:   NewOrderStore(relayClient, session, logger),
		Relay:    relayClient,
		provider: authProvider,
		local:    local,
	}
	sf.ctx, sf.cancel = context.WithCancel(context.Background())

	var signedIn atomic.Bool
	sf.unsubscribe = session.Subscribe(func(state SessionState) {
		now := state.IsAuthenticated()
		was := signedIn.Swap(now)
		switch {
		case !was && now:
			sf.loadUserData()
		case was && !now:
			sf.Cart.Reset()
			sf.Bookings.Reset()
			sf.Orders.Reset()
		}
	})

	return sf
}

// loadUserData fetches the new shopper's cart, bookings and orders without
// holding up the session notification.
func (sf *Storefront) loadUserData() {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	if sf.closed {
		return
	}
	sf.loading.Go(func() {
		sf.Cart.FetchCart(sf.ctx)
		sf.Bookings.FetchBookings(sf.ctx)
		sf.Orders.FetchOrders(sf.ctx)
	})
}

// Init restores the persisted session.
func (sf *Storefront) Init(ctx context.Context) {
	sf.Session.Init(ctx)
}

// Close stops the stores and releases the local store.
func (sf *Storefront) Close() error {
	sf.unsubscribe()

	sf.mu.Lock()
	sf.closed = true
	sf.mu.Unlock()
	sf.cancel()
	sf.loading.Wait()

	sf.Session.Close()
	sf.provider.Close()

	return errors.Wrap(sf.local.Close(), "failed to close local store")
}
