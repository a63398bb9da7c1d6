package store

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"starmobiles/internal/client/localstore"
	"starmobiles/internal/client/relay"
	"starmobiles/internal/delivery/api/dto"
	"starmobiles/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const (
	testEmail    = "asha@example.com"
	testPassword = "secret1"
	testToken    = "a1"
)

var testUserID = uuid.MustParse("0b6f3c1e-5d0a-4c3e-9b8e-2f1d7a6c5e41")

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testUser() *dto.User {
	return &dto.User{ID: testUserID, Email: testEmail, UserMetadata: dto.UserMetadata{Name: "Asha"}}
}

func testSession() *dto.Session {
	return &dto.Session{
		AccessToken:  testToken,
		RefreshToken: "refresh-" + testToken,
		TokenType:    "bearer",
		ExpiresIn:    3600,
		ExpiresAt:    time.Now().Add(time.Hour).Unix(),
		User:         testUser(),
	}
}

// fakeRelay is an in-memory relay speaking the response envelope.
type fakeRelay struct {
	t    *testing.T
	srv  *httptest.Server
	hits atomic.Int32

	mu       sync.Mutex
	products []dto.Product
	cart     []dto.CartItem
	bookings []dto.Booking
	orders   []dto.Order
	// profile is served by GET /auth/profile; nil answers 404.
	profile *dto.Profile
	// loginProfile rides along with the login response when set.
	loginProfile *dto.Profile
	profileGate  chan struct{}
	// holds parks the next request to a route, keyed "METHOD /path".
	holds map[string]heldRoute
}

type heldRoute struct {
	entered chan struct{}
	gate    chan struct{}
}

func newFakeRelay(t *testing.T) *fakeRelay {
	t.Helper()

	f := &fakeRelay{t: t}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", f.login)
	mux.HandleFunc("POST /auth/logout", f.authed(func(w http.ResponseWriter, _ *http.Request) { ok(w, http.StatusOK, nil) }))
	mux.HandleFunc("GET /auth/profile", f.authed(f.getProfile))
	mux.HandleFunc("PUT /auth/profile", f.authed(f.putProfile))
	mux.HandleFunc("GET /products", f.listProducts)
	mux.HandleFunc("GET /cart", f.authed(f.listCart))
	mux.HandleFunc("POST /cart", f.authed(f.addCart))
	mux.HandleFunc("PUT /cart/{id}", f.authed(f.updateCart))
	mux.HandleFunc("DELETE /cart/{id}", f.authed(f.removeCart))
	mux.HandleFunc("DELETE /cart", f.authed(f.clearCart))
	mux.HandleFunc("GET /bookings", f.authed(f.listBookings))
	mux.HandleFunc("POST /bookings", f.authed(f.createBooking))
	mux.HandleFunc("PUT /bookings/{id}", f.authed(f.updateBooking))
	mux.HandleFunc("DELETE /bookings/{id}", f.authed(f.deleteBooking))
	mux.HandleFunc("GET /orders", f.authed(f.listOrders))
	mux.HandleFunc("POST /orders", f.authed(f.createOrder))
	mux.HandleFunc("PUT /orders/{id}", f.authed(f.updateOrder))

	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)

		route := r.Method + " " + r.URL.Path
		f.mu.Lock()
		held, found := f.holds[route]
		delete(f.holds, route)
		f.mu.Unlock()
		if found {
			close(held.entered)
			<-held.gate
		}

		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.srv.Close)

	return f
}

func (f *fakeRelay) client() *relay.Client {
	return relay.New(relay.Config{BaseURL: f.srv.URL}, f.srv.Client(), newDiscardLogger())
}

func (f *fakeRelay) storefront(local localstore.Store) *Storefront {
	sf := New(f.client(), local, time.Second, newDiscardLogger())
	f.t.Cleanup(func() { _ = sf.Close() })

	return sf
}

// hold parks the next request to route until release is called. entered is
// closed once that request reaches the relay.
func (f *fakeRelay) hold(route string) (entered <-chan struct{}, release func()) {
	held := heldRoute{entered: make(chan struct{}), gate: make(chan struct{})}

	f.mu.Lock()
	if f.holds == nil {
		f.holds = make(map[string]heldRoute)
	}
	f.holds[route] = held
	f.mu.Unlock()

	release = sync.OnceFunc(func() { close(held.gate) })
	f.t.Cleanup(release)

	return held.entered, release
}

// waitFor fails the test when ch is not closed in time.
func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the relay")
	}
}

func ok(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{"success": true, "data": data})
}

func fail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "message": message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (f *fakeRelay) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			fail(w, http.StatusUnauthorized, "Invalid or expired token")

			return
		}
		next(w, r)
	}
}

func (f *fakeRelay) decode(r *http.Request, v any) {
	assert.NoError(f.t, json.NewDecoder(r.Body).Decode(v))
}

func (f *fakeRelay) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	f.decode(r, &req)
	if (req.Email != testEmail && req.Phone != "+919876543210") || req.Password != testPassword {
		// Legacy relays answer with a bare error string.
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Invalid credentials"})

		return
	}

	f.mu.Lock()
	profile := f.loginProfile
	f.mu.Unlock()
	session := testSession()
	ok(w, http.StatusOK, dto.AuthResponse{Session: session, User: session.User, Profile: profile})
}

func (f *fakeRelay) getProfile(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	profile, gate := f.profile, f.profileGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if profile == nil {
		fail(w, http.StatusNotFound, "Profile not found")

		return
	}
	ok(w, http.StatusOK, profile)
}

func (f *fakeRelay) putProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateProfileRequest
	f.decode(r, &req)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profile == nil {
		fail(w, http.StatusNotFound, "Profile not found")

		return
	}
	if req.Address != nil {
		f.profile.Address = *req.Address
	}
	ok(w, http.StatusOK, f.profile)
}

func (f *fakeRelay) listProducts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	f.mu.Lock()
	defer f.mu.Unlock()
	out := []dto.Product{}
	for _, p := range f.products {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	ok(w, http.StatusOK, out)
}

func (f *fakeRelay) listCart(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ok(w, http.StatusOK, append([]dto.CartItem{}, f.cart...))
}

func (f *fakeRelay) addCart(w http.ResponseWriter, r *http.Request) {
	var req dto.AddToCartRequest
	f.decode(r, &req)
	assert.Equal(f.t, 1, req.Quantity)

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cart {
		if f.cart[i].ProductID == req.ProductID {
			f.cart[i].Quantity += req.Quantity
			ok(w, http.StatusOK, f.cart[i])

			return
		}
	}
	for _, p := range f.products {
		if p.ID == req.ProductID {
			item := dto.CartItem{ID: uuid.New(), ProductID: p.ID, Category: p.Category, Name: p.Brand + " " + p.Model, Price: p.Price, Quantity: req.Quantity}
			f.cart = append(f.cart, item)
			ok(w, http.StatusCreated, item)

			return
		}
	}
	fail(w, http.StatusNotFound, "Product not found")
}

func (f *fakeRelay) updateCart(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateCartRequest
	f.decode(r, &req)
	id := uuid.MustParse(r.PathValue("id"))

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cart {
		if f.cart[i].ID == id {
			f.cart[i].Quantity = req.Quantity
			ok(w, http.StatusOK, nil)

			return
		}
	}
	fail(w, http.StatusNotFound, "Cart item not found")
}

func (f *fakeRelay) removeCart(w http.ResponseWriter, r *http.Request) {
	id := uuid.MustParse(r.PathValue("id"))

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cart {
		if f.cart[i].ID == id {
			f.cart = append(f.cart[:i], f.cart[i+1:]...)
			ok(w, http.StatusOK, nil)

			return
		}
	}
	fail(w, http.StatusNotFound, "Cart item not found")
}

func (f *fakeRelay) clearCart(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	f.cart = nil
	f.mu.Unlock()
	ok(w, http.StatusOK, nil)
}

func (f *fakeRelay) listBookings(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ok(w, http.StatusOK, append([]dto.Booking{}, f.bookings...))
}

func (f *fakeRelay) createBooking(w http.ResponseWriter, r *http.Request) {
	var req dto.BookingRequest
	f.decode(r, &req)

	booking := dto.Booking{
		ID:            uuid.New(),
		UserID:        testUserID,
		CustomerName:  req.CustomerName,
		Phone:         req.Phone,
		Brand:         req.Brand,
		Model:         req.Model,
		ProblemType:   req.ProblemType,
		PreferredDate: req.PreferredDate,
		PreferredTime: req.PreferredTime,
		Status:        string(entity.BookingPending),
		CreatedAt:     time.Now(),
	}
	f.mu.Lock()
	f.bookings = append([]dto.Booking{booking}, f.bookings...)
	f.mu.Unlock()
	ok(w, http.StatusCreated, booking)
}

func (f *fakeRelay) updateBooking(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateBookingRequest
	f.decode(r, &req)
	id := uuid.MustParse(r.PathValue("id"))

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.bookings {
		if f.bookings[i].ID == id {
			f.bookings[i].Status = req.Status
			if req.AdminNotes != nil {
				f.bookings[i].AdminNotes = req.AdminNotes
			}
			ok(w, http.StatusOK, f.bookings[i])

			return
		}
	}
	fail(w, http.StatusNotFound, "Booking not found")
}

func (f *fakeRelay) deleteBooking(w http.ResponseWriter, r *http.Request) {
	id := uuid.MustParse(r.PathValue("id"))

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.bookings {
		if f.bookings[i].ID == id {
			f.bookings = append(f.bookings[:i], f.bookings[i+1:]...)
			ok(w, http.StatusOK, nil)

			return
		}
	}
	fail(w, http.StatusNotFound, "Booking not found")
}

func (f *fakeRelay) listOrders(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ok(w, http.StatusOK, append([]dto.Order{}, f.orders...))
}

func (f *fakeRelay) createOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.OrderRequest
	f.decode(r, &req)

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.ID != req.ProductID {
			continue
		}
		now := time.Now()
		total := p.Price * int64(req.Quantity)
		order := dto.Order{
			ID:              uuid.New(),
			UserID:          testUserID,
			ProductID:       p.ID,
			ProductName:     p.Brand + " " + p.Model,
			ProductCategory: p.Category,
			ProductPrice:    p.Price,
			Quantity:        req.Quantity,
			TotalAmount:     total,
			AdvanceAmount:   entity.AdvanceAmount(total, entity.DefaultAdvanceRate),
			CustomerName:    req.CustomerName,
			Phone:           req.Phone,
			Address:         req.Address,
			Status:          string(entity.OrderPendingVerification),
			PaymentStatus:   string(entity.PaymentUnpaid),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		f.orders = append([]dto.Order{order}, f.orders...)
		ok(w, http.StatusCreated, order)

		return
	}
	fail(w, http.StatusNotFound, "Product not found")
}

func (f *fakeRelay) updateOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateOrderRequest
	f.decode(r, &req)
	id := uuid.MustParse(r.PathValue("id"))

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.orders {
		if f.orders[i].ID != id {
			continue
		}
		if req.Status != "" {
			f.orders[i].Status = req.Status
		}
		if req.PaymentStatus != nil {
			f.orders[i].PaymentStatus = *req.PaymentStatus
		}
		if req.AdminNotes != nil {
			f.orders[i].AdminNotes = req.AdminNotes
		}
		ok(w, http.StatusOK, f.orders[i])

		return
	}
	fail(w, http.StatusNotFound, "Order not found")
}

// signedIn returns a storefront logged in with email once the sign-in loads
// have settled.
func (f *fakeRelay) signedIn(t *testing.T) *Storefront {
	t.Helper()

	sf := f.storefront(localstore.NewMemoryStore())
	res := sf.Session.Login(t.Context(), testEmail, testPassword)
	if !res.Success {
		t.Fatalf("login failed: %s", res.Message)
	}
	sf.loading.Wait()

	return sf
}

func product(brand, model, category string, price int64) dto.Product {
	return dto.Product{ID: uuid.New(), Brand: brand, Model: model, Category: category, Price: price, CreatedAt: time.Now()}
}
