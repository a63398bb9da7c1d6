package store

import (
	"testing"

	"starmobiles/internal/client/localstore"
	"starmobiles/internal/delivery/api/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderFor(p dto.Product) OrderInput {
	return OrderInput{
		ProductID:    p.ID,
		Quantity:     1,
		CustomerName: "Asha",
		Phone:        "9876543210",
		Address:      "MG Road, Pune",
	}
}

func TestOrderStore_CreateOrder_AdvanceFromRelay(t *testing.T) {
	tests := []struct {
		price       int64
		wantAdvance int64
	}{
		{price: 10000, wantAdvance: 2000},
		{price: 9999, wantAdvance: 2000},
		{price: 1299, wantAdvance: 260},
	}

	for _, tt := range tests {
		f := newFakeRelay(t)
		p := product("Motorola", "Edge 50", "mobile", tt.price)
		f.products = []dto.Product{p}
		sf := f.signedIn(t)

		res := sf.Orders.CreateOrder(t.Context(), orderFor(p))
		require.True(t, res.Success, res.Message)
		assert.Equal(t, tt.price, res.Order.TotalAmount)
		assert.Equal(t, tt.wantAdvance, res.Order.AdvanceAmount)
	}
}

func TestOrderStore_CreateOrder_RequiresSession(t *testing.T) {
	f := newFakeRelay(t)
	p := product("Motorola", "G84", "mobile", 19999)
	f.products = []dto.Product{p}
	sf := f.storefront(localstore.NewMemoryStore())

	res := sf.Orders.CreateOrder(t.Context(), orderFor(p))
	assert.False(t, res.Success)
	assert.Equal(t, msgLoginToOrder, res.Message)
	assert.Zero(t, f.hits.Load())
}

func TestOrderStore_CreateOrder_RefusesWhileInFlight(t *testing.T) {
	f := newFakeRelay(t)
	p := product("Nothing", "Phone 2a", "mobile", 23999)
	f.products = []dto.Product{p}
	// The profile rides along with login so no confirmation fetch races the count.
	f.loginProfile = &dto.Profile{ID: testUserID, Name: "Asha", Email: testEmail, Role: "user"}
	sf := f.signedIn(t)
	entered, release := f.hold("POST /orders")
	before := f.hits.Load()

	first := make(chan OrderResult, 1)
	go func() { first <- sf.Orders.CreateOrder(t.Context(), orderFor(p)) }()
	waitFor(t, entered)

	res := sf.Orders.CreateOrder(t.Context(), orderFor(p))
	assert.False(t, res.Success)
	assert.Equal(t, "Please wait for the current request to finish", res.Message)
	assert.Equal(t, before+1, f.hits.Load())

	release()
	res = <-first
	require.True(t, res.Success, res.Message)
	assert.Len(t, sf.Orders.Orders(), 1)
}

func TestOrderStore_StatusUpdates(t *testing.T) {
	f := newFakeRelay(t)
	older := product("Google", "Pixel 8a", "mobile", 52999)
	newer := product("Nothing", "Phone (2a)", "mobile", 23999)
	f.products = []dto.Product{older, newer}
	sf := f.signedIn(t)
	orders := sf.Orders

	first := orders.CreateOrder(t.Context(), orderFor(older))
	require.True(t, first.Success)
	second := orders.CreateOrder(t.Context(), orderFor(newer))
	require.True(t, second.Success)

	// Newest first.
	require.Len(t, orders.Orders(), 2)
	assert.Equal(t, second.Order.ID, orders.Orders()[0].ID)

	received := "advance_received"
	require.True(t, orders.UpdateOrderStatus(t.Context(), first.Order.ID, "advance_paid", &received, nil))
	got := orders.Orders()[1]
	assert.Equal(t, "advance_paid", got.Status)
	assert.Equal(t, "advance_received", got.PaymentStatus)

	// Status only.
	require.True(t, orders.UpdateOrderStatus(t.Context(), first.Order.ID, "processing", nil, nil))
	got = orders.Orders()[1]
	assert.Equal(t, "processing", got.Status)
	assert.Equal(t, "advance_received", got.PaymentStatus)

	require.True(t, orders.CancelOrder(t.Context(), second.Order.ID))
	require.Len(t, orders.Orders(), 2)
	assert.Equal(t, "cancelled", orders.Orders()[0].Status)

	orders.FetchOrders(t.Context())
	assert.Len(t, orders.Orders(), 2)
}
