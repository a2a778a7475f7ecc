package api

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/aura-store/internal/auth"
	"github.com/MikeMC777/aura-store/internal/order"
	"github.com/MikeMC777/aura-store/internal/product"
)

func testAddress() order.Address {
	return order.Address{
		FirstName: "Ana",
		LastName:  "Lima",
		Email:     "ana@example.com",
		Street:    "Rua A 10",
		City:      "Lisbon",
		Country:   "PT",
		Phone:     "+351900000000",
	}
}

type ordersResponse struct {
	Success bool          `json:"success"`
	Orders  []order.Order `json:"orders"`
}

func TestPlaceOrder_PricesFromCatalogAndClearsCart(t *testing.T) {
	env := newTestEnv(t)
	tee := uuid.NewString()
	env.products.put(product.Product{
		ID: tee, Name: "Tee", Price: decimal.RequireFromString("19.90"),
		Sizes: []string{"M"}, Images: []string{"https://img/tee.png"},
	})
	uid := uuid.NewString()
	tok := env.token(t, uid, auth.RoleUser)

	w := env.do(http.MethodPost, "/api/cart/add", tok, map[string]string{"itemId": tee, "size": "M"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// client-side price is ignored
	w = env.do(http.MethodPost, "/api/order/place", tok, map[string]any{
		"items":   []map[string]any{{"_id": tee, "size": "M", "quantity": 2, "price": 1}},
		"address": testAddress(),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var placed struct {
		Success bool        `json:"success"`
		Message string      `json:"message"`
		Order   order.Order `json:"order"`
	}
	decode(t, w, &placed)
	assert.True(t, placed.Success)
	assert.Equal(t, "Order Placed", placed.Message)
	assert.True(t, placed.Order.Amount.Equal(decimal.RequireFromString("49.80")), placed.Order.Amount.String())
	assert.Equal(t, order.StatusPlaced, placed.Order.Status)
	assert.Equal(t, order.PaymentCOD, placed.Order.PaymentMethod)
	assert.False(t, placed.Order.Payment)
	require.Len(t, placed.Order.Items, 1)
	assert.Equal(t, "https://img/tee.png", placed.Order.Items[0].Image)

	assert.Empty(t, env.cart(t, tok))

	w = env.do(http.MethodPost, "/api/order/userorders", tok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var mine ordersResponse
	decode(t, w, &mine)
	require.Len(t, mine.Orders, 1)
	assert.Equal(t, placed.Order.ID, mine.Orders[0].ID)
	assert.Equal(t, uid, mine.Orders[0].UserID)

	other := env.token(t, uuid.NewString(), auth.RoleUser)
	w = env.do(http.MethodPost, "/api/order/userorders", other, nil)
	var none ordersResponse
	decode(t, w, &none)
	assert.NotNil(t, none.Orders)
	assert.Empty(t, none.Orders)
}

func TestPlaceOrder_Rejections(t *testing.T) {
	env := newTestEnv(t)
	tee := uuid.NewString()
	env.products.put(product.Product{ID: tee, Name: "Tee", Price: decimal.NewFromInt(10), Sizes: []string{"M"}})
	tok := env.token(t, uuid.NewString(), auth.RoleUser)

	w := env.do(http.MethodPost, "/api/cart/add", tok, map[string]string{"itemId": tee, "size": "M"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	before := env.cart(t, tok)
	require.NotEmpty(t, before)

	noPhone := testAddress()
	noPhone.Phone = ""

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"empty items", map[string]any{"items": []any{}, "address": testAddress()}, http.StatusBadRequest},
		{"zero quantity", map[string]any{"items": []map[string]any{{"_id": tee, "size": "M", "quantity": 0}}, "address": testAddress()}, http.StatusBadRequest},
		{"bad size", map[string]any{"items": []map[string]any{{"_id": tee, "size": "XL", "quantity": 1}}, "address": testAddress()}, http.StatusBadRequest},
		{"missing address field", map[string]any{"items": []map[string]any{{"_id": tee, "size": "M", "quantity": 1}}, "address": noPhone}, http.StatusBadRequest},
		{"unknown product", map[string]any{"items": []map[string]any{{"_id": uuid.NewString(), "size": "M", "quantity": 1}}, "address": testAddress()}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/order/place", tok, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.Equal(t, before, env.cart(t, tok), "cart must survive a rejected order")
		})
	}
	assert.Empty(t, env.orders.orders)

	w = env.do(http.MethodPost, "/api/order/place", "", map[string]any{"items": []any{}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOrders_ListAndStatus(t *testing.T) {
	env := newTestEnv(t)
	tee := uuid.NewString()
	env.products.put(product.Product{ID: tee, Name: "Tee", Price: decimal.NewFromInt(10)})
	admin := env.token(t, testAdminEmail, auth.RoleAdmin)

	for i := 0; i < 2; i++ {
		tok := env.token(t, uuid.NewString(), auth.RoleUser)
		w := env.do(http.MethodPost, "/api/order/place", tok, map[string]any{
			"items":   []map[string]any{{"productId": tee, "size": "One", "quantity": 1}},
			"address": testAddress(),
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	user := env.token(t, uuid.NewString(), auth.RoleUser)
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodPost, "/api/order/list", user, nil).Code)

	w := env.do(http.MethodPost, "/api/order/list", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var all ordersResponse
	decode(t, w, &all)
	require.Len(t, all.Orders, 2)
	id := all.Orders[0].ID

	w = env.do(http.MethodPost, "/api/order/status", admin, map[string]string{"orderId": id, "status": order.StatusShipped})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, order.StatusShipped, env.orders.orders[len(env.orders.orders)-1].Status)

	// statuses are not forced to move forward
	w = env.do(http.MethodPost, "/api/order/status", admin, map[string]string{"orderId": id, "status": order.StatusPacking})
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusBadRequest,
		env.do(http.MethodPost, "/api/order/status", admin, map[string]string{"orderId": id, "status": "Lost"}).Code)
	assert.Equal(t, http.StatusNotFound,
		env.do(http.MethodPost, "/api/order/status", admin, map[string]string{"orderId": uuid.NewString(), "status": order.StatusDelivered}).Code)
	assert.Equal(t, http.StatusNotFound,
		env.do(http.MethodPost, "/api/order/status", admin, map[string]string{"orderId": "42", "status": order.StatusDelivered}).Code)
	assert.Equal(t, http.StatusBadRequest,
		env.do(http.MethodPost, "/api/order/status", admin, map[string]string{"orderId": id}).Code)
	assert.Equal(t, http.StatusForbidden,
		env.do(http.MethodPost, "/api/order/status", user, map[string]string{"orderId": id, "status": order.StatusDelivered}).Code)
}

func TestPlaceOrder_RepoFailureKeepsCart(t *testing.T) {
	env := newTestEnv(t)
	tee := uuid.NewString()
	env.products.put(product.Product{ID: tee, Name: "Tee", Price: decimal.NewFromInt(10)})
	tok := env.token(t, uuid.NewString(), auth.RoleUser)

	w := env.do(http.MethodPost, "/api/cart/add", tok, map[string]string{"itemId": tee, "size": "One"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	before := env.cart(t, tok)

	env.orders.failNext = errors.New("tx aborted")
	w = env.do(http.MethodPost, "/api/order/place", tok, map[string]any{
		"items":   []map[string]any{{"_id": tee, "size": "One", "quantity": 1}},
		"address": testAddress(),
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, before, env.cart(t, tok))
	assert.Empty(t, env.orders.orders)
}

func TestPlaceOrder_AcceptsAnyUUIDForm(t *testing.T) {
	env := newTestEnv(t)
	tee := uuid.NewString()
	env.products.put(product.Product{ID: tee, Name: "Tee", Price: decimal.NewFromInt(10)})
	tok := env.token(t, uuid.NewString(), auth.RoleUser)

	w := env.do(http.MethodPost, "/api/order/place", tok, map[string]any{
		"items":   []map[string]any{{"_id": "{" + strings.ToUpper(tee) + "}", "size": "One", "quantity": 1}},
		"address": testAddress(),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var placed struct {
		Order order.Order `json:"order"`
	}
	decode(t, w, &placed)
	require.Len(t, placed.Order.Items, 1)
	assert.Equal(t, tee, placed.Order.Items[0].ProductID)
}
