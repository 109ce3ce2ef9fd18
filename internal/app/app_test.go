package app

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SergeyBogomolovv/storefront-service/internal/auth"
	"github.com/SergeyBogomolovv/storefront-service/internal/config"
	"github.com/SergeyBogomolovv/storefront-service/internal/handler"
	"github.com/SergeyBogomolovv/storefront-service/internal/repo"
	"github.com/SergeyBogomolovv/storefront-service/internal/service"
	"github.com/SergeyBogomolovv/storefront-service/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestApp(t *testing.T) *application {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		Http: config.Http{Host: "localhost", Port: "0"},
		Cors: config.CORS{AllowedOrigins: []string{"http://localhost:3000"}},
	}

	store := repo.NewMemoryRepo()
	tokens := auth.NewTokenManager("test-secret-0123456789", time.Hour)
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)

	orderService := service.NewOrderService(logger, store, cache.NewLRUCache(100, time.Minute))
	authService := service.NewAuthService(logger, store, hasher, tokens)

	a := New(logger, cfg)
	a.SetHTTPHandlers(
		handler.NewHTTPHandler(logger, orderService, tokens),
		handler.NewAuthHandler(logger, authService),
	)
	return a
}

func call(t *testing.T, h http.Handler, method, path, token, body string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Code, rr.Body.Bytes()
}

func placeOrderBody(title, category string, price float64, qty int) string {
	body, _ := json.Marshal(map[string]any{
		"items": []map[string]any{
			{"productId": 1, "title": title, "unitPrice": price, "quantity": qty, "category": category},
		},
		"shipping": map[string]string{
			"fullName":   "John Doe",
			"phone":      "+15550000000",
			"address":    "1 Main St",
			"city":       "Springfield",
			"postalCode": "12345",
		},
		"paymentMethod": "card",
	})
	return string(body)
}

func TestStorefrontFlow(t *testing.T) {
	a := newTestApp(t)
	r := a.router

	status, _ := call(t, r, http.MethodPost, "/auth/register", "",
		`{"name":"Jane","email":"jane@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, status)

	status, _ = call(t, r, http.MethodPost, "/auth/register", "",
		`{"name":"Jane","email":"JANE@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusConflict, status)

	status, body := call(t, r, http.MethodPost, "/auth/login", "",
		`{"email":"jane@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, status)

	var login handler.LoginResponse
	require.NoError(t, json.Unmarshal(body, &login))
	require.NotEmpty(t, login.Token)

	status, body = call(t, r, http.MethodGet, "/analytics/overview", login.Token, "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"totalOrders":0,"totalRevenue":0,"averageOrderValue":0,"monthlySales":[],"categoryBreakdown":[]}`, string(body))

	status, body = call(t, r, http.MethodPost, "/orders", login.Token, placeOrderBody("Headphones", "Electronics", 59.99, 2))
	require.Equal(t, http.StatusCreated, status)

	var placed handler.Order
	require.NoError(t, json.Unmarshal(body, &placed))
	assert.Equal(t, 119.98, placed.Total)
	assert.Equal(t, "processing", placed.Status)

	status, _ = call(t, r, http.MethodPost, "/orders", login.Token, placeOrderBody("Lamp", "", 15, 1))
	require.Equal(t, http.StatusCreated, status)

	status, _ = call(t, r, http.MethodPost, "/orders", login.Token, placeOrderBody("Lamp", "Home", 15, 0))
	require.Equal(t, http.StatusBadRequest, status)

	// витрина шлёт price вместо unitPrice, такой заказ не должен стать бесплатным
	status, body = call(t, r, http.MethodPost, "/orders", login.Token,
		strings.Replace(placeOrderBody("Lamp", "Home", 15, 1), `"unitPrice"`, `"price"`, 1))
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), `"Items[0].UnitPrice":"required"`)

	status, body = call(t, r, http.MethodGet, "/orders", login.Token, "")
	require.Equal(t, http.StatusOK, status)
	var orders []handler.Order
	require.NoError(t, json.Unmarshal(body, &orders))
	assert.Len(t, orders, 2)

	status, body = call(t, r, http.MethodGet, "/orders/me", login.Token, "")
	require.Equal(t, http.StatusOK, status)
	var mine handler.OrdersResponse
	require.NoError(t, json.Unmarshal(body, &mine))
	assert.Len(t, mine.Orders, 2)

	status, _ = call(t, r, http.MethodGet, "/orders/"+placed.ID, login.Token, "")
	assert.Equal(t, http.StatusOK, status)

	status, body = call(t, r, http.MethodGet, "/analytics/overview", login.Token, "")
	require.Equal(t, http.StatusOK, status)

	var overview handler.Overview
	require.NoError(t, json.Unmarshal(body, &overview))
	assert.Equal(t, 2, overview.TotalOrders)
	assert.Equal(t, 134.98, overview.TotalRevenue)
	assert.Equal(t, 67.49, overview.AverageOrderValue)
	require.Len(t, overview.MonthlySales, 1)
	assert.Equal(t, 134.98, overview.MonthlySales[0].Total)
	assert.Equal(t, []handler.CategoryQuantity{
		{Category: "Electronics", Quantity: 2},
		{Category: "Other", Quantity: 1},
	}, overview.CategoryBreakdown)
}

func TestOrdersAreScopedToOwner(t *testing.T) {
	a := newTestApp(t)
	r := a.router

	tokenFor := func(email string) string {
		status, _ := call(t, r, http.MethodPost, "/auth/register", "",
			`{"name":"User","email":"`+email+`","password":"secret1"}`)
		require.Equal(t, http.StatusCreated, status)

		status, body := call(t, r, http.MethodPost, "/auth/login", "",
			`{"email":"`+email+`","password":"secret1"}`)
		require.Equal(t, http.StatusOK, status)

		var login handler.LoginResponse
		require.NoError(t, json.Unmarshal(body, &login))
		return login.Token
	}

	alice := tokenFor("alice@example.com")
	bob := tokenFor("bob@example.com")

	status, body := call(t, r, http.MethodPost, "/orders", alice, placeOrderBody("TV", "Electronics", 300, 1))
	require.Equal(t, http.StatusCreated, status)
	var placed handler.Order
	require.NoError(t, json.Unmarshal(body, &placed))

	status, _ = call(t, r, http.MethodGet, "/orders/"+placed.ID, bob, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = call(t, r, http.MethodGet, "/orders", bob, "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))
}

func TestServiceEndpoints(t *testing.T) {
	a := newTestApp(t)

	status, body := call(t, a.router, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"OK"}`, string(body))

	status, _ = call(t, a.router, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = call(t, a.router, http.MethodGet, "/orders", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}
