package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mlmarketplace/storefront/internal/api"
	"github.com/mlmarketplace/storefront/internal/domain"
	"github.com/mlmarketplace/storefront/internal/port"
	"github.com/mlmarketplace/storefront/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

// ---- in-memory repositories ----

type memCarts struct {
	products map[uuid.UUID]domain.Product
	lines    map[uuid.UUID][]domain.CartLine
}

func newMemCarts(products map[uuid.UUID]domain.Product) *memCarts {
	return &memCarts{products: products, lines: map[uuid.UUID][]domain.CartLine{}}
}

func (m *memCarts) GetCart(_ context.Context, ownerID uuid.UUID) (domain.Cart, error) {
	cart := domain.Cart{OwnerID: ownerID, Lines: m.lines[ownerID]}
	cart.Total = cart.ComputeTotal()
	return cart, nil
}

func (m *memCarts) AddItem(_ context.Context, ownerID, productID uuid.UUID, quantity int) error {
	product, ok := m.products[productID]
	if !ok {
		return fmt.Errorf("product[%s]: %w", productID, domain.ErrNotFound)
	}

	lines := m.lines[ownerID]
	for i, line := range lines {
		if line.ProductID == productID {
			lines[i].Quantity += quantity
			return nil
		}
	}
	m.lines[ownerID] = append(lines, domain.CartLine{
		ID:        uuid.New(),
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: product.Price,
		Product:   product.Snapshot(),
	})
	return nil
}

func (m *memCarts) UpdateItem(_ context.Context, ownerID, lineID uuid.UUID, quantity int) (bool, error) {
	for i, line := range m.lines[ownerID] {
		if line.ID != lineID {
			continue
		}
		if quantity <= 0 {
			m.lines[ownerID] = append(m.lines[ownerID][:i], m.lines[ownerID][i+1:]...)
		} else {
			m.lines[ownerID][i].Quantity = quantity
		}
		return true, nil
	}
	return false, nil
}

func (m *memCarts) DeleteItem(ctx context.Context, ownerID, lineID uuid.UUID) (bool, error) {
	return m.UpdateItem(ctx, ownerID, lineID, 0)
}

func (m *memCarts) Clear(_ context.Context, ownerID uuid.UUID) error {
	delete(m.lines, ownerID)
	return nil
}

type memProducts struct {
	products map[uuid.UUID]domain.Product
}

func (m *memProducts) List(_ context.Context, filter port.ProductFilter) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range m.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memProducts) Get(_ context.Context, id uuid.UUID) (domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("product[%s]: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

type memUsers struct {
	byEmail map[string]domain.User
	hashes  map[string]string
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: map[string]domain.User{}, hashes: map[string]string{}}
}

func (m *memUsers) Create(_ context.Context, user domain.User, passwordHash string) (domain.User, error) {
	if _, ok := m.byEmail[user.Email]; ok {
		return domain.User{}, fmt.Errorf("email[%s]: %w", user.Email, domain.ErrEmailTaken)
	}
	user.ID = uuid.New()
	m.byEmail[user.Email] = user
	m.hashes[user.Email] = passwordHash
	return user, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (domain.User, string, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return domain.User{}, "", fmt.Errorf("user[%s]: %w", email, domain.ErrNotFound)
	}
	return user, m.hashes[email], nil
}

func (m *memUsers) Get(_ context.Context, id uuid.UUID) (domain.User, error) {
	for _, user := range m.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return domain.User{}, fmt.Errorf("user[%s]: %w", id, domain.ErrNotFound)
}

type memSettings struct {
	settings domain.DisplaySettings
}

func (m *memSettings) GetAll(context.Context) (domain.DisplaySettings, error) {
	return m.settings, nil
}

func (m *memSettings) Update(_ context.Context, settings domain.DisplaySettings) error {
	for field, enabled := range settings {
		m.settings[field] = enabled
	}
	return nil
}

type memOrders struct {
	carts  *memCarts
	orders map[uuid.UUID][]domain.Order
}

func (m *memOrders) CreateFromCart(ctx context.Context, userID uuid.UUID) (domain.Order, error) {
	cart, _ := m.carts.GetCart(ctx, userID)
	if len(cart.Lines) == 0 {
		return domain.Order{}, domain.ErrEmptyCart
	}

	order := domain.Order{
		ID:        uuid.New(),
		UserID:    userID,
		Total:     cart.Total,
		Status:    domain.OrderStatusPending,
		CreatedAt: time.Now(),
	}
	for _, line := range cart.Lines {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: line.ProductID,
			Title:     line.Product.Title,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}
	m.orders[userID] = append(m.orders[userID], order)
	return order, m.carts.Clear(ctx, userID)
}

func (m *memOrders) List(_ context.Context, userID uuid.UUID) ([]domain.Order, error) {
	return m.orders[userID], nil
}

// ---- harness ----

type fixture struct {
	router  *gin.Engine
	carts   *memCarts
	headset domain.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	headset := domain.Product{
		ID:    uuid.New(),
		Title: "Gaming Headset",
		Price: domain.MoneyFromFloat(149.90),
		Image: "https://cdn.example/headset.jpg",
	}
	products := map[uuid.UUID]domain.Product{headset.ID: headset}

	carts := newMemCarts(products)
	srv, err := server.New(
		carts,
		&memProducts{products: products},
		newMemUsers(),
		&memSettings{settings: domain.DefaultDisplaySettings()},
		&memOrders{carts: carts, orders: map[uuid.UUID][]domain.Order{}},
		server.Config{JWTSecret: []byte("test-secret"), TokenTTL: time.Hour},
		nil,
	)
	require.NoError(t, err)

	return &fixture{router: srv.Router(), carts: carts, headset: headset}
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) registerUser(t *testing.T, email string) string {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/api/auth/register", "", api.RegisterRequest{
		Name:     "Ana Silva",
		Email:    email,
		Password: "s3cret-pw",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp api.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// ---- auth ----

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)

	token := f.registerUser(t, "ana@example.com")

	rec := f.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[api.UserResponse](t, rec)
	assert.Equal(t, "ana@example.com", me.Email)

	// Same email again is a conflict.
	rec = f.do(t, http.MethodPost, "/api/auth/register", "", api.RegisterRequest{
		Name: "Ana Again", Email: "ana@example.com", Password: "another-pw",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/auth/login", "", api.LoginRequest{
		Email: "ana@example.com", Password: "s3cret-pw",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[api.TokenResponse](t, rec)
	assert.Equal(t, "bearer", login.TokenType)
	assert.NotEmpty(t, login.AccessToken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	f.registerUser(t, "ana@example.com")

	rec := f.do(t, http.MethodPost, "/api/auth/login", "", api.LoginRequest{
		Email: "ana@example.com", Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Unknown email gets the same answer as a wrong password.
	rec = f.do(t, http.MethodPost, "/api/auth/login", "", api.LoginRequest{
		Email: "nobody@example.com", Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  api.RegisterRequest
	}{
		{name: "missing name", req: api.RegisterRequest{Email: "a@b.com", Password: "longenough"}},
		{name: "invalid email", req: api.RegisterRequest{Name: "Ana", Email: "not-an-email", Password: "longenough"}},
		{name: "short password", req: api.RegisterRequest{Name: "Ana", Email: "a@b.com", Password: "abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/auth/register", "", tt.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newFixture(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodGet, "/api/cart"},
		{http.MethodPost, "/api/cart"},
		{http.MethodDelete, "/api/cart"},
		{http.MethodPut, "/api/admin/display-settings"},
		{http.MethodGet, "/api/orders"},
		{http.MethodPost, "/api/orders"},
	}
	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			rec := f.do(t, p.method, p.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			rec = f.do(t, p.method, p.path, "garbage-token", nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

// ---- cart ----

func TestCartFlow(t *testing.T) {
	f := newFixture(t)
	token := f.registerUser(t, "ana@example.com")

	// Quantity omitted defaults to one.
	rec := f.do(t, http.MethodPost, "/api/cart", token, gin.H{"product_id": f.headset.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Same product again increments the line instead of duplicating it.
	rec = f.do(t, http.MethodPost, "/api/cart", token, api.AddToCartRequest{ProductID: f.headset.ID, Quantity: 2})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decode[api.CartResponse](t, rec)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, f.headset.ID, cart.Items[0].ProductID)
	assert.Equal(t, "Gaming Headset", cart.Items[0].Product.Title)
	assert.InDelta(t, 449.70, cart.Total, 0.001)

	// Zero quantity on update removes the line.
	rec = f.do(t, http.MethodPut, "/api/cart/"+cart.Items[0].ID.String(), token, api.UpdateCartItemRequest{Quantity: 0})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/cart", token, nil)
	cart = decode[api.CartResponse](t, rec)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)
}

func TestCartRemoveAndClear(t *testing.T) {
	f := newFixture(t)
	token := f.registerUser(t, "ana@example.com")

	rec := f.do(t, http.MethodPost, "/api/cart", token, api.AddToCartRequest{ProductID: f.headset.ID, Quantity: 2})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/cart", token, nil)
	cart := decode[api.CartResponse](t, rec)
	require.Len(t, cart.Items, 1)

	rec = f.do(t, http.MethodDelete, "/api/cart/"+cart.Items[0].ID.String(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/cart", token, api.AddToCartRequest{ProductID: f.headset.ID, Quantity: 1})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(t, http.MethodDelete, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/cart", token, nil)
	cart = decode[api.CartResponse](t, rec)
	assert.Empty(t, cart.Items)
}

func TestAddUnknownProduct(t *testing.T) {
	f := newFixture(t)
	token := f.registerUser(t, "ana@example.com")

	rec := f.do(t, http.MethodPost, "/api/cart", token, api.AddToCartRequest{ProductID: uuid.New(), Quantity: 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartInvalidLineID(t *testing.T) {
	f := newFixture(t)
	token := f.registerUser(t, "ana@example.com")

	rec := f.do(t, http.MethodPut, "/api/cart/not-a-uuid", token, api.UpdateCartItemRequest{Quantity: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/cart/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- display settings ----

func TestDisplaySettings(t *testing.T) {
	f := newFixture(t)
	token := f.registerUser(t, "admin@example.com")

	rec := f.do(t, http.MethodGet, "/api/display-settings", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	settings := decode[map[string]bool](t, rec)
	assert.True(t, settings["show_price"])

	rec = f.do(t, http.MethodPut, "/api/admin/display-settings", token, map[string]bool{"show_price": false})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/display-settings", "", nil)
	settings = decode[map[string]bool](t, rec)
	assert.False(t, settings["show_price"])
	assert.True(t, settings["show_discount"], "untouched fields keep their value")

	rec = f.do(t, http.MethodPut, "/api/admin/display-settings", token, map[string]bool{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- orders ----

func TestCheckout(t *testing.T) {
	f := newFixture(t)
	token := f.registerUser(t, "ana@example.com")

	rec := f.do(t, http.MethodPost, "/api/cart", token, api.AddToCartRequest{ProductID: f.headset.ID, Quantity: 2})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/orders", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[api.OrderResponse](t, rec)
	assert.Equal(t, string(domain.OrderStatusPending), order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.InDelta(t, 299.80, order.Total, 0.001)

	// Checkout emptied the cart, so a second checkout has nothing to do.
	rec = f.do(t, http.MethodPost, "/api/orders", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/orders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	orders := decode[[]api.OrderResponse](t, rec)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
}

// ---- products ----

func TestProducts(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	products := decode[[]api.ProductResponse](t, rec)
	require.Len(t, products, 1)
	assert.Equal(t, f.headset.ID, products[0].ID)
	assert.InDelta(t, 149.90, products[0].Price, 0.001)

	rec = f.do(t, http.MethodGet, "/api/products/"+f.headset.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	product := decode[api.ProductResponse](t, rec)
	assert.Equal(t, "Gaming Headset", product.Title)

	rec = f.do(t, http.MethodGet, "/api/products/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/products/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
