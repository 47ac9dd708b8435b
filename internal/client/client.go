// Package client talks to the storefront REST API. It owns the bearer token
// for the session: once set, every request carries it, and a 401 from any
// endpoint surfaces as domain.ErrUnauthorized so the cart engine can drop
// back to guest mode.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/mlmarketplace/storefront/internal/api"
	"github.com/mlmarketplace/storefront/internal/domain"
	"github.com/mlmarketplace/storefront/internal/port"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	http *resty.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/") + "/api").
			SetTimeout(defaultTimeout).
			SetHeader("Content-Type", "application/json"),
	}

	c.http.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if token := c.Token(); token != "" {
			req.SetHeader("Authorization", "Bearer "+token)
		}
		return nil
	})

	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) ClearToken() {
	c.SetToken("")
}

// ---- auth ----

func (c *Client) Login(ctx context.Context, email, password string) (domain.Identity, error) {
	var out api.TokenResponse
	resp, err := c.request(ctx).
		SetBody(api.LoginRequest{Email: email, Password: password}).
		SetResult(&out).
		Post("/auth/login")
	if err := c.check(resp, err); err != nil {
		return domain.Identity{}, fmt.Errorf("POST /auth/login: %w", err)
	}

	identity := domain.Identity{Token: out.AccessToken, User: out.User.ToDomain()}
	c.SetToken(identity.Token)
	return identity, nil
}

func (c *Client) Register(ctx context.Context, input port.RegisterInput) (domain.Identity, error) {
	var out api.TokenResponse
	resp, err := c.request(ctx).
		SetBody(api.RegisterRequest{
			Name:     input.Name,
			Email:    input.Email,
			Password: input.Password,
			Location: input.Location,
		}).
		SetResult(&out).
		Post("/auth/register")
	if err := c.check(resp, err); err != nil {
		return domain.Identity{}, fmt.Errorf("POST /auth/register: %w", err)
	}

	identity := domain.Identity{Token: out.AccessToken, User: out.User.ToDomain()}
	c.SetToken(identity.Token)
	return identity, nil
}

func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var out api.UserResponse
	resp, err := c.request(ctx).SetResult(&out).Get("/auth/me")
	if err := c.check(resp, err); err != nil {
		return domain.User{}, fmt.Errorf("GET /auth/me: %w", err)
	}
	return out.ToDomain(), nil
}

// ---- cart ----

func (c *Client) GetCart(ctx context.Context) (domain.Cart, error) {
	var out api.CartResponse
	resp, err := c.request(ctx).SetResult(&out).Get("/cart")
	if err := c.check(resp, err); err != nil {
		return domain.Cart{}, fmt.Errorf("GET /cart: %w", err)
	}
	return out.ToDomain(), nil
}

func (c *Client) AddItem(ctx context.Context, productID uuid.UUID, quantity int) error {
	resp, err := c.request(ctx).
		SetBody(api.AddToCartRequest{ProductID: productID, Quantity: quantity}).
		Post("/cart")
	if err := c.check(resp, err); err != nil {
		return fmt.Errorf("POST /cart: %w", err)
	}
	return nil
}

func (c *Client) UpdateItem(ctx context.Context, lineID uuid.UUID, quantity int) error {
	resp, err := c.request(ctx).
		SetBody(api.UpdateCartItemRequest{Quantity: quantity}).
		Put("/cart/" + lineID.String())
	if err := c.check(resp, err); err != nil {
		return fmt.Errorf("PUT /cart/{id}: %w", err)
	}
	return nil
}

func (c *Client) RemoveItem(ctx context.Context, lineID uuid.UUID) error {
	resp, err := c.request(ctx).Delete("/cart/" + lineID.String())
	if err := c.check(resp, err); err != nil {
		return fmt.Errorf("DELETE /cart/{id}: %w", err)
	}
	return nil
}

func (c *Client) ClearCart(ctx context.Context) error {
	resp, err := c.request(ctx).Delete("/cart")
	if err := c.check(resp, err); err != nil {
		return fmt.Errorf("DELETE /cart: %w", err)
	}
	return nil
}

// ---- display settings ----

func (c *Client) FetchDisplaySettings(ctx context.Context) (domain.DisplaySettings, error) {
	var out map[string]bool
	resp, err := c.request(ctx).SetResult(&out).Get("/display-settings")
	if err := c.check(resp, err); err != nil {
		return nil, fmt.Errorf("GET /display-settings: %w", err)
	}
	return domain.DisplaySettings(out), nil
}

// ---- products ----

func (c *Client) ListProducts(ctx context.Context, filter port.ProductFilter) ([]domain.Product, error) {
	var out []api.ProductResponse
	req := c.request(ctx).SetResult(&out)
	if filter.Search != "" {
		req.SetQueryParam("search", filter.Search)
	}
	if filter.Category != "" {
		req.SetQueryParam("category", filter.Category)
	}
	resp, err := req.Get("/products")
	if err := c.check(resp, err); err != nil {
		return nil, fmt.Errorf("GET /products: %w", err)
	}

	products := make([]domain.Product, 0, len(out))
	for _, p := range out {
		products = append(products, p.ToDomain())
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	var out api.ProductResponse
	resp, err := c.request(ctx).SetResult(&out).Get("/products/" + id.String())
	if err := c.check(resp, err); err != nil {
		return domain.Product{}, fmt.Errorf("GET /products/{id}: %w", err)
	}
	return out.ToDomain(), nil
}

// ---- orders ----

func (c *Client) Checkout(ctx context.Context) (api.OrderResponse, error) {
	var out api.OrderResponse
	resp, err := c.request(ctx).SetResult(&out).Post("/orders")
	if err := c.check(resp, err); err != nil {
		return api.OrderResponse{}, fmt.Errorf("POST /orders: %w", err)
	}
	return out, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]api.OrderResponse, error) {
	var out []api.OrderResponse
	resp, err := c.request(ctx).SetResult(&out).Get("/orders")
	if err := c.check(resp, err); err != nil {
		return nil, fmt.Errorf("GET /orders: %w", err)
	}
	return out, nil
}

// ---- plumbing ----

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx).SetError(&api.ErrorResponse{})
}

func (c *Client) check(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return domain.ErrUnauthorized
	}
	if resp.IsError() {
		if apiErr, ok := resp.Error().(*api.ErrorResponse); ok && apiErr.Error != "" {
			return fmt.Errorf("status %d: %s", resp.StatusCode(), apiErr.Error)
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode())
	}
	return nil
}
