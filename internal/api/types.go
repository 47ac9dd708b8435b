// Package api defines the JSON wire contract between the storefront client
// and the backend. Prices cross the wire as floats and are converted to
// decimal money at the edges.
package api

import (
	"github.com/google/uuid"
	"github.com/mlmarketplace/storefront/internal/domain"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// ---- auth ----

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Location string `json:"location"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Location string    `json:"location"`
}

type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

// ---- cart ----

type AddToCartRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity"`
}

// Quantity has no binding tag: zero and negative values are valid input and
// mean "remove the line".
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CartItemProduct struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Price        float64   `json:"price"`
	Image        string    `json:"image"`
	FreeShipping bool      `json:"freeShipping"`
}

type CartItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"productId"`
	Quantity  int             `json:"quantity"`
	Product   CartItemProduct `json:"product"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total float64            `json:"total"`
}

// ---- products ----

type SellerResponse struct {
	Name       string  `json:"name"`
	Reputation float64 `json:"reputation"`
	Location   string  `json:"location"`
}

type SpecResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ProductResponse struct {
	ID               uuid.UUID       `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Price            float64         `json:"price"`
	OriginalPrice    *float64        `json:"originalPrice"`
	Discount         int             `json:"discount"`
	Installments     int             `json:"installments"`
	InstallmentPrice *float64        `json:"installmentPrice"`
	Image            string          `json:"image"`
	Images           []string        `json:"images"`
	FreeShipping     bool            `json:"freeShipping"`
	Rating           float64         `json:"rating"`
	Reviews          int             `json:"reviews"`
	Sold             int             `json:"sold"`
	Category         string          `json:"category"`
	Condition        string          `json:"condition"`
	Brand            string          `json:"brand"`
	Stock            int             `json:"stock"`
	Seller           SellerResponse  `json:"seller"`
	Specs            []SpecResponse  `json:"specs"`
	DisplayOverrides map[string]bool `json:"displayOverrides,omitempty"`
}

// ---- orders ----

type OrderItemResponse struct {
	ProductID uuid.UUID `json:"productId"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
}

type OrderResponse struct {
	ID        uuid.UUID           `json:"id"`
	Items     []OrderItemResponse `json:"items"`
	Total     float64             `json:"total"`
	Status    string              `json:"status"`
	CreatedAt string              `json:"created_at"`
}

// ---- mapping ----

func UserFromDomain(u domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Location: u.Location}
}

func (r UserResponse) ToDomain() domain.User {
	return domain.User{ID: r.ID, Name: r.Name, Email: r.Email, Location: r.Location}
}

func CartFromDomain(c domain.Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(c.Lines))
	for _, line := range c.Lines {
		items = append(items, CartItemResponse{
			ID:        line.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Product: CartItemProduct{
				ID:           line.ProductID,
				Title:        line.Product.Title,
				Price:        line.UnitPrice.Float64(),
				Image:        line.Product.Image,
				FreeShipping: line.Product.FreeShipping,
			},
		})
	}
	return CartResponse{Items: items, Total: c.Total.Float64()}
}

func (r CartResponse) ToDomain() domain.Cart {
	lines := make([]domain.CartLine, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, domain.CartLine{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: domain.MoneyFromFloat(item.Product.Price),
			Product: domain.ProductSnapshot{
				Title:        item.Product.Title,
				Image:        item.Product.Image,
				FreeShipping: item.Product.FreeShipping,
			},
		})
	}
	return domain.Cart{Lines: lines, Total: domain.MoneyFromFloat(r.Total)}
}

func ProductFromDomain(p domain.Product) ProductResponse {
	resp := ProductResponse{
		ID:               p.ID,
		Title:            p.Title,
		Description:      p.Description,
		Price:            p.Price.Float64(),
		Discount:         p.Discount,
		Installments:     p.Installments,
		Image:            p.Image,
		Images:           p.Images,
		FreeShipping:     p.FreeShipping,
		Rating:           p.Rating,
		Reviews:          p.Reviews,
		Sold:             p.Sold,
		Category:         p.Category,
		Condition:        p.Condition,
		Brand:            p.Brand,
		Stock:            p.Stock,
		Seller:           SellerResponse(p.Seller),
		DisplayOverrides: p.DisplayOverrides,
	}
	if p.OriginalPrice != nil {
		v := p.OriginalPrice.Float64()
		resp.OriginalPrice = &v
	}
	if ip := p.InstallmentPrice(); ip != nil {
		v := ip.Float64()
		resp.InstallmentPrice = &v
	}
	for _, s := range p.Specs {
		resp.Specs = append(resp.Specs, SpecResponse(s))
	}
	return resp
}

func (r ProductResponse) ToDomain() domain.Product {
	p := domain.Product{
		ID:               r.ID,
		Title:            r.Title,
		Description:      r.Description,
		Price:            domain.MoneyFromFloat(r.Price),
		Discount:         r.Discount,
		Installments:     r.Installments,
		Image:            r.Image,
		Images:           r.Images,
		FreeShipping:     r.FreeShipping,
		Rating:           r.Rating,
		Reviews:          r.Reviews,
		Sold:             r.Sold,
		Category:         r.Category,
		Condition:        r.Condition,
		Brand:            r.Brand,
		Stock:            r.Stock,
		Seller:           domain.Seller(r.Seller),
		DisplayOverrides: r.DisplayOverrides,
	}
	if r.OriginalPrice != nil {
		m := domain.MoneyFromFloat(*r.OriginalPrice)
		p.OriginalPrice = &m
	}
	for _, s := range r.Specs {
		p.Specs = append(p.Specs, domain.Spec(s))
	}
	return p
}

func OrderFromDomain(o domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID: item.ProductID,
			Title:     item.Title,
			Price:     item.UnitPrice.Float64(),
			Quantity:  item.Quantity,
		})
	}
	return OrderResponse{
		ID:        o.ID,
		Items:     items,
		Total:     o.Total.Float64(),
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
