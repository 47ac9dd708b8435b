package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Seller struct {
	Name       string
	Reputation float64
	Location   string
}

type Spec struct {
	Name  string
	Value string
}

type Product struct {
	ID            uuid.UUID
	Title         string
	Description   string
	Price         Money
	OriginalPrice *Money
	Discount      int
	Installments  int
	Image         string
	Images        []string
	FreeShipping  bool
	Rating        float64
	Reviews       int
	Sold          int
	Category      string
	Condition     string
	Brand         string
	Stock         int
	Seller        Seller
	Specs         []Spec

	// DisplayOverrides is a partial map; only the fields it names override the
	// global display settings.
	DisplayOverrides map[string]bool
}

func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		Title:        p.Title,
		Image:        p.Image,
		FreeShipping: p.FreeShipping,
	}
}

// InstallmentPrice is the per-installment price rounded to cents, or nil when
// the product is not sold in installments.
func (p Product) InstallmentPrice() *Money {
	if p.Installments <= 0 {
		return nil
	}
	m := Money{
		Amount:   p.Price.Amount.Div(decimal.NewFromInt(int64(p.Installments))).Round(2),
		Currency: p.Price.Currency,
	}
	return &m
}
