package domain

import (
	"time"

	"github.com/google/uuid"
)

// Mode tells which backend owns the cart's source of truth.
type Mode string

const (
	ModeGuest         Mode = "guest"
	ModeAuthenticated Mode = "authenticated"
)

// ProductSnapshot is the denormalized product data a cart line carries so the
// cart renders without refetching every product.
type ProductSnapshot struct {
	Title        string
	Image        string
	FreeShipping bool
}

type CartLine struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	UnitPrice Money
	Product   ProductSnapshot

	CreatedAt time.Time
}

// Subtotal is the line's contribution to the cart total.
func (l CartLine) Subtotal() Money {
	return l.UnitPrice.Mul(l.Quantity)
}

// Cart holds the lines in insertion order. In guest mode Total is always
// recomputed locally; in authenticated mode it is whatever the server said.
type Cart struct {
	OwnerID uuid.UUID
	Lines   []CartLine
	Total   Money
	Mode    Mode
}

// ComputeTotal sums unit price times quantity across all lines.
func (c Cart) ComputeTotal() Money {
	total := ZeroMoney()
	for _, line := range c.Lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// ItemsCount is the badge count: the sum of quantities, not the line count.
func (c Cart) ItemsCount() int {
	var count int
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// FindLine returns the index of the line with the given id, or -1.
func (c Cart) FindLine(lineID uuid.UUID) int {
	for i, line := range c.Lines {
		if line.ID == lineID {
			return i
		}
	}
	return -1
}

// FindProduct returns the index of the line holding the given product, or -1.
func (c Cart) FindProduct(productID uuid.UUID) int {
	for i, line := range c.Lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

// Clone returns a deep enough copy that callers cannot mutate engine state.
func (c Cart) Clone() Cart {
	out := c
	out.Lines = make([]CartLine, len(c.Lines))
	copy(out.Lines, c.Lines)
	return out
}
