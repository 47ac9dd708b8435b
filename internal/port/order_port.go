package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/mlmarketplace/storefront/internal/domain"
)

type OrderRepository interface {
	// CreateFromCart snapshots the user's cart into an order and clears the
	// cart, atomically. Returns domain.ErrEmptyCart when there is nothing to
	// check out.
	CreateFromCart(ctx context.Context, userID uuid.UUID) (domain.Order, error)
	List(ctx context.Context, userID uuid.UUID) ([]domain.Order, error)
}
