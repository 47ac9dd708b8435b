package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/mlmarketplace/storefront/internal/domain"
)

// CartRepository is the server-side cart store. AddItem upserts: adding a
// product already in the cart increments its quantity.
type CartRepository interface {
	GetCart(ctx context.Context, ownerID uuid.UUID) (domain.Cart, error)
	AddItem(ctx context.Context, ownerID, productID uuid.UUID, quantity int) error
	UpdateItem(ctx context.Context, ownerID, lineID uuid.UUID, quantity int) (bool, error)
	DeleteItem(ctx context.Context, ownerID, lineID uuid.UUID) (bool, error)
	Clear(ctx context.Context, ownerID uuid.UUID) error
}
