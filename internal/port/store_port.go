package port

import "github.com/mlmarketplace/storefront/internal/domain"

// GuestStore is the durable local store: the guest cart keyed independently
// of identity, and the identity itself. The localStorage of this client.
type GuestStore interface {
	LoadCart() ([]domain.CartLine, error)
	SaveCart(lines []domain.CartLine) error

	LoadIdentity() (*domain.Identity, error)
	SaveIdentity(identity domain.Identity) error
	ClearIdentity() error
}
