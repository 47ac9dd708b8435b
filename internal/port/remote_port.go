package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/mlmarketplace/storefront/internal/domain"
)

// RemoteCart is the client's view of the server cart. Any call made with an
// expired or missing token returns domain.ErrUnauthorized.
type RemoteCart interface {
	GetCart(ctx context.Context) (domain.Cart, error)
	AddItem(ctx context.Context, productID uuid.UUID, quantity int) error
	UpdateItem(ctx context.Context, lineID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, lineID uuid.UUID) error
	ClearCart(ctx context.Context) error
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Location string
}

// RemoteAuth issues and holds the bearer token used by subsequent calls.
type RemoteAuth interface {
	Login(ctx context.Context, email, password string) (domain.Identity, error)
	Register(ctx context.Context, input RegisterInput) (domain.Identity, error)
	SetToken(token string)
	ClearToken()
}

type SettingsFetcher interface {
	FetchDisplaySettings(ctx context.Context) (domain.DisplaySettings, error)
}
