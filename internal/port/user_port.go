package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/mlmarketplace/storefront/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User, passwordHash string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, string, error)
	Get(ctx context.Context, id uuid.UUID) (domain.User, error)
}
