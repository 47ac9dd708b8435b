package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/mlmarketplace/storefront/internal/domain"
)

type ProductFilter struct {
	Search   string
	Category string
}

type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Product, error)
}

type SettingsRepository interface {
	GetAll(ctx context.Context) (domain.DisplaySettings, error)
	Update(ctx context.Context, settings domain.DisplaySettings) error
}
