package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mlmarketplace/storefront/internal/domain"
	"github.com/mlmarketplace/storefront/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type productRepository struct {
	pool *pgxpool.Pool
}

func NewProduct(pool *pgxpool.Pool) (port.ProductRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &productRepository{pool: pool}, nil
}

const productColumns = `
	id, title, description, price_amount, price_currency, original_price_amount,
	discount, installments, image, images, free_shipping, rating, reviews_count,
	sold, category, condition, brand, stock, seller, specs, display_overrides`

func (r *productRepository) List(ctx context.Context, filter port.ProductFilter) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE TRUE`
	var args []any

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanProduct: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}
	return products, nil
}

func (r *productRepository) Get(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return domain.Product{}, fmt.Errorf("rows.Err: %w", err)
		}
		return domain.Product{}, fmt.Errorf("product[%s]: %w", id, domain.ErrNotFound)
	}

	product, err := scanProduct(rows)
	if err != nil {
		return domain.Product{}, fmt.Errorf("scanProduct: %w", err)
	}
	return product, nil
}

type sellerJSON struct {
	Name       string  `json:"name"`
	Reputation float64 `json:"reputation"`
	Location   string  `json:"location"`
}

type specJSON struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func scanProduct(rows pgx.Rows) (domain.Product, error) {
	var (
		p              domain.Product
		priceAmount    decimal.Decimal
		priceCode      string
		originalAmount *decimal.Decimal
		seller         sellerJSON
		specs          []specJSON
	)

	err := rows.Scan(&p.ID, &p.Title, &p.Description, &priceAmount, &priceCode,
		&originalAmount, &p.Discount, &p.Installments, &p.Image, &p.Images,
		&p.FreeShipping, &p.Rating, &p.Reviews, &p.Sold, &p.Category,
		&p.Condition, &p.Brand, &p.Stock, &seller, &specs, &p.DisplayOverrides)
	if err != nil {
		return domain.Product{}, fmt.Errorf("rows.Scan: %w", err)
	}

	parsedCurrency, err := currency.ParseISO(priceCode)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", priceCode, err)
	}

	p.Price = domain.Money{Amount: priceAmount, Currency: parsedCurrency}
	if originalAmount != nil {
		m := domain.Money{Amount: *originalAmount, Currency: parsedCurrency}
		p.OriginalPrice = &m
	}
	p.Seller = domain.Seller(seller)
	for _, s := range specs {
		p.Specs = append(p.Specs, domain.Spec(s))
	}
	return p, nil
}
