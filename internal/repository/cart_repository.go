package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mlmarketplace/storefront/internal/domain"
	"github.com/mlmarketplace/storefront/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const pgForeignKeyViolation = "23503"

type cartRepository struct {
	pool *pgxpool.Pool
}

func NewCart(pool *pgxpool.Pool) (port.CartRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &cartRepository{pool: pool}, nil
}

const getCartQuery = `
	SELECT ci.id, ci.product_id, ci.quantity, ci.created_at,
	       p.title, p.price_amount, p.price_currency, p.image, p.free_shipping
	FROM cart_items ci
	JOIN products p ON p.id = ci.product_id
	WHERE ci.owner_id = $1
	ORDER BY ci.created_at, ci.id`

func (r *cartRepository) GetCart(ctx context.Context, ownerID uuid.UUID) (domain.Cart, error) {
	if ownerID == uuid.Nil {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	rows, err := r.pool.Query(ctx, getCartQuery, ownerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		line, err := scanCartLine(rows)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("scanCartLine: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("rows.Err: %w", err)
	}

	cart := domain.Cart{OwnerID: ownerID, Lines: lines}
	cart.Total = cart.ComputeTotal()
	return cart, nil
}

func (r *cartRepository) AddItem(ctx context.Context, ownerID, productID uuid.UUID, quantity int) error {
	if ownerID == uuid.Nil {
		return fmt.Errorf("ownerID is empty")
	}
	if quantity < 1 {
		return fmt.Errorf("quantity[%d] is not positive", quantity)
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO cart_items (owner_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		ownerID, productID, quantity)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return fmt.Errorf("product[%s]: %w", productID, domain.ErrNotFound)
		}
		return fmt.Errorf("pool.Exec: %w", err)
	}
	return nil
}

// UpdateItem sets the line's quantity; zero or less deletes the line, same
// contract as the PUT endpoint.
func (r *cartRepository) UpdateItem(ctx context.Context, ownerID, lineID uuid.UUID, quantity int) (bool, error) {
	if ownerID == uuid.Nil {
		return false, fmt.Errorf("ownerID is empty")
	}

	if quantity <= 0 {
		return r.DeleteItem(ctx, ownerID, lineID)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE cart_items SET quantity = $1
		WHERE id = $2 AND owner_id = $3`,
		quantity, lineID, ownerID)
	if err != nil {
		return false, fmt.Errorf("pool.Exec: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, ownerID, lineID uuid.UUID) (bool, error) {
	if ownerID == uuid.Nil {
		return false, fmt.Errorf("ownerID is empty")
	}

	tag, err := r.pool.Exec(ctx,
		`DELETE FROM cart_items WHERE id = $1 AND owner_id = $2`,
		lineID, ownerID)
	if err != nil {
		return false, fmt.Errorf("pool.Exec: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *cartRepository) Clear(ctx context.Context, ownerID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return fmt.Errorf("ownerID is empty")
	}

	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE owner_id = $1`, ownerID); err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}
	return nil
}

func scanCartLine(rows pgx.Rows) (domain.CartLine, error) {
	var (
		line         domain.CartLine
		priceAmount  decimal.Decimal
		priceCode    string
		createdAt    time.Time
		title, image string
		freeShipping bool
	)

	err := rows.Scan(&line.ID, &line.ProductID, &line.Quantity, &createdAt,
		&title, &priceAmount, &priceCode, &image, &freeShipping)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("rows.Scan: %w", err)
	}

	parsedCurrency, err := currency.ParseISO(priceCode)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("currency[%s] is not valid: %w", priceCode, err)
	}

	line.UnitPrice = domain.Money{Amount: priceAmount, Currency: parsedCurrency}
	line.Product = domain.ProductSnapshot{Title: title, Image: image, FreeShipping: freeShipping}
	line.CreatedAt = createdAt
	return line, nil
}
