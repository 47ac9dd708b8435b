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

type orderRepository struct {
	pool *pgxpool.Pool
}

func NewOrder(pool *pgxpool.Pool) (port.OrderRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &orderRepository{pool: pool}, nil
}

// CreateFromCart snapshots the current cart into an order and clears the
// cart, all in one transaction so a crash cannot leave a paid-for cart
// behind.
func (r *orderRepository) CreateFromCart(ctx context.Context, userID uuid.UUID) (domain.Order, error) {
	if userID == uuid.Nil {
		return domain.Order{}, fmt.Errorf("userID is empty")
	}

	return withTx(ctx, r.pool, func(tx pgx.Tx) (domain.Order, error) {
		rows, err := tx.Query(ctx, `
			SELECT ci.product_id, ci.quantity, p.title, p.price_amount, p.price_currency
			FROM cart_items ci
			JOIN products p ON p.id = ci.product_id
			WHERE ci.owner_id = $1
			ORDER BY ci.created_at, ci.id`, userID)
		if err != nil {
			return domain.Order{}, fmt.Errorf("tx.Query: %w", err)
		}
		defer rows.Close()

		var items []domain.OrderItem
		for rows.Next() {
			var (
				item   domain.OrderItem
				amount decimal.Decimal
				code   string
			)
			if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Title, &amount, &code); err != nil {
				return domain.Order{}, fmt.Errorf("rows.Scan: %w", err)
			}
			unit, err := currency.ParseISO(code)
			if err != nil {
				return domain.Order{}, fmt.Errorf("currency[%s] is not valid: %w", code, err)
			}
			item.UnitPrice = domain.Money{Amount: amount, Currency: unit}
			items = append(items, item)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return domain.Order{}, fmt.Errorf("rows.Err: %w", err)
		}

		if len(items) == 0 {
			return domain.Order{}, domain.ErrEmptyCart
		}

		total := domain.ZeroMoney()
		for _, item := range items {
			total = total.Add(item.UnitPrice.Mul(item.Quantity))
		}

		order := domain.Order{
			UserID: userID,
			Items:  items,
			Total:  total,
			Status: domain.OrderStatusPending,
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO orders (user_id, total_amount, total_currency, status)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at`,
			userID, total.Amount, total.Currency.String(), order.Status).
			Scan(&order.ID, &order.CreatedAt)
		if err != nil {
			return domain.Order{}, fmt.Errorf("insert order: %w", err)
		}

		for _, item := range items {
			_, err := tx.Exec(ctx, `
				INSERT INTO order_items (order_id, product_id, title, unit_price_amount, unit_price_currency, quantity)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				order.ID, item.ProductID, item.Title,
				item.UnitPrice.Amount, item.UnitPrice.Currency.String(), item.Quantity)
			if err != nil {
				return domain.Order{}, fmt.Errorf("insert order item: %w", err)
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE owner_id = $1`, userID); err != nil {
			return domain.Order{}, fmt.Errorf("clear cart: %w", err)
		}

		return order, nil
	})
}

func (r *orderRepository) List(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("userID is empty")
	}

	rows, err := r.pool.Query(ctx, `
		SELECT o.id, o.total_amount, o.total_currency, o.status, o.created_at,
		       oi.product_id, oi.title, oi.unit_price_amount, oi.unit_price_currency, oi.quantity
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC, o.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	var (
		orders  []domain.Order
		current *domain.Order
	)
	for rows.Next() {
		var (
			order       domain.Order
			item        domain.OrderItem
			totalAmount decimal.Decimal
			totalCode   string
			itemAmount  decimal.Decimal
			itemCode    string
		)
		err := rows.Scan(&order.ID, &totalAmount, &totalCode, &order.Status, &order.CreatedAt,
			&item.ProductID, &item.Title, &itemAmount, &itemCode, &item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}

		totalUnit, err := currency.ParseISO(totalCode)
		if err != nil {
			return nil, fmt.Errorf("currency[%s] is not valid: %w", totalCode, err)
		}
		itemUnit, err := currency.ParseISO(itemCode)
		if err != nil {
			return nil, fmt.Errorf("currency[%s] is not valid: %w", itemCode, err)
		}
		item.UnitPrice = domain.Money{Amount: itemAmount, Currency: itemUnit}

		if current == nil || current.ID != order.ID {
			order.UserID = userID
			order.Total = domain.Money{Amount: totalAmount, Currency: totalUnit}
			orders = append(orders, order)
			current = &orders[len(orders)-1]
		}
		current.Items = append(current.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}
	return orders, nil
}
