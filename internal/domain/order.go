package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Items     []OrderItem
	Total     Money
	Status    OrderStatus
	CreatedAt time.Time
}

type OrderItem struct {
	ProductID uuid.UUID
	Title     string
	UnitPrice Money
	Quantity  int
}
