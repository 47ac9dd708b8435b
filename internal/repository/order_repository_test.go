package repository_test

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mlmarketplace/storefront/internal/domain"
	"github.com/mlmarketplace/storefront/internal/port"
	"github.com/mlmarketplace/storefront/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

type orderRepositorySuite struct {
	suite.Suite

	repo      port.OrderRepository
	cartRepo  port.CartRepository
	pool      *pgxpool.Pool
	container *postgres.PostgresContainer
}

func TestOrderRepositorySuite(t *testing.T) {
	suite.Run(t, new(orderRepositorySuite))
}

func (suite *orderRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	container, connStr, err := startPostgres(ctx)
	suite.NoError(err)
	suite.container = container

	suite.pool, err = repository.NewPool(ctx, connStr)
	suite.NoError(err)

	suite.repo, err = repository.NewOrder(suite.pool)
	suite.NoError(err)

	suite.cartRepo, err = repository.NewCart(suite.pool)
	suite.NoError(err)
}

func (suite *orderRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
	if suite.container != nil {
		_ = suite.container.Terminate(context.Background())
	}
}

func (suite *orderRepositorySuite) TestCreateFromCart() {
	defer suite.deleteAll()
	t := suite.T()
	ctx := t.Context()

	user := suite.createUser()
	first := suite.createProduct("100.00")
	second := suite.createProduct("25.50")

	require.NoError(t, suite.cartRepo.AddItem(ctx, user, first, 2))
	require.NoError(t, suite.cartRepo.AddItem(ctx, user, second, 1))

	order, err := suite.repo.CreateFromCart(ctx, user)
	require.NoError(t, err)

	require.NotEqual(t, uuid.Nil, order.ID)
	require.Equal(t, user, order.UserID)
	require.Equal(t, domain.OrderStatusPending, order.Status)
	require.False(t, order.CreatedAt.IsZero())
	require.Len(t, order.Items, 2)
	require.True(t, order.Total.Amount.Equal(decimal.RequireFromString("225.50")))

	// Checkout empties the cart.
	cart, err := suite.cartRepo.GetCart(ctx, user)
	require.NoError(t, err)
	require.Empty(t, cart.Lines)
}

func (suite *orderRepositorySuite) TestCreateFromCartEmptyCart() {
	t := suite.T()

	_, err := suite.repo.CreateFromCart(t.Context(), suite.createUser())
	require.ErrorIs(t, err, domain.ErrEmptyCart)

	_, err = suite.repo.CreateFromCart(t.Context(), uuid.Nil)
	require.EqualError(t, err, "userID is empty")
}

func (suite *orderRepositorySuite) TestList() {
	defer suite.deleteAll()
	t := suite.T()
	ctx := t.Context()

	user := suite.createUser()
	product := suite.createProduct("10.00")

	require.NoError(t, suite.cartRepo.AddItem(ctx, user, product, 1))
	firstOrder, err := suite.repo.CreateFromCart(ctx, user)
	require.NoError(t, err)

	require.NoError(t, suite.cartRepo.AddItem(ctx, user, product, 3))
	secondOrder, err := suite.repo.CreateFromCart(ctx, user)
	require.NoError(t, err)

	orders, err := suite.repo.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	// Newest first, each order carries its own items.
	require.Equal(t, secondOrder.ID, orders[0].ID)
	require.Equal(t, firstOrder.ID, orders[1].ID)
	require.Len(t, orders[0].Items, 1)
	require.Equal(t, 3, orders[0].Items[0].Quantity)
	require.True(t, orders[0].Total.Amount.Equal(decimal.RequireFromString("30.00")))
	require.True(t, orders[1].Total.Amount.Equal(decimal.RequireFromString("10.00")))
}

func (suite *orderRepositorySuite) TestListNoOrders() {
	t := suite.T()

	orders, err := suite.repo.List(t.Context(), suite.createUser())
	require.NoError(t, err)
	require.Empty(t, orders)
}

func (suite *orderRepositorySuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(),
		"TRUNCATE TABLE cart_items, order_items, orders CASCADE")
	suite.NoError(err)
}

func (suite *orderRepositorySuite) createUser() uuid.UUID {
	var id uuid.UUID
	err := suite.pool.QueryRow(suite.T().Context(), `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id`,
		gofakeit.Name(), gofakeit.Email(), gofakeit.UUID()).Scan(&id)
	suite.NoError(err)
	return id
}

func (suite *orderRepositorySuite) createProduct(price string) uuid.UUID {
	var id uuid.UUID
	err := suite.pool.QueryRow(suite.T().Context(), `
		INSERT INTO products (title, price_amount, image, free_shipping)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		gofakeit.ProductName(), decimal.RequireFromString(price), gofakeit.URL(), gofakeit.Bool()).Scan(&id)
	suite.NoError(err)
	return id
}
