package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mlmarketplace/storefront/internal/domain"
	"github.com/mlmarketplace/storefront/internal/port"
)

const pgUniqueViolation = "23505"

type userRepository struct {
	pool *pgxpool.Pool
}

func NewUser(pool *pgxpool.Pool) (port.UserRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &userRepository{pool: pool}, nil
}

func (r *userRepository) Create(ctx context.Context, user domain.User, passwordHash string) (domain.User, error) {
	if user.Email == "" {
		return domain.User{}, fmt.Errorf("email is empty")
	}
	if passwordHash == "" {
		return domain.User{}, fmt.Errorf("passwordHash is empty")
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, location)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		user.Name, user.Email, passwordHash, user.Location).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.User{}, fmt.Errorf("email[%s]: %w", user.Email, domain.ErrEmailTaken)
		}
		return domain.User{}, fmt.Errorf("pool.QueryRow: %w", err)
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (domain.User, string, error) {
	if email == "" {
		return domain.User{}, "", fmt.Errorf("email is empty")
	}

	var (
		user domain.User
		hash string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, location, password_hash
		FROM users WHERE email = $1`, email).
		Scan(&user.ID, &user.Name, &user.Email, &user.Location, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, "", fmt.Errorf("user[%s]: %w", email, domain.ErrNotFound)
	}
	if err != nil {
		return domain.User{}, "", fmt.Errorf("pool.QueryRow: %w", err)
	}
	return user, hash, nil
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (domain.User, error) {
	var user domain.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, location
		FROM users WHERE id = $1`, id).
		Scan(&user.ID, &user.Name, &user.Email, &user.Location)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, fmt.Errorf("user[%s]: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("pool.QueryRow: %w", err)
	}
	return user, nil
}
