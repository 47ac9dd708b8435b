package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/mlmarketplace/storefront/internal/config"
	"github.com/mlmarketplace/storefront/internal/repository"
	"github.com/mlmarketplace/storefront/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	if err := run(logger); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	carts, err := repository.NewCart(pool)
	if err != nil {
		return err
	}
	products, err := repository.NewProduct(pool)
	if err != nil {
		return err
	}
	users, err := repository.NewUser(pool)
	if err != nil {
		return err
	}
	settings, err := repository.NewSettings(pool)
	if err != nil {
		return err
	}
	orders, err := repository.NewOrder(pool)
	if err != nil {
		return err
	}

	srv, err := server.New(carts, products, users, settings, orders, server.Config{
		JWTSecret: []byte(cfg.JWTSecret),
		TokenTTL:  cfg.TokenTTL,
	}, logger)
	if err != nil {
		return err
	}

	logger.Info("listening", "addr", cfg.Addr)
	return srv.Router().Run(cfg.Addr)
}
