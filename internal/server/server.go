// Package server exposes the storefront REST API under /api: auth, products,
// the authenticated cart, display settings, and orders.
package server

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mlmarketplace/storefront/internal/port"
)

type Config struct {
	JWTSecret []byte
	TokenTTL  time.Duration
}

type Server struct {
	carts    port.CartRepository
	products port.ProductRepository
	users    port.UserRepository
	settings port.SettingsRepository
	orders   port.OrderRepository

	cfg    Config
	logger *slog.Logger
}

func New(
	carts port.CartRepository,
	products port.ProductRepository,
	users port.UserRepository,
	settings port.SettingsRepository,
	orders port.OrderRepository,
	cfg Config,
	logger *slog.Logger,
) (*Server, error) {
	if len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("JWT secret is empty")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		carts:    carts,
		products: products,
		users:    users,
		settings: settings,
		orders:   orders,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	apiGroup := router.Group("/api")

	apiGroup.POST("/auth/register", s.register)
	apiGroup.POST("/auth/login", s.login)
	apiGroup.GET("/auth/me", s.requireAuth, s.me)

	apiGroup.GET("/products", s.listProducts)
	apiGroup.GET("/products/:id", s.getProduct)

	apiGroup.GET("/display-settings", s.getDisplaySettings)
	apiGroup.PUT("/admin/display-settings", s.requireAuth, s.updateDisplaySettings)

	cartGroup := apiGroup.Group("/cart", s.requireAuth)
	cartGroup.GET("", s.getCart)
	cartGroup.POST("", s.addToCart)
	cartGroup.PUT("/:id", s.updateCartItem)
	cartGroup.DELETE("/:id", s.removeCartItem)
	cartGroup.DELETE("", s.clearCart)

	ordersGroup := apiGroup.Group("/orders", s.requireAuth)
	ordersGroup.GET("", s.listOrders)
	ordersGroup.POST("", s.createOrder)

	return router
}
