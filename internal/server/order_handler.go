package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mlmarketplace/storefront/internal/api"
	"github.com/mlmarketplace/storefront/internal/domain"
)

// createOrder is checkout: the server snapshots the cart into an order and
// clears the cart in one transaction.
func (s *Server) createOrder(c *gin.Context) {
	order, err := s.orders.CreateFromCart(c.Request.Context(), currentUserID(c))
	if errors.Is(err, domain.ErrEmptyCart) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "cart is empty"})
		return
	}
	if err != nil {
		s.logger.Error("creating order failed", "err", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "checkout failed"})
		return
	}
	c.JSON(http.StatusCreated, api.OrderFromDomain(order))
}

func (s *Server) listOrders(c *gin.Context) {
	orders, err := s.orders.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.logger.Error("listing orders failed", "err", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "listing orders failed"})
		return
	}

	out := make([]api.OrderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, api.OrderFromDomain(order))
	}
	c.JSON(http.StatusOK, out)
}
