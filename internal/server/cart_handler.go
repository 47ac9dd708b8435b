package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mlmarketplace/storefront/internal/api"
	"github.com/mlmarketplace/storefront/internal/domain"
)

func (s *Server) getCart(c *gin.Context) {
	cart, err := s.carts.GetCart(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.logger.Error("loading cart failed", "err", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "loading cart failed"})
		return
	}
	c.JSON(http.StatusOK, api.CartFromDomain(cart))
}

func (s *Server) addToCart(c *gin.Context) {
	var req api.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	err := s.carts.AddItem(c.Request.Context(), currentUserID(c), req.ProductID, req.Quantity)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "product not found"})
		return
	}
	if err != nil {
		s.logger.Error("adding cart item failed", "err", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "adding item failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item added to cart"})
}

func (s *Server) updateCartItem(c *gin.Context) {
	lineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid cart item id"})
		return
	}

	var req api.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	// quantity <= 0 removes the line; the repository handles both paths.
	if _, err := s.carts.UpdateItem(c.Request.Context(), currentUserID(c), lineID, req.Quantity); err != nil {
		s.logger.Error("updating cart item failed", "err", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "updating item failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart updated"})
}

func (s *Server) removeCartItem(c *gin.Context) {
	lineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid cart item id"})
		return
	}

	if _, err := s.carts.DeleteItem(c.Request.Context(), currentUserID(c), lineID); err != nil {
		s.logger.Error("removing cart item failed", "err", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "removing item failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item removed from cart"})
}

func (s *Server) clearCart(c *gin.Context) {
	if err := s.carts.Clear(c.Request.Context(), currentUserID(c)); err != nil {
		s.logger.Error("clearing cart failed", "err", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "clearing cart failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}
