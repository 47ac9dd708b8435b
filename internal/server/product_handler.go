package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mlmarketplace/storefront/internal/api"
	"github.com/mlmarketplace/storefront/internal/domain"
	"github.com/mlmarketplace/storefront/internal/port"
)

func (s *Server) listProducts(c *gin.Context) {
	filter := port.ProductFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
	}

	products, err := s.products.List(c.Request.Context(), filter)
	if err != nil {
		s.logger.Error("listing products failed", "err", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "listing products failed"})
		return
	}

	out := make([]api.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, api.ProductFromDomain(p))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid product id"})
		return
	}

	product, err := s.products.Get(c.Request.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "product not found"})
		return
	}
	if err != nil {
		s.logger.Error("loading product failed", "err", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "loading product failed"})
		return
	}
	c.JSON(http.StatusOK, api.ProductFromDomain(product))
}
