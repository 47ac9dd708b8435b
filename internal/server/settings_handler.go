package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mlmarketplace/storefront/internal/api"
	"github.com/mlmarketplace/storefront/internal/domain"
)

// getDisplaySettings returns the flat field -> bool map. Consumers fail open,
// so an empty map is a valid response.
func (s *Server) getDisplaySettings(c *gin.Context) {
	settings, err := s.settings.GetAll(c.Request.Context())
	if err != nil {
		s.logger.Error("loading display settings failed", "err", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "loading settings failed"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (s *Server) updateDisplaySettings(c *gin.Context) {
	var req map[string]bool
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	if len(req) == 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "no settings provided"})
		return
	}

	if err := s.settings.Update(c.Request.Context(), domain.DisplaySettings(req)); err != nil {
		s.logger.Error("updating display settings failed", "err", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "updating settings failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "settings updated"})
}
