package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"triphub/internal/http/middleware"
)

// CacheStats handles GET /api/cache/stats.
func (h *Handler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.Trips.CacheStats()})
}

// FlushCache handles DELETE /api/cache.
func (h *Handler) FlushCache(c *gin.Context) {
	h.Trips.FlushCache(middleware.GetRequestID(c))
	c.Status(http.StatusNoContent)
}
