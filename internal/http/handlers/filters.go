package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"triphub/internal/http/middleware"
)

// GetFilters handles GET /api/filters.
func (h *Handler) GetFilters(c *gin.Context) {
	opts, cached, err := h.Filters.Options(c.Request.Context(), middleware.GetRequestID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if cached {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	c.JSON(http.StatusOK, gin.H{"data": opts, "cached": cached})
}
