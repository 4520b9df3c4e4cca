package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DBCheck pings the database and reports which provider tables exist and
// which mapped columns they are missing.
func (h *Handler) DBCheck(c *gin.Context) {
	if h.DB == nil {
		respondError(c, http.StatusServiceUnavailable, "db_unavailable", "database not connected", nil)
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.DB.PingContext(ctx); err != nil {
		h.Log.Error().Err(err).Msg("db ping failed")
		respondError(c, http.StatusServiceUnavailable, "db_unavailable", "database ping failed", nil)
		return
	}
	providers := gin.H{}
	missing := gin.H{}
	for _, r := range h.Ready {
		ready := r.Ready(ctx)
		providers[r.Provider()] = ready
		if sc, ok := r.(SchemaChecker); ok && ready {
			if cols := sc.MissingColumns(ctx); len(cols) > 0 {
				missing[r.Provider()] = cols
			}
		}
	}
	out := gin.H{"status": "ok", "providers": providers}
	if len(missing) > 0 {
		out["missing_columns"] = missing
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) Routes(c *gin.Context) {
	if h.engine == nil {
		respondError(c, http.StatusServiceUnavailable, "not_ready", "router not ready", nil)
		return
	}
	routes := h.engine.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
