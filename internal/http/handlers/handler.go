package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"triphub/internal/services"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ReadyChecker reports whether a provider's table is present.
type ReadyChecker interface {
	Provider() string
	Ready(ctx context.Context) bool
}

// SchemaChecker is implemented by readers that can report schema drift.
type SchemaChecker interface {
	MissingColumns(ctx context.Context) []string
}

// Handler carries the dependencies shared by every route.
type Handler struct {
	Trips   *services.TripService
	Filters services.FilterService
	Export  services.ExportService
	DB      Pinger
	Ready   []ReadyChecker
	// Strict rejects unknown query parameters.
	Strict bool
	Log    zerolog.Logger

	engine *gin.Engine
}

// SetEngine stores the active gin engine for /api/routes.
func (h *Handler) SetEngine(r *gin.Engine) { h.engine = r }
