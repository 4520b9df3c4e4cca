package api

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	h "triphub/internal/http/handlers"
	"triphub/internal/http/middleware"
)

// Options configures the engine around the handlers.
type Options struct {
	CORSOrigins []string
	Log         zerolog.Logger
	// Registry, when set, is served at /metrics and records request metrics.
	Registry *prometheus.Registry
}

func NewRouter(hd *h.Handler, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(opts.Log), gin.Recovery(), middleware.CORS(opts.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		opts.Log.Warn().Err(err).Msg("failed to set trusted proxies")
	}

	if opts.Registry != nil {
		r.Use(middleware.NewHTTPMetrics("triphub", opts.Registry).Handler())
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", hd.Health)
		api.GET("/db-check", hd.DBCheck)
		api.GET("/routes", hd.Routes)

		trips := api.Group("/trips")
		trips.GET("", hd.SearchTrips)
		trips.GET("/export.pdf", hd.ExportTripsPDF)
		trips.GET("/origin/:origin", hd.TripsByOrigin)
		trips.GET("/destination/:destination", hd.TripsByDestination)
		trips.GET("/route/:origin/:destination", hd.TripsByRoute)

		api.GET("/filters", hd.GetFilters)

		cache := api.Group("/cache")
		cache.GET("/stats", hd.CacheStats)
		cache.DELETE("", hd.FlushCache)
	}

	hd.SetEngine(r)
	return r
}
