package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"triphub/internal/domain"
	"triphub/internal/http/middleware"
	"triphub/internal/services"
)

// Cache endpoint names; each route keeps its own key space.
const (
	endpointTrips         = "trips"
	endpointByOrigin      = "trips_by_origin"
	endpointByDestination = "trips_by_destination"
	endpointByRoute       = "trips_by_route"
)

type tripsPayload struct {
	services.TripsResponse
	Cached bool `json:"cached"`
}

// SearchTrips handles GET /api/trips.
func (h *Handler) SearchTrips(c *gin.Context) {
	h.search(c, endpointTrips, nil)
}

// TripsByOrigin handles GET /api/trips/origin/:origin.
func (h *Handler) TripsByOrigin(c *gin.Context) {
	h.search(c, endpointByOrigin, func(f *domain.FilterSpec) error {
		origin, err := pathValue(c, "origin")
		f.Origins = []string{origin}
		return err
	})
}

// TripsByDestination handles GET /api/trips/destination/:destination.
func (h *Handler) TripsByDestination(c *gin.Context) {
	h.search(c, endpointByDestination, func(f *domain.FilterSpec) error {
		dest, err := pathValue(c, "destination")
		f.Destinations = []string{dest}
		return err
	})
}

// TripsByRoute handles GET /api/trips/route/:origin/:destination.
func (h *Handler) TripsByRoute(c *gin.Context) {
	h.search(c, endpointByRoute, func(f *domain.FilterSpec) error {
		origin, err := pathValue(c, "origin")
		if err != nil {
			return err
		}
		dest, err := pathValue(c, "destination")
		f.Origins = []string{origin}
		f.Destinations = []string{dest}
		return err
	})
}

func (h *Handler) search(c *gin.Context, endpoint string, scope func(*domain.FilterSpec) error) {
	f, err := parseFilterSpec(c, h.Strict)
	if err == nil && scope != nil {
		err = scope(&f)
	}
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	resp, cached, err := h.Trips.Search(c.Request.Context(), middleware.GetRequestID(c), endpoint, f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if cached {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	c.JSON(http.StatusOK, tripsPayload{TripsResponse: resp, Cached: cached})
}

// ExportTripsPDF handles GET /api/trips/export.pdf with the /api/trips
// parameters.
func (h *Handler) ExportTripsPDF(c *gin.Context) {
	f, err := parseFilterSpec(c, h.Strict)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	pdfBytes, filename, err := h.Export.TripsPDF(c.Request.Context(), middleware.GetRequestID(c), endpointTrips, f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func pathValue(c *gin.Context, name string) (string, error) {
	v := strings.TrimSpace(c.Param(name))
	if v == "" {
		return "", domain.ValidationError{Field: name, Msg: "is required"}
	}
	return v, nil
}
