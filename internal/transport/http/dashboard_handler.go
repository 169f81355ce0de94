package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apierrors "salespulse/internal/errors"
)

// DashboardHandler serves the trend dataset to the dashboard frontend.
type DashboardHandler struct {
	provider DatasetProvider
	logger   *slog.Logger
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(provider DatasetProvider, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{
		provider: provider,
		logger:   logger.With(slog.String("handler", "dashboard")),
	}
}

// Dashboard handles GET /api/dashboard: the full consolidated document.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ds, err := h.provider.Dataset()
	if err != nil {
		h.renderUnavailable(w, r, err)
		return
	}
	render.JSON(w, r, ds)
}

// Locations handles GET /api/locations: per-location trends only.
func (h *DashboardHandler) Locations(w http.ResponseWriter, r *http.Request) {
	ds, err := h.provider.Dataset()
	if err != nil {
		h.renderUnavailable(w, r, err)
		return
	}
	render.JSON(w, r, ds.Locations)
}

// Companies handles GET /api/companies: per-company trends only.
func (h *DashboardHandler) Companies(w http.ResponseWriter, r *http.Request) {
	ds, err := h.provider.Dataset()
	if err != nil {
		h.renderUnavailable(w, r, err)
		return
	}
	render.JSON(w, r, ds.Companies)
}

// Regions handles GET /api/regions: region list plus both rollups.
func (h *DashboardHandler) Regions(w http.ResponseWriter, r *http.Request) {
	ds, err := h.provider.Dataset()
	if err != nil {
		h.renderUnavailable(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"regions":   ds.Regions,
		"locations": ds.Locations.RegionalStats,
		"companies": ds.Companies.RegionalStats,
	})
}

func (h *DashboardHandler) renderUnavailable(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "dataset unavailable", slog.String("error", err.Error()))
	render.Render(w, r, apierrors.ErrDatasetNotReady)
}
