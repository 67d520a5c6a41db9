// Package health provides health checking functionality for the medivoice API.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/medivoice/medivoice-api/interfaces"
)

// Compile-time check to ensure HealthCheckerImpl implements HealthChecker
var _ interfaces.HealthChecker = (*HealthCheckerImpl)(nil)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	store interfaces.CatalogStore
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(store interfaces.CatalogStore) interfaces.HealthChecker {
	return &HealthCheckerImpl{store: store}
}

// HealthCheck returns current system health. An empty catalog is unhealthy
// because the process must refuse to serve matching without it; a stale
// catalog degrades but keeps serving.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	drugs := h.store.GetDrugs()
	lastUpdate := h.store.GetLastUpdated()
	isUpdating := h.store.IsUpdating()

	dataAge := time.Since(lastUpdate)

	switch {
	case len(drugs) == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case dataAge > 48*time.Hour:
		status = "degraded"
		httpStatus = http.StatusOK

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"last_update":    lastUpdate.Format(time.RFC3339),
		"data_age_hours": math.Round(dataAge.Hours()*10) / 10,
		"drug_count":     len(drugs),
		"is_updating":    isUpdating,
		"uptime_seconds": math.Round(time.Since(h.store.GetServerStartTime()).Seconds()),
	}

	return status, data, httpStatus
}
