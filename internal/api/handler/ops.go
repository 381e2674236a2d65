package handler

import (
	"net/http"
	"time"

	"github.com/saferoute/saferoute/internal/api/models"
	"github.com/saferoute/saferoute/internal/api/response"
	"github.com/saferoute/saferoute/internal/cache"
	"github.com/saferoute/saferoute/internal/provider/resilience"
)

// CacheStatsSource reports lookup cache population.
type CacheStatsSource func() []cache.Stats

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version    string
	buildTime  string
	registry   *resilience.Registry
	cacheStats CacheStatsSource
}

// NewOpsHandler creates a new OpsHandler. registry and cacheStats may be
// nil; the readiness response then omits those sections.
func NewOpsHandler(version, buildTime string, registry *resilience.Registry, cacheStats CacheStatsSource) *OpsHandler {
	return &OpsHandler{
		version:    version,
		buildTime:  buildTime,
		registry:   registry,
		cacheStats: cacheStats,
	}
}

// HealthCheck handles GET /healthz - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]any{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /readyz - readiness with provider circuits
// and cache population. Degraded providers degrade the overall status but
// keep the endpoint at 200; cached answers still serve traffic.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ready := models.Readiness{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	if h.registry != nil {
		for _, p := range h.registry.Health() {
			status := models.HealthStatusOK
			if !p.IsHealthy() {
				status = models.HealthStatusDegraded
				ready.Status = models.HealthStatusDegraded
			}

			ps := models.ProviderStatus{
				Name:         p.Name,
				Status:       status,
				BreakerState: p.CircuitState.String(),
			}
			if p.LastSuccessAt != nil {
				ts := models.Timestamp(*p.LastSuccessAt)
				ps.LastSuccessAt = &ts
			}
			if p.LastFailureAt != nil {
				ts := models.Timestamp(*p.LastFailureAt)
				ps.LastFailureAt = &ts
			}
			ready.Providers = append(ready.Providers, ps)
		}
	}

	if h.cacheStats != nil {
		for _, s := range h.cacheStats() {
			ready.Caches = append(ready.Caches, models.CacheStatus{
				Name:         s.Name,
				Entries:      s.TotalEntries,
				FreshEntries: s.FreshEntries,
			})
		}
	}

	response.JSON(w, r, http.StatusOK, ready)
}

// Version handles GET /version.
func (h *OpsHandler) Version(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.Version{
		Version:   h.version,
		BuildTime: h.buildTime,
	})
}
