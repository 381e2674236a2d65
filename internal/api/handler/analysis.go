package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/analysis"
	"github.com/saferoute/saferoute/internal/api/models"
	"github.com/saferoute/saferoute/internal/api/response"
	"github.com/saferoute/saferoute/internal/directions"
)

// AnalysisHandler handles route risk analysis endpoints.
type AnalysisHandler struct {
	analysis   *analysis.Service
	directions *directions.Service
	logger     zerolog.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(svc *analysis.Service, dirs *directions.Service, logger zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analysis:   svc,
		directions: dirs,
		logger:     logger,
	}
}

// StartAnalysis handles POST /v1/routes/{routeId}:analyze. The analysis
// runs in the background; the response carries the ANALYZING snapshot.
func (h *AnalysisHandler) StartAnalysis(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "routeId")

	route, ok := h.directions.GetRoute(routeID)
	if !ok {
		response.NotFound(w, r, "route not found")
		return
	}

	if current := h.analysis.Get(routeID); current.State == analysis.StateAnalyzing {
		response.Conflict(w, r, "analysis already in progress for this route")
		return
	}

	go func() {
		_, err := h.analysis.Analyze(context.WithoutCancel(r.Context()), routeID, route.Points)
		if err != nil && !errors.Is(err, analysis.ErrAnalysisInProgress) {
			h.logger.Error().Err(err).
				Str("route_id", routeID).
				Msg("background analysis failed")
		}
	}()

	resp := models.AnalysisResponse{
		RouteID: routeID,
		State:   string(analysis.StateAnalyzing),
	}
	response.Accepted(w, r, "/v1/routes/"+routeID+"/analysis", resp)
}

// GetAnalysis handles GET /v1/routes/{routeId}/analysis.
func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "routeId")

	if _, ok := h.directions.GetRoute(routeID); !ok {
		response.NotFound(w, r, "route not found")
		return
	}

	snapshot := h.analysis.Get(routeID)
	response.JSON(w, r, http.StatusOK, models.FromAnalysis(snapshot))
}
