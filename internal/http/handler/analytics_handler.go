package handler

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/groveline/orchard-api/internal/analytics"
	"github.com/groveline/orchard-api/internal/domain"
	"github.com/groveline/orchard-api/internal/service"
)

type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
	logger           *zap.Logger
}

func NewAnalyticsHandler(analyticsService *service.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// parseDateRange extracts the from/to query parameters. When absent the range
// defaults to the trailing twelve months.
func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := now.AddDate(-1, 0, 0)
	to := now

	if s := r.URL.Query().Get("from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = t
	}
	if s := r.URL.Query().Get("to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = t
	}
	return from, to, nil
}

// Funnel godoc
// @Summary Pipeline funnel
// @Description Compute the harvested -> delivered -> packed -> settled funnel over a date range
// @Tags Analytics
// @Accept json
// @Produce json
// @Param from query string false "Range start (YYYY-MM-DD), defaults to one year ago"
// @Param to query string false "Range end (YYYY-MM-DD), defaults to today"
// @Success 200 {object} service.FunnelResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /analytics/funnel [get]
func (h *AnalyticsHandler) Funnel(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid date, expected YYYY-MM-DD",
		})
		return
	}
	if to.Before(from) {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Range end precedes range start",
		})
		return
	}

	result, err := h.analyticsService.Funnel(r.Context(), from, to)
	if err != nil {
		h.logger.Error("failed to build funnel", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to build funnel",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// SizeDistribution godoc
// @Summary Size distribution
// @Description Aggregate settlement grade lines into a per-size distribution, grouped by farm or field
// @Tags Analytics
// @Accept json
// @Produce json
// @Param from query string false "Range start (YYYY-MM-DD), defaults to one year ago"
// @Param to query string false "Range end (YYYY-MM-DD), defaults to today"
// @Param groupBy query string false "Grouping dimension" Enums(farm, field) default(farm)
// @Success 200 {object} service.SizeDistributionResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /analytics/size-distribution [get]
func (h *AnalyticsHandler) SizeDistribution(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateRange(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid date, expected YYYY-MM-DD",
		})
		return
	}
	if to.Before(from) {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Range end precedes range start",
		})
		return
	}

	groupBy := analytics.GroupByFarm
	if s := r.URL.Query().Get("groupBy"); s != "" {
		groupBy = analytics.GroupBy(s)
	}

	result, err := h.analyticsService.SizeDistribution(r.Context(), from, to, groupBy)
	if err != nil {
		if errors.Is(err, service.ErrInvalidGroupBy) {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "groupBy must be farm or field",
			})
			return
		}
		h.logger.Error("failed to build size distribution", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to build size distribution",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}
