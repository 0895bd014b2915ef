package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/groveline/orchard-api/internal/domain"
	"github.com/groveline/orchard-api/internal/service"
)

type PoolHandler struct {
	poolService     *service.PoolService
	packFeedService *service.PackFeedService
	logger          *zap.Logger
}

func NewPoolHandler(poolService *service.PoolService, packFeedService *service.PackFeedService, logger *zap.Logger) *PoolHandler {
	return &PoolHandler{
		poolService:     poolService,
		packFeedService: packFeedService,
		logger:          logger,
	}
}

// List godoc
// @Summary List pools
// @Description Get paginated list of packinghouse pools with optional filters
// @Tags Pools
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param status query string false "Filter by status" Enums(active, closed, settled)
// @Param commodity query string false "Filter by commodity" Enums(navel, valencia, mandarin, lemon, grapefruit, avocado, subtropical, other)
// @Param season query string false "Filter by season (e.g. 2025-2026)"
// @Param search query string false "Search by pool name"
// @Success 200 {object} domain.PaginatedResponse{results=[]domain.PoolDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /pools [get]
func (h *PoolHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}

	var status *domain.PoolStatus
	if s := r.URL.Query().Get("status"); s != "" {
		ps := domain.PoolStatus(s)
		if !ps.IsValid() {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid status",
			})
			return
		}
		status = &ps
	}

	var commodity *domain.Commodity
	if s := r.URL.Query().Get("commodity"); s != "" {
		c := domain.Commodity(s)
		commodity = &c
	}

	result, err := h.poolService.List(r.Context(), page, pageSize, status, commodity,
		r.URL.Query().Get("season"), r.URL.Query().Get("search"))
	if err != nil {
		h.logger.Error("failed to list pools", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list pools",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get pool by ID
// @Tags Pools
// @Accept json
// @Produce json
// @Param id path string true "Pool ID" format(uuid)
// @Success 200 {object} domain.PoolDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /pools/{id} [get]
func (h *PoolHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid pool ID format",
		})
		return
	}

	pool, err := h.poolService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Pool not found",
			})
			return
		}
		h.logger.Error("failed to get pool", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get pool",
		})
		return
	}

	respondJSON(w, http.StatusOK, pool)
}

// Create godoc
// @Summary Create pool
// @Description Open a new packinghouse pool for the current grower
// @Tags Pools
// @Accept json
// @Produce json
// @Param request body domain.CreatePoolRequest true "Pool data"
// @Success 201 {object} domain.PoolDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse "Packinghouse not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /pools [post]
func (h *PoolHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePoolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	pool, err := h.poolService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Packinghouse not found",
			})
			return
		}
		if errors.Is(err, service.ErrInvalidCommodity) {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid commodity",
			})
			return
		}
		h.logger.Error("failed to create pool", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to create pool",
		})
		return
	}

	w.Header().Set("Location", "/api/v1/pools/"+pool.ID.String())
	respondJSON(w, http.StatusCreated, pool)
}

type updatePoolStatusRequest struct {
	Status domain.PoolStatus `json:"status" validate:"required"`
}

// UpdateStatus godoc
// @Summary Update pool status
// @Description Transition a pool between active, closed and settled
// @Tags Pools
// @Accept json
// @Produce json
// @Param id path string true "Pool ID" format(uuid)
// @Param request body handler.updatePoolStatusRequest true "New status"
// @Success 200 {object} domain.PoolDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /pools/{id}/status [put]
func (h *PoolHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid pool ID format",
		})
		return
	}

	var req updatePoolStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	pool, err := h.poolService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Pool not found",
			})
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid pool status",
			})
			return
		}
		h.logger.Error("failed to update pool status", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to update pool status",
		})
		return
	}

	respondJSON(w, http.StatusOK, pool)
}

// Summary godoc
// @Summary Get pool summary
// @Description Get a pool with its deliveries, packout reports and settlements. Sections that fail to load are listed in "unavailable" instead of failing the request.
// @Tags Pools
// @Accept json
// @Produce json
// @Param id path string true "Pool ID" format(uuid)
// @Success 200 {object} domain.PoolSummaryDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /pools/{id}/summary [get]
func (h *PoolHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid pool ID format",
		})
		return
	}

	summary, err := h.poolService.Summary(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Pool not found",
			})
			return
		}
		h.logger.Error("failed to get pool summary", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get pool summary",
		})
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// CreatePackinghouse godoc
// @Summary Create packinghouse
// @Description Register a packinghouse in the shared master data
// @Tags Packinghouses
// @Accept json
// @Produce json
// @Param request body domain.CreatePackinghouseRequest true "Packinghouse data"
// @Success 201 {object} domain.PackinghouseDTO
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /packinghouses [post]
func (h *PoolHandler) CreatePackinghouse(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePackinghouseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	house, err := h.poolService.CreatePackinghouse(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create packinghouse", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to create packinghouse",
		})
		return
	}

	respondJSON(w, http.StatusCreated, house)
}

// ListPackinghouses godoc
// @Summary List packinghouses
// @Tags Packinghouses
// @Accept json
// @Produce json
// @Success 200 {array} domain.PackinghouseDTO
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /packinghouses [get]
func (h *PoolHandler) ListPackinghouses(w http.ResponseWriter, r *http.Request) {
	houses, err := h.poolService.ListPackinghouses(r.Context())
	if err != nil {
		h.logger.Error("failed to list packinghouses", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list packinghouses",
		})
		return
	}

	respondJSON(w, http.StatusOK, houses)
}

// Benchmark godoc
// @Summary Get pool house benchmark
// @Description Fetch the packinghouse-wide average benchmark for a pool from the reporting feed
// @Tags Pools
// @Accept json
// @Produce json
// @Param id path string true "Pool ID" format(uuid)
// @Success 200 {object} packfeed.PoolBenchmark
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse "Pool not found or no benchmark available"
// @Failure 503 {object} domain.ErrorResponse "Pack feed not configured"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /pools/{id}/benchmark [get]
func (h *PoolHandler) Benchmark(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid pool ID format",
		})
		return
	}

	benchmark, err := h.packFeedService.PoolBenchmark(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrPackFeedDisabled) {
			respondJSON(w, http.StatusServiceUnavailable, domain.ErrorResponse{
				Error:   "Service Unavailable",
				Message: "Pack feed is not configured",
			})
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "No benchmark available for this pool",
			})
			return
		}
		h.logger.Error("failed to fetch pool benchmark", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to fetch pool benchmark",
		})
		return
	}

	respondJSON(w, http.StatusOK, benchmark)
}
