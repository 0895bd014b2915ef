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

type SettlementHandler struct {
	settlementService *service.SettlementService
	logger            *zap.Logger
}

func NewSettlementHandler(settlementService *service.SettlementService, logger *zap.Logger) *SettlementHandler {
	return &SettlementHandler{
		settlementService: settlementService,
		logger:            logger,
	}
}

// List godoc
// @Summary List settlements
// @Description Get paginated list of settlement statements with optional filters
// @Tags Settlements
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param poolId query string false "Filter by pool" format(uuid)
// @Param fieldId query string false "Filter by field" format(uuid)
// @Success 200 {object} domain.PaginatedResponse{results=[]domain.SettlementDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /settlements [get]
func (h *SettlementHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}

	var poolID, fieldID *uuid.UUID
	if s := r.URL.Query().Get("poolId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid poolId format",
			})
			return
		}
		poolID = &id
	}
	if s := r.URL.Query().Get("fieldId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid fieldId format",
			})
			return
		}
		fieldID = &id
	}

	result, err := h.settlementService.List(r.Context(), page, pageSize, poolID, fieldID)
	if err != nil {
		h.logger.Error("failed to list settlements", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list settlements",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get settlement by ID
// @Tags Settlements
// @Accept json
// @Produce json
// @Param id path string true "Settlement ID" format(uuid)
// @Success 200 {object} domain.SettlementDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /settlements/{id} [get]
func (h *SettlementHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid settlement ID format",
		})
		return
	}

	settlement, err := h.settlementService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Settlement not found",
			})
			return
		}
		h.logger.Error("failed to get settlement", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get settlement",
		})
		return
	}

	respondJSON(w, http.StatusOK, settlement)
}

// Create godoc
// @Summary Ingest settlement
// @Description Record a packinghouse settlement statement. Net return and amount due are recomputed from the statement lines.
// @Tags Settlements
// @Accept json
// @Produce json
// @Param request body domain.CreateSettlementRequest true "Settlement data"
// @Success 201 {object} domain.SettlementDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse "Pool not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /settlements [post]
func (h *SettlementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSettlementRequest
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

	settlement, err := h.settlementService.Ingest(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Pool not found",
			})
			return
		}
		h.logger.Error("failed to ingest settlement", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to ingest settlement",
		})
		return
	}

	w.Header().Set("Location", "/api/v1/settlements/"+settlement.ID.String())
	respondJSON(w, http.StatusCreated, settlement)
}

// Variance godoc
// @Summary Get settlement variance analysis
// @Description Compare settlement statement totals against their recomputed values and flag discrepancies
// @Tags Settlements
// @Accept json
// @Produce json
// @Param id path string true "Settlement ID" format(uuid)
// @Success 200 {object} analytics.VarianceResult
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /settlements/{id}/variance [get]
func (h *SettlementHandler) Variance(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid settlement ID format",
		})
		return
	}

	variance, err := h.settlementService.Variance(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Settlement not found",
			})
			return
		}
		h.logger.Error("failed to analyze settlement", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to analyze settlement",
		})
		return
	}

	respondJSON(w, http.StatusOK, variance)
}

// Delete godoc
// @Summary Delete settlement
// @Tags Settlements
// @Accept json
// @Produce json
// @Param id path string true "Settlement ID" format(uuid)
// @Success 204
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /settlements/{id} [delete]
func (h *SettlementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid settlement ID format",
		})
		return
	}

	if err := h.settlementService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Settlement not found",
			})
			return
		}
		h.logger.Error("failed to delete settlement", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to delete settlement",
		})
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
