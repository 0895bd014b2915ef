package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/groveline/orchard-api/internal/domain"
	"github.com/groveline/orchard-api/internal/repository"
	"github.com/groveline/orchard-api/internal/service"
)

type HarvestHandler struct {
	harvestService *service.HarvestService
	logger         *zap.Logger
}

func NewHarvestHandler(harvestService *service.HarvestService, logger *zap.Logger) *HarvestHandler {
	return &HarvestHandler{
		harvestService: harvestService,
		logger:         logger,
	}
}

// List godoc
// @Summary List harvest records
// @Description Get paginated list of harvest records with optional filters
// @Tags Harvests
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param fieldId query string false "Filter by field" format(uuid)
// @Param farmId query string false "Filter by farm" format(uuid)
// @Param status query string false "Filter by status" Enums(in_progress, verified)
// @Param dateFrom query string false "Filter harvests on or after this date (YYYY-MM-DD)"
// @Param dateTo query string false "Filter harvests on or before this date (YYYY-MM-DD)"
// @Success 200 {object} domain.PaginatedResponse{results=[]domain.HarvestDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /harvests [get]
func (h *HarvestHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}

	var filters repository.HarvestFilters

	if s := r.URL.Query().Get("fieldId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid fieldId format",
			})
			return
		}
		filters.FieldID = &id
	}

	if s := r.URL.Query().Get("farmId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid farmId format",
			})
			return
		}
		filters.FarmID = &id
	}

	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.HarvestStatus(s)
		if !status.IsValid() {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid status",
			})
			return
		}
		filters.Status = &status
	}

	if s := r.URL.Query().Get("dateFrom"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid dateFrom, expected YYYY-MM-DD",
			})
			return
		}
		filters.DateFrom = &t
	}

	if s := r.URL.Query().Get("dateTo"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid dateTo, expected YYYY-MM-DD",
			})
			return
		}
		filters.DateTo = &t
	}

	result, err := h.harvestService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list harvests", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list harvests",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get harvest record by ID
// @Tags Harvests
// @Accept json
// @Produce json
// @Param id path string true "Harvest ID" format(uuid)
// @Success 200 {object} domain.HarvestDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /harvests/{id} [get]
func (h *HarvestHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid harvest ID format",
		})
		return
	}

	harvest, err := h.harvestService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Harvest not found",
			})
			return
		}
		h.logger.Error("failed to get harvest", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get harvest",
		})
		return
	}

	respondJSON(w, http.StatusOK, harvest)
}

// Create godoc
// @Summary Create harvest record
// @Description Record a harvest day for a field. Quantity unit defaults to the commodity's native unit.
// @Tags Harvests
// @Accept json
// @Produce json
// @Param request body domain.CreateHarvestRequest true "Harvest data"
// @Success 201 {object} domain.HarvestDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse "Field not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /harvests [post]
func (h *HarvestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateHarvestRequest
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

	harvest, err := h.harvestService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Field not found",
			})
			return
		}
		if errors.Is(err, service.ErrInvalidUnit) {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid quantity unit for this commodity",
			})
			return
		}
		h.logger.Error("failed to create harvest", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to create harvest",
		})
		return
	}

	w.Header().Set("Location", "/api/v1/harvests/"+harvest.ID.String())
	respondJSON(w, http.StatusCreated, harvest)
}

// Update godoc
// @Summary Update harvest record
// @Description Update an existing harvest record. Verified harvests are read-only unless reverting to in_progress.
// @Tags Harvests
// @Accept json
// @Produce json
// @Param id path string true "Harvest ID" format(uuid)
// @Param request body domain.UpdateHarvestRequest true "Harvest data"
// @Success 200 {object} domain.HarvestDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Harvest is verified and read-only"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /harvests/{id} [put]
func (h *HarvestHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid harvest ID format",
		})
		return
	}

	var req domain.UpdateHarvestRequest
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

	harvest, err := h.harvestService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Harvest not found",
			})
			return
		}
		if errors.Is(err, service.ErrHarvestVerified) {
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: "Harvest is verified and read-only",
			})
			return
		}
		h.logger.Error("failed to update harvest", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to update harvest",
		})
		return
	}

	respondJSON(w, http.StatusOK, harvest)
}

// Delete godoc
// @Summary Delete harvest record
// @Description Delete a harvest record. Verified harvests cannot be deleted.
// @Tags Harvests
// @Accept json
// @Produce json
// @Param id path string true "Harvest ID" format(uuid)
// @Success 204
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /harvests/{id} [delete]
func (h *HarvestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid harvest ID format",
		})
		return
	}

	if err := h.harvestService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Harvest not found",
			})
			return
		}
		if errors.Is(err, service.ErrHarvestVerified) {
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: "Verified harvests cannot be deleted",
			})
			return
		}
		h.logger.Error("failed to delete harvest", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to delete harvest",
		})
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Reconciliation godoc
// @Summary Get harvest reconciliation status
// @Description Compare the harvest quantity against linked delivery bins and labor piece counts
// @Tags Harvests
// @Accept json
// @Produce json
// @Param id path string true "Harvest ID" format(uuid)
// @Success 200 {object} analytics.ReconciliationStatus
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /harvests/{id}/reconciliation [get]
func (h *HarvestHandler) Reconciliation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid harvest ID format",
		})
		return
	}

	status, err := h.harvestService.Reconciliation(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Harvest not found",
			})
			return
		}
		h.logger.Error("failed to reconcile harvest", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to reconcile harvest",
		})
		return
	}

	respondJSON(w, http.StatusOK, status)
}

// AddLaborEntry godoc
// @Summary Add labor entry
// @Description Record a crew labor entry against a harvest
// @Tags Harvests
// @Accept json
// @Produce json
// @Param request body domain.CreateLaborEntryRequest true "Labor entry data"
// @Success 201 {object} domain.LaborEntryDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse "Harvest not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /labor-entries [post]
func (h *HarvestHandler) AddLaborEntry(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLaborEntryRequest
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

	entry, err := h.harvestService.AddLaborEntry(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Harvest not found",
			})
			return
		}
		if errors.Is(err, service.ErrHarvestVerified) {
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: "Harvest is verified and read-only",
			})
			return
		}
		h.logger.Error("failed to add labor entry", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to add labor entry",
		})
		return
	}

	respondJSON(w, http.StatusCreated, entry)
}

// ListLaborEntries godoc
// @Summary List labor entries for a harvest
// @Tags Harvests
// @Accept json
// @Produce json
// @Param id path string true "Harvest ID" format(uuid)
// @Success 200 {array} domain.LaborEntryDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /harvests/{id}/labor-entries [get]
func (h *HarvestHandler) ListLaborEntries(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid harvest ID format",
		})
		return
	}

	entries, err := h.harvestService.ListLaborEntries(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Harvest not found",
			})
			return
		}
		h.logger.Error("failed to list labor entries", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list labor entries",
		})
		return
	}

	respondJSON(w, http.StatusOK, entries)
}
