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

type FarmHandler struct {
	farmService *service.FarmService
	logger      *zap.Logger
}

func NewFarmHandler(farmService *service.FarmService, logger *zap.Logger) *FarmHandler {
	return &FarmHandler{
		farmService: farmService,
		logger:      logger,
	}
}

// List godoc
// @Summary List farms
// @Description Get paginated list of farms for the current grower
// @Tags Farms
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param search query string false "Search by name or county"
// @Param activeOnly query bool false "Only include active farms"
// @Success 200 {object} domain.PaginatedResponse{results=[]domain.FarmDTO}
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /farms [get]
func (h *FarmHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}

	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("activeOnly"))

	result, err := h.farmService.List(r.Context(), page, pageSize, r.URL.Query().Get("search"), activeOnly)
	if err != nil {
		h.logger.Error("failed to list farms", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list farms",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get farm by ID
// @Description Get a farm with its fields
// @Tags Farms
// @Accept json
// @Produce json
// @Param id path string true "Farm ID" format(uuid)
// @Success 200 {object} domain.FarmDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /farms/{id} [get]
func (h *FarmHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid farm ID format",
		})
		return
	}

	farm, err := h.farmService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Farm not found",
			})
			return
		}
		h.logger.Error("failed to get farm", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get farm",
		})
		return
	}

	respondJSON(w, http.StatusOK, farm)
}

// Create godoc
// @Summary Create farm
// @Description Create a new farm for the current grower
// @Tags Farms
// @Accept json
// @Produce json
// @Param request body domain.CreateFarmRequest true "Farm data"
// @Success 201 {object} domain.FarmDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /farms [post]
func (h *FarmHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateFarmRequest
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

	farm, err := h.farmService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			respondJSON(w, http.StatusUnauthorized, domain.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Authentication required",
			})
			return
		}
		h.logger.Error("failed to create farm", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to create farm",
		})
		return
	}

	w.Header().Set("Location", "/api/v1/farms/"+farm.ID.String())
	respondJSON(w, http.StatusCreated, farm)
}

// Update godoc
// @Summary Update farm
// @Description Update an existing farm
// @Tags Farms
// @Accept json
// @Produce json
// @Param id path string true "Farm ID" format(uuid)
// @Param request body domain.UpdateFarmRequest true "Farm data"
// @Success 200 {object} domain.FarmDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /farms/{id} [put]
func (h *FarmHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid farm ID format",
		})
		return
	}

	var req domain.UpdateFarmRequest
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

	farm, err := h.farmService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Farm not found",
			})
			return
		}
		h.logger.Error("failed to update farm", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to update farm",
		})
		return
	}

	respondJSON(w, http.StatusOK, farm)
}

// Delete godoc
// @Summary Delete farm
// @Description Soft delete a farm
// @Tags Farms
// @Accept json
// @Produce json
// @Param id path string true "Farm ID" format(uuid)
// @Success 204
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /farms/{id} [delete]
func (h *FarmHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid farm ID format",
		})
		return
	}

	if err := h.farmService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Farm not found",
			})
			return
		}
		h.logger.Error("failed to delete farm", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to delete farm",
		})
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// CreateField godoc
// @Summary Create field
// @Description Create a new field (block) on a farm
// @Tags Fields
// @Accept json
// @Produce json
// @Param request body domain.CreateFieldRequest true "Field data"
// @Success 201 {object} domain.FieldDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse "Farm not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /fields [post]
func (h *FarmHandler) CreateField(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateFieldRequest
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

	field, err := h.farmService.CreateField(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Farm not found",
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
		h.logger.Error("failed to create field", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to create field",
		})
		return
	}

	w.Header().Set("Location", "/api/v1/fields/"+field.ID.String())
	respondJSON(w, http.StatusCreated, field)
}

// GetField godoc
// @Summary Get field by ID
// @Tags Fields
// @Accept json
// @Produce json
// @Param id path string true "Field ID" format(uuid)
// @Success 200 {object} domain.FieldDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /fields/{id} [get]
func (h *FarmHandler) GetField(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid field ID format",
		})
		return
	}

	field, err := h.farmService.GetField(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Field not found",
			})
			return
		}
		h.logger.Error("failed to get field", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get field",
		})
		return
	}

	respondJSON(w, http.StatusOK, field)
}

// ListFields godoc
// @Summary List fields
// @Description Get paginated list of fields with optional filters
// @Tags Fields
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param farmId query string false "Filter by farm" format(uuid)
// @Param commodity query string false "Filter by commodity" Enums(navel, valencia, mandarin, lemon, grapefruit, avocado, subtropical, other)
// @Param search query string false "Search by name or variety"
// @Success 200 {object} domain.PaginatedResponse{results=[]domain.FieldDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /fields [get]
func (h *FarmHandler) ListFields(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}

	var farmID *uuid.UUID
	if s := r.URL.Query().Get("farmId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid farmId format",
			})
			return
		}
		farmID = &id
	}

	var commodity *domain.Commodity
	if s := r.URL.Query().Get("commodity"); s != "" {
		c := domain.Commodity(s)
		commodity = &c
	}

	result, err := h.farmService.ListFields(r.Context(), page, pageSize, farmID, commodity, r.URL.Query().Get("search"))
	if err != nil {
		h.logger.Error("failed to list fields", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list fields",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}
