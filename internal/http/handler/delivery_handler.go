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

type DeliveryHandler struct {
	deliveryService *service.DeliveryService
	logger          *zap.Logger
}

func NewDeliveryHandler(deliveryService *service.DeliveryService, logger *zap.Logger) *DeliveryHandler {
	return &DeliveryHandler{
		deliveryService: deliveryService,
		logger:          logger,
	}
}

// List godoc
// @Summary List deliveries
// @Description Get paginated list of pool deliveries with optional filters
// @Tags Deliveries
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param poolId query string false "Filter by pool" format(uuid)
// @Param fieldId query string false "Filter by field" format(uuid)
// @Param unlinkedOnly query bool false "Only deliveries not linked to a harvest"
// @Param dateFrom query string false "Deliveries on or after this date (YYYY-MM-DD)"
// @Param dateTo query string false "Deliveries on or before this date (YYYY-MM-DD)"
// @Success 200 {object} domain.PaginatedResponse{results=[]domain.DeliveryDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deliveries [get]
func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}

	var filters repository.DeliveryFilters
	filters.UnlinkedOnly, _ = strconv.ParseBool(r.URL.Query().Get("unlinkedOnly"))

	if s := r.URL.Query().Get("poolId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid poolId format",
			})
			return
		}
		filters.PoolID = &id
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
		filters.FieldID = &id
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

	result, err := h.deliveryService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list deliveries", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list deliveries",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get delivery by ID
// @Tags Deliveries
// @Accept json
// @Produce json
// @Param id path string true "Delivery ID" format(uuid)
// @Success 200 {object} domain.DeliveryDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deliveries/{id} [get]
func (h *DeliveryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid delivery ID format",
		})
		return
	}

	delivery, err := h.deliveryService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Delivery not found",
			})
			return
		}
		h.logger.Error("failed to get delivery", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get delivery",
		})
		return
	}

	respondJSON(w, http.StatusOK, delivery)
}

// Create godoc
// @Summary Record delivery
// @Description Record a delivery of bins from a field into a pool
// @Tags Deliveries
// @Accept json
// @Produce json
// @Param request body domain.CreateDeliveryRequest true "Delivery data"
// @Success 201 {object} domain.DeliveryDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse "Pool or field not found"
// @Failure 409 {object} domain.ErrorResponse "Pool is settled and read-only"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deliveries [post]
func (h *DeliveryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDeliveryRequest
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

	delivery, err := h.deliveryService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Pool or field not found",
			})
			return
		}
		if errors.Is(err, service.ErrPoolClosed) {
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: "Pool is settled and read-only",
			})
			return
		}
		h.logger.Error("failed to create delivery", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to create delivery",
		})
		return
	}

	w.Header().Set("Location", "/api/v1/deliveries/"+delivery.ID.String())
	respondJSON(w, http.StatusCreated, delivery)
}

// LinkHarvest godoc
// @Summary Link delivery to harvest
// @Description Attach an unlinked delivery to the harvest record it came from
// @Tags Deliveries
// @Accept json
// @Produce json
// @Param id path string true "Delivery ID" format(uuid)
// @Param harvestId path string true "Harvest ID" format(uuid)
// @Success 200 {object} domain.DeliveryDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deliveries/{id}/link/{harvestId} [put]
func (h *DeliveryHandler) LinkHarvest(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid delivery ID format",
		})
		return
	}

	harvestID, err := uuid.Parse(chi.URLParam(r, "harvestId"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid harvest ID format",
		})
		return
	}

	delivery, err := h.deliveryService.LinkHarvest(r.Context(), id, harvestID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Delivery or harvest not found",
			})
			return
		}
		h.logger.Error("failed to link delivery", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to link delivery",
		})
		return
	}

	respondJSON(w, http.StatusOK, delivery)
}

// Delete godoc
// @Summary Delete delivery
// @Description Delete a delivery. Deliveries in settled pools cannot be deleted.
// @Tags Deliveries
// @Accept json
// @Produce json
// @Param id path string true "Delivery ID" format(uuid)
// @Success 204
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deliveries/{id} [delete]
func (h *DeliveryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid delivery ID format",
		})
		return
	}

	if err := h.deliveryService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Delivery not found",
			})
			return
		}
		if errors.Is(err, service.ErrPoolClosed) {
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: "Pool is settled and read-only",
			})
			return
		}
		h.logger.Error("failed to delete delivery", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to delete delivery",
		})
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
