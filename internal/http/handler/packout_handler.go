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

type PackoutHandler struct {
	packoutService *service.PackoutService
	logger         *zap.Logger
}

func NewPackoutHandler(packoutService *service.PackoutService, logger *zap.Logger) *PackoutHandler {
	return &PackoutHandler{
		packoutService: packoutService,
		logger:         logger,
	}
}

// List godoc
// @Summary List packout reports
// @Description Get paginated list of packout reports with optional filters
// @Tags Packouts
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param poolId query string false "Filter by pool" format(uuid)
// @Param fieldId query string false "Filter by field" format(uuid)
// @Success 200 {object} domain.PaginatedResponse{results=[]domain.PackoutReportDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /packout-reports [get]
func (h *PackoutHandler) List(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.packoutService.List(r.Context(), page, pageSize, poolID, fieldID)
	if err != nil {
		h.logger.Error("failed to list packout reports", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list packout reports",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get packout report by ID
// @Tags Packouts
// @Accept json
// @Produce json
// @Param id path string true "Packout report ID" format(uuid)
// @Success 200 {object} domain.PackoutReportDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /packout-reports/{id} [get]
func (h *PackoutHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid packout report ID format",
		})
		return
	}

	report, err := h.packoutService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Packout report not found",
			})
			return
		}
		h.logger.Error("failed to get packout report", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get packout report",
		})
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// Create godoc
// @Summary Ingest packout report
// @Description Record a packinghouse grade/size report for a pool period
// @Tags Packouts
// @Accept json
// @Produce json
// @Param request body domain.CreatePackoutReportRequest true "Packout report data"
// @Success 201 {object} domain.PackoutReportDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse "Pool not found"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /packout-reports [post]
func (h *PackoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePackoutReportRequest
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

	report, err := h.packoutService.Ingest(r.Context(), &req)
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
				Message: "Report period end precedes period start",
			})
			return
		}
		h.logger.Error("failed to ingest packout report", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to ingest packout report",
		})
		return
	}

	w.Header().Set("Location", "/api/v1/packout-reports/"+report.ID.String())
	respondJSON(w, http.StatusCreated, report)
}

// Delete godoc
// @Summary Delete packout report
// @Tags Packouts
// @Accept json
// @Produce json
// @Param id path string true "Packout report ID" format(uuid)
// @Success 204
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /packout-reports/{id} [delete]
func (h *PackoutHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid packout report ID format",
		})
		return
	}

	if err := h.packoutService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Packout report not found",
			})
			return
		}
		h.logger.Error("failed to delete packout report", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to delete packout report",
		})
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
