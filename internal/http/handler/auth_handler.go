package handler

import (
	"context"
	"net/http"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/groveline/orchard-api/internal/auth"
	"github.com/groveline/orchard-api/internal/domain"
	"github.com/groveline/orchard-api/internal/repository"
)

// UserRepository interface for dependency injection
type UserRepository interface {
	Upsert(ctx context.Context, user *domain.User) error
	TouchLastLogin(ctx context.Context, id string) error
}

type AuthHandler struct {
	userRepo UserRepository
	logger   *zap.Logger
}

func NewAuthHandler(userRepo *repository.UserRepository, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userRepo: userRepo,
		logger:   logger,
	}
}

// NewAuthHandlerWithMocks creates an auth handler with mock dependencies for testing
func NewAuthHandlerWithMocks(userRepo UserRepository, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Me godoc
// @Summary Get current authenticated user
// @Description Returns the current authenticated user with roles and grower scope
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.AuthUserDTO
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{
			"error": "unauthorized",
		})
		return
	}

	var growerID *domain.GrowerID
	if userCtx.GrowerID != "" {
		growerID = &userCtx.GrowerID
	}

	user := &domain.User{
		ID:          userCtx.UserID.String(),
		DisplayName: userCtx.DisplayName,
		Email:       userCtx.Email,
		Roles:       pq.StringArray(userCtx.RolesAsStrings()),
		GrowerID:    growerID,
		IsActive:    true,
	}

	if err := h.userRepo.Upsert(r.Context(), user); err != nil {
		h.logger.Warn("failed to upsert user", zap.Error(err))
	}
	if err := h.userRepo.TouchLastLogin(r.Context(), user.ID); err != nil {
		h.logger.Warn("failed to record login", zap.Error(err))
	}

	dto := domain.AuthUserDTO{
		ID:              userCtx.UserID.String(),
		Name:            userCtx.DisplayName,
		Email:           userCtx.Email,
		Roles:           userCtx.RolesAsStrings(),
		GrowerID:        string(userCtx.GrowerID),
		IsPlatformAdmin: userCtx.IsPlatformAdmin(),
		IsGrowerAdmin:   userCtx.IsGrowerAdmin(),
		CanWrite:        userCtx.CanWrite(),
	}

	respondJSON(w, http.StatusOK, dto)
}
