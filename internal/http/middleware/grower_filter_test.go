package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/groveline/orchard-api/internal/auth"
	"github.com/groveline/orchard-api/internal/domain"
	"github.com/groveline/orchard-api/internal/http/middleware"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestGrowerFilterMiddleware_PlatformAdmin_NoFilter(t *testing.T) {
	logger := zap.NewNop()
	m := middleware.NewGrowerFilterMiddleware(logger)

	userCtx := &auth.UserContext{
		UserID: uuid.New(),
		Roles:  []domain.UserRoleType{domain.RolePlatformAdmin},
	}

	var capturedFilter *auth.GrowerFilter
	handler := m.Filter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedFilter, _ = auth.GrowerFilterFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/v1/harvests", nil)
	req = req.WithContext(auth.WithUserContext(req.Context(), userCtx))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotNil(t, capturedFilter)
	assert.Nil(t, capturedFilter.GrowerID, "platform admin without filter should have nil GrowerID")
}

func TestGrowerFilterMiddleware_PlatformAdmin_WithFilter(t *testing.T) {
	logger := zap.NewNop()
	m := middleware.NewGrowerFilterMiddleware(logger)

	userCtx := &auth.UserContext{
		UserID: uuid.New(),
		Roles:  []domain.UserRoleType{domain.RolePlatformAdmin},
	}

	var capturedFilter *auth.GrowerFilter
	handler := m.Filter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedFilter, _ = auth.GrowerFilterFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/v1/harvests?grower_id=sunridge", nil)
	req = req.WithContext(auth.WithUserContext(req.Context(), userCtx))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotNil(t, capturedFilter)
	assert.NotNil(t, capturedFilter.GrowerID)
	assert.Equal(t, domain.GrowerID("sunridge"), *capturedFilter.GrowerID)
	assert.True(t, capturedFilter.RequestedByAdmin)
}

func TestGrowerFilterMiddleware_GrowerUser_AutoFilter(t *testing.T) {
	logger := zap.NewNop()
	m := middleware.NewGrowerFilterMiddleware(logger)

	userCtx := &auth.UserContext{
		UserID:   uuid.New(),
		GrowerID: "sunridge",
		Roles:    []domain.UserRoleType{domain.RoleFieldManager},
	}

	var capturedFilter *auth.GrowerFilter
	handler := m.Filter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedFilter, _ = auth.GrowerFilterFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/v1/harvests", nil)
	req = req.WithContext(auth.WithUserContext(req.Context(), userCtx))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotNil(t, capturedFilter)
	assert.NotNil(t, capturedFilter.GrowerID)
	assert.Equal(t, domain.GrowerID("sunridge"), *capturedFilter.GrowerID)
	assert.False(t, capturedFilter.RequestedByAdmin)
}

func TestGrowerFilterMiddleware_GrowerUser_CrossTenantDenied(t *testing.T) {
	logger := zap.NewNop()
	m := middleware.NewGrowerFilterMiddleware(logger)

	userCtx := &auth.UserContext{
		UserID:   uuid.New(),
		GrowerID: "sunridge",
		Roles:    []domain.UserRoleType{domain.RoleGrowerAdmin},
	}

	handler := m.Filter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest("GET", "/api/v1/harvests?grower_id=kern-valley", nil)
	req = req.WithContext(auth.WithUserContext(req.Context(), userCtx))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestGrowerFilterMiddleware_HeaderFilter(t *testing.T) {
	logger := zap.NewNop()
	m := middleware.NewGrowerFilterMiddleware(logger)

	userCtx := &auth.UserContext{
		UserID: uuid.New(),
		Roles:  []domain.UserRoleType{domain.RolePlatformAdmin},
	}

	var capturedFilter *auth.GrowerFilter
	handler := m.Filter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedFilter, _ = auth.GrowerFilterFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/v1/harvests", nil)
	req.Header.Set("X-Grower-ID", "kern-valley")
	req = req.WithContext(auth.WithUserContext(req.Context(), userCtx))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotNil(t, capturedFilter)
	assert.NotNil(t, capturedFilter.GrowerID)
	assert.Equal(t, domain.GrowerID("kern-valley"), *capturedFilter.GrowerID)
}

func TestGrowerFilterMiddleware_NoUserContext(t *testing.T) {
	logger := zap.NewNop()
	m := middleware.NewGrowerFilterMiddleware(logger)

	var hadFilter bool
	handler := m.Filter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadFilter = auth.GrowerFilterFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/v1/harvests", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, hadFilter, "no filter should be set without an authenticated user")
}
