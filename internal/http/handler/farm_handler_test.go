package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/groveline/orchard-api/internal/auth"
	"github.com/groveline/orchard-api/internal/domain"
	"github.com/groveline/orchard-api/internal/http/handler"
	"github.com/groveline/orchard-api/internal/repository"
	"github.com/groveline/orchard-api/internal/service"
	"github.com/groveline/orchard-api/internal/testutil"
)

func setupFarmHandlerTestDB(t *testing.T) *gorm.DB {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestData(t, db)
	})
	return db
}

func createFarmHandler(t *testing.T, db *gorm.DB) *handler.FarmHandler {
	logger := zap.NewNop()
	farmRepo := repository.NewFarmRepository(db)
	fieldRepo := repository.NewFieldRepository(db)
	farmService := service.NewFarmService(farmRepo, fieldRepo, logger)

	return handler.NewFarmHandler(farmService, logger)
}

func createGrowerRequestContext(growerID domain.GrowerID) context.Context {
	userCtx := &auth.UserContext{
		UserID:      uuid.New(),
		DisplayName: "Test Grower Admin",
		Email:       "admin@" + string(growerID) + ".example.com",
		Roles:       []domain.UserRoleType{domain.RoleGrowerAdmin},
		GrowerID:    growerID,
	}
	ctx := auth.WithUserContext(context.Background(), userCtx)
	return auth.WithGrowerFilter(ctx, &auth.GrowerFilter{GrowerID: &userCtx.GrowerID})
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestFarmHandler_Create(t *testing.T) {
	db := setupFarmHandlerTestDB(t)
	h := createFarmHandler(t, db)
	ctx := createGrowerRequestContext("sunridge")

	t.Run("create farm", func(t *testing.T) {
		body, _ := json.Marshal(domain.CreateFarmRequest{
			Name:       "Home Ranch",
			County:     "Tulare",
			TotalAcres: 120.5,
		})
		req := httptest.NewRequest(http.MethodPost, "/farms", bytes.NewReader(body))
		req = req.WithContext(ctx)

		rr := httptest.NewRecorder()
		h.Create(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)

		var dto domain.FarmDTO
		err := json.Unmarshal(rr.Body.Bytes(), &dto)
		require.NoError(t, err)
		assert.Equal(t, "Home Ranch", dto.Name)
		assert.Equal(t, domain.GrowerID("sunridge"), dto.GrowerID)
		assert.Equal(t, "Tulare", dto.County)
		assert.True(t, dto.IsActive)
	})

	t.Run("missing name rejected", func(t *testing.T) {
		body, _ := json.Marshal(domain.CreateFarmRequest{County: "Kern"})
		req := httptest.NewRequest(http.MethodPost, "/farms", bytes.NewReader(body))
		req = req.WithContext(ctx)

		rr := httptest.NewRecorder()
		h.Create(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/farms", bytes.NewReader([]byte("{not json")))
		req = req.WithContext(ctx)

		rr := httptest.NewRecorder()
		h.Create(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestFarmHandler_List(t *testing.T) {
	db := setupFarmHandlerTestDB(t)
	h := createFarmHandler(t, db)

	testutil.CreateTestFarm(t, db, "sunridge", "Home Ranch")
	testutil.CreateTestFarm(t, db, "sunridge", "River Block")
	testutil.CreateTestFarm(t, db, "kern-valley", "South Forty")

	t.Run("lists only own grower farms", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/farms", nil)
		req = req.WithContext(createGrowerRequestContext("sunridge"))

		rr := httptest.NewRecorder()
		h.List(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var result domain.PaginatedResponse
		err := json.Unmarshal(rr.Body.Bytes(), &result)
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.Total)
	})

	t.Run("search filters by name", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/farms?search=River", nil)
		req = req.WithContext(createGrowerRequestContext("sunridge"))

		rr := httptest.NewRecorder()
		h.List(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var result domain.PaginatedResponse
		err := json.Unmarshal(rr.Body.Bytes(), &result)
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Total)
	})
}

func TestFarmHandler_GetByID(t *testing.T) {
	db := setupFarmHandlerTestDB(t)
	h := createFarmHandler(t, db)

	farm := testutil.CreateTestFarm(t, db, "sunridge", "Home Ranch")

	t.Run("get own farm", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/farms/"+farm.ID.String(), nil)
		req = req.WithContext(createGrowerRequestContext("sunridge"))
		req = withURLParam(req, "id", farm.ID.String())

		rr := httptest.NewRecorder()
		h.GetByID(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var dto domain.FarmDTO
		err := json.Unmarshal(rr.Body.Bytes(), &dto)
		require.NoError(t, err)
		assert.Equal(t, farm.ID, dto.ID)
	})

	t.Run("cross-tenant farm is not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/farms/"+farm.ID.String(), nil)
		req = req.WithContext(createGrowerRequestContext("kern-valley"))
		req = withURLParam(req, "id", farm.ID.String())

		rr := httptest.NewRecorder()
		h.GetByID(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("invalid uuid rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/farms/not-a-uuid", nil)
		req = req.WithContext(createGrowerRequestContext("sunridge"))
		req = withURLParam(req, "id", "not-a-uuid")

		rr := httptest.NewRecorder()
		h.GetByID(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestFarmHandler_Update(t *testing.T) {
	db := setupFarmHandlerTestDB(t)
	h := createFarmHandler(t, db)

	farm := testutil.CreateTestFarm(t, db, "sunridge", "Home Ranch")

	newName := "Home Ranch East"
	inactive := false
	body, _ := json.Marshal(domain.UpdateFarmRequest{Name: &newName, IsActive: &inactive})

	req := httptest.NewRequest(http.MethodPut, "/farms/"+farm.ID.String(), bytes.NewReader(body))
	req = req.WithContext(createGrowerRequestContext("sunridge"))
	req = withURLParam(req, "id", farm.ID.String())

	rr := httptest.NewRecorder()
	h.Update(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var dto domain.FarmDTO
	err := json.Unmarshal(rr.Body.Bytes(), &dto)
	require.NoError(t, err)
	assert.Equal(t, "Home Ranch East", dto.Name)
	assert.False(t, dto.IsActive)
}

func TestFarmHandler_Fields(t *testing.T) {
	db := setupFarmHandlerTestDB(t)
	h := createFarmHandler(t, db)
	ctx := createGrowerRequestContext("sunridge")

	farm := testutil.CreateTestFarm(t, db, "sunridge", "Home Ranch")

	t.Run("create field", func(t *testing.T) {
		body, _ := json.Marshal(domain.CreateFieldRequest{
			FarmID:    farm.ID,
			Name:      "Block 7",
			Commodity: domain.CommodityNavel,
			Variety:   "Washington Navel",
			Acres:     18.2,
		})
		req := httptest.NewRequest(http.MethodPost, "/fields", bytes.NewReader(body))
		req = req.WithContext(ctx)

		rr := httptest.NewRecorder()
		h.CreateField(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)

		var dto domain.FieldDTO
		err := json.Unmarshal(rr.Body.Bytes(), &dto)
		require.NoError(t, err)
		assert.Equal(t, "Block 7", dto.Name)
		assert.Equal(t, farm.ID, dto.FarmID)
	})

	t.Run("unknown commodity rejected", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{
			"farmId":    farm.ID,
			"name":      "Block 8",
			"commodity": "dragonfruit",
		})
		req := httptest.NewRequest(http.MethodPost, "/fields", bytes.NewReader(body))
		req = req.WithContext(ctx)

		rr := httptest.NewRecorder()
		h.CreateField(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("list fields filtered by farm", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/fields?farmId="+farm.ID.String(), nil)
		req = req.WithContext(ctx)

		rr := httptest.NewRecorder()
		h.ListFields(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var result domain.PaginatedResponse
		err := json.Unmarshal(rr.Body.Bytes(), &result)
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Total)
	})
}
