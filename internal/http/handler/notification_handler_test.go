package handler_test

import (
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

func setupNotificationHandlerTestDB(t *testing.T) *gorm.DB {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestData(t, db)
	})
	return db
}

func createNotificationHandler(t *testing.T, db *gorm.DB) *handler.NotificationHandler {
	logger := zap.NewNop()
	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, logger)

	return handler.NewNotificationHandler(notificationService, logger)
}

func createNotificationTestContext(userID uuid.UUID) context.Context {
	userCtx := &auth.UserContext{
		UserID:      userID,
		DisplayName: "Test User",
		Email:       "test@example.com",
		Roles:       []domain.UserRoleType{domain.RoleGrowerAdmin},
		GrowerID:    "sunridge",
	}
	return auth.WithUserContext(context.Background(), userCtx)
}

func insertNotificationUser(t *testing.T, db *gorm.DB, userID uuid.UUID) {
	err := db.Exec(`
		INSERT INTO users (id, email, name, roles, grower_id, is_active, created_at, updated_at)
		VALUES ($1, $2, 'Test User', '{grower_admin}', 'sunridge', true, NOW(), NOW())
		ON CONFLICT (id) DO NOTHING
	`, userID.String(), userID.String()+"@example.com").Error
	require.NoError(t, err)
}

func insertTestNotification(t *testing.T, db *gorm.DB, userID uuid.UUID, notifType domain.NotificationType, title string, read bool) *domain.Notification {
	notification := &domain.Notification{
		UserID:     userID.String(),
		Type:       string(notifType),
		Title:      title,
		Message:    "Test notification message",
		Read:       read,
		EntityType: "pool",
	}
	err := db.Create(notification).Error
	require.NoError(t, err)
	return notification
}

func TestNotificationHandler_List(t *testing.T) {
	db := setupNotificationHandlerTestDB(t)
	h := createNotificationHandler(t, db)

	userID := uuid.New()
	insertNotificationUser(t, db, userID)
	ctx := createNotificationTestContext(userID)

	insertTestNotification(t, db, userID, domain.NotificationTypeReconcileUnder, "Reconcile Under 1", false)
	insertTestNotification(t, db, userID, domain.NotificationTypeReconcileOver, "Reconcile Over 1", false)
	insertTestNotification(t, db, userID, domain.NotificationTypeSettlementPosted, "Settlement Posted 1", true)
	insertTestNotification(t, db, userID, domain.NotificationTypePackoutPosted, "Packout Posted 1", false)
	insertTestNotification(t, db, userID, domain.NotificationTypeSettlementPosted, "Settlement Posted 2", true)

	t.Run("list all notifications", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
		req = req.WithContext(ctx)

		rr := httptest.NewRecorder()
		h.List(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var result domain.PaginatedResponse
		err := json.Unmarshal(rr.Body.Bytes(), &result)
		assert.NoError(t, err)
		assert.Equal(t, int64(5), result.Total)
		assert.Equal(t, 1, result.Page)
		assert.Equal(t, 20, result.PageSize)
	})

	t.Run("list with pagination", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/notifications?page=1&pageSize=2", nil)
		req = req.WithContext(ctx)

		rr := httptest.NewRecorder()
		h.List(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var result domain.PaginatedResponse
		err := json.Unmarshal(rr.Body.Bytes(), &result)
		assert.NoError(t, err)
		assert.Equal(t, int64(5), result.Total)
		assert.Equal(t, 2, result.PageSize)
		assert.Equal(t, 3, result.TotalPages)

		resultBytes, _ := json.Marshal(result.Results)
		var notifications []domain.Notification
		err = json.Unmarshal(resultBytes, &notifications)
		assert.NoError(t, err)
		assert.Len(t, notifications, 2)
	})

	t.Run("list unread only", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/notifications?unreadOnly=true", nil)
		req = req.WithContext(ctx)

		rr := httptest.NewRecorder()
		h.List(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var result domain.PaginatedResponse
		err := json.Unmarshal(rr.Body.Bytes(), &result)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), result.Total)
	})

	t.Run("unauthenticated request rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/notifications", nil)

		rr := httptest.NewRecorder()
		h.List(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestNotificationHandler_UnreadCount(t *testing.T) {
	db := setupNotificationHandlerTestDB(t)
	h := createNotificationHandler(t, db)

	userID := uuid.New()
	insertNotificationUser(t, db, userID)
	ctx := createNotificationTestContext(userID)

	insertTestNotification(t, db, userID, domain.NotificationTypeReconcileUnder, "Unread 1", false)
	insertTestNotification(t, db, userID, domain.NotificationTypeReconcileOver, "Unread 2", false)
	insertTestNotification(t, db, userID, domain.NotificationTypeSettlementPosted, "Read 1", true)

	req := httptest.NewRequest(http.MethodGet, "/notifications/unread-count", nil)
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	h.UnreadCount(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var result map[string]int
	err := json.Unmarshal(rr.Body.Bytes(), &result)
	assert.NoError(t, err)
	assert.Equal(t, 2, result["count"])
}

func TestNotificationHandler_MarkRead(t *testing.T) {
	db := setupNotificationHandlerTestDB(t)
	h := createNotificationHandler(t, db)

	userID := uuid.New()
	insertNotificationUser(t, db, userID)
	ctx := createNotificationTestContext(userID)

	notification := insertTestNotification(t, db, userID, domain.NotificationTypePackoutPosted, "Packout received", false)

	t.Run("mark notification read", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/notifications/"+notification.ID.String()+"/read", nil)
		req = req.WithContext(ctx)

		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", notification.ID.String())
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

		rr := httptest.NewRecorder()
		h.MarkRead(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)

		var updated domain.Notification
		err := db.First(&updated, "id = ?", notification.ID).Error
		require.NoError(t, err)
		assert.True(t, updated.Read)
		assert.NotNil(t, updated.ReadAt)
	})

	t.Run("invalid notification id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/notifications/not-a-uuid/read", nil)
		req = req.WithContext(ctx)

		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", "not-a-uuid")
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

		rr := httptest.NewRecorder()
		h.MarkRead(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestNotificationHandler_MarkAllRead(t *testing.T) {
	db := setupNotificationHandlerTestDB(t)
	h := createNotificationHandler(t, db)

	userID := uuid.New()
	insertNotificationUser(t, db, userID)
	ctx := createNotificationTestContext(userID)

	insertTestNotification(t, db, userID, domain.NotificationTypeReconcileUnder, "Unread 1", false)
	insertTestNotification(t, db, userID, domain.NotificationTypeReconcileOver, "Unread 2", false)

	req := httptest.NewRequest(http.MethodPut, "/notifications/read-all", nil)
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	h.MarkAllRead(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)

	var unread int64
	err := db.Model(&domain.Notification{}).Where("user_id = ? AND read = false", userID.String()).Count(&unread).Error
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}
