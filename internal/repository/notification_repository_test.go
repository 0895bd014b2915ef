package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/groveline/orchard-api/internal/domain"
	"github.com/groveline/orchard-api/internal/repository"
	"github.com/groveline/orchard-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupNotificationTestDB(t *testing.T) *gorm.DB {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestData(t, db)
	})
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, id string) {
	err := db.Exec(`
		INSERT INTO users (id, email, name, roles, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, '{viewer}', true, NOW(), NOW())
		ON CONFLICT (id) DO NOTHING
	`, id, id+"@example.com", "Test User").Error
	require.NoError(t, err)
}

func createNotification(t *testing.T, db *gorm.DB, userID string, notifType domain.NotificationType, read bool) *domain.Notification {
	n := &domain.Notification{
		UserID:  userID,
		Type:    string(notifType),
		Title:   "Reconciliation drift",
		Message: "Deliveries exceed harvest total",
		Read:    read,
	}
	require.NoError(t, db.Create(n).Error)
	return n
}

func TestNotificationRepository_ListByUser(t *testing.T) {
	db := setupNotificationTestDB(t)
	repo := repository.NewNotificationRepository(db)
	ctx := context.Background()

	createTestUser(t, db, "user-a")
	createTestUser(t, db, "user-b")

	createNotification(t, db, "user-a", domain.NotificationTypeReconcileOver, false)
	createNotification(t, db, "user-a", domain.NotificationTypeSettlementPosted, true)
	createNotification(t, db, "user-b", domain.NotificationTypePackoutPosted, false)

	all, total, err := repo.ListByUser(ctx, "user-a", 1, 20, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	unread, total, err := repo.ListByUser(ctx, "user-a", 1, 20, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, unread, 1)
	assert.False(t, unread[0].Read)
}

func TestNotificationRepository_MarkRead(t *testing.T) {
	db := setupNotificationTestDB(t)
	repo := repository.NewNotificationRepository(db)
	ctx := context.Background()

	createTestUser(t, db, "user-a")
	createTestUser(t, db, "user-b")
	n := createNotification(t, db, "user-a", domain.NotificationTypeReconcileUnder, false)

	// Another user cannot mark a foreign notification as read
	require.NoError(t, repo.MarkRead(ctx, n.ID, "user-b"))
	got, err := repo.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.False(t, got.Read)

	// The owner can
	require.NoError(t, repo.MarkRead(ctx, n.ID, "user-a"))
	got, err = repo.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, got.Read)
	assert.NotNil(t, got.ReadAt)
}

func TestNotificationRepository_MarkAllRead(t *testing.T) {
	db := setupNotificationTestDB(t)
	repo := repository.NewNotificationRepository(db)
	ctx := context.Background()

	createTestUser(t, db, "user-a")
	createNotification(t, db, "user-a", domain.NotificationTypeReconcileOver, false)
	createNotification(t, db, "user-a", domain.NotificationTypePackoutPosted, false)

	require.NoError(t, repo.MarkAllRead(ctx, "user-a"))

	count, err := repo.CountUnread(ctx, "user-a")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestNotificationRepository_ExistsForEntity(t *testing.T) {
	db := setupNotificationTestDB(t)
	repo := repository.NewNotificationRepository(db)
	ctx := context.Background()

	createTestUser(t, db, "user-a")

	entityID := uuid.New()
	n := &domain.Notification{
		UserID:     "user-a",
		Type:       string(domain.NotificationTypeReconcileOver),
		Title:      "Reconciliation drift",
		Message:    "Deliveries exceed harvest total",
		EntityID:   &entityID,
		EntityType: "harvest",
	}
	require.NoError(t, db.Create(n).Error)

	exists, err := repo.ExistsForEntity(ctx, "user-a", domain.NotificationTypeReconcileOver, entityID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsForEntity(ctx, "user-a", domain.NotificationTypeReconcileUnder, entityID)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsForEntity(ctx, "user-a", domain.NotificationTypeReconcileOver, uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)
}
