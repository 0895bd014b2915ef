package repository_test

import (
	"context"
	"testing"

	"github.com/groveline/orchard-api/internal/domain"
	"github.com/groveline/orchard-api/internal/repository"
	"github.com/groveline/orchard-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupPoolTestDB(t *testing.T) *gorm.DB {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestData(t, db)
	})
	return db
}

func TestPoolRepository_GrowerIsolation(t *testing.T) {
	db := setupPoolTestDB(t)
	repo := repository.NewPoolRepository(db)

	house := testutil.CreateTestPackinghouse(t, db, "Exeter Citrus Assn")
	testutil.CreateTestPool(t, db, "sunridge", house, domain.CommodityNavel)
	testutil.CreateTestPool(t, db, "kern-valley", house, domain.CommodityNavel)

	pools, total, err := repo.List(growerContext("sunridge"), 1, 20, nil, nil, "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, pools, 1)
	assert.Equal(t, domain.GrowerID("sunridge"), pools[0].GrowerID)
}

func TestPoolRepository_StatusFilter(t *testing.T) {
	db := setupPoolTestDB(t)
	repo := repository.NewPoolRepository(db)

	house := testutil.CreateTestPackinghouse(t, db, "Exeter Citrus Assn")
	testutil.CreateTestPool(t, db, "sunridge", house, domain.CommodityNavel)
	closed := testutil.CreateTestPool(t, db, "sunridge", house, domain.CommodityLemon)
	closed.Status = domain.PoolStatusClosed
	require.NoError(t, db.Save(closed).Error)

	active := domain.PoolStatusActive
	pools, total, err := repo.List(growerContext("sunridge"), 1, 20, &active, nil, "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, pools, 1)
	assert.Equal(t, domain.PoolStatusActive, pools[0].Status)
}

func TestPoolRepository_ListOpenByPackinghouse(t *testing.T) {
	db := setupPoolTestDB(t)
	repo := repository.NewPoolRepository(db)

	house := testutil.CreateTestPackinghouse(t, db, "Exeter Citrus Assn")
	other := testutil.CreateTestPackinghouse(t, db, "Orange Cove Packing")

	testutil.CreateTestPool(t, db, "sunridge", house, domain.CommodityNavel)
	settled := testutil.CreateTestPool(t, db, "sunridge", house, domain.CommodityLemon)
	settled.Status = domain.PoolStatusSettled
	require.NoError(t, db.Save(settled).Error)
	testutil.CreateTestPool(t, db, "sunridge", other, domain.CommodityNavel)

	pools, err := repo.ListOpenByPackinghouse(context.Background(), house.ID)
	require.NoError(t, err)
	require.Len(t, pools, 1)
	assert.Equal(t, domain.CommodityNavel, pools[0].Commodity)
}

func TestPackinghouseRepository_SharedAcrossGrowers(t *testing.T) {
	db := setupPoolTestDB(t)
	repo := repository.NewPackinghouseRepository(db)

	house := testutil.CreateTestPackinghouse(t, db, "Exeter Citrus Assn")

	// Packinghouses are shared master data; both growers can read them
	got, err := repo.GetByID(growerContext("sunridge"), house.ID)
	require.NoError(t, err)
	assert.Equal(t, house.ID, got.ID)

	got, err = repo.GetByID(growerContext("kern-valley"), house.ID)
	require.NoError(t, err)
	assert.Equal(t, house.ID, got.ID)
}
