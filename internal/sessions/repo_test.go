package sessions

import (
	"context"
	"strings"
	"testing"

	"github.com/daybreak101/ambassador/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSessionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func strPtr(v string) *string { return &v }

func TestRepositoryUpsertFindDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupSessionsTestDB(t))
	shop := "https://demo.myshopify.com"

	_, err := repo.FindOffline(ctx, shop)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Upsert(ctx, &models.ShopSession{Shop: shop, AccessToken: "shpat_1", Scope: strPtr("read_customers")}))

	found, err := repo.FindOffline(ctx, shop)
	require.NoError(t, err)
	assert.Equal(t, "offline_demo.myshopify.com", found.ID)
	assert.Equal(t, "shpat_1", found.AccessToken)

	require.NoError(t, repo.Upsert(ctx, &models.ShopSession{Shop: shop, AccessToken: "shpat_2"}))
	found, err = repo.FindOffline(ctx, shop)
	require.NoError(t, err)
	assert.Equal(t, "shpat_2", found.AccessToken)
	assert.Nil(t, found.Scope)

	require.NoError(t, repo.DeleteOffline(ctx, shop))
	require.NoError(t, repo.DeleteOffline(ctx, shop))
	_, err = repo.FindOffline(ctx, shop)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRepositoryUpsertRequiresShop(t *testing.T) {
	repo := NewRepository(setupSessionsTestDB(t))
	require.ErrorIs(t, repo.Upsert(context.Background(), &models.ShopSession{AccessToken: "x"}), gorm.ErrInvalidValue)
	require.ErrorIs(t, repo.Upsert(context.Background(), nil), gorm.ErrInvalidValue)
}

func TestRepositoryUpsertRejectsSecondSessionForShop(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupSessionsTestDB(t))
	shop := "https://demo.myshopify.com"

	require.NoError(t, repo.Upsert(ctx, &models.ShopSession{Shop: shop, AccessToken: "shpat_1"}))

	err := repo.Upsert(ctx, &models.ShopSession{ID: "online_demo_42", Shop: shop, AccessToken: "shpua_1", IsOnline: true})
	require.ErrorIs(t, err, ErrShopConflict)

	found, err := repo.FindOffline(ctx, shop)
	require.NoError(t, err)
	assert.Equal(t, "shpat_1", found.AccessToken)
}

func TestOfflineID(t *testing.T) {
	assert.Equal(t, "offline_demo.myshopify.com", OfflineID("https://demo.myshopify.com"))
	assert.Equal(t, "offline_demo.myshopify.com", OfflineID("demo.myshopify.com"))
}
