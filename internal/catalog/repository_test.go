package catalog

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/svetline/svetline-backend/pkg/db/models"
	"github.com/svetline/svetline-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  power TEXT,
  light_color TEXT,
  price_rub INTEGER NOT NULL,
  image TEXT,
  category TEXT NOT NULL,
  compatible_with TEXT,
  description TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	readySets := `
CREATE TABLE IF NOT EXISTS ready_sets (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  price_rub INTEGER NOT NULL,
  description TEXT,
  product_ids TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(readySets).Error)
	return db
}

func seedProduct(t *testing.T, repo *Repository, name string, price int64, category enums.ProductCategory, active bool, position int) *models.Product {
	t.Helper()
	created, err := repo.CreateProduct(context.Background(), &models.Product{
		Name:     name,
		Power:    "6W",
		PriceRub: price,
		Category: category,
		IsActive: active,
		Position: position,
	})
	require.NoError(t, err)
	return created
}

func TestRepositoryListProductsOrderAndVisibility(t *testing.T) {
	repo := NewRepository(setupCatalogTestDB(t))
	ctx := context.Background()

	seedProduct(t, repo, "night lamp", 990, enums.ProductCategoryLED, true, 2)
	seedProduct(t, repo, "desk lamp", 1490, enums.ProductCategoryLED, true, 1)
	seedProduct(t, repo, "retired lamp", 500, enums.ProductCategoryLED, false, 0)

	visible, err := repo.ListProducts(ctx, true)
	require.NoError(t, err)
	require.Len(t, visible, 2)
	assert.Equal(t, "desk lamp", visible[0].Name)
	assert.Equal(t, "night lamp", visible[1].Name)

	all, err := repo.ListProducts(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRepositoryListProductsByCategory(t *testing.T) {
	repo := NewRepository(setupCatalogTestDB(t))
	ctx := context.Background()

	seedProduct(t, repo, "exit sign", 2100, enums.ProductCategoryEmergency, true, 0)
	seedProduct(t, repo, "garland", 790, enums.ProductCategoryDecorative, true, 0)

	emergency, err := repo.ListProductsByCategory(ctx, enums.ProductCategoryEmergency)
	require.NoError(t, err)
	require.Len(t, emergency, 1)
	assert.Equal(t, "exit sign", emergency[0].Name)
}

func TestRepositoryListProductsByIDsPreservesArgumentOrder(t *testing.T) {
	repo := NewRepository(setupCatalogTestDB(t))
	ctx := context.Background()

	a := seedProduct(t, repo, "a", 100, enums.ProductCategoryLED, true, 0)
	b := seedProduct(t, repo, "b", 200, enums.ProductCategoryLED, true, 0)
	c := seedProduct(t, repo, "c", 300, enums.ProductCategoryLED, true, 0)

	got, err := repo.ListProductsByIDs(ctx, []int64{c.ID, a.ID, 999, b.ID})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{got[0].Name, got[1].Name, got[2].Name})
}

func TestRepositoryProductRoundTripWithCompatibleIDs(t *testing.T) {
	repo := NewRepository(setupCatalogTestDB(t))
	ctx := context.Background()

	created, err := repo.CreateProduct(ctx, &models.Product{
		Name:           "smart bulb",
		PriceRub:       1290,
		Category:       enums.ProductCategoryLED,
		CompatibleWith: pq.Int64Array{4, 7},
		IsActive:       true,
	})
	require.NoError(t, err)

	loaded, err := repo.FindProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, pq.Int64Array{4, 7}, loaded.CompatibleWith)
}

func TestRepositoryDeleteProduct(t *testing.T) {
	repo := NewRepository(setupCatalogTestDB(t))
	ctx := context.Background()

	created := seedProduct(t, repo, "doomed", 100, enums.ProductCategoryLED, true, 0)

	require.NoError(t, repo.DeleteProduct(ctx, created.ID))
	assert.ErrorIs(t, repo.DeleteProduct(ctx, created.ID), gorm.ErrRecordNotFound)

	_, err := repo.FindProduct(ctx, created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryReadySetRoundTrip(t *testing.T) {
	repo := NewRepository(setupCatalogTestDB(t))
	ctx := context.Background()

	created, err := repo.CreateReadySet(ctx, &models.ReadySet{
		Name:       "hallway kit",
		PriceRub:   4990,
		ProductIDs: pq.Int64Array{1, 2, 3},
		IsActive:   true,
	})
	require.NoError(t, err)

	loaded, err := repo.FindReadySet(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "hallway kit", loaded.Name)
	assert.Equal(t, pq.Int64Array{1, 2, 3}, loaded.ProductIDs)

	loaded.PriceRub = 4490
	_, err = repo.UpdateReadySet(ctx, loaded)
	require.NoError(t, err)

	again, err := repo.FindReadySet(ctx, created.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 4490, again.PriceRub)
}
