package models

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) *ProductsRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	repo := NewProductsRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func TestSeed(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	written, err := repo.Seed(ctx, DefaultProducts())
	require.NoError(t, err)
	assert.Equal(t, len(DefaultProducts()), written)

	// Act again on a populated table
	written, err = repo.Seed(ctx, DefaultProducts())
	require.NoError(t, err)
	assert.Equal(t, 0, written)

	products, err := repo.GetAllProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 15)
	assert.Equal(t, "22-FB03-EGC WHT 1.6m", products[0].Code)
	assert.Equal(t, "SOFA-3S", products[14].Code)
}

func TestLoadCatalog(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	_, err := repo.Seed(ctx, []Product{
		{Code: "A", Name: "Desk", Category: "Executive Tables", Price: "1,250.50"},
		{Code: "B", Name: "Stool", Category: "Storage", Price: "TBD"},
		{Code: "C", Name: "Chair", Category: "Office Chairs", Price: "3200",
			Colors: []ProductColor{{Name: "Red", Value: "#f00"}, {Name: "Blue", Value: "#00f"}}},
	})
	require.NoError(t, err)

	products, err := repo.LoadCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)

	assert.True(t, products[0].PriceValid)
	assert.Equal(t, "1250.5", products[0].Price.String())

	assert.False(t, products[1].PriceValid)
	assert.True(t, products[1].Price.IsZero())
	assert.Equal(t, "TBD", products[1].RawPrice)

	require.Len(t, products[2].Colors, 2)
	assert.Equal(t, "Red", products[2].Colors[0].Name)
	assert.Equal(t, "#00f", products[2].Colors[1].Value)
}

func TestSeedDoesNotMutateInput(t *testing.T) {
	repo := newTestRepo(t)
	input := []Product{{Code: "C", Name: "Chair", Category: "Office Chairs", Price: "1",
		Colors: []ProductColor{{Name: "Red"}, {Name: "Blue"}}}}

	_, err := repo.Seed(context.Background(), input)
	require.NoError(t, err)

	assert.Zero(t, input[0].ID)
	assert.Zero(t, input[0].Colors[1].Position)
}
