package service

import (
	"fmt"
	"strings"
	"testing"

	"decora/internal/database"
	"decora/internal/models"
	"decora/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database per test. The named shared
// cache keeps gorm's connection pool on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(
		sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func newOrderService(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewOrderService(
		db,
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		repository.NewAddressRepository(db),
	)
	return svc, db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, pricePaise int64, stock int, textures ...models.ProductTexture) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:       name,
		PricePaise: pricePaise,
		Stock:      stock,
		Image:      "https://cdn.example.com/" + name + ".webp",
		IsActive:   true,
		Textures:   textures,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedAddress(t *testing.T, db *gorm.DB, userID uint) *models.Address {
	t.Helper()
	a := &models.Address{
		UserID:     userID,
		FirstName:  "Asha",
		LastName:   "Rao",
		Phone:      "+91-9876543210",
		Email:      "asha@example.com",
		Street:     "14 MG Road",
		City:       "Bengaluru",
		State:      "Karnataka",
		PostalCode: "560001",
		Country:    "India",
	}
	require.NoError(t, db.Create(a).Error)
	return a
}

func inlineAddress() *AddressFields {
	return &AddressFields{
		FirstName:  "Asha",
		Phone:      "+91-9876543210",
		Street:     "14 MG Road",
		City:       "Bengaluru",
		State:      "Karnataka",
		PostalCode: "560001",
		Country:    "India",
	}
}

func productStock(t *testing.T, db *gorm.DB, id uint) (stock, sold int) {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, id).Error)
	return p.Stock, p.Sold
}
