// Package testutil holds helpers shared by the package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/products/app/models"
	"github.com/shashiranjanraj/products/pkg/database"
)

// SQLiteConfig points the production opener at a private in-memory database.
// The opener's single-connection limit keeps every statement on the same
// in-memory instance.
func SQLiteConfig() database.Config {
	return database.Config{Driver: "sqlite", DSN: ":memory:"}
}

// OpenDB opens an in-memory database through database.Dial and creates the
// products table. It is closed when the test ends.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Dial(SQLiteConfig())(context.Background())
	require.NoError(t, err, "failed to open sqlite")

	CreateSchema(t, db)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateSchema creates the products table the service expects to exist.
func CreateSchema(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.AutoMigrate(&models.Product{}), "failed to create products table")
}

// InsertProduct writes a row directly, bypassing the repository.
func InsertProduct(t *testing.T, db *gorm.DB, name string, price float64) models.Product {
	t.Helper()

	p := models.Product{Name: name, Price: price}
	require.NoError(t, db.Create(&p).Error, "failed to insert product")
	return p
}
