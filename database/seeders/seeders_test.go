package seeders_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/products/app/models"
	"github.com/shashiranjanraj/products/database/seeders"
	"github.com/shashiranjanraj/products/internal/testutil"
)

func TestProductsSeederIsRegistered(t *testing.T) {
	assert.Contains(t, seeders.Names(), "products")
}

func TestRunAll(t *testing.T) {
	db := testutil.OpenDB(t)
	var out bytes.Buffer

	require.NoError(t, seeders.RunAll(context.Background(), db, &out))

	var products []models.Product
	require.NoError(t, db.Order("id").Find(&products).Error)
	require.Len(t, products, len(seeders.DemoProducts))
	assert.Equal(t, "Widget", products[0].Name)
	assert.Nil(t, products[2].Img)
	assert.Contains(t, out.String(), "Running seeder: products")
}

func TestRunAll_StopsOnError(t *testing.T) {
	db := testutil.OpenDB(t)
	require.NoError(t, db.Migrator().DropTable(&models.Product{}))

	var out bytes.Buffer
	err := seeders.RunAll(context.Background(), db, &out)

	assert.ErrorContains(t, err, `seeder "products"`)
	assert.Contains(t, out.String(), "FAILED")
}
