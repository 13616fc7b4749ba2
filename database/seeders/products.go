package seeders

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/products/app/models"
	"github.com/shashiranjanraj/products/app/repositories"
)

func init() {
	Register("products", SeedProducts)
}

// DemoProducts is the catalogue SeedProducts writes.
var DemoProducts = []models.ProductInput{
	{Name: models.V("Widget"), Description: models.V("A widget"), Price: models.V(9.99), Img: models.V("w.png")},
	{Name: models.V("Gadget"), Description: models.V("A gadget with two buttons"), Price: models.V(24.5), Img: models.V("g.png")},
	{Name: models.V("Gizmo"), Price: models.V(3.0)},
}

// SeedProducts inserts DemoProducts through the repository.
func SeedProducts(ctx context.Context, db *gorm.DB) error {
	repo := repositories.NewProductRepository(db)
	for _, in := range DemoProducts {
		if _, err := repo.Create(ctx, in); err != nil {
			return err
		}
	}
	return nil
}
