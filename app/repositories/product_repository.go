package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/products/app/models"
	"github.com/shashiranjanraj/products/pkg/metrics"
)

// WriteResult is the outcome of a write statement. Zero affected rows is
// still a success.
type WriteResult struct {
	AffectedRows int64  `json:"affectedRows"`
	InsertID     uint64 `json:"insertId,omitempty"`
}

// productRow is the insert shape: every client column is bound untyped.
type productRow struct {
	ID          uint64 `gorm:"primaryKey"`
	Name        models.Value
	Description models.Value
	Price       models.Value
	Img         models.Value
}

func (productRow) TableName() string { return "products" }

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// List returns every product. An empty table yields an empty slice.
func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	products := make([]models.Product, 0)
	if err := r.db.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("products: list: %w", err)
	}
	return products, nil
}

// Create inserts one row from the four client fields.
func (r *ProductRepository) Create(ctx context.Context, in models.ProductInput) (WriteResult, error) {
	defer metrics.ObserveDBQuery("insert", time.Now())

	row := productRow{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Img:         in.Img,
	}
	res := r.db.WithContext(ctx).Create(&row)
	if res.Error != nil {
		return WriteResult{}, fmt.Errorf("products: create: %w", res.Error)
	}
	return WriteResult{AffectedRows: res.RowsAffected, InsertID: row.ID}, nil
}

// Update overwrites all four client columns of the row with the given id.
func (r *ProductRepository) Update(ctx context.Context, id string, in models.ProductInput) (WriteResult, error) {
	defer metrics.ObserveDBQuery("update", time.Now())

	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(in.Columns())
	if res.Error != nil {
		return WriteResult{}, fmt.Errorf("products: update %s: %w", id, res.Error)
	}
	return WriteResult{AffectedRows: res.RowsAffected}, nil
}

// Delete removes the row with the given id.
func (r *ProductRepository) Delete(ctx context.Context, id string) (WriteResult, error) {
	defer metrics.ObserveDBQuery("delete", time.Now())

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return WriteResult{}, fmt.Errorf("products: delete %s: %w", id, res.Error)
	}
	return WriteResult{AffectedRows: res.RowsAffected}, nil
}
