package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/products/app/models"
	"github.com/shashiranjanraj/products/app/repositories"
	"github.com/shashiranjanraj/products/pkg/bind"
	"github.com/shashiranjanraj/products/pkg/logger"
	"github.com/shashiranjanraj/products/pkg/response"
)

// ProductStore is the persistence the product handlers need.
// *repositories.ProductRepository satisfies it.
type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, in models.ProductInput) (repositories.WriteResult, error)
	Update(ctx context.Context, id string, in models.ProductInput) (repositories.WriteResult, error)
	Delete(ctx context.Context, id string) (repositories.WriteResult, error)
}

type ProductController struct {
	store        ProductStore
	exposeErrors bool
}

// NewProductController builds the product handlers. With exposeErrors the
// driver message of a failed statement is returned to the client; without
// it the client gets a generic message and the log keeps the detail.
func NewProductController(store ProductStore, exposeErrors bool) *ProductController {
	return &ProductController{store: store, exposeErrors: exposeErrors}
}

// Index handles GET /products.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	products, err := c.store.List(r.Context())
	if err != nil {
		c.databaseError(w, r, err)
		return
	}
	response.Success(w, products)
}

// Store handles POST /products.
func (c *ProductController) Store(w http.ResponseWriter, r *http.Request) {
	var in models.ProductInput
	if err := bind.JSON(w, r, &in); err != nil {
		response.InvalidBody(w, err)
		return
	}

	res, err := c.store.Create(r.Context(), in)
	if err != nil {
		c.databaseError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info("product created", "insert_id", res.InsertID)
	response.Success(w, res)
}

// Update handles PUT /products/{id}. Every client column is overwritten.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in models.ProductInput
	if err := bind.JSON(w, r, &in); err != nil {
		response.InvalidBody(w, err)
		return
	}

	res, err := c.store.Update(r.Context(), id, in)
	if err != nil {
		c.databaseError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info("product updated", "id", id, "affected_rows", res.AffectedRows)
	response.Success(w, res)
}

// Destroy handles DELETE /products/{id}.
func (c *ProductController) Destroy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := c.store.Delete(r.Context(), id)
	if err != nil {
		c.databaseError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info("product deleted", "id", id, "affected_rows", res.AffectedRows)
	response.Success(w, res)
}

func (c *ProductController) databaseError(w http.ResponseWriter, r *http.Request, err error) {
	logger.WithCtx(r.Context()).Error("database statement failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	response.DatabaseError(w, err, c.exposeErrors)
}
