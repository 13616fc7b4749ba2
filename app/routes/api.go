package routes

import (
	"github.com/shashiranjanraj/products/app/controllers"
	"github.com/shashiranjanraj/products/pkg/router"
)

// Controllers groups the handlers RegisterAPI mounts.
type Controllers struct {
	Home     *controllers.HomeController
	Products *controllers.ProductController
}

func RegisterAPI(r *router.Router, c Controllers) {
	r.Get("/", "home", c.Home.Home)
	r.Get("/health", "health", c.Home.Health)
	r.Get("/env.js", "client.env", c.Home.EnvScript)

	products := r.Group("/products")
	products.Get("/", "products.index", c.Products.Index)
	products.Post("/", "products.store", c.Products.Store)
	products.Put("/{id}", "products.update", c.Products.Update)
	products.Delete("/{id}", "products.destroy", c.Products.Destroy)
}
