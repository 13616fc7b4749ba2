// Package kernel assembles the service's HTTP handler: global middleware,
// the product routes and the operational endpoints.
package kernel

import (
	"context"
	"net/http"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/products/app/controllers"
	"github.com/shashiranjanraj/products/app/repositories"
	"github.com/shashiranjanraj/products/app/routes"
	"github.com/shashiranjanraj/products/config"
	"github.com/shashiranjanraj/products/pkg/clientcfg"
	"github.com/shashiranjanraj/products/pkg/metrics"
	"github.com/shashiranjanraj/products/pkg/middleware"
	"github.com/shashiranjanraj/products/pkg/reqid"
	"github.com/shashiranjanraj/products/pkg/router"
)

// Options tune the handler.
type Options struct {
	// ExposeErrors returns driver messages to clients on database failures.
	ExposeErrors bool
	// Lookup feeds /env.js.
	Lookup clientcfg.Lookup
	CORS   middleware.CORSOptions
}

// DefaultOptions derives the options from the loaded configuration.
func DefaultOptions() Options {
	return Options{
		ExposeErrors: !config.IsProduction(),
		Lookup:       config.Lookup,
		CORS:         middleware.DefaultCORSOptions(),
	}
}

// NewRouter mounts every route on a fresh router. db may be nil when the
// router is only built to list its routes.
func NewRouter(db *gorm.DB, opts Options) *router.Router {
	r := router.New()

	// Outermost first: metrics sees total latency, recovery catches panics
	// from everything below it.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(opts.CORS))

	r.Get("/metrics", "metrics", metrics.Handler())

	routes.RegisterAPI(r, routes.Controllers{
		Home:     controllers.NewHomeController(gormPinger{db: db}, opts.Lookup),
		Products: controllers.NewProductController(repositories.NewProductRepository(db), opts.ExposeErrors),
	})
	return r
}

// NewHandler builds the HTTP handler over a live connection.
func NewHandler(db *gorm.DB, opts Options) http.Handler {
	return NewRouter(db, opts).Handler()
}

type gormPinger struct {
	db *gorm.DB
}

func (p gormPinger) PingContext(ctx context.Context) error {
	if p.db == nil {
		return gorm.ErrInvalidDB
	}
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
