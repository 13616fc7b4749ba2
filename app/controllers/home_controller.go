package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/shashiranjanraj/products/pkg/clientcfg"
	"github.com/shashiranjanraj/products/pkg/logger"
	"github.com/shashiranjanraj/products/pkg/response"
)

// Pinger checks that the database answers. gorm's *sql.DB fits.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HomeController struct {
	db     Pinger
	lookup clientcfg.Lookup
}

// NewHomeController wires the health check to db and /env.js to lookup.
func NewHomeController(db Pinger, lookup clientcfg.Lookup) *HomeController {
	return &HomeController{db: db, lookup: lookup}
}

// Home handles GET / with a JSON string greeting.
func (c *HomeController) Home(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, "Hello from the server!")
}

// Health handles GET /health.
func (c *HomeController) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := c.db.PingContext(ctx); err != nil {
		logger.WithCtx(r.Context()).Warn("health: database ping failed", "error", err)
		response.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	response.Success(w, map[string]string{"status": "ok"})
}

// EnvScript handles GET /env.js, publishing the runtime API URL to the
// browser as window._env_.
func (c *HomeController) EnvScript(w http.ResponseWriter, _ *http.Request) {
	url := ""
	if c.lookup != nil {
		url, _ = c.lookup(clientcfg.Key)
	}

	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(clientcfg.Script(map[string]string{clientcfg.Key: url})) //nolint:errcheck
}
