package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/products/pkg/router"
)

func ok(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(name + ":" + chi.URLParam(r, "id"))) //nolint:errcheck
	}
}

func TestMethodsAndParams(t *testing.T) {
	r := router.New()
	r.Get("/products", "products.index", ok("index"))
	r.Post("/products", "products.store", ok("store"))
	r.Put("/products/{id}", "products.update", ok("update"))
	r.Delete("/products/{id}", "products.destroy", ok("destroy"))

	cases := []struct {
		method, path, want string
	}{
		{http.MethodGet, "/products", "index:"},
		{http.MethodPost, "/products", "store:"},
		{http.MethodPut, "/products/7", "update:7"},
		{http.MethodDelete, "/products/7", "destroy:7"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.Handler().ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, tc.want, rec.Body.String())
	}

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/products/7", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGroupMiddlewareOrder(t *testing.T) {
	var order []string
	tag := func(name string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := router.New()
	api := r.Group("/api", tag("group"))
	api.Get("/ping", "ping", func(http.ResponseWriter, *http.Request) { order = append(order, "handler") }, tag("route"))

	r.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	assert.Equal(t, []string{"group", "route", "handler"}, order)
}

func TestRoutesAndURL(t *testing.T) {
	r := router.New()
	r.Delete("/products/{id}", "products.destroy", ok("d"))
	r.Get("/products", "products.index", ok("i"))
	r.Get("/", "", ok("unnamed"))

	routes := r.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, router.RouteInfo{Method: http.MethodGet, Path: "/products", Name: "products.index"}, routes[0])
	assert.Equal(t, http.MethodDelete, routes[1].Method)

	url, err := r.URL("products.destroy", map[string]string{"id": "3"})
	require.NoError(t, err)
	assert.Equal(t, "/products/3", url)

	_, err = r.URL("products.destroy", nil)
	assert.Error(t, err)

	_, err = r.URL("missing", nil)
	assert.Error(t, err)
}
