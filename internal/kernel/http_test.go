package kernel_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/products/app/models"
	"github.com/shashiranjanraj/products/app/repositories"
	"github.com/shashiranjanraj/products/internal/kernel"
	"github.com/shashiranjanraj/products/internal/testutil"
	"github.com/shashiranjanraj/products/pkg/middleware"
)

type api struct {
	t *testing.T
	h http.Handler
}

func newAPI(t *testing.T) *api {
	t.Helper()
	opts := kernel.Options{
		ExposeErrors: true,
		Lookup: func(string) (string, bool) {
			return "http://api.test", true
		},
		CORS: middleware.DefaultCORSOptions(),
	}
	return &api{t: t, h: kernel.NewHandler(testutil.OpenDB(t), opts)}
}

func (a *api) do(method, path, body string) *httptest.ResponseRecorder {
	a.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)
	return rec
}

func (a *api) write(method, path, body string) repositories.WriteResult {
	a.t.Helper()
	rec := a.do(method, path, body)
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())

	var res repositories.WriteResult
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func (a *api) list() []models.Product {
	a.t.Helper()
	rec := a.do(http.MethodGet, "/products", "")
	require.Equal(a.t, http.StatusOK, rec.Code)

	var products []models.Product
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &products))
	return products
}

func path(id uint64) string { return "/products/" + strconv.FormatUint(id, 10) }

func TestHome(t *testing.T) {
	rec := newAPI(t).do(http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"Hello from the server!"`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestListEmpty(t *testing.T) {
	rec := newAPI(t).do(http.MethodGet, "/products", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestWidgetScenario(t *testing.T) {
	a := newAPI(t)

	res := a.write(http.MethodPost, "/products", `{"name":"Widget","description":"A widget","price":9.99,"img":"w.png"}`)
	assert.Equal(t, int64(1), res.AffectedRows)
	require.NotZero(t, res.InsertID)

	products := a.list()
	require.Len(t, products, 1)
	p := products[0]
	assert.Equal(t, res.InsertID, p.ID)
	assert.Equal(t, "Widget", p.Name)
	require.NotNil(t, p.Description)
	assert.Equal(t, "A widget", *p.Description)
	assert.InDelta(t, 9.99, p.Price, 0.0001)
	require.NotNil(t, p.Img)
	assert.Equal(t, "w.png", *p.Img)
}

func TestUpdateOnlyTouchesTarget(t *testing.T) {
	a := newAPI(t)

	first := a.write(http.MethodPost, "/products", `{"name":"First","price":1}`)
	second := a.write(http.MethodPost, "/products", `{"name":"Second","price":2}`)

	res := a.write(http.MethodPut, path(first.InsertID), `{"name":"Renamed","description":"new","price":5.5,"img":"r.png"}`)
	assert.Equal(t, int64(1), res.AffectedRows)

	byID := map[uint64]models.Product{}
	for _, p := range a.list() {
		byID[p.ID] = p
	}
	assert.Equal(t, "Renamed", byID[first.InsertID].Name)
	assert.InDelta(t, 5.5, byID[first.InsertID].Price, 0.0001)
	assert.Equal(t, "Second", byID[second.InsertID].Name)
	assert.InDelta(t, 2, byID[second.InsertID].Price, 0.0001)
}

func TestDeleteRemovesRow(t *testing.T) {
	a := newAPI(t)

	keep := a.write(http.MethodPost, "/products", `{"name":"Keep","price":1}`)
	drop := a.write(http.MethodPost, "/products", `{"name":"Drop","price":1}`)

	res := a.write(http.MethodDelete, path(drop.InsertID), "")
	assert.Equal(t, int64(1), res.AffectedRows)

	products := a.list()
	require.Len(t, products, 1)
	assert.Equal(t, keep.InsertID, products[0].ID)
}

func TestMissingIDIsNotAnError(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodPut, "/products/999", `{"name":"Ghost","price":1}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"affectedRows":0}`, rec.Body.String())

	rec = a.do(http.MethodDelete, "/products/999", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"affectedRows":0}`, rec.Body.String())
}

func TestSQLMetacharactersRoundTrip(t *testing.T) {
	a := newAPI(t)

	name := `Robert'); DROP TABLE products;--`
	body, err := json.Marshal(map[string]interface{}{"name": name, "price": 1})
	require.NoError(t, err)

	a.write(http.MethodPost, "/products", string(body))

	products := a.list()
	require.Len(t, products, 1)
	assert.Equal(t, name, products[0].Name)
}

func TestNullNameIsADatabaseError(t *testing.T) {
	rec := newAPI(t).do(http.MethodPost, "/products", `{"price":1}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "database", body["errorKind"])
	assert.NotEmpty(t, body["error"])
}

func TestFieldTypesAreLeftToTheDatabase(t *testing.T) {
	a := newAPI(t)

	stringPrice := a.write(http.MethodPost, "/products", `{"name":"Widget","price":"9.99"}`)
	numericName := a.write(http.MethodPost, "/products", `{"name":123,"price":1}`)

	byID := map[uint64]models.Product{}
	for _, p := range a.list() {
		byID[p.ID] = p
	}
	require.Len(t, byID, 2)
	assert.InDelta(t, 9.99, byID[stringPrice.InsertID].Price, 0.0001)
	assert.Equal(t, "123", byID[numericName.InsertID].Name)

	res := a.write(http.MethodPut, path(numericName.InsertID), `{"name":456,"price":"2.5"}`)
	assert.Equal(t, int64(1), res.AffectedRows)
}

func TestArrayBodyWritesNulls(t *testing.T) {
	rec := newAPI(t).do(http.MethodPost, "/products", `[{"name":"Widget"}]`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"errorKind":"database"`)
}

func TestMalformedBody(t *testing.T) {
	rec := newAPI(t).do(http.MethodPost, "/products", `{"name":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"errorKind":"invalid_body"`)
}

func TestCORS(t *testing.T) {
	a := newAPI(t)

	req := httptest.NewRequest(http.MethodOptions, "/products/1", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "DELETE")
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = a.do(http.MethodGet, "/products", "")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestOperationalEndpoints(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = a.do(http.MethodGet, "/env.js", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"VITE_API_URL":"http://api.test"`)

	a.do(http.MethodGet, "/products", "")
	rec = a.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/products"`)
}

func TestRouteNames(t *testing.T) {
	names := map[string]string{}
	for _, info := range kernel.NewRouter(nil, kernel.Options{}).Routes() {
		names[info.Name] = info.Method + " " + info.Path
	}

	assert.Equal(t, map[string]string{
		"home":             "GET /",
		"health":           "GET /health",
		"client.env":       "GET /env.js",
		"metrics":          "GET /metrics",
		"products.index":   "GET /products",
		"products.store":   "POST /products",
		"products.update":  "PUT /products/{id}",
		"products.destroy": "DELETE /products/{id}",
	}, names)
}
