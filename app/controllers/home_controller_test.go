package controllers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/products/app/controllers"
)

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

func TestHome(t *testing.T) {
	c := controllers.NewHomeController(pinger{}, nil)

	rec := httptest.NewRecorder()
	c.Home(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"Hello from the server!"`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	controllers.NewHomeController(pinger{}, nil).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	controllers.NewHomeController(pinger{err: errors.New("bad connection")}, nil).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rec.Body.String())
}

func TestEnvScript(t *testing.T) {
	lookup := func(key string) (string, bool) {
		if key == "VITE_API_URL" {
			return "http://api.local:8080", true
		}
		return "", false
	}

	rec := httptest.NewRecorder()
	controllers.NewHomeController(pinger{}, lookup).EnvScript(rec, httptest.NewRequest(http.MethodGet, "/env.js", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/javascript")
	assert.Equal(t, `window._env_ = {"VITE_API_URL":"http://api.local:8080"};`+"\n", rec.Body.String())
}
