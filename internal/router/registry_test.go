package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func TestRegistryMountsModulesUnderAPI(t *testing.T) {
	engine := gin.New()
	reg := NewRegistry(engine)

	var order []string
	reg.Use(func(c *gin.Context) {
		order = append(order, "mw")
		c.Next()
	})
	reg.Add(ModuleFunc(func(rg *gin.RouterGroup) {
		rg.GET("/ping", func(c *gin.Context) {
			order = append(order, "handler")
			c.String(http.StatusOK, "pong")
		})
	}))
	reg.RegisterAll()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, []string{"mw", "handler"}, order)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	healthy := true
	engine := gin.New()
	reg := NewRegistry(engine)
	reg.Check("postgres", func(context.Context) error { return nil })
	reg.Check("redis", func(context.Context) error {
		if healthy {
			return nil
		}
		return errors.New("dial tcp: connection refused")
	})
	reg.RegisterAll()

	get := func() (int, map[string]any) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return w.Code, body
	}

	code, body := get()
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"postgres": "up", "redis": "up"}, body["data"])

	healthy = false
	code, body = get()
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, map[string]any{"postgres": "up", "redis": "down"}, body["errors"])
	assert.NotContains(t, w2s(body), "connection refused")
}

func w2s(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}
