package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-service/pkg/response"
)

// Module describes a feature module that can register its routes on a RouterGroup
type Module interface {
	Register(rg *gin.RouterGroup)
}

// ModuleFunc adapts a plain function to Module.
type ModuleFunc func(rg *gin.RouterGroup)

func (f ModuleFunc) Register(rg *gin.RouterGroup) { f(rg) }

// Checker reports whether a dependency is reachable.
type Checker func(ctx context.Context) error

type namedChecker struct {
	name  string
	check Checker
}

// Registry collects API middleware, feature modules and health checks and
// mounts them under /api.
type Registry struct {
	Engine        *gin.Engine
	API           *gin.RouterGroup
	HealthTimeout time.Duration

	middlewares []gin.HandlerFunc
	modules     []Module
	checks      []namedChecker
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group("/api"), HealthTimeout: 2 * time.Second}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

// Check adds a dependency probe to GET /api/health.
func (r *Registry) Check(name string, c Checker) {
	r.checks = append(r.checks, namedChecker{name: name, check: c})
}

// RegisterAll applies the middleware and mounts every module. Call it once.
func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	r.API.GET("/health", r.health)
	for _, m := range r.modules {
		m.Register(r.API)
	}
}

func (r *Registry) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), r.HealthTimeout)
	defer cancel()

	status := make(map[string]string, len(r.checks))
	healthy := true
	for _, nc := range r.checks {
		if err := nc.check(ctx); err != nil {
			status[nc.name] = "down"
			healthy = false
			continue
		}
		status[nc.name] = "up"
	}

	if !healthy {
		response.Error[any](c, http.StatusServiceUnavailable, "unhealthy", status)
		return
	}
	response.Success(c, http.StatusOK, status, "ok", nil)
}
