package router

import (
	"github.com/oksasatya/user-service/internal/container"
	handlers "github.com/oksasatya/user-service/internal/interface/http"
	"github.com/oksasatya/user-service/internal/router/modules"
)

// InitModules registers every feature module with the registry.
// Call once during startup, after the container is populated.
func InitModules(r *Registry) {
	svc := container.GetAccounts()
	logger := container.GetLogger()
	rdb := container.GetRedis()

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc, container.Cookies(), logger), rdb))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc, logger), container.GetTokens(), rdb))

	if container.GetConfig().MetricsEnabled && container.GetRegistry() != nil {
		r.Add(modules.NewMetricsModule(container.GetRegistry(), rdb))
	}
}
