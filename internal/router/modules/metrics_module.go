package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/user-service/internal/interface/middleware"
)

// MetricsModule exposes Prometheus metrics at /metrics. Private network
// scrapers bypass the per-IP limit.
type MetricsModule struct {
	Gatherer prometheus.Gatherer
	RDB      redis.UniversalClient
}

func NewMetricsModule(g prometheus.Gatherer, rdb redis.UniversalClient) *MetricsModule {
	return &MetricsModule{Gatherer: g, RDB: rdb}
}

func (m *MetricsModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/metrics", rl, gin.WrapH(promhttp.HandlerFor(m.Gatherer, promhttp.HandlerOpts{})))
}
