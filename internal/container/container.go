package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-service/config"
	"github.com/oksasatya/user-service/internal/application"
	"github.com/oksasatya/user-service/pkg/helpers"
)

// app-level container to share constructed components across packages.
// Router modules are wired from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient redis.UniversalClient
	registry    *prometheus.Registry

	tokens   *helpers.TokenIssuer
	accounts *application.AccountService
)

func SetConfig(c *config.Config)       { cfg = c }
func GetConfig() *config.Config        { return cfg }
func SetLogger(l *logrus.Logger)       { logger = l }
func GetLogger() *logrus.Logger        { return logger }
func SetPGPool(p *pgxpool.Pool)        { pgPool = p }
func GetPGPool() *pgxpool.Pool         { return pgPool }
func SetTokens(t *helpers.TokenIssuer) { tokens = t }
func GetTokens() *helpers.TokenIssuer  { return tokens }

// SetRedis stores the shared client. Pass nil when Redis is unavailable;
// rate limiting is then disabled.
func SetRedis(r redis.UniversalClient) { redisClient = r }
func GetRedis() redis.UniversalClient  { return redisClient }

func SetRegistry(r *prometheus.Registry) { registry = r }
func GetRegistry() *prometheus.Registry  { return registry }

func SetAccounts(s *application.AccountService) { accounts = s }
func GetAccounts() *application.AccountService  { return accounts }

// Cookies returns the access-token cookie manager for the configured domain.
func Cookies() *helpers.Manager {
	return helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)
}
