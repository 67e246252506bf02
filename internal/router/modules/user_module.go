package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/user-service/internal/interface/http"
	"github.com/oksasatya/user-service/internal/interface/middleware"
)

// UserModule wires the profile endpoints under /users.
// Public: GET /users/profile/:username, GET /users/search
// Protected: PUT /users/profile, PUT /users/password, POST /users/avatar
type UserModule struct {
	Handler *handlers.UserHandler
	Tokens  middleware.TokenParser
	RDB     redis.UniversalClient
}

func NewUserModule(h *handlers.UserHandler, tokens middleware.TokenParser, rdb redis.UniversalClient) *UserModule {
	return &UserModule{Handler: h, Tokens: tokens, RDB: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")

	publicLimiter := middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByIP(), nil)
	users.GET("/profile/:username", publicLimiter, m.Handler.GetProfile)
	users.GET("/search", publicLimiter, m.Handler.Search)

	auth := users.Group("")
	auth.Use(middleware.Auth(m.Tokens))
	auth.Use(
		middleware.RateLimit(m.RDB, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(m.RDB, 60, time.Minute, middleware.KeyByAccountID(), nil),
	)
	{
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.PUT("/password", m.Handler.ChangePassword)
		auth.POST("/avatar", middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByAccountID(), nil), m.Handler.UpdateAvatar)
	}
}
