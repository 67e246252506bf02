package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/user-service/internal/interface/http"
	"github.com/oksasatya/user-service/internal/interface/middleware"
)

// AuthModule wires the public account lifecycle endpoints under /auth.
// Every route is rate limited per IP and path.
type AuthModule struct {
	Handler *handlers.AuthHandler
	RDB     redis.UniversalClient
}

func NewAuthModule(h *handlers.AuthHandler, rdb redis.UniversalClient) *AuthModule {
	return &AuthModule{Handler: h, RDB: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	limit := func(max int) gin.HandlerFunc {
		return middleware.RateLimit(m.RDB, max, time.Minute, middleware.KeyByIPAndPath(), nil)
	}

	auth := rg.Group("/auth")
	auth.POST("/register", limit(10), m.Handler.Register)
	auth.POST("/login", limit(10), m.Handler.Login)
	auth.POST("/logout", m.Handler.Logout)
	// code issuing endpoints send email, keep them tight
	auth.POST("/forgot-password", limit(5), m.Handler.ForgotPassword)
	auth.POST("/send-otc", limit(5), m.Handler.SendConfirmationOtc)
	auth.POST("/reset-password", limit(30), m.Handler.ResetPassword)
	auth.POST("/confirm-email", limit(30), m.Handler.ConfirmEmail)
}
