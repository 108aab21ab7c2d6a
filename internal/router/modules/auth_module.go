package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vicdevmanx/gurutasks/internal/container"
	handlers "github.com/vicdevmanx/gurutasks/internal/interface/http"
	"github.com/vicdevmanx/gurutasks/internal/interface/middleware"
)

// AuthModule registers the public auth endpoints. All of them are IP rate
// limited; forgot-password gets the tightest budget.
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	signupLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP())
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP())
	forgotLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath())
	resetLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath())

	rg.POST("/auth/signup", signupLimiter, m.Handler.Signup)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/forgot-password", forgotLimiter, m.Handler.ForgotPassword)
	rg.POST("/auth/reset-password/:token", resetLimiter, m.Handler.ResetPassword)
}
