package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vicdevmanx/gurutasks/internal/container"
	"github.com/vicdevmanx/gurutasks/internal/domain/repository"
	handlers "github.com/vicdevmanx/gurutasks/internal/interface/http"
	"github.com/vicdevmanx/gurutasks/internal/interface/middleware"
)

// UserModule registers the user routes. Everything requires a bearer token;
// suspend and delete additionally require the admin access role.
type UserModule struct {
	Handler *handlers.UserHandler
	Users   repository.UserRepository
}

func NewUserModule(h *handlers.UserHandler, users repository.UserRepository) *UserModule {
	return &UserModule{Handler: h, Users: users}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/users")
	auth.Use(middleware.Auth(container.GetJWT()))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.GET("", m.Handler.List)
		auth.GET("/search", m.Handler.Search)
		auth.GET("/:id", m.Handler.Get)
		auth.PUT("/:id", m.Handler.Update)

		admin := auth.Group("/")
		admin.Use(middleware.AdminOnly(m.Users))
		{
			admin.PATCH("/:id/suspend", m.Handler.Suspend)
			admin.DELETE("/:id", m.Handler.Delete)
		}
	}
}
