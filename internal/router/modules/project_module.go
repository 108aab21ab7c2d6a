package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vicdevmanx/gurutasks/internal/container"
	handlers "github.com/vicdevmanx/gurutasks/internal/interface/http"
	"github.com/vicdevmanx/gurutasks/internal/interface/middleware"
)

type ProjectModule struct {
	Handler *handlers.ProjectHandler
}

func NewProjectModule(h *handlers.ProjectHandler) *ProjectModule {
	return &ProjectModule{Handler: h}
}

func (m *ProjectModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/projects")
	auth.Use(middleware.Auth(container.GetJWT()))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.POST("", m.Handler.Create)
		auth.GET("", m.Handler.List)
		auth.GET("/:id", m.Handler.Get)
		auth.PUT("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
		auth.PATCH("/:id/assign", m.Handler.AssignMember)
	}
}
