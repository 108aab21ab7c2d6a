package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vicdevmanx/gurutasks/internal/container"
	handlers "github.com/vicdevmanx/gurutasks/internal/interface/http"
	"github.com/vicdevmanx/gurutasks/internal/interface/middleware"
)

type TaskModule struct {
	Handler *handlers.TaskHandler
}

func NewTaskModule(h *handlers.TaskHandler) *TaskModule {
	return &TaskModule{Handler: h}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/tasks")
	auth.Use(middleware.Auth(container.GetJWT()))
	auth.Use(middleware.RateLimit(container.GetRedis(), 240, time.Minute, middleware.KeyByUserID()))
	{
		auth.POST("", m.Handler.Create)
		auth.GET("", m.Handler.List)
		auth.PUT("/:id", m.Handler.Update)
		auth.PATCH("/:id", m.Handler.UpdateStatus)
		auth.DELETE("/:id", m.Handler.Delete)
	}
}
