package router

import (
	"github.com/vicdevmanx/gurutasks/internal/application"
	"github.com/vicdevmanx/gurutasks/internal/container"
	pginfra "github.com/vicdevmanx/gurutasks/internal/infrastructure/postgres"
	handlers "github.com/vicdevmanx/gurutasks/internal/interface/http"
	"github.com/vicdevmanx/gurutasks/internal/router/modules"
)

// InitModules builds every feature module from the container singletons and
// registers it with the router registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	pool := container.GetPGPool()
	logger := container.GetLogger()

	userRepo := pginfra.NewUserRepository(pool)
	projectRepo := pginfra.NewProjectRepository(pool)
	taskRepo := pginfra.NewTaskRepository(pool)
	resolver := application.NewResolver(pginfra.NewReferenceRepository(pool))

	userSvc := &application.UserService{
		Users:        userRepo,
		Resolver:     resolver,
		JWT:          container.GetJWT(),
		GCS:          container.GetGCS(),
		GCSBucket:    cfg.GCSBucket,
		Redis:        container.GetRedis(),
		Logger:       logger,
		ES:           container.GetES(),
		ESUsersIndex: cfg.ESUsersIndex,
		Pub:          container.GetRabbitPub(),
		ClientURL:    cfg.ClientURL,
		MailEnabled:  cfg.MailSendEnabled,
	}
	projectSvc := &application.ProjectService{
		Projects:  projectRepo,
		Resolver:  resolver,
		GCS:       container.GetGCS(),
		GCSBucket: cfg.GCSBucket,
		Logger:    logger,
	}
	taskSvc := &application.TaskService{
		Tasks:    taskRepo,
		Resolver: resolver,
	}

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(userSvc, logger)))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger), userRepo))
	r.Add(modules.NewProjectModule(handlers.NewProjectHandler(projectSvc, logger)))
	r.Add(modules.NewTaskModule(handlers.NewTaskHandler(taskSvc, logger)))
}
