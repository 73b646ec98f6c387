package router

import (
	"github.com/devlinkhq/devlink-api/internal/application"
	"github.com/devlinkhq/devlink-api/internal/container"
	pginfra "github.com/devlinkhq/devlink-api/internal/infrastructure/postgres"
	handlers "github.com/devlinkhq/devlink-api/internal/interface/http"
	"github.com/devlinkhq/devlink-api/internal/router/modules"
)

// InitModules initializes all application modules and registers them with
// the router registry. Called once during application startup.
func InitModules(r *Registry) {
	st := pginfra.NewDocumentStore(container.GetPGPool())
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()

	accounts := application.NewAccountService(st, jwt, logger)
	profiles := application.NewProfileService(st, logger, container.GetES(), cfg.ESProfilesIndex)
	posts := application.NewPostService(st, container.GetRedis(), logger)

	r.Add(modules.NewAuth(handlers.NewAuthHandler(accounts, logger), jwt, logger))
	r.Add(modules.NewProfile(handlers.NewProfileHandler(profiles, container.GetGithub(), logger), jwt, logger))
	r.Add(modules.NewPost(handlers.NewPostHandler(posts, logger), jwt, logger))
}
