package app

import (
	"github.com/gin-gonic/gin"

	"github.com/caninecompass/k9-backend/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers, mw Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthMiddleware:    mw.Auth,
		TrainingHandler:   handlerset.Training,
		CredentialHandler: handlerset.Credential,
		TokenHandler:      handlerset.Token,
		AllowOrigins:      cfg.AllowOrigins,
	})
}
