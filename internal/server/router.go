package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/caninecompass/k9-backend/internal/handlers"
	"github.com/caninecompass/k9-backend/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware    *middleware.AuthMiddleware
	TrainingHandler   *handlers.TrainingHandler
	CredentialHandler *handlers.CredentialHandler
	TokenHandler      *handlers.TokenHandler
	AllowOrigins      []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	// Training
	api.GET("/training/skills", cfg.TrainingHandler.ListSkills)
	api.GET("/training/lessons", cfg.TrainingHandler.ListLessons)
	api.GET("/training/lessons/:skill_id", cfg.TrainingHandler.GetLesson)
	api.GET("/training/enrollments/:subject_id", cfg.TrainingHandler.ListEnrollments)
	api.POST("/training/enroll", cfg.TrainingHandler.Enroll)
	api.POST("/training/complete-step", cfg.TrainingHandler.CompleteStep)

	// Progression + credentials
	api.GET("/k9/tier/:subject_id", cfg.CredentialHandler.GetTier)
	api.GET("/k9/credentials/:subject_id", cfg.CredentialHandler.GetCredentials)
	api.POST("/k9/credentials/:subject_id", cfg.CredentialHandler.IssueCredential)
	api.GET("/k9/certificates/:subject_id", cfg.CredentialHandler.ListCertificates)

	// Tokens
	api.GET("/tokens/balance/:subject_id", cfg.TokenHandler.GetBalance)
	api.POST("/tokens/grant", cfg.TokenHandler.Grant)

	return router
}
