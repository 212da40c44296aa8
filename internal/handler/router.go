package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/notewise/notewise/internal/middleware"
)

type RouterDeps struct {
	Auth      *AuthHandler
	Notes     *NoteHandler
	Summaries *SummaryHandler
	Health    *HealthHandler
	JWTSecret []byte
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.GET("/health", deps.Health.Health)
	api.GET("/ready", deps.Health.Ready)

	api.POST("/users/guest", deps.Auth.CreateGuest)
	api.POST("/auth/register", deps.Auth.Register)
	api.POST("/auth/login", deps.Auth.Login)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))
	authGroup.GET("/users/me", deps.Auth.Me)

	authGroup.POST("/notes", deps.Notes.Create)
	authGroup.POST("/notes/upload", deps.Notes.Upload)
	authGroup.GET("/notes", deps.Notes.List)
	authGroup.GET("/notes/:id", deps.Notes.Get)
	authGroup.PUT("/notes/:id", deps.Notes.Update)
	authGroup.DELETE("/notes/:id", deps.Notes.Delete)

	authGroup.POST("/notes/:id/summarize", deps.Summaries.Generate)
	authGroup.POST("/notes/:id/summarize/async", deps.Summaries.SubmitJob)
	authGroup.GET("/notes/:id/summaries", deps.Summaries.ListForNote)
	authGroup.GET("/summaries/:id", deps.Summaries.Get)
	authGroup.DELETE("/summaries/:id", deps.Summaries.Delete)
	authGroup.GET("/jobs/:id", deps.Summaries.JobStatus)
}
