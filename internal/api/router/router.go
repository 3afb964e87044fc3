package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opsfield/fieldserve/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "fieldserve-api",
		})
	})

	jobHandler := handler.NewJobHandler(deps)
	settingsHandler := handler.NewSettingsHandler(deps)

	// API v1 routes, all behind the context resolver
	v1 := r.Group("/api/v1")
	v1.Use(AuthMiddleware(deps.Logger, deps.Resolver))
	{
		jobs := v1.Group("/jobs")
		{
			jobs.POST("", jobHandler.CreateJob)
			jobs.GET("", jobHandler.ListJobs)
			jobs.GET("/:job_id", jobHandler.GetJob)
			jobs.PATCH("/:job_id", jobHandler.UpdateJob)
			jobs.DELETE("/:job_id", jobHandler.DeleteJob)

			// Board transitions
			jobs.POST("/:job_id/transition", jobHandler.TransitionJob)

			// Resource attachment
			jobs.GET("/:job_id/assignments", jobHandler.ListAssignments)
			jobs.PUT("/:job_id/assignments", jobHandler.ReplaceAssignments)
			jobs.GET("/:job_id/checklists", jobHandler.ListChecklists)
			jobs.POST("/:job_id/checklists", jobHandler.AttachChecklist)
		}

		settings := v1.Group("/settings")
		{
			settings.GET("/kanban", settingsHandler.GetKanbanSettings)
			settings.PATCH("/kanban", settingsHandler.UpdateColumnLabels)
		}
	}

	return r
}
