package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/banodoco/Reigh-sub009/internal/api/admin"
	"github.com/banodoco/Reigh-sub009/internal/api/auth"
	"github.com/banodoco/Reigh-sub009/internal/api/ledger"
	"github.com/banodoco/Reigh-sub009/internal/api/project"
	"github.com/banodoco/Reigh-sub009/internal/api/task"
	"github.com/banodoco/Reigh-sub009/internal/api/worker"
)

// SetupRouter configures all routes
func SetupRouter(r *gin.Engine) {
	// CORS middleware
	r.Use(CORSMiddleware())

	// Health check
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task Orchestration API is running",
			"version": "1.0.0",
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth routes (no authentication required)
	authRoutes := r.Group("/api/auth")
	{
		authRoutes.POST("/register", auth.Register)
		authRoutes.POST("/login", auth.Login)
		authRoutes.GET("/me", auth.UserMiddleware(), auth.GetCurrentUser)

		// Personal access tokens can only be minted from a real session
		tokenRoutes := authRoutes.Group("/tokens")
		tokenRoutes.Use(auth.SessionMiddleware())
		{
			tokenRoutes.POST("", auth.IssueToken)
			tokenRoutes.GET("", auth.ListTokens)
			tokenRoutes.DELETE("/:token_id", auth.RevokeToken)
		}
	}

	// Worker polling surface: service key, personal token, or session
	workerRoutes := r.Group("/api/worker")
	workerRoutes.Use(auth.CallerMiddleware())
	{
		workerRoutes.POST("/claim", worker.Claim)
		workerRoutes.POST("/heartbeat", worker.Heartbeat)
		workerRoutes.POST("/tasks/:task_id/complete", worker.Complete)
		workerRoutes.POST("/tasks/:task_id/fail", worker.Fail)
	}

	// User surface: session JWT or personal access token
	api := r.Group("/api")
	api.Use(auth.UserMiddleware())
	{
		taskRoutes := api.Group("/tasks")
		{
			taskRoutes.POST("", task.Submit)
			taskRoutes.GET("/availability", task.Availability)
			taskRoutes.GET("/eligible-count", task.EligibleCount)
			taskRoutes.GET("/cost-estimate", task.CostEstimate)
			taskRoutes.GET("/:task_id", task.Get)
			taskRoutes.POST("/:task_id/cancel", task.Cancel)
		}

		projectRoutes := api.Group("/projects")
		{
			projectRoutes.POST("", project.Create)
			projectRoutes.GET("", project.List)
			projectRoutes.GET("/:project_id", project.Get)
		}

		ledgerRoutes := api.Group("/ledger")
		{
			ledgerRoutes.GET("/balance", ledger.Balance)
			ledgerRoutes.GET("/entries", ledger.Entries)
		}
	}

	// Operator surface: service key only
	adminRoutes := r.Group("/api/admin")
	adminRoutes.Use(auth.ServiceMiddleware())
	{
		adminRoutes.POST("/ledger", admin.AppendLedger)
		adminRoutes.GET("/workers", admin.ListWorkers)
		adminRoutes.POST("/workers/:worker_id/deregister", admin.DeregisterWorker)
		adminRoutes.POST("/task-types", admin.CreateTaskType)
		adminRoutes.GET("/task-types", admin.ListTaskTypes)
		adminRoutes.PUT("/task-types/:type_id", admin.UpdateTaskType)
	}
}

// CORSMiddleware provides CORS support
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Service-Key, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
