// Package router assembles the gin engine: middleware chain and route table.
package router

import (
	"time"

	"taskboard/internal/handlers"
	"taskboard/internal/middleware"
	"taskboard/internal/monitoring"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	Identity  middleware.Authenticator
	Auth      *handlers.AuthHandler
	Users     *handlers.UserHandler
	Tasks     *handlers.TaskHandler
	Dashboard *handlers.DashboardHandler
	Health    *monitoring.HealthChecker

	// SignupLimit guards the unauthenticated credential routes. Nil disables it.
	SignupLimit gin.HandlerFunc

	AllowedOrigins []string
}

func New(deps Deps) *gin.Engine {
	engine := gin.New()
	if gin.Mode() != gin.TestMode {
		engine.Use(gin.Logger())
	}
	engine.Use(middleware.RecoveryWithLog())
	engine.Use(cors.New(corsConfig(deps.AllowedOrigins)))

	limited := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if deps.SignupLimit == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{deps.SignupLimit, h}
	}
	requireIdentity := middleware.RequireIdentity(deps.Identity)

	engine.GET("/health", deps.Health.Handler())

	auth := engine.Group("/auth")
	{
		auth.POST("/register", limited(deps.Auth.Register)...)
		auth.POST("/login", limited(deps.Auth.Login)...)
		auth.POST("/logout", requireIdentity, deps.Auth.Logout)
		auth.GET("/me", requireIdentity, deps.Auth.Me)
	}

	engine.POST("/users", limited(deps.Users.Create)...)
	users := engine.Group("/users", requireIdentity)
	{
		users.GET("", deps.Users.List)
		users.GET("/:id", deps.Users.Get)
		users.PUT("/:id", deps.Users.Update)
		users.DELETE("/:id", deps.Users.Delete)
	}

	tasks := engine.Group("/tasks", requireIdentity)
	{
		tasks.GET("", deps.Tasks.List)
		tasks.POST("", deps.Tasks.Create)
		tasks.GET("/:id", deps.Tasks.Get)
		tasks.PUT("/:id", deps.Tasks.Update)
		tasks.PATCH("/:id/status", deps.Tasks.UpdateStatus)
		tasks.DELETE("/:id", deps.Tasks.Delete)
	}

	engine.GET("/dashboard/summary", requireIdentity, deps.Dashboard.Summary)

	return engine
}

func corsConfig(origins []string) cors.Config {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		config.AllowAllOrigins = true
		return config
	}
	config.AllowOrigins = origins
	config.AllowCredentials = true
	return config
}
