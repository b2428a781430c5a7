// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"knowledgeos/internal/delivery/http/middleware"
	"knowledgeos/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler         *handler.AuthHandler
	MemoryHandler       *handler.MemoryHandler
	AuthMiddleware      *middleware.AuthMiddleware
	RequestIDMiddleware *middleware.RequestIDMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler         *handler.AuthHandler
	memoryHandler       *handler.MemoryHandler
	authMiddleware      *middleware.AuthMiddleware
	requestIDMiddleware *middleware.RequestIDMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:         params.AuthHandler,
		memoryHandler:       params.MemoryHandler,
		authMiddleware:      params.AuthMiddleware,
		requestIDMiddleware: params.RequestIDMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.Use(r.requestIDMiddleware.Process)

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", r.authHandler.Signup)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/google", r.authHandler.GoogleLogin)
	}

	// Note lifecycle routes require authentication
	protected := e.Group("")
	protected.Use(r.authMiddleware.Authenticate)
	{
		protected.POST("/ingest", r.memoryHandler.Ingest)
		protected.GET("/memory", r.memoryHandler.List)
		protected.DELETE("/memory/:id/soft", r.memoryHandler.SoftDelete)
		protected.POST("/memory/:id/restore", r.memoryHandler.Restore)
		protected.DELETE("/memory/:id/permanent", r.memoryHandler.PermanentDelete)
	}
}
