// Package http holds the HTTP composition types shared by the router and the
// domain modules.
package http

import (
	"immopilot_backend/platform/config"

	"github.com/gin-gonic/gin"
)

// Module is a bounded context that mounts its own routes.
type Module interface {
	// Name identifies the module in startup logs.
	Name() string
	// RegisterRoutes mounts the module's routes on the groups in ctx.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext carries the route groups and auth wiring handed to every module.
type RouterContext struct {
	Engine *gin.Engine
	// V1 is the public /api/v1 group.
	V1 *gin.RouterGroup
	// Protected is V1 behind the JWT access-token middleware.
	Protected      *gin.RouterGroup
	Config         config.JWTConfig
	AuthMiddleware gin.HandlerFunc
}
