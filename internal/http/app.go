package http

import (
	"context"

	"immopilot_backend/platform/config"
	"immopilot_backend/platform/logger"
)

// RouterConfig is the configuration the router reads.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
	config.RateLimitConfig
}

// HealthChecker backs the /api/health readiness probe.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App is what cmd/api assembles and hands to router.New.
type App struct {
	Config RouterConfig
	Logger *logger.Logger
	// Health may be nil, in which case /api/health always answers ok.
	Health  HealthChecker
	Modules []Module
}
