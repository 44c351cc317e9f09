// Package sales provides the sale-process domain module: listing a property
// or unit, tracking prospects, visits and offers, and closing the sale.
package sales

import (
	apphttp "immopilot_backend/internal/http"
	"immopilot_backend/internal/sales/handler"
	"immopilot_backend/internal/sales/ports"
	"immopilot_backend/internal/sales/repository"
	"immopilot_backend/internal/sales/service"
	"immopilot_backend/platform/config"
	"immopilot_backend/platform/logger"
	"immopilot_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the sales domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new sales module with all dependencies wired.
// The audit sink may be nil, in which case mutations are not audited.
func NewModule(
	pool *pgxpool.Pool,
	val *validator.Validator,
	cfg config.PhoneConfig,
	properties ports.PropertyLookup,
	construction ports.ConstructionReader,
	finance ports.FinanceReader,
	audit ports.AuditSink,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, properties, construction, finance, log)
	svc.SetPhoneRegion(cfg.GetDefaultPhoneRegion())
	if audit != nil {
		svc.SetAuditSink(audit)
	}
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "sales"
}

// RegisterRoutes registers the module's routes under /api/v1/sales
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	sales := ctx.Protected.Group("/sales")
	m.handler.RegisterRoutes(sales)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
