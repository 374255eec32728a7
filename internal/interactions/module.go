// Package interactions provides the interactions bounded context module:
// logging contact events against leads.
package interactions

import (
	"leadflow_backend/internal/events"
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/internal/interactions/handler"
	"leadflow_backend/internal/interactions/repository"
	"leadflow_backend/internal/interactions/service"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the interactions bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the interactions module.
func NewModule(pool *pgxpool.Pool, insights service.LeadInsights, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, insights, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "interactions"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts interaction routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/leads/:id/interactions", m.handler.Log)
	ctx.Protected.GET("/leads/:id/interactions", m.handler.ListByLead)
	ctx.Protected.GET("/interactions/:id", m.handler.Get)
	ctx.Protected.PATCH("/interactions/:id", m.handler.Update)
	ctx.Protected.DELETE("/interactions/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
