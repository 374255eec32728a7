// Package tasks provides the tasks bounded context module: manual tasks
// plus AI-suggested next steps with an accept/dismiss lifecycle.
package tasks

import (
	"leadflow_backend/internal/events"
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/internal/leads/ports"
	"leadflow_backend/internal/tasks/handler"
	"leadflow_backend/internal/tasks/insight"
	"leadflow_backend/internal/tasks/repository"
	"leadflow_backend/internal/tasks/service"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the tasks bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the tasks module. The lead reader is
// usually the leads module's repository.
func NewModule(pool *pgxpool.Pool, leads service.LeadReader, completions ports.CompletionClient, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	recommender := insight.NewRecommender(completions, log)
	svc := service.New(repo, leads, recommender, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "tasks"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts task routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/leads/:id/tasks", m.handler.Create)
	ctx.Protected.GET("/leads/:id/tasks", m.handler.ListByLead)
	ctx.Protected.POST("/leads/:id/tasks/recommendations", m.handler.GenerateRecommendations)

	group := ctx.Protected.Group("/tasks")
	group.GET("/:id", m.handler.GetByID)
	group.PATCH("/:id", m.handler.Update)
	group.PATCH("/:id/source", m.handler.UpdateSource)
	group.PATCH("/:id/complete", m.handler.Complete)
	group.DELETE("/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
