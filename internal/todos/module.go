package todos

import (
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the todos module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the todos module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	return &Module{handler: NewHandler(NewRepository(pool), val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "todos"
}

// RegisterRoutes mounts todo routes. The demo list is public.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/todos")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Create)
	group.PATCH("/:id", m.handler.Update)
	group.DELETE("/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
