// Package leads provides the lead capture and pipeline bounded context module.
// This file defines the module that encapsulates setup and route registration.
package leads

import (
	"estateleads_backend/internal/events"
	apphttp "estateleads_backend/internal/http"
	"estateleads_backend/internal/leads/handler"
	"estateleads_backend/internal/leads/repository"
	"estateleads_backend/internal/leads/service"
	"estateleads_backend/platform/logger"
	"estateleads_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, log)
	h := handler.NewHandler(svc, val)

	return &Module{handler: h, repo: repo}
}

// Repository exposes the lead store for sibling modules that persist leads
// through this context (the Meta webhook upserts here).
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// RegisterRoutes mounts lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	leads := ctx.Root.Group("/leads")
	leads.POST("", m.handler.HandleCaptureLead)
	leads.GET("", m.handler.HandleListLeads)
	leads.GET("/:id", m.handler.HandleGetLead)
	leads.POST("/:id/stage", m.handler.HandleUpdateStage)
	leads.DELETE("/:id", m.handler.HandleDeleteLead)
}
