package webhook

import (
	"estateleads_backend/internal/events"
	apphttp "estateleads_backend/internal/http"
	"estateleads_backend/platform/config"
	"estateleads_backend/platform/logger"
)

// Module is the webhook bounded context module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the webhook module. Leads are persisted
// through the leads context's store so both intake paths share one table.
func NewModule(cfg config.MetaConfig, store LeadStore, eventBus events.Bus, log *logger.Logger) *Module {
	fetcher := NewGraphClient(cfg)
	service := NewService(fetcher, store, eventBus, log)
	return &Module{handler: NewHandler(service, cfg)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "webhook"
}

// RegisterRoutes mounts webhook routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Root.GET("/webhook", m.handler.HandleVerify)
	ctx.Root.POST("/webhook", m.handler.HandleReceive)
}
