package notification

import (
	"estateleads_backend/internal/events"
	"estateleads_backend/platform/config"
	"estateleads_backend/platform/logger"
)

// Module subscribes notification handlers to domain events. It registers no
// HTTP routes.
type Module struct{}

// NewModule wires alert handlers onto the event bus. When email is disabled
// the subscription is skipped entirely.
func NewModule(cfg config.EmailConfig, eventBus events.Bus, log *logger.Logger) *Module {
	if cfg.GetEmailEnabled() {
		alerter := &hotLeadAlerter{sender: NewSMTPSender(cfg), log: log}
		eventBus.Subscribe(events.LeadCaptured{}.EventName(), alerter)
	}
	return &Module{}
}
