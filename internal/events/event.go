// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"estateleads_backend/platform/events"
	"estateleads_backend/platform/logger"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCaptured is published when a new lead is persisted, from either the
// landing form or the Meta Lead Ads webhook.
type LeadCaptured struct {
	BaseEvent
	LeadID      uuid.UUID `json:"leadId"`
	Source      string    `json:"source"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	IntentLabel string    `json:"intentLabel"`
	IntentScore int       `json:"intentScore"`
}

func (e LeadCaptured) EventName() string { return "leads.lead.captured" }

// LeadStageChanged is published when a lead moves through the pipeline.
type LeadStageChanged struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	FromStage string    `json:"fromStage"`
	ToStage   string    `json:"toStage"`
	Outcome   string    `json:"outcome"`
}

func (e LeadStageChanged) EventName() string { return "leads.lead.stage_changed" }
