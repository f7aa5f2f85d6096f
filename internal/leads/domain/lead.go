// Package domain defines the lead model and its pipeline enums.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// IntentLabel is the coarse bucket summarizing purchase likelihood.
type IntentLabel string

const (
	IntentForSure IntentLabel = "for_sure"
	IntentUnsure  IntentLabel = "unsure"
	IntentUnknown IntentLabel = "unknown"
)

// Stage is the pipeline position of a lead.
type Stage string

const (
	StageNew         Stage = "new"
	StageContacted   Stage = "contacted"
	StageSiteVisit   Stage = "site_visit"
	StageNegotiation Stage = "negotiation"
)

// Valid reports whether s is a known pipeline stage.
func (s Stage) Valid() bool {
	switch s {
	case StageNew, StageContacted, StageSiteVisit, StageNegotiation:
		return true
	}
	return false
}

// Outcome is the terminal/non-terminal disposition of a lead.
type Outcome string

const (
	OutcomeOpen Outcome = "open"
	OutcomeWon  Outcome = "won"
	OutcomeLost Outcome = "lost"
)

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeOpen, OutcomeWon, OutcomeLost:
		return true
	}
	return false
}

// Source identifies where a lead entered the system.
type Source string

const (
	SourceLandingForm Source = "landing_form"
	SourceMetaLeadAds Source = "meta_lead_ads"
)

// Lead event types recorded on the audit timeline.
const (
	EventCreated      = "created"
	EventStageChanged = "stage_changed"
	EventWon          = "won"
	EventLost         = "lost"
)

// Lead is one prospective customer moving through the sales pipeline.
// LeadgenID is set only for webhook-sourced leads and is unique per upstream
// source: repeated deliveries for the same id upsert, never duplicate.
type Lead struct {
	ID            uuid.UUID       `json:"id"`
	LeadgenID     *string         `json:"leadgen_id"`
	Source        Source          `json:"source"`
	FullName      *string         `json:"full_name"`
	Email         *string         `json:"email"`
	Phone         *string         `json:"phone"`
	City          *string         `json:"city"`
	PageID        *string         `json:"page_id"`
	FormID        *string         `json:"form_id"`
	AdID          *string         `json:"ad_id"`
	IntentLabel   IntentLabel     `json:"intent_label"`
	IntentScore   int             `json:"intent_score"`
	IntentReasons []string        `json:"intent_reasons"`
	Stage         Stage           `json:"stage"`
	Outcome       Outcome         `json:"outcome"`
	DealValue     *float64        `json:"deal_value"`
	ConvertedAt   *time.Time      `json:"converted_at"`
	RawPayload    json.RawMessage `json:"raw_payload,omitempty"`
	CreatedTime   *time.Time      `json:"created_time"`
	InsertedAt    time.Time       `json:"inserted_at"`
}

// LeadEvent is one append-only audit record tied to a lead. Immutable once
// created; ordered by CreatedAt for display.
type LeadEvent struct {
	ID        uuid.UUID `json:"id"`
	LeadID    uuid.UUID `json:"lead_id"`
	EventType string    `json:"event_type"`
	FromStage *string   `json:"from_stage"`
	ToStage   *string   `json:"to_stage"`
	Note      *string   `json:"note"`
	Value     *float64  `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}
