// Package service orchestrates lead capture and pipeline transitions.
package service

import (
	"context"
	"encoding/json"
	"time"

	"estateleads_backend/internal/events"
	"estateleads_backend/internal/leads/domain"
	"estateleads_backend/internal/leads/repository"
	"estateleads_backend/internal/leads/scoring"
	"estateleads_backend/internal/leads/transport"
	"estateleads_backend/platform/apperr"
	"estateleads_backend/platform/logger"
	"estateleads_backend/platform/phone"

	"github.com/google/uuid"
)

// listLimit caps the dashboard list view.
const listLimit = 200

// Store is the persistence surface the service depends on. Satisfied by
// *repository.Repository; tests substitute a fake.
type Store interface {
	Insert(ctx context.Context, params repository.InsertLeadParams) (domain.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	List(ctx context.Context, limit int) ([]domain.Lead, error)
	UpdateStage(ctx context.Context, id uuid.UUID, params repository.UpdateStageParams) error
	Delete(ctx context.Context, id uuid.UUID) error
	AppendEvent(ctx context.Context, params repository.AppendEventParams) (domain.LeadEvent, error)
	ListEventsByLead(ctx context.Context, leadID uuid.UUID) ([]domain.LeadEvent, error)
}

// Service handles lead capture from the landing form and dashboard reads.
type Service struct {
	store    Store
	eventBus events.Bus
	log      *logger.Logger
}

// New creates a new leads service.
func New(store Store, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, eventBus: eventBus, log: log}
}

// CaptureFormLead persists a validated landing-form submission: score the
// explicit interest level, insert the lead with pipeline defaults, then
// append the "created" audit event. The audit write is best-effort: its
// failure surfaces as a warning, never as a failed capture.
func (s *Service) CaptureFormLead(ctx context.Context, payload transport.LeadFormPayload) (transport.LeadResponse, error) {
	result := scoring.ScoreInterestLevel(payload.InterestLevel)

	rawPayload, err := json.Marshal(payload)
	if err != nil {
		return transport.LeadResponse{}, apperr.Wrap(apperr.KindInternal, err.Error(), err)
	}

	normalizedPhone := phone.NormalizeE164(payload.Phone)
	now := time.Now().UTC()

	lead, err := s.store.Insert(ctx, repository.InsertLeadParams{
		Source:        domain.SourceLandingForm,
		FullName:      &payload.Name,
		Email:         &payload.Email,
		Phone:         &normalizedPhone,
		City:          &payload.City,
		IntentLabel:   result.Label,
		IntentScore:   result.Score,
		IntentReasons: result.Reasons,
		RawPayload:    rawPayload,
		CreatedTime:   &now,
	})
	if err != nil {
		s.log.DatabaseError("insert lead", err)
		return transport.LeadResponse{}, apperr.Wrap(apperr.KindInternal, err.Error(), err)
	}

	resp := transport.LeadResponse{OK: true, Lead: &lead}

	note := "Lead created from landing form"
	if _, err := s.store.AppendEvent(ctx, repository.AppendEventParams{
		LeadID:    lead.ID,
		EventType: domain.EventCreated,
		Note:      &note,
	}); err != nil {
		s.log.DatabaseError("append created event", err)
		resp.Warning = "lead_events insert failed"
	}

	s.eventBus.Publish(ctx, events.LeadCaptured{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      lead.ID,
		Source:      string(lead.Source),
		FullName:    payload.Name,
		Email:       payload.Email,
		Phone:       normalizedPhone,
		IntentLabel: string(result.Label),
		IntentScore: result.Score,
	})

	return resp, nil
}

// ListLeads returns the most recent leads for the dashboard, newest first.
func (s *Service) ListLeads(ctx context.Context) (transport.ListLeadsResponse, error) {
	items, err := s.store.List(ctx, listLimit)
	if err != nil {
		s.log.DatabaseError("list leads", err)
		return transport.ListLeadsResponse{}, apperr.Wrap(apperr.KindInternal, err.Error(), err)
	}
	return transport.ListLeadsResponse{OK: true, Leads: items}, nil
}

// GetLead returns one lead with its audit trail.
func (s *Service) GetLead(ctx context.Context, id uuid.UUID) (transport.LeadDetailResponse, error) {
	lead, err := s.store.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return transport.LeadDetailResponse{}, apperr.NotFound("lead not found")
		}
		s.log.DatabaseError("get lead", err)
		return transport.LeadDetailResponse{}, apperr.Wrap(apperr.KindInternal, err.Error(), err)
	}

	evts, err := s.store.ListEventsByLead(ctx, id)
	if err != nil {
		s.log.DatabaseError("list lead events", err)
		return transport.LeadDetailResponse{}, apperr.Wrap(apperr.KindInternal, err.Error(), err)
	}

	return transport.LeadDetailResponse{OK: true, Lead: &lead, Events: evts}, nil
}

// DeleteLead removes a lead and its audit trail.
func (s *Service) DeleteLead(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return apperr.NotFound("lead not found")
		}
		s.log.DatabaseError("delete lead", err)
		return apperr.Wrap(apperr.KindInternal, err.Error(), err)
	}
	s.log.Info("lead deleted", "leadId", id.String())
	return nil
}
