package service

import (
	"context"
	"time"

	"estateleads_backend/internal/events"
	"estateleads_backend/internal/leads/domain"
	"estateleads_backend/internal/leads/repository"
	"estateleads_backend/internal/leads/transport"
	"estateleads_backend/platform/apperr"

	"github.com/google/uuid"
)

// AdvanceStage moves a lead through the pipeline and records the transition
// in the audit trail. converted_at is stamped exactly once, when the outcome
// first flips to won.
func (s *Service) AdvanceStage(ctx context.Context, id uuid.UUID, req transport.UpdateStageRequest) (transport.LeadDetailResponse, error) {
	lead, err := s.store.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return transport.LeadDetailResponse{}, apperr.NotFound("lead not found")
		}
		s.log.DatabaseError("get lead", err)
		return transport.LeadDetailResponse{}, apperr.Wrap(apperr.KindInternal, err.Error(), err)
	}

	toStage := domain.Stage(req.ToStage)
	outcome := domain.Outcome(req.Outcome)

	var convertedAt *time.Time
	if outcome == domain.OutcomeWon && lead.ConvertedAt == nil {
		now := time.Now().UTC()
		convertedAt = &now
	}

	if err := s.store.UpdateStage(ctx, id, repository.UpdateStageParams{
		Stage:       toStage,
		Outcome:     outcome,
		DealValue:   req.DealValue,
		ConvertedAt: convertedAt,
	}); err != nil {
		if err == repository.ErrNotFound {
			return transport.LeadDetailResponse{}, apperr.NotFound("lead not found")
		}
		s.log.DatabaseError("update lead stage", err)
		return transport.LeadDetailResponse{}, apperr.Wrap(apperr.KindInternal, err.Error(), err)
	}

	eventType := domain.EventStageChanged
	switch outcome {
	case domain.OutcomeWon:
		eventType = domain.EventWon
	case domain.OutcomeLost:
		eventType = domain.EventLost
	}

	fromStage := string(lead.Stage)
	toStageStr := string(toStage)
	var note *string
	if req.Note != "" {
		note = &req.Note
	}
	if _, err := s.store.AppendEvent(ctx, repository.AppendEventParams{
		LeadID:    id,
		EventType: eventType,
		FromStage: &fromStage,
		ToStage:   &toStageStr,
		Note:      note,
		Value:     req.DealValue,
	}); err != nil {
		s.log.DatabaseError("append stage event", err)
		return transport.LeadDetailResponse{}, apperr.Wrap(apperr.KindInternal, err.Error(), err)
	}

	s.eventBus.Publish(ctx, events.LeadStageChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    id,
		FromStage: fromStage,
		ToStage:   toStageStr,
		Outcome:   string(outcome),
	})

	return s.GetLead(ctx, id)
}
