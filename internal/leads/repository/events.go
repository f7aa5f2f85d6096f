package repository

import (
	"context"

	"estateleads_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// AppendEventParams carries one audit event. Events are append-only and
// never updated or deleted.
type AppendEventParams struct {
	LeadID    uuid.UUID
	EventType string
	FromStage *string
	ToStage   *string
	Note      *string
	Value     *float64
}

// AppendEvent records an audit event for a lead.
func (r *Repository) AppendEvent(ctx context.Context, params AppendEventParams) (domain.LeadEvent, error) {
	var event domain.LeadEvent
	err := r.pool.QueryRow(ctx, `
		INSERT INTO lead_events (lead_id, event_type, from_stage, to_stage, note, value)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, lead_id, event_type, from_stage, to_stage, note, value, created_at
	`, params.LeadID, params.EventType, params.FromStage, params.ToStage, params.Note, params.Value).Scan(
		&event.ID,
		&event.LeadID,
		&event.EventType,
		&event.FromStage,
		&event.ToStage,
		&event.Note,
		&event.Value,
		&event.CreatedAt,
	)
	if err != nil {
		return domain.LeadEvent{}, err
	}
	return event, nil
}

// ListEventsByLead returns a lead's audit trail ordered by creation time.
func (r *Repository) ListEventsByLead(ctx context.Context, leadID uuid.UUID) ([]domain.LeadEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, event_type, from_stage, to_stage, note, value, created_at
		FROM lead_events
		WHERE lead_id = $1
		ORDER BY created_at ASC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.LeadEvent, 0)
	for rows.Next() {
		var event domain.LeadEvent
		if err := rows.Scan(
			&event.ID,
			&event.LeadID,
			&event.EventType,
			&event.FromStage,
			&event.ToStage,
			&event.Note,
			&event.Value,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, event)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}
