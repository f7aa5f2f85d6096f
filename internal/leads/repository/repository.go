// Package repository persists leads and their audit events in Postgres.
package repository

import (
	"context"
	"errors"
	"time"

	"estateleads_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `id, leadgen_id, source, full_name, email, phone, city,
		page_id, form_id, ad_id,
		intent_label, intent_score, intent_reasons,
		stage, outcome, deal_value, converted_at,
		raw_payload, created_time, inserted_at`

// InsertLeadParams carries everything needed to persist a new form lead.
type InsertLeadParams struct {
	Source        domain.Source
	FullName      *string
	Email         *string
	Phone         *string
	City          *string
	IntentLabel   domain.IntentLabel
	IntentScore   int
	IntentReasons []string
	RawPayload    []byte
	CreatedTime   *time.Time
}

// Insert stores a new lead with pipeline defaults stage=new, outcome=open.
func (r *Repository) Insert(ctx context.Context, params InsertLeadParams) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			source, full_name, email, phone, city,
			intent_label, intent_score, intent_reasons,
			raw_payload, created_time, stage, outcome
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'new', 'open')
		RETURNING `+leadColumns,
		params.Source, params.FullName, params.Email, params.Phone, params.City,
		params.IntentLabel, params.IntentScore, params.IntentReasons,
		params.RawPayload, params.CreatedTime,
	)
	return scanLead(row)
}

// UpsertLeadParams carries a webhook-delivered lead keyed by its leadgen id.
type UpsertLeadParams struct {
	LeadgenID     string
	Source        domain.Source
	FullName      *string
	Email         *string
	Phone         *string
	PageID        *string
	FormID        *string
	AdID          *string
	IntentLabel   domain.IntentLabel
	IntentScore   int
	IntentReasons []string
	RawPayload    []byte
	CreatedTime   *time.Time
}

// UpsertByLeadgenID inserts a webhook lead or, when the leadgen id already
// exists, overwrites the extracted and classified fields of the existing row.
// Pipeline state (stage, outcome, deal_value, converted_at) is never touched
// by redelivery.
func (r *Repository) UpsertByLeadgenID(ctx context.Context, params UpsertLeadParams) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			leadgen_id, source, full_name, email, phone,
			page_id, form_id, ad_id,
			intent_label, intent_score, intent_reasons,
			raw_payload, created_time, stage, outcome
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 'new', 'open')
		ON CONFLICT (leadgen_id) DO UPDATE SET
			source = EXCLUDED.source,
			full_name = EXCLUDED.full_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			page_id = EXCLUDED.page_id,
			form_id = EXCLUDED.form_id,
			ad_id = EXCLUDED.ad_id,
			intent_label = EXCLUDED.intent_label,
			intent_score = EXCLUDED.intent_score,
			intent_reasons = EXCLUDED.intent_reasons,
			raw_payload = EXCLUDED.raw_payload,
			created_time = EXCLUDED.created_time
		RETURNING `+leadColumns,
		params.LeadgenID, params.Source, params.FullName, params.Email, params.Phone,
		params.PageID, params.FormID, params.AdID,
		params.IntentLabel, params.IntentScore, params.IntentReasons,
		params.RawPayload, params.CreatedTime,
	)
	return scanLead(row)
}

// GetByID fetches one lead. Returns ErrNotFound when the id is unknown.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE id = $1
	`, id)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

// List returns the most recently inserted leads, newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		ORDER BY inserted_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, lead)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

// UpdateStageParams carries a pipeline transition.
type UpdateStageParams struct {
	Stage       domain.Stage
	Outcome     domain.Outcome
	DealValue   *float64
	ConvertedAt *time.Time
}

// UpdateStage moves a lead through the pipeline. DealValue and ConvertedAt
// are only written when set.
func (r *Repository) UpdateStage(ctx context.Context, id uuid.UUID, params UpdateStageParams) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET stage = $2,
			outcome = $3,
			deal_value = COALESCE($4, deal_value),
			converted_at = COALESCE($5, converted_at)
		WHERE id = $1
	`, id, params.Stage, params.Outcome, params.DealValue, params.ConvertedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a lead. Audit events are removed with it through the
// foreign key cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// leadRowScanner is satisfied by pgx.Rows and pgx.Row so scanLead can be
// shared between single-row and multi-row queries.
type leadRowScanner interface {
	Scan(dest ...any) error
}

// scanLead populates a Lead from a standard SELECT row. Column order must
// match leadColumns.
func scanLead(s leadRowScanner) (domain.Lead, error) {
	var lead domain.Lead
	err := s.Scan(
		&lead.ID,
		&lead.LeadgenID,
		&lead.Source,
		&lead.FullName,
		&lead.Email,
		&lead.Phone,
		&lead.City,
		&lead.PageID,
		&lead.FormID,
		&lead.AdID,
		&lead.IntentLabel,
		&lead.IntentScore,
		&lead.IntentReasons,
		&lead.Stage,
		&lead.Outcome,
		&lead.DealValue,
		&lead.ConvertedAt,
		&lead.RawPayload,
		&lead.CreatedTime,
		&lead.InsertedAt,
	)
	if err != nil {
		return domain.Lead{}, err
	}
	return lead, nil
}
