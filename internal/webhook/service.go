package webhook

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"estateleads_backend/internal/events"
	"estateleads_backend/internal/leads/domain"
	"estateleads_backend/internal/leads/repository"
	"estateleads_backend/internal/leads/scoring"
	"estateleads_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

// fetchConcurrency bounds parallel Graph API fetches per delivery.
const fetchConcurrency = 4

// LeadStore is the persistence surface the webhook writes through.
// Satisfied by the leads repository; tests substitute a fake.
type LeadStore interface {
	UpsertByLeadgenID(ctx context.Context, params repository.UpsertLeadParams) (domain.Lead, error)
}

// Result summarizes one processed delivery.
type Result struct {
	Saved  int `json:"saved"`
	Failed int `json:"failed"`
}

// Service processes Meta Lead Ads webhook deliveries.
type Service struct {
	fetcher  LeadFetcher
	store    LeadStore
	eventBus events.Bus
	log      *logger.Logger
}

// NewService creates a new webhook service.
func NewService(fetcher LeadFetcher, store LeadStore, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{fetcher: fetcher, store: store, eventBus: eventBus, log: log}
}

// Process handles every leadgen reference in a delivery: fetch the full lead
// from the Graph API, classify its free text, and upsert by leadgen id.
// Item failures are isolated; one bad lead never drops its batch peers.
func (s *Service) Process(ctx context.Context, envelope Envelope) Result {
	ids := envelope.LeadgenIDs()
	if len(ids) == 0 {
		return Result{}
	}

	var (
		mu     sync.Mutex
		result Result
	)

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(fetchConcurrency)
	for _, leadgenID := range ids {
		group.Go(func() error {
			err := s.processOne(ctx, leadgenID)
			mu.Lock()
			if err != nil {
				result.Failed++
			} else {
				result.Saved++
			}
			mu.Unlock()
			if err != nil {
				s.log.Error("webhook lead failed",
					"leadgen_id", leadgenID,
					"error", err.Error(),
				)
			}
			return nil
		})
	}
	_ = group.Wait()

	s.log.WebhookEvent(string(domain.SourceMetaLeadAds), result.Saved, result.Failed)
	return result
}

func (s *Service) processOne(ctx context.Context, leadgenID string) error {
	lead, rawBody, err := s.fetcher.FetchLead(ctx, leadgenID)
	if err != nil {
		return err
	}

	fullName := lead.Field("full_name", "name")
	email := lead.Field("email")
	phone := lead.Field("phone_number", "phone")

	fieldJSON, err := json.Marshal(lead.FieldData)
	if err != nil {
		return err
	}
	blob := strings.Join([]string{fullName, email, phone, string(fieldJSON)}, " ")
	classified := scoring.ClassifyText(blob)

	params := repository.UpsertLeadParams{
		LeadgenID:     leadgenID,
		Source:        domain.SourceMetaLeadAds,
		IntentLabel:   classified.Label,
		IntentScore:   classified.Score,
		IntentReasons: classified.Reasons,
		RawPayload:    rawBody,
		CreatedTime:   lead.CreatedAt(),
	}
	if fullName != "" {
		params.FullName = &fullName
	}
	if email != "" {
		params.Email = &email
	}
	if phone != "" {
		params.Phone = &phone
	}
	if lead.PageID != "" {
		params.PageID = &lead.PageID
	}
	if lead.FormID != "" {
		params.FormID = &lead.FormID
	}
	if lead.AdID != "" {
		params.AdID = &lead.AdID
	}

	saved, err := s.store.UpsertByLeadgenID(ctx, params)
	if err != nil {
		return err
	}

	s.eventBus.Publish(ctx, events.LeadCaptured{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      saved.ID,
		Source:      string(domain.SourceMetaLeadAds),
		FullName:    fullName,
		Email:       email,
		Phone:       phone,
		IntentLabel: string(classified.Label),
		IntentScore: classified.Score,
	})
	return nil
}
