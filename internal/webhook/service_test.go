package webhook

import (
	"context"
	"errors"
	"sync"
	"testing"

	"estateleads_backend/internal/leads/domain"
	"estateleads_backend/internal/leads/repository"
	"estateleads_backend/platform/events"
	"estateleads_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeFetcher struct {
	leads map[string]GraphLead
	errs  map[string]error
}

func (f *fakeFetcher) FetchLead(_ context.Context, leadgenID string) (GraphLead, []byte, error) {
	if err, ok := f.errs[leadgenID]; ok {
		return GraphLead{}, nil, err
	}
	lead, ok := f.leads[leadgenID]
	if !ok {
		return GraphLead{}, nil, errors.New("unknown lead " + leadgenID)
	}
	return lead, []byte(`{"id":"` + leadgenID + `"}`), nil
}

type fakeLeadStore struct {
	mu      sync.Mutex
	upserts []repository.UpsertLeadParams
	err     error
}

func (f *fakeLeadStore) UpsertByLeadgenID(_ context.Context, params repository.UpsertLeadParams) (domain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return domain.Lead{}, f.err
	}
	f.upserts = append(f.upserts, params)
	return domain.Lead{
		ID:          uuid.New(),
		LeadgenID:   &params.LeadgenID,
		Source:      params.Source,
		IntentLabel: params.IntentLabel,
		IntentScore: params.IntentScore,
	}, nil
}

func graphLead(id string, answer string) GraphLead {
	return GraphLead{
		ID:          id,
		CreatedTime: "2026-08-14T09:30:00+0000",
		AdID:        "ad-1",
		FormID:      "form-1",
		PageID:      "page-1",
		FieldData: []FieldData{
			{Name: "full_name", Values: []string{"Asha Rao"}},
			{Name: "email", Values: []string{"asha@example.com"}},
			{Name: "phone_number", Values: []string{"+919876543210"}},
			{Name: "looking_for", Values: []string{answer}},
		},
	}
}

func envelopeFor(ids ...string) Envelope {
	var changes []Change
	for _, id := range ids {
		changes = append(changes, Change{Field: "leadgen", Value: ChangeValue{LeadgenID: id}})
	}
	return Envelope{Object: "page", Entry: []Entry{{ID: "page-1", Changes: changes}}}
}

func newTestWebhookService(fetcher LeadFetcher, store LeadStore) *Service {
	log := logger.New("test")
	return NewService(fetcher, store, events.NewInMemoryBus(log), log)
}

func TestProcessClassifiesAndUpserts(t *testing.T) {
	fetcher := &fakeFetcher{leads: map[string]GraphLead{
		"lg-1": graphLead("lg-1", "ready to buy, 3bhk, budget 80 lakh"),
	}}
	store := &fakeLeadStore{}
	svc := newTestWebhookService(fetcher, store)

	result := svc.Process(context.Background(), envelopeFor("lg-1"))
	if result.Saved != 1 || result.Failed != 0 {
		t.Fatalf("result = %+v", result)
	}

	if len(store.upserts) != 1 {
		t.Fatalf("upserts = %d", len(store.upserts))
	}
	params := store.upserts[0]
	if params.LeadgenID != "lg-1" || params.Source != domain.SourceMetaLeadAds {
		t.Fatalf("identity = %s/%s", params.LeadgenID, params.Source)
	}
	if params.IntentLabel != domain.IntentForSure || params.IntentScore != 70 {
		t.Fatalf("intent = %s/%d, want for_sure/70", params.IntentLabel, params.IntentScore)
	}
	if params.FullName == nil || *params.FullName != "Asha Rao" {
		t.Fatalf("full_name = %v", params.FullName)
	}
	if params.Phone == nil || *params.Phone != "+919876543210" {
		t.Fatalf("phone = %v", params.Phone)
	}
	if params.PageID == nil || *params.PageID != "page-1" {
		t.Fatalf("page_id = %v", params.PageID)
	}
	if params.CreatedTime == nil {
		t.Fatal("created_time must be parsed")
	}
	if len(params.RawPayload) == 0 {
		t.Fatal("raw graph response must be retained")
	}
}

func TestProcessFieldFallbackNames(t *testing.T) {
	lead := GraphLead{
		ID: "lg-2",
		FieldData: []FieldData{
			{Name: "name", Values: []string{"Ravi"}},
			{Name: "phone", Values: []string{"+919812345678"}},
		},
	}
	fetcher := &fakeFetcher{leads: map[string]GraphLead{"lg-2": lead}}
	store := &fakeLeadStore{}
	svc := newTestWebhookService(fetcher, store)

	result := svc.Process(context.Background(), envelopeFor("lg-2"))
	if result.Saved != 1 {
		t.Fatalf("result = %+v", result)
	}
	params := store.upserts[0]
	if params.FullName == nil || *params.FullName != "Ravi" {
		t.Fatalf("full_name = %v", params.FullName)
	}
	if params.Phone == nil || *params.Phone != "+919812345678" {
		t.Fatalf("phone = %v", params.Phone)
	}
	if params.Email != nil {
		t.Fatalf("email = %v, want nil", params.Email)
	}
}

func TestProcessIsolatesItemFailures(t *testing.T) {
	fetcher := &fakeFetcher{
		leads: map[string]GraphLead{
			"ok-1": graphLead("ok-1", "ready to buy immediately"),
			"ok-2": graphLead("ok-2", "just looking"),
		},
		errs: map[string]error{"bad-1": errors.New("graph returned status 500")},
	}
	store := &fakeLeadStore{}
	svc := newTestWebhookService(fetcher, store)

	result := svc.Process(context.Background(), envelopeFor("ok-1", "bad-1", "ok-2"))
	if result.Saved != 2 || result.Failed != 1 {
		t.Fatalf("result = %+v", result)
	}
	if len(store.upserts) != 2 {
		t.Fatalf("upserts = %d", len(store.upserts))
	}
}

func TestProcessRedeliveryKeysOnLeadgenID(t *testing.T) {
	fetcher := &fakeFetcher{leads: map[string]GraphLead{
		"lg-1": graphLead("lg-1", "planning to explore options"),
	}}
	store := &fakeLeadStore{}
	svc := newTestWebhookService(fetcher, store)

	for i := 0; i < 2; i++ {
		result := svc.Process(context.Background(), envelopeFor("lg-1"))
		if result.Saved != 1 {
			t.Fatalf("delivery %d: result = %+v", i, result)
		}
	}

	if len(store.upserts) != 2 {
		t.Fatalf("upserts = %d", len(store.upserts))
	}
	for _, params := range store.upserts {
		if params.LeadgenID != "lg-1" {
			t.Fatalf("leadgen_id = %q, redelivery must reuse the dedupe key", params.LeadgenID)
		}
	}
}

func TestProcessEmptyDelivery(t *testing.T) {
	store := &fakeLeadStore{}
	svc := newTestWebhookService(&fakeFetcher{}, store)

	result := svc.Process(context.Background(), Envelope{Object: "page"})
	if result.Saved != 0 || result.Failed != 0 {
		t.Fatalf("result = %+v", result)
	}
	if len(store.upserts) != 0 {
		t.Fatal("nothing must be written for an empty delivery")
	}
}

func TestProcessSkipsChangesWithoutLeadgenID(t *testing.T) {
	store := &fakeLeadStore{}
	svc := newTestWebhookService(&fakeFetcher{}, store)

	envelope := Envelope{Entry: []Entry{{Changes: []Change{{Field: "feed"}}}}}
	result := svc.Process(context.Background(), envelope)
	if result.Saved != 0 || result.Failed != 0 {
		t.Fatalf("result = %+v", result)
	}
}
