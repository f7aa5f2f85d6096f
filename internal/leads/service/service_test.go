package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"estateleads_backend/internal/events"
	"estateleads_backend/internal/leads/domain"
	"estateleads_backend/internal/leads/repository"
	"estateleads_backend/internal/leads/transport"
	"estateleads_backend/platform/apperr"
	platformevents "estateleads_backend/platform/events"
	"estateleads_backend/platform/logger"

	"github.com/google/uuid"
)

// fakeStore records calls and returns scripted results.
type fakeStore struct {
	insertParams *repository.InsertLeadParams
	insertErr    error
	eventParams  []repository.AppendEventParams
	eventErr     error
	leads        map[uuid.UUID]domain.Lead
	leadEvents   []domain.LeadEvent
	updateParams *repository.UpdateStageParams
	updateErr    error
	listErr      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{leads: make(map[uuid.UUID]domain.Lead)}
}

func (f *fakeStore) Insert(_ context.Context, params repository.InsertLeadParams) (domain.Lead, error) {
	f.insertParams = &params
	if f.insertErr != nil {
		return domain.Lead{}, f.insertErr
	}
	lead := domain.Lead{
		ID:            uuid.New(),
		Source:        params.Source,
		FullName:      params.FullName,
		Email:         params.Email,
		Phone:         params.Phone,
		City:          params.City,
		IntentLabel:   params.IntentLabel,
		IntentScore:   params.IntentScore,
		IntentReasons: params.IntentReasons,
		Stage:         domain.StageNew,
		Outcome:       domain.OutcomeOpen,
		InsertedAt:    time.Now().UTC(),
	}
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (domain.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return domain.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeStore) List(_ context.Context, limit int) ([]domain.Lead, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Lead, 0, len(f.leads))
	for _, lead := range f.leads {
		out = append(out, lead)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) UpdateStage(_ context.Context, id uuid.UUID, params repository.UpdateStageParams) error {
	f.updateParams = &params
	if f.updateErr != nil {
		return f.updateErr
	}
	lead, ok := f.leads[id]
	if !ok {
		return repository.ErrNotFound
	}
	lead.Stage = params.Stage
	lead.Outcome = params.Outcome
	if params.DealValue != nil {
		lead.DealValue = params.DealValue
	}
	if params.ConvertedAt != nil {
		lead.ConvertedAt = params.ConvertedAt
	}
	f.leads[id] = lead
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.leads[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.leads, id)
	return nil
}

func (f *fakeStore) AppendEvent(_ context.Context, params repository.AppendEventParams) (domain.LeadEvent, error) {
	f.eventParams = append(f.eventParams, params)
	if f.eventErr != nil {
		return domain.LeadEvent{}, f.eventErr
	}
	event := domain.LeadEvent{
		ID:        uuid.New(),
		LeadID:    params.LeadID,
		EventType: params.EventType,
		FromStage: params.FromStage,
		ToStage:   params.ToStage,
		Note:      params.Note,
		Value:     params.Value,
		CreatedAt: time.Now().UTC(),
	}
	f.leadEvents = append(f.leadEvents, event)
	return event, nil
}

func (f *fakeStore) ListEventsByLead(_ context.Context, leadID uuid.UUID) ([]domain.LeadEvent, error) {
	var out []domain.LeadEvent
	for _, event := range f.leadEvents {
		if event.LeadID == leadID {
			out = append(out, event)
		}
	}
	return out, nil
}

// recordingBus captures published events synchronously.
type recordingBus struct {
	published []platformevents.Event
}

func (b *recordingBus) Publish(_ context.Context, event platformevents.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(_ context.Context, event platformevents.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(string, platformevents.Handler) {}

func validPayload() transport.LeadFormPayload {
	return transport.LeadFormPayload{
		Name:          "Asha Rao",
		Phone:         "9876543210",
		Email:         "asha@example.com",
		City:          "Bengaluru",
		State:         "Karnataka",
		Pincode:       "560001",
		Intent:        "buy",
		Bhk:           "3bhk",
		InterestLevel: "extremely_sure",
	}
}

func newTestService(store Store, bus events.Bus) *Service {
	return New(store, bus, logger.New("test"))
}

func TestCaptureFormLeadScoresAndPersists(t *testing.T) {
	store := newFakeStore()
	bus := &recordingBus{}
	svc := newTestService(store, bus)

	resp, err := svc.CaptureFormLead(context.Background(), validPayload())
	if err != nil {
		t.Fatalf("CaptureFormLead: %v", err)
	}
	if !resp.OK {
		t.Fatal("expected ok response")
	}
	if resp.Warning != "" {
		t.Fatalf("unexpected warning %q", resp.Warning)
	}
	if resp.Lead.IntentLabel != domain.IntentForSure {
		t.Fatalf("intent label = %q, want for_sure", resp.Lead.IntentLabel)
	}
	if resp.Lead.IntentScore != 95 {
		t.Fatalf("intent score = %d, want 95", resp.Lead.IntentScore)
	}
	if resp.Lead.Stage != domain.StageNew || resp.Lead.Outcome != domain.OutcomeOpen {
		t.Fatalf("pipeline defaults = %s/%s, want new/open", resp.Lead.Stage, resp.Lead.Outcome)
	}

	if store.insertParams == nil {
		t.Fatal("expected insert call")
	}
	if got := *store.insertParams.Phone; got != "+919876543210" {
		t.Fatalf("normalized phone = %q", got)
	}
	if len(store.insertParams.RawPayload) == 0 {
		t.Fatal("expected raw payload to be retained")
	}

	if len(store.eventParams) != 1 {
		t.Fatalf("event writes = %d, want 1", len(store.eventParams))
	}
	if store.eventParams[0].EventType != domain.EventCreated {
		t.Fatalf("event type = %q, want created", store.eventParams[0].EventType)
	}

	if len(bus.published) != 1 {
		t.Fatalf("published events = %d, want 1", len(bus.published))
	}
	captured, ok := bus.published[0].(events.LeadCaptured)
	if !ok {
		t.Fatalf("published event type %T", bus.published[0])
	}
	if captured.IntentLabel != "for_sure" || captured.IntentScore != 95 {
		t.Fatalf("captured event = %s/%d", captured.IntentLabel, captured.IntentScore)
	}
}

func TestCaptureFormLeadEventFailureBecomesWarning(t *testing.T) {
	store := newFakeStore()
	store.eventErr = errors.New("lead_events write refused")
	svc := newTestService(store, &recordingBus{})

	resp, err := svc.CaptureFormLead(context.Background(), validPayload())
	if err != nil {
		t.Fatalf("capture must not fail when the audit write fails: %v", err)
	}
	if resp.Warning != "lead_events insert failed" {
		t.Fatalf("warning = %q", resp.Warning)
	}
	if resp.Lead == nil || !resp.OK {
		t.Fatal("lead must still be returned")
	}
}

func TestCaptureFormLeadInsertFailure(t *testing.T) {
	store := newFakeStore()
	store.insertErr = errors.New("connection reset")
	svc := newTestService(store, &recordingBus{})

	_, err := svc.CaptureFormLead(context.Background(), validPayload())
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if err.Error() != "connection reset" {
		t.Fatalf("error message = %q, want store message passed through", err.Error())
	}
}

func TestAdvanceStageWonStampsConvertedAt(t *testing.T) {
	store := newFakeStore()
	bus := &recordingBus{}
	svc := newTestService(store, bus)

	created, err := svc.CaptureFormLead(context.Background(), validPayload())
	if err != nil {
		t.Fatalf("CaptureFormLead: %v", err)
	}
	bus.published = nil

	value := 7500000.0
	resp, err := svc.AdvanceStage(context.Background(), created.Lead.ID, transport.UpdateStageRequest{
		ToStage:   "negotiation",
		Outcome:   "won",
		Note:      "Token received",
		DealValue: &value,
	})
	if err != nil {
		t.Fatalf("AdvanceStage: %v", err)
	}
	if resp.Lead.Stage != domain.StageNegotiation || resp.Lead.Outcome != domain.OutcomeWon {
		t.Fatalf("pipeline = %s/%s", resp.Lead.Stage, resp.Lead.Outcome)
	}
	if resp.Lead.ConvertedAt == nil {
		t.Fatal("converted_at must be stamped on won")
	}
	if resp.Lead.DealValue == nil || *resp.Lead.DealValue != value {
		t.Fatalf("deal_value = %v", resp.Lead.DealValue)
	}

	last := store.eventParams[len(store.eventParams)-1]
	if last.EventType != domain.EventWon {
		t.Fatalf("event type = %q, want won", last.EventType)
	}
	if last.FromStage == nil || *last.FromStage != "new" {
		t.Fatalf("from_stage = %v", last.FromStage)
	}
	if last.Note == nil || *last.Note != "Token received" {
		t.Fatalf("note = %v", last.Note)
	}

	if len(bus.published) != 1 {
		t.Fatalf("published events = %d, want 1", len(bus.published))
	}
	if _, ok := bus.published[0].(events.LeadStageChanged); !ok {
		t.Fatalf("published event type %T", bus.published[0])
	}
}

func TestAdvanceStageLostAppendsLostEvent(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &recordingBus{})

	created, err := svc.CaptureFormLead(context.Background(), validPayload())
	if err != nil {
		t.Fatalf("CaptureFormLead: %v", err)
	}

	resp, err := svc.AdvanceStage(context.Background(), created.Lead.ID, transport.UpdateStageRequest{
		ToStage: "contacted",
		Outcome: "lost",
	})
	if err != nil {
		t.Fatalf("AdvanceStage: %v", err)
	}
	if resp.Lead.ConvertedAt != nil {
		t.Fatal("converted_at must stay unset on lost")
	}
	last := store.eventParams[len(store.eventParams)-1]
	if last.EventType != domain.EventLost {
		t.Fatalf("event type = %q, want lost", last.EventType)
	}
}

func TestAdvanceStageUnknownLead(t *testing.T) {
	svc := newTestService(newFakeStore(), &recordingBus{})

	_, err := svc.AdvanceStage(context.Background(), uuid.New(), transport.UpdateStageRequest{
		ToStage: "contacted",
		Outcome: "open",
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetLeadIncludesAuditTrail(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &recordingBus{})

	created, err := svc.CaptureFormLead(context.Background(), validPayload())
	if err != nil {
		t.Fatalf("CaptureFormLead: %v", err)
	}

	detail, err := svc.GetLead(context.Background(), created.Lead.ID)
	if err != nil {
		t.Fatalf("GetLead: %v", err)
	}
	if len(detail.Events) != 1 || detail.Events[0].EventType != domain.EventCreated {
		t.Fatalf("events = %+v", detail.Events)
	}
}
