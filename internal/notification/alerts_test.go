package notification

import (
	"context"
	"errors"
	"strings"
	"testing"

	"estateleads_backend/internal/events"
	"estateleads_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeSender struct {
	subjects []string
	bodies   []string
	err      error
}

func (f *fakeSender) Send(_ context.Context, subject, htmlContent string) error {
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subject)
	f.bodies = append(f.bodies, htmlContent)
	return nil
}

func capturedEvent(label string, score int) events.LeadCaptured {
	return events.LeadCaptured{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      uuid.New(),
		Source:      "landing_form",
		FullName:    "Asha Rao",
		Email:       "asha@example.com",
		Phone:       "+919876543210",
		IntentLabel: label,
		IntentScore: score,
	}
}

func TestHotLeadAlertSent(t *testing.T) {
	sender := &fakeSender{}
	alerter := &hotLeadAlerter{sender: sender, log: logger.New("test")}

	if err := alerter.Handle(context.Background(), capturedEvent("for_sure", 95)); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(sender.subjects) != 1 {
		t.Fatalf("sent = %d, want 1", len(sender.subjects))
	}
	if !strings.Contains(sender.subjects[0], "Asha Rao") {
		t.Fatalf("subject = %q", sender.subjects[0])
	}
	if !strings.Contains(sender.bodies[0], "asha@example.com") {
		t.Fatalf("body = %q", sender.bodies[0])
	}
}

func TestLowIntentLeadSkipped(t *testing.T) {
	sender := &fakeSender{}
	alerter := &hotLeadAlerter{sender: sender, log: logger.New("test")}

	for _, label := range []string{"unsure", "unknown"} {
		if err := alerter.Handle(context.Background(), capturedEvent(label, 40)); err != nil {
			t.Fatalf("label %s: %v", label, err)
		}
	}
	if len(sender.subjects) != 0 {
		t.Fatalf("sent = %d, want 0", len(sender.subjects))
	}
}

func TestSendFailureReturnsError(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp send: connection refused")}
	alerter := &hotLeadAlerter{sender: sender, log: logger.New("test")}

	if err := alerter.Handle(context.Background(), capturedEvent("for_sure", 85)); err == nil {
		t.Fatal("expected error from failed send")
	}
}
