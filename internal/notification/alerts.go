package notification

import (
	"context"
	"fmt"
	"html"

	"estateleads_backend/internal/events"
	"estateleads_backend/internal/leads/domain"
	"estateleads_backend/platform/logger"
)

// hotLeadAlerter emails the sales desk when a high-intent lead arrives.
type hotLeadAlerter struct {
	sender Sender
	log    *logger.Logger
}

// Handle processes a LeadCaptured event. Only for_sure leads alert; everyone
// else just lands on the dashboard.
func (a *hotLeadAlerter) Handle(ctx context.Context, event events.Event) error {
	captured, ok := event.(events.LeadCaptured)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	if captured.IntentLabel != string(domain.IntentForSure) {
		return nil
	}

	subject := fmt.Sprintf("Hot lead: %s (score %d)", captured.FullName, captured.IntentScore)
	body := fmt.Sprintf(
		`<h2>New high-intent lead</h2>
<p><strong>Name:</strong> %s<br>
<strong>Email:</strong> %s<br>
<strong>Phone:</strong> %s<br>
<strong>Source:</strong> %s<br>
<strong>Score:</strong> %d (%s)</p>
<p>Lead ID: %s</p>`,
		html.EscapeString(captured.FullName),
		html.EscapeString(captured.Email),
		html.EscapeString(captured.Phone),
		html.EscapeString(captured.Source),
		captured.IntentScore,
		html.EscapeString(captured.IntentLabel),
		captured.LeadID,
	)

	if err := a.sender.Send(ctx, subject, body); err != nil {
		a.log.Error("hot lead alert failed",
			"lead_id", captured.LeadID.String(),
			"error", err.Error(),
		)
		return err
	}
	return nil
}
