// Package transport defines request and response DTOs for the leads module.
package transport

import (
	"strings"

	"estateleads_backend/internal/leads/domain"
	"estateleads_backend/platform/apperr"
	appvalidator "estateleads_backend/platform/validator"
)

// Enum values accepted on the landing form.
type Intent string

const (
	IntentBuy  Intent = "buy"
	IntentRent Intent = "rent"
)

type Bhk string

const (
	BhkStudio Bhk = "studio"
	Bhk1      Bhk = "1bhk"
	Bhk2      Bhk = "2bhk"
	Bhk3      Bhk = "3bhk"
	Bhk4      Bhk = "4bhk"
	Bhk4Plus  Bhk = "4+bhk"
	BhkOther  Bhk = "other"
)

// LeadFormPayload is the landing-form submission body. Validation is
// fail-fast: the first offending field wins, in the order Validate checks
// them.
type LeadFormPayload struct {
	Name          string `json:"name" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	Email         string `json:"email" validate:"required"`
	City          string `json:"city" validate:"required"`
	State         string `json:"state" validate:"required"`
	Pincode       string `json:"pincode" validate:"required"`
	Intent        string `json:"intent" validate:"required,oneof=buy rent"`
	Bhk           string `json:"bhk" validate:"required,oneof=studio 1bhk 2bhk 3bhk 4bhk 4+bhk other"`
	InterestLevel string `json:"interest_level" validate:"required,oneof=extremely_sure highly_interested interested"`
}

// Normalize trims whitespace from every field and lower-cases the email.
// Must run before validation so blank-but-whitespace fields are rejected
// as missing.
func (p *LeadFormPayload) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.City = strings.TrimSpace(p.City)
	p.State = strings.TrimSpace(p.State)
	p.Pincode = strings.TrimSpace(p.Pincode)
	p.Intent = strings.TrimSpace(p.Intent)
	p.Bhk = strings.TrimSpace(p.Bhk)
	p.InterestLevel = strings.TrimSpace(p.InterestLevel)
}

// Validation passes for the form payload. Every contact field must be
// present before the email shape is checked; the enum fields come last.
var (
	contactFields = []string{"Name", "Phone", "Email", "City", "State", "Pincode"}
	choiceFields  = []string{"Intent", "Bhk", "InterestLevel"}
)

// Validate checks the payload fail-fast: contact fields present, then the
// email shape, then the enum fields. A missing pincode is reported before a
// malformed email. Normalize must run first.
func (p *LeadFormPayload) Validate(val *appvalidator.Validator) error {
	if err := val.StructPartial(p, contactFields...); err != nil {
		return ValidationError(err)
	}
	if err := val.Var(p.Email, "intake_email"); err != nil {
		return apperr.Validation("Invalid email")
	}
	if err := val.StructPartial(p, choiceFields...); err != nil {
		return ValidationError(err)
	}
	return nil
}

// ValidationError translates the first validator field error into the
// message shape the form contract promises: "<field> is required" or
// "Invalid <field>".
func ValidationError(err error) error {
	fieldErr := appvalidator.FirstFieldError(err)
	if fieldErr == nil {
		return apperr.BadRequest("Bad request")
	}

	switch fieldErr.Tag() {
	case "required":
		return apperr.Validation(fieldErr.Field() + " is required")
	default:
		return apperr.Validation("Invalid " + fieldErr.Field())
	}
}

// LeadResponse wraps a captured lead. Warning is set when the audit event
// write failed after a successful capture.
type LeadResponse struct {
	OK      bool         `json:"ok"`
	Lead    *domain.Lead `json:"lead"`
	Warning string       `json:"warning,omitempty"`
}

// ListLeadsResponse wraps the dashboard list view.
type ListLeadsResponse struct {
	OK    bool          `json:"ok"`
	Leads []domain.Lead `json:"leads"`
}

// LeadDetailResponse wraps one lead together with its audit trail.
type LeadDetailResponse struct {
	OK     bool               `json:"ok"`
	Lead   *domain.Lead       `json:"lead"`
	Events []domain.LeadEvent `json:"events"`
}

// UpdateStageRequest advances a lead through the pipeline.
type UpdateStageRequest struct {
	ToStage   string   `json:"to_stage" validate:"required,oneof=new contacted site_visit negotiation"`
	Outcome   string   `json:"outcome" validate:"required,oneof=open won lost"`
	Note      string   `json:"note,omitempty" validate:"max=2000"`
	DealValue *float64 `json:"deal_value,omitempty" validate:"omitempty,gte=0"`
}
