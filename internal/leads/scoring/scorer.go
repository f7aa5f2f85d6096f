// Package scoring computes heuristic intent classifications for leads.
// Both strategies are pure, deterministic functions: Strategy A maps an
// explicit interest level from the landing form, Strategy B scans free text
// assembled from a webhook-delivered lead.
package scoring

import (
	"strings"

	"estateleads_backend/internal/leads/domain"
)

// scoreVersion tracks the scoring heuristics for debugging and analysis.
// Bump this when changing keyword sets or weights.
const scoreVersion = "v1"

// Result holds a computed intent classification.
type Result struct {
	Label   domain.IntentLabel
	Score   int
	Reasons []string
}

// Version returns the current scoring model version.
func Version() string { return scoreVersion }

// Interest levels accepted on the landing form.
const (
	InterestExtremelySure    = "extremely_sure"
	InterestHighlyInterested = "highly_interested"
	InterestInterested       = "interested"
)

// ScoreInterestLevel maps an explicit interest level to a classification.
// The level must already be validated; any unrecognized value falls through
// to the "interested" row so the function stays total.
func ScoreInterestLevel(level string) Result {
	switch level {
	case InterestExtremelySure:
		return Result{Label: domain.IntentForSure, Score: 95, Reasons: []string{"Marked extremely sure"}}
	case InterestHighlyInterested:
		return Result{Label: domain.IntentForSure, Score: 85, Reasons: []string{"Marked highly interested"}}
	default:
		return Result{Label: domain.IntentUnsure, Score: 60, Reasons: []string{"Marked interested"}}
	}
}

var (
	sureKeywords   = []string{"buy", "purchase", "ready", "immediately", "site visit", "token", "advance"}
	unsureKeywords = []string{"explore", "checking", "just looking", "maybe", "not sure", "planning"}
)

// ClassifyText scores a lower-cased free-text blob built from a lead's name,
// email, phone, and raw field data. The score starts at 10, accumulates
// keyword bonuses, and is clamped to [0,100]. When both keyword sets match,
// the sure check wins: this is a deliberate precedence, not a blend.
func ClassifyText(text string) Result {
	t := strings.ToLower(text)

	sure := containsAny(t, sureKeywords)
	unsure := containsAny(t, unsureKeywords)

	score := 10
	if strings.Contains(t, "budget") || strings.Contains(t, "lakh") || strings.Contains(t, "crore") {
		score += 15
	}
	if strings.Contains(t, "bhk") {
		score += 10
	}
	if strings.Contains(t, "rent") {
		score += 8
	}
	if strings.Contains(t, "plot") || strings.Contains(t, "land") {
		score += 8
	}
	if sure {
		score += 35
	}
	if unsure {
		score -= 10
	}
	score = clamp(score, 0, 100)

	switch {
	case sure && score >= 55:
		return Result{Label: domain.IntentForSure, Score: score, Reasons: []string{"high_intent_terms"}}
	case unsure && score <= 60:
		return Result{Label: domain.IntentUnsure, Score: score, Reasons: []string{"low_commitment_terms"}}
	default:
		return Result{Label: domain.IntentUnknown, Score: score, Reasons: []string{}}
	}
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
