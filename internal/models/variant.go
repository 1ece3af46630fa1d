package models

import (
	"time"

	"github.com/google/uuid"
)

// Variant statuses
const (
	VariantStatusDraft    = "draft"
	VariantStatusInReview = "in_review"
	VariantStatusApproved = "approved"
	VariantStatusRejected = "rejected"
)

// Generation option enumerations
var (
	Channels  = []string{"email", "web", "sms"}
	Audiences = []string{"hcp", "patient", "internal"}
	Tones     = []string{"professional", "friendly", "formal", "conversational"}
)

func IsValidChannel(s string) bool  { return contains(Channels, s) }
func IsValidAudience(s string) bool { return contains(Audiences, s) }
func IsValidTone(s string) bool     { return contains(Tones, s) }

func IsValidStatus(s string) bool {
	switch s {
	case VariantStatusDraft, VariantStatusInReview, VariantStatusApproved, VariantStatusRejected:
		return true
	}
	return false
}

// Valid status transitions: from -> []to. Approved and rejected are terminal.
var ValidVariantTransitions = map[string][]string{
	VariantStatusDraft:    {VariantStatusInReview, VariantStatusApproved, VariantStatusRejected},
	VariantStatusInReview: {VariantStatusApproved, VariantStatusRejected},
	VariantStatusApproved: {},
	VariantStatusRejected: {},
}

func IsValidTransition(from, to string) bool {
	allowed, ok := ValidVariantTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses reachable from the given one.
func AllowedTransitions(from string) []string {
	return ValidVariantTransitions[from]
}

// ContentVariant is one channel/audience/tone rewrite of an approved-content
// row. Rows are created only by the generation gateway, always as draft; the
// status moves only through the workflow service.
type ContentVariant struct {
	ID                uuid.UUID `json:"id"`
	ApprovedContentID uuid.UUID `json:"approved_content_id"`
	Channel           string    `json:"channel"`
	Audience          string    `json:"audience"`
	Tone              string    `json:"tone"`
	Status            string    `json:"status"`
	GeneratedText     string    `json:"generated_text"`
	CreatedAt         time.Time `json:"created_at"`
}

// VariantWithSource embeds ContentVariant and adds the parent title to avoid
// N+1 queries on the review and export listings.
type VariantWithSource struct {
	ContentVariant
	SourceTitle string `json:"source_title"`
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
