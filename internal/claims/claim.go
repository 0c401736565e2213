// Package claims implements the lost-item claim domain for Reclaim.
// It provides types, data access, and business logic for claim intake,
// category validation, and status transitions.
package claims

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reclaimhq/reclaim/internal/categories"
)

// Status is the lifecycle state of a claim. Only Outstanding claims
// participate in matching.
type Status string

const (
	Outstanding Status = "Outstanding"
	Resolved    Status = "Resolved"
	Cancelled   Status = "Cancelled"
)

// ParseStatus resolves a label to a claim status, case-insensitively.
func ParseStatus(label string) (Status, bool) {
	for _, s := range []Status{Outstanding, Resolved, Cancelled} {
		if strings.EqualFold(label, string(s)) {
			return s, true
		}
	}
	return "", false
}

// CanTransition reports whether the status may move to the target state.
// Outstanding is the only state with outgoing transitions.
func (s Status) CanTransition(target Status) bool {
	return s == Outstanding && (target == Resolved || target == Cancelled)
}

// Claim is a lodged lost-item claim. Status is the only mutable field.
type Claim struct {
	ClaimID          uuid.UUID           `json:"claim_id"`
	Commentary       string              `json:"commentary"`
	Category         categories.Category `json:"category"`
	Brand            string              `json:"brand"`
	Terminal         string              `json:"terminal"`
	Gate             string              `json:"gate"`
	Name             string              `json:"name"`
	Email            string              `json:"email"`
	PhoneNumber      string              `json:"phone_number"`
	HelpdeskLocation string              `json:"helpdesk_location"`
	Status           Status              `json:"status"`
	ClaimLodgedAt    time.Time           `json:"claim_lodged_at"`
}

// CreateCommand carries the data needed to lodge a new claim. Category must
// come from the closed vocabulary. ClaimLodgedAt defaults to the current time
// when zero.
type CreateCommand struct {
	Commentary       string    `json:"commentary"`
	Category         string    `json:"category"`
	Brand            string    `json:"brand"`
	Terminal         string    `json:"terminal"`
	Gate             string    `json:"gate"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PhoneNumber      string    `json:"phone_number"`
	HelpdeskLocation string    `json:"helpdesk_location"`
	ClaimLodgedAt    time.Time `json:"claim_lodged_at"`
}
