package claims

import (
	"net/url"

	"github.com/reclaimhq/reclaim/pkg/query"
	"github.com/reclaimhq/reclaim/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "claims", "c").
	Project("claim_id", "ClaimID").
	Project("commentary", "Commentary").
	Project("category", "Category").
	Project("brand", "Brand").
	Project("terminal", "Terminal").
	Project("gate", "Gate").
	Project("name", "Name").
	Project("email", "Email").
	Project("phone_number", "PhoneNumber").
	Project("helpdesk_location", "HelpdeskLocation").
	Project("status", "Status").
	Project("claim_lodged_at", "ClaimLodgedAt")

var defaultSort = query.SortField{
	Field:      "ClaimLodgedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for claim queries.
// Nil fields are ignored. Status and Category use exact matching;
// Terminal and Gate match case-insensitively ignoring whitespace.
type Filters struct {
	Status   *string `json:"status,omitempty"`
	Category *string `json:"category,omitempty"`
	Terminal *string `json:"terminal,omitempty"`
	Gate     *string `json:"gate,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("Category", f.Category).
		WhereEqualsFold("Terminal", f.Terminal).
		WhereEqualsFold("Gate", f.Gate)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		if status, ok := ParseStatus(s); ok {
			v := string(status)
			f.Status = &v
		}
	}

	if c := values.Get("category"); c != "" {
		f.Category = &c
	}

	if t := values.Get("terminal"); t != "" {
		f.Terminal = &t
	}

	if g := values.Get("gate"); g != "" {
		f.Gate = &g
	}

	return f
}

func scanClaim(s repository.Scanner) (Claim, error) {
	var c Claim
	err := s.Scan(
		&c.ClaimID,
		&c.Commentary,
		&c.Category,
		&c.Brand,
		&c.Terminal,
		&c.Gate,
		&c.Name,
		&c.Email,
		&c.PhoneNumber,
		&c.HelpdeskLocation,
		&c.Status,
		&c.ClaimLodgedAt,
	)
	return c, err
}
