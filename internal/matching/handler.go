package matching

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/reclaimhq/reclaim/pkg/handlers"
	"github.com/reclaimhq/reclaim/pkg/routes"
)

// ErrInvalidClaimID reports a malformed claim identifier path parameter.
var ErrInvalidClaimID = errors.New("invalid claim id")

// Handler provides HTTP endpoints for matching operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "matching"),
	}
}

// Routes returns the route group definition for matching endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/matches",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.MatchAll},
			{Method: "GET", Pattern: "/{claim_id}", Handler: h.Match},
		},
	}
}

// Match returns ranked matches for one claim. Unknown claims return an
// empty list with 200, matching the read-only query semantics.
func (h *Handler) Match(w http.ResponseWriter, r *http.Request) {
	claimID, err := uuid.Parse(r.PathValue("claim_id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidClaimID)
		return
	}

	matches, err := h.sys.Match(r.Context(), claimID)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, matches)
}

// MatchAll returns ranked matches for every outstanding claim.
func (h *Handler) MatchAll(w http.ResponseWriter, r *http.Request) {
	matches, err := h.sys.MatchAll(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, matches)
}
