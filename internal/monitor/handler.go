package monitor

import (
	"log/slog"
	"net/http"

	"github.com/reclaimhq/reclaim/pkg/handlers"
	"github.com/reclaimhq/reclaim/pkg/routes"
)

// Handler provides HTTP endpoints for monitoring queries.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "monitor"),
	}
}

// Routes returns the route group definition for monitoring endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/monitor",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/stats", Handler: h.Stats},
			{Method: "GET", Pattern: "/usage", Handler: h.Usage},
		},
	}
}

// Stats returns a point-in-time pipeline snapshot.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.sys.Stats(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, stats)
}

// Usage returns per-model AI usage totals.
func (h *Handler) Usage(w http.ResponseWriter, r *http.Request) {
	totals, err := h.sys.Usage(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, totals)
}
