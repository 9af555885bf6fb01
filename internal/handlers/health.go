package handlers

import (
	"context"
	"net/http"

	"github.com/premiun-cakes/api/internal/platform/httpx"
)

// HealthHandler answers liveness and readiness probes. Ping is optional;
// when set, readiness fails while it errors.
type HealthHandler struct {
	ping func(ctx context.Context) error
}

// NewHealthHandler builds the handler. ping may be nil.
func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

// Liveness handles GET /healthz.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness handles GET /readyz.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		if err := h.ping(r.Context()); err != nil {
			httpx.WriteError(r.Context(), w, httpx.NewError("not_ready", "dependency unavailable", http.StatusServiceUnavailable))
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
