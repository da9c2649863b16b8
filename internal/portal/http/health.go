package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/payportal/internal/portal/store"
	"github.com/aussiebroadwan/payportal/pkg/httpx"
)

// Health answers the orchestrator probes.
type Health struct {
	Started time.Time
	Version string
	Store   store.Store
}

func (h Health) report(status string, checks *HealthChecks) HealthResponse {
	return HealthResponse{
		Status:  status,
		Uptime:  time.Since(h.Started).Round(time.Second).String(),
		Version: h.Version,
		Checks:  checks,
	}
}

// HandleLive godoc
//
//	@Summary		Liveness probe
//	@Description	Returns 200 while the process is serving; no dependency is consulted.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func (h Health) HandleLive(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.report("ok", nil))
}

// HandleReady godoc
//
//	@Summary		Readiness probe
//	@Description	Pings the visitor storage backend. Sessions cannot be restored without it,
//	@Description	so a failed ping reports the portal as degraded.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	HealthResponse	"storage reachable"
//	@Failure		503	{object}	HealthResponse	"storage unreachable"
//	@Router			/readyz [get].
func (h Health) HandleReady(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		httpx.WriteJSON(w, http.StatusServiceUnavailable,
			h.report("degraded", &HealthChecks{Storage: "error: " + err.Error()}))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.report("ok", &HealthChecks{Storage: "ok"}))
}
