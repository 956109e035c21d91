package httpx

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/RikVoorhaar/routing-game-sub002/internal/core"
)

const healthCheckTimeout = 2 * time.Second

// HealthHandlers reports readiness of the storage dependencies.
type HealthHandlers struct {
	DB     *sql.DB
	Cache  core.CacheRepository
	Logger *slog.Logger
}

// Health handles GET/HEAD /healthz. Degraded dependencies produce a 503 with
// per-dependency detail.
func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	status := http.StatusOK
	checks := map[string]string{}

	if h.DB != nil {
		if err := h.DB.PingContext(ctx); err != nil {
			checks["db"] = "unavailable"
			status = http.StatusServiceUnavailable
			if h.Logger != nil {
				h.Logger.WarnContext(ctx, "health check: db unreachable", "err", err)
			}
		} else {
			checks["db"] = "ok"
		}
	}
	if h.Cache != nil {
		if err := h.Cache.Health(ctx); err != nil {
			checks["cache"] = "unavailable"
			status = http.StatusServiceUnavailable
			if h.Logger != nil {
				h.Logger.WarnContext(ctx, "health check: cache unreachable", "err", err)
			}
		} else {
			checks["cache"] = "ok"
		}
	}

	if r.Method == http.MethodHead {
		w.WriteHeader(status)
		return
	}

	body := map[string]any{"status": "ok", "checks": checks}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	WriteJSON(w, status, body)
}
