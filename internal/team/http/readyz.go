package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/khpl/internal/team/store"
	"github.com/aussiebroadwan/khpl/pkg/httpx"
	"github.com/aussiebroadwan/khpl/pkg/teamsdk"
)

const probeTimeout = 2 * time.Second

// probe pings the store and, when configured, the cache.
func probe(ctx context.Context, st store.Store, cache Pinger) (*teamsdk.HealthChecks, bool) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	checks := &teamsdk.HealthChecks{Database: "ok"}
	healthy := true

	if err := st.Ping(ctx); err != nil {
		checks.Database = "error: " + err.Error()
		healthy = false
	}
	if cache != nil {
		checks.Cache = "ok"
		if err := cache.Ping(ctx); err != nil {
			checks.Cache = "error: " + err.Error()
			healthy = false
		}
	}
	return checks, healthy
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and checks for critical dependencies
//	@Description	Includes uptime, version, and status of the database and cache
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	teamsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	teamsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks, healthy := probe(r.Context(), st, cache)

		status, code := "ok", http.StatusOK
		if !healthy {
			status, code = "degraded", http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, teamsdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}

// HealthHandler godoc
//
//	@Summary		Dependency Health Endpoint
//	@Description	Reports "healthy" or "unhealthy" with the same dependency checks as /readyz.
//	@Description	Always answers 200 so dashboards can read the body.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	teamsdk.HealthResponse	"status, checks"
//	@Router			/health [get].
func HealthHandler(startTime time.Time, version string, st store.Store, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks, healthy := probe(r.Context(), st, cache)

		status := "healthy"
		if !healthy {
			status = "unhealthy"
		}

		httpx.WriteJSON(w, http.StatusOK, teamsdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
