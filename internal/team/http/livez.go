package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/khpl/pkg/httpx"
	"github.com/aussiebroadwan/khpl/pkg/teamsdk"
)

// LivezHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe endpoint returning basic service health status, uptime, and version information
//	@Description	This endpoint always returns 200 OK if the service is running
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	teamsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, teamsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// PingHandler godoc
//
//	@Summary		Ping Endpoint
//	@Description	Lightweight check that never touches the database
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	teamsdk.PingResponse	"ok"
//	@Router			/api/ping [get].
func PingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, teamsdk.PingResponse{OK: true})
	}
}
