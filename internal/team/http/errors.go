package http

import (
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/khpl/internal/team/service"
	"github.com/aussiebroadwan/khpl/pkg/httpx"
	"github.com/aussiebroadwan/khpl/pkg/slogx"
)

func statusOf(kind service.Kind) int {
	switch kind {
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindExpired, service.KindLimitExceeded, service.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError renders err as an ErrorBody. Internal causes are logged
// and never reach the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	kind := service.KindOf(err)
	if kind == service.KindInternal {
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
	}
	httpx.WriteError(w, statusOf(kind), string(kind), service.MessageOf(err))
}

func writeBadRequest(w http.ResponseWriter, err error) {
	httpx.WriteError(w, http.StatusBadRequest, string(service.KindValidation), err.Error())
}
