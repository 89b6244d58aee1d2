package httpx

import (
	"errors"
	"net/http"
	"strings"
)

// ErrMissingBearer is returned by BearerToken when the request carries no
// usable bearer credential.
var ErrMissingBearer = errors.New("httpx: missing bearer token")

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, error) {
	authz := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(authz, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMissingBearer
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingBearer
	}
	return token, nil
}

// WriteBearerError writes an RFC 6750 invalid_token challenge with a JSON body.
func WriteBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "unauthorized", desc)
}
