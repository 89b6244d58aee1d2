package teamsdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "right" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorKindUnauthorized, ErrorDescription: "Invalid phone or password"})
			return
		}
		_ = json.NewEncoder(w).Encode(TokenResponse{
			AccessToken: "tok-" + req.Phone,
			TokenType:   "bearer",
			ExpiresIn:   1800,
			User:        UserResponse{ID: "u1", Phone: req.Phone},
		})
	})

	mux.HandleFunc("GET /api/stats", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorKindUnauthorized, ErrorDescription: "Could not validate credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(StatsResponse{DirectChildren: 2, TotalDownline: 5})
	})

	mux.HandleFunc("GET /api/invitation/{token}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("token") != "a/b" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("not json"))
			return
		}
		_ = json.NewEncoder(w).Encode(InvitationResponse{Email: "x@example.com", Valid: true})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginAndSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewSDKClient(newTestServer(t).URL + "/")

	_, err := c.Login(ctx, "123", "wrong")
	require.True(t, IsKind(err, ErrorKindUnauthorized))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "Invalid phone or password", apiErr.Description)

	s, err := c.Login(ctx, "123", "right")
	require.NoError(t, err)
	require.Equal(t, "tok-123", s.AccessToken())
	require.Equal(t, "123", s.User().Phone)
	require.False(t, s.ExpiresAt().IsZero())

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, stats.TotalDownline)

	_, err = c.NewSessionFromToken("bogus").Stats(ctx)
	require.True(t, IsKind(err, ErrorKindUnauthorized))
}

func TestGetInvitation_EscapesTokenAndHandlesNonJSONErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewSDKClient(newTestServer(t).URL)

	inv, err := c.GetInvitation(ctx, "a/b")
	require.NoError(t, err)
	require.True(t, inv.Valid)

	_, err = c.GetInvitation(ctx, "other")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, ErrorKindInternal, apiErr.Kind)
}
