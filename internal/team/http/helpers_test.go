package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	teamhttp "github.com/aussiebroadwan/khpl/internal/team/http"
	"github.com/aussiebroadwan/khpl/internal/team/service"
	"github.com/aussiebroadwan/khpl/internal/team/store"
	"github.com/aussiebroadwan/khpl/internal/team/store/drivers/sqlite"
	"github.com/aussiebroadwan/khpl/pkg/cryptox"
	"github.com/aussiebroadwan/khpl/pkg/httpx"
	"github.com/aussiebroadwan/khpl/pkg/teamsdk"
)

func TestMain(m *testing.M) {
	cryptox.SetPepper("http-test-pepper")
	os.Exit(m.Run())
}

const (
	ownerPhone    = "+91-9000000000"
	ownerPassword = "owner-password"
	testVersion   = "test"
)

var (
	testSecret = []byte("0123456789abcdef0123456789abcdef")

	// generous keeps the rate limiters out of the way of tests that do not
	// exercise them.
	generous = httpx.RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000}
)

type testEnv struct {
	server *httptest.Server
	store  store.Store
	client *teamsdk.SDKClient
}

type envOption func(r *teamhttp.Router)

func withLimits(l teamhttp.Limits) envOption {
	return func(r *teamhttp.Router) { r.Limits = l }
}

func withCORS(origins ...string) envOption {
	return func(r *teamhttp.Router) { r.CORSOrigins = origins }
}

// newEnv serves a router over an in-memory store seeded with an owner.
func newEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	owners := &service.OwnerService{Store: st, Logger: logger}
	created, err := owners.EnsureOwner(context.Background(), service.OwnerSeed{
		Name:     "Owner",
		Email:    "owner@khpl.test",
		Phone:    ownerPhone,
		Password: ownerPassword,
	})
	require.NoError(t, err)
	require.True(t, created)

	return serve(t, st, logger, opts...)
}

func serve(t *testing.T, st store.Store, logger *slog.Logger, opts ...envOption) *testEnv {
	t.Helper()

	tokens, err := service.NewTokenService(testSecret, "khpl-test", 0)
	require.NoError(t, err)
	team := &service.TeamService{Store: st}

	r := teamhttp.NewRouter(testVersion, st, logger)
	r.Limits = teamhttp.Limits{Strict: generous, Moderate: generous, Lenient: generous}
	r.AuthService = &service.AuthService{Store: st, Tokens: tokens}
	r.TeamService = team
	r.InvitationService = &service.InvitationService{
		Store:   st,
		Tokens:  tokens,
		Team:    team,
		BaseURL: "https://khpl.test",
	}
	for _, opt := range opts {
		opt(r)
	}
	r.ApplyRoutes()

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, store: st, client: teamsdk.NewSDKClient(srv.URL)}
}

func (e *testEnv) ownerSession(t *testing.T) *teamsdk.Session {
	t.Helper()
	s, err := e.client.Login(context.Background(), ownerPhone, ownerPassword)
	require.NoError(t, err)
	return s
}

// enroll invites a member under parent and registers them.
func (e *testEnv) enroll(t *testing.T, parent *teamsdk.Session, name, phone string) *teamsdk.Session {
	t.Helper()
	ctx := context.Background()

	inv, err := parent.Invite(ctx, teamsdk.InviteRequest{Name: name})
	require.NoError(t, err)

	s, err := e.client.Register(ctx, teamsdk.RegisterRequest{
		Token:     inv.InvitationToken,
		Name:      name,
		Phone:     phone,
		Password:  "member-password",
		AadhaarID: "1234-5678-9012",
	})
	require.NoError(t, err)
	return s
}

// do sends a raw request and returns the response with its body read.
func (e *testEnv) do(t *testing.T, method, path, token, body string) (*http.Response, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.server.URL+path, rdr)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decodeError(t *testing.T, data []byte) teamsdk.ErrorResponse {
	t.Helper()
	var out teamsdk.ErrorResponse
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}
