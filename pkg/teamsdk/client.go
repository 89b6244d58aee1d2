package teamsdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SDKClient is a client for the KHPL team service. It covers the public
// endpoints and creates authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new team service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login authenticates with phone and password.
func (c *SDKClient) Login(ctx context.Context, phone, password string) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", "", LoginRequest{Phone: phone, Password: password})
	if err != nil {
		return nil, err
	}

	var token TokenResponse
	if err := decodeJSON(resp, &token, http.StatusOK); err != nil {
		return nil, err
	}
	return newSession(c, token), nil
}

// GetInvitation looks up a pending invitation. Note that the server expires
// an invitation past its deadline on lookup.
func (c *SDKClient) GetInvitation(ctx context.Context, token string) (*InvitationResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/invitation/"+url.PathEscape(token), "", nil)
	if err != nil {
		return nil, err
	}

	var inv InvitationResponse
	if err := decodeJSON(resp, &inv, http.StatusOK); err != nil {
		return nil, err
	}
	return &inv, nil
}

// Register redeems an invitation and returns a session for the new member.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/auth/register", "", req)
	if err != nil {
		return nil, err
	}

	var token TokenResponse
	if err := decodeJSON(resp, &token, http.StatusOK); err != nil {
		return nil, err
	}
	return newSession(c, token), nil
}

// NewSessionFromToken wraps an existing access token.
func (c *SDKClient) NewSessionFromToken(accessToken string) *Session {
	return &Session{client: c, accessToken: accessToken}
}

func (c *SDKClient) Ping(ctx context.Context) (*PingResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/ping", "", nil)
	if err != nil {
		return nil, err
	}

	var pong PingResponse
	if err := decodeJSON(resp, &pong, http.StatusOK); err != nil {
		return nil, err
	}
	return &pong, nil
}

// GetLiveness checks if the service is alive.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// GetReadiness checks if the service can reach its dependencies.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *SDKClient) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}
