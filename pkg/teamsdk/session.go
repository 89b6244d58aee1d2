package teamsdk

import (
	"context"
	"net/http"
	"time"
)

// Session performs requests on behalf of one signed-in member. Access tokens
// are not refreshed; once ExpiresAt passes, log in again.
type Session struct {
	client      *SDKClient
	accessToken string
	expiresAt   time.Time
	user        UserResponse
}

func newSession(c *SDKClient, token TokenResponse) *Session {
	return &Session{
		client:      c,
		accessToken: token.AccessToken,
		expiresAt:   time.Now().Add(time.Duration(token.ExpiresIn) * time.Second),
		user:        token.User,
	}
}

func (s *Session) AccessToken() string  { return s.accessToken }
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }
func (s *Session) User() UserResponse   { return s.user }

// Me fetches the current member, including their direct child count.
func (s *Session) Me(ctx context.Context) (*UserResponse, error) {
	var out UserResponse
	if err := s.get(ctx, "/api/auth/me", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Invite creates an invitation for a new direct team member.
func (s *Session) Invite(ctx context.Context, req InviteRequest) (*InviteResponse, error) {
	resp, err := s.client.doRequest(ctx, http.MethodPost, "/api/invite", s.accessToken, req)
	if err != nil {
		return nil, err
	}

	var out InviteResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyTeam lists direct team members, oldest first.
func (s *Session) MyTeam(ctx context.Context) ([]UserResponse, error) {
	var out []UserResponse
	if err := s.get(ctx, "/api/my-team", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) TeamTree(ctx context.Context) (*TreeNode, error) {
	var out TreeNode
	if err := s.get(ctx, "/api/team-tree", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) Stats(ctx context.Context) (*StatsResponse, error) {
	var out StatsResponse
	if err := s.get(ctx, "/api/stats", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) get(ctx context.Context, path string, target any) error {
	resp, err := s.client.doRequest(ctx, http.MethodGet, path, s.accessToken, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, http.StatusOK)
}
