package teamsdk

import "time"

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// Error is the machine-readable kind (e.g., "conflict", "limit_exceeded")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// ============================================================================
// Auth Types
// ============================================================================

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// TokenResponse is returned by login and registration.
type TokenResponse struct {
	// AccessToken is the JWT used as a Bearer credential
	AccessToken string `json:"access_token"`

	// TokenType is always "bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the access token
	ExpiresIn int `json:"expires_in"`

	User UserResponse `json:"user"`
}

// UserResponse is the public view of a member.
type UserResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       *string   `json:"address"`
	AadhaarID     *string   `json:"aadhaar_id"`
	ParentID      *string   `json:"parent_id"`
	Level         int       `json:"level"`
	IDProofURL    *string   `json:"id_proof_url"`
	IsOwner       bool      `json:"is_owner"`
	CreatedAt     time.Time `json:"created_at"`
	ChildrenCount int       `json:"children_count"`
}

// ============================================================================
// Invitation Types
// ============================================================================

// InviteRequest is the body of POST /api/invite. An empty Email creates an
// invitation meant to be shared over a messaging app.
type InviteRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// InviteResponse carries the token and link to share with the invitee.
type InviteResponse struct {
	Message         string    `json:"message"`
	InvitationToken string    `json:"invitation_token"`
	InviteLink      string    `json:"invite_link"`
	MemberName      string    `json:"member_name"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// InvitationResponse is returned by GET /api/invitation/{token}.
type InvitationResponse struct {
	Email         string    `json:"email"`
	MemberName    string    `json:"member_name"`
	InvitedByName string    `json:"invited_by_name"`
	Valid         bool      `json:"valid"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Token     string `json:"token"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	AadhaarID string `json:"aadhaar_id"`

	// Email falls back to the invitation email when empty
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// ============================================================================
// Team Types
// ============================================================================

// TreeNode is one member of a team tree. ChildrenCount counts stored
// children even where Children was cut off by the depth limit.
type TreeNode struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Phone         string     `json:"phone"`
	Level         int        `json:"level"`
	ChildrenCount int        `json:"children_count"`
	Children      []TreeNode `json:"children"`
}

// StatsResponse summarizes the caller's team.
type StatsResponse struct {
	DirectChildren int  `json:"direct_children"`
	TotalDownline  int  `json:"total_downline"`
	Level          int  `json:"level"`
	IsOwner        bool `json:"is_owner"`
}

// ============================================================================
// System Types
// ============================================================================

// PingResponse is returned by GET /api/ping.
type PingResponse struct {
	OK bool `json:"ok"`
}

// HealthResponse represents the response structure for health check endpoints.
// Used by /livez, /readyz and /health (the latter two include Checks).
type HealthResponse struct {
	// Status is "ok" or "degraded" on /livez and /readyz, and "healthy" or
	// "unhealthy" on /health
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the status of each dependency.
type HealthChecks struct {
	Database string `json:"database"`

	// Cache is omitted when no downline cache is configured
	Cache string `json:"cache,omitempty"`
}
