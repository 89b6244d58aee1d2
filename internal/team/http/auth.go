package http

import (
	"net/http"

	"github.com/aussiebroadwan/khpl/internal/team/service"
	"github.com/aussiebroadwan/khpl/pkg/httpx"
	"github.com/aussiebroadwan/khpl/pkg/teamsdk"
)

type LoginHandler struct {
	AuthService *service.AuthService
	TeamService *service.TeamService
}

// ServeHTTP godoc
//
//	@Summary		Login Endpoint
//	@Description	Exchange a phone number and password for an access token
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		teamsdk.LoginRequest	true	"phone, password"
//	@Success		200		{object}	teamsdk.TokenResponse	"access_token, token_type, expires_in, user"
//	@Failure		400		{object}	teamsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	teamsdk.ErrorResponse	"error, error_description"
//	@Failure		429		{object}	teamsdk.ErrorResponse	"error, error_description"
//	@Router			/api/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req teamsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	session, err := h.AuthService.Login(r.Context(), req.Phone, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	children, err := h.TeamService.ChildrenCount(r.Context(), session.User.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, tokenView(session, h.AuthService.Tokens.TTL(), children))
}

type RegisterHandler struct {
	InvitationService *service.InvitationService
}

// ServeHTTP godoc
//
//	@Summary		Register Endpoint
//	@Description	Redeem an invitation token to create a member under the inviter and sign them in
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		teamsdk.RegisterRequest	true	"token, name, phone, password, aadhaar_id"
//	@Success		200		{object}	teamsdk.TokenResponse	"access_token, token_type, expires_in, user"
//	@Failure		400		{object}	teamsdk.ErrorResponse	"validation_error, expired or limit_exceeded"
//	@Failure		404		{object}	teamsdk.ErrorResponse	"invitation or inviter not found"
//	@Failure		409		{object}	teamsdk.ErrorResponse	"phone already registered"
//	@Failure		429		{object}	teamsdk.ErrorResponse	"error, error_description"
//	@Router			/api/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req teamsdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	session, err := h.InvitationService.Redeem(r.Context(), req.Token, service.Registration{
		Name:      req.Name,
		Phone:     req.Phone,
		Password:  req.Password,
		AadhaarID: req.AadhaarID,
		Email:     req.Email,
		Address:   req.Address,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	// A freshly registered member has no children yet.
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, tokenView(session, h.InvitationService.Tokens.TTL(), 0))
}

type MeHandler struct {
	TeamService *service.TeamService
}

// ServeHTTP godoc
//
//	@Summary		Current Member Endpoint
//	@Description	Returns the authenticated member with their direct children count
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	teamsdk.UserResponse	"member"
//	@Failure		401	{object}	teamsdk.ErrorResponse	"error, error_description"
//	@Router			/api/auth/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}

	children, err := h.TeamService.ChildrenCount(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, userView(user, children))
}
