package http

import (
	"net/http"

	"github.com/aussiebroadwan/khpl/internal/team/service"
	"github.com/aussiebroadwan/khpl/pkg/httpx"
	"github.com/aussiebroadwan/khpl/pkg/teamsdk"
)

type InviteHandler struct {
	InvitationService *service.InvitationService
}

// ServeHTTP godoc
//
//	@Summary		Create Invitation Endpoint
//	@Description	Creates an invitation under the caller. Without an email the invitation is meant
//	@Description	to be shared over a messaging app and a placeholder address is stored.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		teamsdk.InviteRequest	true	"name, optional email"
//	@Success		200		{object}	teamsdk.InviteResponse	"invitation_token, invite_link"
//	@Failure		400		{object}	teamsdk.ErrorResponse	"validation_error or limit_exceeded"
//	@Failure		401		{object}	teamsdk.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	teamsdk.ErrorResponse	"email taken or already invited"
//	@Router			/api/invite [post].
func (h *InviteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}

	var req teamsdk.InviteRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	receipt, err := h.InvitationService.Create(r.Context(), user, req.Name, req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, teamsdk.InviteResponse{
		Message:         "Invitation created successfully",
		InvitationToken: receipt.Token,
		InviteLink:      receipt.InviteLink,
		MemberName:      receipt.MemberName,
		ExpiresAt:       receipt.ExpiresAt,
	})
}

type InvitationHandler struct {
	InvitationService *service.InvitationService
}

// ServeHTTP godoc
//
//	@Summary		Invitation Lookup Endpoint
//	@Description	Returns a pending invitation. Looking up an invitation past its expiry marks it expired.
//	@Tags			Invitations
//	@Produce		json
//	@Param			token	path		string						true	"Invitation token"
//	@Success		200		{object}	teamsdk.InvitationResponse	"email, member_name, invited_by_name"
//	@Failure		400		{object}	teamsdk.ErrorResponse		"invitation expired"
//	@Failure		404		{object}	teamsdk.ErrorResponse		"invalid or expired invitation"
//	@Router			/api/invitation/{token} [get].
func (h *InvitationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	view, err := h.InvitationService.Fetch(r.Context(), r.PathValue("token"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, teamsdk.InvitationResponse{
		Email:         view.Email,
		MemberName:    view.MemberName,
		InvitedByName: view.InvitedByName,
		Valid:         true,
		ExpiresAt:     view.ExpiresAt,
	})
}
