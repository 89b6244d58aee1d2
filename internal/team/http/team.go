package http

import (
	"net/http"

	"github.com/aussiebroadwan/khpl/internal/team/domain"
	"github.com/aussiebroadwan/khpl/internal/team/service"
	"github.com/aussiebroadwan/khpl/pkg/httpx"
	"github.com/aussiebroadwan/khpl/pkg/teamsdk"
)

type TeamHandler struct {
	TeamService *service.TeamService
}

// HandleMyTeam godoc
//
//	@Summary		Direct Team Endpoint
//	@Description	Lists the caller's direct team members, oldest first
//	@Tags			Team
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		teamsdk.UserResponse	"direct children"
//	@Failure		401	{object}	teamsdk.ErrorResponse	"error, error_description"
//	@Router			/api/my-team [get].
func (h *TeamHandler) HandleMyTeam(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	children, err := h.TeamService.DirectChildren(ctx, user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]teamsdk.UserResponse, 0, len(children))
	for _, c := range children {
		n, err := h.TeamService.ChildrenCount(ctx, c.ID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		out = append(out, userView(c, n))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleTree godoc
//
//	@Summary		Team Tree Endpoint
//	@Description	Returns the caller's team as a nested tree. Ten levels are expanded, the caller included;
//	@Description	children_count still reports stored children below the cut.
//	@Tags			Team
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	teamsdk.TreeNode		"tree rooted at the caller"
//	@Failure		401	{object}	teamsdk.ErrorResponse	"error, error_description"
//	@Router			/api/team-tree [get].
func (h *TeamHandler) HandleTree(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}

	tree, err := h.TeamService.BuildSubtree(r.Context(), user.ID, domain.DefaultTreeDepth)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if tree == nil {
		writeServiceError(w, r, service.ErrUserNotFound)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, treeView(tree))
}

// HandleStats godoc
//
//	@Summary		Team Stats Endpoint
//	@Description	Returns the caller's direct children count, total downline, level and owner flag
//	@Tags			Team
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	teamsdk.StatsResponse	"direct_children, total_downline"
//	@Failure		401	{object}	teamsdk.ErrorResponse	"error, error_description"
//	@Router			/api/stats [get].
func (h *TeamHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	user, ok := mustUser(w, r)
	if !ok {
		return
	}

	stats, err := h.TeamService.Stats(r.Context(), user)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, statsView(stats))
}
