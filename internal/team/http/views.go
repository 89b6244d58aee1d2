package http

import (
	"time"

	"github.com/aussiebroadwan/khpl/internal/team/domain"
	"github.com/aussiebroadwan/khpl/internal/team/service"
	"github.com/aussiebroadwan/khpl/pkg/teamsdk"
)

func userView(u domain.User, childrenCount int) teamsdk.UserResponse {
	return teamsdk.UserResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Phone:         u.Phone,
		Address:       u.Address,
		AadhaarID:     u.AadhaarID,
		ParentID:      u.ParentID,
		Level:         u.Level,
		IDProofURL:    u.IDProofURL,
		IsOwner:       u.IsOwner,
		CreatedAt:     u.CreatedAt,
		ChildrenCount: childrenCount,
	}
}

func tokenView(s service.Session, ttl time.Duration, childrenCount int) teamsdk.TokenResponse {
	return teamsdk.TokenResponse{
		AccessToken: s.AccessToken,
		TokenType:   "bearer",
		ExpiresIn:   int(ttl.Seconds()),
		User:        userView(s.User, childrenCount),
	}
}

// treeView converts n. Children is never nil so leaves encode as [].
func treeView(n *domain.TreeNode) teamsdk.TreeNode {
	out := teamsdk.TreeNode{
		ID:            n.ID,
		Name:          n.Name,
		Phone:         n.Phone,
		Level:         n.Level,
		ChildrenCount: n.ChildrenCount,
		Children:      make([]teamsdk.TreeNode, 0, len(n.Children)),
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, treeView(c))
	}
	return out
}

func statsView(s domain.Stats) teamsdk.StatsResponse {
	return teamsdk.StatsResponse{
		DirectChildren: s.DirectChildren,
		TotalDownline:  s.TotalDownline,
		Level:          s.Level,
		IsOwner:        s.IsOwner,
	}
}
