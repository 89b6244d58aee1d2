package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/khpl/internal/team/domain"
	"github.com/aussiebroadwan/khpl/internal/team/metrics"
	"github.com/aussiebroadwan/khpl/internal/team/store"
	"github.com/aussiebroadwan/khpl/pkg/slogx"
)

// DownlineCache memoizes downline sizes. Every user has a generation that
// Forget advances; Downline reports the current generation alongside the
// entry and only hits for entries written under it, so a count computed
// before an invalidation is never served after it.
type DownlineCache interface {
	Downline(ctx context.Context, userID string) (n int, gen int64, ok bool, err error)
	SetDownline(ctx context.Context, userID string, gen int64, n int, ttl time.Duration) error
	Forget(ctx context.Context, userIDs ...string) error
}

const DefaultDownlineCacheTTL = 5 * time.Minute

type TeamService struct {
	Store store.Store

	// Cache is optional.
	Cache    DownlineCache
	CacheTTL time.Duration
}

func (s *TeamService) cacheTTL() time.Duration {
	if s.CacheTTL > 0 {
		return s.CacheTTL
	}
	return DefaultDownlineCacheTTL
}

// DirectChildren lists the members directly under userID, oldest first.
func (s *TeamService) DirectChildren(ctx context.Context, userID string) ([]domain.User, error) {
	children, err := s.Store.Users().ListChildren(ctx, userID)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list children", slog.Any("error", err))
		return nil, internalError(err)
	}
	return children, nil
}

// ChildrenCount returns the number of direct children of userID.
func (s *TeamService) ChildrenCount(ctx context.Context, userID string) (int, error) {
	n, err := s.Store.Users().CountChildren(ctx, userID)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to count children", slog.Any("error", err))
		return 0, internalError(err)
	}
	return n, nil
}

// BuildSubtree materializes the tree under userID. The root is depth 0 and a
// node at depth d is included only while d < maxDepth; maxDepth <= 0 means
// domain.DefaultTreeDepth. A root that does not resolve yields (nil, nil).
func (s *TeamService) BuildSubtree(ctx context.Context, userID string, maxDepth int) (*domain.TreeNode, error) {
	if maxDepth <= 0 {
		maxDepth = domain.DefaultTreeDepth
	}
	defer func(start time.Time) { metrics.ObserveTreeBuild(time.Since(start)) }(time.Now())

	root, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		slogx.FromContext(ctx).Error("failed to fetch tree root", slog.Any("error", err))
		return nil, internalError(err)
	}

	visited := make(map[string]struct{})
	node, err := s.subtree(ctx, root, 0, maxDepth, visited)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to build team tree", slog.Any("error", err))
		return nil, internalError(err)
	}
	return node, nil
}

func (s *TeamService) subtree(ctx context.Context, u domain.User, depth, maxDepth int, visited map[string]struct{}) (*domain.TreeNode, error) {
	visited[u.ID] = struct{}{}

	children, err := s.Store.Users().ListChildren(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	node := &domain.TreeNode{
		ID:            u.ID,
		Name:          u.Name,
		Phone:         u.Phone,
		Level:         u.Level,
		ChildrenCount: len(children),
		Children:      []*domain.TreeNode{},
	}
	if depth+1 >= maxDepth {
		return node, nil
	}

	for _, c := range children {
		if _, seen := visited[c.ID]; seen {
			continue
		}
		child, err := s.subtree(ctx, c, depth+1, maxDepth, visited)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// CountDescendants returns the number of distinct members below userID.
func (s *TeamService) CountDescendants(ctx context.Context, userID string) (int, error) {
	log := slogx.FromContext(ctx)

	// The generation is read before the store so that a registration
	// committing mid-count invalidates the write below.
	var (
		gen       int64
		cacheable bool
	)
	if s.Cache != nil {
		n, g, ok, err := s.Cache.Downline(ctx, userID)
		switch {
		case err != nil:
			log.Warn("downline cache read failed", slog.Any("error", err))
		case ok:
			metrics.ObserveDownlineCache(true)
			return n, nil
		default:
			metrics.ObserveDownlineCache(false)
			gen, cacheable = g, true
		}
	}

	n, err := s.countDescendants(ctx, userID)
	if err != nil {
		log.Error("failed to count descendants", slog.Any("error", err))
		return 0, internalError(err)
	}

	if cacheable {
		if err := s.Cache.SetDownline(ctx, userID, gen, n, s.cacheTTL()); err != nil {
			log.Warn("downline cache write failed", slog.Any("error", err))
		}
	}
	return n, nil
}

func (s *TeamService) countDescendants(ctx context.Context, userID string) (int, error) {
	visited := map[string]struct{}{userID: {}}
	work := []string{userID}
	count := 0

	for len(work) > 0 {
		id := work[len(work)-1]
		work = work[:len(work)-1]

		children, err := s.Store.Users().ListChildren(ctx, id)
		if err != nil {
			return 0, err
		}
		for _, c := range children {
			if _, seen := visited[c.ID]; seen {
				continue
			}
			visited[c.ID] = struct{}{}
			count++
			work = append(work, c.ID)
		}
	}
	return count, nil
}

// Stats summarizes the team of user.
func (s *TeamService) Stats(ctx context.Context, user domain.User) (domain.Stats, error) {
	direct, err := s.ChildrenCount(ctx, user.ID)
	if err != nil {
		return domain.Stats{}, err
	}
	total, err := s.CountDescendants(ctx, user.ID)
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.Stats{
		DirectChildren: direct,
		TotalDownline:  total,
		Level:          user.Level,
		IsOwner:        user.IsOwner,
	}, nil
}

// InvalidateAncestors drops cached downline sizes for every ancestor of u.
// Failures are logged; stale entries age out with the cache TTL.
func (s *TeamService) InvalidateAncestors(ctx context.Context, u domain.User) {
	if s.Cache == nil {
		return
	}
	log := slogx.FromContext(ctx)

	var ids []string
	seen := map[string]struct{}{u.ID: {}}
	for next := u.ParentID; next != nil; {
		if _, ok := seen[*next]; ok {
			break
		}
		seen[*next] = struct{}{}
		ids = append(ids, *next)

		parent, err := s.Store.Users().GetUserByID(ctx, *next)
		if err != nil {
			if !isNotFound(err) {
				log.Warn("failed to walk ancestors", slog.Any("error", err))
			}
			break
		}
		next = parent.ParentID
	}

	if len(ids) == 0 {
		return
	}
	if err := s.Cache.Forget(ctx, ids...); err != nil {
		log.Warn("downline cache invalidation failed", slog.Int("ancestors", len(ids)), slog.Any("error", err))
	}
}
