package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/khpl/internal/team/domain"
	"github.com/aussiebroadwan/khpl/internal/team/store"
)

// graphStore serves users from an arbitrary parent graph, cycles included,
// which the real schema cannot represent.
type graphStore struct {
	store.Store
	users *graphUsers
}

func (g graphStore) Users() store.Users { return g.users }

type graphUsers struct {
	store.Users
	children map[string][]string
}

func (g *graphUsers) GetUserByID(_ context.Context, id string) (domain.User, error) {
	if _, ok := g.children[id]; !ok {
		return domain.User{}, store.ErrNotFound
	}
	return domain.User{ID: id, Name: id}, nil
}

func (g *graphUsers) ListChildren(_ context.Context, id string) ([]domain.User, error) {
	var out []domain.User
	for _, c := range g.children[id] {
		out = append(out, domain.User{ID: c, Name: c})
	}
	return out, nil
}

func (g *graphUsers) CountChildren(_ context.Context, id string) (int, error) {
	return len(g.children[id]), nil
}

// fullTree adds a complete binary tree of the given number of levels under
// parent and returns its root.
func fullTree(t *testing.T, st store.Store, parent domain.User, levels int) domain.User {
	t.Helper()
	root := addMember(t, st, parent)
	frontier := []domain.User{root}
	for range levels - 1 {
		var next []domain.User
		for _, n := range frontier {
			next = append(next, addMember(t, st, n), addMember(t, st, n))
		}
		frontier = next
	}
	return root
}

func TestCountDescendants_BinaryTree(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	owner := seedOwner(t, st)
	team := &TeamService{Store: st}

	// Seven members in three full levels beneath the owner's single child.
	top := fullTree(t, st, owner, 3)

	n, err := team.CountDescendants(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, 7, n)

	n, err = team.CountDescendants(ctx, top.ID)
	require.NoError(t, err)
	require.Equal(t, 6, n)

	unknown, err := team.CountDescendants(ctx, "missing")
	require.NoError(t, err)
	require.Zero(t, unknown)
}

func TestCountDescendants_VisitsEachIDOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	team := &TeamService{Store: graphStore{users: &graphUsers{children: map[string][]string{
		"a": {"b", "c"},
		"b": {"c", "a"},
		"c": {"b"},
	}}}}

	n, err := team.CountDescendants(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestBuildSubtree_DepthLimit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	owner := seedOwner(t, st)
	team := &TeamService{Store: st}

	// A chain of twelve levels including the owner.
	tip := owner
	for range 11 {
		tip = addMember(t, st, tip)
	}

	tree, err := team.BuildSubtree(ctx, owner.ID, 0)
	require.NoError(t, err)
	require.Equal(t, domain.DefaultTreeDepth, tree.Depth())

	node := tree
	for node.Level < domain.DefaultTreeDepth-1 {
		require.Len(t, node.Children, 1)
		node = node.Children[0]
	}
	require.Empty(t, node.Children)
	require.Equal(t, 1, node.ChildrenCount, "truncated nodes still report stored children")

	shallow, err := team.BuildSubtree(ctx, owner.ID, 3)
	require.NoError(t, err)
	require.Equal(t, 3, shallow.Depth())

	rootOnly, err := team.BuildSubtree(ctx, owner.ID, 1)
	require.NoError(t, err)
	require.Equal(t, 1, rootOnly.Depth())
	require.Equal(t, 1, rootOnly.ChildrenCount)
}

func TestBuildSubtree_Shape(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	owner := seedOwner(t, st)
	team := &TeamService{Store: st}

	first := addMember(t, st, owner)
	second := addMember(t, st, owner)
	grandchild := addMember(t, st, first)

	tree, err := team.BuildSubtree(ctx, owner.ID, domain.DefaultTreeDepth)
	require.NoError(t, err)
	require.Equal(t, owner.ID, tree.ID)
	require.Equal(t, 2, tree.ChildrenCount)
	require.Len(t, tree.Children, 2)
	require.Equal(t, first.ID, tree.Children[0].ID)
	require.Equal(t, second.ID, tree.Children[1].ID)
	require.Equal(t, grandchild.ID, tree.Children[0].Children[0].ID)
	require.Equal(t, 2, tree.Children[0].Children[0].Level)
	require.NotNil(t, tree.Children[1].Children)
	require.Empty(t, tree.Children[1].Children)

	missing, err := team.BuildSubtree(ctx, "missing", 0)
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestBuildSubtree_SkipsRevisits(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	team := &TeamService{Store: graphStore{users: &graphUsers{children: map[string][]string{
		"a": {"b"},
		"b": {"a", "c"},
		"c": {"b"},
	}}}}

	tree, err := team.BuildSubtree(ctx, "a", 0)
	require.NoError(t, err)
	require.Len(t, tree.Children, 1)
	b := tree.Children[0]
	require.Equal(t, "b", b.ID)
	require.Equal(t, 2, b.ChildrenCount)
	require.Len(t, b.Children, 1)
	require.Equal(t, "c", b.Children[0].ID)
	require.Empty(t, b.Children[0].Children)
}

func TestStats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	owner := seedOwner(t, st)
	team := &TeamService{Store: st}

	child := addMember(t, st, owner)
	addMember(t, st, owner)
	addMember(t, st, child)

	stats, err := team.Stats(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, domain.Stats{DirectChildren: 2, TotalDownline: 3, Level: 0, IsOwner: true}, stats)

	stats, err = team.Stats(ctx, child)
	require.NoError(t, err)
	require.Equal(t, domain.Stats{DirectChildren: 1, TotalDownline: 1, Level: 1}, stats)
}

func TestCountDescendants_Cache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	owner := seedOwner(t, st)
	addMember(t, st, owner)

	cache := newMemCache()
	team := &TeamService{Store: st, Cache: cache}

	n, err := team.CountDescendants(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, 1, cache.entries[owner.ID])

	// A cached value wins over the store until invalidated.
	cache.entries[owner.ID] = 42
	n, err = team.CountDescendants(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, 42, n)

	cache.failing = true
	n, err = team.CountDescendants(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, 1, n, "a failing cache falls through to the store")
}

func TestCountDescendants_LateWriteAfterInvalidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	owner := seedOwner(t, st)
	addMember(t, st, owner)

	cache := newMemCache()
	team := &TeamService{Store: st, Cache: cache}

	// A registration commits and invalidates after the count was taken
	// but before it reaches the cache.
	cache.beforeSet = func() {
		late := addMember(t, st, owner)
		team.InvalidateAncestors(ctx, late)
	}

	n, err := team.CountDescendants(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	n, err = team.CountDescendants(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, 2, n, "a count written under an older generation is a miss")

	stats, err := team.Stats(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, 2, stats.DirectChildren)
	require.Equal(t, 2, stats.TotalDownline)
}
