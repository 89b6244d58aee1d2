package domain

// DefaultTreeDepth is the number of levels, root included, materialized by a
// team tree request.
const DefaultTreeDepth = 10

type TreeNode struct {
	ID            string
	Name          string
	Phone         string
	Level         int
	ChildrenCount int // stored children, even when the branch is truncated
	Children      []*TreeNode
}

// Depth returns the number of levels in the subtree rooted at n.
func (n *TreeNode) Depth() int {
	if n == nil {
		return 0
	}
	deepest := 0
	for _, c := range n.Children {
		deepest = max(deepest, c.Depth())
	}
	return deepest + 1
}

type Stats struct {
	DirectChildren int
	TotalDownline  int
	Level          int
	IsOwner        bool
}
