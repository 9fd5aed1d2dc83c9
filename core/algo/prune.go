package algo

import (
	"cmp"
	"slices"

	"github.com/sprawl-dev/sprawl/schema"
)

// Importance returns the rendering weight of a node: size*score for a leaf,
// the sum over all descendant leaves for an interior node.
func Importance(n *schema.TreeNode) float64 {
	if n.IsLeaf() {
		return float64(n.Size) * n.Score
	}
	var total float64
	for _, c := range n.Children {
		total += Importance(c)
	}
	return total
}

// Prune limits the breadth of the root's direct children. When there are more
// than 'limit' children, the top 'limit' by importance are kept, followed by
// up to SevereSurvivorCap of the remaining children whose own score exceeds
// SevereScoreThreshold. Deeper levels are copied as-is. The input is never
// modified; a non-positive limit disables pruning.
func Prune(root *schema.TreeNode, limit int) *schema.TreeNode {
	if root == nil {
		return nil
	}
	pruned := root.Clone()
	if pruned.IsLeaf() || limit <= 0 || len(pruned.Children) <= limit {
		return pruned
	}

	// 1. Rank children by importance, keeping input order on ties
	type ranked struct {
		node       *schema.TreeNode
		importance float64
	}
	items := make([]ranked, len(pruned.Children))
	for i, c := range pruned.Children {
		items[i] = ranked{node: c, importance: Importance(c)}
	}
	slices.SortStableFunc(items, func(a, b ranked) int {
		return cmp.Compare(b.importance, a.importance)
	})

	// 2. Keep the top items
	children := make([]*schema.TreeNode, 0, limit)
	for _, it := range items[:limit] {
		children = append(children, it.node)
	}

	// 3. Let severe leaves from the remainder survive, in ranked order
	survivors := 0
	for _, it := range items[limit:] {
		if survivors == schema.SevereSurvivorCap {
			break
		}
		if it.node.IsLeaf() && it.node.Score > schema.SevereScoreThreshold {
			children = append(children, it.node)
			survivors++
		}
	}

	pruned.Children = children
	return pruned
}

// HiddenCount returns how many direct children of original are absent from pruned.
func HiddenCount(original, pruned *schema.TreeNode) int {
	if original == nil || pruned == nil {
		return 0
	}
	return max(len(original.Children)-len(pruned.Children), 0)
}

// TotalSize returns the summed size of all leaves under n.
func TotalSize(n *schema.TreeNode) int {
	if n.IsLeaf() {
		return n.Size
	}
	total := 0
	for _, c := range n.Children {
		total += TotalSize(c)
	}
	return total
}

// WeightedScore returns the size-weighted mean leaf score under n,
// on the same 0..100 scale as leaf scores.
func WeightedScore(n *schema.TreeNode) float64 {
	size := TotalSize(n)
	if size == 0 {
		return 0
	}
	return Importance(n) / float64(size)
}
