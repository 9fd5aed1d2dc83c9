package schema

import (
	"encoding/json"
	"fmt"
)

// TreeNode is a node of the file hierarchy. A node is either interior
// (named, ordered children, no score) or a leaf (named, size and score).
type TreeNode struct {
	Name     string
	Children []*TreeNode // interior only, in insertion order
	Size     int         // leaf only
	Score    float64     // leaf only
	leaf     bool
}

// NewBranch returns an interior node with no children.
func NewBranch(name string) *TreeNode {
	return &TreeNode{Name: name, Children: []*TreeNode{}}
}

// NewLeaf returns a leaf node.
func NewLeaf(name string, size int, score float64) *TreeNode {
	return &TreeNode{Name: name, Size: size, Score: score, leaf: true}
}

// IsLeaf reports whether the node is a leaf.
func (n *TreeNode) IsLeaf() bool {
	return n.leaf
}

// Clone returns a deep copy of the subtree rooted at n.
func (n *TreeNode) Clone() *TreeNode {
	if n == nil {
		return nil
	}
	clone := *n
	if !n.leaf {
		clone.Children = make([]*TreeNode, len(n.Children))
		for i, c := range n.Children {
			clone.Children[i] = c.Clone()
		}
	}
	return &clone
}

// LeafCount returns the number of leaves under n (1 if n is a leaf).
func (n *TreeNode) LeafCount() int {
	if n.leaf {
		return 1
	}
	total := 0
	for _, c := range n.Children {
		total += c.LeafCount()
	}
	return total
}

type jsonTreeNode struct {
	Name     string      `json:"name"`
	Children []*TreeNode `json:"children"`
	Value    *int        `json:"value"`
	Score    *float64    `json:"score"`
}

// MarshalJSON encodes interior nodes as {name, children} and leaves as
// {name, value, score}. Interior nodes always carry a children array.
func (n *TreeNode) MarshalJSON() ([]byte, error) {
	if n.leaf {
		return json.Marshal(struct {
			Name  string  `json:"name"`
			Value int     `json:"value"`
			Score float64 `json:"score"`
		}{n.Name, n.Size, n.Score})
	}
	children := n.Children
	if children == nil {
		children = []*TreeNode{}
	}
	return json.Marshal(struct {
		Name     string      `json:"name"`
		Children []*TreeNode `json:"children"`
	}{n.Name, children})
}

// UnmarshalJSON decodes a node; the presence of a children key marks it interior.
func (n *TreeNode) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var raw jsonTreeNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if _, ok := fields["children"]; ok {
		*n = TreeNode{Name: raw.Name, Children: raw.Children}
		if n.Children == nil {
			n.Children = []*TreeNode{}
		}
		return nil
	}
	if raw.Value == nil || raw.Score == nil {
		return fmt.Errorf("tree node %q has neither children nor value/score", raw.Name)
	}
	*n = TreeNode{Name: raw.Name, Size: *raw.Value, Score: *raw.Score, leaf: true}
	return nil
}
