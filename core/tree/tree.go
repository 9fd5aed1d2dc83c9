// Package tree builds the file hierarchy of a scan from flat per-file records.
package tree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sprawl-dev/sprawl/schema"
)

// ErrMalformedPath is returned for paths with no non-empty segment.
var ErrMalformedPath = errors.New("malformed path")

// Entry is one file to place in the hierarchy.
type Entry struct {
	Path        string
	LinesOfCode int
	SprawlScore float64
}

// EntryFromRecord converts a debt record into a hierarchy entry.
func EntryFromRecord(r schema.FileDebtRecord) Entry {
	return Entry{Path: r.Path, LinesOfCode: r.LinesOfCode, SprawlScore: r.SprawlScore}
}

// Builder accumulates entries into a tree rooted at "root".
// Children keep first-encountered order and identical paths are not merged.
type Builder struct {
	root    *schema.TreeNode
	index   map[*schema.TreeNode]map[string]*schema.TreeNode // interior children by name
	skipped []string
}

// NewBuilder is the starting point for building a hierarchy.
func NewBuilder() *Builder {
	root := schema.NewBranch(schema.RootName)
	return &Builder{
		root:  root,
		index: map[*schema.TreeNode]map[string]*schema.TreeNode{root: {}},
	}
}

// Add places one entry in the tree. A path without segments is skipped and
// reported with ErrMalformedPath; the builder stays usable.
func (b *Builder) Add(e Entry) error {
	segments := SplitPath(e.Path)
	if len(segments) == 0 {
		b.skipped = append(b.skipped, e.Path)
		return fmt.Errorf("%w: %q", ErrMalformedPath, e.Path)
	}

	current := b.root
	for _, name := range segments[:len(segments)-1] {
		current = b.branch(current, name)
	}

	leafName := segments[len(segments)-1]
	leaf := schema.NewLeaf(leafName, schema.LeafSize(e.LinesOfCode), schema.LeafScore(e.SprawlScore))
	current.Children = append(current.Children, leaf)
	return nil
}

// branch returns the interior child of parent named name, creating it if needed.
// Leaves never match, so a file and a folder may share a name.
func (b *Builder) branch(parent *schema.TreeNode, name string) *schema.TreeNode {
	if child, ok := b.index[parent][name]; ok {
		return child
	}
	child := schema.NewBranch(name)
	parent.Children = append(parent.Children, child)
	b.index[parent][name] = child
	b.index[child] = map[string]*schema.TreeNode{}
	return child
}

// Build returns the tree built so far.
func (b *Builder) Build() *schema.TreeNode {
	return b.root
}

// Skipped returns the raw paths that were rejected as malformed.
func (b *Builder) Skipped() []string {
	return b.skipped
}

// Build places every entry into a fresh hierarchy. Malformed entries are
// skipped and their paths returned alongside the tree.
func Build(entries []Entry) (*schema.TreeNode, []string) {
	b := NewBuilder()
	for _, e := range entries {
		_ = b.Add(e)
	}
	return b.Build(), b.Skipped()
}

// BuildFromRecords builds a hierarchy directly from debt records.
func BuildFromRecords(records []schema.FileDebtRecord) (*schema.TreeNode, []string) {
	entries := make([]Entry, len(records))
	for i, r := range records {
		entries[i] = EntryFromRecord(r)
	}
	return Build(entries)
}

// SplitPath normalizes backslashes to slashes and returns the non-empty segments.
func SplitPath(path string) []string {
	normalized := strings.ReplaceAll(path, `\`, "/")
	var segments []string
	for s := range strings.SplitSeq(normalized, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}
