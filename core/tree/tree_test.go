package tree

import (
	"testing"

	"github.com/sprawl-dev/sprawl/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(nodes []*schema.TreeNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

func TestBuildEmpty(t *testing.T) {
	root, skipped := Build(nil)
	require.NotNil(t, root)
	assert.Equal(t, "root", root.Name)
	assert.False(t, root.IsLeaf())
	assert.Empty(t, root.Children)
	assert.Empty(t, skipped)
}

func TestBuildNested(t *testing.T) {
	root, skipped := Build([]Entry{
		{Path: "src/app/main.ts", LinesOfCode: 120, SprawlScore: 1.4},
		{Path: "src/app/util.ts", LinesOfCode: 0, SprawlScore: 0.2},
		{Path: "README.md", LinesOfCode: 10, SprawlScore: 0},
	})
	assert.Empty(t, skipped)

	require.Len(t, root.Children, 2)
	assert.Equal(t, []string{"src", "README.md"}, names(root.Children))

	app := root.Children[0].Children[0]
	assert.Equal(t, "app", app.Name)
	require.Len(t, app.Children, 2)

	main := app.Children[0]
	assert.True(t, main.IsLeaf())
	assert.Equal(t, 120, main.Size)
	assert.InDelta(t, 70.0, main.Score, 1e-9)

	util := app.Children[1]
	assert.Equal(t, 1, util.Size, "zero LOC still gets a visible area")
	assert.InDelta(t, 10.0, util.Score, 1e-9)
}

func TestBuildPathNormalization(t *testing.T) {
	tests := []struct {
		name string
		path string
		want []string
	}{
		{"backslashes", `src\app\main.ts`, []string{"src", "app", "main.ts"}},
		{"leading slash", "/src/main.ts", []string{"src", "main.ts"}},
		{"double slash", "src//main.ts", []string{"src", "main.ts"}},
		{"trailing slash", "src/main.ts/", []string{"src", "main.ts"}},
		{"mixed", `src\/app//x`, []string{"src", "app", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitPath(tt.path))

			root, _ := Build([]Entry{{Path: tt.path, LinesOfCode: 1}})
			node := root
			for _, seg := range tt.want {
				require.Len(t, node.Children, 1)
				node = node.Children[0]
				assert.Equal(t, seg, node.Name)
			}
			assert.True(t, node.IsLeaf())
		})
	}
}

func TestBuildMalformedSkipped(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add(Entry{Path: "a.go", LinesOfCode: 1}))

	for _, p := range []string{"", "/", `\\`, "//"} {
		err := b.Add(Entry{Path: p})
		assert.ErrorIs(t, err, ErrMalformedPath)
	}
	require.NoError(t, b.Add(Entry{Path: "b.go", LinesOfCode: 1}))

	root := b.Build()
	assert.Equal(t, []string{"a.go", "b.go"}, names(root.Children))
	assert.Len(t, b.Skipped(), 4)
}

func TestBuildNoDeduplication(t *testing.T) {
	root, _ := Build([]Entry{
		{Path: "src/a.go", LinesOfCode: 5, SprawlScore: 1},
		{Path: "src/a.go", LinesOfCode: 7, SprawlScore: 2},
	})

	require.Len(t, root.Children, 1)
	src := root.Children[0]
	require.Len(t, src.Children, 2)
	assert.Equal(t, 5, src.Children[0].Size)
	assert.Equal(t, 7, src.Children[1].Size)
}

func TestBuildInsertionOrder(t *testing.T) {
	root, _ := Build([]Entry{
		{Path: "z/1"},
		{Path: "a/1"},
		{Path: "z/2"},
		{Path: "m"},
	})

	assert.Equal(t, []string{"z", "a", "m"}, names(root.Children))
	assert.Equal(t, []string{"1", "2"}, names(root.Children[0].Children))
}

func TestBuildFileAndFolderShareName(t *testing.T) {
	root, _ := Build([]Entry{
		{Path: "lib", LinesOfCode: 3},
		{Path: "lib/x.go", LinesOfCode: 4},
	})

	require.Len(t, root.Children, 2)
	assert.True(t, root.Children[0].IsLeaf())
	assert.False(t, root.Children[1].IsLeaf())
	assert.Equal(t, "x.go", root.Children[1].Children[0].Name)
}

func TestBuildFromRecords(t *testing.T) {
	root, skipped := BuildFromRecords([]schema.FileDebtRecord{
		{Path: "pkg/a.go", LinesOfCode: 10, SprawlScore: 2},
		{Path: ""},
	})

	assert.Equal(t, []string{""}, skipped)
	require.Len(t, root.Children, 1)
	assert.Equal(t, 100.0, root.Children[0].Children[0].Score)
}
