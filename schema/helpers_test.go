package schema

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyScore(t *testing.T) {
	tests := []struct {
		score float64
		want  SprawlLevel
	}{
		{0, CleanLevel},
		{0.79, CleanLevel},
		{0.8, MildLevel}, // lower bound inclusive
		{1.19, MildLevel},
		{1.2, HighLevel},
		{1.59, HighLevel},
		{1.6, SevereLevel},
		{42, SevereLevel},
		{math.NaN(), SevereLevel},
		{math.Inf(1), SevereLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyScore(tt.score), "score %v", tt.score)
	}
}

func TestScanStatus(t *testing.T) {
	assert.False(t, PendingStatus.IsTerminal())
	assert.False(t, RunningStatus.IsTerminal())
	assert.True(t, CompletedStatus.IsTerminal())
	assert.True(t, FailedStatus.IsTerminal())

	assert.True(t, RunningStatus.IsValid())
	assert.False(t, ScanStatus("running").IsValid())
	assert.False(t, ScanStatus("").IsValid())
}

func TestLeafHelpers(t *testing.T) {
	assert.Equal(t, 1, LeafSize(0))
	assert.Equal(t, 1, LeafSize(-4))
	assert.Equal(t, 120, LeafSize(120))
	assert.InDelta(t, 60.0, LeafScore(1.2), 1e-9)

	assert.Equal(t, 0.0, GaugeProgress(0))
	assert.InDelta(t, 0.5, GaugeProgress(1), 1e-9)
	assert.Equal(t, 1.0, GaugeProgress(3.5))
}

func TestRecordValue(t *testing.T) {
	r := FileDebtRecord{NormalizedLOC: 1, ComplexityScore: 2, DuplicationRatio: 3, ResponsibilityScore: 4, CouplingScore: 5}
	for i, d := range AllDimensions {
		assert.Equal(t, float64(i+1), r.Value(d), "dimension %s", d)
	}
	assert.Equal(t, 0.0, r.Value(Dimension("X")))
	assert.Equal(t, "Coupling", CouplingDimension.Name())
}

func TestJobProgress(t *testing.T) {
	total, done := 10, 4
	p, ok := ScanJob{TotalFiles: &total, AnalyzedFiles: &done}.Progress()
	require.True(t, ok)
	assert.InDelta(t, 0.4, p, 1e-9)

	_, ok = ScanJob{}.Progress()
	assert.False(t, ok)
}

func TestTreeNodeJSON(t *testing.T) {
	root := NewBranch(RootName)
	src := NewBranch("src")
	src.Children = append(src.Children, NewLeaf("a.go", 10, 40))
	root.Children = append(root.Children, src, NewBranch("empty"))

	data, err := json.Marshal(root)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"root","children":[
		{"name":"src","children":[{"name":"a.go","value":10,"score":40}]},
		{"name":"empty","children":[]}
	]}`, string(data))

	var decoded TreeNode
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.False(t, decoded.IsLeaf())
	require.Len(t, decoded.Children, 2)
	leaf := decoded.Children[0].Children[0]
	assert.True(t, leaf.IsLeaf())
	assert.Equal(t, 10, leaf.Size)
	assert.Equal(t, 40.0, leaf.Score)
	assert.False(t, decoded.Children[1].IsLeaf())
	assert.Empty(t, decoded.Children[1].Children)

	var bad TreeNode
	assert.Error(t, json.Unmarshal([]byte(`{"name":"x"}`), &bad))
}

func TestTreeNodeClone(t *testing.T) {
	root := NewBranch(RootName)
	root.Children = append(root.Children, NewLeaf("a", 1, 1))

	clone := root.Clone()
	clone.Children[0].Score = 99
	clone.Children = append(clone.Children, NewLeaf("b", 1, 1))

	assert.Equal(t, 1.0, root.Children[0].Score)
	assert.Len(t, root.Children, 1)
	assert.Equal(t, 2, clone.LeafCount())
}
