package sankey

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amielsh/centsible/pkg/flow"
)

func testNodes() []flow.Node {
	return []flow.Node{
		{ID: "income:Paycheck", Label: "Paycheck", Value: 3000, Column: 0},
		{ID: "income:Refund", Label: "Refund", Value: 120, Column: 0},
		{ID: "cash-flow", Label: "Cash flow", Value: 3120, Column: 1},
		{ID: "expense:Housing", Label: "Housing", Value: 1400, Column: 2},
		{ID: "expense:Groceries", Label: "Groceries", Value: 500, Column: 2},
		{ID: "savings", Label: "Savings", Value: 1220, Column: 2},
	}
}

func testLinks() []flow.Link {
	return []flow.Link{
		{Source: "income:Paycheck", Target: "cash-flow", Value: 3000},
		{Source: "income:Refund", Target: "cash-flow", Value: 120},
		{Source: "cash-flow", Target: "expense:Housing", Value: 1400},
		{Source: "cash-flow", Target: "expense:Groceries", Value: 500},
		{Source: "cash-flow", Target: "savings", Value: 1220},
	}
}

func TestLayoutColumnsSortedByValue(t *testing.T) {
	d := Layout(testNodes(), testLinks(), Options{})
	require.NotEmpty(t, d.Nodes)

	// Nodes are emitted column by column, largest first within each.
	var col2 []PlacedNode
	for _, n := range d.Nodes {
		if n.Column == 2 {
			col2 = append(col2, n)
		}
	}
	require.Len(t, col2, 3)
	assert.Equal(t, "expense:Housing", col2[0].ID)
	assert.Equal(t, "savings", col2[1].ID)
	assert.Equal(t, "expense:Groceries", col2[2].ID)

	// Stacking goes top down.
	assert.Less(t, col2[0].Y, col2[1].Y)
	assert.Less(t, col2[1].Y, col2[2].Y)
}

func TestLayoutBusiestColumnFillsHeight(t *testing.T) {
	d := Layout(testNodes(), testLinks(), Options{MaxHeight: 360, NodeGap: 12})

	// Column 1 has a single node carrying the full total; it should span the
	// target height exactly since no gaps apply and no min-height kicks in.
	var central PlacedNode
	for _, n := range d.Nodes {
		if n.ID == "cash-flow" {
			central = n
		}
	}
	// Busiest column is column 2 (3 nodes, two gaps).
	assert.InDelta(t, 3120*(360-2*12)/3120.0, central.Height, 0.001)
}

func TestLayoutMinimumNodeHeights(t *testing.T) {
	nodes := []flow.Node{
		{ID: "big", Value: 10000, Column: 0},
		{ID: "tiny", Value: 1, Column: 0},
		{ID: "tiny-sub", Value: 1, Column: 0, Subtitle: "0%"},
	}
	d := Layout(nodes, nil, Options{})

	heights := map[string]float64{}
	for _, n := range d.Nodes {
		heights[n.ID] = n.Height
	}
	assert.InDelta(t, 18, heights["tiny"], 0.001)
	assert.InDelta(t, 30, heights["tiny-sub"], 0.001)
	assert.Greater(t, heights["big"], heights["tiny-sub"])
}

func TestLayoutNeverUpscales(t *testing.T) {
	d := Layout(testNodes(), testLinks(), Options{ContainerWidth: 5000})
	assert.Equal(t, 1.0, d.Scale)
	assert.Less(t, d.Width, 5000.0)
}

func TestLayoutDownscalesToFit(t *testing.T) {
	// Four columns with a busy middle column push the natural width past the
	// container without tripping the compact fallback.
	nodes := []flow.Node{
		{ID: "a", Value: 100, Column: 0},
		{ID: "hub", Value: 100, Column: 1},
		{ID: "c1", Value: 30, Column: 2},
		{ID: "c2", Value: 25, Column: 2},
		{ID: "c3", Value: 20, Column: 2},
		{ID: "c4", Value: 15, Column: 2},
		{ID: "c5", Value: 6, Column: 2},
		{ID: "c6", Value: 4, Column: 2},
		{ID: "d", Value: 10, Column: 3},
	}
	wide := Layout(nodes, nil, Options{})
	require.Greater(t, wide.Width, 430.0)

	d := Layout(nodes, nil, Options{ContainerWidth: 430})
	assert.Less(t, d.Scale, 1.0)
	assert.InDelta(t, 430, d.Width, 0.001)
}

func TestLayoutCompactFallback(t *testing.T) {
	d := Layout(testNodes(), testLinks(), Options{ContainerWidth: 300})
	assert.True(t, d.Compact)
	assert.Empty(t, d.Nodes)
	assert.Empty(t, d.Links)
	require.Len(t, d.Columns, 3)
	assert.Equal(t, "income:Paycheck", d.Columns[0].Nodes[0].ID)
}

func TestLayoutLinkOffsetsStack(t *testing.T) {
	d := Layout(testNodes(), testLinks(), Options{})

	var fromCentral []PlacedLink
	for _, l := range d.Links {
		if l.Source == "cash-flow" {
			fromCentral = append(fromCentral, l)
		}
	}
	require.Len(t, fromCentral, 3)

	// Each outgoing link starts below the previous one on the source node.
	total := 0.0
	for i, l := range fromCentral {
		assert.Greater(t, l.Thickness, 0.0)
		if i > 0 {
			prev := fromCentral[i-1]
			assert.Greater(t, yStart(t, l.Path), yStart(t, prev.Path))
		}
		total += l.Value
	}
	assert.InDelta(t, 3120, total, 0.001)
}

func TestLayoutLinkPathShape(t *testing.T) {
	d := Layout(testNodes(), testLinks(), Options{})
	require.NotEmpty(t, d.Links)
	for _, l := range d.Links {
		assert.True(t, strings.HasPrefix(l.Path, "M"), "path %q", l.Path)
		assert.Contains(t, l.Path, "C")
	}
}

func TestLayoutDropsDuplicateIDs(t *testing.T) {
	nodes := []flow.Node{
		{ID: "dup", Label: "first", Value: 100, Column: 0},
		{ID: "dup", Label: "second", Value: 999, Column: 1},
	}
	d := Layout(nodes, nil, Options{})
	require.Len(t, d.Nodes, 1)
	assert.Equal(t, "first", d.Nodes[0].Label)
}

func TestLayoutEmptyGraph(t *testing.T) {
	d := Layout(nil, nil, Options{})
	assert.Empty(t, d.Nodes)
	assert.Equal(t, 1.0, d.Scale)
}

// yStart pulls the M x,y start coordinate's y out of a path string.
func yStart(t *testing.T, path string) float64 {
	t.Helper()
	var x, y float64
	_, err := fmt.Sscanf(path, "M%f,%f", &x, &y)
	require.NoError(t, err)
	return y
}
