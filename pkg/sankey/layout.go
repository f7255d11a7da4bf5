// Package sankey computes screen geometry for the flow graph: column
// placement, proportional node heights, link thicknesses and curve paths.
// It renders nothing itself; callers turn the placed geometry into SVG,
// canvas pixels or terminal text.
package sankey

import (
	"fmt"
	"math"
	"sort"

	"github.com/amielsh/centsible/pkg/flow"
)

// Options control the layout pass. Zero values pick the defaults.
type Options struct {
	ContainerWidth float64 // available width; 0 disables fitting
	NodeWidth      float64 // default 18
	NodeGap        float64 // vertical gap between stacked nodes, default 12
	MaxHeight      float64 // target diagram height, default 360
	CompactWidth   float64 // below this the list fallback kicks in, default 420
}

// PlacedNode is a node with final geometry.
type PlacedNode struct {
	flow.Node
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PlacedLink is a link with thickness and a cubic curve path.
type PlacedLink struct {
	flow.Link
	Thickness float64 `json:"thickness"`
	Path      string  `json:"path"`
}

// ColumnGroup backs the compact list fallback: nodes of one column, sorted
// by value descending.
type ColumnGroup struct {
	Column int         `json:"column"`
	Nodes  []flow.Node `json:"nodes"`
}

// Diagram is the layout result. When Compact is set the geometry slices are
// empty and Columns carries the list-view grouping instead: below the
// legibility threshold micro-text is worse than no diagram.
type Diagram struct {
	Nodes   []PlacedNode  `json:"nodes,omitempty"`
	Links   []PlacedLink  `json:"links,omitempty"`
	Columns []ColumnGroup `json:"columns,omitempty"`
	Width   float64       `json:"width"`
	Height  float64       `json:"height"`
	Scale   float64       `json:"scale"` // uniform downscale applied, never above 1
	Compact bool          `json:"compact"`
}

const (
	minNodeHeight         = 18
	minNodeHeightSubtitle = 30
	baseColumnSpacing     = 80
	perNodeColumnSpacing  = 8
)

// Layout places the graph. Nodes with duplicate ids are dropped (first
// occurrence wins) before any geometry is computed.
func Layout(nodes []flow.Node, links []flow.Link, opts Options) *Diagram {
	opts = withDefaults(opts)

	nodes = dedupe(nodes)
	if len(nodes) == 0 {
		return &Diagram{Scale: 1}
	}

	columns := groupColumns(nodes)

	if opts.ContainerWidth > 0 && opts.ContainerWidth < opts.CompactWidth {
		return &Diagram{Columns: columns, Compact: true, Scale: 1, Width: opts.ContainerWidth}
	}

	// Shared vertical scale: the busiest column's total value fills the
	// available height once gaps are taken out.
	busiestValue, busiestCount := 0.0, 0
	for _, col := range columns {
		total := 0.0
		for _, n := range col.Nodes {
			total += n.Value
		}
		if total > busiestValue {
			busiestValue = total
		}
		if len(col.Nodes) > busiestCount {
			busiestCount = len(col.Nodes)
		}
	}
	gaps := float64(busiestCount-1) * opts.NodeGap
	vscale := (opts.MaxHeight - gaps) / math.Max(busiestValue, 1)

	spacing := opts.NodeWidth + baseColumnSpacing + perNodeColumnSpacing*float64(busiestCount)
	neededWidth := float64(len(columns)-1)*spacing + opts.NodeWidth

	// Fit to the container by uniform downscale only; a sparse diagram is
	// never stretched past its natural size.
	scale := 1.0
	if opts.ContainerWidth > 0 && neededWidth > opts.ContainerWidth {
		scale = opts.ContainerWidth / neededWidth
	}

	diagram := &Diagram{Scale: scale}
	placed := make(map[string]*PlacedNode, len(nodes))

	maxBottom := 0.0
	for ci, col := range columns {
		y := 0.0
		for _, n := range col.Nodes {
			h := n.Value * vscale
			minH := float64(minNodeHeight)
			if n.Subtitle != "" {
				minH = minNodeHeightSubtitle
			}
			if h < minH {
				h = minH
			}
			pn := PlacedNode{
				Node:   n,
				X:      float64(ci) * spacing * scale,
				Y:      y * scale,
				Width:  opts.NodeWidth * scale,
				Height: h * scale,
			}
			diagram.Nodes = append(diagram.Nodes, pn)
			placed[n.ID] = &diagram.Nodes[len(diagram.Nodes)-1]
			y += h + opts.NodeGap
			if y*scale > maxBottom {
				maxBottom = y * scale
			}
		}
	}

	diagram.Width = neededWidth * scale
	diagram.Height = maxBottom

	// Running offsets per node side keep multiple links anchored without
	// overlapping.
	outUsed := make(map[string]float64, len(placed))
	inUsed := make(map[string]float64, len(placed))
	for _, l := range links {
		src, okS := placed[l.Source]
		dst, okT := placed[l.Target]
		if !okS || !okT {
			continue
		}
		thickness := l.Value * vscale * scale
		y0 := src.Y + outUsed[l.Source] + thickness/2
		y1 := dst.Y + inUsed[l.Target] + thickness/2
		outUsed[l.Source] += thickness
		inUsed[l.Target] += thickness

		x0 := src.X + src.Width
		x1 := dst.X
		mid := (x0 + x1) / 2
		diagram.Links = append(diagram.Links, PlacedLink{
			Link:      l,
			Thickness: thickness,
			Path:      fmt.Sprintf("M%.1f,%.1f C%.1f,%.1f %.1f,%.1f %.1f,%.1f", x0, y0, mid, y0, mid, y1, x1, y1),
		})
	}

	return diagram
}

func withDefaults(opts Options) Options {
	if opts.NodeWidth <= 0 {
		opts.NodeWidth = 18
	}
	if opts.NodeGap <= 0 {
		opts.NodeGap = 12
	}
	if opts.MaxHeight <= 0 {
		opts.MaxHeight = 360
	}
	if opts.CompactWidth <= 0 {
		opts.CompactWidth = 420
	}
	return opts
}

func dedupe(nodes []flow.Node) []flow.Node {
	seen := make(map[string]bool, len(nodes))
	var out []flow.Node
	for _, n := range nodes {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		out = append(out, n)
	}
	return out
}

// groupColumns buckets nodes by column index and sorts each bucket by value
// descending, label ascending for stable output.
func groupColumns(nodes []flow.Node) []ColumnGroup {
	byColumn := make(map[int][]flow.Node)
	for _, n := range nodes {
		byColumn[n.Column] = append(byColumn[n.Column], n)
	}

	indices := make([]int, 0, len(byColumn))
	for c := range byColumn {
		indices = append(indices, c)
	}
	sort.Ints(indices)

	groups := make([]ColumnGroup, 0, len(indices))
	for _, c := range indices {
		col := byColumn[c]
		sort.Slice(col, func(i, j int) bool {
			if col[i].Value != col[j].Value {
				return col[i].Value > col[j].Value
			}
			return col[i].Label < col[j].Label
		})
		groups = append(groups, ColumnGroup{Column: c, Nodes: col})
	}
	return groups
}
