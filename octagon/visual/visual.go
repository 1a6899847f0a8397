// Package visual renders an octagon.Domain's internal constraint graph to
// Graphviz DOT, and optionally to an image via goccy/go-graphviz (spec.md
// §4.11, a debugging aid rather than a domain operation). Grounded on the
// teacher's analysis/cfg.Visualize (one dot.DotNode per graph vertex, one
// dot.DotEdge per graph edge) and utils/dot's DotGraph/DotToImage.
package visual

import (
	"bytes"
	"fmt"
	"io"

	"github.com/k-vikingsson/soct/octagon"
	"github.com/k-vikingsson/soct/utils/dot"
)

// Dot builds a dot.DotGraph mirroring d's internal constraint graph: one
// node per vertex (labeled with its variable and sign), one edge per
// internal delta constraint (labeled with its weight).
func Dot(d *octagon.Domain) *dot.DotGraph {
	verts, edges := d.DebugGraph()

	g := &dot.DotGraph{
		Title:   "octagon",
		Options: map[string]string{"rankdir": "LR"},
	}

	nodeByID := make(map[int]*dot.DotNode, len(verts))
	for _, v := range verts {
		n := &dot.DotNode{
			ID:    fmt.Sprintf("v%d", v.ID),
			Attrs: dot.DotAttrs{"label": v.Label},
		}
		nodeByID[v.ID] = n
		g.Nodes = append(g.Nodes, n)
	}
	for _, e := range edges {
		g.Edges = append(g.Edges, &dot.DotEdge{
			From:  nodeByID[e.From],
			To:    nodeByID[e.To],
			Attrs: dot.DotAttrs{"label": fmt.Sprintf("%d", e.Weight)},
		})
	}
	return g
}

// WriteDot writes d's constraint graph in Graphviz DOT format to w.
func WriteDot(d *octagon.Domain, w io.Writer) error {
	return Dot(d).WriteDot(w)
}

// RenderImage renders d's constraint graph to an image file at outPath (or
// a temp file if outPath is empty) in the given Graphviz format ("svg",
// "png", ...), via dot.DotToImage.
func RenderImage(d *octagon.Domain, outPath, format string) (string, error) {
	var buf bytes.Buffer
	if err := WriteDot(d, &buf); err != nil {
		return "", err
	}
	return dot.DotToImage(outPath, format, buf.Bytes())
}
