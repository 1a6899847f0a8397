package octagon

import "fmt"

// VertexInfo describes one vertex of the internal constraint graph, for
// octagon/visual's Graphviz rendering (spec.md §4.11).
type VertexInfo struct {
	ID    int
	Label string
}

// EdgeInfo describes one directed edge of the internal constraint graph,
// read per the package's own convention: value(To) - value(From) <= Weight.
type EdgeInfo struct {
	From, To int
	Weight   int
}

// DebugGraph exposes the raw vertex/edge structure of d's internal
// constraint graph. Not part of the NumericalDomain contract: a debugging
// hook only, consumed by octagon/visual rather than by any transfer
// function.
func (d *Domain) DebugGraph() ([]VertexInfo, []EdgeInfo) {
	verts := make([]VertexInfo, 0, len(d.g.Verts()))
	for _, v := range d.g.Verts() {
		sign := "+"
		if v%2 != 0 {
			sign = "-"
		}
		label := fmt.Sprintf("v%d%s", v/2, sign)
		if name, ok := d.revMap[v]; ok {
			label = name.String() + sign
		}
		verts = append(verts, VertexInfo{ID: int(v), Label: label})
	}
	var edges []EdgeInfo
	for _, u := range d.g.Verts() {
		for _, e := range d.g.ESuccs(u) {
			edges = append(edges, EdgeInfo{From: int(u), To: int(e.Vert), Weight: e.Weight})
		}
	}
	return verts, edges
}
