package graph

import "github.com/spakin/disjoint"

// View is the read query surface shared by *Weighted, GrPerm and
// SplitGraph, letting the C2 operations below run over any of them.
type View interface {
	ESuccs(v VertexID) []Edge
	EPreds(v VertexID) []Edge
	Verts() []VertexID
}

// Meet builds a new graph over the union of a's and b's vertices, taking
// the minimum weight on edges common to both (spec.md §4.3). Both operands
// must already share a vertex numbering (e.g. via GrPerm views built by the
// caller against a common id space).
func Meet(a, b View, numVerts int) (*Weighted, []Delta) {
	out := New()
	out.GrowTo(numVerts)
	for i := 0; i < numVerts; i++ {
		out.NewVertex()
	}

	var newEdges []Delta
	seen := map[[2]VertexID]bool{}

	install := func(u VertexID, e Edge, otherHas func(u, v VertexID) (int, bool)) {
		key := [2]VertexID{u, e.Vert}
		if seen[key] {
			return
		}
		seen[key] = true
		w := e.Weight
		wasNew := true
		if ow, ok := otherHas(u, e.Vert); ok {
			if ow < w {
				w = ow
			}
			wasNew = false
		}
		out.SetEdge(u, w, e.Vert)
		if wasNew {
			newEdges = append(newEdges, Delta{u, e.Vert, w})
		}
	}

	lookupIn := func(v View) func(u, w VertexID) (int, bool) {
		return func(u, w VertexID) (int, bool) {
			for _, e := range v.ESuccs(u) {
				if e.Vert == w {
					return e.Weight, true
				}
			}
			return 0, false
		}
	}

	for _, v := range a.Verts() {
		for _, e := range a.ESuccs(v) {
			install(v, e, lookupIn(b))
		}
	}
	for _, v := range b.Verts() {
		for _, e := range b.ESuccs(v) {
			install(v, e, lookupIn(a))
		}
	}

	return out, newEdges
}

// Join builds a new graph containing, for each edge present in both a and
// b, the pointwise maximum of their weights; edges present in only one
// operand are dropped, per the weakening semantics of join (spec.md §4.3).
func Join(a, b View, numVerts int) *Weighted {
	out := New()
	out.GrowTo(numVerts)
	for i := 0; i < numVerts; i++ {
		out.NewVertex()
	}

	bWeight := func(u, v VertexID) (int, bool) {
		for _, e := range b.ESuccs(u) {
			if e.Vert == v {
				return e.Weight, true
			}
		}
		return 0, false
	}

	for _, v := range a.Verts() {
		for _, e := range a.ESuccs(v) {
			if bw, ok := bWeight(v, e.Vert); ok {
				out.SetEdge(v, max(e.Weight, bw), e.Vert)
			}
		}
	}
	return out
}

// Widen builds the widened graph of a with respect to b: an edge of a
// survives only if b has an equal-or-tighter edge on the same pair
// (spec.md §4.3); every other edge is dropped (extrapolated to infinity).
// It returns the widened graph and the set of vertices whose incident
// edges changed (to be marked unstable for later restabilization).
func Widen(a, b View, numVerts int) (*Weighted, map[VertexID]bool) {
	out := New()
	out.GrowTo(numVerts)
	for i := 0; i < numVerts; i++ {
		out.NewVertex()
	}

	bWeight := func(u, v VertexID) (int, bool) {
		for _, e := range b.ESuccs(u) {
			if e.Vert == v {
				return e.Weight, true
			}
		}
		return 0, false
	}

	unstable := map[VertexID]bool{}
	for _, v := range a.Verts() {
		for _, e := range a.ESuccs(v) {
			if bw, ok := bWeight(v, e.Vert); ok && bw <= e.Weight {
				out.SetEdge(v, e.Weight, e.Vert)
			} else {
				unstable[v] = true
				unstable[e.Vert] = true
			}
		}
	}
	return out, unstable
}

// ConnectedComponents partitions verts into weakly-connected components
// using union-find (grounded on the same github.com/spakin/disjoint library
// the teacher uses for points-to set merging in analysis/gotopo/pset.go).
// Used by the split-octagon join to identify orphan vertices no longer
// reachable from any live variable after garbage collection (spec.md §4.5).
func ConnectedComponents(g *Weighted, verts []VertexID) map[VertexID][]VertexID {
	elems := make(map[VertexID]*disjoint.Element, len(verts))
	for _, v := range verts {
		elems[v] = disjoint.NewElement()
	}
	for _, v := range verts {
		for _, e := range g.ESuccs(v) {
			if other, ok := elems[e.Vert]; ok {
				disjoint.Union(elems[v], other)
			}
		}
	}

	groups := map[*disjoint.Element][]VertexID{}
	for _, v := range verts {
		root := elems[v].Find()
		groups[root] = append(groups[root], v)
	}

	out := map[VertexID][]VertexID{}
	for _, members := range groups {
		rep := members[0]
		out[rep] = members
	}
	return out
}
