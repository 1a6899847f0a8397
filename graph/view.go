package graph

// GrPerm is a permuted view of a graph: its vertex i corresponds to the
// underlying graph's vertex Perm[i]. An entry of -1 represents an absent
// vertex with no incident edges (spec.md §4.2). Used by join/meet to place
// two graphs with independent vertex numberings into a shared vertex space
// without copying edge data.
type GrPerm struct {
	Perm []VertexID // Perm[i] == -1 means vertex i is absent
	G    *Weighted
}

const Absent VertexID = -1

func NewGrPerm(perm []VertexID, g *Weighted) GrPerm { return GrPerm{perm, g} }

func (p GrPerm) underlying(v VertexID) (VertexID, bool) {
	if int(v) < 0 || int(v) >= len(p.Perm) {
		return 0, false
	}
	u := p.Perm[v]
	return u, u != Absent
}

// reverse maps an underlying vertex back to its index in Perm, or -1.
func (p GrPerm) reverse(u VertexID) VertexID {
	for i, pu := range p.Perm {
		if pu == u {
			return VertexID(i)
		}
	}
	return Absent
}

func (p GrPerm) Lookup(u, v VertexID) (int, bool) {
	ru, ok1 := p.underlying(u)
	rv, ok2 := p.underlying(v)
	if !ok1 || !ok2 {
		return 0, false
	}
	return p.G.Lookup(ru, rv)
}

func (p GrPerm) Elem(u, v VertexID) bool { _, ok := p.Lookup(u, v); return ok }

func (p GrPerm) ESuccs(v VertexID) []Edge {
	rv, ok := p.underlying(v)
	if !ok {
		return nil
	}
	var out []Edge
	for _, e := range p.G.ESuccs(rv) {
		if i := p.reverse(e.Vert); i != Absent {
			out = append(out, Edge{i, e.Weight})
		}
	}
	return out
}

func (p GrPerm) EPreds(v VertexID) []Edge {
	rv, ok := p.underlying(v)
	if !ok {
		return nil
	}
	var out []Edge
	for _, e := range p.G.EPreds(rv) {
		if i := p.reverse(e.Vert); i != Absent {
			out = append(out, Edge{i, e.Weight})
		}
	}
	return out
}

func (p GrPerm) Verts() []VertexID {
	out := make([]VertexID, 0, len(p.Perm))
	for i, pu := range p.Perm {
		if pu != Absent {
			out = append(out, VertexID(i))
		}
	}
	return out
}

// SplitGraph excludes edges for which Exclude returns true, used to isolate
// diagonal self-edges (the v+ <-> v- unary-bound edges) from the relational
// edges during closure (spec.md §4.2).
type SplitGraph struct {
	G       *Weighted
	Exclude func(u, v VertexID) bool
}

func NewSplitGraph(g *Weighted, exclude func(u, v VertexID) bool) SplitGraph {
	return SplitGraph{g, exclude}
}

func (s SplitGraph) Lookup(u, v VertexID) (int, bool) {
	if s.Exclude(u, v) {
		return 0, false
	}
	return s.G.Lookup(u, v)
}

func (s SplitGraph) Elem(u, v VertexID) bool { _, ok := s.Lookup(u, v); return ok }

func (s SplitGraph) ESuccs(v VertexID) []Edge {
	var out []Edge
	for _, e := range s.G.ESuccs(v) {
		if !s.Exclude(v, e.Vert) {
			out = append(out, e)
		}
	}
	return out
}

func (s SplitGraph) EPreds(v VertexID) []Edge {
	var out []Edge
	for _, e := range s.G.EPreds(v) {
		if !s.Exclude(e.Vert, v) {
			out = append(out, e)
		}
	}
	return out
}
