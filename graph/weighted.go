// Package graph implements the weighted directed graph (spec.md C1) and its
// operations (C2): meet, join, widening and incremental shortest-path
// closure. Vertex identifiers are dense non-negative integers reused from a
// free list on removal, following the "cyclic graphs with reusable
// vertices" strategy of spec.md §9, and generalizing the adjacency-map
// style of the teacher's utils/graph package (which exposes a read-only,
// cached-edge query graph) into a mutable one with two adjacency tables per
// vertex, as spec.md §3 requires for the succs/preds coherence invariant.
package graph

import "math"

// VertexID is a dense, reusable vertex index.
type VertexID int

// Edge is an out-edge (or in-edge) with its endpoint and weight.
type Edge struct {
	Vert   VertexID
	Weight int
}

// Combiner merges an existing edge weight with a new one, e.g. for
// update_edge (spec.md §4.2). DefaultIsAbsorbing controls how a missing
// edge is treated: true means a missing edge behaves as +infinity (the
// identity element for min-style combiners, so the update always installs
// the new weight, i.e. "absorbing" the absence); false means UpdateEdge
// leaves a missing edge missing and only combines into an existing one.
type Combiner struct {
	Combine            func(existing, incoming int) int
	DefaultIsAbsorbing bool
}

// MinOp keeps the smaller of two weights, treating a missing edge as +inf.
var MinOp = Combiner{
	Combine:            func(a, b int) int { return min(a, b) },
	DefaultIsAbsorbing: true,
}

// MaxOp keeps the larger of two weights. It is not absorbing, so
// UpdateEdge with MaxOp only changes edges that already exist (join drops
// edges absent from either operand without calling it; the combiner is
// provided for update_edge callers that want max semantics).
var MaxOp = Combiner{
	Combine:            func(a, b int) int { return max(a, b) },
	DefaultIsAbsorbing: false,
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Weighted is a mutable weighted directed graph over dense vertex ids.
type Weighted struct {
	succs []map[VertexID]int
	preds []map[VertexID]int
	alive []bool
	free  []VertexID
}

// New returns an empty graph.
func New() *Weighted { return &Weighted{} }

// GrowTo ensures the graph has capacity for at least n vertices (0..n-1),
// marking any newly added slots as free (not alive) and pushing them onto
// the free list so that NewVertex hands them out in ascending order.
func (g *Weighted) GrowTo(n int) {
	start := len(g.alive)
	for len(g.alive) < n {
		g.alive = append(g.alive, false)
		g.succs = append(g.succs, nil)
		g.preds = append(g.preds, nil)
	}
	for v := n - 1; v >= start; v-- {
		g.free = append(g.free, VertexID(v))
	}
}

// NewVertex allocates a vertex id, reusing a freed one if available.
func (g *Weighted) NewVertex() VertexID {
	if n := len(g.free); n > 0 {
		v := g.free[n-1]
		g.free = g.free[:n-1]
		g.alive[v] = true
		g.succs[v] = map[VertexID]int{}
		g.preds[v] = map[VertexID]int{}
		return v
	}
	v := VertexID(len(g.alive))
	g.alive = append(g.alive, true)
	g.succs = append(g.succs, map[VertexID]int{})
	g.preds = append(g.preds, map[VertexID]int{})
	return v
}

// Forget removes v and every edge incident to it, and frees the id for reuse.
func (g *Weighted) Forget(v VertexID) {
	if !g.hasVertex(v) {
		return
	}
	for u := range g.preds[v] {
		delete(g.succs[u], v)
	}
	for w := range g.succs[v] {
		delete(g.preds[w], v)
	}
	g.succs[v] = nil
	g.preds[v] = nil
	g.alive[v] = false
	g.free = append(g.free, v)
}

// Clear removes every vertex and edge.
func (g *Weighted) Clear() {
	g.succs = nil
	g.preds = nil
	g.alive = nil
	g.free = nil
}

func (g *Weighted) hasVertex(v VertexID) bool {
	return int(v) >= 0 && int(v) < len(g.alive) && g.alive[v]
}

// AddEdge installs u->v with weight w only if no edge exists yet or the
// combiner (default MinOp) yields a strictly better weight; equivalent to
// UpdateEdge(u, w, v, MinOp) restricted to actually changing state.
func (g *Weighted) AddEdge(u VertexID, w int, v VertexID) {
	g.UpdateEdge(u, w, v, MinOp)
}

// SetEdge installs u->v with weight w unconditionally, overwriting any
// existing edge.
func (g *Weighted) SetEdge(u VertexID, w int, v VertexID) {
	g.succs[u][v] = w
	g.preds[v][u] = w
}

// UpdateEdge writes op.Combine(existing, w) onto edge u->v, treating a
// missing edge as +/-infinity per op.DefaultIsAbsorbing (spec.md §4.2).
func (g *Weighted) UpdateEdge(u VertexID, w int, v VertexID, op Combiner) {
	if existing, ok := g.succs[u][v]; ok {
		g.SetEdge(u, op.Combine(existing, w), v)
		return
	}
	if op.DefaultIsAbsorbing {
		g.SetEdge(u, w, v)
	}
}

// Lookup returns the weight of edge u->v, if any.
func (g *Weighted) Lookup(u, v VertexID) (int, bool) {
	if !g.hasVertex(u) {
		return 0, false
	}
	w, ok := g.succs[u][v]
	return w, ok
}

// Elem reports whether edge u->v exists.
func (g *Weighted) Elem(u, v VertexID) bool {
	_, ok := g.Lookup(u, v)
	return ok
}

// EdgeVal returns the weight of u->v, or +infinity (math.MaxInt/2) if absent.
func (g *Weighted) EdgeVal(u, v VertexID) int {
	if w, ok := g.Lookup(u, v); ok {
		return w
	}
	return math.MaxInt / 2
}

// Succs returns the successor vertices of v.
func (g *Weighted) Succs(v VertexID) []VertexID {
	if !g.hasVertex(v) {
		return nil
	}
	out := make([]VertexID, 0, len(g.succs[v]))
	for u := range g.succs[v] {
		out = append(out, u)
	}
	return out
}

// Preds returns the predecessor vertices of v.
func (g *Weighted) Preds(v VertexID) []VertexID {
	if !g.hasVertex(v) {
		return nil
	}
	out := make([]VertexID, 0, len(g.preds[v]))
	for u := range g.preds[v] {
		out = append(out, u)
	}
	return out
}

// ESuccs returns the out-edges of v with their weights.
func (g *Weighted) ESuccs(v VertexID) []Edge {
	if !g.hasVertex(v) {
		return nil
	}
	out := make([]Edge, 0, len(g.succs[v]))
	for u, w := range g.succs[v] {
		out = append(out, Edge{u, w})
	}
	return out
}

// EPreds returns the in-edges of v with their weights.
func (g *Weighted) EPreds(v VertexID) []Edge {
	if !g.hasVertex(v) {
		return nil
	}
	out := make([]Edge, 0, len(g.preds[v]))
	for u, w := range g.preds[v] {
		out = append(out, Edge{u, w})
	}
	return out
}

// Verts returns every live vertex id.
func (g *Weighted) Verts() []VertexID {
	out := make([]VertexID, 0, len(g.alive))
	for v, ok := range g.alive {
		if ok {
			out = append(out, VertexID(v))
		}
	}
	return out
}

// Size returns the number of live vertices.
func (g *Weighted) Size() int {
	n := 0
	for _, ok := range g.alive {
		if ok {
			n++
		}
	}
	return n
}

// IsEmpty reports whether the graph has no live vertices.
func (g *Weighted) IsEmpty() bool { return g.Size() == 0 }

// NumIDs returns one past the largest vertex id ever allocated (including
// freed ones), i.e. the required length of a parallel per-vertex slice.
func (g *Weighted) NumIDs() int { return len(g.alive) }

// HasVertex reports whether v is currently a live vertex.
func (g *Weighted) HasVertex(v VertexID) bool { return g.hasVertex(v) }
