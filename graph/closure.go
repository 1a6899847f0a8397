package graph

import "github.com/k-vikingsson/soct/utils/pq"

// Delta is a batch of edge updates produced by a closure pass, applied with
// ApplyDelta (spec.md §4.3).
type Delta struct {
	Src, Dst VertexID
	Weight   int
}

// ApplyDelta writes every update in delta onto g via MinOp (an edge that
// already exists and is at least as tight is left alone).
func ApplyDelta(g *Weighted, delta []Delta) {
	for _, d := range delta {
		g.UpdateEdge(d.Src, d.Weight, d.Dst, MinOp)
	}
}

type dijkstraItem struct {
	vert VertexID
	dist int
}

func dijkstraLess(a, b dijkstraItem) bool { return a.dist < b.dist }

// dijkstraFrom runs single-source Dijkstra from src over g using
// Johnson-reduced weights w'(u,v) = potential[u] + w(u,v) - potential[v],
// which are non-negative by the potential invariant (spec.md §4.3). It
// returns, for every vertex reached, the true shortest-path weight from src
// (i.e. the reduced distance un-reduced back via the potentials).
func dijkstraFrom(g *Weighted, potential []int, src VertexID) map[VertexID]int {
	dist := map[VertexID]int{src: 0}
	visited := map[VertexID]bool{}

	q := pq.Empty(dijkstraLess)
	q.Add(dijkstraItem{src, 0})

	for !q.IsEmpty() {
		it := q.GetNext()
		if visited[it.vert] {
			continue
		}
		visited[it.vert] = true

		for _, e := range g.ESuccs(it.vert) {
			if visited[e.Vert] {
				continue
			}
			reduced := (potential[it.vert] + e.Weight) - potential[e.Vert]
			if reduced < 0 {
				reduced = 0 // potential invariant violation is a caller bug; clamp defensively
			}
			nd := it.dist + reduced
			if old, ok := dist[e.Vert]; !ok || nd < old {
				dist[e.Vert] = nd
				q.Add(dijkstraItem{e.Vert, nd})
			}
		}
	}

	// Un-reduce: true_dist(src, v) = dist(v) + potential[v] - potential[src].
	out := make(map[VertexID]int, len(dist))
	for v, d := range dist {
		out[v] = d + potential[v] - potential[src]
	}
	return out
}

// CloseAfterMeet restores closure on g after a meet introduced the edges in
// newEdges (each a Delta), given a valid potential vector, by running
// Dijkstra from every vertex touched by a new edge and relaxing all
// affected pairs (spec.md §4.3). It returns the closure delta to apply.
func CloseAfterMeet(g *Weighted, potential []int, newEdges []Delta) []Delta {
	touched := map[VertexID]bool{}
	for _, d := range newEdges {
		touched[d.Src] = true
		touched[d.Dst] = true
	}

	var out []Delta
	for src := range touched {
		dist := dijkstraFrom(g, potential, src)
		for v, d := range dist {
			if v == src {
				continue
			}
			out = append(out, Delta{src, v, d})
		}
	}
	return out
}

// CloseAfterAssign restores closure restricted to paths through the given
// freshly-assigned vertices (spec.md §4.3): shortest paths are recomputed
// only from and to those vertices, since every new edge is incident to one
// of them.
func CloseAfterAssign(g *Weighted, potential []int, fresh []VertexID) []Delta {
	var out []Delta
	for _, src := range fresh {
		dist := dijkstraFrom(g, potential, src)
		for v, d := range dist {
			if v != src {
				out = append(out, Delta{src, v, d})
			}
		}
	}
	// Also close incoming paths: any vertex u with an edge into a fresh
	// vertex may have shorter paths to other fresh vertices through it.
	for _, dst := range fresh {
		for _, e := range g.EPreds(dst) {
			dist := dijkstraFrom(g, potential, e.Vert)
			for v, d := range dist {
				if v != e.Vert {
					out = append(out, Delta{e.Vert, v, d})
				}
			}
		}
	}
	return out
}

// CloseAfterWiden restores closure only from the vertices in unstable
// (spec.md §4.3), leaving edges reachable only through stable vertices
// untouched so the widening's extrapolation is not undone.
func CloseAfterWiden(g *Weighted, potential []int, unstable []VertexID) []Delta {
	var out []Delta
	for _, src := range unstable {
		dist := dijkstraFrom(g, potential, src)
		for v, d := range dist {
			if v != src {
				out = append(out, Delta{src, v, d})
			}
		}
	}
	return out
}

// SelectPotentials recomputes a valid potential vector for g via
// Bellman-Ford, given an existing (possibly stale) potential vector as the
// initial estimate, and reports false if a negative-weight cycle exists
// (the state is infeasible, spec.md §4.3).
func SelectPotentials(g *Weighted, potential []int) ([]int, bool) {
	n := g.NumIDs()
	out := make([]int, n)
	copy(out, potential)

	verts := g.Verts()
	for iter := 0; iter < len(verts)+1; iter++ {
		changed := false
		for _, u := range verts {
			for _, e := range g.ESuccs(u) {
				if int(u) >= len(out) || int(e.Vert) >= len(out) {
					continue
				}
				if out[u]+e.Weight < out[e.Vert] {
					out[e.Vert] = out[u] + e.Weight
					changed = true
				}
			}
		}
		if !changed {
			return out, true
		}
	}
	return out, false
}

// RepairPotential adjusts potential after adding edge src->dst with weight
// w: if the potential invariant would be violated (potential[src]+w <
// potential[dst]), it propagates the correction outward via a relaxation
// from dst, then runs SelectPotentials' Bellman-Ford pass from the result,
// and returns false if that pass detects a negative cycle (spec.md §4.3).
func RepairPotential(g *Weighted, potential []int, src VertexID, w int, dst VertexID) bool {
	if potential[src]+w >= potential[dst] {
		return true
	}
	delta := potential[dst] - (potential[src] + w)
	// Lower potential[dst] (and everything it can reach that would
	// otherwise violate the invariant) by delta via a bounded relaxation.
	visited := map[VertexID]bool{}
	var relax func(v VertexID, budget int) bool
	relax = func(v VertexID, budget int) bool {
		if budget <= 0 {
			return false
		}
		if visited[v] {
			return true
		}
		visited[v] = true
		potential[v] -= delta
		for _, e := range g.ESuccs(v) {
			if potential[v]+e.Weight < potential[e.Vert] {
				if !relax(e.Vert, budget-1) {
					return false
				}
			}
		}
		return true
	}
	if !relax(dst, g.NumIDs()+1) {
		return false
	}
	pot, ok := SelectPotentials(g, potential)
	copy(potential, pot)
	return ok
}
