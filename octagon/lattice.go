package octagon

import (
	"github.com/k-vikingsson/soct/graph"
	"github.com/k-vikingsson/soct/numdom"
)

// Leq checks self <= other: for each edge x->y weight w_o in other, self
// must have a path of weight <= w_o between the same vertices, including
// through the diagonal v+/v- detour of octagon constraints (spec.md §4.5
// "Leq").
func (d *Domain) leq(other *Domain) bool {
	if d.bottom {
		return true
	}
	if other.bottom {
		return false
	}
	d.Normalize()
	other.Normalize()

	for _, u := range other.g.Verts() {
		uVar, ok := other.revMap[u]
		if !ok {
			continue
		}
		up, hasU := d.lookupVert(uVar)
		if !hasU {
			if len(other.g.ESuccs(u)) > 0 {
				return false
			}
			continue
		}
		selfU := up.pos
		if u%2 != 0 {
			selfU = up.neg
		}

		for _, e := range other.g.ESuccs(u) {
			vVar, ok := other.revMap[e.Vert]
			if !ok {
				continue
			}
			vp, hasV := d.lookupVert(vVar)
			if !hasV {
				return false
			}
			selfV := vp.pos
			if e.Vert%2 != 0 {
				selfV = vp.neg
			}

			if !d.pathAtMost(selfU, selfV, e.Weight) {
				return false
			}
		}
	}
	return true
}

// pathAtMost reports whether there is a path u->v (possibly via the u or v
// diagonal detour) of weight <= bound in d's graph.
func (d *Domain) pathAtMost(u, v graph.VertexID, bound int) bool {
	if w, ok := d.g.Lookup(u, v); ok && w <= bound {
		return true
	}
	if w1, ok1 := d.g.Lookup(u, neg(u)); ok1 {
		if w2, ok2 := d.g.Lookup(neg(u), v); ok2 && w1+w2 <= bound {
			return true
		}
	}
	if w1, ok1 := d.g.Lookup(u, neg(v)); ok1 {
		if w2, ok2 := d.g.Lookup(neg(v), v); ok2 && w1+w2 <= bound {
			return true
		}
	}
	return false
}

// commonVertexSpace builds a view of a and b over a freshly allocated,
// shared vertex numbering covering every variable live in either operand,
// returning GrPerm views of both plus the shared pairing per variable index.
func commonVertexSpace(a, b *Domain) (apv, bpv graph.GrPerm, varOf map[int]vertPair, numVerts int) {
	varOf = map[int]vertPair{}
	var aPerm, bPerm []graph.VertexID

	add := func(idx int, ap, bp vertPair, hasA, hasB bool) {
		p := vertPair{graph.VertexID(len(aPerm)), graph.VertexID(len(aPerm) + 1)}
		if hasA {
			aPerm = append(aPerm, ap.pos, ap.neg)
		} else {
			aPerm = append(aPerm, graph.Absent, graph.Absent)
		}
		if hasB {
			bPerm = append(bPerm, bp.pos, bp.neg)
		} else {
			bPerm = append(bPerm, graph.Absent, graph.Absent)
		}
		varOf[idx] = p
	}

	seen := map[int]bool{}
	for idx, ap := range a.vertMap {
		bp, hasB := b.vertMap[idx]
		add(idx, ap, bp, true, hasB)
		seen[idx] = true
	}
	for idx, bp := range b.vertMap {
		if seen[idx] {
			continue
		}
		add(idx, vertPair{}, bp, false, true)
	}

	numVerts = len(aPerm)
	return graph.NewGrPerm(aPerm, a.g), graph.NewGrPerm(bPerm, b.g), varOf, numVerts
}

func lookupRev(d *Domain, idx int) (numdom.Variable, bool) {
	p, ok := d.vertMap[idx]
	if !ok {
		return numdom.Variable{}, false
	}
	v, ok := d.revMap[p.pos]
	return v, ok
}

func installRevMaps(nd *Domain, a, b *Domain, varOf map[int]vertPair) {
	for idx, p := range varOf {
		nd.vertMap[idx] = p
		if v, ok := lookupRev(a, idx); ok {
			nd.revMap[p.pos], nd.revMap[p.neg] = v, v
		} else if v, ok := lookupRev(b, idx); ok {
			nd.revMap[p.pos], nd.revMap[p.neg] = v, v
		}
	}
}

// Meet computes self & other: vertex-wise union, minimum weight on common
// edges, potential recomputation, then close-after-meet (spec.md §4.5
// "Meet").
func (d *Domain) meet(other *Domain) *Domain {
	if d.bottom || other.bottom {
		return Bottom()
	}
	d.Normalize()
	other.Normalize()

	apv, bpv, varOf, n := commonVertexSpace(d, other)
	g, newEdges := graph.Meet(apv, bpv, n)

	nd := &Domain{
		params:   d.params,
		vertMap:  map[int]vertPair{},
		revMap:   map[graph.VertexID]numdom.Variable{},
		g:        g,
		unstable: map[graph.VertexID]bool{},
	}
	installRevMaps(nd, d, other, varOf)

	potential := make([]int, n)
	pot, ok := graph.SelectPotentials(g, potential)
	if !ok {
		return Bottom()
	}

	if d.params.ChromeDijkstra {
		delta := graph.CloseAfterMeet(g, pot, newEdges)
		graph.ApplyDelta(g, delta)
		pot2, ok := graph.SelectPotentials(g, pot)
		if !ok {
			return Bottom()
		}
		pot = pot2
	}
	nd.potential = pot
	return nd
}

// Join computes self | other using deferred relations derived from each
// operand's unary bounds, as described in spec.md §4.5 "Join": before
// pointwise-maxing the two graphs, each operand is enriched with the
// relations its own unary bounds imply on the pairs related by the other
// operand's relational edges, so that a relation explicit in one operand
// and only implied by unary bounds in the other is kept by the join.
func (d *Domain) join(other *Domain) *Domain {
	if d.bottom {
		return other
	}
	if other.bottom {
		return d
	}
	d.Normalize()
	other.Normalize()

	_, _, varOf, n := commonVertexSpace(d, other)

	aEnriched := deferredEnrich(d, other, varOf, n)
	bEnriched := deferredEnrich(other, d, varOf, n)

	out := graph.Join(wrapGrowable(aEnriched, n), wrapGrowable(bEnriched, n), n)

	nd := &Domain{
		params:   d.params,
		vertMap:  map[int]vertPair{},
		revMap:   map[graph.VertexID]numdom.Variable{},
		g:        out,
		unstable: map[graph.VertexID]bool{},
	}
	installRevMaps(nd, d, other, varOf)

	if pot, ok := graph.SelectPotentials(out, make([]int, n)); ok {
		nd.potential = pot
	} else {
		nd.potential = make([]int, n)
	}
	garbageCollectOrphans(nd)
	return nd
}

// deferredEnrich builds self's graph, placed into the shared n-vertex space
// described by varOf, enriched with the relations self's own unary bounds
// imply on the pairs that other relates: for a relational edge s->dst in
// other, if self has unary bounds on both s and dst (edges s->neg(s) of
// weight w_s and neg(dst)->dst of weight w_d), add s->dst with weight
// (w_s+w_d)/2 to self before the join (spec.md §4.5 "Join").
func deferredEnrich(self, other *Domain, varOf map[int]vertPair, n int) *graph.Weighted {
	g := graph.New()
	g.GrowTo(n)
	for i := 0; i < n; i++ {
		g.NewVertex()
	}

	selfPerm := permOf(self, varOf, n)
	for _, u := range selfPerm.Verts() {
		for _, e := range selfPerm.ESuccs(u) {
			g.SetEdge(u, e.Weight, e.Vert)
		}
	}

	otherPerm := permOf(other, varOf, n)
	for _, u := range otherPerm.Verts() {
		for _, e := range otherPerm.ESuccs(u) {
			if u/2 == e.Vert/2 {
				continue
			}
			wu, okU := selfPerm.Lookup(u, neg(u))
			wv, okV := selfPerm.Lookup(neg(e.Vert), e.Vert)
			if okU && okV {
				g.UpdateEdge(u, (wu+wv)/2, e.Vert, graph.MinOp)
			}
		}
	}

	delta := graph.CloseAfterMeet(g, make([]int, n), nil)
	graph.ApplyDelta(g, delta)
	return g
}

func permOf(d *Domain, varOf map[int]vertPair, n int) graph.GrPerm {
	perm := make([]graph.VertexID, n)
	for i := range perm {
		perm[i] = graph.Absent
	}
	for idx, p := range varOf {
		if dp, ok := d.vertMap[idx]; ok {
			perm[p.pos] = dp.pos
			perm[p.neg] = dp.neg
		}
	}
	return graph.NewGrPerm(perm, d.g)
}

func wrapGrowable(g *graph.Weighted, n int) graph.View {
	return graph.NewGrPerm(identityPerm(n), g)
}

func identityPerm(n int) []graph.VertexID {
	p := make([]graph.VertexID, n)
	for i := range p {
		p[i] = graph.VertexID(i)
	}
	return p
}

// garbageCollectOrphans drops variables from vertMap/revMap whose vertices
// have become isolated (no incident edges at all) after a join, using
// union-find connected-components to identify them cheaply (spec.md §4.5
// "Garbage-collect orphan vertices").
func garbageCollectOrphans(d *Domain) {
	verts := d.g.Verts()
	comps := graph.ConnectedComponents(d.g, verts)
	isolated := map[graph.VertexID]bool{}
	for _, members := range comps {
		if len(members) == 1 {
			v := members[0]
			if len(d.g.ESuccs(v)) == 0 && len(d.g.EPreds(v)) == 0 {
				isolated[v] = true
			}
		}
	}
	for idx, p := range d.vertMap {
		if isolated[p.pos] && isolated[p.neg] {
			delete(d.vertMap, idx)
			delete(d.revMap, p.pos)
			delete(d.revMap, p.neg)
		}
	}
}

// Widen computes self || other (spec.md §4.5 "Widening"): keep an edge of
// self only if other has an edge on the same pair with an equal or smaller
// (equal or tighter) weight, marking
// destabilized vertices unstable for later restabilization by Normalize.
func (d *Domain) widen(other *Domain) *Domain {
	if d.bottom {
		return other
	}
	if other.bottom {
		return d
	}
	apv, bpv, varOf, n := commonVertexSpace(d, other)
	out, unstableP := graph.Widen(apv, bpv, n)

	nd := &Domain{
		params:   d.params,
		vertMap:  map[int]vertPair{},
		revMap:   map[graph.VertexID]numdom.Variable{},
		g:        out,
		unstable: map[graph.VertexID]bool{},
	}
	installRevMaps(nd, d, other, varOf)
	for _, p := range varOf {
		if unstableP[p.pos] || unstableP[p.neg] {
			nd.unstable[p.pos] = true
			nd.unstable[p.neg] = true
		}
	}

	if pot, ok := graph.SelectPotentials(out, make([]int, n)); ok {
		nd.potential = pot
	} else {
		nd.potential = make([]int, n)
	}
	return nd
}

// WidenThresholds computes self ||_ts other: a plain widen, then for every
// unary bound that widen dropped straight to infinity, clamp it instead to
// the tightest threshold that still soundly covers other's value on that
// side (spec.md §4.5 "Widening with thresholds"), the same clamp-to-nearest-
// sound-threshold rule numdom/interval.go's Interval.WidenThresholds applies
// to plain intervals. Relational (non-diagonal) edges are not
// threshold-aware: original_source's own widening has no threshold
// parameter at all for split octagons, so this extends only the unary-bound
// half of widen, which is where the spec's loop-bound scenario needs it.
func (d *Domain) widenThresholds(other *Domain, ts []int) *Domain {
	nd := d.widen(other)
	if nd.bottom || len(ts) == 0 {
		return nd
	}

	for _, p := range nd.vertMap {
		v := nd.revMap[p.pos]
		otherIv := other.Get(v)
		ndIv := nd.Get(v)

		if _, isInf := ndIv.High.(numdom.PlusInfinity); isInf {
			if hi, ok := otherIv.High.(numdom.FiniteBound); ok {
				if tb, found := tightestThresholdAbove(ts, int(hi)); found {
					nd.g.SetEdge(p.neg, 2*tb, p.pos)
				}
			}
		}
		if _, isInf := ndIv.Low.(numdom.MinusInfinity); isInf {
			if lo, ok := otherIv.Low.(numdom.FiniteBound); ok {
				if tb, found := tightestThresholdBelow(ts, int(lo)); found {
					nd.g.SetEdge(p.pos, -2*tb, p.neg)
				}
			}
		}
	}
	nd.Normalize()
	return nd
}

// tightestThresholdAbove returns the least threshold >= lo, if any.
func tightestThresholdAbove(ts []int, lo int) (int, bool) {
	found := false
	best := 0
	for _, t := range ts {
		if t >= lo && (!found || t < best) {
			best, found = t, true
		}
	}
	return best, found
}

// tightestThresholdBelow returns the greatest threshold <= hi, if any.
func tightestThresholdBelow(ts []int, hi int) (int, bool) {
	found := false
	best := 0
	for _, t := range ts {
		if t <= hi && (!found || t > best) {
			best, found = t, true
		}
	}
	return best, found
}

// Narrow is identity: a faithful split-octagon narrowing is not specified
// beyond "sound to leave as identity" (spec.md §4.5, §9), matching
// original_source's own explicit FIXME on operator&&.
func (d *Domain) narrow(*Domain) *Domain { return d }

// Normalize restores the coherence property (every edge's mirror exists
// with an equal-or-tighter weight) and, if the unstable set is nonempty,
// restabilizes via close-after-widen (or full Johnson if WidenRestabilize
// is off), then clears the unstable set (spec.md §4.5 "Normalize").
func (d *Domain) Normalize() {
	if d.bottom {
		return
	}
	for _, u := range d.g.Verts() {
		for _, e := range d.g.ESuccs(u) {
			if u/2 == e.Vert/2 {
				continue
			}
			d.g.UpdateEdge(neg(e.Vert), e.Weight, neg(u), graph.MinOp)
		}
	}

	if len(d.unstable) == 0 {
		return
	}

	if d.params.WidenRestabilize {
		frontier := make([]graph.VertexID, 0, len(d.unstable))
		for v := range d.unstable {
			frontier = append(frontier, v)
		}
		delta := graph.CloseAfterWiden(d.g, d.potential, frontier)
		graph.ApplyDelta(d.g, delta)
	} else {
		pot, ok := graph.SelectPotentials(d.g, d.potential)
		if !ok {
			d.bottom = true
			return
		}
		d.potential = pot
		delta := graph.CloseAfterMeet(d.g, d.potential, nil)
		graph.ApplyDelta(d.g, delta)
	}
	d.unstable = map[graph.VertexID]bool{}
}
