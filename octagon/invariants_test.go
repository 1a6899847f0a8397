package octagon

import (
	"testing"

	"github.com/k-vikingsson/soct/numdom"
)

// buildRelatedDomain constructs a small octagon with both unary bounds and
// a binary relation, exercising Set/AddConstraint/Assign together so the
// graph carries a realistic mix of diagonal and off-diagonal edges.
func buildRelatedDomain() *Domain {
	d := Top()
	x, y := intVar(0, "x"), intVar(1, "y")
	d.Set(x, numdom.FiniteInterval(0, 10))
	d.AddConstraint(numdom.Leq0(numdom.Var(x).Minus(numdom.Var(y)).Plus(numdom.NewLinearExpression(-5))))
	d.Assign(y, numdom.Var(x).Plus(numdom.NewLinearExpression(2)))
	return d
}

// TestCoherenceAfterNormalize checks spec.md §4.3's coherence property:
// after Normalize, every edge u->v has a mirror edge neg(v)->neg(u) with a
// weight no looser than the original (the two encode the same constraint
// read in the two possible sign conventions, so one can never be
// informationally ahead of the other once stabilized).
func TestCoherenceAfterNormalize(t *testing.T) {
	d := buildRelatedDomain()
	d.Normalize()

	for _, u := range d.g.Verts() {
		for _, e := range d.g.ESuccs(u) {
			mw, ok := d.g.Lookup(neg(e.Vert), neg(u))
			if !ok {
				t.Fatalf("edge %d->%d (w=%d) has no mirror at %d->%d after Normalize", u, e.Vert, e.Weight, neg(e.Vert), neg(u))
			}
			if mw > e.Weight {
				t.Fatalf("mirror of %d->%d (w=%d) should be no looser, got %d->%d w=%d", u, e.Vert, e.Weight, neg(e.Vert), neg(u), mw)
			}
		}
	}
}

// TestPotentialInvariantHolds checks spec.md §4.3's potential invariant
// (the Johnson-reduced-weight precondition for Dijkstra-based closure):
// for every edge u->v with weight w, potential[u]+w-potential[v] must be
// non-negative.
func TestPotentialInvariantHolds(t *testing.T) {
	d := buildRelatedDomain()
	for _, u := range d.g.Verts() {
		for _, e := range d.g.ESuccs(u) {
			reduced := d.potential[u] + e.Weight - d.potential[e.Vert]
			if reduced < 0 {
				t.Fatalf("potential invariant violated on edge %d->%d (w=%d): potential[%d]=%d, potential[%d]=%d, reduced=%d",
					u, e.Vert, e.Weight, u, d.potential[u], e.Vert, d.potential[e.Vert], reduced)
			}
		}
	}
}

// TestClosureAfterAssignIsTransitivelyClosed checks spec.md §4.3's closure
// property: once d.unstable is empty, the graph must already be
// transitively closed, i.e. for any path u->k->v there is a direct edge
// u->v no heavier than the sum (shortest-path closure, not merely
// triangle-consistent by coincidence).
func TestClosureAfterAssignIsTransitivelyClosed(t *testing.T) {
	d := buildRelatedDomain()
	if len(d.unstable) != 0 {
		t.Fatalf("test precondition: domain should be stable after Assign/AddConstraint, found unstable=%v", d.unstable)
	}

	verts := d.g.Verts()
	for _, u := range verts {
		for _, e1 := range d.g.ESuccs(u) {
			k := e1.Vert
			for _, e2 := range d.g.ESuccs(k) {
				v := e2.Vert
				sum := e1.Weight + e2.Weight
				direct, ok := d.g.Lookup(u, v)
				if u == v {
					continue
				}
				if !ok {
					t.Fatalf("closure violated: path %d->%d->%d (sum=%d) exists but no direct edge %d->%d", u, k, v, sum, u, v)
				}
				if direct > sum {
					t.Fatalf("closure violated: direct edge %d->%d (w=%d) heavier than path through %d (sum=%d)", u, v, direct, k, sum)
				}
			}
		}
	}
}
