// Package octagon implements the split-octagon relational domain (spec.md
// C4): a domain over constraints `+-x +-y <= c`, encoded as shortest paths
// in a weighted graph with two vertices per variable. It is grounded on
// original_source/crab/include/crab/domains/split_oct.hpp, translated from
// its static-polymorphism style (a domain templated on an inner Number/Wt
// type) into a concrete Go type built on package graph and package numdom.
package octagon

import (
	"fmt"

	"github.com/k-vikingsson/soct/diagnostics"
	"github.com/k-vikingsson/soct/graph"
	"github.com/k-vikingsson/soct/numdom"
	i "github.com/k-vikingsson/soct/utils/indenter"
)

// Params bundles the three policy flags spec.md §4.5 names. The defaults
// mirror original_source's own DefaultParams (chrome_dijkstra = true,
// widen_restabilize = true, special_assign = true).
type Params struct {
	ChromeDijkstra   bool
	WidenRestabilize bool
	SpecialAssign    bool
}

// DefaultParams mirrors original_source's SOCT_impl::DefaultParams.
var DefaultParams = Params{ChromeDijkstra: true, WidenRestabilize: true, SpecialAssign: true}

type vertPair struct{ pos, neg graph.VertexID }

// Domain is a split-octagon abstract value.
type Domain struct {
	params Params

	vertMap map[int]vertPair // Variable.Index -> (v+, v-)
	revMap  map[graph.VertexID]numdom.Variable

	g         *graph.Weighted
	potential []int
	unstable  map[graph.VertexID]bool

	bottom bool
}

// Top returns the unconstrained octagon.
func Top() *Domain { return TopWith(DefaultParams) }

// TopWith returns the unconstrained octagon with the given policy params.
func TopWith(p Params) *Domain {
	return &Domain{
		params:  p,
		vertMap: map[int]vertPair{},
		revMap:  map[graph.VertexID]numdom.Variable{},
		g:       graph.New(),
		unstable: map[graph.VertexID]bool{},
	}
}

// Bottom returns the infeasible octagon.
func Bottom() *Domain { return BottomWith(DefaultParams) }

func BottomWith(p Params) *Domain {
	d := TopWith(p)
	d.bottom = true
	return d
}

func (d *Domain) IsBottom() bool { return d.bottom }

func (d *Domain) IsTop() bool {
	return !d.bottom && len(d.vertMap) == 0
}

// clone returns a deep-enough copy for copy-on-write mutation (spec.md §5):
// most operations read the graph/maps; any mutator first clones so sharing
// is never observed across values. This is the "base+norm... lock()" idiom
// of spec.md §5, simplified to an eager clone since Go has no reference
// counting primitive as lightweight as the teacher's boost-based wrapper.
func (d *Domain) clone() *Domain {
	nd := &Domain{
		params:   d.params,
		vertMap:  make(map[int]vertPair, len(d.vertMap)),
		revMap:   make(map[graph.VertexID]numdom.Variable, len(d.revMap)),
		g:        graph.New(),
		potential: append([]int(nil), d.potential...),
		unstable: make(map[graph.VertexID]bool, len(d.unstable)),
		bottom:   d.bottom,
	}
	for k, v := range d.vertMap {
		nd.vertMap[k] = v
	}
	for k, v := range d.revMap {
		nd.revMap[k] = v
	}
	for k, v := range d.unstable {
		nd.unstable[k] = v
	}
	nd.g.GrowTo(d.g.NumIDs())
	for i := 0; i < d.g.NumIDs(); i++ {
		nd.g.NewVertex()
	}
	for i := 0; i < d.g.NumIDs(); i++ {
		if !d.g.HasVertex(graph.VertexID(i)) {
			nd.g.Forget(graph.VertexID(i))
		}
	}
	// Re-synthesize edges on the freshly allocated vertex ids (NewVertex
	// above hands out 0..n-1 in order from the slots GrowTo freed, and the
	// ids not alive in d are forgotten again, so nd uses d's numbering).
	for _, v := range d.g.Verts() {
		for _, e := range d.g.ESuccs(v) {
			nd.g.SetEdge(v, e.Weight, e.Vert)
		}
	}
	return nd
}

// neg returns the complementary vertex of v: neg(2k) = 2k+1, neg(2k+1) = 2k.
func neg(v graph.VertexID) graph.VertexID { return v ^ 1 }

// getVert returns the (v+, v-) pair for variable v, allocating two fresh
// vertices on first use. By convention v+ is even and v- = v+ + 1.
//
// original_source's get_vert has a bug here: after swapping vert_pos and
// vert_neg to restore vert_pos < vert_neg, it reassigns vert_neg = vert_pos
// (the already-overwritten value) instead of the stashed temporary,
// silently losing the second vertex. This implementation preserves the
// stashed value correctly (spec.md §9 Open Question).
func (d *Domain) getVert(v numdom.Variable) vertPair {
	if p, ok := d.vertMap[v.Index]; ok {
		return p
	}

	vp := d.g.NewVertex()
	vn := d.g.NewVertex()
	if vp > vn {
		tmp := vp
		vp = vn
		vn = tmp
	}
	if int(vn) >= len(d.potential) {
		grown := make([]int, vn+1)
		copy(grown, d.potential)
		d.potential = grown
	}

	p := vertPair{vp, vn}
	d.vertMap[v.Index] = p
	d.revMap[vp] = v
	d.revMap[vn] = v
	return p
}

func (d *Domain) lookupVert(v numdom.Variable) (vertPair, bool) {
	p, ok := d.vertMap[v.Index]
	return p, ok
}

// Forget removes x from the domain entirely (spec.md §4.5 "Forget x").
func (d *Domain) Forget(x numdom.Variable) {
	if d.bottom {
		return
	}
	p, ok := d.lookupVert(x)
	if !ok {
		return
	}
	nd := d.clone()
	nd.g.Forget(p.pos)
	nd.g.Forget(p.neg)
	delete(nd.vertMap, x.Index)
	delete(nd.revMap, p.pos)
	delete(nd.revMap, p.neg)
	delete(nd.unstable, p.pos)
	delete(nd.unstable, p.neg)
	*d = *nd
}

// ForgetAll removes every variable in xs.
func (d *Domain) ForgetAll(xs []numdom.Variable) {
	for _, x := range xs {
		d.Forget(x)
	}
}

// Project keeps only the variables in xs, forgetting everything else
// (spec.md §4.5 "project").
func (d *Domain) Project(xs []numdom.Variable) {
	if d.bottom {
		return
	}
	d.Normalize()
	keep := map[int]bool{}
	for _, x := range xs {
		keep[x.Index] = true
	}
	var drop []numdom.Variable
	for idx := range d.vertMap {
		if !keep[idx] {
			drop = append(drop, d.revMap[d.vertMap[idx].pos])
		}
	}
	d.ForgetAll(drop)
}

// Expand copies x's constraints onto a fresh variable y, with no relation
// between x and y afterward (spec.md §4.5 "Expand x into y").
func (d *Domain) Expand(x, y numdom.Variable) {
	if d.bottom {
		return
	}
	if _, ok := d.lookupVert(y); ok {
		numdom.Fatal(numdom.ErrExpandExistingTarget, "expand target %s already exists", y)
	}
	nd := d.clone()
	xp := nd.getVert(x)
	yp := nd.getVert(y)

	for _, e := range nd.g.EPreds(xp.pos) {
		nd.g.AddEdge(e.Vert, e.Weight, yp.pos)
	}
	for _, e := range nd.g.ESuccs(xp.pos) {
		nd.g.AddEdge(yp.pos, e.Weight, e.Vert)
	}
	for _, e := range nd.g.EPreds(xp.neg) {
		nd.g.AddEdge(e.Vert, e.Weight, yp.neg)
	}
	for _, e := range nd.g.ESuccs(xp.neg) {
		nd.g.AddEdge(yp.neg, e.Weight, e.Vert)
	}
	nd.potential[yp.pos] = nd.potential[xp.pos]
	nd.potential[yp.neg] = nd.potential[xp.neg]
	*d = *nd
}

// Get returns the interval of x: for vertices (v+, v-), [-w(v+->v-)/2,
// w(v-->v+)/2], missing edges meaning +-infinity (spec.md §4.5 "Interval
// query").
func (d *Domain) Get(x numdom.Variable) numdom.Interval {
	if d.bottom {
		return numdom.BottomInterval()
	}
	p, ok := d.lookupVert(x)
	if !ok {
		return numdom.Top()
	}
	var low, high numdom.Bound = numdom.MinusInfinity{}, numdom.PlusInfinity{}
	if w, ok := d.g.Lookup(p.pos, p.neg); ok {
		low = numdom.FiniteBound(-w / 2)
	}
	if w, ok := d.g.Lookup(p.neg, p.pos); ok {
		high = numdom.FiniteBound(w / 2)
	}
	return numdom.NewInterval(low, high)
}

// Set forces x's interval to i, replacing any previous unary bound
// (equivalent to the generic "set" path in original_source).
func (d *Domain) Set(x numdom.Variable, i numdom.Interval) {
	if d.bottom {
		return
	}
	if i.IsBottom() {
		*d = *Bottom()
		return
	}
	nd := d.clone()
	p := nd.getVert(x)
	if lb, ok := i.Low.(numdom.FiniteBound); ok {
		nd.g.SetEdge(p.pos, -2*int(lb), p.neg)
	}
	if ub, ok := i.High.(numdom.FiniteBound); ok {
		nd.g.SetEdge(p.neg, 2*int(ub), p.pos)
	}
	if !nd.repairAround(p) {
		*d = *Bottom()
		return
	}
	*d = *nd
}

func (d *Domain) repairAround(p vertPair) bool {
	if w, ok := d.g.Lookup(p.pos, p.neg); ok {
		if !graph.RepairPotential(d.g, d.potential, p.pos, w, p.neg) {
			return false
		}
	}
	if w, ok := d.g.Lookup(p.neg, p.pos); ok {
		if !graph.RepairPotential(d.g, d.potential, p.neg, w, p.pos) {
			return false
		}
	}
	delta := graph.CloseAfterAssign(d.g, d.potential, []graph.VertexID{p.pos, p.neg})
	graph.ApplyDelta(d.g, delta)
	return true
}

func (d *Domain) String() string {
	if d.bottom {
		return diagnostics.Palette.Bottom("_|_")
	}
	if d.IsTop() {
		return diagnostics.Palette.Top("{}")
	}
	var parts []string
	seen := map[int]bool{}
	for idx := range d.vertMap {
		if seen[idx] {
			continue
		}
		seen[idx] = true
		v := d.revMap[d.vertMap[idx].pos]
		parts = append(parts, fmt.Sprintf("%s in %s", diagnostics.Palette.Variable(v.String()), d.Get(v)))
	}
	for _, v := range d.g.Verts() {
		for _, e := range d.g.ESuccs(v) {
			if v/2 == e.Vert/2 {
				continue // diagonal (unary-bound) edge, already printed as an interval
			}
			parts = append(parts, fmt.Sprintf("%s - %s <= %s",
				d.vertLabel(e.Vert), d.vertLabel(v), diagnostics.Palette.Const(fmt.Sprint(e.Weight))))
		}
	}
	if len(parts) == 0 {
		return "{}"
	}
	return i.New("{").NestStringsSep(",", parts...).End("}")
}

func (d *Domain) vertLabel(v graph.VertexID) string {
	variable, ok := d.revMap[v]
	if !ok {
		return fmt.Sprintf("v%d", v)
	}
	if v%2 == 0 {
		return "+" + variable.String()
	}
	return "-" + variable.String()
}
