package arrayexpand

import (
	"strings"

	"github.com/k-vikingsson/soct/diagnostics"
	"github.com/k-vikingsson/soct/numdom"
)

// MaxInitBytes bounds how large an array_init (spec.md §4.7) is allowed to
// materialize; beyond this, init is skipped (warned) rather than
// enumerating a huge number of cells. Configurable, mirroring spec.md's
// "512 (configurable max)".
var MaxInitBytes = 512

// Domain lifts an inner numerical domain to reason about arrays via
// disjoint materialized cells (spec.md §4.7). It satisfies
// numdom.NumericalDomain (scalar operations delegate to inv; array
// variables themselves are never given vertices in inv, only their cells
// are), plus the array-specific operations below.
type Domain struct {
	inv     numdom.NumericalDomain
	session *numdom.Session
	offsets map[int]OffsetMap // keyed by array Variable.Index
}

// New wraps inv as an array-expansion domain using session's scalar
// memoization table (spec.md §3, §9 Open Question: owned by the session,
// not a package global).
func New(inv numdom.NumericalDomain, session *numdom.Session) *Domain {
	return &Domain{inv: inv, session: session, offsets: map[int]OffsetMap{}}
}

func asDomain(nd numdom.NumericalDomain) *Domain {
	d, ok := nd.(*Domain)
	if !ok {
		numdom.Fatal(numdom.ErrUnknownOperation, "arrayexpand: expected *arrayexpand.Domain, got %T", nd)
	}
	return d
}

// clone returns a Domain with its own independent inv, using the same
// fresh-copy-via-self-meet idiom as arraysmash.Domain.clone (copying the
// interface value verbatim would alias the same underlying *octagon.Domain
// pointer, whose mutators rewrite themselves in place).
func (d *Domain) clone() *Domain {
	nd := &Domain{inv: d.inv.Meet(d.inv), session: d.session, offsets: make(map[int]OffsetMap, len(d.offsets))}
	for k, v := range d.offsets {
		nd.offsets[k] = v
	}
	return nd
}

// Content returns the inner numerical domain.
func (d *Domain) Content() numdom.NumericalDomain { return d.inv }

func (d *Domain) IsBottom() bool { return d.inv.IsBottom() }
func (d *Domain) IsTop() bool    { return d.inv.IsTop() && len(d.offsets) == 0 }

func (d *Domain) Leq(other numdom.NumericalDomain) bool { return d.inv.Leq(asDomain(other).inv) }

// mergeOffsets combines the two operands' offset maps: an array known to
// only one side keeps that side's map whole, and for an array known to
// both, combineMaps applies combine at every offset (unionCells for
// Join/Widen, intersectCells for Meet/Narrow). A cell materialized in only
// one side still corresponds to a stable scalar variable (the session
// memoization table guarantees the same (array, offset, size) always yields
// the same Variable), and that variable is simply unconstrained (top) on
// the side where it was never touched — which Join/Meet/Widen on inv
// already handle correctly for an absent vertex.
func mergeOffsets(a, b map[int]OffsetMap, combine func(ac, bc []Cell) []Cell) map[int]OffsetMap {
	out := make(map[int]OffsetMap, len(a)+len(b))
	for arr, am := range a {
		bm, ok := b[arr]
		if !ok {
			out[arr] = am
			continue
		}
		out[arr] = combineMaps(am, bm, combine)
	}
	for arr, bm := range b {
		if _, ok := a[arr]; !ok {
			out[arr] = bm
		}
	}
	return out
}

func combineMaps(a, b OffsetMap, combine func(ac, bc []Cell) []Cell) OffsetMap {
	result := EmptyOffsetMap()
	seen := map[int]bool{}
	for _, bucket := range a.sortedBuckets() {
		seen[bucket.offset] = true
		for _, c := range combine(bucket.cells, b.At(bucket.offset)) {
			result = result.Insert(c)
		}
	}
	for _, bucket := range b.sortedBuckets() {
		if seen[bucket.offset] {
			continue
		}
		for _, c := range combine(nil, bucket.cells) {
			result = result.Insert(c)
		}
	}
	return result
}

func unionCells(ac, bc []Cell) []Cell {
	out := append([]Cell(nil), ac...)
	for _, c := range bc {
		found := false
		for _, o := range ac {
			if o == c {
				found = true
				break
			}
		}
		if !found {
			out = append(out, c)
		}
	}
	return out
}

// intersectCells keeps only cells present, identically, on both sides —
// used by Meet, where a cell materialized on only one side has no
// corresponding constraint on the other and must not survive the
// intersection's cell set (its scalar is simply left alone in inv, which
// already intersects correctly; only the bookkeeping entry is dropped).
func intersectCells(ac, bc []Cell) []Cell {
	var out []Cell
	for _, c := range ac {
		for _, o := range bc {
			if o == c {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func (d *Domain) Join(other numdom.NumericalDomain) numdom.NumericalDomain {
	o := asDomain(other)
	return &Domain{
		inv:     d.inv.Join(o.inv),
		session: d.session,
		offsets: mergeOffsets(d.offsets, o.offsets, unionCells),
	}
}

func (d *Domain) Meet(other numdom.NumericalDomain) numdom.NumericalDomain {
	o := asDomain(other)
	return &Domain{
		inv:     d.inv.Meet(o.inv),
		session: d.session,
		offsets: mergeOffsets(d.offsets, o.offsets, intersectCells),
	}
}

func (d *Domain) Widen(other numdom.NumericalDomain) numdom.NumericalDomain {
	o := asDomain(other)
	return &Domain{
		inv:     d.inv.Widen(o.inv),
		session: d.session,
		offsets: mergeOffsets(d.offsets, o.offsets, unionCells),
	}
}

func (d *Domain) WidenThresholds(other numdom.NumericalDomain, ts []int) numdom.NumericalDomain {
	o := asDomain(other)
	return &Domain{
		inv:     d.inv.WidenThresholds(o.inv, ts),
		session: d.session,
		offsets: mergeOffsets(d.offsets, o.offsets, unionCells),
	}
}

func (d *Domain) Narrow(other numdom.NumericalDomain) numdom.NumericalDomain {
	o := asDomain(other)
	return &Domain{
		inv:     d.inv.Narrow(o.inv),
		session: d.session,
		offsets: mergeOffsets(d.offsets, o.offsets, intersectCells),
	}
}

func (d *Domain) Assign(x numdom.Variable, e numdom.LinearExpression) { d.inv.Assign(x, e) }
func (d *Domain) Apply(op numdom.ArithOp, x, y, z numdom.Variable)    { d.inv.Apply(op, x, y, z) }
func (d *Domain) ApplyConst(op numdom.ArithOp, x, y numdom.Variable, k int) {
	d.inv.ApplyConst(op, x, y, k)
}
func (d *Domain) ApplyBitwise(op numdom.BitwiseOp, x, y, z numdom.Variable) {
	d.inv.ApplyBitwise(op, x, y, z)
}
func (d *Domain) ApplyBitwiseConst(op numdom.BitwiseOp, x, y numdom.Variable, k int) {
	d.inv.ApplyBitwiseConst(op, x, y, k)
}
func (d *Domain) ApplyDiv(op numdom.DivOp, x, y, z numdom.Variable)    { d.inv.ApplyDiv(op, x, y, z) }
func (d *Domain) ApplyConv(op numdom.ConvOp, dst, src numdom.Variable) { d.inv.ApplyConv(op, dst, src) }
func (d *Domain) AddConstraint(c numdom.LinearConstraint)              { d.inv.AddConstraint(c) }
func (d *Domain) AddConstraints(cs numdom.LinearConstraintSystem)      { d.inv.AddConstraints(cs) }

// Forget removes x; if x names an array variable every one of its cells'
// scalars is forgotten too and its offset map dropped.
func (d *Domain) Forget(x numdom.Variable) {
	if x.Type.IsArray() {
		if m, ok := d.offsets[x.Index]; ok {
			m.tree.ForEach(func(_ uint, cells []Cell) {
				for _, c := range cells {
					d.inv.Forget(c.Scalar)
				}
			})
			delete(d.offsets, x.Index)
		}
		return
	}
	d.inv.Forget(x)
}

func (d *Domain) Get(x numdom.Variable) numdom.Interval { return d.inv.Get(x) }
func (d *Domain) Set(x numdom.Variable, i numdom.Interval) { d.inv.Set(x, i) }

func (d *Domain) Rename(from, to []numdom.Variable) { d.inv.Rename(from, to) }

func (d *Domain) ForgetAll(xs []numdom.Variable) {
	for _, x := range xs {
		d.Forget(x)
	}
}

// Project keeps only xs; any array variable not named is forgotten wholesale
// (spec.md §4.6/§4.7 pattern of degrading unreferenced array dimensions).
func (d *Domain) Project(xs []numdom.Variable) {
	keep := map[int]bool{}
	for _, x := range xs {
		keep[x.Index] = true
	}
	for idx := range d.offsets {
		if !keep[idx] {
			d.Forget(numdom.Variable{Index: idx, Type: numdom.ArrInt})
		}
	}
	d.inv.Project(xs)
}

// Expand copies every cell of x's offset map onto freshly-scoped cells of
// newX: per spec.md §4.1 "expand" contract (identical value, no relation
// afterward), each cell's scalar is expanded in inv rather than shared.
func (d *Domain) Expand(x, newX numdom.Variable) {
	m, ok := d.offsets[x.Index]
	if !ok {
		return
	}
	if _, exists := d.offsets[newX.Index]; exists {
		numdom.Fatal(numdom.ErrExpandExistingTarget, "arrayexpand: expand target %s already has cells", newX)
	}
	nm := EmptyOffsetMap()
	m.tree.ForEach(func(_ uint, cells []Cell) {
		for _, c := range cells {
			newScalar := d.session.ScalarFor(newX, c.Offset, c.Size, newX.Type.ElemType(), c.Scalar.Width)
			d.inv.Expand(c.Scalar, newScalar)
			nm = nm.Insert(Cell{Offset: c.Offset, Size: c.Size, Scalar: newScalar})
		}
	})
	d.offsets[newX.Index] = nm
}

func (d *Domain) ToConstraintSystem() numdom.LinearConstraintSystem {
	return d.inv.ToConstraintSystem()
}

func (d *Domain) ToDisjunctiveConstraintSystem() numdom.DisjunctiveLinearConstraintSystem {
	return d.inv.ToDisjunctiveConstraintSystem()
}

func (d *Domain) String() string {
	var parts []string
	for idx, m := range d.offsets {
		parts = append(parts, "a"+itoa(idx)+":"+m.String())
	}
	return d.inv.String() + " " + strings.Join(parts, " ")
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

var _ numdom.NumericalDomain = (*Domain)(nil)

// singleton extracts e's sole integer value, for the constant-only
// parameters (elem_size, lb, ub, i) spec.md §4.7 requires to be singletons.
func singleton(inv numdom.NumericalDomain, e numdom.LinearExpression) (int, bool) {
	if e.IsConstant() {
		return e.Constant, true
	}
	v, ok := e.AsVariable()
	if !ok {
		return 0, false
	}
	iv := inv.Get(v)
	return iv.AsSingleton()
}

// Init implements spec.md §4.7 "init(a, elem_size, lb, ub, val)": lb, ub,
// elem_size must all resolve to constants; the range must divide evenly by
// elem_size and be no larger than MaxInitBytes, else init is skipped with a
// warning. Every covered offset is stored with val's cell.
func (d *Domain) Init(a numdom.Variable, elemSize, lb, ub, val numdom.LinearExpression) {
	es, esOk := singleton(d.inv, elemSize)
	l, lOk := singleton(d.inv, lb)
	u, uOk := singleton(d.inv, ub)
	if !esOk || !lOk || !uOk || es <= 0 {
		diagnostics.Warnf("arrayexpand", "init(%s): elem_size/lb/ub not all constant, skipping", a)
		return
	}
	span := u - l
	if span < 0 || span%es != 0 {
		diagnostics.Warnf("arrayexpand", "init(%s): [%d,%d) not a multiple of elem_size %d, skipping", a, l, u, es)
		return
	}
	if span > MaxInitBytes {
		diagnostics.Warnf("arrayexpand", "init(%s): range %d bytes exceeds max %d, skipping", a, span, MaxInitBytes)
		return
	}
	m := d.offsets[a.Index]
	for off := l; off < u; off += es {
		scalar := d.session.ScalarFor(a, off, es, a.Type.ElemType(), 0)
		d.inv.Assign(scalar, val)
		m = m.Insert(Cell{Offset: off, Size: es, Scalar: scalar})
	}
	d.offsets[a.Index] = m
}

// Load implements spec.md §4.7 "load(lhs, a, elem_size, i)": i and
// elem_size must be singletons; if the target region overlaps anything
// other than an exact match, the load is imprecise (lhs -> top). Otherwise
// materialize (or reuse) the exact cell and assign lhs from its scalar.
func (d *Domain) Load(lhs, a numdom.Variable, elemSize, i numdom.LinearExpression) {
	es, esOk := singleton(d.inv, elemSize)
	off, iOk := singleton(d.inv, i)
	if !esOk || !iOk || es <= 0 {
		diagnostics.Warnf("arrayexpand", "load(%s[%s]): non-constant index or elem_size, setting %s to top", a, i, lhs)
		d.inv.Set(lhs, numdom.Top())
		return
	}
	m := d.offsets[a.Index]
	overlap := m.Overlapping(off, es)
	for _, c := range overlap {
		if !c.exact(off, es) {
			diagnostics.Warnf("arrayexpand", "load(%s[%d:%d]): overlaps existing cell %s, setting %s to top", a, off, es, c, lhs)
			d.inv.Set(lhs, numdom.Top())
			return
		}
	}
	var scalar numdom.Variable
	found := false
	for _, c := range overlap {
		if c.exact(off, es) {
			scalar, found = c.Scalar, true
			break
		}
	}
	if !found {
		scalar = d.session.ScalarFor(a, off, es, a.Type.ElemType(), 0)
		m = m.Insert(Cell{Offset: off, Size: es, Scalar: scalar})
		d.offsets[a.Index] = m
	}
	assignElem(d.inv, lhs, numdom.Var(scalar))
}

// assignElem dispatches a scalar assignment on a's element type, mirroring
// original_source's per-type array_init/array_load/array_store handling
// (spec.md §4.6/§4.7); see arraysmash.assignElem for the same pattern.
func assignElem(inv numdom.NumericalDomain, x numdom.Variable, rhs numdom.LinearExpression) {
	if x.Type == numdom.Bool {
		if k, ok := rhs.AsVariable(); ok {
			inv.Assign(x, numdom.Var(k))
			return
		}
		if rhs.Constant != 0 {
			inv.Set(x, numdom.Singleton(1))
		} else {
			inv.Set(x, numdom.Singleton(0))
		}
		return
	}
	inv.Assign(x, rhs)
}

// Store implements spec.md §4.7 "store(a, elem_size, i, val, _)": i and
// elem_size must be singletons (a non-constant index or size is a
// precision-loss point, skipped with a warning per spec.md §7, since a
// sound conservative kill of the whole array would be needed and is left
// to the caller invalidating the array explicitly). Overlapping cells are
// conservatively killed (scalar forgotten, cell removed) before the target
// cell is materialized and strong-assigned.
func (d *Domain) Store(a numdom.Variable, elemSize, i, val numdom.LinearExpression, isSingleton bool) {
	es, esOk := singleton(d.inv, elemSize)
	off, iOk := singleton(d.inv, i)
	if !esOk || !iOk || es <= 0 {
		diagnostics.Warnf("arrayexpand", "store(%s[%s]): non-constant index or elem_size, skipping", a, i)
		return
	}
	m := d.offsets[a.Index]
	for _, c := range m.Overlapping(off, es) {
		if c.exact(off, es) {
			continue
		}
		d.inv.Forget(c.Scalar)
		m = m.Remove(c)
	}
	scalar := d.session.ScalarFor(a, off, es, a.Type.ElemType(), 0)
	m = m.Insert(Cell{Offset: off, Size: es, Scalar: scalar})
	d.offsets[a.Index] = m
	assignElem(d.inv, scalar, val)
}

// ArrayAssign implements spec.md §4.7 "array_assign(lhs, rhs)": copy the
// offset map wholesale (cells' scalar identity, being session-memoized per
// (array, offset, size), is specific to the array variable, not reusable
// across lhs/rhs, so this re-expands every rhs cell onto lhs exactly like
// Expand).
func (d *Domain) ArrayAssign(lhs, rhs numdom.Variable) {
	d.Forget(lhs)
	m, ok := d.offsets[rhs.Index]
	if !ok {
		return
	}
	nm := EmptyOffsetMap()
	m.tree.ForEach(func(_ uint, cells []Cell) {
		for _, c := range cells {
			scalar := d.session.ScalarFor(lhs, c.Offset, c.Size, lhs.Type.ElemType(), c.Scalar.Width)
			d.inv.Assign(scalar, numdom.Var(c.Scalar))
			nm = nm.Insert(Cell{Offset: c.Offset, Size: c.Size, Scalar: scalar})
		}
	})
	d.offsets[lhs.Index] = nm
}
