// Package arraysmash implements the array smashing domain (spec.md C5):
// every array is represented by a single summary variable in an inner
// numerical domain, and every element access is reflected on that one
// variable. Grounded on
// original_source/crab/include/crab/domains/array_smashing.hpp, translated
// from its class-template-over-NumDomain style into a concrete Go type
// wrapping a numdom.NumericalDomain.
package arraysmash

import (
	"github.com/k-vikingsson/soct/diagnostics"
	"github.com/k-vikingsson/soct/numdom"
)

// Domain lifts an inner numerical domain to reason about arrays-as-summaries.
// It satisfies numdom.NumericalDomain itself (every scalar operation simply
// delegates to inv), plus the array-specific operations below.
type Domain struct {
	inv     numdom.NumericalDomain
	factory numdom.VariableFactory
}

// New wraps inv (assumed Top or Bottom already, per the caller's choice) as
// an array-smashing domain, using factory to mint the temporary variables
// Load needs.
func New(inv numdom.NumericalDomain, factory numdom.VariableFactory) *Domain {
	return &Domain{inv: inv, factory: factory}
}

func asDomain(nd numdom.NumericalDomain) *Domain {
	d, ok := nd.(*Domain)
	if !ok {
		numdom.Fatal(numdom.ErrUnknownOperation, "arraysmash: expected *arraysmash.Domain, got %T", nd)
	}
	return d
}

// clone returns a Domain with its own independent inner state: d.inv is an
// interface value, so copying it verbatim would share the same underlying
// *octagon.Domain pointer between d and the clone, and that domain's own
// mutators rewrite themselves in place (spec.md §5's copy-on-write "base
// +norm+lock" idiom, ported as an eager `*d = *nd` body-swap) rather than
// returning a new value. Meet(self) sidesteps that: every NumericalDomain's
// lattice laws must return a fresh value, so self&self is a cheap way to
// obtain one (the same idiom domtraits.Entail uses for its own probe copy).
func (d *Domain) clone() *Domain { return &Domain{inv: d.inv.Meet(d.inv), factory: d.factory} }

// Content returns the inner numerical domain, for callers that need to
// inspect scalar state directly (mirrors original_source's get_content_domain).
func (d *Domain) Content() numdom.NumericalDomain { return d.inv }

func (d *Domain) IsBottom() bool { return d.inv.IsBottom() }
func (d *Domain) IsTop() bool    { return d.inv.IsTop() }

func (d *Domain) Leq(other numdom.NumericalDomain) bool { return d.inv.Leq(asDomain(other).inv) }

func (d *Domain) Join(other numdom.NumericalDomain) numdom.NumericalDomain {
	return &Domain{inv: d.inv.Join(asDomain(other).inv), factory: d.factory}
}

func (d *Domain) Meet(other numdom.NumericalDomain) numdom.NumericalDomain {
	return &Domain{inv: d.inv.Meet(asDomain(other).inv), factory: d.factory}
}

func (d *Domain) Widen(other numdom.NumericalDomain) numdom.NumericalDomain {
	return &Domain{inv: d.inv.Widen(asDomain(other).inv), factory: d.factory}
}

func (d *Domain) WidenThresholds(other numdom.NumericalDomain, ts []int) numdom.NumericalDomain {
	return &Domain{inv: d.inv.WidenThresholds(asDomain(other).inv, ts), factory: d.factory}
}

func (d *Domain) Narrow(other numdom.NumericalDomain) numdom.NumericalDomain {
	return &Domain{inv: d.inv.Narrow(asDomain(other).inv), factory: d.factory}
}

func (d *Domain) Assign(x numdom.Variable, e numdom.LinearExpression) { d.inv.Assign(x, e) }

func (d *Domain) Apply(op numdom.ArithOp, x, y, z numdom.Variable) { d.inv.Apply(op, x, y, z) }

func (d *Domain) ApplyConst(op numdom.ArithOp, x, y numdom.Variable, k int) {
	d.inv.ApplyConst(op, x, y, k)
}

func (d *Domain) ApplyBitwise(op numdom.BitwiseOp, x, y, z numdom.Variable) {
	d.inv.ApplyBitwise(op, x, y, z)
}

func (d *Domain) ApplyBitwiseConst(op numdom.BitwiseOp, x, y numdom.Variable, k int) {
	d.inv.ApplyBitwiseConst(op, x, y, k)
}

func (d *Domain) ApplyDiv(op numdom.DivOp, x, y, z numdom.Variable) { d.inv.ApplyDiv(op, x, y, z) }

func (d *Domain) ApplyConv(op numdom.ConvOp, dst, src numdom.Variable) { d.inv.ApplyConv(op, dst, src) }

func (d *Domain) AddConstraint(c numdom.LinearConstraint) { d.inv.AddConstraint(c) }

func (d *Domain) AddConstraints(cs numdom.LinearConstraintSystem) { d.inv.AddConstraints(cs) }

func (d *Domain) Forget(x numdom.Variable) { d.inv.Forget(x) }

func (d *Domain) Get(x numdom.Variable) numdom.Interval { return d.inv.Get(x) }

func (d *Domain) Set(x numdom.Variable, i numdom.Interval) { d.inv.Set(x, i) }

func (d *Domain) Rename(from, to []numdom.Variable) { d.inv.Rename(from, to) }

func (d *Domain) ForgetAll(xs []numdom.Variable) { d.inv.ForgetAll(xs) }

// Project keeps only xs; per spec.md §4.6 this degrades array dimensions to
// top rather than attempting to preserve per-element relations, since a
// summary variable carries no structure to project partially.
func (d *Domain) Project(xs []numdom.Variable) {
	diagnostics.Warnf("arraysmash", "project degrades array summaries to top")
	d.inv.Project(xs)
}

// Expand warns and degrades, matching original_source's domain_traits
// expand() for array_smashing ("lose precision if relational or disjunctive
// domain"): a summary variable's relations to the rest of the state cannot
// be soundly duplicated onto a fresh variable without knowing which
// elements it actually summarizes.
func (d *Domain) Expand(x, newX numdom.Variable) {
	diagnostics.Warnf("arraysmash", "expand(%s, %s) not implemented for array summaries, forgetting %s", x, newX, newX)
	d.inv.Forget(newX)
}

func (d *Domain) ToConstraintSystem() numdom.LinearConstraintSystem { return d.inv.ToConstraintSystem() }

func (d *Domain) ToDisjunctiveConstraintSystem() numdom.DisjunctiveLinearConstraintSystem {
	return d.inv.ToDisjunctiveConstraintSystem()
}

func (d *Domain) String() string { return "Smash(" + d.inv.String() + ")" }

var _ numdom.NumericalDomain = (*Domain)(nil)

// valueOrVar resolves e to either its constant or its sole variable,
// mirroring original_source's repeated rhs.is_constant()/rhs.get_variable()
// dispatch across strong_update/weak_update/array_init.
func valueOrVar(e numdom.LinearExpression) (k int, v numdom.Variable, isConst, isVar bool) {
	if e.IsConstant() {
		return e.Constant, numdom.Variable{}, true, false
	}
	if vv, ok := e.AsVariable(); ok {
		return 0, vv, false, true
	}
	return 0, numdom.Variable{}, false, false
}

// assignElem performs a := rhs on the array summary variable a, dispatching
// on a's element type the way original_source's strong_update/weak_update
// and array_init do (spec.md §4.6): boolean arrays via a boolean-constraint
// assignment substitute (no dedicated boolean domain here, so this
// approximates with a 0/1 singleton set), integer/real via linear
// assignment, pointer via null-check-or-copy (approximated identically to
// integer assignment since this module carries no dedicated pointer lattice).
// A scalar a (Load's lhs) is dispatched on its own type.
func assignElem(inv numdom.NumericalDomain, a numdom.Variable, rhs numdom.LinearExpression) {
	t := a.Type
	if t.IsArray() {
		t = t.ElemType()
	}
	switch t {
	case numdom.Bool:
		if k, _, isConst, _ := valueOrVar(rhs); isConst {
			if k != 0 {
				inv.Set(a, numdom.Singleton(1))
			} else {
				inv.Set(a, numdom.Singleton(0))
			}
			return
		}
		inv.Assign(a, rhs)
	default: // Int, Real, Pointer
		inv.Assign(a, rhs)
	}
}

// Init implements spec.md §4.6 "init(a, elem_size, lb, ub, val)": at
// initialization every element equals val, so this is a strong assign of
// the whole summary.
func (d *Domain) Init(a numdom.Variable, elemSize, lb, ub, val numdom.LinearExpression) {
	assignElem(d.inv, a, val)
}

// Load implements spec.md §4.6 "load(lhs, a, elem_size, i)": the summary
// variable must never be copied into lhs directly, since a itself
// over-approximates every element and aliasing it with lhs would let later
// refinements of lhs unsoundly narrow every element. Instead: mint a fresh
// temporary, expand a into it (a copy with no relation back to a), assign
// lhs from the temporary, then forget the temporary.
func (d *Domain) Load(lhs, a numdom.Variable, elemSize, i numdom.LinearExpression) {
	tmp := d.factory.Fresh(a.String()+".tmp", a.Type.ElemType(), a.Width)
	d.inv.Expand(a, tmp)
	assignElem(d.inv, lhs, numdom.Var(tmp))
	d.inv.Forget(tmp)
}

// Store implements spec.md §4.6 "store(a, elem_size, i, val, is_singleton)":
// a strong update when the caller asserts a single element is touched,
// otherwise a weak update (join of the pre-state with the post-update
// state), per original_source's strong_update/weak_update split.
func (d *Domain) Store(a numdom.Variable, elemSize, i, val numdom.LinearExpression, isSingleton bool) {
	if isSingleton {
		assignElem(d.inv, a, val)
		return
	}
	other := d.clone()
	assignElem(other.inv, a, val)
	d.inv = d.inv.Join(other.inv)
}

// ArrayAssign implements spec.md §4.6 "array_assign(lhs, rhs)": copy the
// summary variable.
func (d *Domain) ArrayAssign(lhs, rhs numdom.Variable) {
	assignElem(d.inv, lhs, numdom.Var(rhs))
}
