// Package domtraits implements the cross-cutting trait bundles of spec.md
// C7/§6 "Domain traits": operations every numerical domain must support
// beyond its own interface, generalized from the teacher's
// analysis/lattice generic-dispatch style (a family of free functions
// operating on a shared Element interface) into Go generic functions
// parameterized over numdom.NumericalDomain.
package domtraits

import (
	"golang.org/x/tools/container/intsets"

	"github.com/k-vikingsson/soct/numdom"
)

// DoInitialization is domain_traits' do_initialization(cfg) hook: a no-op
// for every domain in this module, since none of them needs CFG-wide setup
// before analysis begins (original_source's own array_smashing/
// array_expansion specializations are likewise empty).
func DoInitialization(numdom.NumericalDomain) {}

// Normalize calls d's own Normalize method if it exposes one (only
// octagon-shaped domains need eager coherence restoration; plain interval
// or array domains have nothing to restabilize).
func Normalize(d numdom.NumericalDomain) {
	if n, ok := d.(interface{ Normalize() }); ok {
		n.Normalize()
	}
}

// Forget removes every variable in xs from d.
func Forget(d numdom.NumericalDomain, xs []numdom.Variable) { d.ForgetAll(xs) }

// Project keeps only the variables in xs.
func Project(d numdom.NumericalDomain, xs []numdom.Variable) { d.Project(xs) }

// Expand creates newX with x's current value and no relation to x.
func Expand(d numdom.NumericalDomain, x, newX numdom.Variable) { d.Expand(x, newX) }

// LowerEquality is constraint_simp_domain_traits' lower_equality: rewrites
// an equality into the pair of inequalities {e<=0, -e<=0} for domains over
// an ordered numeric type (every domain here is integer-valued), a
// pass-through for every other constraint kind.
func LowerEquality(c numdom.LinearConstraint) []numdom.LinearConstraint {
	return numdom.LowerEquality(c)
}

// Entail is checker_domain_traits' entail(inv, cst): inv implies cst iff
// intersecting inv with cst's negation is infeasible. Per spec.md §4.1,
// an equality is first lowered to its pair of inequalities so its negation
// is never a disequality (d |= e=0 iff d |= e<=0 and d |= -e<=0; each of
// those negates cleanly to a strict inequality). Implemented without
// mutating d: the probe is d's own Meet with itself, which every
// NumericalDomain returns as a fresh value.
func Entail(d numdom.NumericalDomain, cst numdom.LinearConstraint) bool {
	if cst.Kind == numdom.Equality {
		for _, lowered := range numdom.LowerEquality(cst) {
			if !Entail(d, lowered) {
				return false
			}
		}
		return true
	}
	probe := d.Meet(d) // cheap structural copy: d & d == d
	probe.AddConstraint(cst.Negate())
	return probe.IsBottom()
}

// Intersect is checker_domain_traits' intersect(inv, cst): true when
// inv & cst is not bottom.
func Intersect(d numdom.NumericalDomain, cst numdom.LinearConstraint) bool {
	probe := d.Meet(d)
	probe.AddConstraint(cst)
	return !probe.IsBottom()
}

// Extract is reduced_domain_traits' extract(dom, x, &csts, only_equalities):
// every constraint currently held by dom that mentions x, optionally
// restricted to equalities (original_source uses this to seed a reduced
// product domain's other components from the variables a transfer touched).
func Extract(d numdom.NumericalDomain, x numdom.Variable, onlyEqualities bool) numdom.LinearConstraintSystem {
	var out numdom.LinearConstraintSystem
	for _, c := range d.ToConstraintSystem() {
		if onlyEqualities && c.Kind != numdom.Equality {
			continue
		}
		if _, has := c.Expr.Terms[x.Index]; has {
			out = append(out, c)
		}
	}
	return out
}

// IsUnsat is array_sgraph_domain_traits' legacy is_unsat(inv, cst): true
// when adding cst to inv would be infeasible, i.e. inv does not intersect
// cst. This is Intersect's negation, kept as a distinct name since the two
// trait bundles name it differently (spec.md §6).
func IsUnsat(d numdom.NumericalDomain, cst numdom.LinearConstraint) bool {
	return !Intersect(d, cst)
}

// ActiveVariables is array_sgraph_domain_traits' legacy active_variables:
// every variable mentioned by any constraint d currently holds, deduped by
// index with an intsets.Sparse seen-set (the same sparse-bitset type the
// teacher uses for component-indexed sets in
// analysis/upfront/field-writes.go).
func ActiveVariables(d numdom.NumericalDomain) []numdom.Variable {
	var seen intsets.Sparse
	var out []numdom.Variable
	for _, c := range d.ToConstraintSystem() {
		for _, t := range c.Expr.SortedTerms() {
			if seen.Insert(t.Var.Index) {
				out = append(out, t.Var)
			}
		}
	}
	return out
}
