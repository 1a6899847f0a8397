package numdom

// NumericalDomain is the contract required of any inner scalar domain that
// an array lifter (arraysmash, arrayexpand) may be built on top of, and that
// the split-octagon domain itself satisfies (spec.md §4.1).
//
// Implementations are value types: methods that would mutate state in a
// pointer-oriented design instead return a new value (Join, Meet, ...), or
// mutate a copy-on-write receiver (Assign, Apply, ...) whose sharing is
// private to the implementation (spec.md §5).
type NumericalDomain interface {
	IsBottom() bool
	IsTop() bool

	Leq(other NumericalDomain) bool
	Join(other NumericalDomain) NumericalDomain
	Meet(other NumericalDomain) NumericalDomain
	Widen(other NumericalDomain) NumericalDomain
	WidenThresholds(other NumericalDomain, ts []int) NumericalDomain
	Narrow(other NumericalDomain) NumericalDomain

	Assign(x Variable, e LinearExpression)
	Apply(op ArithOp, x, y, z Variable)
	ApplyConst(op ArithOp, x, y Variable, k int)
	ApplyBitwise(op BitwiseOp, x, y, z Variable)
	ApplyBitwiseConst(op BitwiseOp, x, y Variable, k int)
	ApplyDiv(op DivOp, x, y, z Variable)
	ApplyConv(op ConvOp, dst, src Variable)

	AddConstraint(c LinearConstraint)
	AddConstraints(cs LinearConstraintSystem)
	Forget(x Variable)
	Get(x Variable) Interval
	Set(x Variable, i Interval)

	Rename(from, to []Variable)
	ForgetAll(xs []Variable)
	Project(xs []Variable)
	Expand(x, newX Variable)

	ToConstraintSystem() LinearConstraintSystem
	ToDisjunctiveConstraintSystem() DisjunctiveLinearConstraintSystem

	String() string
}
