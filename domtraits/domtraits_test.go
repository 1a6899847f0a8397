package domtraits

import (
	"testing"

	"github.com/k-vikingsson/soct/numdom"
	"github.com/k-vikingsson/soct/octagon"
)

func intVar(idx int, name string) numdom.Variable {
	return numdom.Variable{Index: idx, Name: name, Type: numdom.Int}
}

func TestEntailHoldsForImpliedInequality(t *testing.T) {
	d := octagon.Top()
	x := intVar(0, "x")
	d.Set(x, numdom.FiniteInterval(0, 10))

	if !Entail(d, numdom.Leq0(numdom.Var(x).Plus(numdom.NewLinearExpression(-20)))) {
		t.Fatalf("x in [0,10] should entail x<=20")
	}
	if Entail(d, numdom.Leq0(numdom.Var(x).Plus(numdom.NewLinearExpression(-5)))) {
		t.Fatalf("x in [0,10] should not entail x<=5")
	}
}

func TestEntailDoesNotMutateTheDomain(t *testing.T) {
	d := octagon.Top()
	x := intVar(0, "x")
	d.Set(x, numdom.FiniteInterval(0, 10))

	Entail(d, numdom.Leq0(numdom.Var(x).Plus(numdom.NewLinearExpression(-5))))
	if iv := d.Get(x); !iv.Eq(numdom.FiniteInterval(0, 10)) {
		t.Fatalf("Entail's probe must not leak mutation back into the original domain, got %v", iv)
	}
}

func TestEntailLowersEqualityToInequalityPair(t *testing.T) {
	d := octagon.Top()
	x := intVar(0, "x")
	d.Set(x, numdom.Singleton(7))

	if !Entail(d, numdom.Eq0(numdom.Var(x).Plus(numdom.NewLinearExpression(-7)))) {
		t.Fatalf("x pinned to 7 should entail x=7")
	}
	if Entail(d, numdom.Eq0(numdom.Var(x).Plus(numdom.NewLinearExpression(-8)))) {
		t.Fatalf("x pinned to 7 should not entail x=8")
	}
}

func TestIntersectTrueWhenConsistent(t *testing.T) {
	d := octagon.Top()
	x := intVar(0, "x")
	d.Set(x, numdom.FiniteInterval(0, 10))

	if !Intersect(d, numdom.Eq0(numdom.Var(x).Plus(numdom.NewLinearExpression(-5)))) {
		t.Fatalf("x in [0,10] intersected with x=5 should be feasible")
	}
	if Intersect(d, numdom.Eq0(numdom.Var(x).Plus(numdom.NewLinearExpression(-50)))) {
		t.Fatalf("x in [0,10] intersected with x=50 should be infeasible")
	}
}

func TestIsUnsatIsIntersectsNegation(t *testing.T) {
	d := octagon.Top()
	x := intVar(0, "x")
	d.Set(x, numdom.FiniteInterval(0, 10))

	cst := numdom.Eq0(numdom.Var(x).Plus(numdom.NewLinearExpression(-50)))
	if IsUnsat(d, cst) != !Intersect(d, cst) {
		t.Fatalf("IsUnsat must be exactly the negation of Intersect")
	}
	if !IsUnsat(d, cst) {
		t.Fatalf("x in [0,10] should make x=50 unsat")
	}
}

func TestExtractReturnsOnlyConstraintsMentioningX(t *testing.T) {
	d := octagon.Top()
	x, y := intVar(0, "x"), intVar(1, "y")
	d.Set(x, numdom.FiniteInterval(0, 10))
	d.Assign(y, numdom.Var(x).Plus(numdom.NewLinearExpression(3)))

	csts := Extract(d, x, false)
	if len(csts) == 0 {
		t.Fatalf("extracting x's constraints from a domain that bounds x should be non-empty")
	}
	for _, c := range csts {
		if _, has := c.Expr.Terms[x.Index]; !has {
			t.Fatalf("Extract(d, x, ...) returned a constraint not mentioning x: %v", c)
		}
	}
}

func TestExtractOnlyEqualitiesFiltersOutInequalities(t *testing.T) {
	d := octagon.Top()
	x := intVar(0, "x")
	d.Set(x, numdom.FiniteInterval(0, 10))

	csts := Extract(d, x, true)
	for _, c := range csts {
		if c.Kind != numdom.Equality {
			t.Fatalf("onlyEqualities=true should never return a non-equality constraint, got %v", c)
		}
	}
}

func TestActiveVariablesCollectsEveryMentionedVariable(t *testing.T) {
	d := octagon.Top()
	x, y := intVar(0, "x"), intVar(1, "y")
	d.Set(x, numdom.FiniteInterval(0, 10))
	d.Assign(y, numdom.Var(x).Plus(numdom.NewLinearExpression(3)))

	vars := ActiveVariables(d)
	seen := map[int]bool{}
	for _, v := range vars {
		seen[v.Index] = true
	}
	if !seen[x.Index] || !seen[y.Index] {
		t.Fatalf("active variables should include both x and y, got %v", vars)
	}
}

func TestNormalizeInvokesOptionalHookWithoutPanicking(t *testing.T) {
	d := octagon.Top()
	x := intVar(0, "x")
	d.Set(x, numdom.FiniteInterval(0, 10))
	Normalize(d) // octagon.Domain exposes Normalize(); this must not panic
}

func TestForgetAndProjectDelegateToTheDomain(t *testing.T) {
	d := octagon.Top()
	x, y := intVar(0, "x"), intVar(1, "y")
	d.Set(x, numdom.FiniteInterval(0, 10))
	d.Set(y, numdom.FiniteInterval(0, 20))

	Forget(d, []numdom.Variable{x})
	if iv := d.Get(x); !iv.IsTop() {
		t.Fatalf("Forget should have cleared x's bound, got %v", iv)
	}
	if iv := d.Get(y); !iv.Eq(numdom.FiniteInterval(0, 20)) {
		t.Fatalf("Forget(d, [x]) must not touch y, got %v", iv)
	}

	Project(d, []numdom.Variable{y})
	if iv := d.Get(y); !iv.Eq(numdom.FiniteInterval(0, 20)) {
		t.Fatalf("Project keeping y should leave y untouched, got %v", iv)
	}
}
