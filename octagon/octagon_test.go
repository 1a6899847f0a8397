package octagon

import (
	"testing"

	"github.com/k-vikingsson/soct/numdom"
)

func intVar(idx int, name string) numdom.Variable {
	return numdom.Variable{Index: idx, Name: name, Type: numdom.Int}
}

func TestTopIsUnconstrained(t *testing.T) {
	d := Top()
	if d.IsBottom() {
		t.Fatalf("Top() must not be bottom")
	}
	if !d.IsTop() {
		t.Fatalf("Top() must be top")
	}
	x := intVar(0, "x")
	if iv := d.Get(x); !iv.IsTop() {
		t.Fatalf("an unconstrained variable's interval should be top, got %v", iv)
	}
}

func TestBottomIsBottom(t *testing.T) {
	d := Bottom()
	if !d.IsBottom() {
		t.Fatalf("Bottom() must be bottom")
	}
	if iv := d.Get(intVar(0, "x")); !iv.IsBottom() {
		t.Fatalf("every interval in bottom must be bottom, got %v", iv)
	}
}

func TestSetAndGetInterval(t *testing.T) {
	d := Top()
	x := intVar(0, "x")
	d.Set(x, numdom.FiniteInterval(1, 10))
	if iv := d.Get(x); !iv.Eq(numdom.FiniteInterval(1, 10)) {
		t.Fatalf("Get(x) after Set(x, [1,10]) = %v, want [1,10]", iv)
	}
}

func TestSetBottomIntervalCollapses(t *testing.T) {
	d := Top()
	x := intVar(0, "x")
	d.Set(x, numdom.BottomInterval())
	if !d.IsBottom() {
		t.Fatalf("setting a variable to a bottom interval must collapse the whole domain to bottom")
	}
}

func TestForgetRemovesVariable(t *testing.T) {
	d := Top()
	x := intVar(0, "x")
	d.Set(x, numdom.FiniteInterval(1, 10))
	d.Forget(x)
	if iv := d.Get(x); !iv.IsTop() {
		t.Fatalf("after Forget, x should be unconstrained again, got %v", iv)
	}
}

func TestExpandCopiesConstraints(t *testing.T) {
	d := Top()
	x := intVar(0, "x")
	y := intVar(1, "y")
	d.Set(x, numdom.FiniteInterval(1, 10))
	d.Expand(x, y)
	if iv := d.Get(y); !iv.Eq(numdom.FiniteInterval(1, 10)) {
		t.Fatalf("Expand(x,y) should give y the same interval x had, got %v", iv)
	}
	d.Set(x, numdom.FiniteInterval(2, 2))
	if iv := d.Get(y); !iv.Eq(numdom.FiniteInterval(1, 10)) {
		t.Fatalf("after expand, x and y must be independent, y changed to %v", iv)
	}
}

func TestExpandIntoExistingTargetPanics(t *testing.T) {
	d := Top()
	x := intVar(0, "x")
	y := intVar(1, "y")
	d.Set(x, numdom.FiniteInterval(0, 0))
	d.Set(y, numdom.FiniteInterval(0, 0))

	defer func() {
		if recover() == nil {
			t.Fatalf("expanding into an already-bound target must panic (domain misuse)")
		}
	}()
	d.Expand(x, y)
}

func TestProjectKeepsOnlyNamedVariables(t *testing.T) {
	d := Top()
	x, y := intVar(0, "x"), intVar(1, "y")
	d.Set(x, numdom.FiniteInterval(1, 1))
	d.Set(y, numdom.FiniteInterval(2, 2))
	d.Project([]numdom.Variable{x})

	if iv := d.Get(x); !iv.Eq(numdom.FiniteInterval(1, 1)) {
		t.Fatalf("Project should preserve x, got %v", iv)
	}
	if iv := d.Get(y); !iv.IsTop() {
		t.Fatalf("Project should forget y, got %v", iv)
	}
}

func TestRenameRelabelsVariable(t *testing.T) {
	d := Top()
	x, y := intVar(0, "x"), intVar(1, "y")
	d.Set(x, numdom.FiniteInterval(3, 3))
	d.Rename([]numdom.Variable{x}, []numdom.Variable{y})

	if iv := d.Get(y); !iv.Eq(numdom.FiniteInterval(3, 3)) {
		t.Fatalf("after Rename(x->y), y should carry x's old interval, got %v", iv)
	}
	if iv := d.Get(x); !iv.IsTop() {
		t.Fatalf("after Rename(x->y), x should no longer be bound, got %v", iv)
	}
}
