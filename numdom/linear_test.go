package numdom

import "testing"

func TestLinearExpressionAddTermCancels(t *testing.T) {
	x := Variable{Index: 0, Name: "x"}
	e := NewLinearExpression(1).AddTerm(2, x).AddTerm(-2, x)
	if !e.IsConstant() || e.Constant != 1 {
		t.Fatalf("opposite coefficients should cancel to a pure constant, got %v", e)
	}
}

func TestLinearExpressionPlusAndNegate(t *testing.T) {
	x := Variable{Index: 0, Name: "x"}
	y := Variable{Index: 1, Name: "y"}
	e := Var(x).AddTerm(2, y).Plus(NewLinearExpression(3))
	if e.Constant != 3 {
		t.Fatalf("expected constant 3, got %d", e.Constant)
	}
	neg := e.Negate()
	if neg.Constant != -3 {
		t.Fatalf("expected negated constant -3, got %d", neg.Constant)
	}
	if neg.Terms[x.Index].coeff != -1 || neg.Terms[y.Index].coeff != -2 {
		t.Fatalf("negate should flip every coefficient, got %v", neg)
	}
}

func TestLinearExpressionAsVariable(t *testing.T) {
	x := Variable{Index: 0, Name: "x"}
	if v, ok := Var(x).AsVariable(); !ok || v.Index != x.Index {
		t.Fatalf("Var(x).AsVariable() = %v, %v, want x, true", v, ok)
	}
	if _, ok := Var(x).AddTerm(1, Variable{Index: 1}).AsVariable(); ok {
		t.Fatalf("a two-term expression must not report AsVariable ok")
	}
	if _, ok := NewLinearExpression(5).AsVariable(); ok {
		t.Fatalf("a pure constant must not report AsVariable ok")
	}
}

func TestLinearExpressionScale(t *testing.T) {
	x := Variable{Index: 0, Name: "x"}
	e := Var(x).Plus(NewLinearExpression(2)).Scale(3)
	if e.Constant != 6 || e.Terms[x.Index].coeff != 3 {
		t.Fatalf("3*(x+2) = %v, want 3*x+6", e)
	}
}

func TestLowerEqualityAndNegate(t *testing.T) {
	x := Variable{Index: 0, Name: "x"}
	c := Eq0(Var(x))
	lowered := LowerEquality(c)
	if len(lowered) != 2 {
		t.Fatalf("lowering an equality should yield exactly two inequalities, got %d", len(lowered))
	}
	for _, lc := range lowered {
		if lc.Kind != Inequality {
			t.Fatalf("lowered constraint %v should be an inequality", lc)
		}
	}

	neg := Leq0(Var(x)).Negate()
	if neg.Kind != StrictInequality {
		t.Fatalf("negating x<=0 should give a strict inequality, got %v", neg.Kind)
	}
	if neg2 := neg.Negate(); neg2.Kind != Inequality {
		t.Fatalf("negating a strict inequality should give an inequality, got %v", neg2.Kind)
	}
}

func TestSortedTermsIsDeterministic(t *testing.T) {
	a := Variable{Index: 5, Name: "a"}
	b := Variable{Index: 1, Name: "b"}
	e := NewLinearExpression(0).AddTerm(1, a).AddTerm(1, b)
	terms := e.SortedTerms()
	if len(terms) != 2 || terms[0].Var.Index != 1 || terms[1].Var.Index != 5 {
		t.Fatalf("SortedTerms should order by variable index, got %v", terms)
	}
}
