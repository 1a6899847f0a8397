package numdom

import "testing"

func TestFiniteBoundArithmetic(t *testing.T) {
	a, b := FiniteBound(3), FiniteBound(5)
	if got := a.Plus(b); got != FiniteBound(8) {
		t.Fatalf("3+5 = %v, want 8", got)
	}
	if got := a.Minus(b); got != FiniteBound(-2) {
		t.Fatalf("3-5 = %v, want -2", got)
	}
	if got := a.Mult(b); got != FiniteBound(15) {
		t.Fatalf("3*5 = %v, want 15", got)
	}
	if got := FiniteBound(7).Div(FiniteBound(2)); got != FiniteBound(3) {
		t.Fatalf("7/2 = %v, want 3", got)
	}
}

func TestInfinityAbsorption(t *testing.T) {
	posInf, negInf := PlusInfinity{}, MinusInfinity{}
	if got := posInf.Plus(FiniteBound(10)); got != Bound(posInf) {
		t.Fatalf("+oo + 10 = %v, want +oo", got)
	}
	if got := FiniteBound(10).Minus(posInf); got != Bound(negInf) {
		t.Fatalf("10 - +oo = %v, want -oo", got)
	}
	if got := FiniteBound(0).Div(posInf); got != FiniteBound(0) {
		t.Fatalf("0 / +oo = %v, want 0", got)
	}
}

func TestMultInfinitySignFlip(t *testing.T) {
	posInf, negInf := PlusInfinity{}, MinusInfinity{}
	if got := FiniteBound(-2).Mult(posInf); got != Bound(negInf) {
		t.Fatalf("-2 * +oo = %v, want -oo", got)
	}
	if got := FiniteBound(-2).Mult(negInf); got != Bound(posInf) {
		t.Fatalf("-2 * -oo = %v, want +oo", got)
	}
}

func TestPlusInfinityMinusInfinityPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic adding +oo and -oo")
		}
	}()
	PlusInfinity{}.Plus(MinusInfinity{})
}

func TestDivByZeroPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic dividing by zero")
		}
	}()
	FiniteBound(1).Div(FiniteBound(0))
}

func TestOrderingAndMinMax(t *testing.T) {
	a, b := FiniteBound(3), FiniteBound(5)
	if !a.Leq(b) || a.Geq(b) {
		t.Fatalf("expected 3 <= 5 and not 3 >= 5")
	}
	if got := a.Max(b); got != b {
		t.Fatalf("max(3,5) = %v, want 5", got)
	}
	if got := a.Min(b); got != a {
		t.Fatalf("min(3,5) = %v, want 3", got)
	}
	negInf, posInf := MinusInfinity{}, PlusInfinity{}
	if !negInf.Leq(a) || a.Leq(negInf) {
		t.Fatalf("-oo must be below every finite bound")
	}
	if !posInf.Geq(a) || !a.Leq(posInf) {
		t.Fatalf("+oo must be above every finite bound")
	}
}

func TestNumber(t *testing.T) {
	if n, ok := FiniteBound(7).Number(); !ok || n != 7 {
		t.Fatalf("Number() of finite bound = %d, %v, want 7, true", n, ok)
	}
	if _, ok := (PlusInfinity{}).Number(); ok {
		t.Fatalf("Number() of +oo should report false")
	}
}
