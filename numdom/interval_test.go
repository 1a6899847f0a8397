package numdom

import "testing"

func TestIntervalJoinMeet(t *testing.T) {
	a := FiniteInterval(0, 5)
	b := FiniteInterval(3, 10)

	if got := a.Join(b); !got.Eq(FiniteInterval(0, 10)) {
		t.Fatalf("join = %v, want [0,10]", got)
	}
	if got := a.Meet(b); !got.Eq(FiniteInterval(3, 5)) {
		t.Fatalf("meet = %v, want [3,5]", got)
	}
}

func TestIntervalMeetDisjointIsBottom(t *testing.T) {
	a := FiniteInterval(0, 1)
	b := FiniteInterval(5, 6)
	if got := a.Meet(b); !got.IsBottom() {
		t.Fatalf("meet of disjoint intervals = %v, want bottom", got)
	}
}

func TestIntervalWiden(t *testing.T) {
	a := FiniteInterval(0, 5)
	b := FiniteInterval(-1, 5)
	got := a.Widen(b)
	if !got.Low.IsInfinite() {
		t.Fatalf("widen should extrapolate a weakened low bound to -oo, got %v", got)
	}
	if got.High.Eq(FiniteBound(5)) == false {
		t.Fatalf("widen should keep a stable high bound, got %v", got)
	}
}

func TestIntervalWidenThresholds(t *testing.T) {
	a := FiniteInterval(0, 5)
	b := FiniteInterval(-3, 5)
	got := a.WidenThresholds(b, []int{-10, -5})
	if !got.Low.Eq(FiniteBound(-5)) {
		t.Fatalf("widen with thresholds = %v, want low clamped to the tightest sound threshold -5", got)
	}
}

func TestIntervalWidenThresholdsNoneApplyFallsBackToInfinity(t *testing.T) {
	a := FiniteInterval(0, 5)
	b := FiniteInterval(-3, 5)
	got := a.WidenThresholds(b, []int{-2})
	if !got.Low.IsInfinite() {
		t.Fatalf("with no threshold <= the new bound, widen should fall back to -oo, got %v", got)
	}
}

func TestIntervalLeq(t *testing.T) {
	narrow := FiniteInterval(2, 3)
	wide := FiniteInterval(0, 10)
	if !narrow.Leq(wide) {
		t.Fatalf("[2,3] should be <= [0,10]")
	}
	if wide.Leq(narrow) {
		t.Fatalf("[0,10] should not be <= [2,3]")
	}
	if !BottomInterval().Leq(narrow) {
		t.Fatalf("bottom should be <= anything")
	}
}

func TestIntervalArithmetic(t *testing.T) {
	a := FiniteInterval(1, 3)
	b := FiniteInterval(2, 4)
	if got := a.Plus(b); !got.Eq(FiniteInterval(3, 7)) {
		t.Fatalf("[1,3]+[2,4] = %v, want [3,7]", got)
	}
	if got := a.Minus(b); !got.Eq(FiniteInterval(-3, 1)) {
		t.Fatalf("[1,3]-[2,4] = %v, want [-3,1]", got)
	}
	if got := a.Mult(b); !got.Eq(FiniteInterval(2, 12)) {
		t.Fatalf("[1,3]*[2,4] = %v, want [2,12]", got)
	}
}

func TestIntervalDivByZeroStraddlingIsTop(t *testing.T) {
	a := FiniteInterval(1, 10)
	b := FiniteInterval(-1, 1)
	got := a.Div(b)
	if !got.IsTop() {
		t.Fatalf("dividing by a range straddling zero should yield top, got %v", got)
	}
}

func TestIntervalAsSingleton(t *testing.T) {
	if n, ok := Singleton(7).AsSingleton(); !ok || n != 7 {
		t.Fatalf("AsSingleton of Singleton(7) = %d, %v, want 7, true", n, ok)
	}
	if _, ok := FiniteInterval(0, 1).AsSingleton(); ok {
		t.Fatalf("AsSingleton of a non-singleton interval should report false")
	}
}
