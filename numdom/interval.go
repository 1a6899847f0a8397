package numdom

import "fmt"

// Interval is the pair [Low, High] of bounds, Low <= High; an interval with
// Low > High represents bottom (the empty interval).
type Interval struct {
	Low, High Bound
}

// NewInterval builds the interval [low, high].
func NewInterval(low, high Bound) Interval { return Interval{low, high} }

// FiniteInterval builds the interval [low, high] from finite endpoints.
func FiniteInterval(low, high int) Interval {
	return Interval{FiniteBound(low), FiniteBound(high)}
}

// Singleton builds the one-point interval [k, k].
func Singleton(k int) Interval { return FiniteInterval(k, k) }

// Top is the unconstrained interval [-oo, +oo].
func Top() Interval { return Interval{MinusInfinity{}, PlusInfinity{}} }

// Bottom is the canonical empty interval.
func BottomInterval() Interval { return Interval{FiniteBound(1), FiniteBound(0)} }

func (i Interval) IsBottom() bool { return i.High.Lt(i.Low) }
func (i Interval) IsTop() bool {
	_, lowInf := i.Low.(MinusInfinity)
	_, highInf := i.High.(PlusInfinity)
	return lowInf && highInf
}

// AsSingleton returns the single finite value of i if i is a one-point
// interval, and false otherwise.
func (i Interval) AsSingleton() (int, bool) {
	if i.IsBottom() {
		return 0, false
	}
	lo, loOk := i.Low.(FiniteBound)
	hi, hiOk := i.High.(FiniteBound)
	if loOk && hiOk && lo == hi {
		return int(lo), true
	}
	return 0, false
}

func (i Interval) Eq(o Interval) bool {
	if i.IsBottom() && o.IsBottom() {
		return true
	}
	return i.Low.Eq(o.Low) && i.High.Eq(o.High)
}

// Leq is the interval partial order: i <= o iff o's range contains i's range
// (i is a more precise/smaller interval).
func (i Interval) Leq(o Interval) bool {
	if i.IsBottom() {
		return true
	}
	if o.IsBottom() {
		return false
	}
	return o.Low.Leq(i.Low) && i.High.Leq(o.High)
}

func (i Interval) Join(o Interval) Interval {
	if i.IsBottom() {
		return o
	}
	if o.IsBottom() {
		return i
	}
	return Interval{i.Low.Min(o.Low), i.High.Max(o.High)}
}

func (i Interval) Meet(o Interval) Interval {
	if i.IsBottom() || o.IsBottom() {
		return BottomInterval()
	}
	return Interval{i.Low.Max(o.Low), i.High.Min(o.High)}
}

// Widen is the standard interval widening: keep a bound only if it is
// already stable, else extrapolate to infinity.
func (i Interval) Widen(o Interval) Interval {
	if i.IsBottom() {
		return o
	}
	if o.IsBottom() {
		return i
	}
	low := i.Low
	if o.Low.Lt(i.Low) {
		low = MinusInfinity{}
	}
	high := i.High
	if o.High.Gt(i.High) {
		high = PlusInfinity{}
	}
	return Interval{low, high}
}

// WidenThresholds widens i with o but clamps extrapolated bounds to the
// nearest threshold value in ts (or infinity if none applies), trading some
// termination speed for precision.
func (i Interval) WidenThresholds(o Interval, ts []int) Interval {
	if i.IsBottom() {
		return o
	}
	if o.IsBottom() {
		return i
	}
	low := i.Low
	if o.Low.Lt(i.Low) {
		low = MinusInfinity{}
		for _, t := range ts {
			tb := FiniteBound(t)
			// tb must still cover o.Low (soundness); among those, keep the
			// greatest (closest to o.Low) for precision.
			if tb.Leq(o.Low) {
				if _, ok := low.(MinusInfinity); ok || tb.Gt(low) {
					low = tb
				}
			}
		}
	}
	high := i.High
	if o.High.Gt(i.High) {
		high = PlusInfinity{}
		for _, t := range ts {
			tb := FiniteBound(t)
			if tb.Geq(o.High) {
				if _, ok := high.(PlusInfinity); ok || tb.Lt(high) {
					high = tb
				}
			}
		}
	}
	return Interval{low, high}
}

// Narrow is identity, as narrowing is left unimplemented at the octagon
// level too (see split-octagon's Narrow); narrowing an interval further
// than widening produced it is sound but not required.
func (i Interval) Narrow(Interval) Interval { return i }

func (i Interval) Plus(o Interval) Interval {
	if i.IsBottom() || o.IsBottom() {
		return BottomInterval()
	}
	return Interval{i.Low.Plus(o.Low), i.High.Plus(o.High)}
}

func (i Interval) Minus(o Interval) Interval {
	if i.IsBottom() || o.IsBottom() {
		return BottomInterval()
	}
	return Interval{i.Low.Minus(o.High), i.High.Minus(o.Low)}
}

func (i Interval) Mult(o Interval) Interval {
	if i.IsBottom() || o.IsBottom() {
		return BottomInterval()
	}
	// Skip 0 * infinity combinations, which are undefined on Bound; treat
	// either zero endpoint specially since that's the only place a finite
	// times infinite product shows up in a product-of-four-corners scheme.
	corners := func(a, b Bound) Bound {
		if isZero(a) || isZero(b) {
			return FiniteBound(0)
		}
		return a.Mult(b)
	}
	c1 := corners(i.Low, o.Low)
	c2 := corners(i.Low, o.High)
	c3 := corners(i.High, o.Low)
	c4 := corners(i.High, o.High)
	low := c1.Min(c2).Min(c3).Min(c4)
	high := c1.Max(c2).Max(c3).Max(c4)
	return Interval{low, high}
}

func isZero(b Bound) bool {
	f, ok := b.(FiniteBound)
	return ok && f == 0
}

// Div is integer interval division; division by exactly {0} yields bottom,
// and division by any other interval containing zero yields top, matching
// the usual conservative treatment in crab-like domains.
func (i Interval) Div(o Interval) Interval {
	if i.IsBottom() || o.IsBottom() {
		return BottomInterval()
	}
	if zeroF := Singleton(0); o.Eq(zeroF) {
		return BottomInterval()
	}
	if o.Low.Leq(FiniteBound(0)) && FiniteBound(0).Leq(o.High) {
		// Divisor range straddles zero: cannot bound the quotient.
		return Top()
	}
	corners := func(a, b Bound) Bound { return a.Div(b) }
	c1 := corners(i.Low, o.Low)
	c2 := corners(i.Low, o.High)
	c3 := corners(i.High, o.Low)
	c4 := corners(i.High, o.High)
	low := c1.Min(c2).Min(c3).Min(c4)
	high := c1.Max(c2).Max(c3).Max(c4)
	return Interval{low, high}
}

func (i Interval) String() string {
	if i.IsBottom() {
		return "_|_"
	}
	return fmt.Sprintf("[%s, %s]", i.Low, i.High)
}
