// Package numdom defines the data model and contract shared by every
// numerical domain: variables, linear expressions and constraints, bounds,
// intervals, operation codes, and the NumericalDomain interface that lets
// array domains lift an arbitrary inner scalar domain.
package numdom

import "fmt"

// Bound is a rational-or-integer value extended with +/-infinity.
//
// Arithmetic follows the usual extended-real conventions, with a few
// operations undefined on infinities (indicated below); those panic since a
// well-formed analysis never evaluates them:
//
//	  Plus    finite+finite = finite;  inf+finite = inf;  +inf + -inf  panics
//	  Minus   finite-finite = finite;  inf-finite = inf;  +inf - +inf panics
//	  Mult    finite*finite = finite;  inf*0 panics; inf*positive = same-sign inf;
//	          inf*negative = flipped-sign inf
//	  Div     finite/finite = finite (panics on /0); finite/inf = 0;
//	          inf/finite = same-or-flipped sign inf depending on divisor sign;
//	          inf/inf panics
type Bound interface {
	fmt.Stringer
	IsInfinite() bool
	Eq(Bound) bool
	Leq(Bound) bool
	Geq(Bound) bool
	Lt(Bound) bool
	Gt(Bound) bool
	Plus(Bound) Bound
	Minus(Bound) Bound
	Mult(Bound) Bound
	Div(Bound) Bound
	Max(Bound) Bound
	Min(Bound) Bound
}

// FiniteBound is a finite integer bound.
type FiniteBound int

// PlusInfinity is the bound +infinity.
type PlusInfinity struct{}

// MinusInfinity is the bound -infinity.
type MinusInfinity struct{}

func (FiniteBound) IsInfinite() bool    { return false }
func (PlusInfinity) IsInfinite() bool   { return true }
func (MinusInfinity) IsInfinite() bool  { return true }

func (b FiniteBound) String() string   { return fmt.Sprintf("%d", int(b)) }
func (PlusInfinity) String() string    { return "+oo" }
func (MinusInfinity) String() string   { return "-oo" }

func (b FiniteBound) Eq(o Bound) bool {
	other, ok := o.(FiniteBound)
	return ok && other == b
}
func (PlusInfinity) Eq(o Bound) bool  { _, ok := o.(PlusInfinity); return ok }
func (MinusInfinity) Eq(o Bound) bool { _, ok := o.(MinusInfinity); return ok }

func (b FiniteBound) Leq(o Bound) bool {
	switch other := o.(type) {
	case FiniteBound:
		return b <= other
	case PlusInfinity:
		return true
	case MinusInfinity:
		return false
	}
	panic("unreachable")
}
func (PlusInfinity) Leq(o Bound) bool {
	_, ok := o.(PlusInfinity)
	return ok
}
func (MinusInfinity) Leq(Bound) bool { return true }

func (b FiniteBound) Geq(o Bound) bool { return o.Leq(b) }
func (b PlusInfinity) Geq(o Bound) bool { return o.Leq(b) }
func (b MinusInfinity) Geq(o Bound) bool { return o.Leq(b) }

func (b FiniteBound) Lt(o Bound) bool { return b.Leq(o) && !b.Eq(o) }
func (b PlusInfinity) Lt(o Bound) bool { return b.Leq(o) && !b.Eq(o) }
func (b MinusInfinity) Lt(o Bound) bool { return b.Leq(o) && !b.Eq(o) }

func (b FiniteBound) Gt(o Bound) bool { return b.Geq(o) && !b.Eq(o) }
func (b PlusInfinity) Gt(o Bound) bool { return b.Geq(o) && !b.Eq(o) }
func (b MinusInfinity) Gt(o Bound) bool { return b.Geq(o) && !b.Eq(o) }

func (b FiniteBound) Plus(o Bound) Bound {
	switch other := o.(type) {
	case FiniteBound:
		return b + other
	case PlusInfinity, MinusInfinity:
		return other
	}
	panic("unreachable")
}
func (PlusInfinity) Plus(o Bound) Bound {
	if _, ok := o.(MinusInfinity); ok {
		panic("numdom: +oo + -oo is undefined")
	}
	return PlusInfinity{}
}
func (MinusInfinity) Plus(o Bound) Bound {
	if _, ok := o.(PlusInfinity); ok {
		panic("numdom: -oo + +oo is undefined")
	}
	return MinusInfinity{}
}

func (b FiniteBound) Minus(o Bound) Bound { return b.Plus(negate(o)) }
func (b PlusInfinity) Minus(o Bound) Bound { return b.Plus(negate(o)) }
func (b MinusInfinity) Minus(o Bound) Bound { return b.Plus(negate(o)) }

func negate(b Bound) Bound {
	switch v := b.(type) {
	case FiniteBound:
		return -v
	case PlusInfinity:
		return MinusInfinity{}
	case MinusInfinity:
		return PlusInfinity{}
	}
	panic("unreachable")
}

func (b FiniteBound) Mult(o Bound) Bound {
	switch other := o.(type) {
	case FiniteBound:
		return b * other
	case PlusInfinity:
		return mulInf(int(b), PlusInfinity{})
	case MinusInfinity:
		return mulInf(int(b), MinusInfinity{})
	}
	panic("unreachable")
}
func (b PlusInfinity) Mult(o Bound) Bound { return mulInfBound(o, b) }
func (b MinusInfinity) Mult(o Bound) Bound { return mulInfBound(o, b) }

func mulInfBound(finite Bound, inf Bound) Bound {
	f, ok := finite.(FiniteBound)
	if !ok {
		panic("numdom: infinity * infinity is undefined")
	}
	if pv, ok := inf.(PlusInfinity); ok {
		return mulInf(int(f), pv)
	}
	return mulInf(int(f), inf)
}

func mulInf(k int, inf Bound) Bound {
	if k == 0 {
		panic("numdom: 0 * infinity is undefined")
	}
	neg := k < 0
	_, isPlus := inf.(PlusInfinity)
	if neg {
		isPlus = !isPlus
	}
	if isPlus {
		return PlusInfinity{}
	}
	return MinusInfinity{}
}

func (b FiniteBound) Div(o Bound) Bound {
	switch other := o.(type) {
	case FiniteBound:
		if other == 0 {
			panic("numdom: division by zero")
		}
		return FiniteBound(int(b) / int(other))
	case PlusInfinity, MinusInfinity:
		return FiniteBound(0)
	}
	panic("unreachable")
}
func (b PlusInfinity) Div(o Bound) Bound { return divInfBound(b, o) }
func (b MinusInfinity) Div(o Bound) Bound { return divInfBound(b, o) }

func divInfBound(inf Bound, o Bound) Bound {
	f, ok := o.(FiniteBound)
	if !ok {
		panic("numdom: infinity / infinity is undefined")
	}
	if f == 0 {
		panic("numdom: division by zero")
	}
	return mulInf(int(f), inf)
}

func (b FiniteBound) Max(o Bound) Bound {
	if b.Geq(o) {
		return b
	}
	return o
}
func (b PlusInfinity) Max(Bound) Bound   { return b }
func (b MinusInfinity) Max(o Bound) Bound { return o }

func (b FiniteBound) Min(o Bound) Bound {
	if b.Leq(o) {
		return b
	}
	return o
}
func (b PlusInfinity) Min(o Bound) Bound  { return o }
func (b MinusInfinity) Min(Bound) Bound   { return b }

// Number returns the finite integer value of b, and false if b is infinite.
func (b FiniteBound) Number() (int, bool)  { return int(b), true }
func (PlusInfinity) Number() (int, bool)   { return 0, false }
func (MinusInfinity) Number() (int, bool)  { return 0, false }
