package numdom

import (
	"fmt"
	"sort"
	"strings"
)

// LinearExpression is a constant plus a finite set of (coefficient,
// variable) pairs with distinct variables.
type LinearExpression struct {
	Constant int
	Terms    map[int]term // keyed by Variable.Index
}

type term struct {
	coeff int
	v     Variable
}

// NewLinearExpression builds the constant expression k.
func NewLinearExpression(k int) LinearExpression {
	return LinearExpression{Constant: k, Terms: map[int]term{}}
}

// Var builds the expression consisting of the single variable v (coefficient 1).
func Var(v Variable) LinearExpression {
	e := NewLinearExpression(0)
	return e.AddTerm(1, v)
}

// AddTerm returns a new expression with coeff*v added to e.
func (e LinearExpression) AddTerm(coeff int, v Variable) LinearExpression {
	terms := make(map[int]term, len(e.Terms)+1)
	for k, t := range e.Terms {
		terms[k] = t
	}
	if t, ok := terms[v.Index]; ok {
		coeff += t.coeff
	}
	if coeff != 0 {
		terms[v.Index] = term{coeff, v}
	} else {
		delete(terms, v.Index)
	}
	return LinearExpression{Constant: e.Constant, Terms: terms}
}

// Plus returns e + o.
func (e LinearExpression) Plus(o LinearExpression) LinearExpression {
	r := e
	r.Constant = e.Constant + o.Constant
	terms := make(map[int]term, len(e.Terms)+len(o.Terms))
	for k, t := range e.Terms {
		terms[k] = t
	}
	r.Terms = terms
	for _, t := range o.Terms {
		r = r.AddTerm(t.coeff, t.v)
	}
	return r
}

// Negate returns -e.
func (e LinearExpression) Negate() LinearExpression {
	r := NewLinearExpression(-e.Constant)
	for _, t := range e.Terms {
		r = r.AddTerm(-t.coeff, t.v)
	}
	return r
}

// Minus returns e - o.
func (e LinearExpression) Minus(o LinearExpression) LinearExpression { return e.Plus(o.Negate()) }

// Scale returns k*e.
func (e LinearExpression) Scale(k int) LinearExpression {
	r := NewLinearExpression(k * e.Constant)
	for _, t := range e.Terms {
		r = r.AddTerm(k*t.coeff, t.v)
	}
	return r
}

// IsConstant reports whether e has no variable terms.
func (e LinearExpression) IsConstant() bool { return len(e.Terms) == 0 }

// AsVariable returns the sole variable of e if e is exactly "1*v" (constant
// zero, single unit-coefficient term), and false otherwise.
func (e LinearExpression) AsVariable() (Variable, bool) {
	if e.Constant != 0 || len(e.Terms) != 1 {
		return Variable{}, false
	}
	for _, t := range e.Terms {
		if t.coeff == 1 {
			return t.v, true
		}
	}
	return Variable{}, false
}

// SortedTerms returns the terms of e sorted by variable index, for
// deterministic iteration (printing, algorithms that must be order-independent
// of map iteration).
func (e LinearExpression) SortedTerms() []struct {
	Coeff int
	Var   Variable
} {
	out := make([]struct {
		Coeff int
		Var   Variable
	}, 0, len(e.Terms))
	idxs := make([]int, 0, len(e.Terms))
	for k := range e.Terms {
		idxs = append(idxs, k)
	}
	sort.Ints(idxs)
	for _, k := range idxs {
		t := e.Terms[k]
		out = append(out, struct {
			Coeff int
			Var   Variable
		}{t.coeff, t.v})
	}
	return out
}

func (e LinearExpression) String() string {
	var b strings.Builder
	first := true
	for _, st := range e.SortedTerms() {
		if !first {
			if st.Coeff >= 0 {
				b.WriteString(" + ")
			} else {
				b.WriteString(" - ")
			}
		} else if st.Coeff < 0 {
			b.WriteString("-")
		}
		c := st.Coeff
		if c < 0 {
			c = -c
		}
		if c != 1 {
			fmt.Fprintf(&b, "%d*", c)
		}
		b.WriteString(st.Var.String())
		first = false
	}
	if e.Constant != 0 || first {
		if !first {
			if e.Constant >= 0 {
				b.WriteString(" + ")
			} else {
				b.WriteString(" - ")
			}
			fmt.Fprintf(&b, "%d", abs(e.Constant))
		} else {
			fmt.Fprintf(&b, "%d", e.Constant)
		}
	}
	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ConstraintKind distinguishes the four kinds of linear constraints.
type ConstraintKind int

const (
	Equality ConstraintKind = iota
	Inequality
	Disequality
	StrictInequality
)

// LinearConstraint is a linear expression together with a kind, read as
// "Expr <kind> 0": equality (Expr == 0), inequality (Expr <= 0), disequality
// (Expr != 0), or strict inequality (Expr < 0).
type LinearConstraint struct {
	Expr LinearExpression
	Kind ConstraintKind
}

func Leq0(e LinearExpression) LinearConstraint  { return LinearConstraint{e, Inequality} }
func Eq0(e LinearExpression) LinearConstraint   { return LinearConstraint{e, Equality} }
func Neq0(e LinearExpression) LinearConstraint  { return LinearConstraint{e, Disequality} }
func Lt0(e LinearExpression) LinearConstraint   { return LinearConstraint{e, StrictInequality} }

// Negate returns the negation of c. Negating an inequality yields a strict
// inequality on the negated expression; negating an equality yields a
// disequality (callers wanting to avoid disequalities, per spec, should
// lower the equality to two inequalities before negating).
func (c LinearConstraint) Negate() LinearConstraint {
	switch c.Kind {
	case Inequality: // e <= 0  =>  not(e<=0) = -e < 0
		return Lt0(c.Expr.Negate())
	case StrictInequality: // e < 0 => not(e<0) = -e <= 0
		return Leq0(c.Expr.Negate())
	case Equality:
		return Neq0(c.Expr)
	case Disequality:
		return Eq0(c.Expr)
	}
	panic("unreachable")
}

// LowerEquality rewrites an equality constraint into the pair of
// inequalities {e <= 0, -e <= 0}; implements constraint_simp_domain_traits'
// LowerEquality for integer/rational domains (spec.md §6).
func LowerEquality(c LinearConstraint) []LinearConstraint {
	if c.Kind != Equality {
		return []LinearConstraint{c}
	}
	return []LinearConstraint{Leq0(c.Expr), Leq0(c.Expr.Negate())}
}

func (k ConstraintKind) String() string {
	switch k {
	case Equality:
		return "="
	case Inequality:
		return "<="
	case Disequality:
		return "!="
	case StrictInequality:
		return "<"
	}
	return "?"
}

func (c LinearConstraint) String() string {
	return fmt.Sprintf("%s %s 0", c.Expr, c.Kind)
}

// LinearConstraintSystem is a conjunction of linear constraints.
type LinearConstraintSystem []LinearConstraint

// DisjunctiveLinearConstraintSystem is a disjunction of conjunctive systems.
type DisjunctiveLinearConstraintSystem []LinearConstraintSystem
