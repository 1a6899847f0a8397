package octagon

import (
	"github.com/k-vikingsson/soct/diagnostics"
	"github.com/k-vikingsson/soct/graph"
	"github.com/k-vikingsson/soct/numdom"
)

// edgeForBinary returns the (from, to, weight) edge that encodes the
// two-variable octagon constraint sign1*a + sign2*b <= c, per the vertex
// convention edge u->v weight w means value(v) - value(u) <= w (spec.md
// §4.2, §4.5). Grounded on original_source's diffcsts_of_lin_leq case split
// over coefficient sign pairs, translated from its four inlined cases into
// a single table.
func edgeForBinary(a, b vertPair, sign1, sign2 int, c int) (from, to graph.VertexID, w int) {
	switch {
	case sign1 > 0 && sign2 > 0: // a + b <= c
		return a.neg, b.pos, c
	case sign1 > 0 && sign2 < 0: // a - b <= c
		return a.neg, b.neg, c
	case sign1 < 0 && sign2 > 0: // -a + b <= c  i.e.  b - a <= c
		return a.pos, b.pos, c
	default: // -a - b <= c  i.e.  a + b >= -c
		return a.pos, b.neg, c
	}
}

// edgeForUnaryOffset returns the edges encoding x = sign*y + k exactly (two
// inequalities, x-y<=k & y-x<=-k for sign=1, or x+y<=k & -(x+y)<=-k for
// sign=-1), used by the special_assign fast path for a copy-with-offset
// assignment (spec.md §4.5 "Assign", original_source's special_assign
// branch of assign()).
func edgeForUnaryOffset(x, y vertPair, sign, k int) [2]graph.Delta {
	if sign > 0 {
		return [2]graph.Delta{
			{Src: x.neg, Dst: y.neg, Weight: k},
			{Src: y.neg, Dst: x.neg, Weight: -k},
		}
	}
	return [2]graph.Delta{
		{Src: x.neg, Dst: y.pos, Weight: k},
		{Src: x.pos, Dst: y.neg, Weight: -k},
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) == (b < 0)) {
		q++
	}
	return q
}

// tightenUnary intersects x's current interval with sign*x <= c (sign is
// +1 or -1), by meeting the corresponding diagonal edge weight rather than
// overwriting it (unlike Set, which is assignment, this is refinement).
func (d *Domain) tightenUnary(x numdom.Variable, sign, c int) bool {
	p := d.getVert(x)
	if sign > 0 {
		d.g.UpdateEdge(p.neg, 2*c, p.pos, graph.MinOp)
	} else {
		d.g.UpdateEdge(p.pos, 2*c, p.neg, graph.MinOp)
	}
	return d.repairAround(p)
}

// addLinearLeq intersects d with the constraint e <= 0, returning false if
// the result is infeasible. Exact octagon encoding is used for zero-, one-
// and two-variable expressions with unit coefficients (spec.md §4.5,
// grounded on original_source's diffcsts_of_lin_leq); expressions with more
// terms or larger coefficients fall back to a sound but weaker check, per
// spec.md §7's precision-loss taxonomy.
func (d *Domain) addLinearLeq(e numdom.LinearExpression) bool {
	terms := e.SortedTerms()
	k := e.Constant

	switch len(terms) {
	case 0:
		return k <= 0

	case 1:
		t := terms[0]
		// coeff*y + k <= 0
		if t.Coeff == 0 {
			return k <= 0
		}
		bound := floorDiv(-k, t.Coeff)
		if t.Coeff < 0 {
			bound = ceilDiv(-k, t.Coeff)
		}
		sign := 1
		if t.Coeff < 0 {
			sign = -1
			// coeff<0: coeff*y<=-k  =>  y >= -k/coeff  is a *lower* bound on y,
			// i.e. an upper bound on -y: -y <= -bound.
			bound = -bound
		}
		return d.tightenUnary(t.Var, sign, bound)

	case 2:
		a, b := terms[0], terms[1]
		if abs(a.Coeff) == 1 && abs(b.Coeff) == 1 {
			ap, bp := d.getVert(a.Var), d.getVert(b.Var)
			from, to, w := edgeForBinary(ap, bp, a.Coeff, b.Coeff, -k)
			d.g.UpdateEdge(from, w, to, graph.MinOp)
			actual, _ := d.g.Lookup(from, to)
			if !graph.RepairPotential(d.g, d.potential, from, actual, to) {
				return false
			}
			delta := graph.CloseAfterAssign(d.g, d.potential, []graph.VertexID{from, to})
			graph.ApplyDelta(d.g, delta)
			return true
		}
	}

	// General fallback: only precise when every term but one is already
	// bounded on the side the inequality needs; otherwise this is a sound
	// no-op (spec.md §7 precision-loss).
	var free *struct {
		Coeff int
		Var   numdom.Variable
	}
	bound := k
	for i := range terms {
		t := terms[i]
		iv := d.Get(t.Var)
		if t.Coeff > 0 {
			if lb, ok := iv.Low.(numdom.FiniteBound); ok {
				bound += t.Coeff * int(lb)
				continue
			}
		} else if t.Coeff < 0 {
			if ub, ok := iv.High.(numdom.FiniteBound); ok {
				bound += t.Coeff * int(ub)
				continue
			}
		}
		if free != nil {
			diagnostics.Warnf("octagon", "add_constraint: expression with >1 unbounded term, keeping current state")
			return true
		}
		free = &struct {
			Coeff int
			Var   numdom.Variable
		}{t.Coeff, t.Var}
	}
	if free == nil {
		return bound <= 0
	}
	sign := 1
	c := floorDiv(-bound, free.Coeff)
	if free.Coeff < 0 {
		sign = -1
		c = -ceilDiv(-bound, free.Coeff)
	}
	return d.tightenUnary(free.Var, sign, c)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// AddConstraint intersects d with c in place (spec.md §4.5 "Add
// constraint"), grounded on original_source's operator+=(linear_constraint_t).
func (d *Domain) AddConstraint(c numdom.LinearConstraint) {
	if d.bottom {
		return
	}
	d.Normalize()

	switch c.Kind {
	case numdom.Inequality:
		if !d.addLinearLeq(c.Expr) {
			*d = *Bottom()
		}
	case numdom.Equality:
		ok1 := d.addLinearLeq(c.Expr)
		ok2 := ok1 && d.addLinearLeq(c.Expr.Negate())
		if !ok1 || !ok2 {
			*d = *Bottom()
		}
	case numdom.Disequality:
		// v*+-1 + k != 0, i.e. v != target. When v's current bound already
		// pins it to target on one side, trim that side: collapse to bottom
		// if v can only be target, else shrink the matching endpoint by one
		// (spec.md §4.5 "Add constraint" disequality case; the endpoint-trim
		// is the usual interval-domain treatment of disequations, absent
		// from original_source's own octagon, which has no disequality
		// case at all: crab represents `!=` at the constraint-system level
		// above the domain, never pushing it through operator+=).
		terms := c.Expr.SortedTerms()
		if len(terms) == 1 && abs(terms[0].Coeff) == 1 {
			v := terms[0].Var
			target := -c.Expr.Constant
			if terms[0].Coeff < 0 {
				target = c.Expr.Constant
			}
			iv := d.Get(v)
			lo, lok := iv.Low.(numdom.FiniteBound)
			hi, hok := iv.High.(numdom.FiniteBound)
			switch {
			case lok && hok && int(lo) == target && int(hi) == target:
				*d = *Bottom()
			case lok && int(lo) == target:
				if !d.tightenUnary(v, -1, -(target + 1)) {
					*d = *Bottom()
				}
			case hok && int(hi) == target:
				if !d.tightenUnary(v, 1, target-1) {
					*d = *Bottom()
				}
			}
			return
		}
		diagnostics.Warnf("octagon", "disequation %s not precisely represented, keeping current state", c)
	case numdom.StrictInequality:
		// e < 0  <=>  e + 1 <= 0 over the integers.
		if !d.addLinearLeq(c.Expr.Plus(numdom.NewLinearExpression(1))) {
			*d = *Bottom()
		}
	}
}

// AddConstraints intersects d with every constraint in cs, short-circuiting
// once d becomes bottom.
func (d *Domain) AddConstraints(cs numdom.LinearConstraintSystem) {
	for _, c := range cs {
		if d.bottom {
			return
		}
		d.AddConstraint(c)
	}
}

// evalInterval evaluates the interval range of e under d's current bounds
// (spec.md §4.5 "Interval evaluation of an expression").
func (d *Domain) evalInterval(e numdom.LinearExpression) numdom.Interval {
	acc := numdom.Singleton(e.Constant)
	for _, t := range e.SortedTerms() {
		term := d.Get(t.Var).Mult(numdom.Singleton(t.Coeff))
		acc = acc.Plus(term)
	}
	return acc
}

// Assign performs x := e in place (spec.md §4.5 "Assign"). Exact relational
// encoding is used for a constant right-hand side and for a
// copy-with-offset (coeff +-1 single variable); other expressions fall back
// to interval evaluation after forgetting x, per spec.md §7's
// precision-loss taxonomy (original_source's generic, non-special_assign
// path does the same when Params.special_assign or the diff-constraint
// derivation cannot represent the assignment relationally).
func (d *Domain) Assign(x numdom.Variable, e numdom.LinearExpression) {
	if d.bottom {
		return
	}
	d.Normalize()

	if e.IsConstant() {
		// x's old relational edges to other variables described x's old
		// value; a disconnected constant rebind invalidates all of them, so
		// they must be dropped before Set pins the new diagonal bound (same
		// reasoning as the interval-fallback path below).
		d.Forget(x)
		d.Set(x, numdom.Singleton(e.Constant))
		return
	}

	terms := e.SortedTerms()
	if len(terms) == 1 && abs(terms[0].Coeff) == 1 && terms[0].Var.Index != x.Index {
		t := terms[0]
		d.Forget(x)
		xp := d.getVert(x)
		yp := d.getVert(t.Var)
		for _, delta := range edgeForUnaryOffset(xp, yp, t.Coeff, e.Constant) {
			for _, ed := range []graph.Delta{delta, {Src: neg(delta.Dst), Dst: neg(delta.Src), Weight: delta.Weight}} {
				d.g.UpdateEdge(ed.Src, ed.Weight, ed.Dst, graph.MinOp)
				if !graph.RepairPotential(d.g, d.potential, ed.Src, ed.Weight, ed.Dst) {
					*d = *Bottom()
					return
				}
			}
		}
		if !d.repairAround(xp) {
			*d = *Bottom()
			return
		}
		return
	}

	xi := d.evalInterval(e)
	if xi.IsBottom() {
		*d = *Bottom()
		return
	}
	diagnostics.Warnf("octagon", "assign %s := %s falls back to interval evaluation", x, e)
	// e is evaluated against x's old binding first (needed when e refers to
	// x itself, e.g. x:=x+1), then x is forgotten before Set: any relational
	// edge between the old x and a third variable describes a value x no
	// longer holds, so it must not survive under x's new binding (mirrors
	// original_source's assign(), which always rebinds x to fresh vertices
	// on this path rather than reuse the old ones).
	d.Forget(x)
	d.Set(x, xi)
}

// Apply dispatches an arithmetic operation onto relational assign (for
// addition/subtraction, which octagons can represent exactly for
// unit-coefficient operands) or interval multiplication/division (spec.md
// §4.5 "Apply", grounded on original_source's apply(operation_t, x, y, z)).
func (d *Domain) Apply(op numdom.ArithOp, x, y, z numdom.Variable) {
	if d.bottom {
		return
	}
	switch op {
	case numdom.OpAdd:
		d.Assign(x, numdom.Var(y).Plus(numdom.Var(z)))
	case numdom.OpSub:
		d.Assign(x, numdom.Var(y).Minus(numdom.Var(z)))
	case numdom.OpMul:
		d.Set(x, d.Get(y).Mult(d.Get(z)))
	case numdom.OpDiv:
		q := d.Get(y).Div(d.Get(z))
		if q.IsBottom() {
			*d = *Bottom()
			return
		}
		d.Set(x, q)
	default:
		numdom.Fatal(numdom.ErrUnknownOperation, "octagon: unknown arith op %d", op)
	}
}

// ApplyConst is Apply with the second operand a literal constant.
func (d *Domain) ApplyConst(op numdom.ArithOp, x, y numdom.Variable, k int) {
	if d.bottom {
		return
	}
	switch op {
	case numdom.OpAdd:
		d.Assign(x, numdom.Var(y).Plus(numdom.NewLinearExpression(k)))
	case numdom.OpSub:
		d.Assign(x, numdom.Var(y).Minus(numdom.NewLinearExpression(k)))
	case numdom.OpMul:
		d.Set(x, d.Get(y).Mult(numdom.Singleton(k)))
	case numdom.OpDiv:
		if k == 0 {
			*d = *Bottom()
			return
		}
		d.Set(x, d.Get(y).Div(numdom.Singleton(k)))
	default:
		numdom.Fatal(numdom.ErrUnknownOperation, "octagon: unknown arith op %d", op)
	}
}

// ApplyBitwise and its constant variant fall back to top for the result,
// since a split octagon carries no bit-pattern information (spec.md §4.5,
// §6: bitwise operations are always a precision-loss point for relational
// numerical domains, mirrored on the crab side by its own interval-only
// bitwise transformers).
func (d *Domain) ApplyBitwise(op numdom.BitwiseOp, x, y, z numdom.Variable) {
	if d.bottom {
		return
	}
	diagnostics.Warnf("octagon", "bitwise op on %s and %s loses precision, setting %s to top", y, z, x)
	d.Set(x, numdom.Top())
}

func (d *Domain) ApplyBitwiseConst(op numdom.BitwiseOp, x, y numdom.Variable, k int) {
	if d.bottom {
		return
	}
	diagnostics.Warnf("octagon", "bitwise op on %s loses precision, setting %s to top", y, x)
	d.Set(x, numdom.Top())
}

// ApplyDiv handles the signed/unsigned/remainder division family; only
// signed division is given interval semantics, the rest are sound
// precision-loss points (spec.md §6).
func (d *Domain) ApplyDiv(op numdom.DivOp, x, y, z numdom.Variable) {
	if d.bottom {
		return
	}
	if op == numdom.OpSdiv {
		d.Apply(numdom.OpDiv, x, y, z)
		return
	}
	diagnostics.Warnf("octagon", "division op %d on %s and %s loses precision, setting %s to top", op, y, z, x)
	d.Set(x, numdom.Top())
}

// ApplyConv handles integer width conversions; truncation and extension of
// a known-range interval are represented, but only conservatively (spec.md
// §6): sign/zero-extension never changes the represented value, so the
// source interval is copied as-is, while truncation is a precision-loss
// point since it can wrap.
func (d *Domain) ApplyConv(op numdom.ConvOp, dst, src numdom.Variable) {
	if d.bottom {
		return
	}
	switch op {
	case numdom.OpSext, numdom.OpZext:
		d.Set(dst, d.Get(src))
	case numdom.OpTrunc:
		diagnostics.Warnf("octagon", "truncating %s into %s loses precision", src, dst)
		d.Set(dst, numdom.Top())
	default:
		numdom.Fatal(numdom.ErrUnknownOperation, "octagon: unknown conv op %d", op)
	}
}

// Rename replaces each variable in from with the corresponding one in to,
// in place, by relabeling vertMap/revMap entries directly (spec.md §4.5
// "Rename"): the graph itself is untouched since vertex identity, not
// variable identity, drives the edges.
func (d *Domain) Rename(from, to []numdom.Variable) {
	if d.bottom {
		return
	}
	if len(from) != len(to) {
		numdom.Fatal(numdom.ErrUnknownOperation, "octagon: rename slices of unequal length")
	}
	type move struct {
		p vertPair
		v numdom.Variable
	}
	moves := make([]move, 0, len(from))
	for i, f := range from {
		if p, ok := d.vertMap[f.Index]; ok {
			moves = append(moves, move{p, to[i]})
			delete(d.vertMap, f.Index)
		}
	}
	for _, m := range moves {
		d.vertMap[m.v.Index] = m.p
		d.revMap[m.p.pos] = m.v
		d.revMap[m.p.neg] = m.v
	}
}

// ToConstraintSystem extracts every non-trivial constraint currently held
// (spec.md §4.5 "Extract constraints"): a unary bound per bounded variable,
// plus one inequality per non-diagonal edge.
func (d *Domain) ToConstraintSystem() numdom.LinearConstraintSystem {
	var out numdom.LinearConstraintSystem
	if d.bottom {
		return numdom.LinearConstraintSystem{numdom.Leq0(numdom.NewLinearExpression(1))}
	}
	seen := map[int]bool{}
	for idx, p := range d.vertMap {
		if seen[idx] {
			continue
		}
		seen[idx] = true
		v := d.revMap[p.pos]
		iv := d.Get(v)
		if lo, ok := iv.Low.(numdom.FiniteBound); ok {
			out = append(out, numdom.Leq0(numdom.NewLinearExpression(int(lo)).AddTerm(-1, v)))
		}
		if hi, ok := iv.High.(numdom.FiniteBound); ok {
			out = append(out, numdom.Leq0(numdom.Var(v).Plus(numdom.NewLinearExpression(-int(hi)))))
		}
	}
	for _, u := range d.g.Verts() {
		for _, e := range d.g.ESuccs(u) {
			if u/2 == e.Vert/2 {
				continue
			}
			uVar, uOk := d.revMap[u]
			vVar, vOk := d.revMap[e.Vert]
			if !uOk || !vOk {
				continue
			}
			usign, vsign := 1, 1
			if u%2 != 0 {
				usign = -1
			}
			if e.Vert%2 != 0 {
				vsign = -1
			}
			expr := numdom.NewLinearExpression(-e.Weight).AddTerm(vsign, vVar).AddTerm(-usign, uVar)
			out = append(out, numdom.Leq0(expr))
		}
	}
	return out
}

// ToDisjunctiveConstraintSystem is the single-disjunct wrapping of
// ToConstraintSystem: a split octagon never itself represents a
// disjunction, so this always yields exactly one disjunct (spec.md §4.5).
func (d *Domain) ToDisjunctiveConstraintSystem() numdom.DisjunctiveLinearConstraintSystem {
	return numdom.DisjunctiveLinearConstraintSystem{d.ToConstraintSystem()}
}
