// Package builder implements spec.md C2: the constructor surface that turns
// raw SMT-LIB2 shaped calls (mk_and, mk_le, mk_ite, ...) into normalized DAG
// handles, applying every §4.1 rewrite rule and raising the faults described
// there. It plays the role the teacher's graph.Formula / symexec.Formula
// constructors play for SSA instructions
// (_examples/Slava0135-gobber/graph/formula.go), generalized to LIA/LRA
// connectives and rewritten to fold constants and flatten associative
// operators instead of allocating a fresh node per call.
package builder

import (
	"github.com/weisi/sharpsmt/dag"
	"github.com/weisi/sharpsmt/errs"
)

// Builder is the sole mutator of a dag.DAG during the building phase.
type Builder struct {
	dag *dag.DAG
}

func New(d *dag.DAG) *Builder { return &Builder{dag: d} }

func (b *Builder) DAG() *dag.DAG { return b.dag }

func (b *Builder) SetLogic(l dag.Logic) error {
	if err := b.dag.CheckMutable(); err != nil {
		return err
	}
	b.dag.Logic = l
	return nil
}

// MkBoolDecl declares a fresh Boolean variable.
func (b *Builder) MkBoolDecl(name string) (dag.Node, error) {
	if err := b.dag.CheckMutable(); err != nil {
		return dag.Node{}, err
	}
	idx, ok := b.dag.BoolVars.Declare(name)
	if !ok {
		return dag.Node{}, errs.New(errs.MultipleDecl, name)
	}
	return dag.Node{Type: dag.VarBool, ID: uint32(idx), M: 1}, nil
}

// MkNumDecl declares a fresh numeric (Int or Real, per the DAG's Logic)
// variable.
func (b *Builder) MkNumDecl(name string) (dag.Node, error) {
	if err := b.dag.CheckMutable(); err != nil {
		return dag.Node{}, err
	}
	idx, ok := b.dag.NumVars.Declare(name)
	if !ok {
		return dag.Node{}, errs.New(errs.MultipleDecl, name)
	}
	return dag.Node{Type: dag.VarNum, ID: uint32(idx), M: 1}, nil
}

func (b *Builder) MkTrue() dag.Node       { return dag.True }
func (b *Builder) MkFalse() dag.Node      { return dag.False }
func (b *Builder) MkConst(v float64) dag.Node { return dag.Const(v) }

func (b *Builder) MkNot(n dag.Node) (dag.Node, error) {
	if !n.IsBoolValued() {
		return dag.Node{}, errs.New(errs.ParamNotBool, "")
	}
	return n.Not(), nil
}

func (b *Builder) MkNeg(n dag.Node) (dag.Node, error) {
	if !n.IsNumValued() {
		return dag.Node{}, errs.New(errs.ParamNotNum, "")
	}
	return n.Neg(), nil
}

func (b *Builder) pushBoolOp(typ dag.Type, children []dag.Node) dag.Node {
	id := b.dag.BoolOps.Push(typ, children)
	return dag.Node{Type: typ, ID: id, M: 1}
}

// MkAnd flattens nested, non-negated And children, drops literal True
// operands and short-circuits to False the moment one operand is literal
// False, per spec.md §4.1.
func (b *Builder) MkAnd(params []dag.Node) (dag.Node, error) {
	if err := b.dag.CheckMutable(); err != nil {
		return dag.Node{}, err
	}
	if len(params) == 0 {
		return dag.Node{}, errs.New(errs.ParamMissing, "and")
	}
	var flat []dag.Node
	for _, p := range params {
		if !p.IsBoolValued() {
			return dag.Node{}, errs.New(errs.ParamNotBool, "")
		}
		if p.Type == dag.ConstBool {
			if !p.BoolValue() {
				return dag.False, nil
			}
			continue
		}
		if p.Type == dag.And && !p.Negated() {
			op := b.dag.BoolOps.Get(p.ID)
			flat = append(flat, op.Children...)
			continue
		}
		flat = append(flat, p)
	}
	switch len(flat) {
	case 0:
		return dag.True, nil
	case 1:
		return flat[0], nil
	default:
		return b.pushBoolOp(dag.And, flat), nil
	}
}

// MkOr is MkAnd's dual.
func (b *Builder) MkOr(params []dag.Node) (dag.Node, error) {
	if err := b.dag.CheckMutable(); err != nil {
		return dag.Node{}, err
	}
	if len(params) == 0 {
		return dag.Node{}, errs.New(errs.ParamMissing, "or")
	}
	var flat []dag.Node
	for _, p := range params {
		if !p.IsBoolValued() {
			return dag.Node{}, errs.New(errs.ParamNotBool, "")
		}
		if p.Type == dag.ConstBool {
			if p.BoolValue() {
				return dag.True, nil
			}
			continue
		}
		if p.Type == dag.Or && !p.Negated() {
			op := b.dag.BoolOps.Get(p.ID)
			flat = append(flat, op.Children...)
			continue
		}
		flat = append(flat, p)
	}
	switch len(flat) {
	case 0:
		return dag.False, nil
	case 1:
		return flat[0], nil
	default:
		return b.pushBoolOp(dag.Or, flat), nil
	}
}

// MkImply rewrites l => r to Or(Not(l), r).
func (b *Builder) MkImply(l, r dag.Node) (dag.Node, error) {
	nl, err := b.MkNot(l)
	if err != nil {
		return dag.Node{}, err
	}
	return b.MkOr([]dag.Node{nl, r})
}

// MkEqBool builds the dedicated Eq connective (Boolean iff), which also
// backs MkXor via its M-flip (spec.md: Xor = Not(Eq(a,b))), with no separate
// node type needed for Xor.
func (b *Builder) MkEqBool(l, r dag.Node) (dag.Node, error) {
	if err := b.dag.CheckMutable(); err != nil {
		return dag.Node{}, err
	}
	if !l.IsBoolValued() || !r.IsBoolValued() {
		return dag.Node{}, errs.New(errs.ParamNotBool, "")
	}
	return b.pushBoolOp(dag.Eq, []dag.Node{l, r}), nil
}

func (b *Builder) MkXor(l, r dag.Node) (dag.Node, error) {
	eq, err := b.MkEqBool(l, r)
	if err != nil {
		return dag.Node{}, err
	}
	return eq.Not(), nil
}

// MkEq dispatches on operand type: Boolean operands build an Eq connective,
// numeric operands go through mkIneq with dag.EQRel so the result is a
// single atom rather than a conjunction of two — matching the atom table's
// {≤, =} relation set (spec.md §3, §4.1's mk_ineq) and keeping equality an
// atomic literal the bunch engine can decide false and re-split (§4.4).
// Mixed operand kinds raise ParamNotSame.
func (b *Builder) MkEq(l, r dag.Node) (dag.Node, error) {
	switch {
	case l.IsBoolValued() && r.IsBoolValued():
		return b.MkEqBool(l, r)
	case l.IsNumValued() && r.IsNumValued():
		return b.mkIneq(l, r, dag.EQRel)
	default:
		return dag.Node{}, errs.New(errs.ParamNotSame, "")
	}
}

// MkDistinct rewrites to the pairwise conjunction of Not(Eq(ai,aj)).
func (b *Builder) MkDistinct(params []dag.Node) (dag.Node, error) {
	if len(params) < 2 {
		return dag.Node{}, errs.New(errs.ParamMissing, "distinct")
	}
	var conj []dag.Node
	for i := 0; i < len(params); i++ {
		for j := i + 1; j < len(params); j++ {
			eq, err := b.MkEq(params[i], params[j])
			if err != nil {
				return dag.Node{}, err
			}
			neq, err := b.MkNot(eq)
			if err != nil {
				return dag.Node{}, err
			}
			conj = append(conj, neq)
		}
	}
	return b.MkAnd(conj)
}

// MkIte builds a Boolean ITE as (c AND t) OR (NOT c AND e), or, for numeric
// branches, a dedicated IteNum operator node (spec.md §4.1: a numeric ITE
// cannot be expanded into an affine expression, so it stays an opaque
// operator rather than being flattened like Add/Mul).
func (b *Builder) MkIte(c, t, e dag.Node) (dag.Node, error) {
	if !c.IsBoolValued() {
		return dag.Node{}, errs.New(errs.ParamNotBool, "")
	}
	switch {
	case t.IsBoolValued() && e.IsBoolValued():
		nc, err := b.MkNot(c)
		if err != nil {
			return dag.Node{}, err
		}
		left, err := b.MkAnd([]dag.Node{c, t})
		if err != nil {
			return dag.Node{}, err
		}
		right, err := b.MkAnd([]dag.Node{nc, e})
		if err != nil {
			return dag.Node{}, err
		}
		return b.MkOr([]dag.Node{left, right})
	case t.IsNumValued() && e.IsNumValued():
		if err := b.dag.CheckMutable(); err != nil {
			return dag.Node{}, err
		}
		id := b.dag.NumOps.Push(dag.IteNum, []dag.Node{c, t, e})
		return dag.Node{Type: dag.IteNum, ID: id, M: 1}, nil
	default:
		return dag.Node{}, errs.New(errs.ParamNotSame, "")
	}
}

// MkAdd flattens nested Add children (distributing a scaled child's M across
// its own children, so `2*(x+y)` flattens to children x,y each carrying an
// extra factor of 2 rather than losing the scale) and folds every constant
// operand into a single additive offset stored in the result node's V
// field, per spec.md §4.1 / §3's "no allocation for a pure scale or offset
// update" invariant.
func (b *Builder) MkAdd(params []dag.Node) (dag.Node, error) {
	if err := b.dag.CheckMutable(); err != nil {
		return dag.Node{}, err
	}
	if len(params) == 0 {
		return dag.Node{}, errs.New(errs.ParamMissing, "add")
	}
	var c0 float64
	var children []dag.Node
	for _, p := range params {
		if !p.IsNumValued() {
			return dag.Node{}, errs.New(errs.ParamNotNum, "")
		}
		switch p.Type {
		case dag.ConstNum:
			c0 += p.NumValue()
		case dag.Add:
			op := b.dag.NumOps.Get(p.ID)
			c0 += p.V * p.M
			for _, gc := range op.Children {
				gc.M *= p.M
				children = append(children, gc)
			}
		default:
			children = append(children, p)
		}
	}
	switch len(children) {
	case 0:
		return dag.Const(c0), nil
	case 1:
		if c0 == 0 {
			return children[0], nil
		}
		id := b.dag.NumOps.Push(dag.Add, children)
		return dag.Node{Type: dag.Add, ID: id, V: c0, M: 1}, nil
	default:
		id := b.dag.NumOps.Push(dag.Add, children)
		return dag.Node{Type: dag.Add, ID: id, V: c0, M: 1}, nil
	}
}

// MkMul requires at most one non-constant operand: with zero, the product
// folds to a constant; with exactly one, the result is that operand with its
// scale multiplier updated in place (no node allocation); with more than
// one, the product is nonlinear.
func (b *Builder) MkMul(params []dag.Node) (dag.Node, error) {
	if len(params) == 0 {
		return dag.Node{}, errs.New(errs.ParamMissing, "mul")
	}
	constProd := 1.0
	var nonConst []dag.Node
	for _, p := range params {
		if !p.IsNumValued() {
			return dag.Node{}, errs.New(errs.ParamNotNum, "")
		}
		if p.Type == dag.ConstNum {
			constProd *= p.NumValue()
			continue
		}
		nonConst = append(nonConst, p)
	}
	switch len(nonConst) {
	case 0:
		return dag.Const(constProd), nil
	case 1:
		scaled := nonConst[0]
		scaled.M *= constProd
		return scaled, nil
	default:
		return dag.Node{}, errs.New(errs.Nonlinear, "")
	}
}

// MkDiv requires a constant divisor; a variable divisor is nonlinear and a
// literal-zero divisor is ZeroDivisor.
func (b *Builder) MkDiv(n, d dag.Node) (dag.Node, error) {
	if !n.IsNumValued() || !d.IsNumValued() {
		return dag.Node{}, errs.New(errs.ParamNotNum, "")
	}
	if d.Type != dag.ConstNum {
		return dag.Node{}, errs.New(errs.Nonlinear, "")
	}
	dv := d.NumValue()
	if dv == 0 {
		return dag.Node{}, errs.New(errs.ZeroDivisor, "")
	}
	return b.MkMul([]dag.Node{n, dag.Const(1 / dv)})
}

// mkIneq linearizes l-r into Σaᵢxᵢ ◇ b and interns the resulting atom,
// raising Nonlinear if either side does not reduce to an affine expression.
func (b *Builder) mkIneq(l, r dag.Node, rel dag.Relation) (dag.Node, error) {
	if err := b.dag.CheckMutable(); err != nil {
		return dag.Node{}, err
	}
	if !l.IsNumValued() || !r.IsNumValued() {
		return dag.Node{}, errs.New(errs.ParamNotNum, "")
	}
	la, ok := b.linearize(l)
	if !ok {
		return dag.Node{}, errs.New(errs.Nonlinear, "")
	}
	ra, ok := b.linearize(r)
	if !ok {
		return dag.Node{}, errs.New(errs.Nonlinear, "")
	}
	diff := la.add(ra, -1)
	nvars := b.dag.NumVars.Len()
	coef := diff.dense(nvars)
	bound := -diff.c
	if rel == dag.EQRel {
		coef, bound = dag.Canonicalize(coef, bound)
	}
	idx := b.dag.Atoms.Intern(dag.Atom{Coef: coef, B: bound, Rel: rel})
	return dag.Node{Type: dag.Ineq, ID: uint32(idx), M: 1}, nil
}

// MkLe is the canonical atom constructor; MkLt/MkGe/MkGt all rewrite to it
// per spec.md §4.1 (l<r -> NOT(r<=l), l>=r -> r<=l, l>r -> NOT(l<=r)).
func (b *Builder) MkLe(l, r dag.Node) (dag.Node, error) { return b.mkIneq(l, r, dag.LE) }

func (b *Builder) MkLt(l, r dag.Node) (dag.Node, error) {
	n, err := b.MkLe(r, l)
	if err != nil {
		return dag.Node{}, err
	}
	return n.Not(), nil
}

func (b *Builder) MkGe(l, r dag.Node) (dag.Node, error) { return b.MkLe(r, l) }

func (b *Builder) MkGt(l, r dag.Node) (dag.Node, error) {
	n, err := b.MkLe(l, r)
	if err != nil {
		return dag.Node{}, err
	}
	return n.Not(), nil
}

// Assert registers n as a top-level goal.
func (b *Builder) Assert(n dag.Node) error {
	if !n.IsBoolValued() {
		return errs.New(errs.ParamNotBool, "")
	}
	return b.dag.Assert(n)
}
