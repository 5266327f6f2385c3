package oracle

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/aclements/go-z3/z3"

	"github.com/weisi/sharpsmt/dag"
	"github.com/weisi/sharpsmt/errs"
)

// Z3Oracle is the default BoolOracle backend (spec.md C4): it lifts the
// whole DAG into z3 once, asserting each atom's Boolean proxy as equivalent
// to its actual linear-arithmetic meaning, so Check()/Assignment() answer
// in terms of pure Booleans while still reasoning about real numeric
// models underneath — built the same way the teacher lifts Go SSA values
// into z3 (symexec/context.go's EncodingContext, graph/formula.go's
// Formula.Encode).
type Z3Oracle struct {
	d *dag.DAG

	ctx    *z3.Context
	solver *z3.Solver

	boolVars  []z3.Bool
	atomBools []z3.Bool
	numVars   []z3.Value // z3.Int when d.Logic==QF_LIA, z3.Real when QF_LRA

	trueLit  z3.Bool
	falseLit z3.Bool
}

func NewZ3Oracle(d *dag.DAG) *Z3Oracle { return &Z3Oracle{d: d} }

func (o *Z3Oracle) Init(wordLength int) error {
	o.ctx = z3.NewContext(nil)
	o.solver = z3.NewSolver(o.ctx)

	o.trueLit = o.ctx.BoolConst("$true")
	o.falseLit = o.ctx.BoolConst("$false")
	o.solver.Assert(o.trueLit)
	o.solver.Assert(o.falseLit.Not())

	o.boolVars = make([]z3.Bool, o.d.BoolVars.Len())
	for i := 0; i < o.d.BoolVars.Len(); i++ {
		o.boolVars[i] = o.ctx.BoolConst(o.d.BoolVars.Name(i))
	}

	if err := o.initNumVars(wordLength); err != nil {
		return err
	}

	o.atomBools = make([]z3.Bool, o.d.Atoms.Len())
	for i := 0; i < o.d.Atoms.Len(); i++ {
		atom := o.d.Atoms.Get(i)
		b := o.ctx.BoolConst(o.d.Atoms.Name(i))
		o.atomBools[i] = b
		o.solver.Assert(o.iff(b, o.encodeAtom(atom)))
	}

	for _, a := range o.d.Asserts {
		o.solver.Assert(o.encodeBool(a))
	}
	return nil
}

func (o *Z3Oracle) initNumVars(wordLength int) error {
	n := o.d.NumVars.Len()
	o.numVars = make([]z3.Value, n)
	switch o.d.Logic {
	case dag.QF_LIA:
		sort := o.ctx.IntSort()
		for i := 0; i < n; i++ {
			v := o.ctx.Const(o.d.NumVars.Name(i), sort).(z3.Int)
			o.numVars[i] = v
			if wordLength > 0 {
				lo, hi := wordBounds(wordLength)
				o.solver.Assert(v.GE(o.ctx.FromBigInt(lo, sort).(z3.Int)))
				o.solver.Assert(v.LE(o.ctx.FromBigInt(hi, sort).(z3.Int)))
			}
		}
	case dag.QF_LRA:
		sort := o.ctx.RealSort()
		for i := 0; i < n; i++ {
			o.numVars[i] = o.ctx.Const(o.d.NumVars.Name(i), sort).(z3.Real)
		}
	default:
		return errs.New(errs.LogicMismatch, "")
	}
	return nil
}

// wordBounds returns the signed two's-complement range [lo, hi] of a
// wordLength-bit integer (spec.md §4.2).
func wordBounds(wordLength int) (*big.Int, *big.Int) {
	one := big.NewInt(1)
	hi := new(big.Int).Lsh(one, uint(wordLength-1))
	lo := new(big.Int).Neg(hi)
	hi.Sub(hi, one)
	return lo, hi
}

func (o *Z3Oracle) iff(a, b z3.Bool) z3.Bool {
	return a.And(b).Or(a.Not().And(b.Not()))
}

// encodeAtom builds Σaᵢxᵢ ◇ b as a z3.Bool over the numeric sort chosen by
// the DAG's logic.
func (o *Z3Oracle) encodeAtom(atom dag.Atom) z3.Bool {
	switch o.d.Logic {
	case dag.QF_LIA:
		return o.encodeAtomInt(atom)
	case dag.QF_LRA:
		return o.encodeAtomReal(atom)
	default:
		panic(fmt.Sprintf("unknown logic '%v'", o.d.Logic))
	}
}

func (o *Z3Oracle) encodeAtomInt(atom dag.Atom) z3.Bool {
	sort := o.ctx.IntSort()
	sum := o.ctx.FromInt(0, sort).(z3.Int)
	for i, c := range atom.Coef {
		if c == 0 {
			continue
		}
		term := o.numVars[i].(z3.Int).Mul(o.ctx.FromInt(int64(math.Round(c)), sort).(z3.Int))
		sum = sum.Add(term)
	}
	bound := o.ctx.FromInt(int64(math.Round(atom.B)), sort).(z3.Int)
	if atom.Rel == dag.EQRel {
		return sum.Eq(bound)
	}
	return sum.LE(bound)
}

func (o *Z3Oracle) encodeAtomReal(atom dag.Atom) z3.Bool {
	sort := o.ctx.RealSort()
	sum := realFromFloat(o.ctx, sort, 0)
	for i, c := range atom.Coef {
		if c == 0 {
			continue
		}
		term := o.numVars[i].(z3.Real).Mul(realFromFloat(o.ctx, sort, c))
		sum = sum.Add(term)
	}
	bound := realFromFloat(o.ctx, sort, atom.B)
	if atom.Rel == dag.EQRel {
		return sum.Eq(bound)
	}
	return sum.LE(bound)
}

// realFromFloat builds an exact z3.Real numeral from a float64 by reading
// out its exact binary fraction via big.Rat, since go-z3 has no direct
// float-to-Real numeral constructor.
func realFromFloat(ctx *z3.Context, sort z3.Sort, v float64) z3.Real {
	r := new(big.Rat).SetFloat64(v)
	if r == nil {
		r = new(big.Rat)
	}
	num := ctx.FromBigInt(r.Num(), sort).(z3.Real)
	den := ctx.FromBigInt(r.Denom(), sort).(z3.Real)
	return num.Div(den)
}

func (o *Z3Oracle) encodeBool(n dag.Node) z3.Bool {
	var b z3.Bool
	switch n.Type {
	case dag.ConstBool:
		if n.BoolValue() {
			return o.trueLit
		}
		return o.falseLit
	case dag.VarBool:
		b = o.boolVars[n.ID]
	case dag.Ineq:
		b = o.atomBools[n.ID]
	case dag.And:
		op := o.d.BoolOps.Get(n.ID)
		b = o.encodeBool(op.Children[0])
		for _, c := range op.Children[1:] {
			b = b.And(o.encodeBool(c))
		}
	case dag.Or:
		op := o.d.BoolOps.Get(n.ID)
		b = o.encodeBool(op.Children[0])
		for _, c := range op.Children[1:] {
			b = b.Or(o.encodeBool(c))
		}
	case dag.Eq:
		op := o.d.BoolOps.Get(n.ID)
		l := o.encodeBool(op.Children[0])
		r := o.encodeBool(op.Children[1])
		b = o.iff(l, r)
	default:
		panic(fmt.Sprintf("unencodable node type '%v'", n.Type))
	}
	if n.Negated() {
		return b.Not()
	}
	return b
}

func (o *Z3Oracle) Check(_ context.Context) (Status, error) {
	sat, err := o.solver.Check()
	if err != nil {
		panic(err)
	}
	if sat {
		return Sat, nil
	}
	return Unsat, nil
}

func (o *Z3Oracle) Assignment() (Assignment, error) {
	model := o.solver.Model()
	values := parseModel(model.String())

	a := Assignment{
		BoolVars: make([]bool, o.d.BoolVars.Len()),
		Atoms:    make([]bool, o.d.Atoms.Len()),
	}
	for i := 0; i < o.d.BoolVars.Len(); i++ {
		a.BoolVars[i] = values[o.d.BoolVars.Name(i)] == "true"
	}
	for i := 0; i < o.d.Atoms.Len(); i++ {
		a.Atoms[i] = values[o.d.Atoms.Name(i)] == "true"
	}
	return a, nil
}

func parseModel(s string) map[string]string {
	vars := make(map[string]string)
	for _, line := range strings.Split(s, "\n") {
		segments := strings.Split(line, " -> ")
		if len(segments) == 2 {
			vars[segments[0]] = segments[1]
		}
	}
	return vars
}

func (o *Z3Oracle) litBool(l Lit) z3.Bool {
	var b z3.Bool
	switch l.Kind {
	case LitBoolVar:
		b = o.boolVars[l.Index]
	case LitAtom:
		b = o.atomBools[l.Index]
	}
	if l.Negated {
		return b.Not()
	}
	return b
}

// Block forbids every future assignment agreeing with lits everywhere, by
// asserting the clause that at least one of them must flip. An empty lits
// (the implicant shrunk all the way to the empty cube — a tautological or
// empty assertion set) has nothing left to flip, so there is no clause that
// would exclude just this model without excluding none at all; asserting
// falseLit instead forces every subsequent Check to report Unsat, which is
// what lets Engine.Run terminate after exactly the one bunch spec.md §4.3's
// monotone blocking guarantee promises, rather than re-discovering the same
// model forever.
func (o *Z3Oracle) Block(lits []Lit) error {
	if len(lits) == 0 {
		o.solver.Assert(o.falseLit)
		return nil
	}
	clause := o.litBool(lits[0]).Not()
	for _, l := range lits[1:] {
		clause = clause.Or(o.litBool(l).Not())
	}
	o.solver.Assert(clause)
	return nil
}
