package oracle

import (
	"fmt"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/weisi/sharpsmt/dag"
)

// GiniImplicantOracle is the ImplicantOracle backend used by the bunch
// engine's flip-list step (spec.md C5). The Boolean skeleton of the
// asserted formula — atoms and Boolean variables as opaque literals,
// arithmetic already resolved by whichever BoolOracle produced the
// assignment being shrunk — is compiled into a logic.C circuit exactly the
// way operator-framework-operator-lifecycle-manager's dependency resolver
// compiles constraints into one (other_examples'
// operator-framework-deppy__api.go's LitMapping/logic.C/z.Lit trio), then
// exported to a Gini instance with ToCnfFrom and shrunk with repeated
// Assume/Solve calls.
type GiniImplicantOracle struct {
	circuit  *logic.C
	boolLits []z.Lit
	atomLits []z.Lit
	root     z.Lit
}

func NewGiniImplicantOracle() *GiniImplicantOracle { return &GiniImplicantOracle{} }

func (o *GiniImplicantOracle) Load(d *dag.DAG) error {
	c := logic.NewC()
	boolLits := make([]z.Lit, d.BoolVars.Len())
	for i := range boolLits {
		boolLits[i] = c.Lit()
	}
	atomLits := make([]z.Lit, d.Atoms.Len())
	for i := range atomLits {
		atomLits[i] = c.Lit()
	}
	o.circuit, o.boolLits, o.atomLits = c, boolLits, atomLits

	var encode func(n dag.Node) z.Lit
	encode = func(n dag.Node) z.Lit {
		var lit z.Lit
		switch n.Type {
		case dag.ConstBool:
			if n.BoolValue() {
				return c.T
			}
			return c.F
		case dag.VarBool:
			lit = boolLits[n.ID]
		case dag.Ineq:
			lit = atomLits[n.ID]
		case dag.And:
			op := d.BoolOps.Get(n.ID)
			lit = encode(op.Children[0])
			for _, ch := range op.Children[1:] {
				lit = c.And(lit, encode(ch))
			}
		case dag.Or:
			op := d.BoolOps.Get(n.ID)
			lit = encode(op.Children[0])
			for _, ch := range op.Children[1:] {
				lit = c.Or(lit, encode(ch))
			}
		case dag.Eq:
			op := d.BoolOps.Get(n.ID)
			lit = c.Xor(encode(op.Children[0]), encode(op.Children[1])).Not()
		default:
			panic(fmt.Sprintf("unencodable node type '%v'", n.Type))
		}
		if n.Negated() {
			return lit.Not()
		}
		return lit
	}

	if len(d.Asserts) == 0 {
		o.root = c.T
		return nil
	}
	root := encode(d.Asserts[0])
	for _, a := range d.Asserts[1:] {
		root = c.And(root, encode(a))
	}
	o.root = root
	return nil
}

func (o *GiniImplicantOracle) zLit(l Lit) z.Lit {
	var lit z.Lit
	switch l.Kind {
	case LitBoolVar:
		lit = o.boolLits[l.Index]
	case LitAtom:
		lit = o.atomLits[l.Index]
	}
	if l.Negated {
		return lit.Not()
	}
	return lit
}

// Shrink removes literals from full one at a time, keeping a literal only
// when dropping it would let the circuit's root go false — i.e. when
// assuming every remaining literal plus the root's negation is still
// satisfiable, meaning the dropped literal was load-bearing. What survives
// this pass is an irredundant implicant; everything dropped is free
// (don't-care) and becomes part of the bunch's flip list.
func (o *GiniImplicantOracle) Shrink(full []Lit) ([]Lit, error) {
	g := gini.New()
	o.circuit.ToCnfFrom(g, o.root)

	kept := append([]Lit(nil), full...)
	for i := 0; i < len(kept); {
		candidate := make([]Lit, 0, len(kept)-1)
		candidate = append(candidate, kept[:i]...)
		candidate = append(candidate, kept[i+1:]...)

		assumptions := make([]z.Lit, 0, len(candidate)+1)
		for _, l := range candidate {
			assumptions = append(assumptions, o.zLit(l))
		}
		assumptions = append(assumptions, o.root.Not())

		g.Assume(assumptions...)
		if g.Solve() != 1 { // UNSAT: root is forced without kept[i]
			kept = candidate
			continue
		}
		i++
	}
	return kept, nil
}
