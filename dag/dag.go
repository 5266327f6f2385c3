package dag

import "github.com/weisi/sharpsmt/errs"

// Logic is the declared SMT-LIB2 logic, restricted to spec.md's two
// fragments.
type Logic int

const (
	UnknownLogic Logic = iota
	QF_LIA
	QF_LRA
)

// DAG owns every append-only table in spec.md §3: Boolean and numeric
// variable tables, the atomic inequality table, and the operator tables for
// Bool- and numeric-valued operators. It is frozen once solving begins
// (spec.md §3 "Lifecycles" / §5): every mutating method checks Frozen and
// returns errs.SolvingInitialized, following the teacher's "phase-checked"
// builders (graph.Formula nodes are likewise only constructed before
// solver.Check()).
type DAG struct {
	Logic Logic

	BoolVars *VarTable
	NumVars  *VarTable
	Atoms    *Atoms
	BoolOps  *OpTable // And, Or, Eq, IteBool
	NumOps   *OpTable // Add, Mul, Div, IteNum

	Asserts []Node

	Frozen bool
}

func New() *DAG {
	return &DAG{
		BoolVars: NewVarTable(),
		NumVars:  NewVarTable(),
		Atoms:    NewAtoms(),
		BoolOps:  NewOpTable(),
		NumOps:   NewOpTable(),
	}
}

// Freeze transitions the DAG from building to solving. Idempotent.
func (d *DAG) Freeze() { d.Frozen = true }

// CheckMutable returns errs.SolvingInitialized if the DAG has already been
// frozen; every builder method that writes to a DAG table calls this first
// (spec.md §5).
func (d *DAG) CheckMutable() error {
	if d.Frozen {
		return errs.New(errs.SolvingInitialized, "")
	}
	return nil
}

// Assert appends a top-level Boolean assertion.
func (d *DAG) Assert(n Node) error {
	if err := d.CheckMutable(); err != nil {
		return err
	}
	d.Asserts = append(d.Asserts, n)
	return nil
}
