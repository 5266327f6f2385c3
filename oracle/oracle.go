// Package oracle bridges the Boolean skeleton of a formula to external
// solvers: a Z3Oracle answers the arithmetic-aware satisfiability queries
// the bunch engine (spec.md C5) needs, and an ImplicantOracle shrinks one
// satisfying assignment down to an irredundant implicant (the "flip list")
// using a pure-Boolean SAT solver, since that step never needs arithmetic
// once the oracle has already fixed a model.
package oracle

import (
	"context"

	"github.com/weisi/sharpsmt/dag"
)

// Status is the result of one satisfiability query.
type Status int

const (
	Unsat Status = iota
	Sat
)

// LitKind distinguishes the two families of Boolean-level variables spec.md
// §3/§4.2 exposes to the oracle: declared Boolean variables and the atomic
// inequalities of the C3 table.
type LitKind int

const (
	LitBoolVar LitKind = iota
	LitAtom
)

// Lit is a literal over the combined Boolean space {bool vars} ∪ {atoms}.
type Lit struct {
	Kind    LitKind
	Index   int
	Negated bool
}

func BoolVarLit(i int, negated bool) Lit { return Lit{Kind: LitBoolVar, Index: i, Negated: negated} }
func AtomLit(i int, negated bool) Lit    { return Lit{Kind: LitAtom, Index: i, Negated: negated} }

// Assignment is one full decision over every Boolean variable and atom,
// returned by a satisfying Check().
type Assignment struct {
	BoolVars []bool // indexed by dag.VarTable (Bool) index
	Atoms    []bool // indexed by dag.Atoms index
}

func (a Assignment) Lit(l Lit) bool {
	var v bool
	switch l.Kind {
	case LitBoolVar:
		v = a.BoolVars[l.Index]
	case LitAtom:
		v = a.Atoms[l.Index]
	}
	if l.Negated {
		return !v
	}
	return v
}

// BoolOracle is spec.md C4's core contract: initialize against a frozen
// dag.DAG, answer whether the current set of assertions plus blocking
// clauses is satisfiable, read back the witnessing assignment, and block
// that assignment (or a generalization of it, via Block's literal list) so
// the next Check() finds a different one.
type BoolOracle interface {
	// Init prepares the oracle from a frozen DAG. wordLength bounds integer
	// variables to a signed two's-complement range of that bit width
	// (spec.md §4.2); 0 means unbounded.
	Init(wordLength int) error
	Check(ctx context.Context) (Status, error)
	Assignment() (Assignment, error)
	// Block adds a clause forbidding every future assignment that agrees
	// with lits on every literal (a "blocking clause" over the given,
	// possibly partial, cube).
	Block(lits []Lit) error
}

// ImplicantOracle shrinks a full assignment down to an irredundant
// implicant of asserts — the maximal set of literals that can be left
// "free" (don't-care) while the remainder still forces asserts true — used
// by the bunch engine to build one bunch's flip list (spec.md §4.3).
type ImplicantOracle interface {
	// Load compiles d's asserted formula into the implicant oracle's
	// internal circuit, treating atoms and Boolean variables as opaque
	// leaf literals (the arithmetic inside an atom was already resolved by
	// whichever BoolOracle produced the assignment being shrunk).
	Load(d *dag.DAG) error
	// Shrink takes a full satisfying assignment and returns the subset of
	// decided literals that cannot be dropped (every literal not in the
	// result is free).
	Shrink(full []Lit) ([]Lit, error)
}
