package bunch

import (
	"context"
	"math"

	"github.com/weisi/sharpsmt/dag"
	"github.com/weisi/sharpsmt/oracle"
)

// Engine drives one oracle.BoolOracle to exhaustion, turning every
// satisfying assignment it reports into one or more Bunches.
type Engine struct {
	d          *dag.DAG
	bo         oracle.BoolOracle
	io         oracle.ImplicantOracle
	wordLength int

	// NoShrink disables the flip-list step (the CLI's enable_bunch=false,
	// spec.md §6): every oracle assignment becomes its own fully-decided
	// bunch with no free literals, trading a larger bunch count for
	// skipping the ImplicantOracle pass entirely.
	NoShrink bool
}

func NewEngine(d *dag.DAG, bo oracle.BoolOracle, io oracle.ImplicantOracle, wordLength int) *Engine {
	return &Engine{d: d, bo: bo, io: io, wordLength: wordLength}
}

// Run enumerates bunches until the oracle reports Unsat (spec.md §4.3/§6).
func (e *Engine) Run(ctx context.Context) ([]Bunch, error) {
	if err := e.io.Load(e.d); err != nil {
		return nil, err
	}
	if err := e.bo.Init(e.wordLength); err != nil {
		return nil, err
	}

	var out []Bunch
	for {
		status, err := e.bo.Check(ctx)
		if err != nil {
			return nil, err
		}
		if status == oracle.Unsat {
			return out, nil
		}
		assign, err := e.bo.Assignment()
		if err != nil {
			return nil, err
		}
		full := e.fullLits(assign)
		kept := full
		if !e.NoShrink {
			kept, err = e.io.Shrink(full)
			if err != nil {
				return nil, err
			}
		}
		out = append(out, e.buildBunches(full, kept)...)
		if err := e.bo.Block(kept); err != nil {
			return nil, err
		}
	}
}

func (e *Engine) fullLits(assign oracle.Assignment) []oracle.Lit {
	lits := make([]oracle.Lit, 0, len(assign.BoolVars)+len(assign.Atoms))
	for i, v := range assign.BoolVars {
		lits = append(lits, oracle.BoolVarLit(i, !v))
	}
	for i, v := range assign.Atoms {
		lits = append(lits, oracle.AtomLit(i, !v))
	}
	return lits
}

type litKey struct {
	kind  oracle.LitKind
	index int
}

func key(l oracle.Lit) litKey { return litKey{kind: l.Kind, index: l.Index} }

// buildBunches resolves one assignment's flip list into a Bunch, re-splitting
// it into two whenever a kept equality atom was decided false — spec.md
// §4.4's Open Question decision: ¬(Σaᵢxᵢ=b) is not a half-space, so it
// becomes the disjoint union of the strict "<" and "... >" halves, each its
// own bunch.
func (e *Engine) buildBunches(full, kept []oracle.Lit) []Bunch {
	keptSet := make(map[litKey]bool, len(kept))
	for _, l := range kept {
		keptSet[key(l)] = true
	}

	base := Bunch{BoolDecisions: make(map[int]bool)}
	var eqFalseAtoms []int

	for _, l := range full {
		switch l.Kind {
		case oracle.LitBoolVar:
			if keptSet[key(l)] {
				base.BoolDecisions[l.Index] = !l.Negated
			} else {
				base.FreeBoolVars = append(base.FreeBoolVars, l.Index)
			}
		case oracle.LitAtom:
			if !keptSet[key(l)] {
				base.FreeAtoms = append(base.FreeAtoms, l.Index)
				continue
			}
			atom := e.d.Atoms.Get(l.Index)
			decided := !l.Negated
			if atom.Rel == dag.EQRel && !decided {
				eqFalseAtoms = append(eqFalseAtoms, l.Index)
				continue
			}
			base.Atoms = append(base.Atoms, resolve(atom, decided, l.Index))
		}
	}
	base.Multiplier = math.Pow(2, float64(len(base.FreeBoolVars)))

	if len(eqFalseAtoms) == 0 {
		return []Bunch{base}
	}

	bunches := []Bunch{base}
	for _, idx := range eqFalseAtoms {
		atom := e.d.Atoms.Get(idx)
		lower := dag.Atom{Coef: atom.Coef, B: atom.B, Rel: dag.LT}
		upper := dag.Atom{Coef: negateCoef(atom.Coef), B: -atom.B, Rel: dag.LT}
		var next []Bunch
		for _, b := range bunches {
			lo := b.clone()
			lo.Atoms = append(lo.Atoms, ResolvedAtom{Atom: lower, SourceIndex: idx})
			hi := b.clone()
			hi.Atoms = append(hi.Atoms, ResolvedAtom{Atom: upper, SourceIndex: idx})
			next = append(next, lo, hi)
		}
		bunches = next
	}
	return bunches
}

// resolve orients atom to read true under decided, so downstream code never
// has to reason about polarity: a false "<=" atom becomes the strict ">"
// rewritten as -Σaᵢxᵢ < -b.
func resolve(atom dag.Atom, decided bool, idx int) ResolvedAtom {
	if decided {
		return ResolvedAtom{Atom: atom, SourceIndex: idx}
	}
	return ResolvedAtom{
		Atom:        dag.Atom{Coef: negateCoef(atom.Coef), B: -atom.B, Rel: dag.LT},
		SourceIndex: idx,
	}
}
