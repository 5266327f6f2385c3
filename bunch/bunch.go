// Package bunch implements spec.md C5: it drives an oracle.BoolOracle to
// enumerate disjoint satisfying Boolean-level assignments ("bunches"),
// shrinking each one to its flip list with an oracle.ImplicantOracle and
// blocking it before asking for the next.
package bunch

import (
	"fmt"

	"github.com/weisi/sharpsmt/dag"
)

// ResolvedAtom is one atomic constraint fixed by a bunch, already oriented
// to read "true" under the bunch's decision (a negated <= atom becomes a
// strict > rewritten as -Σaᵢxᵢ < -b, so the polytope builder never has to
// look at polarity again).
type ResolvedAtom struct {
	Atom        dag.Atom
	SourceIndex int // index into dag.Atoms; both halves of a split equality carry the equality's index
}

// Bunch is one disjoint region of the Boolean assignment space, plus the
// resolved linear constraints that pin its numeric part (spec.md §3/§4.3).
// FreeBoolVars/FreeAtoms are the flip list: decisions left don't-care
// because they weren't needed to satisfy the assertions.
type Bunch struct {
	BoolDecisions map[int]bool
	Atoms         []ResolvedAtom
	FreeBoolVars  []int
	FreeAtoms     []int
	// Multiplier is 2^|FreeBoolVars|: each free Boolean variable is a
	// genuine discrete either/or that doubles the count of equivalent
	// satisfying assignments this bunch stands for (spec.md §4.3). A free
	// atom carries no matching factor here: dropping its row from Atoms
	// already means the bunch's polytope places no constraint from it at
	// all, i.e. the union of its true- and false-half-spaces, which is the
	// entire space — there is nothing left to multiply in.
	Multiplier float64
}

func (b Bunch) clone() Bunch {
	out := Bunch{
		BoolDecisions: make(map[int]bool, len(b.BoolDecisions)),
		Atoms:         append([]ResolvedAtom(nil), b.Atoms...),
		FreeBoolVars:  append([]int(nil), b.FreeBoolVars...),
		FreeAtoms:     append([]int(nil), b.FreeAtoms...),
		Multiplier:    b.Multiplier,
	}
	for k, v := range b.BoolDecisions {
		out.BoolDecisions[k] = v
	}
	return out
}

func (b Bunch) String() string {
	s := "bunch{"
	first := true
	for idx, v := range b.BoolDecisions {
		if !first {
			s += ", "
		}
		first = false
		if !v {
			s += "!"
		}
		s += boolVarName(idx)
	}
	for _, a := range b.Atoms {
		if !first {
			s += ", "
		}
		first = false
		s += a.Atom.String()
	}
	s += fmt.Sprintf("}[free_bool=%d free_atoms=%d mult=%g]",
		len(b.FreeBoolVars), len(b.FreeAtoms), b.Multiplier)
	return s
}

func boolVarName(i int) string { return fmt.Sprintf("b%d", i) }

func negateCoef(coef []float64) []float64 {
	out := make([]float64, len(coef))
	for i, c := range coef {
		out[i] = -c
	}
	return out
}
