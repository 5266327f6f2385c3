package polytope

import (
	"github.com/weisi/sharpsmt/bunch"
)

// BuildMatrix projects one bunch's resolved atoms into a dense constraint
// system over all nvars numeric variables (spec.md §4.4). Every
// bunch.ResolvedAtom is already oriented to read true by bunch.Engine, so
// this is a straight copy into dense rows — no polarity branching here, the
// re-split decision (Open Question #2) already happened one layer up.
func BuildMatrix(b bunch.Bunch, nvars int) *Polytope {
	vars := make([]int, nvars)
	for i := range vars {
		vars[i] = i
	}

	p := &Polytope{Vars: vars}
	for _, ra := range b.Atoms {
		row := denseRow(ra.Atom.Coef, nvars)
		p.A = append(p.A, row)
		p.B = append(p.B, ra.Atom.B)
		p.Rel = append(p.Rel, ra.Atom.Rel)
	}
	return p
}

func denseRow(coef []float64, n int) []float64 {
	row := make([]float64, n)
	copy(row, coef)
	return row
}

// incidentVars returns the indices (into p.Vars, not the original dag
// numbering) of columns with a non-zero coefficient in row i.
func incidentVars(row []float64) []int {
	var vs []int
	for i, c := range row {
		if c != 0 {
			vs = append(vs, i)
		}
	}
	return vs
}
