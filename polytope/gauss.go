package polytope

import "github.com/weisi/sharpsmt/dag"

// Reduce performs full-pivot Gaussian elimination on p's equality rows
// (spec.md §4.5), substituting each pivoted variable out of every remaining
// row and shrinking the variable set by one per successful pivot. It
// returns ok=false when an equality row is inconsistent (0 = nonzero),
// meaning the polytope is empty and its volume is 0 without ever reaching a
// back-end.
func Reduce(p *Polytope) (reduced *Polytope, ok bool) {
	A := cloneRows(p.A)
	B := append([]float64(nil), p.B...)
	rel := append([]dag.Relation(nil), p.Rel...)
	vars := append([]int(nil), p.Vars...)

	for {
		pivotRow := -1
		for i, r := range rel {
			if r == dag.EQRel {
				pivotRow = i
				break
			}
		}
		if pivotRow == -1 {
			break
		}

		pivotCol := -1
		for j, c := range A[pivotRow] {
			if c != 0 {
				pivotCol = j
				break
			}
		}
		if pivotCol == -1 {
			// 0 = b: consistent iff b is also 0.
			if B[pivotRow] != 0 {
				return nil, false
			}
			A, B, rel = dropRow(A, B, rel, pivotRow)
			continue
		}

		pv := A[pivotRow][pivotCol]
		pb := B[pivotRow]
		for i := range A {
			if i == pivotRow {
				continue
			}
			coef := A[i][pivotCol]
			if coef == 0 {
				continue
			}
			scale := coef / pv
			for j := range A[i] {
				A[i][j] -= scale * A[pivotRow][j]
			}
			B[i] -= scale * pb
		}
		A, B, rel = dropRow(A, B, rel, pivotRow)
		A = dropCol(A, pivotCol)
		vars = append(append([]int(nil), vars[:pivotCol]...), vars[pivotCol+1:]...)
	}

	return &Polytope{A: A, B: B, Rel: rel, Vars: vars, Unbounded: p.Unbounded}, true
}

func cloneRows(a [][]float64) [][]float64 {
	out := make([][]float64, len(a))
	for i, r := range a {
		out[i] = append([]float64(nil), r...)
	}
	return out
}

func dropRow(a [][]float64, b []float64, rel []dag.Relation, i int) ([][]float64, []float64, []dag.Relation) {
	a = append(append([][]float64(nil), a[:i]...), a[i+1:]...)
	b = append(append([]float64(nil), b[:i]...), b[i+1:]...)
	rel = append(append([]dag.Relation(nil), rel[:i]...), rel[i+1:]...)
	return a, b, rel
}

func dropCol(a [][]float64, j int) [][]float64 {
	out := make([][]float64, len(a))
	for i, row := range a {
		out[i] = append(append([]float64(nil), row[:j]...), row[j+1:]...)
	}
	return out
}
