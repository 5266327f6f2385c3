package volume

import (
	"math"

	"github.com/weisi/sharpsmt/dag"
	"github.com/weisi/sharpsmt/polytope"
)

// Box is an axis-aligned bounding box, one (lower, upper) pair per column of
// the polytope it was computed from. An infinite bound is represented as
// ±math.Inf(1).
type Box struct {
	Lower []float64
	Upper []float64
}

// BoundingBox computes p's axis-aligned extrema (spec.md §4.7) with the
// "simple Fourier-Motzkin sweep" the spec allows in place of a full LP: for
// each single-variable row (every other coefficient zero) tighten that
// axis's bound directly; multi-variable rows don't move any single axis's
// extremum and are left to the back-end's own exact computation. This is
// intentionally a cheap pre-check, not a substitute for the back-end: it
// under-reports boundedness for any shape pinned down only by multi-
// variable rows (a simplex's hypotenuse constraint, say), so Dispatch only
// ever logs what this reports, never rejects on it — the actual
// UnboundedPolytope fault comes from polytope.Polytope.FreeVars, which is
// exact.
func BoundingBox(p *polytope.Polytope) Box {
	n := len(p.Vars)
	box := Box{Lower: make([]float64, n), Upper: make([]float64, n)}
	for i := range box.Lower {
		box.Lower[i] = math.Inf(-1)
		box.Upper[i] = math.Inf(1)
	}

	for ri, row := range p.A {
		col := -1
		for j, c := range row {
			if c == 0 {
				continue
			}
			if col != -1 {
				col = -2 // more than one nonzero: not a single-variable row
				break
			}
			col = j
		}
		if col < 0 {
			continue
		}
		coef := row[col]
		bound := p.B[ri] / coef
		switch {
		case p.Rel[ri] == dag.EQRel:
			box.Lower[col] = math.Max(box.Lower[col], bound)
			box.Upper[col] = math.Min(box.Upper[col], bound)
		case coef > 0:
			box.Upper[col] = math.Min(box.Upper[col], bound)
		default:
			box.Lower[col] = math.Max(box.Lower[col], bound)
		}
	}
	return box
}

// Unbounded reports whether any axis has no finite bound on at least one
// side. Dispatch only logs this; it does not raise errs.UnboundedPolytope
// (that fault comes from polytope.Polytope.FreeVars).
func (b Box) Unbounded() bool {
	for i := range b.Lower {
		if math.IsInf(b.Lower[i], -1) || math.IsInf(b.Upper[i], 1) {
			return true
		}
	}
	return false
}
