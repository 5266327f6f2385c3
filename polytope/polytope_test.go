package polytope

import (
	"testing"

	"github.com/weisi/sharpsmt/bunch"
	"github.com/weisi/sharpsmt/dag"
)

func atom(coef []float64, b float64, rel dag.Relation) bunch.ResolvedAtom {
	return bunch.ResolvedAtom{Atom: dag.Atom{Coef: coef, B: b, Rel: rel}, SourceIndex: 0}
}

func TestBuildMatrixCopiesResolvedAtomsAsDenseRows(t *testing.T) {
	b := bunch.Bunch{Atoms: []bunch.ResolvedAtom{
		atom([]float64{1, 0}, 5, dag.LE),
		atom([]float64{0, 1}, 3, dag.EQRel),
	}}
	p := BuildMatrix(b, 2)
	if len(p.A) != 2 || len(p.Vars) != 2 {
		t.Fatalf("expected 2 rows over 2 vars, got %d rows, %d vars", len(p.A), len(p.Vars))
	}
	if p.Rel[1] != dag.EQRel {
		t.Fatalf("expected second row to keep its EQRel relation, got %v", p.Rel[1])
	}
}

func TestReduceEliminatesEqualityRow(t *testing.T) {
	// x + y = 3, x <= 5  ->  after substituting x = 3 - y, one inequality
	// row (-y <= 2) remains over a single variable.
	b := bunch.Bunch{Atoms: []bunch.ResolvedAtom{
		atom([]float64{1, 1}, 3, dag.EQRel),
		atom([]float64{1, 0}, 5, dag.LE),
	}}
	p := BuildMatrix(b, 2)
	reduced, ok := Reduce(p)
	if !ok {
		t.Fatalf("expected a consistent reduction")
	}
	if len(reduced.Vars) != 1 {
		t.Fatalf("expected one variable left after eliminating the equality, got %d", len(reduced.Vars))
	}
	if len(reduced.A) != 1 {
		t.Fatalf("expected one inequality row left, got %d", len(reduced.A))
	}
}

func TestReduceDetectsInconsistency(t *testing.T) {
	b := bunch.Bunch{Atoms: []bunch.ResolvedAtom{
		atom([]float64{0, 0}, 1, dag.EQRel), // 0 = 1
	}}
	p := BuildMatrix(b, 2)
	_, ok := Reduce(p)
	if ok {
		t.Fatalf("expected Reduce to detect 0=1 as inconsistent")
	}
}

func TestFactorSplitsIndependentComponents(t *testing.T) {
	// x <= 1, y <= 2: no row shares a variable, so this factors into two
	// one-dimensional polytopes.
	b := bunch.Bunch{Atoms: []bunch.ResolvedAtom{
		atom([]float64{1, 0}, 1, dag.LE),
		atom([]float64{0, 1}, 2, dag.LE),
	}}
	p := BuildMatrix(b, 2)
	parts := Factor(p)
	if len(parts) != 2 {
		t.Fatalf("expected 2 independent sub-polytopes, got %d", len(parts))
	}
	if parts[0].Vars[0] != 0 || parts[1].Vars[0] != 1 {
		t.Fatalf("expected sub-polytopes ordered by variable index, got %v and %v", parts[0].Vars, parts[1].Vars)
	}
}

func TestFactorKeepsCoupledRowsTogether(t *testing.T) {
	// x + y <= 3 couples both variables into one component.
	b := bunch.Bunch{Atoms: []bunch.ResolvedAtom{
		atom([]float64{1, 1}, 3, dag.LE),
	}}
	p := BuildMatrix(b, 2)
	parts := Factor(p)
	if len(parts) != 1 {
		t.Fatalf("expected coupled rows to stay in one polytope, got %d parts", len(parts))
	}
}

func TestFactorMarksUntouchedVariableUnbounded(t *testing.T) {
	b := bunch.Bunch{Atoms: []bunch.ResolvedAtom{
		atom([]float64{1, 0}, 1, dag.LE),
	}}
	p := BuildMatrix(b, 2)
	parts := Factor(p)
	if len(parts) != 2 {
		t.Fatalf("expected 2 components (constrained x, free y), got %d", len(parts))
	}
	var freeFound bool
	for _, part := range parts {
		if len(part.A) == 0 {
			freeFound = true
			if !part.Unbounded {
				t.Fatalf("expected the row-less component to be marked Unbounded")
			}
		}
	}
	if !freeFound {
		t.Fatalf("expected one component with no rows")
	}
}

func TestFreeVarsIsEmptyForSimplexBoundedOnlyByMultiVariableRows(t *testing.T) {
	// x >= 0, y >= 0, x + y <= 1: every variable is touched by some row, so
	// FreeVars must report no free dimension even though neither axis has
	// its own single-variable upper bound.
	b := bunch.Bunch{Atoms: []bunch.ResolvedAtom{
		atom([]float64{-1, 0}, 0, dag.LE),
		atom([]float64{0, -1}, 0, dag.LE),
		atom([]float64{1, 1}, 1, dag.LE),
	}}
	p := BuildMatrix(b, 2)
	if free := p.FreeVars(); len(free) != 0 {
		t.Fatalf("expected no free variables in the simplex, got %v", free)
	}
}

func TestFreeVarsReportsUntouchedColumn(t *testing.T) {
	b := bunch.Bunch{Atoms: []bunch.ResolvedAtom{
		atom([]float64{1, 0}, 1, dag.LE),
	}}
	p := BuildMatrix(b, 2)
	free := p.FreeVars()
	if len(free) != 1 || free[0] != 1 {
		t.Fatalf("expected column 1 (y) reported free, got %v", free)
	}
}

func TestPolytopeKeyIsStableUnderRowOrder(t *testing.T) {
	b1 := bunch.Bunch{Atoms: []bunch.ResolvedAtom{
		atom([]float64{1, 0}, 1, dag.LE),
		atom([]float64{0, 1}, 2, dag.LE),
	}}
	b2 := bunch.Bunch{Atoms: []bunch.ResolvedAtom{
		atom([]float64{0, 1}, 2, dag.LE),
		atom([]float64{1, 0}, 1, dag.LE),
	}}
	p1 := BuildMatrix(b1, 2)
	p2 := BuildMatrix(b2, 2)
	if p1.Key() != p2.Key() {
		t.Fatalf("expected row order not to affect the cache key: %q vs %q", p1.Key(), p2.Key())
	}
}
