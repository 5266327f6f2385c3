package bunch

import (
	"context"
	"testing"

	"github.com/weisi/sharpsmt/builder"
	"github.com/weisi/sharpsmt/dag"
	"github.com/weisi/sharpsmt/oracle"
)

// fakeBoolOracle replays a scripted sequence of Check/Assignment results,
// recording every Block call, so Engine.Run's loop can be exercised without
// a real SAT backend.
type fakeBoolOracle struct {
	results []oracle.Status
	assigns []oracle.Assignment
	step    int
	blocked [][]oracle.Lit
}

func (f *fakeBoolOracle) Init(int) error { return nil }

func (f *fakeBoolOracle) Check(context.Context) (oracle.Status, error) {
	s := f.results[f.step]
	return s, nil
}

func (f *fakeBoolOracle) Assignment() (oracle.Assignment, error) {
	return f.assigns[f.step], nil
}

func (f *fakeBoolOracle) Block(lits []oracle.Lit) error {
	f.blocked = append(f.blocked, lits)
	f.step++
	return nil
}

// fakeImplicantOracle always keeps every literal it is given (no shrinking),
// which is sufficient to exercise Engine.Run's control flow: the interesting
// shrink behavior itself is covered by oracle.GiniImplicantOracle's own
// tests.
type fakeImplicantOracle struct {
	loadedWith *dag.DAG
}

func (f *fakeImplicantOracle) Load(d *dag.DAG) error {
	f.loadedWith = d
	return nil
}

func (f *fakeImplicantOracle) Shrink(full []oracle.Lit) ([]oracle.Lit, error) {
	return full, nil
}

func TestEngineRunStopsOnUnsatAndCollectsOneBunchPerSatStep(t *testing.T) {
	d := dag.New()
	b := builder.New(d)
	a, _ := b.MkBoolDecl("a")
	if err := b.Assert(a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bo := &fakeBoolOracle{
		results: []oracle.Status{oracle.Sat, oracle.Unsat},
		assigns: []oracle.Assignment{
			{BoolVars: []bool{true}},
			{},
		},
	}
	io := &fakeImplicantOracle{}

	e := NewEngine(d, bo, io, 0)
	bunches, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if io.loadedWith != d {
		t.Fatalf("expected ImplicantOracle.Load to be called with the engine's DAG")
	}
	if len(bunches) != 1 {
		t.Fatalf("expected exactly one bunch from one Sat step, got %d", len(bunches))
	}
	if len(bo.blocked) != 1 {
		t.Fatalf("expected exactly one Block call before the Unsat step, got %d", len(bo.blocked))
	}
	if v, ok := bunches[0].BoolDecisions[0]; !ok || !v {
		t.Fatalf("expected bool var 0 decided true, got %v", bunches[0].BoolDecisions)
	}
}

func TestEngineRunReturnsEmptyOnImmediateUnsat(t *testing.T) {
	d := dag.New()
	bo := &fakeBoolOracle{results: []oracle.Status{oracle.Unsat}}
	io := &fakeImplicantOracle{}

	e := NewEngine(d, bo, io, 0)
	bunches, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bunches) != 0 {
		t.Fatalf("expected no bunches, got %d", len(bunches))
	}
}

func TestBuildBunchesPartitionsFreeAndDecidedLiterals(t *testing.T) {
	d := dag.New()
	b := builder.New(d)
	if _, err := b.MkBoolDecl("a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := b.MkBoolDecl("b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	x, _ := b.MkNumDecl("x")
	if _, err := b.MkLe(x, b.MkConst(5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := NewEngine(d, nil, nil, 0)
	full := []oracle.Lit{
		oracle.BoolVarLit(0, false), // a decided true
		oracle.BoolVarLit(1, true),  // b free, dropped from kept
		oracle.AtomLit(0, false),    // atom 0 (x<=5) decided true
	}
	kept := []oracle.Lit{
		oracle.BoolVarLit(0, false),
		oracle.AtomLit(0, false),
	}

	bunches := e.buildBunches(full, kept)
	if len(bunches) != 1 {
		t.Fatalf("expected a single bunch with no equality to re-split, got %d", len(bunches))
	}
	bn := bunches[0]
	if v, ok := bn.BoolDecisions[0]; !ok || !v {
		t.Fatalf("expected bool var 0 decided true, got %v", bn.BoolDecisions)
	}
	if len(bn.FreeBoolVars) != 1 || bn.FreeBoolVars[0] != 1 {
		t.Fatalf("expected bool var 1 to be free, got %v", bn.FreeBoolVars)
	}
	if len(bn.Atoms) != 1 {
		t.Fatalf("expected one resolved atom, got %d", len(bn.Atoms))
	}
	if bn.Multiplier != 2 {
		t.Fatalf("expected multiplier 2^1=2 for one free bool var, got %g", bn.Multiplier)
	}
}

func TestBuildBunchesResolvesDecidedFalseInequalityAsStrictFlip(t *testing.T) {
	d := dag.New()
	b := builder.New(d)
	x, _ := b.MkNumDecl("x")
	if _, err := b.MkLe(x, b.MkConst(5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := NewEngine(d, nil, nil, 0)
	full := []oracle.Lit{oracle.AtomLit(0, true)} // atom decided false: x<=5 is false, i.e. x>5
	bunches := e.buildBunches(full, full)
	if len(bunches) != 1 {
		t.Fatalf("expected one bunch, got %d", len(bunches))
	}
	resolved := bunches[0].Atoms[0]
	if resolved.Atom.Rel != dag.LT {
		t.Fatalf("expected the flipped atom to read as a strict '<', got %v", resolved.Atom.Rel)
	}
	if resolved.Atom.B != -5 {
		t.Fatalf("expected bound to negate to -5, got %g", resolved.Atom.B)
	}
}

func TestBuildBunchesReSplitsEqualityDecidedFalse(t *testing.T) {
	d := dag.New()
	b := builder.New(d)
	x, _ := b.MkNumDecl("x")
	y, _ := b.MkNumDecl("y")
	if _, err := b.MkEq(x, y); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Atoms.Len() != 1 {
		t.Fatalf("expected MkEq to intern exactly one atom, got %d", d.Atoms.Len())
	}
	if d.Atoms.Get(0).Rel != dag.EQRel {
		t.Fatalf("expected the interned atom's relation to be EQRel, got %v", d.Atoms.Get(0).Rel)
	}

	e := NewEngine(d, nil, nil, 0)
	full := []oracle.Lit{oracle.AtomLit(0, true)} // x=y decided false
	bunches := e.buildBunches(full, full)
	if len(bunches) != 2 {
		t.Fatalf("expected a decided-false equality atom to re-split into two bunches, got %d", len(bunches))
	}
	rels := map[dag.Relation]bool{}
	for _, bn := range bunches {
		if len(bn.Atoms) != 1 {
			t.Fatalf("expected each split bunch to carry exactly one atom, got %d", len(bn.Atoms))
		}
		rels[bn.Atoms[0].Atom.Rel] = true
	}
	if !rels[dag.LT] || len(rels) != 1 {
		t.Fatalf("expected both split bunches to use the strict '<' relation, got %v", rels)
	}
}

func TestBunchCloneIsIndependent(t *testing.T) {
	orig := Bunch{
		BoolDecisions: map[int]bool{0: true},
		Atoms:         []ResolvedAtom{{Atom: dag.Atom{Coef: []float64{1}, B: 1, Rel: dag.LE}, SourceIndex: 0}},
		FreeBoolVars:  []int{1},
		FreeAtoms:     []int{2},
		Multiplier:    4,
	}
	cp := orig.clone()
	cp.BoolDecisions[0] = false
	cp.Atoms[0].SourceIndex = 99
	cp.FreeBoolVars[0] = 42

	if !orig.BoolDecisions[0] {
		t.Fatalf("mutating the clone's BoolDecisions affected the original")
	}
	if orig.Atoms[0].SourceIndex != 0 {
		t.Fatalf("mutating the clone's Atoms affected the original")
	}
	if orig.FreeBoolVars[0] != 1 {
		t.Fatalf("mutating the clone's FreeBoolVars affected the original")
	}
}

func TestBunchStringMentionsDecisionsAndAtoms(t *testing.T) {
	bn := Bunch{
		BoolDecisions: map[int]bool{0: true, 1: false},
		Atoms:         []ResolvedAtom{{Atom: dag.Atom{Coef: []float64{1}, B: 5, Rel: dag.LE}, SourceIndex: 0}},
		Multiplier:    1,
	}
	s := bn.String()
	if s == "" {
		t.Fatalf("expected a non-empty String()")
	}
}
