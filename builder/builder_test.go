package builder

import (
	"testing"

	"github.com/weisi/sharpsmt/dag"
	"github.com/weisi/sharpsmt/errs"
)

func newTestBuilder() *Builder {
	return New(dag.New())
}

func TestMkAndShortCircuitsOnFalse(t *testing.T) {
	b := newTestBuilder()
	x, _ := b.MkBoolDecl("x")
	n, err := b.MkAnd([]dag.Node{x, dag.False})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !n.SameIdentity(dag.False) {
		t.Fatalf("expected And with a literal False operand to collapse to False, got %v", n)
	}
}

func TestMkAndFlattensNestedConjunctions(t *testing.T) {
	b := newTestBuilder()
	x, _ := b.MkBoolDecl("x")
	y, _ := b.MkBoolDecl("y")
	z, _ := b.MkBoolDecl("z")
	inner, err := b.MkAnd([]dag.Node{x, y})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	outer, err := b.MkAnd([]dag.Node{inner, z})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	op := b.dag.BoolOps.Get(outer.ID)
	if len(op.Children) != 3 {
		t.Fatalf("expected nested And to flatten into 3 children, got %d", len(op.Children))
	}
}

func TestMkNotRoundTrip(t *testing.T) {
	b := newTestBuilder()
	x, _ := b.MkBoolDecl("x")
	nx, err := b.MkNot(x)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nnx, err := b.MkNot(nx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nnx.M != x.M {
		t.Fatalf("mk_not(mk_not(x)) should restore identity, got m=%v want %v", nnx.M, x.M)
	}
}

func TestMkLeRewritesAndDedupesAtom(t *testing.T) {
	b := newTestBuilder()
	x, _ := b.MkNumDecl("x")
	five := b.MkConst(5)

	le1, err := b.MkLe(x, five)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lt, err := b.MkLt(x, five)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !lt.Negated() {
		t.Fatalf("expected l<r to rewrite to a negated atom")
	}

	ge, err := b.MkGe(five, x)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ge.SameIdentity(le1) {
		t.Fatalf("expected 5>=x to rewrite to the same atom as x<=5")
	}
}

func TestMkAddFoldsConstantsAndFlattens(t *testing.T) {
	b := newTestBuilder()
	x, _ := b.MkNumDecl("x")
	one := b.MkConst(1)
	two := b.MkConst(2)

	sum, err := b.MkAdd([]dag.Node{x, one, two})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Type != dag.Add {
		t.Fatalf("expected an Add node, got %v", sum.Type)
	}
	if sum.V != 3 {
		t.Fatalf("expected constants to fold into offset 3, got %v", sum.V)
	}
	op := b.dag.NumOps.Get(sum.ID)
	if len(op.Children) != 1 {
		t.Fatalf("expected a single variable child after folding, got %d", len(op.Children))
	}
}

// TestMkAddFlattenPreservesScaleOfNestedAdd covers (+ (* 2 (+ x y)) z): the
// nested Add's scale must carry onto its flattened grandchildren, not just
// their sign, or the linearized atom silently drops the factor of 2.
func TestMkAddFlattenPreservesScaleOfNestedAdd(t *testing.T) {
	b := newTestBuilder()
	x, _ := b.MkNumDecl("x")
	y, _ := b.MkNumDecl("y")
	z, _ := b.MkNumDecl("z")

	inner, err := b.MkAdd([]dag.Node{x, y})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	scaledInner, err := b.MkMul([]dag.Node{b.MkConst(2), inner})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sum, err := b.MkAdd([]dag.Node{scaledInner, z})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	le, err := b.MkLe(sum, b.MkConst(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	atom := b.dag.Atoms.Get(int(le.ID))
	want := map[int]float64{int(x.ID): 2, int(y.ID): 2, int(z.ID): 1}
	for idx, coef := range want {
		if atom.Coef[idx] != coef {
			t.Fatalf("expected var %d to carry coefficient %v, got %v (full coef %v)", idx, coef, atom.Coef[idx], atom.Coef)
		}
	}
}

func TestMkMulScalesWithoutAllocating(t *testing.T) {
	b := newTestBuilder()
	x, _ := b.MkNumDecl("x")
	three := b.MkConst(3)

	before := b.dag.NumOps.Len()
	scaled, err := b.MkMul([]dag.Node{x, three})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.dag.NumOps.Len() != before {
		t.Fatalf("expected MkMul by a scalar to avoid allocating a new op node")
	}
	if !scaled.SameIdentity(x) {
		t.Fatalf("expected the scaled node to keep x's identity")
	}
	if scaled.M != 3 {
		t.Fatalf("expected scale multiplier 3, got %v", scaled.M)
	}
}

func TestMkMulRejectsTwoVariables(t *testing.T) {
	b := newTestBuilder()
	x, _ := b.MkNumDecl("x")
	y, _ := b.MkNumDecl("y")
	_, err := b.MkMul([]dag.Node{x, y})
	if !errs.Is(err, errs.Nonlinear) {
		t.Fatalf("expected a Nonlinear fault for x*y, got %v", err)
	}
}

func TestMkDivByZeroConstantFaults(t *testing.T) {
	b := newTestBuilder()
	x, _ := b.MkNumDecl("x")
	zero := b.MkConst(0)
	_, err := b.MkDiv(x, zero)
	if !errs.Is(err, errs.ZeroDivisor) {
		t.Fatalf("expected a ZeroDivisor fault, got %v", err)
	}
}

func TestMkDivByVariableIsNonlinear(t *testing.T) {
	b := newTestBuilder()
	x, _ := b.MkNumDecl("x")
	y, _ := b.MkNumDecl("y")
	_, err := b.MkDiv(x, y)
	if !errs.Is(err, errs.Nonlinear) {
		t.Fatalf("expected a Nonlinear fault for x/y, got %v", err)
	}
}

func TestMkEqNumericBuildsSingleEqAtom(t *testing.T) {
	b := newTestBuilder()
	x, _ := b.MkNumDecl("x")
	y, _ := b.MkNumDecl("y")
	eq, err := b.MkEq(x, y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eq.Type != dag.Ineq {
		t.Fatalf("expected numeric = to intern a single atom, got %v", eq.Type)
	}
	atom := b.dag.Atoms.Get(int(eq.ID))
	if atom.Rel != dag.EQRel {
		t.Fatalf("expected the interned atom's relation to be EQRel, got %v", atom.Rel)
	}
}

func TestMkEqNumericDedupesAgainstReversedOperands(t *testing.T) {
	b := newTestBuilder()
	x, _ := b.MkNumDecl("x")
	y, _ := b.MkNumDecl("y")
	eq1, err := b.MkEq(x, y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	eq2, err := b.MkEq(y, x)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eq1.ID != eq2.ID {
		t.Fatalf("expected x=y and y=x to intern the same atom, got %d and %d", eq1.ID, eq2.ID)
	}
}

func TestMkEqBoolUsesDedicatedConnective(t *testing.T) {
	b := newTestBuilder()
	x, _ := b.MkBoolDecl("x")
	y, _ := b.MkBoolDecl("y")
	eq, err := b.MkEq(x, y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eq.Type != dag.Eq {
		t.Fatalf("expected Boolean = to build an Eq node, got %v", eq.Type)
	}
}

func TestMkXorIsNegatedEq(t *testing.T) {
	b := newTestBuilder()
	x, _ := b.MkBoolDecl("x")
	y, _ := b.MkBoolDecl("y")
	xor, err := b.MkXor(x, y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if xor.Type != dag.Eq || !xor.Negated() {
		t.Fatalf("expected Xor to be a negated Eq node, got type=%v negated=%v", xor.Type, xor.Negated())
	}
}

func TestMkDistinctOnThreeVarsBuildsThreePairs(t *testing.T) {
	b := newTestBuilder()
	x, _ := b.MkBoolDecl("x")
	y, _ := b.MkBoolDecl("y")
	z, _ := b.MkBoolDecl("z")
	d, err := b.MkDistinct([]dag.Node{x, y, z})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	op := b.dag.BoolOps.Get(d.ID)
	if len(op.Children) != 3 {
		t.Fatalf("expected 3 pairwise inequalities for 3 operands, got %d", len(op.Children))
	}
}

func TestMkIteNumBuildsOpaqueOperator(t *testing.T) {
	b := newTestBuilder()
	c, _ := b.MkBoolDecl("c")
	x, _ := b.MkNumDecl("x")
	y, _ := b.MkNumDecl("y")
	n, err := b.MkIte(c, x, y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Type != dag.IteNum {
		t.Fatalf("expected a numeric Ite to build an IteNum node, got %v", n.Type)
	}
}

func TestFrozenDAGRejectsMutation(t *testing.T) {
	b := newTestBuilder()
	b.dag.Freeze()
	_, err := b.MkBoolDecl("x")
	if !errs.Is(err, errs.SolvingInitialized) {
		t.Fatalf("expected SolvingInitialized fault after freeze, got %v", err)
	}
}

func TestMkDeclRejectsRedeclaration(t *testing.T) {
	b := newTestBuilder()
	if _, err := b.MkBoolDecl("x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := b.MkBoolDecl("x")
	if !errs.Is(err, errs.MultipleDecl) {
		t.Fatalf("expected MultipleDecl fault on redeclaration, got %v", err)
	}
}
