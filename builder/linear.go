package builder

import "github.com/weisi/sharpsmt/dag"

// affine is a flattened Σ aᵢxᵢ + c form, keyed by numeric variable index.
type affine struct {
	coef map[int]float64
	c    float64
}

func newAffine() affine { return affine{coef: make(map[int]float64)} }

func (a affine) add(o affine, scale float64) affine {
	out := newAffine()
	for k, v := range a.coef {
		out.coef[k] = v
	}
	for k, v := range o.coef {
		out.coef[k] += v * scale
	}
	out.c = a.c + o.c*scale
	return out
}

func (a affine) scaled(k float64) affine {
	out := newAffine()
	for i, v := range a.coef {
		out.coef[i] = v * k
	}
	out.c = a.c * k
	return out
}

func (a affine) dense(n int) []float64 {
	out := make([]float64, n)
	for i, v := range a.coef {
		out[i] = v
	}
	return out
}

// linearize flattens a numeric-valued handle into Σaᵢxᵢ+c, honoring the
// node's own M scale and, for Add nodes, V's stored constant offset. It
// returns ok=false when the subtree is not affine (e.g. it bottoms out at
// an IteNum or a Div by a non-constant, which cannot be folded into a
// coefficient vector) — callers raise errs.Nonlinear in that case.
func (b *Builder) linearize(n dag.Node) (affine, bool) {
	switch n.Type {
	case dag.ConstNum:
		return affine{coef: map[int]float64{}, c: n.NumValue()}, true
	case dag.VarNum:
		a := newAffine()
		a.coef[int(n.ID)] = n.M
		return a, true
	case dag.Add:
		op := b.dag.NumOps.Get(n.ID)
		sum := affine{coef: map[int]float64{}, c: n.V}
		for _, child := range op.Children {
			ca, ok := b.linearize(child)
			if !ok {
				return affine{}, false
			}
			sum = sum.add(ca, 1)
		}
		return sum.scaled(n.M), true
	case dag.Mul:
		// Surviving Mul nodes only arise when linearity folding could not
		// reduce the node any further at construction time (builder.go's
		// MkMul always folds a scalar*variable product into a scale
		// update instead of allocating); treat as non-affine defensively.
		return affine{}, false
	default:
		return affine{}, false
	}
}
