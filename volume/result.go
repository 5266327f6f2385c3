// Package volume implements spec.md C9/C10: bounding, caching, and
// dispatching a prepared polytope to one of the external volume/lattice-count
// tools, plus the bounded-triple arithmetic V2L's result carries through
// factorization and bunch summation.
package volume

// Result is spec.md §3's "Volume result with bounds": a value together with
// an upper and lower bound, all non-negative. Most back-ends only ever
// populate Value (Upper==Lower==Value); only V2L produces a genuine
// three-way spread.
type Result struct {
	Value float64
	Upper float64
	Lower float64
}

// Exact returns a Result whose bounds collapse onto its value, the common
// case for every back-end except V2L.
func Exact(v float64) Result {
	v = clamp(v)
	return Result{Value: v, Upper: v, Lower: v}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// Add combines two bunches' contributions; the running sum over all bunches
// (spec.md §4.8). Negative components are clamped to zero before adding.
func (r Result) Add(o Result) Result {
	return Result{
		Value: clamp(r.Value) + clamp(o.Value),
		Upper: clamp(r.Upper) + clamp(o.Upper),
		Lower: clamp(r.Lower) + clamp(o.Lower),
	}
}

// Mul combines independent sub-polytopes' results across factorization
// (spec.md §4.6/§4.8): the volume of a Cartesian product is the product of
// the factors' volumes. Negative components are clamped to zero before
// multiplying.
func (r Result) Mul(o Result) Result {
	return Result{
		Value: clamp(r.Value) * clamp(o.Value),
		Upper: clamp(r.Upper) * clamp(o.Upper),
		Lower: clamp(r.Lower) * clamp(o.Lower),
	}
}

// Scale multiplies all three components by a non-negative bunch multiplier
// (spec.md §3).
func (r Result) Scale(k float64) Result {
	return Result{
		Value: clamp(r.Value * k),
		Upper: clamp(r.Upper * k),
		Lower: clamp(r.Lower * k),
	}
}

// One is the multiplicative identity for Mul, the starting accumulator for
// a factorization's product of sub-volumes.
func One() Result { return Result{Value: 1, Upper: 1, Lower: 1} }
