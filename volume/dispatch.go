package volume

import (
	"github.com/weisi/sharpsmt/errs"
	"github.com/weisi/sharpsmt/logx"
	"github.com/weisi/sharpsmt/polytope"
)

// BackendKind selects one of spec.md §1's six external tools.
type BackendKind int

const (
	BackendVinci BackendKind = iota
	BackendLatte
	BackendBarvinok
	BackendALC
	BackendPolyVest
	BackendV2L
)

// BackendForKind resolves a BackendKind to its concrete Backend.
func BackendForKind(k BackendKind) Backend {
	switch k {
	case BackendLatte:
		return Latte{}
	case BackendBarvinok:
		return Barvinok{}
	case BackendALC:
		return ALC{}
	case BackendPolyVest:
		return PolyVest{}
	case BackendV2L:
		return V2L{}
	default:
		return Vinci{}
	}
}

// Dispatch is spec.md C9's cache-then-invoke step: it looks p up in cache by
// its canonical key, and on a miss writes it to the chosen back-end and
// records the result (spec.md §4.7). A polytope with a variable no row
// constrains at all (p.FreeVars) faults UnboundedPolytope before ever
// reaching the back-end, since no exact tool in this pack can integrate an
// unbounded region; this is the only unboundedness signal treated as a hard
// fault, since it is exact (a variable absent from every row is free
// regardless of what the other rows say). BoundingBox's single-variable-row
// sweep is a much weaker, incomplete test — a simplex like x>=0, y>=0,
// x+y<=1 has no single-variable upper bound on either axis even though it
// is plainly bounded — so a BoundingBox-reported axis is only ever logged,
// never used to reject.
func Dispatch(cache *Cache, backend Backend, p *polytope.Polytope, cfg BackendConfig) (Result, error) {
	if p.Unbounded || len(p.FreeVars()) > 0 {
		return Result{}, errs.New(errs.UnboundedPolytope, "")
	}
	if BoundingBox(p).Unbounded() {
		logx.WarnOnce("loose_bounding_box", ":: polytope %s has no single-variable bound on some axis; deferring to the back-end", p)
	}
	if r, ok := cache.Lookup(p); ok {
		return r, nil
	}
	r, err := backend.Compute(p, cfg)
	if err != nil {
		return Result{}, err
	}
	cache.Store(p, r)
	return r, nil
}
