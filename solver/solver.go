package solver

import (
	"context"

	"github.com/weisi/sharpsmt/bunch"
	"github.com/weisi/sharpsmt/dag"
	"github.com/weisi/sharpsmt/errs"
	"github.com/weisi/sharpsmt/logx"
	"github.com/weisi/sharpsmt/oracle"
	"github.com/weisi/sharpsmt/polytope"
	"github.com/weisi/sharpsmt/volume"
)

// Solver owns one solve over a frozen DAG: the bunch engine, the volume
// cache, and the running Stats (spec.md's top-level solve() API).
type Solver struct {
	d     *dag.DAG
	cfg   Config
	cache *volume.Cache
	stats Stats
}

func New(d *dag.DAG, cfg Config) *Solver {
	return &Solver{d: d, cfg: cfg, cache: volume.NewCache()}
}

func (s *Solver) Stats() Stats { return s.stats }

// Solve freezes the DAG, drives the bunch engine to exhaustion, and reduces
// every bunch to a polytope pipeline pass (spec.md §2's data flow). It
// returns sat=false with a zero Result on UNSAT; sat=true with the summed
// volume/lattice count otherwise. A geometry fault from an individual
// unbounded sub-polytope is recorded as a skipped, warned bunch rather than
// aborting the whole solve (spec.md §4.3 Open Question #1); any other error
// is fatal and returned immediately with no partial result, per spec.md §7.
func (s *Solver) Solve(ctx context.Context) (bool, volume.Result, error) {
	s.d.Freeze()

	bo := oracle.NewZ3Oracle(s.d)
	io := oracle.NewGiniImplicantOracle()
	eng := bunch.NewEngine(s.d, bo, io, s.cfg.WordLength)
	eng.NoShrink = !s.cfg.EnableBunch

	bunches, err := eng.Run(ctx)
	if err != nil {
		return false, volume.Result{}, err
	}
	if len(bunches) == 0 {
		return false, volume.Result{}, nil
	}
	s.stats.BunchCount = len(bunches)

	backend := volume.BackendForKind(s.cfg.Backend)
	backendCfg := s.cfg.backendConfig()
	nvars := s.d.NumVars.Len()

	total := volume.Result{}
	for _, bn := range bunches {
		r, err := s.solveBunch(bn, nvars, backend, backendCfg)
		if err != nil {
			if errs.Is(err, errs.UnboundedPolytope) {
				logx.WarnOnce("unbounded_polytope", ":: skipping bunch with unbounded polytope %s", bn.String())
				s.stats.UnboundedSkipped++
				continue
			}
			return false, volume.Result{}, err
		}
		total = total.Add(r.Scale(bn.Multiplier))
	}

	s.stats.VolCalls = s.cache.Calls
	s.stats.VolReuses = s.cache.Reuses
	return true, total, nil
}

// solveBunch runs one bunch through C6-C9: build the dense matrix, reduce
// equality rows, factorize, and dispatch each independent sub-polytope,
// multiplying their results back together (spec.md §4.6/§4.8).
func (s *Solver) solveBunch(bn bunch.Bunch, nvars int, backend volume.Backend, backendCfg volume.BackendConfig) (volume.Result, error) {
	p := polytope.BuildMatrix(bn, nvars)

	if s.cfg.EnableGE {
		reduced, ok := polytope.Reduce(p)
		if !ok {
			// Inconsistent equality system: volume 0. This sub-polytope was
			// still produced, so it counts toward stats_vol_calls/reuses the
			// same as one dispatched to a back-end (spec.md §8's caching
			// property), via the cache instead of a bare return.
			if _, hit := s.cache.Lookup(p); !hit {
				s.cache.Store(p, volume.Result{})
			}
			return volume.Result{}, nil
		}
		p = reduced
	}

	parts := []*polytope.Polytope{p}
	if s.cfg.EnableFact {
		factored := polytope.Factor(p)
		if len(factored) > 1 {
			s.stats.FactBunches++
		}
		parts = factored
	}

	result := volume.One()
	for _, part := range parts {
		if len(part.A) == 0 && s.d.Logic == dag.QF_LIA && s.cfg.WordLength > 0 {
			// A component with no rows at all has no atom bounding it in
			// either direction, but under LIA the oracle already confined
			// every numeric variable to the word-length range (spec.md
			// §4.2/§4.3): count that finite box directly instead of
			// raising UnboundedPolytope for a dimension the back-end never
			// even sees a constraint on. Still goes through the cache like
			// any other dispatched sub-polytope, so it counts toward
			// stats_vol_calls/reuses (spec.md §8's caching property).
			boxResult, hit := s.cache.Lookup(part)
			if !hit {
				boxResult = volume.Exact(latticeBoxSize(s.cfg.WordLength, len(part.Vars)))
				s.cache.Store(part, boxResult)
			}
			result = result.Mul(boxResult)
			s.stats.recordDispatch(len(part.Vars))
			continue
		}
		r, err := volume.Dispatch(s.cache, backend, part, backendCfg)
		if err != nil {
			return volume.Result{}, err
		}
		s.stats.recordDispatch(len(part.Vars))
		result = result.Mul(r)
	}
	return result, nil
}

// latticeBoxSize is the number of integer points in dims independent
// word-length-bounded axes: 2^wordLength per axis (spec.md §4.2's signed
// two's-complement range has exactly 2^wordLength integers).
func latticeBoxSize(wordLength, dims int) float64 {
	size := 1.0
	per := float64(uint64(1) << uint(wordLength))
	for i := 0; i < dims; i++ {
		size *= per
	}
	return size
}
