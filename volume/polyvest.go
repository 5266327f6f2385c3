package volume

import (
	"fmt"
	"os"

	"github.com/weisi/sharpsmt/polytope"
)

// PolyVest is the randomized hit-and-run volume estimator (spec.md §4.7):
// with probability >= 1-delta, its returned value is within relative error
// epsilon of the true volume. coef is an implementation sampling-count
// multiplier on the walk length, not part of the statistical guarantee
// itself — it is passed straight through to the tool's CLI flag (this is
// the Open Question decided in DESIGN.md).
type PolyVest struct{}

func (PolyVest) Name() string { return "polyvest" }

func (pv PolyVest) Compute(p *polytope.Polytope, cfg BackendConfig) (Result, error) {
	file, err := writeHRep(p, cfg.ResultDir, "polyvest")
	if err != nil {
		return Result{}, err
	}
	defer os.Remove(file)
	out, err := runTool(cfg.ToolDir, pv.Name(), file,
		fmt.Sprintf("-e%g", cfg.Epsilon),
		fmt.Sprintf("-d%g", cfg.Delta),
		fmt.Sprintf("-c%g", cfg.Coef),
	)
	if err != nil {
		return Result{}, err
	}
	val, err := lastNumericToken(out)
	if err != nil {
		return Result{}, err
	}
	return Exact(val), nil
}
