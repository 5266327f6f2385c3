package volume

import (
	"os"

	"github.com/weisi/sharpsmt/polytope"
)

// Latte computes the exact lattice-point count of a bounded LIA polytope via
// the LattE tool (spec.md §1/§6, used for the "0 ≤ x,y ≤ 10 ∧ x+y ≤ 10"
// scenario whose expected count is 66).
type Latte struct{}

func (Latte) Name() string { return "latte" }

func (l Latte) Compute(p *polytope.Polytope, cfg BackendConfig) (Result, error) {
	file, err := writeHRep(p, cfg.ResultDir, "latte")
	if err != nil {
		return Result{}, err
	}
	defer os.Remove(file)
	out, err := runTool(cfg.ToolDir, l.Name(), file)
	if err != nil {
		return Result{}, err
	}
	val, err := lastNumericToken(out)
	if err != nil {
		return Result{}, err
	}
	return Exact(val), nil
}
