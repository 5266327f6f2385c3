package volume

import (
	"os"

	"github.com/weisi/sharpsmt/polytope"
)

// Vinci computes exact Lebesgue volume of a bounded LRA polytope via the
// Vinci tool (spec.md §1/§6).
type Vinci struct{}

func (Vinci) Name() string { return "vinci" }

func (v Vinci) Compute(p *polytope.Polytope, cfg BackendConfig) (Result, error) {
	file, err := writeHRep(p, cfg.ResultDir, "vinci")
	if err != nil {
		return Result{}, err
	}
	defer os.Remove(file)
	out, err := runTool(cfg.ToolDir, v.Name(), file)
	if err != nil {
		return Result{}, err
	}
	val, err := lastNumericToken(out)
	if err != nil {
		return Result{}, err
	}
	return Exact(val), nil
}
