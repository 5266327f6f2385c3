package volume

import (
	"os"

	"github.com/weisi/sharpsmt/polytope"
)

// ALC is another exact lattice-point-count back-end (spec.md §1/§6),
// interchangeable with LattE/Barvinok for QF_LIA polytopes.
type ALC struct{}

func (ALC) Name() string { return "alc" }

func (a ALC) Compute(p *polytope.Polytope, cfg BackendConfig) (Result, error) {
	file, err := writeHRep(p, cfg.ResultDir, "alc")
	if err != nil {
		return Result{}, err
	}
	defer os.Remove(file)
	out, err := runTool(cfg.ToolDir, a.Name(), file)
	if err != nil {
		return Result{}, err
	}
	val, err := lastNumericToken(out)
	if err != nil {
		return Result{}, err
	}
	return Exact(val), nil
}
