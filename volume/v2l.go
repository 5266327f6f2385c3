package volume

import (
	"os"
	"strconv"
	"strings"

	"github.com/weisi/sharpsmt/errs"
	"github.com/weisi/sharpsmt/polytope"
)

// V2L ("volume-to-lattice") returns the bounded triple (volume, upper,
// lower) of spec.md §4.8, the one back-end whose Result actually carries a
// non-degenerate spread.
type V2L struct{}

func (V2L) Name() string { return "v2l" }

func (v V2L) Compute(p *polytope.Polytope, cfg BackendConfig) (Result, error) {
	file, err := writeHRep(p, cfg.ResultDir, "v2l")
	if err != nil {
		return Result{}, err
	}
	defer os.Remove(file)
	out, err := runTool(cfg.ToolDir, v.Name(), file)
	if err != nil {
		return Result{}, err
	}
	return parseTriple(out)
}

// parseTriple reads the last three whitespace-separated numeric tokens of
// out as (value, upper, lower), the order v2l prints its bounded estimate
// in.
func parseTriple(out string) (Result, error) {
	fields := strings.Fields(out)
	var nums []float64
	for i := len(fields) - 1; i >= 0 && len(nums) < 3; i-- {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			continue
		}
		nums = append([]float64{v}, nums...)
	}
	if len(nums) != 3 {
		return Result{}, errs.Wrap(errs.OpenFile, "v2l", strconv.ErrSyntax)
	}
	return Result{Value: clamp(nums[0]), Upper: clamp(nums[1]), Lower: clamp(nums[2])}, nil
}
