// Package solver orchestrates dag+builder+oracle+bunch+polytope+volume into
// spec.md's top-level solve() API: given a frozen DAG of assertions, decide
// SAT/UNSAT and, if SAT, the total volume or lattice count.
package solver

import "github.com/weisi/sharpsmt/volume"

// Config is the core API's parameterization of spec.md §6's CLI surface —
// tool_dir/result_dir/backend/feature-toggles/wordlength — kept here as a
// plain struct so cmd/volce is a thin cobra/pflag adapter over it.
type Config struct {
	ToolDir   string
	ResultDir string
	Backend   volume.BackendKind

	// EnableBunch toggles the flip-list generalization step (spec.md §6);
	// disabling it still finds every bunch, just one oracle assignment at
	// a time with no free literals.
	EnableBunch bool
	// EnableFact toggles factorization (spec.md §4.6) of each bunch's
	// polytope into independent sub-polytopes before dispatch.
	EnableFact bool
	// EnableGE toggles Gaussian elimination (spec.md §4.5) of equality
	// rows before dispatch.
	EnableGE bool
	// WordLength bounds QF_LIA numeric variables to a signed two's
	// complement range of this bit width; 0 means unbounded (spec.md
	// §4.2).
	WordLength int

	// Epsilon, Delta, Coef parameterize the randomized PolyVest backend
	// (spec.md §4.7).
	Epsilon float64
	Delta   float64
	Coef    float64
}

func (c Config) backendConfig() volume.BackendConfig {
	return volume.BackendConfig{
		ToolDir:   c.ToolDir,
		ResultDir: c.ResultDir,
		Epsilon:   c.Epsilon,
		Delta:     c.Delta,
		Coef:      c.Coef,
	}
}
