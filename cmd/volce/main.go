// Command volce is the external, non-core CLI wrapping the solver package
// (spec.md §6): it reads an SMT-LIB2 script, drives it through builder via
// smtlib.Parser, and on (check-sat) runs solver.Solve, printing sat/unsat
// and the computed volume or lattice count.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/weisi/sharpsmt/builder"
	"github.com/weisi/sharpsmt/dag"
	"github.com/weisi/sharpsmt/errs"
	"github.com/weisi/sharpsmt/logx"
	"github.com/weisi/sharpsmt/smtlib"
	"github.com/weisi/sharpsmt/solver"
	"github.com/weisi/sharpsmt/volume"
)

var (
	toolDir    string
	resultDir  string
	backend    string
	enableBunch bool
	enableFact  bool
	enableGE    bool
	wordLength  int
	epsilon     float64
	delta       float64
	coef        float64
)

var backendKinds = map[string]volume.BackendKind{
	"vinci":    volume.BackendVinci,
	"latte":    volume.BackendLatte,
	"barvinok": volume.BackendBarvinok,
	"alc":      volume.BackendALC,
	"polyvest": volume.BackendPolyVest,
	"v2l":      volume.BackendV2L,
}

func main() {
	root := &cobra.Command{
		Use:   "volce [script.smt2]",
		Short: "compute the volume of the satisfying region of an SMT-LIB2 script",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}

	root.Flags().StringVar(&toolDir, "tool_dir", ".", "directory holding the external volume-computation executables")
	root.Flags().StringVar(&resultDir, "result_dir", os.TempDir(), "directory for temporary H-representation files")
	root.Flags().StringVar(&backend, "backend", "vinci", "volume back-end: vinci, latte, barvinok, alc, polyvest, v2l")
	root.Flags().BoolVar(&enableBunch, "enable_bunch", true, "generalize each oracle assignment into a bunch via implicant shrinking")
	root.Flags().BoolVar(&enableFact, "enable_fact", true, "factor each bunch's polytope into independent sub-polytopes")
	root.Flags().BoolVar(&enableGE, "enable_ge", true, "eliminate equality rows by Gaussian elimination before dispatch")
	root.Flags().IntVar(&wordLength, "wordlength", 0, "bit width bounding QF_LIA variables; 0 means unbounded")
	root.Flags().Float64Var(&epsilon, "epsilon", 0.1, "polyvest relative error bound")
	root.Flags().Float64Var(&delta, "delta", 0.1, "polyvest failure probability bound")
	root.Flags().Float64Var(&coef, "coef", 1, "polyvest sample-count coefficient")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) (runErr error) {
	defer func() {
		if r := recover(); r != nil {
			logx.Fatalf("panic: %v\n%s", r, string(debug.Stack()))
			runErr = fmt.Errorf("internal error: %v", r)
		}
	}()

	kind, ok := backendKinds[backend]
	if !ok {
		return fmt.Errorf("unknown backend %q", backend)
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	d := dag.New()
	b := builder.New(d)
	p := smtlib.NewParser(b)
	if err := p.Run(string(src)); err != nil {
		return reportFault(err)
	}
	if !p.CheckSatRequested {
		logx.Warnf("script never issued (check-sat); nothing to solve")
		return nil
	}

	cfg := solver.Config{
		ToolDir:     toolDir,
		ResultDir:   resultDir,
		Backend:     kind,
		EnableBunch: enableBunch,
		EnableFact:  enableFact,
		EnableGE:    enableGE,
		WordLength:  wordLength,
		Epsilon:     epsilon,
		Delta:       delta,
		Coef:        coef,
	}

	s := solver.New(d, cfg)
	sat, result, err := s.Solve(context.Background())
	if err != nil {
		return reportFault(err)
	}
	if !sat {
		fmt.Println("unsat")
		return nil
	}

	fmt.Println("sat")
	fmt.Printf("volume: %g\n", result.Value)

	st := s.Stats()
	logx.WithField("bunches", st.BunchCount).
		WithField("vol_calls", st.VolCalls).
		WithField("vol_reuses", st.VolReuses).
		WithField("fact_bunches", st.FactBunches).
		WithField("unbounded_skipped", st.UnboundedSkipped).
		Info("solve complete")
	return nil
}

// reportFault logs a domain Fault with its kind/symbol/line and returns it
// unchanged so cobra's default error printing and exit code still fire.
func reportFault(err error) error {
	if f, ok := err.(*errs.Fault); ok {
		logx.Fatalf("%s", f.Error())
		return f
	}
	logx.Fatalf("%v", err)
	return err
}
