package volume

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/weisi/sharpsmt/errs"
	"github.com/weisi/sharpsmt/polytope"
)

// BackendConfig carries the directories and randomized-backend parameters
// spec.md §6/§4.7 exposes through the CLI: tool_dir, result_dir, and
// PolyVest's (epsilon, delta, coef) sampling triple.
type BackendConfig struct {
	ToolDir   string
	ResultDir string
	Epsilon   float64
	Delta     float64
	Coef      float64
}

// Backend is one external volume/lattice-count tool (spec.md §6): it is
// handed a prepared polytope and the directories/parameters the CLI was
// configured with, and returns the parsed numeric result.
type Backend interface {
	// Name is the backend's tool_dir executable name, also used as the
	// statistics/error label.
	Name() string
	Compute(p *polytope.Polytope, cfg BackendConfig) (Result, error)
}

// writeHRep writes p's H-representation (rows of A | b | ◇, spec.md §6) to
// a fresh file under resultDir and returns its path. Every backend shares
// this format; they differ only in the executable invoked and how its
// stdout is parsed. Every caller is responsible for removing the returned
// path once done with it (spec.md §5: "cleans up on success or on fatal
// error") — a bare `defer os.Remove(file)` right after the call.
func writeHRep(p *polytope.Polytope, resultDir, prefix string) (string, error) {
	f, err := os.CreateTemp(resultDir, prefix+"-*.hrep")
	if err != nil {
		return "", errs.Wrap(errs.OpenFile, prefix, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%d %d\n", len(p.A), len(p.Vars))
	for i, row := range p.A {
		for _, c := range row {
			fmt.Fprintf(w, "%g ", c)
		}
		fmt.Fprintf(w, "%s %g\n", p.Rel[i], p.B[i])
	}
	if err := w.Flush(); err != nil {
		return "", errs.Wrap(errs.OpenFile, prefix, err)
	}
	return f.Name(), nil
}

// runTool invokes toolDir/name on the given file and returns its stdout.
func runTool(toolDir, name string, args ...string) (string, error) {
	path := toolDir + string(os.PathSeparator) + name
	cmd := exec.Command(path, args...)
	out, err := cmd.Output()
	if err != nil {
		return "", errs.Wrap(errs.OpenFile, name, err)
	}
	return string(out), nil
}

// lastNumericToken returns the final whitespace-separated float64 token in
// out, the convention spec.md §6 documents for every back-end's stdout
// ("the solver parses the final numeric token from each tool's stdout").
func lastNumericToken(out string) (float64, error) {
	fields := strings.Fields(out)
	for i := len(fields) - 1; i >= 0; i-- {
		if v, err := strconv.ParseFloat(fields[i], 64); err == nil {
			return v, nil
		}
	}
	return 0, fmt.Errorf("no numeric token found in backend output %q", out)
}
