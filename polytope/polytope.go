// Package polytope implements spec.md C6-C8: turning one bunch's resolved
// atoms into a dense constraint system, eliminating its equality rows, and
// factorizing what remains into independent sub-polytopes.
package polytope

import (
	"fmt"
	"sort"
	"strings"

	"github.com/weisi/sharpsmt/dag"
)

// Polytope is one dense constraint system A·x ◇ b over the variables in
// Vars (spec.md §3's "Polytope-under-preparation"). Vars holds the original
// dag.NumVars indices each column corresponds to, so a factored or
// Gauss-reduced sub-polytope can still be reported back in terms of the
// user's variables.
type Polytope struct {
	A    [][]float64
	B    []float64
	Rel  []dag.Relation
	Vars []int

	// Unbounded marks a polytope with a free dimension no row constrains in
	// either direction (spec.md §4.3 Open Question #1): its volume is
	// undefined for an exact back-end.
	Unbounded bool
}

func (p *Polytope) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "polytope[vars=%v]{", p.Vars)
	for i := range p.A {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s", rowString(p.A[i], p.Vars, p.Rel[i], p.B[i]))
	}
	b.WriteString("}")
	if p.Unbounded {
		b.WriteString("[unbounded]")
	}
	return b.String()
}

func rowString(row []float64, vars []int, rel dag.Relation, b float64) string {
	var s strings.Builder
	first := true
	for i, c := range row {
		if c == 0 {
			continue
		}
		if !first {
			if c > 0 {
				s.WriteString(" + ")
			} else {
				s.WriteString(" - ")
				c = -c
			}
		} else if c < 0 {
			s.WriteString("-")
			c = -c
		}
		first = false
		fmt.Fprintf(&s, "%g*x%d", c, vars[i])
	}
	if first {
		s.WriteString("0")
	}
	fmt.Fprintf(&s, " %s %g", rel, b)
	return s.String()
}

// FreeVars returns the positions (indices into p.Vars, not the original dag
// numbering) that no row constrains at all. Such a variable ranges over all
// of ℝ (or ℤ) regardless of every other row, so its presence makes p
// unbounded no matter how tightly the rest of the system is pinned down —
// unlike an axis missing only a single-variable bound, which a multi-
// variable row (e.g. x+y<=1 together with x>=0, y>=0) can still close off.
func (p *Polytope) FreeVars() []int {
	touched := make([]bool, len(p.Vars))
	for _, row := range p.A {
		for _, j := range incidentVars(row) {
			touched[j] = true
		}
	}
	var free []int
	for j, t := range touched {
		if !t {
			free = append(free, j)
		}
	}
	return free
}

// Key returns a canonical string for vol_map lookups (spec.md §4.7): rows
// sorted, columns already ordered by Vars since BuildMatrix builds Vars in
// ascending order and factorization preserves that order.
func (p *Polytope) Key() string {
	rows := make([]string, len(p.A))
	for i := range p.A {
		rows[i] = rowString(p.A[i], p.Vars, p.Rel[i], p.B[i])
	}
	sort.Strings(rows)
	return fmt.Sprintf("%v|%s", p.Vars, strings.Join(rows, ";"))
}
