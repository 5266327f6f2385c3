package oracle

import (
	"context"
	"testing"

	"github.com/weisi/sharpsmt/dag"
)

// TestZ3OracleBlockWithEmptyLitsTerminates drives the exact scenario
// spec.md §8 calls out: an empty assert list. With no Boolean vars and no
// atoms declared, fullLits is empty before ImplicantOracle even runs, so
// Engine.Run would call Block(nil) directly. Block must leave the solver
// permanently unsatisfiable afterward, or Engine.Run would see the same Sat
// model on every iteration and never terminate.
func TestZ3OracleBlockWithEmptyLitsTerminates(t *testing.T) {
	d := dag.New()
	d.Logic = dag.QF_LIA
	d.Freeze()

	o := NewZ3Oracle(d)
	if err := o.Init(0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status, err := o.Check(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != Sat {
		t.Fatalf("expected an empty assert list to be trivially Sat, got %v", status)
	}

	if err := o.Block(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status, err = o.Check(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != Unsat {
		t.Fatalf("expected Block(nil) to force Unsat on the next Check, got %v", status)
	}
}
