// Package errs defines the domain-typed fault kinds raised by the solver
// pipeline, from parsing through volume dispatch.
package errs

import "fmt"

// Kind groups a Fault by the pipeline stage that raised it.
type Kind int

const (
	// Parse faults: malformed SMT-LIB2 input.
	UnexpectedEOF Kind = iota
	SymbolMissing
	UnknownSymbol

	// Semantic faults: ill-typed or re-declared symbols.
	ParamMissing
	ParamNotBool
	ParamNotNum
	ParamNotSame
	LogicMismatch
	MultipleDecl
	MultipleDef

	// Theory faults: LIA/LRA violations.
	Nonlinear
	ZeroDivisor

	// Freeze fault: mutation attempted after the oracle was initialized.
	SolvingInitialized

	// Geometry faults: back-end misapplied.
	UnboundedPolytope
	LogicLatte
	LogicVinci
	LogicPolyvest

	// IO fault.
	OpenFile
)

var names = map[Kind]string{
	UnexpectedEOF:       "unexpected_eof",
	SymbolMissing:       "symbol_missing",
	UnknownSymbol:       "unknown_symbol",
	ParamMissing:        "param_missing",
	ParamNotBool:        "param_not_bool",
	ParamNotNum:         "param_not_num",
	ParamNotSame:        "param_not_same",
	LogicMismatch:       "logic_mismatch",
	MultipleDecl:        "multiple_decl",
	MultipleDef:         "multiple_def",
	Nonlinear:           "nonlinear",
	ZeroDivisor:         "zero_divisor",
	SolvingInitialized:  "solving_initialized",
	UnboundedPolytope:   "unbounded_polytope",
	LogicLatte:          "logic_latte",
	LogicVinci:          "logic_vinci",
	LogicPolyvest:       "logic_polyvest",
	OpenFile:            "open_file",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "unknown"
}

// Fault is the single error type carried across package boundaries. Line is
// the 1-based source line from the parser, or 0 when the fault has no
// textual origin (e.g. a geometry fault raised mid-dispatch).
type Fault struct {
	Kind    Kind
	Symbol  string
	Line    uint
	Wrapped error
}

func (f *Fault) Error() string {
	if f.Line > 0 && f.Symbol != "" {
		return fmt.Sprintf("%s: %q at line %d", f.Kind, f.Symbol, f.Line)
	}
	if f.Line > 0 {
		return fmt.Sprintf("%s at line %d", f.Kind, f.Line)
	}
	if f.Symbol != "" {
		return fmt.Sprintf("%s: %q", f.Kind, f.Symbol)
	}
	return f.Kind.String()
}

func (f *Fault) Unwrap() error { return f.Wrapped }

// New builds a Fault with no source position, for faults raised outside the
// parser (theory, freeze, geometry, io).
func New(k Kind, symbol string) *Fault {
	return &Fault{Kind: k, Symbol: symbol}
}

// At builds a Fault carrying the parser's current line number.
func At(k Kind, symbol string, line uint) *Fault {
	return &Fault{Kind: k, Symbol: symbol, Line: line}
}

// Wrap builds an io Fault around an underlying error.
func Wrap(k Kind, symbol string, err error) *Fault {
	return &Fault{Kind: k, Symbol: symbol, Wrapped: err}
}

// Is reports whether err is a Fault of kind k.
func Is(err error, k Kind) bool {
	f, ok := err.(*Fault)
	return ok && f.Kind == k
}

// WithLine attaches line to err if err is a Fault raised with no source
// position of its own (Line==0), the common case for theory/semantic
// faults built with New inside builder.Builder, which has no notion of
// source position at all. The parser calls this at every builder call site
// so every fault a script can trigger carries the line it came from
// (spec.md §4.1's "each carries a source line number from the parser"),
// without builder.Builder needing to thread a line argument through every
// constructor the way the original's per-call ln parameter did.
func WithLine(err error, line uint) error {
	f, ok := err.(*Fault)
	if !ok || f.Line != 0 {
		return err
	}
	f.Line = line
	return f
}
