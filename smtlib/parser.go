package smtlib

import (
	"strconv"
	"strings"

	"github.com/weisi/sharpsmt/builder"
	"github.com/weisi/sharpsmt/dag"
	"github.com/weisi/sharpsmt/errs"
	"github.com/weisi/sharpsmt/logx"
)

// commands spec.md §6 names as supported.
var supportedCommands = map[string]bool{
	"set-logic":     true,
	"declare-const": true,
	"declare-fun":   true,
	"assert":        true,
	"check-sat":     true,
	"push":          true,
	"pop":           true,
	"exit":          true,
}

// Parser drives a builder.Builder from an SMT-LIB2 script. It is the sole
// owner of the symbol table mapping declared names to dag.Node handles;
// builder.Builder/dag.DAG never see surface names again once parsed.
type Parser struct {
	b       *builder.Builder
	symbols map[string]dag.Node
	// CheckSatRequested is set once a (check-sat) command is read, signaling
	// the caller that the script has finished building and solving may
	// begin.
	CheckSatRequested bool
}

func NewParser(b *builder.Builder) *Parser {
	return &Parser{b: b, symbols: make(map[string]dag.Node)}
}

// Run parses and interprets every command in src in order, stopping at the
// first fault or at (exit).
func (p *Parser) Run(src string) error {
	cmds, err := readAll(src)
	if err != nil {
		return err
	}
	for _, c := range cmds {
		done, err := p.command(c)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
	return nil
}

func (p *Parser) command(e sexp) (done bool, err error) {
	if !e.isList || len(e.list) == 0 {
		return false, errs.At(errs.SymbolMissing, "", e.line)
	}
	head := e.list[0]
	if head.isList {
		return false, errs.At(errs.UnknownSymbol, "", head.line)
	}
	name := head.atom
	if !supportedCommands[name] {
		logx.WarnOnce(name, "unsupported SMT-LIB2 command %q at line %d, skipping", name, e.line)
		return false, nil
	}
	args := e.list[1:]
	switch name {
	case "set-logic":
		return false, p.cmdSetLogic(args, e.line)
	case "declare-const":
		return false, p.cmdDeclareConst(args, e.line)
	case "declare-fun":
		return false, p.cmdDeclareFun(args, e.line)
	case "assert":
		return false, p.cmdAssert(args, e.line)
	case "check-sat":
		p.CheckSatRequested = true
		return false, nil
	case "push", "pop":
		logx.WarnOnce(name, "%s is unsupported, treated as a no-op", name)
		return false, nil
	case "exit":
		return true, nil
	}
	return false, nil
}

func (p *Parser) cmdSetLogic(args []sexp, line uint) error {
	if len(args) != 1 {
		return errs.At(errs.ParamMissing, "set-logic", line)
	}
	switch args[0].atom {
	case "QF_LIA":
		return errs.WithLine(p.b.SetLogic(dag.QF_LIA), line)
	case "QF_LRA":
		return errs.WithLine(p.b.SetLogic(dag.QF_LRA), line)
	default:
		return errs.At(errs.LogicMismatch, args[0].atom, line)
	}
}

func (p *Parser) sortOf(e sexp, line uint) (bool, error) { // true => Bool sort
	switch e.atom {
	case "Bool":
		return true, nil
	case "Int", "Real":
		return false, nil
	default:
		return false, errs.At(errs.UnknownSymbol, e.atom, line)
	}
}

func (p *Parser) cmdDeclareConst(args []sexp, line uint) error {
	if len(args) != 2 {
		return errs.At(errs.ParamMissing, "declare-const", line)
	}
	return p.declare(args[0].atom, args[1], line)
}

func (p *Parser) cmdDeclareFun(args []sexp, line uint) error {
	if len(args) != 3 {
		return errs.At(errs.ParamMissing, "declare-fun", line)
	}
	if len(args[1].list) != 0 {
		return errs.At(errs.ParamNotSame, "declare-fun", line)
	}
	return p.declare(args[0].atom, args[2], line)
}

func (p *Parser) declare(name string, sortExpr sexp, line uint) error {
	if _, exists := p.symbols[name]; exists {
		return errs.At(errs.MultipleDecl, name, line)
	}
	isBool, err := p.sortOf(sortExpr, line)
	if err != nil {
		return err
	}
	var n dag.Node
	if isBool {
		n, err = p.b.MkBoolDecl(name)
	} else {
		n, err = p.b.MkNumDecl(name)
	}
	if err != nil {
		return errs.WithLine(err, line)
	}
	p.symbols[name] = n
	return nil
}

func (p *Parser) cmdAssert(args []sexp, line uint) error {
	if len(args) != 1 {
		return errs.At(errs.ParamMissing, "assert", line)
	}
	n, err := p.term(args[0])
	if err != nil {
		return err
	}
	return errs.WithLine(p.b.Assert(n), line)
}

// term interprets a term sexp into a dag.Node, routing every connective and
// arithmetic operator through builder.Builder so spec.md §4.1's rewrites
// apply uniformly regardless of surface syntax.
func (p *Parser) term(e sexp) (dag.Node, error) {
	if !e.isList {
		return p.atomTerm(e)
	}
	if len(e.list) == 0 {
		return dag.Node{}, errs.At(errs.SymbolMissing, "", e.line)
	}
	head := e.list[0]
	if head.isList {
		return dag.Node{}, errs.At(errs.UnknownSymbol, "", head.line)
	}
	args := e.list[1:]
	nodes, err := p.terms(args)
	switch head.atom {
	case "not":
		if err != nil || len(nodes) != 1 {
			return dag.Node{}, firstErr(err, errs.At(errs.ParamMissing, "not", e.line))
		}
		n, err := p.b.MkNot(nodes[0])
		return wrapLine(n, err, e.line)
	case "and":
		if err != nil {
			return dag.Node{}, err
		}
		n, err := p.b.MkAnd(nodes)
		return wrapLine(n, err, e.line)
	case "or":
		if err != nil {
			return dag.Node{}, err
		}
		n, err := p.b.MkOr(nodes)
		return wrapLine(n, err, e.line)
	case "=>":
		if err != nil || len(nodes) != 2 {
			return dag.Node{}, firstErr(err, errs.At(errs.ParamMissing, "=>", e.line))
		}
		n, err := p.b.MkImply(nodes[0], nodes[1])
		return wrapLine(n, err, e.line)
	case "xor":
		if err != nil || len(nodes) != 2 {
			return dag.Node{}, firstErr(err, errs.At(errs.ParamMissing, "xor", e.line))
		}
		n, err := p.b.MkXor(nodes[0], nodes[1])
		return wrapLine(n, err, e.line)
	case "=":
		if err != nil || len(nodes) != 2 {
			return dag.Node{}, firstErr(err, errs.At(errs.ParamMissing, "=", e.line))
		}
		n, err := p.b.MkEq(nodes[0], nodes[1])
		return wrapLine(n, err, e.line)
	case "distinct":
		if err != nil {
			return dag.Node{}, err
		}
		n, err := p.b.MkDistinct(nodes)
		return wrapLine(n, err, e.line)
	case "ite":
		if err != nil || len(nodes) != 3 {
			return dag.Node{}, firstErr(err, errs.At(errs.ParamMissing, "ite", e.line))
		}
		n, err := p.b.MkIte(nodes[0], nodes[1], nodes[2])
		return wrapLine(n, err, e.line)
	case "+":
		if err != nil {
			return dag.Node{}, err
		}
		n, err := p.b.MkAdd(nodes)
		return wrapLine(n, err, e.line)
	case "*":
		if err != nil {
			return dag.Node{}, err
		}
		n, err := p.b.MkMul(nodes)
		return wrapLine(n, err, e.line)
	case "-":
		if err != nil {
			return dag.Node{}, err
		}
		switch len(nodes) {
		case 1:
			n, err := p.b.MkNeg(nodes[0])
			return wrapLine(n, err, e.line)
		case 2:
			neg, err := p.b.MkNeg(nodes[1])
			if err != nil {
				return dag.Node{}, errs.WithLine(err, e.line)
			}
			n, err := p.b.MkAdd([]dag.Node{nodes[0], neg})
			return wrapLine(n, err, e.line)
		default:
			return dag.Node{}, errs.At(errs.ParamMissing, "-", e.line)
		}
	case "/":
		if err != nil || len(nodes) != 2 {
			return dag.Node{}, firstErr(err, errs.At(errs.ParamMissing, "/", e.line))
		}
		n, err := p.b.MkDiv(nodes[0], nodes[1])
		return wrapLine(n, err, e.line)
	case "<=":
		if err != nil || len(nodes) != 2 {
			return dag.Node{}, firstErr(err, errs.At(errs.ParamMissing, "<=", e.line))
		}
		n, err := p.b.MkLe(nodes[0], nodes[1])
		return wrapLine(n, err, e.line)
	case "<":
		if err != nil || len(nodes) != 2 {
			return dag.Node{}, firstErr(err, errs.At(errs.ParamMissing, "<", e.line))
		}
		n, err := p.b.MkLt(nodes[0], nodes[1])
		return wrapLine(n, err, e.line)
	case ">=":
		if err != nil || len(nodes) != 2 {
			return dag.Node{}, firstErr(err, errs.At(errs.ParamMissing, ">=", e.line))
		}
		n, err := p.b.MkGe(nodes[0], nodes[1])
		return wrapLine(n, err, e.line)
	case ">":
		if err != nil || len(nodes) != 2 {
			return dag.Node{}, firstErr(err, errs.At(errs.ParamMissing, ">", e.line))
		}
		n, err := p.b.MkGt(nodes[0], nodes[1])
		return wrapLine(n, err, e.line)
	default:
		return dag.Node{}, errs.At(errs.UnknownSymbol, head.atom, e.line)
	}
}

// wrapLine attaches line to err via errs.WithLine, letting every builder
// call in term() report the position of the sub-expression that actually
// triggered the fault (e.g. the innermost "(* x y)" in a larger assert,
// not just the top-level assert's own line).
func wrapLine(n dag.Node, err error, line uint) (dag.Node, error) {
	return n, errs.WithLine(err, line)
}

func firstErr(err, fallback error) error {
	if err != nil {
		return err
	}
	return fallback
}

func (p *Parser) terms(es []sexp) ([]dag.Node, error) {
	out := make([]dag.Node, 0, len(es))
	for _, e := range es {
		n, err := p.term(e)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (p *Parser) atomTerm(e sexp) (dag.Node, error) {
	switch e.atom {
	case "true":
		return dag.True, nil
	case "false":
		return dag.False, nil
	}
	if n, ok := p.symbols[e.atom]; ok {
		return n, nil
	}
	if v, ok := parseNumeral(e.atom); ok {
		return p.b.MkConst(v), nil
	}
	return dag.Node{}, errs.At(errs.UnknownSymbol, e.atom, e.line)
}

// parseNumeral accepts SMT-LIB2 integer and decimal literals.
func parseNumeral(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	if !strings.ContainsAny(s, "0123456789") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
