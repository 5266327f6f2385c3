package smtlib

import "github.com/weisi/sharpsmt/errs"

// sexp is either an atom (symbol, number, or quoted-string/composite-symbol
// payload) or a list of sexps.
type sexp struct {
	atom string
	list []sexp
	line uint
	isList bool
}

func (e sexp) String() string {
	if !e.isList {
		return e.atom
	}
	s := "("
	for i, c := range e.list {
		if i > 0 {
			s += " "
		}
		s += c.String()
	}
	return s + ")"
}

// readAll parses every top-level sexp (typically one command each) out of
// an SMT-LIB2 script.
func readAll(src string) ([]sexp, error) {
	sc := newScanner(src)
	var out []sexp
	for {
		tok, err := sc.next()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokEOF {
			return out, nil
		}
		e, err := readOne(sc, tok)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
}

func readOne(sc *scanner, tok token) (sexp, error) {
	switch tok.kind {
	case tokAtom:
		return sexp{atom: tok.text, line: tok.line}, nil
	case tokLParen:
		var list []sexp
		for {
			next, err := sc.next()
			if err != nil {
				return sexp{}, err
			}
			if next.kind == tokRParen {
				return sexp{list: list, isList: true, line: tok.line}, nil
			}
			if next.kind == tokEOF {
				return sexp{}, errs.At(errs.UnexpectedEOF, "", next.line)
			}
			child, err := readOne(sc, next)
			if err != nil {
				return sexp{}, err
			}
			list = append(list, child)
		}
	default:
		return sexp{}, errs.At(errs.UnexpectedEOF, "", tok.line)
	}
}
