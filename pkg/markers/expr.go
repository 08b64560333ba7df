package markers

import (
	"fmt"
	"strings"
	"unicode"
)

// Expr is a compiled marker selection expression. Expressions combine marker
// names with `and`, `or`, `not` and parentheses, mirroring the selection
// syntax suite runners accept on the command line, e.g.
//
//	sanity and not load
//	(grpc_api or http_gate) and smoke
type Expr interface {
	// Match reports whether a test case carrying the given marker set is
	// selected by this expression.
	Match(set map[string]bool) bool

	String() string
}

// ParseExpr parses a marker selection expression. Marker names are not
// checked against any registry; use Registry.Compile for that.
func ParseExpr(src string) (Expr, error) {
	p := &parser{toks: tokenize(src)}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		return nil, fmt.Errorf("unexpected token %q in marker expression", p.peek())
	}
	return e, nil
}

// Compile parses a selection expression and verifies that every marker name
// it references is registered. Referencing an unknown marker is an error, as
// it would silently deselect everything.
func (r *Registry) Compile(src string) (Expr, error) {
	e, err := ParseExpr(src)
	if err != nil {
		return nil, err
	}
	for _, name := range collectNames(e, nil) {
		if !r.Has(name) {
			return nil, fmt.Errorf("expression references unregistered marker %q", name)
		}
	}
	return e, nil
}

func collectNames(e Expr, acc []string) []string {
	switch v := e.(type) {
	case ident:
		acc = append(acc, string(v))
	case notExpr:
		acc = collectNames(v.x, acc)
	case andExpr:
		acc = collectNames(v.l, acc)
		acc = collectNames(v.r, acc)
	case orExpr:
		acc = collectNames(v.l, acc)
		acc = collectNames(v.r, acc)
	}
	return acc
}

type ident string

func (i ident) Match(set map[string]bool) bool { return set[string(i)] }
func (i ident) String() string                 { return string(i) }

type notExpr struct{ x Expr }

func (n notExpr) Match(set map[string]bool) bool { return !n.x.Match(set) }
func (n notExpr) String() string                 { return "not " + parens(n.x) }

type andExpr struct{ l, r Expr }

func (a andExpr) Match(set map[string]bool) bool { return a.l.Match(set) && a.r.Match(set) }
func (a andExpr) String() string                 { return parens(a.l) + " and " + parens(a.r) }

type orExpr struct{ l, r Expr }

func (o orExpr) Match(set map[string]bool) bool { return o.l.Match(set) || o.r.Match(set) }
func (o orExpr) String() string                 { return parens(o.l) + " or " + parens(o.r) }

func parens(e Expr) string {
	switch e.(type) {
	case ident, notExpr:
		return e.String()
	default:
		return "(" + e.String() + ")"
	}
}

type parser struct {
	toks []string
	pos  int
}

func (p *parser) eof() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() string {
	if p.eof() {
		return ""
	}
	return p.toks[p.pos]
}

func (p *parser) next() string {
	t := p.peek()
	p.pos++
	return t
}

// grammar: or := and ("or" and)* ; and := unary ("and" unary)* ;
// unary := "not" unary | "(" or ")" | ident
func (p *parser) parseOr() (Expr, error) {
	l, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek() == "or" {
		p.next()
		r, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		l = orExpr{l, r}
	}
	return l, nil
}

func (p *parser) parseAnd() (Expr, error) {
	l, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek() == "and" {
		p.next()
		r, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		l = andExpr{l, r}
	}
	return l, nil
}

func (p *parser) parseUnary() (Expr, error) {
	switch tok := p.peek(); tok {
	case "":
		return nil, fmt.Errorf("unexpected end of marker expression")
	case "not":
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notExpr{x}, nil
	case "(":
		p.next()
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.next() != ")" {
			return nil, fmt.Errorf("missing closing parenthesis in marker expression")
		}
		return e, nil
	case ")", "and", "or":
		return nil, fmt.Errorf("unexpected token %q in marker expression", tok)
	default:
		p.next()
		return ident(tok), nil
	}
}

func tokenize(src string) []string {
	var toks []string
	var sb strings.Builder

	flush := func() {
		if sb.Len() > 0 {
			toks = append(toks, sb.String())
			sb.Reset()
		}
	}

	for _, r := range src {
		switch {
		case r == '(' || r == ')':
			flush()
			toks = append(toks, string(r))
		case unicode.IsSpace(r):
			flush()
		default:
			sb.WriteRune(r)
		}
	}
	flush()
	return toks
}
