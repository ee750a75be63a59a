package condition

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Lookup resolves a condition name to its count. ok is false when the name
// is unknown.
type Lookup interface {
	Count(name string) (int, bool)
}

// Expr is a parsed gating expression. The zero value and the empty
// expression are always true.
type Expr struct {
	src  string
	root node
	vars []string
}

// Parse compiles src. Grammar, loosest first:
//
//	or    := and ('||' and)*
//	and   := cmp ('&&' cmp)*
//	cmp   := unary (('=='|'!='|'<'|'<='|'>'|'>=') unary)?
//	unary := '!' unary | primary
//	primary := ident | int | 'true' | 'false' | '(' or ')'
func Parse(src string) (*Expr, error) {
	e := &Expr{src: strings.TrimSpace(src)}
	if e.src == "" {
		return e, nil
	}
	toks, err := lex(e.src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	root, err := p.parseOr()
	if err != nil {
		return nil, fmt.Errorf("condition: parse %q: %w", e.src, err)
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("condition: parse %q: unexpected %q", e.src, p.toks[p.pos].text)
	}
	e.root = root

	seen := map[string]bool{}
	collectVars(root, seen)
	for name := range seen {
		e.vars = append(e.vars, name)
	}
	sort.Strings(e.vars)
	return e, nil
}

// MustParse is Parse for static expressions; it panics on error.
func MustParse(src string) *Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Expr) String() string {
	if e == nil {
		return ""
	}
	return e.src
}

// Empty reports whether the expression has no terms.
func (e *Expr) Empty() bool {
	return e == nil || e.root == nil
}

// Variables returns the sorted condition names the expression references.
func (e *Expr) Variables() []string {
	if e == nil {
		return nil
	}
	return e.vars
}

// Eval computes the expression. ok is false when a referenced name is
// unknown to vars, in which case the value is meaningless.
func (e *Expr) Eval(vars Lookup) (value int, ok bool) {
	if e.Empty() {
		return 1, true
	}
	return e.root.eval(vars)
}

// True reports whether the expression is defined and non-zero.
func (e *Expr) True(vars Lookup) bool {
	v, ok := e.Eval(vars)
	return ok && v != 0
}

type node interface {
	eval(vars Lookup) (int, bool)
}

type identNode string
type intNode int
type notNode struct{ x node }
type andNode struct{ l, r node }
type orNode struct{ l, r node }
type cmpNode struct {
	op   string
	l, r node
}

func (n identNode) eval(vars Lookup) (int, bool) {
	if vars == nil {
		return 0, false
	}
	return vars.Count(string(n))
}

func (n intNode) eval(Lookup) (int, bool) { return int(n), true }

func (n notNode) eval(vars Lookup) (int, bool) {
	v, ok := n.x.eval(vars)
	return boolInt(v == 0), ok
}

func (n andNode) eval(vars Lookup) (int, bool) {
	l, lok := n.l.eval(vars)
	r, rok := n.r.eval(vars)
	return boolInt(l != 0 && r != 0), lok && rok
}

func (n orNode) eval(vars Lookup) (int, bool) {
	l, lok := n.l.eval(vars)
	r, rok := n.r.eval(vars)
	return boolInt(l != 0 || r != 0), lok && rok
}

func (n cmpNode) eval(vars Lookup) (int, bool) {
	l, lok := n.l.eval(vars)
	r, rok := n.r.eval(vars)
	var v bool
	switch n.op {
	case "==":
		v = l == r
	case "!=":
		v = l != r
	case "<":
		v = l < r
	case "<=":
		v = l <= r
	case ">":
		v = l > r
	case ">=":
		v = l >= r
	}
	return boolInt(v), lok && rok
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func collectVars(n node, seen map[string]bool) {
	switch t := n.(type) {
	case identNode:
		seen[string(t)] = true
	case notNode:
		collectVars(t.x, seen)
	case andNode:
		collectVars(t.l, seen)
		collectVars(t.r, seen)
	case orNode:
		collectVars(t.l, seen)
		collectVars(t.r, seen)
	case cmpNode:
		collectVars(t.l, seen)
		collectVars(t.r, seen)
	}
}

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokInt
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
}

func lex(src string) ([]token, error) {
	var toks []token
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case isDigit(c):
			j := i
			for j < len(src) && isDigit(src[j]) {
				j++
			}
			toks = append(toks, token{tokInt, src[i:j]})
			i = j
		case isIdentStart(c):
			j := i
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			toks = append(toks, token{tokIdent, src[i:j]})
			i = j
		default:
			op := ""
			for _, cand := range []string{"&&", "||", "==", "!=", "<=", ">=", "<", ">", "!"} {
				if strings.HasPrefix(src[i:], cand) {
					op = cand
					break
				}
			}
			if op == "" {
				return nil, fmt.Errorf("condition: unexpected character %q at %d in %q", c, i, src)
			}
			toks = append(toks, token{tokOp, op})
			i += len(op)
		}
	}
	return toks, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '-' || c == '.'
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peekOp(ops ...string) (string, bool) {
	if p.pos >= len(p.toks) || p.toks[p.pos].kind != tokOp {
		return "", false
	}
	for _, op := range ops {
		if p.toks[p.pos].text == op {
			return op, true
		}
	}
	return "", false
}

func (p *parser) parseOr() (node, error) {
	l, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.peekOp("||"); !ok {
			return l, nil
		}
		p.pos++
		r, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		l = orNode{l, r}
	}
}

func (p *parser) parseAnd() (node, error) {
	l, err := p.parseCmp()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.peekOp("&&"); !ok {
			return l, nil
		}
		p.pos++
		r, err := p.parseCmp()
		if err != nil {
			return nil, err
		}
		l = andNode{l, r}
	}
}

func (p *parser) parseCmp() (node, error) {
	l, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	op, ok := p.peekOp("==", "!=", "<", "<=", ">", ">=")
	if !ok {
		return l, nil
	}
	p.pos++
	r, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return cmpNode{op: op, l: l, r: r}, nil
}

func (p *parser) parseUnary() (node, error) {
	if _, ok := p.peekOp("!"); ok {
		p.pos++
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notNode{x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	if p.pos >= len(p.toks) {
		return nil, fmt.Errorf("unexpected end of expression")
	}
	t := p.toks[p.pos]
	p.pos++
	switch t.kind {
	case tokInt:
		v, err := strconv.Atoi(t.text)
		if err != nil {
			return nil, err
		}
		return intNode(v), nil
	case tokIdent:
		switch t.text {
		case "true":
			return intNode(1), nil
		case "false":
			return intNode(0), nil
		}
		return identNode(t.text), nil
	case tokLParen:
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.pos >= len(p.toks) || p.toks[p.pos].kind != tokRParen {
			return nil, fmt.Errorf("missing ')'")
		}
		p.pos++
		return inner, nil
	}
	return nil, fmt.Errorf("unexpected %q", t.text)
}
