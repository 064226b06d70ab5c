// Package parser turns a token stream into the resolved expression tree
// consumed by lowering. The grammar is one statement per line:
//
//	statement := ident '=' expr            (variable definition)
//	           | ident '(' params ')' '=' expr  (function definition)
//	           | expr cmp expr             (equation)
//
// Expressions follow the usual precedence ladder: additive < multiplicative
// < unary minus < power (right-associative) < postfix coordinate access.
package parser

import (
	"fmt"
	"strconv"

	"desmir/internal/ast"
	"desmir/internal/source"
	"desmir/internal/token"
)

// Parser holds state for parsing one statement.
type Parser struct {
	toks []token.Token
	pos  int
	fs   *source.FileSet
}

// New creates a parser over an already-tokenized statement. The token slice
// must end with an EOF token.
func New(fs *source.FileSet, toks []token.Token) *Parser {
	return &Parser{toks: toks, fs: fs}
}

// ParseStatement parses a whole line and requires it to be fully consumed.
func (p *Parser) ParseStatement() (*ast.Statement, error) {
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind != token.EOF {
		return nil, p.errorAt(tok, "unexpected %q after statement", tok.Text)
	}
	return stmt, nil
}

func (p *Parser) parseStatement() (*ast.Statement, error) {
	// `ident = ...` and `ident(...) = ...` are definitions; anything else is
	// an equation.
	if p.peek().IsIdent() {
		if stmt, ok, err := p.tryParseDefinition(); ok || err != nil {
			return stmt, err
		}
	}

	lhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	cmpTok := p.peek()
	if !cmpTok.IsComparator() {
		return nil, p.errorAt(cmpTok, "expected comparator after expression, got %q", cmpTok.Text)
	}
	p.next()
	rhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Statement{
		Kind:  ast.StmtEquation,
		Span:  lhs.Span.Cover(rhs.Span),
		Body:  lhs,
		CmpOp: comparisonOf(cmpTok.Kind),
		RHS:   rhs,
	}, nil
}

// tryParseDefinition recognizes the two definition forms. It reports ok=false
// without consuming input when the line is not a definition.
func (p *Parser) tryParseDefinition() (*ast.Statement, bool, error) {
	start := p.pos
	name := p.next()

	// ident '=' expr
	if p.peek().Kind == token.Eq {
		p.next()
		body, err := p.parseExpr()
		if err != nil {
			return nil, true, err
		}
		if tok := p.peek(); tok.Kind != token.EOF {
			// `a = b < c` is an equation whose LHS happens to be an ident;
			// backtrack and let the equation path re-parse it.
			p.pos = start
			return nil, false, nil
		}
		return &ast.Statement{
			Kind: ast.StmtVarDef,
			Span: name.Span.Cover(body.Span),
			Name: name.Text,
			Body: body,
		}, true, nil
	}

	// ident '(' ident, ... ')' '=' expr
	if p.peek().Kind == token.LParen {
		params, ok := p.tryParseParamList(start)
		if ok && p.peek().Kind == token.Eq {
			p.next()
			body, err := p.parseExpr()
			if err != nil {
				return nil, true, err
			}
			return &ast.Statement{
				Kind:   ast.StmtFnDef,
				Span:   name.Span.Cover(body.Span),
				Name:   name.Text,
				Params: params,
				Body:   body,
			}, true, nil
		}
	}

	p.pos = start
	return nil, false, nil
}

// tryParseParamList parses `( ident, ident, ... )`. On failure it restores
// the parser to start and reports false.
func (p *Parser) tryParseParamList(start int) ([]string, bool) {
	p.next() // consume '('
	var params []string
	for {
		tok := p.peek()
		if tok.Kind == token.RParen && len(params) == 0 {
			break
		}
		if !tok.IsIdent() {
			p.pos = start + 1
			return nil, false
		}
		params = append(params, tok.Text)
		p.next()
		if p.peek().Kind == token.Comma {
			p.next()
			continue
		}
		break
	}
	if p.peek().Kind != token.RParen {
		p.pos = start + 1
		return nil, false
	}
	p.next()
	return params, true
}

// ParseExpr parses a single expression (REPL entry point).
func (p *Parser) ParseExpr() (*ast.Expr, error) {
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind != token.EOF {
		return nil, p.errorAt(tok, "unexpected %q after expression", tok.Text)
	}
	return e, nil
}

func (p *Parser) parseExpr() (*ast.Expr, error) {
	return p.parseAdditive()
}

func (p *Parser) parseAdditive() (*ast.Expr, error) {
	lhs, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case token.Plus:
			op = ast.BinAdd
		case token.Minus:
			op = ast.BinSub
		default:
			return lhs, nil
		}
		p.next()
		rhs, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Expr{
			Kind:  ast.ExprBinary,
			Span:  lhs.Span.Cover(rhs.Span),
			BinOp: op,
			Left:  lhs,
			Right: rhs,
		}
	}
}

func (p *Parser) parseMultiplicative() (*ast.Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case token.Star:
			op = ast.BinMul
		case token.Slash:
			op = ast.BinDiv
		default:
			return lhs, nil
		}
		p.next()
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Expr{
			Kind:  ast.ExprBinary,
			Span:  lhs.Span.Cover(rhs.Span),
			BinOp: op,
			Left:  lhs,
			Right: rhs,
		}
	}
}

func (p *Parser) parseUnary() (*ast.Expr, error) {
	if tok := p.peek(); tok.Kind == token.Minus {
		p.next()
		// Negation binds looser than power: -x^2 is -(x^2).
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Expr{
			Kind:    ast.ExprUnary,
			Span:    tok.Span.Cover(operand.Span),
			UnOp:    ast.UnaryNeg,
			Operand: operand,
		}, nil
	}
	return p.parsePower()
}

func (p *Parser) parsePower() (*ast.Expr, error) {
	base, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind != token.Caret {
		return base, nil
	}
	p.next()
	// Right-associative: a^b^c parses as a^(b^c).
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.Expr{
		Kind:  ast.ExprBinary,
		Span:  base.Span.Cover(exp.Span),
		BinOp: ast.BinPow,
		Left:  base,
		Right: exp,
	}, nil
}

func (p *Parser) parsePostfix() (*ast.Expr, error) {
	e, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == token.Dot {
		dot := p.next()
		comp := p.peek()
		var coord ast.CoordinateAccess
		switch comp.Text {
		case "x":
			coord = ast.CoordX
		case "y":
			coord = ast.CoordY
		case "z":
			coord = ast.CoordZ
		default:
			return nil, p.errorAt(dot, "expected coordinate x, y or z after '.', got %q", comp.Text)
		}
		p.next()
		e = &ast.Expr{
			Kind:    ast.ExprCoord,
			Span:    e.Span.Cover(comp.Span),
			Coord:   coord,
			Operand: e,
		}
	}
	return e, nil
}

func (p *Parser) parseAtom() (*ast.Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit:
		p.next()
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, p.errorAt(tok, "bad integer literal %q: %v", tok.Text, err)
		}
		return &ast.Expr{Kind: ast.ExprInt, Span: tok.Span, Int: v}, nil

	case token.FloatLit:
		p.next()
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, p.errorAt(tok, "bad float literal %q: %v", tok.Text, err)
		}
		return &ast.Expr{Kind: ast.ExprNumber, Span: tok.Span, Number: v}, nil

	case token.Ident:
		p.next()
		if p.peek().Kind == token.LParen {
			return p.parseCall(tok)
		}
		return &ast.Expr{Kind: ast.ExprIdent, Span: tok.Span, Name: tok.Text}, nil

	case token.LParen:
		return p.parseParenOrPoint()

	case token.LBracket:
		return p.parseList()

	case token.LBrace:
		return p.parsePiecewise()

	default:
		return nil, p.errorAt(tok, "expected expression, got %q", tok.Text)
	}
}

func (p *Parser) parseCall(name token.Token) (*ast.Expr, error) {
	p.next() // consume '('
	var args []*ast.Expr
	last := name.Span
	for p.peek().Kind != token.RParen {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek().Kind != token.Comma {
			break
		}
		p.next()
	}
	if err := p.expect(token.RParen, &last); err != nil {
		return nil, err
	}
	return &ast.Expr{
		Kind:  ast.ExprCall,
		Span:  name.Span.Cover(last),
		Name:  name.Text,
		Elems: args,
	}, nil
}

// parseParenOrPoint parses '(' expr ')' as grouping and '(' expr, expr[, expr]
// ')' as a 2D/3D point literal.
func (p *Parser) parseParenOrPoint() (*ast.Expr, error) {
	open := p.next()
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	elems := []*ast.Expr{first}
	for p.peek().Kind == token.Comma {
		p.next()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	var closeSpan source.Span
	if err := p.expect(token.RParen, &closeSpan); err != nil {
		return nil, err
	}
	if len(elems) == 1 {
		return first, nil
	}
	if len(elems) > 3 {
		return nil, fmt.Errorf("%s: point literal has %d components, at most 3 supported", p.spanPos(open.Span), len(elems))
	}
	return &ast.Expr{
		Kind:  ast.ExprPoint,
		Span:  open.Span.Cover(closeSpan),
		Elems: elems,
	}, nil
}

func (p *Parser) parseList() (*ast.Expr, error) {
	open := p.next()
	var elems []*ast.Expr
	for p.peek().Kind != token.RBracket {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if len(elems) == 0 && p.peek().Kind == token.Ellipsis {
			p.next()
			hi, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			var closeSpan source.Span
			if err := p.expect(token.RBracket, &closeSpan); err != nil {
				return nil, err
			}
			return &ast.Expr{
				Kind:  ast.ExprRange,
				Span:  open.Span.Cover(closeSpan),
				Left:  e,
				Right: hi,
			}, nil
		}
		elems = append(elems, e)
		if p.peek().Kind != token.Comma {
			break
		}
		p.next()
	}
	var closeSpan source.Span
	if err := p.expect(token.RBracket, &closeSpan); err != nil {
		return nil, err
	}
	return &ast.Expr{
		Kind:  ast.ExprList,
		Span:  open.Span.Cover(closeSpan),
		Elems: elems,
	}, nil
}

// parsePiecewise parses `{cond: value, cond: value, ..., default}`. The
// trailing default arm is optional.
func (p *Parser) parsePiecewise() (*ast.Expr, error) {
	open := p.next()
	out := &ast.Expr{Kind: ast.ExprPiecewise, Span: open.Span}
	for p.peek().Kind != token.RBrace {
		first, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		cmpTok := p.peek()
		if !cmpTok.IsComparator() {
			// No comparator: this arm is the default value and must be last.
			out.Default = first
			break
		}
		p.next()
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		cond := &ast.Expr{
			Kind:  ast.ExprCompare,
			Span:  first.Span.Cover(rhs.Span),
			CmpOp: comparisonOf(cmpTok.Kind),
			Left:  first,
			Right: rhs,
		}
		if err := p.expect(token.Colon, nil); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		out.Arms = append(out.Arms, ast.PiecewiseArm{Cond: cond, Value: value})
		if p.peek().Kind != token.Comma {
			break
		}
		p.next()
	}
	var closeSpan source.Span
	if err := p.expect(token.RBrace, &closeSpan); err != nil {
		return nil, err
	}
	if len(out.Arms) == 0 {
		return nil, fmt.Errorf("%s: piecewise expression needs at least one condition arm", p.spanPos(open.Span))
	}
	out.Span = open.Span.Cover(closeSpan)
	return out, nil
}

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos]
}

func (p *Parser) next() token.Token {
	tok := p.peek()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

// expect consumes a token of the given kind, optionally recording its span.
func (p *Parser) expect(kind token.Kind, span *source.Span) error {
	tok := p.peek()
	if tok.Kind != kind {
		return p.errorAt(tok, "expected %q, got %q", kind.String(), tok.Text)
	}
	p.next()
	if span != nil {
		*span = tok.Span
	}
	return nil
}

func (p *Parser) errorAt(tok token.Token, format string, args ...any) error {
	return fmt.Errorf("%s: %s", p.spanPos(tok.Span), fmt.Sprintf(format, args...))
}

// spanPos renders a span as file:line:col when the file set can resolve it.
func (p *Parser) spanPos(sp source.Span) string {
	if p.fs == nil {
		return sp.String()
	}
	pos, ok := p.fs.Position(sp)
	if !ok {
		return sp.String()
	}
	f := p.fs.Get(sp.File)
	return fmt.Sprintf("%s:%d:%d", f.Path, pos.Line, pos.Col)
}

func comparisonOf(k token.Kind) ast.Comparison {
	switch k {
	case token.Eq:
		return ast.CompEq
	case token.Lt:
		return ast.CompLt
	case token.LtEq:
		return ast.CompLe
	case token.Gt:
		return ast.CompGt
	case token.GtEq:
		return ast.CompGe
	default:
		return ast.CompEq
	}
}
