package parser

import (
	"fmt"
	"sync"

	"github.com/npillmayer/gofront"
	"github.com/npillmayer/gofront/gosub/ast"
	"github.com/npillmayer/gofront/gosub/token"
	"github.com/npillmayer/gofront/gosub/types"
	"github.com/npillmayer/gofront/lr"
	"github.com/npillmayer/gofront/lr/slr"
)

// Operator expressions are parsed with an SLR(1) parser for the grammar
//
//    E → E binop E | unop E | operand
//
// Ambiguities are resolved by the precedence and associativity of the
// operators. Operands (identifiers, literals, calls, selectors, …) are
// parsed by recursive descent and handed to the SLR parser as a single
// terminal.

// operandType is the token type of operands.
const operandType gofront.TokType = 1000

var binaryLevels = [][]token.Kind{ // lowest to highest
	{token.LOr},
	{token.LAnd},
	{token.Eql, token.Neq},
	{token.Lss, token.Leq, token.Gtr, token.Geq},
	{token.Add, token.Sub, token.Or, token.Xor},
	{token.Mul, token.Quo, token.Rem, token.Shl, token.Shr, token.And, token.AndNot},
}

var unaryOps = []token.Kind{token.Add, token.Sub, token.Not, token.Xor, token.Mul, token.And}

func isBinaryOp(k token.Kind) bool {
	for _, level := range binaryLevels {
		for _, op := range level {
			if k == op {
				return true
			}
		}
	}
	return false
}

func isUnaryOp(k token.Kind) bool {
	for _, op := range unaryOps {
		if k == op {
			return true
		}
	}
	return false
}

func startsOperand(k token.Kind) bool {
	switch k {
	case token.Ident, token.Int, token.Float, token.String, token.Rune, token.Bool, token.Nil,
		token.LParen, token.LBrack, token.Map,
		token.Make, token.Append, token.Len, token.Delete:
		return true
	}
	return false
}

// ExpressionGrammar creates the grammar for operator expressions.
func ExpressionGrammar() (*lr.Grammar, error) {
	b := lr.NewGrammarBuilder("Go subset expressions")
	for _, level := range binaryLevels {
		names := make([]string, len(level))
		for i, op := range level {
			names[i] = op.String()
		}
		b.Left(names...)
	}
	b.Right("UNARY")
	for _, level := range binaryLevels {
		for _, op := range level {
			b.LHS("Expr").N("Expr").T(op.String(), int(op)).N("Expr").End()
		}
	}
	for _, op := range unaryOps {
		b.LHS("Expr").T(op.String(), int(op)).N("Expr").Prec("UNARY").End()
	}
	b.LHS("Expr").T("operand", int(operandType)).End()
	return b.Grammar()
}

var (
	exprTables     *lr.TableGenerator
	exprTablesOnce sync.Once
)

// ExpressionTables returns the table generator for operator expressions,
// with the SLR(1) tables built. Tables are constructed once and shared.
func ExpressionTables() *lr.TableGenerator {
	exprTablesOnce.Do(func() {
		g, err := ExpressionGrammar()
		if err != nil {
			panic(fmt.Sprintf("expression grammar: %v", err))
		}
		lrgen := lr.NewTableGenerator(lr.Analysis(g))
		lrgen.CreateTables()
		if lrgen.HasConflicts {
			panic(fmt.Sprintf("expression grammar has conflicts: %v", lrgen.Conflicts))
		}
		exprTables = lrgen
	})
	return exprTables
}

// expr parses an expression.
func (p *Parser) expr() ast.Expr {
	lrgen := ExpressionTables()
	sp := slr.NewParser(lrgen.Grammar(), lrgen.GotoTable(), lrgen.ActionTable())
	sp.WithReducer(reduceExpr)
	_, err := sp.Parse(lrgen.CFSM().S0, &exprTokens{p: p, expectOperand: true})
	if err != nil {
		if _, ok := err.(*slr.SyntaxError); !ok {
			panic(err) // internal error of the table-driven parser
		}
		p.errorExpected("expression")
	}
	return sp.Value().(ast.Expr)
}

func (p *Parser) exprList() []ast.Expr {
	list := []ast.Expr{p.expr()}
	for p.got(token.Comma) {
		list = append(list, p.expr())
	}
	return list
}

// reduceExpr builds AST nodes for reductions of the expression grammar.
func reduceExpr(rule *lr.Rule, rhs []interface{}) interface{} {
	switch len(rhs) {
	case 1:
		return rhs[0].(operandToken).x
	case 2:
		op := rhs[0].(token.Token)
		return &ast.UnaryExpr{Op: op.Kind(), X: rhs[1].(ast.Expr), At: op.Pos()}
	}
	op := rhs[1].(token.Token)
	return &ast.BinaryExpr{X: rhs[0].(ast.Expr), Op: op.Kind(), Y: rhs[2].(ast.Expr), OpAt: op.Pos()}
}

// operandToken is a parsed operand, delivered to the SLR parser as a terminal.
type operandToken struct {
	x ast.Expr
}

func (o operandToken) TokType() gofront.TokType { return operandType }
func (o operandToken) Lexeme() string           { return "" }
func (o operandToken) Value() interface{}       { return o.x }
func (o operandToken) Span() gofront.Span       { return gofront.Span{} }

// exprTokens feeds the SLR parser from the parser's token stream. Where an
// operand is expected, it delivers unary operators and operands; after an
// operand, it delivers binary operators. Any other token ends the
// expression and is left in the token stream.
type exprTokens struct {
	p             *Parser
	expectOperand bool
}

func (et *exprTokens) NextToken() gofront.Token {
	p := et.p
	k := p.tok.Kind()
	if et.expectOperand {
		if isUnaryOp(k) {
			t := p.tok
			p.next()
			return t
		}
		if startsOperand(k) {
			x := p.primaryExpr()
			et.expectOperand = false
			return operandToken{x}
		}
		return p.tok // syntax error, token is reported by expr()
	}
	if isBinaryOp(k) {
		t := p.tok
		p.next()
		et.expectOperand = true
		return t
	}
	return token.New(token.EOF, "", nil, p.tok.Span(), p.tok.Pos())
}

func (et *exprTokens) SetErrorHandler(func(error)) {}

// --- Primary expressions ---------------------------------------------------

func (p *Parser) primaryExpr() ast.Expr {
	x := p.operand()
	for {
		switch p.tok.Kind() {
		case token.Period:
			p.next()
			x = &ast.SelectorExpr{X: x, Sel: p.ident()}
		case token.LParen:
			x = p.call(x)
		case token.LBrack:
			x = p.indexOrSlice(x)
		default:
			return x
		}
	}
}

func (p *Parser) operand() ast.Expr {
	t := p.tok
	switch t.Kind() {
	case token.Ident:
		id := p.ident()
		if _, ok := types.Predeclared(id.Name); ok && p.tok.Kind() == token.LParen {
			return p.conversion(&ast.NamedType{Name: id})
		}
		return id
	case token.Int, token.Float, token.String, token.Rune, token.Bool, token.Nil:
		p.next()
		return &ast.BasicLit{Kind: t.Kind(), Value: t.Value(), Lexeme: t.Lexeme(), At: t.Pos()}
	case token.LParen:
		p.next()
		x := p.expr()
		p.expect(token.RParen)
		return &ast.ParenExpr{X: x, Lparen: t.Pos()}
	case token.LBrack, token.Map:
		typ := p.parseType()
		switch p.tok.Kind() {
		case token.LBrace:
			return p.compositeLit(typ)
		case token.LParen:
			return p.conversion(typ)
		}
		p.errorExpected("composite literal or conversion")
	case token.Make, token.Append, token.Len, token.Delete:
		return p.builtin()
	}
	p.errorExpected("expression")
	return nil
}

func (p *Parser) conversion(typ ast.TypeExpr) ast.Expr {
	p.expect(token.LParen)
	x := p.expr()
	p.got(token.Comma)
	p.expect(token.RParen)
	return &ast.ConversionExpr{Type: typ, X: x}
}

func (p *Parser) call(fun ast.Expr) ast.Expr {
	p.expect(token.LParen)
	c := &ast.CallExpr{Fun: fun}
	c.Args, c.Ellipsis = p.arguments()
	p.expect(token.RParen)
	return c
}

// arguments parses a possibly empty argument list, with an optional
// trailing comma and a spread '...' after the last argument.
func (p *Parser) arguments() (args []ast.Expr, spread bool) {
	for p.tok.Kind() != token.RParen && p.tok.Kind() != token.EOF {
		args = append(args, p.expr())
		if p.got(token.Ellipsis) {
			spread = true
		}
		if !p.got(token.Comma) {
			break
		}
	}
	return
}

func (p *Parser) indexOrSlice(x ast.Expr) ast.Expr {
	p.expect(token.LBrack)
	var low ast.Expr
	if p.tok.Kind() != token.Colon {
		low = p.expr()
		if p.got(token.RBrack) {
			return &ast.IndexExpr{X: x, Index: low}
		}
	}
	p.expect(token.Colon)
	s := &ast.SliceExpr{X: x, Low: low}
	if p.tok.Kind() != token.RBrack {
		s.High = p.expr()
	}
	p.expect(token.RBrack)
	return s
}

// compositeLit parses the value of a composite literal. typ is nil for
// elided inner literals.
func (p *Parser) compositeLit(typ ast.TypeExpr) ast.Expr {
	lit := &ast.CompositeLit{Type: typ, Lbrace: p.expect(token.LBrace).Pos()}
	for p.tok.Kind() != token.RBrace && p.tok.Kind() != token.EOF {
		e := p.element()
		if p.got(token.Colon) {
			e = &ast.KeyValueExpr{Key: e, Value: p.element()}
		}
		lit.Elts = append(lit.Elts, e)
		if !p.got(token.Comma) {
			break
		}
	}
	p.expect(token.RBrace)
	return lit
}

func (p *Parser) element() ast.Expr {
	if p.tok.Kind() == token.LBrace {
		return p.compositeLit(nil)
	}
	return p.expr()
}

func (p *Parser) builtin() ast.Expr {
	b := &ast.BuiltinCall{Name: p.tok.Kind(), At: p.tok.Pos()}
	p.next()
	p.expect(token.LParen)
	if b.Name == token.Make {
		b.TypeArg = p.parseType()
		if p.got(token.Comma) {
			b.Args, _ = p.arguments()
		}
	} else {
		b.Args, b.Ellipsis = p.arguments()
	}
	p.expect(token.RParen)
	return b
}
