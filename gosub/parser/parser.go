/*
Package parser implements a parser for the Go subset.

Declarations and statements are parsed by recursive descent. Operator
expressions are parsed by a table-driven SLR(1) parser, with the operator
precedence and associativity declared in the expression grammar. Both
parsers build an AST.

Statement separators follow Go's line rule: a newline terminates a
statement if the line's last token is an identifier, a literal, one of the
keywords break, continue and return, one of the operators ++ and --, or a
closing ), ] or }.

Syntax errors do not stop the parser. After an error it discards tokens up
to the next statement boundary (a separator or a block delimiter) and
continues from there.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/gofront"
	"github.com/npillmayer/gofront/gosub/ast"
	"github.com/npillmayer/gofront/gosub/diag"
	"github.com/npillmayer/gofront/gosub/token"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gofront.parser'.
func tracer() tracing.Trace {
	return tracing.Select("gofront.parser")
}

// Parser holds the parser's state for a single token sequence.
// Create one with New.
type Parser struct {
	toks        []token.Token
	pos         int         // index of the next token in toks
	tok         token.Token // current token, possibly a virtual separator
	prev        token.Token // last token read from toks
	errors      diag.List
	lastErr     gofront.Span
	eofReported bool
}

// bailout is thrown on syntax errors and caught at statement or
// declaration level.
type bailout struct{}

// New creates a parser for a sequence of tokens, as produced by the lexer.
func New(toks []token.Token) *Parser {
	p := &Parser{toks: toks}
	p.next()
	return p
}

// ParseFile parses a complete translation unit and returns its AST together
// with the syntax diagnostics. The AST contains every declaration which could
// be parsed, even if there were errors.
func ParseFile(toks []token.Token) (*ast.File, diag.List) {
	p := New(toks)
	file := p.parseFile()
	return file, p.errors
}

// Errors returns the syntax errors found so far.
func (p *Parser) Errors() diag.List {
	return p.errors
}

// --- Tokens ----------------------------------------------------------------

// next advances to the next token, inserting a virtual ';' where a line
// ends after a token which may end a statement.
func (p *Parser) next() {
	last := p.prev
	if p.pos >= len(p.toks) {
		if p.tok.Kind() != token.EOF && p.tok.Lexeme() != "\n" && endsStatement(last.Kind()) {
			p.tok = p.virtualSemi(last)
			return
		}
		p.tok = p.eof()
		return
	}
	t := p.toks[p.pos]
	if p.tok.Lexeme() != "\n" && endsStatement(last.Kind()) && p.pos > 0 &&
		t.Pos().Line > endLine(last) {
		p.tok = p.virtualSemi(last)
		return
	}
	p.prev = t
	p.tok = t
	p.pos++
}

func endsStatement(k token.Kind) bool {
	switch k {
	case token.Ident, token.Int, token.Float, token.String, token.Rune, token.Bool, token.Nil,
		token.Break, token.Continue, token.Return, token.Inc, token.Dec,
		token.RParen, token.RBrack, token.RBrace:
		return true
	}
	return false
}

// endLine is the line a token ends on; raw strings may span lines.
func endLine(t token.Token) int {
	return t.Pos().Line + strings.Count(t.Lexeme(), "\n")
}

func (p *Parser) virtualSemi(after token.Token) token.Token {
	pos := after.Pos()
	pos.Column += utf8.RuneCountInString(after.Lexeme())
	end := after.Span().To()
	return token.New(token.Semicolon, "\n", nil, gofront.Span{end, end}, pos)
}

func (p *Parser) eof() token.Token {
	if len(p.toks) == 0 {
		return token.New(token.EOF, "", nil, gofront.Span{}, token.Position{Line: 1, Column: 1})
	}
	last := p.toks[len(p.toks)-1]
	pos := last.Pos()
	pos.Line = endLine(last)
	pos.Column += utf8.RuneCountInString(last.Lexeme())
	end := last.Span().To()
	return token.New(token.EOF, "", nil, gofront.Span{end, end}, pos)
}

// got is true if the current token is of kind k. It consumes it then.
func (p *Parser) got(k token.Kind) bool {
	if p.tok.Kind() == k {
		p.next()
		return true
	}
	return false
}

// expect consumes a token of kind k or fails.
func (p *Parser) expect(k token.Kind) token.Token {
	t := p.tok
	if t.Kind() != k {
		p.errorExpected(k.String())
	}
	p.next()
	return t
}

// expectSemi ends a statement or declaration. A separator may be omitted
// before a closing ')' or '}'.
func (p *Parser) expectSemi() {
	switch p.tok.Kind() {
	case token.Semicolon:
		p.next()
	case token.RParen, token.RBrace, token.EOF:
	default:
		p.errorExpected("end of statement")
	}
}

// --- Errors and recovery ---------------------------------------------------

func describe(t token.Token) string {
	switch {
	case t.Kind() == token.EOF:
		return "end of input"
	case t.Kind() == token.Semicolon && t.Lexeme() == "\n":
		return "newline"
	}
	return t.Lexeme()
}

// syntaxError records a diagnostic for the current token. Only one error is
// recorded per offending token, and end of input is reported once.
func (p *Parser) syntaxError(msg string) {
	t := p.tok
	if t.Kind() == token.EOF {
		if p.eofReported {
			return
		}
		p.eofReported = true
		msg = "unexpected end of input"
	} else if len(p.errors) > 0 && t.Span() == p.lastErr {
		return
	}
	p.lastErr = t.Span()
	tracer().Infof("syntax error at %s: %s", t.Pos(), msg)
	p.errors.Add(diag.New(diag.Syntax, t.Pos(), "%s", msg))
}

// errorExpected reports an unexpected token and bails out.
func (p *Parser) errorExpected(what string) {
	p.syntaxError(fmt.Sprintf("unexpected %s, expected %s", describe(p.tok), what))
	panic(bailout{})
}

// try runs a parse function. If it bails out, sync is called to
// resynchronize.
func (p *Parser) try(parse func(), sync func()) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			sync()
		}
	}()
	parse()
}

// syncStmt discards tokens up to a statement boundary. A separator is
// consumed, block delimiters are not.
func (p *Parser) syncStmt() {
	for {
		switch p.tok.Kind() {
		case token.Semicolon:
			p.next()
			return
		case token.LBrace, token.RBrace:
			return
		case token.EOF:
			p.syntaxError("unexpected end of input")
			return
		}
		p.next()
	}
}

// syncDecl discards tokens up to the end of a top-level declaration. Stray
// blocks are skipped as a whole.
func (p *Parser) syncDecl() {
	for {
		switch p.tok.Kind() {
		case token.Semicolon, token.RBrace:
			p.next()
			return
		case token.LBrace:
			p.skipBlock()
			return
		case token.EOF:
			p.syntaxError("unexpected end of input")
			return
		}
		p.next()
	}
}

// syncSpec discards tokens up to the end of a spec in a parenthesized group.
func (p *Parser) syncSpec() {
	for {
		switch p.tok.Kind() {
		case token.Semicolon:
			p.next()
			return
		case token.RParen, token.LBrace, token.RBrace:
			return
		case token.EOF:
			p.syntaxError("unexpected end of input")
			return
		}
		p.next()
	}
}

// syncCase discards tokens up to the ':' of a case clause.
func (p *Parser) syncCase() {
	for {
		switch p.tok.Kind() {
		case token.Colon:
			p.next()
			return
		case token.LBrace, token.RBrace, token.Case, token.Default:
			return
		case token.EOF:
			p.syntaxError("unexpected end of input")
			return
		}
		p.next()
	}
}

func (p *Parser) skipBlock() {
	depth := 0
	for {
		switch p.tok.Kind() {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
			if depth == 0 {
				p.next()
				return
			}
		case token.EOF:
			p.syntaxError("unexpected end of input")
			return
		}
		p.next()
	}
}

// progress guards loops against recovery which does not consume input.
type progress struct {
	pos int
	tok token.Token
}

func (p *Parser) mark() progress {
	return progress{p.pos, p.tok}
}

func (p *Parser) ensureProgress(m progress) {
	if p.pos != m.pos || p.tok != m.tok {
		return
	}
	if gconf.GetBool("panic-on-parser-stuck") {
		panic(fmt.Sprintf("parser stuck at %s", p.tok))
	}
	tracer().Errorf("parser stuck at %s, skipping token", p.tok)
	p.next()
}

// --- Declarations ----------------------------------------------------------

func (p *Parser) parseFile() *ast.File {
	file := &ast.File{}
	p.try(func() {
		p.expect(token.Package)
		file.Package = p.ident()
		p.expectSemi()
	}, p.syncDecl)
	for p.tok.Kind() == token.Import {
		p.try(func() {
			file.Imports = append(file.Imports, p.importDecl()...)
			p.expectSemi()
		}, p.syncDecl)
	}
	for p.tok.Kind() != token.EOF {
		m := p.mark()
		p.try(func() {
			if d := p.topLevelDecl(); d != nil {
				file.Decls = append(file.Decls, d...)
			}
		}, p.syncDecl)
		p.ensureProgress(m)
	}
	return file
}

func (p *Parser) topLevelDecl() []ast.Decl {
	var decls []ast.Decl
	switch p.tok.Kind() {
	case token.Var, token.Const:
		for _, d := range p.varDecl() {
			decls = append(decls, d)
		}
	case token.Func:
		decls = append(decls, p.funcDecl())
	case token.Semicolon:
		p.next()
		return nil
	case token.Import:
		p.errorExpected("declaration (imports must appear before other declarations)")
	default:
		p.errorExpected("declaration")
	}
	p.expectSemi()
	return decls
}

func (p *Parser) importDecl() []*ast.ImportSpec {
	p.expect(token.Import)
	if !p.got(token.LParen) {
		return []*ast.ImportSpec{p.importSpec()}
	}
	var specs []*ast.ImportSpec
	for p.tok.Kind() != token.RParen && p.tok.Kind() != token.EOF {
		p.try(func() {
			specs = append(specs, p.importSpec())
			p.expectSemi()
		}, p.syncSpec)
	}
	p.expect(token.RParen)
	return specs
}

func (p *Parser) importSpec() *ast.ImportSpec {
	spec := &ast.ImportSpec{At: p.tok.Pos()}
	if p.tok.Kind() == token.Ident {
		spec.Name = p.ident()
	}
	if p.tok.Kind() != token.String {
		p.errorExpected("import path")
	}
	spec.Path, _ = p.tok.Value().(string)
	p.next()
	return spec
}

// varDecl parses a var or const declaration, single or grouped.
func (p *Parser) varDecl() []*ast.VarDecl {
	isConst := p.tok.Kind() == token.Const
	p.next()
	if !p.got(token.LParen) {
		return []*ast.VarDecl{p.varSpec(isConst, 0, nil)}
	}
	var specs []*ast.VarDecl
	var prev *ast.VarDecl
	iota := 0
	for p.tok.Kind() != token.RParen && p.tok.Kind() != token.EOF {
		m := p.mark()
		p.try(func() {
			spec := p.varSpec(isConst, iota, prev)
			specs = append(specs, spec)
			prev = spec
			p.expectSemi()
		}, p.syncSpec)
		iota++
		p.ensureProgress(m)
	}
	p.expect(token.RParen)
	return specs
}

// varSpec parses a single spec. Constant specs of a group without type and
// values repeat the previous spec's type and values.
func (p *Parser) varSpec(isConst bool, iota int, prev *ast.VarDecl) *ast.VarDecl {
	d := &ast.VarDecl{Const: isConst, Iota: iota, At: p.tok.Pos()}
	d.Names = p.identList()
	if p.tok.Kind() != token.Assign && !(isConst && p.atSpecEnd()) {
		d.Type = p.parseType()
	}
	if p.got(token.Assign) {
		d.Values = p.exprList()
	}
	if isConst && d.Values == nil {
		if d.Type == nil && prev != nil {
			d.Type, d.Values = prev.Type, prev.Values
		} else {
			p.syntaxError("missing init expr for const declaration")
		}
	}
	return d
}

func (p *Parser) atSpecEnd() bool {
	switch p.tok.Kind() {
	case token.Semicolon, token.RParen, token.EOF:
		return true
	}
	return false
}

func (p *Parser) funcDecl() *ast.FuncDecl {
	d := &ast.FuncDecl{At: p.expect(token.Func).Pos()}
	d.Name = p.ident()
	d.Params = p.parameters()
	switch {
	case p.tok.Kind() == token.LParen:
		d.Results = p.parameters()
	case startsType(p.tok.Kind()):
		d.Results = []*ast.Field{{Type: p.parseType()}}
	}
	if p.tok.Kind() != token.LBrace {
		p.errorExpected("{")
	}
	d.Body = p.block()
	return d
}

type paramEntry struct {
	name     *ast.Ident
	typ      ast.TypeExpr
	variadic bool
}

// parameters parses a parameter or result list. Lists are either all named,
// with consecutive names sharing a type, or all anonymous.
func (p *Parser) parameters() []*ast.Field {
	p.expect(token.LParen)
	var entries []paramEntry
	named := false
	for p.tok.Kind() != token.RParen && p.tok.Kind() != token.EOF {
		var e paramEntry
		if p.tok.Kind() == token.Ident {
			id := p.ident()
			switch {
			case p.tok.Kind() == token.Period:
				p.next()
				e.typ = &ast.NamedType{Pkg: id, Name: p.ident()}
			case p.tok.Kind() == token.Ellipsis || startsType(p.tok.Kind()):
				e.name = id
				e.variadic = p.got(token.Ellipsis)
				e.typ = p.parseType()
				named = true
			default:
				e.name = id // a name or a type, decided below
			}
		} else {
			e.variadic = p.got(token.Ellipsis)
			e.typ = p.parseType()
		}
		entries = append(entries, e)
		if !p.got(token.Comma) {
			break
		}
	}
	p.expect(token.RParen)
	var fields []*ast.Field
	if !named {
		for _, e := range entries {
			if e.typ == nil {
				e.typ = &ast.NamedType{Name: e.name}
			}
			fields = append(fields, &ast.Field{Type: e.typ, Variadic: e.variadic})
		}
		return fields
	}
	var names []*ast.Ident
	for _, e := range entries {
		if e.name == nil {
			p.syntaxError("mixed named and unnamed parameters")
			continue
		}
		names = append(names, e.name)
		if e.typ != nil {
			fields = append(fields, &ast.Field{Names: names, Type: e.typ, Variadic: e.variadic})
			names = nil
		}
	}
	if len(names) > 0 {
		p.syntaxError("mixed named and unnamed parameters")
	}
	return fields
}

func (p *Parser) ident() *ast.Ident {
	t := p.tok
	if t.Kind() != token.Ident {
		p.errorExpected("identifier")
	}
	p.next()
	return &ast.Ident{Name: t.Lexeme(), NamePos: t.Pos()}
}

func (p *Parser) identList() []*ast.Ident {
	list := []*ast.Ident{p.ident()}
	for p.got(token.Comma) {
		list = append(list, p.ident())
	}
	return list
}

// --- Types -----------------------------------------------------------------

func startsType(k token.Kind) bool {
	switch k {
	case token.Ident, token.LBrack, token.Map, token.Mul, token.LParen:
		return true
	}
	return false
}

func (p *Parser) parseType() ast.TypeExpr {
	switch p.tok.Kind() {
	case token.Ident:
		id := p.ident()
		if p.got(token.Period) {
			return &ast.NamedType{Pkg: id, Name: p.ident()}
		}
		return &ast.NamedType{Name: id}
	case token.LBrack:
		lbrack := p.tok.Pos()
		p.next()
		if p.got(token.RBrack) {
			return &ast.SliceType{Elem: p.parseType(), Lbrack: lbrack}
		}
		n := p.expr()
		p.expect(token.RBrack)
		return &ast.ArrayType{Len: n, Elem: p.parseType(), Lbrack: lbrack}
	case token.Map:
		at := p.tok.Pos()
		p.next()
		p.expect(token.LBrack)
		key := p.parseType()
		p.expect(token.RBrack)
		return &ast.MapType{Key: key, Value: p.parseType(), At: at}
	case token.Mul:
		star := p.tok.Pos()
		p.next()
		return &ast.PointerType{Elem: p.parseType(), Star: star}
	case token.LParen:
		p.next()
		t := p.parseType()
		p.expect(token.RParen)
		return t
	}
	p.errorExpected("type")
	return nil
}

// --- Statements ------------------------------------------------------------

func (p *Parser) block() *ast.BlockStmt {
	b := &ast.BlockStmt{Lbrace: p.expect(token.LBrace).Pos()}
	b.List = p.stmtList(false)
	p.closeBrace()
	return b
}

// closeBrace consumes the '}' ending a block. At end of input the
// diagnostic is recorded without bailing out, so that the statements parsed
// so far are kept.
func (p *Parser) closeBrace() {
	if p.tok.Kind() == token.EOF {
		p.syntaxError("unexpected end of input")
		return
	}
	p.expect(token.RBrace)
}

// stmtList parses statements up to a closing '}' (or a case clause,
// if inSwitch is set). Every statement is a recovery point.
func (p *Parser) stmtList(inSwitch bool) []ast.Stmt {
	var list []ast.Stmt
	for {
		k := p.tok.Kind()
		if k == token.RBrace || k == token.EOF || (inSwitch && (k == token.Case || k == token.Default)) {
			return list
		}
		m := p.mark()
		p.try(func() {
			switch s := p.stmt().(type) {
			case nil:
			case declGroup:
				list = append(list, s.List...)
			default:
				list = append(list, s)
			}
			if p.tok.Kind() != token.RBrace {
				p.expectSemi()
			}
		}, p.syncStmt)
		p.ensureProgress(m)
	}
}

func (p *Parser) stmt() ast.Stmt {
	switch p.tok.Kind() {
	case token.Var, token.Const:
		decls := p.varDecl()
		if len(decls) == 1 {
			return &ast.DeclStmt{Decl: decls[0]}
		}
		g := declGroup{&ast.BlockStmt{}}
		for _, d := range decls {
			g.List = append(g.List, &ast.DeclStmt{Decl: d})
		}
		return g
	case token.LBrace:
		return p.block()
	case token.If:
		return p.ifStmt()
	case token.For:
		return p.forStmt()
	case token.Switch:
		return p.switchStmt()
	case token.Return:
		r := &ast.ReturnStmt{At: p.tok.Pos()}
		p.next()
		if k := p.tok.Kind(); k != token.Semicolon && k != token.RBrace {
			r.Results = p.exprList()
		}
		return r
	case token.Break, token.Continue:
		b := &ast.BranchStmt{Tok: p.tok.Kind(), At: p.tok.Pos()}
		p.next()
		return b
	case token.Semicolon:
		return nil
	}
	if !startsOperand(p.tok.Kind()) && !isUnaryOp(p.tok.Kind()) {
		p.errorExpected("statement")
	}
	s, _ := p.simpleStmt(false)
	return s
}

// declGroup wraps the specs of a local grouped declaration. The specs are
// added to the enclosing statement list, as they share its scope.
type declGroup struct {
	*ast.BlockStmt
}

// simpleStmt parses expression statements, assignments, short variable
// declarations and inc/dec statements. With rangeOK set, a range clause
// is accepted as well and returned as *ast.RangeStmt without body.
func (p *Parser) simpleStmt(rangeOK bool) (ast.Stmt, bool) {
	if rangeOK && p.tok.Kind() == token.Range {
		r := &ast.RangeStmt{At: p.tok.Pos()}
		p.next()
		r.X = p.expr()
		return r, true
	}
	lhs := p.exprList()
	switch k := p.tok.Kind(); {
	case k == token.Define || k.IsAssignOp():
		at := p.tok.Pos()
		p.next()
		if rangeOK && p.tok.Kind() == token.Range && (k == token.Define || k == token.Assign) {
			r := &ast.RangeStmt{Key: lhs[0], Tok: k, At: at}
			if len(lhs) > 1 {
				r.Value = lhs[1]
			}
			if len(lhs) > 2 {
				p.syntaxError("range clause permits at most two iteration variables")
			}
			p.next()
			r.X = p.expr()
			return r, true
		}
		rhs := p.exprList()
		return &ast.AssignStmt{Lhs: lhs, Tok: k, Rhs: rhs, TokAt: at}, false
	case k == token.Inc || k == token.Dec:
		p.next()
		return &ast.IncDecStmt{X: lhs[0], Tok: k}, false
	}
	if len(lhs) > 1 {
		p.errorExpected(":= or = or comma")
	}
	return &ast.ExprStmt{X: lhs[0]}, false
}

// condition extracts the expression of a header statement.
func (p *Parser) condition(s ast.Stmt, what string) ast.Expr {
	if es, ok := s.(*ast.ExprStmt); ok {
		return es.X
	}
	p.syntaxError(fmt.Sprintf("cannot use %s as value", what))
	panic(bailout{})
}

func (p *Parser) ifStmt() *ast.IfStmt {
	s := &ast.IfStmt{At: p.expect(token.If).Pos()}
	init, _ := p.simpleStmt(false)
	if p.tok.Kind() == token.Semicolon && p.tok.Lexeme() == ";" {
		p.next()
		s.Init = init
		s.Cond = p.expr()
	} else {
		s.Cond = p.condition(init, "assignment")
	}
	s.Body = p.block()
	if p.got(token.Else) {
		switch p.tok.Kind() {
		case token.If:
			s.Else = p.ifStmt()
		case token.LBrace:
			s.Else = p.block()
		default:
			p.errorExpected("if statement or block")
		}
	}
	return s
}

func (p *Parser) forStmt() ast.Stmt {
	at := p.expect(token.For).Pos()
	if p.tok.Kind() == token.LBrace {
		return &ast.ForStmt{Body: p.block(), At: at}
	}
	var init, post ast.Stmt
	var cond ast.Expr
	if p.tok.Kind() != token.Semicolon {
		s, isRange := p.simpleStmt(true)
		if isRange {
			r := s.(*ast.RangeStmt)
			r.At = at
			r.Body = p.block()
			return r
		}
		if p.tok.Kind() == token.LBrace {
			cond = p.condition(s, "assignment")
			return &ast.ForStmt{Cond: cond, Body: p.block(), At: at}
		}
		init = s
	}
	p.expect(token.Semicolon)
	if p.tok.Kind() != token.Semicolon {
		cond = p.expr()
	}
	p.expect(token.Semicolon)
	if p.tok.Kind() != token.LBrace {
		post, _ = p.simpleStmt(false)
	}
	return &ast.ForStmt{Init: init, Cond: cond, Post: post, Body: p.block(), At: at}
}

func (p *Parser) switchStmt() *ast.SwitchStmt {
	s := &ast.SwitchStmt{At: p.expect(token.Switch).Pos()}
	if p.tok.Kind() != token.LBrace {
		var first ast.Stmt
		if p.tok.Kind() != token.Semicolon {
			first, _ = p.simpleStmt(false)
		}
		if p.tok.Kind() == token.Semicolon && p.tok.Lexeme() == ";" {
			p.next()
			s.Init = first
			if p.tok.Kind() != token.LBrace {
				s.Tag = p.expr()
			}
		} else {
			s.Tag = p.condition(first, "assignment")
		}
	}
	p.expect(token.LBrace)
	for p.tok.Kind() == token.Case || p.tok.Kind() == token.Default {
		cc := &ast.CaseClause{At: p.tok.Pos()}
		p.try(func() {
			if p.got(token.Case) {
				cc.List = p.exprList()
			} else {
				p.next()
			}
			p.expect(token.Colon)
		}, p.syncCase)
		cc.Body = p.stmtList(true)
		s.Body = append(s.Body, cc)
	}
	p.closeBrace()
	return s
}
