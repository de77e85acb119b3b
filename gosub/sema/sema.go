/*
Package sema implements semantic analysis for the Go subset.

Analysis is a traversal of the AST. It maintains a scoped symbol table,
infers the types of expressions and checks declarations, statements and
expressions against the typing rules of the subset. All checks are local and
non-fatal: every violation is appended as a diagnostic, and analysis
continues. Expressions which cannot be typed get the type Unknown, which is
compatible with everything, so a single error does not cause follow-up
errors.

All analysis state lives in a Context. A Context is created for a single
analysis run and is not shared, so concurrent analyses are independent.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sema

import (
	"path"

	"github.com/npillmayer/gofront/gosub/ast"
	"github.com/npillmayer/gofront/gosub/diag"
	"github.com/npillmayer/gofront/gosub/symtab"
	"github.com/npillmayer/gofront/gosub/token"
	"github.com/npillmayer/gofront/gosub/types"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gofront.sema'.
func tracer() tracing.Trace {
	return tracing.Select("gofront.sema")
}

// Context is the state of a single analysis run.
type Context struct {
	Symbols    *symtab.Table
	Errors     diag.List // semantic errors
	Advisories diag.List // warnings, e.g. truncating conversions

	fn      *function                   // function currently analyzed, or nil
	loops   int                         // nesting depth of for and switch bodies
	imports map[string]string           // package name → import path
	sigs    map[*ast.FuncDecl]types.Func // signatures collected in advance
	iota    int                         // value of iota in constant declarations
	inConst bool
}

// function describes the function currently analyzed.
type function struct {
	name  string
	sig   types.Func
	named bool // has named results
}

// NewContext creates a fresh analysis context.
func NewContext() *Context {
	return &Context{
		Symbols: symtab.New(),
		imports: make(map[string]string),
		sigs:    make(map[*ast.FuncDecl]types.Func),
	}
}

// Analyze runs semantic analysis for a file in a fresh context.
func Analyze(file *ast.File) *Context {
	c := NewContext()
	c.Check(file)
	return c
}

// Check analyzes a file. Signatures of all functions are collected first,
// then package level variables are declared, then function bodies are
// checked. Function bodies may therefore refer to any package level name.
func (c *Context) Check(file *ast.File) {
	if file == nil {
		return
	}
	for _, imp := range file.Imports {
		name := path.Base(imp.Path)
		if imp.Name != nil {
			name = imp.Name.Name
		}
		c.imports[name] = imp.Path
	}
	for _, d := range file.Decls {
		if fd, ok := d.(*ast.FuncDecl); ok {
			sig := c.signature(fd)
			c.sigs[fd] = sig
			c.declare(fd.Name, sig, symtab.Global, false)
		}
	}
	for _, d := range file.Decls {
		if vd, ok := d.(*ast.VarDecl); ok {
			c.varDecl(vd, symtab.Global)
		}
	}
	for _, d := range file.Decls {
		if fd, ok := d.(*ast.FuncDecl); ok {
			c.funcDecl(fd)
		}
	}
	tracer().Infof("semantic analysis found %d errors", len(c.Errors))
}

func (c *Context) errorf(n ast.Node, format string, args ...interface{}) {
	c.Errors.Add(diag.New(diag.Semantic, n.Pos(), format, args...))
}

func (c *Context) advise(n ast.Node, format string, args ...interface{}) {
	c.Advisories.Add(diag.Advisory(n.Pos(), format, args...))
}

// declare inserts a symbol into the current scope, unless the name is
// already declared there. The first declaration is kept in that case.
func (c *Context) declare(id *ast.Ident, t types.Type, kind symtab.ScopeKind, isConst bool) {
	if id.Name == "_" {
		return
	}
	if c.Symbols.LookupCurrent(id.Name) != nil {
		c.errorf(id, "%s already declared", id.Name)
		return
	}
	sym := symtab.NewSymbol(id.Name, t, kind, id.NamePos.Line)
	sym.IsConst = isConst
	c.Symbols.Insert(sym)
}

// --- Declarations ----------------------------------------------------------

func (c *Context) varDecl(d *ast.VarDecl, kind symtab.ScopeKind) {
	var declared types.Type
	if d.Type != nil {
		declared = c.resolveType(d.Type)
	}
	c.inConst, c.iota = d.Const, d.Iota
	values := c.valueTypes(d.Values, len(d.Names), d)
	c.inConst = false
	for i, id := range d.Names {
		t := declared
		if values != nil {
			v := values[i]
			if declared != nil && !types.AssignableTo(v, declared) {
				c.errorf(d.Values[min(i, len(d.Values)-1)], "cannot use %s value as %s in declaration of %s", v, declared, id.Name)
			}
			if declared == nil {
				t = c.defaultType(v, d)
			}
		}
		if t == nil {
			t = types.Unknown
		}
		c.declare(id, t, kind, d.Const)
	}
}

// valueTypes types the right-hand side of declarations and assignments with
// n targets. A single call may deliver multiple values. It returns nil if
// there are no values, and a slice of n types otherwise.
func (c *Context) valueTypes(values []ast.Expr, n int, at ast.Node) []types.Type {
	if len(values) == 0 {
		return nil
	}
	vt := make([]types.Type, n)
	if len(values) == 1 && n > 1 {
		t := c.expr(values[0])
		if m, ok := t.(types.Multiple); ok && len(m.Types) == n {
			copy(vt, m.Types)
			return vt
		}
		if !types.IsUnknown(t) {
			c.errorf(at, "assignment mismatch: %d variables but %s", n, valueCount(t))
		}
		for i := range vt {
			vt[i] = types.Unknown
		}
		return vt
	}
	for i, v := range values {
		t := c.exprValue(v)
		if i < n {
			vt[i] = t
		}
	}
	if len(values) != n {
		c.errorf(at, "assignment mismatch: %d variables but %d values", n, len(values))
		for i := len(values); i < n; i++ {
			vt[i] = types.Unknown
		}
	}
	return vt
}

func valueCount(t types.Type) string {
	switch t := t.(type) {
	case types.Multiple:
		return plural(len(t.Types), "value")
	}
	if t == types.Void {
		return "no values"
	}
	return "1 value"
}

// defaultType is the type of a variable declared without explicit type.
func (c *Context) defaultType(t types.Type, at ast.Node) types.Type {
	if types.IsNil(t) {
		c.errorf(at, "use of untyped nil")
		return types.Unknown
	}
	return t
}

func (c *Context) funcDecl(fd *ast.FuncDecl) {
	sig := c.sigs[fd]
	c.fn = &function{name: fd.Name.Name, sig: sig, named: fd.NamedResults()}
	c.loops = 0
	c.Symbols.EnterScope(fd.Name.Name)
	i := 0
	for _, f := range fd.Params {
		for _, id := range f.Names {
			c.declare(id, sig.Params[i], symtab.Parameter, false)
			i++
		}
		if len(f.Names) == 0 {
			i++
		}
	}
	for _, f := range fd.Results {
		t := c.resolveType(f.Type)
		for _, id := range f.Names {
			c.declare(id, t, symtab.Parameter, false)
		}
	}
	if fd.Body != nil {
		c.stmtList(fd.Body.List)
	}
	c.Symbols.ExitScope()
	c.fn = nil
}

// signature computes the function type of a declaration.
func (c *Context) signature(fd *ast.FuncDecl) types.Func {
	sig := types.Func{Result: types.Void}
	for _, f := range fd.Params {
		t := c.resolveType(f.Type)
		if f.Variadic {
			t = types.Slice{Elem: t}
			sig.Variadic = true
		}
		for n := max(1, len(f.Names)); n > 0; n-- {
			sig.Params = append(sig.Params, t)
		}
	}
	var results []types.Type
	for _, f := range fd.Results {
		t := c.resolveType(f.Type)
		for n := max(1, len(f.Names)); n > 0; n-- {
			results = append(results, t)
		}
	}
	switch len(results) {
	case 0:
	case 1:
		sig.Result = results[0]
	default:
		sig.Result = types.Multiple{Types: results}
	}
	return sig
}

// resolveType converts a type expression into a type.
func (c *Context) resolveType(te ast.TypeExpr) types.Type {
	switch te := te.(type) {
	case *ast.NamedType:
		if te.Pkg != nil {
			if _, ok := c.imports[te.Pkg.Name]; !ok {
				c.errorf(te.Pkg, "%s not declared", te.Pkg.Name)
			}
			return types.Unknown
		}
		if p, ok := types.Predeclared(te.Name.Name); ok {
			return p
		}
		c.errorf(te.Name, "type %s not declared", te.Name.Name)
		return types.Unknown
	case *ast.ArrayType:
		return types.Array{Len: c.arrayLen(te.Len), Elem: c.resolveType(te.Elem)}
	case *ast.SliceType:
		return types.Slice{Elem: c.resolveType(te.Elem)}
	case *ast.MapType:
		return types.Map{Key: c.resolveType(te.Key), Value: c.resolveType(te.Value)}
	case *ast.PointerType:
		return types.Pointer{Elem: c.resolveType(te.Elem)}
	}
	return types.Unknown
}

// arrayLen evaluates an array length. Lengths which are not integer literals
// are type-checked, but yield -1.
func (c *Context) arrayLen(x ast.Expr) int64 {
	if lit, ok := x.(*ast.BasicLit); ok && lit.Kind == token.Int {
		if n, ok := lit.Value.(int64); ok {
			return n
		}
	}
	if t := c.exprValue(x); !types.IsInteger(t) && !types.IsUnknown(t) {
		c.errorf(x, "array length must be integer, found %s", t)
	}
	return -1
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
