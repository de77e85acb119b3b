package sema

import (
	"github.com/npillmayer/gofront/gosub/ast"
	"github.com/npillmayer/gofront/gosub/symtab"
	"github.com/npillmayer/gofront/gosub/token"
	"github.com/npillmayer/gofront/gosub/types"
)

func (c *Context) stmtList(list []ast.Stmt) {
	for _, s := range list {
		c.stmt(s)
	}
}

// block checks a block in a scope of its own.
func (c *Context) block(b *ast.BlockStmt, name string) {
	if b == nil {
		return
	}
	c.Symbols.EnterScope(name)
	c.stmtList(b.List)
	c.Symbols.ExitScope()
}

func (c *Context) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case nil:
	case *ast.DeclStmt:
		c.varDecl(s.Decl, symtab.Local)
	case *ast.ExprStmt:
		c.expr(s.X)
	case *ast.AssignStmt:
		c.assign(s)
	case *ast.IncDecStmt:
		if t := c.lvalue(s.X); !types.IsNumeric(t) && !types.IsUnknown(t) {
			c.errorf(s, "invalid operation: %s%s (non-numeric type %s)", exprString(s.X), s.Tok, t)
		}
	case *ast.BlockStmt:
		c.block(s, "block")
	case *ast.IfStmt:
		c.Symbols.EnterScope("if")
		c.stmt(s.Init)
		c.condition(s.Cond)
		c.block(s.Body, "then")
		switch e := s.Else.(type) {
		case *ast.BlockStmt:
			c.block(e, "else")
		case *ast.IfStmt:
			c.stmt(e)
		}
		c.Symbols.ExitScope()
	case *ast.ForStmt:
		c.Symbols.EnterScope("for")
		c.stmt(s.Init)
		if s.Cond != nil {
			c.condition(s.Cond)
		}
		c.stmt(s.Post)
		c.loops++
		c.block(s.Body, "loop")
		c.loops--
		c.Symbols.ExitScope()
	case *ast.RangeStmt:
		c.rangeStmt(s)
	case *ast.SwitchStmt:
		c.switchStmt(s)
	case *ast.ReturnStmt:
		c.returnStmt(s)
	case *ast.BranchStmt:
		if c.loops == 0 {
			c.errorf(s, "%s used outside a loop", s.Tok)
		}
	default:
		tracer().Errorf("unhandled statement type %T", s)
	}
}

// condition checks the controlling expression of if and for statements.
func (c *Context) condition(x ast.Expr) {
	if x == nil {
		return
	}
	if t := c.exprValue(x); !types.IsBool(t) && !types.IsUnknown(t) {
		c.errorf(x, "condition must be bool, found %s", t)
	}
}

func (c *Context) assign(s *ast.AssignStmt) {
	switch {
	case s.Tok == token.Define:
		c.shortVarDecl(s)
	case s.Tok == token.Assign:
		lhs := make([]types.Type, len(s.Lhs))
		for i, x := range s.Lhs {
			lhs[i] = c.lvalue(x)
		}
		rhs := c.valueTypes(s.Rhs, len(s.Lhs), s)
		if rhs == nil {
			return
		}
		for i, x := range s.Lhs {
			if !types.AssignableTo(rhs[i], lhs[i]) {
				c.errorf(x, "cannot assign %s to %s of type %s", rhs[i], exprString(x), lhs[i])
			}
		}
	default: // compound assignment x op= y
		if len(s.Lhs) != 1 || len(s.Rhs) != 1 {
			c.errorf(s, "assignment operation %s requires single-valued expressions", s.Tok)
			return
		}
		lt := c.lvalue(s.Lhs[0])
		rt := c.exprValue(s.Rhs[0])
		t := c.binary(s.Rhs[0], s.Tok.BaseOp(), lt, rt)
		if !types.AssignableTo(t, lt) {
			c.errorf(s.Lhs[0], "cannot assign %s to %s of type %s", t, exprString(s.Lhs[0]), lt)
		}
	}
}

// shortVarDecl checks x, y := …. At least one of the variables on the left
// must be new in the current scope; the others are assigned to. If none is
// new, every name already declared in the current scope is a redeclaration.
func (c *Context) shortVarDecl(s *ast.AssignStmt) {
	rhs := c.valueTypes(s.Rhs, len(s.Lhs), s)
	if rhs == nil {
		return
	}
	fresh := false
	for _, x := range s.Lhs {
		if id, ok := x.(*ast.Ident); ok && id.Name != "_" && c.Symbols.LookupCurrent(id.Name) == nil {
			fresh = true
		}
	}
	redeclared := false
	for i, x := range s.Lhs {
		id, ok := x.(*ast.Ident)
		if !ok {
			c.errorf(x, "non-name %s on left side of :=", exprString(x))
			continue
		}
		if id.Name == "_" {
			continue
		}
		if sym := c.Symbols.LookupCurrent(id.Name); sym != nil {
			if !fresh {
				c.errorf(x, "%s already declared", id.Name)
				redeclared = true
			} else if !types.AssignableTo(rhs[i], sym.Type) {
				c.errorf(x, "cannot assign %s to %s of type %s", rhs[i], id.Name, sym.Type)
			}
			continue
		}
		c.declare(id, c.defaultType(rhs[i], id), symtab.Local, false)
	}
	if !fresh && !redeclared {
		c.errorf(s, "no new variables on left side of :=")
	}
}

// lvalue types the target of an assignment.
func (c *Context) lvalue(x ast.Expr) types.Type {
	switch x := x.(type) {
	case *ast.Ident:
		if x.Name == "_" {
			return types.Unknown
		}
		sym, _ := c.Symbols.Lookup(x.Name)
		if sym == nil {
			c.errorf(x, "%s not declared", x.Name)
			return types.Unknown
		}
		if sym.IsConst {
			c.errorf(x, "cannot assign to constant %s", x.Name)
			return types.Unknown
		}
		if sym.IsFunc() {
			c.errorf(x, "cannot assign to function %s", x.Name)
			return types.Unknown
		}
		return sym.Type
	case *ast.IndexExpr:
		xt := c.exprValue(x.X)
		if types.IsString(xt) {
			c.exprValue(x.Index)
			c.errorf(x, "cannot assign to %s (strings are immutable)", exprString(x))
			return types.Unknown
		}
		return c.index(x, xt)
	case *ast.UnaryExpr:
		if x.Op == token.Mul {
			return c.exprValue(x)
		}
	case *ast.ParenExpr:
		return c.lvalue(x.X)
	case *ast.SelectorExpr:
		return c.exprValue(x)
	}
	c.exprValue(x)
	c.errorf(x, "cannot assign to %s", exprString(x))
	return types.Unknown
}

func (c *Context) rangeStmt(s *ast.RangeStmt) {
	c.Symbols.EnterScope("range")
	xt := c.exprValue(s.X)
	key, value := types.Unknown, types.Unknown
	switch t := xt.(type) {
	case types.Slice:
		key, value = types.Int, t.Elem
	case types.Array:
		key, value = types.Int, t.Elem
	case types.Map:
		key, value = t.Key, t.Value
	default:
		switch {
		case types.IsString(xt):
			key, value = types.Int, types.Rune
		case types.IsInteger(xt):
			key, value = xt, nil
			if s.Value != nil {
				c.errorf(s.Value, "range over %s permits only one iteration variable", xt)
			}
		case !types.IsUnknown(xt):
			c.errorf(s.X, "cannot range over %s (type %s)", exprString(s.X), xt)
		}
	}
	targets := []struct {
		x ast.Expr
		t types.Type
	}{{s.Key, key}, {s.Value, value}}
	for _, v := range targets {
		if v.x == nil || v.t == nil {
			continue
		}
		if s.Tok == token.Define {
			if id, ok := v.x.(*ast.Ident); ok {
				c.declare(id, v.t, symtab.Local, false)
			} else {
				c.errorf(v.x, "non-name %s on left side of :=", exprString(v.x))
			}
		} else if lt := c.lvalue(v.x); !types.AssignableTo(v.t, lt) {
			c.errorf(v.x, "cannot assign %s to %s of type %s", v.t, exprString(v.x), lt)
		}
	}
	c.loops++
	c.block(s.Body, "loop")
	c.loops--
	c.Symbols.ExitScope()
}

func (c *Context) switchStmt(s *ast.SwitchStmt) {
	c.Symbols.EnterScope("switch")
	c.stmt(s.Init)
	var tag types.Type
	if s.Tag != nil {
		tag = c.exprValue(s.Tag)
	}
	var dflt *ast.CaseClause
	for _, cc := range s.Body {
		if cc.List == nil {
			if dflt != nil {
				c.errorf(cc, "multiple defaults in switch (first at line %d)", dflt.At.Line)
			}
			dflt = cc
		}
		for _, x := range cc.List {
			t := c.exprValue(x)
			if tag == nil {
				if !types.IsBool(t) && !types.IsUnknown(t) {
					c.errorf(x, "condition must be bool, found %s", t)
				}
			} else if !types.Comparable(t, tag) {
				c.errorf(x, "invalid case %s in switch (mismatched types %s and %s)", exprString(x), t, tag)
			}
		}
		c.Symbols.EnterScope("case")
		c.loops++
		c.stmtList(cc.Body)
		c.loops--
		c.Symbols.ExitScope()
	}
	c.Symbols.ExitScope()
}

func (c *Context) returnStmt(s *ast.ReturnStmt) {
	if c.fn == nil {
		return
	}
	want := c.fn.sig.Result
	if want == nil {
		want = types.Void
	}
	name := c.fn.name
	switch len(s.Results) {
	case 0:
		if want != types.Void && !c.fn.named && name != "main" {
			c.errorf(s, "missing return value in function %s returning %s", name, want)
		}
		return
	case 1:
		if m, ok := want.(types.Multiple); ok {
			have := c.expr(s.Results[0])
			if hm, ok := have.(types.Multiple); ok && assignableLists(hm.Types, m.Types) {
				return
			}
			if !types.IsUnknown(have) {
				c.errorf(s, "wrong number of return values in function %s: have %s, want %s", name, have, want)
			}
			return
		}
		have := c.exprValue(s.Results[0])
		if want == types.Void {
			c.errorf(s, "too many return values in function %s", name)
		} else if !types.AssignableTo(have, want) {
			c.errorf(s.Results[0], "cannot return %s from function %s returning %s", have, name, want)
		}
		return
	}
	have := make([]types.Type, len(s.Results))
	for i, x := range s.Results {
		have[i] = c.exprValue(x)
	}
	m, ok := want.(types.Multiple)
	if !ok || len(m.Types) != len(have) {
		c.errorf(s, "wrong number of return values in function %s: have %d, want %s", name, len(have), want)
		return
	}
	for i, t := range have {
		if !types.AssignableTo(t, m.Types[i]) {
			c.errorf(s.Results[i], "cannot return %s from function %s as result of type %s", t, name, m.Types[i])
		}
	}
}

func assignableLists(vs, ts []types.Type) bool {
	if len(vs) != len(ts) {
		return false
	}
	for i := range vs {
		if !types.AssignableTo(vs[i], ts[i]) {
			return false
		}
	}
	return true
}
