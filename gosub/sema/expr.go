package sema

import (
	"fmt"
	"strings"

	"github.com/npillmayer/gofront/gosub/ast"
	"github.com/npillmayer/gofront/gosub/token"
	"github.com/npillmayer/gofront/gosub/types"
)

// printFuncs are the functions of package fmt known to return no value.
var printFuncs = map[string]bool{
	"Print": true, "Println": true, "Printf": true,
}

// exprValue types an expression used as a single value.
func (c *Context) exprValue(x ast.Expr) types.Type {
	t := c.expr(x)
	switch t.(type) {
	case types.Multiple:
		c.errorf(x, "multiple-value %s in single-value context", exprString(x))
		return types.Unknown
	}
	if t == types.Void {
		c.errorf(x, "%s (no value) used as value", exprString(x))
		return types.Unknown
	}
	return t
}

// expr infers the type of an expression. Calls may result in Void or in
// multiple values.
func (c *Context) expr(x ast.Expr) types.Type {
	switch x := x.(type) {
	case nil:
		return types.Unknown
	case *ast.Ident:
		return c.ident(x)
	case *ast.BasicLit:
		switch x.Kind {
		case token.Int:
			return types.Int
		case token.Float:
			return types.Float64
		case token.String:
			return types.String
		case token.Rune:
			return types.Rune
		case token.Bool:
			return types.Bool
		case token.Nil:
			return types.Nil
		}
	case *ast.ParenExpr:
		return c.exprValue(x.X)
	case *ast.UnaryExpr:
		return c.unary(x)
	case *ast.BinaryExpr:
		lt := c.exprValue(x.X)
		rt := c.exprValue(x.Y)
		return c.binary(x, x.Op, lt, rt)
	case *ast.CallExpr:
		return c.call(x)
	case *ast.SelectorExpr:
		c.qualifier(x)
		return types.Unknown
	case *ast.IndexExpr:
		return c.index(x, c.exprValue(x.X))
	case *ast.SliceExpr:
		return c.slice(x)
	case *ast.CompositeLit:
		var t types.Type = types.Unknown
		if x.Type != nil {
			t = c.resolveType(x.Type)
		}
		return c.compositeLit(x, t)
	case *ast.KeyValueExpr:
		c.errorf(x, "unexpected key:value expression")
		return types.Unknown
	case *ast.ConversionExpr:
		to := c.resolveType(x.Type)
		from := c.exprValue(x.X)
		ok, truncates := types.Convertible(from, to)
		if !ok {
			c.errorf(x, "cannot convert %s (type %s) to %s", exprString(x.X), from, to)
		} else if truncates {
			c.advise(x, "conversion from %s to %s truncates", from, to)
		}
		return to
	case *ast.BuiltinCall:
		return c.builtin(x)
	}
	tracer().Errorf("unhandled expression type %T", x)
	return types.Unknown
}

func (c *Context) ident(x *ast.Ident) types.Type {
	if x.Name == "_" {
		c.errorf(x, "cannot use _ as value")
		return types.Unknown
	}
	sym, _ := c.Symbols.Lookup(x.Name)
	if sym == nil {
		if x.Name == "iota" && c.inConst {
			return types.Int
		}
		c.errorf(x, "%s not declared", x.Name)
		return types.Unknown
	}
	return sym.Type
}

// qualifier checks the left side of a selector x.Sel. Selectors on imported
// packages and on variables are not resolved further.
func (c *Context) qualifier(x *ast.SelectorExpr) (pkg string, imported bool) {
	id, ok := x.X.(*ast.Ident)
	if !ok {
		c.exprValue(x.X)
		return "", false
	}
	if sym, _ := c.Symbols.Lookup(id.Name); sym != nil {
		return "", false
	}
	if _, ok := c.imports[id.Name]; ok {
		return id.Name, true
	}
	c.errorf(id, "%s not declared", id.Name)
	return "", false
}

func (c *Context) unary(x *ast.UnaryExpr) types.Type {
	t := c.exprValue(x.X)
	if types.IsUnknown(t) {
		return t
	}
	switch x.Op {
	case token.Not:
		if !types.IsBool(t) {
			c.errorf(x, "operator ! not defined on %s (type %s)", exprString(x.X), t)
			return types.Unknown
		}
	case token.And:
		return types.Pointer{Elem: t}
	case token.Mul:
		p, ok := t.(types.Pointer)
		if !ok {
			c.errorf(x, "invalid indirect of %s (type %s)", exprString(x.X), t)
			return types.Unknown
		}
		return p.Elem
	case token.Add, token.Sub:
		if !types.IsNumeric(t) {
			c.errorf(x, "operator %s not defined on %s (type %s)", x.Op, exprString(x.X), t)
			return types.Unknown
		}
	case token.Xor:
		if !types.IsInteger(t) {
			c.errorf(x, "operator ^ not defined on %s (type %s)", exprString(x.X), t)
			return types.Unknown
		}
	}
	return t
}

// binary types x op y, with lt and rt the types of the operands. Comparisons
// and logical operators produce bool; arithmetic produces the type of the
// left operand.
func (c *Context) binary(at ast.Node, op token.Kind, lt, rt types.Type) types.Type {
	switch op {
	case token.LAnd, token.LOr:
		if !(types.IsBool(lt) || types.IsUnknown(lt)) || !(types.IsBool(rt) || types.IsUnknown(rt)) {
			c.errorf(at, "operator %s requires boolean operands, found %s and %s", op, lt, rt)
		}
		return types.Bool
	case token.Eql, token.Neq:
		if !types.Comparable(lt, rt) {
			c.errorf(at, "invalid operation: mismatched types %s and %s for %s", lt, rt, op)
		}
		return types.Bool
	case token.Lss, token.Leq, token.Gtr, token.Geq:
		if !ordered(lt, rt) {
			c.errorf(at, "invalid operation: operator %s not defined on %s and %s", op, lt, rt)
		}
		return types.Bool
	}
	if types.IsUnknown(lt) || types.IsUnknown(rt) {
		return types.Unknown
	}
	ok := false
	switch op {
	case token.Add:
		ok = (types.IsNumeric(lt) && types.IsNumeric(rt)) || (types.IsString(lt) && types.IsString(rt))
	case token.Sub, token.Mul, token.Quo:
		ok = types.IsNumeric(lt) && types.IsNumeric(rt)
	case token.Rem, token.And, token.Or, token.Xor, token.AndNot, token.Shl, token.Shr:
		ok = types.IsInteger(lt) && types.IsInteger(rt)
	}
	if !ok {
		c.errorf(at, "invalid operation: operator %s not defined on %s and %s", op, lt, rt)
		return types.Unknown
	}
	return lt
}

func ordered(x, y types.Type) bool {
	if types.IsUnknown(x) || types.IsUnknown(y) {
		return true
	}
	return (types.IsNumeric(x) && types.IsNumeric(y)) || (types.IsString(x) && types.IsString(y))
}

// --- Calls -----------------------------------------------------------------

func (c *Context) call(x *ast.CallExpr) types.Type {
	switch fun := x.Fun.(type) {
	case *ast.Ident:
		sym, _ := c.Symbols.Lookup(fun.Name)
		if sym == nil { // external reference, not checked
			c.args(x.Args)
			return types.Unknown
		}
		sig, ok := sym.Signature()
		if !ok {
			c.args(x.Args)
			if !types.IsUnknown(sym.Type) {
				c.errorf(x, "cannot call non-function %s (type %s)", fun.Name, sym.Type)
			}
			return types.Unknown
		}
		return c.checkCall(x, fun.Name, sig)
	case *ast.SelectorExpr:
		pkg, imported := c.qualifier(fun)
		c.args(x.Args)
		if imported && c.imports[pkg] == "fmt" && printFuncs[fun.Sel.Name] {
			return types.Void
		}
		return types.Unknown
	}
	t := c.exprValue(x.Fun)
	if sig, ok := t.(types.Func); ok {
		return c.checkCall(x, exprString(x.Fun), sig)
	}
	c.args(x.Args)
	if !types.IsUnknown(t) {
		c.errorf(x, "cannot call non-function %s (type %s)", exprString(x.Fun), t)
	}
	return types.Unknown
}

// args types arguments of calls which are not checked against a signature.
func (c *Context) args(args []ast.Expr) {
	for _, a := range args {
		c.expr(a)
	}
}

// checkCall checks the arguments of a call against a signature and returns
// the result type.
func (c *Context) checkCall(x *ast.CallExpr, name string, sig types.Func) types.Type {
	var have []types.Type
	if len(x.Args) == 1 && len(sig.Params) > 1 {
		t := c.expr(x.Args[0])
		if m, ok := t.(types.Multiple); ok {
			have = m.Types
		} else {
			have = []types.Type{c.single(x.Args[0], t)}
		}
	} else {
		for _, a := range x.Args {
			have = append(have, c.exprValue(a))
		}
	}
	params := sig.Params
	fixed := len(params)
	if sig.Variadic && !x.Ellipsis {
		fixed--
	}
	if x.Ellipsis && !sig.Variadic {
		c.errorf(x, "cannot use ... in call to non-variadic %s", name)
	}
	if len(have) < fixed || (len(have) > fixed && !(sig.Variadic && !x.Ellipsis)) {
		c.errorf(x, "wrong number of arguments in call to %s: have %d, want %d", name, len(have), len(params))
		return result(sig)
	}
	for i, t := range have {
		var want types.Type
		if i < fixed {
			want = params[i]
		} else {
			want = types.Elem(params[len(params)-1])
		}
		if !types.AssignableTo(t, want) {
			at := x.Args[min(i, len(x.Args)-1)]
			c.errorf(at, "cannot use %s as %s in argument to %s", t, want, name)
		}
	}
	return result(sig)
}

// single reduces a type already inferred to a single value.
func (c *Context) single(x ast.Expr, t types.Type) types.Type {
	if t == types.Void {
		c.errorf(x, "%s (no value) used as value", exprString(x))
		return types.Unknown
	}
	return t
}

func result(sig types.Func) types.Type {
	if sig.Result == nil {
		return types.Void
	}
	return sig.Result
}

func (c *Context) builtin(x *ast.BuiltinCall) types.Type {
	argc := func(min, max int) bool {
		if len(x.Args) < min || len(x.Args) > max {
			want := fmt.Sprintf("%d", min)
			if max > min {
				want = fmt.Sprintf("%d to %d", min, max)
			}
			c.errorf(x, "wrong number of arguments in call to %s: have %d, want %s", x.Name, len(x.Args), want)
			return false
		}
		return true
	}
	argTypes := make([]types.Type, len(x.Args))
	for i, a := range x.Args {
		argTypes[i] = c.exprValue(a)
	}
	switch x.Name {
	case token.Make:
		t := c.resolveType(x.TypeArg)
		switch t.(type) {
		case types.Slice:
			if len(x.Args) == 0 {
				c.errorf(x, "missing len argument to make(%s)", t)
			} else {
				argc(1, 2)
			}
		case types.Map:
			argc(0, 1)
		default:
			if !types.IsUnknown(t) {
				c.errorf(x, "cannot make %s; type must be slice or map", t)
			}
			return types.Unknown
		}
		for i, at := range argTypes {
			if !types.IsInteger(at) && !types.IsUnknown(at) {
				c.errorf(x.Args[i], "size argument to make must be integer, found %s", at)
			}
		}
		return t
	case token.Append:
		if len(x.Args) == 0 {
			c.errorf(x, "not enough arguments in call to append")
			return types.Unknown
		}
		st := argTypes[0]
		s, ok := st.(types.Slice)
		if !ok {
			if !types.IsUnknown(st) {
				c.errorf(x.Args[0], "first argument to append must be a slice, found %s", st)
			}
			return types.Unknown
		}
		if x.Ellipsis {
			if argc(2, 2) && !types.AssignableTo(argTypes[1], st) {
				c.errorf(x.Args[1], "cannot use %s as %s in argument to append", argTypes[1], st)
			}
			return st
		}
		for i, at := range argTypes[1:] {
			if !types.AssignableTo(at, s.Elem) {
				c.errorf(x.Args[i+1], "cannot use %s as %s in argument to append", at, s.Elem)
			}
		}
		return st
	case token.Len:
		if argc(1, 1) {
			switch t := argTypes[0]; t.(type) {
			case types.Slice, types.Array, types.Map:
			default:
				if !types.IsString(t) && !types.IsUnknown(t) {
					c.errorf(x.Args[0], "invalid argument %s (type %s) for len", exprString(x.Args[0]), t)
				}
			}
		}
		return types.Int
	case token.Delete:
		if argc(2, 2) {
			m, ok := argTypes[0].(types.Map)
			if !ok {
				if !types.IsUnknown(argTypes[0]) {
					c.errorf(x.Args[0], "first argument to delete must be a map, found %s", argTypes[0])
				}
			} else if !types.AssignableTo(argTypes[1], m.Key) {
				c.errorf(x.Args[1], "cannot use %s as %s in argument to delete", argTypes[1], m.Key)
			}
		}
		return types.Void
	}
	return types.Unknown
}

// --- Index, slice and composite literals -----------------------------------

// index types x[i] for an operand of type xt.
func (c *Context) index(x *ast.IndexExpr, xt types.Type) types.Type {
	it := c.exprValue(x.Index)
	integerIndex := func() {
		if !types.IsInteger(it) && !types.IsUnknown(it) {
			c.errorf(x.Index, "index must be integer, found %s", it)
		}
	}
	switch t := xt.(type) {
	case types.Slice:
		integerIndex()
		return t.Elem
	case types.Array:
		integerIndex()
		return t.Elem
	case types.Map:
		if !types.AssignableTo(it, t.Key) {
			c.errorf(x.Index, "cannot use %s as %s in map index", it, t.Key)
		}
		return t.Value
	}
	if types.IsString(xt) {
		integerIndex()
		return types.Byte
	}
	if !types.IsUnknown(xt) {
		c.errorf(x, "cannot index %s (type %s)", exprString(x.X), xt)
	}
	return types.Unknown
}

func (c *Context) slice(x *ast.SliceExpr) types.Type {
	xt := c.exprValue(x.X)
	for _, bound := range []ast.Expr{x.Low, x.High} {
		if bound == nil {
			continue
		}
		if t := c.exprValue(bound); !types.IsInteger(t) && !types.IsUnknown(t) {
			c.errorf(bound, "slice index must be integer, found %s", t)
		}
	}
	switch t := xt.(type) {
	case types.Slice:
		return t
	case types.Array:
		return types.Slice{Elem: t.Elem}
	}
	if types.IsString(xt) || types.IsUnknown(xt) {
		return xt
	}
	c.errorf(x, "cannot slice %s (type %s)", exprString(x.X), xt)
	return types.Unknown
}

// compositeLit checks the elements of a literal of type t. Inner literals
// with elided type get the element type of t.
func (c *Context) compositeLit(x *ast.CompositeLit, t types.Type) types.Type {
	var key, elem types.Type = types.Int, types.Unknown
	isMap := false
	switch t := t.(type) {
	case types.Slice:
		elem = t.Elem
	case types.Array:
		elem = t.Elem
		if t.Len >= 0 && int64(len(x.Elts)) > t.Len {
			c.errorf(x, "array index %d out of bounds [0:%d]", t.Len, t.Len)
		}
	case types.Map:
		key, elem, isMap = t.Key, t.Value, true
	default:
		if x.Type == nil && !types.IsUnknown(t) {
			c.errorf(x, "invalid composite literal type %s", t)
		}
		key = types.Unknown
	}
	for _, e := range x.Elts {
		if kv, ok := e.(*ast.KeyValueExpr); ok {
			kt := c.element(kv.Key, key)
			if !isMap && !types.IsInteger(kt) && !types.IsUnknown(kt) {
				c.errorf(kv.Key, "index must be integer, found %s", kt)
			}
			c.element(kv.Value, elem)
			continue
		}
		if isMap {
			c.errorf(e, "missing key in map literal")
		}
		c.element(e, elem)
	}
	return t
}

// element checks a literal element against the expected type and returns
// its type.
func (c *Context) element(e ast.Expr, want types.Type) types.Type {
	if lit, ok := e.(*ast.CompositeLit); ok && lit.Type == nil {
		return c.compositeLit(lit, want)
	}
	t := c.exprValue(e)
	if !types.AssignableTo(t, want) {
		c.errorf(e, "cannot use %s as %s in composite literal", t, want)
	}
	return t
}

// --- Printing --------------------------------------------------------------

// exprString renders an expression for messages.
func exprString(x ast.Expr) string {
	switch x := x.(type) {
	case *ast.Ident:
		return x.Name
	case *ast.BasicLit:
		return x.Lexeme
	case *ast.ParenExpr:
		return "(" + exprString(x.X) + ")"
	case *ast.UnaryExpr:
		return x.Op.String() + exprString(x.X)
	case *ast.BinaryExpr:
		return exprString(x.X) + " " + x.Op.String() + " " + exprString(x.Y)
	case *ast.SelectorExpr:
		return exprString(x.X) + "." + x.Sel.Name
	case *ast.IndexExpr:
		return exprString(x.X) + "[" + exprString(x.Index) + "]"
	case *ast.SliceExpr:
		return exprString(x.X) + "[:]"
	case *ast.CallExpr:
		return exprString(x.Fun) + "(" + exprListString(x.Args) + ")"
	case *ast.BuiltinCall:
		return x.Name.String() + "(" + exprListString(x.Args) + ")"
	case *ast.ConversionExpr:
		return "conversion"
	case *ast.CompositeLit:
		return "composite literal"
	}
	return "expression"
}

func exprListString(list []ast.Expr) string {
	s := make([]string, len(list))
	for i, x := range list {
		s[i] = exprString(x)
	}
	return strings.Join(s, ", ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
