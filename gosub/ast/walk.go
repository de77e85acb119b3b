package ast

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children
// of node with the visitor w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	switch n := node.(type) {
	case *File:
		if n.Package != nil {
			Walk(v, n.Package)
		}
		for _, imp := range n.Imports {
			Walk(v, imp)
		}
		for _, d := range n.Decls {
			Walk(v, d)
		}
	case *ImportSpec:
		if n.Name != nil {
			Walk(v, n.Name)
		}
	case *VarDecl:
		walkIdents(v, n.Names)
		if n.Type != nil {
			Walk(v, n.Type)
		}
		walkExprs(v, n.Values)
	case *Field:
		walkIdents(v, n.Names)
		Walk(v, n.Type)
	case *FuncDecl:
		Walk(v, n.Name)
		for _, f := range n.Params {
			Walk(v, f)
		}
		for _, f := range n.Results {
			Walk(v, f)
		}
		if n.Body != nil {
			Walk(v, n.Body)
		}

	case *NamedType:
		if n.Pkg != nil {
			Walk(v, n.Pkg)
		}
		Walk(v, n.Name)
	case *ArrayType:
		walkOpt(v, n.Len)
		Walk(v, n.Elem)
	case *SliceType:
		Walk(v, n.Elem)
	case *MapType:
		Walk(v, n.Key)
		Walk(v, n.Value)
	case *PointerType:
		Walk(v, n.Elem)

	case *DeclStmt:
		Walk(v, n.Decl)
	case *ExprStmt:
		Walk(v, n.X)
	case *AssignStmt:
		walkExprs(v, n.Lhs)
		walkExprs(v, n.Rhs)
	case *IncDecStmt:
		Walk(v, n.X)
	case *BlockStmt:
		walkStmts(v, n.List)
	case *IfStmt:
		walkOpt(v, n.Init)
		Walk(v, n.Cond)
		Walk(v, n.Body)
		walkOpt(v, n.Else)
	case *ForStmt:
		walkOpt(v, n.Init)
		walkOpt(v, n.Cond)
		walkOpt(v, n.Post)
		Walk(v, n.Body)
	case *RangeStmt:
		walkOpt(v, n.Key)
		walkOpt(v, n.Value)
		Walk(v, n.X)
		Walk(v, n.Body)
	case *SwitchStmt:
		walkOpt(v, n.Init)
		walkOpt(v, n.Tag)
		for _, cc := range n.Body {
			Walk(v, cc)
		}
	case *CaseClause:
		walkExprs(v, n.List)
		walkStmts(v, n.Body)
	case *ReturnStmt:
		walkExprs(v, n.Results)
	case *BranchStmt:
		// nothing to do

	case *Ident, *BasicLit:
		// nothing to do
	case *BinaryExpr:
		Walk(v, n.X)
		Walk(v, n.Y)
	case *UnaryExpr:
		Walk(v, n.X)
	case *ParenExpr:
		Walk(v, n.X)
	case *CallExpr:
		Walk(v, n.Fun)
		walkExprs(v, n.Args)
	case *SelectorExpr:
		Walk(v, n.X)
		Walk(v, n.Sel)
	case *IndexExpr:
		Walk(v, n.X)
		Walk(v, n.Index)
	case *SliceExpr:
		Walk(v, n.X)
		walkOpt(v, n.Low)
		walkOpt(v, n.High)
	case *CompositeLit:
		walkOpt(v, n.Type)
		walkExprs(v, n.Elts)
	case *KeyValueExpr:
		Walk(v, n.Key)
		Walk(v, n.Value)
	case *ConversionExpr:
		Walk(v, n.Type)
		Walk(v, n.X)
	case *BuiltinCall:
		walkOpt(v, n.TypeArg)
		walkExprs(v, n.Args)
	}
	v.Visit(nil)
}

// walkOpt walks optional children, which may be nil interfaces or typed nils.
func walkOpt(v Visitor, n Node) {
	if isNil(n) {
		return
	}
	Walk(v, n)
}

func isNil(n Node) bool {
	switch n := n.(type) {
	case nil:
		return true
	case *BlockStmt:
		return n == nil
	}
	return false
}

func walkIdents(v Visitor, list []*Ident) {
	for _, x := range list {
		Walk(v, x)
	}
}

func walkExprs(v Visitor, list []Expr) {
	for _, x := range list {
		Walk(v, x)
	}
}

func walkStmts(v Visitor, list []Stmt) {
	for _, x := range list {
		Walk(v, x)
	}
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses an AST in depth-first order: it starts by calling
// f(node); if f returns true, Inspect invokes f recursively for each of the
// non-nil children of node, followed by a call of f(nil).
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}
