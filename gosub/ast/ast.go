/*
Package ast declares the types used to represent syntax trees for the Go
subset.

Nodes fall into closed sets: declarations, statements, expressions and type
expressions. Every node knows the source position of its first token.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ast

import (
	"github.com/npillmayer/gofront/gosub/token"
)

// Node is implemented by all AST nodes.
type Node interface {
	Pos() token.Position
}

// Decl is a top-level or local declaration.
type Decl interface {
	Node
	declNode()
}

// Stmt is a statement.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression.
type Expr interface {
	Node
	exprNode()
}

// TypeExpr is a type as written in the source.
type TypeExpr interface {
	Node
	typeNode()
}

// --- Files and declarations ------------------------------------------------

// File is a translation unit.
type File struct {
	Package *Ident
	Imports []*ImportSpec
	Decls   []Decl
}

// Pos of a file is the position of its package name, if any.
func (f *File) Pos() token.Position {
	if f.Package == nil {
		return token.Position{}
	}
	return f.Package.NamePos
}

// ImportSpec is a single package import.
type ImportSpec struct {
	Name *Ident // alias, or nil
	Path string
	At   token.Position
}

// Pos is part of interface Node.
func (s *ImportSpec) Pos() token.Position { return s.At }

// VarDecl declares variables or constants. Values may be empty, in which case
// Type is set. Constants in a group may repeat the previous specification
// implicitly; the parser copies the repeated expressions and sets Iota.
type VarDecl struct {
	Names  []*Ident
	Type   TypeExpr // or nil
	Values []Expr   // or nil
	Const  bool
	Iota   int // value of iota within a const group
	At     token.Position
}

// Pos is part of interface Node.
func (d *VarDecl) Pos() token.Position { return d.At }

// Field is a named or anonymous parameter or result.
type Field struct {
	Names    []*Ident // or nil
	Type     TypeExpr
	Variadic bool // ...T
}

// Pos is part of interface Node.
func (f *Field) Pos() token.Position {
	if len(f.Names) > 0 {
		return f.Names[0].NamePos
	}
	return f.Type.Pos()
}

// FuncDecl is a function declaration.
type FuncDecl struct {
	Name    *Ident
	Params  []*Field
	Results []*Field
	Body    *BlockStmt // may be nil after syntax errors
	At      token.Position
}

// Pos is part of interface Node.
func (d *FuncDecl) Pos() token.Position { return d.At }

// NamedResults is true if the results of a function have names.
func (d *FuncDecl) NamedResults() bool {
	return len(d.Results) > 0 && len(d.Results[0].Names) > 0
}

func (*VarDecl) declNode()  {}
func (*FuncDecl) declNode() {}

// --- Type expressions ------------------------------------------------------

type (
	// NamedType is a type name, possibly qualified by a package (pkg.T).
	NamedType struct {
		Pkg  *Ident // or nil
		Name *Ident
	}

	// ArrayType is [Len]Elem.
	ArrayType struct {
		Len    Expr
		Elem   TypeExpr
		Lbrack token.Position
	}

	// SliceType is []Elem.
	SliceType struct {
		Elem   TypeExpr
		Lbrack token.Position
	}

	// MapType is map[Key]Value.
	MapType struct {
		Key   TypeExpr
		Value TypeExpr
		At    token.Position
	}

	// PointerType is *Elem.
	PointerType struct {
		Elem TypeExpr
		Star token.Position
	}
)

// Pos is part of interface Node.
func (t *NamedType) Pos() token.Position {
	if t.Pkg != nil {
		return t.Pkg.NamePos
	}
	return t.Name.NamePos
}

// Pos is part of interface Node.
func (t *ArrayType) Pos() token.Position { return t.Lbrack }

// Pos is part of interface Node.
func (t *SliceType) Pos() token.Position { return t.Lbrack }

// Pos is part of interface Node.
func (t *MapType) Pos() token.Position { return t.At }

// Pos is part of interface Node.
func (t *PointerType) Pos() token.Position { return t.Star }

func (*NamedType) typeNode()   {}
func (*ArrayType) typeNode()   {}
func (*SliceType) typeNode()   {}
func (*MapType) typeNode()     {}
func (*PointerType) typeNode() {}

// --- Statements ------------------------------------------------------------

type (
	// DeclStmt is a local var or const declaration.
	DeclStmt struct {
		Decl *VarDecl
	}

	// ExprStmt is an expression used as a statement, e.g. a call.
	ExprStmt struct {
		X Expr
	}

	// AssignStmt is an assignment or a short variable declaration.
	AssignStmt struct {
		Lhs   []Expr
		Tok   token.Kind // Assign, Define, or a compound assignment
		Rhs   []Expr
		TokAt token.Position
	}

	// IncDecStmt is x++ or x--.
	IncDecStmt struct {
		X   Expr
		Tok token.Kind
	}

	// BlockStmt is a braced list of statements.
	BlockStmt struct {
		List   []Stmt
		Lbrace token.Position
	}

	// IfStmt is an if statement; Else is nil, a *BlockStmt or an *IfStmt.
	IfStmt struct {
		Init Stmt // or nil
		Cond Expr
		Body *BlockStmt
		Else Stmt
		At   token.Position
	}

	// ForStmt is a for statement; any of Init, Cond and Post may be nil.
	ForStmt struct {
		Init Stmt
		Cond Expr
		Post Stmt
		Body *BlockStmt
		At   token.Position
	}

	// RangeStmt is a for statement with a range clause.
	RangeStmt struct {
		Key, Value Expr       // or nil
		Tok        token.Kind // Define, Assign, or Illegal if Key == nil
		X          Expr
		Body       *BlockStmt
		At         token.Position
	}

	// SwitchStmt is an expression switch; Tag may be nil.
	SwitchStmt struct {
		Init Stmt // or nil
		Tag  Expr
		Body []*CaseClause
		At   token.Position
	}

	// CaseClause is a case of a switch; List is nil for default.
	CaseClause struct {
		List []Expr
		Body []Stmt
		At   token.Position
	}

	// ReturnStmt returns from a function.
	ReturnStmt struct {
		Results []Expr
		At      token.Position
	}

	// BranchStmt is break or continue.
	BranchStmt struct {
		Tok token.Kind
		At  token.Position
	}
)

// Pos is part of interface Node.
func (s *DeclStmt) Pos() token.Position { return s.Decl.At }

// Pos is part of interface Node.
func (s *ExprStmt) Pos() token.Position { return s.X.Pos() }

// Pos is part of interface Node.
func (s *AssignStmt) Pos() token.Position { return s.Lhs[0].Pos() }

// Pos is part of interface Node.
func (s *IncDecStmt) Pos() token.Position { return s.X.Pos() }

// Pos is part of interface Node.
func (s *BlockStmt) Pos() token.Position { return s.Lbrace }

// Pos is part of interface Node.
func (s *IfStmt) Pos() token.Position { return s.At }

// Pos is part of interface Node.
func (s *ForStmt) Pos() token.Position { return s.At }

// Pos is part of interface Node.
func (s *RangeStmt) Pos() token.Position { return s.At }

// Pos is part of interface Node.
func (s *SwitchStmt) Pos() token.Position { return s.At }

// Pos is part of interface Node.
func (s *CaseClause) Pos() token.Position { return s.At }

// Pos is part of interface Node.
func (s *ReturnStmt) Pos() token.Position { return s.At }

// Pos is part of interface Node.
func (s *BranchStmt) Pos() token.Position { return s.At }

func (*DeclStmt) stmtNode()   {}
func (*ExprStmt) stmtNode()   {}
func (*AssignStmt) stmtNode() {}
func (*IncDecStmt) stmtNode() {}
func (*BlockStmt) stmtNode()  {}
func (*IfStmt) stmtNode()     {}
func (*ForStmt) stmtNode()    {}
func (*RangeStmt) stmtNode()  {}
func (*SwitchStmt) stmtNode() {}
func (*CaseClause) stmtNode() {}
func (*ReturnStmt) stmtNode() {}
func (*BranchStmt) stmtNode() {}

// --- Expressions -----------------------------------------------------------

type (
	// Ident is an identifier.
	Ident struct {
		Name    string
		NamePos token.Position
	}

	// BasicLit is a literal of basic type, including nil.
	BasicLit struct {
		Kind   token.Kind // Int, Float, String, Rune, Bool or Nil
		Value  interface{}
		Lexeme string
		At     token.Position
	}

	// BinaryExpr is X Op Y.
	BinaryExpr struct {
		X    Expr
		Op   token.Kind
		Y    Expr
		OpAt token.Position
	}

	// UnaryExpr is Op X.
	UnaryExpr struct {
		Op token.Kind
		X  Expr
		At token.Position
	}

	// ParenExpr is (X).
	ParenExpr struct {
		X      Expr
		Lparen token.Position
	}

	// CallExpr is Fun(Args), with Fun an identifier or selector.
	CallExpr struct {
		Fun      Expr
		Args     []Expr
		Ellipsis bool // last argument is spread with ...
	}

	// SelectorExpr is X.Sel.
	SelectorExpr struct {
		X   Expr
		Sel *Ident
	}

	// IndexExpr is X[Index].
	IndexExpr struct {
		X     Expr
		Index Expr
	}

	// SliceExpr is X[Low:High], with optional bounds.
	SliceExpr struct {
		X         Expr
		Low, High Expr
	}

	// CompositeLit is Type{Elts}. Type is nil for elided inner literals.
	CompositeLit struct {
		Type   TypeExpr
		Elts   []Expr
		Lbrace token.Position
	}

	// KeyValueExpr is Key: Value within composite literals.
	KeyValueExpr struct {
		Key   Expr
		Value Expr
	}

	// ConversionExpr is Type(X).
	ConversionExpr struct {
		Type TypeExpr
		X    Expr
	}

	// BuiltinCall is a call of make, append, len or delete. For make, the
	// first argument is given as TypeArg.
	BuiltinCall struct {
		Name     token.Kind
		TypeArg  TypeExpr // make only
		Args     []Expr
		Ellipsis bool // append(s, t...)
		At       token.Position
	}
)

// Pos is part of interface Node.
func (x *Ident) Pos() token.Position { return x.NamePos }

// Pos is part of interface Node.
func (x *BasicLit) Pos() token.Position { return x.At }

// Pos is part of interface Node.
func (x *BinaryExpr) Pos() token.Position { return x.X.Pos() }

// Pos is part of interface Node.
func (x *UnaryExpr) Pos() token.Position { return x.At }

// Pos is part of interface Node.
func (x *ParenExpr) Pos() token.Position { return x.Lparen }

// Pos is part of interface Node.
func (x *CallExpr) Pos() token.Position { return x.Fun.Pos() }

// Pos is part of interface Node.
func (x *SelectorExpr) Pos() token.Position { return x.X.Pos() }

// Pos is part of interface Node.
func (x *IndexExpr) Pos() token.Position { return x.X.Pos() }

// Pos is part of interface Node.
func (x *SliceExpr) Pos() token.Position { return x.X.Pos() }

// Pos is part of interface Node.
func (x *CompositeLit) Pos() token.Position {
	if x.Type != nil {
		return x.Type.Pos()
	}
	return x.Lbrace
}

// Pos is part of interface Node.
func (x *KeyValueExpr) Pos() token.Position { return x.Key.Pos() }

// Pos is part of interface Node.
func (x *ConversionExpr) Pos() token.Position { return x.Type.Pos() }

// Pos is part of interface Node.
func (x *BuiltinCall) Pos() token.Position { return x.At }

func (*Ident) exprNode()          {}
func (*BasicLit) exprNode()       {}
func (*BinaryExpr) exprNode()     {}
func (*UnaryExpr) exprNode()      {}
func (*ParenExpr) exprNode()      {}
func (*CallExpr) exprNode()       {}
func (*SelectorExpr) exprNode()   {}
func (*IndexExpr) exprNode()      {}
func (*SliceExpr) exprNode()      {}
func (*CompositeLit) exprNode()   {}
func (*KeyValueExpr) exprNode()   {}
func (*ConversionExpr) exprNode() {}
func (*BuiltinCall) exprNode()    {}
