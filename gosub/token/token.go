/*
Package token defines the tokens of the Go subset understood by gofront.

Token kinds form a closed enumeration. Every kind belongs to exactly one
category: identifier, keyword, literal, operator or delimiter. The builtins
make, append, len, delete and nil are reserved words of the subset and
therefore belong to the keyword category.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package token

import (
	"encoding/json"
	"fmt"

	"github.com/npillmayer/gofront"
	"github.com/npillmayer/gofront/lr/scanner"
)

// Kind is the set of lexical token kinds. Kind values are used as token
// types (gofront.TokType) by scanners and parsers.
type Kind int

// EOF is the end-of-input kind, identical to the scanner package's EOF.
const EOF Kind = scanner.EOF

// The list of tokens.
const (
	Illegal Kind = iota

	literalBeg
	Ident  // main
	Int    // 12345, 0x1F
	Float  // 123.45, 1e6
	String // "abc", `abc`
	Rune   // 'a'
	Bool   // true, false
	literalEnd

	operatorBeg
	Add    // +
	Sub    // -
	Mul    // *
	Quo    // /
	Rem    // %
	And    // &
	Or     // |
	Xor    // ^
	Shl    // <<
	Shr    // >>
	AndNot // &^

	AddAssign    // +=
	SubAssign    // -=
	MulAssign    // *=
	QuoAssign    // /=
	RemAssign    // %=
	AndAssign    // &=
	OrAssign     // |=
	XorAssign    // ^=
	ShlAssign    // <<=
	ShrAssign    // >>=
	AndNotAssign // &^=

	LAnd     // &&
	LOr      // ||
	Arrow    // <-
	Inc      // ++
	Dec      // --
	Eql      // ==
	Lss      // <
	Gtr      // >
	Assign   // =
	Not      // !
	Neq      // !=
	Leq      // <=
	Geq      // >=
	Define   // :=
	Ellipsis // ...
	operatorEnd

	delimiterBeg
	LParen    // (
	LBrack    // [
	LBrace    // {
	Comma     // ,
	Period    // .
	RParen    // )
	RBrack    // ]
	RBrace    // }
	Semicolon // ;
	Colon     // :
	delimiterEnd

	keywordBeg
	Break
	Case
	Chan
	Const
	Continue
	Default
	Defer
	Else
	Fallthrough
	For
	Func
	Go
	Goto
	If
	Import
	Interface
	Map
	Package
	Range
	Return
	Select
	Struct
	Switch
	Type
	Var

	Make
	Append
	Len
	Delete
	Nil
	keywordEnd
)

var tokens = [...]string{
	Illegal: "ILLEGAL",

	Ident:  "IDENT",
	Int:    "INT",
	Float:  "FLOAT",
	String: "STRING",
	Rune:   "RUNE",
	Bool:   "BOOL",

	Add:    "+",
	Sub:    "-",
	Mul:    "*",
	Quo:    "/",
	Rem:    "%",
	And:    "&",
	Or:     "|",
	Xor:    "^",
	Shl:    "<<",
	Shr:    ">>",
	AndNot: "&^",

	AddAssign:    "+=",
	SubAssign:    "-=",
	MulAssign:    "*=",
	QuoAssign:    "/=",
	RemAssign:    "%=",
	AndAssign:    "&=",
	OrAssign:     "|=",
	XorAssign:    "^=",
	ShlAssign:    "<<=",
	ShrAssign:    ">>=",
	AndNotAssign: "&^=",

	LAnd:     "&&",
	LOr:      "||",
	Arrow:    "<-",
	Inc:      "++",
	Dec:      "--",
	Eql:      "==",
	Lss:      "<",
	Gtr:      ">",
	Assign:   "=",
	Not:      "!",
	Neq:      "!=",
	Leq:      "<=",
	Geq:      ">=",
	Define:   ":=",
	Ellipsis: "...",

	LParen:    "(",
	LBrack:    "[",
	LBrace:    "{",
	Comma:     ",",
	Period:    ".",
	RParen:    ")",
	RBrack:    "]",
	RBrace:    "}",
	Semicolon: ";",
	Colon:     ":",

	Break:       "break",
	Case:        "case",
	Chan:        "chan",
	Const:       "const",
	Continue:    "continue",
	Default:     "default",
	Defer:       "defer",
	Else:        "else",
	Fallthrough: "fallthrough",
	For:         "for",
	Func:        "func",
	Go:          "go",
	Goto:        "goto",
	If:          "if",
	Import:      "import",
	Interface:   "interface",
	Map:         "map",
	Package:     "package",
	Range:       "range",
	Return:      "return",
	Select:      "select",
	Struct:      "struct",
	Switch:      "switch",
	Type:        "type",
	Var:         "var",

	Make:   "make",
	Append: "append",
	Len:    "len",
	Delete: "delete",
	Nil:    "nil",
}

// String returns the string corresponding to the token kind. For operators,
// delimiters and keywords the string is the actual token character sequence.
func (k Kind) String() string {
	if k == EOF {
		return "EOF"
	}
	if 0 <= k && k < Kind(len(tokens)) && tokens[k] != "" {
		return tokens[k]
	}
	return fmt.Sprintf("token(%d)", int(k))
}

// TokType returns k as a parser token type.
func (k Kind) TokType() gofront.TokType {
	return gofront.TokType(k)
}

// IsLiteral is true for identifiers and basic literals.
func (k Kind) IsLiteral() bool { return literalBeg < k && k < literalEnd }

// IsOperator is true for operator kinds.
func (k Kind) IsOperator() bool { return operatorBeg < k && k < operatorEnd }

// IsDelimiter is true for delimiter kinds.
func (k Kind) IsDelimiter() bool { return delimiterBeg < k && k < delimiterEnd }

// IsKeyword is true for reserved words.
func (k Kind) IsKeyword() bool { return keywordBeg < k && k < keywordEnd }

// IsAssignOp is true for '=' and the compound assignment operators.
func (k Kind) IsAssignOp() bool {
	return k == Assign || (AddAssign <= k && k <= AndNotAssign)
}

// BaseOp returns the binary operator of a compound assignment, e.g. Add for
// AddAssign. For all other kinds it returns Illegal.
func (k Kind) BaseOp() Kind {
	if AddAssign <= k && k <= AndNotAssign {
		return Add + (k - AddAssign)
	}
	return Illegal
}

// --- Categories ------------------------------------------------------------

// Category groups token kinds.
type Category int

// Token categories
const (
	NoCategory Category = iota
	Identifier
	Keyword
	Literal
	Operator
	Delimiter
)

func (c Category) String() string {
	switch c {
	case Identifier:
		return "identifier"
	case Keyword:
		return "keyword"
	case Literal:
		return "literal"
	case Operator:
		return "operator"
	case Delimiter:
		return "delimiter"
	}
	return "none"
}

// Category returns the category of a token kind.
func (k Kind) Category() Category {
	switch {
	case k == Ident:
		return Identifier
	case k.IsLiteral():
		return Literal
	case k.IsOperator():
		return Operator
	case k.IsDelimiter():
		return Delimiter
	case k.IsKeyword():
		return Keyword
	}
	return NoCategory
}

// --- Tables for scanners ---------------------------------------------------

var keywords map[string]int

func init() {
	keywords = make(map[string]int, keywordEnd-keywordBeg)
	for k := keywordBeg + 1; k < keywordEnd; k++ {
		keywords[tokens[k]] = int(k)
	}
}

// Lookup maps an identifier to its keyword kind or Ident.
func Lookup(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return Kind(k)
	}
	return Ident
}

// Punctuation returns the character sequences of all operators and delimiters,
// together with a table mapping them to their kinds.
func Punctuation() ([]string, map[string]int) {
	var lits []string
	ids := make(map[string]int)
	for _, r := range [][2]Kind{{operatorBeg, operatorEnd}, {delimiterBeg, delimiterEnd}} {
		for k := r[0] + 1; k < r[1]; k++ {
			lits = append(lits, tokens[k])
			ids[tokens[k]] = int(k)
		}
	}
	return lits, ids
}

// --- Tokens ----------------------------------------------------------------

// Position is a source position. Line and Column are 1-based; Column counts
// code points.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// IsValid is true for positions with a line number.
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a scanned token of the Go subset. Tokens are immutable.
type Token struct {
	kind   Kind
	lexeme string
	value  interface{}
	span   gofront.Span
	pos    Position
}

var _ gofront.Token = Token{}

// New creates a token.
func New(kind Kind, lexeme string, value interface{}, span gofront.Span, pos Position) Token {
	return Token{kind: kind, lexeme: lexeme, value: value, span: span, pos: pos}
}

// Kind returns the token's kind.
func (t Token) Kind() Kind { return t.kind }

// TokType is part of interface gofront.Token.
func (t Token) TokType() gofront.TokType { return gofront.TokType(t.kind) }

// Lexeme is part of interface gofront.Token.
func (t Token) Lexeme() string { return t.lexeme }

// Value is part of interface gofront.Token. Literal tokens carry their decoded
// value (int64, float64, string, rune or bool).
func (t Token) Value() interface{} { return t.value }

// Span is part of interface gofront.Token.
func (t Token) Span() gofront.Span { return t.span }

// Pos returns the token's line and column.
func (t Token) Pos() Position { return t.pos }

func (t Token) String() string {
	if t.kind == EOF {
		return fmt.Sprintf("<EOF@%s>", t.pos)
	}
	return fmt.Sprintf("<%s %q@%s>", t.kind, t.lexeme, t.pos)
}

type tokenJSON struct {
	Kind     string `json:"kind"`
	Category string `json:"category"`
	Lexeme   string `json:"lexeme"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// MarshalJSON encodes a token as {kind, category, lexeme, line, column}.
func (t Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(tokenJSON{
		Kind:     t.kind.String(),
		Category: t.kind.Category().String(),
		Lexeme:   t.lexeme,
		Line:     t.pos.Line,
		Column:   t.pos.Column,
	})
}
