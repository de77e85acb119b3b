package parser

import (
	"fmt"
	"strings"

	"golang.org/x/exp/ebnf"
)

// SyntaxStart is the start production of Syntax.
const SyntaxStart = "SourceFile"

// Syntax is the EBNF of the Go subset accepted by the parser, in the
// notation of the Go language specification. Productions with lower-case
// names are lexical. Statement separators are written explicitly; the lexer
// side inserts them at line ends.
const Syntax = `
SourceFile     = PackageClause ";" { ImportDecl ";" } { TopLevelDecl ";" } .
PackageClause  = "package" identifier .
ImportDecl     = "import" ( ImportSpec | "(" { ImportSpec ";" } ")" ) .
ImportSpec     = [ identifier ] string_lit .
TopLevelDecl   = Declaration | FuncDecl .
Declaration    = VarDecl | ConstDecl .
VarDecl        = "var" ( VarSpec | "(" { VarSpec ";" } ")" ) .
VarSpec        = IdentifierList ( Type [ "=" ExpressionList ] | "=" ExpressionList ) .
ConstDecl      = "const" ( ConstSpec | "(" { ConstSpec ";" } ")" ) .
ConstSpec      = IdentifierList [ [ Type ] "=" ExpressionList ] .
FuncDecl       = "func" identifier Parameters [ Result ] Block .
Result         = Parameters | Type .
Parameters     = "(" [ ParameterList [ "," ] ] ")" .
ParameterList  = ParameterDecl { "," ParameterDecl } .
ParameterDecl  = [ IdentifierList ] [ "..." ] Type .
IdentifierList = identifier { "," identifier } .

Type           = TypeName | ArrayType | SliceType | MapType | PointerType | "(" Type ")" .
TypeName       = identifier [ "." identifier ] .
ArrayType      = "[" Expression "]" Type .
SliceType      = "[" "]" Type .
MapType        = "map" "[" Type "]" Type .
PointerType    = "*" Type .

Block          = "{" StatementList "}" .
StatementList  = { Statement ";" } .
Statement      = Declaration | SimpleStmt | ReturnStmt | BreakStmt | ContinueStmt |
                 Block | IfStmt | SwitchStmt | ForStmt .
SimpleStmt     = EmptyStmt | ExpressionStmt | IncDecStmt | Assignment | ShortVarDecl .
EmptyStmt      = .
ExpressionStmt = Expression .
IncDecStmt     = Expression ( "++" | "--" ) .
Assignment     = ExpressionList assign_op ExpressionList .
ShortVarDecl   = IdentifierList ":=" ExpressionList .
ReturnStmt     = "return" [ ExpressionList ] .
BreakStmt      = "break" .
ContinueStmt   = "continue" .
IfStmt         = "if" [ SimpleStmt ";" ] Expression Block [ "else" ( IfStmt | Block ) ] .
SwitchStmt     = "switch" [ SimpleStmt ";" ] [ Expression ] "{" { CaseClause } "}" .
CaseClause     = ( "case" ExpressionList | "default" ) ":" StatementList .
ForStmt        = "for" [ Condition | ForClause | RangeClause ] Block .
Condition      = Expression .
ForClause      = [ SimpleStmt ] ";" [ Condition ] ";" [ SimpleStmt ] .
RangeClause    = [ ExpressionList ( "=" | ":=" ) ] "range" Expression .

ExpressionList = Expression { "," Expression } .
Expression     = UnaryExpr | Expression binary_op Expression .
UnaryExpr      = PrimaryExpr | unary_op UnaryExpr .
PrimaryExpr    = Operand | Conversion | BuiltinCall |
                 PrimaryExpr Selector | PrimaryExpr Index | PrimaryExpr Slice | PrimaryExpr Arguments .
Operand        = Literal | identifier | "(" Expression ")" .
Literal        = BasicLit | CompositeLit .
BasicLit       = int_lit | float_lit | rune_lit | string_lit | "true" | "false" | "nil" .
CompositeLit   = LiteralType LiteralValue .
LiteralType    = ArrayType | SliceType | MapType .
LiteralValue   = "{" [ ElementList [ "," ] ] "}" .
ElementList    = KeyedElement { "," KeyedElement } .
KeyedElement   = [ Element ":" ] Element .
Element        = Expression | LiteralValue .
Conversion     = Type "(" Expression [ "," ] ")" .
BuiltinCall    = "make" "(" Type { "," Expression } [ "," ] ")" |
                 ( "append" | "len" | "delete" ) Arguments .
Selector       = "." identifier .
Index          = "[" Expression "]" .
Slice          = "[" [ Expression ] ":" [ Expression ] "]" .
Arguments      = "(" [ ExpressionList [ "..." ] [ "," ] ] ")" .

binary_op      = "||" | "&&" | rel_op | add_op | mul_op .
rel_op         = "==" | "!=" | "<" | "<=" | ">" | ">=" .
add_op         = "+" | "-" | "|" | "^" .
mul_op         = "*" | "/" | "%" | "<<" | ">>" | "&" | "&^" .
unary_op       = "+" | "-" | "!" | "^" | "*" | "&" .
assign_op      = [ add_op | mul_op ] "=" .

identifier     = letter { letter | decimal_digit } .
letter         = "a" … "z" | "A" … "Z" | "_" .
decimal_digit  = "0" … "9" .
hex_digit      = "0" … "9" | "A" … "F" | "a" … "f" .
int_lit        = decimals | "0" ( "x" | "X" ) hex_digit { hex_digit } .
float_lit      = decimals "." decimals [ exponent ] | decimals exponent .
decimals       = decimal_digit { decimal_digit } .
exponent       = ( "e" | "E" ) [ "+" | "-" ] decimals .
string_lit     = raw_string_lit | interpreted_string_lit .
raw_string_lit = "\x60" { unicode_char } "\x60" .
interpreted_string_lit = "\"" { unicode_char } "\"" .
rune_lit       = "'" unicode_char { unicode_char } "'" .
unicode_char   = "\x00" … "\U0010FFFF" .
`

// VerifySyntax parses Syntax and checks it for consistency: every production
// used is defined, and every production is reachable from SyntaxStart.
// It returns the number of productions.
func VerifySyntax() (int, error) {
	g, err := ebnf.Parse("syntax.ebnf", strings.NewReader(Syntax))
	if err != nil {
		return 0, fmt.Errorf("parsing EBNF: %w", err)
	}
	if err := ebnf.Verify(g, SyntaxStart); err != nil {
		return len(g), fmt.Errorf("verifying EBNF: %w", err)
	}
	return len(g), nil
}
