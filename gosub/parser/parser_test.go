package parser

import (
	"strings"
	"testing"

	"github.com/npillmayer/gofront/gosub/ast"
	"github.com/npillmayer/gofront/gosub/diag"
	"github.com/npillmayer/gofront/gosub/lexer"
	"github.com/npillmayer/gofront/gosub/token"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func parse(t *testing.T, src string) (*ast.File, diag.List) {
	toks, lexerrs := lexer.Tokenize(src)
	if len(lexerrs) > 0 {
		t.Fatalf("unexpected lexical errors: %v", lexerrs)
	}
	return ParseFile(toks)
}

const program = `package main

import (
	"fmt"
	str "strings"
)

const (
	A = iota
	B
	C
)

var x, y int = 1, 2
var grid = [][]int{{1, 2}, {3}}

func divmod(a, b int) (q, r int) {
	q, r = a/b, a%b
	return
}

func sum(label string, xs ...int) int {
	total := 0
	for _, v := range xs {
		total += v
	}
	for i := 0; i < len(xs); i++ {
		if xs[i] < 0 {
			continue
		} else if xs[i] == 0 {
			break
		}
	}
	m := make(map[string][]int)
	m[label] = append(m[label], xs...)
	delete(m, label)
	return total
}

func main() {
	var p *int = &x
	*p = 3
	s := str.ToUpper("go")[1:]
	switch n := len(s); {
	case n > 1:
		fmt.Println(s, float64(n))
	default:
	}
	for x < 10 {
		x++
	}
	for {
		break
	}
}
`

func TestParseProgram(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.parser")
	defer teardown()
	//
	file, errs := parse(t, program)
	if len(errs) != 0 {
		t.Fatalf("expected no syntax errors, have %v", errs)
	}
	if file.Package == nil || file.Package.Name != "main" {
		t.Errorf("expected package main")
	}
	if len(file.Imports) != 2 || file.Imports[1].Name == nil || file.Imports[1].Path != "strings" {
		t.Errorf("expected 2 imports, the second with alias, have %v", file.Imports)
	}
	if len(file.Decls) != 8 { // 3 const specs, 2 var decls, 3 funcs
		t.Fatalf("expected 8 declarations, have %d", len(file.Decls))
	}
	b := file.Decls[1].(*ast.VarDecl)
	if !b.Const || b.Iota != 1 || len(b.Values) != 1 {
		t.Errorf("expected implicit repetition for B with iota 1, have %+v", b)
	}
	divmod := file.Decls[5].(*ast.FuncDecl)
	if len(divmod.Params) != 1 || len(divmod.Params[0].Names) != 2 || !divmod.NamedResults() {
		t.Errorf("expected grouped parameters and named results for divmod")
	}
	sum := file.Decls[6].(*ast.FuncDecl)
	if !sum.Params[1].Variadic {
		t.Errorf("expected variadic parameter xs")
	}
	if _, ok := sum.Body.List[1].(*ast.RangeStmt); !ok {
		t.Errorf("expected range statement, have %T", sum.Body.List[1])
	}
}

func TestPrecedence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.parser")
	defer teardown()
	//
	file, errs := parse(t, "package p\nvar b = 1 + 2 * 3 == 7 || !ok && -x < y\n")
	if len(errs) != 0 {
		t.Fatalf("expected no syntax errors, have %v", errs)
	}
	x := file.Decls[0].(*ast.VarDecl).Values[0]
	or, ok := x.(*ast.BinaryExpr)
	if !ok || or.Op != token.LOr {
		t.Fatalf("expected || at the root, have %v", x)
	}
	eq := or.X.(*ast.BinaryExpr)
	if eq.Op != token.Eql {
		t.Errorf("expected == below ||, have %s", eq.Op)
	}
	add := eq.X.(*ast.BinaryExpr)
	if add.Op != token.Add || add.Y.(*ast.BinaryExpr).Op != token.Mul {
		t.Errorf("expected 1 + (2 * 3)")
	}
	and := or.Y.(*ast.BinaryExpr)
	if and.Op != token.LAnd {
		t.Errorf("expected && as right operand of ||, have %s", and.Op)
	}
	if not, ok := and.X.(*ast.UnaryExpr); !ok || not.Op != token.Not {
		t.Errorf("expected unary ! to bind tighter than &&")
	}
	lss := and.Y.(*ast.BinaryExpr)
	if neg, ok := lss.X.(*ast.UnaryExpr); !ok || neg.Op != token.Sub {
		t.Errorf("expected unary - to bind tighter than <")
	}
}

func TestLeftAssociativity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.parser")
	defer teardown()
	//
	file, _ := parse(t, "package p\nvar d = a - b - c\n")
	sub := file.Decls[0].(*ast.VarDecl).Values[0].(*ast.BinaryExpr)
	if _, ok := sub.X.(*ast.BinaryExpr); !ok {
		t.Errorf("expected (a - b) - c")
	}
}

func TestNestedUnary(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.parser")
	defer teardown()
	//
	file, errs := parse(t, "package p\nvar v = - *&x\n")
	if len(errs) != 0 {
		t.Fatalf("expected no syntax errors, have %v", errs)
	}
	neg := file.Decls[0].(*ast.VarDecl).Values[0].(*ast.UnaryExpr)
	deref := neg.X.(*ast.UnaryExpr)
	if deref.Op != token.Mul || deref.X.(*ast.UnaryExpr).Op != token.And {
		t.Errorf("expected -(*(&x))")
	}
}

func TestRecoveryAtStatementBoundary(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.parser")
	defer teardown()
	//
	src := "package main\nfunc main() {\n\tx := 5 + / 3\n\ty := 2\n}\n"
	file, errs := parse(t, src)
	if len(errs) != 1 {
		t.Fatalf("expected 1 syntax error, have %v", errs)
	}
	if errs[0].Line() != 3 || !strings.Contains(errs[0].Message, "unexpected /") {
		t.Errorf("unexpected diagnostic %v", errs[0])
	}
	body := file.Decls[0].(*ast.FuncDecl).Body
	if len(body.List) != 1 {
		t.Fatalf("expected statement after error to be parsed, have %d statements", len(body.List))
	}
	if as, ok := body.List[0].(*ast.AssignStmt); !ok || as.Lhs[0].(*ast.Ident).Name != "y" {
		t.Errorf("expected y := 2, have %v", body.List[0])
	}
}

func TestUnexpectedEndOfInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.parser")
	defer teardown()
	//
	_, errs := parse(t, "package main\nfunc main() {\n\tif x {\n\t\tx = (1 +")
	if len(errs) != 1 || errs[0].Message != "unexpected end of input" {
		t.Errorf("expected a single 'unexpected end of input', have %v", errs)
	}
}

func TestUnclosedBodyKeepsFunction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.parser")
	defer teardown()
	//
	file, errs := parse(t, "package main\nfunc main() {\n\tx = 5\n\tswitch {\n\tcase true:\n\t\tx = 6\n")
	if len(errs) != 1 || errs[0].Message != "unexpected end of input" {
		t.Errorf("expected a single 'unexpected end of input', have %v", errs)
	}
	if len(file.Decls) != 1 {
		t.Fatalf("expected function main to be kept, have %d declarations", len(file.Decls))
	}
	fn, ok := file.Decls[0].(*ast.FuncDecl)
	if !ok || fn.Name.Name != "main" || fn.Body == nil {
		t.Fatalf("expected partial function main, have %#v", file.Decls[0])
	}
	if len(fn.Body.List) != 2 {
		t.Errorf("expected 2 statements in body of main, have %d", len(fn.Body.List))
	}
}

func TestStrayBraces(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.parser")
	defer teardown()
	//
	src := "package main\n}\nfunc f() {}\n{ x := 1 }\nfunc g() {}\n"
	file, errs := parse(t, src)
	if len(errs) != 2 {
		t.Errorf("expected 2 syntax errors, have %v", errs)
	}
	if len(file.Decls) != 2 {
		t.Errorf("expected both functions to be parsed, have %d declarations", len(file.Decls))
	}
}

func TestMissingPackageClause(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.parser")
	defer teardown()
	//
	file, errs := parse(t, "func main() {}\n")
	if len(errs) != 1 || !strings.Contains(errs[0].Message, "expected package") {
		t.Errorf("expected missing package clause to be reported, have %v", errs)
	}
	if len(file.Decls) != 0 {
		t.Errorf("expected function to be skipped with the package clause")
	}
}

func TestStatementForms(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.parser")
	defer teardown()
	//
	src := `package main
func main() {
	a, b = b, a
	a <<= 2
	xs[i] = 1
	*p = 2
	for range xs {
	}
	for k, v = range m {
	}
	switch a {
	case 1, 2:
		a--
	}
	if v := f(); v {
	}
	var (
		c int
		d = "s"
	)
}
`
	file, errs := parse(t, src)
	if len(errs) != 0 {
		t.Fatalf("expected no syntax errors, have %v", errs)
	}
	list := file.Decls[0].(*ast.FuncDecl).Body.List
	if len(list) != 10 {
		t.Fatalf("expected 10 statements, have %d", len(list))
	}
	if as := list[1].(*ast.AssignStmt); as.Tok != token.ShlAssign {
		t.Errorf("expected compound assignment <<=, have %s", as.Tok)
	}
	if r := list[4].(*ast.RangeStmt); r.Key != nil || r.Tok != token.Illegal {
		t.Errorf("expected range without iteration variables")
	}
	if r := list[5].(*ast.RangeStmt); r.Value == nil || r.Tok != token.Assign {
		t.Errorf("expected range with assignment to k, v")
	}
	if sw := list[6].(*ast.SwitchStmt); len(sw.Body) != 1 || len(sw.Body[0].List) != 2 {
		t.Errorf("expected case clause with 2 values")
	}
	if is := list[7].(*ast.IfStmt); is.Init == nil {
		t.Errorf("expected if statement with init statement")
	}
	if _, ok := list[9].(*ast.DeclStmt); !ok {
		t.Errorf("expected grouped local declaration to be flattened, have %T", list[9])
	}
}

func TestCompositeLiteralsAndConversions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.parser")
	defer teardown()
	//
	src := "package p\nvar m = map[string][]int{\"a\": {1, 2}, \"b\": nil}\nvar bs = []byte(\"x\")\nvar n = int(2.5)\n"
	file, errs := parse(t, src)
	if len(errs) != 0 {
		t.Fatalf("expected no syntax errors, have %v", errs)
	}
	lit := file.Decls[0].(*ast.VarDecl).Values[0].(*ast.CompositeLit)
	kv := lit.Elts[0].(*ast.KeyValueExpr)
	if inner, ok := kv.Value.(*ast.CompositeLit); !ok || inner.Type != nil || len(inner.Elts) != 2 {
		t.Errorf("expected elided inner literal {1, 2}")
	}
	if _, ok := file.Decls[1].(*ast.VarDecl).Values[0].(*ast.ConversionExpr); !ok {
		t.Errorf("expected conversion []byte(...)")
	}
	if _, ok := file.Decls[2].(*ast.VarDecl).Values[0].(*ast.ConversionExpr); !ok {
		t.Errorf("expected conversion int(...)")
	}
}

func TestExpressionTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.parser")
	defer teardown()
	//
	lrgen := ExpressionTables()
	if lrgen.HasConflicts {
		t.Errorf("expected operator precedence to resolve all conflicts, have %v", lrgen.Conflicts)
	}
	if lrgen.CFSM().StateCount() < 2 {
		t.Errorf("expected a non-trivial CFSM")
	}
}

func TestVerifySyntax(t *testing.T) {
	n, err := VerifySyntax()
	if err != nil {
		t.Fatal(err)
	}
	if n < 50 {
		t.Errorf("expected EBNF with at least 50 productions, have %d", n)
	}
}
