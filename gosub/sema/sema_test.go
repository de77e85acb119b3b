package sema

import (
	"testing"

	"github.com/npillmayer/gofront/gosub/diag"
	"github.com/npillmayer/gofront/gosub/lexer"
	"github.com/npillmayer/gofront/gosub/parser"
	"github.com/npillmayer/gofront/gosub/symtab"
	"github.com/npillmayer/gofront/gosub/types"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyze(t *testing.T, src string) *Context {
	toks, lexerrs := lexer.Tokenize(src)
	require.Empty(t, lexerrs, "lexical errors")
	file, synerrs := parser.ParseFile(toks)
	require.Empty(t, synerrs, "syntax errors")
	return Analyze(file)
}

func messages(l diag.List) []string {
	m := make([]string, len(l))
	for i, d := range l {
		m[i] = d.Message
	}
	return m
}

func TestMinimalProgram(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.sema")
	defer teardown()
	//
	c := analyze(t, "package main\nfunc main() {}\n")
	assert.Empty(t, c.Errors)
	sym := c.Symbols.Globals().Resolve("main")
	require.NotNil(t, sym)
	assert.True(t, sym.IsFunc())
	assert.Equal(t, symtab.Global, sym.Kind)
	assert.Equal(t, "func()", sym.Type.String())
}

func TestUndeclaredAssignment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.sema")
	defer teardown()
	//
	c := analyze(t, "package main\nfunc main() {\n\tx = 5\n}\n")
	require.Len(t, c.Errors, 1)
	assert.Equal(t, "x not declared", c.Errors[0].Message)
	assert.Equal(t, 3, c.Errors[0].Line())
	assert.Equal(t, diag.Semantic, c.Errors[0].Kind)
}

func TestRedeclaration(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.sema")
	defer teardown()
	//
	c := analyze(t, "package main\nvar x int\nvar x string\n")
	require.Len(t, c.Errors, 1)
	assert.Equal(t, "x already declared", c.Errors[0].Message)
	assert.Equal(t, 3, c.Errors[0].Line())
	sym := c.Symbols.Globals().Resolve("x")
	require.NotNil(t, sym)
	assert.True(t, types.Identical(sym.Type, types.Int), "first declaration is kept")
	assert.Equal(t, 2, sym.Line)
}

func TestNonBooleanCondition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.sema")
	defer teardown()
	//
	c := analyze(t, "package main\nfunc main() {\n\tif 5 {\n\t}\n}\n")
	assert.Equal(t, []string{"condition must be bool, found int"}, messages(c.Errors))
	c = analyze(t, "package main\nfunc main() {\n\tfor 1 + 2 {\n\t}\n}\n")
	assert.Equal(t, []string{"condition must be bool, found int"}, messages(c.Errors))
}

func TestBreakOutsideLoop(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.sema")
	defer teardown()
	//
	c := analyze(t, "package main\nfunc main() {\n\tbreak\n}\n")
	assert.Equal(t, []string{"break used outside a loop"}, messages(c.Errors))
	c = analyze(t, "package main\nfunc main() {\n\tswitch {\n\tcase true:\n\t\tbreak\n\t}\n\tfor {\n\t\tcontinue\n\t}\n}\n")
	assert.Empty(t, c.Errors)
}

func TestUndeclaredDoesNotCascade(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.sema")
	defer teardown()
	//
	c := analyze(t, "package main\nfunc main() {\n\ty := z * 2 + 1\n\tif y > 3 {\n\t}\n}\n")
	assert.Equal(t, []string{"z not declared"}, messages(c.Errors))
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
	q, r := divmod(7, 2)
	fmt.Println(q+r, sum("a", 1, 2, 3), sum("b", grid[0]...))
	for x < 10 {
		x++
	}
}
`

func TestValidProgram(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.sema")
	defer teardown()
	//
	c := analyze(t, program)
	assert.Empty(t, c.Errors)
	assert.Empty(t, c.Advisories)
	b := c.Symbols.Globals().Resolve("B")
	require.NotNil(t, b)
	assert.True(t, b.IsConst)
	sig, ok := c.Symbols.Globals().Resolve("sum").Signature()
	require.True(t, ok)
	assert.True(t, sig.Variadic)
	assert.Equal(t, "func(string, ...int) int", sig.String())
}

func TestShadowingInBlocks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.sema")
	defer teardown()
	//
	src := "package main\nvar x int\nfunc main() {\n\tx := \"s\"\n\t{\n\t\tx := 1.5\n\t\t_ = x\n\t}\n\t_ = x\n}\n"
	c := analyze(t, src)
	assert.Empty(t, c.Errors)
	var kinds []symtab.ScopeKind
	for _, sc := range c.Symbols.Snapshot() {
		for _, sym := range sc.Symbols() {
			if sym.Name == "x" {
				kinds = append(kinds, sym.Kind)
			}
		}
	}
	assert.Equal(t, []symtab.ScopeKind{symtab.Global, symtab.Local, symtab.Local}, kinds)
}

func TestAssignmentRules(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.sema")
	defer teardown()
	//
	src := `package main
const k = 1
func main() {
	var s string = 1
	k = 2
	a := 1
	a := 2
	var f float64 = a
	a = f
	a = "x"
}
`
	c := analyze(t, src)
	assert.Equal(t, []string{
		"cannot use int value as string in declaration of s",
		"cannot assign to constant k",
		"a already declared",
		"cannot assign string to a of type int",
	}, messages(c.Errors))
}

func TestShortVarRedeclaration(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.sema")
	defer teardown()
	//
	for _, tc := range []struct {
		body string
		msgs []string
		line int
	}{
		{"x := 1\n\tx := \"s\"\n\t_ = x", []string{"x already declared"}, 4},
		{"x := 1\n\tx := 2\n\t_ = x", []string{"x already declared"}, 4},
		{"x := 1\n\tx, y := \"s\", 2\n\t_, _ = x, y", []string{"cannot assign string to x of type int"}, 4},
		{"x := 1\n\tx, y := 3, 2\n\t_, _ = x, y", []string{}, 0},
		{"_ := 1", []string{"no new variables on left side of :="}, 3},
		{"x := 1\n\tif true {\n\t\tx := \"s\"\n\t\t_ = x\n\t}\n\t_ = x", []string{}, 0},
		{"for i := 0; i < 2; i++ {\n\t}\n\ti := \"s\"\n\t_ = i", []string{}, 0},
		{"for i := 0; i < 2; i++ {\n\t}\n\ti = 3", []string{"i not declared"}, 5},
	} {
		c := analyze(t, "package main\nfunc main() {\n\t"+tc.body+"\n}\n")
		assert.Equal(t, tc.msgs, messages(c.Errors), tc.body)
		if len(tc.msgs) > 0 {
			assert.Equal(t, tc.line, c.Errors[0].Line(), tc.body)
		}
	}
}

func TestUnaryAndLogicalOperators(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.sema")
	defer teardown()
	//
	for _, tc := range []struct {
		stmt string
		msg  string // empty for no error
	}{
		{"_ = !b", ""},
		{"_ = !n", "operator ! not defined on n (type int)"},
		{"var m int = *n", "invalid indirect of n (type int)"},
		{"var p *int = &n", ""},
		{"var m int = *(&n)", ""},
		{"var q int = &n", "cannot use *int value as int in declaration of q"},
		{"_ = b && b || !b", ""},
		{"_ = n && b", "requires boolean operands, found int and bool"},
		{"_ = b || n", "requires boolean operands, found bool and int"},
		{"var c bool = n < 2 && b", ""},
		{"_ = b < b", "operator < not defined on bool and bool"},
		{"_ = \"a\" < \"b\"", ""},
	} {
		c := analyze(t, "package main\nfunc main() {\n\tn, b := 1, true\n\t_, _ = n, b\n\t"+tc.stmt+"\n}\n")
		if tc.msg == "" {
			assert.Empty(t, messages(c.Errors), tc.stmt)
			continue
		}
		if assert.Len(t, c.Errors, 1, tc.stmt) {
			assert.Contains(t, c.Errors[0].Message, tc.msg, tc.stmt)
			assert.Equal(t, 5, c.Errors[0].Line(), tc.stmt)
		}
	}
}

func TestReturns(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.sema")
	defer teardown()
	//
	src := `package main
func f() int {
	return "s"
}
func g() int {
	return
}
func h() {
	return 1
}
func two() (int, string) {
	return 1, "a"
}
func three() (int, string) {
	return two()
}
func pair() (int, int) {
	return 1
}
func triple() (int, int) {
	return 1, 2, 3
}
func main() {
	return
}
`
	c := analyze(t, src)
	assert.Equal(t, []string{
		"cannot return string from function f returning int",
		"missing return value in function g returning int",
		"too many return values in function h",
		"wrong number of return values in function pair: have int, want (int, int)",
		"wrong number of return values in function triple: have 3, want (int, int)",
	}, messages(c.Errors))
}

func TestCalls(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.sema")
	defer teardown()
	//
	src := `package main
import "fmt"
func add(a, b int) int {
	return a + b
}
func two() (int, string) {
	return 1, "a"
}
func pair() (int, int) {
	return 1, 2
}
func main() {
	_ = add(1)
	_ = add(1, "2")
	_ = later() + add(pair())
	foo(1)
	os.Exit(1)
	x := fmt.Println("a")
	y := two()
}
func later() int {
	return 1
}
`
	c := analyze(t, src)
	assert.Equal(t, []string{
		"wrong number of arguments in call to add: have 1, want 2",
		"cannot use string as int in argument to add",
		"os not declared",
		"fmt.Println(\"a\") (no value) used as value",
		"multiple-value two() in single-value context",
	}, messages(c.Errors))
}

func TestTruncatingConversionIsAdvisory(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.sema")
	defer teardown()
	//
	c := analyze(t, "package main\nvar n = int(2.5)\nvar s = string(rune(n))\nvar b = bool(n)\n")
	assert.Equal(t, []string{"cannot convert n (type int) to bool"}, messages(c.Errors))
	require.Len(t, c.Advisories, 1)
	assert.Equal(t, diag.Warning, c.Advisories[0].Severity)
	assert.Equal(t, 2, c.Advisories[0].Line())
}

func TestSwitchCases(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.sema")
	defer teardown()
	//
	src := `package main
func main() {
	n := 1
	switch n {
	case 1, 2:
	case "three":
	}
	switch {
	case n > 1:
	case n:
	default:
	}
}
`
	c := analyze(t, src)
	assert.Equal(t, []string{
		"invalid case \"three\" in switch (mismatched types string and int)",
		"condition must be bool, found int",
	}, messages(c.Errors))
}

func TestRangeAndBuiltins(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.sema")
	defer teardown()
	//
	src := `package main
func main() {
	m := map[string]int{"a": 1}
	for k, v := range m {
		var s string = k
		var i int = v
		_, _ = s, i
	}
	for i, r := range "abc" {
		var j int = i
		var c rune = r
		_, _ = j, c
	}
	xs := make([]int, 3)
	xs = append(xs, 4, 5)
	delete(m, 1)
	_ = len(7)
	for _, v := range 3.5 {
		_ = v
	}
}
`
	c := analyze(t, src)
	assert.Equal(t, []string{
		"cannot use int as string in argument to delete",
		"invalid argument 7 (type int) for len",
		"cannot range over 3.5 (type float64)",
	}, messages(c.Errors))
}

func TestIndependentContexts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.sema")
	defer teardown()
	//
	src := "package main\nvar x int\nvar x int\n"
	c1 := analyze(t, src)
	c2 := analyze(t, src)
	assert.Equal(t, messages(c1.Errors), messages(c2.Errors))
	assert.Len(t, c2.Errors, 1)
}
