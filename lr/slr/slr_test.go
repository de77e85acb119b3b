package slr

import (
	"testing"

	"github.com/npillmayer/gofront"
	"github.com/npillmayer/gofront/lr"
	"github.com/npillmayer/gofront/lr/scanner"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

const num = 10

func makeExprParser(t *testing.T) (*Parser, *lr.CFSMState) {
	b := lr.NewGrammarBuilder("Expr")
	b.Left("+", "-")
	b.Left("*")
	b.Right("UNARY")
	b.LHS("E").N("E").T("+", '+').N("E").End()
	b.LHS("E").N("E").T("-", '-').N("E").End()
	b.LHS("E").N("E").T("*", '*').N("E").End()
	b.LHS("E").T("-", '-').N("E").Prec("UNARY").End()
	b.LHS("E").T("n", num).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	lrgen := lr.NewTableGenerator(lr.Analysis(g))
	lrgen.CreateTables()
	if lrgen.HasConflicts {
		t.Fatalf("grammar has conflicts: %v", lrgen.Conflicts)
	}
	p := NewParser(g, lrgen.GotoTable(), lrgen.ActionTable())
	p.WithReducer(evaluate)
	return p, lrgen.CFSM().S0
}

// evaluate computes integer expressions
func evaluate(rule *lr.Rule, rhs []interface{}) interface{} {
	switch len(rhs) {
	case 1:
		return rhs[0].(gofront.Token).Value()
	case 2:
		return -rhs[1].(int)
	}
	x, y := rhs[0].(int), rhs[2].(int)
	switch rhs[1].(gofront.Token).Lexeme() {
	case "+":
		return x + y
	case "-":
		return x - y
	}
	return x * y
}

// tokens creates a token slice from a mini-language of single-digit numbers
// and single-character operators.
func tokens(input string) *scanner.SliceTokenizer {
	var toks []gofront.Token
	for i, c := range input {
		span := gofront.Span{uint64(i), uint64(i + 1)}
		if c >= '0' && c <= '9' {
			t := scanner.MakeDefaultToken(num, string(c), span)
			t.Val = int(c - '0')
			toks = append(toks, t)
			continue
		}
		toks = append(toks, scanner.MakeDefaultToken(gofront.TokType(c), string(c), span))
	}
	return scanner.FromTokens(toks)
}

func TestParseWithPrecedence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.lr")
	defer teardown()
	//
	p, S0 := makeExprParser(t)
	for _, tc := range []struct {
		input string
		value int
	}{
		{"1+2*3", 7},
		{"2*3+1", 7},
		{"9-4-3", 2},
		{"-2*3", -6},
		{"--5", 5},
		{"4", 4},
	} {
		accept, err := p.Parse(S0, tokens(tc.input))
		if err != nil || !accept {
			t.Errorf("%s: expected input to be accepted, have error %v", tc.input, err)
			continue
		}
		if v, ok := p.Value().(int); !ok || v != tc.value {
			t.Errorf("%s: expected value %d, have %v", tc.input, tc.value, p.Value())
		}
	}
}

func TestParseSyntaxError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.lr")
	defer teardown()
	//
	p, S0 := makeExprParser(t)
	accept, err := p.Parse(S0, tokens("1+*2"))
	if accept {
		t.Fatalf("expected input to be rejected")
	}
	serr, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("expected a syntax error, have %v", err)
	}
	if serr.Token.Lexeme() != "*" {
		t.Errorf("expected syntax error at '*', have %q", serr.Token.Lexeme())
	}
	if len(serr.Expected) != 2 {
		t.Errorf("expected '-' and number to be valid after '+', have %v", serr.Expected)
	}
}

func TestParseIncomplete(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.lr")
	defer teardown()
	//
	p, S0 := makeExprParser(t)
	_, err := p.Parse(S0, tokens("1+"))
	serr, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("expected a syntax error, have %v", err)
	}
	if serr.Token.TokType() != scanner.EOF {
		t.Errorf("expected syntax error at end of input, have %v", serr.Token.TokType())
	}
}
