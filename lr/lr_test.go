package lr

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func makeSimpleGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("G")
	b.LHS("S").N("A").T("a", 1).End()
	b.LHS("A").N("B").N("D").End()
	b.LHS("B").T("b", 2).End()
	b.LHS("B").Epsilon()
	b.LHS("D").T("d", 3).End()
	b.LHS("D").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func makeExprGrammar(t *testing.T, withPrecedence bool) *Grammar {
	b := NewGrammarBuilder("Expr")
	if withPrecedence {
		b.Left("+", "-")
		b.Left("*")
		b.Right("UNARY")
	}
	b.LHS("E").N("E").T("+", '+').N("E").End()
	b.LHS("E").N("E").T("-", '-').N("E").End()
	b.LHS("E").N("E").T("*", '*').N("E").End()
	b.LHS("E").T("-", '-').N("E").Prec("UNARY").End()
	b.LHS("E").T("n", 10).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestGrammarAugmented(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.lr")
	defer teardown()
	//
	g := makeSimpleGrammar(t)
	g.Dump()
	if g.Size() != 7 {
		t.Errorf("expected 7 rules (incl. start rule), have %d", g.Size())
	}
	r0 := g.Rule(0)
	if r0.LHS.Name != "S'" || len(r0.RHS()) != 2 || r0.RHS()[1] != g.EOF {
		t.Errorf("expected rule 0 to be S' -> S #eof, is %v", r0)
	}
	if !g.Rule(4).IsEps() {
		t.Errorf("expected rule 4 to be an epsilon rule, is %v", g.Rule(4))
	}
	N := g.SymbolByName("A")
	if N == nil || N.IsTerminal() || N.Value <= 3 {
		t.Errorf("expected non-terminal A with value above terminal values, is %v", N)
	}
}

func TestGrammarWithoutRules(t *testing.T) {
	b := NewGrammarBuilder("G")
	b.LHS("S").N("X").End()
	if _, err := b.Grammar(); err == nil {
		t.Errorf("expected error for non-terminal X without rules")
	}
}

func TestFirstAndFollow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.lr")
	defer teardown()
	//
	g := makeSimpleGrammar(t)
	ga := Analysis(g)
	if !ga.Nullable(g.SymbolByName("A")) {
		t.Errorf("expected A to be nullable")
	}
	if ga.Nullable(g.SymbolByName("S")) {
		t.Errorf("expected S not to be nullable")
	}
	first := ga.First(g.SymbolByName("S"))
	if !equalInts(first, []int{1, 2, 3}) {
		t.Errorf("expected FIRST(S) = [1 2 3], is %v", first)
	}
	follow := ga.Follow(g.SymbolByName("B"))
	if !equalInts(follow, []int{1, 3}) {
		t.Errorf("expected FOLLOW(B) = [1 3], is %v", follow)
	}
	follow = ga.Follow(g.SymbolByName("S"))
	if !equalInts(follow, []int{-1}) {
		t.Errorf("expected FOLLOW(S) = [#eof], is %v", follow)
	}
}

func TestTablesWithPrecedence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.lr")
	defer teardown()
	//
	g := makeExprGrammar(t, true)
	lrgen := NewTableGenerator(Analysis(g))
	lrgen.CreateTables()
	if lrgen.HasConflicts {
		t.Errorf("expected precedence to resolve all conflicts, have %v", lrgen.Conflicts)
	}
	S0 := lrgen.CFSM().S0
	if a := lrgen.ActionTable().Value(S0.ID, 10); a != ShiftAction {
		t.Errorf("expected shift on 'n' in start state, have %d", a)
	}
	if a := lrgen.ActionTable().Value(S0.ID, '*'); a != lrgen.ActionTable().NullValue() {
		t.Errorf("expected error entry on '*' in start state, have %d", a)
	}
	expected := lrgen.ActionTable().Expected(S0.ID)
	if len(expected) != 2 {
		t.Errorf("expected '-' and 'n' to be valid in start state, have %v", expected)
	}
}

func TestTablesWithConflicts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.lr")
	defer teardown()
	//
	g := makeExprGrammar(t, false)
	lrgen := NewTableGenerator(Analysis(g))
	lrgen.CreateTables()
	if !lrgen.HasConflicts || len(lrgen.Conflicts) == 0 {
		t.Errorf("expected ambiguous grammar without precedence to have conflicts")
	}
}

func TestExport(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.lr")
	defer teardown()
	//
	g := makeExprGrammar(t, true)
	lrgen := NewTableGenerator(Analysis(g))
	lrgen.CreateTables()
	var html bytes.Buffer
	ActionTableAsHTML(lrgen, &html)
	if !strings.Contains(html.String(), "ACTION table for Expr") {
		t.Errorf("expected HTML export to contain a caption")
	}
	var dot bytes.Buffer
	lrgen.CFSM().CFSM2GraphViz(&dot)
	if !strings.HasPrefix(dot.String(), "digraph {") {
		t.Errorf("expected a Graphviz digraph")
	}
	if strings.Count(dot.String(), "->") == 0 {
		t.Errorf("expected CFSM edges in Graphviz output")
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
