package lr

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/scanner"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/gofront"
	"github.com/npillmayer/gofront/lr/sparse"
)

// Actions for parser action tables. Reduce actions are encoded as the
// serial number of the rule to reduce.
const (
	ShiftAction  = -1
	AcceptAction = -2
)

// === CFSM Construction =====================================================

// CFSMState is a state within the CFSM for a grammar.
type CFSMState struct {
	ID     uint         // serial ID of this state
	items  *treeset.Set // configuration items within this state
	Accept bool         // is this an accepting state?
}

// CFSM edge between 2 states, directed and labeled with a grammar symbol
type cfsmEdge struct {
	from  *CFSMState
	to    *CFSMState
	label *Symbol
}

// Dump is a debugging helper
func (s *CFSMState) Dump() {
	tracer().Debugf("--- state %03d -----------", s.ID)
	Dump(s.items)
	tracer().Debugf("-------------------------")
}

// Items returns the LR(0) items of this state.
func (s *CFSMState) Items() []Item {
	items := make([]Item, 0, s.items.Size())
	for _, x := range s.items.Values() {
		items = append(items, asItem(x))
	}
	return items
}

func (s *CFSMState) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.ID, s.items.Size())
}

func (s *CFSMState) containsCompletedStartRule() bool {
	for _, x := range s.items.Values() {
		i := asItem(x)
		if i.rule.Serial == 0 && i.PeekSymbol() == nil {
			return true
		}
	}
	return false
}

// We need this for the set of states. It sorts states by serial ID.
func stateComparator(s1, s2 interface{}) int {
	c1 := s1.(*CFSMState)
	c2 := s2.(*CFSMState)
	return utils.IntComparator(int(c1.ID), int(c2.ID))
}

// CFSM is the characteristic finite state machine for a LR grammar, i.e. the
// LR(0) state diagram. It will be constructed by a TableGenerator.
type CFSM struct {
	g       *Grammar
	states  *treeset.Set    // all the states
	edges   *arraylist.List // all the edges between states
	S0      *CFSMState      // start state
	cfsmIds uint            // serial IDs for CFSM states
}

func emptyCFSM(g *Grammar) *CFSM {
	return &CFSM{
		g:      g,
		states: treeset.NewWith(stateComparator),
		edges:  arraylist.New(),
	}
}

// StateCount returns the number of states.
func (c *CFSM) StateCount() int {
	return c.states.Size()
}

// addState adds a state for an item set, if not already present.
func (c *CFSM) addState(iset *treeset.Set) (*CFSMState, bool) {
	if s := c.findStateByItems(iset); s != nil {
		return s, false
	}
	s := &CFSMState{ID: c.cfsmIds, items: iset}
	c.cfsmIds++
	s.Accept = s.containsCompletedStartRule()
	c.states.Add(s)
	return s, true
}

func (c *CFSM) findStateByItems(iset *treeset.Set) *CFSMState {
	it := c.states.Iterator()
	for it.Next() {
		s := it.Value().(*CFSMState)
		if itemSetsEqual(s.items, iset) {
			return s
		}
	}
	return nil
}

func (c *CFSM) addEdge(s0, s1 *CFSMState, sym *Symbol) {
	c.edges.Add(&cfsmEdge{from: s0, to: s1, label: sym})
}

func (c *CFSM) allEdges(s *CFSMState) []*cfsmEdge {
	it := c.edges.Iterator()
	r := make([]*cfsmEdge, 0, 2)
	for it.Next() {
		e := it.Value().(*cfsmEdge)
		if e.from == s {
			r = append(r, e)
		}
	}
	return r
}

// CFSM2GraphViz exports a CFSM to the Graphviz Dot format.
func (c *CFSM) CFSM2GraphViz(w io.Writer) {
	io.WriteString(w, `digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	for _, x := range c.states.Values() {
		s := x.(*CFSMState)
		fill := "white"
		if s.Accept {
			fill = "lightgray"
		}
		fmt.Fprintf(w, "s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.ID, fill, s.ID, forGraphviz(s.items))
	}
	it := c.edges.Iterator()
	for it.Next() {
		e := it.Value().(*cfsmEdge)
		fmt.Fprintf(w, "s%03d -> s%03d [label=\"%s\"]\n", e.from.ID, e.to.ID, escapeDot(e.label.Name))
	}
	io.WriteString(w, "}\n")
}

func forGraphviz(iset *treeset.Set) string {
	var lines []string
	for _, x := range iset.Values() {
		lines = append(lines, escapeDot(asItem(x).String()))
	}
	return strings.Join(lines, "\\l") + "\\l"
}

func escapeDot(s string) string {
	r := strings.NewReplacer(`"`, `\"`, "|", `\|`, "<", `\<`, ">", `\>`, "{", `\{`, "}", `\}`)
	return r.Replace(s)
}

// === Table Generator =======================================================

// TableGenerator is a generator object to construct LR parser tables.
// Clients usually create a Grammar G, then a LRAnalysis-object for G,
// and then a table generator. TableGenerator.CreateTables() constructs
// the CFSM and parser tables for an LR-parser recognizing grammar G.
type TableGenerator struct {
	g            *Grammar
	ga           *LRAnalysis
	dfa          *CFSM
	gototable    *Table
	actiontable  *Table
	HasConflicts bool
	Conflicts    []string // descriptions of unresolved conflicts
}

// NewTableGenerator creates a new TableGenerator for a (previously analysed) grammar.
func NewTableGenerator(ga *LRAnalysis) *TableGenerator {
	return &TableGenerator{g: ga.Grammar(), ga: ga}
}

// Grammar returns the grammar the tables are generated for.
func (lrgen *TableGenerator) Grammar() *Grammar {
	return lrgen.g
}

// CFSM returns the characteristic finite state machine (CFSM) for a grammar.
// The CFSM will be created, if it has not been constructed previously.
func (lrgen *TableGenerator) CFSM() *CFSM {
	if lrgen.dfa == nil {
		lrgen.dfa = lrgen.buildCFSM()
	}
	return lrgen.dfa
}

// GotoTable returns the GOTO table for LR-parsing a grammar. The tables have to be
// built by calling CreateTables() previously.
func (lrgen *TableGenerator) GotoTable() *Table {
	if lrgen.gototable == nil {
		tracer().P("lr", "gen").Errorf("tables not yet initialized")
	}
	return lrgen.gototable
}

// ActionTable returns the ACTION table for LR-parsing a grammar. The tables have to be
// built by calling CreateTables() previously.
func (lrgen *TableGenerator) ActionTable() *Table {
	if lrgen.actiontable == nil {
		tracer().P("lr", "gen").Errorf("tables not yet initialized")
	}
	return lrgen.actiontable
}

// CreateTables creates the necessary data structures for an SLR parser.
func (lrgen *TableGenerator) CreateTables() {
	lrgen.dfa = lrgen.CFSM()
	lrgen.gototable = lrgen.BuildGotoTable()
	lrgen.actiontable, lrgen.HasConflicts = lrgen.BuildSLR1ActionTable()
}

// buildCFSM constructs the characteristic finite state machine for a grammar.
func (lrgen *TableGenerator) buildCFSM() *CFSM {
	tracer().Debugf("=== build CFSM ==================================================")
	G := lrgen.g
	cfsm := emptyCFSM(G)
	start, _ := StartItem(G.rules[0])
	cfsm.S0, _ = cfsm.addState(lrgen.ga.closure(start))
	cfsm.S0.Dump()
	work := []*CFSMState{cfsm.S0}
	for len(work) > 0 {
		s := work[0]
		work = work[1:]
		G.EachSymbol(func(A *Symbol) interface{} {
			gotoset := lrgen.ga.gotoSetClosure(s.items, A)
			if gotoset.Empty() {
				return nil
			}
			snew, isNew := cfsm.addState(gotoset)
			if isNew {
				tracer().Debugf("goto(%s, %s) = new %s", s, A, snew)
				work = append(work, snew)
			}
			cfsm.addEdge(s, snew, A)
			return nil
		})
	}
	tracer().Infof("CFSM for %s has %d states", G.Name, cfsm.states.Size())
	return cfsm
}

func (lrgen *TableGenerator) newTable() *Table {
	var maxtok, mintok gofront.TokType
	lrgen.g.EachSymbol(func(A *Symbol) interface{} {
		if A.TokenType() > maxtok {
			maxtok = A.TokenType()
		}
		if A.TokenType() < mintok {
			mintok = A.TokenType()
		}
		return nil
	})
	statescnt := uint(lrgen.dfa.states.Size())
	extent := uint(maxtok - mintok + 1)
	return &Table{
		matrix: sparse.NewIntMatrix(statescnt, extent, sparse.DefaultNullValue),
		mincol: mintok,
	}
}

// BuildGotoTable builds the GOTO table. This is normally not called directly, but rather
// via CreateTables().
func (lrgen *TableGenerator) BuildGotoTable() *Table {
	gototable := lrgen.newTable()
	states := lrgen.dfa.states.Iterator()
	for states.Next() {
		state := states.Value().(*CFSMState)
		for _, e := range lrgen.dfa.allEdges(state) {
			gototable.set(state.ID, e.label.TokenType(), int32(e.to.ID))
		}
	}
	return gototable
}

// BuildSLR1ActionTable constructs the SLR(1) Action table. This method is normally not called
// by clients, but rather via CreateTables(). It builds an action table including
// lookahead (using the FOLLOW-set created by the grammar analyzer).
//
// For every state we collect candidate actions per lookahead terminal: a shift
// for every item with a terminal after the dot, and a reduce for every completed
// item and every terminal in FOLLOW(LHS). Shift/reduce conflicts are resolved
// by the grammar's precedence declarations, in the manner of yacc:
// the rule's precedence is compared to the lookahead's precedence, equal levels
// are decided by associativity. Unresolvable conflicts are stored as pairs and
// flagged.
func (lrgen *TableGenerator) BuildSLR1ActionTable() (*Table, bool) {
	actions := lrgen.newTable()
	hasConflicts := false
	states := lrgen.dfa.states.Iterator()
	for states.Next() {
		state := states.Value().(*CFSMState)
		candidates := make(map[*Symbol][]int32)
		for _, x := range state.items.Values() {
			i := asItem(x)
			A := i.PeekSymbol()
			if A != nil && A.IsTerminal() {
				candidates[A] = appendUnique(candidates[A], pT(A))
			} else if A == nil && i.rule.Serial != 0 {
				for _, la := range lrgen.ga.Follow(i.rule.LHS) {
					T := lrgen.g.Terminal(la)
					candidates[T] = appendUnique(candidates[T], int32(i.rule.Serial))
				}
			}
		}
		for _, T := range sortedTerminals(candidates) {
			acts := lrgen.resolve(state, T, candidates[T])
			if len(acts) > 1 {
				hasConflicts = true
				lrgen.Conflicts = append(lrgen.Conflicts, fmt.Sprintf("state %d on %s: %s/%s",
					state.ID, T, valstring(acts[0], actions), valstring(acts[1], actions)))
			}
			for _, a := range acts {
				actions.add(state.ID, T.TokenType(), a)
			}
			tracer().Debugf(actionEntry(state.ID, T.TokenType(), actions))
		}
	}
	return actions, hasConflicts
}

// resolve decides between competing actions for state s and lookahead T.
// It returns zero actions (error entry), one action, or two conflicting actions.
func (lrgen *TableGenerator) resolve(s *CFSMState, T *Symbol, acts []int32) []int32 {
	if len(acts) == 1 {
		return acts
	}
	var shift int32
	var reduces []int32
	for _, a := range acts {
		if a < 0 {
			shift = a
		} else {
			reduces = append(reduces, a)
		}
	}
	sort.Slice(reduces, func(i, j int) bool { return reduces[i] < reduces[j] })
	if shift == 0 { // reduce/reduce: prefer the earlier rule, as yacc does
		tracer().Infof("state %d on %s: reduce/reduce conflict", s.ID, T)
		return reduces[:2]
	}
	if len(reduces) > 1 {
		return []int32{shift, reduces[0]}
	}
	r := lrgen.g.Rule(int(reduces[0]))
	rprec, rok := lrgen.g.RulePrecedence(r)
	tprec, tok := lrgen.g.Precedence(T.Name)
	if !rok || !tok {
		return []int32{shift, reduces[0]}
	}
	switch {
	case rprec.Level > tprec.Level:
		return reduces[:1]
	case rprec.Level < tprec.Level:
		return []int32{shift}
	case tprec.Assoc == LeftAssoc:
		return reduces[:1]
	case tprec.Assoc == RightAssoc:
		return []int32{shift}
	}
	return nil // non-associative: syntax error
}

func appendUnique(acts []int32, a int32) []int32 {
	for _, x := range acts {
		if x == a {
			return acts
		}
	}
	return append(acts, a)
}

func sortedTerminals(m map[*Symbol][]int32) []*Symbol {
	syms := make([]*Symbol, 0, len(m))
	for A := range m {
		syms = append(syms, A)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i].Value < syms[j].Value })
	return syms
}

// pT returns the action for shifting a terminal. Shifting EOF accepts.
func pT(terminal *Symbol) int32 {
	if terminal.TokenType() == scanner.EOF {
		return AcceptAction
	}
	return ShiftAction
}

// === Tables ================================================================

// Table is a parser table, indexed by state and token type.
type Table struct {
	matrix *sparse.IntMatrix
	mincol gofront.TokType // lowest token value => offset for column access
}

func (t *Table) column(tt gofront.TokType) (uint, bool) {
	j := tt - t.mincol
	if j < 0 || uint(j) >= t.matrix.N() {
		return 0, false
	}
	return uint(j), true
}

func (t *Table) add(i uint, tt gofront.TokType, val int32) {
	j, ok := t.column(tt)
	if !ok {
		panic(fmt.Sprintf("lr.Table.add() with column out of range: %d", tt))
	}
	t.matrix.Add(i, j, val)
}

func (t *Table) set(i uint, tt gofront.TokType, val int32) {
	j, ok := t.column(tt)
	if !ok {
		panic(fmt.Sprintf("lr.Table.set() with column out of range: %d", tt))
	}
	t.matrix.Set(i, j, val)
}

// NullValue is the value for empty table entries.
func (t *Table) NullValue() int32 {
	return t.matrix.NullValue()
}

// Value returns the primary entry for state i and token type tt. Token types
// unknown to the grammar yield the null value.
func (t *Table) Value(i uint, tt gofront.TokType) int32 {
	v, _ := t.Values(i, tt)
	return v
}

// Values returns both entries for state i and token type tt.
func (t *Table) Values(i uint, tt gofront.TokType) (int32, int32) {
	j, ok := t.column(tt)
	if !ok || i >= t.matrix.M() {
		return t.NullValue(), t.NullValue()
	}
	return t.matrix.Values(i, j)
}

// Expected returns the token types with a non-empty entry for state i.
func (t *Table) Expected(i uint) []gofront.TokType {
	var tts []gofront.TokType
	t.matrix.Each(func(row, col uint, a, b int32) {
		if row == i && a != t.NullValue() {
			tts = append(tts, gofront.TokType(col)+t.mincol)
		}
	})
	return tts
}

// --- HTML export -----------------------------------------------------------

// GotoTableAsHTML exports a GOTO-table in HTML-format.
func GotoTableAsHTML(lrgen *TableGenerator, w io.Writer) {
	if lrgen.gototable == nil {
		tracer().Errorf("GOTO table not yet created, cannot export to HTML")
		return
	}
	parserTableAsHTML(lrgen, "GOTO", lrgen.gototable, w)
}

// ActionTableAsHTML exports the SLR(1) ACTION-table in HTML-format.
func ActionTableAsHTML(lrgen *TableGenerator, w io.Writer) {
	if lrgen.actiontable == nil {
		tracer().Errorf("ACTION table not yet created, cannot export to HTML")
		return
	}
	parserTableAsHTML(lrgen, "ACTION", lrgen.actiontable, w)
}

func parserTableAsHTML(lrgen *TableGenerator, tname string, table *Table, w io.Writer) {
	var symvec []*Symbol
	io.WriteString(w, "<html><body>\n")
	fmt.Fprintf(w, "%s table for %s, %d entries<p>", tname, lrgen.g.Name, table.matrix.ValueCount())
	io.WriteString(w, "<table border=1 cellspacing=0 cellpadding=5>\n")
	io.WriteString(w, "<tr bgcolor=#cccccc><td></td>\n")
	lrgen.g.EachSymbol(func(A *Symbol) interface{} {
		fmt.Fprintf(w, "<td>%s</td>", htmlEscape(A.Name))
		symvec = append(symvec, A)
		return nil
	})
	io.WriteString(w, "</tr>\n")
	states := lrgen.dfa.states.Iterator()
	for states.Next() {
		state := states.Value().(*CFSMState)
		fmt.Fprintf(w, "<tr><td>state %d</td>\n", state.ID)
		for _, A := range symvec {
			v1, v2 := table.Values(state.ID, A.TokenType())
			td := "&nbsp;"
			if v1 != table.NullValue() && v2 == table.NullValue() {
				td = fmt.Sprintf("%d", v1)
			} else if v1 != table.NullValue() {
				td = fmt.Sprintf("%d/%d", v1, v2)
			}
			fmt.Fprintf(w, "<td>%s</td>\n", td)
		}
		io.WriteString(w, "</tr>\n")
	}
	io.WriteString(w, "</table></body></html>\n")
}

func htmlEscape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}

// ----------------------------------------------------------------------

func actionEntry(stateID uint, la gofront.TokType, aT *Table) string {
	a1, a2 := aT.Values(stateID, la)
	return fmt.Sprintf("Action(%d,%d) = (%s,%s)", stateID, la, valstring(a1, aT), valstring(a2, aT))
}

// valstring is a short helper to stringify an action table entry.
func valstring(v int32, m *Table) string {
	if v == m.NullValue() {
		return "<none>"
	} else if v == AcceptAction {
		return "<accept>"
	} else if v == ShiftAction {
		return "<shift>"
	}
	return fmt.Sprintf("<reduce %d>", v)
}
