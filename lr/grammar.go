package lr

import (
	"bytes"
	"fmt"
	"text/scanner"

	"github.com/npillmayer/gofront"
)

// --- Symbols ---------------------------------------------------------------

// Symbol is a grammar symbol, either a terminal or a non-terminal.
// Terminals carry the token value the scanner produces for them, non-terminals
// receive a value above every terminal value when the grammar is completed.
type Symbol struct {
	Name     string
	Value    int
	terminal bool
}

// IsTerminal returns true if this symbol is a terminal.
func (A *Symbol) IsTerminal() bool {
	return A.terminal
}

// TokenType returns the symbol's value as a token type, suitable as a column
// index for parser tables.
func (A *Symbol) TokenType() gofront.TokType {
	return gofront.TokType(A.Value)
}

func (A *Symbol) String() string {
	return A.Name
}

// --- Rules -----------------------------------------------------------------

// Rule is a grammar rule (production)
//
//     LHS  -->  X1 X2 … Xn
//
// Rules carry a serial number, which is their index in the grammar.
// Rule 0 is always the augmented start rule S' --> S #eof.
type Rule struct {
	Serial int
	LHS    *Symbol
	rhs    []*Symbol
	prec   string // explicit precedence tag, if any
}

// RHS returns the right hand side of a rule (a copy).
func (r *Rule) RHS() []*Symbol {
	return append([]*Symbol(nil), r.rhs...)
}

// IsEps is true for epsilon-productions.
func (r *Rule) IsEps() bool {
	return len(r.rhs) == 0
}

func (r *Rule) String() string {
	var b bytes.Buffer
	b.WriteString(fmt.Sprintf("%d: [%s] ::= [", r.Serial, r.LHS.Name))
	for i, A := range r.rhs {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(A.Name)
	}
	b.WriteString("]")
	return b.String()
}

// --- Precedence ------------------------------------------------------------

// Associativity of an operator.
type Associativity int8

// Associativity values, as with yacc's %left, %right and %nonassoc
const (
	NoAssoc Associativity = iota
	LeftAssoc
	RightAssoc
)

// Precedence records a precedence level and associativity for a terminal or
// a pseudo-terminal (used with RuleBuilder.Prec). Higher levels bind tighter.
type Precedence struct {
	Level int
	Assoc Associativity
}

// --- Grammar ---------------------------------------------------------------

// Grammar is a type for context-free grammars. Create one with a grammar builder.
type Grammar struct {
	Name         string
	rules        []*Rule
	terminals    []*Symbol
	nonterminals []*Symbol
	symbols      map[string]*Symbol
	precedence   map[string]Precedence
	EOF          *Symbol
}

func newGrammar(name string) *Grammar {
	g := &Grammar{
		Name:       name,
		symbols:    make(map[string]*Symbol),
		precedence: make(map[string]Precedence),
	}
	g.EOF = &Symbol{Name: "#eof", Value: scanner.EOF, terminal: true}
	g.symbols[g.EOF.Name] = g.EOF
	g.terminals = append(g.terminals, g.EOF)
	return g
}

// Size returns the number of rules.
func (g *Grammar) Size() int {
	return len(g.rules)
}

// Rule returns rule no. i, or nil.
func (g *Grammar) Rule(i int) *Rule {
	if i < 0 || i >= len(g.rules) {
		return nil
	}
	return g.rules[i]
}

// SymbolByName returns a symbol (terminal or non-terminal), or nil.
func (g *Grammar) SymbolByName(name string) *Symbol {
	return g.symbols[name]
}

// Terminal returns the terminal for a token value, or nil.
func (g *Grammar) Terminal(tokval int) *Symbol {
	for _, A := range g.terminals {
		if A.Value == tokval {
			return A
		}
	}
	return nil
}

// EachSymbol calls a mapper function for every symbol of the grammar,
// terminals first. Order is declaration order.
func (g *Grammar) EachSymbol(mapper func(*Symbol) interface{}) []interface{} {
	var r []interface{}
	for _, A := range g.terminals {
		r = append(r, mapper(A))
	}
	for _, A := range g.nonterminals {
		r = append(r, mapper(A))
	}
	return r
}

// EachNonTerminal calls a mapper function for every non-terminal of the grammar.
func (g *Grammar) EachNonTerminal(mapper func(*Symbol) interface{}) []interface{} {
	var r []interface{}
	for _, A := range g.nonterminals {
		r = append(r, mapper(A))
	}
	return r
}

// FindNonTermRules returns all rules with LHS A.
func (g *Grammar) FindNonTermRules(A *Symbol) []*Rule {
	var rules []*Rule
	for _, r := range g.rules {
		if r.LHS == A {
			rules = append(rules, r)
		}
	}
	return rules
}

// Precedence returns the precedence declared for a (pseudo-)terminal name.
func (g *Grammar) Precedence(name string) (Precedence, bool) {
	p, ok := g.precedence[name]
	return p, ok
}

// RulePrecedence returns the precedence of a rule: an explicit tag set with
// RuleBuilder.Prec, or else the precedence of its rightmost terminal.
func (g *Grammar) RulePrecedence(r *Rule) (Precedence, bool) {
	if r.prec != "" {
		return g.Precedence(r.prec)
	}
	for i := len(r.rhs) - 1; i >= 0; i-- {
		if r.rhs[i].IsTerminal() {
			return g.Precedence(r.rhs[i].Name)
		}
	}
	return Precedence{}, false
}

// Dump is a debugging helper, listing all rules to the tracer.
func (g *Grammar) Dump() {
	tracer().Debugf("--- grammar %s ---------------------------", g.Name)
	for _, r := range g.rules {
		tracer().Debugf("%s", r)
	}
	tracer().Debugf("-----------------------------------------")
}

// --- Grammar Builder -------------------------------------------------------

// GrammarBuilder is a builder type for grammars. Use as
//
//    b := lr.NewGrammarBuilder("G")
//    b.Left("+")
//    b.LHS("E").N("E").T("+", '+').N("E").End()   // E  ->  E + E
//    b.LHS("E").T("a", scanner.Ident).End()      // E  ->  a
//    g, err := b.Grammar()
//
// The LHS of the first rule is the start symbol. The grammar is augmented
// with a rule S' -> S #eof.
type GrammarBuilder struct {
	g     *Grammar
	level int
	err   error
}

// NewGrammarBuilder creates a builder for a named grammar.
func NewGrammarBuilder(name string) *GrammarBuilder {
	gb := &GrammarBuilder{g: newGrammar(name)}
	gb.g.rules = append(gb.g.rules, nil) // reserve rule 0
	return gb
}

// Left declares left-associative operators on a new precedence level.
// Levels increase with every call, i.e., later declarations bind tighter.
func (gb *GrammarBuilder) Left(names ...string) *GrammarBuilder {
	return gb.declare(LeftAssoc, names)
}

// Right declares right-associative operators on a new precedence level.
func (gb *GrammarBuilder) Right(names ...string) *GrammarBuilder {
	return gb.declare(RightAssoc, names)
}

// NonAssoc declares non-associative operators on a new precedence level.
func (gb *GrammarBuilder) NonAssoc(names ...string) *GrammarBuilder {
	return gb.declare(NoAssoc, names)
}

func (gb *GrammarBuilder) declare(assoc Associativity, names []string) *GrammarBuilder {
	gb.level++
	for _, n := range names {
		gb.g.precedence[n] = Precedence{Level: gb.level, Assoc: assoc}
	}
	return gb
}

// LHS starts a new rule.
func (gb *GrammarBuilder) LHS(name string) *RuleBuilder {
	A := gb.nonterminal(name)
	return &RuleBuilder{gb: gb, rule: &Rule{LHS: A}}
}

func (gb *GrammarBuilder) nonterminal(name string) *Symbol {
	if A, ok := gb.g.symbols[name]; ok {
		if A.IsTerminal() {
			gb.fail(fmt.Errorf("symbol %q used as terminal and non-terminal", name))
		}
		return A
	}
	A := &Symbol{Name: name}
	gb.g.symbols[name] = A
	gb.g.nonterminals = append(gb.g.nonterminals, A)
	return A
}

func (gb *GrammarBuilder) terminal(name string, tokval int) *Symbol {
	if A, ok := gb.g.symbols[name]; ok {
		if !A.IsTerminal() {
			gb.fail(fmt.Errorf("symbol %q used as terminal and non-terminal", name))
		} else if A.Value != tokval {
			gb.fail(fmt.Errorf("terminal %q re-declared with value %d (was %d)", name, tokval, A.Value))
		}
		return A
	}
	if other := gb.g.Terminal(tokval); other != nil {
		gb.fail(fmt.Errorf("terminals %q and %q share token value %d", other.Name, name, tokval))
	}
	A := &Symbol{Name: name, Value: tokval, terminal: true}
	gb.g.symbols[name] = A
	gb.g.terminals = append(gb.g.terminals, A)
	return A
}

func (gb *GrammarBuilder) fail(err error) {
	if gb.err == nil {
		gb.err = err
	}
}

// Grammar completes the grammar. It returns an error if the grammar is
// inconsistent, e.g. if a non-terminal has no rules.
func (gb *GrammarBuilder) Grammar() (*Grammar, error) {
	g := gb.g
	if gb.err != nil {
		return nil, gb.err
	}
	if len(g.rules) < 2 {
		return nil, fmt.Errorf("grammar %s has no rules", g.Name)
	}
	start := g.rules[1].LHS
	S := &Symbol{Name: start.Name + "'"}
	g.symbols[S.Name] = S
	g.nonterminals = append([]*Symbol{S}, g.nonterminals...)
	g.rules[0] = &Rule{Serial: 0, LHS: S, rhs: []*Symbol{start, g.EOF}}
	maxtok := 0
	for _, A := range g.terminals {
		if A.Value > maxtok {
			maxtok = A.Value
		}
	}
	for i, N := range g.nonterminals {
		N.Value = maxtok + 1 + i
		if len(g.FindNonTermRules(N)) == 0 {
			return nil, fmt.Errorf("non-terminal %s has no rules", N.Name)
		}
	}
	return g, nil
}

// RuleBuilder builds the right hand side of a rule.
type RuleBuilder struct {
	gb   *GrammarBuilder
	rule *Rule
}

// N appends a non-terminal to the RHS.
func (rb *RuleBuilder) N(name string) *RuleBuilder {
	rb.rule.rhs = append(rb.rule.rhs, rb.gb.nonterminal(name))
	return rb
}

// T appends a terminal to the RHS.
func (rb *RuleBuilder) T(name string, tokval int) *RuleBuilder {
	rb.rule.rhs = append(rb.rule.rhs, rb.gb.terminal(name, tokval))
	return rb
}

// Prec sets an explicit precedence tag for the rule, as yacc's %prec does.
// The tag has to be declared with Left, Right or NonAssoc.
func (rb *RuleBuilder) Prec(tag string) *RuleBuilder {
	rb.rule.prec = tag
	return rb
}

// End completes the rule.
func (rb *RuleBuilder) End() *Rule {
	g := rb.gb.g
	rb.rule.Serial = len(g.rules)
	g.rules = append(g.rules, rb.rule)
	return rb.rule
}

// Epsilon completes the rule as an epsilon-production.
func (rb *RuleBuilder) Epsilon() *Rule {
	rb.rule.rhs = nil
	return rb.End()
}
