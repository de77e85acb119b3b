/*
Package slr provides an SLR(1)-parser. Clients have to use the tools
of package lr to prepare the necessary parse tables. The SLR parser
utilizes these tables to create a right derivation for a given input,
provided through a scanner interface.

This parser is intended for small to moderate grammars, e.g. for the
operator-precedence part of a language. Clients are able to construct the
parse tables from a grammar and use the parser directly, without a
code-generation or compile step.

Usage

Clients construct a grammar, usually by using a grammar builder:

	b := lr.NewGrammarBuilder("Signed Variables Grammar")
	b.LHS("Var").N("Sign").T("a", scanner.Ident).End()  // Var  --> Sign Id
	b.LHS("Sign").T("+", '+').End()                     // Sign --> +
	b.LHS("Sign").T("-", '-').End()                     // Sign --> -
	b.LHS("Sign").Epsilon()                             // Sign -->
	g, err := b.Grammar()

This grammar is subjected to grammar analysis and table generation.

	ga := lr.Analysis(g)
	lrgen := lr.NewTableGenerator(ga)
	lrgen.CreateTables()
	if lrgen.HasConflicts { ... }  // cannot use an SLR parser

Finally parse some input:

	p := slr.NewParser(g, lrgen.GotoTable(), lrgen.ActionTable())
	accepted, err := p.Parse(lrgen.CFSM().S0, tokenizer)

Semantic actions are attached with a reducer function, which is called for
every reduction with the values of the handle. Shifted terminals carry their
token as value. After an accepting parse, Value() returns the value of the
start symbol.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package slr

import (
	"fmt"

	"github.com/npillmayer/gofront"
	"github.com/npillmayer/schuko/tracing"

	"github.com/npillmayer/gofront/lr"
	"github.com/npillmayer/gofront/lr/scanner"
)

// tracer traces with key 'gofront.lr'.
func tracer() tracing.Trace {
	return tracing.Select("gofront.lr")
}

// Reducer is a semantic action, called for every reduction of a rule.
// It receives the values of the RHS symbols (left to right) and returns the
// value of the LHS.
type Reducer func(rule *lr.Rule, rhs []interface{}) interface{}

// Parser is an SLR(1)-parser type. Create and initialize one with slr.NewParser(...)
type Parser struct {
	G       *lr.Grammar
	stack   []stackitem // parser stack
	gotoT   *lr.Table   // GOTO table
	actionT *lr.Table   // ACTION table
	reducer Reducer
	value   interface{} // value of the start symbol after accept
}

// We store state-IDs and symbol-IDs on the parse stack, together with
// the semantic value of the symbol.
type stackitem struct {
	stateID uint         // ID of a CFSM state
	symID   int          // ID of a grammar symbol (terminal or non-terminal)
	span    gofront.Span // input span over which this symbol reaches
	value   interface{}  // semantic value
}

// NewParser creates an SLR(1) parser.
func NewParser(g *lr.Grammar, gotoTable *lr.Table, actionTable *lr.Table) *Parser {
	return &Parser{
		G:       g,
		stack:   make([]stackitem, 0, 64),
		gotoT:   gotoTable,
		actionT: actionTable,
	}
}

// WithReducer sets the semantic action for reductions.
func (p *Parser) WithReducer(r Reducer) *Parser {
	p.reducer = r
	return p
}

// Value returns the semantic value of the start symbol after a successful parse.
func (p *Parser) Value() interface{} {
	return p.value
}

// SyntaxError is returned by Parse if the input contains a token for which
// no valid action exists.
type SyntaxError struct {
	Token    gofront.Token     // offending token
	State    uint              // parser state at the point of error
	Expected []gofront.TokType // token types which would have been valid
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %q (%d) in state %d", e.Token.Lexeme(), e.Token.TokType(), e.State)
}

// Parse starts a new parse, given a start state and a scanner tokenizing the input.
// The parser must have been initialized.
//
// The parser returns true if the input string has been accepted. If the
// input contains a syntax error, Parse returns a *SyntaxError.
func (p *Parser) Parse(S *lr.CFSMState, scan scanner.Tokenizer) (bool, error) {
	if p.G == nil || p.gotoT == nil || p.actionT == nil {
		tracer().Errorf("SLR(1)-parser not initialized")
		return false, fmt.Errorf("SLR(1)-parser not initialized")
	}
	p.stack = append(p.stack[:0], stackitem{stateID: S.ID}) // push S
	p.value = nil
	token := scan.NextToken()
	tokval := token.TokType()
	for {
		state := p.stack[len(p.stack)-1] // TOS
		action := p.actionT.Value(state.stateID, tokval)
		tracer().Debugf("action(%d,%d)=%s", state.stateID, tokval, valstring(action, p.actionT))
		switch {
		case action == p.actionT.NullValue():
			return false, &SyntaxError{
				Token:    token,
				State:    state.stateID,
				Expected: p.actionT.Expected(state.stateID),
			}
		case action == lr.AcceptAction:
			p.value = state.value
			return true, nil
		case action == lr.ShiftAction:
			nextstate := uint(p.gotoT.Value(state.stateID, tokval))
			tracer().Debugf("shifting %q, next state = %d", token.Lexeme(), nextstate)
			p.stack = append(p.stack, stackitem{nextstate, int(tokval), token.Span(), token})
			token = scan.NextToken()
			tokval = token.TokType()
		case action > 0: // reduce action
			rule := p.G.Rule(int(action))
			p.reduce(rule, token)
		default:
			return false, fmt.Errorf("illegal action %d in state %d", action, state.stateID)
		}
	}
}

// reduce performs a reduce action for a rule
//
//    LHS --> X1 ... Xn   (with X being terminals or non-terminals)
//
// Symbols X1 to Xn are represented on the stack as states
//
//    [TOS]  Sn(Xn, span_n) ... S1(X1, span1)  ...
//
// The reducer is called with the values of X1 … Xn, and its result is pushed
// together with the GOTO state for LHS.
func (p *Parser) reduce(rule *lr.Rule, lookahead gofront.Token) {
	tracer().Debugf("reduce %v", rule)
	n := len(rule.RHS())
	handle := p.stack[len(p.stack)-n:]
	values := make([]interface{}, n)
	var handlespan gofront.Span
	for i, item := range handle {
		values[i] = item.value
		handlespan = handlespan.Extend(item.span)
	}
	p.stack = p.stack[:len(p.stack)-n]
	if handlespan.IsNull() { // epsilon was just before lookahead
		pos := lookahead.Span().From()
		handlespan = gofront.Span{pos, pos}
	}
	var value interface{}
	if p.reducer != nil {
		value = p.reducer(rule, values)
	}
	state := p.stack[len(p.stack)-1] // TOS
	nextstate := p.gotoT.Value(state.stateID, rule.LHS.TokenType())
	p.stack = append(p.stack, stackitem{uint(nextstate), rule.LHS.Value, handlespan, value})
}

// valstring is a short helper to stringify an action table entry.
func valstring(v int32, m *lr.Table) string {
	if v == m.NullValue() {
		return "<none>"
	} else if v == lr.AcceptAction {
		return "<accept>"
	} else if v == lr.ShiftAction {
		return "<shift>"
	}
	return fmt.Sprintf("<reduce %d>", v)
}
