/*
Package lr implements prerequisites for LR parsing: grammars, grammar analysis,
the characteristic finite state machine (CFSM) and SLR(1) parser tables.

Building a Grammar

Grammars are specified using a grammar builder object. Clients add
rules, consisting of non-terminal symbols and terminals. Terminals
carry a token value of type int. Grammars may contain epsilon-productions.

Example:

    b := lr.NewGrammarBuilder("G")
    b.LHS("S").N("A").T("a", 1).End()  // S  ->  A a
    b.LHS("A").N("B").N("D").End()     // A  ->  B D
    b.LHS("B").T("b", 2).End()         // B  ->  b
    b.LHS("B").Epsilon()               // B  ->
    b.LHS("D").T("d", 3).End()         // D  ->  d
    b.LHS("D").Epsilon()               // D  ->

The grammar is augmented with a start rule. This results in:

   0: [S'] ::= [S #eof]
   1: [S] ::= [A a]
   2: [A] ::= [B D]
   3: [B] ::= [b]
   4: [B] ::= []
   5: [D] ::= [d]
   6: [D] ::= []

Operator Precedence

Ambiguous operator grammars may be disambiguated the way yacc does it.
Operators are declared with Left, Right or NonAssoc, each call opening a new,
tighter binding level. Rules inherit the precedence of their rightmost terminal,
or receive an explicit tag with Prec:

    b.Left("+", "-")
    b.Left("*", "/")
    b.Right("UNARY")
    b.LHS("E").N("E").T("+", '+').N("E").End()
    b.LHS("E").T("-", '-').N("E").Prec("UNARY").End()

Static Grammar Analysis

After the grammar is complete, it has to be analysed. For this end, the
grammar is subjected to an LRAnalysis object, which computes FIRST and
FOLLOW sets for the grammar and determines all epsilon-derivable non-terminals.

    ga := lr.Analysis(g)
    ga.Follow(g.SymbolByName("B"))   // => token values [1 3]

Parser Construction

Using grammar analysis as input, a bottom-up parser can be constructed.
First a CFSM is built from the grammar. The CFSM will then be transformed
into a GOTO table and an ACTION table for a SLR(1) parser. The CFSM is
made available to the client, e.g. for exporting it to Graphviz's Dot-format.

    lrgen := lr.NewTableGenerator(ga)
    lrgen.CreateTables()
    if lrgen.HasConflicts { … }

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gofront.lr'.
func tracer() tracing.Trace {
	return tracing.Select("gofront.lr")
}
