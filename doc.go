/*
Package gofront is a static front-end analyzer for a subset of the Go language.

GoFront tokenizes source text, parses it against a context-free grammar with
panic-mode error recovery, and performs semantic checks (declaration, scoping,
type compatibility) while building a symbol table. Package structure is
as follows:

■ lr: Package lr implements the tools for LR parsing: a grammar builder, grammar
analysis, CFSM construction and SLR(1) parser tables. Sub-packages provide the
table-driven parser and scanner adapters.

■ gosub: Package gosub ties together the front-end for the Go subset: tokens,
lexer, AST, parser, type system, symbol table and semantic analyzer.

■ cmd/goanalyze: A command line tool to analyze files interactively or in batch.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package gofront
