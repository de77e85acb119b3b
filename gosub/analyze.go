/*
Package gosub ties together the front-end for the Go subset.

Analyze runs the complete pipeline for a single source text: the lexer
produces tokens and lexical diagnostics, the parser builds an AST and reports
syntax diagnostics, and the semantic analyzer checks the AST, reporting
semantic diagnostics and building the symbol table. All stages run, even if
earlier stages reported errors; callers always receive a complete Result.

Every call of Analyze uses fresh state, so Analyze may be called concurrently.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package gosub

import (
	"github.com/cnf/structhash"
	"github.com/npillmayer/gofront/gosub/ast"
	"github.com/npillmayer/gofront/gosub/diag"
	"github.com/npillmayer/gofront/gosub/lexer"
	"github.com/npillmayer/gofront/gosub/parser"
	"github.com/npillmayer/gofront/gosub/sema"
	"github.com/npillmayer/gofront/gosub/symtab"
	"github.com/npillmayer/gofront/gosub/token"
	"github.com/npillmayer/gofront/gosub/types"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gofront.analyzer'.
func tracer() tracing.Trace {
	return tracing.Select("gofront.analyzer")
}

// Result is the outcome of analyzing a source text.
type Result struct {
	Tokens         []token.Token `json:"tokens"`
	LexicalErrors  diag.List     `json:"lexicalErrors"`
	SyntaxErrors   diag.List     `json:"syntaxErrors"`
	SemanticErrors diag.List     `json:"semanticErrors"`
	Advisories     diag.List     `json:"advisories"`
	SymbolTable    []ScopeView   `json:"symbolTable"`
	AST            *ast.File     `json:"-"`
}

// ScopeView is the external representation of a scope.
type ScopeView struct {
	Level   int          `json:"level"`
	Name    string       `json:"name"`
	Symbols []SymbolView `json:"symbols"`
}

// SymbolView is the external representation of a symbol. ReturnType and
// ParamTypes are set for functions only.
type SymbolView struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	ScopeKind  string   `json:"scopeKind"`
	Line       int      `json:"line"`
	IsConst    bool     `json:"isConst"`
	ReturnType string   `json:"returnType,omitempty"`
	ParamTypes []string `json:"paramTypes,omitempty"`
}

// Analyze analyzes a source text.
func Analyze(source string) *Result {
	r := &Result{}
	r.Tokens, r.LexicalErrors = lexer.Tokenize(source)
	tracer().Debugf("%d tokens, %d lexical errors", len(r.Tokens), len(r.LexicalErrors))
	r.AST, r.SyntaxErrors = parser.ParseFile(r.Tokens)
	tracer().Debugf("%d syntax errors", len(r.SyntaxErrors))
	ctx := sema.Analyze(r.AST)
	r.SemanticErrors, r.Advisories = ctx.Errors, ctx.Advisories
	r.SymbolTable = Scopes(ctx.Symbols)
	r.normalize()
	tracer().Infof("analysis: %d lexical, %d syntax, %d semantic errors",
		len(r.LexicalErrors), len(r.SyntaxErrors), len(r.SemanticErrors))
	return r
}

// normalize replaces nil lists by empty ones, for serialization.
func (r *Result) normalize() {
	for _, l := range []*diag.List{&r.LexicalErrors, &r.SyntaxErrors, &r.SemanticErrors, &r.Advisories} {
		if *l == nil {
			*l = diag.List{}
		}
	}
	if r.Tokens == nil {
		r.Tokens = []token.Token{}
	}
	if r.SymbolTable == nil {
		r.SymbolTable = []ScopeView{}
	}
}

// HasErrors is true if any stage reported an error. Advisories do not count.
func (r *Result) HasErrors() bool {
	return len(r.LexicalErrors)+len(r.SyntaxErrors)+len(r.SemanticErrors) > 0
}

// Errors returns the errors of all stages, in pipeline order.
func (r *Result) Errors() diag.List {
	var all diag.List
	all = append(all, r.LexicalErrors...)
	all = append(all, r.SyntaxErrors...)
	all = append(all, r.SemanticErrors...)
	return all
}

// Scopes creates the views of all non-empty scopes of a symbol table,
// ordered by level.
func Scopes(table *symtab.Table) []ScopeView {
	var views []ScopeView
	for _, sc := range table.Snapshot() {
		v := ScopeView{Level: sc.Level, Name: sc.Name}
		for _, sym := range sc.Symbols() {
			v.Symbols = append(v.Symbols, symbolView(sym))
		}
		views = append(views, v)
	}
	return views
}

func symbolView(sym *symtab.Symbol) SymbolView {
	v := SymbolView{
		Name:      sym.Name,
		Type:      sym.Type.String(),
		ScopeKind: sym.Kind.String(),
		Line:      sym.Line,
		IsConst:   sym.IsConst,
	}
	if sig, ok := sym.Signature(); ok {
		v.ReturnType = types.Void.String()
		if sig.Result != nil {
			v.ReturnType = sig.Result.String()
		}
		for _, p := range sig.Params {
			v.ParamTypes = append(v.ParamTypes, p.String())
		}
	}
	return v
}

// --- Fingerprints ----------------------------------------------------------

// fingerprint is the part of a result covered by Fingerprint. Tokens are
// flattened to their external representation.
type fingerprint struct {
	Tokens      []tokenPrint
	Diagnostics []diag.Diagnostic
	Advisories  []diag.Diagnostic
	SymbolTable []ScopeView
}

type tokenPrint struct {
	Kind   string
	Lexeme string
	Line   int
	Column int
}

// Fingerprint returns a hash over tokens, diagnostics and symbol table of a
// result. Analyzing the same source twice yields the same fingerprint.
func (r *Result) Fingerprint() string {
	fp := fingerprint{
		Diagnostics: r.Errors(),
		Advisories:  r.Advisories,
		SymbolTable: r.SymbolTable,
	}
	for _, t := range r.Tokens {
		fp.Tokens = append(fp.Tokens, tokenPrint{
			Kind:   t.Kind().String(),
			Lexeme: t.Lexeme(),
			Line:   t.Pos().Line,
			Column: t.Pos().Column,
		})
	}
	hash, err := structhash.Hash(fp, 1)
	if err != nil {
		tracer().Errorf("fingerprint: %v", err)
		return ""
	}
	return hash
}
