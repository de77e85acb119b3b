package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/npillmayer/gofront/gosub"
	"github.com/npillmayer/gofront/gosub/ast"
	"github.com/npillmayer/gofront/gosub/diag"
	"github.com/pterm/pterm"
)

// fileReport is the JSON form of the analysis of a file.
type fileReport struct {
	File string `json:"file"`
	*gosub.Result
}

// report renders the result of analyzing a source in the configured format.
func report(w io.Writer, name string, r *gosub.Result, c config) error {
	if c.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(fileReport{File: name, Result: r})
	}
	errs := r.Errors()
	summary := fmt.Sprintf("%s: %d errors, %d advisories", name, len(errs), len(r.Advisories))
	if len(errs) == 0 {
		fmt.Fprintln(w, pterm.Success.Sprint(summary))
	} else {
		fmt.Fprintln(w, pterm.Info.Sprint(summary))
	}
	if c.shows(showErrors) {
		renderDiagnostics(w, errs)
		renderDiagnostics(w, r.Advisories)
	}
	if c.shows(showTokens) {
		if err := renderTokens(w, r); err != nil {
			return err
		}
	}
	if c.shows(showSymbols) {
		if err := renderSymbols(w, r.SymbolTable); err != nil {
			return err
		}
	}
	if c.shows(showAST) && r.AST != nil {
		if err := renderAST(w, r.AST); err != nil {
			return err
		}
	}
	return nil
}

func renderDiagnostics(w io.Writer, list diag.List) {
	for _, d := range list {
		msg := fmt.Sprintf("%s: %s", d.Kind, d.Message)
		if d.Pos.IsValid() {
			msg = fmt.Sprintf("line %d:%d: %s", d.Pos.Line, d.Pos.Column, msg)
		}
		if d.Severity == diag.Warning {
			fmt.Fprintln(w, pterm.Warning.Sprint(msg))
		} else {
			fmt.Fprintln(w, pterm.Error.Sprint(msg))
		}
	}
}

func renderTokens(w io.Writer, r *gosub.Result) error {
	data := pterm.TableData{{"Line", "Col", "Category", "Kind", "Lexeme"}}
	for _, t := range r.Tokens {
		data = append(data, []string{
			strconv.Itoa(t.Pos().Line),
			strconv.Itoa(t.Pos().Column),
			t.Kind().Category().String(),
			t.Kind().String(),
			t.Lexeme(),
		})
	}
	return renderTable(w, data)
}

func renderSymbols(w io.Writer, scopes []gosub.ScopeView) error {
	data := pterm.TableData{{"Level", "Scope", "Name", "Type", "Kind", "Line", "Const"}}
	for _, sc := range scopes {
		for _, sym := range sc.Symbols {
			data = append(data, []string{
				strconv.Itoa(sc.Level),
				sc.Name,
				sym.Name,
				sym.Type,
				sym.ScopeKind,
				strconv.Itoa(sym.Line),
				strconv.FormatBool(sym.IsConst),
			})
		}
	}
	return renderTable(w, data)
}

func renderTable(w io.Writer, data pterm.TableData) error {
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, s)
	return nil
}

// renderAST prints the syntax tree with one line per node.
func renderAST(w io.Writer, file *ast.File) error {
	tb := &treeBuilder{}
	ast.Walk(tb, file)
	root := pterm.NewTreeFromLeveledList(tb.list)
	s, err := pterm.DefaultTree.WithRoot(root).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, s)
	return nil
}

// treeBuilder collects AST nodes into a leveled list, as input for a
// pterm tree.
type treeBuilder struct {
	list  pterm.LeveledList
	level int
}

func (tb *treeBuilder) Visit(n ast.Node) ast.Visitor {
	if n == nil {
		tb.level--
		return nil
	}
	tb.list = append(tb.list, pterm.LeveledListItem{Level: tb.level, Text: nodeLabel(n)})
	tb.level++
	return tb
}

func nodeLabel(n ast.Node) string {
	label := strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast.")
	switch n := n.(type) {
	case *ast.Ident:
		label += " " + n.Name
	case *ast.BasicLit:
		label += " " + n.Lexeme
	case *ast.BinaryExpr:
		label += " " + n.Op.String()
	case *ast.UnaryExpr:
		label += " " + n.Op.String()
	case *ast.AssignStmt:
		label += " " + n.Tok.String()
	case *ast.IncDecStmt:
		label += " " + n.Tok.String()
	case *ast.BranchStmt:
		label += " " + n.Tok.String()
	case *ast.BuiltinCall:
		label += " " + n.Name.String()
	case *ast.ImportSpec:
		label += " " + strconv.Quote(n.Path)
	case *ast.VarDecl:
		if n.Const {
			label += " const"
		}
	}
	if p := n.Pos(); p.IsValid() {
		label += fmt.Sprintf("  (%d:%d)", p.Line, p.Column)
	}
	return label
}
