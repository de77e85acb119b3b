package main

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/gofront/gosub"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	filename := filepath.Join(t.TempDir(), name)
	require.NoError(t, ioutil.WriteFile(filename, []byte(content), 0644))
	return filename
}

func TestLoadConfig(t *testing.T) {
	filename := writeTemp(t, "goanalyze.yaml", "format: json\nshow: [tokens, AST]\n")
	c, err := loadConfig(filename)
	require.NoError(t, err)
	assert.Equal(t, "json", c.Format)
	assert.Equal(t, "Error", c.Trace, "missing keys keep their defaults")
	assert.NoError(t, c.validate())
	assert.True(t, c.shows(showAST))
	assert.False(t, c.shows(showSymbols))
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	filename := writeTemp(t, "broken.yaml", "show: [tokens\n")
	_, err = loadConfig(filename)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	c := defaultConfig()
	assert.NoError(t, c.validate())
	c.Format = "xml"
	assert.Error(t, c.validate())
	c = defaultConfig()
	c.Show = append(c.Show, "cfsm")
	assert.Error(t, c.validate())
}

func TestAnalyzeFilesJSON(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.analyzer")
	defer teardown()
	//
	filename := writeTemp(t, "ok.go", "package main\n\nfunc main() {\n}\n")
	c := defaultConfig()
	c.Format = "json"
	var out bytes.Buffer
	require.NoError(t, analyzeFiles(&out, []string{filename}, c))
	var rep struct {
		File           string            `json:"file"`
		SemanticErrors []interface{}     `json:"semanticErrors"`
		SymbolTable    []gosub.ScopeView `json:"symbolTable"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &rep))
	assert.Equal(t, filename, rep.File)
	assert.Empty(t, rep.SemanticErrors)
	require.NotEmpty(t, rep.SymbolTable)
	assert.Equal(t, "main", rep.SymbolTable[0].Symbols[0].Name)
}

func TestAnalyzeFilesWithErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.analyzer")
	defer teardown()
	//
	filename := writeTemp(t, "bad.go", "package main\nfunc main() {\n\tx = 1\n}\n")
	var out bytes.Buffer
	err := analyzeFiles(&out, []string{filename}, defaultConfig())
	require.Error(t, err)
	assert.Equal(t, errFindings, errors.Cause(err))
	assert.Contains(t, out.String(), "x not declared")
	assert.Contains(t, out.String(), "line 3:")
}

func TestAnalyzeMissingFile(t *testing.T) {
	var out bytes.Buffer
	err := analyzeFiles(&out, []string{filepath.Join(t.TempDir(), "none.go")}, defaultConfig())
	require.Error(t, err)
	assert.NotEqual(t, errFindings, errors.Cause(err))
	assert.Contains(t, err.Error(), "none.go")
}

func TestTextReportSections(t *testing.T) {
	c := defaultConfig()
	c.Show = []string{showTokens, showAST}
	var out bytes.Buffer
	r := gosub.Analyze("package main\nfunc main() {\n\ty := 2\n\t_ = y\n}\n")
	require.NoError(t, report(&out, "input", r, c))
	s := out.String()
	assert.Contains(t, s, "0 errors")
	assert.Contains(t, s, "Lexeme")
	assert.Contains(t, s, "FuncDecl")
	assert.Contains(t, s, "Ident y")
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "package main\nfunc main() {\n}\n", snippet([]string{"func main() {", "}"}))
	src := snippet([]string{"package p", "var x int"})
	assert.True(t, strings.HasPrefix(src, "package p\n"))
}

func TestGrammarCommand(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printGrammar(&out))
	assert.Contains(t, out.String(), "SourceFile")
	assert.Contains(t, out.String(), "productions")
}

func TestExportTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.lr")
	defer teardown()
	//
	dir := t.TempDir()
	html, dot := filepath.Join(dir, "tables.html"), filepath.Join(dir, "cfsm.dot")
	var out bytes.Buffer
	require.NoError(t, exportTables(&out, html, dot))
	assert.Contains(t, out.String(), "CFSM states")
	data, err := ioutil.ReadFile(html)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<html>")
	data, err = ioutil.ReadFile(dot)
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph")
}
