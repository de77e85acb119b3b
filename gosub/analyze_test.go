package gosub

import (
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/npillmayer/gofront/gosub/diag"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

type expectation struct {
	kind string
	line int
	text string
}

// readGolden reads a test archive with files 'input.go' and 'expect'.
func readGolden(t *testing.T, filename string) (string, []expectation) {
	ar, err := txtar.ParseFile(filename)
	require.NoError(t, err)
	var input string
	var expect []expectation
	for _, f := range ar.Files {
		switch f.Name {
		case "input.go":
			input = string(f.Data)
		case "expect":
			for _, line := range strings.Split(string(f.Data), "\n") {
				if strings.TrimSpace(line) == "" {
					continue
				}
				parts := strings.SplitN(line, " ", 3)
				require.Len(t, parts, 3, "malformed expectation %q", line)
				n, err := strconv.Atoi(strings.TrimSuffix(parts[1], ":"))
				require.NoError(t, err)
				expect = append(expect, expectation{kind: parts[0], line: n, text: parts[2]})
			}
		}
	}
	require.NotEmpty(t, input, "archive %s has no input.go", filename)
	return input, expect
}

func TestGolden(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.analyzer")
	defer teardown()
	//
	archives, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, archives)
	for _, filename := range archives {
		t.Run(filepath.Base(filename), func(t *testing.T) {
			input, expect := readGolden(t, filename)
			r := Analyze(input)
			errs := r.Errors()
			require.Len(t, errs, len(expect), "diagnostics: %v", errs)
			for i, e := range expect {
				assert.Equal(t, e.kind, errs[i].Kind.String())
				assert.Equal(t, e.line, errs[i].Line(), "line of %v", errs[i])
				assert.Contains(t, errs[i].Message, e.text)
			}
		})
	}
}

func TestSymbolTableOfMinimalProgram(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.analyzer")
	defer teardown()
	//
	r := Analyze("package main\nfunc main() {}\n")
	assert.False(t, r.HasErrors())
	require.Len(t, r.SymbolTable, 1)
	global := r.SymbolTable[0]
	assert.Equal(t, 0, global.Level)
	require.Len(t, global.Symbols, 1)
	assert.Equal(t, SymbolView{
		Name:       "main",
		Type:       "func()",
		ScopeKind:  "global",
		Line:       2,
		ReturnType: "void",
	}, global.Symbols[0])
}

func TestSymbolTableLevels(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.analyzer")
	defer teardown()
	//
	src := "package main\nconst limit = 3\nfunc f(a int) (int, bool) {\n\tb := a\n\treturn b, b < limit\n}\n"
	r := Analyze(src)
	require.False(t, r.HasErrors(), "errors: %v", r.Errors())
	require.Len(t, r.SymbolTable, 2)
	assert.Equal(t, 0, r.SymbolTable[0].Level)
	assert.Equal(t, 1, r.SymbolTable[1].Level)
	f := r.SymbolTable[0].Symbols[0]
	assert.Equal(t, "f", f.Name)
	assert.Equal(t, "(int, bool)", f.ReturnType)
	assert.Equal(t, []string{"int"}, f.ParamTypes)
	limit := r.SymbolTable[0].Symbols[1]
	assert.True(t, limit.IsConst)
	local := r.SymbolTable[1].Symbols
	require.Len(t, local, 2)
	assert.Equal(t, "parameter", local[0].ScopeKind)
	assert.Equal(t, "local", local[1].ScopeKind)
}

func TestResultJSON(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.analyzer")
	defer teardown()
	//
	r := Analyze("package main\nfunc main() { x = 5 }\n")
	data, err := json.Marshal(r)
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	for _, key := range []string{"tokens", "lexicalErrors", "syntaxErrors", "semanticErrors", "symbolTable"} {
		assert.Contains(t, m, key)
	}
	assert.Len(t, m["lexicalErrors"], 0)
	sem := m["semanticErrors"].([]interface{})
	require.Len(t, sem, 1)
	assert.Equal(t, "x not declared", sem[0].(map[string]interface{})["message"])
	scopes := m["symbolTable"].([]interface{})
	sym := scopes[0].(map[string]interface{})["symbols"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "global", sym["scopeKind"])
	assert.Equal(t, false, sym["isConst"])
}

func TestAnalyzeNeverFails(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.analyzer")
	defer teardown()
	//
	for _, src := range []string{
		"",
		"}}} @@ func (",
		"package",
		"package main\nfunc main() { for { switch x := ; { case } } }\n",
		"package main\nvar = = = 1\nfunc f(a, b) {\n",
		"package main\nfunc main() {\n\ta := []int{1, 2,\n",
	} {
		r := Analyze(src)
		require.NotNil(t, r, "source %q", src)
		assert.True(t, r.HasErrors(), "source %q", src)
	}
}

func TestAdvisoriesAreNoErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.analyzer")
	defer teardown()
	//
	r := Analyze("package main\nvar n = int(3.7)\n")
	assert.False(t, r.HasErrors())
	require.Len(t, r.Advisories, 1)
	assert.Equal(t, diag.Warning, r.Advisories[0].Severity)
}

func TestUnclosedFunctionIsInSymbolTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.analyzer")
	defer teardown()
	//
	r := Analyze("package main\nfunc main() {\n\tx = 5\n")
	require.Len(t, r.SyntaxErrors, 1)
	require.Len(t, r.SemanticErrors, 1)
	assert.Equal(t, "x not declared", r.SemanticErrors[0].Message)
	require.NotEmpty(t, r.SymbolTable)
	require.NotEmpty(t, r.SymbolTable[0].Symbols)
	assert.Equal(t, "main", r.SymbolTable[0].Symbols[0].Name)
}

func TestFingerprintIsDeterministic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.analyzer")
	defer teardown()
	//
	src := "package main\nfunc main() {\n\tx := 1 @\n\ty = x\n}\n"
	fp := Analyze(src).Fingerprint()
	require.NotEmpty(t, fp)
	assert.Equal(t, fp, Analyze(src).Fingerprint())
	assert.NotEqual(t, fp, Analyze(src+"var z int\n").Fingerprint())
}

func TestConcurrentAnalyses(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "gofront.analyzer")
	defer teardown()
	//
	sources := []string{
		"package main\nvar x int\nvar x string\n",
		"package main\nfunc main() { break }\n",
		"package main\nfunc main() {}\n",
	}
	want := make([]string, len(sources))
	for i, src := range sources {
		want[i] = Analyze(src).Fingerprint()
	}
	var wg sync.WaitGroup
	have := make([]string, 3*len(sources))
	for i := range have {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			have[i] = Analyze(sources[i%len(sources)]).Fingerprint()
		}(i)
	}
	wg.Wait()
	for i, fp := range have {
		assert.Equal(t, want[i%len(sources)], fp)
	}
}
