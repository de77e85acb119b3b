package scanner

import (
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/gofront"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// lexmachine adapter

// LMAdapter is a lexmachine adapter to use lexmachine as a scanner.
type LMAdapter struct {
	Lexer *lexmachine.Lexer
}

// NewLMAdapter creates a new lexmachine adapter. It receives an init function
// to add patterns, a list of literals ('[', ';', "&&", …) and a
// map for translating token strings to their values.
// Patterns added by init take precedence over literals for matches of
// equal length.
//
// NewLMAdapter will return an error if compiling the DFA failed.
func NewLMAdapter(init func(*lexmachine.Lexer), literals []string, tokenIds map[string]int) (*LMAdapter, error) {
	adapter := &LMAdapter{}
	adapter.Lexer = lexmachine.NewLexer()
	init(adapter.Lexer)
	for _, lit := range literals {
		r := "\\" + strings.Join(strings.Split(lit, ""), "\\")
		adapter.Lexer.Add([]byte(r), MakeToken(lit, tokenIds[lit]))
	}
	if err := adapter.Lexer.Compile(); err != nil {
		tracer().Errorf("Error compiling DFA: %v", err)
		return nil, err
	}
	return adapter, nil
}

// Scanner creates a scanner for a given input. The scanner will implement the
// Tokenizer interface.
func (lm *LMAdapter) Scanner(input string) (*LMScanner, error) {
	text := []byte(input)
	s, err := lm.Lexer.Scanner(text)
	if err != nil {
		return nil, err
	}
	return &LMScanner{scanner: s, text: text, Error: logError}, nil
}

// LMScanner is a scanner type for lexmachine scanners, implementing the
// Tokenizer interface.
type LMScanner struct {
	scanner *lexmachine.Scanner
	text    []byte
	Error   func(error)
}

var _ Tokenizer = (*LMScanner)(nil)

// SetErrorHandler sets an error handler for the scanner.
func (lms *LMScanner) SetErrorHandler(h func(error)) {
	if h == nil {
		lms.Error = logError
		return
	}
	lms.Error = h
}

// NextToken is part of the Tokenizer interface.
//
// Input not matching any pattern is reported to the error handler as an
// *IllegalCharError, and the scanner resumes exactly one code point after
// the start of the unmatched input.
func (lms *LMScanner) NextToken() gofront.Token {
	tok, err, eof := lms.scanner.Next()
	for err != nil {
		ui, is := err.(*machines.UnconsumedInput)
		if !is {
			lms.Error(err)
			eof = true
			break
		}
		r, width := utf8.DecodeRune(lms.text[ui.StartTC:])
		if width == 0 { // cannot happen before end of input
			width = 1
		}
		lms.Error(&IllegalCharError{Offset: uint64(ui.StartTC), Char: r})
		lms.scanner.TC = ui.StartTC + width
		tok, err, eof = lms.scanner.Next()
	}
	if eof {
		end := uint64(len(lms.text))
		return MakeDefaultToken(EOF, "", gofront.Span{end, end})
	}
	token := tok.(*lexmachine.Token)
	from := uint64(token.TC)
	t := MakeDefaultToken(
		gofront.TokType(token.Type),
		string(token.Lexeme),
		gofront.Span{from, from + uint64(len(token.Lexeme))},
	)
	t.Val = token.Value
	return t
}

// ---------------------------------------------------------------------------

// Skip is a pre-defined action which ignores the scanned match.
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// MakeToken is a pre-defined action which wraps a scanned match into a token.
func MakeToken(name string, id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

// MakeIdentifierToken is an action for identifier patterns. classify maps
// the lexeme to a token value, which lets reserved words receive their own
// token values.
func MakeIdentifierToken(classify func(lexeme string) int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		lexeme := string(m.Bytes)
		return s.Token(classify(lexeme), lexeme, m), nil
	}
}
