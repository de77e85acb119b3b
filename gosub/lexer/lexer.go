/*
Package lexer implements the tokenizer for the Go subset.

The lexer is a longest-match scanner generated by lexmachine. Its DFA is
compiled once per process and shared by all scanners; scanners themselves
carry no shared state, so tokenizing the same input always yields the same
tokens and diagnostics.

Comments and white space are discarded. Input which matches no token pattern
is reported as a lexical diagnostic and skipped one code point at a time.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lexer

import (
	"fmt"
	"strconv"
	"sync"
	"unicode/utf8"

	"github.com/npillmayer/gofront"
	"github.com/npillmayer/gofront/gosub/diag"
	"github.com/npillmayer/gofront/gosub/token"
	"github.com/npillmayer/gofront/lr/scanner"
	"github.com/npillmayer/schuko/tracing"
	"github.com/timtadh/lexmachine"
)

// tracer traces with key 'gofront.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("gofront.scanner")
}

var (
	dfa      *scanner.LMAdapter
	dfaErr   error
	dfaBuild sync.Once
)

// Compile compiles the lexer's DFA, if not already done. It is called
// implicitly by New.
func Compile() error {
	dfaBuild.Do(func() {
		lits, ids := token.Punctuation()
		dfa, dfaErr = scanner.NewLMAdapter(patterns, lits, ids)
		if dfaErr != nil {
			dfaErr = fmt.Errorf("compiling lexer DFA: %w", dfaErr)
		}
	})
	return dfaErr
}

func patterns(lexer *lexmachine.Lexer) {
	lexer.Add([]byte(`( |\t|\r|\n)+`), scanner.Skip)
	lexer.Add([]byte(`//[^\n]*`), scanner.Skip)
	lexer.Add([]byte(`/\*([^*]|\r|\n|(\*+([^*/]|\r|\n)))*\*+/`), scanner.Skip)
	lexer.Add([]byte(`([a-z]|[A-Z]|_)([a-z]|[A-Z]|[0-9]|_)*`), scanner.MakeIdentifierToken(identKind))
	lexer.Add([]byte(`[0-9]+\.[0-9]+([eE](\+|-)?[0-9]+)?|[0-9]+[eE](\+|-)?[0-9]+`), scanner.MakeToken("FLOAT", int(token.Float)))
	lexer.Add([]byte(`0[xX]([0-9]|[a-f]|[A-F])+|[0-9]+`), scanner.MakeToken("INT", int(token.Int)))
	lexer.Add([]byte(`"([^"\\\n]|\\[^\n])*"`), scanner.MakeToken("STRING", int(token.String)))
	lexer.Add([]byte("`[^`]*`"), scanner.MakeToken("STRING", int(token.String)))
	lexer.Add([]byte(`'([^'\\\n]|\\[^\n])+'`), scanner.MakeToken("RUNE", int(token.Rune)))
}

// identKind classifies identifiers: reserved words get their keyword kind,
// true and false are bool literals.
func identKind(lexeme string) int {
	if lexeme == "true" || lexeme == "false" {
		return int(token.Bool)
	}
	return int(token.Lookup(lexeme))
}

// Scanner is a lazy tokenizer for a source text. It implements
// scanner.Tokenizer.
type Scanner struct {
	src       string
	lms       *scanner.LMScanner
	handler   func(error)
	diags     diag.List
	line      int    // current line
	lineStart uint64 // offset of the first byte of the current line
	counted   uint64 // input up to this offset has been counted for newlines
	done      bool
}

var _ scanner.Tokenizer = (*Scanner)(nil)

// New creates a scanner for a source text. It panics if the lexer's DFA
// cannot be compiled.
func New(src string) *Scanner {
	if err := Compile(); err != nil {
		panic(err)
	}
	s := &Scanner{src: src}
	s.Reset()
	return s
}

// Reset restarts the scanner at the beginning of its input, discarding
// collected diagnostics.
func (s *Scanner) Reset() {
	lms, err := dfa.Scanner(s.src)
	if err != nil {
		panic(err) // lexmachine fails only for a missing DFA
	}
	lms.SetErrorHandler(s.illegal)
	s.lms = lms
	s.diags = nil
	s.line, s.lineStart, s.counted = 1, 0, 0
	s.done = false
}

// SetErrorHandler installs an additional handler for lexical errors. It is
// part of interface scanner.Tokenizer.
func (s *Scanner) SetErrorHandler(h func(error)) {
	s.handler = h
}

// NextToken is part of interface scanner.Tokenizer.
func (s *Scanner) NextToken() gofront.Token {
	return s.Next()
}

// Next returns the next token. After the end of input it returns EOF tokens.
func (s *Scanner) Next() token.Token {
	if s.done {
		end := uint64(len(s.src))
		return token.New(token.EOF, "", nil, gofront.Span{end, end}, s.position(end))
	}
	t := s.lms.NextToken()
	kind := token.Kind(t.TokType())
	pos := s.position(t.Span().From())
	if kind == token.EOF {
		s.done = true
		return token.New(token.EOF, "", nil, t.Span(), pos)
	}
	value := s.decode(kind, t.Lexeme(), pos)
	tracer().Debugf("token %s %q at %s", kind, t.Lexeme(), pos)
	return token.New(kind, t.Lexeme(), value, t.Span(), pos)
}

// Diagnostics returns the lexical diagnostics collected so far.
func (s *Scanner) Diagnostics() diag.List {
	return s.diags
}

func (s *Scanner) illegal(err error) {
	if ic, ok := err.(*scanner.IllegalCharError); ok {
		s.diags.Add(diag.New(diag.Lexical, s.position(ic.Offset), "illegal character %q", ic.Char))
	} else {
		s.diags.Add(diag.New(diag.Lexical, s.position(uint64(len(s.src))), "%v", err))
	}
	if s.handler != nil {
		s.handler(err)
	}
}

// position computes line and column for an offset. Offsets must not decrease
// between calls.
func (s *Scanner) position(offset uint64) token.Position {
	if offset > uint64(len(s.src)) {
		offset = uint64(len(s.src))
	}
	for ; s.counted < offset; s.counted++ {
		if s.src[s.counted] == '\n' {
			s.line++
			s.lineStart = s.counted + 1
		}
	}
	col := utf8.RuneCountInString(s.src[s.lineStart:offset]) + 1
	return token.Position{Line: s.line, Column: col}
}

// decode converts a literal's lexeme to its value. Malformed literals are
// reported, and the token keeps a nil value.
func (s *Scanner) decode(kind token.Kind, lexeme string, pos token.Position) interface{} {
	switch kind {
	case token.Int:
		n, err := strconv.ParseInt(lexeme, 0, 64)
		if err != nil {
			s.diags.Add(diag.New(diag.Lexical, pos, "invalid integer literal %s", lexeme))
			return nil
		}
		return n
	case token.Float:
		f, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			s.diags.Add(diag.New(diag.Lexical, pos, "invalid floating-point literal %s", lexeme))
			return nil
		}
		return f
	case token.String:
		str, err := strconv.Unquote(lexeme)
		if err != nil {
			s.diags.Add(diag.New(diag.Lexical, pos, "invalid escape sequence in string literal %s", lexeme))
			return nil
		}
		return str
	case token.Rune:
		str, err := strconv.Unquote(lexeme)
		if err != nil {
			s.diags.Add(diag.New(diag.Lexical, pos, "invalid rune literal %s", lexeme))
			return nil
		}
		r, _ := utf8.DecodeRuneInString(str)
		return r
	case token.Bool:
		return lexeme == "true"
	}
	return nil
}

// Tokenize scans a complete source text. It returns the tokens (without the
// final EOF token) and the lexical diagnostics.
func Tokenize(src string) ([]token.Token, diag.List) {
	s := New(src)
	var toks []token.Token
	for t := s.Next(); t.Kind() != token.EOF; t = s.Next() {
		toks = append(toks, t)
	}
	return toks, s.Diagnostics()
}
