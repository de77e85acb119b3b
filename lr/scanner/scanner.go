/*
Package scanner defines an interface for scanners to be used with parsers of package lr.

A default scanner implementation is provided as an adapter for lexmachine,
a DFA-based lexer generator. Scanners built this way perform longest-match
scanning; input which matches no pattern is reported to an error handler and
skipped one code point at a time.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"fmt"
	"text/scanner"

	"github.com/npillmayer/gofront"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gofront.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("gofront.scanner")
}

// EOF is identical to text/scanner.EOF.
const EOF = scanner.EOF

// Tokenizer is a scanner interface.
type Tokenizer interface {
	NextToken() gofront.Token
	SetErrorHandler(func(error))
}

// Default error reporting function for scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// IllegalCharError is reported to a scanner's error handler for input which
// does not match any token pattern.
type IllegalCharError struct {
	Offset uint64 // byte offset of the illegal character
	Char   rune   // the illegal character (utf8.RuneError for invalid encodings)
}

func (e *IllegalCharError) Error() string {
	return fmt.Sprintf("illegal character %q at offset %d", e.Char, e.Offset)
}

// --- Default tokens --------------------------------------------------------

// DefaultToken is an unsophisticated token type, used by the lexmachine adapter
// and by token slices.
type DefaultToken struct {
	kind   gofront.TokType
	lexeme string
	Val    interface{}
	span   gofront.Span
}

var _ gofront.Token = DefaultToken{}

// MakeDefaultToken creates a token.
func MakeDefaultToken(typ gofront.TokType, lexeme string, span gofront.Span) DefaultToken {
	return DefaultToken{
		kind:   typ,
		lexeme: lexeme,
		span:   span,
	}
}

// TokType is part of interface gofront.Token.
func (t DefaultToken) TokType() gofront.TokType {
	return t.kind
}

// Value is part of interface gofront.Token.
func (t DefaultToken) Value() interface{} {
	return t.Val
}

// Lexeme is part of interface gofront.Token.
func (t DefaultToken) Lexeme() string {
	return t.lexeme
}

// Span is part of interface gofront.Token.
func (t DefaultToken) Span() gofront.Span {
	return t.span
}

// --- Token slices ----------------------------------------------------------

// SliceTokenizer replays a slice of tokens. After the last token it
// returns EOF tokens. It is a test helper: parsers may be tested with
// hand-made tokens, independent of a lexer.
type SliceTokenizer struct {
	tokens []gofront.Token
	pos    int
}

var _ Tokenizer = (*SliceTokenizer)(nil)

// FromTokens creates a tokenizer for pre-scanned tokens.
func FromTokens(tokens []gofront.Token) *SliceTokenizer {
	return &SliceTokenizer{tokens: tokens}
}

// NextToken is part of the Tokenizer interface.
func (st *SliceTokenizer) NextToken() gofront.Token {
	if st.pos >= len(st.tokens) {
		var end uint64
		if len(st.tokens) > 0 {
			end = st.tokens[len(st.tokens)-1].Span().To()
		}
		return MakeDefaultToken(EOF, "", gofront.Span{end, end})
	}
	t := st.tokens[st.pos]
	st.pos++
	return t
}

// SetErrorHandler is part of the Tokenizer interface. Token slices do not
// produce errors.
func (st *SliceTokenizer) SetErrorHandler(func(error)) {}
