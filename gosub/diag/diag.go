/*
Package diag defines diagnostics reported by the stages of the analyzer.

Diagnostics are values: they are produced once, collected into lists and
never mutated afterwards.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package diag

import (
	"encoding/json"
	"fmt"

	"github.com/npillmayer/gofront/gosub/token"
)

// Kind is the stage which produced a diagnostic.
type Kind int

// Diagnostic kinds
const (
	Lexical Kind = iota
	Syntax
	Semantic
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical"
	case Syntax:
		return "syntax"
	}
	return "semantic"
}

// Severity of a diagnostic. Advisories are warnings and do not make a
// program invalid.
type Severity int

// Severities
const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Diagnostic is a single reported issue.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Message  string
	Pos      token.Position
}

// New creates an error diagnostic.
func New(kind Kind, pos token.Position, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
	}
}

// Advisory creates a semantic warning.
func Advisory(pos token.Position, format string, args ...interface{}) Diagnostic {
	d := New(Semantic, pos, format, args...)
	d.Severity = Warning
	return d
}

// Line returns the line of the diagnostic, or 0 if unknown.
func (d Diagnostic) Line() int {
	return d.Pos.Line
}

func (d Diagnostic) String() string {
	if d.Pos.IsValid() {
		return fmt.Sprintf("%s %s at %s: %s", d.Kind, d.Severity, d.Pos, d.Message)
	}
	return fmt.Sprintf("%s %s: %s", d.Kind, d.Severity, d.Message)
}

type diagJSON struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Column   int    `json:"column,omitempty"`
}

// MarshalJSON encodes a diagnostic as {kind, severity, message, line, column}.
func (d Diagnostic) MarshalJSON() ([]byte, error) {
	return json.Marshal(diagJSON{
		Kind:     d.Kind.String(),
		Severity: d.Severity.String(),
		Message:  d.Message,
		Line:     d.Pos.Line,
		Column:   d.Pos.Column,
	})
}

// List is an ordered list of diagnostics.
type List []Diagnostic

// Add appends a diagnostic.
func (l *List) Add(d Diagnostic) {
	*l = append(*l, d)
}

// Errors returns the diagnostics of severity Error.
func (l List) Errors() List {
	var errs List
	for _, d := range l {
		if d.Severity == Error {
			errs = append(errs, d)
		}
	}
	return errs
}
