// Package errors provides a single error type spanning four kinds:
// parse/syntax, semantic (redeclaration, unknown identifier), geometry
// validation, and runtime numerical events (which this package never
// represents, because those are absorbed locally and never surface as
// a CoreError).
package errors

import (
	"fmt"
	"strings"
)

// Kind is the error category, mirroring taxonomy.
type Kind string

const (
	Syntax Kind = "SyntaxError"
	Semantic Kind = "SemanticError"
	Geometry Kind = "GeometryError"
)

// Location pinpoints a position in a scene file.
type Location struct {
	File string
	Line int
	Column int
}

// CoreError is a fatal error: parse errors and geometry validation errors
// both abort construction of the partial object tree .
type CoreError struct {
	Kind Kind
	Message string
	Location Location
	Context string // innermost enclosing brace/block, e.g. "sphere { ... }"
	Source string // the offending source line, for the caret display
}

func New(kind Kind, message, file string, line, col int) *CoreError {
	return &CoreError{Kind: kind, Message: message, Location: Location{File: file, Line: line, Column: col}}
}

func (e *CoreError) WithContext(ctx string) *CoreError {
	e.Context = ctx
	return e
}

func (e *CoreError) WithSource(line string) *CoreError {
	e.Source = line
	return e
}

func (e *CoreError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s\n", e.Kind, e.Message))
	if e.Location.File != "" {
		sb.WriteString(fmt.Sprintf(" at %s:%d:%d\n", e.Location.File, e.Location.Line, e.Location.Column))
	}
	if e.Context != "" {
		sb.WriteString(fmt.Sprintf(" in %s\n", e.Context))
	}
	if e.Source != "" {
		sb.WriteString(fmt.Sprintf("\n %d | %s\n", e.Location.Line, e.Source))
		pad := strings.Repeat(" ", len(fmt.Sprintf("%d | ", e.Location.Line)))
		if e.Location.Column > 0 {
			pad += strings.Repeat(" ", e.Location.Column-1)
		}
		sb.WriteString(pad + "^\n")
	}
	return sb.String()
}

// Warning is a non-fatal diagnostic: geometry warnings and version-
// compatibility notices, collected rather than returned.
type Warning struct {
	Message string
	Location Location
}

func (w Warning) String() string {
	if w.Location.File == "" {
		return w.Message
	}
	return fmt.Sprintf("%s:%d:%d: warning: %s", w.Location.File, w.Location.Line, w.Location.Column, w.Message)
}
