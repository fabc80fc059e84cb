// Package diagnostic defines the single failure type produced by the Quill
// lexer and parser, and renders it against the source it came from.
package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/quill-lang/quill/internal/position"
)

// Failure is a located lexing or parsing error. The core stops at the first one.
type Failure struct {
	Message string
	Span    position.Span
}

// NewFailure creates a failure anchored at span.
func NewFailure(message string, span position.Span) *Failure {
	return &Failure{Message: message, Span: span}
}

// At creates a failure anchored at a single location.
func At(message string, loc position.Location) *Failure {
	return &Failure{Message: message, Span: position.Span{Start: loc, End: loc}}
}

// Error implements the error interface
func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Span.Start, f.Message)
}

// AsFailure extracts a *Failure from err, if there is one.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

const (
	colorRed   = "\x1b[31m"
	colorBold  = "\x1b[1m"
	colorReset = "\x1b[0m"
)

// Render formats a failure as a caret diagnostic against file:
//
//	main.ql:1:5: error: Expected an identifier.
//	1 | use ;
//	  |     ^
func Render(f *Failure, file *position.SourceFile, color bool) string {
	var b strings.Builder

	header := fmt.Sprintf("%s: error: %s", file.Location(f.Span.Start), f.Message)
	if color {
		header = colorBold + colorRed + header + colorReset
	}
	b.WriteString(header)
	b.WriteString("\n")

	b.WriteString(position.NewSpanHighlighter(file).WithContext(0).HighlightSpan(f.Span))

	return b.String()
}
