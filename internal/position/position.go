// Package position provides source position tracking for the Quill front end.
// Every token, declaration and failure carries a Span so that diagnostics can
// point back at the exact characters they concern.
package position

import (
	"fmt"
	"strings"
)

// Location represents a single character position in source code
type Location struct {
	Row int // 1-based row number
	Col int // 1-based column number
}

// IsValid returns true if the location is valid
func (l Location) IsValid() bool {
	return l.Row > 0 && l.Col > 0
}

// String returns a string representation of the location
func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Row, l.Col)
}

// Before returns true if this location comes before other
func (l Location) Before(other Location) bool {
	if l.Row != other.Row {
		return l.Row < other.Row
	}
	return l.Col < other.Col
}

// After returns true if this location comes after other
func (l Location) After(other Location) bool {
	return other.Before(l)
}

// Span represents a range of source code between two locations.
// Both ends are inclusive: End names the last character that belongs to the span.
type Span struct {
	Start Location
	End   Location
}

// NewSpan builds a span from raw coordinates.
func NewSpan(startRow, startCol, endRow, endCol int) Span {
	return Span{
		Start: Location{Row: startRow, Col: startCol},
		End:   Location{Row: endRow, Col: endCol},
	}
}

// IsValid returns true if the span is valid
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid() && !s.End.Before(s.Start)
}

// String returns a string representation of the span
func (s Span) String() string {
	if s.Start.Row == s.End.Row {
		return fmt.Sprintf("%d:%d-%d", s.Start.Row, s.Start.Col, s.End.Col)
	}
	return fmt.Sprintf("%d:%d-%d:%d", s.Start.Row, s.Start.Col, s.End.Row, s.End.Col)
}

// ToLastChar returns a zero-width span covering only the last character of s.
// Used to anchor failures that happen after the input ran out.
func (s Span) ToLastChar() Span {
	return Span{Start: s.End, End: s.End}
}

// Contains returns true if the span contains the given location
func (s Span) Contains(loc Location) bool {
	if !s.IsValid() || !loc.IsValid() {
		return false
	}
	return !loc.Before(s.Start) && !loc.After(s.End)
}

// Union returns a span that encompasses both this span and other
func (s Span) Union(other Span) Span {
	if !s.IsValid() {
		return other
	}
	if !other.IsValid() {
		return s
	}

	start := s.Start
	if other.Start.Before(start) {
		start = other.Start
	}

	end := s.End
	if other.End.After(end) {
		end = other.End
	}

	return Span{Start: start, End: end}
}

// SourceFile represents a source file with content and row access
type SourceFile struct {
	Filename string   // File path, may be empty for in-memory input
	Content  string   // Source code content
	Lines    []string // Rows of source code for efficient access
}

// NewSourceFile creates a new source file from content
func NewSourceFile(filename, content string) *SourceFile {
	return &SourceFile{
		Filename: filename,
		Content:  content,
		Lines:    strings.Split(content, "\n"),
	}
}

// GetLine returns the specified row (1-based) or empty string if invalid
func (sf *SourceFile) GetLine(row int) string {
	if row < 1 || row > len(sf.Lines) {
		return ""
	}
	return sf.Lines[row-1]
}

// GetSpanText returns the text covered by the span, both ends included.
// Columns count bytes, matching how the lexer advances.
func (sf *SourceFile) GetSpanText(span Span) string {
	if !span.IsValid() || span.End.Row > len(sf.Lines) {
		return ""
	}

	var b strings.Builder
	for row := span.Start.Row; row <= span.End.Row; row++ {
		line := sf.GetLine(row)
		from, to := 0, len(line)
		if row == span.Start.Row {
			from = min(span.Start.Col-1, len(line))
		}
		if row == span.End.Row {
			to = min(span.End.Col, len(line))
		}
		if from < to {
			b.WriteString(line[from:to])
		}
		if row != span.End.Row {
			b.WriteByte('\n')
		}
	}

	return b.String()
}

// Location formats a location with the file name, if any.
func (sf *SourceFile) Location(loc Location) string {
	if sf.Filename != "" {
		return fmt.Sprintf("%s:%s", sf.Filename, loc)
	}
	return loc.String()
}
