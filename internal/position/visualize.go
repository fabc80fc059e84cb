package position

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// SpanHighlighter renders source rows with a span underlined by carets.
type SpanHighlighter struct {
	file    *SourceFile
	context int // rows shown before and after the span
}

// NewSpanHighlighter creates a new span highlighter.
func NewSpanHighlighter(file *SourceFile) *SpanHighlighter {
	return &SpanHighlighter{
		file:    file,
		context: 2,
	}
}

// WithContext sets how many surrounding rows are printed.
func (sh *SpanHighlighter) WithContext(rows int) *SpanHighlighter {
	if rows >= 0 {
		sh.context = rows
	}
	return sh
}

// HighlightSpan returns the rows covered by span, plus context, with the
// span underlined using ASCII carets.
func (sh *SpanHighlighter) HighlightSpan(span Span) string {
	if !span.IsValid() {
		return "Invalid span"
	}

	var result strings.Builder

	startRow := max(1, span.Start.Row-sh.context)
	endRow := min(len(sh.file.Lines), span.End.Row+sh.context)
	gutter := len(fmt.Sprintf("%d", endRow))

	for row := startRow; row <= endRow; row++ {
		line := sh.file.GetLine(row)
		fmt.Fprintf(&result, "%*d | %s\n", gutter, row, line)

		if row >= span.Start.Row && row <= span.End.Row {
			fmt.Fprintf(&result, "%*s | ", gutter, "")
			sh.addHighlighting(&result, row, line, span)
			result.WriteString("\n")
		}
	}

	return result.String()
}

// addHighlighting adds carets under the part of line that belongs to span.
func (sh *SpanHighlighter) addHighlighting(result *strings.Builder, row int, line string, span Span) {
	from, to := 1, len(line)
	if row == span.Start.Row {
		from = span.Start.Col
	}
	if row == span.End.Row {
		to = span.End.Col
	}

	prefix := clampSlice(line, 0, from-1)
	for _, r := range prefix {
		if r == '\t' {
			result.WriteByte('\t')
			continue
		}
		result.WriteString(strings.Repeat(" ", runeWidth(r)))
	}

	carets := DisplayWidth(clampSlice(line, from-1, to))
	if carets < 1 {
		// zero-width and past-the-end spans still get one marker
		carets = 1
	}
	result.WriteString(strings.Repeat("^", carets))
}

// DisplayWidth returns the number of terminal cells s occupies.
// East Asian wide and fullwidth runes count double.
func DisplayWidth(s string) int {
	total := 0
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		total += runeWidth(r)
		s = s[size:]
	}
	return total
}

func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

// clampSlice slices s by byte offsets, clamping both ends into range.
func clampSlice(s string, from, to int) string {
	from = max(0, min(from, len(s)))
	to = max(from, min(to, len(s)))
	return s[from:to]
}
