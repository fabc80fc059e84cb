package position

import (
	"strings"
	"testing"
)

func TestSpanHighlighterBasic(t *testing.T) {
	file := NewSourceFile("test.ql", "fn main(): Int {\n    return 42;\n}")

	highlighter := NewSpanHighlighter(file)
	result := highlighter.HighlightSpan(NewSpan(2, 12, 2, 13))

	expectedStrings := []string{
		"1 | fn main(): Int {",
		"2 |     return 42;",
		"  |            ^^\n",
		"3 | }",
	}

	for _, expected := range expectedStrings {
		if !strings.Contains(result, expected) {
			t.Errorf("HighlightSpan result should contain %q, got:\n%s", expected, result)
		}
	}
}

func TestSpanHighlighterZeroWidth(t *testing.T) {
	file := NewSourceFile("", "use Foo")

	result := NewSpanHighlighter(file).WithContext(0).HighlightSpan(NewSpan(1, 8, 1, 8))

	expected := "1 | use Foo\n  |        ^\n"
	if result != expected {
		t.Errorf("HighlightSpan() = %q, want %q", result, expected)
	}
}

func TestSpanHighlighterMultiLine(t *testing.T) {
	file := NewSourceFile("", "fn main(): Int {\n    return 42;\n}")

	result := NewSpanHighlighter(file).HighlightSpan(NewSpan(1, 16, 3, 1))

	if strings.Count(result, "^") == 0 {
		t.Fatalf("expected carets, got:\n%s", result)
	}

	lines := strings.Split(strings.TrimRight(result, "\n"), "\n")
	if len(lines) != 6 {
		t.Errorf("expected 3 source rows and 3 caret rows, got %d:\n%s", len(lines), result)
	}
}

func TestSpanHighlighterTabsAndWideRunes(t *testing.T) {
	file := NewSourceFile("", "\t\"日本\" x")

	result := NewSpanHighlighter(file).WithContext(0).HighlightSpan(NewSpan(1, 11, 1, 11))

	// the tab is preserved and each wide rune takes two cells
	expected := "1 | \t\"日本\" x\n  | \t       ^\n"
	if result != expected {
		t.Errorf("HighlightSpan() = %q, want %q", result, expected)
	}
}

func TestDisplayWidth(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"", 0},
		{"abc", 3},
		{"日本", 4},
		{"ｱ", 1},
		{"Ａ", 2},
	}

	for _, tt := range tests {
		if got := DisplayWidth(tt.input); got != tt.expected {
			t.Errorf("DisplayWidth(%q) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}

func TestSpanHighlighterInvalidSpan(t *testing.T) {
	file := NewSourceFile("", "x")

	if got := NewSpanHighlighter(file).HighlightSpan(Span{}); got != "Invalid span" {
		t.Errorf("HighlightSpan(invalid) = %q", got)
	}
}
