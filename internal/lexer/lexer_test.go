package lexer

import (
	"testing"

	"github.com/quill-lang/quill/internal/diagnostic"
	"github.com/quill-lang/quill/internal/position"
)

func lexOrFail(t *testing.T, input string) *Result {
	t.Helper()

	result, err := Lex([]byte(input))
	if err != nil {
		t.Fatalf("Lex(%q) failed: %v", input, err)
	}

	return result
}

func TestBasicTokens(t *testing.T) {
	input := "fn main(): Int { return 42; }"

	tests := []struct {
		expected Token
		span     position.Span
	}{
		{KeywordToken(KeywordFunction), position.NewSpan(1, 1, 1, 2)},
		{Identifier("main"), position.NewSpan(1, 4, 1, 7)},
		{SymbolToken(SymbolParenOpen), position.NewSpan(1, 8, 1, 8)},
		{SymbolToken(SymbolParenClose), position.NewSpan(1, 9, 1, 9)},
		{SymbolToken(SymbolColon), position.NewSpan(1, 10, 1, 10)},
		{Identifier("Int"), position.NewSpan(1, 12, 1, 14)},
		{SymbolToken(SymbolBraceOpen), position.NewSpan(1, 16, 1, 16)},
		{KeywordToken(KeywordReturn), position.NewSpan(1, 18, 1, 23)},
		{IntegerLiteral(42), position.NewSpan(1, 25, 1, 26)},
		{End(), position.NewSpan(1, 27, 1, 27)},
		{SymbolToken(SymbolBraceClose), position.NewSpan(1, 29, 1, 29)},
	}

	result := lexOrFail(t, input)

	if len(result.Tokens) != len(tests) {
		t.Fatalf("expected %d tokens, got %d: %v", len(tests), len(result.Tokens), result.Tokens)
	}

	for i, tt := range tests {
		tok := result.Tokens[i]

		if tok.Token != tt.expected {
			t.Errorf("tests[%d] - token wrong. expected=%v, got=%v", i, tt.expected, tok.Token)
		}

		if tok.Span != tt.span {
			t.Errorf("tests[%d] - span wrong. expected=%v, got=%v", i, tt.span, tok.Span)
		}
	}

	block, ok := result.CodeBlocks[6]
	if !ok || block != (CodeBlock{Start: 6, End: 10}) {
		t.Errorf("expected code block {6 10}, got %v (present=%v)", block, ok)
	}
}

func TestKeywords(t *testing.T) {
	input := `fn return let class impl public protected abstract static use fnx Use`

	expected := []Token{
		KeywordToken(KeywordFunction),
		KeywordToken(KeywordReturn),
		KeywordToken(KeywordLet),
		KeywordToken(KeywordClass),
		KeywordToken(KeywordImplements),
		KeywordToken(KeywordPublic),
		KeywordToken(KeywordProtected),
		KeywordToken(KeywordAbstract),
		KeywordToken(KeywordStatic),
		KeywordToken(KeywordUse),
		Identifier("fnx"),
		Identifier("Use"),
	}

	result := lexOrFail(t, input)

	for i, tt := range expected {
		if i >= len(result.Tokens) {
			t.Fatalf("tests[%d] - missing token %v", i, tt)
		}

		if result.Tokens[i].Token != tt {
			t.Fatalf("tests[%d] - token wrong. expected=%v, got=%v", i, tt, result.Tokens[i].Token)
		}
	}

	if KeywordImplements.String() != "impl" {
		t.Errorf("KeywordImplements.String() = %q", KeywordImplements.String())
	}
}

func TestSymbols(t *testing.T) {
	input := "= ( ) [ ] < > , . : + - / ! ? * ^ { }"
	symbols := []Symbol{
		SymbolEqual, SymbolParenOpen, SymbolParenClose, SymbolBracketOpen, SymbolBracketClose,
		SymbolAngleOpen, SymbolAngleClose, SymbolComma, SymbolPeriod, SymbolColon,
		SymbolPlus, SymbolMinus, SymbolForwardSlash, SymbolExclamation, SymbolQuestion,
		SymbolAsterisk, SymbolCaret, SymbolBraceOpen, SymbolBraceClose,
	}

	result := lexOrFail(t, input)

	if len(result.Tokens) != len(symbols) {
		t.Fatalf("expected %d tokens, got %d", len(symbols), len(result.Tokens))
	}

	for i, sym := range symbols {
		if result.Tokens[i].Token != SymbolToken(sym) {
			t.Errorf("tests[%d] - expected %v, got %v", i, SymbolToken(sym), result.Tokens[i].Token)
		}

		// the symbol reproduces its own source character
		if got := input[result.Tokens[i].Span.Start.Col-1 : result.Tokens[i].Span.End.Col]; got != sym.String() {
			t.Errorf("tests[%d] - source text %q, symbol %q", i, got, sym.String())
		}
	}
}

func TestLiteralsAndComments(t *testing.T) {
	input := "// say hello\nlet s: String = \"hi there\";\n  x1 = 007;//tail"

	tests := []struct {
		expected Token
		span     position.Span
	}{
		{Comment(" say hello"), position.NewSpan(1, 1, 1, 12)},
		{KeywordToken(KeywordLet), position.NewSpan(2, 1, 2, 3)},
		{Identifier("s"), position.NewSpan(2, 5, 2, 5)},
		{SymbolToken(SymbolColon), position.NewSpan(2, 6, 2, 6)},
		{Identifier("String"), position.NewSpan(2, 8, 2, 13)},
		{SymbolToken(SymbolEqual), position.NewSpan(2, 15, 2, 15)},
		{StringLiteral("hi there"), position.NewSpan(2, 17, 2, 26)},
		{End(), position.NewSpan(2, 27, 2, 27)},
		{Identifier("x1"), position.NewSpan(3, 3, 3, 4)},
		{SymbolToken(SymbolEqual), position.NewSpan(3, 6, 3, 6)},
		{IntegerLiteral(7), position.NewSpan(3, 8, 3, 10)},
		{End(), position.NewSpan(3, 11, 3, 11)},
		{Comment("tail"), position.NewSpan(3, 12, 3, 17)},
	}

	result := lexOrFail(t, input)

	if len(result.Tokens) != len(tests) {
		t.Fatalf("expected %d tokens, got %d: %v", len(tests), len(result.Tokens), result.Tokens)
	}

	for i, tt := range tests {
		if result.Tokens[i].Token != tt.expected {
			t.Errorf("tests[%d] - token wrong. expected=%v, got=%v", i, tt.expected, result.Tokens[i].Token)
		}

		if result.Tokens[i].Span != tt.span {
			t.Errorf("tests[%d] - span wrong. expected=%v, got=%v", i, tt.span, result.Tokens[i].Span)
		}
	}
}

func TestMultiLineString(t *testing.T) {
	result := lexOrFail(t, "\"a\nb\"")

	if len(result.Tokens) != 1 {
		t.Fatalf("expected 1 token, got %d", len(result.Tokens))
	}

	if result.Tokens[0].Token != StringLiteral("a\nb") {
		t.Errorf("unexpected token %v", result.Tokens[0].Token)
	}

	if result.Tokens[0].Span != position.NewSpan(1, 1, 2, 2) {
		t.Errorf("unexpected span %v", result.Tokens[0].Span)
	}
}

func TestCodeBlocks(t *testing.T) {
	result := lexOrFail(t, "{ { } { } }")

	expected := map[int]CodeBlock{
		0: {Start: 0, End: 5},
		1: {Start: 1, End: 2},
		3: {Start: 3, End: 4},
	}

	if len(result.CodeBlocks) != len(expected) {
		t.Fatalf("expected %d code blocks, got %d: %v", len(expected), len(result.CodeBlocks), result.CodeBlocks)
	}

	for start, block := range expected {
		if got := result.CodeBlocks[start]; got != block {
			t.Errorf("block at %d: expected %v, got %v", start, block, got)
		}
	}
}

func TestLexFailures(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
		span    position.Span
	}{
		{"unmatched closing brace", "}", "Unmatched closing brace.", position.NewSpan(1, 1, 1, 1)},
		{"unmatched after balanced", "{ }\n  }", "Unmatched closing brace.", position.NewSpan(2, 3, 2, 3)},
		{"unclosed code block", "fn main(): Int { ", "Unclosed code block.", position.NewSpan(1, 16, 1, 16)},
		{"innermost unclosed block", "{ {\n{ }", "Unclosed code block.", position.NewSpan(1, 3, 1, 3)},
		{"unrecognised input", "let a # b", "Unrecognised input.", position.NewSpan(1, 7, 1, 7)},
		{"underscore is not an identifier character", "a_b", "Unrecognised input.", position.NewSpan(1, 2, 1, 2)},
		{"unterminated string", "x = \"abc", "Unterminated string literal.", position.NewSpan(1, 5, 1, 8)},
		{"unterminated string ending in newline", "\"ab\n", "Unterminated string literal.", position.NewSpan(1, 1, 1, 4)},
		{"integer overflow", "9223372036854775808", "Integer literal out of range.", position.NewSpan(1, 1, 1, 19)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Lex([]byte(tt.input))
			if err == nil {
				t.Fatalf("expected failure, got %v", result.Tokens)
			}

			failure, ok := diagnostic.AsFailure(err)
			if !ok {
				t.Fatalf("expected *diagnostic.Failure, got %T", err)
			}

			if failure.Message != tt.message {
				t.Errorf("message = %q, want %q", failure.Message, tt.message)
			}

			if failure.Span != tt.span {
				t.Errorf("span = %v, want %v", failure.Span, tt.span)
			}
		})
	}
}

func TestMaxInteger(t *testing.T) {
	result := lexOrFail(t, "9223372036854775807")

	if result.Tokens[0].Token != IntegerLiteral(9223372036854775807) {
		t.Errorf("unexpected token %v", result.Tokens[0].Token)
	}
}

func TestEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   \n\t\r\n"} {
		result := lexOrFail(t, input)

		if len(result.Tokens) != 0 || len(result.CodeBlocks) != 0 {
			t.Errorf("Lex(%q) should produce nothing, got %v", input, result.Tokens)
		}
	}
}

const sampleProgram = `use Foo.Bar.Baz;use Fizz.Buzz;
use Fizz;

// entry point
public fn main(foo: Bar, baz: Int): Baz {
    let abc: Int = -4 + (7 - 3 + asdf - hjkl(7, 8, abc));

    helloWorld(6, 7, 8);

    return 42;
}

fn nested(): Int { { } return 1; }
`

func TestBraceBalance(t *testing.T) {
	result := lexOrFail(t, sampleProgram)

	opens, closes := 0, 0
	for _, tok := range result.Tokens {
		switch {
		case tok.Token.IsSymbol(SymbolBraceOpen):
			opens++
		case tok.Token.IsSymbol(SymbolBraceClose):
			closes++
		}
	}

	if opens != closes || opens != len(result.CodeBlocks) {
		t.Fatalf("opens=%d closes=%d blocks=%d", opens, closes, len(result.CodeBlocks))
	}

	for start, block := range result.CodeBlocks {
		if start != block.Start || block.Start >= block.End {
			t.Errorf("malformed block %v keyed at %d", block, start)
		}

		if !result.Tokens[block.Start].Token.IsSymbol(SymbolBraceOpen) {
			t.Errorf("block %v does not start at '{'", block)
		}

		if !result.Tokens[block.End].Token.IsSymbol(SymbolBraceClose) {
			t.Errorf("block %v does not end at '}'", block)
		}
	}
}

func TestSpanMonotonicity(t *testing.T) {
	result := lexOrFail(t, sampleProgram)
	file := position.NewSourceFile("", sampleProgram)

	for i, tok := range result.Tokens {
		if !tok.Span.IsValid() {
			t.Fatalf("token %d (%v) has invalid span %v", i, tok.Token, tok.Span)
		}

		if i > 0 && !result.Tokens[i-1].Span.End.Before(tok.Span.Start) {
			t.Errorf("token %d (%v) at %v overlaps previous token at %v", i, tok.Token, tok.Span, result.Tokens[i-1].Span)
		}

		if tok.Token.Kind == TokenIdentifier && file.GetSpanText(tok.Span) != tok.Token.Text {
			t.Errorf("identifier %q spans %q", tok.Token.Text, file.GetSpanText(tok.Span))
		}
	}

	// the first token on the second row starts in column 1
	for _, tok := range result.Tokens {
		if tok.Span.Start.Row == 2 {
			if tok.Span.Start.Col != 1 {
				t.Errorf("first token of row 2 starts at column %d", tok.Span.Start.Col)
			}
			break
		}
	}
}

func TestIsUnclosedBlock(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"fn main(): Int {", true},
		{"fn main(): Int { {}", true},
		{"fn main(): Int {}", false},
		{"}", false},
		{"#", false},
	}

	for _, tt := range tests {
		_, err := Lex([]byte(tt.input))
		if got := IsUnclosedBlock(err); got != tt.expected {
			t.Errorf("IsUnclosedBlock(Lex(%q)) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}
