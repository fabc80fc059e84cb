// Package lexer implements the Quill lexical analyzer.
//
// Lexing is a single pass over the source bytes. Besides the token sequence it
// records every brace-delimited code block, so the parser can bound a function
// body without re-scanning nesting.
package lexer

import (
	"strconv"

	"github.com/quill-lang/quill/internal/diagnostic"
	"github.com/quill-lang/quill/internal/position"
)

const unclosedBlock = "Unclosed code block."

// IsUnclosedBlock reports whether err is the failure for input that ended
// inside a code block, i.e. input that more lines could complete.
func IsUnclosedBlock(err error) bool {
	f, ok := diagnostic.AsFailure(err)
	return ok && f.Message == unclosedBlock
}

// Result is the output of a successful lex.
type Result struct {
	Tokens []SourceToken
	// CodeBlocks is keyed by the token index of each opening brace.
	CodeBlocks map[int]CodeBlock
}

// Lexer represents the lexical analyzer
type Lexer struct {
	input []byte
	idx   int // current index into input
	row   int // current row, 1-based
	col   int // current column, 1-based
	last  position.Location

	lexeme     []byte
	tokens     []SourceToken
	codeBlocks map[int]CodeBlock
	blockStack []int // token indices of currently open braces
}

// New creates a new lexer instance
func New(input []byte) *Lexer {
	return &Lexer{
		input:      input,
		row:        1,
		col:        1,
		codeBlocks: make(map[int]CodeBlock),
	}
}

// Lex turns source code into tokens and matched code blocks.
// On failure the returned error is a *diagnostic.Failure.
func Lex(source []byte) (*Result, error) {
	return New(source).Run()
}

// Run scans the whole input.
func (l *Lexer) Run() (*Result, error) {
	for {
		l.skipWhitespace()
		l.lexeme = l.lexeme[:0]

		if l.idx >= len(l.input) {
			break
		}

		start := l.location()
		ch := l.input[l.idx]

		switch {
		case ch == ';':
			l.skip(1)
			l.emit(End(), start)

		case ch == '/' && l.peekAt(1) == '/':
			l.skip(2)
			l.takeWhile(func(c byte) bool { return c != '\n' })
			l.emit(Comment(string(l.lexeme)), start)

		case ch == '"':
			l.skip(1)
			l.takeWhile(func(c byte) bool { return c != '"' })
			if l.idx >= len(l.input) {
				return nil, diagnostic.NewFailure("Unterminated string literal.", position.Span{Start: start, End: l.last})
			}
			l.skip(1)
			l.emit(StringLiteral(string(l.lexeme)), start)

		case isDigit(ch):
			l.takeWhile(isDigit)
			value, err := strconv.ParseInt(string(l.lexeme), 10, 64)
			if err != nil {
				return nil, diagnostic.NewFailure("Integer literal out of range.", position.Span{Start: start, End: l.last})
			}
			l.emit(IntegerLiteral(value), start)

		case isLetter(ch):
			l.takeWhile(isAlphaNumeric)
			text := string(l.lexeme)
			if kw, ok := LookupKeyword(text); ok {
				l.emit(KeywordToken(kw), start)
			} else {
				l.emit(Identifier(text), start)
			}

		default:
			sym, ok := SymbolFromChar(ch)
			if !ok {
				return nil, diagnostic.At("Unrecognised input.", start)
			}

			switch sym {
			case SymbolBraceOpen:
				l.blockStack = append(l.blockStack, len(l.tokens))
			case SymbolBraceClose:
				if len(l.blockStack) == 0 {
					return nil, diagnostic.At("Unmatched closing brace.", start)
				}
				open := l.blockStack[len(l.blockStack)-1]
				l.blockStack = l.blockStack[:len(l.blockStack)-1]
				l.codeBlocks[open] = CodeBlock{Start: open, End: len(l.tokens)}
			}

			l.skip(1)
			l.emit(SymbolToken(sym), start)
		}
	}

	// the innermost unclosed brace is the one reported
	if n := len(l.blockStack); n > 0 {
		return nil, diagnostic.NewFailure(unclosedBlock, l.tokens[l.blockStack[n-1]].Span)
	}

	return &Result{Tokens: l.tokens, CodeBlocks: l.codeBlocks}, nil
}

// emit appends a token that started at start and ends at the last consumed character.
func (l *Lexer) emit(tok Token, start position.Location) {
	l.tokens = append(l.tokens, SourceToken{
		Token: tok,
		Span:  position.Span{Start: start, End: l.last},
	})
}

func (l *Lexer) location() position.Location {
	return position.Location{Row: l.row, Col: l.col}
}

// peekAt returns the byte amount characters ahead, or 0 past the end
func (l *Lexer) peekAt(amount int) byte {
	if l.idx+amount >= len(l.input) {
		return 0
	}
	return l.input[l.idx+amount]
}

// advance moves past one character, tracking rows and columns
func (l *Lexer) advance(take bool) {
	ch := l.input[l.idx]
	l.last = l.location()
	if take {
		l.lexeme = append(l.lexeme, ch)
	}

	l.idx++
	if ch == '\n' {
		l.row++
		l.col = 1
	} else {
		l.col++
	}
}

// takeWhile consumes characters into the lexeme while predicate holds
func (l *Lexer) takeWhile(predicate func(byte) bool) {
	for l.idx < len(l.input) && predicate(l.input[l.idx]) {
		l.advance(true)
	}
}

// skip moves past amount characters without taking them
func (l *Lexer) skip(amount int) {
	for i := 0; i < amount && l.idx < len(l.input); i++ {
		l.advance(false)
	}
}

func (l *Lexer) skipWhitespace() {
	for l.idx < len(l.input) && isWhitespace(l.input[l.idx]) {
		l.advance(false)
	}
}

// isLetter checks if character is ASCII letter
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

// isDigit checks if character is ASCII digit
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// isAlphaNumeric checks if character is alphanumeric
func isAlphaNumeric(ch byte) bool {
	return isLetter(ch) || isDigit(ch)
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}
