package lexer

import (
	"github.com/quill-lang/quill/internal/diagnostic"
)

// GetNextToken fetches tokens[index] and applies match to it. The matcher either
// accepts the token, producing a value, or rejects it.
//
// A rejected token produces a failure at that token's span. Running off the end
// of the input produces a failure on the last character of previous, so every
// failure is anchored to a real location.
func GetNextToken[T any](tokens []SourceToken, index int, previous SourceToken, match func(SourceToken) (T, bool), message string) (T, SourceToken, error) {
	var zero T

	if index < 0 || index >= len(tokens) {
		return zero, SourceToken{}, diagnostic.NewFailure(message, previous.Span.ToLastChar())
	}

	next := tokens[index]
	value, ok := match(next)
	if !ok {
		return zero, SourceToken{}, diagnostic.NewFailure(message, next.Span)
	}

	return value, next, nil
}

// TokenIs reports whether tokens[index] exists and equals expected.
func TokenIs(expected Token, tokens []SourceToken, index int) bool {
	if index < 0 || index >= len(tokens) {
		return false
	}
	return tokens[index].Token == expected
}

// Any accepts every token.
func Any(tok SourceToken) (SourceToken, bool) {
	return tok, true
}

// Is accepts only tokens equal to expected.
func Is(expected Token) func(SourceToken) (SourceToken, bool) {
	return func(tok SourceToken) (SourceToken, bool) {
		return tok, tok.Token == expected
	}
}

// IdentifierText accepts identifiers and yields their name.
func IdentifierText(tok SourceToken) (string, bool) {
	if tok.Token.Kind != TokenIdentifier {
		return "", false
	}
	return tok.Token.Text, true
}
