package parser

import (
	"strings"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/diagnostic"
	"github.com/quill-lang/quill/internal/lexer"
)

// parseUse parses `use A.B.C;` starting at the use keyword and registers it
// under its final segment.
func (p *Parser) parseUse(index int) (int, error) {
	keyword := p.tokens[index]
	index++

	var segments []string
	afterPeriod := false

	for {
		tok, _, err := lexer.GetNextToken(p.tokens, index, p.previous(index), lexer.Any, "Expected an identifier.")
		if err != nil {
			return index, err
		}

		switch {
		case tok.Token.Kind == lexer.TokenIdentifier && (len(segments) == 0 || afterPeriod):
			segments = append(segments, tok.Token.Text)
			afterPeriod = false

		case tok.Token.IsSymbol(lexer.SymbolPeriod) && len(segments) > 0 && !afterPeriod:
			afterPeriod = true

		case tok.Token.Kind == lexer.TokenEnd && len(segments) == 0:
			return index, diagnostic.NewFailure("At least one identifier must be provided in a use statement.", tok.Span)

		case tok.Token.Kind == lexer.TokenEnd && !afterPeriod:
			use := &ast.Use{
				Identifier: strings.Join(segments, "."),
				Span:       keyword.Span.Union(p.previous(index).Span),
			}
			p.file.Uses[use.Alias()] = use
			return index + 1, nil

		default:
			return index, diagnostic.NewFailure("Expected an identifier.", tok.Span)
		}

		index++
	}
}
