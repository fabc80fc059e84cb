package parser

import (
	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/lexer"
)

// parseResolvedType reads a type identifier and qualifies it. A name matching
// a use alias resolves into that use's full path; anything else belongs to the
// file's own namespace.
func (p *Parser) parseResolvedType(index int) (*ast.ResolvedType, int, error) {
	name, tok, err := lexer.GetNextToken(p.tokens, index, p.previous(index), lexer.IdentifierText, "Expected type identifier.")
	if err != nil {
		return nil, index, err
	}

	namespace := p.file.Namespace
	if use, ok := p.file.Uses[name]; ok {
		namespace = use.Identifier
	}

	span := tok.Span
	return &ast.ResolvedType{
		Namespace:  namespace,
		Identifier: name,
		Span:       &span,
	}, index + 1, nil
}
