package parser

import (
	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/diagnostic"
	"github.com/quill-lang/quill/internal/lexer"
	"github.com/quill-lang/quill/internal/position"
)

// parseFunction parses `[public] fn name(args): Type { body }` starting at the
// first keyword.
func (p *Parser) parseFunction(index int) (int, error) {
	fn := &ast.DefinedFunction{Visibility: ast.Private}

	if p.tokens[index].Token.IsKeyword(lexer.KeywordPublic) {
		index++
		keyword, err := p.expect(index, lexer.KeywordToken(lexer.KeywordFunction), "Expected fn keyword.")
		if err != nil {
			return index, err
		}
		fn.Visibility = ast.Public
		span := keyword.Span
		fn.VisibilitySpan = &span
	}
	index++

	name, nameToken, err := lexer.GetNextToken(p.tokens, index, p.previous(index), lexer.IdentifierText, "Expected function identifier.")
	if err != nil {
		return index, err
	}
	fn.Identifier = name
	fn.IdentifierSpan = nameToken.Span
	index++

	if _, err := p.expect(index, lexer.SymbolToken(lexer.SymbolParenOpen), "Expected opening parenthesis."); err != nil {
		return index, err
	}
	index++

	fn.Arguments, fn.ArgumentOrder, index, err = p.parseArguments(index)
	if err != nil {
		return index, err
	}

	if _, err := p.expect(index, lexer.SymbolToken(lexer.SymbolColon), "Expected colon."); err != nil {
		return index, err
	}
	index++

	fn.Returns, index, err = p.parseResolvedType(index)
	if err != nil {
		return index, err
	}

	block, ok := p.blocks[index]
	if !ok {
		return index, diagnostic.NewFailure("Expected opening brace.", p.spanOf(index))
	}

	body, err := p.parseBody(block)
	if err != nil {
		return index, err
	}
	fn.Body = body

	p.file.Functions[fn.Identifier] = fn
	return block.End + 1, nil
}

// parseBody parses the statements strictly between a block's braces.
func (p *Parser) parseBody(block lexer.CodeBlock) ([]ast.Expression, error) {
	body := []ast.Expression{}

	index := block.Start + 1
	for index < block.End {
		expr, next, err := p.parseExpression(index)
		if err != nil {
			return nil, err
		}
		body = append(body, expr)
		index = next
	}

	return body, nil
}

// spanOf returns the span of the token at index, or of the end of input.
func (p *Parser) spanOf(index int) position.Span {
	if index < len(p.tokens) {
		return p.tokens[index].Span
	}
	return p.previous(index).Span.ToLastChar()
}
