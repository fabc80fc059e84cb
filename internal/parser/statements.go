package parser

import (
	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/lexer"
)

// parseExpression parses one statement of a function body. Every statement
// kind is terminated by an End token. Callers only invoke it while index is
// inside the token slice.
func (p *Parser) parseExpression(index int) (ast.Expression, int, error) {
	first := p.tokens[index]

	var (
		expr ast.Expression
		err  error
	)
	switch {
	case first.Token.IsKeyword(lexer.KeywordLet):
		var decl *ast.VariableDeclaration
		decl, index, err = p.parseVariableDeclaration(index + 1)
		expr = decl

	case first.Token.IsKeyword(lexer.KeywordReturn):
		var value ast.SubExpression
		value, index, err = p.parseSubExpression(index+1, PrecedenceDefault)
		expr = &ast.Return{Value: value}

	default:
		var value ast.SubExpression
		value, index, err = p.parseSubExpression(index, PrecedenceDefault)
		expr = &ast.ExpressionStatement{Value: value}
	}
	if err != nil {
		return nil, index, err
	}

	if _, err := p.expect(index, lexer.End(), "Expected end of statement."); err != nil {
		return nil, index, err
	}

	return expr, index + 1, nil
}

// parseVariableDeclaration parses `name: Type = value` after the let keyword.
func (p *Parser) parseVariableDeclaration(index int) (*ast.VariableDeclaration, int, error) {
	name, nameToken, err := lexer.GetNextToken(p.tokens, index, p.previous(index), lexer.IdentifierText, "Expected variable identifier.")
	if err != nil {
		return nil, index, err
	}
	index++

	if _, err := p.expect(index, lexer.SymbolToken(lexer.SymbolColon), "Expected colon."); err != nil {
		return nil, index, err
	}
	index++

	variableType, index, err := p.parseResolvedType(index)
	if err != nil {
		return nil, index, err
	}

	if _, err := p.expect(index, lexer.SymbolToken(lexer.SymbolEqual), "Expected equal symbol."); err != nil {
		return nil, index, err
	}
	index++

	value, index, err := p.parseSubExpression(index, PrecedenceDefault)
	if err != nil {
		return nil, index, err
	}

	return &ast.VariableDeclaration{
		Identifier:     name,
		IdentifierSpan: nameToken.Span,
		VariableType:   variableType,
		Value:          value,
	}, index, nil
}
