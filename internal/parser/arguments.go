package parser

import (
	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/lexer"
)

// parseArguments parses `name: Type, ...)` just after the opening parenthesis
// and returns the index following the closing one. A trailing comma is
// accepted. A repeated name keeps its first position and its last type.
func (p *Parser) parseArguments(index int) (map[string]*ast.ResolvedType, []string, int, error) {
	arguments := make(map[string]*ast.ResolvedType)
	var order []string

	for {
		tok, _, err := lexer.GetNextToken(p.tokens, index, p.previous(index), identifierOrClose, "Expected identifier or closing parenthesis.")
		if err != nil {
			return nil, nil, index, err
		}
		index++
		if tok.Token.IsSymbol(lexer.SymbolParenClose) {
			return arguments, order, index, nil
		}

		if _, err := p.expect(index, lexer.SymbolToken(lexer.SymbolColon), "Expected colon."); err != nil {
			return nil, nil, index, err
		}
		index++

		argType, next, err := p.parseResolvedType(index)
		if err != nil {
			return nil, nil, next, err
		}
		index = next

		name := tok.Token.Text
		if _, seen := arguments[name]; !seen {
			order = append(order, name)
		}
		arguments[name] = argType

		sep, _, err := lexer.GetNextToken(p.tokens, index, p.previous(index), commaOrClose, "Expected comma or closing parenthesis.")
		if err != nil {
			return nil, nil, index, err
		}
		index++
		if sep.Token.IsSymbol(lexer.SymbolParenClose) {
			return arguments, order, index, nil
		}
	}
}

func identifierOrClose(tok lexer.SourceToken) (lexer.SourceToken, bool) {
	return tok, tok.Token.Kind == lexer.TokenIdentifier || tok.Token.IsSymbol(lexer.SymbolParenClose)
}

func commaOrClose(tok lexer.SourceToken) (lexer.SourceToken, bool) {
	return tok, tok.Token.IsSymbol(lexer.SymbolComma) || tok.Token.IsSymbol(lexer.SymbolParenClose)
}
