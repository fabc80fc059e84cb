package parser

import (
	"fmt"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/diagnostic"
	"github.com/quill-lang/quill/internal/lexer"
)

// Precedence is the binding power of an operator. Higher binds tighter.
type Precedence int

const (
	PrecedenceDefault Precedence = 0
	PrecedenceSum     Precedence = 3
	PrecedenceProduct Precedence = 4
	PrecedencePrefix  Precedence = 6
	PrecedenceCall    Precedence = 8
)

// precedenceOf returns the infix binding power of tok.
func precedenceOf(tok lexer.Token) Precedence {
	if tok.Kind != lexer.TokenSymbol {
		return PrecedenceDefault
	}
	switch tok.Symbol {
	case lexer.SymbolPlus, lexer.SymbolMinus:
		return PrecedenceSum
	case lexer.SymbolAsterisk, lexer.SymbolForwardSlash:
		return PrecedenceProduct
	case lexer.SymbolParenOpen:
		return PrecedenceCall
	default:
		return PrecedenceDefault
	}
}

var prefixOperators = map[lexer.Symbol]ast.PrefixOperator{
	lexer.SymbolExclamation: ast.PrefixNot,
	lexer.SymbolMinus:       ast.PrefixMinus,
	lexer.SymbolPlus:        ast.PrefixPlus,
}

var infixOperators = map[lexer.Symbol]ast.InfixOperator{
	lexer.SymbolPlus:  ast.InfixAdd,
	lexer.SymbolMinus: ast.InfixSub,
}

// parseSubExpression parses an expression whose operators all bind tighter
// than precedence. It stops, without consuming, at the first token that does
// not continue the expression.
func (p *Parser) parseSubExpression(index int, precedence Precedence) (ast.SubExpression, int, error) {
	p.depth++
	defer func() { p.depth-- }()

	first, _, err := lexer.GetNextToken(p.tokens, index, p.previous(index), lexer.Any, "Expected a sub-expression.")
	if err != nil {
		return nil, index, err
	}
	if p.depth > p.maxDepth {
		return nil, index, diagnostic.NewFailure("Expression nested too deeply.", first.Span)
	}

	left, index, err := p.parsePrefix(first, index+1)
	if err != nil {
		return nil, index, err
	}

	for index < len(p.tokens) {
		next := p.tokens[index]
		infix := precedenceOf(next.Token)
		if precedence >= infix {
			break
		}

		if next.Token.IsSymbol(lexer.SymbolParenOpen) {
			left, index, err = p.parseCall(left, index)
		} else {
			left, index, err = p.parseInfix(left, next, index, infix)
		}
		if err != nil {
			return nil, index, err
		}
	}

	return left, index, nil
}

// parsePrefix builds the leftmost operand from first, the token just before index.
func (p *Parser) parsePrefix(first lexer.SourceToken, index int) (ast.SubExpression, int, error) {
	switch first.Token.Kind {
	case lexer.TokenIdentifier:
		return &ast.Variable{Name: first.Token.Text}, index, nil
	case lexer.TokenString:
		return &ast.StringLiteral{Value: first.Token.Text}, index, nil
	case lexer.TokenInteger:
		return &ast.IntegerLiteral{Value: first.Token.Value}, index, nil
	case lexer.TokenSymbol:
	default:
		return nil, index, diagnostic.NewFailure("Expected valid sub-expression.", first.Span)
	}

	if first.Token.IsSymbol(lexer.SymbolParenOpen) {
		inner, next, err := p.parseSubExpression(index, PrecedenceDefault)
		if err != nil {
			return nil, next, err
		}
		if _, err := p.expect(next, lexer.SymbolToken(lexer.SymbolParenClose), "Expected closing parenthesis."); err != nil {
			return nil, next, err
		}
		return &ast.Prefix{Operator: ast.PrefixGroup, Operand: inner}, next + 1, nil
	}

	op, ok := prefixOperators[first.Token.Symbol]
	if !ok {
		return nil, index, unknownSymbol(first)
	}

	operand, index, err := p.parseSubExpression(index, PrecedencePrefix)
	if err != nil {
		return nil, index, err
	}
	return &ast.Prefix{Operator: op, Operand: operand}, index, nil
}

// parseCall parses an argument list at the opening parenthesis. Only a bare
// identifier can be called.
func (p *Parser) parseCall(left ast.SubExpression, index int) (ast.SubExpression, int, error) {
	callee, ok := left.(*ast.Variable)
	if !ok {
		return nil, index, diagnostic.NewFailure("Cannot call function on non-identifier.", p.previous(index).Span)
	}
	index++

	call := &ast.FunctionCall{Name: callee.Name, Arguments: []ast.SubExpression{}}
	if lexer.TokenIs(lexer.SymbolToken(lexer.SymbolParenClose), p.tokens, index) {
		return call, index + 1, nil
	}

	for {
		arg, next, err := p.parseSubExpression(index, PrecedenceDefault)
		if err != nil {
			return nil, next, err
		}
		call.Arguments = append(call.Arguments, arg)
		index = next

		if !lexer.TokenIs(lexer.SymbolToken(lexer.SymbolComma), p.tokens, index) {
			break
		}
		index++
	}

	if _, err := p.expect(index, lexer.SymbolToken(lexer.SymbolParenClose), "Expected closing parenthesis."); err != nil {
		return nil, index, err
	}
	return call, index + 1, nil
}

// parseInfix parses the right operand of the binary operator at index.
// Left associativity follows from parsing the right side at the operator's
// own precedence.
func (p *Parser) parseInfix(left ast.SubExpression, operator lexer.SourceToken, index int, precedence Precedence) (ast.SubExpression, int, error) {
	op, ok := infixOperators[operator.Token.Symbol]
	if !ok {
		return nil, index, unknownSymbol(operator)
	}

	right, index, err := p.parseSubExpression(index+1, precedence)
	if err != nil {
		return nil, index, err
	}
	return &ast.Infix{Operator: op, Left: left, Right: right}, index, nil
}

func unknownSymbol(tok lexer.SourceToken) error {
	return diagnostic.NewFailure(fmt.Sprintf("Unknown symbol '%s'.", tok.Token.Symbol), tok.Span)
}
