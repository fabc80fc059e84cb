// Package parser implements the Quill recursive descent parser.
//
// Every routine works on one shared token slice and an explicit cursor: it is
// given the index of the next token to consume and returns the index of the
// first token it did not consume. Parsing is fail-fast; the first failure is
// returned as a *diagnostic.Failure and no partial file is produced.
package parser

import (
	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/diagnostic"
	"github.com/quill-lang/quill/internal/lexer"
	"github.com/quill-lang/quill/internal/position"
)

// DefaultMaxDepth bounds sub-expression nesting.
const DefaultMaxDepth = 256

// Option configures a Parser
type Option func(*Parser)

// WithMaxDepth sets the maximum sub-expression nesting depth.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

// Parser represents the recursive descent parser
type Parser struct {
	tokens []lexer.SourceToken     // comment-free view of the lexer output
	blocks map[int]lexer.CodeBlock // code blocks re-indexed into tokens
	file   *ast.File

	maxDepth int
	depth    int
}

// New creates a parser over a lexed file that adds declarations to file.
func New(result *lexer.Result, file *ast.File, opts ...Option) *Parser {
	tokens, blocks := stripComments(result)

	p := &Parser{
		tokens:   tokens,
		blocks:   blocks,
		file:     file,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// ParseFile converts lexed tokens into a File in the given namespace.
func ParseFile(result *lexer.Result, namespace string, opts ...Option) (*ast.File, error) {
	file := ast.NewFile(namespace, result.CodeBlocks)
	if err := New(result, file, opts...).ParseDeclarations(); err != nil {
		return nil, err
	}
	return file, nil
}

// ParseSource lexes and parses one source file.
func ParseSource(source []byte, namespace string, opts ...Option) (*ast.File, error) {
	result, err := lexer.Lex(source)
	if err != nil {
		return nil, err
	}
	return ParseFile(result, namespace, opts...)
}

// ParseStatements lexes and parses a sequence of function-body statements,
// resolving types against file.
func ParseStatements(source []byte, file *ast.File, opts ...Option) ([]ast.Expression, error) {
	result, err := lexer.Lex(source)
	if err != nil {
		return nil, err
	}
	return New(result, file, opts...).ParseStatements()
}

// ParseDeclarations parses use statements and function definitions until the
// tokens run out, adding them to the parser's file. Later declarations with the
// same name replace earlier ones.
func (p *Parser) ParseDeclarations() error {
	index := 0
	for index < len(p.tokens) {
		token := p.tokens[index]

		var err error
		switch {
		case token.Token.IsKeyword(lexer.KeywordUse):
			index, err = p.parseUse(index)
		case token.Token.IsKeyword(lexer.KeywordFunction), token.Token.IsKeyword(lexer.KeywordPublic):
			index, err = p.parseFunction(index)
		case token.Token.Kind == lexer.TokenKeyword:
			err = diagnostic.NewFailure("Invalid keyword, expected one of: use, fn, public.", token.Span)
		default:
			err = diagnostic.NewFailure("Expected a use statement, function definition, or comment.", token.Span)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// ParseStatements parses statements until the tokens run out.
func (p *Parser) ParseStatements() ([]ast.Expression, error) {
	var expressions []ast.Expression

	index := 0
	for index < len(p.tokens) {
		expr, next, err := p.parseExpression(index)
		if err != nil {
			return nil, err
		}
		expressions = append(expressions, expr)
		index = next
	}

	return expressions, nil
}

// previous returns the last token consumed before index. Before the first
// token it returns a placeholder at the start of the source.
func (p *Parser) previous(index int) lexer.SourceToken {
	index = min(index, len(p.tokens))
	if index <= 0 {
		return lexer.SourceToken{Span: position.NewSpan(1, 1, 1, 1)}
	}
	return p.tokens[index-1]
}

// expect requires the token at index to equal expected.
func (p *Parser) expect(index int, expected lexer.Token, message string) (lexer.SourceToken, error) {
	tok, _, err := lexer.GetNextToken(p.tokens, index, p.previous(index), lexer.Is(expected), message)
	return tok, err
}

// stripComments drops comment tokens and re-indexes the code blocks so they
// point into the filtered slice. Braces are never comments, so every block
// survives.
func stripComments(result *lexer.Result) ([]lexer.SourceToken, map[int]lexer.CodeBlock) {
	remap := make([]int, len(result.Tokens))
	tokens := make([]lexer.SourceToken, 0, len(result.Tokens))

	for i, tok := range result.Tokens {
		remap[i] = len(tokens)
		if tok.Token.Kind == lexer.TokenComment {
			continue
		}
		tokens = append(tokens, tok)
	}

	blocks := make(map[int]lexer.CodeBlock, len(result.CodeBlocks))
	for _, block := range result.CodeBlocks {
		start := remap[block.Start]
		blocks[start] = lexer.CodeBlock{Start: start, End: remap[block.End]}
	}

	return tokens, blocks
}
