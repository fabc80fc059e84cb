package lexer

import (
	"fmt"

	"github.com/quill-lang/quill/internal/position"
)

// TokenKind represents the category of a token
type TokenKind int

const (
	TokenComment TokenKind = iota
	TokenKeyword
	TokenString
	TokenInteger
	TokenIdentifier
	TokenSymbol
	TokenEnd // statement terminator ';'
)

// String returns a string representation of the token kind
func (k TokenKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(k))
}

var kindNames = map[TokenKind]string{
	TokenComment:    "COMMENT",
	TokenKeyword:    "KEYWORD",
	TokenString:     "STRING",
	TokenInteger:    "INTEGER",
	TokenIdentifier: "IDENTIFIER",
	TokenSymbol:     "SYMBOL",
	TokenEnd:        "END",
}

// Keyword is one of the reserved words of the language
type Keyword int

const (
	KeywordFunction Keyword = iota + 1
	KeywordReturn
	KeywordLet
	KeywordClass
	KeywordImplements
	KeywordPublic
	KeywordProtected
	KeywordAbstract
	KeywordStatic
	KeywordUse
)

// keywords maps source spellings to keywords
var keywords = map[string]Keyword{
	"fn":        KeywordFunction,
	"return":    KeywordReturn,
	"let":       KeywordLet,
	"class":     KeywordClass,
	"impl":      KeywordImplements,
	"public":    KeywordPublic,
	"protected": KeywordProtected,
	"abstract":  KeywordAbstract,
	"static":    KeywordStatic,
	"use":       KeywordUse,
}

// LookupKeyword returns the keyword spelled by text, if any.
func LookupKeyword(text string) (Keyword, bool) {
	kw, ok := keywords[text]
	return kw, ok
}

// String returns the source spelling of the keyword
func (k Keyword) String() string {
	for text, kw := range keywords {
		if kw == k {
			return text
		}
	}
	return fmt.Sprintf("keyword(%d)", int(k))
}

// Symbol is a single punctuation character. Its value is the character itself.
type Symbol byte

const (
	SymbolEqual        Symbol = '='
	SymbolParenOpen    Symbol = '('
	SymbolParenClose   Symbol = ')'
	SymbolBraceOpen    Symbol = '{'
	SymbolBraceClose   Symbol = '}'
	SymbolBracketOpen  Symbol = '['
	SymbolBracketClose Symbol = ']'
	SymbolAngleOpen    Symbol = '<'
	SymbolAngleClose   Symbol = '>'
	SymbolComma        Symbol = ','
	SymbolPeriod       Symbol = '.'
	SymbolColon        Symbol = ':'
	SymbolPlus         Symbol = '+'
	SymbolMinus        Symbol = '-'
	SymbolForwardSlash Symbol = '/'
	SymbolExclamation  Symbol = '!'
	SymbolQuestion     Symbol = '?'
	SymbolAsterisk     Symbol = '*'
	SymbolCaret        Symbol = '^'
)

// SymbolFromChar maps a raw source byte to its symbol.
func SymbolFromChar(ch byte) (Symbol, bool) {
	switch s := Symbol(ch); s {
	case SymbolEqual, SymbolParenOpen, SymbolParenClose, SymbolBraceOpen, SymbolBraceClose,
		SymbolBracketOpen, SymbolBracketClose, SymbolAngleOpen, SymbolAngleClose,
		SymbolComma, SymbolPeriod, SymbolColon, SymbolPlus, SymbolMinus,
		SymbolForwardSlash, SymbolExclamation, SymbolQuestion, SymbolAsterisk, SymbolCaret:
		return s, true
	default:
		return 0, false
	}
}

// String returns the symbol's character
func (s Symbol) String() string {
	return string(rune(s))
}

// Token is a lexical token without position. Only the field matching Kind is set,
// so tokens compare with ==.
type Token struct {
	Kind    TokenKind
	Text    string // comment, string literal or identifier text
	Value   int64  // integer literal value
	Keyword Keyword
	Symbol  Symbol
}

func Comment(text string) Token       { return Token{Kind: TokenComment, Text: text} }
func KeywordToken(kw Keyword) Token   { return Token{Kind: TokenKeyword, Keyword: kw} }
func StringLiteral(text string) Token { return Token{Kind: TokenString, Text: text} }
func IntegerLiteral(v int64) Token    { return Token{Kind: TokenInteger, Value: v} }
func Identifier(name string) Token    { return Token{Kind: TokenIdentifier, Text: name} }
func SymbolToken(s Symbol) Token      { return Token{Kind: TokenSymbol, Symbol: s} }
func End() Token                      { return Token{Kind: TokenEnd} }

// IsKeyword reports whether t is the given keyword
func (t Token) IsKeyword(kw Keyword) bool {
	return t.Kind == TokenKeyword && t.Keyword == kw
}

// IsSymbol reports whether t is the given symbol
func (t Token) IsSymbol(s Symbol) bool {
	return t.Kind == TokenSymbol && t.Symbol == s
}

// String returns a string representation of the token
func (t Token) String() string {
	switch t.Kind {
	case TokenComment:
		return fmt.Sprintf("Comment(%q)", t.Text)
	case TokenKeyword:
		return fmt.Sprintf("Keyword(%s)", t.Keyword)
	case TokenString:
		return fmt.Sprintf("StringLiteral(%q)", t.Text)
	case TokenInteger:
		return fmt.Sprintf("IntegerLiteral(%d)", t.Value)
	case TokenIdentifier:
		return fmt.Sprintf("Identifier(%s)", t.Text)
	case TokenSymbol:
		return fmt.Sprintf("Symbol(%s)", t.Symbol)
	case TokenEnd:
		return "End"
	default:
		return t.Kind.String()
	}
}

// SourceToken associates a Token with the span it was read from
type SourceToken struct {
	Token Token
	Span  position.Span
}

// String returns a string representation of the source token
func (st SourceToken) String() string {
	return fmt.Sprintf("%-24s %s", st.Token, st.Span)
}

// CodeBlock names the token indices of an opening brace and its matching closing brace.
type CodeBlock struct {
	Start int
	End   int
}
