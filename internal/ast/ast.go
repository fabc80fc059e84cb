// Package ast defines the syntax tree produced by the Quill parser.
//
// A File owns its declarations; every node exclusively owns its children and
// the tree never contains cycles.
package ast

import (
	"strconv"
	"strings"

	"github.com/quill-lang/quill/internal/lexer"
	"github.com/quill-lang/quill/internal/position"
)

// File is the parse result for one source file.
type File struct {
	Namespace string
	Uses      map[string]*Use     // keyed by the final path segment
	Functions map[string]Function // keyed by function name
	// CodeBlocks are the lexer's matched braces, keyed by opening token index.
	CodeBlocks map[int]lexer.CodeBlock
}

// NewFile creates an empty file in the given namespace
func NewFile(namespace string, codeBlocks map[int]lexer.CodeBlock) *File {
	if codeBlocks == nil {
		codeBlocks = make(map[int]lexer.CodeBlock)
	}
	return &File{
		Namespace:  namespace,
		Uses:       make(map[string]*Use),
		Functions:  make(map[string]Function),
		CodeBlocks: codeBlocks,
	}
}

// Use is an import of a dotted namespace path.
type Use struct {
	Identifier string // full dotted path
	Span       position.Span
}

// Alias returns the name the use is referred to by: its final path segment.
func (u *Use) Alias() string {
	return u.Identifier[strings.LastIndexByte(u.Identifier, '.')+1:]
}

// TypeReference returns the fully qualified reference
func (u *Use) TypeReference() string {
	return u.Identifier
}

// ResolvedType is a type reference qualified with its owning namespace.
type ResolvedType struct {
	Namespace  string
	Identifier string
	// Span is set only when the type was written in source.
	Span *position.Span
}

// TypeReference returns the fully qualified reference
func (t *ResolvedType) TypeReference() string {
	return AsTypeReference(t.Namespace, t.Identifier)
}

func (t *ResolvedType) String() string {
	return t.TypeReference()
}

// AsTypeReference joins a namespace and an identifier
func AsTypeReference(namespace, identifier string) string {
	return namespace + "." + identifier
}

// Visibility of a declaration
type Visibility int

const (
	Private Visibility = iota
	Public
	Protected
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Protected:
		return "protected"
	default:
		return "private"
	}
}

// Block is anything holding an ordered body of expressions.
type Block interface {
	Expressions() []Expression
}

// Function is either a DefinedFunction or an AnonymousFunction.
type Function interface {
	Block
	functionNode()
}

// DefinedFunction is a named, top-level function.
type DefinedFunction struct {
	Identifier     string
	IdentifierSpan position.Span
	Visibility     Visibility
	VisibilitySpan *position.Span // span of the fn keyword after public, nil when implicit
	Arguments      map[string]*ResolvedType
	ArgumentOrder  []string // argument names in declaration order, without duplicates
	Body           []Expression
	Returns        *ResolvedType
}

func (f *DefinedFunction) Expressions() []Expression { return f.Body }
func (f *DefinedFunction) functionNode()             {}

// AnonymousFunction is reserved for closures; the parser does not produce it yet.
type AnonymousFunction struct {
	Arguments map[string]*ResolvedType
	Returns   *ResolvedType
	Body      []Expression
}

func (f *AnonymousFunction) Expressions() []Expression { return f.Body }
func (f *AnonymousFunction) functionNode()             {}

// ===== Expressions =====

// Expression is a single statement inside a function body.
type Expression interface {
	String() string
	writeTo(b *strings.Builder)
	expressionNode()
}

// SubExpression is a node of an expression tree.
type SubExpression interface {
	String() string
	writeTo(b *strings.Builder)
	subExpressionNode()
}

// render writes a node and its whole subtree into one builder, so printing
// stays linear in the size of the tree.
func render(node interface{ writeTo(*strings.Builder) }) string {
	var b strings.Builder
	node.writeTo(&b)
	return b.String()
}

// VariableDeclaration is `let name: Type = value;`
type VariableDeclaration struct {
	Identifier     string
	IdentifierSpan position.Span
	VariableType   *ResolvedType
	Value          SubExpression
}

func (v *VariableDeclaration) String() string { return render(v) }
func (v *VariableDeclaration) writeTo(b *strings.Builder) {
	b.WriteString("let ")
	b.WriteString(v.Identifier)
	b.WriteString(": ")
	b.WriteString(v.VariableType.String())
	b.WriteString(" = ")
	v.Value.writeTo(b)
	b.WriteByte(';')
}
func (v *VariableDeclaration) expressionNode() {}

// Return is `return value;`
type Return struct {
	Value SubExpression
}

func (r *Return) String() string { return render(r) }
func (r *Return) writeTo(b *strings.Builder) {
	b.WriteString("return ")
	r.Value.writeTo(b)
	b.WriteByte(';')
}
func (r *Return) expressionNode() {}

// ExpressionStatement is a sub-expression evaluated for its effect.
type ExpressionStatement struct {
	Value SubExpression
}

func (e *ExpressionStatement) String() string { return render(e) }
func (e *ExpressionStatement) writeTo(b *strings.Builder) {
	e.Value.writeTo(b)
	b.WriteByte(';')
}
func (e *ExpressionStatement) expressionNode() {}

// ===== Sub-expressions =====

// FunctionCall applies a named function to arguments
type FunctionCall struct {
	Name      string
	Arguments []SubExpression
}

func (c *FunctionCall) String() string { return render(c) }
func (c *FunctionCall) writeTo(b *strings.Builder) {
	b.WriteString(c.Name)
	b.WriteByte('(')
	for i, arg := range c.Arguments {
		if i > 0 {
			b.WriteString(", ")
		}
		arg.writeTo(b)
	}
	b.WriteByte(')')
}
func (c *FunctionCall) subExpressionNode() {}

// StringLiteral is a quoted string
type StringLiteral struct {
	Value string
}

func (s *StringLiteral) String() string             { return strconv.Quote(s.Value) }
func (s *StringLiteral) writeTo(b *strings.Builder) { b.WriteString(strconv.Quote(s.Value)) }
func (s *StringLiteral) subExpressionNode()         {}

// IntegerLiteral is a 64-bit signed integer
type IntegerLiteral struct {
	Value int64
}

func (i *IntegerLiteral) String() string             { return strconv.FormatInt(i.Value, 10) }
func (i *IntegerLiteral) writeTo(b *strings.Builder) { b.WriteString(strconv.FormatInt(i.Value, 10)) }
func (i *IntegerLiteral) subExpressionNode()         {}

// Variable is a reference to a named value
type Variable struct {
	Name string
}

func (v *Variable) String() string             { return v.Name }
func (v *Variable) writeTo(b *strings.Builder) { b.WriteString(v.Name) }
func (v *Variable) subExpressionNode()         {}

// PrefixOperator is a unary operator, or grouping parentheses
type PrefixOperator int

const (
	PrefixNot PrefixOperator = iota
	PrefixMinus
	PrefixPlus
	PrefixGroup
)

// Prefix applies a unary operator to its operand
type Prefix struct {
	Operator PrefixOperator
	Operand  SubExpression
}

func (p *Prefix) String() string { return render(p) }
func (p *Prefix) writeTo(b *strings.Builder) {
	switch p.Operator {
	case PrefixNot:
		b.WriteByte('!')
	case PrefixMinus:
		b.WriteByte('-')
	case PrefixPlus:
		b.WriteByte('+')
	default:
		b.WriteByte('(')
		p.Operand.writeTo(b)
		b.WriteByte(')')
		return
	}
	p.Operand.writeTo(b)
}
func (p *Prefix) subExpressionNode() {}

// InfixOperator is a binary operator
type InfixOperator int

const (
	InfixAdd InfixOperator = iota
	InfixSub
)

func (op InfixOperator) String() string {
	if op == InfixSub {
		return "-"
	}
	return "+"
}

// Infix applies a binary operator
type Infix struct {
	Operator InfixOperator
	Left     SubExpression
	Right    SubExpression
}

func (i *Infix) String() string { return render(i) }
func (i *Infix) writeTo(b *strings.Builder) {
	b.WriteByte('(')
	i.Left.writeTo(b)
	b.WriteByte(' ')
	b.WriteString(i.Operator.String())
	b.WriteByte(' ')
	i.Right.writeTo(b)
	b.WriteByte(')')
}
func (i *Infix) subExpressionNode() {}
