package ast

import (
	"fmt"
	"sort"
	"strings"
)

// PrettyPrint renders a file as indented source-like text. Declarations are
// sorted by name so the output is stable.
func PrettyPrint(file *File) string {
	printer := &astPrinter{}
	printer.printFile(file)
	return printer.out.String()
}

type astPrinter struct {
	out    strings.Builder
	indent int
}

func (p *astPrinter) line(format string, args ...interface{}) {
	p.out.WriteString(strings.Repeat("    ", p.indent))
	fmt.Fprintf(&p.out, format, args...)
	p.out.WriteString("\n")
}

func (p *astPrinter) printFile(file *File) {
	p.line("namespace %s", file.Namespace)

	aliases := sortedKeys(file.Uses)
	for _, alias := range aliases {
		u := file.Uses[alias]
		if u.Alias() == alias {
			p.line("use %s;", u.Identifier)
		} else {
			p.line("use %s as %s;", u.Identifier, alias)
		}
	}

	for _, name := range sortedKeys(file.Functions) {
		p.out.WriteString("\n")
		switch fn := file.Functions[name].(type) {
		case *DefinedFunction:
			p.printDefinedFunction(fn)
		case *AnonymousFunction:
			p.line("fn(%s): %s {", formatArguments(sortedKeys(fn.Arguments), fn.Arguments), fn.Returns)
			p.printBody(fn.Body)
			p.line("}")
		}
	}
}

func (p *astPrinter) printDefinedFunction(fn *DefinedFunction) {
	prefix := "fn"
	if fn.Visibility != Private {
		prefix = fn.Visibility.String() + " fn"
	}

	order := fn.ArgumentOrder
	if len(order) != len(fn.Arguments) {
		order = sortedKeys(fn.Arguments)
	}

	p.line("%s %s(%s): %s {", prefix, fn.Identifier, formatArguments(order, fn.Arguments), fn.Returns)
	p.printBody(fn.Body)
	p.line("}")
}

func (p *astPrinter) printBody(body []Expression) {
	p.indent++
	for _, expr := range body {
		p.out.WriteString(strings.Repeat("    ", p.indent))
		expr.writeTo(&p.out)
		p.out.WriteString("\n")
	}
	p.indent--
}

func formatArguments(order []string, args map[string]*ResolvedType) string {
	parts := make([]string, 0, len(order))
	for _, name := range order {
		parts = append(parts, fmt.Sprintf("%s: %s", name, args[name]))
	}
	return strings.Join(parts, ", ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
