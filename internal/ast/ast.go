// Package ast defines the node hierarchy produced by the parser: the
// categories Identifier, Expression,
// Statement, Declaration, Initialization, TypeNode, ScriptRoot), each node
// carrying the source span needed to rebuild diagnostics.
package ast

import "github.com/strandscript/libscript/internal/source"

// Node is the base of every AST node.
type Node interface {
	// Span returns the source range the node was parsed from.
	Span() source.Span
	// String renders a compact debug form, not a source pretty-printer.
	String() string
}

type span struct{ Location source.Span }

func (s span) Span() source.Span { return s.Location }

// SetSpan attaches a source span to a node after construction. Nodes are
// built field-by-field by the parser, which (being outside this package)
// cannot set the unexported embedded span directly; SetSpan is the seam
// for that.
func (s *span) SetSpan(sp source.Span) { s.Location = sp }

// Identifier is any of the name forms the parser recognizes: a plain name,
// an operator name, a literal-operator name, a template-id, or a
// scoped (qualified) name. Identifiers double as primary expressions so a
// bare name can be used directly wherever an Expression is expected,
// matching how C-family grammars treat id-expressions.
type Identifier interface {
	Node
	Expression
	identifierNode()
}

// Expression is any node that yields a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action without yielding a value.
type Statement interface {
	Node
	statementNode()
}

// Declaration introduces a name (or a group of names, for namespaces) into
// a scope.
type Declaration interface {
	Node
	declarationNode()
}

// Initialization is the initializer form attached to a variable declarator:
// default, copy (`= expr`), direct (`(args)`) or list (`{elems}`).
type Initialization interface {
	Node
	initializationNode()
}

// TypeNode is any parsed type-id: named, qualified, auto, or function type.
type TypeNode interface {
	Node
	typeNode()
}

// ScriptRoot is the parse result for one compiled unit.
type ScriptRoot interface {
	Node
	scriptRootNode()
}

// TranslationUnit is the root node: an ordered sequence of top-level
// declarations and import directives.
type TranslationUnit struct {
	span
	Declarations []Declaration
}

func (*TranslationUnit) scriptRootNode() {}

// TopLevelStatement wraps a statement appearing at script scope (outside
// any function), the command-style surface an embedding host compiles and
// runs in declaration order after every function body is compiled.
type TopLevelStatement struct {
	span
	Stmt Statement
}

func (*TopLevelStatement) declarationNode()  {}
func (t *TopLevelStatement) String() string { return t.Stmt.String() }
func (t *TranslationUnit) String() string {
	return "TranslationUnit(" + itoa(len(t.Declarations)) + " decls)"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
