// Package ir is the typed program representation handed to the
// interpreter: a tree of expressions and statements, each expression
// carrying its resolved type. It depends only on internal/types — callee
// and class references are expressed through the FunctionRef/ClassRef
// interfaces below, which internal/symbols.Function and
// internal/symbols.Class satisfy, so the dependency runs ir -> types only
// and never symbols -> ir -> symbols.
package ir

import "github.com/strandscript/libscript/internal/types"

// FunctionRef is the minimal view expr nodes need of a callable function
// symbol, satisfied by *internal/symbols.Function.
type FunctionRef interface {
	FuncName() string
	FuncPrototype() types.Prototype
}

// ClassRef is the minimal view expr nodes need of a class symbol,
// satisfied by *internal/symbols.Class.
type ClassRef interface {
	ClassName() string
}

// Expr is any IR expression node; every node reports its resolved type
//.
type Expr interface {
	ExprType() types.Type
	exprNode()
}

type exprBase struct{ Type types.Type }

func (e exprBase) ExprType() types.Type { return e.Type }
func (exprBase) exprNode()              {}

// Literal is a fully-decoded compile-time constant value materialized via
// the host value factory.
type Literal struct {
	exprBase
	Value any
}

// Copy wraps Inner with a copy-construction of its value (the semantic
// compiler's generic "materialize a copy" node, used wherever a binding
// takes value semantics).
type Copy struct {
	exprBase
	Inner Expr
}

// FundamentalConversion applies a numeric/bool/char promotion or
// demotion.
type FundamentalConversion struct {
	exprBase
	Inner     Expr
	Narrowing bool
}

// ConstructorCall invokes Constructor on a fresh value of Class with
// Arguments already converted to the constructor's parameter types.
type ConstructorCall struct {
	exprBase
	Class       ClassRef
	Constructor FunctionRef
	Arguments   []Expr
}

// FunctionCall is a direct (non-virtual, non-functor) call to Callee.
type FunctionCall struct {
	exprBase
	Callee    FunctionRef
	Object    Expr // non-nil for an implicit-object member call
	Arguments []Expr
}

// VirtualCall dispatches through Object's vtable at VTableIndex rather
// than calling Callee directly: an unqualified call through a virtual
// member dispatches dynamically.
type VirtualCall struct {
	exprBase
	Object      Expr
	Callee      FunctionRef
	VTableIndex int
	Arguments   []Expr
}

// FunctionVariableCall invokes a function-typed value (a function
// pointer, lambda-by-value, or bound member) rather than a named overload
// set.
type FunctionVariableCall struct {
	exprBase
	Target    Expr
	Arguments []Expr
}

// MemberAccess reads data member Index of Object's class.
type MemberAccess struct {
	exprBase
	Object Expr
	Class  ClassRef
	Index  int
}

// StackValue reads a function-local slot by index.
type StackValue struct {
	exprBase
	Index int
}

// FetchGlobal reads a namespace-scope global variable by index.
type FetchGlobal struct {
	exprBase
	Index int
}

// CaptureAccess reads a lambda closure's captured-slot by index.
type CaptureAccess struct {
	exprBase
	Index int
}

// ArraySubscript is `a[i]` lowered via operator[] overload resolution.
type ArraySubscript struct {
	exprBase
	Target FunctionRef // the selected operator[] overload
	Array  Expr
	Index  Expr
}

// ArrayExpression is the bracketed array-literal form, instantiating
// Array<T> with one copy-initialized element per entry.
type ArrayExpression struct {
	exprBase
	Elements []Expr
}

// InitializerList is a brace-list still in list form after initialization
// analysis attached per-element conversions: the argument handed to an
// initializer-list constructor, an aggregate initialization of a class, or
// a list expression not yet consumed by an initialization.
type InitializerList struct {
	exprBase
	Elements []Expr
}

// ConditionalExpression is `cond ? then : else` after both branches were
// converted to their common type.
type ConditionalExpression struct {
	exprBase
	Condition Expr
	Then      Expr
	Else      Expr
}

// LambdaExpression constructs a closure value: Captures are already-
// lowered expressions (by-value copies or by-reference bindings) for the
// closure's data members, in declaration order matching the closure
// class's data members.
type LambdaExpression struct {
	exprBase
	Closure  ClassRef
	Captures []Expr
}

// BindExpression partially binds Object as the implicit first argument of
// Callee, producing a function-typed value (used when a bound member
// function is used as a value rather than immediately called).
type BindExpression struct {
	exprBase
	Object Expr
	Callee FunctionRef
}

// BinaryOp applies a built-in fundamental binary operator (arithmetic,
// comparison, logical, bitwise, or string concatenation) directly, for
// operand types with no user-defined overload candidate in scope —
// distinct from FunctionCall, which carries a resolved operator overload.
type BinaryOp struct {
	exprBase
	Operator string
	Left     Expr
	Right    Expr
}

// UnaryOp applies a built-in fundamental prefix operator, or a postfix
// increment/decrement when Postfix is set.
type UnaryOp struct {
	exprBase
	Operator string
	Operand  Expr
	Postfix  bool
}
