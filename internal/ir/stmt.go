package ir

import "github.com/strandscript/libscript/internal/types"

// Stmt is any IR statement node.
type Stmt interface {
	stmtNode()
}

type stmtBase struct{}

func (stmtBase) stmtNode() {}

// ExpressionStmt evaluates Expr and discards its value.
type ExpressionStmt struct {
	stmtBase
	Expr Expr
}

// CompoundStmt is a `{ ... }` block; Destructors lists the destructor
// calls to run (in reverse declaration order) when the block's scope
// exits normally.
type CompoundStmt struct {
	stmtBase
	Statements  []Stmt
	Destructors []Expr
}

// IfStmt is `if (Condition) Then [else Else]`; Condition is already
// converted to bool.
type IfStmt struct {
	stmtBase
	Condition Expr
	Then      Stmt
	Else      Stmt // nil when absent
}

// WhileStmt is `while (Condition) Body`.
type WhileStmt struct {
	stmtBase
	Condition Expr
	Body      Stmt
}

// ForStmt is `for (Init; Condition; Post) Body`; Init/Condition/Post may
// be nil.
type ForStmt struct {
	stmtBase
	Init      Stmt
	Condition Expr
	Post      Expr
	Body      Stmt
}

// ReturnStmt is `return [Value];`; Destructors are the enclosing-scope
// destructor calls emitted before returning.
type ReturnStmt struct {
	stmtBase
	Value       Expr // nil for `return;`
	Destructors []Expr
}

// BreakStmt is `break;`; Destructors are the intervening-scope destructor
// calls emitted before leaving the loop.
type BreakStmt struct {
	stmtBase
	Destructors []Expr
}

// ContinueStmt is `continue;`, with the same destructor-emission rule as
// BreakStmt.
type ContinueStmt struct {
	stmtBase
	Destructors []Expr
}

// PopDataMemberStmt destroys data member Index of the enclosing object,
// emitted during destructor-body lowering in reverse declaration order.
type PopDataMemberStmt struct {
	stmtBase
	Object Expr
	Index  int
}

// FunctionBody is the compiled form of a function's statement list: the
// parameter/local slot layout plus the lowered statements, attached to a
// symbols.Function once compilation succeeds.
type FunctionBody struct {
	ParameterTypes []types.Type
	LocalCount     int
	Statements     []Stmt
}
