package ir

import "github.com/strandscript/libscript/internal/types"

// Constructors for each node kind: exprBase/stmtBase are unexported so
// internal/compiler (the only producer of IR) cannot build these nodes
// via a keyed composite literal from outside the package; these functions
// are the seam instead, keeping ExprType()/the tagged marker methods
// private to this package while letting the compiler populate every
// field in one call.

func NewLiteral(t types.Type, value any) *Literal {
	return &Literal{exprBase: exprBase{Type: t}, Value: value}
}

func NewCopy(t types.Type, inner Expr) *Copy {
	return &Copy{exprBase: exprBase{Type: t}, Inner: inner}
}

func NewFundamentalConversion(t types.Type, inner Expr, narrowing bool) *FundamentalConversion {
	return &FundamentalConversion{exprBase: exprBase{Type: t}, Inner: inner, Narrowing: narrowing}
}

func NewConstructorCall(t types.Type, class ClassRef, ctor FunctionRef, args []Expr) *ConstructorCall {
	return &ConstructorCall{exprBase: exprBase{Type: t}, Class: class, Constructor: ctor, Arguments: args}
}

func NewFunctionCall(t types.Type, callee FunctionRef, object Expr, args []Expr) *FunctionCall {
	return &FunctionCall{exprBase: exprBase{Type: t}, Callee: callee, Object: object, Arguments: args}
}

func NewVirtualCall(t types.Type, object Expr, callee FunctionRef, vtableIndex int, args []Expr) *VirtualCall {
	return &VirtualCall{exprBase: exprBase{Type: t}, Object: object, Callee: callee, VTableIndex: vtableIndex, Arguments: args}
}

func NewFunctionVariableCall(t types.Type, target Expr, args []Expr) *FunctionVariableCall {
	return &FunctionVariableCall{exprBase: exprBase{Type: t}, Target: target, Arguments: args}
}

func NewMemberAccess(t types.Type, object Expr, class ClassRef, index int) *MemberAccess {
	return &MemberAccess{exprBase: exprBase{Type: t}, Object: object, Class: class, Index: index}
}

func NewStackValue(t types.Type, index int) *StackValue {
	return &StackValue{exprBase: exprBase{Type: t}, Index: index}
}

func NewFetchGlobal(t types.Type, index int) *FetchGlobal {
	return &FetchGlobal{exprBase: exprBase{Type: t}, Index: index}
}

func NewCaptureAccess(t types.Type, index int) *CaptureAccess {
	return &CaptureAccess{exprBase: exprBase{Type: t}, Index: index}
}

func NewArraySubscript(t types.Type, target FunctionRef, array, index Expr) *ArraySubscript {
	return &ArraySubscript{exprBase: exprBase{Type: t}, Target: target, Array: array, Index: index}
}

func NewArrayExpression(t types.Type, elements []Expr) *ArrayExpression {
	return &ArrayExpression{exprBase: exprBase{Type: t}, Elements: elements}
}

func NewInitializerList(t types.Type, elements []Expr) *InitializerList {
	return &InitializerList{exprBase: exprBase{Type: t}, Elements: elements}
}

func NewConditionalExpression(t types.Type, cond, then, els Expr) *ConditionalExpression {
	return &ConditionalExpression{exprBase: exprBase{Type: t}, Condition: cond, Then: then, Else: els}
}

func NewLambdaExpression(t types.Type, closure ClassRef, captures []Expr) *LambdaExpression {
	return &LambdaExpression{exprBase: exprBase{Type: t}, Closure: closure, Captures: captures}
}

func NewBindExpression(t types.Type, object Expr, callee FunctionRef) *BindExpression {
	return &BindExpression{exprBase: exprBase{Type: t}, Object: object, Callee: callee}
}

func NewBinaryOp(t types.Type, operator string, left, right Expr) *BinaryOp {
	return &BinaryOp{exprBase: exprBase{Type: t}, Operator: operator, Left: left, Right: right}
}

func NewUnaryOp(t types.Type, operator string, operand Expr, postfix bool) *UnaryOp {
	return &UnaryOp{exprBase: exprBase{Type: t}, Operator: operator, Operand: operand, Postfix: postfix}
}

func NewExpressionStmt(e Expr) *ExpressionStmt { return &ExpressionStmt{Expr: e} }

func NewCompoundStmt(stmts []Stmt, destructors []Expr) *CompoundStmt {
	return &CompoundStmt{Statements: stmts, Destructors: destructors}
}

func NewIfStmt(cond Expr, then, els Stmt) *IfStmt {
	return &IfStmt{Condition: cond, Then: then, Else: els}
}

func NewWhileStmt(cond Expr, body Stmt) *WhileStmt { return &WhileStmt{Condition: cond, Body: body} }

func NewForStmt(init Stmt, cond, post Expr, body Stmt) *ForStmt {
	return &ForStmt{Init: init, Condition: cond, Post: post, Body: body}
}

func NewReturnStmt(value Expr, destructors []Expr) *ReturnStmt {
	return &ReturnStmt{Value: value, Destructors: destructors}
}

func NewBreakStmt(destructors []Expr) *BreakStmt { return &BreakStmt{Destructors: destructors} }

func NewContinueStmt(destructors []Expr) *ContinueStmt {
	return &ContinueStmt{Destructors: destructors}
}

func NewPopDataMemberStmt(object Expr, index int) *PopDataMemberStmt {
	return &PopDataMemberStmt{Object: object, Index: index}
}
