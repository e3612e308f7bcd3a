package ir

import (
	"fmt"
	"strings"

	"github.com/strandscript/libscript/internal/types"
)

// DumpStmt renders a statement tree as an indented one-node-per-line
// listing, the debug form the CLI's `ir` subcommand and the snapshot
// tests print. Types render through sys when provided, as bare tags
// otherwise.
func DumpStmt(s Stmt, sys *types.System) string {
	var b strings.Builder
	dumpStmt(&b, s, sys, 0)
	return b.String()
}

// DumpExpr renders an expression tree the same way.
func DumpExpr(e Expr, sys *types.System) string {
	var b strings.Builder
	dumpExpr(&b, e, sys, 0)
	return b.String()
}

func typeName(t types.Type, sys *types.System) string {
	if sys != nil {
		return sys.TypeName(t)
	}
	return fmt.Sprintf("%s#%d", t.Kind, t.Code)
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

func dumpStmt(b *strings.Builder, s Stmt, sys *types.System, depth int) {
	indent(b, depth)
	switch n := s.(type) {
	case nil:
		b.WriteString("<nil>\n")
	case *ExpressionStmt:
		b.WriteString("Expression\n")
		dumpExpr(b, n.Expr, sys, depth+1)
	case *CompoundStmt:
		fmt.Fprintf(b, "Compound (%d statements, %d destructors)\n", len(n.Statements), len(n.Destructors))
		for _, inner := range n.Statements {
			dumpStmt(b, inner, sys, depth+1)
		}
	case *IfStmt:
		b.WriteString("If\n")
		dumpExpr(b, n.Condition, sys, depth+1)
		dumpStmt(b, n.Then, sys, depth+1)
		if n.Else != nil {
			dumpStmt(b, n.Else, sys, depth+1)
		}
	case *WhileStmt:
		b.WriteString("While\n")
		dumpExpr(b, n.Condition, sys, depth+1)
		dumpStmt(b, n.Body, sys, depth+1)
	case *ForStmt:
		b.WriteString("For\n")
		if n.Init != nil {
			dumpStmt(b, n.Init, sys, depth+1)
		}
		if n.Condition != nil {
			dumpExpr(b, n.Condition, sys, depth+1)
		}
		if n.Post != nil {
			dumpExpr(b, n.Post, sys, depth+1)
		}
		dumpStmt(b, n.Body, sys, depth+1)
	case *ReturnStmt:
		fmt.Fprintf(b, "Return (%d destructors)\n", len(n.Destructors))
		if n.Value != nil {
			dumpExpr(b, n.Value, sys, depth+1)
		}
	case *BreakStmt:
		fmt.Fprintf(b, "Break (%d destructors)\n", len(n.Destructors))
	case *ContinueStmt:
		fmt.Fprintf(b, "Continue (%d destructors)\n", len(n.Destructors))
	case *PopDataMemberStmt:
		fmt.Fprintf(b, "PopDataMember [%d]\n", n.Index)
	default:
		fmt.Fprintf(b, "%T\n", s)
	}
}

func dumpExpr(b *strings.Builder, e Expr, sys *types.System, depth int) {
	indent(b, depth)
	switch n := e.(type) {
	case nil:
		b.WriteString("<nil>\n")
	case *Literal:
		fmt.Fprintf(b, "Literal %v : %s\n", n.Value, typeName(n.Type, sys))
	case *Copy:
		fmt.Fprintf(b, "Copy : %s\n", typeName(n.Type, sys))
		dumpExpr(b, n.Inner, sys, depth+1)
	case *FundamentalConversion:
		fmt.Fprintf(b, "FundamentalConversion : %s\n", typeName(n.Type, sys))
		dumpExpr(b, n.Inner, sys, depth+1)
	case *ConstructorCall:
		fmt.Fprintf(b, "ConstructorCall %s : %s\n", n.Class.ClassName(), typeName(n.Type, sys))
		for _, a := range n.Arguments {
			dumpExpr(b, a, sys, depth+1)
		}
	case *FunctionCall:
		fmt.Fprintf(b, "FunctionCall %s : %s\n", n.Callee.FuncName(), typeName(n.Type, sys))
		if n.Object != nil {
			dumpExpr(b, n.Object, sys, depth+1)
		}
		for _, a := range n.Arguments {
			dumpExpr(b, a, sys, depth+1)
		}
	case *VirtualCall:
		fmt.Fprintf(b, "VirtualCall %s [slot %d] : %s\n", n.Callee.FuncName(), n.VTableIndex, typeName(n.Type, sys))
		dumpExpr(b, n.Object, sys, depth+1)
		for _, a := range n.Arguments {
			dumpExpr(b, a, sys, depth+1)
		}
	case *FunctionVariableCall:
		fmt.Fprintf(b, "FunctionVariableCall : %s\n", typeName(n.Type, sys))
		dumpExpr(b, n.Target, sys, depth+1)
		for _, a := range n.Arguments {
			dumpExpr(b, a, sys, depth+1)
		}
	case *MemberAccess:
		fmt.Fprintf(b, "MemberAccess %s[%d] : %s\n", n.Class.ClassName(), n.Index, typeName(n.Type, sys))
		dumpExpr(b, n.Object, sys, depth+1)
	case *StackValue:
		fmt.Fprintf(b, "StackValue [%d] : %s\n", n.Index, typeName(n.Type, sys))
	case *FetchGlobal:
		fmt.Fprintf(b, "FetchGlobal [%d] : %s\n", n.Index, typeName(n.Type, sys))
	case *CaptureAccess:
		fmt.Fprintf(b, "CaptureAccess [%d] : %s\n", n.Index, typeName(n.Type, sys))
	case *ArraySubscript:
		fmt.Fprintf(b, "ArraySubscript : %s\n", typeName(n.Type, sys))
		dumpExpr(b, n.Array, sys, depth+1)
		dumpExpr(b, n.Index, sys, depth+1)
	case *ArrayExpression:
		fmt.Fprintf(b, "ArrayExpression (%d elements) : %s\n", len(n.Elements), typeName(n.Type, sys))
		for _, el := range n.Elements {
			dumpExpr(b, el, sys, depth+1)
		}
	case *InitializerList:
		fmt.Fprintf(b, "InitializerList (%d elements) : %s\n", len(n.Elements), typeName(n.Type, sys))
		for _, el := range n.Elements {
			dumpExpr(b, el, sys, depth+1)
		}
	case *ConditionalExpression:
		fmt.Fprintf(b, "Conditional : %s\n", typeName(n.Type, sys))
		dumpExpr(b, n.Condition, sys, depth+1)
		dumpExpr(b, n.Then, sys, depth+1)
		dumpExpr(b, n.Else, sys, depth+1)
	case *LambdaExpression:
		fmt.Fprintf(b, "Lambda %s (%d captures) : %s\n", n.Closure.ClassName(), len(n.Captures), typeName(n.Type, sys))
		for _, cap := range n.Captures {
			dumpExpr(b, cap, sys, depth+1)
		}
	case *BindExpression:
		fmt.Fprintf(b, "Bind %s : %s\n", n.Callee.FuncName(), typeName(n.Type, sys))
		dumpExpr(b, n.Object, sys, depth+1)
	case *BinaryOp:
		fmt.Fprintf(b, "BinaryOp %q : %s\n", n.Operator, typeName(n.Type, sys))
		dumpExpr(b, n.Left, sys, depth+1)
		dumpExpr(b, n.Right, sys, depth+1)
	case *UnaryOp:
		fmt.Fprintf(b, "UnaryOp %q postfix=%v : %s\n", n.Operator, n.Postfix, typeName(n.Type, sys))
		dumpExpr(b, n.Operand, sys, depth+1)
	default:
		fmt.Fprintf(b, "%T\n", e)
	}
}
