package compiler

import (
	"fmt"

	"github.com/strandscript/libscript/internal/ast"
	"github.com/strandscript/libscript/internal/ir"
	"github.com/strandscript/libscript/internal/symbols"
	"github.com/strandscript/libscript/internal/types"
)

// capturePlan is one resolved lambda capture: its closure data-member slot,
// the stored type, and the already-lowered expression that populates it at
// the construction site.
type capturePlan struct {
	name  string
	t     types.Type
	value ir.Expr
}

// lowerLambdaExpr implements the Lambda rule: resolve the
// capture list against the enclosing function scope (eliding captures the
// body never uses), synthesize a fresh closure class with one data member
// per capture and one operator(), compile the body in a function scope
// where the closure is the implicit first argument, and deduce the return
// type from the body's return statements when it is not written.
func (c *Compiler) lowerLambdaExpr(n *ast.LambdaExpression, scope *symbols.Scope) (ir.Expr, error) {
	used := map[string]bool{}
	collectUsedNames(n.Body, used)

	enclosingFrame, enclosingScope := scope.EnclosingFunction()

	var defaultByRef, haveDefault bool
	for _, cap := range n.Captures {
		if cap.IsDefault {
			if haveDefault {
				return nil, c.Session.report(InvalidLValue, n.Span(), "a lambda may have at most one default capture")
			}
			haveDefault = true
			defaultByRef = cap.Name == "&"
		}
	}

	var plans []capturePlan
	addCapture := func(name string, byRef bool) error {
		for _, p := range plans {
			if p.name == name {
				return nil
			}
		}
		if enclosingFrame == nil {
			return c.Session.report(UnknownIdentifier, n.Span(), "unknown capture name %q", name)
		}
		entry, ok := enclosingFrame.Locals.Lookup(name)
		if !ok {
			return c.Session.report(UnknownIdentifier, n.Span(), "unknown capture name %q", name)
		}
		t := entry.Type.Decayed()
		if byRef {
			t = t.WithReference(true)
		}
		plans = append(plans, capturePlan{name: name, t: t, value: ir.NewStackValue(entry.Type, entry.Index)})
		return nil
	}

	for _, cap := range n.Captures {
		switch {
		case cap.IsDefault:
			// expanded below, after explicit captures
		case cap.IsThis:
			if !used["this"] {
				continue
			}
			if enclosingFrame == nil {
				return nil, c.Session.report(InvalidLValue, n.Span(), "illegal use of 'this' outside a member function")
			}
			entry, ok := enclosingFrame.Locals.Lookup("this")
			if !ok {
				return nil, c.Session.report(InvalidLValue, n.Span(), "illegal use of 'this' outside a member function")
			}
			plans = append(plans, capturePlan{name: "this", t: entry.Type, value: ir.NewStackValue(entry.Type, entry.Index)})
		default:
			if !used[cap.Name] {
				continue
			}
			if err := addCapture(cap.Name, cap.ByReference); err != nil {
				return nil, err
			}
		}
	}
	if haveDefault && enclosingFrame != nil {
		for name := range used {
			if name == "this" {
				continue
			}
			if _, ok := enclosingFrame.Locals.Lookup(name); ok {
				if err := addCapture(name, defaultByRef); err != nil {
					return nil, err
				}
			}
		}
	}

	if c.commandMode && len(plans) > 0 {
		return nil, c.Session.report(InvalidLValue, n.Span(), "a lambda in a command must be captureless")
	}

	closure := symbols.NewClass(fmt.Sprintf("__closure_%d", c.closureCount), scope.EnclosingNamespace())
	c.closureCount++
	closure.SelfType = c.Session.Types.RegisterClass(closure)
	for _, p := range plans {
		closure.AddDataMember(&symbols.DataMember{Name: p.name, Type: p.t, Access: symbols.Private})
	}

	params := []types.Type{closure.SelfType.WithThisParameter(true).WithReference(true)}
	for _, p := range n.Parameters {
		params = append(params, c.resolveTypeOrReport(p.Type, scope))
	}
	ret := types.FromPrimitive(types.Auto)
	deduce := true
	if n.ReturnType != nil {
		ret = c.resolveTypeOrReport(n.ReturnType, scope)
		deduce = false
	}
	callOp := symbols.NewFunction("operator()", types.Prototype{Return: ret, Params: params})
	closure.AddMethod(callOp)

	// The body compiles against the scope OUTSIDE the enclosing function
	// frame: the enclosing function's locals are only reachable through
	// the closure's captures, never as stale stack slots.
	baseScope := scope
	if enclosingScope != nil {
		baseScope = enclosingScope.Parent()
	}

	frame := symbols.FunctionFrame(callOp)
	frame.Locals.Declare("this", params[0])
	for i, p := range n.Parameters {
		name := ""
		if p.Name != nil {
			name = simpleName(p.Name)
		}
		frame.Locals.Declare(name, params[i+1])
	}
	for i, p := range plans {
		frame.Captures = append(frame.Captures, symbols.CaptureBinding{Name: p.name, Type: p.t, Index: i})
	}

	fc := &funcCompiler{c: c, fn: callOp, frame: frame, scope: baseScope.Push(frame), deduceReturn: deduce}
	var stmts []ir.Stmt
	for _, s := range n.Body.Statements {
		lowered, err := fc.lowerStmt(s)
		if err != nil {
			continue
		}
		if lowered != nil {
			stmts = append(stmts, lowered)
		}
	}

	if deduce {
		if fc.sawValueReturn {
			callOp.Prototype.Return = fc.deducedReturn
		} else {
			callOp.Prototype.Return = types.FromPrimitive(types.Void)
		}
	}
	callOp.Body = &ir.FunctionBody{
		ParameterTypes: callOp.Prototype.Params,
		LocalCount:     frame.Locals.Count(),
		Statements:     stmts,
	}

	captureValues := make([]ir.Expr, len(plans))
	for i, p := range plans {
		captureValues[i] = p.value
	}
	return ir.NewLambdaExpression(closure.SelfType, closure, captureValues), nil
}

// collectUsedNames walks a statement/expression tree gathering every
// simple identifier and `this` reference, the usage set capture elision
// filters against.
func collectUsedNames(node ast.Node, used map[string]bool) {
	switch n := node.(type) {
	case nil:
		return
	case *ast.SimpleIdentifier:
		used[n.Name] = true
	case *ast.ThisExpression:
		used["this"] = true
	case *ast.ScopedIdentifier:
		collectUsedNames(n.Left, used)
	case *ast.TemplateIdentifier:
		collectUsedNames(n.Name, used)
	case *ast.BinaryExpression:
		collectUsedNames(n.Left, used)
		collectUsedNames(n.Right, used)
	case *ast.UnaryExpression:
		collectUsedNames(n.Operand, used)
	case *ast.PostfixExpression:
		collectUsedNames(n.Operand, used)
	case *ast.GroupedExpression:
		collectUsedNames(n.Inner, used)
	case *ast.ConditionalExpression:
		collectUsedNames(n.Condition, used)
		collectUsedNames(n.Then, used)
		collectUsedNames(n.Else, used)
	case *ast.CallExpression:
		collectUsedNames(n.Callee, used)
		for _, a := range n.Arguments {
			collectUsedNames(a, used)
		}
	case *ast.SubscriptExpression:
		collectUsedNames(n.Array, used)
		collectUsedNames(n.Index, used)
	case *ast.MemberExpression:
		collectUsedNames(n.Target, used)
	case *ast.BraceConstructionExpression:
		for _, a := range n.Arguments {
			collectUsedNames(a, used)
		}
	case *ast.ArrayExpression:
		for _, e := range n.Elements {
			collectUsedNames(e, used)
		}
	case *ast.ListExpression:
		for _, e := range n.Elements {
			collectUsedNames(e, used)
		}
	case *ast.LambdaExpression:
		for _, cap := range n.Captures {
			if cap.IsThis {
				used["this"] = true
			} else if !cap.IsDefault {
				used[cap.Name] = true
			}
		}
		collectUsedNames(n.Body, used)
	case *ast.ExpressionStatement:
		collectUsedNames(n.Expr, used)
	case *ast.DeclarationStatement:
		if vd, ok := n.Decl.(*ast.VariableDeclaration); ok && vd.Init != nil {
			collectUsedNames(vd.Init, used)
		}
	case *ast.CopyInitialization:
		collectUsedNames(n.Value, used)
	case *ast.DirectInitialization:
		for _, a := range n.Arguments {
			collectUsedNames(a, used)
		}
	case *ast.ListInitialization:
		for _, e := range n.Elements {
			collectUsedNames(e, used)
		}
	case *ast.CompoundStatement:
		for _, s := range n.Statements {
			collectUsedNames(s, used)
		}
	case *ast.IfStatement:
		collectUsedNames(n.Condition, used)
		collectUsedNames(n.Then, used)
		collectUsedNames(n.Else, used)
	case *ast.WhileStatement:
		collectUsedNames(n.Condition, used)
		collectUsedNames(n.Body, used)
	case *ast.ForStatement:
		collectUsedNames(n.Init, used)
		collectUsedNames(n.Cond, used)
		collectUsedNames(n.Post, used)
		collectUsedNames(n.Body, used)
	case *ast.ReturnStatement:
		collectUsedNames(n.Value, used)
	}
}
